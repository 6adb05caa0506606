// Package preflight validates everything a migration needs before any
// destructive or network action runs.
package preflight

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fgeck/dockmigrate/internal/models"
	"github.com/fgeck/dockmigrate/internal/services/ssh"
	"github.com/rs/zerolog"
)

// Service defines the interface for preflight checks.
type Service interface {
	Check(ctx context.Context, cfg models.MigrationConfig) error
}

// Impl implements the preflight Service interface.
type Impl struct {
	clientFactory ssh.ClientFactory
	logger        zerolog.Logger
}

// New creates a new preflight service.
func New(logger zerolog.Logger) *Impl {
	return &Impl{
		clientFactory: &ssh.DefaultClientFactory{},
		logger:        logger,
	}
}

// NewWithClientFactory creates a preflight service with a custom SSH client
// factory (for testing).
func NewWithClientFactory(logger zerolog.Logger, factory ssh.ClientFactory) *Impl {
	return &Impl{
		clientFactory: factory,
		logger:        logger,
	}
}

// Check runs the preflight checks in order, short-circuiting on the first
// failure: source directory exists, key file exists, destination reachable
// over SSH. The SSH probe is the only side effect.
func (s *Impl) Check(ctx context.Context, cfg models.MigrationConfig) error {
	if _, err := os.Stat(cfg.Backup.SourceDir); err != nil {
		return fmt.Errorf("%w: %s", models.ErrSourceDirMissing, cfg.Backup.SourceDir)
	}
	s.logger.Debug().Str("dir", cfg.Backup.SourceDir).Msg("source directory exists")

	if _, err := os.Stat(cfg.SSH.KeyPath); err != nil {
		return fmt.Errorf("%w: %s", models.ErrKeyFileMissing, cfg.SSH.KeyPath)
	}
	s.logger.Debug().Str("key", cfg.SSH.KeyPath).Msg("key file exists")

	if err := s.probe(ctx, cfg.SSH); err != nil {
		return fmt.Errorf("%w: %s: %v", models.ErrDestinationUnreachable, cfg.SSH.Host, err)
	}
	s.logger.Debug().Str("host", cfg.SSH.Host).Msg("destination reachable")

	return nil
}

// probe opens one SSH session to the destination and runs a trivial command.
func (s *Impl) probe(ctx context.Context, cfg models.SSHConfig) error {
	client, err := ssh.Connect(ctx, s.clientFactory, cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	session, err := client.NewSession()
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	defer session.Close()

	output, err := session.CombinedOutput("echo OK")
	if err != nil {
		return fmt.Errorf("probe command failed: %w", err)
	}
	if !strings.Contains(string(output), "OK") {
		return fmt.Errorf("unexpected probe output: %q", string(output))
	}

	return nil
}
