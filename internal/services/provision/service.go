// Package provision drives the destination side of a migration: stop the
// orchestration service, extract the archive over the filesystem root, merge
// authorized_keys and reinstall the platform. All steps run over one SSH
// connection; a fatal step aborts with the destination left as-is — there is
// no rollback of the steps that already ran.
package provision

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fgeck/dockmigrate/internal/authkeys"
	"github.com/fgeck/dockmigrate/internal/models"
	"github.com/fgeck/dockmigrate/internal/services/ssh"
	"github.com/rs/zerolog"
)

// KeysBackupSuffix is appended to the destination authorized_keys path for
// the pre-extraction backup copy. The copy is never cleaned up; it is the
// manual recovery path.
const KeysBackupSuffix = ".backup"

// Service defines the interface for destination provisioning.
type Service interface {
	Provision(ctx context.Context, cfg models.MigrationConfig) (*models.ProvisionResult, error)
}

// Impl implements the provision Service interface.
type Impl struct {
	clientFactory ssh.ClientFactory
	openArchive   func(path string) (io.ReadCloser, error)
	logger        zerolog.Logger
}

// New creates a new provision service.
func New(logger zerolog.Logger) *Impl {
	return &Impl{
		clientFactory: &ssh.DefaultClientFactory{},
		openArchive: func(path string) (io.ReadCloser, error) {
			return os.Open(path)
		},
		logger: logger,
	}
}

// NewWithClientFactory creates a provision service with a custom SSH client
// factory and archive opener (for testing).
func NewWithClientFactory(logger zerolog.Logger, factory ssh.ClientFactory, openArchive func(string) (io.ReadCloser, error)) *Impl {
	return &Impl{
		clientFactory: factory,
		openArchive:   openArchive,
		logger:        logger,
	}
}

// Provision runs the ordered remote steps. Any fatal step surfaces as
// ErrRemoteProvisioningFailed wrapping the step's own error kind; the result
// records which steps ran and which one failed.
func (s *Impl) Provision(ctx context.Context, cfg models.MigrationConfig) (*models.ProvisionResult, error) {
	result := &models.ProvisionResult{}

	client, err := ssh.Connect(ctx, s.clientFactory, cfg.SSH)
	if err != nil {
		result.Error = fmt.Errorf("%w: %w", models.ErrRemoteProvisioningFailed, err)
		return result, result.Error
	}
	defer client.Close()

	steps := []struct {
		name string
		run  func(context.Context, ssh.Client, models.MigrationConfig, *models.ProvisionResult) error
	}{
		{"stop_service", s.stopService},
		{"backup_keys", s.backupKeys},
		{"extract", s.extract},
		{"merge_keys", s.mergeKeys},
		{"install", s.install},
	}

	for _, step := range steps {
		result.StepsRun = append(result.StepsRun, step.name)
		if err := step.run(ctx, client, cfg, result); err != nil {
			result.FailedStep = step.name
			result.Error = fmt.Errorf("%w: %s: %w", models.ErrRemoteProvisioningFailed, step.name, err)
			return result, result.Error
		}
	}

	s.logger.Info().Str("host", cfg.SSH.Host).Msg("destination provisioned")
	return result, nil
}

// runCommand runs one remote command on a fresh session.
func (s *Impl) runCommand(client ssh.Client, cmd string) ([]byte, error) {
	session, err := client.NewSession()
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	defer session.Close()

	s.logger.Debug().Str("command", cmd).Msg("running remote command")
	return session.CombinedOutput(cmd)
}

// stopService stops the destination orchestration service if it is registered
// and active. A unit that is not registered (or not running) is skipped with
// an informational note; a failed stop of an active unit is fatal.
func (s *Impl) stopService(_ context.Context, client ssh.Client, cfg models.MigrationConfig, result *models.ProvisionResult) error {
	unit := cfg.Service.Name

	if _, err := s.runCommand(client, fmt.Sprintf("systemctl is-active --quiet %s", unit)); err != nil {
		s.logger.Info().Str("unit", unit).Msg("destination service not registered or not active, skipping stop")
		return nil
	}

	output, err := s.runCommand(client, fmt.Sprintf("systemctl stop %s", unit))
	if err != nil {
		return fmt.Errorf("%w: %s: %v, output: %s", models.ErrRemoteServiceStopFailed, unit, err, string(output))
	}

	result.ServiceStopped = true
	s.logger.Info().Str("unit", unit).Msg("destination service stopped")
	return nil
}

// backupKeys copies the destination authorized_keys to a sibling backup file.
// Best-effort: a destination without the file, or a failed copy, only warns.
func (s *Impl) backupKeys(_ context.Context, client ssh.Client, cfg models.MigrationConfig, result *models.ProvisionResult) error {
	keysPath := cfg.Backup.AuthorizedKeys

	ft, err := client.NewFileTransfer()
	if err != nil {
		s.logger.Warn().Err(err).Msg("sftp unavailable, skipping authorized_keys backup")
		return nil
	}
	defer ft.Close()

	data, err := ft.ReadFile(keysPath)
	if err != nil {
		s.logger.Warn().Str("path", keysPath).Err(err).Msg("no destination authorized_keys to back up")
		return nil
	}

	if err := ft.WriteFile(keysPath+KeysBackupSuffix, data, authkeys.FileMode); err != nil {
		s.logger.Warn().Err(err).Msg("failed to write authorized_keys backup")
		return nil
	}

	result.KeysBackedUp = true
	s.logger.Info().Str("backup", keysPath+KeysBackupSuffix).Msg("destination authorized_keys backed up")
	return nil
}

// extract streams the local archive into tar on the destination, unpacking
// over the filesystem root. Colliding destination paths are overwritten.
func (s *Impl) extract(_ context.Context, client ssh.Client, cfg models.MigrationConfig, _ *models.ProvisionResult) error {
	archive, err := s.openArchive(cfg.Backup.ArchiveFile)
	if err != nil {
		return fmt.Errorf("%w: failed to open archive: %v", models.ErrRemoteExtractionFailed, err)
	}
	defer archive.Close()

	session, err := client.NewSession()
	if err != nil {
		return fmt.Errorf("%w: failed to create session: %v", models.ErrRemoteExtractionFailed, err)
	}
	defer session.Close()

	s.logger.Info().Str("archive", cfg.Backup.ArchiveFile).Msg("streaming archive to destination")

	output, err := session.RunWithInput("tar -xzf - -C /", archive)
	if err != nil {
		return fmt.Errorf("%w: %v, output: %s", models.ErrRemoteExtractionFailed, err, string(output))
	}

	s.logger.Info().Msg("archive extracted on destination")
	return nil
}

// mergeKeys unions the pre-extraction backup with the keys the archive just
// wrote, so access via either host's keys keeps working.
func (s *Impl) mergeKeys(_ context.Context, client ssh.Client, cfg models.MigrationConfig, result *models.ProvisionResult) error {
	keysPath := cfg.Backup.AuthorizedKeys

	ft, err := client.NewFileTransfer()
	if err != nil {
		return fmt.Errorf("sftp unavailable: %w", err)
	}
	defer ft.Close()

	backup, err := ft.ReadFile(keysPath + KeysBackupSuffix)
	if err != nil {
		// Nothing was backed up; the extracted keys stand alone.
		backup = nil
	}

	current, err := ft.ReadFile(keysPath)
	if err != nil {
		return fmt.Errorf("failed to read authorized_keys: %w", err)
	}

	merged := authkeys.Merge(backup, current)
	if err := ft.WriteFile(keysPath, merged, authkeys.FileMode); err != nil {
		return fmt.Errorf("failed to write merged authorized_keys: %w", err)
	}

	result.KeysMerged = true
	s.logger.Info().Str("path", keysPath).Msg("authorized_keys merged")
	return nil
}

// install fetches the platform installer over HTTPS and pipes it into the
// shell. The script is trusted as-is; no checksum verification happens here.
func (s *Impl) install(_ context.Context, client ssh.Client, cfg models.MigrationConfig, _ *models.ProvisionResult) error {
	cmd := fmt.Sprintf("curl -fsSL %s | sh", cfg.Install.ScriptURL)

	s.logger.Info().Str("url", cfg.Install.ScriptURL).Msg("running platform installer")

	output, err := s.runCommand(client, cmd)
	if err != nil {
		return fmt.Errorf("%w: %v, output: %s", models.ErrRemoteInstallFailed, err, string(output))
	}

	s.logger.Info().Msg("platform installed on destination")
	return nil
}
