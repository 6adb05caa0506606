// Package archive builds and removes the local migration archive.
package archive

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fgeck/dockmigrate/internal/executor"
	"github.com/fgeck/dockmigrate/internal/models"
	"github.com/rs/zerolog"
)

// Service defines the interface for archive operations.
type Service interface {
	Exists(path string) bool
	StopLocalService(ctx context.Context, unit string) error
	Build(ctx context.Context, settings models.BackupSettings, volumePaths []string) (*models.ArchiveResult, error)
	Remove(path string) error
}

// Impl implements the archive Service interface.
type Impl struct {
	executor executor.CommandExecutor
	logger   zerolog.Logger
}

// New creates a new archive service.
func New(logger zerolog.Logger) *Impl {
	return &Impl{
		executor: &executor.Default{},
		logger:   logger,
	}
}

// NewWithExecutor creates an archive service with a custom executor (for testing).
func NewWithExecutor(logger zerolog.Logger, exec executor.CommandExecutor) *Impl {
	return &Impl{
		executor: exec,
		logger:   logger,
	}
}

// Exists reports whether an archive with the target name is already on disk.
// Presence is the only check; contents are not validated against the current
// volume set.
func (s *Impl) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// StopLocalService stops the local orchestration service before archiving so
// live container state does not end up half-written in the archive.
func (s *Impl) StopLocalService(ctx context.Context, unit string) error {
	s.logger.Info().Str("unit", unit).Msg("stopping local service")

	output, err := s.executor.Execute(ctx, "systemctl", "stop", unit)
	if err != nil {
		return fmt.Errorf("%w: %s: %v, output: %s", models.ErrServiceStopFailed, unit, err, string(output))
	}

	return nil
}

// Build creates one compressed archive containing the source directory, the
// local authorized_keys file and every volume path. Members keep enough path
// structure to extract relative to the filesystem root on the destination;
// socket files are excluded since they cannot be usefully archived.
func (s *Impl) Build(ctx context.Context, settings models.BackupSettings, volumePaths []string) (*models.ArchiveResult, error) {
	start := time.Now()
	result := &models.ArchiveResult{Path: settings.ArchiveFile}

	args := []string{"-czpf", settings.ArchiveFile, "--exclude=*.sock", settings.SourceDir, settings.AuthorizedKeys}
	args = append(args, volumePaths...)

	s.logger.Info().
		Str("archive", settings.ArchiveFile).
		Int("volumes", len(volumePaths)).
		Msg("creating archive")

	output, err := s.executor.Execute(ctx, "tar", args...)
	if err != nil {
		result.Duration = time.Since(start)
		result.Error = fmt.Errorf("%w: %v, output: %s", models.ErrArchiveCreationFailed, err, string(output))
		return result, result.Error
	}

	if info, err := os.Stat(settings.ArchiveFile); err == nil {
		result.Bytes = info.Size()
	}
	result.Duration = time.Since(start)

	s.logger.Info().
		Int64("bytes", result.Bytes).
		Dur("duration", result.Duration).
		Msg("archive created")

	return result, nil
}

// Remove deletes the local archive. A failed delete is surfaced as fatal
// since it signals filesystem trouble worth looking at.
func (s *Impl) Remove(path string) error {
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("%w: %s: %v", models.ErrCleanupFailed, path, err)
	}

	s.logger.Info().Str("archive", path).Msg("local archive removed")
	return nil
}
