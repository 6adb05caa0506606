// Package diskusage measures on-disk size of the migration inputs.
// Informational only; nothing downstream gates on these numbers.
package diskusage

import (
	"context"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fgeck/dockmigrate/internal/executor"
	"github.com/fgeck/dockmigrate/internal/models"
	"github.com/rs/zerolog"
)

// Service defines the interface for disk usage reporting.
type Service interface {
	Report(ctx context.Context, volumePaths []string, sourceDir string) (*models.SizeReport, error)
}

// Impl implements the diskusage Service interface.
type Impl struct {
	executor executor.CommandExecutor
	logger   zerolog.Logger
}

// New creates a new diskusage service.
func New(logger zerolog.Logger) *Impl {
	return &Impl{
		executor: &executor.Default{},
		logger:   logger,
	}
}

// NewWithExecutor creates a diskusage service with a custom executor (for testing).
func NewWithExecutor(logger zerolog.Logger, exec executor.CommandExecutor) *Impl {
	return &Impl{
		executor: exec,
		logger:   logger,
	}
}

// Report sums the recursive disk usage of every volume path and of the source
// directory. Paths that are missing or inaccessible are skipped with a
// warning; this step never fails the run.
func (s *Impl) Report(ctx context.Context, volumePaths []string, sourceDir string) (*models.SizeReport, error) {
	report := &models.SizeReport{}

	for _, path := range volumePaths {
		bytes, ok := s.usage(ctx, path)
		if !ok {
			continue
		}
		report.Volumes = append(report.Volumes, models.SizeEntry{Path: path, Bytes: bytes})
		report.VolumeBytes += bytes
	}

	if bytes, ok := s.usage(ctx, sourceDir); ok {
		report.SourceBytes = bytes
	}

	s.logger.Info().
		Str("volumes", humanize.Bytes(uint64(report.VolumeBytes))).
		Str("source", humanize.Bytes(uint64(report.SourceBytes))).
		Msg("disk usage measured")

	return report, nil
}

// usage runs du -sb on a single path. Returns false for paths that cannot be
// measured.
func (s *Impl) usage(ctx context.Context, path string) (int64, bool) {
	output, err := s.executor.Execute(ctx, "du", "-sb", path)
	if err != nil {
		s.logger.Warn().Str("path", path).Err(err).Msg("skipping unmeasurable path")
		return 0, false
	}

	// du output: "<bytes>\t<path>"
	fields := strings.Fields(string(output))
	if len(fields) == 0 {
		return 0, false
	}

	bytes, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		s.logger.Warn().Str("path", path).Str("output", string(output)).Msg("unparseable du output")
		return 0, false
	}

	return bytes, true
}
