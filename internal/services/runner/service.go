// Package runner orchestrates the migration workflow.
package runner

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fgeck/dockmigrate/internal/models"
	"github.com/fgeck/dockmigrate/internal/prompt"
	"github.com/fgeck/dockmigrate/internal/services/archive"
	"github.com/fgeck/dockmigrate/internal/services/diskusage"
	"github.com/fgeck/dockmigrate/internal/services/docker"
	"github.com/fgeck/dockmigrate/internal/services/preflight"
	"github.com/fgeck/dockmigrate/internal/services/provision"
	"github.com/fgeck/dockmigrate/internal/services/telegram"
	"github.com/fgeck/dockmigrate/internal/services/wol"
	"github.com/fgeck/dockmigrate/internal/status"
	"github.com/rs/zerolog"
)

// Service defines the interface for the migration runner.
type Service interface {
	Run(ctx context.Context, cfg models.MigrationConfig) error
}

// Impl implements the runner Service interface.
type Impl struct {
	preflightSvc preflight.Service
	dockerSvc    docker.Service
	usageSvc     diskusage.Service
	archiveSvc   archive.Service
	provisionSvc provision.Service
	wolSvc       wol.Service
	telegramSvc  telegram.Service
	confirmer    prompt.Confirmer
	printer      *status.Printer
	logger       zerolog.Logger
}

// New creates a new runner service.
func New(logger zerolog.Logger, confirmer prompt.Confirmer) *Impl {
	return &Impl{
		preflightSvc: preflight.New(logger),
		dockerSvc:    docker.New(logger),
		usageSvc:     diskusage.New(logger),
		archiveSvc:   archive.New(logger),
		provisionSvc: provision.New(logger),
		wolSvc:       wol.New(logger),
		telegramSvc:  telegram.New(logger),
		confirmer:    confirmer,
		printer:      status.New(),
		logger:       logger,
	}
}

// NewWithServices creates a runner with custom services (for testing).
func NewWithServices(
	logger zerolog.Logger,
	preflightSvc preflight.Service,
	dockerSvc docker.Service,
	usageSvc diskusage.Service,
	archiveSvc archive.Service,
	provisionSvc provision.Service,
	wolSvc wol.Service,
	telegramSvc telegram.Service,
	confirmer prompt.Confirmer,
	printer *status.Printer,
) *Impl {
	return &Impl{
		preflightSvc: preflightSvc,
		dockerSvc:    dockerSvc,
		usageSvc:     usageSvc,
		archiveSvc:   archiveSvc,
		provisionSvc: provisionSvc,
		wolSvc:       wolSvc,
		telegramSvc:  telegramSvc,
		confirmer:    confirmer,
		printer:      printer,
		logger:       logger,
	}
}

// Run executes the migration: wake (optional), preflight, volume discovery,
// size report, archive, provision, cleanup. Strictly sequential; the first
// fatal error aborts the run. Earlier side effects (a stopped service, a
// partially provisioned destination) are not rolled back.
//
//nolint:gocognit,gocyclo // migration workflow has multiple steps by design
func (s *Impl) Run(ctx context.Context, cfg models.MigrationConfig) error {
	startTime := time.Now()
	var failedStep string
	var runErr error
	var volumeCount int
	var archiveBytes int64
	archiveKept := true

	s.logger.Info().
		Str("destination", cfg.SSH.Host).
		Str("source_dir", cfg.Backup.SourceDir).
		Msg("starting migration run")

	defer func() {
		if cfg.Telegram != nil {
			s.sendNotification(ctx, cfg, startTime, failedStep, runErr, volumeCount, archiveBytes, archiveKept)
		}
	}()

	// Step 1: wake the destination (if configured).
	if cfg.WOL != nil {
		failedStep = "wol"
		if err := s.runWOL(ctx, cfg.WOL); err != nil {
			runErr = err
			s.printer.Fatal("Destination did not wake up: %v", err)
			return err
		}
		s.printer.Success("Destination host is awake")
	}

	// Step 2: preflight checks.
	failedStep = "preflight"
	if err := s.preflightSvc.Check(ctx, cfg); err != nil {
		runErr = err
		s.printer.Fatal("%v", err)
		return err
	}
	s.printer.Success("Preflight checks passed (source dir, key file, destination reachable)")

	// Step 3: volume discovery.
	failedStep = "discovery"
	discovery, err := s.dockerSvc.DiscoverVolumes(ctx, cfg.Backup.VolumeRoot)
	if err != nil {
		runErr = err
		s.printer.Fatal("%v", err)
		return err
	}
	volumeCount = len(discovery.Volumes)
	s.printer.Info("Discovered %d named volume(s) across %d running container(s)",
		len(discovery.Volumes), len(discovery.Containers))

	// Step 4: size report. Informational only, never fatal.
	failedStep = "size_report"
	report, err := s.usageSvc.Report(ctx, discovery.Paths(), cfg.Backup.SourceDir)
	if err == nil {
		s.printer.Info("Volume data: %s, application data: %s",
			humanize.Bytes(uint64(report.VolumeBytes)), humanize.Bytes(uint64(report.SourceBytes)))
	}

	// Step 5: archive.
	failedStep = "archive"
	archiveBytes, err = s.buildArchive(ctx, cfg, discovery.Paths())
	if err != nil {
		runErr = err
		s.printer.Fatal("%v", err)
		return err
	}

	// Step 6: provision the destination.
	failedStep = "provision"
	provisionResult, err := s.provisionSvc.Provision(ctx, cfg)
	if err != nil {
		runErr = err
		s.printer.Fatal("%v", err)
		return err
	}
	if !provisionResult.ServiceStopped {
		s.printer.Info("Destination service %s was not registered or not running", cfg.Service.Name)
	}
	s.printer.Success("Destination provisioned (%d remote steps)", len(provisionResult.StepsRun))

	// Step 7: cleanup.
	failedStep = "cleanup"
	kept, err := s.cleanup(cfg)
	if err != nil {
		runErr = err
		s.printer.Fatal("%v", err)
		return err
	}
	archiveKept = kept

	failedStep = ""
	s.printer.Success("Migration completed in %s", time.Since(startTime).Round(time.Second))
	s.logger.Info().
		Dur("duration", time.Since(startTime)).
		Msg("migration run completed successfully")

	return nil
}

func (s *Impl) runWOL(ctx context.Context, cfg *models.WOLConfig) error {
	s.logger.Info().Str("mac", cfg.MACAddress).Msg("waking destination")

	result, err := s.wolSvc.Wake(ctx, *cfg)
	if err != nil {
		return fmt.Errorf("WOL failed: %w", err)
	}
	if result.Error != nil {
		return fmt.Errorf("WOL failed: %w", result.Error)
	}
	if !result.TargetReady && cfg.PollURL != "" {
		return fmt.Errorf("destination did not become ready after WOL")
	}

	return nil
}

// buildArchive creates the migration archive unless one already exists.
// Returns the archive size in bytes (zero when creation was skipped).
func (s *Impl) buildArchive(ctx context.Context, cfg models.MigrationConfig, volumePaths []string) (int64, error) {
	if s.archiveSvc.Exists(cfg.Backup.ArchiveFile) {
		s.printer.Warn("Archive %s already exists, skipping creation (contents may be stale)", cfg.Backup.ArchiveFile)
		return 0, nil
	}

	question := fmt.Sprintf("Stop the %s service before archiving? (recommended)", cfg.Service.Name)
	if s.confirmer.Confirm(question) {
		if err := s.archiveSvc.StopLocalService(ctx, cfg.Service.Name); err != nil {
			return 0, err
		}
		s.printer.Success("Local service %s stopped", cfg.Service.Name)
	} else {
		s.printer.Warn("Archiving with the service running; live volume contents may be inconsistent")
	}

	result, err := s.archiveSvc.Build(ctx, cfg.Backup, volumePaths)
	if err != nil {
		return 0, err
	}

	s.printer.Success("Archive created: %s (%s)", result.Path, humanize.Bytes(uint64(result.Bytes)))
	return result.Bytes, nil
}

// cleanup removes the local archive after operator confirmation. Returns
// whether the archive was kept.
func (s *Impl) cleanup(cfg models.MigrationConfig) (bool, error) {
	if !s.confirmer.Confirm(fmt.Sprintf("Remove the local archive %s?", cfg.Backup.ArchiveFile)) {
		s.printer.Info("Keeping local archive %s", cfg.Backup.ArchiveFile)
		return true, nil
	}

	if err := s.archiveSvc.Remove(cfg.Backup.ArchiveFile); err != nil {
		return true, err
	}

	s.printer.Success("Local archive removed")
	return false, nil
}

func (s *Impl) sendNotification(
	ctx context.Context,
	cfg models.MigrationConfig,
	startTime time.Time,
	failedStep string,
	runErr error,
	volumeCount int,
	archiveBytes int64,
	archiveKept bool,
) {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}

	msg := models.TelegramMessage{
		Success:      runErr == nil,
		Source:       hostname,
		Destination:  cfg.SSH.Host,
		StartTime:    startTime,
		Duration:     time.Since(startTime),
		VolumeCount:  volumeCount,
		ArchiveBytes: archiveBytes,
		ArchiveKept:  archiveKept,
	}
	if runErr != nil {
		msg.FailedStep = failedStep
		msg.ErrorMessage = runErr.Error()
	}

	result, err := s.telegramSvc.SendNotification(ctx, *cfg.Telegram, msg)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to send Telegram notification")
		return
	}
	if result.Error != nil {
		s.logger.Error().Err(result.Error).Msg("failed to send Telegram notification")
	}
}
