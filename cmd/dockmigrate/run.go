package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/fgeck/dockmigrate/internal/config"
	"github.com/fgeck/dockmigrate/internal/prompt"
	"github.com/fgeck/dockmigrate/internal/services/runner"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute the migration",
	Long: `Execute the complete migration:
1. Wake the destination via Wake-on-LAN (if configured)
2. Preflight checks (source dir, key file, SSH probe)
3. Discover named volumes of running containers
4. Report disk usage of app data and volumes
5. Build the migration archive (optionally stopping the service first)
6. Stream the archive to the destination and provision it
7. Optionally remove the local archive
8. Send Telegram notification (if configured)

An interrupt during remote extraction or install can leave the
destination in an inconsistent state; re-run after fixing the cause.`,
	RunE: runMigration,
}

func runMigration(cmd *cobra.Command, args []string) error {
	if configFile == "" {
		log.Error().Msg("config file is required")
		return cmd.Help()
	}

	// Load configuration
	parser := config.NewParser()
	cfg, err := parser.LoadFile(configFile)
	if err != nil {
		log.Error().Err(err).Str("file", configFile).Msg("failed to load config")
		return err
	}

	// Validate configuration
	if err := config.Validate(cfg); err != nil {
		log.Error().Err(err).Msg("invalid configuration")
		return err
	}

	log.Info().
		Str("config", configFile).
		Str("destination", cfg.SSH.Host).
		Str("source_dir", cfg.Backup.SourceDir).
		Msg("configuration loaded")

	// Set up context with signal handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Warn().Str("signal", sig.String()).Msg("received signal, shutting down")
		cancel()
	}()

	var confirmer prompt.Confirmer = prompt.NewStdinConfirmer()
	if assumeYes {
		confirmer = prompt.Fixed(true)
	}

	// Run migration
	runnerSvc := runner.New(log.Logger, confirmer)
	if err := runnerSvc.Run(ctx, *cfg); err != nil {
		log.Error().Err(err).Msg("migration failed")
		return err
	}

	log.Info().Msg("migration completed successfully")
	return nil
}
