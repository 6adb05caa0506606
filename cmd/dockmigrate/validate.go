package main

import (
	"fmt"
	"os"

	"github.com/fgeck/dockmigrate/internal/config"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file",
	Long:  `Validate the configuration file without executing any migration operations.`,
	RunE:  validateConfig,
}

func validateConfig(cmd *cobra.Command, args []string) error {
	if configFile == "" {
		log.Error().Msg("config file is required")
		return cmd.Help()
	}

	// Check if file exists
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		log.Error().Str("file", configFile).Msg("config file not found")
		return fmt.Errorf("config file not found: %s", configFile)
	}

	// Load configuration
	parser := config.NewParser()
	cfg, err := parser.LoadFile(configFile)
	if err != nil {
		log.Error().Err(err).Str("file", configFile).Msg("failed to parse config")
		return err
	}

	// Validate configuration
	if err := config.Validate(cfg); err != nil {
		log.Error().Err(err).Msg("configuration validation failed")
		return err
	}

	// Print configuration summary
	fmt.Println("Configuration is valid!")
	fmt.Println()
	fmt.Println("Summary:")
	fmt.Printf("  Destination: %s@%s:%d\n", cfg.SSH.Username, cfg.SSH.Host, cfg.SSH.Port)
	fmt.Printf("  Key: %s\n", cfg.SSH.KeyPath)
	fmt.Printf("  Connect timeout: %s\n", cfg.SSH.ConnectTimeout)
	fmt.Println()
	fmt.Println("Backup:")
	fmt.Printf("  Source dir: %s\n", cfg.Backup.SourceDir)
	fmt.Printf("  Archive file: %s\n", cfg.Backup.ArchiveFile)
	fmt.Printf("  Volume root: %s\n", cfg.Backup.VolumeRoot)
	fmt.Printf("  Authorized keys: %s\n", cfg.Backup.AuthorizedKeys)
	fmt.Println()
	fmt.Printf("Service: %s\n", cfg.Service.Name)
	fmt.Printf("Install script: %s\n", cfg.Install.ScriptURL)
	fmt.Println()
	fmt.Println("Optional Features:")
	fmt.Printf("  Wake-on-LAN: %v\n", cfg.WOL != nil)
	fmt.Printf("  Telegram: %v\n", cfg.Telegram != nil)

	if cfg.WOL != nil {
		fmt.Println()
		fmt.Println("WOL Configuration:")
		fmt.Printf("  MAC Address: %s\n", cfg.WOL.MACAddress)
		fmt.Printf("  Broadcast IP: %s\n", cfg.WOL.BroadcastIP)
		if cfg.WOL.PollURL != "" {
			fmt.Printf("  Poll URL: %s\n", cfg.WOL.PollURL)
		}
	}

	if cfg.Telegram != nil {
		fmt.Println()
		fmt.Println("Telegram Configuration:")
		fmt.Printf("  Chat ID: %s\n", cfg.Telegram.ChatID)
		fmt.Printf("  Bot Token: (configured)\n")
	}

	return nil
}
