// Package config provides configuration file parsing.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fgeck/dockmigrate/internal/models"
	"github.com/spf13/viper"
)

// Parser handles configuration file parsing.
type Parser struct {
	v *viper.Viper
}

// NewParser creates a new configuration parser.
func NewParser() *Parser {
	v := viper.New()
	v.SetConfigType("yaml")
	return &Parser{v: v}
}

// LoadFile loads configuration from a file path.
func (p *Parser) LoadFile(path string) (*models.MigrationConfig, error) {
	p.v.SetConfigFile(path)

	if err := p.v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	return p.parse()
}

// LoadReader loads configuration from a string (useful for testing).
func (p *Parser) LoadReader(content string) (*models.MigrationConfig, error) {
	if err := p.v.ReadConfig(strings.NewReader(content)); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	return p.parse()
}

//nolint:gocognit,gocyclo // parsing config requires checking many fields
func (p *Parser) parse() (*models.MigrationConfig, error) {
	cfg := &models.MigrationConfig{}

	// Parse SSH settings (required).
	cfg.SSH = models.SSHConfig{
		Host:           p.v.GetString("ssh.host"),
		Port:           p.v.GetInt("ssh.port"),
		Username:       p.v.GetString("ssh.username"),
		KeyPath:        p.expandEnv(p.v.GetString("ssh.key_path")),
		ConnectTimeout: p.v.GetDuration("ssh.connect_timeout"),
	}

	if cfg.SSH.Host == "" {
		return nil, fmt.Errorf("ssh.host is required")
	}
	if cfg.SSH.KeyPath == "" {
		return nil, fmt.Errorf("ssh.key_path is required")
	}
	if cfg.SSH.Port == 0 {
		cfg.SSH.Port = 22
	}
	if cfg.SSH.Username == "" {
		cfg.SSH.Username = "root"
	}
	if cfg.SSH.ConnectTimeout == 0 {
		cfg.SSH.ConnectTimeout = 10 * time.Second
	}

	// Parse backup settings.
	cfg.Backup = models.BackupSettings{
		SourceDir:      p.v.GetString("backup.source_dir"),
		ArchiveFile:    p.v.GetString("backup.archive_file"),
		VolumeRoot:     p.v.GetString("backup.volume_root"),
		AuthorizedKeys: p.v.GetString("backup.authorized_keys"),
	}

	if cfg.Backup.SourceDir == "" {
		return nil, fmt.Errorf("backup.source_dir is required")
	}
	if cfg.Backup.ArchiveFile == "" {
		cfg.Backup.ArchiveFile = "migration-backup.tar.gz"
	}
	if cfg.Backup.VolumeRoot == "" {
		cfg.Backup.VolumeRoot = "/var/lib/docker/volumes"
	}
	if cfg.Backup.AuthorizedKeys == "" {
		cfg.Backup.AuthorizedKeys = "/root/.ssh/authorized_keys"
	}

	// Parse service and install settings (required).
	cfg.Service = models.ServiceSettings{
		Name: p.v.GetString("service.name"),
	}
	if cfg.Service.Name == "" {
		return nil, fmt.Errorf("service.name is required")
	}

	cfg.Install = models.InstallSettings{
		ScriptURL: p.v.GetString("install.script_url"),
	}
	if cfg.Install.ScriptURL == "" {
		return nil, fmt.Errorf("install.script_url is required")
	}
	if !strings.HasPrefix(cfg.Install.ScriptURL, "https://") {
		return nil, fmt.Errorf("install.script_url must be an https URL")
	}

	// Parse optional WOL config.
	if p.v.IsSet("wol") { //nolint:nestif // config parsing with defaults
		cfg.WOL = &models.WOLConfig{
			MACAddress:    p.v.GetString("wol.mac_address"),
			BroadcastIP:   p.v.GetString("wol.broadcast_ip"),
			PollURL:       p.v.GetString("wol.poll_url"),
			Timeout:       p.v.GetDuration("wol.timeout"),
			PollInterval:  p.v.GetDuration("wol.poll_interval"),
			StabilizeWait: p.v.GetDuration("wol.stabilize_wait"),
		}

		if cfg.WOL.MACAddress == "" {
			return nil, fmt.Errorf("wol.mac_address is required when wol is configured")
		}

		if cfg.WOL.BroadcastIP == "" {
			cfg.WOL.BroadcastIP = "255.255.255.255"
		}
		if cfg.WOL.Timeout == 0 {
			cfg.WOL.Timeout = 5 * time.Minute
		}
		if cfg.WOL.PollInterval == 0 {
			cfg.WOL.PollInterval = 10 * time.Second
		}
		if cfg.WOL.StabilizeWait == 0 {
			cfg.WOL.StabilizeWait = 10 * time.Second
		}
	}

	// Parse optional Telegram config.
	if p.v.IsSet("telegram") {
		cfg.Telegram = &models.TelegramConfig{
			BotToken: p.expandEnv(p.v.GetString("telegram.bot_token")),
			ChatID:   p.expandEnv(p.v.GetString("telegram.chat_id")),
		}

		if cfg.Telegram.BotToken == "" {
			return nil, fmt.Errorf("telegram.bot_token is required when telegram is configured")
		}
		if cfg.Telegram.ChatID == "" {
			return nil, fmt.Errorf("telegram.chat_id is required when telegram is configured")
		}
	}

	return cfg, nil
}

// expandEnv expands environment variables in the format ${VAR} or $VAR.
func (p *Parser) expandEnv(s string) string {
	return os.ExpandEnv(s)
}

// Validate performs validation on the loaded configuration.
func Validate(cfg *models.MigrationConfig) error {
	if cfg == nil {
		return fmt.Errorf("configuration is nil")
	}

	if cfg.SSH.Host == "" {
		return fmt.Errorf("ssh.host is required")
	}
	if cfg.SSH.KeyPath == "" {
		return fmt.Errorf("ssh.key_path is required")
	}
	if cfg.Backup.SourceDir == "" {
		return fmt.Errorf("backup.source_dir is required")
	}
	if cfg.Service.Name == "" {
		return fmt.Errorf("service.name is required")
	}
	if cfg.Install.ScriptURL == "" {
		return fmt.Errorf("install.script_url is required")
	}

	return nil
}
