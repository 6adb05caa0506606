// Package models contains the data structures used throughout dockmigrate.
package models

// MigrationConfig holds the complete configuration for a migration run.
type MigrationConfig struct {
	SSH      SSHConfig
	Backup   BackupSettings
	Service  ServiceSettings
	Install  InstallSettings
	WOL      *WOLConfig      // nil if not configured
	Telegram *TelegramConfig // nil if not configured
}

// BackupSettings describes what goes into the migration archive.
type BackupSettings struct {
	SourceDir      string // application data directory, e.g. /etc/dokploy
	ArchiveFile    string // local archive path
	VolumeRoot     string // docker volume storage root
	AuthorizedKeys string // local authorized_keys file included in the archive
}

// ServiceSettings identifies the orchestration service unit on both hosts.
type ServiceSettings struct {
	Name string
}

// InstallSettings describes how the platform is reinstalled on the destination.
type InstallSettings struct {
	ScriptURL string
}
