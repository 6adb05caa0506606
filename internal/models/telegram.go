package models

import "time"

// TelegramConfig holds Telegram notification configuration.
type TelegramConfig struct {
	BotToken string
	ChatID   string
}

// TelegramMessage holds the data for a migration notification.
type TelegramMessage struct {
	Success     bool
	Source      string // local hostname
	Destination string
	StartTime   time.Time
	Duration    time.Duration

	// Migration stats (if successful).
	VolumeCount  int
	ArchiveBytes int64
	ArchiveKept  bool // local archive retained after the run

	// Error info (if failed).
	ErrorMessage string
	FailedStep   string
}

// TelegramResult holds the result of a Telegram notification.
type TelegramResult struct {
	MessageSent bool
	Error       error
}
