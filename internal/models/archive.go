package models

import "time"

// SizeEntry is the measured disk usage of a single path.
type SizeEntry struct {
	Path  string
	Bytes int64
}

// SizeReport holds disk usage totals for operator visibility.
type SizeReport struct {
	Volumes     []SizeEntry
	VolumeBytes int64
	SourceBytes int64
}

// ArchiveResult holds the result of an archive build.
type ArchiveResult struct {
	Path     string
	Bytes    int64
	Duration time.Duration
	Error    error
}

// ProvisionResult holds the result of the destination provisioning run.
type ProvisionResult struct {
	StepsRun   []string
	FailedStep string
	Error      error

	ServiceStopped bool // destination service was registered, active and stopped
	KeysBackedUp   bool // authorized_keys backup copy was written
	KeysMerged     bool
}
