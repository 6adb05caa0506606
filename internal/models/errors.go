package models

import "errors"

// Fatal error kinds. Every fatal condition aborts the run immediately; the
// runner matches these with errors.Is to classify what failed.
var (
	// Precondition errors. Reported before any mutation occurs.
	ErrSourceDirMissing       = errors.New("source directory does not exist")
	ErrKeyFileMissing         = errors.New("ssh key file does not exist")
	ErrDestinationUnreachable = errors.New("destination host unreachable")
	ErrRuntimeUnavailable     = errors.New("container runtime unavailable")

	// Local operational errors. May leave local side effects unreversed.
	ErrServiceStopFailed     = errors.New("failed to stop local service")
	ErrArchiveCreationFailed = errors.New("archive creation failed")
	ErrCleanupFailed         = errors.New("failed to remove local archive")

	// Remote operational errors. The destination may be left partially
	// modified; no rollback is attempted.
	ErrRemoteServiceStopFailed  = errors.New("failed to stop remote service")
	ErrRemoteExtractionFailed   = errors.New("remote extraction failed")
	ErrRemoteInstallFailed      = errors.New("remote install failed")
	ErrRemoteProvisioningFailed = errors.New("remote provisioning failed")
)
