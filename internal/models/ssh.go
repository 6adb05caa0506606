package models

import "time"

// SSHConfig holds destination host connection settings.
type SSHConfig struct {
	Host           string
	Port           int
	Username       string
	PrivateKey     []byte // loaded from KeyPath
	KeyPath        string
	ConnectTimeout time.Duration // bound on the preflight probe dial
}
