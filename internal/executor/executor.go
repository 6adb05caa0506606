// Package executor runs external commands. Services depend on the interface
// so tests can intercept docker, tar, du and systemctl invocations.
package executor

import (
	"context"
	"os/exec"
)

// CommandExecutor allows mocking exec.Command in tests.
type CommandExecutor interface {
	Execute(ctx context.Context, name string, args ...string) ([]byte, error)
}

// Default is the default command executor using os/exec.
type Default struct{}

// Execute runs a command and returns its combined output.
func (e *Default) Execute(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.CombinedOutput()
}
