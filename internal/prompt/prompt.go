// Package prompt provides operator confirmation prompts.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Confirmer asks the operator a yes/no question. Implementations decide how:
// interactive stdin, a pre-supplied flag, or a fixed answer for tests.
type Confirmer interface {
	Confirm(question string) bool
}

// StdinConfirmer reads answers interactively. Blocks until input arrives.
type StdinConfirmer struct {
	In  io.Reader
	Out io.Writer
}

// NewStdinConfirmer creates a Confirmer reading from standard input.
func NewStdinConfirmer() *StdinConfirmer {
	return &StdinConfirmer{In: os.Stdin, Out: os.Stdout}
}

// Confirm prints the question and reads one line. Only "y" or "yes"
// (case-insensitive) count as affirmative; anything else, including a read
// error, is a no.
func (c *StdinConfirmer) Confirm(question string) bool {
	fmt.Fprintf(c.Out, "%s [y/N]: ", question)

	reader := bufio.NewReader(c.In)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return false
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// Fixed always answers the same way. Used for --yes and in tests.
type Fixed bool

// Confirm returns the fixed answer.
func (f Fixed) Confirm(string) bool {
	return bool(f)
}
