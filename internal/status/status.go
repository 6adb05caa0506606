// Package status prints glyph-prefixed step results for operator scanning.
package status

import (
	"fmt"
	"io"
	"os"
)

// Printer writes one line per step result, each prefixed with a status glyph
// so an operator can scan a run at a glance.
type Printer struct {
	Out io.Writer
}

// New creates a Printer writing to standard output.
func New() *Printer {
	return &Printer{Out: os.Stdout}
}

// Success reports a completed step.
func (p *Printer) Success(format string, args ...any) {
	fmt.Fprintf(p.Out, "✅ "+format+"\n", args...)
}

// Fatal reports a step that aborts the run.
func (p *Printer) Fatal(format string, args ...any) {
	fmt.Fprintf(p.Out, "❌ "+format+"\n", args...)
}

// Warn reports a non-fatal problem.
func (p *Printer) Warn(format string, args ...any) {
	fmt.Fprintf(p.Out, "🚸 "+format+"\n", args...)
}

// Info reports a neutral condition.
func (p *Printer) Info(format string, args ...any) {
	fmt.Fprintf(p.Out, "ℹ️ "+format+"\n", args...)
}
