// Package output provides console output helpers: the prefixed status lines
// and terminal detection.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

var (
	fatalPrefix   = color.New(color.FgRed, color.Bold).Sprint("[FATAL]")
	errorPrefix   = color.New(color.FgRed).Sprint("[ERROR]")
	successPrefix = color.New(color.FgGreen, color.Bold).Sprint("[SUCCESS]")
)

// Console writes user-facing status lines. Fatal and Error lines go to Err,
// everything else to Out.
type Console struct {
	Out io.Writer
	Err io.Writer
}

// NewConsole returns a Console bound to the process streams.
func NewConsole() *Console {
	return &Console{Out: os.Stdout, Err: os.Stderr}
}

// Fatalf reports an unrecoverable error.
func (c *Console) Fatalf(format string, a ...interface{}) {
	fmt.Fprintf(c.Err, "%s %s\n", fatalPrefix, fmt.Sprintf(format, a...))
}

// Errorf reports a fatal-but-expected error, such as a failed safety check.
func (c *Console) Errorf(format string, a ...interface{}) {
	fmt.Fprintf(c.Err, "%s %s\n", errorPrefix, fmt.Sprintf(format, a...))
}

// Successf reports a successful completion.
func (c *Console) Successf(format string, a ...interface{}) {
	fmt.Fprintf(c.Out, "%s %s\n", successPrefix, fmt.Sprintf(format, a...))
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
