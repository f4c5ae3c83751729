package output

import (
	"fmt"
	"io"
	"os"
)

// Mode represents the output mode.
type Mode int

const (
	// ModeTUI is the interactive terminal UI mode.
	ModeTUI Mode = iota
	// ModePlain is the plain text log mode.
	ModePlain
	// ModeJSON is the NDJSON event stream mode.
	ModeJSON
	// ModeQuiet suppresses everything but the final report.
	ModeQuiet
)

func (m Mode) String() string {
	switch m {
	case ModeTUI:
		return "tui"
	case ModePlain:
		return "plain"
	case ModeJSON:
		return "json"
	case ModeQuiet:
		return "quiet"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// SelectMode picks the mode from the global flags. The TUI is only chosen on
// an interactive terminal.
func SelectMode(quiet, jsonOut, plain, tty bool) Mode {
	switch {
	case jsonOut:
		return ModeJSON
	case quiet:
		return ModeQuiet
	case plain || !tty:
		return ModePlain
	}
	return ModeTUI
}

// Manager handles output based on the selected mode.
type Manager struct {
	mode    Mode
	verbose bool
	printer *Printer
	stdout  io.Writer
	stderr  io.Writer
}

// NewManager creates a new output manager.
func NewManager(mode Mode, verbose bool) *Manager {
	return NewManagerWithWriters(mode, verbose, os.Stdout, os.Stderr)
}

// NewManagerWithWriters creates a new output manager with custom writers (for testing).
func NewManagerWithWriters(mode Mode, verbose bool, stdout, stderr io.Writer) *Manager {
	return &Manager{
		mode:    mode,
		verbose: verbose,
		printer: NewPrinterWithWriter(mode, verbose, stdout),
		stdout:  stdout,
		stderr:  stderr,
	}
}

func (m *Manager) Mode() Mode { return m.mode }

// Verbose reports whether debug output was requested.
func (m *Manager) Verbose() bool { return m.verbose }

func (m *Manager) IsJSON() bool { return m.mode == ModeJSON }

func (m *Manager) IsQuiet() bool { return m.mode == ModeQuiet }

// Printer returns the styled printer bound to stdout.
func (m *Manager) Printer() *Printer { return m.printer }

func (m *Manager) Stdout() io.Writer { return m.stdout }

func (m *Manager) Stderr() io.Writer { return m.stderr }

// Final writes text that every mode except JSON shows, such as the closing
// status report of a quiet run.
func (m *Manager) Final(text string) {
	if m.mode == ModeJSON {
		return
	}
	fmt.Fprintln(m.stdout, text)
}
