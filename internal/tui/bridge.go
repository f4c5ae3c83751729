package tui

import (
	"fmt"
	"io"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

const maxLogLines = 100

// Program wraps a Bubble Tea program running a hive Model.
type Program struct {
	program *tea.Program
}

// NewProgram creates a full-screen TUI program for m.
func NewProgram(m Model, opts ...tea.ProgramOption) *Program {
	opts = append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)
	return &Program{program: tea.NewProgram(m, opts...)}
}

// Run starts the TUI (blocking) and returns the final model.
func (p *Program) Run() (Model, error) {
	final, err := p.program.Run()
	if err != nil {
		return Model{}, err
	}
	m, ok := final.(Model)
	if !ok {
		return Model{}, fmt.Errorf("unexpected final model %T", final)
	}
	return m, nil
}

// Quit asks the running program to exit, e.g. on SIGTERM.
func (p *Program) Quit() {
	p.program.Quit()
}

// LogBuffer collects logger output while the TUI owns the terminal. The queen
// logs from inside Update, so lines are buffered for the next render instead
// of being sent back into the program.
type LogBuffer struct {
	mu    sync.Mutex
	buf   []byte
	lines []string
}

var _ io.Writer = (*LogBuffer)(nil)

func NewLogBuffer() *LogBuffer {
	return &LogBuffer{}
}

func (l *LogBuffer) Write(data []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.buf = append(l.buf, data...)
	for {
		nl := strings.IndexByte(string(l.buf), '\n')
		if nl == -1 {
			break
		}
		line := stripLogPrefix(string(l.buf[:nl]))
		l.buf = l.buf[nl+1:]
		if line == "" {
			continue
		}
		l.lines = append(l.lines, line)
		if len(l.lines) > maxLogLines {
			l.lines = l.lines[len(l.lines)-maxLogLines:]
		}
	}
	return len(data), nil
}

// Last returns the most recent complete line, or "".
func (l *LogBuffer) Last() string {
	if l == nil {
		return ""
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.lines) == 0 {
		return ""
	}
	return l.lines[len(l.lines)-1]
}

// Lines returns a copy of the buffered lines, oldest first.
func (l *LogBuffer) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.lines))
	copy(out, l.lines)
	return out
}

// stripLogPrefix removes the standard log prefix "2026/02/14 20:30:59 "
func stripLogPrefix(line string) string {
	// Standard log format: "2006/01/02 15:04:05 <message>"
	if len(line) > 20 && line[4] == '/' && line[7] == '/' && line[10] == ' ' && line[19] == ' ' {
		return strings.TrimSpace(line[20:])
	}
	// With microseconds: "2006/01/02 15:04:05.000000 <message>"
	if len(line) > 27 && line[4] == '/' && line[7] == '/' && line[19] == '.' {
		return strings.TrimSpace(line[27:])
	}
	// Tagged: "[hive] 2006/01/02 15:04:05 <message>"
	if strings.HasPrefix(line, "[") {
		if idx := strings.Index(line, "] "); idx != -1 {
			return stripLogPrefix(line[idx+2:])
		}
	}
	return strings.TrimSpace(line)
}
