package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/HexSleeves/hive/internal/bee"
	"github.com/HexSleeves/hive/internal/bus"
	"github.com/HexSleeves/hive/internal/queen"
)

const (
	defaultAutoplay   = 500 * time.Millisecond
	defaultEventLines = 50
)

// Options configures a Model.
type Options struct {
	SessionID        string
	Label            string
	AutoplayInterval time.Duration
	EventLines       int
	Log              *LogBuffer
}

// Model is the Bubble Tea model for the interactive hive. It is the only
// driver of its queen: every shift and assignment happens inside Update.
type Model struct {
	queen *queen.Queen
	bus   *bus.MessageBus
	log   *LogBuffer

	sessionID  string
	label      string
	interval   time.Duration
	eventLines int

	// State
	autoplay  bool
	autoGen   int
	stalled   bool
	startTime time.Time

	// UI state
	keys     keyMap
	help     help.Model
	width    int
	height   int
	quitting bool
}

// New creates a model driving q. Events are read back from b's history.
func New(q *queen.Queen, b *bus.MessageBus, opts Options) Model {
	if opts.AutoplayInterval <= 0 {
		opts.AutoplayInterval = defaultAutoplay
	}
	if opts.EventLines <= 0 {
		opts.EventLines = defaultEventLines
	}
	return Model{
		queen:      q,
		bus:        b,
		log:        opts.Log,
		sessionID:  opts.SessionID,
		label:      opts.Label,
		interval:   opts.AutoplayInterval,
		eventLines: opts.EventLines,
		startTime:  time.Now(),
		keys:       defaultKeyMap(),
		help:       help.New(),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.WindowSize()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			m.autoplay = false
			return m, tea.Quit
		case key.Matches(msg, m.keys.Next):
			m.step()
		case key.Matches(msg, m.keys.Nectar):
			m.queen.AssignBee(bee.JobNectarCollector)
		case key.Matches(msg, m.keys.Honey):
			m.queen.AssignBee(bee.JobHoneyManufacturer)
		case key.Matches(msg, m.keys.EggCare):
			m.queen.AssignBee(bee.JobEggCare)
		case key.Matches(msg, m.keys.Autoplay):
			return m, m.toggleAutoplay()
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case AutoplayTickMsg:
		if !m.autoplay || msg.Gen != m.autoGen {
			return m, nil
		}
		m.step()
		if m.stalled {
			m.autoplay = false
			return m, nil
		}
		return m, autoplayCmd(m.interval, m.autoGen)
	}

	return m, nil
}

// step works one shift. A skipped shift marks the hive stalled until a later
// shift succeeds.
func (m *Model) step() {
	m.stalled = !m.queen.WorkTheNextShift()
}

func (m *Model) toggleAutoplay() tea.Cmd {
	m.autoplay = !m.autoplay
	m.autoGen++
	if !m.autoplay {
		return nil
	}
	return autoplayCmd(m.interval, m.autoGen)
}

// Queen returns the queen this model drives.
func (m Model) Queen() *queen.Queen { return m.queen }

// Autoplay reports whether shifts are advancing on a timer.
func (m Model) Autoplay() bool { return m.autoplay }

// Stalled reports whether the last shift was skipped.
func (m Model) Stalled() bool { return m.stalled }

// Quitting reports whether the user asked to leave.
func (m Model) Quitting() bool { return m.quitting }
