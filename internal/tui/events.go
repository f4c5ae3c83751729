package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// AutoplayTickMsg asks the model to work one shift while autoplay is on.
// Ticks from an earlier autoplay run carry a stale generation and are dropped.
type AutoplayTickMsg struct {
	Gen int
}

func autoplayCmd(interval time.Duration, gen int) tea.Cmd {
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return AutoplayTickMsg{Gen: gen}
	})
}
