package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/HexSleeves/hive/internal/bus"
)

// Hive colors
var (
	colorGold   = lipgloss.Color("#F5A623")
	colorAmber  = lipgloss.Color("#E8912D")
	colorHoney  = lipgloss.Color("#FFD700")
	colorGreen  = lipgloss.Color("#50C878")
	colorRed    = lipgloss.Color("#FF6B6B")
	colorBlue   = lipgloss.Color("#5B9BD5")
	colorCyan   = lipgloss.Color("#88C0D0")
	colorWhite  = lipgloss.Color("#E6E6E6")
	colorSubtle = lipgloss.Color("#888888")
)

var (
	// Panel borders
	reportBorder = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorGold).
		Padding(0, 1)

	eventBorder = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBlue).
		Padding(0, 1)

	statusBar = lipgloss.NewStyle().
		Foreground(colorHoney).
		Bold(true).
		Padding(0, 1)

	// Text styles
	titleStyle = lipgloss.NewStyle().
		Foreground(colorGold).
		Bold(true)

	subtleStyle = lipgloss.NewStyle().
		Foreground(colorSubtle)

	reportTextStyle = lipgloss.NewStyle().
		Foreground(colorWhite)

	warningStyle = lipgloss.NewStyle().
		Foreground(colorAmber).
		Bold(true)

	errorStyle = lipgloss.NewStyle().
		Foreground(colorRed)

	successStyle = lipgloss.NewStyle().
		Foreground(colorGreen)

	eventStyles = map[bus.MsgType]lipgloss.Style{
		bus.MsgShiftCompleted:     lipgloss.NewStyle().Foreground(colorGreen),
		bus.MsgShiftSkipped:       lipgloss.NewStyle().Foreground(colorAmber),
		bus.MsgBeeAssigned:        lipgloss.NewStyle().Foreground(colorCyan),
		bus.MsgAssignmentRejected: lipgloss.NewStyle().Foreground(colorRed),
	}

	eventIcons = map[bus.MsgType]string{
		bus.MsgSessionStarted:     "▶",
		bus.MsgSessionEnded:       "■",
		bus.MsgShiftCompleted:     "✔",
		bus.MsgShiftSkipped:       "⊘",
		bus.MsgBeeAssigned:        "🐝",
		bus.MsgAssignmentRejected: "✖",
	}
)

func eventIcon(t bus.MsgType) string {
	if icon, ok := eventIcons[t]; ok {
		return icon
	}
	return "·"
}

func eventStyle(t bus.MsgType) lipgloss.Style {
	if style, ok := eventStyles[t]; ok {
		return style
	}
	return subtleStyle
}
