package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/HexSleeves/hive/internal/bus"
	"github.com/HexSleeves/hive/internal/queen"
)

const (
	reportPanelWidth = 46
	sideBySideMin    = 90
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	w := m.width
	if w < 40 {
		w = 80 // sensible default before WindowSizeMsg
	}
	h := m.height
	if h < 10 {
		h = 24
	}

	footer := []string{m.renderStatusBar(w)}
	if last := m.log.Last(); last != "" {
		footer = append(footer, subtleStyle.Render(truncate(last, w-2)))
	}
	footer = append(footer, m.help.View(m.keys))
	footerH := len(footer) + strings.Count(footer[len(footer)-1], "\n")

	var body string
	if w >= sideBySideMin {
		panelH := h - footerH - 2 // borders
		if panelH < 5 {
			panelH = 5
		}
		eventsW := w - reportPanelWidth - 4
		body = lipgloss.JoinHorizontal(lipgloss.Top,
			m.renderReportPanel(reportPanelWidth-2, panelH),
			m.renderEventPanel(eventsW, panelH),
		)
	} else {
		reportH := len(strings.Split(m.queen.StatusReport(), "\n")) + 1
		eventsH := h - footerH - reportH - 4
		if eventsH < 3 {
			eventsH = 3
		}
		body = m.renderReportPanel(w-2, reportH) + "\n" + m.renderEventPanel(w-2, eventsH)
	}

	return body + "\n" + strings.Join(footer, "\n")
}

func (m Model) renderReportPanel(w, h int) string {
	title := titleStyle.Render("👑 Queen")
	title += subtleStyle.Render(fmt.Sprintf("  shift %d", m.queen.Shift()))

	visibleH := h - 1 // title takes 1 line
	if visibleH < 1 {
		visibleH = 1
	}

	var rendered []string
	for _, line := range strings.Split(m.queen.StatusReport(), "\n") {
		for _, wl := range wrapText(line, w-2) {
			if strings.HasPrefix(wl, "LOW ") {
				rendered = append(rendered, warningStyle.Render(wl))
			} else {
				rendered = append(rendered, reportTextStyle.Render(wl))
			}
		}
	}

	if len(rendered) > visibleH {
		rendered = rendered[:visibleH]
	}
	for len(rendered) < visibleH {
		rendered = append(rendered, "")
	}

	content := title + "\n" + strings.Join(rendered, "\n")
	return reportBorder.Width(w).Render(content)
}

func (m Model) renderEventPanel(w, h int) string {
	title := titleStyle.Render("📜 Events")

	visibleH := h - 1
	if visibleH < 1 {
		visibleH = 1
	}

	history := m.bus.History(m.eventLines)
	if len(history) > visibleH {
		title += subtleStyle.Render(fmt.Sprintf("  [%d earlier]", len(history)-visibleH))
		history = history[len(history)-visibleH:]
	}

	var rendered []string
	for _, msg := range history {
		line := eventIcon(msg.Type) + " " + formatEvent(msg)
		rendered = append(rendered, eventStyle(msg.Type).Render(truncate(line, w-2)))
	}
	if len(rendered) == 0 {
		rendered = append(rendered, subtleStyle.Render("  Press n to work the first shift..."))
	}
	for len(rendered) < visibleH {
		rendered = append(rendered, "")
	}

	content := title + "\n" + strings.Join(rendered, "\n")
	return eventBorder.Width(w).Render(content)
}

func (m Model) renderStatusBar(w int) string {
	elapsed := time.Since(m.startTime).Round(time.Second)

	// Left: hive label + session
	left := "🐝 "
	if m.label != "" {
		left += m.label
	} else {
		left += "Hive"
	}
	if m.sessionID != "" {
		left += subtleStyle.Render("  " + m.sessionID)
	}

	// Centre: stock
	snap := m.queen.Snapshot()
	centre := fmt.Sprintf("honey %.2f · nectar %.2f · %d workers", snap.Honey, snap.Nectar, snap.TotalWorkers)

	// Right: play state + time
	var state string
	switch {
	case m.stalled:
		state = errorStyle.Render("stalled")
	case m.autoplay:
		state = successStyle.Render("▶ autoplay")
	default:
		state = subtleStyle.Render("paused")
	}
	right := state + subtleStyle.Render(fmt.Sprintf(" · shift %d · %s", snap.Shift, elapsed))

	leftW := lipgloss.Width(left)
	centreW := lipgloss.Width(centre)
	rightW := lipgloss.Width(right)
	spare := w - leftW - centreW - rightW - 2
	if spare < 2 {
		spare = 2
	}
	gap1 := spare / 2
	gap2 := spare - gap1

	statusLine := left + strings.Repeat(" ", gap1) +
		subtleStyle.Render(centre) +
		strings.Repeat(" ", gap2) + right
	return statusBar.Width(w - 2).Render(statusLine)
}

// formatEvent renders a bus message as one event log line.
func formatEvent(msg bus.Message) string {
	switch p := msg.Payload.(type) {
	case queen.Snapshot:
		if msg.Type == bus.MsgShiftSkipped {
			return fmt.Sprintf("shift %d skipped: %.2f honey cannot pay the queen", p.Shift, p.Honey)
		}
		return fmt.Sprintf("shift %d: honey %.2f, nectar %.2f, eggs %.2f, %d/%d worked",
			p.Shift, p.Honey, p.Nectar, p.Eggs, p.WorkersWorked, p.TotalWorkers)
	case queen.Assignment:
		if p.Accepted {
			return fmt.Sprintf("shift %d: assigned %s (%d workers)", msg.Shift, p.Job, p.TotalWorkers)
		}
		return fmt.Sprintf("shift %d: no unassigned worker for %s (%.2f unassigned)", msg.Shift, p.Job, p.UnassignedWorkers)
	}
	switch msg.Type {
	case bus.MsgSessionStarted:
		return "session started"
	case bus.MsgSessionEnded:
		return "session ended"
	}
	return string(msg.Type)
}

// truncate cuts text to maxWidth display columns.
func truncate(text string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	return runewidth.Truncate(text, maxWidth, "…")
}

// wrapText wraps a string to fit within maxWidth display columns,
// correctly handling emoji and CJK characters.
func wrapText(text string, maxWidth int) []string {
	if maxWidth <= 0 {
		maxWidth = 80
	}
	if len(text) == 0 {
		return []string{""}
	}
	if runewidth.StringWidth(text) <= maxWidth {
		return []string{text}
	}

	var lines []string
	for runewidth.StringWidth(text) > maxWidth {
		// Find the byte offset that fits within maxWidth display columns
		colW := 0
		byteOff := 0
		for i, r := range text {
			rw := runewidth.RuneWidth(r)
			if colW+rw > maxWidth {
				break
			}
			colW += rw
			byteOff = i + len(string(r))
		}
		if byteOff == 0 {
			// Single character wider than maxWidth; force advance
			byteOff = len(string([]rune(text)[0]))
		}
		// Try to break on a space within the last third
		cut := byteOff
		if idx := strings.LastIndex(text[:byteOff], " "); idx > byteOff/3 {
			cut = idx
		}
		lines = append(lines, text[:cut])
		text = strings.TrimLeft(text[cut:], " ")
	}
	if text != "" {
		lines = append(lines, text)
	}
	return lines
}
