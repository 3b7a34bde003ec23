package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var (
	filledBlock = "▓"
	emptyBlock  = "░"
)

// renderPlayerBar renders the transport line inside a rounded border.
// Empty when nothing is loaded.
func (m Model) renderPlayerBar() string {
	track := m.deps.Ctrl.CurrentTrack()
	if track == nil {
		return ""
	}

	status := "▶"
	if !m.deps.Ctrl.Playing() {
		status = "⏸"
	}

	title := track.Title
	if track.Artist != "" {
		title = track.Artist + " - " + title
	}

	duration := m.progress.Duration
	if duration == 0 {
		duration = track.Duration
	}
	timeStr := fmt.Sprintf("%s / %s", formatDuration(m.progress.Elapsed), formatDuration(duration))

	volume := fmt.Sprintf("vol %3d%%", int(m.deps.Ctrl.Volume()*100))
	if m.deps.Ctrl.Muted() {
		volume = "muted"
	}

	innerWidth := max(m.width-4, 20)
	fixed := lipgloss.Width(status) + lipgloss.Width(timeStr) + lipgloss.Width(volume) + 8
	barWidth := innerWidth - fixed - lipgloss.Width(title)
	if barWidth < 10 {
		title = truncate(title, max(innerWidth-fixed-10, 4))
		barWidth = innerWidth - fixed - lipgloss.Width(title)
	}

	var ratio float64
	if duration > 0 {
		ratio = float64(m.progress.Elapsed) / float64(duration)
	}
	filled := min(int(float64(barWidth)*ratio), barWidth)
	bar := strings.Repeat(filledBlock, max(filled, 0)) +
		strings.Repeat(emptyBlock, max(barWidth-filled, 0))

	line := fmt.Sprintf("%s  %s  %s  %s  %s",
		status, title, bar, timeStr, subtleStyle.Render(volume))
	return barStyle.Width(innerWidth + 2).Render(line)
}

func formatDuration(d time.Duration) string {
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%d:%02d", m, s)
}

func truncate(s string, maxWidth int) string {
	if lipgloss.Width(s) <= maxWidth {
		return s
	}
	runes := []rune(s)
	if maxWidth <= 1 {
		return "…"
	}
	if len(runes) > maxWidth-1 {
		runes = runes[:maxWidth-1]
	}
	return string(runes) + "…"
}
