package ui

import (
	"fmt"
	"strings"

	"github.com/museed/museed-tui/internal/api"
)

const maxListRows = 10

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	if m.prompt != promptNone {
		b.WriteString(m.renderPrompt())
	} else {
		b.WriteString("  " + m.input.View())
	}
	b.WriteString("\n\n")

	b.WriteString(m.renderResults())
	b.WriteString("\n")
	b.WriteString(m.renderQueue())
	b.WriteString("\n")

	if bar := m.renderPlayerBar(); bar != "" {
		b.WriteString(bar)
		b.WriteString("\n")
	}

	b.WriteString(m.renderStatusLine())
	b.WriteString("\n")
	b.WriteString(subtleStyle.Render("  /: search  enter: play  g: generate  u: upload seed  space: pause  n/p: next/prev  m: mute  L: login  S: sign up  q: quit"))
	return b.String()
}

func (m Model) renderHeader() string {
	user := "anonymous"
	if m.deps.Session.Authenticated() {
		user = m.deps.Session.Username()
	}
	return headerStyle.Render("  museed") + subtleStyle.Render("  ("+user+")")
}

func (m Model) renderPrompt() string {
	label := map[prompt]string{
		promptUpload:      "Seed file",
		promptLoginUser:   "Username",
		promptLoginPass:   "Password",
		promptSignupUser:  "New username",
		promptSignupEmail: "Email",
		promptSignupPass:  "Password",
	}[m.prompt]
	return fmt.Sprintf("  %s: %s", paneTitleStyle.Render(label), m.promptInput.View())
}

func (m Model) renderResults() string {
	var b strings.Builder
	b.WriteString("  " + paneTitleStyle.Render("Results") + "\n")

	switch {
	case m.searching:
		b.WriteString(subtleStyle.Render("  searching..."))
	case m.gen != nil:
		b.WriteString(statusStyle.Render(fmt.Sprintf(
			"  generating from %s: %s (attempt %d, esc to cancel)",
			m.gen.label, strings.ToLower(m.gen.status), m.gen.attempt)))
	case len(m.results) == 0:
		b.WriteString(subtleStyle.Render("  no results yet"))
	default:
		b.WriteString(m.renderTrackList(m.results, m.resultCursor, m.focus == focusResults))
	}
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderQueue() string {
	var b strings.Builder
	b.WriteString("  " + paneTitleStyle.Render("Queue") + "\n")

	tracks := m.deps.Ctrl.QueueTracks()
	if len(tracks) == 0 {
		b.WriteString(subtleStyle.Render("  queue is empty") + "\n")
		return b.String()
	}

	current := m.deps.Ctrl.CurrentIndex()
	start, end := listWindow(len(tracks), m.queueCursor)
	for i := start; i < end; i++ {
		t := tracks[i]
		marker := "  "
		if i == current {
			marker = "▶ "
		}
		line := fmt.Sprintf("%s%s - %s", marker, t.Artist, t.Title)
		if t.Artist == "" {
			line = marker + t.Title
		}
		if m.focus == focusQueue && i == m.queueCursor {
			line = selectedStyle.Render(line)
		}
		b.WriteString("  " + line + "\n")
	}
	return b.String()
}

func (m Model) renderTrackList(tracks []api.Track, cursor int, focused bool) string {
	var b strings.Builder
	start, end := listWindow(len(tracks), cursor)
	for i := start; i < end; i++ {
		t := tracks[i]
		line := fmt.Sprintf("%s - %s", t.ArtistName, t.Title)
		if t.Genre != "" {
			line += subtleStyle.Render("  [" + t.Genre + "]")
		}
		if focused && i == cursor {
			line = selectedStyle.Render(line)
		}
		b.WriteString("  " + line)
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m Model) renderStatusLine() string {
	switch {
	case m.errorMsg != "":
		return "  " + errorStyle.Render(m.errorMsg)
	case m.statusMsg != "":
		return "  " + statusStyle.Render(m.statusMsg)
	}
	return ""
}

// listWindow keeps the cursor visible within a fixed-height list.
func listWindow(length, cursor int) (int, int) {
	if length <= maxListRows {
		return 0, length
	}
	start := cursor - maxListRows/2
	start = clamp(start, 0, length-maxListRows)
	return start, start + maxListRows
}
