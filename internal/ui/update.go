package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/museed/museed-tui/internal/engine"
	"github.com/museed/museed-tui/internal/errmsg"
	"github.com/museed/museed-tui/internal/state"
)

const seekStep = 5 * time.Second

var errEmptyPlaylist = errors.New("playlist has no tracks")

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.awaitPlaybackError(), m.awaitProgress())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.updateKey(msg)

	case searchResultMsg:
		return m.updateSearchResult(msg)

	case generateStartedMsg:
		if msg.Err != nil {
			m.setError(errmsg.Format(errmsg.OpPlaylistCreate, msg.Err))
			return m, nil
		}
		m.gen = startGeneration(m.deps.Poller, msg.TaskID, msg.Label)
		m.setStatus(fmt.Sprintf("Generating playlist from %s...", msg.Label))
		return m, awaitGeneration(m.gen)

	case generateProgressMsg:
		if m.gen != nil {
			m.gen.status = msg.Status
			m.gen.attempt = msg.Attempt
			return m, awaitGeneration(m.gen)
		}
		return m, nil

	case generateDoneMsg:
		return m.updateGenerateDone(msg)

	case playlistLoadedMsg:
		return m.updatePlaylistLoaded(msg)

	case loginResultMsg:
		if msg.Err != nil {
			m.setError(errmsg.Format(errmsg.OpLogin, msg.Err))
		} else {
			m.setStatus(fmt.Sprintf("Logged in as %s", msg.Username))
		}
		return m, nil

	case signupResultMsg:
		if msg.Err != nil {
			m.setError(errmsg.Format(errmsg.OpSignup, msg.Err))
		} else {
			m.setStatus(fmt.Sprintf("Welcome, %s", msg.Username))
		}
		return m, nil

	case playbackErrorMsg:
		if msg.Err != nil {
			m.setError(errmsg.Format(errmsg.Op(msg.Op), msg.Err))
		}
		return m, m.awaitPlaybackError()

	case progressMsg:
		m.progress = engine.Progress(msg)
		return m, m.awaitProgress()
	}

	return m, nil
}

func (m Model) updateSearchResult(msg searchResultMsg) (tea.Model, tea.Cmd) {
	m.searching = false
	if msg.Err != nil {
		m.setError(errmsg.FormatWith(errmsg.OpSearch, msg.Query, msg.Err))
		return m, nil
	}
	m.results = msg.Tracks
	m.resultCursor = 0
	if len(msg.Tracks) == 0 {
		m.setStatus(fmt.Sprintf("No results for %q", msg.Query))
		return m, nil
	}
	m.focus = focusResults
	m.input.Blur()
	m.setStatus(fmt.Sprintf("%d results for %q", len(msg.Tracks), msg.Query))
	return m, nil
}

func (m Model) updateGenerateDone(msg generateDoneMsg) (tea.Model, tea.Cmd) {
	if m.gen != nil {
		m.gen.cancel()
		m.gen = nil
	}
	if errors.Is(msg.Err, context.Canceled) {
		// The user already cancelled; the status line says so.
		return m, nil
	}
	if msg.Err != nil {
		m.setError(msg.Err.Error())
		return m, nil
	}
	m.setStatus("Playlist ready, loading...")
	return m, loadPlaylist(m.deps.Client, msg.PlaylistID)
}

func (m Model) updatePlaylistLoaded(msg playlistLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.setError(errmsg.Format(errmsg.OpPlaylistLoad, msg.Err))
		return m, nil
	}
	pl := msg.Playlist
	if len(pl.Tracks) == 0 {
		m.setError(errmsg.FormatWith(errmsg.OpPlaylistLoad, pl.Name, errEmptyPlaylist))
		return m, nil
	}

	m.deps.Ctrl.LoadTracks(tracksFromAPI(m.deps.Client, pl.Tracks), 0)
	m.queueCursor = 0
	m.focus = focusQueue

	status := fmt.Sprintf("Playing %s (%d tracks)", pl.Name, len(pl.Tracks))
	if !m.deps.Session.Authenticated() {
		status += " - log in to keep playlists on your profile"
	}
	m.setStatus(status)
	return m, nil
}

func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m.quit()
	}

	if m.prompt != promptNone {
		return m.updatePrompt(msg)
	}

	if m.focus == focusInput {
		return m.updateSearchInput(msg)
	}

	return m.updateListKey(msg)
}

func (m Model) updateSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		query := strings.TrimSpace(m.input.Value())
		if query == "" {
			return m, nil
		}
		m.searching = true
		m.setStatus("Searching...")
		return m, searchTracks(m.deps.Client, query)
	case "tab", "esc":
		m.input.Blur()
		m.focus = focusResults
		if len(m.results) == 0 {
			m.focus = focusQueue
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.prompt = promptNone
		m.promptInput.Reset()
		return m, nil
	case "enter":
		value := strings.TrimSpace(m.promptInput.Value())
		return m.submitPrompt(value)
	}

	var cmd tea.Cmd
	m.promptInput, cmd = m.promptInput.Update(msg)
	return m, cmd
}

func (m Model) submitPrompt(value string) (tea.Model, tea.Cmd) {
	switch m.prompt {
	case promptUpload:
		m.prompt = promptNone
		m.promptInput.Reset()
		if value == "" {
			return m, nil
		}
		m.setStatus("Uploading seed...")
		return m, generateFromUpload(m.deps.Client, value)

	case promptLoginUser:
		if value == "" {
			return m, nil
		}
		m.loginUser = value
		m.prompt = promptLoginPass
		m.promptInput.Reset()
		m.promptInput.EchoMode = textinput.EchoPassword
		return m, nil

	case promptLoginPass:
		password := m.promptInput.Value()
		m.prompt = promptNone
		m.promptInput.Reset()
		m.promptInput.EchoMode = textinput.EchoNormal
		if password == "" {
			return m, nil
		}
		return m, login(m.deps.Session, m.loginUser, password)

	case promptSignupUser:
		if value == "" {
			return m, nil
		}
		m.signupUser = value
		m.prompt = promptSignupEmail
		m.promptInput.Reset()
		m.promptInput.Placeholder = "Email"
		return m, nil

	case promptSignupEmail:
		if value == "" {
			return m, nil
		}
		m.signupEmail = value
		m.prompt = promptSignupPass
		m.promptInput.Reset()
		m.promptInput.Placeholder = "Password"
		m.promptInput.EchoMode = textinput.EchoPassword
		return m, nil

	case promptSignupPass:
		password := m.promptInput.Value()
		m.prompt = promptNone
		m.promptInput.Reset()
		m.promptInput.EchoMode = textinput.EchoNormal
		if password == "" {
			return m, nil
		}
		return m, signup(m.deps.Session, m.signupUser, m.signupEmail, password)
	}
	return m, nil
}

func (m Model) updateListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m.quit()

	case "/":
		m.focus = focusInput
		m.input.Focus()
		return m, textinput.Blink

	case "tab":
		if m.focus == focusResults {
			m.focus = focusQueue
		} else {
			m.focus = focusResults
		}
		return m, nil

	case "up", "k":
		m.moveCursor(-1)
		return m, nil

	case "down", "j":
		m.moveCursor(1)
		return m, nil

	case "enter":
		return m.activateSelection()

	case " ":
		m.deps.Ctrl.TogglePlay()
		return m, nil

	case "n":
		m.deps.Ctrl.Advance()
		return m, nil

	case "p":
		m.deps.Ctrl.Rewind()
		return m, nil

	case "m":
		m.deps.Ctrl.ToggleMute()
		return m, nil

	case "+", "=":
		m.deps.Ctrl.SetVolume(m.deps.Ctrl.Volume() + 0.05)
		return m, nil

	case "-":
		m.deps.Ctrl.SetVolume(m.deps.Ctrl.Volume() - 0.05)
		return m, nil

	case ",":
		m.seekBy(-seekStep)
		return m, nil

	case ".":
		m.seekBy(seekStep)
		return m, nil

	case "g":
		if m.focus == focusResults && m.resultCursor < len(m.results) {
			t := m.results[m.resultCursor]
			m.setStatus(fmt.Sprintf("Requesting playlist from %s...", t.Title))
			return m, generateFromTrack(m.deps.Client, t)
		}
		return m, nil

	case "u":
		m.prompt = promptUpload
		m.promptInput.Placeholder = "Path to a local .mp3 seed"
		m.promptInput.Focus()
		return m, textinput.Blink

	case "L":
		m.prompt = promptLoginUser
		m.promptInput.Placeholder = "Username"
		m.promptInput.EchoMode = textinput.EchoNormal
		m.promptInput.Focus()
		return m, textinput.Blink

	case "S":
		m.prompt = promptSignupUser
		m.promptInput.Placeholder = "Username"
		m.promptInput.EchoMode = textinput.EchoNormal
		m.promptInput.Focus()
		return m, textinput.Blink

	case "O":
		if m.deps.Session.Authenticated() {
			m.deps.Session.Logout()
			m.setStatus("Logged out")
		}
		return m, nil

	case "esc":
		if m.gen != nil {
			m.gen.cancel()
			m.gen = nil
			m.setStatus("Generation cancelled")
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) moveCursor(delta int) {
	switch m.focus {
	case focusResults:
		m.resultCursor = clamp(m.resultCursor+delta, 0, len(m.results)-1)
	case focusQueue:
		m.queueCursor = clamp(m.queueCursor+delta, 0, m.deps.Ctrl.QueueLen()-1)
	default:
	}
}

func (m Model) activateSelection() (tea.Model, tea.Cmd) {
	switch m.focus {
	case focusResults:
		if m.resultCursor < len(m.results) {
			m.deps.Ctrl.LoadTrack(trackFromAPI(m.deps.Client, m.results[m.resultCursor]))
			m.queueCursor = 0
		}
	case focusQueue:
		tracks := m.deps.Ctrl.QueueTracks()
		if m.queueCursor < len(tracks) {
			m.deps.Ctrl.LoadTracks(tracks, m.queueCursor)
		}
	default:
	}
	return m, nil
}

func (m *Model) seekBy(delta time.Duration) {
	if m.progress.Duration <= 0 {
		return
	}
	target := m.progress.Elapsed + delta
	m.deps.Engine.SeekToFraction(float64(target) / float64(m.progress.Duration))
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	if m.gen != nil {
		m.gen.cancel()
	}
	m.persist()
	return m, tea.Quit
}

// persist saves prefs and the queue so the next run can restore them.
func (m Model) persist() {
	if m.deps.Store == nil {
		return
	}
	prefs := state.Prefs{Volume: m.deps.Ctrl.Volume(), Muted: m.deps.Ctrl.Muted()}
	if err := m.deps.Store.SavePrefs(prefs); err != nil {
		m.deps.Log.Warn("save prefs failed", zap.Error(err))
	}
	q := state.Queue{CurrentIndex: m.deps.Ctrl.CurrentIndex(), Tracks: m.deps.Ctrl.QueueTracks()}
	if err := m.deps.Store.SaveQueue(q); err != nil {
		m.deps.Log.Warn("save queue failed", zap.Error(err))
	}
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
