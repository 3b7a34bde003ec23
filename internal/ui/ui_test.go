package ui

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/museed/museed-tui/internal/api"
	"github.com/museed/museed-tui/internal/engine"
	"github.com/museed/museed-tui/internal/playback"
	"github.com/museed/museed-tui/internal/player"
	"github.com/museed/museed-tui/internal/task"
)

type fakeSession struct {
	authed      bool
	username    string
	signupEmail string
}

func (s *fakeSession) Login(_ context.Context, username, _ string) error {
	s.authed = true
	s.username = username
	return nil
}

func (s *fakeSession) Signup(_ context.Context, username, email, _ string) error {
	s.authed = true
	s.username = username
	s.signupEmail = email
	return nil
}

func (s *fakeSession) Logout()             { s.authed = false; s.username = "" }
func (s *fakeSession) Authenticated() bool { return s.authed }
func (s *fakeSession) Username() string    { return s.username }

func newTestModel(t *testing.T, serverURL string) (Model, *playback.Controller) {
	t.Helper()
	log := zap.NewNop()
	client := api.NewClient(serverURL, "")
	ctrl := playback.NewController(0.7)
	t.Cleanup(func() { ctrl.Close() })
	mock := player.NewMock()
	eng := engine.New(ctrl, mock, nil, log)
	poller := task.New(client.TaskStatus, task.Options{Interval: time.Millisecond}, log)

	m := New(Deps{
		Client:  client,
		Session: &fakeSession{},
		Ctrl:    ctrl,
		Engine:  eng,
		Poller:  poller,
		Log:     log,
	})
	return m, ctrl
}

func apply(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok)
	return model, cmd
}

func TestSearchResultFocusesResults(t *testing.T) {
	m, _ := newTestModel(t, "http://localhost:1")

	tracks := []api.Track{
		{TrackID: 1, Title: "One", ArtistName: "A"},
		{TrackID: 2, Title: "Two", ArtistName: "B"},
	}
	m, _ = apply(t, m, searchResultMsg{Query: "beat", Tracks: tracks})

	require.Equal(t, focusResults, m.focus)
	require.Len(t, m.results, 2)
	require.Equal(t, 0, m.resultCursor)
	require.Contains(t, m.statusMsg, "2 results")
}

func TestSearchErrorShowsMessage(t *testing.T) {
	m, _ := newTestModel(t, "http://localhost:1")

	m, _ = apply(t, m, searchResultMsg{Query: "x", Err: errors.New("connection refused")})
	require.Contains(t, m.errorMsg, "Failed to search tracks")
	require.Empty(t, m.results)
}

func TestPlaylistLoadedQueuesTracks(t *testing.T) {
	m, ctrl := newTestModel(t, "http://localhost:1")

	pl := &api.Playlist{
		ID:   42,
		Name: "Morning Mix",
		Tracks: []api.Track{
			{TrackID: 10, Title: "One", AudioURL: "/api/tracks/10/stream"},
			{TrackID: 11, Title: "Two", AudioURL: "/api/tracks/11/stream"},
		},
	}
	m, _ = apply(t, m, playlistLoadedMsg{Playlist: pl})

	require.Equal(t, 2, ctrl.QueueLen())
	require.Equal(t, 0, ctrl.CurrentIndex())
	require.True(t, ctrl.Playing())
	require.Contains(t, m.statusMsg, "Morning Mix")
	// Anonymous sessions get the account notice.
	require.Contains(t, m.statusMsg, "log in")
}

func TestPlaylistLoadedAuthenticatedSkipsNotice(t *testing.T) {
	m, _ := newTestModel(t, "http://localhost:1")
	m.deps.Session.(*fakeSession).authed = true

	pl := &api.Playlist{Name: "Mix", Tracks: []api.Track{{TrackID: 1, Title: "One"}}}
	m, _ = apply(t, m, playlistLoadedMsg{Playlist: pl})
	require.NotContains(t, m.statusMsg, "log in")
}

func TestGenerateFailureSurfacesTaskMessage(t *testing.T) {
	m, _ := newTestModel(t, "http://localhost:1")

	m, _ = apply(t, m, generateDoneMsg{Err: errors.New("Task Failed: boom")})
	require.Equal(t, "Task Failed: boom", m.errorMsg)
	require.Nil(t, m.gen)
}

func TestCancelledGenerationKeepsStatus(t *testing.T) {
	m, _ := newTestModel(t, "http://localhost:1")
	m.focus = focusQueue
	m.gen = &generation{cancel: func() {}}

	// esc cancels; the poller then reports context.Canceled, which must
	// not overwrite the cancellation notice.
	m, _ = apply(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	require.Nil(t, m.gen)
	require.Equal(t, "Generation cancelled", m.statusMsg)

	m, _ = apply(t, m, generateDoneMsg{Err: context.Canceled})
	require.Empty(t, m.errorMsg)
	require.Equal(t, "Generation cancelled", m.statusMsg)
}

func TestSignupPromptFlow(t *testing.T) {
	m, _ := newTestModel(t, "http://localhost:1")
	m.focus = focusQueue

	m, _ = apply(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("S")})
	require.Equal(t, promptSignupUser, m.prompt)

	typeRunes := func(s string) {
		for _, r := range s {
			m, _ = apply(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		}
	}

	typeRunes("alice")
	m, _ = apply(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, promptSignupEmail, m.prompt)

	typeRunes("alice@example.com")
	m, _ = apply(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, promptSignupPass, m.prompt)

	typeRunes("secret")
	m, cmd := apply(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, promptNone, m.prompt)
	require.NotNil(t, cmd)

	m, _ = apply(t, m, cmd())
	sess := m.deps.Session.(*fakeSession)
	require.Equal(t, "alice", sess.username)
	require.Equal(t, "alice@example.com", sess.signupEmail)
	require.Contains(t, m.statusMsg, "Welcome, alice")
}

func TestGenerateSuccessLoadsPlaylist(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/playlists/42", r.URL.Path)
		_ = json.NewEncoder(w).Encode(api.Playlist{
			ID:     42,
			Name:   "Generated",
			Tracks: []api.Track{{TrackID: 1, Title: "One"}},
		})
	}))
	defer srv.Close()

	m, ctrl := newTestModel(t, srv.URL)

	m, cmd := apply(t, m, generateDoneMsg{PlaylistID: 42})
	require.NotNil(t, cmd)

	m, _ = apply(t, m, cmd())
	require.Equal(t, 1, ctrl.QueueLen())
	require.Contains(t, m.statusMsg, "Generated")
}

func TestGenerationRunsThroughPoller(t *testing.T) {
	polls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/playlists/task/t1", r.URL.Path)
		polls++
		st := api.TaskStatus{TaskID: "t1", Status: api.TaskPending}
		if polls >= 3 {
			st.Status = api.TaskSuccess
			st.Result = &api.TaskResult{PlaylistID: 42}
		}
		_ = json.NewEncoder(w).Encode(st)
	}))
	defer srv.Close()

	m, _ := newTestModel(t, srv.URL)

	m, cmd := apply(t, m, generateStartedMsg{TaskID: "t1", Label: "One"})
	require.NotNil(t, m.gen)
	require.NotNil(t, cmd)

	// Drain generation messages until the terminal one arrives.
	deadline := time.After(5 * time.Second)
	for {
		select {
		case <-deadline:
			t.Fatal("generation did not finish")
		default:
		}
		msg := cmd()
		var done bool
		if _, done = msg.(generateDoneMsg); done {
			m, cmd = apply(t, m, msg)
			require.Nil(t, m.gen)
			require.NotNil(t, cmd) // loadPlaylist follows
			return
		}
		m, cmd = apply(t, m, msg)
		require.NotNil(t, cmd)
	}
}

func TestKeysDriveTransport(t *testing.T) {
	m, ctrl := newTestModel(t, "http://localhost:1")
	ctrl.LoadTracks([]playback.Track{
		{ID: 1, Title: "One"},
		{ID: 2, Title: "Two"},
	}, 0)
	m.focus = focusQueue

	m, _ = apply(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(" ")})
	require.False(t, ctrl.Playing())

	m, _ = apply(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})
	require.Equal(t, 1, ctrl.CurrentIndex())
	require.True(t, ctrl.Playing())

	m, _ = apply(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("p")})
	require.Equal(t, 0, ctrl.CurrentIndex())

	m, _ = apply(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("m")})
	require.True(t, ctrl.Muted())

	_, _ = apply(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("+")})
	require.InDelta(t, 0.75, ctrl.Volume(), 1e-9)
}

func TestGenerateKeyUsesSelectedResult(t *testing.T) {
	m, _ := newTestModel(t, "http://localhost:1")
	m.results = []api.Track{{TrackID: 5, Title: "Seed"}}
	m.focus = focusResults

	m, cmd := apply(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("g")})
	require.NotNil(t, cmd)
	require.Contains(t, m.statusMsg, "Seed")
}

func TestEnterOnResultLoadsSingleTrack(t *testing.T) {
	m, ctrl := newTestModel(t, "http://localhost:1")
	m.results = []api.Track{{TrackID: 5, Title: "Solo", AudioURL: "/api/tracks/5/stream"}}
	m.focus = focusResults

	_, _ = apply(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, 1, ctrl.QueueLen())
	require.Equal(t, "Solo", ctrl.CurrentTrack().Title)
	require.True(t, ctrl.Playing())
}
