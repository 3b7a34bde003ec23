package ui

import (
	"github.com/museed/museed-tui/internal/api"
	"github.com/museed/museed-tui/internal/engine"
)

// searchResultMsg is sent when a catalog search completes.
type searchResultMsg struct {
	Query  string
	Tracks []api.Track
	Err    error
}

// generateStartedMsg is sent when a generation task has been accepted.
type generateStartedMsg struct {
	TaskID string
	Label  string // seed description for the status line
	Err    error
}

// generateProgressMsg carries one non-terminal poll of the task.
type generateProgressMsg struct {
	Status  string
	Attempt int
}

// generateDoneMsg is the single terminal outcome of a generation.
type generateDoneMsg struct {
	PlaylistID int64
	Err        error
}

// playlistLoadedMsg is sent when a generated playlist has been fetched.
type playlistLoadedMsg struct {
	Playlist *api.Playlist
	Err      error
}

// loginResultMsg is sent when a login attempt completes.
type loginResultMsg struct {
	Username string
	Err      error
}

// signupResultMsg is sent when a signup attempt completes. Signup logs
// the new account straight in on success.
type signupResultMsg struct {
	Username string
	Err      error
}

// playbackErrorMsg surfaces an asynchronous playback failure.
type playbackErrorMsg struct {
	Op  string
	Err error
}

// progressMsg carries a player position sample.
type progressMsg engine.Progress
