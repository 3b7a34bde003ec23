package ui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/museed/museed-tui/internal/api"
	"github.com/museed/museed-tui/internal/seed"
	"github.com/museed/museed-tui/internal/task"
)

const requestTimeout = 30 * time.Second

// searchTracks queries the catalog.
func searchTracks(client *api.Client, query string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		tracks, err := client.SearchTracks(ctx, query)
		return searchResultMsg{Query: query, Tracks: tracks, Err: err}
	}
}

// generateFromTrack submits a generation task seeded by a catalog track.
func generateFromTrack(client *api.Client, t api.Track) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		name := fmt.Sprintf("Based on %s", t.Title)
		sub, err := client.CreatePlaylist(ctx, name, t.TrackID)
		if err != nil {
			return generateStartedMsg{Err: err}
		}
		return generateStartedMsg{TaskID: sub.TaskID, Label: t.Title}
	}
}

// generateFromUpload inspects a local seed file and submits it.
func generateFromUpload(client *api.Client, path string) tea.Cmd {
	return func() tea.Msg {
		info, err := seed.Inspect(path)
		if err != nil {
			return generateStartedMsg{Err: err}
		}

		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		name := fmt.Sprintf("Based on %s", info.Title)
		sub, err := client.CreatePlaylistUpload(ctx, name, path)
		if err != nil {
			return generateStartedMsg{Err: err}
		}
		return generateStartedMsg{
			TaskID: sub.TaskID,
			Label:  fmt.Sprintf("%s (%s)", info.Title, info.Size),
		}
	}
}

// startGeneration runs the poller in the background. Progress and the
// terminal outcome arrive through the generation's channels, which
// awaitGeneration bridges into the message loop.
func startGeneration(p *task.Poller, taskID, label string) *generation {
	ctx, cancel := context.WithCancel(context.Background())
	g := &generation{
		taskID:   taskID,
		label:    label,
		status:   api.TaskPending,
		cancel:   cancel,
		progress: make(chan generateProgressMsg, 8),
		done:     make(chan generateDoneMsg, 1),
	}

	go func() {
		defer close(g.progress)
		id, err := p.Run(ctx, taskID, func(status string, attempt int) {
			select {
			case g.progress <- generateProgressMsg{Status: status, Attempt: attempt}:
			default:
			}
		})
		g.done <- generateDoneMsg{PlaylistID: id, Err: err}
	}()
	return g
}

// awaitGeneration waits for the next generation event. Re-armed from
// Update until the terminal message arrives.
func awaitGeneration(g *generation) tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-g.done:
			return msg
		case msg, ok := <-g.progress:
			if !ok {
				return <-g.done
			}
			return msg
		}
	}
}

// loadPlaylist fetches a generated playlist for queueing.
func loadPlaylist(client *api.Client, id int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		pl, err := client.GetPlaylist(ctx, id)
		return playlistLoadedMsg{Playlist: pl, Err: err}
	}
}

// login authenticates through the session manager.
func login(sess sessionAPI, username, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		err := sess.Login(ctx, username, password)
		return loginResultMsg{Username: username, Err: err}
	}
}

// signup registers an account and logs straight into it.
func signup(sess sessionAPI, username, email, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		err := sess.Signup(ctx, username, email, password)
		return signupResultMsg{Username: username, Err: err}
	}
}

// awaitPlaybackError forwards controller error events into the loop.
func (m Model) awaitPlaybackError() tea.Cmd {
	return func() tea.Msg {
		select {
		case e := <-m.sub.Error:
			return playbackErrorMsg{Op: e.Op, Err: e.Err}
		case <-m.sub.Done:
			return nil
		}
	}
}

// awaitProgress forwards player position samples into the loop.
func (m Model) awaitProgress() tea.Cmd {
	return func() tea.Msg {
		p, ok := <-m.deps.Engine.Progress()
		if !ok {
			return nil
		}
		return progressMsg(p)
	}
}
