package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/museed/museed-tui/internal/api"
	"github.com/museed/museed-tui/internal/config"
	"github.com/museed/museed-tui/internal/engine"
	"github.com/museed/museed-tui/internal/history"
	"github.com/museed/museed-tui/internal/logging"
	"github.com/museed/museed-tui/internal/playback"
	"github.com/museed/museed-tui/internal/player"
	"github.com/museed/museed-tui/internal/session"
	"github.com/museed/museed-tui/internal/state"
	"github.com/museed/museed-tui/internal/stderr"
	"github.com/museed/museed-tui/internal/task"
	"github.com/museed/museed-tui/internal/ui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logging.Open(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck // best-effort flush on exit

	if err := stderr.Capture(log); err != nil {
		log.Warn("stderr capture failed", zap.Error(err))
	}
	defer stderr.Restore()

	client := api.NewClient(cfg.Server.URL, cfg.Server.MediaURL)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Status(ctx); err != nil {
			log.Warn("backend unreachable", zap.String("url", cfg.Server.URL), zap.Error(err))
		}
	}()

	// Persistence is best effort: a broken database leaves us with an
	// in-memory session and no saved queue.
	store, err := state.OpenDefault()
	if err != nil {
		log.Warn("open state store failed", zap.Error(err))
		store = nil
	} else {
		defer store.Close()
	}

	// A nil *state.Store must not end up as a non-nil TokenStore
	// interface value inside the session manager.
	var tokens session.TokenStore
	if store != nil {
		tokens = store
	}
	sess := session.NewManager(client, tokens, log)
	sess.Restore()

	volume := cfg.Playback.Volume
	muted := false
	if store != nil {
		if prefs, err := store.LoadPrefs(); err == nil {
			volume = prefs.Volume
			muted = prefs.Muted
		}
	}

	ctrl := playback.NewController(volume)
	defer ctrl.Close()
	if muted {
		ctrl.ToggleMute()
	}
	sess.OnReset(ctrl.Reset)

	recorder := history.NewRecorder(client, sess.Authenticated, log)
	eng := engine.New(ctrl, player.New(log), recorder, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	eng.Start(ctx)

	restoreQueue(ctrl, store, log)

	poller := task.New(client.TaskStatus, task.Options{
		Interval:    cfg.Generate.PollInterval,
		MaxAttempts: cfg.Generate.MaxAttempts,
		Timeout:     cfg.Generate.Timeout,
	}, log)

	model := ui.New(ui.Deps{
		Client:  client,
		Session: sess,
		Ctrl:    ctrl,
		Engine:  eng,
		Poller:  poller,
		Store:   store,
		Log:     log,
	})

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

// restoreQueue reloads the last queue paused at its saved position.
func restoreQueue(ctrl *playback.Controller, store *state.Store, log *zap.Logger) {
	if store == nil {
		return
	}
	q, err := store.LoadQueue()
	if err != nil {
		log.Warn("load saved queue failed", zap.Error(err))
		return
	}
	if len(q.Tracks) == 0 {
		return
	}

	index := q.CurrentIndex
	if index < 0 || index >= len(q.Tracks) {
		index = 0
	}
	ctrl.LoadTracksPaused(q.Tracks, index)
}
