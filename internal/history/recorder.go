// Package history reports listen events for profile statistics.
package history

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/museed/museed-tui/internal/api"
	"github.com/museed/museed-tui/internal/playback"
)

const recordTimeout = 10 * time.Second

// Recorder posts listen events to the history endpoint. Best effort:
// failures are logged and never retried, and playback is never
// affected. Events are skipped entirely for anonymous sessions.
type Recorder struct {
	client *api.Client
	authed func() bool
	log    *zap.Logger
}

// NewRecorder creates a listen recorder. authed reports whether an
// authenticated session is present at send time.
func NewRecorder(client *api.Client, authed func() bool, log *zap.Logger) *Recorder {
	return &Recorder{client: client, authed: authed, log: log}
}

// RecordListen sends one listen event in the background.
func (r *Recorder) RecordListen(track playback.Track) {
	if !r.authed() {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		defer cancel()

		if err := r.client.RecordListen(ctx, track.ID, track.Genre); err != nil {
			r.log.Warn("record listen failed",
				zap.Int64("track_id", track.ID),
				zap.String("genre", track.Genre),
				zap.Error(err))
		}
	}()
}
