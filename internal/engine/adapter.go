// Package engine synchronizes the audio player with the playback
// controller's declarative state.
//
// The controller never talks to the audio device and the player never
// looks at the queue; this adapter subscribes to controller events and
// drives the player, and routes the player's end-of-media callback
// back into Advance. That closes the loop: UI -> controller -> engine
// -> player -> (track ends) -> controller.
package engine

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/museed/museed-tui/internal/playback"
	"github.com/museed/museed-tui/internal/player"
)

const (
	progressInterval = 500 * time.Millisecond

	// Listen-recording window: the side effect fires once per track
	// when elapsed playback first lands inside it.
	listenWindowStart = time.Second
	listenWindowEnd   = 2 * time.Second
)

// ListenRecorder receives one listen event per played track.
type ListenRecorder interface {
	RecordListen(track playback.Track)
}

// Progress is periodic playback telemetry for the UI.
type Progress struct {
	Track    *playback.Track
	Elapsed  time.Duration
	Duration time.Duration
	Playing  bool
}

// Adapter bridges the playback controller and the audio player.
type Adapter struct {
	ctrl     *playback.Controller
	player   player.Interface
	recorder ListenRecorder
	log      *zap.Logger

	progressCh chan Progress

	mu          sync.Mutex
	boundID     int64
	boundIndex  int
	duration    time.Duration // authoritative once the media reports it
	listenFired bool
}

// New creates the adapter. recorder may be nil when listen recording
// is disabled (anonymous session).
func New(ctrl *playback.Controller, p player.Interface, recorder ListenRecorder, log *zap.Logger) *Adapter {
	a := &Adapter{
		ctrl:       ctrl,
		player:     p,
		recorder:   recorder,
		log:        log,
		progressCh: make(chan Progress, 4),
		boundIndex: -1,
	}

	p.OnLoaded(a.handleLoaded)
	p.OnFinished(a.handleFinished)
	p.OnError(a.handleError)

	return a
}

// Progress returns the telemetry channel. Emitted on a fixed tick
// while a track is bound; reads that fall behind are dropped.
func (a *Adapter) Progress() <-chan Progress {
	return a.progressCh
}

// Start runs the event loop until ctx is cancelled or the controller
// closes its subscription.
func (a *Adapter) Start(ctx context.Context) {
	sub := a.ctrl.Subscribe()
	go a.run(ctx, sub)
}

func (a *Adapter) run(ctx context.Context, sub *playback.Subscription) {
	ticker := time.NewTicker(progressInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			a.player.Stop()
			return
		case <-sub.Done:
			a.player.Stop()
			return

		case e := <-sub.TrackChanged:
			a.handleTrackChange(e)

		case e := <-sub.StateChanged:
			if e.Playing {
				a.player.Resume()
			} else {
				a.player.Pause()
			}

		case e := <-sub.VolumeChanged:
			a.player.SetVolume(e.Volume)
			a.player.SetMuted(e.Muted)

		case <-ticker.C:
			a.tick()
		}
	}
}

// handleTrackChange rebinds the player to the controller's current
// track. A change that resolves to the already-bound track (rewind on
// the first queue entry) restarts it from the top instead of
// re-downloading.
func (a *Adapter) handleTrackChange(e playback.TrackChange) {
	if e.Current == nil {
		a.mu.Lock()
		a.boundID = 0
		a.boundIndex = -1
		a.duration = 0
		a.listenFired = false
		a.mu.Unlock()
		a.player.Stop()
		return
	}

	a.mu.Lock()
	sameBinding := e.Current.ID == a.boundID && e.Index == a.boundIndex
	a.boundID = e.Current.ID
	a.boundIndex = e.Index
	if !sameBinding {
		a.duration = e.Current.Duration
		a.listenFired = false
	}
	a.mu.Unlock()

	if sameBinding {
		a.player.SeekToFraction(0)
		if a.ctrl.Playing() {
			a.player.Resume()
		}
		return
	}

	a.player.Load(e.Current.AudioURL, a.ctrl.Playing())
}

// handleLoaded records the decoded duration, which overrides the
// catalog hint.
func (a *Adapter) handleLoaded(d time.Duration) {
	a.mu.Lock()
	a.duration = d
	a.mu.Unlock()
}

// handleFinished is the sole automatic-advance trigger.
func (a *Adapter) handleFinished() {
	a.ctrl.Advance()
}

// handleError feeds player failures back to controller subscribers.
// The transport state stays optimistic; the UI can show the error.
func (a *Adapter) handleError(op string, err error) {
	a.log.Warn("playback error", zap.String("op", op), zap.Error(err))
	a.ctrl.ReportError(op, err)
}

// SeekToFraction forwards a progress-bar interaction to the player.
func (a *Adapter) SeekToFraction(fraction float64) {
	a.player.SeekToFraction(fraction)
}

// tick emits progress telemetry and fires the listen side effect when
// the elapsed time first lands in the listen window.
func (a *Adapter) tick() {
	current := a.ctrl.CurrentTrack()
	if current == nil {
		return
	}

	elapsed := a.player.Position()

	a.mu.Lock()
	duration := a.duration
	fireListen := false
	if a.ctrl.Playing() && !a.listenFired &&
		elapsed >= listenWindowStart && elapsed <= listenWindowEnd {
		a.listenFired = true
		fireListen = true
	}
	a.mu.Unlock()

	if fireListen && a.recorder != nil && current.Genre != "" {
		a.recorder.RecordListen(*current)
	}

	p := Progress{
		Track:    current,
		Elapsed:  elapsed,
		Duration: duration,
		Playing:  a.ctrl.Playing(),
	}
	select {
	case a.progressCh <- p:
	default:
		// UI is behind; drop the sample
	}
}
