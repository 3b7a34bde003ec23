// Package player owns the process's single audio output resource.
//
// Track audio is streamed from the Museed media endpoint: each load
// downloads to a temp file first so the decoder has a seekable
// source, then binds it to the speaker. The catalog serves mp3 only.
package player

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"go.uber.org/zap"
)

const sampleRate = beep.SampleRate(44100)

type Player struct {
	mu sync.Mutex

	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	volume   *effects.Volume
	file     *os.File
	playing  bool

	volumeLevel float64
	muted       bool

	// loadGen guards against stale async loads: each Load bumps it,
	// and a completion only applies while its generation is current.
	loadGen uint64

	onLoaded   func(duration time.Duration)
	onFinished func()
	onError    func(op string, err error)

	httpClient *http.Client
	log        *zap.Logger
	closed     bool
}

var speakerOnce sync.Once

// New creates the audio engine. log may not be nil; pass zap.NewNop()
// when diagnostics are not wanted.
func New(log *zap.Logger) *Player {
	return &Player{
		volumeLevel: 1,
		httpClient:  &http.Client{}, // media fetches can be long; no client timeout
		log:         log,
	}
}

// OnLoaded registers the metadata callback, invoked with the decoded
// media's authoritative duration once a load completes.
func (p *Player) OnLoaded(fn func(duration time.Duration)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onLoaded = fn
}

// OnFinished registers the natural end-of-media callback.
func (p *Player) OnFinished(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onFinished = fn
}

// OnError registers the failure callback. Load and playback-start
// failures are reported there and logged, never panicked.
func (p *Player) OnError(fn func(op string, err error)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onError = fn
}

// Load fetches the track audio and binds it to the speaker. Any
// in-flight playback is stopped first. When play is false the track
// is bound paused.
func (p *Player) Load(url string, play bool) {
	p.mu.Lock()
	p.loadGen++
	gen := p.loadGen
	p.unbindLocked()
	p.mu.Unlock()

	if url == "" {
		p.reportError("load track", fmt.Errorf("track has no audio url"))
		return
	}

	go p.fetchAndBind(url, gen, play)
}

func (p *Player) fetchAndBind(url string, gen uint64, play bool) {
	f, err := p.fetch(url)
	if err != nil {
		p.reportError("load track", err)
		return
	}

	streamer, format, err := mp3.Decode(f)
	if err != nil {
		f.Close()
		p.reportError("decode track", fmt.Errorf("decode %s: %w", url, err))
		return
	}

	speakerOnce.Do(func() {
		if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
			p.reportError("init speaker", err)
		}
	})

	p.mu.Lock()
	if p.closed || gen != p.loadGen {
		// A newer load superseded this one; the latest wins.
		p.mu.Unlock()
		streamer.Close()
		f.Close()
		return
	}

	p.streamer = streamer
	p.format = format
	p.file = f
	p.ctrl = &beep.Ctrl{Streamer: beep.Resample(4, format.SampleRate, sampleRate, streamer), Paused: !play}
	p.volume = &effects.Volume{
		Streamer: p.ctrl,
		Base:     2,
		Volume:   levelToVolume(p.volumeLevel),
		Silent:   p.muted,
	}
	p.playing = play
	duration := format.SampleRate.D(streamer.Len())
	vol := p.volume
	onLoaded := p.onLoaded
	onFinished := p.onFinished
	p.mu.Unlock()

	speaker.Play(beep.Seq(vol, beep.Callback(func() {
		p.mu.Lock()
		// The seq callback also fires when a superseded streamer
		// drains; only the current generation may auto-advance.
		stale := gen != p.loadGen
		if !stale {
			p.playing = false
		}
		p.mu.Unlock()
		if !stale && onFinished != nil {
			onFinished()
		}
	})))

	if onLoaded != nil {
		onLoaded(duration)
	}
}

// fetch downloads the track audio to a temp file and returns it
// positioned at the start. The file is unlinked immediately so it
// vanishes on close.
func (p *Player) fetch(url string) (*os.File, error) {
	resp, err := p.httpClient.Get(url)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}

	f, err := os.CreateTemp("", "museed-track-*.mp3")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	os.Remove(f.Name())

	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		return nil, fmt.Errorf("download %s: %w", url, err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return nil, fmt.Errorf("rewind temp file: %w", err)
	}
	return f, nil
}

// Pause stops audio output without unbinding the track.
func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ctrl == nil {
		return
	}
	speaker.Lock()
	p.ctrl.Paused = true
	speaker.Unlock()
	p.playing = false
}

// Resume restarts audio output of the bound track.
func (p *Player) Resume() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ctrl == nil {
		return
	}
	speaker.Lock()
	p.ctrl.Paused = false
	speaker.Unlock()
	p.playing = true
}

// Stop unbinds the current track and clears the speaker.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.loadGen++ // invalidate any in-flight load
	p.unbindLocked()
}

func (p *Player) unbindLocked() {
	if p.streamer == nil {
		return
	}
	speaker.Clear()
	p.streamer.Close()
	p.streamer = nil
	if p.file != nil {
		p.file.Close()
		p.file = nil
	}
	p.ctrl = nil
	p.volume = nil
	p.playing = false
}

// SeekToFraction seeks to fraction*duration of the bound track.
// Applied immediately, no debouncing.
func (p *Player) SeekToFraction(fraction float64) {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.streamer == nil {
		return
	}

	speaker.Lock()
	target := int(float64(p.streamer.Len()) * fraction)
	err := p.streamer.Seek(target)
	speaker.Unlock()

	if err != nil {
		p.log.Warn("seek failed", zap.Float64("fraction", fraction), zap.Error(err))
	}
}

// Position returns the playback position of the bound track.
func (p *Player) Position() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.streamer == nil {
		return 0
	}
	speaker.Lock()
	pos := p.streamer.Position()
	speaker.Unlock()
	return p.format.SampleRate.D(pos)
}

// Duration returns the decoded duration of the bound track.
func (p *Player) Duration() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.streamer == nil {
		return 0
	}
	return p.format.SampleRate.D(p.streamer.Len())
}

// Playing reports whether audio output is active.
func (p *Player) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

// Close releases the audio resource.
func (p *Player) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	p.loadGen++
	p.unbindLocked()
	return nil
}

func (p *Player) reportError(op string, err error) {
	p.log.Warn("player error", zap.String("op", op), zap.Error(err))
	p.mu.Lock()
	fn := p.onError
	p.mu.Unlock()
	if fn != nil {
		fn(op, err)
	}
}
