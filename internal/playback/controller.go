// Package playback owns the playback queue and transport state.
//
// The Controller holds declarative state only: which tracks are
// queued, where the cursor is, and whether the session wants audio
// playing. It never touches the audio device itself; the engine
// adapter subscribes to its events and drives the actual resource.
package playback

import "sync"

// Controller is the playback queue controller. One instance exists
// per application session; all mutation goes through its methods.
type Controller struct {
	mu sync.RWMutex

	queue   *queue
	playing bool
	volume  float64
	muted   bool

	subs   []*Subscription
	subsMu sync.RWMutex

	closed bool
}

// NewController creates a controller with the given initial volume.
func NewController(volume float64) *Controller {
	return &Controller{
		queue:  newQueue(),
		volume: clampVolume(volume),
	}
}

func clampVolume(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// LoadTrack replaces the queue with a single track and starts playback.
func (c *Controller) LoadTrack(t Track) {
	c.LoadTracks([]Track{t}, 0)
}

// LoadTracks replaces the queue wholesale and starts playback at
// startIndex (clamped into range). An empty track list is a no-op.
func (c *Controller) LoadTracks(tracks []Track, startIndex int) {
	c.load(tracks, startIndex, true)
}

// LoadTracksPaused primes the queue without starting playback. Used
// when restoring the previous session's queue at startup.
func (c *Controller) LoadTracksPaused(tracks []Track, startIndex int) {
	c.load(tracks, startIndex, false)
}

func (c *Controller) load(tracks []Track, startIndex int, playing bool) {
	c.mu.Lock()
	if len(tracks) == 0 {
		c.mu.Unlock()
		return
	}

	previous := c.queue.Current()
	current := c.queue.Replace(tracks, startIndex)
	index := c.queue.CurrentIndex()
	queueCopy := c.queue.Tracks()
	stateChanged := c.playing != playing
	c.playing = playing
	c.mu.Unlock()

	c.publishQueue(QueueChange{Tracks: queueCopy, Index: index})
	c.publishTrack(TrackChange{Previous: previous, Current: current, Index: index})
	if stateChanged {
		c.publishState(StateChange{Playing: playing})
	}
}

// TogglePlay flips the playing flag. No-op when nothing is loaded.
func (c *Controller) TogglePlay() {
	c.mu.Lock()
	if c.queue.Current() == nil {
		c.mu.Unlock()
		return
	}
	c.playing = !c.playing
	playing := c.playing
	c.mu.Unlock()

	c.publishState(StateChange{Playing: playing})
}

// Advance moves to the next track. At the end of the queue it stops
// playback and leaves the cursor on the last track; calling it again
// past the end is a safe no-op. Both the UI's "next" action and the
// engine's end-of-media callback land here, so it must stay
// re-entrant-safe.
func (c *Controller) Advance() {
	c.mu.Lock()
	if c.queue.Current() == nil {
		c.mu.Unlock()
		return
	}

	if next := c.queue.Next(); next != nil {
		previous := c.previousOf(c.queue.CurrentIndex())
		index := c.queue.CurrentIndex()
		stateChanged := !c.playing
		c.playing = true
		c.mu.Unlock()

		c.publishTrack(TrackChange{Previous: previous, Current: next, Index: index})
		if stateChanged {
			c.publishState(StateChange{Playing: true})
		}
		return
	}

	// End of queue: stop, keep cursor on the last track.
	stateChanged := c.playing
	c.playing = false
	c.mu.Unlock()

	if stateChanged {
		c.publishState(StateChange{Playing: false})
	}
}

// previousOf returns the track before index, or nil. Caller holds mu.
func (c *Controller) previousOf(index int) *Track {
	tracks := c.queue.tracks
	if index-1 < 0 || index-1 >= len(tracks) {
		return nil
	}
	t := tracks[index-1]
	return &t
}

// Rewind moves to the previous track. At the head it restarts the
// first track instead of failing. No-op when nothing is loaded.
func (c *Controller) Rewind() {
	c.mu.Lock()
	if c.queue.Current() == nil {
		c.mu.Unlock()
		return
	}

	previous := c.queue.Current()
	current := c.queue.Prev()
	index := c.queue.CurrentIndex()
	stateChanged := !c.playing
	c.playing = true
	c.mu.Unlock()

	c.publishTrack(TrackChange{Previous: previous, Current: current, Index: index})
	if stateChanged {
		c.publishState(StateChange{Playing: true})
	}
}

// SetVolume sets the volume level (clamped to 0.0-1.0). Any positive
// volume clears mute.
func (c *Controller) SetVolume(v float64) {
	c.mu.Lock()
	c.volume = clampVolume(v)
	if c.volume > 0 {
		c.muted = false
	}
	e := VolumeChange{Volume: c.volume, Muted: c.muted}
	c.mu.Unlock()

	c.publishVolume(e)
}

// ToggleMute flips mute without touching the volume level.
func (c *Controller) ToggleMute() {
	c.mu.Lock()
	c.muted = !c.muted
	e := VolumeChange{Volume: c.volume, Muted: c.muted}
	c.mu.Unlock()

	c.publishVolume(e)
}

// Reset clears the queue and stops playback. Volume and mute survive
// as user preference. Called on session boundaries (logout, user
// switch) before any new session's views render.
func (c *Controller) Reset() {
	c.mu.Lock()
	hadTrack := c.queue.Current()
	c.queue.Clear()
	stateChanged := c.playing
	c.playing = false
	c.mu.Unlock()

	c.publishQueue(QueueChange{Tracks: nil, Index: -1})
	if hadTrack != nil {
		c.publishTrack(TrackChange{Previous: hadTrack, Current: nil, Index: -1})
	}
	if stateChanged {
		c.publishState(StateChange{Playing: false})
	}
}

// ReportError feeds a playback-side failure back to subscribers.
// The playing flag is deliberately not rolled back: the controller
// state stays optimistic and the failure is surfaced as an event.
func (c *Controller) ReportError(op string, err error) {
	c.publishError(ErrorEvent{Op: op, Err: err})
}

// --- State queries ---

// CurrentTrack returns a copy of the current track, or nil if none.
func (c *Controller) CurrentTrack() *Track {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t := c.queue.Current()
	if t == nil {
		return nil
	}
	cp := *t
	return &cp
}

// CurrentIndex returns the queue cursor (-1 if nothing loaded).
func (c *Controller) CurrentIndex() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.queue.CurrentIndex()
}

// Playing returns the declarative playing flag.
func (c *Controller) Playing() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.playing
}

// Volume returns the volume level (0.0-1.0).
func (c *Controller) Volume() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.volume
}

// Muted returns whether output is muted.
func (c *Controller) Muted() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.muted
}

// QueueTracks returns a copy of the queued tracks.
func (c *Controller) QueueTracks() []Track {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.queue.Tracks()
}

// QueueLen returns the number of queued tracks.
func (c *Controller) QueueLen() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.queue.Len()
}

// --- Subscriptions ---

// Subscribe creates a new event subscription.
func (c *Controller) Subscribe() *Subscription {
	c.subsMu.Lock()
	defer c.subsMu.Unlock()
	sub := newSubscription()
	c.subs = append(c.subs, sub)
	return sub
}

// Close shuts down all subscriptions.
func (c *Controller) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	c.subsMu.Lock()
	for _, sub := range c.subs {
		sub.close()
	}
	c.subs = nil
	c.subsMu.Unlock()
	return nil
}

func (c *Controller) publishTrack(e TrackChange) {
	c.subsMu.RLock()
	defer c.subsMu.RUnlock()
	for _, sub := range c.subs {
		sub.sendTrack(e)
	}
}

func (c *Controller) publishState(e StateChange) {
	c.subsMu.RLock()
	defer c.subsMu.RUnlock()
	for _, sub := range c.subs {
		sub.sendState(e)
	}
}

func (c *Controller) publishVolume(e VolumeChange) {
	c.subsMu.RLock()
	defer c.subsMu.RUnlock()
	for _, sub := range c.subs {
		sub.sendVolume(e)
	}
}

func (c *Controller) publishQueue(e QueueChange) {
	c.subsMu.RLock()
	defer c.subsMu.RUnlock()
	for _, sub := range c.subs {
		sub.sendQueue(e)
	}
}

func (c *Controller) publishError(e ErrorEvent) {
	c.subsMu.RLock()
	defer c.subsMu.RUnlock()
	for _, sub := range c.subs {
		sub.sendError(e)
	}
}
