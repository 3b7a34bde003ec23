package playback

// queue holds the ordered track list and the playback cursor.
//
// Invariants:
//   - currentIndex is -1 (nothing loaded) or a valid index into tracks.
//   - the queue is replaced wholesale; the slice is always a fresh copy
//     so callers cannot mutate it behind the cursor's back.
type queue struct {
	tracks       []Track
	currentIndex int
}

func newQueue() *queue {
	return &queue{currentIndex: -1}
}

// Current returns the track at the cursor, or nil if none.
func (q *queue) Current() *Track {
	if q.currentIndex < 0 || q.currentIndex >= len(q.tracks) {
		return nil
	}
	return &q.tracks[q.currentIndex]
}

// CurrentIndex returns the cursor (-1 if nothing loaded).
func (q *queue) CurrentIndex() int {
	return q.currentIndex
}

// Replace swaps in a new track list and moves the cursor to startIndex,
// clamped into range. Returns the new current track, or nil when the
// list is empty (in which case nothing changed).
func (q *queue) Replace(tracks []Track, startIndex int) *Track {
	if len(tracks) == 0 {
		return nil
	}
	if startIndex < 0 {
		startIndex = 0
	}
	if startIndex >= len(tracks) {
		startIndex = len(tracks) - 1
	}
	q.tracks = make([]Track, len(tracks))
	copy(q.tracks, tracks)
	q.currentIndex = startIndex
	return q.Current()
}

// HasNext returns true if there's a track after the current one.
func (q *queue) HasNext() bool {
	return q.currentIndex >= 0 && q.currentIndex < len(q.tracks)-1
}

// Next advances the cursor and returns the new current track.
// Returns nil without moving when already at the end.
func (q *queue) Next() *Track {
	if !q.HasNext() {
		return nil
	}
	q.currentIndex++
	return q.Current()
}

// Prev steps the cursor back and returns the new current track.
// At the head it stays on index 0 and returns that track (restart
// policy, not an error).
func (q *queue) Prev() *Track {
	if q.currentIndex < 0 {
		return nil
	}
	if q.currentIndex > 0 {
		q.currentIndex--
	} else {
		q.currentIndex = 0
	}
	return q.Current()
}

// Clear removes all tracks and resets the cursor.
func (q *queue) Clear() {
	q.tracks = nil
	q.currentIndex = -1
}

// Tracks returns a copy of all tracks in the queue.
func (q *queue) Tracks() []Track {
	out := make([]Track, len(q.tracks))
	copy(out, q.tracks)
	return out
}

// Len returns the number of tracks in the queue.
func (q *queue) Len() int {
	return len(q.tracks)
}
