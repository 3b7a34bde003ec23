package playback

// TrackChange is emitted when the current track changes.
//
// Emitted by LoadTrack, LoadTracks, Advance (while in bounds) and
// Rewind. NOT emitted when Advance runs past the end of the queue:
// the cursor stays on the last track and only a StateChange fires.
// The engine adapter reacts to this event by rebinding the audio
// resource; any track side effects (listen recording, art) hang off
// it as well.
type TrackChange struct {
	Previous *Track
	Current  *Track
	Index    int
}

// StateChange is emitted when the playing flag flips.
type StateChange struct {
	Playing bool
}

// VolumeChange is emitted when volume or mute changes.
type VolumeChange struct {
	Volume float64
	Muted  bool
}

// QueueChange is emitted when the queue contents are replaced or cleared.
type QueueChange struct {
	Tracks []Track
	Index  int
}

// ErrorEvent is emitted when a playback-side failure is reported
// back into the controller (e.g. the engine could not start audio).
type ErrorEvent struct {
	Op  string // e.g. "start playback"
	Err error
}
