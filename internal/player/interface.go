package player

import "time"

// Interface defines the audio engine contract for dependency
// injection and testing.
//
// Load is asynchronous: the audio is fetched over HTTP before it can
// be decoded, so completion is reported through the OnLoaded callback.
// A Load issued while an earlier one is still in flight wins: the
// stale fetch is discarded when it completes.
type Interface interface {
	Load(url string, play bool)
	Pause()
	Resume()
	Stop()
	SeekToFraction(fraction float64)
	SetVolume(level float64)
	SetMuted(muted bool)
	Position() time.Duration
	Duration() time.Duration
	Playing() bool

	OnLoaded(fn func(duration time.Duration))
	OnFinished(fn func())
	OnError(fn func(op string, err error))

	Close() error
}

// Verify Player implements Interface at compile time.
var _ Interface = (*Player)(nil)
