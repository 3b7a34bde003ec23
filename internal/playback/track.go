package playback

import "time"

// Track represents a track in the queue.
// This is a copy of the catalog data, not a reference to api.Track;
// the player never mutates it. AudioURL is already resolved against
// the media base.
type Track struct {
	ID       int64
	Title    string
	Artist   string
	Genre    string
	AudioURL string
	ImageURL string
	Duration time.Duration // hint until the decoded media reports the real value
}
