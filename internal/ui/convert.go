package ui

import (
	"time"

	"github.com/museed/museed-tui/internal/api"
	"github.com/museed/museed-tui/internal/playback"
)

// trackFromAPI resolves a catalog track into a queueable one.
func trackFromAPI(c *api.Client, t api.Track) playback.Track {
	return playback.Track{
		ID:       t.TrackID,
		Title:    t.Title,
		Artist:   t.ArtistName,
		Genre:    t.Genre,
		AudioURL: c.ResolveMediaURL(t.AudioURL),
		ImageURL: c.ResolveMediaURL(t.ImageFile),
		Duration: time.Duration(t.Duration * float64(time.Second)),
	}
}

func tracksFromAPI(c *api.Client, ts []api.Track) []playback.Track {
	tracks := make([]playback.Track, len(ts))
	for i, t := range ts {
		tracks[i] = trackFromAPI(c, t)
	}
	return tracks
}
