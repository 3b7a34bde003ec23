package api

import (
	"context"
	"net/url"
)

// SearchTracks queries the track catalog. An empty query returns an
// empty result without a request.
func (c *Client) SearchTracks(ctx context.Context, query string) ([]Track, error) {
	if query == "" {
		return nil, nil
	}

	var tracks []Track
	err := c.getJSON(ctx, "/api/tracks/search?q="+url.QueryEscape(query), &tracks)
	if err != nil {
		return nil, err
	}
	return tracks, nil
}
