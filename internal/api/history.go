package api

import "context"

// RecordListen reports a listen event for profile statistics.
// Requires an authenticated session to have any effect; the response
// body is not consumed.
func (c *Client) RecordListen(ctx context.Context, trackID int64, genre string) error {
	body := map[string]any{
		"track_id": trackID,
		"genre":    genre,
	}
	return c.postJSON(ctx, "/api/history/listen", body, nil)
}
