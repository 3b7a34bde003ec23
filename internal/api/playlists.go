package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
)

// CreatePlaylist submits a generation request seeded by a catalog
// track. The work happens asynchronously; poll the returned task id.
func (c *Client) CreatePlaylist(ctx context.Context, name string, seedTrackID int64) (*TaskSubmission, error) {
	body := map[string]any{
		"name":          name,
		"seed_track_id": strconv.FormatInt(seedTrackID, 10),
	}

	var result TaskSubmission
	if err := c.postJSON(ctx, "/api/playlists/", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CreatePlaylistUpload submits a generation request seeded by a local
// audio file, uploaded as multipart form data.
func (c *Client) CreatePlaylistUpload(ctx context.Context, name, filePath string) (*TaskSubmission, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField("name", name); err != nil {
		return nil, fmt.Errorf("write form field: %w", err)
	}
	part, err := w.CreateFormFile("file", filepath.Base(filePath))
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, fmt.Errorf("copy seed file: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("finalize form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/playlists/upload", &buf)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	var result TaskSubmission
	if err := c.do(req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// TaskStatus polls a generation task by id.
func (c *Client) TaskStatus(ctx context.Context, taskID string) (*TaskStatus, error) {
	var result TaskStatus
	if err := c.getJSON(ctx, "/api/playlists/task/"+taskID, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetPlaylist fetches a playlist with its tracks.
func (c *Client) GetPlaylist(ctx context.Context, playlistID int64) (*Playlist, error) {
	var result Playlist
	if err := c.getJSON(ctx, "/api/playlists/"+strconv.FormatInt(playlistID, 10), &result); err != nil {
		return nil, err
	}
	return &result, nil
}
