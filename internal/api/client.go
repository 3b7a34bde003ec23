// Package api provides the Museed REST client.
//
// Every response is normalized: on a non-2xx status the FastAPI
// `detail` payload (plain string or validation array) is extracted
// into an *Error, so callers never deal with raw status handling.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client provides access to the Museed API.
type Client struct {
	baseURL    string
	mediaURL   string
	token      string
	httpClient *http.Client
}

// NewClient creates a new Museed API client.
// mediaURL is the base for track audio/art paths; when empty it
// falls back to baseURL.
func NewClient(baseURL, mediaURL string) *Client {
	baseURL = strings.TrimSuffix(baseURL, "/")
	mediaURL = strings.TrimSuffix(mediaURL, "/")
	if mediaURL == "" {
		mediaURL = baseURL
	}
	return &Client{
		baseURL:    baseURL,
		mediaURL:   mediaURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// SetToken sets the bearer token attached to subsequent requests.
// An empty token clears it.
func (c *Client) SetToken(token string) {
	c.token = token
}

// Token returns the current bearer token ("" when anonymous).
func (c *Client) Token() string {
	return c.token
}

// ResolveMediaURL turns a relative audio/art path into an absolute URL.
// Absolute locators are returned unchanged.
func (c *Client) ResolveMediaURL(path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.mediaURL + path
}

// Error is a normalized API failure with the server-supplied message.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("API returned status %d", e.StatusCode)
}

// do executes a request and decodes the JSON response into out.
// out may be nil when the response body is not consumed.
func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{
			StatusCode: resp.StatusCode,
			Message:    extractDetail(body),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// extractDetail pulls the human-readable message out of a FastAPI
// error body: either {"detail": "..."} or {"detail": [{"msg": "..."}]}.
func extractDetail(body []byte) string {
	var plain struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &plain); err == nil && plain.Detail != "" {
		return plain.Detail
	}

	var validation struct {
		Detail []struct {
			Msg string `json:"msg"`
		} `json:"detail"`
	}
	if err := json.Unmarshal(body, &validation); err == nil &&
		len(validation.Detail) > 0 && validation.Detail[0].Msg != "" {
		return validation.Detail[0].Msg
	}

	return ""
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) postJSON(ctx context.Context, path string, in, out any) error {
	jsonBody, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

// Status checks that the backend is reachable.
func (c *Client) Status(ctx context.Context) error {
	var result struct {
		Status string `json:"status"`
	}
	return c.getJSON(ctx, "/api/status", &result)
}
