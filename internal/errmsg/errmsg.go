// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import "fmt"

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Catalog operations
	OpSearch Op = "search tracks"

	// Playlist operations
	OpPlaylistCreate Op = "create playlist"
	OpPlaylistUpload Op = "upload seed file"
	OpPlaylistLoad   Op = "load playlist"

	// Auth operations
	OpLogin  Op = "log in"
	OpSignup Op = "sign up"

	// Playback operations
	OpPlaybackStart Op = "start playback"
	OpPlaybackSeek  Op = "seek"

	// Persistence operations
	OpQueueLoad Op = "load saved queue"
	OpQueueSave Op = "save queue"
	OpPrefsSave Op = "save preferences"

	// Initialization
	OpInitialize Op = "initialize application"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}
