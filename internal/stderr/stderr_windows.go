//go:build windows

// Package stderr is a no-op on Windows, whose audio stack does not
// write to file descriptor 2 the way ALSA does.
package stderr

import "go.uber.org/zap"

// Capture is a no-op on Windows.
func Capture(_ *zap.Logger) error {
	return nil
}

// Restore is a no-op on Windows.
func Restore() {}
