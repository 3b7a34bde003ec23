//go:build !windows

// Package stderr captures output that C audio libraries (ALSA,
// minimp3) write directly to file descriptor 2, which would otherwise
// corrupt the TUI layout. Captured lines go to the structured log.
package stderr

import (
	"bufio"
	"os"
	"strings"
	"syscall"

	"go.uber.org/zap"
)

var (
	origFD    int
	pipeRead  *os.File
	pipeWrite *os.File
	active    bool
)

// Capture redirects fd 2 into the given logger. Call early in main,
// before any C library initialization. Failure is non-fatal: without
// capture the noise simply lands on the terminal.
func Capture(log *zap.Logger) error {
	if active {
		return nil
	}

	r, w, err := os.Pipe()
	if err != nil {
		return err
	}

	origFD, err = syscall.Dup(int(os.Stderr.Fd()))
	if err != nil {
		r.Close()
		w.Close()
		return err
	}

	if err := syscall.Dup2(int(w.Fd()), int(os.Stderr.Fd())); err != nil {
		syscall.Close(origFD)
		r.Close()
		w.Close()
		return err
	}

	pipeRead = r
	pipeWrite = w
	active = true

	go func() {
		scanner := bufio.NewScanner(pipeRead)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line != "" {
				log.Debug("captured stderr", zap.String("line", line))
			}
		}
	}()

	return nil
}

// Restore puts the original stderr back. Call on program exit.
func Restore() {
	if !active {
		return
	}
	_ = syscall.Dup2(origFD, int(os.Stderr.Fd()))
	_ = syscall.Close(origFD)
	pipeWrite.Close()
	pipeRead.Close()
	active = false
}
