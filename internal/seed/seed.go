// Package seed inspects local audio files before they are uploaded
// as playlist-generation seeds.
package seed

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"
	"github.com/dustin/go-humanize"
)

const extMP3 = ".mp3"

// Info summarizes a candidate seed file for the upload confirmation
// view.
type Info struct {
	Path   string
	Title  string
	Artist string
	Genre  string
	Size   string // human readable, e.g. "4.2 MB"
}

// Inspect reads the metadata of a local seed file. Tag parsing
// failures are not fatal: the filename stands in for the title.
func Inspect(path string) (*Info, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != extMP3 {
		return nil, fmt.Errorf("unsupported seed format: %s", ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, err
	}

	info := &Info{
		Path:  path,
		Title: strings.TrimSuffix(filepath.Base(path), ext),
		Size:  humanize.Bytes(uint64(st.Size())),
	}

	if m, err := tag.ReadFrom(f); err == nil {
		if m.Title() != "" {
			info.Title = m.Title()
		}
		info.Artist = m.Artist()
		info.Genre = m.Genre()
	}
	return info, nil
}
