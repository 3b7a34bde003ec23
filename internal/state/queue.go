package state

import (
	"database/sql"
	"errors"
	"time"

	dbutil "github.com/museed/museed-tui/internal/db"
	"github.com/museed/museed-tui/internal/playback"
)

// Queue is the persisted playback queue.
type Queue struct {
	CurrentIndex int
	Tracks       []playback.Track
}

// LoadQueue returns the saved queue, or an empty queue with cursor -1
// when nothing has been saved.
func (s *Store) LoadQueue() (*Queue, error) {
	var currentIndex int
	row := s.db.QueryRow(`SELECT current_index FROM queue_state WHERE id = 1`)
	err := row.Scan(&currentIndex)
	if errors.Is(err, sql.ErrNoRows) {
		return &Queue{CurrentIndex: -1}, nil
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`
		SELECT track_id, title, artist, genre, audio_url, image_url, duration_ms
		FROM queue_tracks
		ORDER BY position
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tracks []playback.Track
	for rows.Next() {
		var t playback.Track
		var artist, genre, imageURL sql.NullString
		var durationMS int64

		if err := rows.Scan(&t.ID, &t.Title, &artist, &genre, &t.AudioURL, &imageURL, &durationMS); err != nil {
			return nil, err
		}
		t.Artist = dbutil.NullStringValue(artist)
		t.Genre = dbutil.NullStringValue(genre)
		t.ImageURL = dbutil.NullStringValue(imageURL)
		t.Duration = time.Duration(durationMS) * time.Millisecond
		tracks = append(tracks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &Queue{CurrentIndex: currentIndex, Tracks: tracks}, nil
}

// SaveQueue replaces the saved queue.
func (s *Store) SaveQueue(q Queue) error {
	return dbutil.WithTx(s.db, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM queue_tracks`); err != nil {
			return err
		}

		_, err := tx.Exec(`
			INSERT INTO queue_state (id, current_index)
			VALUES (1, ?)
			ON CONFLICT(id) DO UPDATE SET
				current_index = excluded.current_index
		`, q.CurrentIndex)
		if err != nil {
			return err
		}

		stmt, err := tx.Prepare(`
			INSERT INTO queue_tracks (position, track_id, title, artist, genre, audio_url, image_url, duration_ms)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for i, t := range q.Tracks {
			_, err = stmt.Exec(i, t.ID, t.Title, t.Artist, t.Genre,
				t.AudioURL, t.ImageURL, t.Duration.Milliseconds())
			if err != nil {
				return err
			}
		}
		return nil
	})
}
