package state

import (
	"database/sql"
	"errors"
)

// Prefs holds the persisted playback preferences.
type Prefs struct {
	Volume float64
	Muted  bool
}

// LoadPrefs returns the saved preferences, falling back to full
// volume when nothing has been saved yet.
func (s *Store) LoadPrefs() (Prefs, error) {
	p := Prefs{Volume: 1.0}
	row := s.db.QueryRow(`SELECT volume, muted FROM prefs WHERE id = 1`)
	err := row.Scan(&p.Volume, &p.Muted)
	if errors.Is(err, sql.ErrNoRows) {
		return p, nil
	}
	if err != nil {
		return Prefs{Volume: 1.0}, err
	}
	return p, nil
}

// SavePrefs persists the playback preferences.
func (s *Store) SavePrefs(p Prefs) error {
	_, err := s.db.Exec(`
		INSERT INTO prefs (id, volume, muted)
		VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			volume = excluded.volume,
			muted = excluded.muted
	`, p.Volume, p.Muted)
	return err
}
