package state

import (
	"database/sql"
	"errors"
)

// SaveSession persists the bearer token for the given user.
// Safe on a nil receiver: persistence silently degrades to a no-op.
func (s *Store) SaveSession(token, username string) error {
	if s == nil {
		return nil
	}
	_, err := s.db.Exec(`
		INSERT INTO session (id, token, username)
		VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			token = excluded.token,
			username = excluded.username
	`, token, username)
	return err
}

// LoadSession returns the saved token and username, or empty strings
// when none has been saved.
func (s *Store) LoadSession() (string, string, error) {
	if s == nil {
		return "", "", nil
	}
	var token, username string
	row := s.db.QueryRow(`SELECT token, username FROM session WHERE id = 1`)
	err := row.Scan(&token, &username)
	if errors.Is(err, sql.ErrNoRows) {
		return "", "", nil
	}
	if err != nil {
		return "", "", err
	}
	return token, username, nil
}

// ClearSession removes the persisted session.
func (s *Store) ClearSession() error {
	if s == nil {
		return nil
	}
	_, err := s.db.Exec(`DELETE FROM session WHERE id = 1`)
	return err
}
