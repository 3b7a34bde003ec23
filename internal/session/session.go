// Package session owns the authenticated user for the lifetime of the
// application and notifies interested parties when that boundary moves.
package session

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/museed/museed-tui/internal/api"
)

// TokenStore persists the session across restarts.
type TokenStore interface {
	SaveSession(token, username string) error
	LoadSession() (token, username string, err error)
	ClearSession() error
}

// Manager tracks the current login and keeps the API client's bearer
// token in sync. Reset hooks run on every authentication boundary:
// logout, and login as a different user.
type Manager struct {
	client *api.Client
	store  TokenStore
	log    *zap.Logger

	mu       sync.Mutex
	username string
	onReset  []func()
}

// NewManager creates a session manager. store may be nil, in which
// case the session lives only for the current process.
func NewManager(client *api.Client, store TokenStore, log *zap.Logger) *Manager {
	return &Manager{client: client, store: store, log: log}
}

// OnReset registers fn to run whenever the session boundary moves.
// Hooks run synchronously, in registration order.
func (m *Manager) OnReset(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onReset = append(m.onReset, fn)
}

// Restore loads a persisted session, if any. Safe to call with no
// store and with no saved session.
func (m *Manager) Restore() {
	if m.store == nil {
		return
	}
	token, username, err := m.store.LoadSession()
	if err != nil {
		m.log.Warn("restore session failed", zap.Error(err))
		return
	}
	if token == "" {
		return
	}

	m.mu.Lock()
	m.username = username
	m.mu.Unlock()
	m.client.SetToken(token)
	m.log.Info("session restored", zap.String("username", username))
}

// Login exchanges credentials for a token and adopts it. Switching
// users triggers the reset hooks before the new session takes effect.
func (m *Manager) Login(ctx context.Context, username, password string) error {
	resp, err := m.client.Login(ctx, username, password)
	if err != nil {
		return err
	}

	m.mu.Lock()
	previous := m.username
	m.username = username
	hooks := m.resetHooksLocked(previous != "" && previous != username)
	m.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}

	m.client.SetToken(resp.AccessToken)
	if m.store != nil {
		if err := m.store.SaveSession(resp.AccessToken, username); err != nil {
			m.log.Warn("persist session failed", zap.Error(err))
		}
	}
	return nil
}

// Signup registers an account and logs straight into it.
func (m *Manager) Signup(ctx context.Context, username, email, password string) error {
	if err := m.client.Signup(ctx, username, email, password); err != nil {
		return err
	}
	return m.Login(ctx, username, password)
}

// Logout drops the token and runs the reset hooks.
func (m *Manager) Logout() {
	m.mu.Lock()
	wasAuthed := m.username != ""
	m.username = ""
	hooks := m.resetHooksLocked(wasAuthed)
	m.mu.Unlock()

	m.client.SetToken("")
	if m.store != nil {
		if err := m.store.ClearSession(); err != nil {
			m.log.Warn("clear persisted session failed", zap.Error(err))
		}
	}
	for _, fn := range hooks {
		fn()
	}
}

func (m *Manager) resetHooksLocked(fire bool) []func() {
	if !fire {
		return nil
	}
	hooks := make([]func(), len(m.onReset))
	copy(hooks, m.onReset)
	return hooks
}

// Authenticated reports whether a user is logged in.
func (m *Manager) Authenticated() bool {
	return m.client.Token() != ""
}

// Username returns the logged-in user, or "" for anonymous sessions.
func (m *Manager) Username() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.username
}
