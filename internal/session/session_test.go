package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/museed/museed-tui/internal/api"
	"github.com/museed/museed-tui/internal/state"
)

type memStore struct {
	token    string
	username string
}

func (s *memStore) SaveSession(token, username string) error {
	s.token, s.username = token, username
	return nil
}

func (s *memStore) LoadSession() (string, string, error) {
	return s.token, s.username, nil
}

func (s *memStore) ClearSession() error {
	s.token, s.username = "", ""
	return nil
}

func tokenServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/auth/token", r.URL.Path)
		require.NoError(t, r.ParseForm())
		_ = json.NewEncoder(w).Encode(api.TokenResponse{
			AccessToken: "tok-" + r.PostFormValue("username"),
			TokenType:   "bearer",
		})
	}))
}

func TestLoginAdoptsTokenAndPersists(t *testing.T) {
	srv := tokenServer(t)
	defer srv.Close()

	client := api.NewClient(srv.URL, "")
	store := &memStore{}
	m := NewManager(client, store, zap.NewNop())

	require.False(t, m.Authenticated())
	require.NoError(t, m.Login(context.Background(), "alice", "pw"))

	require.True(t, m.Authenticated())
	require.Equal(t, "alice", m.Username())
	require.Equal(t, "tok-alice", client.Token())
	require.Equal(t, "tok-alice", store.token)
	require.Equal(t, "alice", store.username)
}

func TestLogoutClearsAndFiresReset(t *testing.T) {
	srv := tokenServer(t)
	defer srv.Close()

	client := api.NewClient(srv.URL, "")
	store := &memStore{}
	m := NewManager(client, store, zap.NewNop())

	resets := 0
	m.OnReset(func() { resets++ })

	require.NoError(t, m.Login(context.Background(), "alice", "pw"))
	require.Equal(t, 0, resets)

	m.Logout()
	require.Equal(t, 1, resets)
	require.False(t, m.Authenticated())
	require.Empty(t, m.Username())
	require.Empty(t, client.Token())
	require.Empty(t, store.token)

	// Logging out while anonymous does not fire the hooks again.
	m.Logout()
	require.Equal(t, 1, resets)
}

func TestUserSwitchFiresReset(t *testing.T) {
	srv := tokenServer(t)
	defer srv.Close()

	client := api.NewClient(srv.URL, "")
	m := NewManager(client, nil, zap.NewNop())

	resets := 0
	m.OnReset(func() { resets++ })

	require.NoError(t, m.Login(context.Background(), "alice", "pw"))
	require.Equal(t, 0, resets)

	// Re-login as the same user keeps the session boundary in place.
	require.NoError(t, m.Login(context.Background(), "alice", "pw2"))
	require.Equal(t, 0, resets)

	require.NoError(t, m.Login(context.Background(), "bob", "pw"))
	require.Equal(t, 1, resets)
	require.Equal(t, "bob", m.Username())
	require.Equal(t, "tok-bob", client.Token())
}

func TestSignupRegistersAndLogsIn(t *testing.T) {
	var body map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/signup/":
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			w.WriteHeader(http.StatusCreated)
		case "/api/auth/token":
			require.NoError(t, r.ParseForm())
			_ = json.NewEncoder(w).Encode(api.TokenResponse{
				AccessToken: "tok-" + r.PostFormValue("username"),
				TokenType:   "bearer",
			})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	client := api.NewClient(srv.URL, "")
	m := NewManager(client, &memStore{}, zap.NewNop())

	require.NoError(t, m.Signup(context.Background(), "alice", "alice@example.com", "pw"))

	// The registration payload carries the account email.
	require.Equal(t, map[string]string{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "pw",
	}, body)

	require.True(t, m.Authenticated())
	require.Equal(t, "alice", m.Username())
	require.Equal(t, "tok-alice", client.Token())
}

func TestRestore(t *testing.T) {
	client := api.NewClient("http://localhost:1", "")
	store := &memStore{token: "saved", username: "alice"}
	m := NewManager(client, store, zap.NewNop())

	m.Restore()
	require.True(t, m.Authenticated())
	require.Equal(t, "alice", m.Username())
	require.Equal(t, "saved", client.Token())
}

func TestNilConcreteStoreDoesNotPanic(t *testing.T) {
	// A nil *state.Store wrapped in the TokenStore interface is not a
	// nil interface, so every store call must tolerate the nil
	// receiver when persistence is unavailable.
	client := api.NewClient("http://localhost:1", "")
	m := NewManager(client, (*state.Store)(nil), zap.NewNop())

	m.Restore()
	require.False(t, m.Authenticated())

	m.Logout()
	require.Empty(t, m.Username())
}

func TestRestoreWithoutStore(t *testing.T) {
	client := api.NewClient("http://localhost:1", "")
	m := NewManager(client, nil, zap.NewNop())
	m.Restore()
	require.False(t, m.Authenticated())
}
