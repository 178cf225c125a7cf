package client

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/rbse-library/library-service/internal/models"
)

// profileFetcher validates a restored session against the server.
type profileFetcher interface {
	Me(ctx context.Context) (*models.User, error)
}

// Session holds the client-side auth state: the token and a snapshot of the
// signed-in user, persisted through a Storage.
type Session struct {
	mu      sync.RWMutex
	storage Storage
	fetcher profileFetcher

	token         string
	user          *models.User
	authenticated bool
	loading       bool
}

func newSession(storage Storage) *Session {
	return &Session{storage: storage}
}

// Load restores persisted state and reconciles it with the server. The stored
// session is trusted optimistically, then GET /auth/me decides: a fresh
// profile on success, a full clear on 401, and on transport errors the cached
// state is kept so a flaky network does not log the user out.
func (s *Session) Load(ctx context.Context) error {
	s.mu.Lock()
	if s.loading {
		s.mu.Unlock()
		return nil
	}
	s.loading = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}()

	token, err := s.storage.Get(KeyAuthToken)
	if err != nil || token == "" {
		return nil
	}

	s.mu.Lock()
	s.token = token
	s.authenticated = true
	if raw, err := s.storage.Get(KeyAuthUser); err == nil {
		var user models.User
		if err := json.Unmarshal([]byte(raw), &user); err == nil {
			s.user = &user
		}
	}
	s.mu.Unlock()

	user, err := s.fetcher.Me(ctx)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			// The 401 path has already cleared the session. Other server
			// responses leave it alone.
			return nil
		}
		// Server unreachable. Keep the cached session.
		return nil
	}

	s.setUser(user)
	return nil
}

// SetAuth stores a fresh token and profile, marking the session authenticated.
func (s *Session) SetAuth(token string, user *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token
	s.user = user
	s.authenticated = true

	_ = s.storage.Set(KeyAuthToken, token)
	if data, err := json.Marshal(user); err == nil {
		_ = s.storage.Set(KeyAuthUser, string(data))
	}
}

func (s *Session) setUser(user *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = user
	if data, err := json.Marshal(user); err == nil {
		_ = s.storage.Set(KeyAuthUser, string(data))
	}
}

// Clear wipes both the in-memory state and the persisted keys.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = ""
	s.user = nil
	s.authenticated = false

	_ = s.storage.Delete(KeyAuthToken)
	_ = s.storage.Delete(KeyAuthUser)
}

// Token returns the current session token, or "" when signed out.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns the cached profile snapshot, or nil when signed out.
func (s *Session) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Authenticated reports whether a session is active.
func (s *Session) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated
}
