// Package session holds the authenticated operator identity and keeps it
// durably persisted across restarts.
package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/aegis-admin/aegis-admin/internal/directory"
)

// Session is the persisted authentication record. Invariant: User and Token
// are either both set or both absent.
type Session struct {
	User  *directory.User `json:"user"`
	Token string          `json:"token"`
}

// Authenticated reports whether the session carries an identity.
func (s Session) Authenticated() bool {
	return s.User != nil && s.Token != ""
}

// Role returns the session's role name, or "" for an anonymous session.
func (s Session) Role() string {
	if s.User == nil {
		return ""
	}
	return s.User.Role
}

// Backend persists the session record to durable storage.
type Backend interface {
	Load(ctx context.Context) (Session, error)
	Save(ctx context.Context, sess Session) error
	Clear(ctx context.Context) error
}

// Store keeps the current session in memory and writes every change through
// the Backend. The stored record is loaded once at construction.
type Store struct {
	mu      sync.RWMutex
	backend Backend
	logger  *slog.Logger
	current Session
}

// NewStore constructs a Store and loads the persisted session.
func NewStore(ctx context.Context, backend Backend, logger *slog.Logger) (*Store, error) {
	current, err := backend.Load(ctx)
	if err != nil {
		return nil, err
	}
	return &Store{backend: backend, logger: logger, current: current}, nil
}

// Current returns the session snapshot.
func (s *Store) Current() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// SetAuth records an authenticated identity and persists it. Callers
// guarantee well-formed input.
func (s *Store) SetAuth(ctx context.Context, user directory.User, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := Session{User: &user, Token: token}
	if err := s.backend.Save(ctx, next); err != nil {
		return err
	}
	s.current = next
	return nil
}

// Logout clears both identity fields and the persisted record.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.backend.Clear(ctx); err != nil {
		return err
	}
	s.current = Session{}
	return nil
}

// Matches reports whether token identifies the current session.
func (s *Store) Matches(token string) bool {
	if token == "" {
		return false
	}
	cur := s.Current()
	return cur.Authenticated() && cur.Token == token
}
