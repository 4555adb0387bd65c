package directory

import (
	"strings"
	"sync"
	"sync/atomic"
)

// Store is the single source of truth for all directory records. Collections
// are kept in insertion order and replaced wholesale on every mutation, so a
// concurrent reader always observes either the old or the new snapshot,
// never a half-updated one. The revision counter increments on every swap
// and lets callers correlate list responses with mutations.
type Store struct {
	mu       sync.Mutex
	nextID   atomic.Int64
	revision atomic.Int64

	users       atomic.Pointer[[]User]
	roles       atomic.Pointer[[]Role]
	permissions atomic.Pointer[[]Permission]
}

// NewStore builds a Store seeded with the bootstrap dataset. Created once at
// application start and shared by injection; it lives until process end.
func NewStore() *Store {
	s := &Store{}
	users, roles, perms := seedData()
	s.users.Store(&users)
	s.roles.Store(&roles)
	s.permissions.Store(&perms)
	s.nextID.Store(seedMaxID)
	return s
}

// NextID returns a process-unique monotonically increasing identifier.
func (s *Store) NextID() int64 {
	return s.nextID.Add(1)
}

// Revision returns the current snapshot revision.
func (s *Store) Revision() int64 {
	return s.revision.Load()
}

// Users returns the current user snapshot in insertion order. The returned
// slice is shared and must be treated as read-only.
func (s *Store) Users() []User {
	return *s.users.Load()
}

// Roles returns the current role snapshot in insertion order.
func (s *Store) Roles() []Role {
	return *s.roles.Load()
}

// Permissions returns the permission snapshot in insertion order.
func (s *Store) Permissions() []Permission {
	return *s.permissions.Load()
}

// UserByID looks a user up in the current snapshot.
func (s *Store) UserByID(id int64) (User, bool) {
	for _, u := range s.Users() {
		if u.ID == id {
			return u, true
		}
	}
	return User{}, false
}

// UserByEmail looks a user up by email, case-insensitively.
func (s *Store) UserByEmail(email string) (User, bool) {
	for _, u := range s.Users() {
		if strings.EqualFold(u.Email, email) {
			return u, true
		}
	}
	return User{}, false
}

// RoleByID looks a role up in the current snapshot.
func (s *Store) RoleByID(id int64) (Role, bool) {
	for _, r := range s.Roles() {
		if r.ID == id {
			return r, true
		}
	}
	return Role{}, false
}

// RoleByName looks a role up by its unique name.
func (s *Store) RoleByName(name string) (Role, bool) {
	for _, r := range s.Roles() {
		if r.Name == name {
			return r, true
		}
	}
	return Role{}, false
}

// PermissionNames returns the set of defined permission names.
func (s *Store) PermissionNames() map[string]struct{} {
	perms := s.Permissions()
	names := make(map[string]struct{}, len(perms))
	for _, p := range perms {
		names[p.Name] = struct{}{}
	}
	return names
}

// InsertUser appends a user with a generated id and returns the stored record.
func (s *Store) InsertUser(u User) User {
	u.ID = s.NextID()
	s.mu.Lock()
	defer s.mu.Unlock()
	current := *s.users.Load()
	next := make([]User, len(current), len(current)+1)
	copy(next, current)
	next = append(next, u)
	s.users.Store(&next)
	s.revision.Add(1)
	return u
}

// SaveUser replaces the user with u.ID. Returns false when the id is absent;
// the snapshot is untouched in that case.
func (s *Store) SaveUser(u User) (User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current := *s.users.Load()
	next := make([]User, len(current))
	copy(next, current)
	for i := range next {
		if next[i].ID == u.ID {
			next[i] = u
			s.users.Store(&next)
			s.revision.Add(1)
			return u, true
		}
	}
	return User{}, false
}

// RemoveUser deletes the user with id, reporting whether it existed.
func (s *Store) RemoveUser(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	current := *s.users.Load()
	next := make([]User, 0, len(current))
	found := false
	for _, u := range current {
		if u.ID == id {
			found = true
			continue
		}
		next = append(next, u)
	}
	if found {
		s.users.Store(&next)
		s.revision.Add(1)
	}
	return found
}

// InsertRole appends a role with a generated id and returns the stored record.
func (s *Store) InsertRole(r Role) Role {
	r.ID = s.NextID()
	s.mu.Lock()
	defer s.mu.Unlock()
	current := *s.roles.Load()
	next := make([]Role, len(current), len(current)+1)
	copy(next, current)
	next = append(next, r)
	s.roles.Store(&next)
	s.revision.Add(1)
	return r
}

// SaveRole replaces the role with r.ID. Returns false when the id is absent.
func (s *Store) SaveRole(r Role) (Role, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current := *s.roles.Load()
	next := make([]Role, len(current))
	copy(next, current)
	for i := range next {
		if next[i].ID == r.ID {
			next[i] = r
			s.roles.Store(&next)
			s.revision.Add(1)
			return r, true
		}
	}
	return Role{}, false
}

// RemoveRole deletes the role with id, reporting whether it existed. Users
// referencing the role by name keep their reference; orphans are surfaced by
// the integrity job rather than rewritten.
func (s *Store) RemoveRole(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	current := *s.roles.Load()
	next := make([]Role, 0, len(current))
	found := false
	for _, r := range current {
		if r.ID == id {
			found = true
			continue
		}
		next = append(next, r)
	}
	if found {
		s.roles.Store(&next)
		s.revision.Add(1)
	}
	return found
}
