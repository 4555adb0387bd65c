package directory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aegis-admin/aegis-admin/internal/directory"
)

func TestSeedDataLoaded(t *testing.T) {
	s := directory.NewStore()
	assert.Len(t, s.Users(), 3)
	assert.Len(t, s.Roles(), 3)
	assert.Len(t, s.Permissions(), 5)

	u, ok := s.UserByEmail("admin@example.com")
	require.True(t, ok)
	assert.Equal(t, "admin", u.Role)
	assert.Equal(t, directory.StatusActive, u.Status)
}

func TestInsertUserAssignsUniqueIDs(t *testing.T) {
	s := directory.NewStore()
	a := s.InsertUser(directory.User{Name: "Ann", Email: "ann@example.com", Status: directory.StatusActive, Role: "viewer"})
	b := s.InsertUser(directory.User{Name: "Ben", Email: "ben@example.com", Status: directory.StatusActive, Role: "viewer"})
	assert.Greater(t, a.ID, int64(0))
	assert.Greater(t, b.ID, a.ID)

	// Insertion order preserved.
	users := s.Users()
	assert.Equal(t, "Ann", users[len(users)-2].Name)
	assert.Equal(t, "Ben", users[len(users)-1].Name)
}

func TestSaveUserMissingID(t *testing.T) {
	s := directory.NewStore()
	before := s.Revision()
	_, ok := s.SaveUser(directory.User{ID: 9999, Name: "Ghost"})
	assert.False(t, ok)
	assert.Equal(t, before, s.Revision(), "failed save must not bump revision")
}

func TestRemoveUser(t *testing.T) {
	s := directory.NewStore()
	u := s.InsertUser(directory.User{Name: "Temp", Email: "temp@example.com", Status: directory.StatusActive, Role: "viewer"})
	count := len(s.Users())

	assert.True(t, s.RemoveUser(u.ID))
	assert.Len(t, s.Users(), count-1)

	assert.False(t, s.RemoveUser(u.ID))
	assert.Len(t, s.Users(), count-1)
}

func TestRevisionBumpsOnEveryMutation(t *testing.T) {
	s := directory.NewStore()
	r0 := s.Revision()
	u := s.InsertUser(directory.User{Name: "Ann", Email: "ann@example.com", Status: directory.StatusActive, Role: "viewer"})
	assert.Equal(t, r0+1, s.Revision())
	u.Name = "Anne"
	_, ok := s.SaveUser(u)
	require.True(t, ok)
	assert.Equal(t, r0+2, s.Revision())
	assert.True(t, s.RemoveUser(u.ID))
	assert.Equal(t, r0+3, s.Revision())
}

func TestSnapshotIsolation(t *testing.T) {
	s := directory.NewStore()
	snapshot := s.Users()
	s.InsertUser(directory.User{Name: "Ann", Email: "ann@example.com", Status: directory.StatusActive, Role: "viewer"})
	// A snapshot taken before a mutation never changes length underfoot.
	assert.Len(t, snapshot, 3)
	assert.Len(t, s.Users(), 4)
}

func TestRemoveRoleLeavesUserReference(t *testing.T) {
	s := directory.NewStore()
	role, ok := s.RoleByName("editor")
	require.True(t, ok)
	require.True(t, s.RemoveRole(role.ID))

	// The referencing user keeps its now-dangling role name.
	u, ok := s.UserByEmail("editor@example.com")
	require.True(t, ok)
	assert.Equal(t, "editor", u.Role)
	_, ok = s.RoleByName("editor")
	assert.False(t, ok)
}

func TestRoleLookups(t *testing.T) {
	s := directory.NewStore()
	r, ok := s.RoleByName("admin")
	require.True(t, ok)
	got, ok := s.RoleByID(r.ID)
	require.True(t, ok)
	assert.Equal(t, r, got)

	names := s.PermissionNames()
	assert.Contains(t, names, "manage_roles")
	assert.NotContains(t, names, "fly")
}
