package auth_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aegis-admin/aegis-admin/internal/apperr"
	"github.com/aegis-admin/aegis-admin/internal/auth"
	"github.com/aegis-admin/aegis-admin/internal/directory"
	"github.com/aegis-admin/aegis-admin/internal/platform/latency"
	"github.com/aegis-admin/aegis-admin/internal/session"
	_ "github.com/aegis-admin/aegis-admin/testing"
)

func newService(t *testing.T) (*auth.Service, *session.Store, *directory.Store) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	sessions, err := session.NewStore(context.Background(), session.NewRedisBackend(client), slog.Default())
	require.NoError(t, err)

	policy, err := auth.NewStaticSecretPolicy("admin")
	require.NoError(t, err)

	store := directory.NewStore()
	return auth.NewService(store, sessions, latency.None(), policy), sessions, store
}

func TestLoginSuccess(t *testing.T) {
	svc, sessions, _ := newService(t)
	sess, err := svc.Login(context.Background(), "editor@example.com", "admin")
	require.NoError(t, err)
	require.True(t, sess.Authenticated())
	assert.Equal(t, "editor", sess.Role())
	assert.NotEmpty(t, sess.Token)
	assert.Equal(t, sess.User.ID, sessions.Current().User.ID)
}

func TestLoginEmailCaseInsensitive(t *testing.T) {
	svc, _, _ := newService(t)
	sess, err := svc.Login(context.Background(), "Admin@Example.COM", "admin")
	require.NoError(t, err)
	assert.Equal(t, "admin", sess.Role())
}

func TestLoginWrongPassword(t *testing.T) {
	svc, sessions, _ := newService(t)
	_, err := svc.Login(context.Background(), "admin@example.com", "hunter2")
	assert.Equal(t, apperr.KindInvalidCredentials, apperr.KindOf(err))
	assert.False(t, sessions.Current().Authenticated())
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _, _ := newService(t)
	_, err := svc.Login(context.Background(), "nobody@example.com", "admin")
	assert.Equal(t, apperr.KindInvalidCredentials, apperr.KindOf(err))
}

func TestRegisterForcesViewerRole(t *testing.T) {
	svc, sessions, store := newService(t)
	sess, err := svc.Register(context.Background(), auth.RegisterInput{
		Name:     "New Person",
		Email:    "new@example.com",
		Password: "longenough",
	})
	require.NoError(t, err)
	assert.Equal(t, "viewer", sess.Role())
	assert.Equal(t, directory.StatusActive, sess.User.Status)
	assert.True(t, sessions.Current().Authenticated())
	assert.Len(t, store.Users(), 4)
}

func TestRegisterValidation(t *testing.T) {
	svc, _, store := newService(t)
	_, err := svc.Register(context.Background(), auth.RegisterInput{
		Name:     "X",
		Email:    "bad",
		Password: "short",
	})
	require.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	fields := apperr.FieldsOf(err)
	assert.Equal(t, "Name must be at least 2 characters", fields["name"])
	assert.Equal(t, "Invalid email format", fields["email"])
	assert.Equal(t, "Password must be at least 8 characters", fields["password"])
	assert.Len(t, store.Users(), 3)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, sessions, store := newService(t)
	_, err := svc.Register(context.Background(), auth.RegisterInput{
		Name:     "Copy Cat",
		Email:    "viewer@example.com",
		Password: "longenough",
	})
	require.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.Equal(t, "Email already exists", apperr.FieldsOf(err)["email"])
	assert.Len(t, store.Users(), 3)
	assert.False(t, sessions.Current().Authenticated())
}

func TestLogoutClearsSession(t *testing.T) {
	svc, sessions, _ := newService(t)
	_, err := svc.Login(context.Background(), "viewer@example.com", "admin")
	require.NoError(t, err)
	require.NoError(t, svc.Logout(context.Background()))
	assert.False(t, sessions.Current().Authenticated())

	// Logging out twice is harmless.
	assert.NoError(t, svc.Logout(context.Background()))
}
