package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aegis-admin/aegis-admin/internal/app"
	"github.com/aegis-admin/aegis-admin/internal/auth"
	"github.com/aegis-admin/aegis-admin/internal/authz"
	"github.com/aegis-admin/aegis-admin/internal/directory"
	"github.com/aegis-admin/aegis-admin/internal/observability"
	"github.com/aegis-admin/aegis-admin/internal/permissions"
	"github.com/aegis-admin/aegis-admin/internal/platform/latency"
	"github.com/aegis-admin/aegis-admin/internal/roles"
	"github.com/aegis-admin/aegis-admin/internal/session"
	"github.com/aegis-admin/aegis-admin/internal/users"
	_ "github.com/aegis-admin/aegis-admin/testing"
)

func newServer(t *testing.T) http.Handler {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	logger := slog.Default()
	sessions, err := session.NewStore(context.Background(), session.NewRedisBackend(client), logger)
	require.NoError(t, err)

	store := directory.NewStore()
	pace := latency.None()
	gate := authz.Middleware{Logger: logger}

	policy, err := auth.NewStaticSecretPolicy("admin")
	require.NoError(t, err)

	return app.NewRouter(app.RouterParams{
		Logger:             logger,
		Sessions:           sessions,
		AuthHandler:        auth.NewHandler(logger, auth.NewService(store, sessions, pace, policy)),
		UsersHandler:       users.NewHandler(logger, users.NewService(store, sessions, pace), gate),
		RolesHandler:       roles.NewHandler(logger, roles.NewService(store, sessions, pace), gate),
		PermissionsHandler: permissions.NewHandler(logger, permissions.NewService(store, pace)),
		Metrics:            observability.NewMetrics(),
	})
}

func do(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res := httptest.NewRecorder()
	h.ServeHTTP(res, req)
	return res
}

func login(t *testing.T, h http.Handler, email string) string {
	t.Helper()
	res := do(t, h, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    email,
		"password": "admin",
	})
	require.Equal(t, http.StatusOK, res.Code, res.Body.String())
	var sess struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &sess))
	require.NotEmpty(t, sess.Token)
	return sess.Token
}

func TestAdminRoleLifecycle(t *testing.T) {
	h := newServer(t)
	token := login(t, h, "admin@example.com")

	res := do(t, h, http.MethodPost, "/api/roles", token, map[string]any{
		"name":        "auditor",
		"description": "Read-only audit access",
		"permissions": []string{"read"},
	})
	require.Equal(t, http.StatusCreated, res.Code, res.Body.String())
	var created directory.Role
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &created))
	assert.Positive(t, created.ID)
	assert.Equal(t, "auditor", created.Name)

	res = do(t, h, http.MethodGet, "/api/roles?sort=name&dir=asc", token, nil)
	require.Equal(t, http.StatusOK, res.Code)
	var list struct {
		Items    []directory.Role `json:"items"`
		Revision int64            `json:"revision"`
	}
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &list))
	require.Len(t, list.Items, 4)
	assert.Equal(t, "admin", list.Items[0].Name)
	assert.Equal(t, "auditor", list.Items[1].Name)

	res = do(t, h, http.MethodDelete, fmt.Sprintf("/api/roles/%d", created.ID), token, nil)
	require.Equal(t, http.StatusNoContent, res.Code)

	res = do(t, h, http.MethodGet, "/api/roles", token, nil)
	require.Equal(t, http.StatusOK, res.Code)
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &list))
	assert.Len(t, list.Items, 3)
}

func TestViewerIsReadOnly(t *testing.T) {
	h := newServer(t)
	token := login(t, h, "viewer@example.com")

	res := do(t, h, http.MethodGet, "/api/users", token, nil)
	assert.Equal(t, http.StatusOK, res.Code)

	res = do(t, h, http.MethodPost, "/api/users", token, map[string]string{
		"name":  "New User",
		"email": "new@example.com",
	})
	assert.Equal(t, http.StatusForbidden, res.Code)

	res = do(t, h, http.MethodDelete, "/api/roles/5", token, nil)
	assert.Equal(t, http.StatusForbidden, res.Code)
}

func TestAnonymousMutationRejected(t *testing.T) {
	h := newServer(t)

	res := do(t, h, http.MethodPost, "/api/users", "", map[string]string{
		"name":  "Someone",
		"email": "someone@example.com",
	})
	assert.Equal(t, http.StatusUnauthorized, res.Code)

	// Lists stay readable without a session.
	res = do(t, h, http.MethodGet, "/api/permissions", "", nil)
	assert.Equal(t, http.StatusOK, res.Code)
}

func TestRegisterThenActAsViewer(t *testing.T) {
	h := newServer(t)

	res := do(t, h, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name":     "Fresh Account",
		"email":    "fresh@example.com",
		"password": "longenough",
		"role":     "admin", // ignored
	})
	require.Equal(t, http.StatusCreated, res.Code, res.Body.String())
	var sess session.Session
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &sess))
	require.NotNil(t, sess.User)
	assert.Equal(t, "viewer", sess.User.Role)

	res = do(t, h, http.MethodPost, "/api/roles", sess.Token, map[string]any{
		"name": "backdoor",
	})
	assert.Equal(t, http.StatusForbidden, res.Code)
}

func TestLoginFailureIsUnauthorized(t *testing.T) {
	h := newServer(t)
	res := do(t, h, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "admin@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, res.Code)
}
