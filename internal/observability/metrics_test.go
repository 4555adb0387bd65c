package observability_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aegis-admin/aegis-admin/internal/observability"
	_ "github.com/aegis-admin/aegis-admin/testing"
)

func TestMiddlewareRecordsRequests(t *testing.T) {
	m := observability.NewMetrics()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	res := httptest.NewRecorder()
	m.Middleware(next).ServeHTTP(res, req)
	require.Equal(t, http.StatusTeapot, res.Code)

	metricsRes := httptest.NewRecorder()
	m.Handler().ServeHTTP(metricsRes, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := metricsRes.Body.String()
	assert.Contains(t, body, "aegis_http_requests_total")
	assert.Contains(t, body, `code="418"`)
}

func TestSetDanglingRefs(t *testing.T) {
	m := observability.NewMetrics()
	m.SetDanglingRefs("user_role", 2)

	res := httptest.NewRecorder()
	m.Handler().ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.True(t, strings.Contains(res.Body.String(), `aegis_directory_dangling_refs{kind="user_role"} 2`))
}

func TestNilMetricsAreInert(t *testing.T) {
	var m *observability.Metrics
	m.SetDanglingRefs("user_role", 1)

	res := httptest.NewRecorder()
	m.Handler().ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, res.Code)
}
