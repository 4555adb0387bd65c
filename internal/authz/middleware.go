package authz

import (
	"log/slog"
	"net/http"

	"github.com/aegis-admin/aegis-admin/internal/apperr"
	"github.com/aegis-admin/aegis-admin/internal/platform/httpx"
	"github.com/aegis-admin/aegis-admin/internal/session"
)

// Middleware gates HTTP routes on the policy table. It reads the session the
// bearer middleware put in the request context, so UI-level gating and the
// facade's own checks always agree.
type Middleware struct {
	Logger *slog.Logger
}

// Require rejects requests whose session role may not perform action.
func (m Middleware) Require(action Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := session.FromContext(r.Context())
			if action != ActionViewAll && !sess.Authenticated() {
				httpx.RespondError(w, apperr.Unauthenticated())
				return
			}
			role := sess.Role()
			if !CanPerform(role, action) {
				if m.Logger != nil {
					m.Logger.Warn("action denied",
						slog.String("role", role),
						slog.String("action", string(action)),
						slog.String("path", r.URL.Path))
				}
				httpx.RespondError(w, apperr.Forbidden(Explain(role, action)))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
