package jobs

import (
	"context"
	"log/slog"

	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"github.com/aegis-admin/aegis-admin/internal/directory"
	jobmetrics "github.com/aegis-admin/aegis-admin/internal/jobs"
	"github.com/aegis-admin/aegis-admin/internal/observability"
	"github.com/aegis-admin/aegis-admin/internal/session"
)

// IntegrityScanner reports dangling weak references in the directory. Role
// deletes intentionally leave user references behind; this job makes the
// orphans visible instead of rewriting them.
type IntegrityScanner struct {
	store    *directory.Store
	sessions *session.Store
	metrics  *observability.Metrics
	tracker  *jobmetrics.Metrics
	logger   *slog.Logger
}

// NewIntegrityScanner constructs an IntegrityScanner.
func NewIntegrityScanner(store *directory.Store, sessions *session.Store, metrics *observability.Metrics, logger *slog.Logger) *IntegrityScanner {
	return &IntegrityScanner{
		store:    store,
		sessions: sessions,
		metrics:  metrics,
		tracker:  jobmetrics.NewMetrics(metrics.Registerer()),
		logger:   logger,
	}
}

// Scan walks both weak-reference edges and records orphan counts.
func (s *IntegrityScanner) Scan(ctx context.Context) error {
	var userOrphans, roleOrphans int

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		roleNames := map[string]struct{}{}
		for _, r := range s.store.Roles() {
			roleNames[r.Name] = struct{}{}
		}
		for _, u := range s.store.Users() {
			if _, ok := roleNames[u.Role]; !ok {
				userOrphans++
				if s.logger != nil {
					s.logger.Warn("user references missing role",
						slog.Int64("user_id", u.ID),
						slog.String("role", u.Role))
				}
			}
		}
		return nil
	})
	g.Go(func() error {
		defined := s.store.PermissionNames()
		for _, r := range s.store.Roles() {
			for _, p := range r.Permissions {
				if _, ok := defined[p]; !ok {
					roleOrphans++
					if s.logger != nil {
						s.logger.Warn("role references missing permission",
							slog.Int64("role_id", r.ID),
							slog.String("permission", p))
					}
				}
			}
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	s.metrics.SetDanglingRefs("user_role", userOrphans)
	s.metrics.SetDanglingRefs("role_permission", roleOrphans)
	return nil
}

// AuditSession clears the persisted session when its user no longer exists
// in the directory.
func (s *IntegrityScanner) AuditSession(ctx context.Context) error {
	cur := s.sessions.Current()
	if !cur.Authenticated() {
		return nil
	}
	if _, ok := s.store.UserByID(cur.User.ID); ok {
		return nil
	}
	if s.logger != nil {
		s.logger.Warn("session user no longer exists, clearing session",
			slog.Int64("user_id", cur.User.ID))
	}
	return s.sessions.Logout(ctx)
}

// HandleIntegrityTask processes TaskDirectoryIntegrity tasks.
func (s *IntegrityScanner) HandleIntegrityTask(ctx context.Context, t *asynq.Task) error {
	return s.tracker.Track(TaskDirectoryIntegrity).End(s.Scan(ctx))
}

// HandleSessionAuditTask processes TaskSessionAudit tasks.
func (s *IntegrityScanner) HandleSessionAuditTask(ctx context.Context, t *asynq.Task) error {
	return s.tracker.Track(TaskSessionAudit).End(s.AuditSession(ctx))
}
