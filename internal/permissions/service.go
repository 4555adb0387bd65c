// Package permissions exposes the read-only permission catalog.
package permissions

import (
	"context"
	"errors"

	"github.com/aegis-admin/aegis-admin/internal/apperr"
	"github.com/aegis-admin/aegis-admin/internal/directory"
	"github.com/aegis-admin/aegis-admin/internal/platform/latency"
)

// Service lists the permission reference data. Viewing is open to every
// role, so no session or gate check is involved.
type Service struct {
	store *directory.Store
	pace  latency.Pacer
}

// NewService builds a Service instance.
func NewService(store *directory.Store, pace latency.Pacer) *Service {
	return &Service{store: store, pace: pace}
}

// ListResult carries the permission snapshot plus the revision it was taken at.
type ListResult struct {
	Items    []directory.Permission `json:"items"`
	Revision int64                  `json:"revision"`
}

// List returns all permissions in insertion order.
func (s *Service) List(ctx context.Context) (ListResult, error) {
	if err := s.pace.Wait(ctx); err != nil {
		if errors.Is(err, latency.ErrStalled) || errors.Is(err, context.DeadlineExceeded) {
			return ListResult{}, apperr.Timeout("permissions.list")
		}
		return ListResult{}, err
	}
	return ListResult{Items: s.store.Permissions(), Revision: s.store.Revision()}, nil
}
