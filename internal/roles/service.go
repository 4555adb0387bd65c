// Package roles implements the role management facade.
package roles

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aegis-admin/aegis-admin/internal/apperr"
	"github.com/aegis-admin/aegis-admin/internal/authz"
	"github.com/aegis-admin/aegis-admin/internal/directory"
	"github.com/aegis-admin/aegis-admin/internal/platform/latency"
	"github.com/aegis-admin/aegis-admin/internal/session"
)

// Service handles role business logic.
type Service struct {
	store    *directory.Store
	sessions *session.Store
	pace     latency.Pacer
}

// NewService builds a Service instance.
func NewService(store *directory.Store, sessions *session.Store, pace latency.Pacer) *Service {
	return &Service{store: store, sessions: sessions, pace: pace}
}

// ListResult carries a list snapshot plus the revision it was taken at.
type ListResult struct {
	Items    []directory.Role `json:"items"`
	Revision int64            `json:"revision"`
}

// Revision exposes the store revision for response correlation.
func (s *Service) Revision() int64 {
	return s.store.Revision()
}

// List returns all roles in insertion order.
func (s *Service) List(ctx context.Context) (ListResult, error) {
	if err := s.pause(ctx, "roles.list"); err != nil {
		return ListResult{}, err
	}
	return ListResult{Items: s.store.Roles(), Revision: s.store.Revision()}, nil
}

// CreateInput carries the fields for a new role.
type CreateInput struct {
	Name        string
	Description string
	Permissions []string
}

// Create inserts a new role. The name must be unique and every permission
// must exist; a dangling permission reference is a data-integrity bug and is
// rejected outright.
func (s *Service) Create(ctx context.Context, in CreateInput) (directory.Role, error) {
	if err := s.pause(ctx, "roles.create"); err != nil {
		return directory.Role{}, err
	}
	if err := s.authorize(authz.ActionCreateRole); err != nil {
		return directory.Role{}, err
	}

	in.Name = strings.TrimSpace(in.Name)
	fields := map[string]string{}
	if in.Name == "" {
		fields["name"] = "Name is required"
	} else if _, exists := s.store.RoleByName(in.Name); exists {
		fields["name"] = "Role name already exists"
	}
	if msg := s.checkPermissions(in.Permissions); msg != "" {
		fields["permissions"] = msg
	}
	if len(fields) > 0 {
		return directory.Role{}, apperr.Validation(fields)
	}

	return s.store.InsertRole(directory.Role{
		Name:        in.Name,
		Description: strings.TrimSpace(in.Description),
		Permissions: in.Permissions,
	}), nil
}

// UpdateInput carries a partial role patch. Nil fields are left unchanged.
type UpdateInput struct {
	Name        *string
	Description *string
	Permissions *[]string
}

// Update merges the patch into the stored role and replaces it.
func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (directory.Role, error) {
	if err := s.pause(ctx, "roles.update"); err != nil {
		return directory.Role{}, err
	}
	if err := s.authorize(authz.ActionUpdateRole); err != nil {
		return directory.Role{}, err
	}

	current, ok := s.store.RoleByID(id)
	if !ok {
		return directory.Role{}, apperr.NotFound("role")
	}
	next := current
	if in.Name != nil {
		next.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		next.Description = strings.TrimSpace(*in.Description)
	}
	if in.Permissions != nil {
		next.Permissions = *in.Permissions
	}

	fields := map[string]string{}
	if next.Name == "" {
		fields["name"] = "Name is required"
	} else if other, exists := s.store.RoleByName(next.Name); exists && other.ID != id {
		fields["name"] = "Role name already exists"
	}
	if msg := s.checkPermissions(next.Permissions); msg != "" {
		fields["permissions"] = msg
	}
	if len(fields) > 0 {
		return directory.Role{}, apperr.Validation(fields)
	}

	saved, ok := s.store.SaveRole(next)
	if !ok {
		return directory.Role{}, apperr.NotFound("role")
	}
	return saved, nil
}

// Delete removes a role by id. Users referencing the role by name keep the
// dangling reference; the integrity job surfaces orphans.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.pause(ctx, "roles.delete"); err != nil {
		return err
	}
	if err := s.authorize(authz.ActionDeleteRole); err != nil {
		return err
	}
	if !s.store.RemoveRole(id) {
		return apperr.NotFound("role")
	}
	return nil
}

func (s *Service) checkPermissions(perms []string) string {
	defined := s.store.PermissionNames()
	for _, p := range perms {
		if _, ok := defined[p]; !ok {
			return fmt.Sprintf("unknown permission %q", p)
		}
	}
	return ""
}

func (s *Service) authorize(action authz.Action) error {
	sess := s.sessions.Current()
	if !sess.Authenticated() {
		return apperr.Unauthenticated()
	}
	if !authz.CanPerform(sess.Role(), action) {
		return apperr.Forbidden(authz.Explain(sess.Role(), action))
	}
	return nil
}

func (s *Service) pause(ctx context.Context, op string) error {
	err := s.pace.Wait(ctx)
	if err == nil {
		return nil
	}
	if errors.Is(err, latency.ErrStalled) || errors.Is(err, context.DeadlineExceeded) {
		return apperr.Timeout(op)
	}
	return err
}
