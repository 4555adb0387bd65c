// Package users implements the user management facade: every mutating
// operation composes the simulated latency boundary, the session check, the
// authorization gate, structural validation, and the directory mutation.
package users

import (
	"context"
	"errors"
	"strings"

	"github.com/aegis-admin/aegis-admin/internal/apperr"
	"github.com/aegis-admin/aegis-admin/internal/authz"
	"github.com/aegis-admin/aegis-admin/internal/directory"
	"github.com/aegis-admin/aegis-admin/internal/platform/latency"
	"github.com/aegis-admin/aegis-admin/internal/session"
	"github.com/aegis-admin/aegis-admin/internal/validate"
)

// Service handles user business logic.
type Service struct {
	store    *directory.Store
	sessions *session.Store
	pace     latency.Pacer
}

// NewService builds a Service instance.
func NewService(store *directory.Store, sessions *session.Store, pace latency.Pacer) *Service {
	return &Service{store: store, sessions: sessions, pace: pace}
}

// ListResult carries a list snapshot plus the revision it was taken at, so
// callers can discard responses superseded by a later mutation.
type ListResult struct {
	Items    []directory.User `json:"items"`
	Revision int64            `json:"revision"`
}

// Revision exposes the store revision for response correlation.
func (s *Service) Revision() int64 {
	return s.store.Revision()
}

// List returns all users in insertion order. Viewing is open to every role.
func (s *Service) List(ctx context.Context) (ListResult, error) {
	if err := s.pause(ctx, "users.list"); err != nil {
		return ListResult{}, err
	}
	return ListResult{Items: s.store.Users(), Revision: s.store.Revision()}, nil
}

// CreateInput carries the fields for a new user.
type CreateInput struct {
	Name   string
	Email  string
	Status directory.Status
	Role   string
}

// Create inserts a new user after gate and validation checks.
func (s *Service) Create(ctx context.Context, in CreateInput) (directory.User, error) {
	if err := s.pause(ctx, "users.create"); err != nil {
		return directory.User{}, err
	}
	if err := s.authorize(authz.ActionCreateUser); err != nil {
		return directory.User{}, err
	}

	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	fields := map[string]string{}
	if msg := validate.FieldError("name", in.Name); msg != "" {
		fields["name"] = msg
	}
	if msg := validate.FieldError("email", in.Email); msg != "" {
		fields["email"] = msg
	} else if _, exists := s.store.UserByEmail(in.Email); exists {
		fields["email"] = "Email already exists"
	}
	if len(fields) > 0 {
		return directory.User{}, apperr.Validation(fields)
	}

	if in.Status == "" {
		in.Status = directory.StatusActive
	}
	if in.Role == "" {
		in.Role = authz.RoleViewer
	}
	return s.store.InsertUser(directory.User{
		Name:   in.Name,
		Email:  in.Email,
		Status: in.Status,
		Role:   in.Role,
	}), nil
}

// UpdateInput carries a partial user patch. Nil fields are left unchanged.
type UpdateInput struct {
	Name   *string
	Email  *string
	Status *directory.Status
	Role   *string
}

// Update merges the patch into the stored user and replaces it.
func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (directory.User, error) {
	if err := s.pause(ctx, "users.update"); err != nil {
		return directory.User{}, err
	}
	if err := s.authorize(authz.ActionUpdateUser); err != nil {
		return directory.User{}, err
	}

	current, ok := s.store.UserByID(id)
	if !ok {
		return directory.User{}, apperr.NotFound("user")
	}
	next := current
	if in.Name != nil {
		next.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		next.Email = strings.TrimSpace(*in.Email)
	}
	if in.Status != nil {
		next.Status = *in.Status
	}
	if in.Role != nil {
		next.Role = *in.Role
	}

	fields := map[string]string{}
	if msg := validate.FieldError("name", next.Name); msg != "" {
		fields["name"] = msg
	}
	if msg := validate.FieldError("email", next.Email); msg != "" {
		fields["email"] = msg
	} else if other, exists := s.store.UserByEmail(next.Email); exists && other.ID != id {
		fields["email"] = "Email already exists"
	}
	if len(fields) > 0 {
		return directory.User{}, apperr.Validation(fields)
	}

	saved, ok := s.store.SaveUser(next)
	if !ok {
		return directory.User{}, apperr.NotFound("user")
	}
	return saved, nil
}

// Delete removes a user by id.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.pause(ctx, "users.delete"); err != nil {
		return err
	}
	if err := s.authorize(authz.ActionDeleteUser); err != nil {
		return err
	}
	if !s.store.RemoveUser(id) {
		return apperr.NotFound("user")
	}
	return nil
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
