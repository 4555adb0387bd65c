// Package auth implements the login, registration, and logout flows.
package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/aegis-admin/aegis-admin/internal/apperr"
	"github.com/aegis-admin/aegis-admin/internal/authz"
	"github.com/aegis-admin/aegis-admin/internal/directory"
	"github.com/aegis-admin/aegis-admin/internal/platform/latency"
	"github.com/aegis-admin/aegis-admin/internal/session"
	"github.com/aegis-admin/aegis-admin/internal/validate"
)

// PasswordPolicy decides whether a supplied password is accepted.
type PasswordPolicy interface {
	Verify(password string) error
}

// StaticSecretPolicy accepts one shared secret for every account. It stands
// in for per-user credentials, which this system deliberately does not have.
type StaticSecretPolicy struct {
	hash []byte
}

// NewStaticSecretPolicy hashes the shared secret once at construction.
func NewStaticSecretPolicy(secret string) (*StaticSecretPolicy, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &StaticSecretPolicy{hash: hash}, nil
}

// Verify compares password against the shared secret.
func (p *StaticSecretPolicy) Verify(password string) error {
	return bcrypt.CompareHashAndPassword(p.hash, []byte(password))
}

// Service wraps authentication business rules.
type Service struct {
	store    *directory.Store
	sessions *session.Store
	pace     latency.Pacer
	policy   PasswordPolicy
}

// NewService constructs a new Service.
func NewService(store *directory.Store, sessions *session.Store, pace latency.Pacer, policy PasswordPolicy) *Service {
	return &Service{store: store, sessions: sessions, pace: pace, policy: policy}
}

// Login validates email/password credentials and opens a session.
func (s *Service) Login(ctx context.Context, email, password string) (session.Session, error) {
	if err := s.pause(ctx, "auth.login"); err != nil {
		return session.Session{}, err
	}
	user, ok := s.store.UserByEmail(strings.TrimSpace(email))
	if !ok {
		return session.Session{}, apperr.InvalidCredentials()
	}
	if err := s.policy.Verify(password); err != nil {
		return session.Session{}, apperr.InvalidCredentials()
	}
	token := uuid.NewString()
	if err := s.sessions.SetAuth(ctx, user, token); err != nil {
		return session.Session{}, err
	}
	return session.Session{User: &user, Token: token}, nil
}

// RegisterInput carries self-registration fields. Any supplied role is
// ignored: registration always assigns the lowest-privilege role.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Register creates a viewer account and opens a session for it. The only
// unauthenticated creation path.
func (s *Service) Register(ctx context.Context, in RegisterInput) (session.Session, error) {
	if err := s.pause(ctx, "auth.register"); err != nil {
		return session.Session{}, err
	}

	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	fields := map[string]string{}
	for field, value := range map[string]string{
		"name":     in.Name,
		"email":    in.Email,
		"password": in.Password,
	} {
		if msg := validate.FieldError(field, value); msg != "" {
			fields[field] = msg
		}
	}
	if fields["email"] == "" {
		if _, exists := s.store.UserByEmail(in.Email); exists {
			fields["email"] = "Email already exists"
		}
	}
	if len(fields) > 0 {
		return session.Session{}, apperr.Validation(fields)
	}

	user := s.store.InsertUser(directory.User{
		Name:   in.Name,
		Email:  in.Email,
		Status: directory.StatusActive,
		Role:   authz.RoleViewer,
	})
	token := uuid.NewString()
	if err := s.sessions.SetAuth(ctx, user, token); err != nil {
		return session.Session{}, err
	}
	return session.Session{User: &user, Token: token}, nil
}

// Logout clears the current session. A no-op for anonymous callers.
func (s *Service) Logout(ctx context.Context) error {
	return s.sessions.Logout(ctx)
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
