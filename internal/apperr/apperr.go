// Package apperr defines the structured error taxonomy shared by all
// service facades. Handlers inspect the Kind, never the message text.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure for programmatic handling.
type Kind string

const (
	// KindUnauthenticated means no session is present.
	KindUnauthenticated Kind = "unauthenticated"
	// KindForbidden means a session is present but policy denies the action.
	KindForbidden Kind = "forbidden"
	// KindValidation means the input is malformed or duplicates existing data.
	KindValidation Kind = "validation"
	// KindNotFound means the target record does not exist.
	KindNotFound Kind = "not_found"
	// KindInvalidCredentials means a login attempt did not match.
	KindInvalidCredentials Kind = "invalid_credentials"
	// KindTimeout means an operation exceeded its wait budget.
	KindTimeout Kind = "timeout"
)

// Error carries a Kind plus a display message and optional per-field detail.
type Error struct {
	Kind    Kind
	Message string
	Fields  map[string]string
}

func (e *Error) Error() string {
	return e.Message
}

// Unauthenticated builds a no-session error.
func Unauthenticated() *Error {
	return &Error{Kind: KindUnauthenticated, Message: "authentication required"}
}

// Forbidden builds a policy-denial error with a human-readable reason.
func Forbidden(reason string) *Error {
	return &Error{Kind: KindForbidden, Message: reason}
}

// Validation builds a field-level validation error.
func Validation(fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: "validation failed", Fields: fields}
}

// NotFound builds a missing-record error for the named resource.
func NotFound(resource string) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s not found", resource)}
}

// InvalidCredentials builds a login-mismatch error.
func InvalidCredentials() *Error {
	return &Error{Kind: KindInvalidCredentials, Message: "invalid credentials"}
}

// Timeout builds a wait-budget-exceeded error for the named operation.
func Timeout(op string) *Error {
	return &Error{Kind: KindTimeout, Message: fmt.Sprintf("%s timed out", op)}
}

// KindOf extracts the Kind from err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// FieldsOf extracts field detail from err, or nil.
func FieldsOf(err error) map[string]string {
	var e *Error
	if errors.As(err, &e) {
		return e.Fields
	}
	return nil
}
