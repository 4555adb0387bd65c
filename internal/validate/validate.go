// Package validate contains field-level predicates shared by the service
// facades and request handlers. All functions are pure.
package validate

import (
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsValidEmail reports whether value has the shape of an email address.
func IsValidEmail(value string) bool {
	return emailPattern.MatchString(value)
}

// IsValidPassword reports whether value is at least 8 characters long.
func IsValidPassword(value string) bool {
	return len(value) >= 8
}

// IsValidName reports whether value is at least 2 characters after trimming.
func IsValidName(value string) bool {
	return len(strings.TrimSpace(value)) >= 2
}

// FieldError returns the display message for a field value, or "" when the
// value passes. Fields without a rule always pass.
func FieldError(field, value string) string {
	switch field {
	case "email":
		if value == "" {
			return "Email is required"
		}
		if !IsValidEmail(value) {
			return "Invalid email format"
		}
	case "password":
		if value == "" {
			return "Password is required"
		}
		if !IsValidPassword(value) {
			return "Password must be at least 8 characters"
		}
	case "name":
		if value == "" {
			return "Name is required"
		}
		if !IsValidName(value) {
			return "Name must be at least 2 characters"
		}
	}
	return ""
}
