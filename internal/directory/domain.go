// Package directory holds the authoritative in-memory collections of
// users, roles, and permissions.
package directory

// Status marks whether a user account is active.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// User is a managed account. Role references a Role by name; the reference
// is weak and may dangle after a role delete (see the integrity job).
type User struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Status Status `json:"status"`
	Role   string `json:"role"`
}

// Role groups permissions under a unique name.
type Role struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Permissions []string `json:"permissions"`
}

// Permission is an atomic capability. Reference data: no delete is exposed.
type Permission struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}
