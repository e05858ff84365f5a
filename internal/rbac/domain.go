// Package rbac provides role-based access control: roles grouping permission
// codes, user-role assignment, and the HTTP capability gate.
package rbac

import (
	"errors"
	"time"
)

// Role groups permissions under a name.
type Role struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	Permissions []string  `json:"permissions,omitempty"`
}

// Permission is a capability code such as add_purchase or view_supplier.
type Permission struct {
	ID   int64  `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

var (
	// ErrNotFound indicates a missing role or permission.
	ErrNotFound = errors.New("rbac: not found")
	// ErrDuplicate indicates a role or permission code already exists.
	ErrDuplicate = errors.New("rbac: duplicate")
	// ErrInvalid indicates a malformed role payload.
	ErrInvalid = errors.New("rbac: invalid role")
)
