// Package users manages user accounts: creation, email verification and
// password lifecycle. Role assignment lives in rbac.
package users

import (
	"errors"
	"time"
)

// User is an account that can authenticate against the API.
type User struct {
	ID            int64     `json:"id"`
	Email         string    `json:"email"`
	FullName      string    `json:"fullName"`
	PasswordHash  string    `json:"-"`
	IsActive      bool      `json:"isActive"`
	IsSuperuser   bool      `json:"isSuperuser"`
	EmailVerified bool      `json:"emailVerified"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Token purposes for one-time user tokens.
const (
	TokenVerifyEmail   = "verify_email"
	TokenResetPassword = "reset_password"
)

// UpdateUser carries the mutable profile fields; nil leaves a field
// unchanged.
type UpdateUser struct {
	FullName *string `json:"fullName"`
	IsActive *bool   `json:"isActive"`
}

var (
	ErrNotFound     = errors.New("users: not found")
	ErrDuplicate    = errors.New("users: email already registered")
	ErrInvalid      = errors.New("users: invalid")
	ErrTokenExpired = errors.New("users: token expired or unknown")
)
