// Package suppliers manages the supplier master records referenced by
// purchase documents.
package suppliers

import (
	"errors"
	"time"
)

// Supplier is a vendor purchases are billed against.
type Supplier struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	PAN       string    `json:"pan,omitempty"`
	Address   string    `json:"address,omitempty"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UpdateSupplier carries the mutable fields of a supplier. Nil means leave
// the field unchanged.
type UpdateSupplier struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	PAN      *string `json:"pan"`
	Address  *string `json:"address"`
	IsActive *bool   `json:"isActive"`
}

var (
	// ErrNotFound indicates a missing supplier.
	ErrNotFound = errors.New("suppliers: not found")
	// ErrDuplicate indicates the email or PAN is already taken.
	ErrDuplicate = errors.New("suppliers: duplicate email or pan")
	// ErrInvalid indicates a malformed supplier payload.
	ErrInvalid = errors.New("suppliers: invalid")
)
