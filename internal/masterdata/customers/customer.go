// Package customers manages the customer master records.
package customers

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Customer is a party sales are billed to.
type Customer struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Email       string          `json:"email,omitempty"`
	Phone       string          `json:"phone,omitempty"`
	Address     string          `json:"address,omitempty"`
	CreditLimit decimal.Decimal `json:"creditLimit"`
	IsActive    bool            `json:"isActive"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// UpdateCustomer carries the mutable fields; nil leaves a field unchanged.
type UpdateCustomer struct {
	Name        *string          `json:"name"`
	Email       *string          `json:"email"`
	Phone       *string          `json:"phone"`
	Address     *string          `json:"address"`
	CreditLimit *decimal.Decimal `json:"creditLimit"`
	IsActive    *bool            `json:"isActive"`
}

var (
	ErrNotFound  = errors.New("customers: not found")
	ErrDuplicate = errors.New("customers: duplicate email")
	ErrInvalid   = errors.New("customers: invalid")
)
