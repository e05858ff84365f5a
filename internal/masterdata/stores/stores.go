// Package stores manages physical store/branch records.
package stores

import (
	"errors"
	"time"
)

// Store is a physical branch stock and documents can be scoped to.
type Store struct {
	ID        int64     `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

var (
	ErrNotFound  = errors.New("stores: not found")
	ErrDuplicate = errors.New("stores: duplicate code")
	ErrInvalid   = errors.New("stores: invalid")
)
