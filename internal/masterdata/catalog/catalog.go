// Package catalog manages product categories and the product master
// referenced by purchase lines and stock counters.
package catalog

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Category groups products.
type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Product is a sellable/purchasable item. SKU is unique across the catalog.
type Product struct {
	ID          int64           `json:"id"`
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	CategoryID  int64           `json:"categoryId"`
	Unit        string          `json:"unit,omitempty"`
	MarkedPrice decimal.Decimal `json:"markedPrice"`
	IsActive    bool            `json:"isActive"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// UpdateProduct carries the mutable product fields; nil leaves a field
// unchanged.
type UpdateProduct struct {
	SKU         *string          `json:"sku"`
	Name        *string          `json:"name"`
	CategoryID  *int64           `json:"categoryId"`
	Unit        *string          `json:"unit"`
	MarkedPrice *decimal.Decimal `json:"markedPrice"`
	IsActive    *bool            `json:"isActive"`
}

var (
	ErrNotFound  = errors.New("catalog: not found")
	ErrDuplicate = errors.New("catalog: duplicate sku or name")
	ErrInvalid   = errors.New("catalog: invalid")
)
