package stock

import (
	"errors"
	"time"
)

// ProductStock is the denormalized per-item running counter. Quantities are
// mutated incrementally, never recomputed from movement history.
type ProductStock struct {
	ItemID       int64     `json:"itemId"`
	PurchasedQty int64     `json:"purchasedQty"`
	ReturnedQty  int64     `json:"returnedQty"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// AvailableQty is the derived on-hand quantity.
func (p ProductStock) AvailableQty() int64 {
	return p.PurchasedQty - p.ReturnedQty
}

// LineStock tracks remaining quantity for a single purchase line, used for
// line-level stock-out tracing and the over-return guard.
type LineStock struct {
	PurchaseLineID int64     `json:"purchaseLineId"`
	PurchasedQty   int64     `json:"purchasedQty"`
	ReturnedQty    int64     `json:"returnedQty"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// AvailableQty is the quantity still returnable against the line.
func (l LineStock) AvailableQty() int64 {
	return l.PurchasedQty - l.ReturnedQty
}

var (
	// ErrLedgerUpdate indicates a counter update failed. Distinct from input
	// validation so callers do not report a persisted document as invalid.
	ErrLedgerUpdate = errors.New("stock: ledger update failed")
	// ErrOverReturn indicates a return exceeds the line's remaining quantity.
	ErrOverReturn = errors.New("stock: return quantity exceeds remaining line stock")
	// ErrNotFound indicates a missing counter row.
	ErrNotFound = errors.New("stock: not found")
)
