package stock

import (
	"context"
	"fmt"
)

// CounterTx exposes atomic counter mutations inside a caller-owned
// transaction. Implementations must increment via a single statement
// (upsert with qty = qty + delta), never read-modify-write.
type CounterTx interface {
	IncrementProductPurchased(ctx context.Context, itemID, qty int64) error
	IncrementProductReturned(ctx context.Context, itemID, qty int64) error
	IncrementLinePurchased(ctx context.Context, lineID, qty int64) error
	IncrementLineReturned(ctx context.Context, lineID, qty int64) error
	LineAvailableQty(ctx context.Context, lineID int64) (int64, error)
}

// Ledger applies stock counter deltas for confirmed purchase lines. It is
// invoked explicitly by the transaction orchestrator, inside the same unit
// of work as the document write.
type Ledger struct{}

// NewLedger constructs the Ledger.
func NewLedger() *Ledger {
	return &Ledger{}
}

// ApplyPurchaseLine records a newly persisted purchase line: the item's
// purchased quantity and the line's own available quantity both grow.
func (l *Ledger) ApplyPurchaseLine(ctx context.Context, tx CounterTx, itemID, lineID, qty int64) error {
	if qty <= 0 {
		return fmt.Errorf("%w: quantity must be positive", ErrLedgerUpdate)
	}
	if err := tx.IncrementProductPurchased(ctx, itemID, qty); err != nil {
		return fmt.Errorf("%w: product counter: %v", ErrLedgerUpdate, err)
	}
	if err := tx.IncrementLinePurchased(ctx, lineID, qty); err != nil {
		return fmt.Errorf("%w: line counter: %v", ErrLedgerUpdate, err)
	}
	return nil
}

// ApplyReturnLine records a return line against the referenced original
// purchase line. The referenced line's remaining quantity is checked first
// so a return can never exceed what was purchased on that line.
func (l *Ledger) ApplyReturnLine(ctx context.Context, tx CounterTx, itemID, refLineID, qty int64) error {
	if qty <= 0 {
		return fmt.Errorf("%w: quantity must be positive", ErrLedgerUpdate)
	}
	available, err := tx.LineAvailableQty(ctx, refLineID)
	if err != nil {
		return fmt.Errorf("%w: line lookup: %v", ErrLedgerUpdate, err)
	}
	if qty > available {
		return fmt.Errorf("%w: requested %d, remaining %d", ErrOverReturn, qty, available)
	}
	if err := tx.IncrementProductReturned(ctx, itemID, qty); err != nil {
		return fmt.Errorf("%w: product counter: %v", ErrLedgerUpdate, err)
	}
	if err := tx.IncrementLineReturned(ctx, refLineID, qty); err != nil {
		return fmt.Errorf("%w: line counter: %v", ErrLedgerUpdate, err)
	}
	return nil
}
