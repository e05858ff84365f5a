package stock

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeCounters struct {
	productPurchased map[int64]int64
	productReturned  map[int64]int64
	linePurchased    map[int64]int64
	lineReturned     map[int64]int64
	failProduct      bool
}

func newFakeCounters() *fakeCounters {
	return &fakeCounters{
		productPurchased: map[int64]int64{},
		productReturned:  map[int64]int64{},
		linePurchased:    map[int64]int64{},
		lineReturned:     map[int64]int64{},
	}
}

func (f *fakeCounters) IncrementProductPurchased(ctx context.Context, itemID, qty int64) error {
	if f.failProduct {
		return errors.New("boom")
	}
	f.productPurchased[itemID] += qty
	return nil
}

func (f *fakeCounters) IncrementProductReturned(ctx context.Context, itemID, qty int64) error {
	if f.failProduct {
		return errors.New("boom")
	}
	f.productReturned[itemID] += qty
	return nil
}

func (f *fakeCounters) IncrementLinePurchased(ctx context.Context, lineID, qty int64) error {
	f.linePurchased[lineID] += qty
	return nil
}

func (f *fakeCounters) IncrementLineReturned(ctx context.Context, lineID, qty int64) error {
	f.lineReturned[lineID] += qty
	return nil
}

func (f *fakeCounters) LineAvailableQty(ctx context.Context, lineID int64) (int64, error) {
	return f.linePurchased[lineID] - f.lineReturned[lineID], nil
}

func TestApplyPurchaseLine(t *testing.T) {
	counters := newFakeCounters()
	ledger := NewLedger()

	require.NoError(t, ledger.ApplyPurchaseLine(context.Background(), counters, 7, 101, 5))
	require.NoError(t, ledger.ApplyPurchaseLine(context.Background(), counters, 7, 102, 3))

	require.Equal(t, int64(8), counters.productPurchased[7])
	require.Equal(t, int64(5), counters.linePurchased[101])
	require.Equal(t, int64(3), counters.linePurchased[102])
}

func TestApplyPurchaseLineRejectsNonPositiveQty(t *testing.T) {
	ledger := NewLedger()
	err := ledger.ApplyPurchaseLine(context.Background(), newFakeCounters(), 7, 101, 0)
	require.ErrorIs(t, err, ErrLedgerUpdate)
}

func TestApplyPurchaseLineWrapsCounterFailure(t *testing.T) {
	counters := newFakeCounters()
	counters.failProduct = true
	ledger := NewLedger()

	err := ledger.ApplyPurchaseLine(context.Background(), counters, 7, 101, 5)
	require.ErrorIs(t, err, ErrLedgerUpdate)
}

func TestApplyReturnLine(t *testing.T) {
	counters := newFakeCounters()
	ledger := NewLedger()
	require.NoError(t, ledger.ApplyPurchaseLine(context.Background(), counters, 7, 101, 5))

	require.NoError(t, ledger.ApplyReturnLine(context.Background(), counters, 7, 101, 2))
	require.Equal(t, int64(2), counters.productReturned[7])
	require.Equal(t, int64(2), counters.lineReturned[101])

	// three remain; returning four exceeds the line
	err := ledger.ApplyReturnLine(context.Background(), counters, 7, 101, 4)
	require.ErrorIs(t, err, ErrOverReturn)

	// the guard fired before any counter moved
	require.Equal(t, int64(2), counters.productReturned[7])

	require.NoError(t, ledger.ApplyReturnLine(context.Background(), counters, 7, 101, 3))
	require.Equal(t, int64(5), counters.lineReturned[101])
}

func TestAvailableQty(t *testing.T) {
	p := ProductStock{PurchasedQty: 12, ReturnedQty: 4}
	require.Equal(t, int64(8), p.AvailableQty())

	l := LineStock{PurchasedQty: 5, ReturnedQty: 5}
	require.Equal(t, int64(0), l.AvailableQty())
}
