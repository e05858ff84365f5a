package purchase

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/saral-hq/saral/internal/org"
	"github.com/saral-hq/saral/internal/stock"
)

// fakeState is the committed store contents. WithTx works on a deep copy and
// swaps it in only when the callback succeeds, mirroring transaction
// semantics.
type fakeState struct {
	seqs      map[string]int64
	docs      map[int64]Document
	lines     map[int64]Line
	payments  []Payment
	charges   []Charge
	product   map[int64]*stock.ProductStock
	lineStock map[int64]*stock.LineStock
	nextDocID int64
	nextRowID int64
}

func newFakeState() *fakeState {
	return &fakeState{
		seqs:      map[string]int64{},
		docs:      map[int64]Document{},
		lines:     map[int64]Line{},
		product:   map[int64]*stock.ProductStock{},
		lineStock: map[int64]*stock.LineStock{},
	}
}

func (s *fakeState) clone() *fakeState {
	c := newFakeState()
	c.nextDocID = s.nextDocID
	c.nextRowID = s.nextRowID
	for k, v := range s.seqs {
		c.seqs[k] = v
	}
	for k, v := range s.docs {
		c.docs[k] = v
	}
	for k, v := range s.lines {
		c.lines[k] = v
	}
	c.payments = append(c.payments, s.payments...)
	c.charges = append(c.charges, s.charges...)
	for k, v := range s.product {
		cp := *v
		c.product[k] = &cp
	}
	for k, v := range s.lineStock {
		cp := *v
		c.lineStock[k] = &cp
	}
	return c
}

type fakeRepo struct {
	state       *fakeState
	failLine    bool
	failCounter bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{state: newFakeState()}
}

func (r *fakeRepo) WithTx(ctx context.Context, fn func(ctx context.Context, tx TxRepository) error) error {
	staged := r.state.clone()
	tx := &fakeTx{state: staged, repo: r}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	r.state = staged
	return nil
}

func (r *fakeRepo) GetDocument(ctx context.Context, id int64) (Document, error) {
	doc, ok := r.state.docs[id]
	if !ok {
		return Document{}, ErrNotFound
	}
	return doc, nil
}

func (r *fakeRepo) ListDocuments(ctx context.Context, f ListFilters) ([]Document, int, error) {
	var docs []Document
	for _, doc := range r.state.docs {
		if f.DocType == "" || doc.DocType == f.DocType {
			docs = append(docs, doc)
		}
	}
	return docs, len(docs), nil
}

type fakeTx struct {
	state *fakeState
	repo  *fakeRepo
}

func (t *fakeTx) NextSequence(ctx context.Context, kind string, periodID int64) (int64, error) {
	t.state.seqs[kind]++
	return t.state.seqs[kind], nil
}

func (t *fakeTx) InsertDocument(ctx context.Context, doc *Document) error {
	t.state.nextDocID++
	doc.ID = t.state.nextDocID
	doc.CreatedAt = time.Now()
	t.state.docs[doc.ID] = *doc
	return nil
}

func (t *fakeTx) InsertLine(ctx context.Context, ln *Line) error {
	if t.repo.failLine {
		return errors.New("boom")
	}
	t.state.nextRowID++
	ln.ID = t.state.nextRowID
	t.state.lines[ln.ID] = *ln
	return nil
}

func (t *fakeTx) InsertPayment(ctx context.Context, p *Payment) error {
	t.state.nextRowID++
	p.ID = t.state.nextRowID
	t.state.payments = append(t.state.payments, *p)
	return nil
}

func (t *fakeTx) InsertCharge(ctx context.Context, c *Charge) error {
	t.state.nextRowID++
	c.ID = t.state.nextRowID
	t.state.charges = append(t.state.charges, *c)
	return nil
}

func (t *fakeTx) GetLine(ctx context.Context, id int64) (Line, error) {
	ln, ok := t.state.lines[id]
	if !ok {
		return Line{}, ErrNotFound
	}
	return ln, nil
}

func (t *fakeTx) IncrementProductPurchased(ctx context.Context, itemID, qty int64) error {
	if t.repo.failCounter {
		return errors.New("boom")
	}
	p := t.state.product[itemID]
	if p == nil {
		p = &stock.ProductStock{ItemID: itemID}
		t.state.product[itemID] = p
	}
	p.PurchasedQty += qty
	return nil
}

func (t *fakeTx) IncrementProductReturned(ctx context.Context, itemID, qty int64) error {
	p := t.state.product[itemID]
	if p == nil {
		p = &stock.ProductStock{ItemID: itemID}
		t.state.product[itemID] = p
	}
	p.ReturnedQty += qty
	return nil
}

func (t *fakeTx) IncrementLinePurchased(ctx context.Context, lineID, qty int64) error {
	l := t.state.lineStock[lineID]
	if l == nil {
		l = &stock.LineStock{PurchaseLineID: lineID}
		t.state.lineStock[lineID] = l
	}
	l.PurchasedQty += qty
	return nil
}

func (t *fakeTx) IncrementLineReturned(ctx context.Context, lineID, qty int64) error {
	l := t.state.lineStock[lineID]
	if l == nil {
		return errors.New("no counter")
	}
	l.ReturnedQty += qty
	return nil
}

func (t *fakeTx) LineAvailableQty(ctx context.Context, lineID int64) (int64, error) {
	l := t.state.lineStock[lineID]
	if l == nil {
		return 0, ErrNotFound
	}
	return l.AvailableQty(), nil
}

type fakeFiscal struct {
	err error
}

func (f fakeFiscal) CurrentFiscalPeriod(ctx context.Context, at time.Time) (org.FiscalPeriod, error) {
	if f.err != nil {
		return org.FiscalPeriod{}, f.err
	}
	return org.FiscalPeriod{ID: 1, Code: "2082", IsActive: true}, nil
}

func newTestService(repo *fakeRepo) *Service {
	logger := slog.New(slog.DiscardHandler)
	return NewService(logger, repo, fakeFiscal{}, stock.NewLedger(), nil)
}

func TestCreatePurchaseAssignsNumbersAndStock(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	created, err := svc.CreatePurchase(context.Background(), validDocument(t))
	require.NoError(t, err)
	require.Equal(t, "PU-2082-0001", created.DocCode)
	require.Equal(t, int64(1), created.SeqNo)
	require.Equal(t, "PRT-2082-00001", created.Payments[0].ReceiptNo)

	// both lines are item 1, qty 2 each
	require.Equal(t, int64(4), repo.state.product[1].PurchasedQty)
	require.Len(t, repo.state.lines, 2)
	for _, ln := range created.Lines {
		require.Equal(t, int64(2), repo.state.lineStock[ln.ID].PurchasedQty)
	}

	second, err := svc.CreatePurchase(context.Background(), validDocument(t))
	require.NoError(t, err)
	require.Equal(t, "PU-2082-0002", second.DocCode)
	require.Equal(t, int64(8), repo.state.product[1].PurchasedQty)
}

func TestCreatePurchaseRejectsInvalidWithoutWrites(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	doc := validDocument(t)
	doc.Lines[0].GrossAmount = dec(t, "1.00")

	_, err := svc.CreatePurchase(context.Background(), doc)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Empty(t, repo.state.docs)
	require.Empty(t, repo.state.lines)
}

func TestCreatePurchaseRollsBackOnMidWriteFailure(t *testing.T) {
	repo := newFakeRepo()
	repo.failLine = true
	svc := newTestService(repo)

	_, err := svc.CreatePurchase(context.Background(), validDocument(t))
	require.Error(t, err)
	require.Empty(t, repo.state.docs)
	require.Empty(t, repo.state.lines)
	require.Empty(t, repo.state.product)
}

func TestCreatePurchaseRollsBackOnLedgerFailure(t *testing.T) {
	repo := newFakeRepo()
	repo.failCounter = true
	svc := newTestService(repo)

	_, err := svc.CreatePurchase(context.Background(), validDocument(t))
	require.ErrorIs(t, err, stock.ErrLedgerUpdate)
	require.Empty(t, repo.state.docs)
	require.Empty(t, repo.state.lines)
}

func TestCreatePurchaseWithoutFiscalPeriod(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	svc.fiscal = fakeFiscal{err: org.ErrNoFiscalPeriod}

	_, err := svc.CreatePurchase(context.Background(), validDocument(t))
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Contains(t, verr.FieldErrors(), "fiscalPeriod")
	require.Empty(t, repo.state.docs)
}

// returnDocument returns qty 1 of the referenced line at the same cost and
// rates: gross 100.00, discount 10.00, tax 11.70 on 90.00, net 101.70.
func returnDocument(t *testing.T, refDocID, refLineID int64) Document {
	t.Helper()
	return Document{
		PayType:       PayTypeCash,
		RefDocID:      &refDocID,
		DiscountRate:  decimal.Zero,
		TotalDiscount: decimal.Zero,
		TaxRate:       decimal.Zero,
		TotalTax:      decimal.Zero,
		SubTotal:      dec(t, "100.00"),
		GrandTotal:    dec(t, "101.70"),
		Lines: []Line{{
			RefLineID:      &refLineID,
			Quantity:       1,
			PurchaseCost:   dec(t, "100.00"),
			MinSaleCost:    dec(t, "110.00"),
			Discountable:   true,
			DiscountRate:   dec(t, "10"),
			DiscountAmount: dec(t, "10.00"),
			Taxable:        true,
			TaxRate:        dec(t, "13"),
			TaxAmount:      dec(t, "11.70"),
			GrossAmount:    dec(t, "100.00"),
			NetAmount:      dec(t, "101.70"),
		}},
		Payments: []Payment{{PaymentMethodID: 1, Amount: dec(t, "101.70")}},
	}
}

func TestCreateReturnUpdatesCountersAndInheritsSupplier(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	original, err := svc.CreatePurchase(context.Background(), validDocument(t))
	require.NoError(t, err)
	refLine := original.Lines[0]

	ret, err := svc.CreateReturn(context.Background(), returnDocument(t, original.ID, refLine.ID))
	require.NoError(t, err)
	require.Equal(t, DocTypeReturn, ret.DocType)
	require.Equal(t, "PR-2082-0001", ret.DocCode)
	require.Equal(t, "PRR-2082-00001", ret.Payments[0].ReceiptNo)
	require.Equal(t, original.SupplierID, ret.SupplierID)
	require.Equal(t, refLine.ItemID, ret.Lines[0].ItemID)

	require.Equal(t, int64(1), repo.state.product[refLine.ItemID].ReturnedQty)
	require.Equal(t, int64(1), repo.state.lineStock[refLine.ID].ReturnedQty)
	require.Equal(t, int64(1), repo.state.lineStock[refLine.ID].AvailableQty())
}

func TestCreateReturnGuardsOverReturn(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	original, err := svc.CreatePurchase(context.Background(), validDocument(t))
	require.NoError(t, err)
	refLine := original.Lines[0]

	// the line was purchased with qty 2; returning 3 must fail
	doc := returnDocument(t, original.ID, refLine.ID)
	doc.Lines[0].Quantity = 3
	doc.Lines[0].GrossAmount = dec(t, "300.00")
	doc.Lines[0].DiscountAmount = dec(t, "30.00")
	doc.Lines[0].TaxAmount = dec(t, "35.10")
	doc.Lines[0].NetAmount = dec(t, "305.10")
	doc.SubTotal = dec(t, "300.00")
	doc.GrandTotal = dec(t, "305.10")
	doc.Payments[0].Amount = dec(t, "305.10")

	_, err = svc.CreateReturn(context.Background(), doc)
	require.ErrorIs(t, err, stock.ErrOverReturn)

	// nothing committed: counters untouched, only the original document kept
	require.Equal(t, int64(0), repo.state.product[refLine.ItemID].ReturnedQty)
	require.Len(t, repo.state.docs, 1)
}

func TestCreateReturnRequiresReferences(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	doc := returnDocument(t, 1, 1)
	doc.RefDocID = nil
	doc.Lines[0].RefLineID = nil

	_, err := svc.CreateReturn(context.Background(), doc)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Contains(t, verr.FieldErrors(), "refDocId")
	require.Contains(t, verr.FieldErrors(), "lines[0].refLineId")
}

func TestCreateReturnRejectsForeignLine(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	first, err := svc.CreatePurchase(context.Background(), validDocument(t))
	require.NoError(t, err)
	second, err := svc.CreatePurchase(context.Background(), validDocument(t))
	require.NoError(t, err)

	// reference doc one but a line belonging to doc two
	doc := returnDocument(t, first.ID, second.Lines[0].ID)
	_, err = svc.CreateReturn(context.Background(), doc)
	require.ErrorIs(t, err, ErrLineMismatch)
}

func TestCreateReturnRejectsReturnAsOriginal(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	original, err := svc.CreatePurchase(context.Background(), validDocument(t))
	require.NoError(t, err)
	ret, err := svc.CreateReturn(context.Background(), returnDocument(t, original.ID, original.Lines[0].ID))
	require.NoError(t, err)

	_, err = svc.CreateReturn(context.Background(), returnDocument(t, ret.ID, original.Lines[0].ID))
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Contains(t, verr.FieldErrors(), "refDocId")
}
