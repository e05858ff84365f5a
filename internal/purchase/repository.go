package purchase

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/saral-hq/saral/internal/platform/db"
)

// TxRepository is the write surface available inside a document transaction.
// It carries the stock counter mutations so line persistence and ledger
// updates share one unit of work.
type TxRepository interface {
	NextSequence(ctx context.Context, kind string, fiscalPeriodID int64) (int64, error)
	InsertDocument(ctx context.Context, doc *Document) error
	InsertLine(ctx context.Context, ln *Line) error
	InsertPayment(ctx context.Context, p *Payment) error
	InsertCharge(ctx context.Context, c *Charge) error
	GetLine(ctx context.Context, id int64) (Line, error)

	IncrementProductPurchased(ctx context.Context, itemID, qty int64) error
	IncrementProductReturned(ctx context.Context, itemID, qty int64) error
	IncrementLinePurchased(ctx context.Context, lineID, qty int64) error
	IncrementLineReturned(ctx context.Context, lineID, qty int64) error
	LineAvailableQty(ctx context.Context, lineID int64) (int64, error)
}

// Repository persists purchase documents with raw SQL over pgx.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// WithTx runs fn inside a single transaction, exposing the write surface.
func (r *Repository) WithTx(ctx context.Context, fn func(ctx context.Context, tx TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &txRepo{tx: tx})
	})
}

type txRepo struct {
	tx pgx.Tx
}

// NextSequence atomically advances the per-kind, per-fiscal-period counter
// and returns the new value. The upsert is a single statement, so concurrent
// creations can never observe the same number.
func (t *txRepo) NextSequence(ctx context.Context, kind string, fiscalPeriodID int64) (int64, error) {
	var seq int64
	err := t.tx.QueryRow(ctx, `
		INSERT INTO document_sequences (kind, fiscal_period_id, last_no)
		VALUES ($1, $2, 1)
		ON CONFLICT (kind, fiscal_period_id)
		DO UPDATE SET last_no = document_sequences.last_no + 1
		RETURNING last_no`,
		kind, fiscalPeriodID).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("purchase: next sequence %s: %w", kind, err)
	}
	return seq, nil
}

func (t *txRepo) InsertDocument(ctx context.Context, doc *Document) error {
	return t.tx.QueryRow(ctx, `
		INSERT INTO purchase_documents (
			doc_type, seq_no, doc_code, fiscal_period_id, supplier_id,
			bill_no, bill_date, ref_doc_id, pay_type,
			discount_rate, total_discount_amount, tax_rate, total_tax_amount,
			sub_total, grand_total, note, created_by
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
		RETURNING id, created_at`,
		doc.DocType, doc.SeqNo, doc.DocCode, doc.FiscalPeriodID, doc.SupplierID,
		doc.BillNo, doc.BillDate, doc.RefDocID, doc.PayType,
		doc.DiscountRate, doc.TotalDiscount, doc.TaxRate, doc.TotalTax,
		doc.SubTotal, doc.GrandTotal, doc.Note, doc.CreatedBy,
	).Scan(&doc.ID, &doc.CreatedAt)
}

func (t *txRepo) InsertLine(ctx context.Context, ln *Line) error {
	return t.tx.QueryRow(ctx, `
		INSERT INTO purchase_lines (
			document_id, item_id, ref_line_id, quantity, purchase_cost, min_sale_cost,
			discountable, discount_rate, discount_amount,
			taxable, tax_rate, tax_amount, gross_amount, net_amount
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
		RETURNING id`,
		ln.DocumentID, ln.ItemID, ln.RefLineID, ln.Quantity, ln.PurchaseCost, ln.MinSaleCost,
		ln.Discountable, ln.DiscountRate, ln.DiscountAmount,
		ln.Taxable, ln.TaxRate, ln.TaxAmount, ln.GrossAmount, ln.NetAmount,
	).Scan(&ln.ID)
}

func (t *txRepo) InsertPayment(ctx context.Context, p *Payment) error {
	return t.tx.QueryRow(ctx, `
		INSERT INTO purchase_payments (document_id, payment_method_id, amount, receipt_no)
		VALUES ($1,$2,$3,$4)
		RETURNING id`,
		p.DocumentID, p.PaymentMethodID, p.Amount, p.ReceiptNo,
	).Scan(&p.ID)
}

func (t *txRepo) InsertCharge(ctx context.Context, c *Charge) error {
	return t.tx.QueryRow(ctx, `
		INSERT INTO purchase_charges (document_id, charge_type_id, amount)
		VALUES ($1,$2,$3)
		RETURNING id`,
		c.DocumentID, c.ChargeTypeID, c.Amount,
	).Scan(&c.ID)
}

func (t *txRepo) GetLine(ctx context.Context, id int64) (Line, error) {
	ln, err := scanLine(t.tx.QueryRow(ctx, selectLine+` WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Line{}, ErrNotFound
	}
	return ln, err
}

// Counter mutations. Every increment is a single upsert statement so two
// concurrent transactions serialize on the row instead of losing an update.

func (t *txRepo) IncrementProductPurchased(ctx context.Context, itemID, qty int64) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO product_stock (item_id, purchased_qty, returned_qty, updated_at)
		VALUES ($1, $2, 0, NOW())
		ON CONFLICT (item_id)
		DO UPDATE SET purchased_qty = product_stock.purchased_qty + EXCLUDED.purchased_qty, updated_at = NOW()`,
		itemID, qty)
	return err
}

func (t *txRepo) IncrementProductReturned(ctx context.Context, itemID, qty int64) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO product_stock (item_id, purchased_qty, returned_qty, updated_at)
		VALUES ($1, 0, $2, NOW())
		ON CONFLICT (item_id)
		DO UPDATE SET returned_qty = product_stock.returned_qty + EXCLUDED.returned_qty, updated_at = NOW()`,
		itemID, qty)
	return err
}

func (t *txRepo) IncrementLinePurchased(ctx context.Context, lineID, qty int64) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO purchase_line_stock (purchase_line_id, purchased_qty, returned_qty, updated_at)
		VALUES ($1, $2, 0, NOW())
		ON CONFLICT (purchase_line_id)
		DO UPDATE SET purchased_qty = purchase_line_stock.purchased_qty + EXCLUDED.purchased_qty, updated_at = NOW()`,
		lineID, qty)
	return err
}

func (t *txRepo) IncrementLineReturned(ctx context.Context, lineID, qty int64) error {
	tag, err := t.tx.Exec(ctx, `
		UPDATE purchase_line_stock
		SET returned_qty = returned_qty + $2, updated_at = NOW()
		WHERE purchase_line_id = $1`,
		lineID, qty)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("purchase: no stock counter for line %d", lineID)
	}
	return nil
}

// LineAvailableQty reads the referenced line's remaining quantity with a row
// lock, so concurrent returns against the same line serialize.
func (t *txRepo) LineAvailableQty(ctx context.Context, lineID int64) (int64, error) {
	var available int64
	err := t.tx.QueryRow(ctx, `
		SELECT purchased_qty - returned_qty
		FROM purchase_line_stock
		WHERE purchase_line_id = $1
		FOR UPDATE`,
		lineID).Scan(&available)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrNotFound
	}
	return available, err
}

const selectLine = `
	SELECT id, document_id, item_id, ref_line_id, quantity, purchase_cost, min_sale_cost,
	       discountable, discount_rate, discount_amount,
	       taxable, tax_rate, tax_amount, gross_amount, net_amount
	FROM purchase_lines`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLine(row rowScanner) (Line, error) {
	var ln Line
	err := row.Scan(
		&ln.ID, &ln.DocumentID, &ln.ItemID, &ln.RefLineID, &ln.Quantity, &ln.PurchaseCost, &ln.MinSaleCost,
		&ln.Discountable, &ln.DiscountRate, &ln.DiscountAmount,
		&ln.Taxable, &ln.TaxRate, &ln.TaxAmount, &ln.GrossAmount, &ln.NetAmount,
	)
	return ln, err
}

// GetDocument loads a document with its lines, payments and charges.
func (r *Repository) GetDocument(ctx context.Context, id int64) (Document, error) {
	var doc Document
	err := r.pool.QueryRow(ctx, `
		SELECT id, doc_type, seq_no, doc_code, fiscal_period_id, supplier_id,
		       bill_no, bill_date, ref_doc_id, pay_type,
		       discount_rate, total_discount_amount, tax_rate, total_tax_amount,
		       sub_total, grand_total, note, created_by, created_at
		FROM purchase_documents WHERE id = $1`, id).
		Scan(&doc.ID, &doc.DocType, &doc.SeqNo, &doc.DocCode, &doc.FiscalPeriodID, &doc.SupplierID,
			&doc.BillNo, &doc.BillDate, &doc.RefDocID, &doc.PayType,
			&doc.DiscountRate, &doc.TotalDiscount, &doc.TaxRate, &doc.TotalTax,
			&doc.SubTotal, &doc.GrandTotal, &doc.Note, &doc.CreatedBy, &doc.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, err
	}

	rows, err := r.pool.Query(ctx, selectLine+` WHERE document_id = $1 ORDER BY id`, id)
	if err != nil {
		return Document{}, err
	}
	defer rows.Close()
	for rows.Next() {
		ln, err := scanLine(rows)
		if err != nil {
			return Document{}, err
		}
		doc.Lines = append(doc.Lines, ln)
	}
	if err := rows.Err(); err != nil {
		return Document{}, err
	}

	payRows, err := r.pool.Query(ctx, `
		SELECT id, document_id, payment_method_id, amount, receipt_no
		FROM purchase_payments WHERE document_id = $1 ORDER BY id`, id)
	if err != nil {
		return Document{}, err
	}
	defer payRows.Close()
	for payRows.Next() {
		var p Payment
		if err := payRows.Scan(&p.ID, &p.DocumentID, &p.PaymentMethodID, &p.Amount, &p.ReceiptNo); err != nil {
			return Document{}, err
		}
		doc.Payments = append(doc.Payments, p)
	}
	if err := payRows.Err(); err != nil {
		return Document{}, err
	}

	chargeRows, err := r.pool.Query(ctx, `
		SELECT id, document_id, charge_type_id, amount
		FROM purchase_charges WHERE document_id = $1 ORDER BY id`, id)
	if err != nil {
		return Document{}, err
	}
	defer chargeRows.Close()
	for chargeRows.Next() {
		var c Charge
		if err := chargeRows.Scan(&c.ID, &c.DocumentID, &c.ChargeTypeID, &c.Amount); err != nil {
			return Document{}, err
		}
		doc.Charges = append(doc.Charges, c)
	}
	return doc, chargeRows.Err()
}

// ListDocuments returns document headers matching the filters, newest first.
func (r *Repository) ListDocuments(ctx context.Context, f ListFilters) ([]Document, int, error) {
	where := ` WHERE 1=1`
	args := []any{}
	if f.DocType != "" {
		args = append(args, f.DocType)
		where += fmt.Sprintf(` AND doc_type = $%d`, len(args))
	}
	if f.SupplierID != 0 {
		args = append(args, f.SupplierID)
		where += fmt.Sprintf(` AND supplier_id = $%d`, len(args))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		where += fmt.Sprintf(` AND (doc_code ILIKE $%d OR bill_no ILIKE $%d)`, len(args), len(args))
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM purchase_documents`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 20
	}
	args = append(args, limit, f.Offset())
	rows, err := r.pool.Query(ctx, `
		SELECT id, doc_type, seq_no, doc_code, fiscal_period_id, supplier_id,
		       bill_no, bill_date, ref_doc_id, pay_type,
		       discount_rate, total_discount_amount, tax_rate, total_tax_amount,
		       sub_total, grand_total, note, created_by, created_at
		FROM purchase_documents`+where+fmt.Sprintf(` ORDER BY id DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args)),
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var doc Document
		if err := rows.Scan(&doc.ID, &doc.DocType, &doc.SeqNo, &doc.DocCode, &doc.FiscalPeriodID, &doc.SupplierID,
			&doc.BillNo, &doc.BillDate, &doc.RefDocID, &doc.PayType,
			&doc.DiscountRate, &doc.TotalDiscount, &doc.TaxRate, &doc.TotalTax,
			&doc.SubTotal, &doc.GrandTotal, &doc.Note, &doc.CreatedBy, &doc.CreatedAt); err != nil {
			return nil, 0, err
		}
		docs = append(docs, doc)
	}
	return docs, total, rows.Err()
}
