package stock

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository provides read access to stock counters.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GetProductStock returns the counter for one item.
func (r *Repository) GetProductStock(ctx context.Context, itemID int64) (ProductStock, error) {
	var p ProductStock
	err := r.pool.QueryRow(ctx,
		`SELECT item_id, purchased_qty, returned_qty, updated_at FROM product_stock WHERE item_id = $1`, itemID).
		Scan(&p.ItemID, &p.PurchasedQty, &p.ReturnedQty, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ProductStock{}, ErrNotFound
	}
	return p, err
}

// ListProductStock returns counters ordered by item, paginated.
func (r *Repository) ListProductStock(ctx context.Context, limit, offset int) ([]ProductStock, int, error) {
	if limit <= 0 {
		limit = 50
	}
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM product_stock`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx,
		`SELECT item_id, purchased_qty, returned_qty, updated_at FROM product_stock ORDER BY item_id LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var counters []ProductStock
	for rows.Next() {
		var p ProductStock
		if err := rows.Scan(&p.ItemID, &p.PurchasedQty, &p.ReturnedQty, &p.UpdatedAt); err != nil {
			return nil, 0, err
		}
		counters = append(counters, p)
	}
	return counters, total, rows.Err()
}

// GetLineStock returns the counter for one purchase line.
func (r *Repository) GetLineStock(ctx context.Context, lineID int64) (LineStock, error) {
	var l LineStock
	err := r.pool.QueryRow(ctx,
		`SELECT purchase_line_id, purchased_qty, returned_qty, updated_at FROM purchase_line_stock WHERE purchase_line_id = $1`, lineID).
		Scan(&l.PurchaseLineID, &l.PurchasedQty, &l.ReturnedQty, &l.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return LineStock{}, ErrNotFound
	}
	return l, err
}
