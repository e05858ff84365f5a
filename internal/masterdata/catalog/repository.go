package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/saral-hq/saral/internal/shared"
)

// Repository persists categories and products with raw SQL over pgx.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// ListCategories returns all categories ordered by name.
func (r *Repository) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, description, created_at FROM product_categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// CreateCategory inserts a category.
func (r *Repository) CreateCategory(ctx context.Context, c Category) (Category, error) {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO product_categories (name, description) VALUES ($1, $2) RETURNING id, created_at`,
		c.Name, c.Description).Scan(&c.ID, &c.CreatedAt)
	if isUniqueViolation(err) {
		return Category{}, ErrDuplicate
	}
	return c, err
}

// DeleteCategory removes a category.
func (r *Repository) DeleteCategory(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM product_categories WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

const selectProduct = `
	SELECT id, sku, name, category_id, unit, marked_price, is_active, created_at, updated_at
	FROM products`

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.SKU, &p.Name, &p.CategoryID, &p.Unit, &p.MarkedPrice, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, ErrNotFound
	}
	return p, err
}

// GetProduct loads one product.
func (r *Repository) GetProduct(ctx context.Context, id int64) (Product, error) {
	return scanProduct(r.pool.QueryRow(ctx, selectProduct+` WHERE id = $1`, id))
}

// ListProducts returns products matching the filters, newest first.
func (r *Repository) ListProducts(ctx context.Context, f shared.ListFilters, categoryID int64) ([]Product, int, error) {
	where := ` WHERE 1=1`
	args := []any{}
	if categoryID != 0 {
		args = append(args, categoryID)
		where += fmt.Sprintf(` AND category_id = $%d`, len(args))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		where += fmt.Sprintf(` AND (name ILIKE $%d OR sku ILIKE $%d)`, len(args), len(args))
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 20
	}
	args = append(args, limit, f.Offset())
	rows, err := r.pool.Query(ctx,
		selectProduct+where+fmt.Sprintf(` ORDER BY id DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args)),
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}

// CreateProduct inserts a product.
func (r *Repository) CreateProduct(ctx context.Context, p Product) (Product, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO products (sku, name, category_id, unit, marked_price, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`,
		p.SKU, p.Name, p.CategoryID, p.Unit, p.MarkedPrice, p.IsActive).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if isUniqueViolation(err) {
		return Product{}, ErrDuplicate
	}
	return p, err
}

// UpdateProduct applies the non-nil fields of upd.
func (r *Repository) UpdateProduct(ctx context.Context, id int64, upd UpdateProduct) (Product, error) {
	p, err := scanProduct(r.pool.QueryRow(ctx, `
		UPDATE products SET
			sku = COALESCE($2, sku),
			name = COALESCE($3, name),
			category_id = COALESCE($4, category_id),
			unit = COALESCE($5, unit),
			marked_price = COALESCE($6, marked_price),
			is_active = COALESCE($7, is_active),
			updated_at = NOW()
		WHERE id = $1
		RETURNING id, sku, name, category_id, unit, marked_price, is_active, created_at, updated_at`,
		id, upd.SKU, upd.Name, upd.CategoryID, upd.Unit, upd.MarkedPrice, upd.IsActive))
	if isUniqueViolation(err) {
		return Product{}, ErrDuplicate
	}
	return p, err
}

// DeleteProduct removes a product.
func (r *Repository) DeleteProduct(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
