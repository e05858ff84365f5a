package customers

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/saral-hq/saral/internal/shared"
)

// Repository persists customers with raw SQL over pgx.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const selectCustomer = `
	SELECT id, name, email, phone, address, credit_limit, is_active, created_at, updated_at
	FROM customers`

func scanCustomer(row pgx.Row) (Customer, error) {
	var c Customer
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.CreditLimit, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Customer{}, ErrNotFound
	}
	return c, err
}

// Get loads one customer.
func (r *Repository) Get(ctx context.Context, id int64) (Customer, error) {
	return scanCustomer(r.pool.QueryRow(ctx, selectCustomer+` WHERE id = $1`, id))
}

// List returns customers matching the filters, newest first.
func (r *Repository) List(ctx context.Context, f shared.ListFilters) ([]Customer, int, error) {
	where := ` WHERE 1=1`
	args := []any{}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		where += fmt.Sprintf(` AND (name ILIKE $%d OR email ILIKE $%d OR phone ILIKE $%d)`, len(args), len(args), len(args))
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM customers`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 20
	}
	args = append(args, limit, f.Offset())
	rows, err := r.pool.Query(ctx,
		selectCustomer+where+fmt.Sprintf(` ORDER BY id DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args)),
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, c)
	}
	return out, total, rows.Err()
}

// Create inserts a customer.
func (r *Repository) Create(ctx context.Context, c Customer) (Customer, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO customers (name, email, phone, address, credit_limit, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`,
		c.Name, c.Email, c.Phone, c.Address, c.CreditLimit, c.IsActive).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if isUniqueViolation(err) {
		return Customer{}, ErrDuplicate
	}
	return c, err
}

// Update applies the non-nil fields of upd.
func (r *Repository) Update(ctx context.Context, id int64, upd UpdateCustomer) (Customer, error) {
	c, err := scanCustomer(r.pool.QueryRow(ctx, `
		UPDATE customers SET
			name = COALESCE($2, name),
			email = COALESCE($3, email),
			phone = COALESCE($4, phone),
			address = COALESCE($5, address),
			credit_limit = COALESCE($6, credit_limit),
			is_active = COALESCE($7, is_active),
			updated_at = NOW()
		WHERE id = $1
		RETURNING id, name, email, phone, address, credit_limit, is_active, created_at, updated_at`,
		id, upd.Name, upd.Email, upd.Phone, upd.Address, upd.CreditLimit, upd.IsActive))
	if isUniqueViolation(err) {
		return Customer{}, ErrDuplicate
	}
	return c, err
}

// Delete removes a customer.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
