package suppliers

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/saral-hq/saral/internal/shared"
)

// Repository persists suppliers with raw SQL over pgx.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const selectSupplier = `
	SELECT id, name, email, phone, pan, address, is_active, created_at, updated_at
	FROM suppliers`

func scanSupplier(row pgx.Row) (Supplier, error) {
	var s Supplier
	err := row.Scan(&s.ID, &s.Name, &s.Email, &s.Phone, &s.PAN, &s.Address, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Supplier{}, ErrNotFound
	}
	return s, err
}

// Get loads one supplier.
func (r *Repository) Get(ctx context.Context, id int64) (Supplier, error) {
	return scanSupplier(r.pool.QueryRow(ctx, selectSupplier+` WHERE id = $1`, id))
}

// List returns suppliers matching the filters, newest first.
func (r *Repository) List(ctx context.Context, f shared.ListFilters) ([]Supplier, int, error) {
	where := ` WHERE 1=1`
	args := []any{}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		where += fmt.Sprintf(` AND (name ILIKE $%d OR email ILIKE $%d OR pan ILIKE $%d)`, len(args), len(args), len(args))
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM suppliers`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 20
	}
	args = append(args, limit, f.Offset())
	rows, err := r.pool.Query(ctx,
		selectSupplier+where+fmt.Sprintf(` ORDER BY id DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args)),
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Supplier
	for rows.Next() {
		s, err := scanSupplier(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, s)
	}
	return out, total, rows.Err()
}

// Create inserts a supplier.
func (r *Repository) Create(ctx context.Context, s Supplier) (Supplier, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO suppliers (name, email, phone, pan, address, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`,
		s.Name, s.Email, s.Phone, s.PAN, s.Address, s.IsActive).
		Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if isUniqueViolation(err) {
		return Supplier{}, ErrDuplicate
	}
	return s, err
}

// Update applies the non-nil fields of upd.
func (r *Repository) Update(ctx context.Context, id int64, upd UpdateSupplier) (Supplier, error) {
	s, err := scanSupplier(r.pool.QueryRow(ctx, `
		UPDATE suppliers SET
			name = COALESCE($2, name),
			email = COALESCE($3, email),
			phone = COALESCE($4, phone),
			pan = COALESCE($5, pan),
			address = COALESCE($6, address),
			is_active = COALESCE($7, is_active),
			updated_at = NOW()
		WHERE id = $1
		RETURNING id, name, email, phone, pan, address, is_active, created_at, updated_at`,
		id, upd.Name, upd.Email, upd.Phone, upd.PAN, upd.Address, upd.IsActive))
	if isUniqueViolation(err) {
		return Supplier{}, ErrDuplicate
	}
	return s, err
}

// Delete removes a supplier.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM suppliers WHERE id = $1`, id)
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
