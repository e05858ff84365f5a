package stores

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists stores with raw SQL over pgx.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// List returns all stores ordered by code.
func (r *Repository) List(ctx context.Context) ([]Store, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, code, name, address, phone, is_active, created_at FROM stores ORDER BY code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Store
	for rows.Next() {
		var s Store
		if err := rows.Scan(&s.ID, &s.Code, &s.Name, &s.Address, &s.Phone, &s.IsActive, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Get loads one store.
func (r *Repository) Get(ctx context.Context, id int64) (Store, error) {
	var s Store
	err := r.pool.QueryRow(ctx,
		`SELECT id, code, name, address, phone, is_active, created_at FROM stores WHERE id = $1`, id).
		Scan(&s.ID, &s.Code, &s.Name, &s.Address, &s.Phone, &s.IsActive, &s.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Store{}, ErrNotFound
	}
	return s, err
}

// Create inserts a store.
func (r *Repository) Create(ctx context.Context, s Store) (Store, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO stores (code, name, address, phone, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		s.Code, s.Name, s.Address, s.Phone, s.IsActive).Scan(&s.ID, &s.CreatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return Store{}, ErrDuplicate
	}
	return s, err
}

// Delete removes a store.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM stores WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
