package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/saral-hq/saral/internal/shared"
)

// Repository persists users and one-time tokens with raw SQL over pgx.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const selectUser = `
	SELECT id, email, full_name, password_hash, is_active, is_superuser, email_verified, created_at, updated_at
	FROM users`

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.FullName, &u.PasswordHash, &u.IsActive, &u.IsSuperuser,
		&u.EmailVerified, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}

// Get loads one user by id.
func (r *Repository) Get(ctx context.Context, id int64) (User, error) {
	return scanUser(r.pool.QueryRow(ctx, selectUser+` WHERE id = $1`, id))
}

// GetByEmail loads one user by email.
func (r *Repository) GetByEmail(ctx context.Context, email string) (User, error) {
	return scanUser(r.pool.QueryRow(ctx, selectUser+` WHERE email = $1`, email))
}

// List returns users matching the filters, newest first.
func (r *Repository) List(ctx context.Context, f shared.ListFilters) ([]User, int, error) {
	where := ` WHERE 1=1`
	args := []any{}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		where += fmt.Sprintf(` AND (email ILIKE $%d OR full_name ILIKE $%d)`, len(args), len(args))
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 20
	}
	args = append(args, limit, f.Offset())
	rows, err := r.pool.Query(ctx,
		selectUser+where+fmt.Sprintf(` ORDER BY id DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args)),
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, u)
	}
	return out, total, rows.Err()
}

// Create inserts a user.
func (r *Repository) Create(ctx context.Context, u User) (User, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO users (email, full_name, password_hash, is_active, is_superuser, email_verified)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`,
		u.Email, u.FullName, u.PasswordHash, u.IsActive, u.IsSuperuser, u.EmailVerified).
		Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return User{}, ErrDuplicate
	}
	return u, err
}

// Update applies the non-nil fields of upd.
func (r *Repository) Update(ctx context.Context, id int64, upd UpdateUser) (User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		UPDATE users SET
			full_name = COALESCE($2, full_name),
			is_active = COALESCE($3, is_active),
			updated_at = NOW()
		WHERE id = $1
		RETURNING id, email, full_name, password_hash, is_active, is_superuser, email_verified, created_at, updated_at`,
		id, upd.FullName, upd.IsActive))
}

// SetPassword stores a new password hash.
func (r *Repository) SetPassword(ctx context.Context, id int64, hash string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`, id, hash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkEmailVerified flags the user's email as verified.
func (r *Repository) MarkEmailVerified(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET email_verified = TRUE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SaveToken stores a one-time token.
func (r *Repository) SaveToken(ctx context.Context, userID int64, purpose, token string, expiresAt time.Time) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO user_tokens (user_id, purpose, token, expires_at)
		VALUES ($1, $2, $3, $4)`,
		userID, purpose, token, expiresAt)
	return err
}

// ConsumeToken deletes an unexpired token and returns its user id.
func (r *Repository) ConsumeToken(ctx context.Context, purpose, token string) (int64, error) {
	var userID int64
	err := r.pool.QueryRow(ctx, `
		DELETE FROM user_tokens
		WHERE purpose = $1 AND token = $2 AND expires_at > NOW()
		RETURNING user_id`,
		purpose, token).Scan(&userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrTokenExpired
	}
	return userID, err
}
