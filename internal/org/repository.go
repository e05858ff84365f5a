package org

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists organization configuration in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GetOrganization returns the organization profile row.
func (r *Repository) GetOrganization(ctx context.Context) (Organization, error) {
	var o Organization
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, display_name, tagline, website_url, address, email, created_at, updated_at
		 FROM organizations ORDER BY id LIMIT 1`).
		Scan(&o.ID, &o.Name, &o.DisplayName, &o.Tagline, &o.WebsiteURL, &o.Address, &o.Email, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Organization{}, ErrNotFound
	}
	return o, err
}

// UpsertOrganization creates or replaces the organization profile.
func (r *Repository) UpsertOrganization(ctx context.Context, o Organization) (Organization, error) {
	now := time.Now()
	err := r.pool.QueryRow(ctx,
		`INSERT INTO organizations (id, name, display_name, tagline, website_url, address, email, created_at, updated_at)
		 VALUES (1, $1, $2, $3, $4, $5, $6, $7, $7)
		 ON CONFLICT (id) DO UPDATE SET
		   name = EXCLUDED.name, display_name = EXCLUDED.display_name, tagline = EXCLUDED.tagline,
		   website_url = EXCLUDED.website_url, address = EXCLUDED.address, email = EXCLUDED.email,
		   updated_at = EXCLUDED.updated_at
		 RETURNING id, created_at, updated_at`,
		o.Name, o.DisplayName, o.Tagline, o.WebsiteURL, o.Address, o.Email, now).
		Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	return o, err
}

// ListSocialLinks returns the organization's social links.
func (r *Repository) ListSocialLinks(ctx context.Context, organizationID int64) ([]SocialLink, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, organization_id, platform, link FROM organization_social_links WHERE organization_id = $1 ORDER BY id`,
		organizationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []SocialLink
	for rows.Next() {
		var l SocialLink
		if err := rows.Scan(&l.ID, &l.OrganizationID, &l.Platform, &l.Link); err != nil {
			return nil, err
		}
		links = append(links, l)
	}
	return links, rows.Err()
}

// CreateSocialLink inserts a social link.
func (r *Repository) CreateSocialLink(ctx context.Context, l SocialLink) (SocialLink, error) {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO organization_social_links (organization_id, platform, link) VALUES ($1, $2, $3) RETURNING id`,
		l.OrganizationID, l.Platform, l.Link).Scan(&l.ID)
	return l, err
}

// DeleteSocialLink removes a social link.
func (r *Repository) DeleteSocialLink(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM organization_social_links WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CurrentFiscalPeriod returns the fiscal period covering the given instant.
func (r *Repository) CurrentFiscalPeriod(ctx context.Context, at time.Time) (FiscalPeriod, error) {
	var p FiscalPeriod
	err := r.pool.QueryRow(ctx,
		`SELECT id, code, start_date, end_date, is_active FROM fiscal_periods
		 WHERE start_date <= $1 AND end_date > $1 AND is_active ORDER BY start_date DESC LIMIT 1`, at).
		Scan(&p.ID, &p.Code, &p.StartDate, &p.EndDate, &p.IsActive)
	if errors.Is(err, pgx.ErrNoRows) {
		return FiscalPeriod{}, ErrNoFiscalPeriod
	}
	return p, err
}

// ListFiscalPeriods returns all fiscal periods, newest first.
func (r *Repository) ListFiscalPeriods(ctx context.Context) ([]FiscalPeriod, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, code, start_date, end_date, is_active FROM fiscal_periods ORDER BY start_date DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var periods []FiscalPeriod
	for rows.Next() {
		var p FiscalPeriod
		if err := rows.Scan(&p.ID, &p.Code, &p.StartDate, &p.EndDate, &p.IsActive); err != nil {
			return nil, err
		}
		periods = append(periods, p)
	}
	return periods, rows.Err()
}

// CreateFiscalPeriod inserts a fiscal period.
func (r *Repository) CreateFiscalPeriod(ctx context.Context, p FiscalPeriod) (FiscalPeriod, error) {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO fiscal_periods (code, start_date, end_date, is_active) VALUES ($1, $2, $3, $4) RETURNING id`,
		p.Code, p.StartDate, p.EndDate, p.IsActive).Scan(&p.ID)
	return p, err
}

// ListPaymentMethods returns payment methods, optionally only active ones.
func (r *Repository) ListPaymentMethods(ctx context.Context, activeOnly bool) ([]PaymentMethod, error) {
	query := `SELECT id, name, is_active FROM payment_methods`
	if activeOnly {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY name`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var methods []PaymentMethod
	for rows.Next() {
		var m PaymentMethod
		if err := rows.Scan(&m.ID, &m.Name, &m.IsActive); err != nil {
			return nil, err
		}
		methods = append(methods, m)
	}
	return methods, rows.Err()
}

// CreatePaymentMethod inserts a payment method.
func (r *Repository) CreatePaymentMethod(ctx context.Context, m PaymentMethod) (PaymentMethod, error) {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO payment_methods (name, is_active) VALUES ($1, $2) RETURNING id`,
		m.Name, m.IsActive).Scan(&m.ID)
	return m, err
}

// ListChargeTypes returns additional charge types.
func (r *Repository) ListChargeTypes(ctx context.Context, activeOnly bool) ([]ChargeType, error) {
	query := `SELECT id, name, is_active FROM additional_charge_types`
	if activeOnly {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY name`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var types []ChargeType
	for rows.Next() {
		var t ChargeType
		if err := rows.Scan(&t.ID, &t.Name, &t.IsActive); err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, rows.Err()
}

// CreateChargeType inserts an additional charge type.
func (r *Repository) CreateChargeType(ctx context.Context, t ChargeType) (ChargeType, error) {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO additional_charge_types (name, is_active) VALUES ($1, $2) RETURNING id`,
		t.Name, t.IsActive).Scan(&t.ID)
	return t, err
}
