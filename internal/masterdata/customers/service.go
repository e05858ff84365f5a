package customers

import (
	"context"
	"fmt"
	"strings"

	"github.com/saral-hq/saral/internal/shared"
)

// RepositoryPort describes repository operations used by Service.
type RepositoryPort interface {
	Get(ctx context.Context, id int64) (Customer, error)
	List(ctx context.Context, f shared.ListFilters) ([]Customer, int, error)
	Create(ctx context.Context, c Customer) (Customer, error)
	Update(ctx context.Context, id int64, upd UpdateCustomer) (Customer, error)
	Delete(ctx context.Context, id int64) error
}

// Service exposes customer operations.
type Service struct {
	repo RepositoryPort
}

// NewService constructs the Service.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

func (s *Service) Get(ctx context.Context, id int64) (Customer, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, f shared.ListFilters) ([]Customer, int, error) {
	return s.repo.List(ctx, f)
}

// Create validates and inserts a customer.
func (s *Service) Create(ctx context.Context, c Customer) (Customer, error) {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return Customer{}, fmt.Errorf("%w: name required", ErrInvalid)
	}
	if c.CreditLimit.IsNegative() {
		return Customer{}, fmt.Errorf("%w: credit limit must not be negative", ErrInvalid)
	}
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	c.IsActive = true
	return s.repo.Create(ctx, c)
}

// Update applies a partial update.
func (s *Service) Update(ctx context.Context, id int64, upd UpdateCustomer) (Customer, error) {
	if upd.Name != nil && strings.TrimSpace(*upd.Name) == "" {
		return Customer{}, fmt.Errorf("%w: name required", ErrInvalid)
	}
	if upd.CreditLimit != nil && upd.CreditLimit.IsNegative() {
		return Customer{}, fmt.Errorf("%w: credit limit must not be negative", ErrInvalid)
	}
	if upd.Email != nil {
		lowered := strings.ToLower(strings.TrimSpace(*upd.Email))
		upd.Email = &lowered
	}
	return s.repo.Update(ctx, id, upd)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
