package suppliers

import (
	"context"
	"fmt"
	"strings"

	"github.com/saral-hq/saral/internal/shared"
)

// RepositoryPort describes repository operations used by Service.
type RepositoryPort interface {
	Get(ctx context.Context, id int64) (Supplier, error)
	List(ctx context.Context, f shared.ListFilters) ([]Supplier, int, error)
	Create(ctx context.Context, s Supplier) (Supplier, error)
	Update(ctx context.Context, id int64, upd UpdateSupplier) (Supplier, error)
	Delete(ctx context.Context, id int64) error
}

// Service exposes supplier operations.
type Service struct {
	repo RepositoryPort
}

// NewService constructs the Service.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// Get loads one supplier.
func (s *Service) Get(ctx context.Context, id int64) (Supplier, error) {
	return s.repo.Get(ctx, id)
}

// List returns suppliers matching the filters.
func (s *Service) List(ctx context.Context, f shared.ListFilters) ([]Supplier, int, error) {
	return s.repo.List(ctx, f)
}

// Create validates and inserts a supplier.
func (s *Service) Create(ctx context.Context, sup Supplier) (Supplier, error) {
	sup.Name = strings.TrimSpace(sup.Name)
	if sup.Name == "" {
		return Supplier{}, fmt.Errorf("%w: name required", ErrInvalid)
	}
	sup.Email = strings.ToLower(strings.TrimSpace(sup.Email))
	sup.IsActive = true
	return s.repo.Create(ctx, sup)
}

// Update applies a partial update.
func (s *Service) Update(ctx context.Context, id int64, upd UpdateSupplier) (Supplier, error) {
	if upd.Email != nil {
		lowered := strings.ToLower(strings.TrimSpace(*upd.Email))
		upd.Email = &lowered
	}
	if upd.Name != nil && strings.TrimSpace(*upd.Name) == "" {
		return Supplier{}, fmt.Errorf("%w: name required", ErrInvalid)
	}
	return s.repo.Update(ctx, id, upd)
}

// Delete removes a supplier.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
