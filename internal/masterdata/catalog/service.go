package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/saral-hq/saral/internal/shared"
)

// RepositoryPort describes repository operations used by Service.
type RepositoryPort interface {
	ListCategories(ctx context.Context) ([]Category, error)
	CreateCategory(ctx context.Context, c Category) (Category, error)
	DeleteCategory(ctx context.Context, id int64) error
	GetProduct(ctx context.Context, id int64) (Product, error)
	ListProducts(ctx context.Context, f shared.ListFilters, categoryID int64) ([]Product, int, error)
	CreateProduct(ctx context.Context, p Product) (Product, error)
	UpdateProduct(ctx context.Context, id int64, upd UpdateProduct) (Product, error)
	DeleteProduct(ctx context.Context, id int64) error
}

// Service exposes catalog operations.
type Service struct {
	repo RepositoryPort
}

// NewService constructs the Service.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

func (s *Service) Categories(ctx context.Context) ([]Category, error) {
	return s.repo.ListCategories(ctx)
}

// AddCategory validates and creates a category.
func (s *Service) AddCategory(ctx context.Context, c Category) (Category, error) {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return Category{}, fmt.Errorf("%w: category name required", ErrInvalid)
	}
	return s.repo.CreateCategory(ctx, c)
}

func (s *Service) RemoveCategory(ctx context.Context, id int64) error {
	return s.repo.DeleteCategory(ctx, id)
}

func (s *Service) Product(ctx context.Context, id int64) (Product, error) {
	return s.repo.GetProduct(ctx, id)
}

func (s *Service) Products(ctx context.Context, f shared.ListFilters, categoryID int64) ([]Product, int, error) {
	return s.repo.ListProducts(ctx, f, categoryID)
}

// AddProduct validates and creates a product. SKUs are stored upper-cased.
func (s *Service) AddProduct(ctx context.Context, p Product) (Product, error) {
	p.SKU = strings.ToUpper(strings.TrimSpace(p.SKU))
	p.Name = strings.TrimSpace(p.Name)
	if p.SKU == "" {
		return Product{}, fmt.Errorf("%w: sku required", ErrInvalid)
	}
	if p.Name == "" {
		return Product{}, fmt.Errorf("%w: name required", ErrInvalid)
	}
	if p.MarkedPrice.IsNegative() {
		return Product{}, fmt.Errorf("%w: marked price must not be negative", ErrInvalid)
	}
	p.IsActive = true
	return s.repo.CreateProduct(ctx, p)
}

// EditProduct applies a partial update.
func (s *Service) EditProduct(ctx context.Context, id int64, upd UpdateProduct) (Product, error) {
	if upd.SKU != nil {
		sku := strings.ToUpper(strings.TrimSpace(*upd.SKU))
		if sku == "" {
			return Product{}, fmt.Errorf("%w: sku required", ErrInvalid)
		}
		upd.SKU = &sku
	}
	if upd.Name != nil && strings.TrimSpace(*upd.Name) == "" {
		return Product{}, fmt.Errorf("%w: name required", ErrInvalid)
	}
	if upd.MarkedPrice != nil && upd.MarkedPrice.IsNegative() {
		return Product{}, fmt.Errorf("%w: marked price must not be negative", ErrInvalid)
	}
	return s.repo.UpdateProduct(ctx, id, upd)
}

func (s *Service) RemoveProduct(ctx context.Context, id int64) error {
	return s.repo.DeleteProduct(ctx, id)
}
