// internal/service/product_service.go
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/jpcardenas/heladeria-pos/internal/domain"
	"github.com/jpcardenas/heladeria-pos/internal/repository"
)

// ProductService manages the sellable catalog and its categories.
type ProductService struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
}

func NewProductService(products repository.ProductRepository, categories repository.CategoryRepository) *ProductService {
	return &ProductService{products: products, categories: categories}
}

func validateProduct(p *domain.Product) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return fmt.Errorf("product name is required: %w", domain.ErrInvalidInput)
	}
	if p.Price < 0 {
		return fmt.Errorf("product price cannot be negative: %w", domain.ErrInvalidInput)
	}
	if p.StockQuantity < domain.OnDemandStock {
		return fmt.Errorf("stock quantity must be a count or the on-demand sentinel: %w", domain.ErrInvalidInput)
	}
	return nil
}

func (s *ProductService) Create(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	if err := validateProduct(p); err != nil {
		return nil, err
	}

	id, err := s.products.Create(ctx, p)
	if err != nil {
		return nil, err
	}

	log.Info().Int64("id", id).Str("name", p.Name).Msg("product created")
	return s.products.GetByID(ctx, id)
}

func (s *ProductService) Get(ctx context.Context, id int64) (*domain.Product, error) {
	return s.products.GetByID(ctx, id)
}

func (s *ProductService) List(ctx context.Context, search string, activeOnly bool) ([]domain.Product, error) {
	return s.products.List(ctx, strings.TrimSpace(search), activeOnly)
}

func (s *ProductService) Update(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	if err := validateProduct(p); err != nil {
		return nil, err
	}
	if err := s.products.Update(ctx, p); err != nil {
		return nil, err
	}
	return s.products.GetByID(ctx, p.ID)
}

// Deactivate soft-deletes the product. Its invoices keep their line
// items, so history survives.
func (s *ProductService) Deactivate(ctx context.Context, id int64) error {
	return s.products.Deactivate(ctx, id)
}

func (s *ProductService) CreateCategory(ctx context.Context, name string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, fmt.Errorf("category name is required: %w", domain.ErrInvalidInput)
	}
	return s.categories.Create(ctx, name)
}

func (s *ProductService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.categories.List(ctx)
}

func (s *ProductService) DeleteCategory(ctx context.Context, id int64) error {
	return s.categories.Delete(ctx, id)
}
