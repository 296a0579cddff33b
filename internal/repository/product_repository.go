// internal/repository/product_repository.go
package repository

import (
	"context"

	"github.com/jpcardenas/heladeria-pos/internal/domain"
)

// ProductRepository is the catalog contract. The three Find variants
// are the lookup primitives behind the denormalized-description
// fallback chain used when matching sale line items.
type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	List(ctx context.Context, search string, activeOnly bool) ([]domain.Product, error)
	Update(ctx context.Context, p *domain.Product) error
	Deactivate(ctx context.Context, id int64) error

	FindExact(ctx context.Context, name, variant string) (*domain.Product, error)
	FindByConcat(ctx context.Context, fullName string) (*domain.Product, error)
}

// CategoryRepository manages the product grouping table.
type CategoryRepository interface {
	Create(ctx context.Context, name string) (int64, error)
	List(ctx context.Context) ([]domain.Category, error)
	Delete(ctx context.Context, id int64) error
}
