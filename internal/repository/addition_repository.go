// internal/repository/addition_repository.go
package repository

import (
	"context"

	"github.com/jpcardenas/heladeria-pos/internal/domain"
)

// AdditionRepository is the persistence contract for the toppings
// catalog. Addition names are unique across the table.
type AdditionRepository interface {
	Create(ctx context.Context, a *domain.Addition) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Addition, error)
	List(ctx context.Context, search string, lowStockOnly bool) ([]domain.Addition, error)
	Update(ctx context.Context, a *domain.Addition) error
	Delete(ctx context.Context, id int64) error
}
