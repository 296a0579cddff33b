// internal/repository/ingredient_repository.go
package repository

import (
	"context"

	"github.com/jpcardenas/heladeria-pos/internal/domain"
)

// IngredientRepository is the persistence contract for the ingredient
// ledger. Consumption and its reversal are not exposed here: they only
// happen inside a sale commit or cancellation, which SaleRepository
// runs as one transaction.
type IngredientRepository interface {
	Create(ctx context.Context, ing *domain.Ingredient) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Ingredient, error)
	GetByIDs(ctx context.Context, ids []int64) (map[int64]domain.Ingredient, error)
	List(ctx context.Context, search string, lowStockOnly bool) ([]domain.Ingredient, error)
	Update(ctx context.Context, ing *domain.Ingredient) error
	Delete(ctx context.Context, id int64) error
	Restock(ctx context.Context, id int64, addedQuantity float64) error
}
