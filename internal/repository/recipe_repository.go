// internal/repository/recipe_repository.go
package repository

import (
	"context"

	"github.com/jpcardenas/heladeria-pos/internal/domain"
)

// RecipeRepository maps products to their ingredient requirements.
// SetRecipe always replaces the whole recipe in one transaction;
// partial patches are never persisted.
type RecipeRepository interface {
	GetRecipe(ctx context.Context, productID int64) ([]domain.RecipeItem, error)
	GetRecipes(ctx context.Context, productIDs []int64) (map[int64][]domain.RecipeItem, error)
	SetRecipe(ctx context.Context, productID int64, entries []domain.RecipeSubmission) error
	CountByIngredient(ctx context.Context, ingredientID int64) (int, error)
}
