// internal/service/recipe_service.go
package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/jpcardenas/heladeria-pos/internal/domain"
	"github.com/jpcardenas/heladeria-pos/internal/repository"
)

// RecipeService validates and stores product recipes. A submission is
// accepted or rejected as a whole: one bad entry rejects everything.
type RecipeService struct {
	recipes     repository.RecipeRepository
	ingredients repository.IngredientRepository
	products    repository.ProductRepository
}

func NewRecipeService(
	recipes repository.RecipeRepository,
	ingredients repository.IngredientRepository,
	products repository.ProductRepository,
) *RecipeService {
	return &RecipeService{recipes: recipes, ingredients: ingredients, products: products}
}

func (s *RecipeService) Get(ctx context.Context, productID int64) ([]domain.RecipeItem, error) {
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return nil, err
	}
	return s.recipes.GetRecipe(ctx, productID)
}

// Set replaces the product's recipe with the submitted entries. An
// empty submission clears the recipe, making the product on-demand.
// Duplicate ingredient entries and references to unknown ingredients
// reject the whole submission.
func (s *RecipeService) Set(ctx context.Context, productID int64, entries []domain.RecipeSubmission) ([]domain.RecipeItem, error) {
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return nil, err
	}

	seen := make(map[int64]bool, len(entries))
	ids := make([]int64, 0, len(entries))
	for _, entry := range entries {
		if entry.Quantity <= 0 {
			return nil, fmt.Errorf("ingredient %d: quantity per unit must be positive: %w", entry.IngredientID, domain.ErrInvalidInput)
		}
		if seen[entry.IngredientID] {
			return nil, fmt.Errorf("ingredient %d appears twice in the recipe: %w", entry.IngredientID, domain.ErrIntegrity)
		}
		seen[entry.IngredientID] = true
		ids = append(ids, entry.IngredientID)
	}

	if len(ids) > 0 {
		existing, err := s.ingredients.GetByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		for _, id := range ids {
			if _, ok := existing[id]; !ok {
				return nil, &domain.ReferentialError{IngredientID: id}
			}
		}
	}

	if err := s.recipes.SetRecipe(ctx, productID, entries); err != nil {
		return nil, err
	}

	log.Info().Int64("product_id", productID).Int("entries", len(entries)).Msg("recipe replaced")
	return s.recipes.GetRecipe(ctx, productID)
}
