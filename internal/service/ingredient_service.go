// internal/service/ingredient_service.go
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/jpcardenas/heladeria-pos/internal/domain"
	"github.com/jpcardenas/heladeria-pos/internal/repository"
)

// IngredientService manages the ingredient ledger's catalog side.
// Consumption never goes through here; only sale commits and
// cancellations move the consumed counter.
type IngredientService struct {
	ingredients repository.IngredientRepository
	recipes     repository.RecipeRepository
}

func NewIngredientService(ingredients repository.IngredientRepository, recipes repository.RecipeRepository) *IngredientService {
	return &IngredientService{ingredients: ingredients, recipes: recipes}
}

func validateIngredient(ing *domain.Ingredient) error {
	ing.Name = strings.TrimSpace(ing.Name)
	ing.Unit = strings.TrimSpace(ing.Unit)
	switch {
	case ing.Name == "":
		return fmt.Errorf("ingredient name is required: %w", domain.ErrInvalidInput)
	case ing.Unit == "":
		return fmt.Errorf("ingredient unit is required: %w", domain.ErrInvalidInput)
	case ing.TotalQuantity < 0:
		return fmt.Errorf("total quantity cannot be negative: %w", domain.ErrInvalidInput)
	case ing.PackagePrice < 0:
		return fmt.Errorf("package price cannot be negative: %w", domain.ErrInvalidInput)
	case ing.MinThreshold < 0:
		return fmt.Errorf("minimum threshold cannot be negative: %w", domain.ErrInvalidInput)
	}
	return nil
}

func (s *IngredientService) Create(ctx context.Context, ing *domain.Ingredient) (*domain.Ingredient, error) {
	if err := validateIngredient(ing); err != nil {
		return nil, err
	}

	id, err := s.ingredients.Create(ctx, ing)
	if err != nil {
		return nil, err
	}

	log.Info().Int64("id", id).Str("name", ing.Name).Msg("ingredient created")
	return s.ingredients.GetByID(ctx, id)
}

func (s *IngredientService) Get(ctx context.Context, id int64) (*domain.Ingredient, error) {
	return s.ingredients.GetByID(ctx, id)
}

// List filters by name search and, optionally, only ingredients whose
// availability has fallen to their minimum threshold.
func (s *IngredientService) List(ctx context.Context, search string, lowStockOnly bool) ([]domain.Ingredient, error) {
	return s.ingredients.List(ctx, strings.TrimSpace(search), lowStockOnly)
}

func (s *IngredientService) Update(ctx context.Context, ing *domain.Ingredient) (*domain.Ingredient, error) {
	if err := validateIngredient(ing); err != nil {
		return nil, err
	}
	if err := s.ingredients.Update(ctx, ing); err != nil {
		return nil, err
	}
	return s.ingredients.GetByID(ctx, ing.ID)
}

// Delete removes an ingredient only when no recipe references it.
func (s *IngredientService) Delete(ctx context.Context, id int64) error {
	count, err := s.recipes.CountByIngredient(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return domain.ErrIntegrity
	}
	return s.ingredients.Delete(ctx, id)
}

// Restock registers a purchase: the added quantity raises the total,
// which raises availability without touching the consumed counter.
func (s *IngredientService) Restock(ctx context.Context, id int64, addedQuantity float64) (*domain.Ingredient, error) {
	if addedQuantity <= 0 {
		return nil, fmt.Errorf("restock quantity must be positive: %w", domain.ErrInvalidInput)
	}
	if err := s.ingredients.Restock(ctx, id, addedQuantity); err != nil {
		return nil, err
	}

	log.Info().Int64("id", id).Float64("added", addedQuantity).Msg("ingredient restocked")
	return s.ingredients.GetByID(ctx, id)
}
