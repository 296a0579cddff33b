// internal/service/stock_service.go
package service

import (
	"context"
	"fmt"
	"math"

	"github.com/rs/zerolog/log"

	"github.com/jpcardenas/heladeria-pos/internal/domain"
	"github.com/jpcardenas/heladeria-pos/internal/repository"
)

// DefaultLowStockThreshold buckets a product as "low" when its
// producible units fall to this value or below.
const DefaultLowStockThreshold = 5

// StockService derives product availability from the ingredient ledger
// and the recipe table. It is strictly read-only: it never mutates
// ledger state.
type StockService struct {
	ingredients repository.IngredientRepository
	recipes     repository.RecipeRepository
	products    repository.ProductRepository
}

func NewStockService(
	ingredients repository.IngredientRepository,
	recipes repository.RecipeRepository,
	products repository.ProductRepository,
) *StockService {
	return &StockService{ingredients: ingredients, recipes: recipes, products: products}
}

// computeUnits is the min-ratio derivation: for each recipe entry,
// floor(available / quantity-per-unit); the product's producible units
// is the minimum across entries, and the limiting set is every entry
// achieving that minimum, in ascending ingredient id order. An empty
// recipe means the product is produced on demand, which is a distinct
// signal, not zero.
func computeUnits(recipe []domain.RecipeItem, available map[int64]domain.Ingredient) (units int, limiting []int64, onDemand bool, err error) {
	if len(recipe) == 0 {
		return 0, nil, true, nil
	}

	units = math.MaxInt
	perEntry := make(map[int64]int, len(recipe))
	for _, entry := range recipe {
		ing, ok := available[entry.IngredientID]
		if !ok {
			return 0, nil, false, fmt.Errorf("recipe references ingredient %d: %w", entry.IngredientID, domain.ErrNotFound)
		}
		if entry.Quantity <= 0 {
			return 0, nil, false, fmt.Errorf("recipe entry for ingredient %d has non-positive quantity", entry.IngredientID)
		}

		possible := int(math.Floor(ing.Available() / entry.Quantity))
		if possible < 0 {
			possible = 0
		}
		perEntry[entry.IngredientID] = possible
		if possible < units {
			units = possible
		}
	}

	// Recipe rows come ordered by ingredient id, so the tie set stays
	// deterministic.
	for _, entry := range recipe {
		if perEntry[entry.IngredientID] == units {
			limiting = append(limiting, entry.IngredientID)
		}
	}

	return units, limiting, false, nil
}

// ProducibleUnits computes how many units of one product the current
// ingredient availability supports.
func (s *StockService) ProducibleUnits(ctx context.Context, productID int64) (*domain.StockLevel, error) {
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	recipe, err := s.recipes.GetRecipe(ctx, productID)
	if err != nil {
		return nil, err
	}

	available, err := s.ingredientsFor(ctx, recipe)
	if err != nil {
		return nil, err
	}

	units, _, onDemand, err := computeUnits(recipe, available)
	if err != nil {
		return nil, err
	}

	return &domain.StockLevel{
		ProductID: product.ID,
		Name:      product.Name,
		Variant:   product.VariantLabel(),
		Units:     units,
		OnDemand:  onDemand,
	}, nil
}

// ProductStockDetail explains the derivation ingredient by ingredient,
// flagging the limiting set.
func (s *StockService) ProductStockDetail(ctx context.Context, productID int64) (*domain.ProductStockDetail, error) {
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	recipe, err := s.recipes.GetRecipe(ctx, productID)
	if err != nil {
		return nil, err
	}

	available, err := s.ingredientsFor(ctx, recipe)
	if err != nil {
		return nil, err
	}

	units, limiting, onDemand, err := computeUnits(recipe, available)
	if err != nil {
		return nil, err
	}

	limitingSet := make(map[int64]bool, len(limiting))
	for _, id := range limiting {
		limitingSet[id] = true
	}

	details := make([]domain.IngredientStockDetail, 0, len(recipe))
	for _, entry := range recipe {
		ing := available[entry.IngredientID]
		possible := int(math.Floor(ing.Available() / entry.Quantity))
		if possible < 0 {
			possible = 0
		}
		details = append(details, domain.IngredientStockDetail{
			IngredientID:    ing.ID,
			Name:            ing.Name,
			Unit:            ing.Unit,
			Available:       ing.Available(),
			RequiredPerUnit: entry.Quantity,
			PossibleUnits:   possible,
			IsLimiting:      limitingSet[ing.ID],
		})
	}

	return &domain.ProductStockDetail{
		Product: domain.StockLevel{
			ProductID: product.ID,
			Name:      product.Name,
			Variant:   product.VariantLabel(),
			Units:     units,
			OnDemand:  onDemand,
		},
		Ingredients: details,
	}, nil
}

// AllStockLevels derives levels for every active product. A product
// whose recipe references a missing ingredient is skipped with a
// diagnostic instead of failing the whole batch.
func (s *StockService) AllStockLevels(ctx context.Context) ([]domain.StockLevel, error) {
	products, err := s.products.List(ctx, "", true)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}

	recipes, err := s.recipes.GetRecipes(ctx, ids)
	if err != nil {
		return nil, err
	}

	ingredientIDs := collectIngredientIDs(recipes)
	available, err := s.ingredients.GetByIDs(ctx, ingredientIDs)
	if err != nil {
		return nil, err
	}

	levels := make([]domain.StockLevel, 0, len(products))
	for _, p := range products {
		units, _, onDemand, err := computeUnits(recipes[p.ID], available)
		if err != nil {
			log.Warn().Err(err).Int64("product_id", p.ID).Str("product", p.Name).
				Msg("stock: skipping product with broken recipe")
			continue
		}
		levels = append(levels, domain.StockLevel{
			ProductID: p.ID,
			Name:      p.Name,
			Variant:   p.VariantLabel(),
			Units:     units,
			OnDemand:  onDemand,
		})
	}

	return levels, nil
}

// Summary buckets active products by derived availability. On-demand
// products are counted separately; they never show as out of stock.
func (s *StockService) Summary(ctx context.Context, lowThreshold int) (*domain.StockSummary, error) {
	if lowThreshold <= 0 {
		lowThreshold = DefaultLowStockThreshold
	}

	levels, err := s.AllStockLevels(ctx)
	if err != nil {
		return nil, err
	}

	summary := &domain.StockSummary{TotalProducts: len(levels)}
	for _, level := range levels {
		switch {
		case level.OnDemand:
			summary.OnDemand++
		case level.Units == 0:
			summary.OutOfStock++
		case level.Units <= lowThreshold:
			summary.LowStock++
		default:
			summary.Available++
		}
	}

	return summary, nil
}

func (s *StockService) ingredientsFor(ctx context.Context, recipe []domain.RecipeItem) (map[int64]domain.Ingredient, error) {
	ids := make([]int64, 0, len(recipe))
	for _, entry := range recipe {
		ids = append(ids, entry.IngredientID)
	}
	return s.ingredients.GetByIDs(ctx, ids)
}

func collectIngredientIDs(recipes map[int64][]domain.RecipeItem) []int64 {
	seen := make(map[int64]struct{})
	var ids []int64
	for _, recipe := range recipes {
		for _, entry := range recipe {
			if _, ok := seen[entry.IngredientID]; ok {
				continue
			}
			seen[entry.IngredientID] = struct{}{}
			ids = append(ids, entry.IngredientID)
		}
	}
	return ids
}
