package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpcardenas/heladeria-pos/internal/domain"
)

func newStockFixture() (*StockService, *memIngredients, *memRecipes, *memProducts) {
	ingredients := newMemIngredients()
	recipes := newMemRecipes()
	products := newMemProducts()
	return NewStockService(ingredients, recipes, products), ingredients, recipes, products
}

func TestProducibleUnitsMinRatio(t *testing.T) {
	svc, ingredients, recipes, products := newStockFixture()

	milk := ingredients.add("Leche", "ml", 1000, 0, 0)
	cones := ingredients.add("Conos", "unidad", 10, 0, 0)
	cone := products.add("Helado", "Cono", 6000)

	recipes.set(cone.ID,
		domain.RecipeItem{ProductID: cone.ID, IngredientID: milk.ID, Quantity: 120},
		domain.RecipeItem{ProductID: cone.ID, IngredientID: cones.ID, Quantity: 1},
	)

	level, err := svc.ProducibleUnits(context.Background(), cone.ID)
	require.NoError(t, err)

	// 1000/120 floors to 8, 10/1 gives 10; milk is the cap.
	assert.Equal(t, 8, level.Units)
	assert.False(t, level.OnDemand)
	assert.Equal(t, "Helado", level.Name)
	assert.Equal(t, "Cono", level.Variant)
}

func TestProducibleUnitsEmptyRecipeIsOnDemand(t *testing.T) {
	svc, _, _, products := newStockFixture()

	water := products.add("Botella de agua", "", 3000)

	level, err := svc.ProducibleUnits(context.Background(), water.ID)
	require.NoError(t, err)

	assert.True(t, level.OnDemand)
	assert.Zero(t, level.Units)
}

func TestProducibleUnitsExhaustedIngredient(t *testing.T) {
	svc, ingredients, recipes, products := newStockFixture()

	pulp := ingredients.add("Pulpa", "g", 500, 500, 0)
	sundae := products.add("Sundae", "", 8000)
	recipes.set(sundae.ID, domain.RecipeItem{ProductID: sundae.ID, IngredientID: pulp.ID, Quantity: 60})

	level, err := svc.ProducibleUnits(context.Background(), sundae.ID)
	require.NoError(t, err)

	assert.Equal(t, 0, level.Units)
	assert.False(t, level.OnDemand)
}

func TestProductStockDetailMarksLimitingTies(t *testing.T) {
	svc, ingredients, recipes, products := newStockFixture()

	// Both ingredients allow exactly 5 units; both belong to the
	// limiting set.
	a := ingredients.add("A", "g", 500, 0, 0)
	b := ingredients.add("B", "g", 250, 0, 0)
	c := ingredients.add("C", "g", 10000, 0, 0)
	p := products.add("Malteada", "", 9000)

	recipes.set(p.ID,
		domain.RecipeItem{ProductID: p.ID, IngredientID: a.ID, Quantity: 100},
		domain.RecipeItem{ProductID: p.ID, IngredientID: b.ID, Quantity: 50},
		domain.RecipeItem{ProductID: p.ID, IngredientID: c.ID, Quantity: 10},
	)

	detail, err := svc.ProductStockDetail(context.Background(), p.ID)
	require.NoError(t, err)

	assert.Equal(t, 5, detail.Product.Units)
	require.Len(t, detail.Ingredients, 3)

	limiting := make(map[int64]bool)
	for _, ing := range detail.Ingredients {
		limiting[ing.IngredientID] = ing.IsLimiting
	}
	assert.True(t, limiting[a.ID])
	assert.True(t, limiting[b.ID])
	assert.False(t, limiting[c.ID])
}

func TestAllStockLevelsSkipsBrokenRecipe(t *testing.T) {
	svc, ingredients, recipes, products := newStockFixture()

	milk := ingredients.add("Leche", "ml", 600, 0, 0)

	good := products.add("Helado", "", 6000)
	broken := products.add("Fantasma", "", 5000)

	recipes.set(good.ID, domain.RecipeItem{ProductID: good.ID, IngredientID: milk.ID, Quantity: 120})
	// References an ingredient that was never created.
	recipes.set(broken.ID, domain.RecipeItem{ProductID: broken.ID, IngredientID: 999, Quantity: 10})

	levels, err := svc.AllStockLevels(context.Background())
	require.NoError(t, err)

	require.Len(t, levels, 1)
	assert.Equal(t, good.ID, levels[0].ProductID)
	assert.Equal(t, 5, levels[0].Units)
}

func TestSummaryBuckets(t *testing.T) {
	svc, ingredients, recipes, products := newStockFixture()

	milk := ingredients.add("Leche", "ml", 1200, 0, 0)
	pulp := ingredients.add("Pulpa", "g", 0, 0, 0)

	plenty := products.add("Helado", "Sencillo", 6000)
	low := products.add("Helado", "Doble", 9500)
	out := products.add("Helado de fresa", "", 7000)
	onDemand := products.add("Botella de agua", "", 3000)

	recipes.set(plenty.ID, domain.RecipeItem{ProductID: plenty.ID, IngredientID: milk.ID, Quantity: 100})
	recipes.set(low.ID, domain.RecipeItem{ProductID: low.ID, IngredientID: milk.ID, Quantity: 300})
	recipes.set(out.ID, domain.RecipeItem{ProductID: out.ID, IngredientID: pulp.ID, Quantity: 60})
	_ = onDemand

	summary, err := svc.Summary(context.Background(), DefaultLowStockThreshold)
	require.NoError(t, err)

	assert.Equal(t, 4, summary.TotalProducts)
	assert.Equal(t, 1, summary.Available)  // 12 units
	assert.Equal(t, 1, summary.LowStock)   // 4 units
	assert.Equal(t, 1, summary.OutOfStock) // 0 units
	assert.Equal(t, 1, summary.OnDemand)
}
