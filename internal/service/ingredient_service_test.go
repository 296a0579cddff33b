package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpcardenas/heladeria-pos/internal/domain"
)

func newIngredientFixture() (*IngredientService, *memIngredients, *memRecipes) {
	ingredients := newMemIngredients()
	recipes := newMemRecipes()
	return NewIngredientService(ingredients, recipes), ingredients, recipes
}

func TestCreateIngredientValidation(t *testing.T) {
	svc, _, _ := newIngredientFixture()
	ctx := context.Background()

	_, err := svc.Create(ctx, &domain.Ingredient{Unit: "ml"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "missing name")

	_, err = svc.Create(ctx, &domain.Ingredient{Name: "Leche"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "missing unit")

	_, err = svc.Create(ctx, &domain.Ingredient{Name: "Leche", Unit: "ml", TotalQuantity: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "negative total")

	ing, err := svc.Create(ctx, &domain.Ingredient{Name: "  Leche  ", Unit: "ml", TotalQuantity: 1000})
	require.NoError(t, err)
	assert.Equal(t, "Leche", ing.Name)
}

func TestRestockRaisesAvailability(t *testing.T) {
	svc, ingredients, _ := newIngredientFixture()

	milk := ingredients.add("Leche", "ml", 1000, 800, 0)

	updated, err := svc.Restock(context.Background(), milk.ID, 500)
	require.NoError(t, err)

	assert.Equal(t, 1500.0, updated.TotalQuantity)
	assert.Equal(t, 800.0, updated.ConsumedQuantity)
	assert.Equal(t, 700.0, updated.Available())
}

func TestUpdateKeepsTotalAboveConsumed(t *testing.T) {
	svc, ingredients, _ := newIngredientFixture()
	ctx := context.Background()

	milk := ingredients.add("Leche", "ml", 1000, 600, 0)

	// Dropping the total below the consumed counter would persist
	// negative availability.
	edit := *milk
	edit.TotalQuantity = 500
	_, err := svc.Update(ctx, &edit)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	current, err := svc.Get(ctx, milk.ID)
	require.NoError(t, err)
	assert.Equal(t, 1000.0, current.TotalQuantity)

	edit.TotalQuantity = 800
	updated, err := svc.Update(ctx, &edit)
	require.NoError(t, err)
	assert.Equal(t, 800.0, updated.TotalQuantity)
	assert.Equal(t, 600.0, updated.ConsumedQuantity)
	assert.Equal(t, 200.0, updated.Available())
}

func TestRestockRejectsNonPositive(t *testing.T) {
	svc, ingredients, _ := newIngredientFixture()

	milk := ingredients.add("Leche", "ml", 1000, 0, 0)

	_, err := svc.Restock(context.Background(), milk.ID, 0)
	assert.Error(t, err)

	_, err = svc.Restock(context.Background(), milk.ID, -50)
	assert.Error(t, err)
}

func TestDeleteBlockedByRecipeReference(t *testing.T) {
	svc, ingredients, recipes := newIngredientFixture()

	milk := ingredients.add("Leche", "ml", 1000, 0, 0)
	recipes.set(1, domain.RecipeItem{ProductID: 1, IngredientID: milk.ID, Quantity: 120})

	err := svc.Delete(context.Background(), milk.ID)
	assert.ErrorIs(t, err, domain.ErrIntegrity)

	// Still present.
	_, err = svc.Get(context.Background(), milk.ID)
	assert.NoError(t, err)
}

func TestDeleteUnreferencedIngredient(t *testing.T) {
	svc, ingredients, _ := newIngredientFixture()

	sugar := ingredients.add("Azúcar", "g", 500, 0, 0)

	require.NoError(t, svc.Delete(context.Background(), sugar.ID))

	_, err := svc.Get(context.Background(), sugar.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListLowStockOnly(t *testing.T) {
	svc, ingredients, _ := newIngredientFixture()

	ingredients.add("Leche", "ml", 1000, 900, 200) // available 100, threshold 200
	ingredients.add("Azúcar", "g", 500, 0, 100)    // available 500

	low, err := svc.List(context.Background(), "", true)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "Leche", low[0].Name)
}
