package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpcardenas/heladeria-pos/internal/domain"
)

func newSaleFixture() (*SaleService, *memIngredients, *memRecipes, *memProducts) {
	ingredients := newMemIngredients()
	recipes := newMemRecipes()
	products := newMemProducts()
	sales := newMemSales(ingredients, recipes, products)
	svc := NewSaleService(sales, products, recipes, ingredients, nil)
	return svc, ingredients, recipes, products
}

var seller = domain.Principal{UserID: 1, Username: "cajera", Role: "seller"}

func TestCommitAggregatesAcrossLines(t *testing.T) {
	svc, ingredients, recipes, products := newSaleFixture()

	// 500g of pulp covers either line alone (300g) but not both (600g).
	pulp := ingredients.add("Pulpa de fresa", "g", 500, 0, 0)
	cone := products.add("Helado de fresa", "Cono", 6000)
	cup := products.add("Helado de fresa", "Vaso", 7000)
	recipes.set(cone.ID, domain.RecipeItem{ProductID: cone.ID, IngredientID: pulp.ID, Quantity: 60})
	recipes.set(cup.ID, domain.RecipeItem{ProductID: cup.ID, IngredientID: pulp.ID, Quantity: 60})

	lines := []domain.SaleLine{
		{ProductName: "Helado de fresa", ProductVariant: "Cono", Quantity: 5, UnitPrice: 6000},
		{ProductName: "Helado de fresa", ProductVariant: "Vaso", Quantity: 5, UnitPrice: 7000},
	}

	_, err := svc.Commit(context.Background(), domain.InvoiceMeta{ClientName: "Ana"}, lines, seller)
	require.Error(t, err)

	ve, ok := domain.AsValidationError(err)
	require.True(t, ok)
	require.Len(t, ve.Shortfalls, 1)
	assert.Equal(t, pulp.ID, ve.Shortfalls[0].IngredientID)
	assert.Equal(t, 600.0, ve.Shortfalls[0].Required)
	assert.Equal(t, 500.0, ve.Shortfalls[0].Available)

	// Nothing was consumed.
	current, err := ingredients.GetByID(context.Background(), pulp.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, current.ConsumedQuantity)
}

func TestCommitConsumesAndComputesTotals(t *testing.T) {
	svc, ingredients, recipes, products := newSaleFixture()

	milk := ingredients.add("Leche", "ml", 1000, 0, 0)
	cone := products.add("Helado", "Cono", 6000)
	recipes.set(cone.ID, domain.RecipeItem{ProductID: cone.ID, IngredientID: milk.ID, Quantity: 120})

	meta := domain.InvoiceMeta{
		InvoiceNumber: "F-001",
		ClientName:    "Ana",
		DeliveryFee:   2000,
		AmountPaid:    20000,
		PaymentMethod: "efectivo",
	}
	lines := []domain.SaleLine{
		{ProductName: "Helado", ProductVariant: "Cono", Quantity: 2, UnitPrice: 6000},
	}

	invoice, err := svc.Commit(context.Background(), meta, lines, seller)
	require.NoError(t, err)

	assert.Equal(t, "F-001", invoice.InvoiceNumber)
	assert.Equal(t, 12000.0, invoice.Subtotal)
	assert.Equal(t, 14000.0, invoice.TotalAmount)
	assert.Equal(t, 6000.0, invoice.ChangeReturned)
	assert.Equal(t, "cajera", invoice.SellerUsername)
	require.Len(t, invoice.Items, 1)
	assert.True(t, invoice.Items[0].ProductID.Valid)

	current, err := ingredients.GetByID(context.Background(), milk.ID)
	require.NoError(t, err)
	assert.Equal(t, 240.0, current.ConsumedQuantity)
}

func TestCommitGeneratesInvoiceNumberWhenMissing(t *testing.T) {
	svc, _, _, products := newSaleFixture()

	products.add("Botella de agua", "", 3000)
	lines := []domain.SaleLine{{ProductName: "Botella de agua", Quantity: 1, UnitPrice: 3000}}

	invoice, err := svc.Commit(context.Background(), domain.InvoiceMeta{ClientName: "Luis"}, lines, seller)
	require.NoError(t, err)
	assert.NotEmpty(t, invoice.InvoiceNumber)
}

func TestCommitUnmatchedLineStillBilled(t *testing.T) {
	svc, ingredients, _, _ := newSaleFixture()

	ingredients.add("Leche", "ml", 1000, 0, 0)
	lines := []domain.SaleLine{
		{ProductName: "Producto externo", Quantity: 1, UnitPrice: 5000},
	}

	invoice, err := svc.Commit(context.Background(), domain.InvoiceMeta{InvoiceNumber: "F-002", ClientName: "Eva"}, lines, seller)
	require.NoError(t, err)

	require.Len(t, invoice.Items, 1)
	assert.False(t, invoice.Items[0].ProductID.Valid)
	assert.Equal(t, 5000.0, invoice.Subtotal)
}

func TestValidateReservesNothing(t *testing.T) {
	svc, ingredients, recipes, products := newSaleFixture()

	milk := ingredients.add("Leche", "ml", 1000, 0, 0)
	cone := products.add("Helado", "", 6000)
	recipes.set(cone.ID, domain.RecipeItem{ProductID: cone.ID, IngredientID: milk.ID, Quantity: 120})

	lines := []domain.SaleLine{{ProductName: "Helado", Quantity: 3, UnitPrice: 6000}}

	require.NoError(t, svc.Validate(context.Background(), lines))

	current, err := ingredients.GetByID(context.Background(), milk.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, current.ConsumedQuantity)
}

func TestResolveProductFallbackChain(t *testing.T) {
	svc, _, _, products := newSaleFixture()

	cone := products.add("Helado de fresa", "Cono sencillo", 6000)
	plain := products.add("Brownie con helado", "", 12000)

	ctx := context.Background()

	// Exact name and variant.
	p, err := svc.resolveProduct(ctx, "Helado de fresa", "Cono sencillo")
	require.NoError(t, err)
	assert.Equal(t, cone.ID, p.ID)

	// Denormalized "name - variant" description.
	p, err = svc.resolveProduct(ctx, "Helado de fresa - Cono sencillo", "")
	require.NoError(t, err)
	assert.Equal(t, cone.ID, p.ID)

	// Concatenated match for a variant-less product.
	p, err = svc.resolveProduct(ctx, "Brownie con helado", "")
	require.NoError(t, err)
	assert.Equal(t, plain.ID, p.ID)

	_, err = svc.resolveProduct(ctx, "No existe", "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCancelRestoresConsumption(t *testing.T) {
	svc, ingredients, recipes, products := newSaleFixture()

	milk := ingredients.add("Leche", "ml", 1000, 0, 0)
	cone := products.add("Helado", "", 6000)
	recipes.set(cone.ID, domain.RecipeItem{ProductID: cone.ID, IngredientID: milk.ID, Quantity: 120})

	meta := domain.InvoiceMeta{InvoiceNumber: "F-010", ClientName: "Ana"}
	lines := []domain.SaleLine{{ProductName: "Helado", Quantity: 3, UnitPrice: 6000}}

	_, err := svc.Commit(context.Background(), meta, lines, seller)
	require.NoError(t, err)

	current, _ := ingredients.GetByID(context.Background(), milk.ID)
	require.Equal(t, 360.0, current.ConsumedQuantity)

	cancelled, err := svc.Cancel(context.Background(), "F-010", "cliente se retractó")
	require.NoError(t, err)
	assert.True(t, cancelled.IsCancelled)

	current, _ = ingredients.GetByID(context.Background(), milk.ID)
	assert.Equal(t, 0.0, current.ConsumedQuantity)
}

func TestCancelTwiceFails(t *testing.T) {
	svc, _, _, products := newSaleFixture()

	products.add("Botella de agua", "", 3000)
	meta := domain.InvoiceMeta{InvoiceNumber: "F-011", ClientName: "Eva"}
	lines := []domain.SaleLine{{ProductName: "Botella de agua", Quantity: 1, UnitPrice: 3000}}

	_, err := svc.Commit(context.Background(), meta, lines, seller)
	require.NoError(t, err)

	_, err = svc.Cancel(context.Background(), "F-011", "error de digitación")
	require.NoError(t, err)

	_, err = svc.Cancel(context.Background(), "F-011", "otra vez")
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestCancelRequiresReason(t *testing.T) {
	svc, _, _, _ := newSaleFixture()

	_, err := svc.Cancel(context.Background(), "F-012", "   ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCommitRejectsNonPositiveQuantity(t *testing.T) {
	svc, _, _, products := newSaleFixture()

	products.add("Helado", "", 6000)
	lines := []domain.SaleLine{
		{ProductName: "Helado", Quantity: 0, UnitPrice: 6000},
	}

	_, err := svc.Commit(context.Background(), domain.InvoiceMeta{}, lines, seller)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}

func TestCommitRejectsEmptySale(t *testing.T) {
	svc, _, _, _ := newSaleFixture()

	_, err := svc.Commit(context.Background(), domain.InvoiceMeta{}, nil, seller)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCommitDecrementsCountedProductStock(t *testing.T) {
	svc, _, _, products := newSaleFixture()

	bottle := products.add("Botella de agua", "", 3000)
	bottle.StockQuantity = 5
	scoop := products.add("Helado", "Cono", 6000)

	meta := domain.InvoiceMeta{InvoiceNumber: "F-020", AmountPaid: 12000}
	lines := []domain.SaleLine{
		{ProductName: "Botella de agua", Quantity: 2, UnitPrice: 3000},
		{ProductName: "Helado", ProductVariant: "Cono", Quantity: 1, UnitPrice: 6000},
	}

	_, err := svc.Commit(context.Background(), meta, lines, seller)
	require.NoError(t, err)

	assert.Equal(t, 3, bottle.StockQuantity)
	// On-demand products keep the sentinel through commits.
	assert.Equal(t, domain.OnDemandStock, scoop.StockQuantity)
}

func TestCommitClampsCountedProductStockAtZero(t *testing.T) {
	svc, _, _, products := newSaleFixture()

	bottle := products.add("Botella de agua", "", 3000)
	bottle.StockQuantity = 3

	meta := domain.InvoiceMeta{InvoiceNumber: "F-021", AmountPaid: 30000}
	lines := []domain.SaleLine{
		{ProductName: "Botella de agua", Quantity: 10, UnitPrice: 3000},
	}

	_, err := svc.Commit(context.Background(), meta, lines, seller)
	require.NoError(t, err)

	assert.Equal(t, 0, bottle.StockQuantity)
}

func TestCancelRestoresCountedProductStock(t *testing.T) {
	svc, _, _, products := newSaleFixture()

	bottle := products.add("Botella de agua", "", 3000)
	bottle.StockQuantity = 5

	meta := domain.InvoiceMeta{InvoiceNumber: "F-022", AmountPaid: 6000}
	lines := []domain.SaleLine{
		{ProductName: "Botella de agua", Quantity: 2, UnitPrice: 3000},
	}

	_, err := svc.Commit(context.Background(), meta, lines, seller)
	require.NoError(t, err)
	require.Equal(t, 3, bottle.StockQuantity)

	_, err = svc.Cancel(context.Background(), "F-022", "cliente se arrepintió")
	require.NoError(t, err)

	assert.Equal(t, 5, bottle.StockQuantity)
}
