package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jpcardenas/heladeria-pos/internal/domain"
	"github.com/jpcardenas/heladeria-pos/internal/repository"
)

// In-memory fixtures backing the service tests. The sale store mirrors
// the transactional semantics of the SQL implementation: availability
// is re-checked at commit time and consumption is applied atomically.

type memIngredients struct {
	nextID int64
	items  map[int64]*domain.Ingredient
}

func newMemIngredients() *memIngredients {
	return &memIngredients{nextID: 1, items: make(map[int64]*domain.Ingredient)}
}

func (m *memIngredients) add(name, unit string, total, consumed, threshold float64) *domain.Ingredient {
	ing := &domain.Ingredient{
		ID:               m.nextID,
		Name:             name,
		Unit:             unit,
		TotalQuantity:    total,
		ConsumedQuantity: consumed,
		MinThreshold:     threshold,
	}
	m.items[ing.ID] = ing
	m.nextID++
	return ing
}

func (m *memIngredients) Create(ctx context.Context, ing *domain.Ingredient) (int64, error) {
	created := *ing
	created.ID = m.nextID
	m.items[created.ID] = &created
	m.nextID++
	return created.ID, nil
}

func (m *memIngredients) GetByID(ctx context.Context, id int64) (*domain.Ingredient, error) {
	ing, ok := m.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *ing
	return &copied, nil
}

func (m *memIngredients) GetByIDs(ctx context.Context, ids []int64) (map[int64]domain.Ingredient, error) {
	out := make(map[int64]domain.Ingredient, len(ids))
	for _, id := range ids {
		if ing, ok := m.items[id]; ok {
			out[id] = *ing
		}
	}
	return out, nil
}

func (m *memIngredients) List(ctx context.Context, search string, lowStockOnly bool) ([]domain.Ingredient, error) {
	var out []domain.Ingredient
	for _, ing := range m.items {
		if search != "" && !strings.Contains(strings.ToLower(ing.Name), strings.ToLower(search)) {
			continue
		}
		if lowStockOnly && ing.Available() > ing.MinThreshold {
			continue
		}
		out = append(out, *ing)
	}
	return out, nil
}

func (m *memIngredients) Update(ctx context.Context, ing *domain.Ingredient) error {
	existing, ok := m.items[ing.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if ing.TotalQuantity < existing.ConsumedQuantity {
		return fmt.Errorf("total quantity %.2f is below the consumed quantity: %w",
			ing.TotalQuantity, domain.ErrInvalidInput)
	}
	copied := *ing
	copied.ConsumedQuantity = existing.ConsumedQuantity
	m.items[ing.ID] = &copied
	return nil
}

func (m *memIngredients) Delete(ctx context.Context, id int64) error {
	if _, ok := m.items[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *memIngredients) Restock(ctx context.Context, id int64, addedQuantity float64) error {
	ing, ok := m.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	ing.TotalQuantity += addedQuantity
	return nil
}

type memRecipes struct {
	recipes map[int64][]domain.RecipeItem
}

func newMemRecipes() *memRecipes {
	return &memRecipes{recipes: make(map[int64][]domain.RecipeItem)}
}

func (m *memRecipes) set(productID int64, entries ...domain.RecipeItem) {
	m.recipes[productID] = entries
}

func (m *memRecipes) GetRecipe(ctx context.Context, productID int64) ([]domain.RecipeItem, error) {
	return m.recipes[productID], nil
}

func (m *memRecipes) GetRecipes(ctx context.Context, productIDs []int64) (map[int64][]domain.RecipeItem, error) {
	out := make(map[int64][]domain.RecipeItem, len(productIDs))
	for _, id := range productIDs {
		if recipe, ok := m.recipes[id]; ok {
			out[id] = recipe
		}
	}
	return out, nil
}

func (m *memRecipes) SetRecipe(ctx context.Context, productID int64, entries []domain.RecipeSubmission) error {
	items := make([]domain.RecipeItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, domain.RecipeItem{
			ProductID:    productID,
			IngredientID: e.IngredientID,
			Quantity:     e.Quantity,
		})
	}
	m.recipes[productID] = items
	return nil
}

func (m *memRecipes) CountByIngredient(ctx context.Context, ingredientID int64) (int, error) {
	count := 0
	for _, recipe := range m.recipes {
		for _, entry := range recipe {
			if entry.IngredientID == ingredientID {
				count++
			}
		}
	}
	return count, nil
}

type memProducts struct {
	nextID int64
	items  map[int64]*domain.Product
}

func newMemProducts() *memProducts {
	return &memProducts{nextID: 1, items: make(map[int64]*domain.Product)}
}

func (m *memProducts) add(name, variant string, price float64) *domain.Product {
	p := &domain.Product{
		ID:            m.nextID,
		Name:          name,
		Price:         price,
		IsActive:      true,
		StockQuantity: domain.OnDemandStock,
	}
	if variant != "" {
		p.Variant.String = variant
		p.Variant.Valid = true
	}
	m.items[p.ID] = p
	m.nextID++
	return p
}

func (m *memProducts) Create(ctx context.Context, p *domain.Product) (int64, error) {
	created := *p
	created.ID = m.nextID
	m.items[created.ID] = &created
	m.nextID++
	return created.ID, nil
}

func (m *memProducts) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	p, ok := m.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (m *memProducts) List(ctx context.Context, search string, activeOnly bool) ([]domain.Product, error) {
	var out []domain.Product
	for id := int64(1); id < m.nextID; id++ {
		p, ok := m.items[id]
		if !ok {
			continue
		}
		if activeOnly && !p.IsActive {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(search)) {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (m *memProducts) Update(ctx context.Context, p *domain.Product) error {
	if _, ok := m.items[p.ID]; !ok {
		return domain.ErrNotFound
	}
	copied := *p
	m.items[p.ID] = &copied
	return nil
}

func (m *memProducts) Deactivate(ctx context.Context, id int64) error {
	p, ok := m.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.IsActive = false
	return nil
}

func (m *memProducts) FindExact(ctx context.Context, name, variant string) (*domain.Product, error) {
	for _, p := range m.items {
		if !p.IsActive || p.Name != name {
			continue
		}
		if p.VariantLabel() == variant {
			copied := *p
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memProducts) FindByConcat(ctx context.Context, fullName string) (*domain.Product, error) {
	want := strings.TrimSpace(fullName)
	for _, p := range m.items {
		if !p.IsActive {
			continue
		}
		concat := strings.TrimSpace(p.Name + " " + p.VariantLabel())
		if concat == want {
			copied := *p
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

type memAdditions struct {
	nextID int64
	items  map[int64]*domain.Addition
}

func newMemAdditions() *memAdditions {
	return &memAdditions{nextID: 1, items: make(map[int64]*domain.Addition)}
}

func (m *memAdditions) Create(ctx context.Context, a *domain.Addition) (int64, error) {
	for _, existing := range m.items {
		if existing.Name == a.Name {
			return 0, domain.ErrIntegrity
		}
	}
	created := *a
	created.ID = m.nextID
	m.items[created.ID] = &created
	m.nextID++
	return created.ID, nil
}

func (m *memAdditions) GetByID(ctx context.Context, id int64) (*domain.Addition, error) {
	a, ok := m.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *a
	return &copied, nil
}

func (m *memAdditions) List(ctx context.Context, search string, lowStockOnly bool) ([]domain.Addition, error) {
	var out []domain.Addition
	for id := int64(1); id < m.nextID; id++ {
		a, ok := m.items[id]
		if !ok {
			continue
		}
		if search != "" {
			want := strings.ToLower(search)
			if !strings.Contains(strings.ToLower(a.Name), want) && !strings.Contains(strings.ToLower(a.Kind), want) {
				continue
			}
		}
		if lowStockOnly && a.Stock > a.MinStock {
			continue
		}
		out = append(out, *a)
	}
	return out, nil
}

func (m *memAdditions) Update(ctx context.Context, a *domain.Addition) error {
	if _, ok := m.items[a.ID]; !ok {
		return domain.ErrNotFound
	}
	copied := *a
	m.items[a.ID] = &copied
	return nil
}

func (m *memAdditions) Delete(ctx context.Context, id int64) error {
	if _, ok := m.items[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

// memSales applies the same commit semantics as the SQL store: check
// aggregated requirements against the shared ingredient fixture, then
// either consume everything or nothing. Counted product stock moves
// with the invoice; the on-demand sentinel stays untouched.
type memSales struct {
	nextID      int64
	ingredients *memIngredients
	recipes     *memRecipes
	products    *memProducts
	invoices    map[string]*domain.Invoice
}

func newMemSales(ingredients *memIngredients, recipes *memRecipes, products *memProducts) *memSales {
	return &memSales{
		nextID:      1,
		ingredients: ingredients,
		recipes:     recipes,
		products:    products,
		invoices:    make(map[string]*domain.Invoice),
	}
}

func (m *memSales) CommitSale(ctx context.Context, invoice *domain.Invoice, requirements []repository.IngredientRequirement) (int64, error) {
	var shortfalls []domain.IngredientShortfall
	for _, req := range requirements {
		ing, ok := m.ingredients.items[req.IngredientID]
		if !ok {
			return 0, domain.ErrNotFound
		}
		if ing.Available() < req.Quantity {
			shortfalls = append(shortfalls, domain.IngredientShortfall{
				IngredientID: ing.ID,
				Name:         ing.Name,
				Unit:         ing.Unit,
				Required:     req.Quantity,
				Available:    ing.Available(),
			})
		}
	}
	if len(shortfalls) > 0 {
		return 0, &domain.ValidationError{Shortfalls: shortfalls}
	}

	for _, req := range requirements {
		m.ingredients.items[req.IngredientID].ConsumedQuantity += req.Quantity
	}

	for _, item := range invoice.Items {
		if !item.ProductID.Valid {
			continue
		}
		p, ok := m.products.items[item.ProductID.Int64]
		if !ok || p.StockQuantity < 0 {
			continue
		}
		p.StockQuantity -= item.Quantity
		if p.StockQuantity < 0 {
			p.StockQuantity = 0
		}
	}

	stored := *invoice
	stored.ID = m.nextID
	stored.Items = append([]domain.InvoiceItem(nil), invoice.Items...)
	m.invoices[stored.InvoiceNumber] = &stored
	m.nextID++
	return stored.ID, nil
}

func (m *memSales) CancelInvoice(ctx context.Context, invoiceNumber, reason string) (*domain.Invoice, error) {
	inv, ok := m.invoices[invoiceNumber]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if inv.IsCancelled {
		return nil, domain.ErrInvalidState
	}

	for _, item := range inv.Items {
		if !item.ProductID.Valid {
			continue
		}
		if p, ok := m.products.items[item.ProductID.Int64]; ok && p.StockQuantity >= 0 {
			p.StockQuantity += item.Quantity
		}
		for _, entry := range m.recipes.recipes[item.ProductID.Int64] {
			ing, ok := m.ingredients.items[entry.IngredientID]
			if !ok {
				continue
			}
			delta := entry.Quantity * float64(item.Quantity)
			ing.ConsumedQuantity -= delta
			if ing.ConsumedQuantity < 0 {
				ing.ConsumedQuantity = 0
			}
		}
	}

	inv.IsCancelled = true
	inv.CancellationReason.String = reason
	inv.CancellationReason.Valid = true
	inv.CancelledAt.Time = time.Now()
	inv.CancelledAt.Valid = true

	copied := *inv
	return &copied, nil
}

func (m *memSales) GetByNumber(ctx context.Context, invoiceNumber string) (*domain.Invoice, error) {
	inv, ok := m.invoices[invoiceNumber]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *inv
	return &copied, nil
}

func (m *memSales) ListByDateRange(ctx context.Context, from, to time.Time) ([]domain.Invoice, error) {
	var out []domain.Invoice
	for _, inv := range m.invoices {
		if inv.InvoiceDate.Before(from) || inv.InvoiceDate.After(to) {
			continue
		}
		out = append(out, *inv)
	}
	return out, nil
}
