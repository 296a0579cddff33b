// internal/service/sale_service.go
package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jpcardenas/heladeria-pos/internal/domain"
	"github.com/jpcardenas/heladeria-pos/internal/repository"
)

// CacheInvalidator lets the sale flow flush derived views (dashboard,
// stock summary) after a commit or cancellation. A nil invalidator is
// allowed.
type CacheInvalidator interface {
	InvalidateAll(ctx context.Context) error
}

// SaleService is the transaction processor. Validation aggregates
// ingredient requirements across every line before comparing against
// availability; the commit itself re-checks under row locks inside
// SaleRepository, so a passing Validate is advisory, not a reservation.
type SaleService struct {
	sales       repository.SaleRepository
	products    repository.ProductRepository
	recipes     repository.RecipeRepository
	ingredients repository.IngredientRepository
	cache       CacheInvalidator
}

func NewSaleService(
	sales repository.SaleRepository,
	products repository.ProductRepository,
	recipes repository.RecipeRepository,
	ingredients repository.IngredientRepository,
	cache CacheInvalidator,
) *SaleService {
	return &SaleService{
		sales:       sales,
		products:    products,
		recipes:     recipes,
		ingredients: ingredients,
		cache:       cache,
	}
}

// resolvedLine pairs a submitted line with its catalog match, if any.
// An unmatched line is still billed but consumes no ingredients.
type resolvedLine struct {
	line    domain.SaleLine
	product *domain.Product
	recipe  []domain.RecipeItem
}

// descriptionSeparator is how the billing frontend joins name and
// variant into a single denormalized description.
const descriptionSeparator = " - "

// resolveProduct matches a submitted description against the catalog:
// exact (name, variant) first, then splitting the name on the
// separator, then the concatenated form.
func (s *SaleService) resolveProduct(ctx context.Context, name, variant string) (*domain.Product, error) {
	p, err := s.products.FindExact(ctx, name, variant)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	if variant == "" {
		if base, rest, found := strings.Cut(name, descriptionSeparator); found {
			p, err = s.products.FindExact(ctx, strings.TrimSpace(base), strings.TrimSpace(rest))
			if err == nil {
				return p, nil
			}
			if !errors.Is(err, domain.ErrNotFound) {
				return nil, err
			}
		}
	}

	full := name
	if variant != "" {
		full = name + " " + variant
	}
	p, err = s.products.FindByConcat(ctx, full)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	return nil, domain.ErrNotFound
}

func (s *SaleService) resolveLines(ctx context.Context, lines []domain.SaleLine) ([]resolvedLine, error) {
	resolved := make([]resolvedLine, 0, len(lines))
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("line %q: quantity must be positive: %w", line.ProductName, domain.ErrInvalidInput)
		}

		p, err := s.resolveProduct(ctx, line.ProductName, line.ProductVariant)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}

		rl := resolvedLine{line: line, product: p}
		if p != nil {
			recipe, err := s.recipes.GetRecipe(ctx, p.ID)
			if err != nil {
				return nil, err
			}
			rl.recipe = recipe
		} else {
			log.Warn().Str("description", line.ProductName).Str("variant", line.ProductVariant).
				Msg("sale: line did not match any catalog product")
		}
		resolved = append(resolved, rl)
	}
	return resolved, nil
}

// aggregateRequirements folds the recipes of every resolved line into
// one total per ingredient, ordered by ascending ingredient id. Two
// lines drawing on the same ingredient are checked as a sum, never
// independently.
func aggregateRequirements(lines []resolvedLine) []repository.IngredientRequirement {
	totals := make(map[int64]float64)
	for _, rl := range lines {
		for _, entry := range rl.recipe {
			totals[entry.IngredientID] += entry.Quantity * float64(rl.line.Quantity)
		}
	}

	reqs := make([]repository.IngredientRequirement, 0, len(totals))
	for id, qty := range totals {
		reqs = append(reqs, repository.IngredientRequirement{IngredientID: id, Quantity: qty})
	}
	sort.Slice(reqs, func(i, j int) bool { return reqs[i].IngredientID < reqs[j].IngredientID })
	return reqs
}

// checkAvailability compares aggregated requirements against the
// ledger. It returns a *domain.ValidationError listing every shortfall,
// or nil when the sale fits.
func (s *SaleService) checkAvailability(ctx context.Context, reqs []repository.IngredientRequirement) error {
	if len(reqs) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(reqs))
	for _, r := range reqs {
		ids = append(ids, r.IngredientID)
	}
	available, err := s.ingredients.GetByIDs(ctx, ids)
	if err != nil {
		return err
	}

	var shortfalls []domain.IngredientShortfall
	for _, r := range reqs {
		ing, ok := available[r.IngredientID]
		if !ok {
			return fmt.Errorf("recipe references ingredient %d: %w", r.IngredientID, domain.ErrNotFound)
		}
		if ing.Available() < r.Quantity {
			shortfalls = append(shortfalls, domain.IngredientShortfall{
				IngredientID: ing.ID,
				Name:         ing.Name,
				Unit:         ing.Unit,
				Required:     r.Quantity,
				Available:    ing.Available(),
			})
		}
	}
	if len(shortfalls) > 0 {
		return &domain.ValidationError{Shortfalls: shortfalls}
	}
	return nil
}

// Validate answers whether the sale would fit current availability.
// It takes no locks and reserves nothing.
func (s *SaleService) Validate(ctx context.Context, lines []domain.SaleLine) error {
	resolved, err := s.resolveLines(ctx, lines)
	if err != nil {
		return err
	}
	return s.checkAvailability(ctx, aggregateRequirements(resolved))
}

// Commit processes a sale end to end: resolve products, aggregate
// requirements, then persist the invoice, ingredient consumption and
// product stock decrements in one database transaction. Any failure
// leaves the ledger untouched.
func (s *SaleService) Commit(ctx context.Context, meta domain.InvoiceMeta, lines []domain.SaleLine, seller domain.Principal) (*domain.Invoice, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("sale has no line items: %w", domain.ErrInvalidInput)
	}

	resolved, err := s.resolveLines(ctx, lines)
	if err != nil {
		return nil, err
	}
	reqs := aggregateRequirements(resolved)

	// Quick pre-check so obviously unsatisfiable sales fail with full
	// shortfall detail before opening a transaction. The authoritative
	// check happens again under row locks inside CommitSale.
	if err := s.checkAvailability(ctx, reqs); err != nil {
		return nil, err
	}

	invoice := buildInvoice(meta, resolved, seller)

	id, err := s.sales.CommitSale(ctx, invoice, reqs)
	if err != nil {
		return nil, err
	}
	invoice.ID = id

	log.Info().Str("invoice", invoice.InvoiceNumber).Int64("id", id).
		Float64("total", invoice.TotalAmount).Str("seller", seller.Username).
		Msg("sale committed")

	s.invalidate(ctx)
	return invoice, nil
}

// Cancel reverses a committed invoice: consumption is subtracted back,
// counted product stock is restored, and the invoice is flagged, never
// deleted. Cancelling twice is rejected with ErrInvalidState.
func (s *SaleService) Cancel(ctx context.Context, invoiceNumber, reason string) (*domain.Invoice, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, fmt.Errorf("cancellation requires a reason: %w", domain.ErrInvalidInput)
	}

	invoice, err := s.sales.CancelInvoice(ctx, invoiceNumber, reason)
	if err != nil {
		return nil, err
	}

	log.Info().Str("invoice", invoiceNumber).Str("reason", reason).Msg("sale cancelled")

	s.invalidate(ctx)
	return invoice, nil
}

// GetByNumber returns a committed invoice with its line items.
func (s *SaleService) GetByNumber(ctx context.Context, invoiceNumber string) (*domain.Invoice, error) {
	return s.sales.GetByNumber(ctx, invoiceNumber)
}

// ListByDateRange returns invoices whose invoice date falls in [from, to].
func (s *SaleService) ListByDateRange(ctx context.Context, from, to time.Time) ([]domain.Invoice, error) {
	return s.sales.ListByDateRange(ctx, from, to)
}

func (s *SaleService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateAll(ctx); err != nil {
		log.Warn().Err(err).Msg("sale: cache invalidation failed")
	}
}

func buildInvoice(meta domain.InvoiceMeta, resolved []resolvedLine, seller domain.Principal) *domain.Invoice {
	number := strings.TrimSpace(meta.InvoiceNumber)
	if number == "" {
		number = "INV-" + uuid.NewString()
	}

	items := make([]domain.InvoiceItem, 0, len(resolved))
	var subtotal float64
	for _, rl := range resolved {
		lineSubtotal := rl.line.Subtotal
		if lineSubtotal == 0 {
			lineSubtotal = float64(rl.line.Quantity) * rl.line.UnitPrice
		}
		subtotal += lineSubtotal

		item := domain.InvoiceItem{
			ProductName: rl.line.ProductName,
			Quantity:    rl.line.Quantity,
			UnitPrice:   rl.line.UnitPrice,
			Subtotal:    lineSubtotal,
		}
		if rl.line.ProductVariant != "" {
			item.ProductVariant = sql.NullString{String: rl.line.ProductVariant, Valid: true}
		}
		if rl.product != nil {
			item.ProductID = sql.NullInt64{Int64: rl.product.ID, Valid: true}
			item.ProductName = rl.product.Name
			item.ProductVariant = rl.product.Variant
		}
		items = append(items, item)
	}

	total := subtotal + meta.DeliveryFee
	change := meta.AmountPaid - total
	if change < 0 {
		change = 0
	}

	invoice := &domain.Invoice{
		InvoiceNumber:  number,
		InvoiceDate:    time.Now(),
		ClientName:     meta.ClientName,
		SellerUsername: seller.Username,
		Subtotal:       subtotal,
		DeliveryFee:    meta.DeliveryFee,
		TotalAmount:    total,
		AmountPaid:     meta.AmountPaid,
		ChangeReturned: change,
		PaymentMethod:  domain.NormalizePaymentMethod(meta.PaymentMethod),
		Items:          items,
	}
	if meta.ClientPhone != "" {
		invoice.ClientPhone = sql.NullString{String: meta.ClientPhone, Valid: true}
	}
	if meta.PaymentReference != "" {
		invoice.PaymentReference = sql.NullString{String: meta.PaymentReference, Valid: true}
	}
	if meta.Notes != "" {
		invoice.Notes = sql.NullString{String: meta.Notes, Valid: true}
	}
	return invoice
}
