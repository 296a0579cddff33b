// internal/repository/sale_repository.go
package repository

import (
	"context"
	"time"

	"github.com/jpcardenas/heladeria-pos/internal/domain"
)

// IngredientRequirement is the aggregated quantity a sale demands from
// one ingredient across all of its line items.
type IngredientRequirement struct {
	IngredientID int64
	Quantity     float64
}

// SaleRepository persists committed sales. CommitSale runs as a single
// transaction: it locks the touched ingredient rows, re-checks the
// aggregated requirements against availability, writes the invoice with
// its items, decrements non-sentinel product stock and records the
// ingredient consumption. A shortfall inside the transaction surfaces
// as *domain.ValidationError and nothing is persisted.
type SaleRepository interface {
	CommitSale(ctx context.Context, invoice *domain.Invoice, requirements []IngredientRequirement) (int64, error)
	CancelInvoice(ctx context.Context, invoiceNumber, reason string) (*domain.Invoice, error)
	GetByNumber(ctx context.Context, invoiceNumber string) (*domain.Invoice, error)
	ListByDateRange(ctx context.Context, from, to time.Time) ([]domain.Invoice, error)
}
