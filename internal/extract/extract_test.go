package extract

import (
	"bytes"
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jpcardenas/heladeria-pos/internal/domain"
	"github.com/jpcardenas/heladeria-pos/internal/repository"
)

type stubSales struct {
	invoices []domain.Invoice
}

func (s *stubSales) CommitSale(ctx context.Context, invoice *domain.Invoice, requirements []repository.IngredientRequirement) (int64, error) {
	return 0, nil
}

func (s *stubSales) CancelInvoice(ctx context.Context, invoiceNumber, reason string) (*domain.Invoice, error) {
	return nil, domain.ErrNotFound
}

func (s *stubSales) GetByNumber(ctx context.Context, invoiceNumber string) (*domain.Invoice, error) {
	return nil, domain.ErrNotFound
}

func (s *stubSales) ListByDateRange(ctx context.Context, from, to time.Time) ([]domain.Invoice, error) {
	return s.invoices, nil
}

func TestBuildSalesWorkbook(t *testing.T) {
	sales := &stubSales{invoices: []domain.Invoice{
		{
			InvoiceNumber:  "F-001",
			InvoiceDate:    time.Date(2026, 8, 15, 14, 30, 0, 0, time.UTC),
			ClientName:     "Ana",
			SellerUsername: "cajera",
			Subtotal:       12000,
			TotalAmount:    12000,
			AmountPaid:     15000,
			ChangeReturned: 3000,
			PaymentMethod:  "cash",
			Items: []domain.InvoiceItem{
				{
					ProductName:    "Helado de fresa",
					ProductVariant: sql.NullString{String: "Cono", Valid: true},
					Quantity:       2,
					UnitPrice:      6000,
					Subtotal:       12000,
				},
			},
		},
	}}

	svc := NewService(sales, nil)

	data, err := svc.BuildSalesWorkbook(context.Background(), time.Now().AddDate(0, -1, 0), time.Now())
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Ventas")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "F-001", rows[1][0])
	assert.Equal(t, "Ana", rows[1][2])
	assert.Equal(t, "Efectivo", rows[1][9])

	items, err := f.GetRows("Detalle")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Helado de fresa", items[1][1])
	assert.Equal(t, "Cono", items[1][2])
}

func TestArchiveRequiresStorage(t *testing.T) {
	svc := NewService(&stubSales{}, nil)

	_, err := svc.Archive(context.Background(), time.Now().AddDate(0, 0, -7), time.Now())
	assert.Error(t, err)
}
