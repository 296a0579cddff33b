// internal/extract/extract.go
package extract

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/jpcardenas/heladeria-pos/internal/domain"
	"github.com/jpcardenas/heladeria-pos/internal/repository"
	"github.com/jpcardenas/heladeria-pos/internal/storage"
)

const (
	salesSheet    = "Ventas"
	itemsSheet    = "Detalle"
	archivePrefix = "extracts/"
)

// Service builds XLSX extracts of committed sales and archives them to
// object storage for bookkeeping.
type Service struct {
	sales   repository.SaleRepository
	storage storage.ObjectStorage
}

func NewService(sales repository.SaleRepository, store storage.ObjectStorage) *Service {
	return &Service{sales: sales, storage: store}
}

// BuildSalesWorkbook renders the invoices of a date range into a
// two-sheet workbook: one row per invoice, one row per line item.
func (s *Service) BuildSalesWorkbook(ctx context.Context, from, to time.Time) ([]byte, error) {
	invoices, err := s.sales.ListByDateRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", salesSheet)
	if _, err := f.NewSheet(itemsSheet); err != nil {
		return nil, fmt.Errorf("failed to create sheet %s: %w", itemsSheet, err)
	}

	salesHeader := []interface{}{
		"Factura", "Fecha", "Cliente", "Vendedor", "Subtotal",
		"Domicilio", "Total", "Pagado", "Cambio", "Medio de pago", "Anulada",
	}
	if err := f.SetSheetRow(salesSheet, "A1", &salesHeader); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	itemsHeader := []interface{}{
		"Factura", "Producto", "Variante", "Cantidad", "Precio unitario", "Subtotal",
	}
	if err := f.SetSheetRow(itemsSheet, "A1", &itemsHeader); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	itemRow := 2
	for i, inv := range invoices {
		row := []interface{}{
			inv.InvoiceNumber,
			inv.InvoiceDate.Format("2006-01-02 15:04"),
			inv.ClientName,
			inv.SellerUsername,
			inv.Subtotal,
			inv.DeliveryFee,
			inv.TotalAmount,
			inv.AmountPaid,
			inv.ChangeReturned,
			domain.PaymentMethodLabel(inv.PaymentMethod),
			cancelledLabel(inv.IsCancelled),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(salesSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write invoice %s: %w", inv.InvoiceNumber, err)
		}

		for _, item := range inv.Items {
			variant := ""
			if item.ProductVariant.Valid {
				variant = item.ProductVariant.String
			}
			detail := []interface{}{
				inv.InvoiceNumber, item.ProductName, variant,
				item.Quantity, item.UnitPrice, item.Subtotal,
			}
			cell, _ := excelize.CoordinatesToCellName(1, itemRow)
			if err := f.SetSheetRow(itemsSheet, cell, &detail); err != nil {
				return nil, fmt.Errorf("failed to write item row: %w", err)
			}
			itemRow++
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// Archive builds the workbook and uploads it to object storage. The
// returned key is deterministic per range and day, so re-running an
// archive overwrites rather than duplicates.
func (s *Service) Archive(ctx context.Context, from, to time.Time) (string, error) {
	if s.storage == nil {
		return "", fmt.Errorf("object storage is not configured")
	}

	data, err := s.BuildSalesWorkbook(ctx, from, to)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("%sventas_%s_%s.xlsx", archivePrefix,
		from.Format("20060102"), to.Format("20060102"))
	if err := s.storage.UploadObject(ctx, key, data); err != nil {
		return "", err
	}
	return key, nil
}

// ListArchives returns previously uploaded extracts.
func (s *Service) ListArchives(ctx context.Context) ([]storage.ObjectInfo, error) {
	if s.storage == nil {
		return nil, fmt.Errorf("object storage is not configured")
	}
	return s.storage.ListObjects(ctx, archivePrefix)
}

func cancelledLabel(cancelled bool) string {
	if cancelled {
		return "Sí"
	}
	return "No"
}
