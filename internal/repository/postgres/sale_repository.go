// internal/repository/postgres/sale_repository.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jpcardenas/heladeria-pos/internal/domain"
	"github.com/jpcardenas/heladeria-pos/internal/repository"
)

type saleRepository struct {
	db *DB
}

func NewSaleRepository(db *DB) *saleRepository {
	return &saleRepository{db: db}
}

// CommitSale writes one sale as a single unit of work. Ingredient rows
// are locked in ascending id order and the aggregated requirements are
// re-checked under the lock, so two concurrent sales can never both
// pass validation against the same stale availability.
func (r *saleRepository) CommitSale(ctx context.Context, invoice *domain.Invoice, requirements []repository.IngredientRequirement) (int64, error) {
	reqs := make([]repository.IngredientRequirement, len(requirements))
	copy(reqs, requirements)
	sort.Slice(reqs, func(i, j int) bool { return reqs[i].IngredientID < reqs[j].IngredientID })

	var invoiceID int64
	err := r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		shortfalls, err := lockAndCheck(ctx, tx, reqs)
		if err != nil {
			return err
		}
		if len(shortfalls) > 0 {
			return &domain.ValidationError{Shortfalls: shortfalls}
		}

		invoiceID, err = insertInvoice(ctx, tx, invoice)
		if err != nil {
			return err
		}

		for i := range invoice.Items {
			item := &invoice.Items[i]
			item.InvoiceID = invoiceID
			if err := insertInvoiceItem(ctx, tx, item); err != nil {
				return err
			}

			// Decrement counted product stock, clamped at zero; the
			// on-demand sentinel (-1) is left untouched.
			if item.ProductID.Valid {
				_, err := tx.ExecContext(ctx, `
					UPDATE products
					SET stock_quantity = GREATEST(stock_quantity - $2, 0)
					WHERE id = $1 AND stock_quantity >= 0
				`, item.ProductID.Int64, item.Quantity)
				if err != nil {
					return mapError(err, "failed to decrement product stock")
				}
			}
		}

		for _, req := range reqs {
			_, err := tx.ExecContext(ctx, `
				UPDATE ingredients
				SET consumed_quantity = consumed_quantity + $2
				WHERE id = $1
			`, req.IngredientID, req.Quantity)
			if err != nil {
				return mapError(err, "failed to record consumption")
			}
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return invoiceID, nil
}

// lockAndCheck takes FOR UPDATE locks on every required ingredient and
// compares availability against the aggregated requirement. Callers
// must pass requirements sorted by ingredient id to keep the lock order
// deterministic across concurrent commits.
func lockAndCheck(ctx context.Context, tx *sqlx.Tx, reqs []repository.IngredientRequirement) ([]domain.IngredientShortfall, error) {
	var shortfalls []domain.IngredientShortfall
	for _, req := range reqs {
		var (
			name, unit string
			available  float64
		)
		err := tx.QueryRowContext(ctx, `
			SELECT name, unit, total_quantity - consumed_quantity
			FROM ingredients
			WHERE id = $1
			FOR UPDATE
		`, req.IngredientID).Scan(&name, &unit, &available)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, fmt.Errorf("ingredient %d: %w", req.IngredientID, domain.ErrNotFound)
			}
			return nil, mapError(err, "failed to lock ingredient")
		}

		if available < req.Quantity {
			shortfalls = append(shortfalls, domain.IngredientShortfall{
				IngredientID: req.IngredientID,
				Name:         name,
				Unit:         unit,
				Required:     req.Quantity,
				Available:    available,
			})
		}
	}

	return shortfalls, nil
}

func insertInvoice(ctx context.Context, tx *sqlx.Tx, inv *domain.Invoice) (int64, error) {
	query := `
		INSERT INTO invoices (
			invoice_number, invoice_date, client_name, client_phone,
			seller_username, subtotal, delivery_fee, total_amount,
			amount_paid, change_returned, payment_method, payment_reference, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`

	var id int64
	err := tx.QueryRowContext(ctx, query,
		inv.InvoiceNumber,
		inv.InvoiceDate,
		inv.ClientName,
		inv.ClientPhone,
		inv.SellerUsername,
		inv.Subtotal,
		inv.DeliveryFee,
		inv.TotalAmount,
		inv.AmountPaid,
		inv.ChangeReturned,
		inv.PaymentMethod,
		inv.PaymentReference,
		inv.Notes,
	).Scan(&id)
	if err != nil {
		return 0, mapError(err, "failed to insert invoice")
	}

	return id, nil
}

func insertInvoiceItem(ctx context.Context, tx *sqlx.Tx, item *domain.InvoiceItem) error {
	query := `
		INSERT INTO invoice_items (
			invoice_id, product_id, product_name, product_variant,
			quantity, unit_price, subtotal
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	err := tx.QueryRowContext(ctx, query,
		item.InvoiceID,
		item.ProductID,
		item.ProductName,
		item.ProductVariant,
		item.Quantity,
		item.UnitPrice,
		item.Subtotal,
	).Scan(&item.ID)
	if err != nil {
		return mapError(err, "failed to insert invoice item")
	}

	return nil
}

// CancelInvoice is the exact inverse of CommitSale: it reverses every
// recorded consumption (clamped at zero), restores counted product
// stock, and marks the invoice cancelled. A second cancellation is an
// ErrInvalidState, never a double reversal.
func (r *saleRepository) CancelInvoice(ctx context.Context, invoiceNumber, reason string) (*domain.Invoice, error) {
	var cancelled *domain.Invoice
	err := r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		var inv domain.Invoice
		err := sqlx.GetContext(ctx, tx, &inv, `
			SELECT id, invoice_number, invoice_date, client_name, client_phone,
			       seller_username, subtotal, delivery_fee, total_amount,
			       amount_paid, change_returned, payment_method, payment_reference,
			       notes, is_cancelled, cancellation_reason, cancelled_at, created_at
			FROM invoices
			WHERE invoice_number = $1
			FOR UPDATE
		`, invoiceNumber)
		if err != nil {
			return mapError(err, "failed to load invoice")
		}
		if inv.IsCancelled {
			return fmt.Errorf("invoice %s is already cancelled: %w", invoiceNumber, domain.ErrInvalidState)
		}

		items, err := loadInvoiceItems(ctx, tx, inv.ID)
		if err != nil {
			return err
		}
		inv.Items = items

		reversals, err := aggregateReversals(ctx, tx, items)
		if err != nil {
			return err
		}

		for _, rev := range reversals {
			_, err := tx.ExecContext(ctx, `
				UPDATE ingredients
				SET consumed_quantity = GREATEST(consumed_quantity - $2, 0)
				WHERE id = $1
			`, rev.IngredientID, rev.Quantity)
			if err != nil {
				return mapError(err, "failed to reverse consumption")
			}
		}

		for _, item := range items {
			if item.ProductID.Valid {
				_, err := tx.ExecContext(ctx, `
					UPDATE products
					SET stock_quantity = stock_quantity + $2
					WHERE id = $1 AND stock_quantity >= 0
				`, item.ProductID.Int64, item.Quantity)
				if err != nil {
					return mapError(err, "failed to restore product stock")
				}
			}
		}

		now := time.Now()
		_, err = tx.ExecContext(ctx, `
			UPDATE invoices
			SET is_cancelled = TRUE, cancellation_reason = $2, cancelled_at = $3
			WHERE id = $1
		`, inv.ID, reason, now)
		if err != nil {
			return mapError(err, "failed to mark invoice cancelled")
		}

		inv.IsCancelled = true
		inv.CancellationReason = nullString(reason)
		inv.CancelledAt = sql.NullTime{Time: now, Valid: true}
		cancelled = &inv
		return nil
	})
	if err != nil {
		return nil, err
	}

	return cancelled, nil
}

// aggregateReversals folds the cancelled items' recipes into one delta
// per ingredient, sorted ascending so lock order matches CommitSale.
func aggregateReversals(ctx context.Context, tx *sqlx.Tx, items []domain.InvoiceItem) ([]repository.IngredientRequirement, error) {
	totals := make(map[int64]float64)
	for _, item := range items {
		if !item.ProductID.Valid {
			continue
		}

		var recipe []domain.RecipeItem
		err := sqlx.SelectContext(ctx, tx, &recipe, `
			SELECT id, product_id, ingredient_id, quantity
			FROM recipe_items
			WHERE product_id = $1
			ORDER BY ingredient_id
		`, item.ProductID.Int64)
		if err != nil {
			return nil, mapError(err, "failed to load recipe for reversal")
		}

		for _, entry := range recipe {
			totals[entry.IngredientID] += entry.Quantity * float64(item.Quantity)
		}
	}

	reversals := make([]repository.IngredientRequirement, 0, len(totals))
	for id, qty := range totals {
		reversals = append(reversals, repository.IngredientRequirement{IngredientID: id, Quantity: qty})
	}
	sort.Slice(reversals, func(i, j int) bool { return reversals[i].IngredientID < reversals[j].IngredientID })

	return reversals, nil
}

func (r *saleRepository) GetByNumber(ctx context.Context, invoiceNumber string) (*domain.Invoice, error) {
	var inv domain.Invoice
	err := sqlx.GetContext(ctx, r.db, &inv, `
		SELECT id, invoice_number, invoice_date, client_name, client_phone,
		       seller_username, subtotal, delivery_fee, total_amount,
		       amount_paid, change_returned, payment_method, payment_reference,
		       notes, is_cancelled, cancellation_reason, cancelled_at, created_at
		FROM invoices
		WHERE invoice_number = $1
	`, invoiceNumber)
	if err != nil {
		return nil, mapError(err, "failed to get invoice")
	}

	items, err := loadInvoiceItems(ctx, r.db, inv.ID)
	if err != nil {
		return nil, err
	}
	inv.Items = items

	return &inv, nil
}

func (r *saleRepository) ListByDateRange(ctx context.Context, from, to time.Time) ([]domain.Invoice, error) {
	var invoices []domain.Invoice
	err := sqlx.SelectContext(ctx, r.db, &invoices, `
		SELECT id, invoice_number, invoice_date, client_name, client_phone,
		       seller_username, subtotal, delivery_fee, total_amount,
		       amount_paid, change_returned, payment_method, payment_reference,
		       notes, is_cancelled, cancellation_reason, cancelled_at, created_at
		FROM invoices
		WHERE invoice_date >= $1 AND invoice_date < $2
		ORDER BY invoice_date DESC
	`, from, to)
	if err != nil {
		return nil, mapError(err, "failed to list invoices")
	}

	for i := range invoices {
		items, err := loadInvoiceItems(ctx, r.db, invoices[i].ID)
		if err != nil {
			return nil, err
		}
		invoices[i].Items = items
	}

	return invoices, nil
}

func loadInvoiceItems(ctx context.Context, q sqlx.QueryerContext, invoiceID int64) ([]domain.InvoiceItem, error) {
	var items []domain.InvoiceItem
	err := sqlx.SelectContext(ctx, q, &items, `
		SELECT id, invoice_id, product_id, product_name, product_variant,
		       quantity, unit_price, subtotal
		FROM invoice_items
		WHERE invoice_id = $1
		ORDER BY id
	`, invoiceID)
	if err != nil {
		return nil, mapError(err, "failed to load invoice items")
	}

	return items, nil
}
