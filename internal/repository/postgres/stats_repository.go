// internal/repository/postgres/stats_repository.go
package postgres

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jpcardenas/heladeria-pos/internal/domain"
)

type statsRepository struct {
	db *DB
}

func NewStatsRepository(db *DB) *statsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) SalesToday(ctx context.Context) (float64, int, error) {
	query := `
		SELECT COALESCE(SUM(total_amount), 0), COUNT(*)
		FROM invoices
		WHERE invoice_date >= date_trunc('day', NOW())
		  AND is_cancelled = FALSE
	`

	var (
		revenue float64
		count   int
	)
	if err := r.db.QueryRowContext(ctx, query).Scan(&revenue, &count); err != nil {
		return 0, 0, mapError(err, "failed to get today's sales")
	}

	return revenue, count, nil
}

func (r *statsRepository) TopProducts(ctx context.Context, limit int, from, to time.Time) ([]domain.TopProduct, error) {
	if limit <= 0 {
		limit = 10
	}

	query := `
		SELECT ii.product_name,
		       ii.product_variant,
		       SUM(ii.quantity) AS quantity_sold,
		       SUM(ii.subtotal) AS revenue
		FROM invoice_items ii
		JOIN invoices i ON ii.invoice_id = i.id
		WHERE i.invoice_date >= $1 AND i.invoice_date < $2
		  AND i.is_cancelled = FALSE
		GROUP BY ii.product_name, ii.product_variant
		ORDER BY quantity_sold DESC
		LIMIT $3
	`

	var rows []domain.TopProduct
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, from, to, limit); err != nil {
		return nil, mapError(err, "failed to get top products")
	}

	return rows, nil
}

func (r *statsRepository) PaymentBreakdown(ctx context.Context, from, to time.Time) ([]domain.PaymentBreakdown, error) {
	query := `
		SELECT payment_method, COUNT(*) AS count, COALESCE(SUM(total_amount), 0) AS total
		FROM invoices
		WHERE invoice_date >= $1 AND invoice_date < $2
		  AND is_cancelled = FALSE
		GROUP BY payment_method
		ORDER BY count DESC
	`

	var rows []domain.PaymentBreakdown
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, from, to); err != nil {
		return nil, mapError(err, "failed to get payment breakdown")
	}

	return rows, nil
}

func (r *statsRepository) DailyRevenue(ctx context.Context, days int) ([]domain.DailyRevenue, error) {
	if days <= 0 {
		days = 30
	}

	query := `
		SELECT TO_CHAR(date_trunc('day', invoice_date), 'YYYY-MM-DD') AS date,
		       COALESCE(SUM(total_amount), 0) AS revenue,
		       COUNT(*) AS count
		FROM invoices
		WHERE invoice_date >= date_trunc('day', NOW()) - ($1 || ' days')::interval
		  AND is_cancelled = FALSE
		GROUP BY date_trunc('day', invoice_date)
		ORDER BY date
	`

	var rows []domain.DailyRevenue
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, days); err != nil {
		return nil, mapError(err, "failed to get daily revenue")
	}

	return rows, nil
}
