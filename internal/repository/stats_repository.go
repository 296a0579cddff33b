// internal/repository/stats_repository.go
package repository

import (
	"context"
	"time"

	"github.com/jpcardenas/heladeria-pos/internal/domain"
)

// StatsRepository serves the reporting queries. These are lock-free
// snapshot reads; they never mutate ledger state.
type StatsRepository interface {
	SalesToday(ctx context.Context) (revenue float64, count int, err error)
	TopProducts(ctx context.Context, limit int, from, to time.Time) ([]domain.TopProduct, error)
	PaymentBreakdown(ctx context.Context, from, to time.Time) ([]domain.PaymentBreakdown, error)
	DailyRevenue(ctx context.Context, days int) ([]domain.DailyRevenue, error)
}
