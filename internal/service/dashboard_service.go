// internal/service/dashboard_service.go
package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jpcardenas/heladeria-pos/internal/cache"
	"github.com/jpcardenas/heladeria-pos/internal/domain"
	"github.com/jpcardenas/heladeria-pos/internal/repository"
)

// DashboardService assembles the landing-page snapshot and serves the
// reporting queries. Snapshot reads go through the cache; a cache
// failure degrades to a live computation, never to an error.
type DashboardService struct {
	stats       repository.StatsRepository
	ingredients repository.IngredientRepository
	stock       *StockService
	cache       cache.DashboardCache
}

func NewDashboardService(
	stats repository.StatsRepository,
	ingredients repository.IngredientRepository,
	stock *StockService,
	dashCache cache.DashboardCache,
) *DashboardService {
	return &DashboardService{stats: stats, ingredients: ingredients, stock: stock, cache: dashCache}
}

// Summary returns today's revenue and invoice count plus the derived
// stock buckets and the count of ingredients at or below threshold.
func (s *DashboardService) Summary(ctx context.Context) (*domain.DashboardSummary, error) {
	if cached, ok, err := s.cache.GetSummary(ctx); err != nil {
		log.Warn().Err(err).Msg("dashboard: cache read failed")
	} else if ok {
		return cached, nil
	}

	revenue, count, err := s.stats.SalesToday(ctx)
	if err != nil {
		return nil, err
	}

	stockSummary, err := s.stock.Summary(ctx, DefaultLowStockThreshold)
	if err != nil {
		return nil, err
	}

	low, err := s.ingredients.List(ctx, "", true)
	if err != nil {
		return nil, err
	}

	summary := &domain.DashboardSummary{
		RevenueToday:   revenue,
		InvoicesToday:  count,
		Stock:          *stockSummary,
		LowIngredients: len(low),
	}

	if err := s.cache.SetSummary(ctx, summary); err != nil {
		log.Warn().Err(err).Msg("dashboard: cache write failed")
	}

	return summary, nil
}

// StockSummary is the cached variant of the stock bucket counts.
func (s *DashboardService) StockSummary(ctx context.Context) (*domain.StockSummary, error) {
	if cached, ok, err := s.cache.GetStockSummary(ctx); err != nil {
		log.Warn().Err(err).Msg("dashboard: cache read failed")
	} else if ok {
		return cached, nil
	}

	summary, err := s.stock.Summary(ctx, DefaultLowStockThreshold)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetStockSummary(ctx, summary); err != nil {
		log.Warn().Err(err).Msg("dashboard: cache write failed")
	}

	return summary, nil
}

// TopProducts ranks best sellers over the window ending now.
func (s *DashboardService) TopProducts(ctx context.Context, limit, days int) ([]domain.TopProduct, error) {
	if limit <= 0 {
		limit = 10
	}
	if days <= 0 {
		days = 30
	}
	to := time.Now()
	from := to.AddDate(0, 0, -days)
	return s.stats.TopProducts(ctx, limit, from, to)
}

// PaymentBreakdown aggregates revenue per payment method over the window.
func (s *DashboardService) PaymentBreakdown(ctx context.Context, days int) ([]domain.PaymentBreakdown, error) {
	if days <= 0 {
		days = 30
	}
	to := time.Now()
	from := to.AddDate(0, 0, -days)
	return s.stats.PaymentBreakdown(ctx, from, to)
}

// DailyRevenue returns the last n days of revenue, one row per day.
func (s *DashboardService) DailyRevenue(ctx context.Context, days int) ([]domain.DailyRevenue, error) {
	if days <= 0 {
		days = 14
	}
	return s.stats.DailyRevenue(ctx, days)
}
