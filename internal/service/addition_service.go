// internal/service/addition_service.go
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/jpcardenas/heladeria-pos/internal/domain"
	"github.com/jpcardenas/heladeria-pos/internal/repository"
)

// AdditionService manages the toppings catalog. Additions are counted
// stock sold on top of products; they never touch the ingredient
// ledger or the recipe table.
type AdditionService struct {
	additions repository.AdditionRepository
}

func NewAdditionService(additions repository.AdditionRepository) *AdditionService {
	return &AdditionService{additions: additions}
}

func validateAddition(a *domain.Addition) error {
	a.Name = strings.TrimSpace(a.Name)
	a.Kind = strings.TrimSpace(a.Kind)
	a.Status = strings.TrimSpace(a.Status)
	switch {
	case a.Name == "":
		return fmt.Errorf("addition name is required: %w", domain.ErrInvalidInput)
	case a.Kind == "":
		return fmt.Errorf("addition kind is required: %w", domain.ErrInvalidInput)
	case a.Price <= 0:
		return fmt.Errorf("addition price must be positive: %w", domain.ErrInvalidInput)
	case a.Stock < 0:
		return fmt.Errorf("addition stock cannot be negative: %w", domain.ErrInvalidInput)
	case a.MinStock < 0:
		return fmt.Errorf("addition minimum stock cannot be negative: %w", domain.ErrInvalidInput)
	}
	if a.Status == "" {
		a.Status = domain.DefaultAdditionStatus
	}
	return nil
}

func (s *AdditionService) Create(ctx context.Context, a *domain.Addition) (*domain.Addition, error) {
	if err := validateAddition(a); err != nil {
		return nil, err
	}

	id, err := s.additions.Create(ctx, a)
	if err != nil {
		return nil, err
	}

	log.Info().Int64("id", id).Str("name", a.Name).Msg("addition created")
	return s.additions.GetByID(ctx, id)
}

func (s *AdditionService) Get(ctx context.Context, id int64) (*domain.Addition, error) {
	return s.additions.GetByID(ctx, id)
}

// List filters by name or kind and, optionally, only additions whose
// stock has fallen to their minimum.
func (s *AdditionService) List(ctx context.Context, search string, lowStockOnly bool) ([]domain.Addition, error) {
	return s.additions.List(ctx, strings.TrimSpace(search), lowStockOnly)
}

func (s *AdditionService) Update(ctx context.Context, a *domain.Addition) (*domain.Addition, error) {
	if err := validateAddition(a); err != nil {
		return nil, err
	}
	if err := s.additions.Update(ctx, a); err != nil {
		return nil, err
	}
	return s.additions.GetByID(ctx, a.ID)
}

func (s *AdditionService) Delete(ctx context.Context, id int64) error {
	return s.additions.Delete(ctx, id)
}
