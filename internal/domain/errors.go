package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound covers absent ingredients, products, recipes and invoices.
	ErrNotFound = errors.New("not found")

	// ErrInvalidState marks a transition the record cannot make, e.g.
	// cancelling an already-cancelled invoice.
	ErrInvalidState = errors.New("invalid state")

	// ErrConcurrencyConflict is returned when a commit loses a row-lock
	// race. Callers may retry the whole sale.
	ErrConcurrencyConflict = errors.New("concurrency conflict")

	// ErrIntegrity wraps unique-key violations (duplicate ingredient or
	// category name, duplicate invoice number) without exposing SQL.
	ErrIntegrity = errors.New("integrity violation")

	// ErrInvalidInput marks caller mistakes in submitted data: missing
	// required fields, non-positive quantities, blank cancellation
	// reasons. Handlers map it to a client error, never a server one.
	ErrInvalidInput = errors.New("invalid input")
)

// IngredientShortfall describes one insufficient ingredient, with enough
// detail for the frontend to render a user-facing message.
type IngredientShortfall struct {
	IngredientID int64   `json:"ingredient_id"`
	Name         string  `json:"name"`
	Unit         string  `json:"unit"`
	Required     float64 `json:"required"`
	Available    float64 `json:"available"`
}

// ValidationError means a sale cannot be satisfied by current
// ingredient availability. It carries the aggregated per-ingredient
// shortfalls across every line item of the sale.
type ValidationError struct {
	Shortfalls []IngredientShortfall
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Shortfalls))
	for _, s := range e.Shortfalls {
		names = append(names, fmt.Sprintf("%s (need %.2f %s, have %.2f)", s.Name, s.Required, s.Unit, s.Available))
	}
	return "insufficient ingredient stock: " + strings.Join(names, ", ")
}

// ReferentialError rejects a recipe submission that points at an
// ingredient the ledger does not know.
type ReferentialError struct {
	IngredientID int64
}

func (e *ReferentialError) Error() string {
	return fmt.Sprintf("ingredient %d does not exist", e.IngredientID)
}

// AsValidationError unwraps err into a *ValidationError if it is one.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// AsReferentialError unwraps err into a *ReferentialError if it is one.
func AsReferentialError(err error) (*ReferentialError, bool) {
	var re *ReferentialError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}
