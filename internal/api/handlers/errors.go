package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/jpcardenas/heladeria-pos/internal/domain"
	"github.com/jpcardenas/heladeria-pos/internal/service"
)

// writeError maps domain errors onto HTTP statuses. Shortfall detail is
// included for validation failures so the frontend can tell the cashier
// exactly what ran out.
func writeError(c *gin.Context, err error) {
	if ve, ok := domain.AsValidationError(err); ok {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":      ve.Error(),
			"shortfalls": ve.Shortfalls,
		})
		return
	}
	if re, ok := domain.AsReferentialError(err); ok {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":         re.Error(),
			"ingredient_id": re.IngredientID,
		})
		return
	}

	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, domain.ErrInvalidState):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrConcurrencyConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "concurrent update, retry the operation"})
	case errors.Is(err, domain.ErrIntegrity):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrBadCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	default:
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": message})
}
