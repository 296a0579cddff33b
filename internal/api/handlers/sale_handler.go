package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jpcardenas/heladeria-pos/internal/api/middleware"
	"github.com/jpcardenas/heladeria-pos/internal/domain"
	"github.com/jpcardenas/heladeria-pos/internal/service"
)

type SaleHandler struct {
	service *service.SaleService
}

func NewSaleHandler(service *service.SaleService) *SaleHandler {
	return &SaleHandler{service: service}
}

type saleRequest struct {
	domain.InvoiceMeta
	Items []domain.SaleLine `json:"items" binding:"required"`
}

// Validate dry-runs a sale against current ingredient availability.
func (h *SaleHandler) Validate(c *gin.Context) {
	var req saleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "items are required")
		return
	}

	if err := h.service.Validate(c.Request.Context(), req.Items); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": true})
}

// Commit processes the sale atomically. A shortfall returns 422 with
// per-ingredient detail and persists nothing.
func (h *SaleHandler) Commit(c *gin.Context) {
	var req saleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "items are required")
		return
	}

	seller := middleware.PrincipalFrom(c)
	invoice, err := h.service.Commit(c.Request.Context(), req.InvoiceMeta, req.Items, seller)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, invoice)
}

type cancelRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// Cancel reverses a committed invoice. Cancelling twice returns 409.
func (h *SaleHandler) Cancel(c *gin.Context) {
	var req cancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "a cancellation reason is required")
		return
	}

	invoice, err := h.service.Cancel(c.Request.Context(), c.Param("number"), req.Reason)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoice)
}

func (h *SaleHandler) Get(c *gin.Context) {
	invoice, err := h.service.GetByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoice)
}

// List returns invoices in a date range, defaulting to the last 7 days.
func (h *SaleHandler) List(c *gin.Context) {
	to := time.Now()
	from := to.AddDate(0, 0, -7)

	if v := c.Query("from"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			badRequest(c, "from must be YYYY-MM-DD")
			return
		}
		from = parsed
	}
	if v := c.Query("to"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			badRequest(c, "to must be YYYY-MM-DD")
			return
		}
		// Include the whole end day.
		to = parsed.AddDate(0, 0, 1)
	}

	invoices, err := h.service.ListByDateRange(c.Request.Context(), from, to)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"invoices": invoices})
}
