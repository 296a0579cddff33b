package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jpcardenas/heladeria-pos/internal/service"
)

type StockHandler struct {
	stock     *service.StockService
	dashboard *service.DashboardService
}

func NewStockHandler(stock *service.StockService, dashboard *service.DashboardService) *StockHandler {
	return &StockHandler{stock: stock, dashboard: dashboard}
}

// GetLevels returns the producible units of every active product.
func (h *StockHandler) GetLevels(c *gin.Context) {
	levels, err := h.stock.AllStockLevels(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"levels": levels})
}

// GetProductDetail explains one product's derivation ingredient by
// ingredient, marking the limiting set.
func (h *StockHandler) GetProductDetail(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		badRequest(c, "invalid product id")
		return
	}

	detail, err := h.stock.ProductStockDetail(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// GetSummary returns the bucketed stock counts, served from cache when
// fresh.
func (h *StockHandler) GetSummary(c *gin.Context) {
	if threshold, err := strconv.Atoi(c.Query("threshold")); err == nil && threshold > 0 {
		summary, err := h.stock.Summary(c.Request.Context(), threshold)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, summary)
		return
	}

	summary, err := h.dashboard.StockSummary(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
