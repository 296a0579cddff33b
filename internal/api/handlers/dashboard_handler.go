package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jpcardenas/heladeria-pos/internal/service"
)

type DashboardHandler struct {
	service *service.DashboardService
}

func NewDashboardHandler(service *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

func (h *DashboardHandler) GetSummary(c *gin.Context) {
	summary, err := h.service.Summary(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *DashboardHandler) GetTopProducts(c *gin.Context) {
	limit := queryInt(c, "limit", 10)
	days := queryInt(c, "days", 30)

	products, err := h.service.TopProducts(c.Request.Context(), limit, days)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"top_products": products})
}

func (h *DashboardHandler) GetPaymentBreakdown(c *gin.Context) {
	days := queryInt(c, "days", 30)

	breakdown, err := h.service.PaymentBreakdown(c.Request.Context(), days)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payments": breakdown})
}

func (h *DashboardHandler) GetDailyRevenue(c *gin.Context) {
	days := queryInt(c, "days", 14)

	revenue, err := h.service.DailyRevenue(c.Request.Context(), days)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"daily_revenue": revenue})
}

func queryInt(c *gin.Context, name string, fallback int) int {
	if v, err := strconv.Atoi(c.Query(name)); err == nil && v > 0 {
		return v
	}
	return fallback
}
