package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jpcardenas/heladeria-pos/internal/domain"
	"github.com/jpcardenas/heladeria-pos/internal/service"
)

type IngredientHandler struct {
	service *service.IngredientService
}

func NewIngredientHandler(service *service.IngredientService) *IngredientHandler {
	return &IngredientHandler{service: service}
}

type ingredientRequest struct {
	Name          string  `json:"name" binding:"required"`
	Unit          string  `json:"unit" binding:"required"`
	TotalQuantity float64 `json:"total_quantity"`
	PackagePrice  float64 `json:"package_price"`
	MinThreshold  float64 `json:"min_threshold"`
	QtyPerProduct float64 `json:"qty_per_product"`
	ReferenceNote string  `json:"reference_note"`
}

func (r ingredientRequest) toDomain() *domain.Ingredient {
	ing := &domain.Ingredient{
		Name:          r.Name,
		Unit:          r.Unit,
		TotalQuantity: r.TotalQuantity,
		PackagePrice:  r.PackagePrice,
		MinThreshold:  r.MinThreshold,
		QtyPerProduct: r.QtyPerProduct,
	}
	if r.ReferenceNote != "" {
		ing.ReferenceNote.String = r.ReferenceNote
		ing.ReferenceNote.Valid = true
	}
	return ing
}

func (h *IngredientHandler) Create(c *gin.Context) {
	var req ingredientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "name and unit are required")
		return
	}

	ing, err := h.service.Create(c.Request.Context(), req.toDomain())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ing)
}

func (h *IngredientHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		badRequest(c, "invalid ingredient id")
		return
	}

	ing, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ing)
}

func (h *IngredientHandler) List(c *gin.Context) {
	lowOnly := c.Query("low_stock") == "true"
	ingredients, err := h.service.List(c.Request.Context(), c.Query("search"), lowOnly)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ingredients": ingredients})
}

func (h *IngredientHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		badRequest(c, "invalid ingredient id")
		return
	}

	var req ingredientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "name and unit are required")
		return
	}

	ing := req.toDomain()
	ing.ID = id
	updated, err := h.service.Update(c.Request.Context(), ing)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *IngredientHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		badRequest(c, "invalid ingredient id")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type restockRequest struct {
	Quantity float64 `json:"quantity" binding:"required"`
}

// Restock registers a purchase of more of the ingredient's presentation.
func (h *IngredientHandler) Restock(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		badRequest(c, "invalid ingredient id")
		return
	}

	var req restockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "quantity is required")
		return
	}

	ing, err := h.service.Restock(c.Request.Context(), id, req.Quantity)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ing)
}

func pathID(c *gin.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}
