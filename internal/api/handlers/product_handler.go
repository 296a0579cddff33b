package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jpcardenas/heladeria-pos/internal/domain"
	"github.com/jpcardenas/heladeria-pos/internal/service"
)

type ProductHandler struct {
	service *service.ProductService
	recipes *service.RecipeService
}

func NewProductHandler(service *service.ProductService, recipes *service.RecipeService) *ProductHandler {
	return &ProductHandler{service: service, recipes: recipes}
}

type productRequest struct {
	Name          string  `json:"name" binding:"required"`
	Variant       string  `json:"variant"`
	Price         float64 `json:"price"`
	CategoryID    int64   `json:"category_id"`
	StockQuantity *int    `json:"stock_quantity"`
	MinStock      int     `json:"min_stock"`
}

func (r productRequest) toDomain() *domain.Product {
	p := &domain.Product{
		Name:          r.Name,
		Price:         r.Price,
		MinStock:      r.MinStock,
		IsActive:      true,
		StockQuantity: domain.OnDemandStock,
	}
	if r.Variant != "" {
		p.Variant.String = r.Variant
		p.Variant.Valid = true
	}
	if r.CategoryID > 0 {
		p.CategoryID.Int64 = r.CategoryID
		p.CategoryID.Valid = true
	}
	if r.StockQuantity != nil {
		p.StockQuantity = *r.StockQuantity
	}
	return p
}

func (h *ProductHandler) Create(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "product name is required")
		return
	}

	p, err := h.service.Create(c.Request.Context(), req.toDomain())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *ProductHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		badRequest(c, "invalid product id")
		return
	}

	p, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProductHandler) List(c *gin.Context) {
	activeOnly := c.DefaultQuery("active", "true") == "true"
	products, err := h.service.List(c.Request.Context(), c.Query("search"), activeOnly)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

func (h *ProductHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		badRequest(c, "invalid product id")
		return
	}

	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "product name is required")
		return
	}

	p := req.toDomain()
	p.ID = id
	updated, err := h.service.Update(c.Request.Context(), p)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *ProductHandler) Deactivate(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		badRequest(c, "invalid product id")
		return
	}

	if err := h.service.Deactivate(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ProductHandler) GetRecipe(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		badRequest(c, "invalid product id")
		return
	}

	recipe, err := h.recipes.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipe": recipe})
}

type recipeRequest struct {
	Entries []domain.RecipeSubmission `json:"entries"`
}

// SetRecipe replaces the product's recipe atomically. An empty entries
// list clears it.
func (h *ProductHandler) SetRecipe(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		badRequest(c, "invalid product id")
		return
	}

	var req recipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "entries must be a list of ingredient quantities")
		return
	}

	recipe, err := h.recipes.Set(c.Request.Context(), id, req.Entries)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipe": recipe})
}

type categoryRequest struct {
	Name string `json:"name" binding:"required"`
}

func (h *ProductHandler) CreateCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "category name is required")
		return
	}

	id, err := h.service.CreateCategory(c.Request.Context(), req.Name)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *ProductHandler) ListCategories(c *gin.Context) {
	categories, err := h.service.ListCategories(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

func (h *ProductHandler) DeleteCategory(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		badRequest(c, "invalid category id")
		return
	}

	if err := h.service.DeleteCategory(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
