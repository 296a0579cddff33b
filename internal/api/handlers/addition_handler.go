package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jpcardenas/heladeria-pos/internal/domain"
	"github.com/jpcardenas/heladeria-pos/internal/service"
)

type AdditionHandler struct {
	service *service.AdditionService
}

func NewAdditionHandler(service *service.AdditionService) *AdditionHandler {
	return &AdditionHandler{service: service}
}

type additionRequest struct {
	Name     string  `json:"name" binding:"required"`
	Kind     string  `json:"kind" binding:"required"`
	Price    float64 `json:"price" binding:"required"`
	Stock    int     `json:"stock"`
	MinStock int     `json:"min_stock"`
	Status   string  `json:"status"`
}

func (r additionRequest) toDomain() *domain.Addition {
	return &domain.Addition{
		Name:     r.Name,
		Kind:     r.Kind,
		Price:    r.Price,
		Stock:    r.Stock,
		MinStock: r.MinStock,
		Status:   r.Status,
	}
}

func (h *AdditionHandler) Create(c *gin.Context) {
	var req additionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "name, kind and price are required")
		return
	}

	a, err := h.service.Create(c.Request.Context(), req.toDomain())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

func (h *AdditionHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		badRequest(c, "invalid addition id")
		return
	}

	a, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *AdditionHandler) List(c *gin.Context) {
	lowOnly := c.Query("low_stock") == "true"
	additions, err := h.service.List(c.Request.Context(), c.Query("search"), lowOnly)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"additions": additions})
}

func (h *AdditionHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		badRequest(c, "invalid addition id")
		return
	}

	var req additionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "name, kind and price are required")
		return
	}

	a := req.toDomain()
	a.ID = id
	updated, err := h.service.Update(c.Request.Context(), a)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *AdditionHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		badRequest(c, "invalid addition id")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
