package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"shelfhub/internal/httpapi/dto"
	"shelfhub/internal/httpapi/middleware"
	"shelfhub/internal/httpapi/models"
	"shelfhub/internal/httpapi/service"

	"github.com/gin-gonic/gin"
)

type CategoryHandler struct {
	svc service.CategoryService
}

func NewCategoryHandler(svc service.CategoryService) *CategoryHandler {
	return &CategoryHandler{svc: svc}
}

func (h *CategoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/", h.List)
	rg.POST("/", middleware.RequireRoles(models.RoleAdmin, models.RoleLibrarian), h.Create)
	rg.PUT("/:id", middleware.RequireRoles(models.RoleAdmin, models.RoleLibrarian), h.Update)
	rg.DELETE("/:id", middleware.RequireRoles(models.RoleAdmin, models.RoleLibrarian), h.Delete)
}

func (h *CategoryHandler) List(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	categories, err := h.svc.GetAll(ctx)
	if err != nil {
		respondError(c, err)
		return
	}

	items := make([]dto.CategoryResponse, 0, len(categories))
	for _, category := range categories {
		items = append(items, dto.CategoryFromModel(category))
	}
	c.JSON(http.StatusOK, items)
}

func (h *CategoryHandler) Create(c *gin.Context) {
	actor, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req dto.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	category := &models.Category{
		Name:        req.Name,
		Description: req.Description,
	}
	if err := h.svc.Create(ctx, actor, category); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.CategoryFromModel(*category))
}

func (h *CategoryHandler) Update(c *gin.Context) {
	actor, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category id"})
		return
	}

	var req dto.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	category := &models.Category{
		Name:        req.Name,
		Description: req.Description,
	}
	if err := h.svc.Update(ctx, actor, id, category); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.CategoryFromModel(*category))
}

func (h *CategoryHandler) Delete(c *gin.Context) {
	actor, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.Delete(ctx, actor, id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
