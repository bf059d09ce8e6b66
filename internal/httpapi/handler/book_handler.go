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

type BookHandler struct {
	svc service.BookService
}

func NewBookHandler(svc service.BookService) *BookHandler {
	return &BookHandler{svc: svc}
}

// RegisterRoutes wires the catalog endpoints. Reads are open to any
// authenticated member; writes are gated to admin/librarian at the
// route level and again inside the service.
func (h *BookHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/", h.List)
	rg.GET("/:id", h.Get)
	rg.POST("/", middleware.RequireRoles(models.RoleAdmin, models.RoleLibrarian), h.Create)
	rg.PUT("/:id", middleware.RequireRoles(models.RoleAdmin, models.RoleLibrarian), h.Update)
	rg.DELETE("/:id", middleware.RequireRoles(models.RoleAdmin, models.RoleLibrarian), h.Delete)
}

// List books with optional category/search filters and pagination
func (h *BookHandler) List(c *gin.Context) {
	categoryID, _ := strconv.ParseInt(c.Query("category_id"), 10, 64)
	search := c.Query("search")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	books, total, err := h.svc.List(ctx, categoryID, search, page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	items := make([]dto.BookResponse, 0, len(books))
	for _, book := range books {
		items = append(items, dto.BookFromModel(book))
	}

	c.JSON(http.StatusOK, dto.BookListResponse{
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

func (h *BookHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid book id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	book, err := h.svc.Get(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.BookFromModel(*book))
}

func (h *BookHandler) Create(c *gin.Context) {
	actor, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req dto.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	book := &models.Book{
		Title:           req.Title,
		Author:          req.Author,
		ISBN:            req.ISBN,
		PublicationYear: req.PublicationYear,
		Description:     req.Description,
		CategoryID:      req.CategoryID,
	}
	if err := h.svc.Create(ctx, actor, book); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.BookFromModel(*book))
}

func (h *BookHandler) Update(c *gin.Context) {
	actor, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid book id"})
		return
	}

	var req dto.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	book := &models.Book{
		Title:           req.Title,
		Author:          req.Author,
		ISBN:            req.ISBN,
		PublicationYear: req.PublicationYear,
		Description:     req.Description,
		CategoryID:      req.CategoryID,
	}
	if err := h.svc.Update(ctx, actor, id, book); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.BookFromModel(*book))
}

func (h *BookHandler) Delete(c *gin.Context) {
	actor, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid book id"})
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
