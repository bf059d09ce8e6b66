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

type ReservationHandler struct {
	svc service.ReservationService
}

func NewReservationHandler(svc service.ReservationService) *ReservationHandler {
	return &ReservationHandler{svc: svc}
}

// RegisterRoutes wires the book reservation lifecycle. Any member can
// create and list their own reservations; the admin transitions
// (approve/reject/return and the full listing) are librarian/admin only.
func (h *ReservationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/", h.Create)
	rg.GET("/mine", h.ListMine)
	rg.DELETE("/:id", h.Cancel)

	admins := middleware.RequireRoles(models.RoleAdmin, models.RoleLibrarian)
	rg.GET("/", admins, h.List)
	rg.PUT("/:id/approve", admins, h.Approve)
	rg.PUT("/:id/reject", admins, h.Reject)
	rg.PUT("/:id/return", admins, h.Return)
}

func (h *ReservationHandler) Create(c *gin.Context) {
	actor, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req dto.CreateBookReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	date, err := dto.ParseDate(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	reservation, err := h.svc.Create(ctx, actor, req.BookID, date)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ReservationFromModel(*reservation))
}

func (h *ReservationHandler) ListMine(c *gin.Context) {
	actor, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	reservations, err := h.svc.ListMine(ctx, actor)
	if err != nil {
		respondError(c, err)
		return
	}

	items := make([]dto.BookReservationResponse, 0, len(reservations))
	for _, reservation := range reservations {
		items = append(items, dto.ReservationFromModel(reservation))
	}
	c.JSON(http.StatusOK, items)
}

// List all reservations, optionally filtered by status
func (h *ReservationHandler) List(c *gin.Context) {
	actor, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	status := c.Query("status")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	reservations, total, err := h.svc.List(ctx, actor, status, page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	items := make([]dto.BookReservationResponse, 0, len(reservations))
	for _, reservation := range reservations {
		items = append(items, dto.ReservationFromModel(reservation))
	}
	c.JSON(http.StatusOK, dto.ReservationListResponse{
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

func (h *ReservationHandler) Approve(c *gin.Context) {
	h.transition(c, h.svc.Approve, "reservation approved")
}

func (h *ReservationHandler) Reject(c *gin.Context) {
	h.transition(c, h.svc.Reject, "reservation rejected")
}

func (h *ReservationHandler) Return(c *gin.Context) {
	h.transition(c, h.svc.Return, "book returned")
}

// transition runs one admin lifecycle step. A transition on a
// reservation that is not in the expected state reports not found, so
// repeating the same call cannot succeed twice.
func (h *ReservationHandler) transition(c *gin.Context, op func(context.Context, service.Identity, int64) error, message string) {
	actor, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid reservation id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := op(ctx, actor, id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": message})
}

func (h *ReservationHandler) Cancel(c *gin.Context) {
	actor, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid reservation id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.Cancel(ctx, actor, id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
