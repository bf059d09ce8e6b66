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

type ResourceHandler struct {
	svc service.ResourceService
}

func NewResourceHandler(svc service.ResourceService) *ResourceHandler {
	return &ResourceHandler{svc: svc}
}

// RegisterRoutes wires lab/room management and slot booking. Booking is
// teacher/admin territory; resource CRUD stays with admin/librarian.
func (h *ResourceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	bookers := middleware.RequireRoles(models.RoleAdmin, models.RoleTeacher)
	rg.GET("/", bookers, h.List)
	rg.GET("/occupancy", bookers, h.DayGrid)
	rg.POST("/reservations", bookers, h.Reserve)
	rg.GET("/reservations/mine", bookers, h.ListMine)
	rg.DELETE("/reservations/:id", h.CancelReservation)

	admins := middleware.RequireRoles(models.RoleAdmin, models.RoleLibrarian)
	rg.POST("/", admins, h.Create)
	rg.PUT("/:id", admins, h.Update)
	rg.DELETE("/:id", admins, h.Delete)
}

func (h *ResourceHandler) List(c *gin.Context) {
	actor, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	resources, err := h.svc.ListResources(ctx, actor)
	if err != nil {
		respondError(c, err)
		return
	}

	items := make([]dto.ResourceResponse, 0, len(resources))
	for _, resource := range resources {
		items = append(items, dto.ResourceFromModel(resource))
	}
	c.JSON(http.StatusOK, items)
}

func (h *ResourceHandler) Create(c *gin.Context) {
	actor, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req dto.CreateResourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	resource := &models.Resource{
		Name:        req.Name,
		Type:        req.Type,
		Description: req.Description,
		Capacity:    req.Capacity,
	}
	if err := h.svc.CreateResource(ctx, actor, resource); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ResourceFromModel(*resource))
}

func (h *ResourceHandler) Update(c *gin.Context) {
	actor, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid resource id"})
		return
	}

	var req dto.CreateResourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	resource := &models.Resource{
		Name:        req.Name,
		Type:        req.Type,
		Description: req.Description,
		Capacity:    req.Capacity,
	}
	if err := h.svc.UpdateResource(ctx, actor, id, resource); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ResourceFromModel(*resource))
}

func (h *ResourceHandler) Delete(c *gin.Context) {
	actor, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid resource id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.DeleteResource(ctx, actor, id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *ResourceHandler) Reserve(c *gin.Context) {
	actor, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req dto.CreateResourceReservationRequest
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

	reservation, err := h.svc.Reserve(ctx, actor, req.ResourceID, date, req.Period)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ResourceReservationFromModel(*reservation))
}

func (h *ResourceHandler) CancelReservation(c *gin.Context) {
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

	if err := h.svc.CancelReservation(ctx, actor, id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *ResourceHandler) ListMine(c *gin.Context) {
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

	items := make([]dto.ResourceReservationResponse, 0, len(reservations))
	for _, reservation := range reservations {
		items = append(items, dto.ResourceReservationFromModel(reservation))
	}
	c.JSON(http.StatusOK, items)
}

// DayGrid returns the occupancy map for one date, served from the
// cache when warm.
func (h *ResourceHandler) DayGrid(c *gin.Context) {
	actor, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	dateStr := c.DefaultQuery("date", time.Now().Format(dto.DateLayout))
	date, err := dto.ParseDate(dateStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	grid, err := h.svc.DayGrid(ctx, actor, date)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.DayGridResponse{
		Date:     date.Format(dto.DateLayout),
		Occupied: grid,
	})
}
