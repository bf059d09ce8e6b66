package handler

import (
	"context"
	"net/http"
	"time"

	"shelfhub/internal/httpapi/dto"
	"shelfhub/internal/httpapi/middleware"
	"shelfhub/internal/httpapi/models"
	"shelfhub/internal/httpapi/service"

	"github.com/gin-gonic/gin"
)

// AdminHandler groups user administration, the dashboard summary and
// the borrowing rules under one admin surface.
type AdminHandler struct {
	users service.UserService
	rules service.RulesService
}

func NewAdminHandler(users service.UserService, rules service.RulesService) *AdminHandler {
	return &AdminHandler{users: users, rules: rules}
}

func (h *AdminHandler) RegisterRoutes(rg *gin.RouterGroup) {
	admins := middleware.RequireRoles(models.RoleAdmin, models.RoleLibrarian)
	rg.GET("/users", admins, h.ListUsers)
	rg.PUT("/users/:id", admins, h.UpdateUser)
	rg.DELETE("/users/:id", admins, h.DeleteUser)
	rg.GET("/dashboard", admins, h.Dashboard)
	rg.PUT("/rules", admins, h.UpdateRules)
}

// RegisterRulesRoutes exposes the read side of the borrowing rules to
// every authenticated member.
func (h *AdminHandler) RegisterRulesRoutes(rg *gin.RouterGroup) {
	rg.GET("/", h.GetRules)
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	actor, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	users, err := h.users.List(ctx, actor)
	if err != nil {
		respondError(c, err)
		return
	}

	items := make([]dto.UserResponse, 0, len(users))
	for _, user := range users {
		items = append(items, dto.UserFromModel(user))
	}
	c.JSON(http.StatusOK, items)
}

func (h *AdminHandler) UpdateUser(c *gin.Context) {
	actor, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	id := c.Param("id")

	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	user, err := h.users.Update(ctx, actor, id, service.UserUpdate{
		Name:     req.Name,
		Role:     req.Role,
		Grade:    req.Grade,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.UserFromModel(*user))
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	actor, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.users.Delete(ctx, actor, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *AdminHandler) Dashboard(c *gin.Context) {
	actor, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	stats, err := h.users.Dashboard(ctx, actor)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *AdminHandler) GetRules(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	rules, err := h.rules.Get(ctx)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.RulesFromModel(*rules))
}

func (h *AdminHandler) UpdateRules(c *gin.Context) {
	actor, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req dto.UpdateRulesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	rules, err := h.rules.Update(ctx, actor, req.MaxDays, req.MaxBooks, req.RulesText)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.RulesFromModel(*rules))
}
