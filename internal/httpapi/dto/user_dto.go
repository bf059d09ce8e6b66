package dto

import (
	"time"

	"shelfhub/internal/httpapi/models"
)

type UpdateUserRequest struct {
	Name     string  `json:"name" binding:"required"`
	Role     string  `json:"role" binding:"required"`
	Grade    *string `json:"grade,omitempty"`
	Password *string `json:"password,omitempty"`
}

type UserResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Grade     *string   `json:"grade,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func UserFromModel(user models.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Name:      user.Name,
		Role:      user.Role,
		Grade:     user.Grade,
		CreatedAt: user.CreatedAt,
	}
}
