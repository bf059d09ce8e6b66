package dto

import (
	"time"

	"shelfhub/internal/httpapi/models"
)

type CreateResourceRequest struct {
	Name        string  `json:"name" binding:"required"`
	Type        string  `json:"type" binding:"required"`
	Description *string `json:"description,omitempty"`
	Capacity    *int    `json:"capacity,omitempty"`
}

type ResourceResponse struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Type        string  `json:"type"`
	Description *string `json:"description,omitempty"`
	Capacity    *int    `json:"capacity,omitempty"`
}

func ResourceFromModel(resource models.Resource) ResourceResponse {
	return ResourceResponse{
		ID:          resource.ID,
		Name:        resource.Name,
		Type:        resource.Type,
		Description: resource.Description,
		Capacity:    resource.Capacity,
	}
}

type CreateResourceReservationRequest struct {
	ResourceID int64  `json:"resource_id" binding:"required"`
	Date       string `json:"date" binding:"required"`
	Period     int    `json:"period" binding:"required"`
}

type ResourceReservationResponse struct {
	ID              int64     `json:"id"`
	UserID          string    `json:"user_id"`
	ResourceID      int64     `json:"resource_id"`
	ResourceName    string    `json:"resource_name,omitempty"`
	ReservationDate time.Time `json:"reservation_date"`
	Period          int       `json:"period"`
	CreatedAt       time.Time `json:"created_at"`
}

func ResourceReservationFromModel(reservation models.ResourceReservation) ResourceReservationResponse {
	resp := ResourceReservationResponse{
		ID:              reservation.ID,
		UserID:          reservation.UserID,
		ResourceID:      reservation.ResourceID,
		ReservationDate: reservation.ReservationDate,
		Period:          reservation.Period,
		CreatedAt:       reservation.CreatedAt,
	}
	if reservation.Resource != nil {
		resp.ResourceName = reservation.Resource.Name
	}
	return resp
}

// DayGridResponse maps resource id -> reserved periods for one date.
type DayGridResponse struct {
	Date     string          `json:"date"`
	Occupied map[int64][]int `json:"occupied"`
}
