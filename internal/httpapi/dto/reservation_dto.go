package dto

import (
	"time"

	"shelfhub/internal/httpapi/models"
)

// DateLayout is the wire format for reservation dates.
const DateLayout = "2006-01-02"

type CreateBookReservationRequest struct {
	BookID int64  `json:"book_id" binding:"required"`
	Date   string `json:"date" binding:"required"`
}

// ParseDate converts the wire date into a time.Time, reporting
// malformed input to the caller as a validation failure.
func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, value)
}

type BookReservationResponse struct {
	ID              int64      `json:"id"`
	UserID          string     `json:"user_id"`
	Username        string     `json:"username,omitempty"`
	BookID          int64      `json:"book_id"`
	BookTitle       string     `json:"book_title,omitempty"`
	ReservationDate time.Time  `json:"reservation_date"`
	ReturnDate      *time.Time `json:"return_date,omitempty"`
	Status          string     `json:"status"`
	CreatedAt       time.Time  `json:"created_at"`
}

type ReservationListResponse struct {
	Items    []BookReservationResponse `json:"items"`
	Total    int64                     `json:"total"`
	Page     int                       `json:"page"`
	PageSize int                       `json:"page_size"`
}

func ReservationFromModel(reservation models.BookReservation) BookReservationResponse {
	resp := BookReservationResponse{
		ID:              reservation.ID,
		UserID:          reservation.UserID,
		BookID:          reservation.BookID,
		ReservationDate: reservation.ReservationDate,
		ReturnDate:      reservation.ReturnDate,
		Status:          reservation.Status,
		CreatedAt:       reservation.CreatedAt,
	}
	if reservation.Book != nil {
		resp.BookTitle = reservation.Book.Title
	}
	if reservation.User != nil {
		resp.Username = reservation.User.Username
	}
	return resp
}
