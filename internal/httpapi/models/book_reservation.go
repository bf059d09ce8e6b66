package models

import "time"

// Book reservation lifecycle: pending -> approved -> returned, with
// pending -> rejected as the admin refusal path. Cancellation deletes
// the row while it is still pending or approved. A book has at most one
// reservation in {pending, approved} at any time.
const (
	ReservationPending  = "pending"
	ReservationApproved = "approved"
	ReservationRejected = "rejected"
	ReservationReturned = "returned"
)

type BookReservation struct {
	ID              int64      `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID          string     `json:"user_id" gorm:"type:uuid;not null;index"`
	BookID          int64      `json:"book_id" gorm:"not null;index"`
	ReservationDate time.Time  `json:"reservation_date" gorm:"not null"`
	ReturnDate      *time.Time `json:"return_date,omitempty"`
	Status          string     `json:"status" gorm:"default:'pending';not null;index"`
	CreatedAt       time.Time  `json:"created_at"`

	// Associations
	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Book *Book `json:"book,omitempty" gorm:"foreignKey:BookID"`
}

func (BookReservation) TableName() string {
	return "book_reservations"
}

// Active reports whether the reservation still occupies the book's
// single reservation slot.
func (r *BookReservation) Active() bool {
	return r.Status == ReservationPending || r.Status == ReservationApproved
}
