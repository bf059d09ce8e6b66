package models

import "time"

// School days are divided into eight teaching periods.
const (
	MinPeriod = 1
	MaxPeriod = 8
)

// ResourceReservation holds one (resource, date, period) slot. The
// composite unique index is the authoritative guard against
// double-booking; application-level existence checks are only a
// fast path for a friendlier error.
type ResourceReservation struct {
	ID              int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID          string    `json:"user_id" gorm:"type:uuid;not null;index"`
	ResourceID      int64     `json:"resource_id" gorm:"not null;uniqueIndex:uniq_resource_slot"`
	ReservationDate time.Time `json:"reservation_date" gorm:"type:date;not null;uniqueIndex:uniq_resource_slot"`
	Period          int       `json:"period" gorm:"not null;uniqueIndex:uniq_resource_slot"`
	CreatedAt       time.Time `json:"created_at"`

	// Associations
	User     *User     `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Resource *Resource `json:"resource,omitempty" gorm:"foreignKey:ResourceID"`
}

func (ResourceReservation) TableName() string {
	return "resource_reservations"
}
