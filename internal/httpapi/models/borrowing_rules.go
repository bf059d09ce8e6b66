package models

import "time"

// Stock limits used when no rules row exists yet.
const (
	DefaultMaxDays  = 7
	DefaultMaxBooks = 3
)

// BorrowingRules is a singleton row seeded at startup. MaxBooks caps the
// number of concurrently approved reservations per user.
type BorrowingRules struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	MaxDays   int       `json:"max_days" gorm:"not null;default:7"`
	MaxBooks  int       `json:"max_books" gorm:"not null;default:3"`
	RulesText *string   `json:"rules_text,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (BorrowingRules) TableName() string {
	return "borrowing_rules"
}
