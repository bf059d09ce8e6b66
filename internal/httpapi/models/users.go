package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Roles understood by the access gate. Self-registration always produces
// a student; the other roles are assigned by administrators.
const (
	RoleStudent   = "student"
	RoleTeacher   = "teacher"
	RoleLibrarian = "librarian"
	RoleAdmin     = "admin"
)

// PrimordialAdminUsername is the seeded account that can never be deleted.
const PrimordialAdminUsername = "admin"

type User struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	Username  string    `gorm:"uniqueIndex;not null" json:"username"`
	Password  string    `gorm:"column:password_hash;not null" json:"-"` // Not show in JSON
	Name      string    `gorm:"not null" json:"name"`
	Role      string    `gorm:"default:'student';not null" json:"role"`
	Grade     *string   `json:"grade,omitempty"` // class/grade, students only
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate hook to set UUID before creating a User
func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	// If the ID is not already set, generate a new one.
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	return
}

func (User) TableName() string {
	return "users"
}

// ValidRole reports whether the given string is one of the known roles.
func ValidRole(role string) bool {
	switch role {
	case RoleStudent, RoleTeacher, RoleLibrarian, RoleAdmin:
		return true
	}
	return false
}
