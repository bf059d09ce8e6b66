package models

// Resource types: a science lab or a resource room.
const (
	ResourceLab  = "lab"
	ResourceRoom = "resource_room"
)

type Resource struct {
	ID          int64   `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string  `json:"name" gorm:"not null"`
	Type        string  `json:"type" gorm:"not null"`
	Description *string `json:"description,omitempty"`
	Capacity    *int    `json:"capacity,omitempty"`
}

func (Resource) TableName() string {
	return "resources"
}
