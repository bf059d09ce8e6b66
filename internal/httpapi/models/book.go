package models

import "time"

type Book struct {
	ID              int64   `json:"id" gorm:"primaryKey;autoIncrement"`
	Title           string  `json:"title" gorm:"not null"`
	Author          *string `json:"author,omitempty"`
	ISBN            *string `json:"isbn,omitempty" gorm:"size:20"`
	PublicationYear *int    `json:"publication_year,omitempty"`
	Description     *string `json:"description,omitempty"`

	// Available is a denormalized cache of "no pending or approved
	// reservation exists for this book". The reservation rows are the
	// source of truth; this flag is only flipped inside the reservation
	// lifecycle transactions, never directly.
	Available bool `json:"available" gorm:"not null;default:true"`

	CategoryID int64      `json:"category_id" gorm:"not null;index"`
	AddedBy    string     `json:"added_by" gorm:"type:uuid;not null"`
	CreatedAt  *time.Time `json:"created_at,omitempty" gorm:"autoCreateTime"`

	// Associations
	Category *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
}

func (Book) TableName() string {
	return "books"
}
