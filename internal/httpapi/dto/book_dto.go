package dto

import (
	"time"

	"shelfhub/internal/httpapi/models"
)

type CreateBookRequest struct {
	Title           string  `json:"title" binding:"required"`
	Author          *string `json:"author,omitempty"`
	ISBN            *string `json:"isbn,omitempty"`
	PublicationYear *int    `json:"publication_year,omitempty"`
	Description     *string `json:"description,omitempty"`
	CategoryID      int64   `json:"category_id" binding:"required"`
}

type BookResponse struct {
	ID              int64      `json:"id"`
	Title           string     `json:"title"`
	Author          *string    `json:"author,omitempty"`
	ISBN            *string    `json:"isbn,omitempty"`
	PublicationYear *int       `json:"publication_year,omitempty"`
	Description     *string    `json:"description,omitempty"`
	Available       bool       `json:"available"`
	CategoryID      int64      `json:"category_id"`
	CategoryName    string     `json:"category_name,omitempty"`
	CreatedAt       *time.Time `json:"created_at,omitempty"`
}

type BookListResponse struct {
	Items    []BookResponse `json:"items"`
	Total    int64          `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
}

func BookFromModel(book models.Book) BookResponse {
	resp := BookResponse{
		ID:              book.ID,
		Title:           book.Title,
		Author:          book.Author,
		ISBN:            book.ISBN,
		PublicationYear: book.PublicationYear,
		Description:     book.Description,
		Available:       book.Available,
		CategoryID:      book.CategoryID,
		CreatedAt:       book.CreatedAt,
	}
	if book.Category != nil {
		resp.CategoryName = book.Category.Name
	}
	return resp
}
