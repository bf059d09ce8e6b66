package service

import (
	"context"
	"errors"
	"strings"

	"shelfhub/internal/httpapi/models"
	"shelfhub/internal/httpapi/repository"

	"gorm.io/gorm"
)

type BookService interface {
	List(ctx context.Context, categoryID int64, search string, page, pageSize int) ([]models.Book, int64, error)
	Get(ctx context.Context, id int64) (*models.Book, error)
	Create(ctx context.Context, actor Identity, book *models.Book) error
	Update(ctx context.Context, actor Identity, id int64, book *models.Book) error
	Delete(ctx context.Context, actor Identity, id int64) error
}

type bookService struct {
	books        repository.BookRepository
	categories   repository.CategoryRepository
	reservations repository.ReservationRepository
}

func NewBookService(
	books repository.BookRepository,
	categories repository.CategoryRepository,
	reservations repository.ReservationRepository,
) BookService {
	return &bookService{books: books, categories: categories, reservations: reservations}
}

// List is part of the public catalog; no identity required.
func (s *bookService) List(ctx context.Context, categoryID int64, search string, page, pageSize int) ([]models.Book, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 12
	}
	return s.books.GetAll(ctx, categoryID, search, page, pageSize)
}

func (s *bookService) Get(ctx context.Context, id int64) (*models.Book, error) {
	book, err := s.books.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}
	return book, nil
}

func (s *bookService) Create(ctx context.Context, actor Identity, book *models.Book) error {
	if err := Require(actor, CatalogAdmins); err != nil {
		return err
	}
	if strings.TrimSpace(book.Title) == "" {
		return ErrInvalidInput
	}
	if _, err := s.categories.FindByID(ctx, book.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}
	book.Title = strings.TrimSpace(book.Title)
	book.Available = true
	book.AddedBy = actor.UserID
	return s.books.Create(ctx, book)
}

func (s *bookService) Update(ctx context.Context, actor Identity, id int64, book *models.Book) error {
	if err := Require(actor, CatalogAdmins); err != nil {
		return err
	}
	existing, err := s.books.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBookNotFound
		}
		return err
	}
	if strings.TrimSpace(book.Title) == "" {
		return ErrInvalidInput
	}
	if _, err := s.categories.FindByID(ctx, book.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}

	// The availability flag belongs to the reservation lifecycle and is
	// never edited through the catalog.
	book.ID = existing.ID
	book.Available = existing.Available
	book.AddedBy = existing.AddedBy
	book.CreatedAt = existing.CreatedAt
	return s.books.Update(ctx, book)
}

// Delete refuses to remove a book that is referenced by any
// reservation, past or active.
func (s *bookService) Delete(ctx context.Context, actor Identity, id int64) error {
	if err := Require(actor, CatalogAdmins); err != nil {
		return err
	}
	if _, err := s.books.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBookNotFound
		}
		return err
	}
	count, err := s.reservations.CountByBook(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrBookHasReservations
	}
	return s.books.Delete(ctx, id)
}
