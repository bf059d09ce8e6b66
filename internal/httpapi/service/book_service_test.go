package service

import (
	"context"
	"testing"

	"shelfhub/internal/httpapi/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

func newBookFixture() (*MockBookRepository, *MockCategoryRepository, *MockReservationRepository, BookService) {
	books := new(MockBookRepository)
	categories := new(MockCategoryRepository)
	reservations := new(MockReservationRepository)
	svc := NewBookService(books, categories, reservations)
	return books, categories, reservations, svc
}

func TestBookCreate_SetsAvailableAndOwner(t *testing.T) {
	books, categories, _, svc := newBookFixture()

	categories.On("FindByID", mock.Anything, int64(2)).Return(&models.Category{ID: 2, Name: "Science"}, nil)
	books.On("Create", mock.Anything, mock.AnythingOfType("*models.Book")).Return(nil)

	book := &models.Book{Title: "  Physics  ", CategoryID: 2}
	err := svc.Create(context.Background(), admin, book)

	assert.NoError(t, err)
	assert.Equal(t, "Physics", book.Title)
	assert.True(t, book.Available)
	assert.Equal(t, admin.UserID, book.AddedBy)
}

func TestBookCreate_MissingCategory(t *testing.T) {
	books, categories, _, svc := newBookFixture()

	categories.On("FindByID", mock.Anything, int64(99)).Return(nil, gorm.ErrRecordNotFound)

	err := svc.Create(context.Background(), admin, &models.Book{Title: "Orphan", CategoryID: 99})

	assert.ErrorIs(t, err, ErrCategoryNotFound)
	books.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestBookCreate_Forbidden(t *testing.T) {
	_, _, _, svc := newBookFixture()

	err := svc.Create(context.Background(), student, &models.Book{Title: "Nope", CategoryID: 1})

	assert.ErrorIs(t, err, ErrForbidden)
}

func TestBookUpdate_PreservesAvailability(t *testing.T) {
	books, categories, _, svc := newBookFixture()

	books.On("FindByID", mock.Anything, int64(1)).Return(&models.Book{
		ID:         1,
		Title:      "Old Title",
		CategoryID: 2,
		Available:  false, // currently reserved
		AddedBy:    "librarian-1",
	}, nil)
	categories.On("FindByID", mock.Anything, int64(2)).Return(&models.Category{ID: 2}, nil)
	books.On("Update", mock.Anything, mock.AnythingOfType("*models.Book")).Return(nil)

	book := &models.Book{Title: "New Title", CategoryID: 2, Available: true}
	err := svc.Update(context.Background(), admin, 1, book)

	assert.NoError(t, err)
	// Catalog edits never flip the availability flag
	assert.False(t, book.Available)
	assert.Equal(t, "librarian-1", book.AddedBy)
}

func TestBookDelete_WithReservations(t *testing.T) {
	books, _, reservations, svc := newBookFixture()

	books.On("FindByID", mock.Anything, int64(1)).Return(&models.Book{ID: 1}, nil)
	reservations.On("CountByBook", mock.Anything, int64(1)).Return(int64(3), nil)

	err := svc.Delete(context.Background(), admin, 1)

	assert.ErrorIs(t, err, ErrBookHasReservations)
	books.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestBookDelete_Clean(t *testing.T) {
	books, _, reservations, svc := newBookFixture()

	books.On("FindByID", mock.Anything, int64(1)).Return(&models.Book{ID: 1}, nil)
	reservations.On("CountByBook", mock.Anything, int64(1)).Return(int64(0), nil)
	books.On("Delete", mock.Anything, int64(1)).Return(nil)

	assert.NoError(t, svc.Delete(context.Background(), admin, 1))
	books.AssertExpectations(t)
}

func TestCategoryDelete_WithBooks(t *testing.T) {
	categories := new(MockCategoryRepository)
	svc := NewCategoryService(categories)

	categories.On("FindByID", mock.Anything, int64(2)).Return(&models.Category{ID: 2}, nil)
	categories.On("CountBooks", mock.Anything, int64(2)).Return(int64(4), nil)

	err := svc.Delete(context.Background(), admin, 2)

	assert.ErrorIs(t, err, ErrCategoryHasBooks)
	categories.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestCategoryDelete_Clean(t *testing.T) {
	categories := new(MockCategoryRepository)
	svc := NewCategoryService(categories)

	categories.On("FindByID", mock.Anything, int64(2)).Return(&models.Category{ID: 2}, nil)
	categories.On("CountBooks", mock.Anything, int64(2)).Return(int64(0), nil)
	categories.On("Delete", mock.Anything, int64(2)).Return(nil)

	assert.NoError(t, svc.Delete(context.Background(), admin, 2))
	categories.AssertExpectations(t)
}
