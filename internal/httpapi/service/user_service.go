package service

import (
	"context"
	"errors"
	"strings"

	"shelfhub/internal/httpapi/models"
	"shelfhub/internal/httpapi/repository"
	"shelfhub/internal/middleware/auth"

	"gorm.io/gorm"
)

// UserUpdate carries the admin-editable fields of an account. A nil
// Password leaves the stored hash untouched.
type UserUpdate struct {
	Name     string
	Role     string
	Grade    *string
	Password *string
}

// DashboardStats is the admin landing-page summary.
type DashboardStats struct {
	UsersCount         int64                    `json:"users_count"`
	BooksCount         int64                    `json:"books_count"`
	CategoriesCount    int64                    `json:"categories_count"`
	ReservationsCount  int64                    `json:"reservations_count"`
	RecentReservations []models.BookReservation `json:"recent_reservations"`
	RecentUsers        []models.User            `json:"recent_users"`
}

type UserService interface {
	List(ctx context.Context, actor Identity) ([]models.User, error)
	Update(ctx context.Context, actor Identity, id string, update UserUpdate) (*models.User, error)
	Delete(ctx context.Context, actor Identity, id string) error
	Dashboard(ctx context.Context, actor Identity) (*DashboardStats, error)
}

type userService struct {
	users        repository.UserRepository
	books        repository.BookRepository
	categories   repository.CategoryRepository
	reservations repository.ReservationRepository
	resources    repository.ResourceRepository
}

func NewUserService(
	users repository.UserRepository,
	books repository.BookRepository,
	categories repository.CategoryRepository,
	reservations repository.ReservationRepository,
	resources repository.ResourceRepository,
) UserService {
	return &userService{
		users:        users,
		books:        books,
		categories:   categories,
		reservations: reservations,
		resources:    resources,
	}
}

func (s *userService) List(ctx context.Context, actor Identity) ([]models.User, error) {
	if err := Require(actor, CatalogAdmins); err != nil {
		return nil, err
	}
	return s.users.GetAll()
}

func (s *userService) Update(ctx context.Context, actor Identity, id string, update UserUpdate) (*models.User, error) {
	if err := Require(actor, CatalogAdmins); err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if strings.TrimSpace(update.Name) == "" || !models.ValidRole(update.Role) {
		return nil, ErrInvalidInput
	}

	user.Name = strings.TrimSpace(update.Name)
	user.Role = update.Role
	user.Grade = update.Grade
	if update.Password != nil && *update.Password != "" {
		hashed, err := auth.HashPassword(*update.Password)
		if err != nil {
			return nil, err
		}
		user.Password = hashed
	}

	if err := s.users.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes an account. The seeded admin account is protected, and
// accounts that still own any book or resource reservation are kept to
// preserve referential integrity.
func (s *userService) Delete(ctx context.Context, actor Identity, id string) error {
	if err := Require(actor, CatalogAdmins); err != nil {
		return err
	}

	user, err := s.users.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if user.Username == models.PrimordialAdminUsername {
		return ErrPrimordialAdmin
	}

	bookCount, err := s.reservations.CountByUser(ctx, id)
	if err != nil {
		return err
	}
	resourceCount, err := s.resources.CountReservationsByUser(ctx, id)
	if err != nil {
		return err
	}
	if bookCount > 0 || resourceCount > 0 {
		return ErrUserHasReservations
	}

	return s.users.Delete(id)
}

func (s *userService) Dashboard(ctx context.Context, actor Identity) (*DashboardStats, error) {
	if err := Require(actor, CatalogAdmins); err != nil {
		return nil, err
	}

	stats := &DashboardStats{}
	var err error

	if stats.UsersCount, err = s.users.Count(); err != nil {
		return nil, err
	}
	if stats.BooksCount, err = s.books.Count(ctx); err != nil {
		return nil, err
	}
	if stats.CategoriesCount, err = s.categories.Count(ctx); err != nil {
		return nil, err
	}
	if stats.ReservationsCount, err = s.reservations.Count(ctx); err != nil {
		return nil, err
	}
	if stats.RecentReservations, err = s.reservations.Recent(ctx, 5); err != nil {
		return nil, err
	}
	if stats.RecentUsers, err = s.users.Recent(5); err != nil {
		return nil, err
	}
	return stats, nil
}
