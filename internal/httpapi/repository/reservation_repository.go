package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shelfhub/internal/httpapi/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReservationRepository owns the book-reservation rows and the derived
// `books.available` flag. Every mutation that touches both runs in one
// transaction so the flag can never drift from the reservation rows.
type ReservationRepository interface {
	CreatePending(ctx context.Context, userID string, bookID int64, date time.Time) (*models.BookReservation, error)
	FindByID(ctx context.Context, id int64) (*models.BookReservation, error)
	Approve(ctx context.Context, id int64) (bool, error)
	Reject(ctx context.Context, id int64) (bool, error)
	MarkReturned(ctx context.Context, id int64, returnedAt time.Time) (bool, error)
	CancelActive(ctx context.Context, id int64) (bool, error)

	CountApprovedByUser(ctx context.Context, userID string) (int64, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
	CountByBook(ctx context.Context, bookID int64) (int64, error)
	ListByUser(ctx context.Context, userID string) ([]models.BookReservation, error)
	List(ctx context.Context, status string, page, pageSize int) ([]models.BookReservation, int64, error)
	Count(ctx context.Context) (int64, error)
	Recent(ctx context.Context, limit int) ([]models.BookReservation, error)
}

type reservationRepository struct {
	db *gorm.DB
}

func NewReservationRepository(db *gorm.DB) ReservationRepository {
	return &reservationRepository{db: db}
}

// CreatePending inserts a pending reservation and flips the book's
// availability flag in one transaction. The book row is locked first and
// the flag re-checked under the lock, so two racing requests cannot both
// observe available=true.
func (r *reservationRepository) CreatePending(ctx context.Context, userID string, bookID int64, date time.Time) (*models.BookReservation, error) {
	reservation := &models.BookReservation{
		UserID:          userID,
		BookID:          bookID,
		ReservationDate: date,
		Status:          models.ReservationPending,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var book models.Book
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&book, bookID).Error; err != nil {
			return err
		}
		if !book.Available {
			return ErrBookUnavailable
		}
		if err := tx.Create(reservation).Error; err != nil {
			return err
		}
		return tx.Model(&models.Book{}).
			Where("id = ?", bookID).
			Update("available", false).Error
	})
	if err != nil {
		return nil, err
	}
	return reservation, nil
}

func (r *reservationRepository) FindByID(ctx context.Context, id int64) (*models.BookReservation, error) {
	var reservation models.BookReservation
	if err := r.db.WithContext(ctx).Preload("Book").First(&reservation, id).Error; err != nil {
		return nil, err
	}
	return &reservation, nil
}

// Approve moves a pending reservation to approved. The book stays
// unavailable: it is now lent out. Returns false when no pending
// reservation with that id exists.
func (r *reservationRepository) Approve(ctx context.Context, id int64) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.BookReservation{}).
		Where("id = ? AND status = ?", id, models.ReservationPending).
		Update("status", models.ReservationApproved)
	if result.Error != nil {
		return false, fmt.Errorf("approve reservation: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// Reject moves a pending reservation to rejected and frees the book.
func (r *reservationRepository) Reject(ctx context.Context, id int64) (bool, error) {
	return r.resolve(ctx, id, models.ReservationPending, func(tx *gorm.DB, res *models.BookReservation) error {
		return tx.Model(res).Update("status", models.ReservationRejected).Error
	})
}

// MarkReturned moves an approved reservation to returned, stamps the
// return date and frees the book.
func (r *reservationRepository) MarkReturned(ctx context.Context, id int64, returnedAt time.Time) (bool, error) {
	return r.resolve(ctx, id, models.ReservationApproved, func(tx *gorm.DB, res *models.BookReservation) error {
		return tx.Model(res).Updates(map[string]any{
			"status":      models.ReservationReturned,
			"return_date": returnedAt,
		}).Error
	})
}

// CancelActive deletes a reservation that is still pending or approved
// and frees the book. Returns false when no such reservation exists, so
// a second cancel is reported as not found rather than silently succeeding.
func (r *reservationRepository) CancelActive(ctx context.Context, id int64) (bool, error) {
	found := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var reservation models.BookReservation
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND status IN ?", id, []string{models.ReservationPending, models.ReservationApproved}).
			First(&reservation).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := tx.Delete(&reservation).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Book{}).
			Where("id = ?", reservation.BookID).
			Update("available", true).Error; err != nil {
			return err
		}
		found = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("cancel reservation: %w", err)
	}
	return found, nil
}

// resolve locks the reservation in the expected state, applies the status
// mutation and flips the book back to available, all in one transaction.
func (r *reservationRepository) resolve(ctx context.Context, id int64, fromStatus string, mutate func(tx *gorm.DB, res *models.BookReservation) error) (bool, error) {
	found := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var reservation models.BookReservation
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND status = ?", id, fromStatus).
			First(&reservation).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := mutate(tx, &reservation); err != nil {
			return err
		}
		if err := tx.Model(&models.Book{}).
			Where("id = ?", reservation.BookID).
			Update("available", true).Error; err != nil {
			return err
		}
		found = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("resolve reservation: %w", err)
	}
	return found, nil
}

func (r *reservationRepository) CountApprovedByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.BookReservation{}).
		Where("user_id = ? AND status = ?", userID, models.ReservationApproved).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *reservationRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.BookReservation{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *reservationRepository) CountByBook(ctx context.Context, bookID int64) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.BookReservation{}).
		Where("book_id = ?", bookID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *reservationRepository) ListByUser(ctx context.Context, userID string) ([]models.BookReservation, error) {
	var list []models.BookReservation
	if err := r.db.WithContext(ctx).
		Preload("Book").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	return list, nil
}

func (r *reservationRepository) List(ctx context.Context, status string, page, pageSize int) ([]models.BookReservation, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.BookReservation{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize

	var list []models.BookReservation
	if err := query.
		Preload("Book").
		Preload("User").
		Order("created_at DESC").
		Limit(pageSize).
		Offset(offset).
		Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *reservationRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.BookReservation{}).Count(&count).Error
	return count, err
}

func (r *reservationRepository) Recent(ctx context.Context, limit int) ([]models.BookReservation, error) {
	var list []models.BookReservation
	if err := r.db.WithContext(ctx).
		Preload("Book").
		Preload("User").
		Order("created_at DESC").
		Limit(limit).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}
