package service

import (
	"context"
	"errors"
	"time"

	"shelfhub/internal/httpapi/models"
	"shelfhub/internal/httpapi/repository"

	"gorm.io/gorm"
)

// ReservationService is the lifecycle manager for book reservations:
// pending -> approved -> returned, pending -> rejected, and cancellation
// (deletion) while still active. It owns the ordering of gate check,
// policy checks and the transactional availability flip.
type ReservationService interface {
	Create(ctx context.Context, actor Identity, bookID int64, date time.Time) (*models.BookReservation, error)
	Approve(ctx context.Context, actor Identity, id int64) error
	Reject(ctx context.Context, actor Identity, id int64) error
	Return(ctx context.Context, actor Identity, id int64) error
	Cancel(ctx context.Context, actor Identity, id int64) error
	ListMine(ctx context.Context, actor Identity) ([]models.BookReservation, error)
	List(ctx context.Context, actor Identity, status string, page, pageSize int) ([]models.BookReservation, int64, error)
}

type reservationService struct {
	reservations repository.ReservationRepository
	books        repository.BookRepository
	rules        repository.RulesRepository
	blackout     []time.Weekday
}

func NewReservationService(
	reservations repository.ReservationRepository,
	books repository.BookRepository,
	rules repository.RulesRepository,
	blackout []time.Weekday,
) ReservationService {
	return &reservationService{
		reservations: reservations,
		books:        books,
		rules:        rules,
		blackout:     blackout,
	}
}

// Create places a pending reservation. Preconditions, in order: caller
// is a member, the date passes policy, the user is under the borrow
// limit, the book is available. The availability flag is re-checked and
// flipped under a row lock inside the repository transaction, so the
// fast-path check here is only for a friendlier error.
func (s *reservationService) Create(ctx context.Context, actor Identity, bookID int64, date time.Time) (*models.BookReservation, error) {
	if err := Require(actor, AllMembers); err != nil {
		return nil, err
	}

	if err := CheckReservationDate(date, time.Now(), s.blackout); err != nil {
		return nil, err
	}

	rules, err := s.rules.Get(ctx)
	if err != nil {
		return nil, err
	}

	approved, err := s.reservations.CountApprovedByUser(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if err := UnderBorrowLimit(approved, rules); err != nil {
		return nil, err
	}

	book, err := s.books.FindByID(ctx, bookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}
	if !book.Available {
		return nil, ErrBookUnavailable
	}

	reservation, err := s.reservations.CreatePending(ctx, actor.UserID, bookID, date)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrBookUnavailable):
			return nil, ErrBookUnavailable
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, ErrBookNotFound
		}
		return nil, err
	}
	return reservation, nil
}

// Approve moves pending -> approved. The book stays unavailable since it
// is now lent out.
func (s *reservationService) Approve(ctx context.Context, actor Identity, id int64) error {
	if err := Require(actor, CatalogAdmins); err != nil {
		return err
	}
	ok, err := s.reservations.Approve(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrReservationNotFound
	}
	return nil
}

// Reject moves pending -> rejected and frees the book.
func (s *reservationService) Reject(ctx context.Context, actor Identity, id int64) error {
	if err := Require(actor, CatalogAdmins); err != nil {
		return err
	}
	ok, err := s.reservations.Reject(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrReservationNotFound
	}
	return nil
}

// Return moves approved -> returned, stamps the return date and frees
// the book.
func (s *reservationService) Return(ctx context.Context, actor Identity, id int64) error {
	if err := Require(actor, CatalogAdmins); err != nil {
		return err
	}
	ok, err := s.reservations.MarkReturned(ctx, id, time.Now())
	if err != nil {
		return err
	}
	if !ok {
		return ErrReservationNotFound
	}
	return nil
}

// Cancel deletes a reservation that is still pending or approved. The
// owner may cancel their own; catalog admins may cancel anyone's.
// Cancelling an already-deleted or terminal reservation reports not
// found rather than silently succeeding.
func (s *reservationService) Cancel(ctx context.Context, actor Identity, id int64) error {
	reservation, err := s.reservations.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReservationNotFound
		}
		return err
	}

	if err := RequireOwnerOr(actor, reservation.UserID, CatalogAdmins); err != nil {
		return err
	}
	if !reservation.Active() {
		return ErrReservationNotFound
	}

	ok, err := s.reservations.CancelActive(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		// Raced with another cancel or an admin transition.
		return ErrReservationNotFound
	}
	return nil
}

func (s *reservationService) ListMine(ctx context.Context, actor Identity) ([]models.BookReservation, error) {
	return s.reservations.ListByUser(ctx, actor.UserID)
}

func (s *reservationService) List(ctx context.Context, actor Identity, status string, page, pageSize int) ([]models.BookReservation, int64, error) {
	if err := Require(actor, CatalogAdmins); err != nil {
		return nil, 0, err
	}

	switch status {
	case "", models.ReservationPending, models.ReservationApproved, models.ReservationRejected, models.ReservationReturned:
	default:
		return nil, 0, ErrInvalidInput
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}
	return s.reservations.List(ctx, status, page, pageSize)
}
