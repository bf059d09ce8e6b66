package service

import (
	"context"
	"testing"
	"time"

	"shelfhub/internal/httpapi/models"
	"shelfhub/internal/httpapi/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// MockReservationRepository mocks the ReservationRepository interface
type MockReservationRepository struct {
	mock.Mock
}

func (m *MockReservationRepository) CreatePending(ctx context.Context, userID string, bookID int64, date time.Time) (*models.BookReservation, error) {
	args := m.Called(ctx, userID, bookID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BookReservation), args.Error(1)
}

func (m *MockReservationRepository) FindByID(ctx context.Context, id int64) (*models.BookReservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BookReservation), args.Error(1)
}

func (m *MockReservationRepository) Approve(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockReservationRepository) Reject(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockReservationRepository) MarkReturned(ctx context.Context, id int64, returnedAt time.Time) (bool, error) {
	args := m.Called(ctx, id, returnedAt)
	return args.Bool(0), args.Error(1)
}

func (m *MockReservationRepository) CancelActive(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockReservationRepository) CountApprovedByUser(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReservationRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReservationRepository) CountByBook(ctx context.Context, bookID int64) (int64, error) {
	args := m.Called(ctx, bookID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReservationRepository) ListByUser(ctx context.Context, userID string) ([]models.BookReservation, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.BookReservation), args.Error(1)
}

func (m *MockReservationRepository) List(ctx context.Context, status string, page, pageSize int) ([]models.BookReservation, int64, error) {
	args := m.Called(ctx, status, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]models.BookReservation), args.Get(1).(int64), args.Error(2)
}

func (m *MockReservationRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReservationRepository) Recent(ctx context.Context, limit int) ([]models.BookReservation, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.BookReservation), args.Error(1)
}

// MockBookRepository mocks the BookRepository interface
type MockBookRepository struct {
	mock.Mock
}

func (m *MockBookRepository) GetAll(ctx context.Context, categoryID int64, search string, page, pageSize int) ([]models.Book, int64, error) {
	args := m.Called(ctx, categoryID, search, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]models.Book), args.Get(1).(int64), args.Error(2)
}

func (m *MockBookRepository) FindByID(ctx context.Context, id int64) (*models.Book, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Book), args.Error(1)
}

func (m *MockBookRepository) Create(ctx context.Context, book *models.Book) error {
	args := m.Called(ctx, book)
	return args.Error(0)
}

func (m *MockBookRepository) Update(ctx context.Context, book *models.Book) error {
	args := m.Called(ctx, book)
	return args.Error(0)
}

func (m *MockBookRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBookRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockRulesRepository mocks the RulesRepository interface
type MockRulesRepository struct {
	mock.Mock
}

func (m *MockRulesRepository) Get(ctx context.Context) (*models.BorrowingRules, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BorrowingRules), args.Error(1)
}

func (m *MockRulesRepository) Save(ctx context.Context, rules *models.BorrowingRules) error {
	args := m.Called(ctx, rules)
	return args.Error(0)
}

func (m *MockRulesRepository) EnsureDefaults(ctx context.Context) (*models.BorrowingRules, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BorrowingRules), args.Error(1)
}

func newReservationFixture(blackout []time.Weekday) (*MockReservationRepository, *MockBookRepository, *MockRulesRepository, ReservationService) {
	reservations := new(MockReservationRepository)
	books := new(MockBookRepository)
	rules := new(MockRulesRepository)
	svc := NewReservationService(reservations, books, rules, blackout)
	return reservations, books, rules, svc
}

var (
	student = Identity{UserID: "student-1", Role: models.RoleStudent}
	admin   = Identity{UserID: "admin-1", Role: models.RoleAdmin}
)

func TestReservationCreate_Success(t *testing.T) {
	reservations, books, rules, svc := newReservationFixture(nil)
	date := time.Now().AddDate(0, 0, 1)

	rules.On("Get", mock.Anything).Return(&models.BorrowingRules{MaxDays: 7, MaxBooks: 3}, nil)
	reservations.On("CountApprovedByUser", mock.Anything, "student-1").Return(int64(0), nil)
	books.On("FindByID", mock.Anything, int64(42)).Return(&models.Book{ID: 42, Available: true}, nil)
	reservations.On("CreatePending", mock.Anything, "student-1", int64(42), date).
		Return(&models.BookReservation{ID: 1, UserID: "student-1", BookID: 42, Status: models.ReservationPending}, nil)

	reservation, err := svc.Create(context.Background(), student, 42, date)

	assert.NoError(t, err)
	assert.Equal(t, models.ReservationPending, reservation.Status)
	reservations.AssertExpectations(t)
	books.AssertExpectations(t)
}

func TestReservationCreate_PastDate(t *testing.T) {
	_, _, _, svc := newReservationFixture(nil)

	_, err := svc.Create(context.Background(), student, 42, time.Now().AddDate(0, 0, -2))

	assert.ErrorIs(t, err, ErrPastDate)
}

func TestReservationCreate_BlackoutDay(t *testing.T) {
	date := time.Now().AddDate(0, 0, 3)
	_, _, _, svc := newReservationFixture([]time.Weekday{date.Weekday()})

	_, err := svc.Create(context.Background(), student, 42, date)

	assert.ErrorIs(t, err, ErrBlackoutDay)
}

func TestReservationCreate_BorrowLimit(t *testing.T) {
	reservations, books, rules, svc := newReservationFixture(nil)

	rules.On("Get", mock.Anything).Return(&models.BorrowingRules{MaxDays: 7, MaxBooks: 3}, nil)
	reservations.On("CountApprovedByUser", mock.Anything, "student-1").Return(int64(3), nil)

	_, err := svc.Create(context.Background(), student, 42, time.Now().AddDate(0, 0, 1))

	assert.ErrorIs(t, err, ErrBorrowLimit)
	// The book is never even looked at
	books.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestReservationCreate_BookUnavailable(t *testing.T) {
	reservations, books, rules, svc := newReservationFixture(nil)

	rules.On("Get", mock.Anything).Return(&models.BorrowingRules{MaxDays: 7, MaxBooks: 3}, nil)
	reservations.On("CountApprovedByUser", mock.Anything, "student-1").Return(int64(0), nil)
	books.On("FindByID", mock.Anything, int64(42)).Return(&models.Book{ID: 42, Available: false}, nil)

	_, err := svc.Create(context.Background(), student, 42, time.Now().AddDate(0, 0, 1))

	assert.ErrorIs(t, err, ErrBookUnavailable)
	reservations.AssertNotCalled(t, "CreatePending", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReservationCreate_RacedUnavailable(t *testing.T) {
	// The fast-path check passed but the locked re-check in the
	// repository transaction lost the race.
	reservations, books, rules, svc := newReservationFixture(nil)
	date := time.Now().AddDate(0, 0, 1)

	rules.On("Get", mock.Anything).Return(&models.BorrowingRules{MaxDays: 7, MaxBooks: 3}, nil)
	reservations.On("CountApprovedByUser", mock.Anything, "student-1").Return(int64(0), nil)
	books.On("FindByID", mock.Anything, int64(42)).Return(&models.Book{ID: 42, Available: true}, nil)
	reservations.On("CreatePending", mock.Anything, "student-1", int64(42), date).
		Return(nil, repository.ErrBookUnavailable)

	_, err := svc.Create(context.Background(), student, 42, date)

	assert.ErrorIs(t, err, ErrBookUnavailable)
}

func TestReservationCreate_BookNotFound(t *testing.T) {
	reservations, books, rules, svc := newReservationFixture(nil)

	rules.On("Get", mock.Anything).Return(&models.BorrowingRules{MaxDays: 7, MaxBooks: 3}, nil)
	reservations.On("CountApprovedByUser", mock.Anything, "student-1").Return(int64(0), nil)
	books.On("FindByID", mock.Anything, int64(404)).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Create(context.Background(), student, 404, time.Now().AddDate(0, 0, 1))

	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestReservationCreate_Forbidden(t *testing.T) {
	_, _, _, svc := newReservationFixture(nil)

	_, err := svc.Create(context.Background(), Identity{UserID: "x", Role: "visitor"}, 42, time.Now().AddDate(0, 0, 1))

	assert.ErrorIs(t, err, ErrForbidden)
}

func TestReservationApprove(t *testing.T) {
	reservations, _, _, svc := newReservationFixture(nil)
	reservations.On("Approve", mock.Anything, int64(1)).Return(true, nil)

	assert.NoError(t, svc.Approve(context.Background(), admin, 1))
	reservations.AssertExpectations(t)
}

func TestReservationApprove_WrongState(t *testing.T) {
	// Approving a reservation that is no longer pending reports not
	// found, so repeating the transition cannot succeed twice.
	reservations, _, _, svc := newReservationFixture(nil)
	reservations.On("Approve", mock.Anything, int64(1)).Return(false, nil)

	assert.ErrorIs(t, svc.Approve(context.Background(), admin, 1), ErrReservationNotFound)
}

func TestReservationApprove_Forbidden(t *testing.T) {
	reservations, _, _, svc := newReservationFixture(nil)

	assert.ErrorIs(t, svc.Approve(context.Background(), student, 1), ErrForbidden)
	reservations.AssertNotCalled(t, "Approve", mock.Anything, mock.Anything)
}

func TestReservationReject_WrongState(t *testing.T) {
	reservations, _, _, svc := newReservationFixture(nil)
	reservations.On("Reject", mock.Anything, int64(2)).Return(false, nil)

	assert.ErrorIs(t, svc.Reject(context.Background(), admin, 2), ErrReservationNotFound)
}

func TestReservationReturn(t *testing.T) {
	reservations, _, _, svc := newReservationFixture(nil)
	reservations.On("MarkReturned", mock.Anything, int64(3), mock.AnythingOfType("time.Time")).Return(true, nil)

	assert.NoError(t, svc.Return(context.Background(), admin, 3))
	reservations.AssertExpectations(t)
}

func TestReservationCancel_Owner(t *testing.T) {
	reservations, _, _, svc := newReservationFixture(nil)
	reservations.On("FindByID", mock.Anything, int64(5)).
		Return(&models.BookReservation{ID: 5, UserID: "student-1", Status: models.ReservationPending}, nil)
	reservations.On("CancelActive", mock.Anything, int64(5)).Return(true, nil)

	assert.NoError(t, svc.Cancel(context.Background(), student, 5))
	reservations.AssertExpectations(t)
}

func TestReservationCancel_OtherUser(t *testing.T) {
	reservations, _, _, svc := newReservationFixture(nil)
	reservations.On("FindByID", mock.Anything, int64(5)).
		Return(&models.BookReservation{ID: 5, UserID: "someone-else", Status: models.ReservationPending}, nil)

	assert.ErrorIs(t, svc.Cancel(context.Background(), student, 5), ErrForbidden)
	reservations.AssertNotCalled(t, "CancelActive", mock.Anything, mock.Anything)
}

func TestReservationCancel_AdminOverride(t *testing.T) {
	reservations, _, _, svc := newReservationFixture(nil)
	reservations.On("FindByID", mock.Anything, int64(5)).
		Return(&models.BookReservation{ID: 5, UserID: "student-1", Status: models.ReservationApproved}, nil)
	reservations.On("CancelActive", mock.Anything, int64(5)).Return(true, nil)

	assert.NoError(t, svc.Cancel(context.Background(), admin, 5))
}

func TestReservationCancel_TerminalState(t *testing.T) {
	reservations, _, _, svc := newReservationFixture(nil)
	reservations.On("FindByID", mock.Anything, int64(5)).
		Return(&models.BookReservation{ID: 5, UserID: "student-1", Status: models.ReservationReturned}, nil)

	assert.ErrorIs(t, svc.Cancel(context.Background(), student, 5), ErrReservationNotFound)
}

func TestReservationList_InvalidStatus(t *testing.T) {
	_, _, _, svc := newReservationFixture(nil)

	_, _, err := svc.List(context.Background(), admin, "bogus", 1, 10)

	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestReservationList_StudentForbidden(t *testing.T) {
	_, _, _, svc := newReservationFixture(nil)

	_, _, err := svc.List(context.Background(), student, "", 1, 10)

	assert.ErrorIs(t, err, ErrForbidden)
}
