package service

import "errors"

// Sentinel errors surfaced by the services. Handlers map them onto HTTP
// statuses: validation -> 400, forbidden -> 403, not found -> 404,
// conflict -> 409, policy violation -> 422.
var (
	// Validation
	ErrInvalidPeriod = errors.New("period must be between 1 and 8")
	ErrInvalidInput  = errors.New("invalid input")

	// Policy violations
	ErrPastDate    = errors.New("reservation date is in the past")
	ErrBlackoutDay = errors.New("reservations cannot be made on this weekday")
	ErrBorrowLimit = errors.New("borrow limit reached")

	// Conflicts
	ErrBookUnavailable     = errors.New("book is not available for reservation")
	ErrSlotTaken           = errors.New("resource slot is already reserved")
	ErrBookHasReservations = errors.New("book has reservations and cannot be deleted")
	ErrCategoryHasBooks    = errors.New("category has books and cannot be deleted")
	ErrUserHasReservations = errors.New("user has reservations and cannot be deleted")
	ErrResourceReserved    = errors.New("resource has reservations and cannot be deleted")
	ErrPrimordialAdmin     = errors.New("the primordial admin account cannot be deleted")
	ErrNameInUse           = errors.New("username already in use")

	// Authorization
	ErrForbidden          = errors.New("operation not permitted for this role")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("token has expired")

	// Not found
	ErrBookNotFound        = errors.New("book not found")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrResourceNotFound    = errors.New("resource not found")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrUserNotFound        = errors.New("user not found")
)

// IsValidation reports whether err is a malformed-input error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidPeriod) || errors.Is(err, ErrInvalidInput)
}

// IsPolicyViolation reports whether err is a borrowing-policy rejection.
func IsPolicyViolation(err error) bool {
	return errors.Is(err, ErrPastDate) ||
		errors.Is(err, ErrBlackoutDay) ||
		errors.Is(err, ErrBorrowLimit)
}

// IsConflict reports whether err is a state conflict, including races
// caught at the storage-constraint level and delete guards.
func IsConflict(err error) bool {
	return errors.Is(err, ErrBookUnavailable) ||
		errors.Is(err, ErrSlotTaken) ||
		errors.Is(err, ErrBookHasReservations) ||
		errors.Is(err, ErrCategoryHasBooks) ||
		errors.Is(err, ErrUserHasReservations) ||
		errors.Is(err, ErrResourceReserved) ||
		errors.Is(err, ErrPrimordialAdmin) ||
		errors.Is(err, ErrNameInUse)
}

// IsNotFound reports whether err refers to a missing entity.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrBookNotFound) ||
		errors.Is(err, ErrCategoryNotFound) ||
		errors.Is(err, ErrResourceNotFound) ||
		errors.Is(err, ErrReservationNotFound) ||
		errors.Is(err, ErrUserNotFound)
}
