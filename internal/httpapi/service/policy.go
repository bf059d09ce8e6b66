package service

import (
	"time"

	"shelfhub/internal/httpapi/models"
)

// The policy engine: pure checks shared by book and resource
// reservations. No I/O happens here; callers supply the current time and
// the configured blackout weekdays.

// CheckReservationDate rejects dates strictly before today and dates
// falling on a blackout weekday. Comparison is calendar-day based in the
// reservation date's location, so a reservation for later today is still
// accepted regardless of the server clock's zone.
func CheckReservationDate(date, now time.Time, blackout []time.Weekday) error {
	today := truncateToDay(now.In(date.Location()))
	if truncateToDay(date).Before(today) {
		return ErrPastDate
	}
	for _, day := range blackout {
		if date.Weekday() == day {
			return ErrBlackoutDay
		}
	}
	return nil
}

// UnderBorrowLimit enforces the per-user cap on concurrently approved
// reservations. Only approved reservations count: a user may queue any
// number of pending requests, each of which is re-checked against the
// cap at creation time.
func UnderBorrowLimit(approvedCount int64, rules *models.BorrowingRules) error {
	if approvedCount >= int64(rules.MaxBooks) {
		return ErrBorrowLimit
	}
	return nil
}

// ValidPeriod checks that a teaching period is within the school day.
func ValidPeriod(period int) error {
	if period < models.MinPeriod || period > models.MaxPeriod {
		return ErrInvalidPeriod
	}
	return nil
}

func truncateToDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
