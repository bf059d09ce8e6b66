package service

import (
	"testing"
	"time"

	"shelfhub/internal/httpapi/models"

	"github.com/stretchr/testify/assert"
)

var fridaySaturday = []time.Weekday{time.Friday, time.Saturday}

func TestCheckReservationDate_Today(t *testing.T) {
	// Sunday 2026-03-01, a school day
	now := time.Date(2026, 3, 1, 14, 30, 0, 0, time.UTC)
	err := CheckReservationDate(now, now, fridaySaturday)
	assert.NoError(t, err)
}

func TestCheckReservationDate_LaterToday(t *testing.T) {
	// A reservation for later today is not "in the past"
	now := time.Date(2026, 3, 1, 14, 30, 0, 0, time.UTC)
	date := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	err := CheckReservationDate(date, now, fridaySaturday)
	assert.NoError(t, err)
}

func TestCheckReservationDate_TodayAcrossZones(t *testing.T) {
	// Wire dates parse to UTC midnight while the server clock may sit in
	// another zone; a booking for today must survive the mismatch.
	bogota := time.FixedZone("UTC-5", -5*60*60)
	date := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, bogota)

	assert.NoError(t, CheckReservationDate(date, now, fridaySaturday))
}

func TestCheckReservationDate_Past(t *testing.T) {
	now := time.Date(2026, 3, 1, 14, 30, 0, 0, time.UTC)
	date := now.AddDate(0, 0, -1)
	err := CheckReservationDate(date, now, fridaySaturday)
	assert.ErrorIs(t, err, ErrPastDate)
}

func TestCheckReservationDate_Blackout(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	friday := time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC)
	saturday := time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC)

	assert.ErrorIs(t, CheckReservationDate(friday, now, fridaySaturday), ErrBlackoutDay)
	assert.ErrorIs(t, CheckReservationDate(saturday, now, fridaySaturday), ErrBlackoutDay)

	// Sunday 2026-03-01 through Thursday 2026-03-05 are fine
	for day := 1; day <= 5; day++ {
		date := time.Date(2026, 3, day, 0, 0, 0, 0, time.UTC)
		assert.NoError(t, CheckReservationDate(date, now, fridaySaturday), "day %v", date.Weekday())
	}
}

func TestCheckReservationDate_PastBeatsBlackout(t *testing.T) {
	// A past blackout day reports the past-date error first
	now := time.Date(2026, 3, 8, 9, 0, 0, 0, time.UTC)
	lastFriday := time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC)
	assert.ErrorIs(t, CheckReservationDate(lastFriday, now, fridaySaturday), ErrPastDate)
}

func TestCheckReservationDate_NoBlackout(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	friday := time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC)
	assert.NoError(t, CheckReservationDate(friday, now, nil))
}

func TestUnderBorrowLimit(t *testing.T) {
	rules := &models.BorrowingRules{MaxDays: 7, MaxBooks: 3}

	assert.NoError(t, UnderBorrowLimit(0, rules))
	assert.NoError(t, UnderBorrowLimit(2, rules))
	assert.ErrorIs(t, UnderBorrowLimit(3, rules), ErrBorrowLimit)
	assert.ErrorIs(t, UnderBorrowLimit(10, rules), ErrBorrowLimit)
}

func TestValidPeriod(t *testing.T) {
	assert.ErrorIs(t, ValidPeriod(0), ErrInvalidPeriod)
	assert.ErrorIs(t, ValidPeriod(9), ErrInvalidPeriod)
	assert.ErrorIs(t, ValidPeriod(-1), ErrInvalidPeriod)

	for period := models.MinPeriod; period <= models.MaxPeriod; period++ {
		assert.NoError(t, ValidPeriod(period))
	}
}

func TestPolicyErrorsClassifyAsPolicyViolations(t *testing.T) {
	assert.True(t, IsPolicyViolation(ErrPastDate))
	assert.True(t, IsPolicyViolation(ErrBlackoutDay))
	assert.True(t, IsPolicyViolation(ErrBorrowLimit))
	assert.False(t, IsPolicyViolation(ErrInvalidPeriod))
	assert.True(t, IsValidation(ErrInvalidPeriod))
}
