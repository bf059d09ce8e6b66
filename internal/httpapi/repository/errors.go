package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrBookUnavailable is returned when a reservation is attempted on a
	// book whose single active-reservation slot is already occupied.
	ErrBookUnavailable = errors.New("book is not available for reservation")

	// ErrSlotTaken is returned when a (resource, date, period) slot is
	// already held, either by the advisory pre-check or by the storage
	// unique constraint catching a concurrent insert.
	ErrSlotTaken = errors.New("resource slot is already reserved")
)

const pgUniqueViolation = "23505"

// isUniqueViolation reports whether err is a Postgres unique-constraint
// violation. The unique index on (resource_id, reservation_date, period)
// is the authoritative double-booking guard, so raced inserts surface here.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
