package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound covers unknown session ids, dates without a session and users
	// without a schedule.
	ErrNotFound = errors.New("not found")
	// ErrCapacityExceeded is returned when joining a session that is full.
	ErrCapacityExceeded = errors.New("session is full")

	ErrInvalidDate    = errors.New("invalid date")
	ErrInvalidWeekday = errors.New("invalid weekday")
	ErrInvalidTime    = errors.New("invalid time")
)

// PersistenceError reports a failed repository call. The core never retries.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// IsPersistence reports whether err stems from a repository failure.
func IsPersistence(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}
