package database

import "errors"

var (
	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a reservation overlaps an existing
	// non-rejected, non-canceled reservation for the same room and date.
	ErrConflict = errors.New("reservation time conflict")

	// ErrInvalidTransition is returned when the requested status change is
	// not a legal successor of the current status.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrForbidden is returned when the actor lacks the role required for
	// the operation.
	ErrForbidden = errors.New("forbidden")

	// ErrCapacityExceeded is returned when the attendee count is above the
	// room capacity.
	ErrCapacityExceeded = errors.New("attendee count exceeds room capacity")

	// ErrEmailTaken is returned on registration with an existing email.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidInterval is returned when waktu_mulai is not strictly
	// before waktu_selesai or the values do not parse as HH:MM.
	ErrInvalidInterval = errors.New("invalid time interval")

	// ErrConcurrentModification is returned when a guarded update matched
	// no rows because another writer got there first.
	ErrConcurrentModification = errors.New("concurrent modification detected")
)
