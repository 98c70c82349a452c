package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	// ErrSlotConflict means a confirmed booking already holds the slot.
	ErrSlotConflict = errors.New("slot already has a confirmed booking")

	// ErrLockHeld means another request holds the advisory lock for the slot.
	ErrLockHeld = errors.New("slot lock held by another request")
)
