package repository

import (
	"errors"
)

// ErrNotFound is returned when the requested row does not exist.
var ErrNotFound = errors.New("record not found")

// ErrInvalidTransition is returned when a reservation status change violates
// the lifecycle state machine.
var ErrInvalidTransition = errors.New("invalid reservation status transition")
