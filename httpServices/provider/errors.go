package provider

import (
	"errors"
	"fmt"
)

// ErrUnavailable means the provider could not be reached or timed out on an
// operation with no side effect. Callers may retry.
var ErrUnavailable = errors.New("provider unavailable")

// ErrIndeterminate means a booking creation was dispatched but its outcome is
// unknown (timeout or transport failure after send). The booking must be
// reconciled, never assumed failed.
var ErrIndeterminate = errors.New("provider booking outcome indeterminate")

// RejectionError is an explicit business rejection from the provider.
// Retrying with the same input will not succeed.
type RejectionError struct {
	Code   string
	Reason string
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("provider rejected request (%s): %s", e.Code, e.Reason)
}

// IsRejection reports whether err is a provider business rejection.
func IsRejection(err error) bool {
	var re *RejectionError
	return errors.As(err, &re)
}
