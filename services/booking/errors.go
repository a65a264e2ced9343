package booking

import (
	"errors"
)

var (
	// ErrSessionExpired covers both an expired and an unknown search
	// session. The booking fails before any external side effect.
	ErrSessionExpired = errors.New("search session expired or not found")

	// ErrInvalidPriceCode means the room/price code pair does not belong
	// to the referenced session, or the price code was already consumed.
	ErrInvalidPriceCode = errors.New("invalid or already used price code")

	// ErrNotConfirmed means the operation needs a reservation with an
	// upstream confirmation (cancel, upstream status) but the row never
	// reached CONFIRMED.
	ErrNotConfirmed = errors.New("reservation is not confirmed")

	// ErrIndeterminate means the upstream outcome of a booking creation
	// is unknown. The reservation stays PENDING until reconciliation
	// resolves it; it must never be treated as success or failure.
	ErrIndeterminate = errors.New("booking outcome indeterminate, reconciliation required")

	// ErrPersistence means the local store failed while recording an
	// upstream-confirmed state. The upstream booking exists; an operator
	// alert has been raised.
	ErrPersistence = errors.New("local persistence failed for upstream-confirmed booking")
)
