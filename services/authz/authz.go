// Package authz holds the single authorization predicate for reservation
// visibility. Every entry point calls the same function; the orchestration
// core itself performs no authorization.
package authz

import (
	reservationModel "hotel-broker/models/reservation"
	userModel "hotel-broker/models/user"
)

// Actor is the already-authenticated caller, extracted from the JWT by the
// middleware and passed explicitly through the call chain.
type Actor struct {
	UserID   uint
	Username string
	Role     userModel.Role
	AgencyID *string
}

// IsAdmin reports whether the actor has the administrator role.
func (a Actor) IsAdmin() bool {
	return a.Role == userModel.RoleAdmin
}

// CanAccessReservation decides reservation visibility: administrators see
// everything, agency actors see their agency's bookings, customers see their
// own.
func CanAccessReservation(actor Actor, res *reservationModel.Reservation) bool {
	switch actor.Role {
	case userModel.RoleAdmin:
		return true
	case userModel.RoleAgency:
		return actor.AgencyID != nil && res.AgencyID != nil && *actor.AgencyID == *res.AgencyID
	case userModel.RoleCustomer:
		return actor.UserID == res.UserID
	default:
		return false
	}
}
