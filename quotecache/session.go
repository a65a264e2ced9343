package quotecache

import (
	"errors"
	"time"

	provider "hotel-broker/httpServices/provider"
)

// Validity is how long a room search session stays bookable.
const Validity = 30 * time.Minute

// evictionGrace keeps expired sessions around a little longer so lookups can
// distinguish "expired" from "never existed". Past the grace window they are
// physically dropped.
const evictionGrace = 30 * time.Minute

var (
	// ErrNotFound means the session id was never issued or has been purged.
	ErrNotFound = errors.New("search session not found")
	// ErrExpired means the session exists but its validity window is over.
	// Booking against it must be rejected.
	ErrExpired = errors.New("search session expired")
)

// SearchCriteria is the caller's room search input.
type SearchCriteria struct {
	HotelCode   string    `json:"hotel_code"`
	CheckIn     time.Time `json:"check_in"`
	CheckOut    time.Time `json:"check_out"`
	Adults      int       `json:"adults"`
	Children    int       `json:"children"`
	ChildrenAge []int     `json:"children_age,omitempty"`
	Currency    string    `json:"currency"`
	Nationality string    `json:"nationality"`
}

// Session is an immutable snapshot of one upstream room search. It bridges
// the stateless search call to a later booking commit; nothing mutates it
// after creation.
type Session struct {
	ID          string               `json:"id"`
	HotelCode   string               `json:"hotel_code"`
	CheckIn     time.Time            `json:"check_in"`
	CheckOut    time.Time            `json:"check_out"`
	Adults      int                  `json:"adults"`
	Children    int                  `json:"children"`
	Currency    string               `json:"currency"`
	Nationality string               `json:"nationality"`
	Rooms       []provider.RoomOffer `json:"rooms"`
	CreatedAt   time.Time            `json:"created_at"`
	ExpiresAt   time.Time            `json:"expires_at"`
}

// Expired reports whether the session validity window is over at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// FindRoom returns the room offer matching both codes, or nil. The price
// code must belong to the same offer as the room code.
func (s *Session) FindRoom(roomCode, priceCode string) *provider.RoomOffer {
	for i := range s.Rooms {
		if s.Rooms[i].RoomCode == roomCode && s.Rooms[i].PriceCode == priceCode {
			return &s.Rooms[i]
		}
	}
	return nil
}
