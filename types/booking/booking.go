package booking

import (
	"fmt"

	reservationModel "hotel-broker/models/reservation"
)

type ContactPayload struct {
	Name  string `json:"name" validate:"required,min=1,max=255"`
	Email string `json:"email" validate:"omitempty,email"`
	Phone string `json:"phone" validate:"omitempty,max=20"`
}

// BookingCreateRequest is the caller-facing booking creation payload.
type BookingCreateRequest struct {
	SessionID         string                     `json:"session_id" validate:"required"`
	RoomCode          string                     `json:"room_code" validate:"required"`
	PriceCode         string                     `json:"price_code" validate:"required"`
	ClientReferenceID string                     `json:"client_reference_id" validate:"required,max=100"`
	Contact           ContactPayload             `json:"contact" validate:"required"`
	Guests            reservationModel.GuestList `json:"guests" validate:"required,min=1"`
}

func (b BookingCreateRequest) Validate() error {
	if b.SessionID == "" {
		return fmt.Errorf("session_id is required")
	}
	if b.RoomCode == "" {
		return fmt.Errorf("room_code is required")
	}
	if b.PriceCode == "" {
		return fmt.Errorf("price_code is required")
	}
	if b.ClientReferenceID == "" {
		return fmt.Errorf("client_reference_id is required")
	}
	if b.Contact.Name == "" {
		return fmt.Errorf("contact name is required")
	}
	if len(b.Guests) == 0 {
		return fmt.Errorf("at least one guest is required")
	}
	return nil
}

// BookingCancelRequest identifies the reservation to cancel.
type BookingCancelRequest struct {
	ReservationID uint `json:"reservation_id" validate:"required"`
}

func (b BookingCancelRequest) Validate() error {
	if b.ReservationID == 0 {
		return fmt.Errorf("reservation_id is required")
	}
	return nil
}
