package provider

import (
	"time"
)

type AuthRequest struct {
	APIKey    string `json:"api_key"`
	APISecret string `json:"api_secret"`
}

type AuthResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"` // seconds
}

type Occupancy struct {
	Adults      int   `json:"adults"`
	Children    int   `json:"children"`
	ChildrenAge []int `json:"children_age,omitempty"`
}

type RoomSearchRequest struct {
	FeedID      string    `json:"feed_id"`
	HotelCode   string    `json:"hotel_code"`
	CheckIn     string    `json:"check_in"`  // 2006-01-02
	CheckOut    string    `json:"check_out"` // 2006-01-02
	Occupancy   Occupancy `json:"occupancy"`
	Currency    string    `json:"currency"`
	Nationality string    `json:"nationality"`
}

type CancellationPolicy struct {
	From   time.Time `json:"from"`
	Amount float64   `json:"amount"`
	Note   string    `json:"note,omitempty"`
}

// RoomOffer is one sellable room/board/rate combination. PriceCode binds the
// exact quoted rate and is single-use at booking time.
type RoomOffer struct {
	RoomCode             string               `json:"room_code"`
	RoomName             string               `json:"room_name"`
	BoardType            string               `json:"board_type"`
	PriceCode            string               `json:"price_code"`
	TotalPrice           float64              `json:"total_price"`
	NightlyPrice         float64              `json:"nightly_price"`
	Currency             string               `json:"currency"`
	Allotment            int                  `json:"allotment"`
	CancellationPolicies []CancellationPolicy `json:"cancellation_policies"`
}

type RoomSearchResponse struct {
	Rooms []RoomOffer `json:"rooms"`
}

type HotelDetailResponse struct {
	Code         string     `json:"code"`
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	Stars        int        `json:"stars"`
	Address      string     `json:"address"`
	Images       []string   `json:"images"`
	LocationCode string     `json:"location_code"`
	Facilities   []string   `json:"facilities"`
	RevisionDate *time.Time `json:"revision_date,omitempty"`
}

type HotelListItem struct {
	Code         string     `json:"code"`
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	Stars        int        `json:"stars"`
	Address      string     `json:"address"`
	Images       []string   `json:"images"`
	LocationCode string     `json:"location_code"`
	Facilities   []string   `json:"facilities"`
	RevisionDate *time.Time `json:"revision_date,omitempty"`
}

type CurrencyItem struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

type BoardTypeItem struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type FacilityItem struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	Group string `json:"group"`
}

type RoomAttributeItem struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type LocationItem struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Kind        string `json:"kind"`
	CountryCode string `json:"country_code"`
	ParentCode  string `json:"parent_code,omitempty"`
}

type BookingContact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type BookingGuest struct {
	Type      string `json:"type"`
	Title     string `json:"title,omitempty"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Age       int    `json:"age,omitempty"`
}

type CreateBookingRequest struct {
	FeedID            string         `json:"feed_id"`
	ClientReferenceID string         `json:"client_reference_id"`
	HotelCode         string         `json:"hotel_code"`
	RoomCode          string         `json:"room_code"`
	PriceCode         string         `json:"price_code"`
	CheckIn           string         `json:"check_in"`
	CheckOut          string         `json:"check_out"`
	Contact           BookingContact `json:"contact"`
	Guests            []BookingGuest `json:"guests"`
}

type CreateBookingResponse struct {
	BookingNumber    string  `json:"booking_number"`
	Status           string  `json:"status"`
	ConfirmationCode string  `json:"confirmation_code"`
	TotalPrice       float64 `json:"total_price"`
	Currency         string  `json:"currency"`
}

type ReservationDetailResponse struct {
	BookingNumber     string `json:"booking_number"`
	ClientReferenceID string `json:"client_reference_id"`
	Status            string `json:"status"` // CONFIRMED, FAILED, CANCELLED, NOT_FOUND
	Reason            string `json:"reason,omitempty"`
}

type CancelBookingRequest struct {
	FeedID        string `json:"feed_id"`
	BookingNumber string `json:"booking_number"`
}

type CancelBookingResponse struct {
	Status     string  `json:"status"`
	PenaltyFee float64 `json:"penalty_fee"`
	Currency   string  `json:"currency"`
}

// apiError is the provider's error body on business rejections.
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
