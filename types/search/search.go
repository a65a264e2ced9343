package search

import (
	"fmt"
	"time"
)

// SearchRequest is the caller-facing room search payload.
type SearchRequest struct {
	HotelCode   string `json:"hotel_code" validate:"required"`
	CheckIn     string `json:"check_in" validate:"required"`  // 2006-01-02
	CheckOut    string `json:"check_out" validate:"required"` // 2006-01-02
	Adults      int    `json:"adults" validate:"required,min=1"`
	Children    int    `json:"children" validate:"omitempty,min=0"`
	ChildrenAge []int  `json:"children_age,omitempty"`
	Currency    string `json:"currency" validate:"required,len=3"`
	Nationality string `json:"nationality" validate:"omitempty,len=2"`
}

const dateLayout = "2006-01-02"

// Validate checks the payload and parses the stay dates.
func (r SearchRequest) Validate() (checkIn, checkOut time.Time, err error) {
	if r.HotelCode == "" {
		return checkIn, checkOut, fmt.Errorf("hotel_code is required")
	}
	if r.Adults < 1 {
		return checkIn, checkOut, fmt.Errorf("at least one adult is required")
	}
	if r.Currency == "" {
		return checkIn, checkOut, fmt.Errorf("currency is required")
	}
	checkIn, err = time.Parse(dateLayout, r.CheckIn)
	if err != nil {
		return checkIn, checkOut, fmt.Errorf("check_in must be YYYY-MM-DD")
	}
	checkOut, err = time.Parse(dateLayout, r.CheckOut)
	if err != nil {
		return checkIn, checkOut, fmt.Errorf("check_out must be YYYY-MM-DD")
	}
	if !checkOut.After(checkIn) {
		return checkIn, checkOut, fmt.Errorf("check_out must be after check_in")
	}
	return checkIn, checkOut, nil
}
