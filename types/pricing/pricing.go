package pricing

import (
	"fmt"
	"time"

	pricingModel "hotel-broker/models/pricing"
)

// PriceRuleRequest is the admin payload for creating or updating a rule.
type PriceRuleRequest struct {
	Name      string  `json:"name" validate:"required,max=255"`
	Kind      string  `json:"kind" validate:"required"`
	Value     float64 `json:"value" validate:"required,min=0"`
	Scope     string  `json:"scope" validate:"required"`
	AgencyID  *string `json:"agency_id,omitempty"`
	HotelCode *string `json:"hotel_code,omitempty"`
	BoardType *string `json:"board_type,omitempty"`
	StartDate *string `json:"start_date,omitempty"` // 2006-01-02
	EndDate   *string `json:"end_date,omitempty"`
	IsActive  bool    `json:"is_active"`
	Priority  int     `json:"priority"`
}

const dateLayout = "2006-01-02"

func parseDatePtr(raw *string, field string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, *raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be YYYY-MM-DD", field)
	}
	return &t, nil
}

// ToModel validates the payload and builds the model row.
func (r PriceRuleRequest) ToModel(createdBy string) (*pricingModel.PriceRule, error) {
	if r.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	kind := pricingModel.RuleKind(r.Kind)
	if !kind.IsValid() {
		return nil, fmt.Errorf("kind must be one of percentage_discount, fixed_discount, markup")
	}
	scope := pricingModel.Scope(r.Scope)
	if !scope.IsValid() {
		return nil, fmt.Errorf("scope must be one of all_agencies, specific_agency, all_customers")
	}
	if scope == pricingModel.ScopeSpecificAgency && (r.AgencyID == nil || *r.AgencyID == "") {
		return nil, fmt.Errorf("agency_id is required for specific_agency scope")
	}
	if r.Value < 0 {
		return nil, fmt.Errorf("value must not be negative")
	}
	start, err := parseDatePtr(r.StartDate, "start_date")
	if err != nil {
		return nil, err
	}
	end, err := parseDatePtr(r.EndDate, "end_date")
	if err != nil {
		return nil, err
	}
	if start != nil && end != nil && end.Before(*start) {
		return nil, fmt.Errorf("end_date must not be before start_date")
	}

	return &pricingModel.PriceRule{
		Name:      r.Name,
		Kind:      kind,
		Value:     r.Value,
		Scope:     scope,
		AgencyID:  r.AgencyID,
		HotelCode: r.HotelCode,
		BoardType: r.BoardType,
		StartDate: start,
		EndDate:   end,
		IsActive:  r.IsActive,
		Priority:  r.Priority,
		CreatedBy: createdBy,
	}, nil
}

// CommissionRequest is the admin payload for creating or updating a
// commission.
type CommissionRequest struct {
	AgencyID  string  `json:"agency_id" validate:"required"`
	Kind      string  `json:"kind" validate:"required"`
	Value     float64 `json:"value" validate:"required,min=0"`
	HotelCode *string `json:"hotel_code,omitempty"`
	BoardType *string `json:"board_type,omitempty"`
	StartDate *string `json:"start_date,omitempty"`
	EndDate   *string `json:"end_date,omitempty"`
	IsActive  bool    `json:"is_active"`
	Priority  int     `json:"priority"`
}

// ToModel validates the payload and builds the model row.
func (r CommissionRequest) ToModel() (*pricingModel.Commission, error) {
	if r.AgencyID == "" {
		return nil, fmt.Errorf("agency_id is required")
	}
	kind := pricingModel.CommissionKind(r.Kind)
	if !kind.IsValid() {
		return nil, fmt.Errorf("kind must be one of percentage, fixed")
	}
	if r.Value < 0 {
		return nil, fmt.Errorf("value must not be negative")
	}
	start, err := parseDatePtr(r.StartDate, "start_date")
	if err != nil {
		return nil, err
	}
	end, err := parseDatePtr(r.EndDate, "end_date")
	if err != nil {
		return nil, err
	}
	if start != nil && end != nil && end.Before(*start) {
		return nil, fmt.Errorf("end_date must not be before start_date")
	}

	return &pricingModel.Commission{
		AgencyID:  r.AgencyID,
		Kind:      kind,
		Value:     r.Value,
		HotelCode: r.HotelCode,
		BoardType: r.BoardType,
		StartDate: start,
		EndDate:   end,
		IsActive:  r.IsActive,
		Priority:  r.Priority,
	}, nil
}
