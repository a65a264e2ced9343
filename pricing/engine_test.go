package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	pricingModel "hotel-broker/models/pricing"
)

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

func agencyInput(agencyID string, basePrice float64) Input {
	return Input{
		BasePrice:   basePrice,
		Currency:    "EUR",
		HotelCode:   "HTL-1",
		BoardType:   "BB",
		AgencyID:    strPtr(agencyID),
		BookingDate: time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC),
	}
}

func TestResolveNoRulesReturnsBasePrice(t *testing.T) {
	res := Resolve(agencyInput("A1", 1000), nil, nil)

	assert.Equal(t, 1000.0, res.FinalPrice)
	assert.Nil(t, res.AppliedRuleID)
	assert.Nil(t, res.Commission)
}

func TestResolveHigherPriorityWins(t *testing.T) {
	rules := []pricingModel.PriceRule{
		{
			ID:       1,
			Kind:     pricingModel.RuleKindPercentageDiscount,
			Value:    10,
			Scope:    pricingModel.ScopeAllAgencies,
			Priority: 5,
			IsActive: true,
		},
		{
			ID:       2,
			Kind:     pricingModel.RuleKindMarkup,
			Value:    5,
			Scope:    pricingModel.ScopeSpecificAgency,
			AgencyID: strPtr("A1"),
			Priority: 1,
			IsActive: true,
		},
	}

	res := Resolve(agencyInput("A1", 1000), rules, nil)

	assert.Equal(t, 900.0, res.FinalPrice)
	if assert.NotNil(t, res.AppliedRuleID) {
		assert.Equal(t, uint(1), *res.AppliedRuleID)
	}
}

func TestResolveSpecificAgencyBreaksPriorityTie(t *testing.T) {
	rules := []pricingModel.PriceRule{
		{
			ID:       1,
			Kind:     pricingModel.RuleKindPercentageDiscount,
			Value:    10,
			Scope:    pricingModel.ScopeAllAgencies,
			Priority: 5,
			IsActive: true,
		},
		{
			ID:       2,
			Kind:     pricingModel.RuleKindMarkup,
			Value:    5,
			Scope:    pricingModel.ScopeSpecificAgency,
			AgencyID: strPtr("A1"),
			Priority: 5,
			IsActive: true,
		},
	}

	res := Resolve(agencyInput("A1", 1000), rules, nil)

	if assert.NotNil(t, res.AppliedRuleID) {
		assert.Equal(t, uint(2), *res.AppliedRuleID)
	}
	assert.Equal(t, 1050.0, res.FinalPrice)
}

func TestResolveRecencyBreaksFullTie(t *testing.T) {
	older := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	rules := []pricingModel.PriceRule{
		{
			ID:        1,
			Kind:      pricingModel.RuleKindPercentageDiscount,
			Value:     10,
			Scope:     pricingModel.ScopeAllAgencies,
			Priority:  5,
			IsActive:  true,
			CreatedAt: newer,
		},
		{
			ID:        2,
			Kind:      pricingModel.RuleKindPercentageDiscount,
			Value:     20,
			Scope:     pricingModel.ScopeAllAgencies,
			Priority:  5,
			IsActive:  true,
			CreatedAt: older,
		},
	}

	res := Resolve(agencyInput("A1", 1000), rules, nil)

	if assert.NotNil(t, res.AppliedRuleID) {
		assert.Equal(t, uint(1), *res.AppliedRuleID)
	}
	assert.Equal(t, 900.0, res.FinalPrice)
}

func TestResolveScopeFiltering(t *testing.T) {
	rules := []pricingModel.PriceRule{
		{ID: 1, Kind: pricingModel.RuleKindPercentageDiscount, Value: 10, Scope: pricingModel.ScopeAllCustomers, IsActive: true},
		{ID: 2, Kind: pricingModel.RuleKindMarkup, Value: 10, Scope: pricingModel.ScopeAllAgencies, IsActive: true},
		{ID: 3, Kind: pricingModel.RuleKindMarkup, Value: 20, Scope: pricingModel.ScopeSpecificAgency, AgencyID: strPtr("A2"), IsActive: true},
	}

	// Direct consumer: only the all_customers rule applies.
	customer := agencyInput("", 100)
	customer.AgencyID = nil
	res := Resolve(customer, rules, nil)
	if assert.NotNil(t, res.AppliedRuleID) {
		assert.Equal(t, uint(1), *res.AppliedRuleID)
	}
	assert.Equal(t, 90.0, res.FinalPrice)

	// Agency A1: the A2-specific rule must not match.
	res = Resolve(agencyInput("A1", 100), rules, nil)
	if assert.NotNil(t, res.AppliedRuleID) {
		assert.Equal(t, uint(2), *res.AppliedRuleID)
	}
	assert.Equal(t, 110.0, res.FinalPrice)
}

func TestResolveInactiveRuleIgnored(t *testing.T) {
	rules := []pricingModel.PriceRule{
		{ID: 1, Kind: pricingModel.RuleKindPercentageDiscount, Value: 50, Scope: pricingModel.ScopeAllAgencies, IsActive: false},
	}

	res := Resolve(agencyInput("A1", 200), rules, nil)

	assert.Nil(t, res.AppliedRuleID)
	assert.Equal(t, 200.0, res.FinalPrice)
}

func TestResolveWindowInclusiveAtDayGranularity(t *testing.T) {
	start := time.Date(2026, 8, 1, 10, 30, 0, 0, time.UTC)
	end := time.Date(2026, 8, 31, 10, 30, 0, 0, time.UTC)
	rules := []pricingModel.PriceRule{
		{
			ID:        1,
			Kind:      pricingModel.RuleKindPercentageDiscount,
			Value:     10,
			Scope:     pricingModel.ScopeAllAgencies,
			IsActive:  true,
			StartDate: timePtr(start),
			EndDate:   timePtr(end),
		},
	}

	// Late on the last day of the window still matches.
	in := agencyInput("A1", 100)
	in.BookingDate = time.Date(2026, 8, 31, 23, 0, 0, 0, time.UTC)
	res := Resolve(in, rules, nil)
	assert.NotNil(t, res.AppliedRuleID)

	// Early on the first day still matches.
	in.BookingDate = time.Date(2026, 8, 1, 0, 30, 0, 0, time.UTC)
	res = Resolve(in, rules, nil)
	assert.NotNil(t, res.AppliedRuleID)

	// The day after the window does not.
	in.BookingDate = time.Date(2026, 9, 1, 0, 30, 0, 0, time.UTC)
	res = Resolve(in, rules, nil)
	assert.Nil(t, res.AppliedRuleID)
}

func TestResolveFixedDiscountFloorsAtZero(t *testing.T) {
	rules := []pricingModel.PriceRule{
		{ID: 1, Kind: pricingModel.RuleKindFixedDiscount, Value: 150, Scope: pricingModel.ScopeAllAgencies, IsActive: true},
	}

	res := Resolve(agencyInput("A1", 100), rules, nil)

	assert.Equal(t, 0.0, res.FinalPrice)
}

func TestResolveRoundsHalfUpAtFinalStepOnly(t *testing.T) {
	rules := []pricingModel.PriceRule{
		{ID: 1, Kind: pricingModel.RuleKindPercentageDiscount, Value: 10, Scope: pricingModel.ScopeAllAgencies, IsActive: true},
	}

	// 100.55 * 0.9 = 90.495 -> 90.50 when rounded half-up once at the end.
	res := Resolve(agencyInput("A1", 100.55), rules, nil)

	assert.Equal(t, 90.50, res.FinalPrice)
}

func TestResolveCommissionOnFinalPrice(t *testing.T) {
	rules := []pricingModel.PriceRule{
		{ID: 1, Kind: pricingModel.RuleKindPercentageDiscount, Value: 10, Scope: pricingModel.ScopeAllAgencies, IsActive: true},
	}
	commissions := []pricingModel.Commission{
		{ID: 7, AgencyID: "A1", Kind: pricingModel.CommissionKindPercentage, Value: 5, IsActive: true},
	}

	res := Resolve(agencyInput("A1", 1000), rules, commissions)

	assert.Equal(t, 900.0, res.FinalPrice)
	if assert.NotNil(t, res.Commission) {
		assert.Equal(t, uint(7), res.Commission.CommissionID)
		// 5% of the discounted price, not of the base price.
		assert.Equal(t, 45.0, res.Commission.Amount)
	}
}

func TestResolveCommissionNeverChangesFinalPrice(t *testing.T) {
	commissions := []pricingModel.Commission{
		{ID: 7, AgencyID: "A1", Kind: pricingModel.CommissionKindFixed, Value: 25, IsActive: true},
	}

	res := Resolve(agencyInput("A1", 500), nil, commissions)

	assert.Equal(t, 500.0, res.FinalPrice)
	if assert.NotNil(t, res.Commission) {
		assert.Equal(t, 25.0, res.Commission.Amount)
	}
}

func TestResolveNoCommissionForDirectCustomer(t *testing.T) {
	commissions := []pricingModel.Commission{
		{ID: 7, AgencyID: "A1", Kind: pricingModel.CommissionKindPercentage, Value: 5, IsActive: true},
	}

	in := agencyInput("", 500)
	in.AgencyID = nil
	res := Resolve(in, nil, commissions)

	assert.Nil(t, res.Commission)
}

func TestResolveCommissionScopedToAgency(t *testing.T) {
	commissions := []pricingModel.Commission{
		{ID: 7, AgencyID: "A2", Kind: pricingModel.CommissionKindPercentage, Value: 5, IsActive: true},
	}

	res := Resolve(agencyInput("A1", 500), nil, commissions)

	assert.Nil(t, res.Commission)
}

func TestResolveIsDeterministic(t *testing.T) {
	rules := []pricingModel.PriceRule{
		{ID: 1, Kind: pricingModel.RuleKindPercentageDiscount, Value: 10, Scope: pricingModel.ScopeAllAgencies, Priority: 3, IsActive: true},
		{ID: 2, Kind: pricingModel.RuleKindMarkup, Value: 5, Scope: pricingModel.ScopeSpecificAgency, AgencyID: strPtr("A1"), Priority: 3, IsActive: true},
		{ID: 3, Kind: pricingModel.RuleKindFixedDiscount, Value: 50, Scope: pricingModel.ScopeAllAgencies, Priority: 1, IsActive: true},
	}
	commissions := []pricingModel.Commission{
		{ID: 7, AgencyID: "A1", Kind: pricingModel.CommissionKindPercentage, Value: 8, IsActive: true},
	}

	in := agencyInput("A1", 1234.56)
	first := Resolve(in, rules, commissions)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Resolve(in, rules, commissions))
	}
}
