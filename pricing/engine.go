// Package pricing resolves the chargeable price and the agency commission
// for a booking. It is pure: given the same rule and commission sets and the
// same input it always produces the same result, and it performs no I/O.
package pricing

import (
	"time"

	"github.com/jinzhu/now"
	"github.com/shopspring/decimal"

	pricingModel "hotel-broker/models/pricing"
)

// Input describes one booking for price resolution.
type Input struct {
	BasePrice float64
	Currency  string
	HotelCode string
	BoardType string
	// AgencyID is nil for direct consumers.
	AgencyID    *string
	BookingDate time.Time
}

// CommissionResult reports the agency commission resolved for a booking.
// It is informational to the agency ledger and not subtracted from the
// customer-facing price.
type CommissionResult struct {
	CommissionID uint
	Kind         pricingModel.CommissionKind
	Value        float64
	Amount       float64
}

// Result is the outcome of price resolution.
type Result struct {
	FinalPrice    float64
	AppliedRuleID *uint
	Commission    *CommissionResult
}

// Resolve applies the best matching price rule to the base price and, for
// agency bookings, resolves the commission independently. Monetary values
// are rounded half-up to two decimals at the final step only.
func Resolve(in Input, rules []pricingModel.PriceRule, commissions []pricingModel.Commission) Result {
	res := Result{FinalPrice: roundMoney(decimal.NewFromFloat(in.BasePrice))}

	if rule := selectRule(in, rules); rule != nil {
		id := rule.ID
		res.AppliedRuleID = &id
		res.FinalPrice = roundMoney(applyRule(decimal.NewFromFloat(in.BasePrice), rule))
	}

	if in.AgencyID != nil {
		if com := selectCommission(in, commissions); com != nil {
			res.Commission = &CommissionResult{
				CommissionID: com.ID,
				Kind:         com.Kind,
				Value:        com.Value,
				Amount:       commissionAmount(decimal.NewFromFloat(res.FinalPrice), com),
			}
		}
	}

	return res
}

// selectRule filters the rule set and picks the single winner. Priority
// decides first; ties break on most-specific scope (specific agency beats
// the blanket scopes), then on most recently created.
func selectRule(in Input, rules []pricingModel.PriceRule) *pricingModel.PriceRule {
	var best *pricingModel.PriceRule
	for i := range rules {
		r := &rules[i]
		if !ruleMatches(in, r) {
			continue
		}
		if best == nil || beats(r, best) {
			best = r
		}
	}
	return best
}

func ruleMatches(in Input, r *pricingModel.PriceRule) bool {
	if !r.IsActive {
		return false
	}
	switch r.Scope {
	case pricingModel.ScopeAllCustomers:
		if in.AgencyID != nil {
			return false
		}
	case pricingModel.ScopeAllAgencies:
		if in.AgencyID == nil {
			return false
		}
	case pricingModel.ScopeSpecificAgency:
		if in.AgencyID == nil || r.AgencyID == nil || *r.AgencyID != *in.AgencyID {
			return false
		}
	default:
		return false
	}
	if r.HotelCode != nil && *r.HotelCode != in.HotelCode {
		return false
	}
	if r.BoardType != nil && *r.BoardType != in.BoardType {
		return false
	}
	return windowContains(r.StartDate, r.EndDate, in.BookingDate)
}

// beats reports whether candidate wins over incumbent under the documented
// tie-break: priority, then scope specificity, then creation recency, then
// id as a stable last resort.
func beats(candidate, incumbent *pricingModel.PriceRule) bool {
	if candidate.Priority != incumbent.Priority {
		return candidate.Priority > incumbent.Priority
	}
	cs, is := scopeRank(candidate.Scope), scopeRank(incumbent.Scope)
	if cs != is {
		return cs > is
	}
	if !candidate.CreatedAt.Equal(incumbent.CreatedAt) {
		return candidate.CreatedAt.After(incumbent.CreatedAt)
	}
	return candidate.ID > incumbent.ID
}

func scopeRank(s pricingModel.Scope) int {
	if s == pricingModel.ScopeSpecificAgency {
		return 1
	}
	return 0
}

// windowContains checks the active window inclusively at day granularity.
func windowContains(start, end *time.Time, bookingDate time.Time) bool {
	if start != nil && bookingDate.Before(now.With(*start).BeginningOfDay()) {
		return false
	}
	if end != nil && bookingDate.After(now.With(*end).EndOfDay()) {
		return false
	}
	return true
}

func applyRule(base decimal.Decimal, r *pricingModel.PriceRule) decimal.Decimal {
	value := decimal.NewFromFloat(r.Value)
	hundred := decimal.NewFromInt(100)

	switch r.Kind {
	case pricingModel.RuleKindPercentageDiscount:
		return base.Sub(base.Mul(value).Div(hundred))
	case pricingModel.RuleKindFixedDiscount:
		result := base.Sub(value)
		if result.IsNegative() {
			return decimal.Zero
		}
		return result
	case pricingModel.RuleKindMarkup:
		return base.Add(base.Mul(value).Div(hundred))
	default:
		return base
	}
}

// selectCommission mirrors selectRule for the commission set, scoped to the
// booking's agency.
func selectCommission(in Input, commissions []pricingModel.Commission) *pricingModel.Commission {
	var best *pricingModel.Commission
	for i := range commissions {
		c := &commissions[i]
		if !commissionMatches(in, c) {
			continue
		}
		if best == nil || commissionBeats(c, best) {
			best = c
		}
	}
	return best
}

func commissionMatches(in Input, c *pricingModel.Commission) bool {
	if !c.IsActive {
		return false
	}
	if in.AgencyID == nil || c.AgencyID != *in.AgencyID {
		return false
	}
	if c.HotelCode != nil && *c.HotelCode != in.HotelCode {
		return false
	}
	if c.BoardType != nil && *c.BoardType != in.BoardType {
		return false
	}
	return windowContains(c.StartDate, c.EndDate, in.BookingDate)
}

func commissionBeats(candidate, incumbent *pricingModel.Commission) bool {
	if candidate.Priority != incumbent.Priority {
		return candidate.Priority > incumbent.Priority
	}
	if !candidate.CreatedAt.Equal(incumbent.CreatedAt) {
		return candidate.CreatedAt.After(incumbent.CreatedAt)
	}
	return candidate.ID > incumbent.ID
}

// commissionAmount computes the agency earning on the final price.
func commissionAmount(finalPrice decimal.Decimal, c *pricingModel.Commission) float64 {
	value := decimal.NewFromFloat(c.Value)
	switch c.Kind {
	case pricingModel.CommissionKindPercentage:
		return roundMoney(finalPrice.Mul(value).Div(decimal.NewFromInt(100)))
	case pricingModel.CommissionKindFixed:
		return roundMoney(value)
	default:
		return 0
	}
}

// roundMoney rounds half-up to two decimal places. Prices are non-negative,
// so decimal's round-half-away-from-zero is round-half-up here.
func roundMoney(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}
