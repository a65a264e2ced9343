package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	pricingModel "hotel-broker/models/pricing"
)

// PricingRepository reads and maintains price rules and commissions. The
// pricing path only ever reads; create/update come from the admin surface.
type PricingRepository struct {
	db *gorm.DB
}

func NewPricingRepository(db *gorm.DB) *PricingRepository {
	return &PricingRepository{db: db}
}

// ActiveRules returns every active price rule. Window and scope filtering is
// the pricing engine's job; loading all active rules keeps the engine pure
// and the query trivial.
func (r *PricingRepository) ActiveRules(ctx context.Context) ([]pricingModel.PriceRule, error) {
	var rules []pricingModel.PriceRule
	if err := r.db.WithContext(ctx).Where("is_active = ?", true).Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

// ActiveCommissions returns the active commissions for one agency.
func (r *PricingRepository) ActiveCommissions(ctx context.Context, agencyID string) ([]pricingModel.Commission, error) {
	var commissions []pricingModel.Commission
	if err := r.db.WithContext(ctx).Where("is_active = ? AND agency_id = ?", true, agencyID).Find(&commissions).Error; err != nil {
		return nil, err
	}
	return commissions, nil
}

func (r *PricingRepository) CreateRule(ctx context.Context, rule *pricingModel.PriceRule) error {
	return r.db.WithContext(ctx).Create(rule).Error
}

func (r *PricingRepository) UpdateRule(ctx context.Context, rule *pricingModel.PriceRule) error {
	res := r.db.WithContext(ctx).Save(rule)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PricingRepository) GetRule(ctx context.Context, id uint) (*pricingModel.PriceRule, error) {
	var rule pricingModel.PriceRule
	err := r.db.WithContext(ctx).First(&rule, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

func (r *PricingRepository) ListRules(ctx context.Context, activeOnly bool) ([]pricingModel.PriceRule, error) {
	q := r.db.WithContext(ctx).Model(&pricingModel.PriceRule{})
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var rules []pricingModel.PriceRule
	if err := q.Order("priority desc, created_at desc").Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *PricingRepository) CreateCommission(ctx context.Context, commission *pricingModel.Commission) error {
	return r.db.WithContext(ctx).Create(commission).Error
}

func (r *PricingRepository) UpdateCommission(ctx context.Context, commission *pricingModel.Commission) error {
	res := r.db.WithContext(ctx).Save(commission)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PricingRepository) GetCommission(ctx context.Context, id uint) (*pricingModel.Commission, error) {
	var commission pricingModel.Commission
	err := r.db.WithContext(ctx).First(&commission, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &commission, nil
}

func (r *PricingRepository) ListCommissions(ctx context.Context, activeOnly bool) ([]pricingModel.Commission, error) {
	q := r.db.WithContext(ctx).Model(&pricingModel.Commission{})
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var commissions []pricingModel.Commission
	if err := q.Order("priority desc, created_at desc").Find(&commissions).Error; err != nil {
		return nil, err
	}
	return commissions, nil
}
