package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	catalogModel "hotel-broker/models/catalog"
)

// CatalogRepository persists the upstream reference data and the hotel
// catalog. Lookups are by upstream code; the local ids and relations stay
// under local control.
type CatalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func (r *CatalogRepository) firstByCode(ctx context.Context, out interface{}, code string) error {
	err := r.db.WithContext(ctx).Where("code = ?", code).First(out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func (r *CatalogRepository) CurrencyByCode(ctx context.Context, code string) (*catalogModel.Currency, error) {
	var row catalogModel.Currency
	if err := r.firstByCode(ctx, &row, code); err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *CatalogRepository) SaveCurrency(ctx context.Context, row *catalogModel.Currency) error {
	return r.db.WithContext(ctx).Save(row).Error
}

func (r *CatalogRepository) BoardTypeByCode(ctx context.Context, code string) (*catalogModel.BoardType, error) {
	var row catalogModel.BoardType
	if err := r.firstByCode(ctx, &row, code); err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *CatalogRepository) SaveBoardType(ctx context.Context, row *catalogModel.BoardType) error {
	return r.db.WithContext(ctx).Save(row).Error
}

func (r *CatalogRepository) FacilityByCode(ctx context.Context, code string) (*catalogModel.Facility, error) {
	var row catalogModel.Facility
	if err := r.firstByCode(ctx, &row, code); err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *CatalogRepository) SaveFacility(ctx context.Context, row *catalogModel.Facility) error {
	return r.db.WithContext(ctx).Save(row).Error
}

func (r *CatalogRepository) FacilitiesByCodes(ctx context.Context, codes []string) ([]catalogModel.Facility, error) {
	if len(codes) == 0 {
		return nil, nil
	}
	var rows []catalogModel.Facility
	if err := r.db.WithContext(ctx).Where("code IN ?", codes).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *CatalogRepository) RoomAttributeByCode(ctx context.Context, code string) (*catalogModel.RoomAttribute, error) {
	var row catalogModel.RoomAttribute
	if err := r.firstByCode(ctx, &row, code); err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *CatalogRepository) SaveRoomAttribute(ctx context.Context, row *catalogModel.RoomAttribute) error {
	return r.db.WithContext(ctx).Save(row).Error
}

func (r *CatalogRepository) LocationByCode(ctx context.Context, code string) (*catalogModel.Location, error) {
	var row catalogModel.Location
	if err := r.firstByCode(ctx, &row, code); err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *CatalogRepository) SaveLocation(ctx context.Context, row *catalogModel.Location) error {
	return r.db.WithContext(ctx).Save(row).Error
}

func (r *CatalogRepository) HotelByCode(ctx context.Context, code string) (*catalogModel.Hotel, error) {
	var row catalogModel.Hotel
	err := r.db.WithContext(ctx).Preload("Facilities").Where("code = ?", code).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *CatalogRepository) SaveHotel(ctx context.Context, row *catalogModel.Hotel) error {
	// Facility links are replaced explicitly; Save must not touch them.
	return r.db.WithContext(ctx).Omit("Facilities").Save(row).Error
}

// ReplaceHotelFacilities rewrites the facility links of a hotel. The links
// are upstream-owned.
func (r *CatalogRepository) ReplaceHotelFacilities(ctx context.Context, hotel *catalogModel.Hotel, facilities []catalogModel.Facility) error {
	return r.db.WithContext(ctx).Model(hotel).Association("Facilities").Replace(facilities)
}

func (r *CatalogRepository) CreateSyncRun(ctx context.Context, run *catalogModel.SyncRun) error {
	return r.db.WithContext(ctx).Create(run).Error
}

func (r *CatalogRepository) UpdateSyncRun(ctx context.Context, run *catalogModel.SyncRun) error {
	return r.db.WithContext(ctx).Save(run).Error
}

// LastSuccessfulSyncRun returns the most recent successful run for a feed,
// or ErrNotFound when the feed has never completed a run.
func (r *CatalogRepository) LastSuccessfulSyncRun(ctx context.Context, feedID string) (*catalogModel.SyncRun, error) {
	var run catalogModel.SyncRun
	err := r.db.WithContext(ctx).
		Where("feed_id = ? AND succeeded = ?", feedID, true).
		Order("started_at desc").
		First(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}
