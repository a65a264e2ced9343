package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	reservationModel "hotel-broker/models/reservation"
)

// ReservationRepository persists reservations and their status history.
type ReservationRepository struct {
	db *gorm.DB
}

func NewReservationRepository(db *gorm.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

// CreateIfAbsent inserts the reservation unless a row with the same client
// reference id already exists. The unique constraint arbitrates concurrent
// retries: exactly one caller creates, everyone else gets the winner's row.
func (r *ReservationRepository) CreateIfAbsent(ctx context.Context, res *reservationModel.Reservation) (bool, *reservationModel.Reservation, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(res).Error; err != nil {
			return err
		}
		event := reservationModel.StatusEvent{
			ReservationID: res.ID,
			Status:        res.Status,
			CreatedBy:     res.CreatedBy,
		}
		return tx.Create(&event).Error
	})
	if err == nil {
		return true, res, nil
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		existing, ferr := r.GetByClientReference(ctx, res.ClientReferenceID)
		if ferr != nil {
			return false, nil, fmt.Errorf("load existing reservation for %s: %w", res.ClientReferenceID, ferr)
		}
		return false, existing, nil
	}
	return false, nil, err
}

func (r *ReservationRepository) GetByID(ctx context.Context, id uint) (*reservationModel.Reservation, error) {
	var res reservationModel.Reservation
	err := r.db.WithContext(ctx).Preload("User").First(&res, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *ReservationRepository) GetByClientReference(ctx context.Context, clientReferenceID string) (*reservationModel.Reservation, error) {
	var res reservationModel.Reservation
	err := r.db.WithContext(ctx).Where("client_reference_id = ?", clientReferenceID).First(&res).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// Transition moves a reservation to the next status under a row lock,
// enforcing the state machine, applying mutate to the locked row, and
// appending a status event in the same transaction.
func (r *ReservationRepository) Transition(ctx context.Context, id uint, next reservationModel.Status, actor string, mutate func(*reservationModel.Reservation)) (*reservationModel.Reservation, error) {
	var out reservationModel.Reservation
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var res reservationModel.Reservation
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&res, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if !res.Status.CanTransitionTo(next) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, res.Status, next)
		}

		res.Status = next
		if mutate != nil {
			mutate(&res)
		}
		if err := tx.Save(&res).Error; err != nil {
			return err
		}

		event := reservationModel.StatusEvent{
			ReservationID: res.ID,
			Status:        next,
			CreatedBy:     actor,
		}
		if err := tx.Create(&event).Error; err != nil {
			return err
		}

		out = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ExistsActiveWithPriceCode reports whether a live (pending or confirmed)
// reservation already consumed the given price code. Price codes are
// single-use per successful booking.
func (r *ReservationRepository) ExistsActiveWithPriceCode(ctx context.Context, priceCode string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&reservationModel.Reservation{}).
		Where("price_code = ? AND status IN ?", priceCode,
			[]reservationModel.Status{reservationModel.StatusPending, reservationModel.StatusConfirmed}).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListPendingOlderThan returns PENDING reservations created before the
// cutoff. These are the candidates for reconciliation.
func (r *ReservationRepository) ListPendingOlderThan(ctx context.Context, cutoff time.Time) ([]reservationModel.Reservation, error) {
	var rows []reservationModel.Reservation
	err := r.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", reservationModel.StatusPending, cutoff).
		Order("created_at asc").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListForActor returns reservations visible to the given scope. Admin passes
// both filters as nil.
func (r *ReservationRepository) ListForActor(ctx context.Context, userID *uint, agencyID *string, page, limit int) ([]reservationModel.Reservation, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	if page < 1 {
		page = 1
	}
	q := r.db.WithContext(ctx).Model(&reservationModel.Reservation{})
	if userID != nil {
		q = q.Where("user_id = ?", *userID)
	}
	if agencyID != nil {
		q = q.Where("agency_id = ?", *agencyID)
	}
	var rows []reservationModel.Reservation
	err := q.Order("created_at desc").Offset((page - 1) * limit).Limit(limit).Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
