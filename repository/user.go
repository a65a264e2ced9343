package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	userModel "hotel-broker/models/user"
)

// UserRepository resolves users referenced by tokens and reservations.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByUUID(ctx context.Context, uuid string) (*userModel.User, error) {
	var u userModel.User
	err := r.db.WithContext(ctx).Where("uuid = ?", uuid).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uint) (*userModel.User, error) {
	var u userModel.User
	err := r.db.WithContext(ctx).First(&u, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
