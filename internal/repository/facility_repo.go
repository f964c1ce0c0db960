package repository

import (
	"context"
	"errors"
	"fmt"

	"spotsense/internal/domain"

	"gorm.io/gorm"
)

type FacilityRepository struct {
	db *gorm.DB
}

func NewFacilityRepository(db *gorm.DB) *FacilityRepository {
	return &FacilityRepository{db: db}
}

func (r *FacilityRepository) Create(ctx context.Context, f *domain.Facility) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *FacilityRepository) GetByID(ctx context.Context, id int64) (*domain.Facility, error) {
	var f domain.Facility
	tx := r.db.WithContext(ctx).First(&f, id)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("facility %d: %w", id, domain.ErrNotFound)
		}
		return nil, tx.Error
	}
	return &f, nil
}

func (r *FacilityRepository) List(ctx context.Context, limit, offset int) ([]domain.Facility, error) {
	var out []domain.Facility
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Limit(limit).Offset(offset).
		Find(&out).Error
	return out, err
}

func (r *FacilityRepository) Update(ctx context.Context, f *domain.Facility) error {
	return r.db.WithContext(ctx).Save(f).Error
}
