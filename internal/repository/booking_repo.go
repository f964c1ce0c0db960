package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"spotsense/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// statuses that hold a space and therefore count against capacity
var occupyingStatuses = []domain.BookingStatus{domain.BookingConfirmed, domain.BookingActive}

func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	if err := r.db.WithContext(ctx).Create(b).Error; err != nil {
		if isConstraintViolation(err) {
			return fmt.Errorf("booking %s: %w", b.BookingNumber, domain.ErrConflict)
		}
		return err
	}
	return nil
}

// isConstraintViolation recognizes unique/exclusion violations so the
// database backstop against overbooking surfaces as a conflict instead of
// a bare driver error.
func isConstraintViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" || pgErr.Code == "23P01"
	}
	return false
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var b domain.Booking
	tx := r.db.WithContext(ctx).First(&b, id)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("booking %d: %w", id, domain.ErrNotFound)
		}
		return nil, tx.Error
	}
	return &b, nil
}

func (r *BookingRepository) GetByNumber(ctx context.Context, number string) (*domain.Booking, error) {
	var b domain.Booking
	tx := r.db.WithContext(ctx).Where("booking_number = ?", number).First(&b)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("booking %s: %w", number, domain.ErrNotFound)
		}
		return nil, tx.Error
	}
	return &b, nil
}

// Update persists the whole aggregate by primary key.
func (r *BookingRepository) Update(ctx context.Context, b *domain.Booking) error {
	return r.db.WithContext(ctx).Save(b).Error
}

// CountOverlapping counts confirmed/active bookings whose half-open range
// intersects [start, end) on the facility, optionally narrowed to one space
// and excluding one booking id (re-checks during extension).
func (r *BookingRepository) CountOverlapping(ctx context.Context, facilityID int64, spaceID string, start, end time.Time, excludeID int64) (int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Booking{}).
		Where("facility_id = ?", facilityID).
		Where("status IN ?", occupyingStatuses).
		Where("start_time < ? AND end_time > ?", end, start)
	if spaceID != "" {
		q = q.Where("space_space_id = ?", spaceID)
	}
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountOccupying counts bookings holding a space on the facility right now.
func (r *BookingRepository) CountOccupying(ctx context.Context, facilityID int64, now time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Booking{}).
		Where("facility_id = ?", facilityID).
		Where("status IN ?", occupyingStatuses).
		Where("start_time <= ? AND end_time > ?", now, now).
		Count(&count).Error
	return count, err
}

func (r *BookingRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Booking, error) {
	var out []domain.Booking
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&out).Error
	return out, err
}

// ListUpcomingForUser returns confirmed/active bookings starting after now.
func (r *BookingRepository) ListUpcomingForUser(ctx context.Context, userID int64, now time.Time, limit int) ([]domain.Booking, error) {
	var out []domain.Booking
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("status IN ?", occupyingStatuses).
		Where("start_time >= ?", now).
		Order("start_time ASC").
		Limit(limit).
		Find(&out).Error
	return out, err
}

// GetCurrentForUser returns the booking the user is parked on right now.
func (r *BookingRepository) GetCurrentForUser(ctx context.Context, userID int64, now time.Time) (*domain.Booking, error) {
	var b domain.Booking
	tx := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("status = ?", domain.BookingActive).
		Where("start_time <= ? AND end_time >= ?", now, now).
		First(&b)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("current booking for user %d: %w", userID, domain.ErrNotFound)
		}
		return nil, tx.Error
	}
	return &b, nil
}

// ListActiveForVehicle returns confirmed/active bookings that have not ended.
func (r *BookingRepository) ListActiveForVehicle(ctx context.Context, vehicleID int64, now time.Time) ([]domain.Booking, error) {
	var out []domain.Booking
	err := r.db.WithContext(ctx).
		Where("vehicle_id = ?", vehicleID).
		Where("status IN ?", occupyingStatuses).
		Where("end_time >= ?", now).
		Order("start_time ASC").
		Find(&out).Error
	return out, err
}
