package booking

import (
	"context"
	"time"

	"spotsense/internal/domain"
	"spotsense/internal/modules/availability"
)

type Repository interface {
	Create(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByNumber(ctx context.Context, number string) (*domain.Booking, error)
	Update(ctx context.Context, b *domain.Booking) error
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Booking, error)
	ListUpcomingForUser(ctx context.Context, userID int64, now time.Time, limit int) ([]domain.Booking, error)
	GetCurrentForUser(ctx context.Context, userID int64, now time.Time) (*domain.Booking, error)
}

type FacilityReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Facility, error)
}

type VehicleReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Vehicle, error)
}

type AvailabilityChecker interface {
	Check(ctx context.Context, q availability.Query) (*availability.Result, error)
}

// SlotLocker serializes check-then-write around one (facility, space) pair.
// A nil locker degrades to unserialized checks.
type SlotLocker interface {
	Acquire(ctx context.Context, facilityID int64, spaceID string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, facilityID int64, spaceID string) error
}

type Dispatcher interface {
	Dispatch(ctx context.Context, evs ...domain.Event)
}
