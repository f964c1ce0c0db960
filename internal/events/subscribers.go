package events

import (
	"context"
	"time"

	"spotsense/internal/domain"
)

type FacilityStore interface {
	GetByID(ctx context.Context, id int64) (*domain.Facility, error)
	Update(ctx context.Context, f *domain.Facility) error
}

type VehicleStore interface {
	GetByID(ctx context.Context, id int64) (*domain.Vehicle, error)
	Update(ctx context.Context, v *domain.Vehicle) error
}

type OccupancyCounter interface {
	CountOccupying(ctx context.Context, facilityID int64, now time.Time) (int64, error)
}

// FacilityStats recomputes a facility's derived occupancy and statistics
// after status-changing booking operations.
type FacilityStats struct {
	facilities FacilityStore
	bookings   OccupancyCounter
}

func NewFacilityStats(facilities FacilityStore, bookings OccupancyCounter) *FacilityStats {
	return &FacilityStats{facilities: facilities, bookings: bookings}
}

func (s *FacilityStats) Name() string { return "facility_stats" }

func (s *FacilityStats) Handle(ctx context.Context, ev domain.Event) error {
	switch ev.Type {
	case domain.EventBookingConfirmed, domain.EventBookingActivated,
		domain.EventBookingCancelled, domain.EventBookingCompleted,
		domain.EventBookingExtended, domain.EventBookingRated:
	default:
		return nil
	}

	f, err := s.facilities.GetByID(ctx, ev.Booking.FacilityID)
	if err != nil {
		return err
	}

	occupied, err := s.bookings.CountOccupying(ctx, f.ID, ev.OccurredAt)
	if err != nil {
		return err
	}
	f.OccupiedSpaces = int(occupied)

	switch ev.Type {
	case domain.EventBookingCompleted:
		f.CompletedBookings++
		f.TotalRevenue += ev.Booking.Payment.Amount
	case domain.EventBookingRated:
		if n := len(ev.Booking.Ratings); n > 0 {
			*f = f.AddRatingSample(ev.Booking.Ratings[n-1].Score)
		}
	}

	return s.facilities.Update(ctx, f)
}

// VehicleStats folds completed bookings into the vehicle's usage numbers.
type VehicleStats struct {
	vehicles VehicleStore
}

func NewVehicleStats(vehicles VehicleStore) *VehicleStats {
	return &VehicleStats{vehicles: vehicles}
}

func (s *VehicleStats) Name() string { return "vehicle_stats" }

func (s *VehicleStats) Handle(ctx context.Context, ev domain.Event) error {
	if ev.Type != domain.EventBookingCompleted {
		return nil
	}

	v, err := s.vehicles.GetByID(ctx, ev.Booking.VehicleID)
	if err != nil {
		return err
	}
	*v = v.RecordCompletedBooking(ev.Booking)
	return s.vehicles.Update(ctx, v)
}
