package availability

import (
	"context"
	"time"

	"spotsense/internal/domain"
)

type BookingCounter interface {
	CountOverlapping(ctx context.Context, facilityID int64, spaceID string, start, end time.Time, excludeID int64) (int64, error)
}

type FacilityReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Facility, error)
}

// Result mirrors what the booking surface reports to callers.
type Result struct {
	IsAvailable     bool `json:"is_available"`
	AvailableSpaces int  `json:"available_spaces"`
	TotalSpaces     int  `json:"total_spaces"`
}

// Query describes one availability question. ExcludeBookingID removes a
// booking from the conflict scan when an existing booking is re-checked,
// e.g. during an extension.
type Query struct {
	FacilityID       int64
	SpaceID          string
	StartTime        time.Time
	EndTime          time.Time
	ExcludeBookingID int64
}

// Service answers availability questions. It never writes anything and is
// safe to call concurrently; the decision is only as fresh as the moment
// the count ran, which is why writers hold the slot lock around it.
type Service struct {
	bookings   BookingCounter
	facilities FacilityReader
}

func NewService(bookings BookingCounter, facilities FacilityReader) *Service {
	return &Service{bookings: bookings, facilities: facilities}
}

// Check counts confirmed/active bookings overlapping the candidate range.
// Two ranges conflict iff existingStart < candidateEnd and
// existingEnd > candidateStart. A space-scoped query treats the space as
// capacity one.
func (s *Service) Check(ctx context.Context, q Query) (*Result, error) {
	if q.StartTime.IsZero() || q.EndTime.IsZero() || !q.EndTime.After(q.StartTime) {
		return nil, &domain.ValidationError{Field: "time_range", Reason: "end time must be after start time"}
	}

	facility, err := s.facilities.GetByID(ctx, q.FacilityID)
	if err != nil {
		return nil, err
	}

	overlapping, err := s.bookings.CountOverlapping(ctx, q.FacilityID, q.SpaceID, q.StartTime, q.EndTime, q.ExcludeBookingID)
	if err != nil {
		return nil, err
	}

	total := facility.TotalCapacity
	if q.SpaceID != "" {
		total = 1
	}

	available := total - int(overlapping)
	if available < 0 {
		available = 0
	}

	return &Result{
		IsAvailable:     available > 0,
		AvailableSpaces: available,
		TotalSpaces:     total,
	}, nil
}
