package domain

import (
	"time"
)

// Occurrence is one planned sibling of a recurring template: same wall-clock
// start time, same duration, on a later date.
type Occurrence struct {
	StartTime time.Time
	EndTime   time.Time
}

// PlanOccurrences walks day by day from the day after the template's start
// date up to the recurrence end date (inclusive) and returns the dates the
// template expands to:
//
//	daily   - every date
//	weekly  - dates whose weekday is in DaysOfWeek (0=Sunday .. 6=Saturday)
//	monthly - dates whose day-of-month equals the template's
//
// Planning is pure; creating the sibling bookings is the service's job.
func (b Booking) PlanOccurrences() ([]Occurrence, error) {
	if !b.IsRecurring || b.Recurring == nil {
		return nil, &ValidationError{Field: "recurring_details", Reason: "booking is not marked as recurring"}
	}
	switch b.Recurring.Frequency {
	case RecurDaily, RecurWeekly, RecurMonthly:
	default:
		return nil, &ValidationError{Field: "recurring_details.frequency", Reason: "must be daily, weekly or monthly"}
	}

	span := b.EndTime.Sub(b.StartTime)
	start := b.StartTime
	endDate := b.Recurring.EndDate

	days := make(map[int]bool, len(b.Recurring.DaysOfWeek))
	for _, d := range b.Recurring.DaysOfWeek {
		days[d] = true
	}

	var out []Occurrence
	for date := startOfDay(start).AddDate(0, 0, 1); !date.After(endDate); date = date.AddDate(0, 0, 1) {
		include := false
		switch b.Recurring.Frequency {
		case RecurDaily:
			include = true
		case RecurWeekly:
			include = days[int(date.Weekday())]
		case RecurMonthly:
			include = date.Day() == start.Day()
		}
		if !include {
			continue
		}

		occStart := time.Date(date.Year(), date.Month(), date.Day(),
			start.Hour(), start.Minute(), 0, 0, start.Location())
		out = append(out, Occurrence{StartTime: occStart, EndTime: occStart.Add(span)})
	}
	return out, nil
}

// Instance builds the sibling booking for one occurrence: confirmed up
// front, payment reset to pending because every instance pays on its own,
// space/pricing/source/special requests copied from the template.
func (b Booking) Instance(occ Occurrence, now time.Time) (Booking, error) {
	return NewBooking(NewBookingParams{
		UserID:          b.UserID,
		VehicleID:       b.VehicleID,
		FacilityID:      b.FacilityID,
		Space:           b.Space,
		StartTime:       occ.StartTime,
		EndTime:         occ.EndTime,
		Status:          BookingConfirmed,
		HourlyRate:      b.Pricing.Rate,
		Currency:        b.Pricing.Currency,
		Source:          b.Source,
		SpecialRequests: b.SpecialRequests,
	}, now)
}

// WithInstances replaces the recorded list of generated sibling ids.
func (b Booking) WithInstances(ids []int64, now time.Time) Booking {
	if b.Recurring == nil {
		return b
	}
	rec := *b.Recurring
	rec.Instances = append([]int64(nil), ids...)
	b.Recurring = &rec
	b.UpdatedAt = now
	return b
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
