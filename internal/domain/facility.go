package domain

import "time"

// Facility is a parking location. Capacity is the source of truth for the
// availability checker; the statistics fields are derived and recomputed
// best-effort after status-changing booking operations.
type Facility struct {
	ID            int64   `json:"id" gorm:"primaryKey"`
	Name          string  `json:"name" validate:"required"`
	Address       string  `json:"address"`
	City          string  `json:"city"`
	TotalCapacity int     `json:"total_capacity" validate:"required,gt=0"`
	HourlyRate    float64 `json:"hourly_rate" validate:"gte=0"`
	Currency      string  `json:"currency"`

	// Derived occupancy/statistics, maintained by the event subscribers.
	OccupiedSpaces    int     `json:"occupied_spaces"`
	CompletedBookings int64   `json:"completed_bookings"`
	TotalRevenue      float64 `json:"total_revenue"`
	RatingAverage     float64 `json:"rating_average"`
	RatingCount       int64   `json:"rating_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Facility) TableName() string { return "facilities" }

// AddRatingSample folds one rating score into the running average.
func (f Facility) AddRatingSample(score int) Facility {
	total := f.RatingAverage*float64(f.RatingCount) + float64(score)
	f.RatingCount++
	f.RatingAverage = total / float64(f.RatingCount)
	return f
}
