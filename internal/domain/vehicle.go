package domain

import "time"

// Vehicle belongs to a user; its usage statistics are updated best-effort
// when a booking completes.
type Vehicle struct {
	ID           int64  `json:"id" gorm:"primaryKey"`
	UserID       int64  `json:"user_id" gorm:"index"`
	LicensePlate string `json:"license_plate" validate:"required"`
	Make         string `json:"make"`
	Model        string `json:"model"`
	Color        string `json:"color"`

	TotalBookings     int64   `json:"total_bookings"`
	TotalParkedMinute int64   `json:"total_parked_minutes"`
	TotalSpent        float64 `json:"total_spent"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Vehicle) TableName() string { return "vehicles" }

// RecordCompletedBooking folds one completed booking into the statistics.
func (v Vehicle) RecordCompletedBooking(b Booking) Vehicle {
	v.TotalBookings++
	v.TotalParkedMinute += int64(b.Duration)
	v.TotalSpent = roundMoney(v.TotalSpent + b.Payment.Amount)
	return v
}
