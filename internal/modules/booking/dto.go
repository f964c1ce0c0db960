package booking

import "time"

type SpaceRequest struct {
	SpaceID string `json:"space_id"`
	Floor   int    `json:"floor"`
	Section string `json:"section"`
	Type    string `json:"type"`
}

type RecurringRequest struct {
	Frequency  string    `json:"frequency" binding:"required,oneof=daily weekly monthly"`
	DaysOfWeek []int     `json:"days_of_week" binding:"omitempty,dive,min=0,max=6"`
	EndDate    time.Time `json:"end_date" binding:"required"`
}

type CreateRequest struct {
	VehicleID       int64             `json:"vehicle_id" binding:"required"`
	FacilityID      int64             `json:"facility_id" binding:"required"`
	Space           SpaceRequest      `json:"space"`
	StartTime       time.Time         `json:"start_time" binding:"required"`
	EndTime         time.Time         `json:"end_time" binding:"required"`
	SpecialRequests string            `json:"special_requests"`
	Source          string            `json:"source" binding:"omitempty,oneof=app web kiosk phone"`
	IsRecurring     bool              `json:"is_recurring"`
	Recurring       *RecurringRequest `json:"recurring_details" binding:"omitempty"`
}

type CancelRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type CheckInRequest struct {
	Method string `json:"method" binding:"required,oneof=qr_code access_code license_plate manual"`
	Notes  string `json:"notes"`
}

type CheckOutRequest struct {
	Method            string  `json:"method" binding:"required,oneof=qr_code access_code license_plate manual"`
	Notes             string  `json:"notes"`
	AdditionalCharges float64 `json:"additional_charges" binding:"omitempty,gte=0"`
}

type ExtensionRequest struct {
	AdditionalTime int    `json:"additional_time" binding:"required,gt=0"` // minutes
	PaymentMethod  string `json:"payment_method"`
}

type ApproveExtensionRequest struct {
	TransactionID string `json:"transaction_id"`
}

type NoteRequest struct {
	Text      string `json:"text" binding:"required"`
	IsPrivate bool   `json:"is_private"`
}

type RatingRequest struct {
	Score   int    `json:"score" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}
