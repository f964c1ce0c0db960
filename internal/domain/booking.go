package domain

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingActive    BookingStatus = "active"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
	BookingNoShow    BookingStatus = "no_show"
	BookingRefunded  BookingStatus = "refunded"
)

// IsTerminal reports whether no further status-changing operation is allowed.
func (s BookingStatus) IsTerminal() bool {
	switch s {
	case BookingCompleted, BookingCancelled, BookingNoShow, BookingRefunded:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending       PaymentStatus = "pending"
	PaymentPaid          PaymentStatus = "paid"
	PaymentFailed        PaymentStatus = "failed"
	PaymentRefunded      PaymentStatus = "refunded"
	PaymentPartialRefund PaymentStatus = "partial_refund"
)

type ExtensionStatus string

const (
	ExtensionPending  ExtensionStatus = "pending"
	ExtensionApproved ExtensionStatus = "approved"
	ExtensionRejected ExtensionStatus = "rejected"
)

type RecurrenceFrequency string

const (
	RecurDaily   RecurrenceFrequency = "daily"
	RecurWeekly  RecurrenceFrequency = "weekly"
	RecurMonthly RecurrenceFrequency = "monthly"
)

// SpaceDescriptor is denormalized onto the booking at creation time and is
// not re-validated against the facility afterwards.
type SpaceDescriptor struct {
	SpaceID string `json:"space_id"`
	Floor   int    `json:"floor"`
	Section string `json:"section"`
	Type    string `json:"type"`
}

type CostBreakdown struct {
	BaseRate   float64 `json:"base_rate"`
	Discounts  float64 `json:"discounts"`
	Taxes      float64 `json:"taxes"`
	ServiceFee float64 `json:"service_fee"`
}

type PaymentInfo struct {
	Status        PaymentStatus `json:"status"`
	Method        string        `json:"method,omitempty"`
	TransactionID string        `json:"transaction_id,omitempty"`
	Amount        float64       `json:"amount"`
	Currency      string        `json:"currency"`
	Breakdown     CostBreakdown `json:"breakdown"`
	RefundAmount  float64       `json:"refund_amount,omitempty"`
	RefundReason  string        `json:"refund_reason,omitempty"`
	RefundDate    *time.Time    `json:"refund_date,omitempty"`
	Receipt       string        `json:"receipt,omitempty"`
}

type CheckInRecord struct {
	Time       time.Time `json:"time"`
	Method     string    `json:"method"`
	VerifiedBy int64     `json:"verified_by,omitempty"`
	Notes      string    `json:"notes,omitempty"`
}

type CheckOutRecord struct {
	Time       time.Time `json:"time"`
	Method     string    `json:"method"`
	VerifiedBy int64     `json:"verified_by,omitempty"`
	Notes      string    `json:"notes,omitempty"`
	// ExtendedTime is the overstay past endTime, in whole minutes rounded up.
	ExtendedTime      int     `json:"extended_time"`
	AdditionalCharges float64 `json:"additional_charges"`
}

type Extension struct {
	RequestTime          time.Time       `json:"request_time"`
	AdditionalTime       int             `json:"additional_time"` // minutes
	OriginalEndTime      time.Time       `json:"original_end_time"`
	NewEndTime           time.Time       `json:"new_end_time"`
	Status               ExtensionStatus `json:"status"`
	AdditionalAmount     float64         `json:"additional_amount"`
	PaymentStatus        PaymentStatus   `json:"payment_status"`
	PaymentTransactionID string          `json:"payment_transaction_id,omitempty"`
}

type Cancellation struct {
	Time                time.Time `json:"time"`
	Reason              string    `json:"reason"`
	CancelledBy         int64     `json:"cancelled_by"`
	RefundEligible      bool      `json:"refund_eligible"`
	RefundAmount        float64   `json:"refund_amount"`
	RefundProcessed     bool      `json:"refund_processed"`
	RefundTransactionID string    `json:"refund_transaction_id,omitempty"`
}

type Pricing struct {
	RateType string  `json:"rate_type"`
	Rate     float64 `json:"rate"` // hourly
	Total    float64 `json:"total"`
	Currency string  `json:"currency"`
}

type RecurringDetails struct {
	Frequency  RecurrenceFrequency `json:"frequency"`
	DaysOfWeek []int               `json:"days_of_week,omitempty"` // 0=Sunday .. 6=Saturday
	EndDate    time.Time           `json:"end_date"`
	Instances  []int64             `json:"instances,omitempty"`
}

type Rating struct {
	Score   int       `json:"score"`
	Comment string    `json:"comment,omitempty"`
	Date    time.Time `json:"date"`
}

type NotificationRecord struct {
	Type    string    `json:"type"`
	Sent    bool      `json:"sent"`
	SentAt  time.Time `json:"sent_at"`
	Channel string    `json:"channel"`
	Content string    `json:"content,omitempty"`
}

type Note struct {
	Text      string    `json:"text"`
	AddedBy   int64     `json:"added_by"`
	AddedAt   time.Time `json:"added_at"`
	IsPrivate bool      `json:"is_private"`
}

// Booking is the aggregate root. Sub-records are stored as JSON columns;
// the scalar columns below are what the overlap and listing queries hit.
type Booking struct {
	ID            int64  `json:"id" gorm:"primaryKey"`
	BookingNumber string `json:"booking_number" gorm:"uniqueIndex"`

	UserID     int64 `json:"user_id" gorm:"index"`
	VehicleID  int64 `json:"vehicle_id" gorm:"index"`
	FacilityID int64 `json:"facility_id" gorm:"index:idx_facility_status"`

	Space SpaceDescriptor `json:"space" gorm:"embedded;embeddedPrefix:space_"`

	Status    BookingStatus `json:"status" gorm:"index:idx_facility_status"`
	StartTime time.Time     `json:"start_time" gorm:"index"`
	EndTime   time.Time     `json:"end_time" gorm:"index"`
	Duration  int           `json:"duration"` // minutes

	Payment      PaymentInfo     `json:"payment" gorm:"serializer:json"`
	Pricing      Pricing         `json:"pricing" gorm:"serializer:json"`
	CheckIn      *CheckInRecord  `json:"check_in,omitempty" gorm:"serializer:json"`
	CheckOut     *CheckOutRecord `json:"check_out,omitempty" gorm:"serializer:json"`
	Extensions   []Extension     `json:"extensions,omitempty" gorm:"serializer:json"`
	Cancellation *Cancellation   `json:"cancellation,omitempty" gorm:"serializer:json"`

	IsRecurring bool              `json:"is_recurring"`
	Recurring   *RecurringDetails `json:"recurring_details,omitempty" gorm:"serializer:json"`

	Ratings       []Rating             `json:"ratings,omitempty" gorm:"serializer:json"`
	Notifications []NotificationRecord `json:"notifications,omitempty" gorm:"serializer:json"`
	Notes         []Note               `json:"notes,omitempty" gorm:"serializer:json"`

	QRCode          string `json:"qr_code,omitempty"`
	AccessCode      string `json:"access_code,omitempty"`
	SpecialRequests string `json:"special_requests,omitempty" gorm:"type:text"`
	Source          string `json:"source"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Booking) TableName() string { return "bookings" }

// NewBookingParams carries everything the caller resolves before creation:
// identity references, the denormalized space, and pricing from the facility.
type NewBookingParams struct {
	UserID          int64
	VehicleID       int64
	FacilityID      int64
	Space           SpaceDescriptor
	StartTime       time.Time
	EndTime         time.Time
	Status          BookingStatus
	HourlyRate      float64
	Currency        string
	Source          string
	SpecialRequests string
	IsRecurring     bool
	Recurring       *RecurringDetails
}

// NewBooking assembles a booking value with a fresh booking number and a
// duration derived from the time range. It does not persist anything.
func NewBooking(p NewBookingParams, now time.Time) (Booking, error) {
	if p.UserID <= 0 || p.VehicleID <= 0 || p.FacilityID <= 0 {
		return Booking{}, &ValidationError{Field: "references", Reason: "user, vehicle and facility are required"}
	}
	if p.StartTime.IsZero() || p.EndTime.IsZero() {
		return Booking{}, &ValidationError{Field: "time_range", Reason: "start and end time are required"}
	}
	if !p.EndTime.After(p.StartTime) {
		return Booking{}, &ValidationError{Field: "time_range", Reason: "end time must be after start time"}
	}

	status := p.Status
	if status == "" {
		status = BookingPending
	}
	currency := p.Currency
	if currency == "" {
		currency = "USD"
	}
	source := p.Source
	if source == "" {
		source = "app"
	}

	duration := durationMinutes(p.StartTime, p.EndTime)
	total := roundMoney(p.HourlyRate * (float64(duration) / 60))

	b := Booking{
		BookingNumber:   NewBookingNumber(now),
		UserID:          p.UserID,
		VehicleID:       p.VehicleID,
		FacilityID:      p.FacilityID,
		Space:           p.Space,
		Status:          status,
		StartTime:       p.StartTime,
		EndTime:         p.EndTime,
		Duration:        duration,
		Source:          source,
		SpecialRequests: p.SpecialRequests,
		IsRecurring:     p.IsRecurring,
		Recurring:       p.Recurring,
		Payment: PaymentInfo{
			Status:   PaymentPending,
			Amount:   total,
			Currency: currency,
			Breakdown: CostBreakdown{
				BaseRate: total,
			},
		},
		Pricing: Pricing{
			RateType: "hourly",
			Rate:     p.HourlyRate,
			Total:    total,
			Currency: currency,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	return b, nil
}

func durationMinutes(start, end time.Time) int {
	d := end.Sub(start)
	mins := int(d / time.Minute)
	if d%time.Minute != 0 {
		mins++
	}
	return mins
}

func roundMoney(v float64) float64 {
	if v < 0 {
		return -roundMoney(-v)
	}
	return float64(int64(v*100+0.5)) / 100
}
