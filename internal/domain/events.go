package domain

import "time"

type EventType string

const (
	EventBookingCreated   EventType = "booking_created"
	EventBookingConfirmed EventType = "booking_confirmed"
	EventBookingActivated EventType = "booking_activated"
	EventBookingCompleted EventType = "booking_completed"
	EventBookingCancelled EventType = "booking_cancelled"
	EventBookingExtended  EventType = "booking_extended"
	EventBookingRated     EventType = "booking_rated"
)

// Event is emitted by a lifecycle transition and delivered after the
// booking's own write has succeeded. The snapshot is the post-transition
// value of the booking.
type Event struct {
	Type       EventType `json:"type"`
	Booking    Booking   `json:"booking"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewEvent(t EventType, b Booking, at time.Time) Event {
	return Event{Type: t, Booking: b, OccurredAt: at}
}
