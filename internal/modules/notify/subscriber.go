package notify

import (
	"context"
	"fmt"

	"spotsense/internal/domain"
)

type BookingStore interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	Update(ctx context.Context, b *domain.Booking) error
}

// StatusPush delivers booking status changes to the booking owner over the
// websocket hub and records delivered pushes on the booking's notification
// trail. Offline users simply miss the push; the booking record stays the
// source of truth.
type StatusPush struct {
	hub      *Hub
	bookings BookingStore
}

// NewStatusPush builds the subscriber. bookings may be nil, in which case
// deliveries are not recorded.
func NewStatusPush(hub *Hub, bookings BookingStore) *StatusPush {
	return &StatusPush{hub: hub, bookings: bookings}
}

func (s *StatusPush) Name() string { return "status_push" }

type statusMessage struct {
	Type          string  `json:"type"`
	BookingID     int64   `json:"booking_id"`
	BookingNumber string  `json:"booking_number"`
	Status        string  `json:"status"`
	StartTime     string  `json:"start_time"`
	EndTime       string  `json:"end_time"`
	RefundAmount  float64 `json:"refund_amount,omitempty"`
}

func (s *StatusPush) Handle(ctx context.Context, ev domain.Event) error {
	msg := statusMessage{
		Type:          string(ev.Type),
		BookingID:     ev.Booking.ID,
		BookingNumber: ev.Booking.BookingNumber,
		Status:        string(ev.Booking.Status),
		StartTime:     ev.Booking.StartTime.Format("2006-01-02T15:04:05Z07:00"),
		EndTime:       ev.Booking.EndTime.Format("2006-01-02T15:04:05Z07:00"),
	}
	if ev.Booking.Cancellation != nil {
		msg.RefundAmount = ev.Booking.Cancellation.RefundAmount
	}

	if !s.hub.SendToUser(ev.Booking.UserID, msg) {
		return nil
	}
	return s.record(ctx, ev)
}

// record appends the delivered push to the booking's notification trail.
func (s *StatusPush) record(ctx context.Context, ev domain.Event) error {
	if s.bookings == nil || ev.Booking.ID == 0 {
		return nil
	}

	b, err := s.bookings.GetByID(ctx, ev.Booking.ID)
	if err != nil {
		return err
	}
	updated := b.AppendNotification(string(ev.Type), "websocket",
		fmt.Sprintf("booking %s is now %s", b.BookingNumber, b.Status), ev.OccurredAt)
	return s.bookings.Update(ctx, &updated)
}
