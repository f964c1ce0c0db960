package payment

import (
	"context"
	"fmt"
	"time"

	"spotsense/internal/domain"

	"github.com/google/uuid"
)

type BookingStore interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	Update(ctx context.Context, b *domain.Booking) error
}

type Dispatcher interface {
	Dispatch(ctx context.Context, evs ...domain.Event)
}

// Service handles the explicit payment-confirmation trigger. Confirming
// payment is what moves a booking out of pending; entry credentials are
// issued at the same moment so the driver can get through the gate.
type Service struct {
	bookings  BookingStore
	events    Dispatcher
	qrBaseURL string
	now       func() time.Time
}

func NewService(bookings BookingStore, events Dispatcher, qrBaseURL string) *Service {
	return &Service{
		bookings:  bookings,
		events:    events,
		qrBaseURL: qrBaseURL,
		now:       time.Now,
	}
}

// Confirm marks the booking paid and confirmed. The transaction id comes
// from the payment processor when present, otherwise one is minted.
func (s *Service) Confirm(ctx context.Context, bookingID, userID int64, req ConfirmRequest) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.UserID != userID {
		return nil, ErrForbidden
	}

	transactionID := req.TransactionID
	if transactionID == "" {
		transactionID = uuid.NewString()
	}

	updated, evs, err := b.ConfirmPayment(req.Method, transactionID, s.now())
	if err != nil {
		return nil, err
	}

	updated = updated.WithQRCode(s.qrBaseURL).WithAccessCode(domain.NewAccessCode())

	if err := s.bookings.Update(ctx, &updated); err != nil {
		return nil, fmt.Errorf("confirm payment: %w", err)
	}
	s.events.Dispatch(ctx, evs...)
	return &updated, nil
}
