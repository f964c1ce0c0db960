package payment

import (
	"context"
	"testing"
	"time"

	"spotsense/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockBookingStore struct {
	mock.Mock
}

func (m *MockBookingStore) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingStore) Update(ctx context.Context, b *domain.Booking) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

type recordingDispatcher struct {
	events []domain.Event
}

func (d *recordingDispatcher) Dispatch(_ context.Context, evs ...domain.Event) {
	d.events = append(d.events, evs...)
}

func pendingBooking(t *testing.T) *domain.Booking {
	t.Helper()
	now := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	b, err := domain.NewBooking(domain.NewBookingParams{
		UserID:     42,
		VehicleID:  7,
		FacilityID: 1,
		StartTime:  now.Add(24 * time.Hour),
		EndTime:    now.Add(26 * time.Hour),
		HourlyRate: 10,
	}, now)
	require.NoError(t, err)
	b.ID = 100
	return &b
}

func TestConfirm_MovesToConfirmedAndIssuesAccess(t *testing.T) {
	store := new(MockBookingStore)
	dispatcher := &recordingDispatcher{}
	svc := NewService(store, dispatcher, "https://app.spotsense.io")

	b := pendingBooking(t)
	store.On("GetByID", mock.Anything, int64(100)).Return(b, nil)
	store.On("Update", mock.Anything, mock.AnythingOfType("*domain.Booking")).Return(nil)

	got, err := svc.Confirm(context.Background(), 100, 42, ConfirmRequest{Method: "credit_card"})
	require.NoError(t, err)

	assert.Equal(t, domain.BookingConfirmed, got.Status)
	assert.Equal(t, domain.PaymentPaid, got.Payment.Status)
	assert.Equal(t, "credit_card", got.Payment.Method)
	assert.NotEmpty(t, got.Payment.TransactionID)
	assert.Len(t, got.AccessCode, 6)
	assert.Contains(t, got.QRCode, got.BookingNumber)

	require.Len(t, dispatcher.events, 1)
	assert.Equal(t, domain.EventBookingConfirmed, dispatcher.events[0].Type)
}

func TestConfirm_KeepsProcessorTransactionID(t *testing.T) {
	store := new(MockBookingStore)
	svc := NewService(store, &recordingDispatcher{}, "https://app.spotsense.io")

	store.On("GetByID", mock.Anything, int64(100)).Return(pendingBooking(t), nil)
	store.On("Update", mock.Anything, mock.Anything).Return(nil)

	got, err := svc.Confirm(context.Background(), 100, 42, ConfirmRequest{
		Method:        "wallet",
		TransactionID: "txn-ext-555",
	})
	require.NoError(t, err)
	assert.Equal(t, "txn-ext-555", got.Payment.TransactionID)
}

func TestConfirm_AlreadyConfirmed(t *testing.T) {
	store := new(MockBookingStore)
	svc := NewService(store, &recordingDispatcher{}, "https://app.spotsense.io")

	b := pendingBooking(t)
	b.Status = domain.BookingConfirmed
	store.On("GetByID", mock.Anything, int64(100)).Return(b, nil)

	_, err := svc.Confirm(context.Background(), 100, 42, ConfirmRequest{Method: "cash"})

	var se *domain.InvalidStateError
	assert.ErrorAs(t, err, &se)
	store.AssertNotCalled(t, "Update")
}

func TestConfirm_OtherUsersBooking(t *testing.T) {
	store := new(MockBookingStore)
	svc := NewService(store, &recordingDispatcher{}, "https://app.spotsense.io")

	store.On("GetByID", mock.Anything, int64(100)).Return(pendingBooking(t), nil)

	_, err := svc.Confirm(context.Background(), 100, 77, ConfirmRequest{Method: "cash"})
	assert.ErrorIs(t, err, ErrForbidden)
}
