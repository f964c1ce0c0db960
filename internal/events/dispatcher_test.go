package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"spotsense/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type recordingSubscriber struct {
	name string
	err  error
	seen []domain.Event
}

func (r *recordingSubscriber) Name() string { return r.name }

func (r *recordingSubscriber) Handle(_ context.Context, ev domain.Event) error {
	r.seen = append(r.seen, ev)
	return r.err
}

func TestDispatcher_FansOutToAllSubscribers(t *testing.T) {
	a := &recordingSubscriber{name: "a"}
	b := &recordingSubscriber{name: "b"}
	d := NewDispatcher(zap.NewNop(), a, b)

	ev := domain.Event{Type: domain.EventBookingConfirmed, OccurredAt: time.Now()}
	d.Dispatch(context.Background(), ev)

	require.Len(t, a.seen, 1)
	require.Len(t, b.seen, 1)
	assert.Equal(t, domain.EventBookingConfirmed, a.seen[0].Type)
}

func TestDispatcher_SubscriberFailureIsLoggedNotPropagated(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)

	failing := &recordingSubscriber{name: "stats", err: errors.New("db down")}
	after := &recordingSubscriber{name: "after"}
	d := NewDispatcher(zap.New(core), failing, after)

	d.Dispatch(context.Background(), domain.Event{Type: domain.EventBookingCompleted})

	// the failure is visible in the log, and later subscribers still ran
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "event subscriber failed", entry.Message)
	assert.Equal(t, "stats", entry.ContextMap()["subscriber"])
	require.Len(t, after.seen, 1)
}

type fakeFacilityStore struct {
	facility *domain.Facility
	updated  *domain.Facility
}

func (f *fakeFacilityStore) GetByID(context.Context, int64) (*domain.Facility, error) {
	cp := *f.facility
	return &cp, nil
}

func (f *fakeFacilityStore) Update(_ context.Context, fac *domain.Facility) error {
	f.updated = fac
	return nil
}

type fakeOccupancy struct{ count int64 }

func (f *fakeOccupancy) CountOccupying(context.Context, int64, time.Time) (int64, error) {
	return f.count, nil
}

func TestFacilityStats_RecomputesOccupancyAndRevenue(t *testing.T) {
	store := &fakeFacilityStore{facility: &domain.Facility{ID: 1, TotalCapacity: 10, CompletedBookings: 4, TotalRevenue: 100}}
	sub := NewFacilityStats(store, &fakeOccupancy{count: 6})

	ev := domain.Event{
		Type:       domain.EventBookingCompleted,
		Booking:    domain.Booking{FacilityID: 1, Payment: domain.PaymentInfo{Amount: 25}},
		OccurredAt: time.Now(),
	}
	require.NoError(t, sub.Handle(context.Background(), ev))

	require.NotNil(t, store.updated)
	assert.Equal(t, 6, store.updated.OccupiedSpaces)
	assert.EqualValues(t, 5, store.updated.CompletedBookings)
	assert.Equal(t, 125.0, store.updated.TotalRevenue)
}

func TestFacilityStats_IgnoresCreationEvents(t *testing.T) {
	store := &fakeFacilityStore{facility: &domain.Facility{ID: 1}}
	sub := NewFacilityStats(store, &fakeOccupancy{})

	require.NoError(t, sub.Handle(context.Background(), domain.Event{Type: domain.EventBookingCreated}))
	assert.Nil(t, store.updated)
}

type fakeVehicleStore struct {
	vehicle *domain.Vehicle
	updated *domain.Vehicle
}

func (f *fakeVehicleStore) GetByID(context.Context, int64) (*domain.Vehicle, error) {
	cp := *f.vehicle
	return &cp, nil
}

func (f *fakeVehicleStore) Update(_ context.Context, v *domain.Vehicle) error {
	f.updated = v
	return nil
}

func TestVehicleStats_FoldsCompletedBooking(t *testing.T) {
	store := &fakeVehicleStore{vehicle: &domain.Vehicle{ID: 3, TotalBookings: 2, TotalParkedMinute: 300, TotalSpent: 40}}
	sub := NewVehicleStats(store)

	ev := domain.Event{
		Type:    domain.EventBookingCompleted,
		Booking: domain.Booking{VehicleID: 3, Duration: 120, Payment: domain.PaymentInfo{Amount: 15}},
	}
	require.NoError(t, sub.Handle(context.Background(), ev))

	require.NotNil(t, store.updated)
	assert.EqualValues(t, 3, store.updated.TotalBookings)
	assert.EqualValues(t, 420, store.updated.TotalParkedMinute)
	assert.Equal(t, 55.0, store.updated.TotalSpent)

	// other events leave the vehicle alone
	store.updated = nil
	require.NoError(t, sub.Handle(context.Background(), domain.Event{Type: domain.EventBookingCancelled}))
	assert.Nil(t, store.updated)
}
