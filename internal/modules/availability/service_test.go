package availability

import (
	"context"
	"testing"
	"time"

	"spotsense/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockBookingCounter struct {
	mock.Mock
}

func (m *MockBookingCounter) CountOverlapping(ctx context.Context, facilityID int64, spaceID string, start, end time.Time, excludeID int64) (int64, error) {
	args := m.Called(ctx, facilityID, spaceID, start, end, excludeID)
	return args.Get(0).(int64), args.Error(1)
}

type MockFacilityReader struct {
	mock.Mock
}

func (m *MockFacilityReader) GetByID(ctx context.Context, id int64) (*domain.Facility, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Facility), args.Error(1)
}

func TestCheck_ReportsRemainingCapacity(t *testing.T) {
	bookings := new(MockBookingCounter)
	facilities := new(MockFacilityReader)

	start := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)

	facilities.On("GetByID", mock.Anything, int64(1)).Return(&domain.Facility{ID: 1, TotalCapacity: 10}, nil)
	bookings.On("CountOverlapping", mock.Anything, int64(1), "", start, end, int64(0)).Return(int64(3), nil)

	res, err := NewService(bookings, facilities).Check(context.Background(), Query{
		FacilityID: 1,
		StartTime:  start,
		EndTime:    end,
	})
	require.NoError(t, err)

	assert.True(t, res.IsAvailable)
	assert.Equal(t, 7, res.AvailableSpaces)
	assert.Equal(t, 10, res.TotalSpaces)
}

func TestCheck_FullFacility(t *testing.T) {
	bookings := new(MockBookingCounter)
	facilities := new(MockFacilityReader)

	start := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	facilities.On("GetByID", mock.Anything, int64(1)).Return(&domain.Facility{ID: 1, TotalCapacity: 2}, nil)
	bookings.On("CountOverlapping", mock.Anything, int64(1), "", start, end, int64(0)).Return(int64(5), nil)

	res, err := NewService(bookings, facilities).Check(context.Background(), Query{
		FacilityID: 1,
		StartTime:  start,
		EndTime:    end,
	})
	require.NoError(t, err)

	assert.False(t, res.IsAvailable)
	assert.Zero(t, res.AvailableSpaces, "never negative")
}

func TestCheck_SpaceScopedHasCapacityOne(t *testing.T) {
	bookings := new(MockBookingCounter)
	facilities := new(MockFacilityReader)

	start := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	facilities.On("GetByID", mock.Anything, int64(1)).Return(&domain.Facility{ID: 1, TotalCapacity: 50}, nil)
	bookings.On("CountOverlapping", mock.Anything, int64(1), "A-12", start, end, int64(7)).Return(int64(0), nil)

	res, err := NewService(bookings, facilities).Check(context.Background(), Query{
		FacilityID:       1,
		SpaceID:          "A-12",
		StartTime:        start,
		EndTime:          end,
		ExcludeBookingID: 7,
	})
	require.NoError(t, err)

	assert.True(t, res.IsAvailable)
	assert.Equal(t, 1, res.TotalSpaces)
}

func TestCheck_UnknownFacility(t *testing.T) {
	bookings := new(MockBookingCounter)
	facilities := new(MockFacilityReader)

	facilities.On("GetByID", mock.Anything, int64(99)).Return(nil, domain.ErrNotFound)

	start := time.Now()
	_, err := NewService(bookings, facilities).Check(context.Background(), Query{
		FacilityID: 99,
		StartTime:  start,
		EndTime:    start.Add(time.Hour),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	bookings.AssertNotCalled(t, "CountOverlapping")
}

func TestCheck_RejectsInvertedRange(t *testing.T) {
	svc := NewService(new(MockBookingCounter), new(MockFacilityReader))

	now := time.Now()
	_, err := svc.Check(context.Background(), Query{
		FacilityID: 1,
		StartTime:  now.Add(time.Hour),
		EndTime:    now,
	})

	var ve *domain.ValidationError
	assert.ErrorAs(t, err, &ve)
}
