package repository

import (
	"context"
	"testing"
	"time"

	"spotsense/internal/database"
	"spotsense/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func seedBooking(t *testing.T, repo *BookingRepository, facilityID int64, spaceID string, status domain.BookingStatus, start, end time.Time) *domain.Booking {
	t.Helper()
	b, err := domain.NewBooking(domain.NewBookingParams{
		UserID:     1,
		VehicleID:  1,
		FacilityID: facilityID,
		Space:      domain.SpaceDescriptor{SpaceID: spaceID, Type: "standard"},
		StartTime:  start,
		EndTime:    end,
		Status:     status,
		HourlyRate: 5,
	}, time.Now())
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), &b))
	return &b
}

func TestBookingRepository_CreateAndRoundtrip(t *testing.T) {
	repo := NewBookingRepository(testDB(t))
	start := time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)

	b := seedBooking(t, repo, 1, "A-1", domain.BookingConfirmed, start, start.Add(2*time.Hour))
	require.NotZero(t, b.ID)

	got, err := repo.GetByID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.BookingNumber, got.BookingNumber)
	assert.Equal(t, "A-1", got.Space.SpaceID)
	assert.Equal(t, domain.BookingConfirmed, got.Status)
	assert.Equal(t, 120, got.Duration)
	assert.Equal(t, domain.PaymentPending, got.Payment.Status)

	byNumber, err := repo.GetByNumber(context.Background(), b.BookingNumber)
	require.NoError(t, err)
	assert.Equal(t, got.ID, byNumber.ID)
}

func TestBookingRepository_GetByID_NotFound(t *testing.T) {
	repo := NewBookingRepository(testDB(t))
	_, err := repo.GetByID(context.Background(), 9999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBookingRepository_UpdatePersistsSubRecords(t *testing.T) {
	repo := NewBookingRepository(testDB(t))
	start := time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)
	b := seedBooking(t, repo, 1, "A-1", domain.BookingConfirmed, start, start.Add(time.Hour))

	updated, _, err := b.CheckInUser("qr_code", "", 0, start.Add(5*time.Minute))
	require.NoError(t, err)
	require.NoError(t, repo.Update(context.Background(), &updated))

	got, err := repo.GetByID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingActive, got.Status)
	require.NotNil(t, got.CheckIn)
	assert.Equal(t, "qr_code", got.CheckIn.Method)
}

func TestBookingRepository_CountOverlapping(t *testing.T) {
	repo := NewBookingRepository(testDB(t))
	ctx := context.Background()
	base := time.Date(2026, 7, 1, 10, 0, 0, 0, time.UTC)

	// three occupying bookings on facility 1, one of them on space A-1
	seedBooking(t, repo, 1, "A-1", domain.BookingConfirmed, base, base.Add(2*time.Hour))
	seedBooking(t, repo, 1, "A-2", domain.BookingActive, base.Add(30*time.Minute), base.Add(3*time.Hour))
	seedBooking(t, repo, 1, "A-3", domain.BookingConfirmed, base.Add(time.Hour), base.Add(90*time.Minute))
	// non-occupying statuses never conflict
	seedBooking(t, repo, 1, "A-4", domain.BookingCancelled, base, base.Add(2*time.Hour))
	seedBooking(t, repo, 1, "A-5", domain.BookingPending, base, base.Add(2*time.Hour))
	// other facility
	seedBooking(t, repo, 2, "A-1", domain.BookingConfirmed, base, base.Add(2*time.Hour))

	count, err := repo.CountOverlapping(ctx, 1, "", base, base.Add(2*time.Hour), 0)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)

	// space-scoped
	count, err = repo.CountOverlapping(ctx, 1, "A-1", base, base.Add(2*time.Hour), 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	// touching ranges do not overlap (half-open semantics)
	count, err = repo.CountOverlapping(ctx, 1, "", base.Add(3*time.Hour), base.Add(4*time.Hour), 0)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestBookingRepository_CountOverlappingExcludesSelf(t *testing.T) {
	repo := NewBookingRepository(testDB(t))
	ctx := context.Background()
	base := time.Date(2026, 7, 1, 10, 0, 0, 0, time.UTC)

	b := seedBooking(t, repo, 1, "A-1", domain.BookingActive, base, base.Add(2*time.Hour))

	count, err := repo.CountOverlapping(ctx, 1, "A-1", base, base.Add(2*time.Hour), b.ID)
	require.NoError(t, err)
	assert.Zero(t, count, "the booking being re-checked is excluded")
}

func TestBookingRepository_UserLookups(t *testing.T) {
	repo := NewBookingRepository(testDB(t))
	ctx := context.Background()
	now := time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)

	// current: active and spanning now
	current := seedBooking(t, repo, 1, "A-1", domain.BookingActive, now.Add(-time.Hour), now.Add(time.Hour))
	// upcoming
	seedBooking(t, repo, 1, "A-2", domain.BookingConfirmed, now.Add(2*time.Hour), now.Add(4*time.Hour))
	seedBooking(t, repo, 1, "A-3", domain.BookingConfirmed, now.Add(24*time.Hour), now.Add(26*time.Hour))
	// past, does not show up as upcoming
	seedBooking(t, repo, 1, "A-4", domain.BookingCompleted, now.Add(-4*time.Hour), now.Add(-2*time.Hour))

	upcoming, err := repo.ListUpcomingForUser(ctx, 1, now, 10)
	require.NoError(t, err)
	require.Len(t, upcoming, 2)
	assert.True(t, upcoming[0].StartTime.Before(upcoming[1].StartTime), "sorted by start time")

	got, err := repo.GetCurrentForUser(ctx, 1, now)
	require.NoError(t, err)
	assert.Equal(t, current.ID, got.ID)

	_, err = repo.GetCurrentForUser(ctx, 2, now)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
