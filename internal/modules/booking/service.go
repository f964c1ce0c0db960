package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"spotsense/internal/domain"
	"spotsense/internal/modules/availability"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// slotLockTTL bounds how long a crashed request can keep a slot locked.
const slotLockTTL = 10 * time.Second

// Service owns the booking lifecycle. Transitions happen on booking values
// in the domain package; the service resolves references, serializes the
// availability check against concurrent writers, persists the result and
// dispatches the emitted events.
type Service struct {
	bookings   Repository
	facilities FacilityReader
	vehicles   VehicleReader
	avail      AvailabilityChecker
	locker     SlotLocker
	events     Dispatcher
	log        *zap.Logger
	qrBaseURL  string
	now        func() time.Time
}

func NewService(
	bookings Repository,
	facilities FacilityReader,
	vehicles VehicleReader,
	avail AvailabilityChecker,
	locker SlotLocker,
	events Dispatcher,
	log *zap.Logger,
	qrBaseURL string,
) *Service {
	return &Service{
		bookings:   bookings,
		facilities: facilities,
		vehicles:   vehicles,
		avail:      avail,
		locker:     locker,
		events:     events,
		log:        log,
		qrBaseURL:  qrBaseURL,
		now:        time.Now,
	}
}

// Create books a space. The vehicle must belong to the requesting user; the
// hourly rate is denormalized from the facility at creation time and never
// re-read afterwards.
func (s *Service) Create(ctx context.Context, userID int64, req CreateRequest) (*domain.Booking, error) {
	now := s.now()
	if !req.StartTime.After(now) {
		return nil, &domain.ValidationError{Field: "start_time", Reason: "must be in the future"}
	}

	vehicle, err := s.vehicles.GetByID(ctx, req.VehicleID)
	if err != nil {
		return nil, err
	}
	if vehicle.UserID != userID {
		return nil, ErrForbidden
	}

	facility, err := s.facilities.GetByID(ctx, req.FacilityID)
	if err != nil {
		return nil, err
	}

	release, err := s.lockSlot(ctx, req.FacilityID, req.Space.SpaceID)
	if err != nil {
		return nil, err
	}
	defer release()

	res, err := s.avail.Check(ctx, availability.Query{
		FacilityID: req.FacilityID,
		SpaceID:    req.Space.SpaceID,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
	})
	if err != nil {
		return nil, err
	}
	if !res.IsAvailable {
		return nil, ErrNotAvailable
	}

	var recurring *domain.RecurringDetails
	if req.IsRecurring {
		if req.Recurring == nil {
			return nil, &domain.ValidationError{Field: "recurring_details", Reason: "required for a recurring booking"}
		}
		recurring = &domain.RecurringDetails{
			Frequency:  domain.RecurrenceFrequency(req.Recurring.Frequency),
			DaysOfWeek: req.Recurring.DaysOfWeek,
			EndDate:    req.Recurring.EndDate,
		}
	}

	b, err := domain.NewBooking(domain.NewBookingParams{
		UserID:     userID,
		VehicleID:  req.VehicleID,
		FacilityID: req.FacilityID,
		Space: domain.SpaceDescriptor{
			SpaceID: req.Space.SpaceID,
			Floor:   req.Space.Floor,
			Section: req.Space.Section,
			Type:    req.Space.Type,
		},
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		HourlyRate:      facility.HourlyRate,
		Currency:        facility.Currency,
		Source:          req.Source,
		SpecialRequests: req.SpecialRequests,
		IsRecurring:     req.IsRecurring,
		Recurring:       recurring,
	}, now)
	if err != nil {
		return nil, err
	}

	if err := s.bookings.Create(ctx, &b); err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}

	s.events.Dispatch(ctx, domain.NewEvent(domain.EventBookingCreated, b, now))
	return &b, nil
}

// Get returns one booking; drivers only see their own.
func (s *Service) Get(ctx context.Context, id, userID int64, role string) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canAccess(b, userID, role) {
		return nil, ErrForbidden
	}
	return b, nil
}

func (s *Service) ListMine(ctx context.Context, userID int64, limit, offset int) ([]domain.Booking, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.bookings.ListByUser(ctx, userID, limit, offset)
}

func (s *Service) ListUpcoming(ctx context.Context, userID int64, limit int) ([]domain.Booking, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.bookings.ListUpcomingForUser(ctx, userID, s.now(), limit)
}

func (s *Service) Current(ctx context.Context, userID int64) (*domain.Booking, error) {
	return s.bookings.GetCurrentForUser(ctx, userID, s.now())
}

// Cancel cancels the booking and issues the tiered refund. The refund
// receipt id is minted up front; the domain records it only when a refund
// is actually due.
func (s *Service) Cancel(ctx context.Context, id, userID int64, role, reason string) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canAccess(b, userID, role) {
		return nil, ErrForbidden
	}

	updated, evs, err := b.Cancel(userID, reason, uuid.NewString(), s.now())
	if err != nil {
		return nil, err
	}

	if err := s.bookings.Update(ctx, &updated); err != nil {
		return nil, fmt.Errorf("cancel booking: %w", err)
	}
	s.events.Dispatch(ctx, evs...)
	return &updated, nil
}

// CheckIn activates a confirmed booking. Staff only.
func (s *Service) CheckIn(ctx context.Context, id, staffID int64, req CheckInRequest) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated, evs, err := b.CheckInUser(req.Method, req.Notes, staffID, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.bookings.Update(ctx, &updated); err != nil {
		return nil, fmt.Errorf("check in booking: %w", err)
	}
	s.events.Dispatch(ctx, evs...)
	return &updated, nil
}

// CheckOut completes an active booking, recording overstay and charges.
func (s *Service) CheckOut(ctx context.Context, id, staffID int64, req CheckOutRequest) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated, evs, err := b.CheckOutUser(req.Method, req.Notes, staffID, req.AdditionalCharges, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.bookings.Update(ctx, &updated); err != nil {
		return nil, fmt.Errorf("check out booking: %w", err)
	}
	s.events.Dispatch(ctx, evs...)
	return &updated, nil
}

// RequestExtension re-runs the overlap check for the extra window on the
// booking's own space, excluding the booking itself. A conflicting request
// is still persisted as a rejected extension so the attempt is auditable,
// and ErrConflict is returned alongside the updated booking.
func (s *Service) RequestExtension(ctx context.Context, id, userID int64, role string, req ExtensionRequest) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canAccess(b, userID, role) {
		return nil, ErrForbidden
	}

	release, err := s.lockSlot(ctx, b.FacilityID, b.Space.SpaceID)
	if err != nil {
		return nil, err
	}
	defer release()

	newEnd := b.EndTime.Add(time.Duration(req.AdditionalTime) * time.Minute)
	res, err := s.avail.Check(ctx, availability.Query{
		FacilityID:       b.FacilityID,
		SpaceID:          b.Space.SpaceID,
		StartTime:        b.EndTime,
		EndTime:          newEnd,
		ExcludeBookingID: b.ID,
	})
	if err != nil {
		return nil, err
	}

	transactionID := ""
	if req.PaymentMethod != "" {
		transactionID = uuid.NewString()
	}

	updated, evs, err := b.RequestExtension(req.AdditionalTime, req.PaymentMethod, transactionID, !res.IsAvailable, s.now())
	if errors.Is(err, domain.ErrConflict) {
		if uerr := s.bookings.Update(ctx, &updated); uerr != nil {
			return nil, fmt.Errorf("record rejected extension: %w", uerr)
		}
		return &updated, err
	}
	if err != nil {
		return nil, err
	}

	if err := s.bookings.Update(ctx, &updated); err != nil {
		return nil, fmt.Errorf("extend booking: %w", err)
	}
	s.events.Dispatch(ctx, evs...)
	return &updated, nil
}

// ApproveExtension approves a pending extension by index. Staff only.
func (s *Service) ApproveExtension(ctx context.Context, id int64, index int, req ApproveExtensionRequest) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated, evs, err := b.ApproveExtension(index, req.TransactionID, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.bookings.Update(ctx, &updated); err != nil {
		return nil, fmt.Errorf("approve extension: %w", err)
	}
	s.events.Dispatch(ctx, evs...)
	return &updated, nil
}

// AddRating rates a completed booking. Only the booking owner rates.
func (s *Service) AddRating(ctx context.Context, id, userID int64, req RatingRequest) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.UserID != userID {
		return nil, ErrForbidden
	}

	updated, evs, err := b.AddRating(req.Score, req.Comment, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.bookings.Update(ctx, &updated); err != nil {
		return nil, fmt.Errorf("rate booking: %w", err)
	}
	s.events.Dispatch(ctx, evs...)
	return &updated, nil
}

// AddNote appends a staff note to the booking. Notes never change status,
// so terminal bookings accept them too.
func (s *Service) AddNote(ctx context.Context, id, staffID int64, req NoteRequest) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := b.AddNote(req.Text, staffID, req.IsPrivate, s.now())
	if err := s.bookings.Update(ctx, &updated); err != nil {
		return nil, fmt.Errorf("add note: %w", err)
	}
	return &updated, nil
}

// IssueAccess assigns the QR reference and a gate access code to a booking
// that can be entered with. An already-issued access code is kept.
func (s *Service) IssueAccess(ctx context.Context, id, userID int64, role string) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canAccess(b, userID, role) {
		return nil, ErrForbidden
	}
	if b.Status != domain.BookingConfirmed && b.Status != domain.BookingActive {
		return nil, &domain.InvalidStateError{Op: "issue access credentials", Status: string(b.Status)}
	}

	updated := b.WithQRCode(s.qrBaseURL)
	if updated.AccessCode == "" {
		updated = updated.WithAccessCode(domain.NewAccessCode())
	}

	if err := s.bookings.Update(ctx, &updated); err != nil {
		return nil, fmt.Errorf("issue access credentials: %w", err)
	}
	return &updated, nil
}

// ExpandRecurring materializes the planned occurrences of a recurring
// template as sibling bookings. Each occurrence is checked and created
// independently; a full or failing date is logged and skipped, the rest of
// the series still books.
func (s *Service) ExpandRecurring(ctx context.Context, id, userID int64, role string) (*domain.Booking, []domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if !canAccess(b, userID, role) {
		return nil, nil, ErrForbidden
	}

	occurrences, err := b.PlanOccurrences()
	if err != nil {
		return nil, nil, err
	}

	now := s.now()
	var created []domain.Booking
	ids := make([]int64, 0, len(occurrences))
	for _, occ := range occurrences {
		res, err := s.avail.Check(ctx, availability.Query{
			FacilityID: b.FacilityID,
			SpaceID:    b.Space.SpaceID,
			StartTime:  occ.StartTime,
			EndTime:    occ.EndTime,
		})
		if err != nil {
			s.log.Warn("recurring occurrence availability check failed",
				zap.String("booking_number", b.BookingNumber),
				zap.Time("start", occ.StartTime),
				zap.Error(err),
			)
			continue
		}
		if !res.IsAvailable {
			s.log.Info("recurring occurrence skipped, no space",
				zap.String("booking_number", b.BookingNumber),
				zap.Time("start", occ.StartTime),
			)
			continue
		}

		instance, err := b.Instance(occ, now)
		if err != nil {
			s.log.Warn("recurring occurrence build failed",
				zap.String("booking_number", b.BookingNumber),
				zap.Time("start", occ.StartTime),
				zap.Error(err),
			)
			continue
		}
		if err := s.bookings.Create(ctx, &instance); err != nil {
			s.log.Warn("recurring occurrence create failed",
				zap.String("booking_number", b.BookingNumber),
				zap.Time("start", occ.StartTime),
				zap.Error(err),
			)
			continue
		}

		ids = append(ids, instance.ID)
		created = append(created, instance)
		s.events.Dispatch(ctx, domain.NewEvent(domain.EventBookingCreated, instance, now))
	}

	updated := b.WithInstances(ids, now)
	if err := s.bookings.Update(ctx, &updated); err != nil {
		return nil, nil, fmt.Errorf("record recurring instances: %w", err)
	}
	return &updated, created, nil
}

func (s *Service) lockSlot(ctx context.Context, facilityID int64, spaceID string) (func(), error) {
	if s.locker == nil {
		return func() {}, nil
	}
	ok, err := s.locker.Acquire(ctx, facilityID, spaceID, slotLockTTL)
	if err != nil {
		return nil, fmt.Errorf("acquire slot lock: %w", err)
	}
	if !ok {
		return nil, ErrSlotContended
	}
	return func() {
		if err := s.locker.Release(ctx, facilityID, spaceID); err != nil {
			s.log.Warn("release slot lock failed",
				zap.Int64("facility_id", facilityID),
				zap.String("space_id", spaceID),
				zap.Error(err),
			)
		}
	}, nil
}

func canAccess(b *domain.Booking, userID int64, role string) bool {
	if b.UserID == userID {
		return true
	}
	return role == "operator" || role == "admin"
}
