package facility

import (
	"context"
	"fmt"
	"time"

	"spotsense/internal/domain"
)

type Repository interface {
	Create(ctx context.Context, f *domain.Facility) error
	GetByID(ctx context.Context, id int64) (*domain.Facility, error)
	List(ctx context.Context, limit, offset int) ([]domain.Facility, error)
	Update(ctx context.Context, f *domain.Facility) error
}

// Service is the facility catalog: the discovery surface drivers browse
// before booking. Occupancy and rating statistics on the returned
// facilities are maintained by the booking event subscribers.
type Service struct {
	facilities Repository
	now        func() time.Time
}

func NewService(facilities Repository) *Service {
	return &Service{facilities: facilities, now: time.Now}
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]domain.Facility, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.facilities.List(ctx, limit, offset)
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Facility, error) {
	return s.facilities.GetByID(ctx, id)
}

// Create registers a new facility. Admin only.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*domain.Facility, error) {
	now := s.now()
	f := domain.Facility{
		Name:          req.Name,
		Address:       req.Address,
		City:          req.City,
		TotalCapacity: req.TotalCapacity,
		HourlyRate:    req.HourlyRate,
		Currency:      req.Currency,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if f.Currency == "" {
		f.Currency = "USD"
	}

	if err := s.facilities.Create(ctx, &f); err != nil {
		return nil, fmt.Errorf("create facility: %w", err)
	}
	return &f, nil
}
