package vehicle

import (
	"context"
	"fmt"
	"time"

	"spotsense/internal/domain"
)

type Repository interface {
	Create(ctx context.Context, v *domain.Vehicle) error
	GetByID(ctx context.Context, id int64) (*domain.Vehicle, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Vehicle, error)
}

// Service manages a driver's registered vehicles.
type Service struct {
	vehicles Repository
	now      func() time.Time
}

func NewService(vehicles Repository) *Service {
	return &Service{vehicles: vehicles, now: time.Now}
}

func (s *Service) Register(ctx context.Context, userID int64, req RegisterRequest) (*domain.Vehicle, error) {
	now := s.now()
	v := domain.Vehicle{
		UserID:       userID,
		LicensePlate: req.LicensePlate,
		Make:         req.Make,
		Model:        req.Model,
		Color:        req.Color,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.vehicles.Create(ctx, &v); err != nil {
		return nil, fmt.Errorf("register vehicle: %w", err)
	}
	return &v, nil
}

func (s *Service) ListMine(ctx context.Context, userID int64) ([]domain.Vehicle, error) {
	return s.vehicles.ListByUser(ctx, userID)
}

// Get returns one vehicle; drivers only see their own.
func (s *Service) Get(ctx context.Context, id, userID int64) (*domain.Vehicle, error) {
	v, err := s.vehicles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if v.UserID != userID {
		return nil, ErrForbidden
	}
	return v, nil
}
