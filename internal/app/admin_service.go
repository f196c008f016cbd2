package app

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tonymorry/uniparty/internal/clock"
	"github.com/tonymorry/uniparty/internal/domain"
)

type AdminRepository interface {
	CreateEvent(ctx context.Context, event domain.Event) error
	ListEvents(ctx context.Context) ([]domain.Event, error)
	GetEvent(ctx context.Context, eventID string) (domain.Event, error)
}

// AdminService manages the capacity-owner rows. Everything else about event
// management (editing, moderation, imagery) lives outside this service.
type AdminService struct {
	repo  AdminRepository
	clock clock.Clock
}

func NewAdminService(repo AdminRepository, clk clock.Clock) *AdminService {
	return &AdminService{
		repo:  repo,
		clock: clk,
	}
}

type CreateEventInput struct {
	Name                 string
	OrganizerID          string
	StartsAt             *time.Time
	Capacity             int
	UnitPriceMinorUnits  int
	RequiresAcademicInfo bool
	ExitTracking         bool
}

func (s *AdminService) CreateEvent(ctx context.Context, in CreateEventInput) (domain.Event, error) {
	if in.Name == "" {
		return domain.Event{}, domain.ErrEventNameRequired
	}
	if in.OrganizerID == "" {
		return domain.Event{}, domain.ErrOrganizerRequired
	}
	if in.Capacity < 0 {
		return domain.Event{}, domain.ErrInvalidCapacity
	}
	if in.UnitPriceMinorUnits < 0 {
		return domain.Event{}, domain.ErrInvalidPrice
	}

	now := s.clock.Now()
	startsAt := now
	if in.StartsAt != nil {
		startsAt = *in.StartsAt
	}

	event := domain.Event{
		ID:                   uuid.NewString(),
		Name:                 in.Name,
		OrganizerID:          in.OrganizerID,
		StartsAt:             startsAt,
		Capacity:             in.Capacity,
		SoldCount:            0,
		UnitPriceMinorUnits:  in.UnitPriceMinorUnits,
		RequiresAcademicInfo: in.RequiresAcademicInfo,
		ExitTracking:         in.ExitTracking,
		CreatedAt:            now,
	}

	if err := s.repo.CreateEvent(ctx, event); err != nil {
		return domain.Event{}, err
	}
	return event, nil
}

func (s *AdminService) ListEvents(ctx context.Context) ([]domain.Event, error) {
	return s.repo.ListEvents(ctx)
}

func (s *AdminService) GetEvent(ctx context.Context, eventID string) (domain.Event, error) {
	if eventID == "" {
		return domain.Event{}, domain.ErrInvalidID
	}
	return s.repo.GetEvent(ctx, eventID)
}
