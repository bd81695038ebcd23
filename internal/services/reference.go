package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"refereehub/internal/domain"
)

type referenceService struct {
	zoneRepo       domain.ZoneRepository
	clubRepo       domain.ClubRepository
	typeRepo       domain.TournamentTypeRepository
	clock          clockwork.Clock
	contextTimeout time.Duration
}

// NewReferenceService creates a ReferenceService for zones, clubs and tournament types.
func NewReferenceService(zoneRepo domain.ZoneRepository, clubRepo domain.ClubRepository, typeRepo domain.TournamentTypeRepository, clock clockwork.Clock, timeout time.Duration) domain.ReferenceService {
	return &referenceService{
		zoneRepo:       zoneRepo,
		clubRepo:       clubRepo,
		typeRepo:       typeRepo,
		clock:          clock,
		contextTimeout: timeout,
	}
}

func (s *referenceService) ListZones(ctx context.Context) ([]*domain.Zone, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.zoneRepo.List(ctx)
}

func (s *referenceService) CreateZone(ctx context.Context, actor *domain.Actor, zone *domain.Zone) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := requireSuperAdmin(actor); err != nil {
		return err
	}
	zone.Name = strings.TrimSpace(zone.Name)
	zone.Code = strings.ToUpper(strings.TrimSpace(zone.Code))
	if zone.Name == "" || zone.Code == "" {
		return invalidInput("zone name and code are required")
	}
	zone.CreatedAt = s.clock.Now()
	return s.zoneRepo.Create(ctx, zone)
}

func (s *referenceService) ListTournamentTypes(ctx context.Context) ([]*domain.TournamentType, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.typeRepo.List(ctx)
}

func (s *referenceService) CreateTournamentType(ctx context.Context, actor *domain.Actor, tt *domain.TournamentType) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := requireSuperAdmin(actor); err != nil {
		return err
	}
	if !tt.ValidBounds() {
		return invalidInput("referee bounds must satisfy 1 <= min <= max")
	}
	tt.Code = strings.ToUpper(strings.TrimSpace(tt.Code))
	return s.typeRepo.Create(ctx, tt)
}

func (s *referenceService) UpdateTournamentType(ctx context.Context, actor *domain.Actor, id string, patch domain.TournamentTypePatch) (*domain.TournamentType, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := requireSuperAdmin(actor); err != nil {
		return nil, err
	}
	current, err := s.typeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	merged := *current
	if patch.MinReferees != nil {
		merged.MinReferees = *patch.MinReferees
	}
	if patch.MaxReferees != nil {
		merged.MaxReferees = *patch.MaxReferees
	}
	if !merged.ValidBounds() {
		return nil, invalidInput("referee bounds must satisfy 1 <= min <= max")
	}
	return s.typeRepo.Update(ctx, id, patch)
}

func (s *referenceService) ListClubs(ctx context.Context, actor *domain.Actor, filter domain.ClubFilter) ([]*domain.Club, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if actor == nil {
		return nil, domain.ErrForbidden
	}
	if zone := actor.ZoneFilter(); zone != "" {
		filter.ZoneID = zone
	}
	clubs, err := s.clubRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list clubs: %w", err)
	}
	return clubs, nil
}

func (s *referenceService) GetClub(ctx context.Context, actor *domain.Actor, id string) (*domain.Club, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	club, err := s.clubRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get club: %w", err)
	}
	if !actor.CanAccessZone(club.ZoneID) {
		return nil, domain.ErrForbidden
	}
	return club, nil
}

func (s *referenceService) CreateClub(ctx context.Context, actor *domain.Actor, club *domain.Club) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := requireAdmin(actor); err != nil {
		return err
	}
	if club.ZoneID == "" {
		club.ZoneID = actor.ZoneID
	}
	if !actor.CanAccessZone(club.ZoneID) {
		return domain.ErrForbidden
	}
	if _, err := s.zoneRepo.GetByID(ctx, club.ZoneID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return invalidInput("unknown zone")
		}
		return fmt.Errorf("get zone: %w", err)
	}
	club.Email = normalizeEmail(club.Email)
	if club.Email != "" && !validEmail(club.Email) {
		return invalidInput("invalid club email")
	}
	now := s.clock.Now()
	club.IsActive = true
	club.CreatedAt = now
	club.UpdatedAt = now
	return s.clubRepo.Create(ctx, club)
}

func (s *referenceService) UpdateClub(ctx context.Context, actor *domain.Actor, id string, patch domain.ClubPatch) (*domain.Club, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if _, err := s.GetClub(ctx, actor, id); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if patch.Email != nil {
		email := normalizeEmail(*patch.Email)
		if email != "" && !validEmail(email) {
			return nil, invalidInput("invalid club email")
		}
		patch.Email = &email
	}
	return s.clubRepo.Update(ctx, id, patch)
}
