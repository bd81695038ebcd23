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

type tournamentService struct {
	tournamentRepo   domain.TournamentRepository
	clubRepo         domain.ClubRepository
	typeRepo         domain.TournamentTypeRepository
	assignmentRepo   domain.AssignmentRepository
	availabilityRepo domain.AvailabilityRepository
	clock            clockwork.Clock
	contextTimeout   time.Duration
}

// NewTournamentService creates a TournamentService.
func NewTournamentService(
	tournamentRepo domain.TournamentRepository,
	clubRepo domain.ClubRepository,
	typeRepo domain.TournamentTypeRepository,
	assignmentRepo domain.AssignmentRepository,
	availabilityRepo domain.AvailabilityRepository,
	clock clockwork.Clock,
	timeout time.Duration,
) domain.TournamentService {
	return &tournamentService{
		tournamentRepo:   tournamentRepo,
		clubRepo:         clubRepo,
		typeRepo:         typeRepo,
		assignmentRepo:   assignmentRepo,
		availabilityRepo: availabilityRepo,
		clock:            clock,
		contextTimeout:   timeout,
	}
}

func validateSchedule(start, end, deadline time.Time) error {
	if end.Before(start) {
		return invalidInput("end_date must not be before start_date")
	}
	if deadline.After(start) {
		return invalidInput("availability_deadline must not be after start_date")
	}
	return nil
}

// checkClub ensures the club exists and belongs to zoneID.
func (s *tournamentService) checkClub(ctx context.Context, clubID, zoneID string) error {
	club, err := s.clubRepo.GetByID(ctx, clubID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return invalidInput("unknown club")
		}
		return fmt.Errorf("get club: %w", err)
	}
	if club.ZoneID != zoneID {
		return invalidInput("club does not belong to the tournament zone")
	}
	return nil
}

func (s *tournamentService) checkType(ctx context.Context, typeID string) error {
	if _, err := s.typeRepo.GetByID(ctx, typeID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return invalidInput("unknown tournament type")
		}
		return fmt.Errorf("get tournament type: %w", err)
	}
	return nil
}

func (s *tournamentService) Create(ctx context.Context, actor *domain.Actor, t *domain.Tournament) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := requireAdmin(actor); err != nil {
		return err
	}
	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" {
		return invalidInput("name is required")
	}
	if t.ZoneID == "" {
		t.ZoneID = actor.ZoneID
	}
	if !actor.CanAccessZone(t.ZoneID) {
		return domain.ErrForbidden
	}
	if err := validateSchedule(t.StartDate, t.EndDate, t.AvailabilityDeadline); err != nil {
		return err
	}
	if t.Status == "" {
		t.Status = domain.StatusDraft
	}
	if t.Status != domain.StatusDraft && t.Status != domain.StatusOpen {
		return invalidInput("a new tournament must be draft or open")
	}
	if err := s.checkClub(ctx, t.ClubID, t.ZoneID); err != nil {
		return err
	}
	if err := s.checkType(ctx, t.TournamentTypeID); err != nil {
		return err
	}

	now := s.clock.Now()
	t.CreatedBy = actor.UserID
	t.CreatedAt = now
	t.UpdatedAt = now
	if err := s.tournamentRepo.Create(ctx, t); err != nil {
		return fmt.Errorf("create tournament: %w", err)
	}
	created, err := s.tournamentRepo.GetByID(ctx, t.ID)
	if err != nil {
		return fmt.Errorf("reload tournament: %w", err)
	}
	*t = *created
	return nil
}

func (s *tournamentService) Get(ctx context.Context, actor *domain.Actor, id string) (*domain.TournamentDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	t, err := loadTournament(ctx, s.tournamentRepo, actor, id)
	if err != nil {
		return nil, err
	}
	assigned, err := s.assignmentRepo.CountByTournament(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("count assignments: %w", err)
	}
	available, err := s.availabilityRepo.CountByTournament(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("count availabilities: %w", err)
	}
	return &domain.TournamentDetail{
		Tournament:        t,
		AssignedCount:     assigned,
		AvailabilityCount: available,
		Understaffed:      assigned < t.MinReferees,
	}, nil
}

func (s *tournamentService) List(ctx context.Context, actor *domain.Actor, filter domain.TournamentFilter, params domain.PaginationParams) ([]*domain.Tournament, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if actor == nil {
		return nil, 0, domain.ErrForbidden
	}
	list, total, err := s.tournamentRepo.List(ctx, scopeTournamentFilter(actor, filter), params)
	if err != nil {
		return nil, 0, fmt.Errorf("list tournaments: %w", err)
	}
	return list, total, nil
}

func (s *tournamentService) Update(ctx context.Context, actor *domain.Actor, id string, patch domain.TournamentPatch) (*domain.Tournament, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	current, err := loadTournament(ctx, s.tournamentRepo, actor, id)
	if err != nil {
		return nil, err
	}
	if current.Status == domain.StatusCompleted {
		return nil, domain.ErrTournamentLocked
	}

	start, end, deadline := current.StartDate, current.EndDate, current.AvailabilityDeadline
	if patch.StartDate != nil {
		start = *patch.StartDate
	}
	if patch.EndDate != nil {
		end = *patch.EndDate
	}
	if patch.AvailabilityDeadline != nil {
		deadline = *patch.AvailabilityDeadline
	}
	if err := validateSchedule(start, end, deadline); err != nil {
		return nil, err
	}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, invalidInput("name must not be empty")
		}
		patch.Name = &name
	}
	if patch.ClubID != nil && *patch.ClubID != current.ClubID {
		if err := s.checkClub(ctx, *patch.ClubID, current.ZoneID); err != nil {
			return nil, err
		}
	}
	if patch.TournamentTypeID != nil && *patch.TournamentTypeID != current.TournamentTypeID {
		if err := s.checkType(ctx, *patch.TournamentTypeID); err != nil {
			return nil, err
		}
	}

	updated, err := s.tournamentRepo.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update tournament: %w", err)
	}
	return updated, nil
}

func (s *tournamentService) ChangeStatus(ctx context.Context, actor *domain.Actor, id string, status domain.TournamentStatus) (*domain.Tournament, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, invalidInput("unknown status %q", status)
	}
	t, err := loadTournament(ctx, s.tournamentRepo, actor, id)
	if err != nil {
		return nil, err
	}
	if !t.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w: %s to %s", domain.ErrInvalidTransition, t.Status, status)
	}
	if err := s.tournamentRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}
	t.Status = status
	t.UpdatedAt = s.clock.Now()
	return t, nil
}

func (s *tournamentService) Delete(ctx context.Context, actor *domain.Actor, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := requireAdmin(actor); err != nil {
		return err
	}
	t, err := loadTournament(ctx, s.tournamentRepo, actor, id)
	if err != nil {
		return err
	}
	if t.Status != domain.StatusDraft {
		assigned, err := s.assignmentRepo.CountByTournament(ctx, id)
		if err != nil {
			return fmt.Errorf("count assignments: %w", err)
		}
		if assigned > 0 {
			return domain.ErrTournamentLocked
		}
	}
	return s.tournamentRepo.Delete(ctx, id)
}

func (s *tournamentService) Calendar(ctx context.Context, actor *domain.Actor, from, to time.Time) ([]*domain.Tournament, error) {
	if to.Before(from) {
		return nil, invalidInput("to must not be before from")
	}
	list, _, err := s.List(ctx, actor, domain.TournamentFilter{From: &from, To: &to}, domain.PaginationParams{})
	return list, err
}
