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

const (
	warningNoAvailability = "referee has not declared availability for this tournament"
	warningOverlap        = "referee is assigned to another tournament on overlapping dates"
)

type assignmentService struct {
	assignmentRepo   domain.AssignmentRepository
	tournamentRepo   domain.TournamentRepository
	availabilityRepo domain.AvailabilityRepository
	userRepo         domain.UserRepository
	clock            clockwork.Clock
	contextTimeout   time.Duration
}

// NewAssignmentService creates an AssignmentService.
func NewAssignmentService(
	assignmentRepo domain.AssignmentRepository,
	tournamentRepo domain.TournamentRepository,
	availabilityRepo domain.AvailabilityRepository,
	userRepo domain.UserRepository,
	clock clockwork.Clock,
	timeout time.Duration,
) domain.AssignmentService {
	return &assignmentService{
		assignmentRepo:   assignmentRepo,
		tournamentRepo:   tournamentRepo,
		availabilityRepo: availabilityRepo,
		userRepo:         userRepo,
		clock:            clock,
		contextTimeout:   timeout,
	}
}

func (s *assignmentService) Assign(ctx context.Context, actor *domain.Actor, tournamentID, userID, role, notes string) (*domain.AssignmentResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if role == "" {
		role = domain.RoleArbitro
	}
	if !domain.ValidAssignmentRole(role) {
		return nil, invalidInput("unknown role %q", role)
	}
	t, err := loadTournament(ctx, s.tournamentRepo, actor, tournamentID)
	if err != nil {
		return nil, err
	}
	if !t.Status.AcceptsAssignments() {
		return nil, domain.ErrTournamentLocked
	}

	referee, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, invalidInput("unknown referee")
		}
		return nil, fmt.Errorf("get referee: %w", err)
	}
	if !referee.IsActive || referee.Role != domain.RoleReferee {
		return nil, invalidInput("user is not an active referee")
	}
	if !actor.CanAccessZone(referee.Zone()) && !t.IsNational {
		return nil, domain.ErrForbidden
	}
	if !refereeCanSee(referee, t) {
		return nil, invalidInput("referee is not eligible for this tournament")
	}

	count, err := s.assignmentRepo.CountByTournament(ctx, t.ID)
	if err != nil {
		return nil, fmt.Errorf("count assignments: %w", err)
	}
	if t.MaxReferees > 0 && count >= t.MaxReferees {
		return nil, domain.ErrTournamentFull
	}

	a := &domain.Assignment{
		TournamentID: t.ID,
		UserID:       referee.ID,
		Role:         role,
		AssignedBy:   actor.UserID,
		AssignedAt:   s.clock.Now(),
		Notes:        strings.TrimSpace(notes),
	}
	if err := s.assignmentRepo.Create(ctx, a); err != nil {
		if errors.Is(err, domain.ErrAlreadyAssigned) {
			return nil, domain.ErrAlreadyAssigned
		}
		return nil, fmt.Errorf("create assignment: %w", err)
	}
	a.RefereeName = referee.FullName()
	a.RefereeEmail = referee.Email
	a.RefereeLevel = referee.Level

	warnings := []string{}
	if _, err := s.availabilityRepo.GetByUserAndTournament(ctx, referee.ID, t.ID); err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("get availability: %w", err)
		}
		warnings = append(warnings, warningNoAvailability)
	}
	conflicts, err := newConflictFinder(s.tournamentRepo, s.assignmentRepo).find(ctx, referee.ID, t)
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 {
		warnings = append(warnings, warningOverlap)
	}
	return &domain.AssignmentResult{Assignment: a, Warnings: warnings}, nil
}

func (s *assignmentService) Remove(ctx context.Context, actor *domain.Actor, tournamentID, assignmentID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := requireAdmin(actor); err != nil {
		return err
	}
	t, err := loadTournament(ctx, s.tournamentRepo, actor, tournamentID)
	if err != nil {
		return err
	}
	if t.Status == domain.StatusCompleted {
		return domain.ErrTournamentLocked
	}
	a, err := s.assignmentRepo.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get assignment: %w", err)
	}
	if a.TournamentID != t.ID {
		return domain.ErrNotFound
	}
	return s.assignmentRepo.Delete(ctx, assignmentID)
}

func (s *assignmentService) ListForTournament(ctx context.Context, actor *domain.Actor, tournamentID string) ([]*domain.Assignment, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := loadTournament(ctx, s.tournamentRepo, actor, tournamentID); err != nil {
		return nil, err
	}
	list, err := s.assignmentRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	return list, nil
}

func (s *assignmentService) ListMine(ctx context.Context, actor *domain.Actor) ([]*domain.AssignmentWithTournament, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if actor == nil {
		return nil, domain.ErrForbidden
	}
	list, err := s.assignmentRepo.ListByUser(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	out := make([]*domain.AssignmentWithTournament, 0, len(list))
	for _, a := range list {
		t, err := s.tournamentRepo.GetByID(ctx, a.TournamentID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("get tournament: %w", err)
		}
		out = append(out, &domain.AssignmentWithTournament{Assignment: a, Tournament: t})
	}
	return out, nil
}

func (s *assignmentService) Confirm(ctx context.Context, actor *domain.Actor, assignmentID string) (*domain.Assignment, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if actor == nil {
		return nil, domain.ErrForbidden
	}
	a, err := s.assignmentRepo.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get assignment: %w", err)
	}
	if a.UserID != actor.UserID {
		if err := requireAdmin(actor); err != nil {
			return nil, err
		}
		if _, err := loadTournament(ctx, s.tournamentRepo, actor, a.TournamentID); err != nil {
			return nil, err
		}
	}
	if a.IsConfirmed {
		return a, nil
	}
	return s.assignmentRepo.Confirm(ctx, assignmentID)
}
