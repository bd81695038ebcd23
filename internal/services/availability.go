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

type availabilityService struct {
	availabilityRepo domain.AvailabilityRepository
	tournamentRepo   domain.TournamentRepository
	assignmentRepo   domain.AssignmentRepository
	userRepo         domain.UserRepository
	clock            clockwork.Clock
	contextTimeout   time.Duration
}

// NewAvailabilityService creates an AvailabilityService.
func NewAvailabilityService(
	availabilityRepo domain.AvailabilityRepository,
	tournamentRepo domain.TournamentRepository,
	assignmentRepo domain.AssignmentRepository,
	userRepo domain.UserRepository,
	clock clockwork.Clock,
	timeout time.Duration,
) domain.AvailabilityService {
	return &availabilityService{
		availabilityRepo: availabilityRepo,
		tournamentRepo:   tournamentRepo,
		assignmentRepo:   assignmentRepo,
		userRepo:         userRepo,
		clock:            clock,
		contextTimeout:   timeout,
	}
}

// deadlinePassed compares at day granularity: the deadline day itself is still open.
func deadlinePassed(now, deadline time.Time) bool {
	y, m, d := deadline.Date()
	endOfDay := time.Date(y, m, d, 0, 0, 0, 0, deadline.Location()).AddDate(0, 0, 1)
	return !now.Before(endOfDay)
}

// checkRefereeWindow enforces the rules a referee acting on their own availability must respect.
func (s *availabilityService) checkRefereeWindow(t *domain.Tournament) error {
	if t.Status != domain.StatusOpen {
		return domain.ErrTournamentLocked
	}
	if deadlinePassed(s.clock.Now(), t.AvailabilityDeadline) {
		return domain.ErrDeadlinePassed
	}
	return nil
}

// resolve loads the tournament and the referee the operation applies to and checks permissions.
func (s *availabilityService) resolve(ctx context.Context, actor *domain.Actor, tournamentID, userID string) (*domain.Tournament, *domain.User, error) {
	if actor == nil {
		return nil, nil, domain.ErrForbidden
	}
	if userID == "" {
		userID = actor.UserID
	}
	if userID != actor.UserID && !actor.IsAdmin() {
		return nil, nil, domain.ErrForbidden
	}
	t, err := loadTournament(ctx, s.tournamentRepo, actor, tournamentID)
	if err != nil {
		return nil, nil, err
	}
	referee, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, domain.ErrNotFound
		}
		return nil, nil, fmt.Errorf("get referee: %w", err)
	}
	if actor.IsAdmin() && userID != actor.UserID && !actor.CanAccessZone(referee.Zone()) && !t.IsNational {
		return nil, nil, domain.ErrForbidden
	}
	return t, referee, nil
}

func (s *availabilityService) Declare(ctx context.Context, actor *domain.Actor, tournamentID, userID, notes string) (*domain.Availability, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	t, referee, err := s.resolve(ctx, actor, tournamentID, userID)
	if err != nil {
		return nil, err
	}
	if !referee.IsActive || referee.Role != domain.RoleReferee {
		return nil, invalidInput("user is not an active referee")
	}
	if !refereeCanSee(referee, t) {
		return nil, invalidInput("referee is not eligible for this tournament")
	}
	if actor.IsAdmin() {
		if t.Status == domain.StatusDraft || t.Status == domain.StatusCompleted {
			return nil, domain.ErrTournamentLocked
		}
	} else if err := s.checkRefereeWindow(t); err != nil {
		return nil, err
	}

	a := &domain.Availability{
		UserID:       referee.ID,
		TournamentID: t.ID,
		Notes:        strings.TrimSpace(notes),
		SubmittedAt:  s.clock.Now(),
	}
	if err := s.availabilityRepo.Create(ctx, a); err != nil {
		if errors.Is(err, domain.ErrAlreadyDeclared) {
			return nil, domain.ErrAlreadyDeclared
		}
		return nil, fmt.Errorf("create availability: %w", err)
	}
	return a, nil
}

func (s *availabilityService) Withdraw(ctx context.Context, actor *domain.Actor, tournamentID, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	t, referee, err := s.resolve(ctx, actor, tournamentID, userID)
	if err != nil {
		return err
	}
	if !actor.IsAdmin() {
		if err := s.checkRefereeWindow(t); err != nil {
			return err
		}
	}
	if err := s.availabilityRepo.Delete(ctx, referee.ID, t.ID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete availability: %w", err)
	}
	return nil
}

func (s *availabilityService) ListMine(ctx context.Context, actor *domain.Actor) ([]*domain.AvailabilityWithTournament, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if actor == nil {
		return nil, domain.ErrForbidden
	}
	list, err := s.availabilityRepo.ListByUser(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("list availabilities: %w", err)
	}
	out := make([]*domain.AvailabilityWithTournament, 0, len(list))
	for _, a := range list {
		t, err := s.tournamentRepo.GetByID(ctx, a.TournamentID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("get tournament: %w", err)
		}
		out = append(out, &domain.AvailabilityWithTournament{Availability: a, Tournament: t})
	}
	return out, nil
}

func (s *availabilityService) SyncMine(ctx context.Context, actor *domain.Actor, tournamentIDs []string) (*domain.AvailabilitySyncResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if actor == nil {
		return nil, domain.ErrForbidden
	}
	referee, err := s.userRepo.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("get referee: %w", err)
	}
	current, err := s.availabilityRepo.ListByUser(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("list availabilities: %w", err)
	}
	declared := make(map[string]bool, len(current))
	for _, a := range current {
		declared[a.TournamentID] = true
	}
	wanted := make(map[string]bool, len(tournamentIDs))
	for _, id := range tournamentIDs {
		wanted[id] = true
	}

	result := &domain.AvailabilitySyncResult{Added: []string{}, Removed: []string{}, Skipped: []string{}}
	now := s.clock.Now()
	var add []*domain.Availability
	for _, id := range tournamentIDs {
		if declared[id] {
			continue
		}
		declared[id] = true
		t, err := s.tournamentRepo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				result.Skipped = append(result.Skipped, id)
				continue
			}
			return nil, fmt.Errorf("get tournament: %w", err)
		}
		if !refereeCanSee(referee, t) || s.checkRefereeWindow(t) != nil {
			result.Skipped = append(result.Skipped, id)
			continue
		}
		add = append(add, &domain.Availability{TournamentID: id, SubmittedAt: now})
		result.Added = append(result.Added, id)
	}

	var remove []string
	for _, a := range current {
		if wanted[a.TournamentID] {
			continue
		}
		t, err := s.tournamentRepo.GetByID(ctx, a.TournamentID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("get tournament: %w", err)
		}
		// Declarations of closed tournaments stay, the admin may already rely on them.
		if t != nil && s.checkRefereeWindow(t) != nil {
			result.Skipped = append(result.Skipped, a.TournamentID)
			continue
		}
		remove = append(remove, a.TournamentID)
		result.Removed = append(result.Removed, a.TournamentID)
	}

	if len(add) == 0 && len(remove) == 0 {
		return result, nil
	}
	if err := s.availabilityRepo.Sync(ctx, actor.UserID, add, remove); err != nil {
		return nil, fmt.Errorf("sync availabilities: %w", err)
	}
	return result, nil
}

func (s *availabilityService) ListForTournament(ctx context.Context, actor *domain.Actor, tournamentID string) ([]*domain.AvailableReferee, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	t, err := loadTournament(ctx, s.tournamentRepo, actor, tournamentID)
	if err != nil {
		return nil, err
	}
	availabilities, err := s.availabilityRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("list availabilities: %w", err)
	}
	ids := make([]string, len(availabilities))
	for i, a := range availabilities {
		ids[i] = a.UserID
	}
	users, err := s.userRepo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list referees: %w", err)
	}
	byID := make(map[string]*domain.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	assignments, err := s.assignmentRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	assigned := make(map[string]bool, len(assignments))
	for _, a := range assignments {
		assigned[a.UserID] = true
	}

	conflicts := newConflictFinder(s.tournamentRepo, s.assignmentRepo)
	out := make([]*domain.AvailableReferee, 0, len(availabilities))
	for _, a := range availabilities {
		referee, ok := byID[a.UserID]
		if !ok {
			continue
		}
		ids, err := conflicts.find(ctx, a.UserID, t)
		if err != nil {
			return nil, err
		}
		out = append(out, &domain.AvailableReferee{
			Availability:             a,
			Referee:                  referee,
			Assigned:                 assigned[a.UserID],
			ConflictingTournamentIDs: ids,
		})
	}
	return out, nil
}

// conflictFinder reports the other tournaments a referee is assigned to on overlapping dates.
// Tournaments are cached across calls.
type conflictFinder struct {
	tournamentRepo domain.TournamentRepository
	assignmentRepo domain.AssignmentRepository
	cache          map[string]*domain.Tournament
}

func newConflictFinder(tournamentRepo domain.TournamentRepository, assignmentRepo domain.AssignmentRepository) *conflictFinder {
	return &conflictFinder{
		tournamentRepo: tournamentRepo,
		assignmentRepo: assignmentRepo,
		cache:          make(map[string]*domain.Tournament),
	}
}

func (f *conflictFinder) find(ctx context.Context, userID string, t *domain.Tournament) ([]string, error) {
	assignments, err := f.assignmentRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list referee assignments: %w", err)
	}
	ids := []string{}
	for _, a := range assignments {
		if a.TournamentID == t.ID {
			continue
		}
		other, ok := f.cache[a.TournamentID]
		if !ok {
			other, err = f.tournamentRepo.GetByID(ctx, a.TournamentID)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					continue
				}
				return nil, fmt.Errorf("get tournament: %w", err)
			}
			f.cache[a.TournamentID] = other
		}
		if t.Overlaps(other) {
			ids = append(ids, other.ID)
		}
	}
	return ids, nil
}
