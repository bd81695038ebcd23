package services

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"

	"refereehub/internal/domain"
)

// understaffedWindow is how far ahead the dashboard looks for understaffed tournaments.
const understaffedWindow = 30 * 24 * time.Hour

type dashboardService struct {
	tournamentRepo   domain.TournamentRepository
	assignmentRepo   domain.AssignmentRepository
	notificationRepo domain.NotificationRepository
	userRepo         domain.UserRepository
	clock            clockwork.Clock
	contextTimeout   time.Duration
}

// NewDashboardService creates a DashboardService.
func NewDashboardService(
	tournamentRepo domain.TournamentRepository,
	assignmentRepo domain.AssignmentRepository,
	notificationRepo domain.NotificationRepository,
	userRepo domain.UserRepository,
	clock clockwork.Clock,
	timeout time.Duration,
) domain.DashboardService {
	return &dashboardService{
		tournamentRepo:   tournamentRepo,
		assignmentRepo:   assignmentRepo,
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		clock:            clock,
		contextTimeout:   timeout,
	}
}

func (s *dashboardService) Stats(ctx context.Context, actor *domain.Actor) (*domain.DashboardStats, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	scope := scopeTournamentFilter(actor, domain.TournamentFilter{})
	byStatus, err := s.tournamentRepo.CountByStatus(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("count tournaments: %w", err)
	}

	now := s.clock.Now()
	until := now.Add(understaffedWindow)
	upcoming := scope
	upcoming.From = &now
	upcoming.To = &until
	list, _, err := s.tournamentRepo.List(ctx, upcoming, domain.PaginationParams{})
	if err != nil {
		return nil, fmt.Errorf("list upcoming tournaments: %w", err)
	}
	understaffed := make([]*domain.Tournament, 0)
	for _, t := range list {
		if t.Status == domain.StatusDraft || t.Status == domain.StatusCompleted || t.StartDate.Before(now) {
			continue
		}
		n, err := s.assignmentRepo.CountByTournament(ctx, t.ID)
		if err != nil {
			return nil, fmt.Errorf("count assignments: %w", err)
		}
		if n < t.MinReferees {
			understaffed = append(understaffed, t)
		}
	}

	notifications, err := s.notificationRepo.CountByStatus(ctx, actor.ZoneFilter())
	if err != nil {
		return nil, fmt.Errorf("count notifications: %w", err)
	}
	byNotificationStatus := map[string]int{
		string(domain.NotificationPending): 0,
		string(domain.NotificationSent):    0,
		string(domain.NotificationFailed):  0,
	}
	for status, n := range notifications {
		byNotificationStatus[string(status)] = n
	}

	active := true
	_, referees, err := s.userRepo.List(ctx, domain.UserFilter{
		ZoneID:   actor.ZoneFilter(),
		Role:     domain.RoleReferee,
		IsActive: &active,
	}, domain.PaginationParams{Page: 1, PageSize: 1})
	if err != nil {
		return nil, fmt.Errorf("count referees: %w", err)
	}

	return &domain.DashboardStats{
		TournamentsByStatus:     byStatus,
		UnderstaffedTournaments: understaffed,
		NotificationsByStatus:   byNotificationStatus,
		ActiveReferees:          referees,
	}, nil
}
