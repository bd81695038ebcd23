package domain

import (
	"context"
	"io"
)

// DashboardStats feeds the admin dashboard widgets.
type DashboardStats struct {
	TournamentsByStatus     []StatusCount  `json:"tournaments_by_status"`
	UnderstaffedTournaments []*Tournament  `json:"understaffed_tournaments"`
	NotificationsByStatus   map[string]int `json:"notifications_by_status"`
	ActiveReferees          int            `json:"active_referees"`
}

// DashboardService computes dashboard statistics in the caller's scope.
type DashboardService interface {
	Stats(ctx context.Context, actor *Actor) (*DashboardStats, error)
}

// ExportService writes CSV exports in the caller's scope.
type ExportService interface {
	Tournaments(ctx context.Context, actor *Actor, filter TournamentFilter, w io.Writer) error
	TournamentAssignments(ctx context.Context, actor *Actor, tournamentID string, w io.Writer) error
	TournamentNotifications(ctx context.Context, actor *Actor, filter TournamentNotificationFilter, w io.Writer) error
}
