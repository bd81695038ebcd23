package domain

import (
	"context"
	"time"
)

// Assignment roles.
const (
	RoleArbitro     = "Arbitro"
	RoleDirettore   = "Direttore di Torneo"
	RoleOsservatore = "Osservatore"
)

// ValidAssignmentRole reports whether role is a known assignment role.
func ValidAssignmentRole(role string) bool {
	switch role {
	case RoleArbitro, RoleDirettore, RoleOsservatore:
		return true
	}
	return false
}

// Assignment allocates a referee to a tournament with a role.
// swagger:model Assignment
type Assignment struct {
	ID           string    `json:"id"`
	TournamentID string    `json:"tournament_id"`
	UserID       string    `json:"user_id"`
	Role         string    `json:"role"`
	IsConfirmed  bool      `json:"is_confirmed"`
	AssignedBy   string    `json:"assigned_by"`
	AssignedAt   time.Time `json:"assigned_at"`
	Notes        string    `json:"notes,omitempty"`

	// Joined read-only fields.
	RefereeName  string `json:"referee_name,omitempty"`
	RefereeEmail string `json:"referee_email,omitempty"`
	RefereeLevel string `json:"referee_level,omitempty"`
}

// AssignmentWithTournament bundles an assignment with its tournament.
type AssignmentWithTournament struct {
	Assignment *Assignment `json:"assignment"`
	Tournament *Tournament `json:"tournament"`
}

// AssignmentResult is returned by Assign with non-blocking warnings.
type AssignmentResult struct {
	Assignment *Assignment `json:"assignment"`
	Warnings   []string    `json:"warnings"`
}

// AssignmentRepository defines storage operations for assignments.
type AssignmentRepository interface {
	Create(ctx context.Context, a *Assignment) error
	GetByID(ctx context.Context, id string) (*Assignment, error)
	ListByTournament(ctx context.Context, tournamentID string) ([]*Assignment, error)
	ListByUser(ctx context.Context, userID string) ([]*Assignment, error)
	CountByTournament(ctx context.Context, tournamentID string) (int, error)
	Confirm(ctx context.Context, id string) (*Assignment, error)
	Delete(ctx context.Context, id string) error
}

// AssignmentService implements assignment use cases.
type AssignmentService interface {
	Assign(ctx context.Context, actor *Actor, tournamentID, userID, role, notes string) (*AssignmentResult, error)
	Remove(ctx context.Context, actor *Actor, tournamentID, assignmentID string) error
	ListForTournament(ctx context.Context, actor *Actor, tournamentID string) ([]*Assignment, error)
	ListMine(ctx context.Context, actor *Actor) ([]*AssignmentWithTournament, error)
	Confirm(ctx context.Context, actor *Actor, assignmentID string) (*Assignment, error)
}
