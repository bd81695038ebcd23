package domain

import (
	"context"
	"time"
)

// Availability is a referee's declaration of willingness to officiate a tournament.
// swagger:model Availability
type Availability struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	TournamentID string    `json:"tournament_id"`
	Notes        string    `json:"notes,omitempty"`
	SubmittedAt  time.Time `json:"submitted_at"`
}

// AvailabilityWithTournament bundles an availability with its tournament.
type AvailabilityWithTournament struct {
	Availability *Availability `json:"availability"`
	Tournament   *Tournament   `json:"tournament"`
}

// AvailableReferee is one row of the admin view of a tournament's availabilities.
type AvailableReferee struct {
	Availability *Availability `json:"availability"`
	Referee      *User         `json:"referee"`
	Assigned     bool          `json:"assigned"`
	// ConflictingTournamentIDs lists other tournaments the referee is assigned to on overlapping dates.
	ConflictingTournamentIDs []string `json:"conflicting_tournament_ids"`
}

// AvailabilitySyncResult reports the outcome of a bulk availability update.
type AvailabilitySyncResult struct {
	Added   []string `json:"added"`
	Removed []string `json:"removed"`
	Skipped []string `json:"skipped"`
}

// AvailabilityRepository defines storage operations for availabilities.
type AvailabilityRepository interface {
	Create(ctx context.Context, a *Availability) error
	GetByUserAndTournament(ctx context.Context, userID, tournamentID string) (*Availability, error)
	Delete(ctx context.Context, userID, tournamentID string) error
	ListByTournament(ctx context.Context, tournamentID string) ([]*Availability, error)
	ListByUser(ctx context.Context, userID string) ([]*Availability, error)
	CountByTournament(ctx context.Context, tournamentID string) (int, error)
	// Sync inserts availabilities for add and deletes those for remove in one transaction.
	Sync(ctx context.Context, userID string, add []*Availability, remove []string) error
}

// AvailabilityService implements availability use cases.
type AvailabilityService interface {
	Declare(ctx context.Context, actor *Actor, tournamentID, userID, notes string) (*Availability, error)
	Withdraw(ctx context.Context, actor *Actor, tournamentID, userID string) error
	ListMine(ctx context.Context, actor *Actor) ([]*AvailabilityWithTournament, error)
	SyncMine(ctx context.Context, actor *Actor, tournamentIDs []string) (*AvailabilitySyncResult, error)
	ListForTournament(ctx context.Context, actor *Actor, tournamentID string) ([]*AvailableReferee, error)
}
