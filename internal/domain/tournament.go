package domain

import (
	"context"
	"time"
)

// TournamentStatus is the lifecycle state of a tournament.
type TournamentStatus string

const (
	StatusDraft     TournamentStatus = "draft"
	StatusOpen      TournamentStatus = "open"
	StatusClosed    TournamentStatus = "closed"
	StatusAssigned  TournamentStatus = "assigned"
	StatusCompleted TournamentStatus = "completed"
)

var tournamentTransitions = map[TournamentStatus][]TournamentStatus{
	StatusDraft:    {StatusOpen},
	StatusOpen:     {StatusDraft, StatusClosed},
	StatusClosed:   {StatusOpen, StatusAssigned},
	StatusAssigned: {StatusClosed, StatusCompleted},
}

// Valid reports whether s is a known status.
func (s TournamentStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusOpen, StatusClosed, StatusAssigned, StatusCompleted:
		return true
	}
	return false
}

// CanTransitionTo reports whether the lifecycle allows moving from s to next.
func (s TournamentStatus) CanTransitionTo(next TournamentStatus) bool {
	for _, allowed := range tournamentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// AcceptsAssignments reports whether referees can be assigned in this status.
func (s TournamentStatus) AcceptsAssignments() bool {
	return s == StatusOpen || s == StatusClosed || s == StatusAssigned
}

// Tournament is a golf competition that needs referees.
// swagger:model Tournament
type Tournament struct {
	ID                   string           `json:"id"`
	Name                 string           `json:"name"`
	StartDate            time.Time        `json:"start_date"`
	EndDate              time.Time        `json:"end_date"`
	AvailabilityDeadline time.Time        `json:"availability_deadline"`
	Status               TournamentStatus `json:"status"`
	ZoneID               string           `json:"zone_id"`
	ClubID               string           `json:"club_id"`
	TournamentTypeID     string           `json:"tournament_type_id"`
	Description          string           `json:"description,omitempty"`
	Notes                string           `json:"notes,omitempty"`
	CreatedBy            string           `json:"created_by"`
	CreatedAt            time.Time        `json:"created_at"`
	UpdatedAt            time.Time        `json:"updated_at"`

	// Joined read-only fields.
	ClubName    string `json:"club_name,omitempty"`
	ClubEmail   string `json:"club_email,omitempty"`
	ZoneName    string `json:"zone_name,omitempty"`
	ZoneCode    string `json:"zone_code,omitempty"`
	TypeName    string `json:"tournament_type_name,omitempty"`
	MinReferees int    `json:"min_referees"`
	MaxReferees int    `json:"max_referees"`
	IsNational  bool   `json:"is_national"`
}

// Overlaps reports whether the inclusive date ranges of t and o share at least one day.
func (t *Tournament) Overlaps(o *Tournament) bool {
	return DateRangesOverlap(t.StartDate, t.EndDate, o.StartDate, o.EndDate)
}

// DateRangesOverlap compares two inclusive [start, end] date ranges at day granularity.
func DateRangesOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !truncateDay(aStart).After(truncateDay(bEnd)) && !truncateDay(bStart).After(truncateDay(aEnd))
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// TournamentFilter narrows tournament listings. ScopeZoneID restricts to one zone; when
// ScopeIncludeNational is set national tournaments of every zone are included as well.
type TournamentFilter struct {
	ScopeZoneID          string
	ScopeIncludeNational bool
	ZoneID               string
	ClubID               string
	TournamentTypeID     string
	Status               TournamentStatus
	From                 *time.Time
	To                   *time.Time
	Search               string
	HideDrafts           bool
}

// TournamentPatch holds optional tournament fields; nil means unchanged.
type TournamentPatch struct {
	Name                 *string
	StartDate            *time.Time
	EndDate              *time.Time
	AvailabilityDeadline *time.Time
	ClubID               *string
	TournamentTypeID     *string
	Description          *string
	Notes                *string
}

// TournamentDetail bundles a tournament with its staffing summary.
type TournamentDetail struct {
	Tournament        *Tournament `json:"tournament"`
	AssignedCount     int         `json:"assigned_count"`
	AvailabilityCount int         `json:"availability_count"`
	Understaffed      bool        `json:"understaffed"`
}

// StatusCount is one row of a per-status count.
type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// TournamentRepository defines the interface for tournament storage
type TournamentRepository interface {
	Create(ctx context.Context, t *Tournament) error
	GetByID(ctx context.Context, id string) (*Tournament, error)
	List(ctx context.Context, filter TournamentFilter, params PaginationParams) ([]*Tournament, int, error)
	Update(ctx context.Context, id string, patch TournamentPatch) (*Tournament, error)
	UpdateStatus(ctx context.Context, id string, status TournamentStatus) error
	Delete(ctx context.Context, id string) error
	CountByStatus(ctx context.Context, filter TournamentFilter) ([]StatusCount, error)
}

// TournamentService implements tournament scheduling use cases.
type TournamentService interface {
	Create(ctx context.Context, actor *Actor, t *Tournament) error
	Get(ctx context.Context, actor *Actor, id string) (*TournamentDetail, error)
	List(ctx context.Context, actor *Actor, filter TournamentFilter, params PaginationParams) ([]*Tournament, int, error)
	Update(ctx context.Context, actor *Actor, id string, patch TournamentPatch) (*Tournament, error)
	ChangeStatus(ctx context.Context, actor *Actor, id string, status TournamentStatus) (*Tournament, error)
	Delete(ctx context.Context, actor *Actor, id string) error
	Calendar(ctx context.Context, actor *Actor, from, to time.Time) ([]*Tournament, error)
}
