package domain

import (
	"context"
	"time"
)

// Zone is an administrative region. Data of non-super-admin users is scoped to their zone.
// swagger:model Zone
type Zone struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Code       string    `json:"code"`
	IsNational bool      `json:"is_national"`
	CreatedAt  time.Time `json:"created_at"`
}

// Club is a golf club hosting tournaments.
// swagger:model Club
type Club struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	City      string    `json:"city,omitempty"`
	ZoneID    string    `json:"zone_id"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ClubFilter narrows club listings.
type ClubFilter struct {
	ZoneID   string
	IsActive *bool
	Search   string
}

// ClubPatch holds optional club fields; nil means unchanged.
type ClubPatch struct {
	Name     *string
	Code     *string
	Email    *string
	Phone    *string
	City     *string
	IsActive *bool
}

// TournamentType sets the staffing bounds of a tournament category.
// swagger:model TournamentType
type TournamentType struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Code        string `json:"code"`
	MinReferees int    `json:"min_referees"`
	MaxReferees int    `json:"max_referees"`
	IsNational  bool   `json:"is_national"`
	SortOrder   int    `json:"sort_order"`
}

// ValidBounds reports whether 1 <= min <= max.
func (t *TournamentType) ValidBounds() bool {
	return t.MinReferees >= 1 && t.MinReferees <= t.MaxReferees
}

// TournamentTypePatch holds optional tournament type fields; nil means unchanged.
type TournamentTypePatch struct {
	Name        *string
	MinReferees *int
	MaxReferees *int
	IsNational  *bool
	SortOrder   *int
}

// ZoneRepository stores zones.
type ZoneRepository interface {
	Create(ctx context.Context, zone *Zone) error
	GetByID(ctx context.Context, id string) (*Zone, error)
	List(ctx context.Context) ([]*Zone, error)
}

// ClubRepository stores clubs.
type ClubRepository interface {
	Create(ctx context.Context, club *Club) error
	GetByID(ctx context.Context, id string) (*Club, error)
	List(ctx context.Context, filter ClubFilter) ([]*Club, error)
	Update(ctx context.Context, id string, patch ClubPatch) (*Club, error)
}

// TournamentTypeRepository stores tournament types.
type TournamentTypeRepository interface {
	Create(ctx context.Context, tt *TournamentType) error
	GetByID(ctx context.Context, id string) (*TournamentType, error)
	List(ctx context.Context) ([]*TournamentType, error)
	Update(ctx context.Context, id string, patch TournamentTypePatch) (*TournamentType, error)
}

// ReferenceService manages zones, clubs and tournament types.
type ReferenceService interface {
	ListZones(ctx context.Context) ([]*Zone, error)
	CreateZone(ctx context.Context, actor *Actor, zone *Zone) error
	ListTournamentTypes(ctx context.Context) ([]*TournamentType, error)
	CreateTournamentType(ctx context.Context, actor *Actor, tt *TournamentType) error
	UpdateTournamentType(ctx context.Context, actor *Actor, id string, patch TournamentTypePatch) (*TournamentType, error)
	ListClubs(ctx context.Context, actor *Actor, filter ClubFilter) ([]*Club, error)
	GetClub(ctx context.Context, actor *Actor, id string) (*Club, error)
	CreateClub(ctx context.Context, actor *Actor, club *Club) error
	UpdateClub(ctx context.Context, actor *Actor, id string, patch ClubPatch) (*Club, error)
}
