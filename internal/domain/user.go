package domain

import (
	"context"
	"strings"
	"time"
)

// Referee levels, from entry level to international.
const (
	LevelAspirante      = "aspirante"
	LevelPrimoLivello   = "primo_livello"
	LevelRegionale      = "regionale"
	LevelNazionale      = "nazionale"
	LevelInternazionale = "internazionale"
	LevelArchivio       = "archivio"
)

// ValidLevel reports whether level is a known referee level.
func ValidLevel(level string) bool {
	switch level {
	case LevelAspirante, LevelPrimoLivello, LevelRegionale, LevelNazionale, LevelInternazionale, LevelArchivio:
		return true
	}
	return false
}

// User is an account of the application: a referee or an administrator.
// swagger:model User
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Phone        string    `json:"phone,omitempty"`
	City         string    `json:"city,omitempty"`
	RefereeCode  string    `json:"referee_code,omitempty"`
	Level        string    `json:"level"`
	ZoneID       *string   `json:"zone_id"`
	Role         string    `json:"role"`
	IsActive     bool      `json:"is_active"`
	PasswordHash string    `json:"-"`
	Salt         string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// FullName returns "First Last", falling back to the email.
func (u *User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Email
	}
	return name
}

// Zone returns the zone id or "".
func (u *User) Zone() string {
	if u.ZoneID == nil {
		return ""
	}
	return *u.ZoneID
}

// CanOfficiateNational reports whether the referee level allows national tournaments.
func (u *User) CanOfficiateNational() bool {
	return u.Level == LevelNazionale || u.Level == LevelInternazionale
}

// UserFilter narrows user listings.
type UserFilter struct {
	ZoneID   string
	Level    string
	Role     string
	IsActive *bool
	Search   string
}

// UserPatch holds optional user fields; nil means unchanged.
type UserPatch struct {
	FirstName   *string
	LastName    *string
	Phone       *string
	City        *string
	RefereeCode *string
	Level       *string
	ZoneID      *string
	IsActive    *bool
}

// PasswordHasher handles salt generation, hashing, and verification.
type PasswordHasher interface {
	GenerateSalt() (string, error)
	Hash(salt, password string) (hash string, err error)
	Compare(hash, salt, password string) error
}

// TokenIssuer issues tokens (e.g. JWT) for an authenticated user.
type TokenIssuer interface {
	Issue(actor *Actor, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the authenticated actor.
type TokenVerifier interface {
	Verify(token string) (*Actor, error)
}

// UserRepository defines the interface for user storage
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, filter UserFilter, params PaginationParams) ([]*User, int, error)
	ListByIDs(ctx context.Context, ids []string) ([]*User, error)
	Update(ctx context.Context, id string, patch UserPatch) (*User, error)
}

// AuthService authenticates users with email and password.
type AuthService interface {
	Login(ctx context.Context, email, password string) (token string, user *User, err error)
	Me(ctx context.Context, actor *Actor) (*User, error)
}

// RefereeService manages referee accounts inside the caller's zone scope.
type RefereeService interface {
	List(ctx context.Context, actor *Actor, filter UserFilter, params PaginationParams) ([]*User, int, error)
	Get(ctx context.Context, actor *Actor, id string) (*User, error)
	Create(ctx context.Context, actor *Actor, user *User, password string) error
	Update(ctx context.Context, actor *Actor, id string, patch UserPatch) (*User, error)
}
