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

const minPasswordLen = 8

type refereeService struct {
	userRepo       domain.UserRepository
	hasher         domain.PasswordHasher
	clock          clockwork.Clock
	contextTimeout time.Duration
}

// NewRefereeService creates a RefereeService.
func NewRefereeService(userRepo domain.UserRepository, hasher domain.PasswordHasher, clock clockwork.Clock, timeout time.Duration) domain.RefereeService {
	return &refereeService{
		userRepo:       userRepo,
		hasher:         hasher,
		clock:          clock,
		contextTimeout: timeout,
	}
}

func (s *refereeService) List(ctx context.Context, actor *domain.Actor, filter domain.UserFilter, params domain.PaginationParams) ([]*domain.User, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := requireAdmin(actor); err != nil {
		return nil, 0, err
	}
	if zone := actor.ZoneFilter(); zone != "" {
		filter.ZoneID = zone
	}
	filter.Role = domain.RoleReferee
	users, total, err := s.userRepo.List(ctx, filter, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list referees: %w", err)
	}
	return users, total, nil
}

func (s *refereeService) Get(ctx context.Context, actor *domain.Actor, id string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if actor == nil {
		return nil, domain.ErrForbidden
	}
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get referee: %w", err)
	}
	if actor.UserID == user.ID {
		return user, nil
	}
	if !actor.IsAdmin() || !actor.CanAccessZone(user.Zone()) {
		return nil, domain.ErrForbidden
	}
	return user, nil
}

func (s *refereeService) Create(ctx context.Context, actor *domain.Actor, user *domain.User, password string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := requireAdmin(actor); err != nil {
		return err
	}
	user.Email = normalizeEmail(user.Email)
	if !validEmail(user.Email) {
		return invalidInput("invalid email format")
	}
	if len(password) < minPasswordLen {
		return invalidInput("password must be at least %d characters", minPasswordLen)
	}
	if user.Level == "" {
		user.Level = domain.LevelAspirante
	}
	if !domain.ValidLevel(user.Level) {
		return invalidInput("unknown level %q", user.Level)
	}
	if user.Zone() == "" && !actor.IsSuperAdmin() {
		zone := actor.ZoneID
		user.ZoneID = &zone
	}
	if user.Zone() == "" {
		return invalidInput("zone is required")
	}
	if !actor.CanAccessZone(user.Zone()) {
		return domain.ErrForbidden
	}

	salt, err := s.hasher.GenerateSalt()
	if err != nil {
		return fmt.Errorf("generate salt: %w", err)
	}
	hash, err := s.hasher.Hash(salt, password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	now := s.clock.Now()
	user.FirstName = strings.TrimSpace(user.FirstName)
	user.LastName = strings.TrimSpace(user.LastName)
	user.Role = domain.RoleReferee
	user.IsActive = true
	user.Salt = salt
	user.PasswordHash = hash
	user.CreatedAt = now
	user.UpdatedAt = now
	return s.userRepo.Create(ctx, user)
}

func (s *refereeService) Update(ctx context.Context, actor *domain.Actor, id string, patch domain.UserPatch) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	current, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get referee: %w", err)
	}
	if !actor.CanAccessZone(current.Zone()) {
		return nil, domain.ErrForbidden
	}
	if patch.Level != nil && !domain.ValidLevel(*patch.Level) {
		return nil, invalidInput("unknown level %q", *patch.Level)
	}
	if patch.ZoneID != nil && *patch.ZoneID != current.Zone() && !actor.IsSuperAdmin() {
		return nil, domain.ErrForbidden
	}
	updated, err := s.userRepo.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update referee: %w", err)
	}
	return updated, nil
}
