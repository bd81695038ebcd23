package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"refereehub/internal/domain"
)

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

func validEmail(email string) bool {
	return emailRegexp.MatchString(email)
}

func requireAdmin(actor *domain.Actor) error {
	if !actor.IsAdmin() {
		return domain.ErrForbidden
	}
	return nil
}

func requireSuperAdmin(actor *domain.Actor) error {
	if !actor.IsSuperAdmin() {
		return domain.ErrForbidden
	}
	return nil
}

// invalidInput wraps ErrInvalidInput with a human readable reason.
func invalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalidInput, fmt.Sprintf(format, args...))
}

// loadTournament fetches a tournament and applies the actor's zone scope.
func loadTournament(ctx context.Context, repo domain.TournamentRepository, actor *domain.Actor, id string) (*domain.Tournament, error) {
	t, err := repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get tournament: %w", err)
	}
	if actor != nil && actor.Role == domain.RoleReferee {
		// Referees see published tournaments of their zone and national ones.
		if t.Status == domain.StatusDraft || (t.ZoneID != actor.ZoneID && !t.IsNational) {
			return nil, domain.ErrForbidden
		}
		return t, nil
	}
	if !actor.CanAccessTournament(t) {
		return nil, domain.ErrForbidden
	}
	return t, nil
}

// scopeTournamentFilter restricts a tournament filter to what the actor may see.
func scopeTournamentFilter(actor *domain.Actor, filter domain.TournamentFilter) domain.TournamentFilter {
	filter.ScopeZoneID = actor.ZoneFilter()
	filter.ScopeIncludeNational = actor.SeesNationalTournaments()
	if actor != nil && actor.Role == domain.RoleReferee {
		filter.ScopeIncludeNational = true
		filter.HideDrafts = true
	}
	return filter
}

// refereeCanSee reports whether a referee may see and declare for a tournament.
func refereeCanSee(referee *domain.User, t *domain.Tournament) bool {
	if referee.Zone() != "" && referee.Zone() == t.ZoneID {
		return true
	}
	return t.IsNational && referee.CanOfficiateNational()
}
