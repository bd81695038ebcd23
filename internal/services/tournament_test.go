package services

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"refereehub/internal/domain"
)

func newTestTournamentService(tournaments *fakeTournamentRepo, assignments *fakeAssignmentRepo) domain.TournamentService {
	clubs := newFakeClubRepo(
		&domain.Club{ID: "club-zone-n", Name: "Golf Club Nord", ZoneID: "zone-n", Email: "nord@club.example.com"},
		&domain.Club{ID: "club-zone-s", Name: "Golf Club Sud", ZoneID: "zone-s", Email: "sud@club.example.com"},
	)
	types := newFakeTypeRepo(&domain.TournamentType{ID: "type-1", Name: "Gara 36 buche", MinReferees: 1, MaxReferees: 3})
	return NewTournamentService(tournaments, clubs, types, assignments, &fakeAvailabilityRepo{}, clockwork.NewFakeClockAt(testNow), 5*time.Second)
}

func TestTournamentService_Create(t *testing.T) {
	ctx := context.Background()
	start := testNow.AddDate(0, 1, 0)

	tests := []struct {
		name    string
		actor   *domain.Actor
		input   func() *domain.Tournament
		wantErr error
	}{
		{
			name:  "success defaults to draft in actor zone",
			actor: northAdmin,
			input: func() *domain.Tournament {
				return &domain.Tournament{Name: " Trofeo ", StartDate: start, EndDate: start.AddDate(0, 0, 1), AvailabilityDeadline: start.AddDate(0, 0, -10), ClubID: "club-zone-n", TournamentTypeID: "type-1"}
			},
		},
		{
			name:  "end before start",
			actor: northAdmin,
			input: func() *domain.Tournament {
				return &domain.Tournament{Name: "Trofeo", StartDate: start, EndDate: start.AddDate(0, 0, -1), AvailabilityDeadline: start.AddDate(0, 0, -10), ClubID: "club-zone-n", TournamentTypeID: "type-1"}
			},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:  "deadline after start",
			actor: northAdmin,
			input: func() *domain.Tournament {
				return &domain.Tournament{Name: "Trofeo", StartDate: start, EndDate: start, AvailabilityDeadline: start.AddDate(0, 0, 1), ClubID: "club-zone-n", TournamentTypeID: "type-1"}
			},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:  "club of another zone",
			actor: northAdmin,
			input: func() *domain.Tournament {
				return &domain.Tournament{Name: "Trofeo", StartDate: start, EndDate: start, AvailabilityDeadline: start, ClubID: "club-zone-s", TournamentTypeID: "type-1"}
			},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:  "zone out of scope",
			actor: northAdmin,
			input: func() *domain.Tournament {
				return &domain.Tournament{Name: "Trofeo", ZoneID: "zone-s", StartDate: start, EndDate: start, AvailabilityDeadline: start, ClubID: "club-zone-s", TournamentTypeID: "type-1"}
			},
			wantErr: domain.ErrForbidden,
		},
		{
			name:  "referee cannot create",
			actor: &domain.Actor{UserID: "ref-1", Role: domain.RoleReferee, ZoneID: "zone-n"},
			input: func() *domain.Tournament {
				return &domain.Tournament{Name: "Trofeo", StartDate: start, EndDate: start, AvailabilityDeadline: start, ClubID: "club-zone-n", TournamentTypeID: "type-1"}
			},
			wantErr: domain.ErrForbidden,
		},
		{
			name:  "unknown type",
			actor: northAdmin,
			input: func() *domain.Tournament {
				return &domain.Tournament{Name: "Trofeo", StartDate: start, EndDate: start, AvailabilityDeadline: start, ClubID: "club-zone-n", TournamentTypeID: "type-x"}
			},
			wantErr: domain.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeTournamentRepo()
			svc := newTestTournamentService(repo, &fakeAssignmentRepo{})
			tour := tt.input()
			err := svc.Create(ctx, tt.actor, tour)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, repo.byID)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, tour.ID)
			assert.Equal(t, "Trofeo", tour.Name)
			assert.Equal(t, domain.StatusDraft, tour.Status)
			assert.Equal(t, "zone-n", tour.ZoneID)
			assert.Equal(t, northAdmin.UserID, tour.CreatedBy)
			assert.Equal(t, testNow, tour.CreatedAt)
		})
	}
}

func TestTournamentService_ChangeStatus(t *testing.T) {
	ctx := context.Background()
	start := testNow.AddDate(0, 1, 0)

	tests := []struct {
		name    string
		from    domain.TournamentStatus
		to      domain.TournamentStatus
		actor   *domain.Actor
		wantErr error
	}{
		{name: "draft to open", from: domain.StatusDraft, to: domain.StatusOpen, actor: northAdmin},
		{name: "open back to draft", from: domain.StatusOpen, to: domain.StatusDraft, actor: northAdmin},
		{name: "closed to assigned", from: domain.StatusClosed, to: domain.StatusAssigned, actor: northAdmin},
		{name: "assigned to completed", from: domain.StatusAssigned, to: domain.StatusCompleted, actor: superAdmin},
		{name: "draft to completed", from: domain.StatusDraft, to: domain.StatusCompleted, actor: northAdmin, wantErr: domain.ErrInvalidTransition},
		{name: "completed is terminal", from: domain.StatusCompleted, to: domain.StatusAssigned, actor: northAdmin, wantErr: domain.ErrInvalidTransition},
		{name: "unknown status", from: domain.StatusOpen, to: "archived", actor: northAdmin, wantErr: domain.ErrInvalidInput},
		{name: "other zone", from: domain.StatusDraft, to: domain.StatusOpen, actor: southAdmin, wantErr: domain.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeTournamentRepo(newTournament("t-1", "zone-n", tt.from, start))
			svc := newTestTournamentService(repo, &fakeAssignmentRepo{})
			got, err := svc.ChangeStatus(ctx, tt.actor, "t-1", tt.to)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, tt.from, repo.byID["t-1"].Status)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.to, got.Status)
			assert.Equal(t, tt.to, repo.byID["t-1"].Status)
		})
	}
}

func TestTournamentService_Get(t *testing.T) {
	ctx := context.Background()
	start := testNow.AddDate(0, 1, 0)
	national := newTournament("t-nat", "zone-s", domain.StatusOpen, start)
	national.IsNational = true
	repo := newFakeTournamentRepo(
		newTournament("t-draft", "zone-n", domain.StatusDraft, start),
		newTournament("t-open", "zone-n", domain.StatusOpen, start),
		newTournament("t-south", "zone-s", domain.StatusOpen, start),
		national,
	)
	assignments := &fakeAssignmentRepo{rows: []*domain.Assignment{{ID: "as-1", TournamentID: "t-open", UserID: "ref-1"}}}
	svc := newTestTournamentService(repo, assignments)
	referee := refereeActor(newReferee("ref-1", "zone-n", domain.LevelRegionale))

	tests := []struct {
		name    string
		actor   *domain.Actor
		id      string
		wantErr error
	}{
		{name: "admin sees own zone draft", actor: northAdmin, id: "t-draft"},
		{name: "admin cannot see other zone", actor: northAdmin, id: "t-south", wantErr: domain.ErrForbidden},
		{name: "national admin sees national tournament", actor: nationalCO, id: "t-nat"},
		{name: "super admin sees everything", actor: superAdmin, id: "t-south"},
		{name: "referee sees open tournament of zone", actor: referee, id: "t-open"},
		{name: "referee never sees drafts", actor: referee, id: "t-draft", wantErr: domain.ErrForbidden},
		{name: "referee sees national tournament", actor: referee, id: "t-nat"},
		{name: "referee cannot see other zone", actor: referee, id: "t-south", wantErr: domain.ErrForbidden},
		{name: "missing", actor: superAdmin, id: "nope", wantErr: domain.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			detail, err := svc.Get(ctx, tt.actor, tt.id)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.id, detail.Tournament.ID)
		})
	}

	detail, err := svc.Get(ctx, northAdmin, "t-open")
	require.NoError(t, err)
	assert.Equal(t, 1, detail.AssignedCount)
	assert.False(t, detail.Understaffed)
}

func TestTournamentService_List_scopesByActor(t *testing.T) {
	ctx := context.Background()
	repo := newFakeTournamentRepo()
	svc := newTestTournamentService(repo, &fakeAssignmentRepo{})

	_, _, err := svc.List(ctx, northAdmin, domain.TournamentFilter{ScopeZoneID: "zone-s"}, domain.PaginationParams{Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.Equal(t, "zone-n", repo.lastFilter.ScopeZoneID)
	assert.False(t, repo.lastFilter.HideDrafts)

	_, _, err = svc.List(ctx, superAdmin, domain.TournamentFilter{}, domain.PaginationParams{})
	require.NoError(t, err)
	assert.Empty(t, repo.lastFilter.ScopeZoneID)

	_, _, err = svc.List(ctx, &domain.Actor{UserID: "ref-1", Role: domain.RoleReferee, ZoneID: "zone-n"}, domain.TournamentFilter{}, domain.PaginationParams{})
	require.NoError(t, err)
	assert.Equal(t, "zone-n", repo.lastFilter.ScopeZoneID)
	assert.True(t, repo.lastFilter.ScopeIncludeNational)
	assert.True(t, repo.lastFilter.HideDrafts)
}

func TestTournamentService_Delete(t *testing.T) {
	ctx := context.Background()
	start := testNow.AddDate(0, 1, 0)

	tests := []struct {
		name     string
		status   domain.TournamentStatus
		assigned bool
		wantErr  error
	}{
		{name: "draft", status: domain.StatusDraft, assigned: true},
		{name: "open without assignments", status: domain.StatusOpen},
		{name: "open with assignments", status: domain.StatusOpen, assigned: true, wantErr: domain.ErrTournamentLocked},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeTournamentRepo(newTournament("t-1", "zone-n", tt.status, start))
			assignments := &fakeAssignmentRepo{}
			if tt.assigned {
				assignments.rows = []*domain.Assignment{{ID: "as-1", TournamentID: "t-1", UserID: "ref-1"}}
			}
			svc := newTestTournamentService(repo, assignments)
			err := svc.Delete(ctx, northAdmin, "t-1")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Contains(t, repo.byID, "t-1")
				return
			}
			require.NoError(t, err)
			assert.NotContains(t, repo.byID, "t-1")
		})
	}
}

func TestTournamentService_Update_rejectsCompleted(t *testing.T) {
	repo := newFakeTournamentRepo(newTournament("t-1", "zone-n", domain.StatusCompleted, testNow))
	svc := newTestTournamentService(repo, &fakeAssignmentRepo{})
	name := "Nuovo nome"
	_, err := svc.Update(context.Background(), northAdmin, "t-1", domain.TournamentPatch{Name: &name})
	require.ErrorIs(t, err, domain.ErrTournamentLocked)
}

func TestTournamentService_Calendar(t *testing.T) {
	ctx := context.Background()
	repo := newFakeTournamentRepo(
		newTournament("t-june", "zone-n", domain.StatusOpen, time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)),
		newTournament("t-sept", "zone-n", domain.StatusOpen, time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)),
	)
	svc := newTestTournamentService(repo, &fakeAssignmentRepo{})

	list, err := svc.Calendar(ctx, northAdmin, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "t-june", list[0].ID)

	_, err = svc.Calendar(ctx, northAdmin, testNow, testNow.AddDate(0, 0, -1))
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}
