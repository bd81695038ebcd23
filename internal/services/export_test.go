package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"refereehub/internal/domain"
)

func TestExportService(t *testing.T) {
	ctx := context.Background()
	f := newNotificationFixture(domain.StatusAssigned)
	first := f.tournaments.byID["t-1"]
	first.Name = "Trofeo, \"Lago\""
	f.tournaments.byID["t-2"] = newTournament("t-2", "zone-s", domain.StatusOpen, testNow)

	assignments := &fakeAssignmentRepo{rows: []*domain.Assignment{
		{ID: "as-1", TournamentID: "t-1", UserID: "ref-1", Role: domain.RoleArbitro, RefereeName: "Mario Rossi", RefereeEmail: "ref-1@example.com", AssignedAt: testNow},
	}}
	users := newFakeUserRepo()
	svc := NewExportService(
		newTestTournamentService(f.tournaments, assignments),
		newTestAssignmentService(f.tournaments, assignments, &fakeAvailabilityRepo{}, users),
		f.svc,
	)

	var buf bytes.Buffer
	require.NoError(t, svc.Tournaments(ctx, northAdmin, domain.TournamentFilter{}, &buf))
	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "id", records[0][0])
	assert.Equal(t, "t-1", records[1][0])
	assert.Equal(t, "Trofeo, \"Lago\"", records[1][1])
	assert.Equal(t, "assigned", records[1][5])

	buf.Reset()
	require.NoError(t, svc.TournamentAssignments(ctx, northAdmin, "t-1", &buf))
	records, err = csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"Mario Rossi", "ref-1@example.com", "", domain.RoleArbitro, "false", "2026-06-01 09:00", ""}, records[1])

	require.ErrorIs(t, svc.TournamentAssignments(ctx, southAdmin, "t-1", &buf), domain.ErrForbidden)

	_, err = f.svc.Dispatch(ctx, northAdmin, domain.DispatchRequest{TournamentID: "t-1", IncludeClub: true})
	require.NoError(t, err)
	buf.Reset()
	require.NoError(t, svc.TournamentNotifications(ctx, northAdmin, domain.TournamentNotificationFilter{}, &buf))
	records, err = csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, domain.SummarySent, records[1][1])
	assert.Equal(t, "1", records[1][2])
	assert.Equal(t, "club=default:club", records[1][10])

	err = svc.Tournaments(ctx, &domain.Actor{UserID: "ref-1", Role: domain.RoleReferee, ZoneID: "zone-n"}, domain.TournamentFilter{}, &buf)
	require.ErrorIs(t, err, domain.ErrForbidden)
}
