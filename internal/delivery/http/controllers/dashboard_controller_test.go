package controllers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"refereehub/internal/domain"
)

func TestDashboardController_ExportTournaments(t *testing.T) {
	c := NewDashboardController(testLogger(), nil, &fakeExportService{})
	rr := serve(t, "GET /exports/tournaments.csv", c.ExportTournaments, adminActor, http.MethodGet, "/exports/tournaments.csv?status=open", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "tournaments.csv")
	assert.Equal(t, "id,name\n"+tournamentID+",Trofeo\n", rr.Body.String())
}

func TestDashboardController_ExportErrorIsJSON(t *testing.T) {
	c := NewDashboardController(testLogger(), nil, &fakeExportService{err: domain.ErrForbidden})
	rr := serve(t, "GET /exports/tournaments.csv", c.ExportTournaments, refereeActor, http.MethodGet, "/exports/tournaments.csv", "")
	require.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
}
