package controllers

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"refereehub/internal/delivery/http/helpers"
	"refereehub/internal/domain"
)

const validTournamentBody = `{
	"name": "Trofeo Lago Maggiore",
	"start_date": "2026-06-12",
	"end_date": "2026-06-14",
	"availability_deadline": "2026-06-01",
	"club_id": "0b9d1e2f-3a4b-4c5d-8e6f-7a8b9c0d1e2f",
	"tournament_type_id": "6e5d4c3b-2a19-4f08-9e7d-6c5b4a392817"
}`

func TestTournamentController_Create(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		serviceErr error
		wantStatus int
		wantCode   string
	}{
		{name: "created as draft", body: validTournamentBody, wantStatus: http.StatusCreated},
		{name: "missing club", body: `{"name":"x","start_date":"2026-06-12","end_date":"2026-06-12","availability_deadline":"2026-06-01","tournament_type_id":"6e5d4c3b-2a19-4f08-9e7d-6c5b4a392817"}`, wantStatus: http.StatusBadRequest, wantCode: helpers.ErrCodeBadRequest},
		{name: "bad date format", body: `{"name":"x","start_date":"12/06/2026","end_date":"2026-06-12","availability_deadline":"2026-06-01","club_id":"0b9d1e2f-3a4b-4c5d-8e6f-7a8b9c0d1e2f","tournament_type_id":"6e5d4c3b-2a19-4f08-9e7d-6c5b4a392817"}`, wantStatus: http.StatusBadRequest, wantCode: helpers.ErrCodeBadRequest},
		{name: "new tournament cannot be completed", body: `{"name":"x","start_date":"2026-06-12","end_date":"2026-06-12","availability_deadline":"2026-06-01","club_id":"0b9d1e2f-3a4b-4c5d-8e6f-7a8b9c0d1e2f","tournament_type_id":"6e5d4c3b-2a19-4f08-9e7d-6c5b4a392817","status":"completed"}`, wantStatus: http.StatusBadRequest, wantCode: helpers.ErrCodeBadRequest},
		{name: "service rejects schedule", body: validTournamentBody, serviceErr: errors.Join(domain.ErrInvalidInput, errors.New("end date before start date")), wantStatus: http.StatusBadRequest, wantCode: helpers.ErrCodeBadRequest},
		{name: "other zone", body: validTournamentBody, serviceErr: domain.ErrForbidden, wantStatus: http.StatusForbidden, wantCode: helpers.ErrCodeForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeTournamentService{createErr: tt.serviceErr}
			c := NewTournamentController(testLogger(), svc)
			rr := serve(t, "POST /tournaments", c.Create, adminActor, http.MethodPost, "/tournaments", tt.body)
			require.Equal(t, tt.wantStatus, rr.Code)
			var created domain.Tournament
			apiErr := decodeEnvelope(t, rr, &created)
			if tt.wantCode != "" {
				require.NotNil(t, apiErr)
				assert.Equal(t, tt.wantCode, apiErr.Code)
				return
			}
			require.Nil(t, apiErr)
			assert.Equal(t, tournamentID, created.ID)
			assert.Equal(t, domain.StatusDraft, created.Status)
			assert.Equal(t, time.Date(2026, 6, 12, 0, 0, 0, 0, time.UTC), svc.created.StartDate)
			assert.Equal(t, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), svc.created.AvailabilityDeadline)
		})
	}
}

func TestTournamentController_List(t *testing.T) {
	svc := &fakeTournamentService{
		list:  []*domain.Tournament{{ID: tournamentID, Name: "Trofeo"}},
		total: 41,
	}
	c := NewTournamentController(testLogger(), svc)

	rr := serve(t, "GET /tournaments", c.List, adminActor, http.MethodGet,
		"/tournaments?status=open&from=2026-06-01&search=%20trofeo%20&page=3&page_size=20", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var data struct {
		Items      []domain.Tournament    `json:"items"`
		Pagination helpers.PaginationMeta `json:"pagination"`
	}
	require.Nil(t, decodeEnvelope(t, rr, &data))
	require.Len(t, data.Items, 1)
	assert.Equal(t, helpers.PaginationMeta{Page: 3, PageSize: 20, Total: 41, TotalPages: 3}, data.Pagination)
	assert.Equal(t, domain.StatusOpen, svc.listFilter.Status)
	assert.Equal(t, "trofeo", svc.listFilter.Search)
	require.NotNil(t, svc.listFilter.From)
	assert.Nil(t, svc.listFilter.To)

	rr = serve(t, "GET /tournaments", c.List, adminActor, http.MethodGet, "/tournaments?status=archived", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestTournamentController_Get(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		err        error
		wantStatus int
	}{
		{name: "found", target: "/tournaments/" + tournamentID, wantStatus: http.StatusOK},
		{name: "not a uuid", target: "/tournaments/abc", wantStatus: http.StatusBadRequest},
		{name: "not found", target: "/tournaments/" + tournamentID, err: domain.ErrNotFound, wantStatus: http.StatusNotFound},
		{name: "outside zone", target: "/tournaments/" + tournamentID, err: domain.ErrForbidden, wantStatus: http.StatusForbidden},
		{name: "database down", target: "/tournaments/" + tournamentID, err: errors.New("connection refused"), wantStatus: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeTournamentService{
				detail: &domain.TournamentDetail{Tournament: &domain.Tournament{ID: tournamentID}, AssignedCount: 1, Understaffed: true},
				getErr: tt.err,
			}
			c := NewTournamentController(testLogger(), svc)
			rr := serve(t, "GET /tournaments/{id}", c.Get, adminActor, http.MethodGet, tt.target, "")
			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantStatus == http.StatusInternalServerError {
				apiErr := decodeEnvelope(t, rr, nil)
				require.NotNil(t, apiErr)
				assert.NotContains(t, apiErr.Message, "connection refused")
			}
		})
	}
}

func TestTournamentController_ChangeStatus(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
	}{
		{name: "valid transition", body: `{"status":"closed"}`, wantStatus: http.StatusOK},
		{name: "unknown status", body: `{"status":"archived"}`, wantStatus: http.StatusBadRequest},
		{name: "invalid transition", body: `{"status":"completed"}`, err: domain.ErrInvalidTransition, wantStatus: http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeTournamentService{statusErr: tt.err}
			c := NewTournamentController(testLogger(), svc)
			rr := serve(t, "POST /tournaments/{id}/status", c.ChangeStatus, adminActor, http.MethodPost,
				"/tournaments/"+tournamentID+"/status", tt.body)
			require.Equal(t, tt.wantStatus, rr.Code)
		})
	}
}

func TestTournamentController_Delete(t *testing.T) {
	svc := &fakeTournamentService{}
	c := NewTournamentController(testLogger(), svc)
	rr := serve(t, "DELETE /tournaments/{id}", c.Delete, adminActor, http.MethodDelete, "/tournaments/"+tournamentID, "")
	assert.Equal(t, http.StatusNoContent, rr.Code)

	svc.deleteErr = domain.ErrTournamentLocked
	rr = serve(t, "DELETE /tournaments/{id}", c.Delete, adminActor, http.MethodDelete, "/tournaments/"+tournamentID, "")
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestTournamentController_Calendar(t *testing.T) {
	svc := &fakeTournamentService{list: []*domain.Tournament{}}
	c := NewTournamentController(testLogger(), svc)

	rr := serve(t, "GET /tournaments/calendar", c.Calendar, refereeActor, http.MethodGet, "/tournaments/calendar?from=2026-06-01&to=2026-06-30", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), svc.calendarFrom)
	assert.Equal(t, time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC), svc.calendarTo)

	rr = serve(t, "GET /tournaments/calendar", c.Calendar, refereeActor, http.MethodGet, "/tournaments/calendar?from=2026-06-01", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
