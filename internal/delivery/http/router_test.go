package http

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"refereehub/internal/delivery/http/controllers"
	"refereehub/internal/domain"
)

type tokenTable map[string]*domain.Actor

func (t tokenTable) Verify(token string) (*domain.Actor, error) {
	if a, ok := t[token]; ok {
		return a, nil
	}
	return nil, errors.New("unknown token")
}

type stubReferenceService struct {
	domain.ReferenceService
}

func (stubReferenceService) ListZones(context.Context) ([]*domain.Zone, error) {
	return []*domain.Zone{{ID: "z1", Name: "Zona 1"}}, nil
}

func TestRouter_Authorization(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tokens := tokenTable{
		"referee": {UserID: "u1", Role: domain.RoleReferee, ZoneID: "z1"},
		"admin":   {UserID: "u2", Role: domain.RoleAdmin, ZoneID: "z1"},
	}
	c := Controllers{
		Auth:          controllers.NewAuthController(logger, nil),
		Referees:      controllers.NewRefereeController(logger, nil),
		Reference:     controllers.NewReferenceController(logger, stubReferenceService{}),
		Tournaments:   controllers.NewTournamentController(logger, nil),
		Availability:  controllers.NewAvailabilityController(logger, nil),
		Assignments:   controllers.NewAssignmentController(logger, nil),
		Notifications: controllers.NewNotificationController(logger, nil),
		Settings:      controllers.NewSettingsController(logger, nil),
		Documents:     controllers.NewDocumentController(logger, nil),
		Dashboard:     controllers.NewDashboardController(logger, nil, nil),
	}
	mux := NewRouter(c, tokens, logger)

	tests := []struct {
		name       string
		method     string
		path       string
		token      string
		wantStatus int
	}{
		{name: "zones need a token", method: http.MethodGet, path: "/zones", wantStatus: http.StatusUnauthorized},
		{name: "referee lists zones", method: http.MethodGet, path: "/zones", token: "referee", wantStatus: http.StatusOK},
		{name: "unknown token", method: http.MethodGet, path: "/zones", token: "forged", wantStatus: http.StatusUnauthorized},
		{name: "referee cannot list referees", method: http.MethodGet, path: "/referees", token: "referee", wantStatus: http.StatusForbidden},
		{name: "referee cannot dispatch", method: http.MethodPost, path: "/tournaments/5f0c6a4e-2b8e-4c71-9a43-0d3f6c1b2a10/notifications", token: "referee", wantStatus: http.StatusForbidden},
		{name: "admin cannot create zones", method: http.MethodPost, path: "/zones", token: "admin", wantStatus: http.StatusForbidden},
		{name: "referee cannot export", method: http.MethodGet, path: "/exports/tournaments.csv", token: "referee", wantStatus: http.StatusForbidden},
		{name: "method not allowed", method: http.MethodPut, path: "/zones", token: "admin", wantStatus: http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rr := httptest.NewRecorder()
			mux.ServeHTTP(rr, req)
			assert.Equal(t, tt.wantStatus, rr.Code)
		})
	}
}
