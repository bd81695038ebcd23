package controllers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"refereehub/internal/delivery/http/helpers"
	"refereehub/internal/delivery/http/middleware"
	"refereehub/internal/domain"
)

const (
	tournamentID = "5f0c6a4e-2b8e-4c71-9a43-0d3f6c1b2a10"
	refereeID    = "8d1e2f3a-4b5c-4d6e-8f70-1a2b3c4d5e6f"
	summaryID    = "a3b4c5d6-e7f8-4a1b-8c2d-3e4f5a6b7c8d"
	zoneID       = "c0ffee00-1111-4222-8333-444455556666"
)

var (
	adminActor   = &domain.Actor{UserID: "11111111-2222-4333-8444-555566667777", Email: "admin@example.com", Role: domain.RoleAdmin, ZoneID: zoneID}
	refereeActor = &domain.Actor{UserID: refereeID, Email: "arbitro@example.com", Role: domain.RoleReferee, ZoneID: zoneID}
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// serve runs handler with the given path pattern so that r.PathValue works.
func serve(t *testing.T, pattern string, handler http.HandlerFunc, actor *domain.Actor, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc(pattern, handler)
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if actor != nil {
		req = req.WithContext(middleware.SetActor(req.Context(), actor))
	}
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	return rr
}

// decodeEnvelope decodes the response envelope, unmarshalling data into dest when non-nil.
func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder, dest any) *helpers.APIError {
	t.Helper()
	var env struct {
		Data  json.RawMessage   `json:"data"`
		Error *helpers.APIError `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&env))
	if dest != nil && env.Error == nil {
		require.NoError(t, json.Unmarshal(env.Data, dest))
	}
	return env.Error
}

// Fake services embed the interface; methods a test does not stub panic when called.

type fakeAuthService struct {
	domain.AuthService
	login func(email, password string) (string, *domain.User, error)
	me    func(actor *domain.Actor) (*domain.User, error)
}

func (f *fakeAuthService) Login(_ context.Context, email, password string) (string, *domain.User, error) {
	return f.login(email, password)
}

func (f *fakeAuthService) Me(_ context.Context, actor *domain.Actor) (*domain.User, error) {
	return f.me(actor)
}

type fakeTournamentService struct {
	domain.TournamentService
	created      *domain.Tournament
	createErr    error
	listFilter   domain.TournamentFilter
	listParams   domain.PaginationParams
	list         []*domain.Tournament
	total        int
	detail       *domain.TournamentDetail
	getErr       error
	statusErr    error
	gotStatus    domain.TournamentStatus
	deleteErr    error
	calendarFrom time.Time
	calendarTo   time.Time
}

func (f *fakeTournamentService) Create(_ context.Context, _ *domain.Actor, t *domain.Tournament) error {
	if f.createErr != nil {
		return f.createErr
	}
	t.ID = tournamentID
	if t.Status == "" {
		t.Status = domain.StatusDraft
	}
	f.created = t
	return nil
}

func (f *fakeTournamentService) List(_ context.Context, _ *domain.Actor, filter domain.TournamentFilter, params domain.PaginationParams) ([]*domain.Tournament, int, error) {
	f.listFilter = filter
	f.listParams = params
	return f.list, f.total, nil
}

func (f *fakeTournamentService) Get(_ context.Context, _ *domain.Actor, _ string) (*domain.TournamentDetail, error) {
	return f.detail, f.getErr
}

func (f *fakeTournamentService) ChangeStatus(_ context.Context, _ *domain.Actor, id string, status domain.TournamentStatus) (*domain.Tournament, error) {
	f.gotStatus = status
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	return &domain.Tournament{ID: id, Status: status}, nil
}

func (f *fakeTournamentService) Delete(_ context.Context, _ *domain.Actor, _ string) error {
	return f.deleteErr
}

func (f *fakeTournamentService) Calendar(_ context.Context, _ *domain.Actor, from, to time.Time) ([]*domain.Tournament, error) {
	f.calendarFrom, f.calendarTo = from, to
	return f.list, nil
}

type fakeAvailabilityService struct {
	domain.AvailabilityService
	gotUserID string
	gotNotes  string
	declare   error
	synced    []string
}

func (f *fakeAvailabilityService) Declare(_ context.Context, actor *domain.Actor, tid, userID, notes string) (*domain.Availability, error) {
	f.gotUserID, f.gotNotes = userID, notes
	if f.declare != nil {
		return nil, f.declare
	}
	if userID == "" {
		userID = actor.UserID
	}
	return &domain.Availability{ID: "av-1", UserID: userID, TournamentID: tid, Notes: notes}, nil
}

func (f *fakeAvailabilityService) SyncMine(_ context.Context, _ *domain.Actor, ids []string) (*domain.AvailabilitySyncResult, error) {
	f.synced = ids
	return &domain.AvailabilitySyncResult{Added: ids, Removed: []string{}, Skipped: []string{}}, nil
}

type fakeAssignmentService struct {
	domain.AssignmentService
	result   *domain.AssignmentResult
	err      error
	gotRole  string
	removeID string
}

func (f *fakeAssignmentService) Assign(_ context.Context, _ *domain.Actor, _ string, _ string, role, _ string) (*domain.AssignmentResult, error) {
	f.gotRole = role
	return f.result, f.err
}

func (f *fakeAssignmentService) Remove(_ context.Context, _ *domain.Actor, _ string, assignmentID string) error {
	f.removeID = assignmentID
	return f.err
}

type fakeNotificationService struct {
	domain.NotificationService
	got    domain.DispatchRequest
	result *domain.DispatchResult
	err    error
}

func (f *fakeNotificationService) Dispatch(_ context.Context, _ *domain.Actor, req domain.DispatchRequest) (*domain.DispatchResult, error) {
	f.got = req
	return f.result, f.err
}

func (f *fakeNotificationService) ResendFailed(_ context.Context, _ *domain.Actor, _ string) (*domain.DispatchResult, error) {
	return f.result, f.err
}

func (f *fakeNotificationService) List(_ context.Context, _ *domain.Actor, _ domain.TournamentNotificationFilter, _ domain.PaginationParams) ([]*domain.TournamentNotification, int, error) {
	if f.result == nil {
		return nil, 0, f.err
	}
	return []*domain.TournamentNotification{f.result.Summary}, 1, f.err
}

type fakeSettingsService struct {
	domain.SettingsService
	createdTemplate *domain.LetterTemplate
}

func (f *fakeSettingsService) CreateLetterTemplate(_ context.Context, _ *domain.Actor, t *domain.LetterTemplate) error {
	t.ID = "tpl-1"
	f.createdTemplate = t
	return nil
}

type fakeDocumentService struct {
	domain.DocumentService
	err error
}

func (f *fakeDocumentService) Generate(_ context.Context, _ *domain.Actor, tid, kind string) (*domain.StoredDocument, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.StoredDocument{Kind: kind, Path: "documents/" + tid + "/" + kind + ".html", Filename: kind + ".html"}, nil
}

type fakeExportService struct {
	domain.ExportService
	err error
}

func (f *fakeExportService) Tournaments(_ context.Context, _ *domain.Actor, _ domain.TournamentFilter, w io.Writer) error {
	if f.err != nil {
		return f.err
	}
	_, err := io.WriteString(w, "id,name\n"+tournamentID+",Trofeo\n")
	return err
}
