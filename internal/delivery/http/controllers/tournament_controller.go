package controllers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	h "refereehub/internal/delivery/http/helpers"
	"refereehub/internal/domain"
)

// CreateTournamentRequest is the request body for POST /tournaments. Dates use YYYY-MM-DD.
type CreateTournamentRequest struct {
	Name                 string `json:"name" validate:"required,notblank"`
	StartDate            string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate              string `json:"end_date" validate:"required,datetime=2006-01-02"`
	AvailabilityDeadline string `json:"availability_deadline" validate:"required,datetime=2006-01-02"`
	ZoneID               string `json:"zone_id" validate:"omitempty,uuid"`
	ClubID               string `json:"club_id" validate:"required,uuid"`
	TournamentTypeID     string `json:"tournament_type_id" validate:"required,uuid"`
	Status               string `json:"status" validate:"omitempty,oneof=draft open"`
	Description          string `json:"description"`
	Notes                string `json:"notes"`
}

// UpdateTournamentRequest is the request body for PATCH /tournaments/{id}. Omitted fields are unchanged.
type UpdateTournamentRequest struct {
	Name                 *string `json:"name" validate:"omitempty,notblank"`
	StartDate            *string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate              *string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	AvailabilityDeadline *string `json:"availability_deadline" validate:"omitempty,datetime=2006-01-02"`
	ClubID               *string `json:"club_id" validate:"omitempty,uuid"`
	TournamentTypeID     *string `json:"tournament_type_id" validate:"omitempty,uuid"`
	Description          *string `json:"description"`
	Notes                *string `json:"notes"`
}

// ChangeStatusRequest is the request body for POST /tournaments/{id}/status.
type ChangeStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=draft open closed assigned completed"`
}

type TournamentController struct {
	Logger  *slog.Logger
	Service domain.TournamentService
}

func NewTournamentController(logger *slog.Logger, svc domain.TournamentService) *TournamentController {
	return &TournamentController{Logger: logger, Service: svc}
}

// parseDate parses a date already checked by the datetime validation tag.
func parseDate(s string) time.Time {
	t, _ := time.Parse(h.DateLayout, s)
	return t
}

func parseOptionalDate(s *string) *time.Time {
	if s == nil {
		return nil
	}
	t := parseDate(*s)
	return &t
}

// tournamentFilter reads the list filters shared by the JSON and CSV endpoints.
func tournamentFilter(w http.ResponseWriter, r *http.Request) (domain.TournamentFilter, bool) {
	q := r.URL.Query()
	from, err := h.QueryDate(r, "from")
	if err != nil {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "invalid from date")
		return domain.TournamentFilter{}, false
	}
	to, err := h.QueryDate(r, "to")
	if err != nil {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "invalid to date")
		return domain.TournamentFilter{}, false
	}
	status := domain.TournamentStatus(q.Get("status"))
	if status != "" && !status.Valid() {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "invalid status")
		return domain.TournamentFilter{}, false
	}
	return domain.TournamentFilter{
		ZoneID:           q.Get("zone_id"),
		ClubID:           q.Get("club_id"),
		TournamentTypeID: q.Get("tournament_type_id"),
		Status:           status,
		From:             from,
		To:               to,
		Search:           strings.TrimSpace(q.Get("search")),
	}, true
}

// List godoc
// @Summary List tournaments
// @Description Paginated tournaments in the caller's scope. Referees never see drafts.
// @Tags tournaments
// @Produce json
// @Security BearerAuth
// @Param status query string false "Status" Enums(draft, open, closed, assigned, completed)
// @Param zone_id query string false "Zone"
// @Param club_id query string false "Club"
// @Param tournament_type_id query string false "Tournament type"
// @Param from query string false "Start date lower bound (YYYY-MM-DD)"
// @Param to query string false "Start date upper bound (YYYY-MM-DD)"
// @Param search query string false "Name"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} helpers.APIResponse "data contains items and pagination"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Router /tournaments [get]
func (c *TournamentController) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	filter, ok := tournamentFilter(w, r)
	if !ok {
		return
	}
	params := h.ParsePagination(r)
	tournaments, total, err := c.Service.List(r.Context(), actor, filter, params)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WritePaginated(w, tournaments, params, total)
}

// Calendar godoc
// @Summary Tournament calendar
// @Description Tournaments overlapping the [from, to] range, for the dashboard calendar.
// @Tags tournaments
// @Produce json
// @Security BearerAuth
// @Param from query string true "First day (YYYY-MM-DD)"
// @Param to query string true "Last day (YYYY-MM-DD)"
// @Success 200 {object} helpers.APIResponse "data contains the tournaments"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Router /tournaments/calendar [get]
func (c *TournamentController) Calendar(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	from, err := h.QueryDate(r, "from")
	if err != nil || from == nil {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "from is required (YYYY-MM-DD)")
		return
	}
	to, err := h.QueryDate(r, "to")
	if err != nil || to == nil {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "to is required (YYYY-MM-DD)")
		return
	}
	tournaments, err := c.Service.Calendar(r.Context(), actor, *from, *to)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, tournaments)
}

// Get godoc
// @Summary Get a tournament
// @Description Returns the tournament with its staffing summary.
// @Tags tournaments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Tournament ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data contains tournament, assigned_count, availability_count, understaffed"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /tournaments/{id} [get]
func (c *TournamentController) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := h.PathUUID(w, r, "id")
	if !ok {
		return
	}
	detail, err := c.Service.Get(r.Context(), actor, id)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, detail)
}

// Create godoc
// @Summary Create a tournament
// @Description end_date must not precede start_date, the deadline must not follow start_date and the club must belong to the zone.
// @Tags tournaments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateTournamentRequest true "Tournament data"
// @Success 201 {object} helpers.APIResponse "data contains the created tournament"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Router /tournaments [post]
func (c *TournamentController) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var req CreateTournamentRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	t := &domain.Tournament{
		Name:                 strings.TrimSpace(req.Name),
		StartDate:            parseDate(req.StartDate),
		EndDate:              parseDate(req.EndDate),
		AvailabilityDeadline: parseDate(req.AvailabilityDeadline),
		Status:               domain.TournamentStatus(req.Status),
		ZoneID:               req.ZoneID,
		ClubID:               req.ClubID,
		TournamentTypeID:     req.TournamentTypeID,
		Description:          req.Description,
		Notes:                req.Notes,
	}
	if err := c.Service.Create(r.Context(), actor, t); err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, t)
}

// Update godoc
// @Summary Update a tournament
// @Tags tournaments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Tournament ID (UUID)"
// @Param body body UpdateTournamentRequest true "Fields to change"
// @Success 200 {object} helpers.APIResponse "data contains the updated tournament"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Router /tournaments/{id} [patch]
func (c *TournamentController) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := h.PathUUID(w, r, "id")
	if !ok {
		return
	}
	var req UpdateTournamentRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	t, err := c.Service.Update(r.Context(), actor, id, domain.TournamentPatch{
		Name:                 req.Name,
		StartDate:            parseOptionalDate(req.StartDate),
		EndDate:              parseOptionalDate(req.EndDate),
		AvailabilityDeadline: parseOptionalDate(req.AvailabilityDeadline),
		ClubID:               req.ClubID,
		TournamentTypeID:     req.TournamentTypeID,
		Description:          req.Description,
		Notes:                req.Notes,
	})
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, t)
}

// ChangeStatus godoc
// @Summary Change tournament status
// @Description Allowed: draft→open, open→draft|closed, closed→open|assigned, assigned→closed|completed.
// @Tags tournaments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Tournament ID (UUID)"
// @Param body body ChangeStatusRequest true "Target status"
// @Success 200 {object} helpers.APIResponse "data contains the updated tournament"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Router /tournaments/{id}/status [post]
func (c *TournamentController) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := h.PathUUID(w, r, "id")
	if !ok {
		return
	}
	var req ChangeStatusRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	t, err := c.Service.ChangeStatus(r.Context(), actor, id, domain.TournamentStatus(req.Status))
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, t)
}

// Delete godoc
// @Summary Delete a tournament
// @Description Only drafts or tournaments without assignments can be deleted.
// @Tags tournaments
// @Security BearerAuth
// @Param id path string true "Tournament ID (UUID)"
// @Success 204
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Router /tournaments/{id} [delete]
func (c *TournamentController) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := h.PathUUID(w, r, "id")
	if !ok {
		return
	}
	if err := c.Service.Delete(r.Context(), actor, id); err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
