package controllers

import (
	"log/slog"
	"net/http"

	h "refereehub/internal/delivery/http/helpers"
	"refereehub/internal/domain"
)

// DeclareAvailabilityRequest is the request body for POST /tournaments/{id}/availability.
// Admins may set user_id to record availability on behalf of a referee.
type DeclareAvailabilityRequest struct {
	UserID string `json:"user_id" validate:"omitempty,uuid"`
	Notes  string `json:"notes" validate:"max=1000"`
}

// SyncAvailabilityRequest is the request body for PUT /me/availabilities.
type SyncAvailabilityRequest struct {
	TournamentIDs []string `json:"tournament_ids" validate:"dive,uuid"`
}

type AvailabilityController struct {
	Logger  *slog.Logger
	Service domain.AvailabilityService
}

func NewAvailabilityController(logger *slog.Logger, svc domain.AvailabilityService) *AvailabilityController {
	return &AvailabilityController{Logger: logger, Service: svc}
}

// Declare godoc
// @Summary Declare availability
// @Description Referees declare for themselves while the tournament is open and the deadline has not passed.
// @Tags availability
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Tournament ID (UUID)"
// @Param body body DeclareAvailabilityRequest false "Optional notes and referee"
// @Success 201 {object} helpers.APIResponse "data contains the availability"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Router /tournaments/{id}/availability [post]
func (c *AvailabilityController) Declare(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	tournamentID, ok := h.PathUUID(w, r, "id")
	if !ok {
		return
	}
	var req DeclareAvailabilityRequest
	if r.ContentLength != 0 && !h.DecodeAndValidate(w, r, &req) {
		return
	}
	a, err := c.Service.Declare(r.Context(), actor, tournamentID, req.UserID, req.Notes)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, a)
}

// Withdraw godoc
// @Summary Withdraw availability
// @Tags availability
// @Security BearerAuth
// @Param id path string true "Tournament ID (UUID)"
// @Param user_id query string false "Referee (admins only)"
// @Success 204
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /tournaments/{id}/availability [delete]
func (c *AvailabilityController) Withdraw(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	tournamentID, ok := h.PathUUID(w, r, "id")
	if !ok {
		return
	}
	if err := c.Service.Withdraw(r.Context(), actor, tournamentID, r.URL.Query().Get("user_id")); err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListMine godoc
// @Summary My availabilities
// @Tags availability
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains availabilities with their tournaments"
// @Router /me/availabilities [get]
func (c *AvailabilityController) ListMine(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	items, err := c.Service.ListMine(r.Context(), actor)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, items)
}

// SyncMine godoc
// @Summary Replace my availabilities
// @Description Adds missing declarations and removes deselected ones whose tournament still accepts changes, in one transaction.
// @Tags availability
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body SyncAvailabilityRequest true "Selected tournaments"
// @Success 200 {object} helpers.APIResponse "data contains added, removed and skipped tournament ids"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Router /me/availabilities [put]
func (c *AvailabilityController) SyncMine(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var req SyncAvailabilityRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	result, err := c.Service.SyncMine(r.Context(), actor, req.TournamentIDs)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, result)
}

// ListForTournament godoc
// @Summary Referees available for a tournament
// @Description Admin view with already-assigned and conflicting-assignment flags.
// @Tags availability
// @Produce json
// @Security BearerAuth
// @Param id path string true "Tournament ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data contains the available referees"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /tournaments/{id}/availabilities [get]
func (c *AvailabilityController) ListForTournament(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	tournamentID, ok := h.PathUUID(w, r, "id")
	if !ok {
		return
	}
	items, err := c.Service.ListForTournament(r.Context(), actor, tournamentID)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, items)
}
