package controllers

import (
	"log/slog"
	"net/http"

	h "refereehub/internal/delivery/http/helpers"
	"refereehub/internal/domain"
)

// AssignRequest is the request body for POST /tournaments/{id}/assignments.
type AssignRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
	Role   string `json:"role" validate:"required,oneof='Arbitro' 'Direttore di Torneo' 'Osservatore'"`
	Notes  string `json:"notes" validate:"max=1000"`
}

type AssignmentController struct {
	Logger  *slog.Logger
	Service domain.AssignmentService
}

func NewAssignmentController(logger *slog.Logger, svc domain.AssignmentService) *AssignmentController {
	return &AssignmentController{Logger: logger, Service: svc}
}

// Assign godoc
// @Summary Assign a referee
// @Description The response carries non-blocking warnings (no declared availability, overlapping assignment).
// @Tags assignments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Tournament ID (UUID)"
// @Param body body AssignRequest true "Referee and role"
// @Success 201 {object} helpers.APIResponse "data contains assignment and warnings"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Router /tournaments/{id}/assignments [post]
func (c *AssignmentController) Assign(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	tournamentID, ok := h.PathUUID(w, r, "id")
	if !ok {
		return
	}
	var req AssignRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	result, err := c.Service.Assign(r.Context(), actor, tournamentID, req.UserID, req.Role, req.Notes)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, result)
}

// Remove godoc
// @Summary Remove an assignment
// @Tags assignments
// @Security BearerAuth
// @Param id path string true "Tournament ID (UUID)"
// @Param assignmentID path string true "Assignment ID (UUID)"
// @Success 204
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /tournaments/{id}/assignments/{assignmentID} [delete]
func (c *AssignmentController) Remove(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	tournamentID, ok := h.PathUUID(w, r, "id")
	if !ok {
		return
	}
	assignmentID, ok := h.PathUUID(w, r, "assignmentID")
	if !ok {
		return
	}
	if err := c.Service.Remove(r.Context(), actor, tournamentID, assignmentID); err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListForTournament godoc
// @Summary Assignments of a tournament
// @Tags assignments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Tournament ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data contains the assignments"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /tournaments/{id}/assignments [get]
func (c *AssignmentController) ListForTournament(w http.ResponseWriter, r *http.Request) {
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

// ListMine godoc
// @Summary My assignments
// @Tags assignments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains assignments with their tournaments"
// @Router /me/assignments [get]
func (c *AssignmentController) ListMine(w http.ResponseWriter, r *http.Request) {
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

// Confirm godoc
// @Summary Confirm an assignment
// @Description The assigned referee or an admin in scope confirms the assignment.
// @Tags assignments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Assignment ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data contains the assignment"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /assignments/{id}/confirm [post]
func (c *AssignmentController) Confirm(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := h.PathUUID(w, r, "id")
	if !ok {
		return
	}
	a, err := c.Service.Confirm(r.Context(), actor, id)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, a)
}
