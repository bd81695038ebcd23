package controllers

import (
	"log/slog"
	"net/http"

	h "refereehub/internal/delivery/http/helpers"
	"refereehub/internal/domain"
)

type DocumentController struct {
	Logger  *slog.Logger
	Service domain.DocumentService
}

func NewDocumentController(logger *slog.Logger, svc domain.DocumentService) *DocumentController {
	return &DocumentController{Logger: logger, Service: svc}
}

// Generate godoc
// @Summary Generate a tournament document
// @Description Renders the convocation or the club letter with the zone letterhead and stores it as HTML, replacing a previous version.
// @Tags documents
// @Produce json
// @Security BearerAuth
// @Param id path string true "Tournament ID (UUID)"
// @Param kind path string true "Document kind" Enums(convocation, club_letter)
// @Success 201 {object} helpers.APIResponse "data contains kind, path and filename"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /tournaments/{id}/documents/{kind} [post]
func (c *DocumentController) Generate(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	tournamentID, ok := h.PathUUID(w, r, "id")
	if !ok {
		return
	}
	kind := r.PathValue("kind")
	if !domain.ValidDocumentKind(kind) {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "kind must be convocation or club_letter")
		return
	}
	doc, err := c.Service.Generate(r.Context(), actor, tournamentID, kind)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, doc)
}
