package controllers

import (
	"log/slog"
	"net/http"

	h "refereehub/internal/delivery/http/helpers"
	"refereehub/internal/domain"
)

// AdditionalEmailRequest is an ad-hoc recipient of a dispatch.
type AdditionalEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name"`
}

// DispatchRequest is the request body for POST /tournaments/{id}/notifications.
type DispatchRequest struct {
	IncludeReferees             bool                     `json:"include_referees"`
	RefereeIDs                  []string                 `json:"referee_ids" validate:"dive,uuid"`
	IncludeClub                 bool                     `json:"include_club"`
	InstitutionalEmailIDs       []string                 `json:"institutional_email_ids" validate:"dive,uuid"`
	IncludeDefaultInstitutional bool                     `json:"include_default_institutional"`
	AdditionalEmails            []AdditionalEmailRequest `json:"additional_emails" validate:"dive"`
	RefereeTemplateID           string                   `json:"referee_template_id" validate:"omitempty,uuid"`
	ClubTemplateID              string                   `json:"club_template_id" validate:"omitempty,uuid"`
	InstitutionalTemplateID     string                   `json:"institutional_template_id" validate:"omitempty,uuid"`
	AttachConvocation           bool                     `json:"attach_convocation"`
	AttachClubLetter            bool                     `json:"attach_club_letter"`
	Message                     string                   `json:"message" validate:"max=5000"`
}

// Validate implements Validator.
func (d DispatchRequest) Validate() []string {
	if !d.IncludeReferees && !d.IncludeClub && !d.IncludeDefaultInstitutional &&
		len(d.InstitutionalEmailIDs) == 0 && len(d.AdditionalEmails) == 0 {
		return []string{"select at least one recipient"}
	}
	return nil
}

type NotificationController struct {
	Logger  *slog.Logger
	Service domain.NotificationService
}

func NewNotificationController(logger *slog.Logger, svc domain.NotificationService) *NotificationController {
	return &NotificationController{Logger: logger, Service: svc}
}

// Dispatch godoc
// @Summary Send tournament notifications
// @Description Sends one email per selected recipient and records its delivery state. Duplicate addresses are collapsed.
// @Tags notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Tournament ID (UUID)"
// @Param body body DispatchRequest true "Recipients, templates and attachments"
// @Success 200 {object} helpers.APIResponse "data contains summary, notifications, sent and failed"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Router /tournaments/{id}/notifications [post]
func (c *NotificationController) Dispatch(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	tournamentID, ok := h.PathUUID(w, r, "id")
	if !ok {
		return
	}
	var req DispatchRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	additional := make([]domain.AdditionalRecipient, 0, len(req.AdditionalEmails))
	for _, e := range req.AdditionalEmails {
		additional = append(additional, domain.AdditionalRecipient{Email: e.Email, Name: e.Name})
	}
	result, err := c.Service.Dispatch(r.Context(), actor, domain.DispatchRequest{
		TournamentID:                tournamentID,
		IncludeReferees:             req.IncludeReferees,
		RefereeIDs:                  req.RefereeIDs,
		IncludeClub:                 req.IncludeClub,
		InstitutionalEmailIDs:       req.InstitutionalEmailIDs,
		IncludeDefaultInstitutional: req.IncludeDefaultInstitutional,
		AdditionalEmails:            additional,
		RefereeTemplateID:           req.RefereeTemplateID,
		ClubTemplateID:              req.ClubTemplateID,
		InstitutionalTemplateID:     req.InstitutionalTemplateID,
		AttachConvocation:           req.AttachConvocation,
		AttachClubLetter:            req.AttachClubLetter,
		Message:                     req.Message,
	})
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, result)
}

// List godoc
// @Summary List tournament notification summaries
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param status query string false "Summary status" Enums(pending, sent, partial, failed)
// @Param tournament_id query string false "Tournament"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} helpers.APIResponse "data contains items and pagination"
// @Router /tournament-notifications [get]
func (c *NotificationController) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	params := h.ParsePagination(r)
	filter := domain.TournamentNotificationFilter{
		Status:       r.URL.Query().Get("status"),
		TournamentID: r.URL.Query().Get("tournament_id"),
	}
	items, total, err := c.Service.List(r.Context(), actor, filter, params)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WritePaginated(w, items, params, total)
}

// Get godoc
// @Summary Get a tournament notification summary
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param id path string true "Summary ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data contains summary and per-recipient notifications"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /tournament-notifications/{id} [get]
func (c *NotificationController) Get(w http.ResponseWriter, r *http.Request) {
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

// ResendFailed godoc
// @Summary Resend failed notifications
// @Description Resends every failed notification of the summary that is still under the retry limit.
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param id path string true "Summary ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data contains summary, notifications, sent and failed"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /tournament-notifications/{id}/resend [post]
func (c *NotificationController) ResendFailed(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := h.PathUUID(w, r, "id")
	if !ok {
		return
	}
	result, err := c.Service.ResendFailed(r.Context(), actor, id)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, result)
}

// ResendNotification godoc
// @Summary Resend one notification
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param id path string true "Notification ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data contains summary, notifications, sent and failed"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Router /notifications/{id}/resend [post]
func (c *NotificationController) ResendNotification(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := h.PathUUID(w, r, "id")
	if !ok {
		return
	}
	result, err := c.Service.ResendNotification(r.Context(), actor, id)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, result)
}

// Delete godoc
// @Summary Delete a tournament notification summary
// @Description Removes the summary and all its per-recipient rows.
// @Tags notifications
// @Security BearerAuth
// @Param id path string true "Summary ID (UUID)"
// @Success 204
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /tournament-notifications/{id} [delete]
func (c *NotificationController) Delete(w http.ResponseWriter, r *http.Request) {
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
