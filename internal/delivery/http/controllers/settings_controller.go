package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	h "refereehub/internal/delivery/http/helpers"
	"refereehub/internal/domain"
)

// InstitutionalEmailRequest is the request body for POST /institutional-emails.
type InstitutionalEmailRequest struct {
	Name                    string  `json:"name" validate:"required,notblank"`
	Email                   string  `json:"email" validate:"required,email"`
	Description             string  `json:"description"`
	ZoneID                  *string `json:"zone_id" validate:"omitempty,uuid"`
	Category                string  `json:"category" validate:"required,oneof=federazione comitato zona altro"`
	ReceiveAllNotifications bool    `json:"receive_all_notifications"`
}

// UpdateInstitutionalEmailRequest is the request body for PATCH /institutional-emails/{id}.
type UpdateInstitutionalEmailRequest struct {
	Name                    *string `json:"name" validate:"omitempty,notblank"`
	Email                   *string `json:"email" validate:"omitempty,email"`
	Description             *string `json:"description"`
	Category                *string `json:"category" validate:"omitempty,oneof=federazione comitato zona altro"`
	ReceiveAllNotifications *bool   `json:"receive_all_notifications"`
	IsActive                *bool   `json:"is_active"`
}

// LetterTemplateRequest is the request body for POST /letter-templates.
// Subject and body may contain {{variable}} placeholders.
type LetterTemplateRequest struct {
	Name             string  `json:"name" validate:"required,notblank"`
	Type             string  `json:"type" validate:"required,oneof=referee club institutional convocation club_letter"`
	Subject          string  `json:"subject" validate:"required,notblank"`
	Body             string  `json:"body" validate:"required,notblank"`
	ZoneID           *string `json:"zone_id" validate:"omitempty,uuid"`
	TournamentTypeID *string `json:"tournament_type_id" validate:"omitempty,uuid"`
	IsDefault        bool    `json:"is_default"`
}

// UpdateLetterTemplateRequest is the request body for PATCH /letter-templates/{id}.
type UpdateLetterTemplateRequest struct {
	Name      *string `json:"name" validate:"omitempty,notblank"`
	Subject   *string `json:"subject" validate:"omitempty,notblank"`
	Body      *string `json:"body" validate:"omitempty,notblank"`
	IsActive  *bool   `json:"is_active"`
	IsDefault *bool   `json:"is_default"`
}

// LetterheadRequest is the request body for POST /letterheads.
type LetterheadRequest struct {
	Title        string  `json:"title" validate:"required,notblank"`
	ZoneID       *string `json:"zone_id" validate:"omitempty,uuid"`
	HeaderText   string  `json:"header_text"`
	FooterText   string  `json:"footer_text"`
	LogoPath     string  `json:"logo_path"`
	ContactEmail string  `json:"contact_email" validate:"omitempty,email"`
	ContactPhone string  `json:"contact_phone"`
	Address      string  `json:"address"`
	IsDefault    bool    `json:"is_default"`
}

// UpdateLetterheadRequest is the request body for PATCH /letterheads/{id}.
type UpdateLetterheadRequest struct {
	Title        *string `json:"title" validate:"omitempty,notblank"`
	HeaderText   *string `json:"header_text"`
	FooterText   *string `json:"footer_text"`
	LogoPath     *string `json:"logo_path"`
	ContactEmail *string `json:"contact_email" validate:"omitempty,email"`
	ContactPhone *string `json:"contact_phone"`
	Address      *string `json:"address"`
	IsActive     *bool   `json:"is_active"`
	IsDefault    *bool   `json:"is_default"`
}

// SettingsController serves institutional emails, letter templates and letterheads.
type SettingsController struct {
	Logger  *slog.Logger
	Service domain.SettingsService
}

func NewSettingsController(logger *slog.Logger, svc domain.SettingsService) *SettingsController {
	return &SettingsController{Logger: logger, Service: svc}
}

// ListInstitutionalEmails godoc
// @Summary List institutional emails
// @Tags settings
// @Produce json
// @Security BearerAuth
// @Param category query string false "Category"
// @Param active query bool false "Only active addresses"
// @Success 200 {object} helpers.APIResponse "data contains the institutional emails"
// @Router /institutional-emails [get]
func (c *SettingsController) ListInstitutionalEmails(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	active, err := h.QueryBool(r, "active")
	if err != nil {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "invalid active")
		return
	}
	filter := domain.InstitutionalEmailFilter{
		ZoneID:     r.URL.Query().Get("zone_id"),
		Category:   r.URL.Query().Get("category"),
		ActiveOnly: active != nil && *active,
	}
	items, err := c.Service.ListInstitutionalEmails(r.Context(), actor, filter)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, items)
}

// CreateInstitutionalEmail godoc
// @Summary Create an institutional email
// @Description A null zone_id makes the address apply to every zone (super admin only).
// @Tags settings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body InstitutionalEmailRequest true "Institutional email"
// @Success 201 {object} helpers.APIResponse "data contains the created entry"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Router /institutional-emails [post]
func (c *SettingsController) CreateInstitutionalEmail(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var req InstitutionalEmailRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	e := &domain.InstitutionalEmail{
		Name:                    strings.TrimSpace(req.Name),
		Email:                   strings.TrimSpace(req.Email),
		Description:             req.Description,
		ZoneID:                  req.ZoneID,
		Category:                req.Category,
		ReceiveAllNotifications: req.ReceiveAllNotifications,
		IsActive:                true,
	}
	if err := c.Service.CreateInstitutionalEmail(r.Context(), actor, e); err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, e)
}

// UpdateInstitutionalEmail godoc
// @Summary Update an institutional email
// @Tags settings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Institutional email ID (UUID)"
// @Param body body UpdateInstitutionalEmailRequest true "Fields to change"
// @Success 200 {object} helpers.APIResponse "data contains the updated entry"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /institutional-emails/{id} [patch]
func (c *SettingsController) UpdateInstitutionalEmail(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := h.PathUUID(w, r, "id")
	if !ok {
		return
	}
	var req UpdateInstitutionalEmailRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	e, err := c.Service.UpdateInstitutionalEmail(r.Context(), actor, id, domain.InstitutionalEmailPatch{
		Name:                    req.Name,
		Email:                   req.Email,
		Description:             req.Description,
		Category:                req.Category,
		ReceiveAllNotifications: req.ReceiveAllNotifications,
		IsActive:                req.IsActive,
	})
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, e)
}

// DeleteInstitutionalEmail godoc
// @Summary Delete an institutional email
// @Tags settings
// @Security BearerAuth
// @Param id path string true "Institutional email ID (UUID)"
// @Success 204
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /institutional-emails/{id} [delete]
func (c *SettingsController) DeleteInstitutionalEmail(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := h.PathUUID(w, r, "id")
	if !ok {
		return
	}
	if err := c.Service.DeleteInstitutionalEmail(r.Context(), actor, id); err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListLetterTemplates godoc
// @Summary List letter templates
// @Tags settings
// @Produce json
// @Security BearerAuth
// @Param type query string false "Template type" Enums(referee, club, institutional, convocation, club_letter)
// @Param active query bool false "Only active templates"
// @Success 200 {object} helpers.APIResponse "data contains the templates"
// @Router /letter-templates [get]
func (c *SettingsController) ListLetterTemplates(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	active, err := h.QueryBool(r, "active")
	if err != nil {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "invalid active")
		return
	}
	filter := domain.LetterTemplateFilter{
		Type:       r.URL.Query().Get("type"),
		ZoneID:     r.URL.Query().Get("zone_id"),
		ActiveOnly: active != nil && *active,
	}
	items, err := c.Service.ListLetterTemplates(r.Context(), actor, filter)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, items)
}

// GetLetterTemplate godoc
// @Summary Get a letter template
// @Tags settings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Template ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data contains the template"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /letter-templates/{id} [get]
func (c *SettingsController) GetLetterTemplate(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := h.PathUUID(w, r, "id")
	if !ok {
		return
	}
	tpl, err := c.Service.GetLetterTemplate(r.Context(), actor, id)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, tpl)
}

// CreateLetterTemplate godoc
// @Summary Create a letter template
// @Description Setting is_default clears the previous default of the same type and zone.
// @Tags settings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body LetterTemplateRequest true "Template"
// @Success 201 {object} helpers.APIResponse "data contains the created template"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Router /letter-templates [post]
func (c *SettingsController) CreateLetterTemplate(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var req LetterTemplateRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	tpl := &domain.LetterTemplate{
		Name:             strings.TrimSpace(req.Name),
		Type:             req.Type,
		Subject:          req.Subject,
		Body:             req.Body,
		ZoneID:           req.ZoneID,
		TournamentTypeID: req.TournamentTypeID,
		IsActive:         true,
		IsDefault:        req.IsDefault,
	}
	if err := c.Service.CreateLetterTemplate(r.Context(), actor, tpl); err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, tpl)
}

// UpdateLetterTemplate godoc
// @Summary Update a letter template
// @Tags settings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Template ID (UUID)"
// @Param body body UpdateLetterTemplateRequest true "Fields to change"
// @Success 200 {object} helpers.APIResponse "data contains the updated template"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /letter-templates/{id} [patch]
func (c *SettingsController) UpdateLetterTemplate(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := h.PathUUID(w, r, "id")
	if !ok {
		return
	}
	var req UpdateLetterTemplateRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	tpl, err := c.Service.UpdateLetterTemplate(r.Context(), actor, id, domain.LetterTemplatePatch{
		Name:      req.Name,
		Subject:   req.Subject,
		Body:      req.Body,
		IsActive:  req.IsActive,
		IsDefault: req.IsDefault,
	})
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, tpl)
}

// DeleteLetterTemplate godoc
// @Summary Delete a letter template
// @Tags settings
// @Security BearerAuth
// @Param id path string true "Template ID (UUID)"
// @Success 204
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /letter-templates/{id} [delete]
func (c *SettingsController) DeleteLetterTemplate(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := h.PathUUID(w, r, "id")
	if !ok {
		return
	}
	if err := c.Service.DeleteLetterTemplate(r.Context(), actor, id); err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListLetterheads godoc
// @Summary List letterheads
// @Tags settings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the letterheads"
// @Router /letterheads [get]
func (c *SettingsController) ListLetterheads(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	items, err := c.Service.ListLetterheads(r.Context(), actor)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, items)
}

// CreateLetterhead godoc
// @Summary Create a letterhead
// @Tags settings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body LetterheadRequest true "Letterhead"
// @Success 201 {object} helpers.APIResponse "data contains the created letterhead"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Router /letterheads [post]
func (c *SettingsController) CreateLetterhead(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var req LetterheadRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	l := &domain.Letterhead{
		Title:        strings.TrimSpace(req.Title),
		ZoneID:       req.ZoneID,
		HeaderText:   req.HeaderText,
		FooterText:   req.FooterText,
		LogoPath:     req.LogoPath,
		ContactEmail: req.ContactEmail,
		ContactPhone: req.ContactPhone,
		Address:      req.Address,
		IsActive:     true,
		IsDefault:    req.IsDefault,
	}
	if err := c.Service.CreateLetterhead(r.Context(), actor, l); err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, l)
}

// UpdateLetterhead godoc
// @Summary Update a letterhead
// @Tags settings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Letterhead ID (UUID)"
// @Param body body UpdateLetterheadRequest true "Fields to change"
// @Success 200 {object} helpers.APIResponse "data contains the updated letterhead"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /letterheads/{id} [patch]
func (c *SettingsController) UpdateLetterhead(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := h.PathUUID(w, r, "id")
	if !ok {
		return
	}
	var req UpdateLetterheadRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	l, err := c.Service.UpdateLetterhead(r.Context(), actor, id, domain.LetterheadPatch{
		Title:        req.Title,
		HeaderText:   req.HeaderText,
		FooterText:   req.FooterText,
		LogoPath:     req.LogoPath,
		ContactEmail: req.ContactEmail,
		ContactPhone: req.ContactPhone,
		Address:      req.Address,
		IsActive:     req.IsActive,
		IsDefault:    req.IsDefault,
	})
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, l)
}
