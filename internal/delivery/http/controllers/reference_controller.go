package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	h "refereehub/internal/delivery/http/helpers"
	"refereehub/internal/domain"
)

// CreateZoneRequest is the request body for POST /zones.
type CreateZoneRequest struct {
	Name       string `json:"name" validate:"required,notblank"`
	Code       string `json:"code" validate:"required,notblank,max=20"`
	IsNational bool   `json:"is_national"`
}

// CreateTournamentTypeRequest is the request body for POST /tournament-types.
type CreateTournamentTypeRequest struct {
	Name        string `json:"name" validate:"required,notblank"`
	Code        string `json:"code" validate:"required,notblank,max=20"`
	MinReferees int    `json:"min_referees" validate:"gte=1"`
	MaxReferees int    `json:"max_referees" validate:"gtefield=MinReferees"`
	IsNational  bool   `json:"is_national"`
	SortOrder   int    `json:"sort_order"`
}

// UpdateTournamentTypeRequest is the request body for PATCH /tournament-types/{id}.
type UpdateTournamentTypeRequest struct {
	Name        *string `json:"name" validate:"omitempty,notblank"`
	MinReferees *int    `json:"min_referees" validate:"omitempty,gte=1"`
	MaxReferees *int    `json:"max_referees" validate:"omitempty,gte=1"`
	IsNational  *bool   `json:"is_national"`
	SortOrder   *int    `json:"sort_order"`
}

// CreateClubRequest is the request body for POST /clubs.
type CreateClubRequest struct {
	Name   string `json:"name" validate:"required,notblank"`
	Code   string `json:"code" validate:"required,notblank"`
	Email  string `json:"email" validate:"omitempty,email"`
	Phone  string `json:"phone"`
	City   string `json:"city"`
	ZoneID string `json:"zone_id" validate:"omitempty,uuid"`
}

// UpdateClubRequest is the request body for PATCH /clubs/{id}.
type UpdateClubRequest struct {
	Name     *string `json:"name" validate:"omitempty,notblank"`
	Code     *string `json:"code" validate:"omitempty,notblank"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Phone    *string `json:"phone"`
	City     *string `json:"city"`
	IsActive *bool   `json:"is_active"`
}

type ReferenceController struct {
	Logger  *slog.Logger
	Service domain.ReferenceService
}

func NewReferenceController(logger *slog.Logger, svc domain.ReferenceService) *ReferenceController {
	return &ReferenceController{Logger: logger, Service: svc}
}

// ListZones godoc
// @Summary List zones
// @Tags reference
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the zones"
// @Router /zones [get]
func (c *ReferenceController) ListZones(w http.ResponseWriter, r *http.Request) {
	zones, err := c.Service.ListZones(r.Context())
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, zones)
}

// CreateZone godoc
// @Summary Create a zone
// @Description Super admin only.
// @Tags reference
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateZoneRequest true "Zone data"
// @Success 201 {object} helpers.APIResponse "data contains the created zone"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Router /zones [post]
func (c *ReferenceController) CreateZone(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var req CreateZoneRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	zone := &domain.Zone{Name: strings.TrimSpace(req.Name), Code: strings.TrimSpace(req.Code), IsNational: req.IsNational}
	if err := c.Service.CreateZone(r.Context(), actor, zone); err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, zone)
}

// ListTournamentTypes godoc
// @Summary List tournament types
// @Tags reference
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the tournament types"
// @Router /tournament-types [get]
func (c *ReferenceController) ListTournamentTypes(w http.ResponseWriter, r *http.Request) {
	types, err := c.Service.ListTournamentTypes(r.Context())
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, types)
}

// CreateTournamentType godoc
// @Summary Create a tournament type
// @Description Super admin only. min_referees must be at least 1 and not above max_referees.
// @Tags reference
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateTournamentTypeRequest true "Tournament type data"
// @Success 201 {object} helpers.APIResponse "data contains the created type"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Router /tournament-types [post]
func (c *ReferenceController) CreateTournamentType(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var req CreateTournamentTypeRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	tt := &domain.TournamentType{
		Name:        strings.TrimSpace(req.Name),
		Code:        strings.TrimSpace(req.Code),
		MinReferees: req.MinReferees,
		MaxReferees: req.MaxReferees,
		IsNational:  req.IsNational,
		SortOrder:   req.SortOrder,
	}
	if err := c.Service.CreateTournamentType(r.Context(), actor, tt); err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, tt)
}

// UpdateTournamentType godoc
// @Summary Update a tournament type
// @Tags reference
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Tournament type ID (UUID)"
// @Param body body UpdateTournamentTypeRequest true "Fields to change"
// @Success 200 {object} helpers.APIResponse "data contains the updated type"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /tournament-types/{id} [patch]
func (c *ReferenceController) UpdateTournamentType(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := h.PathUUID(w, r, "id")
	if !ok {
		return
	}
	var req UpdateTournamentTypeRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	tt, err := c.Service.UpdateTournamentType(r.Context(), actor, id, domain.TournamentTypePatch{
		Name:        req.Name,
		MinReferees: req.MinReferees,
		MaxReferees: req.MaxReferees,
		IsNational:  req.IsNational,
		SortOrder:   req.SortOrder,
	})
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, tt)
}

// ListClubs godoc
// @Summary List clubs
// @Tags reference
// @Produce json
// @Security BearerAuth
// @Param zone_id query string false "Zone"
// @Param active query bool false "Active flag"
// @Param search query string false "Name or code"
// @Success 200 {object} helpers.APIResponse "data contains the clubs"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Router /clubs [get]
func (c *ReferenceController) ListClubs(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	active, err := h.QueryBool(r, "active")
	if err != nil {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "invalid active")
		return
	}
	filter := domain.ClubFilter{
		ZoneID:   r.URL.Query().Get("zone_id"),
		IsActive: active,
		Search:   strings.TrimSpace(r.URL.Query().Get("search")),
	}
	clubs, err := c.Service.ListClubs(r.Context(), actor, filter)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, clubs)
}

// GetClub godoc
// @Summary Get a club
// @Tags reference
// @Produce json
// @Security BearerAuth
// @Param id path string true "Club ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data contains the club"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /clubs/{id} [get]
func (c *ReferenceController) GetClub(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := h.PathUUID(w, r, "id")
	if !ok {
		return
	}
	club, err := c.Service.GetClub(r.Context(), actor, id)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, club)
}

// CreateClub godoc
// @Summary Create a club
// @Description Zone admins create clubs in their own zone.
// @Tags reference
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateClubRequest true "Club data"
// @Success 201 {object} helpers.APIResponse "data contains the created club"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Router /clubs [post]
func (c *ReferenceController) CreateClub(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var req CreateClubRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	club := &domain.Club{
		Name:     strings.TrimSpace(req.Name),
		Code:     strings.TrimSpace(req.Code),
		Email:    strings.TrimSpace(req.Email),
		Phone:    req.Phone,
		City:     req.City,
		ZoneID:   req.ZoneID,
		IsActive: true,
	}
	if err := c.Service.CreateClub(r.Context(), actor, club); err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, club)
}

// UpdateClub godoc
// @Summary Update a club
// @Tags reference
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Club ID (UUID)"
// @Param body body UpdateClubRequest true "Fields to change"
// @Success 200 {object} helpers.APIResponse "data contains the updated club"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /clubs/{id} [patch]
func (c *ReferenceController) UpdateClub(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := h.PathUUID(w, r, "id")
	if !ok {
		return
	}
	var req UpdateClubRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	club, err := c.Service.UpdateClub(r.Context(), actor, id, domain.ClubPatch{
		Name:     req.Name,
		Code:     req.Code,
		Email:    req.Email,
		Phone:    req.Phone,
		City:     req.City,
		IsActive: req.IsActive,
	})
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, club)
}
