package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	h "refereehub/internal/delivery/http/helpers"
	"refereehub/internal/domain"
)

// CreateRefereeRequest is the request body for POST /referees.
type CreateRefereeRequest struct {
	Email       string  `json:"email" validate:"required,email"`
	Password    string  `json:"password" validate:"required,min=8"`
	FirstName   string  `json:"first_name" validate:"required,notblank"`
	LastName    string  `json:"last_name" validate:"required,notblank"`
	Phone       string  `json:"phone"`
	City        string  `json:"city"`
	RefereeCode string  `json:"referee_code"`
	Level       string  `json:"level" validate:"omitempty,oneof=aspirante primo_livello regionale nazionale internazionale archivio"`
	ZoneID      *string `json:"zone_id" validate:"omitempty,uuid"`
}

// UpdateRefereeRequest is the request body for PATCH /referees/{id}. Omitted fields are unchanged.
type UpdateRefereeRequest struct {
	FirstName   *string `json:"first_name" validate:"omitempty,notblank"`
	LastName    *string `json:"last_name" validate:"omitempty,notblank"`
	Phone       *string `json:"phone"`
	City        *string `json:"city"`
	RefereeCode *string `json:"referee_code"`
	Level       *string `json:"level" validate:"omitempty,oneof=aspirante primo_livello regionale nazionale internazionale archivio"`
	ZoneID      *string `json:"zone_id" validate:"omitempty,uuid"`
	IsActive    *bool   `json:"is_active"`
}

type RefereeController struct {
	Logger  *slog.Logger
	Service domain.RefereeService
}

func NewRefereeController(logger *slog.Logger, svc domain.RefereeService) *RefereeController {
	return &RefereeController{Logger: logger, Service: svc}
}

// List godoc
// @Summary List referees
// @Description Paginated referees visible to the caller. Zone admins only see their zone.
// @Tags referees
// @Produce json
// @Security BearerAuth
// @Param level query string false "Referee level"
// @Param active query bool false "Only active or inactive referees"
// @Param search query string false "Name, email or referee code"
// @Param zone_id query string false "Zone (super admin only)"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} helpers.APIResponse "data contains items and pagination"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Router /referees [get]
func (c *RefereeController) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	active, err := h.QueryBool(r, "active")
	if err != nil {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "invalid active")
		return
	}
	q := r.URL.Query()
	filter := domain.UserFilter{
		ZoneID:   q.Get("zone_id"),
		Level:    q.Get("level"),
		IsActive: active,
		Search:   strings.TrimSpace(q.Get("search")),
	}
	params := h.ParsePagination(r)
	users, total, err := c.Service.List(r.Context(), actor, filter, params)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WritePaginated(w, users, params, total)
}

// Get godoc
// @Summary Get a referee
// @Tags referees
// @Produce json
// @Security BearerAuth
// @Param id path string true "Referee ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data contains the referee"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /referees/{id} [get]
func (c *RefereeController) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := h.PathUUID(w, r, "id")
	if !ok {
		return
	}
	user, err := c.Service.Get(r.Context(), actor, id)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, user)
}

// Create godoc
// @Summary Create a referee
// @Description Creates a referee account with an initial password. Zone admins create referees in their own zone.
// @Tags referees
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateRefereeRequest true "Referee data"
// @Success 201 {object} helpers.APIResponse "data contains the created referee"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Router /referees [post]
func (c *RefereeController) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var req CreateRefereeRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	user := &domain.User{
		Email:       req.Email,
		FirstName:   strings.TrimSpace(req.FirstName),
		LastName:    strings.TrimSpace(req.LastName),
		Phone:       req.Phone,
		City:        req.City,
		RefereeCode: req.RefereeCode,
		Level:       req.Level,
		ZoneID:      req.ZoneID,
		Role:        domain.RoleReferee,
		IsActive:    true,
	}
	if err := c.Service.Create(r.Context(), actor, user, req.Password); err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, user)
}

// Update godoc
// @Summary Update a referee
// @Tags referees
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Referee ID (UUID)"
// @Param body body UpdateRefereeRequest true "Fields to change"
// @Success 200 {object} helpers.APIResponse "data contains the updated referee"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /referees/{id} [patch]
func (c *RefereeController) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := h.PathUUID(w, r, "id")
	if !ok {
		return
	}
	var req UpdateRefereeRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	user, err := c.Service.Update(r.Context(), actor, id, domain.UserPatch{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Phone:       req.Phone,
		City:        req.City,
		RefereeCode: req.RefereeCode,
		Level:       req.Level,
		ZoneID:      req.ZoneID,
		IsActive:    req.IsActive,
	})
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, user)
}
