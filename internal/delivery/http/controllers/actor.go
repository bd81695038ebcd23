package controllers

import (
	"net/http"

	"refereehub/internal/delivery/http/helpers"
	"refereehub/internal/delivery/http/middleware"
	"refereehub/internal/domain"
)

// requireActor returns the authenticated actor or writes 401.
func requireActor(w http.ResponseWriter, r *http.Request) (*domain.Actor, bool) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return nil, false
	}
	return actor, true
}
