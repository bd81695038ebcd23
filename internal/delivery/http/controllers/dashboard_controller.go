package controllers

import (
	"bytes"
	"log/slog"
	"net/http"

	h "refereehub/internal/delivery/http/helpers"
	"refereehub/internal/domain"
)

// DashboardController serves dashboard statistics and CSV exports.
type DashboardController struct {
	Logger    *slog.Logger
	Dashboard domain.DashboardService
	Export    domain.ExportService
}

func NewDashboardController(logger *slog.Logger, dashboard domain.DashboardService, export domain.ExportService) *DashboardController {
	return &DashboardController{Logger: logger, Dashboard: dashboard, Export: export}
}

// Stats godoc
// @Summary Dashboard statistics
// @Description Tournaments per status, upcoming understaffed tournaments, notification outcomes and active referees in the caller's scope.
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the statistics"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Router /dashboard/stats [get]
func (c *DashboardController) Stats(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	stats, err := c.Dashboard.Stats(r.Context(), actor)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, stats)
}

// writeCSV buffers the export so that a failure can still produce a JSON error.
func (c *DashboardController) writeCSV(w http.ResponseWriter, r *http.Request, filename string, export func(*bytes.Buffer) error) {
	var buf bytes.Buffer
	if err := export(&buf); err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// ExportTournaments godoc
// @Summary Export tournaments as CSV
// @Tags exports
// @Produce text/csv
// @Security BearerAuth
// @Param status query string false "Status"
// @Param from query string false "Start date lower bound (YYYY-MM-DD)"
// @Param to query string false "Start date upper bound (YYYY-MM-DD)"
// @Success 200 {file} file
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Router /exports/tournaments.csv [get]
func (c *DashboardController) ExportTournaments(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	filter, ok := tournamentFilter(w, r)
	if !ok {
		return
	}
	c.writeCSV(w, r, "tournaments.csv", func(buf *bytes.Buffer) error {
		return c.Export.Tournaments(r.Context(), actor, filter, buf)
	})
}

// ExportAssignments godoc
// @Summary Export the assignments of a tournament as CSV
// @Tags exports
// @Produce text/csv
// @Security BearerAuth
// @Param id path string true "Tournament ID (UUID)"
// @Success 200 {file} file
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /exports/tournaments/{id}/assignments.csv [get]
func (c *DashboardController) ExportAssignments(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	tournamentID, ok := h.PathUUID(w, r, "id")
	if !ok {
		return
	}
	c.writeCSV(w, r, "assignments-"+tournamentID+".csv", func(buf *bytes.Buffer) error {
		return c.Export.TournamentAssignments(r.Context(), actor, tournamentID, buf)
	})
}

// ExportNotifications godoc
// @Summary Export tournament notification summaries as CSV
// @Tags exports
// @Produce text/csv
// @Security BearerAuth
// @Param status query string false "Summary status"
// @Success 200 {file} file
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Router /exports/tournament-notifications.csv [get]
func (c *DashboardController) ExportNotifications(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	filter := domain.TournamentNotificationFilter{Status: r.URL.Query().Get("status")}
	c.writeCSV(w, r, "tournament-notifications.csv", func(buf *bytes.Buffer) error {
		return c.Export.TournamentNotifications(r.Context(), actor, filter, buf)
	})
}
