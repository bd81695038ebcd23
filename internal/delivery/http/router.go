package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"refereehub/internal/delivery/http/controllers"
	"refereehub/internal/delivery/http/middleware"
	"refereehub/internal/domain"
)

// Controllers groups the HTTP controllers mounted by NewRouter.
type Controllers struct {
	Auth          *controllers.AuthController
	Referees      *controllers.RefereeController
	Reference     *controllers.ReferenceController
	Tournaments   *controllers.TournamentController
	Availability  *controllers.AvailabilityController
	Assignments   *controllers.AssignmentController
	Notifications *controllers.NotificationController
	Settings      *controllers.SettingsController
	Documents     *controllers.DocumentController
	Dashboard     *controllers.DashboardController
}

// NewRouter initializes the HTTP router with all application routes.
// Zone scoping is enforced by the services; the router only separates referee and admin endpoints.
func NewRouter(c Controllers, verifier domain.TokenVerifier, logger *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()

	requireAuth := middleware.RequireAuth(verifier, logger)
	authed := func(next http.HandlerFunc) http.HandlerFunc { return requireAuth(next) }
	admin := func(next http.HandlerFunc) http.HandlerFunc {
		return requireAuth(middleware.RequireRole(middleware.AdminRoles...)(next))
	}
	superAdmin := func(next http.HandlerFunc) http.HandlerFunc {
		return requireAuth(middleware.RequireRole(domain.RoleSuperAdmin)(next))
	}

	// Auth
	mux.HandleFunc("POST /auth/login", c.Auth.Login)
	mux.HandleFunc("GET /me", authed(c.Auth.Me))
	mux.HandleFunc("GET /me/availabilities", authed(c.Availability.ListMine))
	mux.HandleFunc("PUT /me/availabilities", authed(c.Availability.SyncMine))
	mux.HandleFunc("GET /me/assignments", authed(c.Assignments.ListMine))

	// Reference data
	mux.HandleFunc("GET /zones", authed(c.Reference.ListZones))
	mux.HandleFunc("POST /zones", superAdmin(c.Reference.CreateZone))
	mux.HandleFunc("GET /tournament-types", authed(c.Reference.ListTournamentTypes))
	mux.HandleFunc("POST /tournament-types", superAdmin(c.Reference.CreateTournamentType))
	mux.HandleFunc("PATCH /tournament-types/{id}", superAdmin(c.Reference.UpdateTournamentType))
	mux.HandleFunc("GET /clubs", authed(c.Reference.ListClubs))
	mux.HandleFunc("GET /clubs/{id}", authed(c.Reference.GetClub))
	mux.HandleFunc("POST /clubs", admin(c.Reference.CreateClub))
	mux.HandleFunc("PATCH /clubs/{id}", admin(c.Reference.UpdateClub))

	// Referees
	mux.HandleFunc("GET /referees", admin(c.Referees.List))
	mux.HandleFunc("GET /referees/{id}", admin(c.Referees.Get))
	mux.HandleFunc("POST /referees", admin(c.Referees.Create))
	mux.HandleFunc("PATCH /referees/{id}", admin(c.Referees.Update))

	// Tournaments
	mux.HandleFunc("GET /tournaments", authed(c.Tournaments.List))
	mux.HandleFunc("GET /tournaments/calendar", authed(c.Tournaments.Calendar))
	mux.HandleFunc("GET /tournaments/{id}", authed(c.Tournaments.Get))
	mux.HandleFunc("POST /tournaments", admin(c.Tournaments.Create))
	mux.HandleFunc("PATCH /tournaments/{id}", admin(c.Tournaments.Update))
	mux.HandleFunc("DELETE /tournaments/{id}", admin(c.Tournaments.Delete))
	mux.HandleFunc("POST /tournaments/{id}/status", admin(c.Tournaments.ChangeStatus))

	// Availability
	mux.HandleFunc("POST /tournaments/{id}/availability", authed(c.Availability.Declare))
	mux.HandleFunc("DELETE /tournaments/{id}/availability", authed(c.Availability.Withdraw))
	mux.HandleFunc("GET /tournaments/{id}/availabilities", admin(c.Availability.ListForTournament))

	// Assignments
	mux.HandleFunc("POST /tournaments/{id}/assignments", admin(c.Assignments.Assign))
	mux.HandleFunc("GET /tournaments/{id}/assignments", authed(c.Assignments.ListForTournament))
	mux.HandleFunc("DELETE /tournaments/{id}/assignments/{assignmentID}", admin(c.Assignments.Remove))
	mux.HandleFunc("POST /assignments/{id}/confirm", authed(c.Assignments.Confirm))

	// Documents and notifications
	mux.HandleFunc("POST /tournaments/{id}/documents/{kind}", admin(c.Documents.Generate))
	mux.HandleFunc("POST /tournaments/{id}/notifications", admin(c.Notifications.Dispatch))
	mux.HandleFunc("GET /tournament-notifications", admin(c.Notifications.List))
	mux.HandleFunc("GET /tournament-notifications/{id}", admin(c.Notifications.Get))
	mux.HandleFunc("POST /tournament-notifications/{id}/resend", admin(c.Notifications.ResendFailed))
	mux.HandleFunc("DELETE /tournament-notifications/{id}", admin(c.Notifications.Delete))
	mux.HandleFunc("POST /notifications/{id}/resend", admin(c.Notifications.ResendNotification))

	// Settings
	mux.HandleFunc("GET /institutional-emails", admin(c.Settings.ListInstitutionalEmails))
	mux.HandleFunc("POST /institutional-emails", admin(c.Settings.CreateInstitutionalEmail))
	mux.HandleFunc("PATCH /institutional-emails/{id}", admin(c.Settings.UpdateInstitutionalEmail))
	mux.HandleFunc("DELETE /institutional-emails/{id}", admin(c.Settings.DeleteInstitutionalEmail))
	mux.HandleFunc("GET /letter-templates", admin(c.Settings.ListLetterTemplates))
	mux.HandleFunc("GET /letter-templates/{id}", admin(c.Settings.GetLetterTemplate))
	mux.HandleFunc("POST /letter-templates", admin(c.Settings.CreateLetterTemplate))
	mux.HandleFunc("PATCH /letter-templates/{id}", admin(c.Settings.UpdateLetterTemplate))
	mux.HandleFunc("DELETE /letter-templates/{id}", admin(c.Settings.DeleteLetterTemplate))
	mux.HandleFunc("GET /letterheads", admin(c.Settings.ListLetterheads))
	mux.HandleFunc("POST /letterheads", admin(c.Settings.CreateLetterhead))
	mux.HandleFunc("PATCH /letterheads/{id}", admin(c.Settings.UpdateLetterhead))

	// Dashboard and exports
	mux.HandleFunc("GET /dashboard/stats", admin(c.Dashboard.Stats))
	mux.HandleFunc("GET /exports/tournaments.csv", admin(c.Dashboard.ExportTournaments))
	mux.HandleFunc("GET /exports/tournaments/{id}/assignments.csv", admin(c.Dashboard.ExportAssignments))
	mux.HandleFunc("GET /exports/tournament-notifications.csv", admin(c.Dashboard.ExportNotifications))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
