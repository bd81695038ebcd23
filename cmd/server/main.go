// @title Referee Hub API
// @version 1.0
// @description Tournament scheduling, referee assignments and notifications for golf referee committees.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	_ "github.com/lib/pq"

	"refereehub/config"
	_ "refereehub/docs"
	"refereehub/internal/adapters/auth"
	"refereehub/internal/adapters/email"
	"refereehub/internal/adapters/storage"
	httpdelivery "refereehub/internal/delivery/http"
	"refereehub/internal/delivery/http/controllers"
	"refereehub/internal/delivery/http/middleware"
	"refereehub/internal/repository/postgres"
	"refereehub/internal/services"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger := config.NewLogger(cfg.Environment)

	db, err := openDB(cfg.DBUrl)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Mail.Provider,
		FromAddress: cfg.Mail.FromAddress,
		FromName:    cfg.Mail.FromName,
		SES: email.SESConfig{
			Region:             cfg.Mail.AWSRegion,
			AccessKeyID:        cfg.Mail.AWSAccessKeyID,
			SecretAccessKey:    cfg.Mail.AWSSecretAccessKey,
			InsecureSkipVerify: cfg.Mail.SESInsecureSkipVerify,
		},
		SendGridAPIKey: cfg.Mail.SendGridAPIKey,
	}, logger)
	if err != nil {
		logger.Error("failed to create mailer", "error", err)
		os.Exit(1)
	}

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	zoneRepo := postgres.NewZoneRepository(db)
	clubRepo := postgres.NewClubRepository(db)
	typeRepo := postgres.NewTournamentTypeRepository(db)
	tournamentRepo := postgres.NewTournamentRepository(db)
	availabilityRepo := postgres.NewAvailabilityRepository(db)
	assignmentRepo := postgres.NewAssignmentRepository(db)
	institutionalRepo := postgres.NewInstitutionalEmailRepository(db)
	templateRepo := postgres.NewLetterTemplateRepository(db)
	letterheadRepo := postgres.NewLetterheadRepository(db)
	notificationRepo := postgres.NewNotificationRepository(db)
	summaryRepo := postgres.NewTournamentNotificationRepository(db)

	// Adapters
	hasher := auth.NewBcryptHasher(0)
	jwt := auth.NewJWT(cfg.JWTSecret)
	renderer := email.NewTemplateRenderer()
	documents := storage.NewLocalDocumentStore(cfg.DocumentsRoot)
	clock := clockwork.NewRealClock()
	timeout := cfg.RequestTimeout

	// Services
	authSvc := services.NewAuthService(userRepo, hasher, jwt, cfg.JWTExpiry)
	refereeSvc := services.NewRefereeService(userRepo, hasher, clock, timeout)
	referenceSvc := services.NewReferenceService(zoneRepo, clubRepo, typeRepo, clock, timeout)
	tournamentSvc := services.NewTournamentService(tournamentRepo, clubRepo, typeRepo, assignmentRepo, availabilityRepo, clock, timeout)
	availabilitySvc := services.NewAvailabilityService(availabilityRepo, tournamentRepo, assignmentRepo, userRepo, clock, timeout)
	assignmentSvc := services.NewAssignmentService(assignmentRepo, tournamentRepo, availabilityRepo, userRepo, clock, timeout)
	settingsSvc := services.NewSettingsService(institutionalRepo, templateRepo, letterheadRepo, timeout)
	documentSvc := services.NewDocumentService(tournamentRepo, assignmentRepo, templateRepo, letterheadRepo, renderer, documents, clock, timeout)
	aggregator := services.NewNotificationAggregator(notificationRepo, summaryRepo, clock)
	notificationSvc := services.NewNotificationService(services.NotificationDeps{
		Tournaments:        tournamentRepo,
		Assignments:        assignmentRepo,
		InstitutionalEmail: institutionalRepo,
		Templates:          templateRepo,
		Notifications:      notificationRepo,
		Summaries:          summaryRepo,
		Aggregator:         aggregator,
		Documents:          documents,
		Mailer:             mailer,
		Renderer:           renderer,
		Clock:              clock,
		Logger:             logger,
		MaxRetries:         cfg.MaxRetries,
		SendTimeout:        timeout,
	})
	dashboardSvc := services.NewDashboardService(tournamentRepo, assignmentRepo, notificationRepo, userRepo, clock, timeout)
	exportSvc := services.NewExportService(tournamentSvc, assignmentSvc, notificationSvc)

	router := httpdelivery.NewRouter(httpdelivery.Controllers{
		Auth:          controllers.NewAuthController(logger, authSvc),
		Referees:      controllers.NewRefereeController(logger, refereeSvc),
		Reference:     controllers.NewReferenceController(logger, referenceSvc),
		Tournaments:   controllers.NewTournamentController(logger, tournamentSvc),
		Availability:  controllers.NewAvailabilityController(logger, availabilitySvc),
		Assignments:   controllers.NewAssignmentController(logger, assignmentSvc),
		Notifications: controllers.NewNotificationController(logger, notificationSvc),
		Settings:      controllers.NewSettingsController(logger, settingsSvc),
		Documents:     controllers.NewDocumentController(logger, documentSvc),
		Dashboard:     controllers.NewDashboardController(logger, dashboardSvc, exportSvc),
	}, jwt, logger)

	handler := middleware.LoggingMiddleware(logger, middleware.CORS(cfg.AllowedOrigins, router))

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", "port", cfg.Port, "env", cfg.Environment, "mail_provider", cfg.Mail.Provider)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		logger.Error("server error", "error", err)
		os.Exit(1)
	case sig := <-shutdown:
		logger.Info("shutdown started", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("could not stop server gracefully", "error", err)
			if err := server.Close(); err != nil {
				logger.Error("could not force stop server", "error", err)
			}
		}
		logger.Info("server stopped")
	}
}

func openDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxIdleTime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
