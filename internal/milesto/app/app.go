package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/abhi19833/milesto/internal/milesto/ai"
	httpapi "github.com/abhi19833/milesto/internal/milesto/http"
	"github.com/abhi19833/milesto/internal/milesto/mail"
	"github.com/abhi19833/milesto/internal/milesto/service"
	"github.com/abhi19833/milesto/internal/milesto/store"
	"github.com/abhi19833/milesto/internal/milesto/store/drivers/sqlite"
	"github.com/abhi19833/milesto/internal/milesto/uploads"
	"github.com/abhi19833/milesto/pkg/cryptox"
	"github.com/abhi19833/milesto/pkg/jwtx"
	"github.com/abhi19833/milesto/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the Milesto service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db     store.Store
	tokens *jwtx.HS256

	// Outbound integrations
	mailer    service.Mailer
	generator service.InsightGenerator
	uploader  service.Uploader

	// Services
	authService         *service.AuthService
	projectService      *service.ProjectService
	inviteService       *service.InviteService
	taskService         *service.TaskService
	documentService     *service.DocumentService
	teamService         *service.TeamService
	dashboardService    *service.DashboardService
	housekeepingService *service.HousekeepingService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "milesto",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	// Set pepper path for password hashing
	cryptox.SetPepperPath(app.cfg.PepperFile)

	tokens, err := jwtx.NewHS256(cfg.JWTSecret, "milesto")
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session tokens: %w", err)
	}
	app.tokens = tokens

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	if err := app.initIntegrations(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	// Start housekeeping service
	app.housekeepingService.Start()

	app.logger.Info("milesto starting", "port", app.cfg.Port, "version", BuildVersion)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a shutdown signal or server error
	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		// Perform graceful shutdown
		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down milesto...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	// Shutdown the HTTP server
	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	// Stop the housekeeping service
	app.housekeepingService.Stop()

	// Close database connection
	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("milesto stopped")
	return nil
}

// initDatabase initializes the database and applies migrations
func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initIntegrations wires outbound providers, falling back to degraded local
// implementations when credentials are absent.
func (app *Application) initIntegrations() error {
	if app.cfg.SendGridAPIKey != "" {
		app.mailer = mail.NewSendGridMailer(app.cfg.SendGridAPIKey, app.cfg.EmailFrom)
		app.logger.Info("sendgrid email enabled", "from", app.cfg.EmailFrom)
	} else {
		app.mailer = &logMailer{logger: app.logger}
		app.logger.Warn("SENDGRID_API_KEY not set, email delivery disabled")
	}

	if app.cfg.GeminiAPIKey != "" {
		generator, err := ai.NewGeminiGenerator(context.Background(), app.cfg.GeminiAPIKey)
		if err != nil {
			return fmt.Errorf("failed to initialize gemini client: %w", err)
		}
		app.generator = generator
		app.logger.Info("gemini insights enabled")
	} else {
		app.generator = disabledGenerator{}
		app.logger.Warn("GEMINI_API_KEY not set, dashboard serves heuristic insights only")
	}

	if app.cfg.CloudinaryCloudName != "" && app.cfg.CloudinaryAPIKey != "" && app.cfg.CloudinaryAPISecret != "" {
		uploader, err := uploads.NewCloudinaryUploader(
			app.cfg.CloudinaryCloudName,
			app.cfg.CloudinaryAPIKey,
			app.cfg.CloudinaryAPISecret,
		)
		if err != nil {
			return fmt.Errorf("failed to initialize cloudinary client: %w", err)
		}
		app.uploader = uploader
		app.logger.Info("cloudinary uploads enabled")
	} else {
		app.uploader = disabledUploader{}
		app.logger.Warn("cloudinary credentials not set, document uploads disabled")
	}

	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.authService = &service.AuthService{
		Store:       app.db,
		Signer:      app.tokens,
		Mailer:      app.mailer,
		FrontendURL: app.cfg.FrontendURL,
	}

	app.projectService = &service.ProjectService{Store: app.db}
	app.inviteService = &service.InviteService{
		Store:       app.db,
		Mailer:      app.mailer,
		FrontendURL: app.cfg.FrontendURL,
	}
	app.taskService = &service.TaskService{Store: app.db}
	app.documentService = &service.DocumentService{
		Store:    app.db,
		Uploader: app.uploader,
	}
	app.teamService = &service.TeamService{Store: app.db}
	app.dashboardService = &service.DashboardService{
		Store:     app.db,
		Generator: app.generator,
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.tokens,
		BuildVersion,
		app.db,
		app.logger,
	)

	// Wire services to router
	router.AuthService = app.authService
	router.ProjectService = app.projectService
	router.InviteService = app.inviteService
	router.TaskService = app.taskService
	router.DocumentService = app.documentService
	router.TeamService = app.teamService
	router.DashboardService = app.dashboardService
	router.ApplyRoutes()

	app.router = router

	// Initialize HTTP server
	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
