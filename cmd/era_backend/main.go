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

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/najmfleet/employee_requests_app/internal/adapters/database/pgsql"
	"github.com/najmfleet/employee_requests_app/internal/adapters/storage/gdrive"
	"github.com/najmfleet/employee_requests_app/internal/adapters/storage/localfs"
	"github.com/najmfleet/employee_requests_app/internal/core/ports/storage"
	"github.com/najmfleet/employee_requests_app/internal/core/services"
	"github.com/najmfleet/employee_requests_app/internal/handlers"
	"github.com/najmfleet/employee_requests_app/internal/jobs"
	"github.com/najmfleet/employee_requests_app/internal/middleware"
	"github.com/najmfleet/employee_requests_app/internal/utils"
	"github.com/najmfleet/employee_requests_app/pkg/config"
	"github.com/najmfleet/employee_requests_app/pkg/database"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// @title Employee Requests API
// @version 1.0
// @description Employee requests backend: request lifecycle, uploads, notifications and the staff review console.

// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize database connection pool (for application use)
	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dbPool.Close()
	logger.Info("Database connection pool established.")

	if err := runMigrations(cfg, logger); err != nil {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Local attachment store; remote mirror only when credentials are wired.
	localStore := localfs.NewStore(cfg.UploadRoot, cfg.UploadFsync)
	var mirror storage.RemoteMirror = gdrive.Disabled()
	if cfg.RemoteStorageEnabled {
		m, err := gdrive.NewMirror(context.Background(), cfg.DriveCredentialsFile, cfg.DriveRootFolderID, localStore, cfg.ResumableThresholdBytes, logger)
		if err != nil {
			// Mirroring is best-effort everywhere else; startup follows suit.
			logger.Error("Remote mirror unavailable, continuing without it", slog.String("error", err.Error()))
		} else {
			mirror = m
		}
	}

	analytics := utils.InitializePosthogClient(cfg.PosthogAPIKey, logger)
	defer analytics.Close()

	repos := pgsql.NewRepositoryProvider(dbPool)
	serviceContainer := services.NewServiceContainer(repos, localStore, mirror, analytics, services.ContainerConfig{
		SessionSecret:  cfg.SessionSecret,
		TokenIssuer:    cfg.TokenIssuer,
		TokenTTL:       cfg.TokenTTL,
		ConsoleTTL:     cfg.ConsoleTTL,
		AdvanceCeiling: decimal.NewFromFloat(cfg.AdvanceCeiling),
	})

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, CORS, body cap)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, cfg.MaxUploadBytes)
		c.Next()
	})
	r.MaxMultipartMemory = 32 << 20

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Console templates (server-rendered Arabic RTL)
	r.LoadHTMLGlob("web/templates/*.html")

	handlers.RegisterRoutes(r, cfg, serviceContainer)

	// Background mirror retry sweep
	scheduler, err := jobs.NewScheduler(serviceContainer.Request, logger, cfg.MirrorRetryCron)
	if err != nil {
		logger.Error("Failed to initialize scheduler", slog.String("error", err.Error()))
		os.Exit(1)
	}
	scheduler.Start()
	defer scheduler.Stop()

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Wait for interrupt, then drain in-flight requests.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", slog.String("error", err.Error()))
	}
	logger.Info("Server exited.")
}

// runMigrations applies all pending "up" migrations over a temporary
// database/sql connection compatible with the pgx pool.
func runMigrations(cfg *config.Config, logger *slog.Logger) error {
	logger.Info("Running database migrations...")
	migrationDB, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return err
	}
	if err := migrationDB.Ping(); err != nil {
		migrationDB.Close()
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return err
	}

	upErr := m.Up()
	if upErr != nil && upErr != migrate.ErrNoChange {
		return upErr
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return sourceErr
	}
	if dbErr != nil {
		return dbErr
	}

	if upErr == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}
