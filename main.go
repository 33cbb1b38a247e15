package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver for database/sql (migrations)
	"go.uber.org/zap"

	"github.com/promptvault-io/promptvault-engine/pkg/auth"
	"github.com/promptvault-io/promptvault-engine/pkg/catalog"
	"github.com/promptvault-io/promptvault-engine/pkg/config"
	"github.com/promptvault-io/promptvault-engine/pkg/database"
	"github.com/promptvault-io/promptvault-engine/pkg/handlers"
	"github.com/promptvault-io/promptvault-engine/pkg/repositories"
	"github.com/promptvault-io/promptvault-engine/pkg/screening"
	"github.com/promptvault-io/promptvault-engine/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Configuration loaded",
		zap.String("env", cfg.Env),
		zap.String("version", cfg.Version),
		zap.Bool("auth_verification", cfg.Auth.EnableVerification),
		zap.Bool("screening_enabled", cfg.Screening.Enabled()),
	)

	ctx := context.Background()

	// Database
	db, err := database.NewConnection(ctx, &database.Config{
		URL:            cfg.Database.URL(),
		MaxConnections: cfg.Database.MaxConnections,
	})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Migrations run through database/sql as required by golang-migrate.
	sqlDB, err := sql.Open("pgx", cfg.Database.URL())
	if err != nil {
		logger.Fatal("Failed to open migration connection", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, cfg.MigrationsPath, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}
	_ = sqlDB.Close()

	// Category catalog
	categories, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		logger.Fatal("Failed to load category catalog", zap.Error(err))
	}

	// Optional AI submission screening
	var screener screening.Screener
	if cfg.Screening.Enabled() {
		screener, err = screening.New(&screening.Config{
			Provider: cfg.Screening.Provider,
			Model:    cfg.Screening.Model,
			APIKey:   cfg.Screening.APIKey,
		})
		if err != nil {
			logger.Fatal("Failed to create screener", zap.Error(err))
		}
	}

	// Repositories
	userRepo := repositories.NewUserRepository(db)
	promptRepo := repositories.NewPromptRepository(db)
	versionRepo := repositories.NewVersionRepository(db)

	// Services
	userService := services.NewUserService(userRepo, logger)
	promptService := services.NewPromptService(&services.PromptServiceDeps{
		PromptRepo:  promptRepo,
		VersionRepo: versionRepo,
		Categories:  categories,
		Screener:    screener,
		Logger:      logger,
	})
	voteService := services.NewVoteService(promptRepo, logger)
	bookmarkService := services.NewBookmarkService(promptRepo, logger)

	// Auth
	jwksClient, err := auth.NewJWKSClient(&auth.JWKSConfig{
		EnableVerification: cfg.Auth.EnableVerification,
		JWKSEndpoints:      cfg.Auth.JWKSEndpoints,
	})
	if err != nil {
		logger.Fatal("Failed to create JWKS client", zap.Error(err))
	}
	authService := auth.NewAuthService(jwksClient, logger)
	authMiddleware := auth.NewMiddleware(authService, logger)
	auth.InitSessionStore(cfg.SSO.SessionSecret)

	mux := http.NewServeMux()

	// Register handlers
	handlers.NewHealthHandler(cfg, db, logger).RegisterRoutes(mux)
	handlers.NewSSOHandler(&cfg.SSO, logger).RegisterRoutes(mux)
	handlers.NewUserHandler(userService, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewCategoryHandler(promptService, userService, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewPromptHandler(promptService, voteService, bookmarkService, userService, logger).RegisterRoutes(mux, authMiddleware)

	addr := cfg.BindAddr + ":" + cfg.Port
	logger.Info("Starting promptvault-engine", zap.String("addr", addr), zap.String("version", cfg.Version))
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "local" || env == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
