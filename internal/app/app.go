package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/markdave123-py/joba/internal/config"
	"github.com/markdave123-py/joba/internal/core/auth"
	"github.com/markdave123-py/joba/internal/core/database"
	"github.com/markdave123-py/joba/internal/core/llm"
	"github.com/markdave123-py/joba/internal/core/objectstore"
	"github.com/markdave123-py/joba/internal/repositories"
	"github.com/markdave123-py/joba/internal/services"
)

// App owns the long-lived dependencies and the HTTP server. Everything is
// wired here through constructors so tests can assemble the same pieces with
// fakes.
type App struct {
	DB     *database.Client
	Store  objectstore.ObjectClient
	Server *Server
	Logger *zap.Logger
}

func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	setupCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	dbClient, err := database.NewClient(setupCtx, cfg)
	if err != nil {
		return nil, fmt.Errorf("initialize database: %w", err)
	}
	logger.Info("database initialized and ready")

	store, err := objectstore.NewS3Client(setupCtx, cfg, logger)
	if err != nil {
		_ = dbClient.Close()
		return nil, fmt.Errorf("initialize object storage: %w", err)
	}

	analyzer, err := llm.NewClient(cfg, logger)
	if err != nil {
		_ = dbClient.Close()
		return nil, fmt.Errorf("initialize analyzer: %w", err)
	}

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenExpiry, cfg.RefreshTokenExpiry)

	users := repositories.NewUserRepository(dbClient)
	resumes := repositories.NewResumeRepository(dbClient)
	letters := repositories.NewCoverLetterRepository(dbClient)
	queries := repositories.NewJobQueryRepository(dbClient)
	flows := repositories.NewJobFlowRepository(dbClient)

	storage := services.NewStorageService(store, cfg.AllowedExtensions, cfg.MaxFileSize)

	deps := Deps{
		Auth:        services.NewAuthService(users, tokens, cfg.BCryptCost, logger),
		Resume:      services.NewResumeService(resumes, storage, analyzer, logger),
		CoverLetter: services.NewCoverLetterService(letters, resumes, analyzer, logger),
		JobQuery:    services.NewJobQueryService(queries, resumes, analyzer, logger),
		JobFlow:     services.NewJobFlowService(flows, resumes, letters, queries, logger),
		Health:      services.NewHealthService(dbClient, store),
	}

	server := NewServer(cfg, deps, logger)

	return &App{DB: dbClient, Store: store, Server: server, Logger: logger}, nil
}

func (a *App) Close() {
	if a.DB != nil {
		_ = a.DB.Close()
	}
}
