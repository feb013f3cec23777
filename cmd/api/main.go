package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/markdave123-py/joba/internal/app"
	"github.com/markdave123-py/joba/internal/config"
	"github.com/markdave123-py/joba/internal/core/logging"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	logger := logging.Must(cfg.Env, cfg.LogLevel)
	defer func() { _ = logger.Sync() }()

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("startup failed", zap.Error(err))
	}
	defer application.Close()

	go func() {
		if err := application.Server.Start(); err != nil {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	// SIGINT/SIGTERM trigger a graceful shutdown.
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	<-c

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := application.Server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
}
