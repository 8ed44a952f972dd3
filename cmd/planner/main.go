package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"planner/internal/auth"
	"planner/internal/config"
	"planner/internal/logging"
	"planner/internal/server"
	"planner/internal/storage"
	"planner/internal/storage/memory"
	"planner/internal/storage/sqlite"
)

func main() {
	// A missing .env file is fine; the environment and flags still apply.
	envErr := godotenv.Load()

	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(2)
	}

	logger := logging.New(cfg.Environment, cfg.LogLevel, os.Stdout)
	slog.SetDefault(logger)
	if envErr != nil && !errors.Is(envErr, os.ErrNotExist) {
		logger.Warn("unable to load .env file", slog.String("error", envErr.Error()))
	}

	if cfg.UsesDefaultSecret() {
		if cfg.Environment == "production" {
			logger.Error("PLANNER_JWT_SECRET must be set in production")
			os.Exit(1)
		}
		logger.Warn("using the built-in development JWT secret; set PLANNER_JWT_SECRET")
	}

	store, err := openStore(cfg, logger)
	if err != nil {
		logger.Error("unable to open store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer store.Close()

	tokens, err := auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		logger.Error("unable to configure tokens", slog.String("error", err.Error()))
		os.Exit(1)
	}

	srv := server.New(server.Options{
		Store:       store,
		Tokens:      tokens,
		Logger:      logger,
		StaticDir:   cfg.StaticDir,
		CORSOrigins: cfg.CORSOrigins,
	})

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting server",
			slog.String("addr", httpServer.Addr),
			slog.String("storage", cfg.Storage),
			slog.Duration("token_ttl", cfg.TokenTTL))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped unexpectedly", slog.String("error", err.Error()))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("failed to shutdown server", slog.String("error", err.Error()))
	}

	logger.Info("server stopped")
}

func openStore(cfg config.Config, logger *slog.Logger) (storage.Store, error) {
	if cfg.Storage == config.StorageSQLite {
		s, err := sqlite.Open("", logger)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return memory.New(), nil
}
