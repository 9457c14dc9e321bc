package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AdamBeresnev/bracket-app/internal/config"
	"github.com/AdamBeresnev/bracket-app/internal/db"
	"github.com/AdamBeresnev/bracket-app/internal/live"
	"github.com/AdamBeresnev/bracket-app/internal/middleware"
	"github.com/AdamBeresnev/bracket-app/internal/service"
	"github.com/AdamBeresnev/bracket-app/internal/store"
	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort), slog.String("store", cfg.StoreDriver))

	providers := middleware.InitAuth(cfg.OAuth)
	logger.Info("oauth providers registered", slog.Any("providers", providers))

	sessionManager := scs.New()
	sessionManager.Lifetime = cfg.SessionLifetime

	repo, closeStore, err := openStore(cfg, sessionManager)
	if err != nil {
		logger.Error("failed to open tournament store", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := closeStore.Close(); err != nil {
			logger.Error("failed to close tournament store", slog.Any("error", err))
		}
	}()

	hub := live.NewHub(logger, cfg.AllowedOrigins)
	defer hub.Shutdown()

	app := &application{
		logger:      logger,
		sessions:    sessionManager,
		tournaments: service.NewTournamentService(repo, hub, logger, cfg.StoreTimeout),
		hub:         hub,
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      newRouter(app, cfg.AllowedOrigins),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			server.Close()
		}
	}
	logger.Info("server stopped")
}

// openStore opens the configured tournament backend. With SQLite the session
// store shares the database; bolt keeps sessions in memory.
func openStore(cfg *config.Config, sessionManager *scs.SessionManager) (service.TournamentRepository, io.Closer, error) {
	switch cfg.StoreDriver {
	case config.DriverBolt:
		boltStore, err := store.NewBoltTournamentStore(cfg.BoltPath)
		if err != nil {
			return nil, nil, err
		}
		return boltStore, boltStore, nil
	default:
		database, err := db.InitDB(cfg.DatabasePath)
		if err != nil {
			return nil, nil, err
		}
		if err := db.RunMigrations(database.DB); err != nil {
			database.Close()
			return nil, nil, err
		}
		sessionManager.Store = sqlite3store.New(database.DB)
		return store.NewTournamentStore(database), database, nil
	}
}
