package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dosada05/poker-club/config"
	"github.com/Dosada05/poker-club/handlers"
	"github.com/Dosada05/poker-club/livefeed"
	api "github.com/Dosada05/poker-club/routes"
	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 15 * time.Second

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and live feed",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serveRun(cmd.Context(), configFrom(cmd))
		},
	}
}

func serveRun(ctx context.Context, cfg *config.Config) error {
	logger := commonRun(os.Stdout)
	if err := cfg.RequireJWTSecret(); err != nil {
		return err
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort), slog.String("storage", cfg.StorageDriver))

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	wsHub := livefeed.NewHub(logger)
	a, err := newApp(ctx, cfg, logger, wsHub)
	if err != nil {
		return err
	}
	defer a.Close()

	if a.backup != nil && cfg.BackupCron != "" {
		if err := a.backup.Start(cfg.BackupCron); err != nil {
			return err
		}
	}

	router := chi.NewRouter()
	api.SetupRoutes(router, api.Handlers{
		Auth:       handlers.NewAuthHandler(a.auth, cfg.JWTSecretKey, cfg.TokenTTL),
		Users:      handlers.NewUserHandler(a.accounts),
		Tournament: handlers.NewTournamentHandler(a.registry, a.history),
		Ledger:     handlers.NewLedgerHandler(a.ledger),
		Ranking:    handlers.NewRankingHandler(a.ranking),
		Admin:      handlers.NewAdminHandler(a.backup),
		WebSocket:  handlers.NewWebSocketHandler(wsHub, a.ledger, cfg.CORSOrigins),
	}, api.Options{
		JWTSecret:   []byte(cfg.JWTSecretKey),
		CORSOrigins: cfg.CORSOrigins,
		Accounts:    a.users,
	})
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		wsHub.Run(gCtx)
		return nil
	})
	g.Go(func() error {
		logger.Info("starting server", slog.String("address", server.Addr))
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			return server.Close()
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("server error", slog.Any("error", err))
		return err
	}
	logger.Info("application exited")
	return nil
}
