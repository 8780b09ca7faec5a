package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dentalsupply/inventory/internal/app"
	"github.com/dentalsupply/inventory/internal/database"
	"github.com/dentalsupply/inventory/internal/plugins/auth"
	"github.com/dentalsupply/inventory/internal/plugins/supplies"
)

// shutdownTimeout is how long in-flight requests get to finish.
const shutdownTimeout = 10 * time.Second

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Apply migrations and start the HTTP server",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	slog.Info("starting inventory",
		slog.String("env", cfg.Env),
		slog.Int("port", cfg.Port),
	)

	// --- Index migrations (idempotent) ---
	if err := database.RunMigrations(ctx, cfg.Database); err != nil {
		slog.Error("failed to run migrations", slog.Any("error", err))
		return err
	}

	// --- Connect to MongoDB ---
	client, err := database.NewMongo(ctx, cfg.Database)
	if err != nil {
		slog.Error("failed to connect to MongoDB", slog.Any("error", err))
		return err
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			slog.Warn("disconnecting from MongoDB", slog.Any("error", err))
		}
	}()
	slog.Info("connected to MongoDB", slog.String("database", cfg.Database.Name))

	db := client.Database(cfg.Database.Name)

	// --- Create Application ---
	application, err := app.New(cfg, app.Stores{
		Users:    auth.NewUserRepository(db, cfg.Database.QueryTimeout),
		Supplies: supplies.NewSupplyRepository(db, cfg.Database.QueryTimeout),
		DB:       database.NewPinger(client),
	})
	if err != nil {
		slog.Error("failed to build application", slog.Any("error", err))
		return err
	}

	// --- Graceful Shutdown ---
	go func() {
		<-ctx.Done()
		slog.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := application.Shutdown(shutdownCtx); err != nil {
			slog.Error("server forced shutdown", slog.Any("error", err))
		}
	}()

	// --- Start Server ---
	if err := application.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", slog.Any("error", err))
		return err
	}
	slog.Info("server stopped")
	return nil
}
