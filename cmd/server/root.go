package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dentalsupply/inventory/internal/config"
)

// NewRootCmd creates the root command. Run without a subcommand it serves,
// so the bare binary behaves like `server serve`.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "server",
		Short:         "Dental clinic inventory server",
		Long:          `Serves the inventory API and pages. Configuration is read from the environment (MONGO_URI, JWT_SECRET, PORT, ...).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())

	return cmd
}

// loadConfig loads configuration and installs the process logger. Errors
// are logged here because cobra's own error output is silenced.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		return nil, err
	}
	setupLogging(cfg)
	return cfg, nil
}

// setupLogging configures the global slog logger based on the environment.
// Development uses text format for readability. Production uses JSON for
// structured log aggregation.
func setupLogging(cfg *config.Config) {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}

	var handler slog.Handler
	if cfg.IsDevelopment() {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}
