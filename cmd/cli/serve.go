package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/janakawicks/manageiq/internal/api"
	"github.com/janakawicks/manageiq/internal/capture"
	"github.com/janakawicks/manageiq/internal/config"
	"github.com/janakawicks/manageiq/internal/db"
	"github.com/janakawicks/manageiq/internal/logging"
	"github.com/janakawicks/manageiq/internal/metrics"
)

const (
	databaseTimeout       = 5 * time.Second
	systemMetricsInterval = 15 * time.Second
)

// Serve command flags.
var (
	serveHost           string
	servePort           int
	serveNoDatabase     bool
	serveSkipMigrations bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the live metrics API server",
	Long: `Run the live metrics HTTP API in the foreground until SIGINT or SIGTERM.

The server connects to the capture store and applies pending migrations
unless --skip-migrations is given. With --no-database only the liveness,
health and config routes are served.`,
	Example: `  livemetrics serve
  livemetrics serve --host 0.0.0.0 --port 9090
  livemetrics serve --no-database`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveHost, "host", "", "Override listen address")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Override listen port")
	serveCmd.Flags().BoolVar(&serveNoDatabase, "no-database", false, "Serve without a capture store")
	serveCmd.Flags().BoolVar(&serveSkipMigrations, "skip-migrations", false, "Do not apply pending migrations")
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := logging.Default()

	cfg, err := loadServeConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	collectors := metrics.GetGlobalMetrics()
	go collectors.StartPeriodicUpdates(ctx, systemMetricsInterval)

	deps := api.Dependencies{
		Registry: newRegistry(cfg, logger),
		Metrics:  collectors,
		Logger:   logger,
	}

	if !serveNoDatabase {
		database, err := openStore(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer func() {
			if closeErr := database.Close(); closeErr != nil {
				logger.Error("Failed to close database connection", "error", closeErr)
			}
		}()
		store := capture.NewStore(database,
			capture.WithRecorder(collectors),
			capture.WithStoreLogger(logger))
		deps.Database = database
		deps.Captures = store

		sched, err := startRetention(&cfg.LiveMetrics, store, logger)
		if err != nil {
			return fmt.Errorf("failed to schedule retention purge: %w", err)
		}
		if sched != nil {
			defer sched.Stop()
		}
	}

	server, err := api.New(cfg, deps)
	if err != nil {
		return fmt.Errorf("failed to create API server: %w", err)
	}

	logger.Info("Starting live metrics API",
		"version", version,
		"commit", commit,
		"build_time", buildTime,
		"address", cfg.GetAPIAddress(),
		"config_dir", cfg.LiveMetrics.ConfigDir)
	fmt.Fprintf(cmd.OutOrStdout(), "Live metrics API listening on http://%s/api/v1\n", cfg.GetAPIAddress())

	if err := server.Start(ctx); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Server stopped successfully")
	return nil
}

// loadServeConfig loads the configuration and applies the serve flags.
func loadServeConfig() (*config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}

	if serveHost != "" {
		cfg.API.ListenAddr = serveHost
	}
	if servePort > 0 {
		cfg.API.Port = servePort
	}

	if !cfg.API.Enabled {
		return nil, fmt.Errorf("API server is disabled in configuration\n" +
			"Enable it by setting 'api.enabled: true' in config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	if !serveNoDatabase {
		if err := cfg.ValidateDatabase(); err != nil {
			return nil, fmt.Errorf("database not configured (use --no-database to serve without one): %w", err)
		}
	}
	return cfg, nil
}

func openStore(ctx context.Context, cfg *config.Config, logger *logging.Logger) (*db.DB, error) {
	logger.Info("Connecting to database...")

	connect := db.ConnectAndMigrate
	if serveSkipMigrations {
		connect = db.Connect
	}
	database, err := connect(ctx, &cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, databaseTimeout)
	defer cancel()
	if err := database.Ping(pingCtx); err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}
	logger.Info("Database connection successful")
	return database, nil
}
