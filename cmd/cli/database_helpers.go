package cli

import (
	"context"
	"fmt"

	"github.com/janakawicks/manageiq/internal/capture"
	"github.com/janakawicks/manageiq/internal/config"
	"github.com/janakawicks/manageiq/internal/db"
	"github.com/janakawicks/manageiq/internal/livemetrics"
	"github.com/janakawicks/manageiq/internal/logging"
	"github.com/janakawicks/manageiq/internal/metrics"
)

// DatabaseOperation represents a function that operates on a database connection.
type DatabaseOperation func(ctx context.Context, cfg *config.Config, database *db.DB) error

// StoreOperation represents a function that queries the capture store.
type StoreOperation func(
	ctx context.Context, cfg *config.Config, store *capture.Store, registry *livemetrics.Registry,
) error

// withDatabase executes the given operation with a database connection.
// It handles all database setup and cleanup, returning any errors that occur.
func withDatabase(ctx context.Context, operation DatabaseOperation) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	if err := cfg.ValidateDatabase(); err != nil {
		return fmt.Errorf("database not configured: %w", err)
	}

	database, err := db.Connect(ctx, &cfg.Database)
	if err != nil {
		return fmt.Errorf("error connecting to database: %w", err)
	}
	defer func() {
		if closeErr := database.Close(); closeErr != nil {
			logging.Warn("Failed to close database connection", "error", closeErr)
		}
	}()

	return operation(ctx, cfg, database)
}

// withStore executes the given operation against the capture store and the
// configured declaration registry.
func withStore(ctx context.Context, operation StoreOperation) error {
	return withDatabase(ctx, func(ctx context.Context, cfg *config.Config, database *db.DB) error {
		logger := logging.Default()
		store := capture.NewStore(database,
			capture.WithRecorder(metrics.GetGlobalMetrics()),
			capture.WithStoreLogger(logger))
		return operation(ctx, cfg, store, newRegistry(cfg, logger))
	})
}

// newRegistry builds the declaration registry for the configured directory.
func newRegistry(cfg *config.Config, logger *logging.Logger) *livemetrics.Registry {
	return livemetrics.NewDirRegistry(cfg.LiveMetrics.ConfigDir,
		livemetrics.WithRegistryLogger(logger),
		livemetrics.WithLoadRecorder(metrics.GetGlobalMetrics()))
}
