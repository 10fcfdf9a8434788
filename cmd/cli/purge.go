package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/janakawicks/manageiq/internal/capture"
	"github.com/janakawicks/manageiq/internal/config"
	"github.com/janakawicks/manageiq/internal/livemetrics"
	"github.com/janakawicks/manageiq/internal/logging"
	"github.com/janakawicks/manageiq/internal/scheduler"
)

const purgeJobName = "purge-samples"

var purgeOlderThan time.Duration

var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete captured samples older than a given age",
	Long: `Delete every captured sample older than --older-than. Without the flag the
configured live_metrics.retention is used.`,
	Example: `  livemetrics purge --older-than 720h`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()

		return withStore(ctx, func(
			ctx context.Context, cfg *config.Config, store *capture.Store, _ *livemetrics.Registry,
		) error {
			age := purgeOlderThan
			if age == 0 {
				age = cfg.LiveMetrics.Retention
			}
			if age <= 0 {
				return fmt.Errorf("no age given: set --older-than or live_metrics.retention")
			}

			before := time.Now().Add(-age)
			removed, err := store.Purge(ctx, before)
			if err != nil {
				return err
			}
			if outputFormat == outputJSON {
				return writeJSON(cmd.OutOrStdout(), map[string]interface{}{
					"removed": removed,
					"before":  before.UTC(),
				})
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Removed %d samples captured before %s\n",
				removed, formatTime(&before))
			return err
		})
	},
}

func init() {
	rootCmd.AddCommand(purgeCmd)
	purgeCmd.Flags().DurationVar(&purgeOlderThan, "older-than", 0, "Age of the oldest sample to keep")
}

// startRetention schedules the periodic purge when a retention is configured.
// The returned scheduler is nil when retention is disabled.
func startRetention(
	cfg *config.LiveMetricsConfig, store *capture.Store, logger *logging.Logger,
) (*scheduler.Scheduler, error) {
	if cfg.Retention <= 0 {
		return nil, nil
	}

	sched := scheduler.New(logger)
	retention := cfg.Retention
	err := sched.AddJob(purgeJobName, cfg.PurgeSchedule, func(ctx context.Context) error {
		_, err := store.Purge(ctx, time.Now().Add(-retention))
		return err
	})
	if err != nil {
		return nil, err
	}
	if err := sched.Start(); err != nil {
		return nil, err
	}

	logger.Info("Retention purge scheduled", "retention", retention, "schedule", cfg.PurgeSchedule)
	return sched, nil
}
