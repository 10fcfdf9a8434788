package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/janakawicks/manageiq/internal/capture"
	"github.com/janakawicks/manageiq/internal/config"
	"github.com/janakawicks/manageiq/internal/livemetrics"
	"github.com/janakawicks/manageiq/internal/logging"
)

const (
	defaultStart   = "-1h"
	defaultEnd     = "now"
	commandTimeout = 30 * time.Second
)

// Query command flags.
var (
	queryMetrics  []string
	queryStart    string
	queryEnd      string
	queryInterval string
	recordMetric  string
	recordValue   float64
	recordAt      string
)

// configCmd prints the declaration of an entity type.
var configCmd = &cobra.Command{
	Use:   "config <type>",
	Short: "Show the live metrics declaration of an entity type",
	Long: `Show the supported metrics and included children declared for an
entity type. Reads <config-dir>/<type>.yaml and needs no database.`,
	Example: `  livemetrics config host
  livemetrics config vm --output json`,
	Args: cobra.ExactArgs(1),
	RunE: runConfig,
}

var availableCmd = &cobra.Command{
	Use:     "available <type> <id>",
	Short:   "List the metrics captured for an entity",
	Example: `  livemetrics available host 0b6c6a1e-6f0e-4c39-9b2c-5f5f3f7d9a11`,
	Args:    cobra.ExactArgs(2),
	RunE:    runAvailable,
}

var collectCmd = &cobra.Command{
	Use:   "collect <type> <id>",
	Short: "Collect and merge live metric series for an entity",
	Long: `Collect the bucketed series of one or more metrics and merge them by
timestamp. Metrics may be named by declared key or by identifier.

--start and --end accept RFC 3339 timestamps, epoch milliseconds, "now"
or a duration relative to now such as -2h.`,
	Example: `  livemetrics collect host 0b6c6a1e-6f0e-4c39-9b2c-5f5f3f7d9a11 --metric cpu --metric memory
  livemetrics collect host 0b6c6a1e-6f0e-4c39-9b2c-5f5f3f7d9a11 --metric cpu --start -24h --interval hourly`,
	Args: cobra.ExactArgs(2),
	RunE: runCollect,
}

var statsCmd = &cobra.Command{
	Use:     "stats <type> <id>",
	Short:   "Summarize one metric of an entity over a time range",
	Example: `  livemetrics stats host 0b6c6a1e-6f0e-4c39-9b2c-5f5f3f7d9a11 --metric cpu --start -6h`,
	Args:    cobra.ExactArgs(2),
	RunE:    runStats,
}

var windowCmd = &cobra.Command{
	Use:   "window <type> <id>",
	Short: "Show the capture window of an entity",
	Long: `Show the oldest and newest capture across the metrics of an entity.
For the hourly interval the first capture is reported only once it is
more than an hour old. Capture failures yield an empty window.`,
	Example: `  livemetrics window host 0b6c6a1e-6f0e-4c39-9b2c-5f5f3f7d9a11 --interval hourly`,
	Args:    cobra.ExactArgs(2),
	RunE:    runWindow,
}

var recordCmd = &cobra.Command{
	Use:     "record <type> <id>",
	Short:   "Record one raw sample for an entity",
	Example: `  livemetrics record host 0b6c6a1e-6f0e-4c39-9b2c-5f5f3f7d9a11 --metric cpu --value 42.5`,
	Args:    cobra.ExactArgs(2),
	RunE:    runRecord,
}

func init() {
	rootCmd.AddCommand(configCmd, availableCmd, collectCmd, statsCmd, windowCmd, recordCmd)

	collectCmd.Flags().StringSliceVarP(&queryMetrics, "metric", "m", nil, "metric key or identifier (repeatable)")
	collectCmd.Flags().StringVar(&queryStart, "start", defaultStart, "range start")
	collectCmd.Flags().StringVar(&queryEnd, "end", defaultEnd, "range end")
	collectCmd.Flags().StringVarP(&queryInterval, "interval", "i", livemetrics.IntervalRealtime.String(),
		"bucket interval (realtime, hourly, daily)")
	_ = collectCmd.MarkFlagRequired("metric")

	statsCmd.Flags().StringSliceVarP(&queryMetrics, "metric", "m", nil, "metric key or identifier")
	statsCmd.Flags().StringVar(&queryStart, "start", defaultStart, "range start")
	statsCmd.Flags().StringVar(&queryEnd, "end", defaultEnd, "range end")
	_ = statsCmd.MarkFlagRequired("metric")

	windowCmd.Flags().StringVarP(&queryInterval, "interval", "i", livemetrics.IntervalRealtime.String(),
		"interval whose window rules apply (realtime, hourly, daily)")

	recordCmd.Flags().StringVarP(&recordMetric, "metric", "m", "", "metric key or identifier")
	recordCmd.Flags().Float64Var(&recordValue, "value", 0, "sample value")
	recordCmd.Flags().StringVar(&recordAt, "at", defaultEnd, "capture time")
	_ = recordCmd.MarkFlagRequired("metric")
	_ = recordCmd.MarkFlagRequired("value")
}

// configOutput is the JSON shape of the config command.
type configOutput struct {
	EntityType               string            `json:"entity_type"`
	SupportedMetrics         map[string]string `json:"supported_metrics"`
	SupportedMetricsByColumn map[string]string `json:"supported_metrics_by_column"`
	IncludedChildren         []string          `json:"included_children"`
}

func runConfig(cmd *cobra.Command, args []string) error {
	entityType := args[0]
	if !livemetrics.ValidTypeName(entityType) {
		return fmt.Errorf("invalid entity type %q", entityType)
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	registry := newRegistry(cfg, logging.Default())

	declaration, err := registry.Config(entityType)
	if err != nil {
		return err
	}

	if outputFormat == outputJSON {
		byColumn, err := registry.SupportedMetricsByColumn(entityType)
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), configOutput{
			EntityType:               entityType,
			SupportedMetrics:         declaration.SupportedMetrics,
			SupportedMetricsByColumn: byColumn,
			IncludedChildren:         declaration.IncludedChildren,
		})
	}
	return renderConfig(cmd.OutOrStdout(), entityType, declaration)
}

func runAvailable(cmd *cobra.Command, args []string) error {
	return withEntity(args, func(ctx context.Context, entity *livemetrics.Entity) error {
		available, err := entity.MetricsAvailable(ctx)
		if err != nil {
			return err
		}
		if outputFormat == outputJSON {
			return writeJSON(cmd.OutOrStdout(), available)
		}
		return renderAvailable(cmd.OutOrStdout(), available)
	})
}

func runCollect(cmd *cobra.Command, args []string) error {
	interval := livemetrics.Interval(queryInterval)
	if !interval.Valid() {
		return fmt.Errorf("unknown interval %q", queryInterval)
	}
	start, end, err := parseRange(queryStart, queryEnd, time.Now())
	if err != nil {
		return err
	}

	return withEntity(args, func(ctx context.Context, entity *livemetrics.Entity) error {
		metrics, err := entity.ResolveMetrics(queryMetrics)
		if err != nil {
			return err
		}
		series, err := entity.CollectLiveMetrics(ctx, metrics, start, end, interval)
		if err != nil {
			return err
		}
		if outputFormat == outputJSON {
			return writeJSON(cmd.OutOrStdout(), series)
		}
		return renderSeries(cmd.OutOrStdout(), metrics, series)
	})
}

func runStats(cmd *cobra.Command, args []string) error {
	if len(queryMetrics) != 1 {
		return fmt.Errorf("stats takes exactly one --metric, got %d", len(queryMetrics))
	}
	start, end, err := parseRange(queryStart, queryEnd, time.Now())
	if err != nil {
		return err
	}

	return withEntity(args, func(ctx context.Context, entity *livemetrics.Entity) error {
		metrics, err := entity.ResolveMetrics(queryMetrics)
		if err != nil {
			return err
		}
		stats, err := entity.CollectStatsMetric(ctx, metrics[0], start, end)
		if err != nil {
			return err
		}
		if outputFormat == outputJSON {
			return writeJSON(cmd.OutOrStdout(), stats)
		}
		return renderStats(cmd.OutOrStdout(), stats)
	})
}

func runWindow(cmd *cobra.Command, args []string) error {
	if !livemetrics.Interval(queryInterval).Valid() {
		return fmt.Errorf("unknown interval %q", queryInterval)
	}

	return withEntity(args, func(ctx context.Context, entity *livemetrics.Entity) error {
		window := entity.FirstAndLastCapture(ctx, queryInterval)
		if outputFormat == outputJSON {
			return writeJSON(cmd.OutOrStdout(), window)
		}
		return renderWindow(cmd.OutOrStdout(), queryInterval, window)
	})
}

func runRecord(cmd *cobra.Command, args []string) error {
	entityType, id, err := parseEntityArgs(args)
	if err != nil {
		return err
	}
	at, err := parseTimeFlag(recordAt, time.Now())
	if err != nil {
		return fmt.Errorf("invalid --at: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	return withStore(ctx, func(ctx context.Context, _ *config.Config, store *capture.Store,
		registry *livemetrics.Registry) error {
		entity := livemetrics.NewEntity(entityType, id, store.ForEntity(entityType, id), registry,
			livemetrics.WithLogger(logging.Default()))
		metrics, err := entity.ResolveMetrics([]string{recordMetric})
		if err != nil {
			return err
		}

		if err := store.Record(ctx, capture.Sample{
			EntityType: entityType,
			EntityID:   id,
			Metric:     metrics[0],
			CapturedAt: at,
			Value:      recordValue,
		}); err != nil {
			return err
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s=%s at %s\n",
			metrics[0], formatValue(recordValue), at.UTC().Format(time.RFC3339))
		return err
	})
}

// withEntity parses the <type> <id> arguments and runs fn against that
// entity backed by the capture store.
func withEntity(args []string, fn func(ctx context.Context, entity *livemetrics.Entity) error) error {
	entityType, id, err := parseEntityArgs(args)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	return withStore(ctx, func(ctx context.Context, cfg *config.Config, store *capture.Store,
		registry *livemetrics.Registry) error {
		entity := livemetrics.NewEntity(entityType, id, store.ForEntity(entityType, id), registry,
			livemetrics.WithLogger(logging.Default()),
			livemetrics.WithCollectConcurrency(cfg.LiveMetrics.Concurrency))
		return fn(ctx, entity)
	})
}

func parseEntityArgs(args []string) (string, uuid.UUID, error) {
	if len(args) != 2 {
		return "", uuid.Nil, fmt.Errorf("expected <type> <id>, got %d arguments", len(args))
	}
	if !livemetrics.ValidTypeName(args[0]) {
		return "", uuid.Nil, fmt.Errorf("invalid entity type %q", args[0])
	}
	id, err := uuid.Parse(args[1])
	if err != nil {
		return "", uuid.Nil, fmt.Errorf("invalid entity id %q: %w", args[1], err)
	}
	return args[0], id, nil
}

// parseTimeFlag accepts "now", a signed duration relative to now, epoch
// milliseconds, or an RFC 3339 timestamp.
func parseTimeFlag(value string, now time.Time) (time.Time, error) {
	value = strings.TrimSpace(value)
	switch {
	case value == "" || value == "now":
		return now.UTC(), nil
	case strings.HasPrefix(value, "-") || strings.HasPrefix(value, "+"):
		d, err := time.ParseDuration(value)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid relative time %q: %w", value, err)
		}
		return now.Add(d).UTC(), nil
	}

	if ms, err := strconv.ParseInt(value, 10, 64); err == nil {
		return time.UnixMilli(ms).UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q", value)
	}
	return t.UTC(), nil
}

func parseRange(startValue, endValue string, now time.Time) (time.Time, time.Time, error) {
	start, err := parseTimeFlag(startValue, now)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid --start: %w", err)
	}
	end, err := parseTimeFlag(endValue, now)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid --end: %w", err)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("--end %s is before --start %s",
			end.Format(time.RFC3339), start.Format(time.RFC3339))
	}
	return start, end, nil
}
