package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/janakawicks/manageiq/internal/db"
	"github.com/janakawicks/manageiq/internal/livemetrics"
)

const (
	timeLayout   = "2006-01-02 15:04:05"
	missingValue = "-"
)

func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatTime(t *time.Time) string {
	if t == nil {
		return missingValue
	}
	return t.UTC().Format(timeLayout)
}

// renderConfig prints the supported metrics of an entity type sorted by key,
// followed by its included children.
func renderConfig(w io.Writer, entityType string, cfg *livemetrics.MetricsConfig) error {
	keys := make([]string, 0, len(cfg.SupportedMetrics))
	for key := range cfg.SupportedMetrics {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	table := tablewriter.NewWriter(w)
	table.Header("Key", "Metric")
	for _, key := range keys {
		_ = table.Append([]string{key, cfg.SupportedMetrics[key]})
	}
	if err := table.Render(); err != nil {
		return err
	}

	children := missingValue
	if len(cfg.IncludedChildren) > 0 {
		children = strings.Join(cfg.IncludedChildren, ", ")
	}
	_, err := fmt.Fprintf(w, "Entity type: %s\nIncluded children: %s\n", entityType, children)
	return err
}

func renderAvailable(w io.Writer, metrics []string) error {
	table := tablewriter.NewWriter(w)
	table.Header("Metric")
	for _, metric := range metrics {
		_ = table.Append([]string{metric})
	}
	return table.Render()
}

// renderSeries prints one row per bucket in time order and one column per
// requested metric. Metrics without a value in a bucket show a dash.
func renderSeries(w io.Writer, metrics []string, series livemetrics.Series) error {
	timestamps := make([]int64, 0, len(series))
	for ts := range series {
		timestamps = append(timestamps, ts)
	}
	slices.Sort(timestamps)

	header := make([]any, 0, len(metrics)+1)
	header = append(header, "Timestamp")
	for _, metric := range metrics {
		header = append(header, metric)
	}

	table := tablewriter.NewWriter(w)
	table.Header(header...)
	for _, ts := range timestamps {
		bucket := series[ts]
		row := make([]string, 0, len(metrics)+1)
		row = append(row, time.UnixMilli(ts).UTC().Format(timeLayout))
		for _, metric := range metrics {
			value, ok := bucket[metric]
			if !ok {
				row = append(row, missingValue)
				continue
			}
			row = append(row, formatValue(value))
		}
		_ = table.Append(row)
	}
	return table.Render()
}

func renderStats(w io.Writer, stats *livemetrics.Stats) error {
	table := tablewriter.NewWriter(w)
	table.Header("Metric", "Count", "Min", "Max", "Mean", "P50", "P95", "P99")
	_ = table.Append([]string{
		stats.Metric,
		strconv.FormatInt(stats.Count, 10),
		formatValue(stats.Min),
		formatValue(stats.Max),
		formatValue(stats.Mean),
		formatValue(stats.P50),
		formatValue(stats.P95),
		formatValue(stats.P99),
	})
	return table.Render()
}

func renderWindow(w io.Writer, interval string, window livemetrics.CaptureWindow) error {
	table := tablewriter.NewWriter(w)
	table.Header("Interval", "First", "Last")
	_ = table.Append([]string{interval, formatTime(window.First), formatTime(window.Last)})
	return table.Render()
}

func renderMigrations(w io.Writer, statuses []db.MigrationStatus) error {
	table := tablewriter.NewWriter(w)
	table.Header("Migration", "Status", "Applied At")
	for _, status := range statuses {
		state, appliedAt := "Pending", missingValue
		if status.Applied {
			state = "Applied"
			appliedAt = status.AppliedAt.UTC().Format(timeLayout)
		}
		_ = table.Append([]string{status.Name, state, appliedAt})
	}
	return table.Render()
}
