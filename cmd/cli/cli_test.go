package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janakawicks/manageiq/internal/config"
	"github.com/janakawicks/manageiq/internal/db"
	"github.com/janakawicks/manageiq/internal/livemetrics"
	"github.com/janakawicks/manageiq/internal/logging"
)

const hostDeclaration = `
supported_metrics:
  - cpu: cpu_usage_rate_average
  - memory: mem_usage_absolute_average
included_children:
  - vm
`

// writeTestConfig creates a declaration directory holding host.yaml and a
// service config file pointing at it.
func writeTestConfig(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	declarations := filepath.Join(dir, "live_metrics")
	require.NoError(t, os.MkdirAll(declarations, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(declarations, "host.yaml"), []byte(hostDeclaration), 0o600))

	path := filepath.Join(dir, "config.yaml")
	content := "live_metrics:\n  config_dir: " + declarations + "\nlogging:\n  level: error\n  output: stderr\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(func() {
		cfgFile = ""
		outputFormat = outputTable
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCommandTree(t *testing.T) {
	names := map[string]bool{}
	for _, cmd := range rootCmd.Commands() {
		names[cmd.Name()] = true
	}

	for _, want := range []string{"serve", "migrate", "config", "available", "collect", "stats", "window", "record", "purge"} {
		assert.True(t, names[want], "missing command %q", want)
	}

	sub := map[string]bool{}
	for _, cmd := range migrateCmd.Commands() {
		sub[cmd.Name()] = true
	}
	assert.True(t, sub["up"])
	assert.True(t, sub["status"])
}

func TestConfigCommandTable(t *testing.T) {
	path := writeTestConfig(t)

	out, err := executeCommand(t, "--config", path, "config", "host")
	require.NoError(t, err)

	assert.Contains(t, out, "cpu_usage_rate_average")
	assert.Contains(t, out, "mem_usage_absolute_average")
	assert.Contains(t, out, "Entity type: host")
	assert.Contains(t, out, "Included children: vm")
}

func TestConfigCommandJSON(t *testing.T) {
	path := writeTestConfig(t)

	out, err := executeCommand(t, "--config", path, "--output", "json", "config", "host")
	require.NoError(t, err)

	var got configOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "host", got.EntityType)
	assert.Equal(t, "cpu_usage_rate_average", got.SupportedMetrics["cpu"])
	assert.Equal(t, "memory", got.SupportedMetricsByColumn["mem_usage_absolute_average"])
	assert.Equal(t, []string{"vm"}, got.IncludedChildren)
}

func TestConfigCommandUndeclaredType(t *testing.T) {
	path := writeTestConfig(t)

	out, err := executeCommand(t, "--config", path, "config", "storage")
	require.NoError(t, err)
	assert.Contains(t, out, "Included children: -")
}

func TestConfigCommandErrors(t *testing.T) {
	path := writeTestConfig(t)

	tests := []struct {
		name string
		args []string
	}{
		{"invalid type name", []string{"--config", path, "config", "Host"}},
		{"unknown output format", []string{"--config", path, "--output", "xml", "config", "host"}},
		{"missing argument", []string{"--config", path, "config"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := executeCommand(t, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestGetConfigFilePath(t *testing.T) {
	viper.Reset()
	t.Cleanup(func() {
		viper.Reset()
		bindFlags()
		cfgFile = ""
	})

	cfgFile = ""
	assert.Equal(t, "config.yaml", getConfigFilePath())

	viper.SetConfigFile("/etc/livemetrics/config.yaml")
	assert.Equal(t, "/etc/livemetrics/config.yaml", getConfigFilePath())

	cfgFile = "/tmp/custom.yaml"
	assert.Equal(t, "/tmp/custom.yaml", getConfigFilePath())
}

func TestApplyOverridesFromEnvironment(t *testing.T) {
	viper.Reset()
	t.Cleanup(func() {
		viper.Reset()
		bindFlags()
	})
	configureViper()

	t.Setenv("LIVEMETRICS_DATABASE_HOST", "db.internal")
	t.Setenv("LIVEMETRICS_API_PORT", "9191")
	t.Setenv("LIVEMETRICS_LIVE_METRICS_CONFIG_DIR", "/srv/declarations")
	t.Setenv("LIVEMETRICS_LIVE_METRICS_RETENTION", "168h")

	cfg := config.Default()
	applyOverrides(cfg)

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 9191, cfg.API.Port)
	assert.Equal(t, "/srv/declarations", cfg.LiveMetrics.ConfigDir)
	assert.Equal(t, 168*time.Hour, cfg.LiveMetrics.Retention)
	assert.Equal(t, "@hourly", cfg.LiveMetrics.PurgeSchedule)
	assert.Equal(t, config.Default().Database.Port, cfg.Database.Port)
}

func TestParseEntityArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{"valid", []string{"host", "0b6c6a1e-6f0e-4c39-9b2c-5f5f3f7d9a11"}, false},
		{"invalid type", []string{"Host", "0b6c6a1e-6f0e-4c39-9b2c-5f5f3f7d9a11"}, true},
		{"invalid id", []string{"host", "42"}, true},
		{"missing id", []string{"host"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entityType, id, err := parseEntityArgs(tt.args)
			if (err != nil) != tt.wantErr {
				t.Errorf("parseEntityArgs() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr {
				assert.Equal(t, "host", entityType)
				assert.Equal(t, tt.args[1], id.String())
			}
		})
	}
}

func TestParseTimeFlag(t *testing.T) {
	now := time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		value   string
		want    time.Time
		wantErr bool
	}{
		{"now", "now", now, false},
		{"empty", "", now, false},
		{"relative past", "-90m", now.Add(-90 * time.Minute), false},
		{"relative future", "+1h", now.Add(time.Hour), false},
		{"epoch millis", "1777896000000", time.UnixMilli(1777896000000).UTC(), false},
		{"rfc3339", "2026-05-04T10:30:00+02:00", time.Date(2026, 5, 4, 8, 30, 0, 0, time.UTC), false},
		{"bad relative", "-soon", time.Time{}, true},
		{"garbage", "yesterday", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseTimeFlag(tt.value, now)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseTimeFlag() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr {
				assert.True(t, tt.want.Equal(got), "got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestParseRange(t *testing.T) {
	now := time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)

	start, end, err := parseRange("-1h", "now", now)
	require.NoError(t, err)
	assert.Equal(t, now.Add(-time.Hour), start)
	assert.Equal(t, now, end)

	_, _, err = parseRange("now", "-1h", now)
	assert.Error(t, err)
}

func TestRenderSeries(t *testing.T) {
	series := livemetrics.Series{
		1000: {"cpu": 1.5},
		0:    {"cpu": 2, "memory": 512},
	}

	var out bytes.Buffer
	require.NoError(t, renderSeries(&out, []string{"cpu", "memory"}, series))

	text := out.String()
	first := strings.Index(text, "1970-01-01 00:00:00")
	second := strings.Index(text, "1970-01-01 00:00:01")
	require.NotEqual(t, -1, first)
	require.NotEqual(t, -1, second)
	assert.Less(t, first, second, "buckets should be printed in time order")
	assert.Contains(t, text, "512")
	assert.Contains(t, text, "1.5")
	assert.Contains(t, text, missingValue)
}

func TestRenderWindow(t *testing.T) {
	last := time.Date(2026, 5, 4, 11, 59, 0, 0, time.UTC)

	var out bytes.Buffer
	require.NoError(t, renderWindow(&out, "hourly", livemetrics.CaptureWindow{Last: &last}))

	assert.Contains(t, out.String(), "hourly")
	assert.Contains(t, out.String(), "2026-05-04 11:59:00")
	assert.Contains(t, out.String(), missingValue)
}

func TestRenderStats(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, renderStats(&out, &livemetrics.Stats{
		Metric: "cpu_usage_rate_average", Count: 4, Min: 1, Max: 4, Mean: 2.5, P50: 2, P95: 4, P99: 4,
	}))

	assert.Contains(t, out.String(), "cpu_usage_rate_average")
	assert.Contains(t, out.String(), "2.5")
}

func TestRenderMigrations(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, renderMigrations(&out, []db.MigrationStatus{
		{Name: "001_metric_samples", Applied: true, AppliedAt: time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)},
		{Name: "002_next", Applied: false},
	}))

	text := out.String()
	assert.Contains(t, text, "001_metric_samples")
	assert.Contains(t, text, "2026-05-01 09:00:00")
	assert.Contains(t, text, "Pending")
}

func TestStartRetention(t *testing.T) {
	logger := logging.NewDefault()

	sched, err := startRetention(&config.LiveMetricsConfig{PurgeSchedule: "@hourly"}, nil, logger)
	require.NoError(t, err)
	assert.Nil(t, sched, "retention disabled by default")

	_, err = startRetention(&config.LiveMetricsConfig{Retention: time.Hour, PurgeSchedule: "soon"}, nil, logger)
	assert.Error(t, err)

	sched, err = startRetention(&config.LiveMetricsConfig{Retention: time.Hour, PurgeSchedule: "@daily"}, nil, logger)
	require.NoError(t, err)
	require.NotNil(t, sched)
	t.Cleanup(sched.Stop)

	jobs := sched.Jobs()
	require.Len(t, jobs, 1)
	assert.Equal(t, purgeJobName, jobs[0].Name)
}
