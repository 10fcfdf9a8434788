// Package config loads the live metrics service configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/janakawicks/manageiq/internal/db"
	"github.com/janakawicks/manageiq/internal/errors"
	"github.com/janakawicks/manageiq/internal/livemetrics"
	"github.com/janakawicks/manageiq/internal/logging"
	"github.com/janakawicks/manageiq/internal/scheduler"
)

const (
	defaultAPIPort     = 8080
	defaultConcurrency = 4
	maxConcurrency     = 64
	maxPort            = 65535

	defaultPurgeSchedule = "@hourly"
)

// Config represents the complete service configuration
type Config struct {
	// Live metrics declarations and collection settings
	LiveMetrics LiveMetricsConfig `yaml:"live_metrics" json:"live_metrics"`

	// Database configuration
	Database db.Config `yaml:"database" json:"database"`

	// API configuration
	API APIConfig `yaml:"api" json:"api"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// LiveMetricsConfig holds settings for the live metrics core.
type LiveMetricsConfig struct {
	// Directory holding one <entity_type>.yaml declaration per entity type
	ConfigDir string `yaml:"config_dir" json:"config_dir"`

	// Parallel capture calls per CollectLiveMetrics request
	Concurrency int `yaml:"concurrency" json:"concurrency"`

	// How long captured samples are kept. Zero keeps them forever.
	Retention time.Duration `yaml:"retention" json:"retention"`

	// Cron expression for the retention purge
	PurgeSchedule string `yaml:"purge_schedule" json:"purge_schedule"`
}

// APIConfig holds API server settings
type APIConfig struct {
	Enabled      bool          `yaml:"enabled" json:"enabled"`
	ListenAddr   string        `yaml:"listen_addr" json:"listen_addr"`
	Port         int           `yaml:"port" json:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout" json:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" json:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" json:"idle_timeout"`
	EnableCORS   bool          `yaml:"enable_cors" json:"enable_cors"`
	CORSOrigins  []string      `yaml:"cors_origins" json:"cors_origins"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	// Log level (debug, info, warn, error)
	Level string `yaml:"level" json:"level"`

	// Log format (text, json)
	Format string `yaml:"format" json:"format"`

	// Log output (stdout, stderr, file path)
	Output string `yaml:"output" json:"output"`
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		LiveMetrics: LiveMetricsConfig{
			ConfigDir:     livemetrics.DefaultConfigDir,
			Concurrency:   defaultConcurrency,
			PurgeSchedule: defaultPurgeSchedule,
		},
		Database: db.DefaultConfig(),
		API: APIConfig{
			Enabled:      true,
			ListenAddr:   "127.0.0.1",
			Port:         defaultAPIPort,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
			EnableCORS:   false,
			CORSOrigins:  []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stdout",
		},
	}
}

// Load loads configuration from a file. A missing file yields the defaults.
// JSON files are accepted since JSON is a subset of YAML.
func Load(path string) (*Config, error) {
	config := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return config, nil
	}
	if err != nil {
		return nil, errors.WrapConfigError(errors.CodeConfiguration, "failed to read config file", err).
			WithResource(filepath.Base(path))
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, errors.WrapConfigError(errors.CodeConfiguration, "failed to parse config file", err).
			WithResource(filepath.Base(path))
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.LiveMetrics.ConfigDir == "" {
		return errors.ErrConfigInvalid("live_metrics.config_dir", c.LiveMetrics.ConfigDir)
	}
	if c.LiveMetrics.Concurrency < 1 || c.LiveMetrics.Concurrency > maxConcurrency {
		return errors.ErrConfigInvalid("live_metrics.concurrency", c.LiveMetrics.Concurrency)
	}
	if c.LiveMetrics.Retention < 0 {
		return errors.ErrConfigInvalid("live_metrics.retention", c.LiveMetrics.Retention)
	}
	if c.LiveMetrics.Retention > 0 {
		if err := scheduler.ValidateSchedule(c.LiveMetrics.PurgeSchedule); err != nil {
			return errors.ErrConfigInvalid("live_metrics.purge_schedule", c.LiveMetrics.PurgeSchedule)
		}
	}

	if c.API.Enabled {
		if c.API.Port <= 0 || c.API.Port > maxPort {
			return errors.ErrConfigInvalid("api.port", c.API.Port)
		}
		if c.API.ListenAddr == "" {
			return errors.ErrConfigInvalid("api.listen_addr", c.API.ListenAddr)
		}
		if c.API.ReadTimeout <= 0 || c.API.WriteTimeout <= 0 {
			return errors.ErrConfigInvalid("api.timeouts", fmt.Sprintf("%s/%s", c.API.ReadTimeout, c.API.WriteTimeout))
		}
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.Logging.Level] {
		return errors.ErrConfigInvalid("logging.level", c.Logging.Level)
	}

	validLogFormats := map[string]bool{
		"text": true,
		"json": true,
	}
	if !validLogFormats[c.Logging.Format] {
		return errors.ErrConfigInvalid("logging.format", c.Logging.Format)
	}

	return nil
}

// ValidateDatabase checks the fields needed to open a connection. Commands
// that never touch the database skip it.
func (c *Config) ValidateDatabase() error {
	if c.Database.Host == "" {
		return errors.ErrConfigInvalid("database.host", c.Database.Host)
	}
	if c.Database.Database == "" {
		return errors.ErrConfigInvalid("database.database", c.Database.Database)
	}
	if c.Database.Username == "" {
		return errors.ErrConfigInvalid("database.username", c.Database.Username)
	}
	return nil
}

// GetAPIAddress returns the full API address
func (c *Config) GetAPIAddress() string {
	return fmt.Sprintf("%s:%d", c.API.ListenAddr, c.API.Port)
}

// LoggerConfig converts the logging section for the logging package.
func (c *Config) LoggerConfig() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = logging.LogLevel(c.Logging.Level)
	cfg.Format = logging.LogFormat(c.Logging.Format)
	cfg.Output = c.Logging.Output
	return cfg
}
