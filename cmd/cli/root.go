// Package cli provides the command-line interface of the live metrics
// service. It implements the Cobra-based command tree for serving the API,
// migrating the capture store and querying live metrics of an entity.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/janakawicks/manageiq/internal/config"
	"github.com/janakawicks/manageiq/internal/logging"
)

const (
	envPrefix         = "LIVEMETRICS"
	defaultConfigFile = "config.yaml"

	outputTable = "table"
	outputJSON  = "json"
)

var (
	cfgFile      string
	verbose      bool
	outputFormat string
)

// Build information - these will be set by ldflags during build.
var (
	version   = "dev"
	commit    = "none"
	buildTime = "unknown"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "livemetrics",
	Short: "Live performance metrics for monitored entities",
	Long: `livemetrics resolves per-entity-type metric declarations, collects and
merges captured samples into time series, and reports the capture window
of an entity. It serves the same operations over an HTTP API.`,
	Version:       getVersion(),
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		switch outputFormat {
		case outputTable, outputJSON:
			return nil
		default:
			return fmt.Errorf("unknown output format %q (want %s or %s)", outputFormat, outputTable, outputJSON)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	flags.StringVarP(&outputFormat, "output", "o", outputTable, "output format (table, json)")
	flags.String("config-dir", "", "directory holding the <entity_type>.yaml declarations")

	bindFlags()
}

// bindFlags binds the global flags to their viper keys.
func bindFlags() {
	bindings := map[string]string{
		"verbose":                 "verbose",
		"live_metrics.config_dir": "config-dir",
	}
	for key, flag := range bindings {
		if err := viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to bind %s flag: %v\n", flag, err)
		}
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	configureViper()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	initLogging()
}

// configureViper points viper at the config file and the LIVEMETRICS_
// environment, where LIVEMETRICS_DATABASE_HOST overrides database.host.
func configureViper() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
}

// getConfigFilePath returns the config file in effect.
func getConfigFilePath() string {
	if cfgFile != "" {
		return cfgFile
	}
	if used := viper.ConfigFileUsed(); used != "" {
		return used
	}
	return defaultConfigFile
}

// loadConfig loads the config file and applies flag and environment
// overrides on top of it.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(getConfigFilePath())
	if err != nil {
		return nil, err
	}
	applyOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// applyOverrides copies the keys viper can see from flags or LIVEMETRICS_
// variables onto cfg.
func applyOverrides(cfg *config.Config) {
	strOverrides := map[string]*string{
		"live_metrics.config_dir":     &cfg.LiveMetrics.ConfigDir,
		"live_metrics.purge_schedule": &cfg.LiveMetrics.PurgeSchedule,
		"database.host":               &cfg.Database.Host,
		"database.database":           &cfg.Database.Database,
		"database.username":           &cfg.Database.Username,
		"database.password":           &cfg.Database.Password,
		"database.ssl_mode":           &cfg.Database.SSLMode,
		"api.listen_addr":             &cfg.API.ListenAddr,
		"logging.level":               &cfg.Logging.Level,
		"logging.format":              &cfg.Logging.Format,
		"logging.output":              &cfg.Logging.Output,
	}
	for key, target := range strOverrides {
		if value := viper.GetString(key); value != "" {
			*target = value
		}
	}

	intOverrides := map[string]*int{
		"live_metrics.concurrency": &cfg.LiveMetrics.Concurrency,
		"database.port":            &cfg.Database.Port,
		"api.port":                 &cfg.API.Port,
	}
	for key, target := range intOverrides {
		if value := viper.GetInt(key); value != 0 {
			*target = value
		}
	}

	if retention := viper.GetDuration("live_metrics.retention"); retention != 0 {
		cfg.LiveMetrics.Retention = retention
	}
}

// getVersion returns the version string.
func getVersion() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildTime)
}

// SetVersion sets the version information (called from main).
func SetVersion(v, c, bt string) {
	version = v
	commit = c
	buildTime = bt
	rootCmd.Version = getVersion()
}

// initLogging initializes structured logging based on configuration.
func initLogging() {
	cfg, err := loadConfig()
	if err != nil {
		logging.SetDefault(logging.NewDefault())
		return
	}

	logConfig := cfg.LoggerConfig()
	logConfig.AddSource = cfg.Logging.Level == string(logging.LevelDebug)

	logger, err := logging.New(logConfig)
	if err != nil {
		logger = logging.NewDefault()
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logging: %v\n", err)
	}
	logging.SetDefault(logger)

	if verbose {
		logging.Info("Structured logging initialized", "level", cfg.Logging.Level, "format", cfg.Logging.Format)
	}
}
