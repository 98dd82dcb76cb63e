package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/usestring/appfigures-mcp/internal/config"
	"github.com/usestring/appfigures-mcp/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "appfigures",
	Short: "AppFigures reporting API client",
	Long: "appfigures runs reporting requests against the AppFigures API and prints the response " +
		"as JSON, as flat records, or as CSV. Credentials come from APPFIGURES_CLIENT_KEY and " +
		"APPFIGURES_AUTH_TOKEN, read from the environment or a .env file.",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Set up by setup before any subcommand runs.
var (
	appConfig  *config.Config
	logCleanup func() error
)

func init() {
	cobra.OnInitialize(initConfig)
	// Runs after Execute even when a command fails.
	cobra.OnFinalize(closeLogs)

	rootCmd.PersistentFlags().String("base-url", "", "API base URL (default from APPFIGURES_BASE_URL)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", logging.FormatDev, "Log format on stderr: dev or text")
	rootCmd.PersistentFlags().String("log-file", "", "Write logs to this file instead of stderr")

	_ = viper.BindPFlag("base_url", rootCmd.PersistentFlags().Lookup("base-url"))
	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
	_ = viper.BindPFlag("log_file", rootCmd.PersistentFlags().Lookup("log-file"))
}

func initConfig() {
	viper.SetEnvPrefix("APPFIGURES")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

// setup loads configuration, applies flag and APPFIGURES_* overrides, and
// installs the logger.
func setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	applyOverrides(cfg)

	cleanup, err := logging.Setup(cfg.Logging())
	if err != nil {
		return err
	}
	appConfig = cfg
	logCleanup = cleanup
	return nil
}

func closeLogs() {
	if logCleanup == nil {
		return
	}
	if err := logCleanup(); err != nil {
		fmt.Fprintf(os.Stderr, "closing log file: %v\n", err)
	}
	logCleanup = nil
}

// applyOverrides copies the values set through flags or APPFIGURES_* variables
// over the loaded configuration.
func applyOverrides(cfg *config.Config) {
	if v := viper.GetString("base_url"); v != "" {
		cfg.BaseURL = v
	}
	if v := viper.GetString("log_level"); v != "" {
		cfg.LogLevel = v
	}
	if v := viper.GetString("log_format"); v != "" {
		cfg.LogFormat = v
	}
	if v := viper.GetString("log_file"); v != "" {
		cfg.LogFile = v
	}
}
