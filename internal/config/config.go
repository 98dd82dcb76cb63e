// Package config provides configuration loading from environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"
	"hermannm.dev/wrap"

	"github.com/usestring/appfigures-mcp/internal/logging"
	"github.com/usestring/appfigures-mcp/pkg/client"
	"github.com/usestring/appfigures-mcp/pkg/jsoncompact"
)

// EnvFileVar names the variable that points at an alternative .env file.
const EnvFileVar = "APPFIGURES_ENV_FILE"

// Tool output defaults
const (
	DefaultRecordLimitValue = 200
	MaxQueryResultsValue    = 1000
)

// Config holds all configuration for the client, CLI and MCP server.
type Config struct {
	BaseURL           string `env:"APPFIGURES_BASE_URL" envDefault:"https://api.appfigures.com/v2"`
	ClientKey         string `env:"APPFIGURES_CLIENT_KEY"`
	AuthToken         string `env:"APPFIGURES_AUTH_TOKEN"`
	HTTPClientTimeout int    `env:"HTTP_CLIENT_TIMEOUT_MS" envDefault:"30000"`
	MaxBodyBytes      int64  `env:"MAX_BODY_BYTES" envDefault:"33554432"` // 32 MiB

	// Compaction defaults (for AI-optimized responses)
	CompactMaxArrayItems int `env:"COMPACT_MAX_ARRAY_ITEMS" envDefault:"3"`
	CompactMaxStringLen  int `env:"COMPACT_MAX_STRING_LEN" envDefault:"500"`
	CompactMaxDepth      int `env:"COMPACT_MAX_DEPTH" envDefault:"0"`

	// Tool output limits
	DefaultRecordLimit int `env:"DEFAULT_RECORD_LIMIT" envDefault:"200"`
	MaxQueryResults    int `env:"MAX_QUERY_RESULTS" envDefault:"1000"`

	// Logging configuration
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat     string `env:"LOG_FORMAT" envDefault:"text"`
	LogFile       string `env:"LOG_FILE"`
	LogMaxSizeMB  int    `env:"LOG_MAX_SIZE_MB" envDefault:"10"`
	LogMaxBackups int    `env:"LOG_MAX_BACKUPS" envDefault:"5"`
	LogMaxAgeDays int    `env:"LOG_MAX_AGE_DAYS" envDefault:"28"`
	LogCompress   bool   `env:"LOG_COMPRESS" envDefault:"true"`
}

// Load reads an optional .env file (or the file named by APPFIGURES_ENV_FILE)
// into the process environment, then parses the environment. Variables that
// are already set win over the file.
func Load() (*Config, error) {
	path := os.Getenv(EnvFileVar)
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, wrap.Errorf(err, "failed to load env file '%s'", path)
	}

	return parse(env.Options{})
}

// FromMap parses configuration from the given variables only.
func FromMap(vars map[string]string) (*Config, error) {
	return parse(env.Options{Environment: vars})
}

func parse(opts env.Options) (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return nil, wrap.Error(err, "failed to parse environment")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	var errs []error

	if c.BaseURL == "" {
		errs = append(errs, errors.New("APPFIGURES_BASE_URL must not be empty"))
	}
	if c.HTTPClientTimeout <= 0 {
		errs = append(errs, fmt.Errorf("HTTP_CLIENT_TIMEOUT_MS must be positive, got %d", c.HTTPClientTimeout))
	}
	if c.MaxBodyBytes <= 0 {
		errs = append(errs, fmt.Errorf("MAX_BODY_BYTES must be positive, got %d", c.MaxBodyBytes))
	}
	if c.DefaultRecordLimit <= 0 {
		errs = append(errs, fmt.Errorf("DEFAULT_RECORD_LIMIT must be positive, got %d", c.DefaultRecordLimit))
	}
	if c.MaxQueryResults <= 0 {
		errs = append(errs, fmt.Errorf("MAX_QUERY_RESULTS must be positive, got %d", c.MaxQueryResults))
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("invalid value '%s' for LOG_LEVEL (must be debug/info/warn/error)", c.LogLevel))
	}
	switch strings.ToLower(c.LogFormat) {
	case logging.FormatText, logging.FormatDev:
	default:
		errs = append(errs, fmt.Errorf("invalid value '%s' for LOG_FORMAT (must be text/dev)", c.LogFormat))
	}

	if len(errs) != 0 {
		return wrap.Errors("invalid environment variables", errs...)
	}
	return nil
}

// Credentials returns the API credentials. They may be empty; client.New
// reports that as a configuration error.
func (c *Config) Credentials() client.Credentials {
	return client.Credentials{ClientKey: c.ClientKey, AuthToken: c.AuthToken}
}

// Timeout returns the HTTP client timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.HTTPClientTimeout) * time.Millisecond
}

// ClientOptions returns the client options this configuration implies.
func (c *Config) ClientOptions() []client.Option {
	return []client.Option{
		client.WithBaseURL(c.BaseURL),
		client.WithTimeout(c.Timeout()),
		client.WithMaxBodyBytes(c.MaxBodyBytes),
	}
}

// NewClient builds an API client from this configuration.
func (c *Config) NewClient(extra ...client.Option) (*client.Client, error) {
	return client.New(c.Credentials(), append(c.ClientOptions(), extra...)...)
}

// CompactOptions returns the compaction settings for tool output.
func (c *Config) CompactOptions() *jsoncompact.Options {
	return &jsoncompact.Options{
		MaxArrayItems: c.CompactMaxArrayItems,
		MaxStringLen:  c.CompactMaxStringLen,
		MaxDepth:      c.CompactMaxDepth,
	}
}

// Logging returns the logging configuration.
func (c *Config) Logging() logging.Config {
	return logging.Config{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		FilePath:   c.LogFile,
		MaxSizeMB:  c.LogMaxSizeMB,
		MaxBackups: c.LogMaxBackups,
		MaxAgeDays: c.LogMaxAgeDays,
		Compress:   c.LogCompress,
	}
}
