package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/appfigures-mcp/pkg/client"
)

func TestFromMap_Defaults(t *testing.T) {
	cfg, err := FromMap(map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, client.DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Timeout())
	assert.Equal(t, int64(32<<20), cfg.MaxBodyBytes)
	assert.Equal(t, DefaultRecordLimitValue, cfg.DefaultRecordLimit)
	assert.Equal(t, MaxQueryResultsValue, cfg.MaxQueryResults)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.True(t, cfg.LogCompress)
	assert.Empty(t, cfg.ClientKey)

	compact := cfg.CompactOptions()
	assert.Equal(t, 3, compact.MaxArrayItems)
	assert.Equal(t, 500, compact.MaxStringLen)
	assert.Equal(t, 0, compact.MaxDepth)
}

func TestFromMap_Overrides(t *testing.T) {
	cfg, err := FromMap(map[string]string{
		"APPFIGURES_BASE_URL":    "http://localhost:9000",
		"APPFIGURES_CLIENT_KEY":  "key",
		"APPFIGURES_AUTH_TOKEN":  "token",
		"HTTP_CLIENT_TIMEOUT_MS": "1500",
		"LOG_LEVEL":              "debug",
		"LOG_COMPRESS":           "false",
	})
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9000", cfg.BaseURL)
	assert.Equal(t, client.Credentials{ClientKey: "key", AuthToken: "token"}, cfg.Credentials())
	assert.Equal(t, 1500*time.Millisecond, cfg.Timeout())

	logCfg := cfg.Logging()
	assert.Equal(t, "debug", logCfg.Level)
	assert.False(t, logCfg.Compress)

	c, err := cfg.NewClient()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000", c.Info().URL)
}

func TestFromMap_InvalidValues(t *testing.T) {
	_, err := FromMap(map[string]string{
		"LOG_LEVEL":            "loud",
		"LOG_FORMAT":           "json",
		"DEFAULT_RECORD_LIMIT": "0",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LOG_LEVEL")
	assert.Contains(t, err.Error(), "LOG_FORMAT")
	assert.Contains(t, err.Error(), "DEFAULT_RECORD_LIMIT")
}

func TestFromMap_UnparseableNumber(t *testing.T) {
	_, err := FromMap(map[string]string{"HTTP_CLIENT_TIMEOUT_MS": "soon"})
	assert.ErrorContains(t, err, "failed to parse environment")
}

func TestNewClient_MissingCredentials(t *testing.T) {
	cfg, err := FromMap(map[string]string{})
	require.NoError(t, err)

	_, err = cfg.NewClient()
	assert.True(t, errors.Is(err, client.ErrConfiguration))
}

func TestLoad_ReadsEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "appfigures.env")
	require.NoError(t, os.WriteFile(path, []byte("APPFIGURES_TEST_ONLY_KEY=from-file\n"), 0o600))

	t.Setenv(EnvFileVar, path)
	t.Setenv("APPFIGURES_CLIENT_KEY", "from-env")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.ClientKey)
	assert.Equal(t, "from-file", os.Getenv("APPFIGURES_TEST_ONLY_KEY"))
	_ = os.Unsetenv("APPFIGURES_TEST_ONLY_KEY")
}

func TestLoad_MissingEnvFileIsFine(t *testing.T) {
	t.Setenv(EnvFileVar, filepath.Join(t.TempDir(), "missing.env"))

	_, err := Load()
	assert.NoError(t, err)
}
