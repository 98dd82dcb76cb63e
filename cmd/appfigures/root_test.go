package main

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecute_ClosesLogFileOnCommandError(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"2015-03-01": {"downloads": 3}}`))
	}))
	defer api.Close()

	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
	t.Setenv("APPFIGURES_ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv("APPFIGURES_CLIENT_KEY", "key")
	t.Setenv("APPFIGURES_AUTH_TOKEN", "token")
	t.Setenv("APPFIGURES_BASE_URL", api.URL)
	t.Setenv("LOG_LEVEL", "error")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"get", "/reports/sales", "--query", "{",
		"--log-file", filepath.Join(t.TempDir(), "logs", "appfigures.log")})
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		_ = getCmd.Flags().Set("query", "")
		_ = rootCmd.PersistentFlags().Set("log-file", "")
		logCleanup = nil
	})

	require.Error(t, rootCmd.Execute())
	assert.Nil(t, logCleanup, "log file left open after a failed command")
}

func TestCloseLogs(t *testing.T) {
	t.Cleanup(func() { logCleanup = nil })

	calls := 0
	logCleanup = func() error {
		calls++
		return errors.New("already closed")
	}
	closeLogs()
	closeLogs()

	assert.Equal(t, 1, calls)
	assert.Nil(t, logCleanup)
}
