package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/usestring/appfigures-mcp/pkg/mcpsrv"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Configuration is loaded from the environment and an optional .env file:
	// - APPFIGURES_CLIENT_KEY, APPFIGURES_AUTH_TOKEN: API credentials
	// - APPFIGURES_BASE_URL: API base URL
	// - LOG_LEVEL, LOG_FILE: logging (stderr unless LOG_FILE is set)
	// See internal/config for all options.
	server, err := mcpsrv.NewServer(nil)
	if err != nil {
		slog.Error("failed to create MCP server", "error", err)
		os.Exit(1)
	}
	defer server.Close()

	slog.Info("starting AppFigures MCP server on stdio")
	if err := server.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
