package main

import (
	"context"
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/usestring/appfigures-mcp/pkg/mcpsrv"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server on stdio",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := mcpsrv.NewServer(nil, mcpsrv.WithConfig(appConfig))
		if err != nil {
			return err
		}
		defer server.Close()

		slog.Info("starting AppFigures MCP server on stdio")
		if err := server.Run(cmd.Context()); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		slog.Info("server stopped")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
