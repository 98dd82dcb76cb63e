package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/usestring/appfigures-mcp/internal/query"
	"github.com/usestring/appfigures-mcp/pkg/client"
	"github.com/usestring/appfigures-mcp/pkg/flatten"
)

var getCmd = &cobra.Command{
	Use:   "get [route]",
	Short: "Run a GET request and print the response",
	Long: "Run a GET request against the API and print the response.\n\n" +
		"Query options are passed with --opt key=value; repeat a key to send a list. " +
		"--group-by names the dimensions the response is nested by and enables the flat " +
		"and csv formats, which exit non-zero when the API reports an error status.",
	Example: "  appfigures get /reports/sales --group-by dates,products --opt start_date=2015-03-01 --output csv",
	Args:    cobra.MaximumNArgs(1),
	RunE:    runGet,
}

var getOutput = outputRaw

func init() {
	getCmd.Flags().StringArray("opt", nil, "Query option as key=value (repeatable)")
	getCmd.Flags().String("group-by", "", "Comma-separated dimensions the response is grouped by")
	getCmd.Flags().Var(&getOutput, "output", "Output format: raw, json, flat, csv")
	getCmd.Flags().String("query", "", "jq expression run over the body, or over the records when grouped")

	rootCmd.AddCommand(getCmd)
}

func runGet(cmd *cobra.Command, args []string) error {
	route := "/"
	if len(args) == 1 {
		route = args[0]
	}

	pairs, _ := cmd.Flags().GetStringArray("opt")
	opts, err := parseOptions(pairs)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("group-by") {
		groupBy, _ := cmd.Flags().GetString("group-by")
		opts[client.GroupByOption] = groupBy
	}

	c, err := appConfig.NewClient()
	if err != nil {
		return err
	}
	if _, err := c.Get(cmd.Context(), route, opts); err != nil {
		return err
	}

	info := c.Info()
	if info.TransportError != "" {
		slog.Warn("request failed", slog.String("route", route), slog.String("error", info.TransportError))
	}

	expr, _ := cmd.Flags().GetString("query")
	if expr != "" {
		return writeQuery(cmd.OutOrStdout(), c, expr)
	}
	return writeOutput(cmd.OutOrStdout(), c, getOutput)
}

// parseOptions turns key=value pairs into query options. A key given more
// than once becomes a list in the order given.
func parseOptions(pairs []string) (client.Options, error) {
	opts := client.Options{}
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --opt '%s' (expected key=value)", pair)
		}
		switch existing := opts[key].(type) {
		case nil:
			opts[key] = value
		case string:
			opts[key] = []string{existing, value}
		case []string:
			opts[key] = append(existing, value)
		}
	}
	return opts, nil
}

// writeQuery runs expr over the records when the request was grouped, and
// over the body otherwise. Results print one JSON value per line.
func writeQuery(w io.Writer, c *client.Client, expr string) error {
	dims, err := c.GroupBy()
	if err != nil {
		return err
	}

	var input any
	if dims != nil {
		records, err := c.Records()
		if err != nil {
			return err
		}
		input = flatten.Values(records)
	} else if input, err = c.AsObject(); err != nil {
		return err
	}

	result, err := query.NewEngine().Query(input, expr, false, 0)
	if err != nil {
		return err
	}
	for _, msg := range result.Errors {
		slog.Warn("query error", slog.String("error", msg))
	}

	enc := json.NewEncoder(w)
	for _, v := range result.Values {
		if err := enc.Encode(v); err != nil {
			return err
		}
	}
	return nil
}
