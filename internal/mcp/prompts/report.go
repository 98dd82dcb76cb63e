package prompts

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// HandleReport implements the reporting workflow.
func HandleReport(cfg *Config) func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
	return func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
		route := "/reports/sales"
		groupBy := "dates,products"
		question := ""
		if args := req.Params.Arguments; args != nil {
			if v := args["route"]; v != "" {
				route = v
			}
			if v := args["group_by"]; v != "" {
				groupBy = v
			}
			question = args["question"]
		}
		dims := strings.Split(groupBy, ",")

		var sb strings.Builder

		sb.WriteString("# Build a Report from AppFigures Data\n\n")
		sb.WriteString("You are a mobile app analytics expert. Answer with numbers taken from the API, ")
		sb.WriteString("and say which route, options and dimensions produced them.\n\n")
		if question != "" {
			fmt.Fprintf(&sb, "**Question**: %s\n\n", question)
		}

		sb.WriteString("## How grouped responses work\n\n")
		sb.WriteString("A `group_by` of N dimensions makes the API nest its answer N levels deep, one level per dimension, ")
		sb.WriteString("with the level's keys being that dimension's values. `appfigures_get` unrolls the nesting into flat records:\n\n")
		sb.WriteString("```\n")
		fmt.Fprintf(&sb, "{%s, \"data\": <leaf object>}\n", recordShape(dims))
		sb.WriteString("```\n\n")
		sb.WriteString("- Dimension values are always strings (dates like `2015-03-01`, product ids like `6000`)\n")
		sb.WriteString("- Without `group_by` the body is returned as-is (compacted for display)\n")
		sb.WriteString("- A body carrying a `status` other than 200 is an API error; records are unavailable for it\n\n")

		sb.WriteString("## Workflow Steps\n\n")
		sb.WriteString("1. **Fetch** the report grouped by the dimensions you need\n")
		fmt.Fprintf(&sb, "   - Records come in pages of %d; `truncated: true` means more remain\n", cfg.DefaultRecordLimit)
		sb.WriteString("2. **Inspect** the record shape before aggregating\n")
		sb.WriteString("   - `appfigures_schema(include_stats: true)` lists the leaf fields and their types\n")
		sb.WriteString("3. **Aggregate** with JQ over all records instead of paging through them\n")
		sb.WriteString("4. **Check** `appfigures_info` when a result looks wrong: it shows the exact route, options and status\n\n")

		sb.WriteString("## Suggested Tools\n\n")
		sb.WriteString("```\n")
		fmt.Fprintf(&sb, "appfigures_get(route: %q, group_by: %q, options: {start_date: \"...\", end_date: \"...\"})\n", route, groupBy)
		sb.WriteString("appfigures_schema(include_stats: true)\n")
		fmt.Fprintf(&sb, "appfigures_query(expression: %q)\n", exampleQuery(dims))
		sb.WriteString("```\n\n")

		fmt.Fprintf(&sb, "API base URL: %s\n", cfg.BaseURL)

		return &sdkmcp.GetPromptResult{
			Description: "AppFigures reporting workflow",
			Messages: []*sdkmcp.PromptMessage{
				{
					Role:    "user",
					Content: &sdkmcp.TextContent{Text: sb.String()},
				},
			},
		}, nil
	}
}

func recordShape(dims []string) string {
	parts := make([]string, 0, len(dims))
	for _, d := range dims {
		parts = append(parts, fmt.Sprintf("%q: \"<key>\"", d))
	}
	return strings.Join(parts, ", ")
}

// exampleQuery sums downloads per value of the last dimension.
func exampleQuery(dims []string) string {
	last := dims[len(dims)-1]
	return fmt.Sprintf("group_by(.%s) | map({%s: .[0].%s, downloads: (map(.data.downloads) | add)})", last, last, last)
}
