package prompts

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Register registers all prompts with the MCP server.
func Register(srv *sdkmcp.Server, cfg *Config) {
	srv.AddPrompt(&sdkmcp.Prompt{
		Name:        "appfigures_report",
		Description: "RECOMMENDED: Build a report from AppFigures data (sales, revenue, ranks, reviews). Explains how group_by flattening works and which tools to chain, without fetching anything.",
		Arguments: []*sdkmcp.PromptArgument{
			{
				Name:        "route",
				Description: "Report route, e.g. /reports/sales",
				Required:    false,
			},
			{
				Name:        "group_by",
				Description: "Comma-separated dimensions, e.g. dates,products",
				Required:    false,
			},
			{
				Name:        "question",
				Description: "What the report should answer, e.g. 'which product had the most downloads last week'",
				Required:    false,
			},
		},
	}, HandleReport(cfg))
}
