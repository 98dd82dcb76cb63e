package tools

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Register registers all tools with the MCP server.
func Register(srv *sdkmcp.Server, d *Deps) {
	// Tool 1: appfigures_get
	AddTool(srv, &sdkmcp.Tool{
		Name:        "appfigures_get",
		Description: "Run a GET request against the AppFigures API. Returns {route, status, group_by, output, record_count, records | body, hint}. With group_by (e.g. 'dates,products') the nested response is flattened into records shaped {dates, products, data}; records are paged with offset/limit. Without group_by the body is returned compacted; use output='raw' for the full body. The request becomes the current state for appfigures_query, appfigures_schema and appfigures_info.",
	}, ToolGet(d))

	// Tool 2: appfigures_info
	AddTool(srv, &sdkmcp.Tool{
		Name:        "appfigures_info",
		Description: "Show the client configuration (base URL, non-secret headers) and the last request: route, options, group keys, inferred status, transport error if any. Makes no request.",
	}, ToolInfo(d))

	// Tool 3: appfigures_query
	AddTool(srv, &sdkmcp.Tool{
		Name:        "appfigures_query",
		Description: "Run a JQ expression over the last response without re-fetching it. Target 'records' is the array of flat records from a grouped request; target 'body' is the response as returned. Returns {target, values, raw_count, truncated, errors, hint}.",
	}, ToolQuery(d))

	// Tool 4: appfigures_schema
	AddTool(srv, &sdkmcp.Tool{
		Name:        "appfigures_schema",
		Description: "Infer a JSON Schema for the last response: the shape of one flat record (one string property per dimension plus data), or of the body when the request was not grouped. Set include_stats=true for per-field frequency, distinct counts, detected formats and enums.",
	}, ToolSchema(d))
}
