package mcpsrv

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/appfigures-mcp/internal/mcp/tools"
)

// AddTool registers a tool after checking that Out serializes the way its
// inferred schema says. It panics, naming the field to fix, when Out has a
// nil-defaulting slice without omitzero or a field with custom JSON encoding
// (ordered objects and flattened records belong in fields of type any).
func AddTool[In, Out any](srv *sdkmcp.Server, t *sdkmcp.Tool, h sdkmcp.ToolHandlerFor[In, Out]) {
	tools.AddTool(srv, t, h)
}
