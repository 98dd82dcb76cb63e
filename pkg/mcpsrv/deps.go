package mcpsrv

import "github.com/usestring/appfigures-mcp/internal/mcp/tools"

// Deps contains all dependencies available to custom tools: the API client
// (reached through WithClient, which serializes requests), the configuration
// and the query engine. Custom tools share the builtin tools' client state.
type Deps = tools.Deps
