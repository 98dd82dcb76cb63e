// Package mcpsrv provides an extensible MCP server for the AppFigures API.
//
// The server exposes the builtin appfigures_get, appfigures_info,
// appfigures_query and appfigures_schema tools, the appfigures://last/{view}
// resources and the appfigures_report prompt. All tools share one API client;
// calls are serialized because the client keeps the last response as state.
//
// # Basic Usage
//
// Create a server configured from the environment (APPFIGURES_CLIENT_KEY,
// APPFIGURES_AUTH_TOKEN, and so on; see internal/config):
//
//	server, err := mcpsrv.NewServer(nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer server.Close()
//	server.Run(ctx)
//
// # Extension
//
// Add custom tools using MCP SDK types directly:
//
//	import mcp "github.com/modelcontextprotocol/go-sdk/mcp"
//
//	type MyInput struct {
//	    Query string `json:"query"`
//	}
//
//	type MyOutput struct {
//	    Count int `json:"count"`
//	}
//
//	func myHandler(ctx context.Context, req *mcp.CallToolRequest, input MyInput) (*mcp.CallToolResult, MyOutput, error) {
//	    return nil, MyOutput{Count: 42}, nil
//	}
//
//	server, err := mcpsrv.NewServer(
//	    nil,
//	    mcpsrv.WithTool(&mcp.Tool{Name: "my_tool", Description: "My tool"}, myHandler),
//	)
//
// # Configuration
//
// Configure logging and other options:
//
//	server, err := mcpsrv.NewServer(
//	    nil,
//	    mcpsrv.WithLogLevel("debug"),
//	    mcpsrv.WithLogFile("/var/log/appfigures-mcp.log"),
//	)
package mcpsrv
