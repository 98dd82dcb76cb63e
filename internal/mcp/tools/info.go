package tools

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/appfigures-mcp/pkg/client"
	"github.com/usestring/appfigures-mcp/pkg/types"
)

// InfoInput is the input for appfigures_info.
type InfoInput struct{}

// ToolInfo returns the client configuration and a summary of the last request.
// Credentials are never included.
func ToolInfo(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input InfoInput) (*sdkmcp.CallToolResult, types.InfoResponse, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input InfoInput) (*sdkmcp.CallToolResult, types.InfoResponse, error) {
		var output types.InfoResponse
		err := d.WithClient(func(c *client.Client) error {
			output = types.NewInfoResponse(c.Info())
			return nil
		})
		if err != nil {
			return nil, types.InfoResponse{}, err
		}
		return nil, output, nil
	}
}
