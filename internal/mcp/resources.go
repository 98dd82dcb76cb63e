package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/appfigures-mcp/internal/mcp/tools"
	"github.com/usestring/appfigures-mcp/pkg/client"
	"github.com/usestring/appfigures-mcp/pkg/flatten"
)

// Resource URI scheme: appfigures://
// Supported URIs:
//   appfigures://last/body
//   appfigures://last/records
//   appfigures://last/info

// registerResources registers resource templates and handlers.
func (s *Server) registerResources() {
	s.mcpServer.AddResourceTemplate(&sdkmcp.ResourceTemplate{
		URITemplate: "appfigures://last/{view}",
		Name:        "Last AppFigures Response",
		Description: "The last response in full: view 'body' (as returned), 'records' (every flat record), or 'info' (request summary). High context cost - appfigures_get already returns a compacted body or a page of records. Only fetch when you need everything.",
		MIMEType:    tools.MimeJSON,
		Annotations: &sdkmcp.Annotations{
			Audience: []sdkmcp.Role{"assistant"},
			Priority: 0.4,
		},
	}, s.handleResourceLast)
}

func (s *Server) handleResourceLast(ctx context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
	view, err := parseResourceURI(req.Params.URI)
	if err != nil {
		return nil, err
	}

	var content any
	err = s.deps.WithClient(func(c *client.Client) error {
		switch view {
		case "body":
			body, err := c.AsObject()
			if err != nil {
				return err
			}
			content = body
		case "records":
			records, err := c.Records()
			if err != nil {
				return err
			}
			content = flatten.Values(records)
		case "info":
			content = c.Info()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return toResourceResult(req.Params.URI, content)
}

// Helper functions

// parseResourceURI extracts the view from an appfigures:// URI.
func parseResourceURI(uri string) (string, error) {
	if !strings.HasPrefix(uri, "appfigures://") {
		return "", tools.ErrInvalidInput("invalid URI scheme: expected appfigures://")
	}

	parts := strings.Split(strings.TrimPrefix(uri, "appfigures://"), "/")
	if len(parts) != 2 || parts[0] != "last" {
		return "", tools.ErrInvalidInput(fmt.Sprintf("unknown resource: %s", uri))
	}

	switch parts[1] {
	case "body", "records", "info":
		return parts[1], nil
	default:
		return "", tools.ErrInvalidInput(fmt.Sprintf("unknown view: %s", parts[1]))
	}
}

// toResourceResult serializes content to a ReadResourceResult.
// Ordered objects keep their key order.
func toResourceResult(uri string, content any) (*sdkmcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(content, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("serializing resource: %w", err)
	}

	return &sdkmcp.ReadResourceResult{
		Contents: []*sdkmcp.ResourceContents{
			{
				URI:      uri,
				MIMEType: tools.MimeJSON,
				Text:     string(data),
			},
		},
	}, nil
}
