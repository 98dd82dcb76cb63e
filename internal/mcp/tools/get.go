package tools

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/appfigures-mcp/pkg/client"
	"github.com/usestring/appfigures-mcp/pkg/flatten"
	"github.com/usestring/appfigures-mcp/pkg/jsoncompact"
	"github.com/usestring/appfigures-mcp/pkg/types"
)

// GetInput is the input for appfigures_get.
type GetInput struct {
	Route   string         `json:"route,omitempty" jsonschema:"API route, e.g. /reports/sales (default: /)"`
	Options map[string]any `json:"options,omitempty" jsonschema:"Query options, e.g. {\"start_date\": \"2015-03-01\", \"products\": \"6000\"}"`
	GroupBy string         `json:"group_by,omitempty" jsonschema:"Comma-separated dimensions, e.g. dates,products. Overrides options.group_by"`
	Output  string         `json:"output,omitempty" jsonschema:"records, compact, or raw (default: records when grouped, else compact)"`
	Offset  int            `json:"offset,omitempty" jsonschema:"First record to return (default: 0)"`
	Limit   int            `json:"limit,omitempty" jsonschema:"Max records to return (default: 200)"`
}

// ToolGet performs a GET request and returns the response as flat records or
// as a (compacted) body. The request becomes the current state used by
// appfigures_info, appfigures_query and appfigures_schema.
func ToolGet(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input GetInput) (*sdkmcp.CallToolResult, types.GetResponse, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input GetInput) (*sdkmcp.CallToolResult, types.GetResponse, error) {
		switch input.Output {
		case "", types.OutputRecords, types.OutputCompact, types.OutputRaw:
		default:
			return nil, types.GetResponse{}, ErrInvalidInput("output must be 'records', 'compact', or 'raw'")
		}
		if input.Offset < 0 || input.Limit < 0 {
			return nil, types.GetResponse{}, ErrInvalidInput("offset and limit must not be negative")
		}

		opts := client.Options(input.Options).Clone()
		if input.GroupBy != "" {
			if opts == nil {
				opts = client.Options{}
			}
			opts[client.GroupByOption] = input.GroupBy
		}

		var output types.GetResponse
		err := d.WithClient(func(c *client.Client) error {
			if _, err := c.Get(ctx, input.Route, opts); err != nil {
				return err
			}
			var err error
			output, err = buildGetResponse(d, c, input)
			return err
		})
		if err != nil {
			return nil, types.GetResponse{}, err
		}
		return nil, output, nil
	}
}

func buildGetResponse(d *Deps, c *client.Client, input GetInput) (types.GetResponse, error) {
	info := c.Info()
	groupBy, _ := c.GroupBy()
	status, _ := c.Status()

	output := types.GetResponse{
		Route:      *info.Route,
		Status:     status,
		HTTPStatus: info.HTTPStatus,
		GroupBy:    groupBy,
		Output:     input.Output,
		Error:      info.TransportError,
	}
	if output.Error != "" {
		output.Hint = "The request failed before a JSON body was received. Check the route and credentials with appfigures_info."
		output.Output = ""
		return output, nil
	}

	if output.Output == "" {
		output.Output = types.OutputCompact
		if groupBy != nil && status == client.StatusOK {
			output.Output = types.OutputRecords
		}
	}

	if output.Output == types.OutputRecords {
		if groupBy == nil {
			return types.GetResponse{}, ErrInvalidInput("output 'records' requires group_by")
		}
		records, err := c.Records()
		if err != nil {
			return types.GetResponse{}, err
		}
		return pageRecords(d, output, records, input), nil
	}

	body, err := c.AsObject()
	if err != nil {
		return types.GetResponse{}, err
	}
	if output.Output == types.OutputCompact {
		output.Body = jsoncompact.CompactValue(body, d.Config.CompactOptions())
		output.Resource = &types.ResourceRef{
			URI:  ResourceLastBody,
			MIME: MimeJSON,
			Hint: "Full uncompacted body",
		}
	} else {
		output.Body = body
	}
	if status != client.StatusOK {
		output.Hint = fmt.Sprintf("The API reported status %d; the body describes the error.", status)
	}
	return output, nil
}

func pageRecords(d *Deps, output types.GetResponse, records []flatten.Record, input GetInput) types.GetResponse {
	limit := input.Limit
	if limit == 0 {
		limit = d.Config.DefaultRecordLimit
	}

	page, more := pageOf(records, input.Offset, limit)
	output.RecordCount = len(records)
	output.Offset = input.Offset
	output.Records = flatten.Values(page)
	output.Truncated = more

	if more {
		output.Hint = fmt.Sprintf("Showing %d of %d records. Use offset=%d for the next page, or appfigures_query to filter.",
			len(page), len(records), input.Offset+len(page))
		output.Resource = &types.ResourceRef{
			URI:  ResourceLastRecords,
			MIME: MimeJSON,
			Hint: "All records",
		}
	}
	return output
}
