package tools

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/appfigures-mcp/pkg/client"
	"github.com/usestring/appfigures-mcp/pkg/flatten"
	"github.com/usestring/appfigures-mcp/pkg/jsonschema"
	"github.com/usestring/appfigures-mcp/pkg/types"
)

// SchemaInput is the input for appfigures_schema.
type SchemaInput struct {
	Target       string `json:"target,omitempty" jsonschema:"records or body (default: records when the last request was grouped, else body)"`
	IncludeStats bool   `json:"include_stats,omitempty" jsonschema:"Include per-field statistics: frequency, distinct values, formats, enums (default: false)"`
}

// ToolSchema infers a JSON Schema for the last response: the shape of one
// flat record, or the shape of the body.
func ToolSchema(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input SchemaInput) (*sdkmcp.CallToolResult, types.SchemaResponse, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input SchemaInput) (*sdkmcp.CallToolResult, types.SchemaResponse, error) {
		var output types.SchemaResponse
		err := d.WithClient(func(c *client.Client) error {
			target, err := resolveTarget(c, input.Target)
			if err != nil {
				return err
			}

			var (
				inferred *jsonschema.InferredSchema
				samples  []any
			)
			if target == types.TargetRecords {
				records, err := c.Records()
				if err != nil {
					return err
				}
				groupBy, _ := c.GroupBy()
				inferred, err = jsonschema.InferRecords(groupBy, records)
				if err != nil {
					return err
				}
				samples = flatten.Values(records)
			} else {
				body, err := c.AsObject()
				if err != nil {
					return err
				}
				samples = []any{body}
				inferred, err = jsonschema.InferValues(nil, body)
				if err != nil {
					return err
				}
			}

			output = types.SchemaResponse{Target: target}
			if inferred == nil {
				output.Hint = "The response has no records to infer from."
				return nil
			}

			schema, err := types.ToAny(inferred.Schema)
			if err != nil {
				return fmt.Errorf("serializing schema: %w", err)
			}
			output.Schema = schema
			output.SampleCount = inferred.SampleCount
			output.AllMatch = inferred.AllMatch
			if input.IncludeStats {
				output.FieldStats = jsonschema.ComputeFieldStats(inferred.Schema, samples)
			}
			return nil
		})
		if err != nil {
			return nil, types.SchemaResponse{}, err
		}
		return nil, output, nil
	}
}
