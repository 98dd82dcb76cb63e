package tools

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/appfigures-mcp/pkg/client"
	"github.com/usestring/appfigures-mcp/pkg/types"
)

// QueryInput is the input for appfigures_query.
type QueryInput struct {
	Expression  string `json:"expression" jsonschema:"required,JQ expression, e.g. '.[] | select(.data.downloads > 100) | .products'"`
	Target      string `json:"target,omitempty" jsonschema:"What to query: records (array of flat records) or body (the raw response). Default: records when the last request was grouped, else body"`
	Deduplicate bool   `json:"deduplicate,omitempty" jsonschema:"Remove duplicate values (default: false)"`
	MaxResults  int    `json:"max_results,omitempty" jsonschema:"Max results to return (default: 1000)"`
}

// ToolQuery runs a jq expression over the last response. Records are the
// flat {dimension..., data} objects appfigures_get returns.
func ToolQuery(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input QueryInput) (*sdkmcp.CallToolResult, types.QueryResponse, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input QueryInput) (*sdkmcp.CallToolResult, types.QueryResponse, error) {
		if input.Expression == "" {
			return nil, types.QueryResponse{}, ErrInvalidInput("expression is required")
		}
		if err := d.Query.ValidateExpression(input.Expression); err != nil {
			return nil, types.QueryResponse{}, ErrInvalidInput(err.Error())
		}

		maxResults := input.MaxResults
		if maxResults <= 0 || maxResults > d.Config.MaxQueryResults {
			maxResults = d.Config.MaxQueryResults
		}

		var output types.QueryResponse
		err := d.WithClient(func(c *client.Client) error {
			target, err := resolveTarget(c, input.Target)
			if err != nil {
				return err
			}
			value, err := targetValue(c, target)
			if err != nil {
				return err
			}

			// One extra result tells whether the output was cut short.
			result, err := d.Query.Query(value, input.Expression, input.Deduplicate, maxResults+1)
			if err != nil {
				return ErrInvalidInput(err.Error())
			}

			values, more := pageOf(result.Values, 0, maxResults)
			output = types.QueryResponse{
				Target:    target,
				Values:    values,
				RawCount:  result.RawCount,
				Truncated: more,
				Errors:    result.Errors,
			}
			switch {
			case more:
				output.Hint = fmt.Sprintf("Results truncated at %d values. Narrow the expression or raise max_results.", maxResults)
			case len(values) == 0 && len(result.Errors) == 0:
				output.Hint = "No values matched. Use appfigures_schema to see the available fields."
			}
			return nil
		})
		if err != nil {
			return nil, types.QueryResponse{}, err
		}
		return nil, output, nil
	}
}
