// Package tools contains MCP tool implementations for the AppFigures API.
package tools

import (
	"github.com/usestring/appfigures-mcp/pkg/client"
	"github.com/usestring/appfigures-mcp/pkg/flatten"
	"github.com/usestring/appfigures-mcp/pkg/types"
)

// MIME type constant.
const MimeJSON = "application/json"

// Resource URIs exposing the last response in full.
const (
	ResourceLastBody    = "appfigures://last/body"
	ResourceLastRecords = "appfigures://last/records"
	ResourceLastInfo    = "appfigures://last/info"
)

// pageOf returns items[offset:offset+limit] and whether items remain past it.
func pageOf[T any](items []T, offset, limit int) ([]T, bool) {
	if offset >= len(items) {
		return items[:0], false
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end], end < len(items)
}

// resolveTarget picks records when the last request was grouped and body
// otherwise, unless target names one explicitly.
func resolveTarget(c *client.Client, target string) (string, error) {
	switch target {
	case types.TargetBody, types.TargetRecords:
		return target, nil
	case "":
		groupBy, err := c.GroupBy()
		if err != nil {
			return "", err
		}
		if groupBy != nil {
			return types.TargetRecords, nil
		}
		return types.TargetBody, nil
	default:
		return "", ErrInvalidInput("target must be 'body' or 'records'")
	}
}

// targetValue returns the body, or the last records converted for querying.
func targetValue(c *client.Client, target string) (any, error) {
	if target == types.TargetBody {
		return c.AsObject()
	}
	records, err := c.Records()
	if err != nil {
		return nil, err
	}
	return flatten.Values(records), nil
}
