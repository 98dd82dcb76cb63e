// Package types provides shared types for appfigures-mcp.
// These types are used across multiple packages and are designed for external consumption.
package types

import (
	"encoding/json"

	"github.com/usestring/appfigures-mcp/pkg/client"
)

// ToAny round-trips a typed value through JSON to produce an untyped any.
// Use this when a tool output field must be any (instead of json.RawMessage)
// to satisfy the MCP SDK's schema validation.
func ToAny(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ResourceRef points to an MCP resource.
type ResourceRef struct {
	URI  string `json:"uri"`
	MIME string `json:"mime"`
	Hint string `json:"hint,omitempty"`
}

// Output modes for appfigures_get.
const (
	OutputRecords = "records"
	OutputCompact = "compact"
	OutputRaw     = "raw"
)

// GetResponse is the output of appfigures_get.
type GetResponse struct {
	Route      string   `json:"route"`
	Status     int      `json:"status"`                // inferred from the body's status field
	HTTPStatus int      `json:"http_status,omitempty"` // transport-level status, informational
	GroupBy    []string `json:"group_by,omitempty"`
	Output     string   `json:"output"`

	// Set when Output is "records".
	RecordCount int   `json:"record_count,omitempty"`
	Offset      int   `json:"offset,omitempty"`
	Records     []any `json:"records,omitzero"`
	Truncated   bool  `json:"truncated,omitempty"`

	// Set when Output is "compact" or "raw".
	Body any `json:"body,omitempty"`

	Error    string       `json:"error,omitempty"` // transport or decode failure
	Resource *ResourceRef `json:"resource,omitempty"`
	Hint     string       `json:"hint,omitempty"`
}

// InfoResponse is the output of appfigures_info.
type InfoResponse struct {
	URL            string            `json:"url"`
	Headers        map[string]string `json:"headers,omitempty"`
	Requested      bool              `json:"requested"`
	Route          string            `json:"route,omitempty"`
	Options        map[string]any    `json:"options,omitempty"`
	GroupKeys      []string          `json:"group_keys,omitempty"`
	StatusCode     *int              `json:"status_code,omitempty"`
	HTTPStatus     int               `json:"http_status,omitempty"`
	TransportError string            `json:"transport_error,omitempty"`
}

// NewInfoResponse converts a client snapshot for tool output.
func NewInfoResponse(info client.Info) InfoResponse {
	out := InfoResponse{
		URL:            info.URL,
		Headers:        info.Headers,
		Requested:      info.Route != nil,
		Options:        info.Options,
		GroupKeys:      info.GroupKeys,
		StatusCode:     info.StatusCode,
		HTTPStatus:     info.HTTPStatus,
		TransportError: info.TransportError,
	}
	if info.Route != nil {
		out.Route = *info.Route
	}
	return out
}
