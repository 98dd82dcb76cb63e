package types

import "github.com/usestring/appfigures-mcp/pkg/jsonschema"

// SchemaResponse is the output of appfigures_schema.
type SchemaResponse struct {
	Target      string                 `json:"target"`
	SampleCount int                    `json:"sample_count"`
	AllMatch    bool                   `json:"all_match"`
	Schema      any                    `json:"schema,omitempty"` // JSON Schema (Draft 2020-12)
	FieldStats  []jsonschema.FieldStat `json:"field_stats,omitempty"`
	Hint        string                 `json:"hint,omitempty"`
}
