package types

// Query targets for appfigures_query and appfigures_schema.
const (
	TargetBody    = "body"
	TargetRecords = "records"
)

// QueryResponse is the output of appfigures_query.
type QueryResponse struct {
	Target    string   `json:"target"`
	Values    []any    `json:"values,omitzero"`
	RawCount  int      `json:"raw_count"` // Count before deduplication
	Truncated bool     `json:"truncated,omitempty"`
	Errors    []string `json:"errors,omitempty"`
	Hint      string   `json:"hint,omitempty"`
}
