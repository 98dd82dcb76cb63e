package tools

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/usestring/appfigures-mcp/pkg/flatten"
	"github.com/usestring/appfigures-mcp/pkg/jsonvalue"
	"github.com/usestring/appfigures-mcp/pkg/types"
)

func TestCheckOutputSchema_BuiltinOutputs(t *testing.T) {
	assert.NotPanics(t, func() {
		CheckOutputSchema[types.GetResponse]("appfigures_get")
		CheckOutputSchema[types.InfoResponse]("appfigures_info")
		CheckOutputSchema[types.QueryResponse]("appfigures_query")
		CheckOutputSchema[types.SchemaResponse]("appfigures_schema")
	})
}

func TestCheckOutputSchema(t *testing.T) {
	type inner struct {
		Body *jsonvalue.Object `json:"body,omitempty"`
	}

	tests := []struct {
		name   string
		check  func()
		panics bool
	}{
		{"nil slice", func() {
			CheckOutputSchema[struct {
				Keys []string `json:"keys"`
			}]("t")
		}, true},
		{"omitzero slice", func() {
			CheckOutputSchema[struct {
				Keys []string `json:"keys,omitzero"`
			}]("t")
		}, false},
		{"omitempty slice", func() {
			CheckOutputSchema[struct {
				Keys []string `json:"keys,omitempty"`
			}]("t")
		}, false},
		{"pointer to slice", func() {
			CheckOutputSchema[struct {
				Keys *[]string `json:"keys"`
			}]("t")
		}, false},
		{"untyped output", func() { CheckOutputSchema[any]("t") }, false},
		{"any slice", func() {
			CheckOutputSchema[struct {
				Records []any `json:"records,omitzero"`
			}]("t")
		}, false},
		{"raw message", func() {
			CheckOutputSchema[struct {
				Body json.RawMessage `json:"body,omitempty"`
			}]("t")
		}, true},
		{"ordered object", func() {
			CheckOutputSchema[struct {
				Body *jsonvalue.Object `json:"body,omitempty"`
			}]("t")
		}, true},
		{"records", func() {
			CheckOutputSchema[struct {
				Records []flatten.Record `json:"records,omitzero"`
			}]("t")
		}, true},
		{"nested ordered object", func() {
			CheckOutputSchema[struct {
				Last inner `json:"last"`
			}]("t")
		}, true},
		{"map of raw messages", func() {
			CheckOutputSchema[struct {
				ByKey map[string]json.RawMessage `json:"by_key,omitempty"`
			}]("t")
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.panics {
				assert.Panics(t, tt.check)
			} else {
				assert.NotPanics(t, tt.check)
			}
		})
	}
}

func TestFindMarshalerFields_Paths(t *testing.T) {
	type out struct {
		Records []flatten.Record           `json:"records"`
		Extra   map[string]json.RawMessage `json:"extra"`
		Name    string                     `json:"name"`
	}
	paths := findMarshalerFields(reflect.TypeFor[out](), nil, map[reflect.Type]bool{})
	assert.Equal(t, []string{"Records.[]", "Extra.[value]"}, paths)
}
