package flatten

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/usestring/appfigures-mcp/pkg/jsonvalue"
)

// DataField is the JSON field that carries a record's leaf payload.
const DataField = "data"

// Binding pairs a dimension name with the key it was bound to.
type Binding struct {
	Dimension string `json:"dimension"`
	Key       string `json:"key"`
}

// Record is one leaf of a flattened response: the dimension keys that lead
// to it plus the payload found there.
//
// Binding the same dimension name twice replaces the earlier key in place.
type Record struct {
	bindings *orderedmap.OrderedMap[string, string]
	path     []string

	// Data is the payload reached after following every bound key.
	Data any
}

// NewRecord returns a record with no bindings.
func NewRecord(data any) Record {
	return Record{
		bindings: orderedmap.New[string, string](),
		Data:     data,
	}
}

// With returns a copy of r with dimension bound to key and Data replaced.
func (r Record) With(dimension, key string, data any) Record {
	next := Record{
		bindings: orderedmap.New[string, string](),
		path:     make([]string, len(r.path), len(r.path)+1),
		Data:     data,
	}
	if r.bindings != nil {
		for pair := r.bindings.Oldest(); pair != nil; pair = pair.Next() {
			next.bindings.Set(pair.Key, pair.Value)
		}
	}
	copy(next.path, r.path)
	next.path = append(next.path, key)
	next.bindings.Set(dimension, key)
	return next
}

// Key returns the key bound to dimension.
func (r Record) Key(dimension string) (string, bool) {
	if r.bindings == nil {
		return "", false
	}
	return r.bindings.Get(dimension)
}

// Bindings returns the dimension bindings in the order they were first made.
func (r Record) Bindings() []Binding {
	if r.bindings == nil {
		return []Binding{}
	}
	out := make([]Binding, 0, r.bindings.Len())
	for pair := r.bindings.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, Binding{Dimension: pair.Key, Key: pair.Value})
	}
	return out
}

// Path returns every key traversed to reach Data, outermost first.
func (r Record) Path() []string {
	out := make([]string, len(r.path))
	copy(out, r.path)
	return out
}

// Object renders the record as an ordered object: one field per dimension
// followed by the data field. A dimension literally named "data" is
// shadowed by the payload.
func (r Record) Object() *jsonvalue.Object {
	obj := jsonvalue.NewObject()
	for _, b := range r.Bindings() {
		if b.Dimension == DataField {
			continue
		}
		obj.Set(b.Dimension, b.Key)
	}
	obj.Set(DataField, r.Data)
	return obj
}

// MarshalJSON encodes the record as a flat JSON object.
func (r Record) MarshalJSON() ([]byte, error) {
	return jsonvalue.Encode(r.Object())
}

// Fields returns the field names of records flattened along dims, in
// order: each distinct dimension once, then the data field.
func Fields(dims []string) []string {
	fields := make([]string, 0, len(dims)+1)
	seen := make(map[string]bool, len(dims)+1)
	for _, dim := range dims {
		if dim == DataField || seen[dim] {
			continue
		}
		seen[dim] = true
		fields = append(fields, dim)
	}
	return append(fields, DataField)
}

// Values converts records to a []any of ordered objects, the form the
// query and schema packages consume.
func Values(records []Record) []any {
	out := make([]any, len(records))
	for i, r := range records {
		out[i] = r.Object()
	}
	return out
}
