// Package flatten turns responses nested by "group by" dimensions into flat
// lists of records, one per leaf.
//
// A sales report grouped by "dates,products" arrives as
//
//	{"2015-03-01": {"6000": {...}, "6001": {...}}, "2015-03-02": {...}}
//
// and flattens to
//
//	[{"dates": "2015-03-01", "products": "6000", "data": {...}}, ...]
//
// Dimensions are passed as a []string where nil means "no grouping was
// requested" and leaves the response untouched, while an empty, non-nil
// slice yields a single record wrapping the whole response.
package flatten

import (
	"encoding/json"
	"fmt"

	"github.com/usestring/appfigures-mcp/pkg/jsonvalue"
)

// Flatten unrolls body along dims.
//
// If dims is nil, body is returned unchanged. Otherwise the result is a
// []Record as produced by Records.
func Flatten(dims []string, body any) (any, error) {
	if dims == nil {
		return body, nil
	}
	records, err := Records(dims, body)
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Records unrolls body one dimension at a time, outermost first.
//
// Each pass replaces every record with one record per member of its Data,
// binding the dimension to the member key. Members iterate in the order the
// response listed them; arrays are keyed by decimal index. A record whose
// Data is not an object or array while dimensions remain fails with a
// *MalformedResponseError.
func Records(dims []string, body any) ([]Record, error) {
	records := []Record{NewRecord(body)}

	for level, dim := range dims {
		next := make([]Record, 0, len(records))
		for _, rec := range records {
			members, ok := jsonvalue.Members(rec.Data)
			if !ok {
				return nil, &MalformedResponseError{
					Dimension: dim,
					Level:     level,
					Path:      rec.Path(),
					Reason:    fmt.Sprintf("expected an object, got %s", describe(rec.Data)),
				}
			}
			for _, m := range members {
				next = append(next, rec.With(dim, m.Key, m.Value))
			}
		}
		records = next
	}

	return records, nil
}

// Regroup rebuilds the nested structure that Records flattened. Intermediate
// levels become ordered objects keyed in first-seen order, so a level that
// was an array comes back as an object keyed by index.
func Regroup(dims []string, records []Record) (any, error) {
	if len(dims) == 0 {
		if len(records) != 1 {
			return nil, fmt.Errorf("regroup without dimensions needs exactly one record, got %d", len(records))
		}
		return records[0].Data, nil
	}

	root := jsonvalue.NewObject()
	for i, rec := range records {
		keys, err := recordKeys(dims, rec)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}

		node := root
		for depth, key := range keys {
			if depth == len(keys)-1 {
				if _, exists := node.Get(key); exists {
					return nil, fmt.Errorf("record %d: duplicate leaf at %v", i, keys)
				}
				node.Set(key, rec.Data)
				break
			}

			child, exists := node.Get(key)
			if !exists {
				obj := jsonvalue.NewObject()
				node.Set(key, obj)
				node = obj
				continue
			}
			obj, ok := child.(*jsonvalue.Object)
			if !ok {
				return nil, fmt.Errorf("record %d: key %q is both a leaf and a branch", i, key)
			}
			node = obj
		}
	}

	return root, nil
}

func recordKeys(dims []string, rec Record) ([]string, error) {
	if len(rec.path) == len(dims) {
		return rec.Path(), nil
	}
	keys := make([]string, 0, len(dims))
	for _, dim := range dims {
		key, ok := rec.Key(dim)
		if !ok {
			return nil, fmt.Errorf("missing dimension %q", dim)
		}
		keys = append(keys, key)
	}
	return keys, nil
}

func describe(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "a string"
	case bool:
		return "a boolean"
	case json.Number, float64, int, int64:
		return "a number"
	default:
		return fmt.Sprintf("%T", v)
	}
}
