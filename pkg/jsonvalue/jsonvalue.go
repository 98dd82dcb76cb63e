// Package jsonvalue decodes JSON into generic values that keep object key order.
//
// Objects decode to *Object (an ordered map), arrays to []any, numbers to
// json.Number, and the remaining scalars to string, bool, or nil. Encoding a
// decoded value with encoding/json re-emits object keys in their original order.
package jsonvalue

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/buger/jsonparser"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Object is a JSON object whose keys iterate in document order.
type Object = orderedmap.OrderedMap[string, any]

// NewObject returns an empty Object.
func NewObject() *Object {
	return orderedmap.New[string, any]()
}

// Member is one key/value pair of an object (or one index/element of an array).
type Member struct {
	Key   string
	Value any
}

// ErrInvalid is returned by Decode for input that is not valid JSON.
var ErrInvalid = errors.New("invalid JSON")

// Decode parses data into an ordered generic value.
// Empty or whitespace-only input decodes to nil without error.
func Decode(data []byte) (any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	// jsonparser tolerates trailing commas and loose number literals.
	if !json.Valid(data) {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, syntaxError(data))
	}

	value, dataType, _, err := jsonparser.Get(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	v, err := convert(value, dataType)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return v, nil
}

func syntaxError(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	return errors.New("malformed input")
}

func convert(value []byte, dataType jsonparser.ValueType) (any, error) {
	switch dataType {
	case jsonparser.Object:
		return decodeObject(value)
	case jsonparser.Array:
		return decodeArray(value)
	case jsonparser.String:
		s, err := jsonparser.ParseString(value)
		if err != nil {
			// Lone surrogate escapes become U+FFFD, as in encoding/json.
			quoted := make([]byte, 0, len(value)+2)
			quoted = append(append(append(quoted, '"'), value...), '"')
			if jsonErr := json.Unmarshal(quoted, &s); jsonErr != nil {
				return nil, fmt.Errorf("string: %w", err)
			}
		}
		return s, nil
	case jsonparser.Number:
		return json.Number(string(value)), nil
	case jsonparser.Boolean:
		b, err := jsonparser.ParseBoolean(value)
		if err != nil {
			return nil, fmt.Errorf("boolean: %w", err)
		}
		return b, nil
	case jsonparser.Null:
		return nil, nil
	default:
		return nil, fmt.Errorf("unexpected token %q", value)
	}
}

func decodeObject(data []byte) (*Object, error) {
	obj := NewObject()
	err := jsonparser.ObjectEach(data, func(key, value []byte, dataType jsonparser.ValueType, _ int) error {
		v, err := convert(value, dataType)
		if err != nil {
			return err
		}
		obj.Set(string(key), v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return obj, nil
}

func decodeArray(data []byte) ([]any, error) {
	items := make([]any, 0)
	var firstErr error
	_, err := jsonparser.ArrayEach(data, func(value []byte, dataType jsonparser.ValueType, _ int, err error) {
		if firstErr != nil {
			return
		}
		if err != nil {
			firstErr = err
			return
		}
		v, err := convert(value, dataType)
		if err != nil {
			firstErr = err
			return
		}
		items = append(items, v)
	})
	if firstErr != nil {
		return nil, firstErr
	}
	if err != nil {
		return nil, err
	}
	return items, nil
}

// Encode serializes v. Ordered objects keep their key order.
func Encode(v any) ([]byte, error) {
	return json.Marshal(v)
}

// Members returns the ordered members of a container value.
//
// Objects yield their keys in document order, arrays yield decimal index
// strings, and plain map[string]any values yield sorted keys. The boolean is
// false for scalars and nil.
func Members(v any) ([]Member, bool) {
	switch val := v.(type) {
	case *Object:
		if val == nil {
			return nil, false
		}
		members := make([]Member, 0, val.Len())
		for pair := val.Oldest(); pair != nil; pair = pair.Next() {
			members = append(members, Member{Key: pair.Key, Value: pair.Value})
		}
		return members, true
	case []any:
		members := make([]Member, 0, len(val))
		for i, item := range val {
			members = append(members, Member{Key: strconv.Itoa(i), Value: item})
		}
		return members, true
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		members := make([]Member, 0, len(val))
		for _, k := range keys {
			members = append(members, Member{Key: k, Value: val[k]})
		}
		return members, true
	default:
		return nil, false
	}
}

// Lookup returns the value stored under key when v is an object.
func Lookup(v any, key string) (any, bool) {
	switch val := v.(type) {
	case *Object:
		if val == nil {
			return nil, false
		}
		return val.Get(key)
	case map[string]any:
		found, ok := val[key]
		return found, ok
	default:
		return nil, false
	}
}

// ErrNotInteger is returned by Int when a value has no integral numeric reading.
var ErrNotInteger = errors.New("value is not an integer")

// Int reads v as an integer. Numeric strings are accepted.
func Int(v any) (int, error) {
	switch val := v.(type) {
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return int(i), nil
		}
		f, err := val.Float64()
		if err != nil || math.Trunc(f) != f {
			return 0, ErrNotInteger
		}
		return int(f), nil
	case float64:
		if math.Trunc(val) != val || math.IsInf(val, 0) {
			return 0, ErrNotInteger
		}
		return int(val), nil
	case int:
		return val, nil
	case int64:
		return int(val), nil
	case string:
		i, err := strconv.Atoi(val)
		if err != nil {
			return 0, ErrNotInteger
		}
		return i, nil
	default:
		return 0, ErrNotInteger
	}
}

// Plain converts an ordered value into the shapes encoding/json produces:
// map[string]any, []any, float64 or int for numbers. Libraries that only
// understand those shapes (jq, schema inference) consume this form.
func Plain(v any) any {
	switch val := v.(type) {
	case *Object:
		if val == nil {
			return nil
		}
		out := make(map[string]any, val.Len())
		for pair := val.Oldest(); pair != nil; pair = pair.Next() {
			out[pair.Key] = Plain(pair.Value)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = Plain(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = Plain(item)
		}
		return out
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return int(i)
		}
		f, _ := val.Float64()
		return f
	case json.Marshaler:
		// Types with their own JSON form (flattened records, for one)
		// are normalized through a round trip.
		data, err := val.MarshalJSON()
		if err != nil {
			return nil
		}
		decoded, err := Decode(data)
		if err != nil {
			return nil
		}
		return Plain(decoded)
	default:
		return v
	}
}
