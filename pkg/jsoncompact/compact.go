// Package jsoncompact shrinks decoded JSON for display by trimming long
// arrays, long strings and deep nesting. Object key order is preserved.
package jsoncompact

import (
	"fmt"

	"github.com/usestring/appfigures-mcp/pkg/jsonvalue"
)

// Options controls JSON compaction behavior.
type Options struct {
	MaxArrayItems int // Trim arrays to N items (0 = no limit)
	MaxStringLen  int // Truncate strings longer than N chars (0 = no limit)
	MaxDepth      int // Max recursion depth (0 = unlimited)
}

// Default values for compaction options.
const (
	DefaultMaxArrayItems = 3
	DefaultMaxStringLen  = 500
	DefaultMaxDepth      = 0 // unlimited
)

// DefaultOptions returns the default compaction settings.
func DefaultOptions() *Options {
	return &Options{
		MaxArrayItems: DefaultMaxArrayItems,
		MaxStringLen:  DefaultMaxStringLen,
		MaxDepth:      DefaultMaxDepth,
	}
}

// Compact compresses JSON bytes. If opts is nil, DefaultOptions() is used.
func Compact(data []byte, opts *Options) ([]byte, error) {
	if len(data) == 0 {
		return data, nil
	}

	v, err := jsonvalue.Decode(data)
	if err != nil {
		return nil, err
	}
	return jsonvalue.Encode(CompactValue(v, opts))
}

// CompactValue compresses a decoded value without modifying it.
// If opts is nil, DefaultOptions() is used.
func CompactValue(v any, opts *Options) any {
	if opts == nil {
		opts = DefaultOptions()
	}
	return compactRecursive(v, opts, 0)
}

func compactRecursive(v any, opts *Options, depth int) any {
	if opts.MaxDepth > 0 && depth >= opts.MaxDepth {
		if _, ok := jsonvalue.Members(v); ok {
			return "[max depth]"
		}
	}

	switch val := v.(type) {
	case []any:
		return compactArray(val, opts, depth)
	case *jsonvalue.Object:
		if val == nil {
			return nil
		}
		out := jsonvalue.NewObject()
		for pair := val.Oldest(); pair != nil; pair = pair.Next() {
			out.Set(pair.Key, compactRecursive(pair.Value, opts, depth+1))
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = compactRecursive(item, opts, depth+1)
		}
		return out
	case string:
		return compactString(val, opts)
	default:
		return v
	}
}

func compactString(s string, opts *Options) string {
	if opts.MaxStringLen <= 0 || len(s) <= opts.MaxStringLen {
		return s
	}
	remaining := len(s) - opts.MaxStringLen
	return s[:opts.MaxStringLen] + fmt.Sprintf("... (%d more chars)", remaining)
}

func compactArray(arr []any, opts *Options, depth int) []any {
	limit := len(arr)
	if opts.MaxArrayItems > 0 && len(arr) > opts.MaxArrayItems {
		limit = opts.MaxArrayItems
	}

	result := make([]any, 0, limit+1)
	for _, item := range arr[:limit] {
		result = append(result, compactRecursive(item, opts, depth+1))
	}
	if remaining := len(arr) - limit; remaining > 0 {
		result = append(result, fmt.Sprintf("... (%d more items)", remaining))
	}
	return result
}
