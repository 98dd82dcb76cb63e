// Package query runs jq expressions over decoded API responses and
// flattened records.
package query

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/itchyny/gojq"

	"github.com/usestring/appfigures-mcp/internal/cache"
	"github.com/usestring/appfigures-mcp/pkg/jsonvalue"
)

// DefaultCacheSize is the number of compiled expressions an Engine keeps.
const DefaultCacheSize = 128

// Engine executes jq queries against decoded JSON values. It is safe for
// concurrent use.
type Engine struct {
	compiled *cache.CodeCache
}

// NewEngine creates a new query engine.
func NewEngine() *Engine {
	compiled, _ := cache.NewCodeCache(DefaultCacheSize)
	return &Engine{compiled: compiled}
}

// QueryResult contains the results of a jq query.
type QueryResult struct {
	Values   []any    `json:"values"`           // Extracted values
	Errors   []string `json:"errors,omitempty"` // Runtime errors (e.g., type mismatch)
	RawCount int      `json:"raw_count"`        // Count before deduplication
}

// Query executes a jq expression against input, which may hold ordered
// objects, json.Number values, or flattened records converted with
// flatten.Values. Null results are dropped. maxResults <= 0 means no limit.
func (e *Engine) Query(input any, expression string, deduplicate bool, maxResults int) (*QueryResult, error) {
	code, err := e.compile(expression)
	if err != nil {
		return nil, err
	}

	result := &QueryResult{
		Values: make([]any, 0),
		Errors: make([]string, 0),
	}

	seen := make(map[string]bool)
	seenErrors := make(map[string]bool)
	iter := code.Run(jsonvalue.Plain(input))

	for {
		if maxResults > 0 && len(result.Values) >= maxResults {
			break
		}

		v, ok := iter.Next()
		if !ok {
			break
		}

		if err, isErr := v.(error); isErr {
			msg := formatJQError(err)
			if !seenErrors[msg] {
				result.Errors = append(result.Errors, msg)
				seenErrors[msg] = true
			}
			// gojq stops after an error; Next would return false anyway.
			continue
		}

		if v == nil {
			continue
		}

		result.RawCount++

		if deduplicate {
			key := valueKey(v)
			if seen[key] {
				continue
			}
			seen[key] = true
		}

		result.Values = append(result.Values, v)
	}

	return result, nil
}

// ValidateExpression checks if a jq expression is valid without executing it.
func (e *Engine) ValidateExpression(expression string) error {
	_, err := e.compile(expression)
	return err
}

// compile returns the cached program for expression, compiling it on a miss.
func (e *Engine) compile(expression string) (*gojq.Code, error) {
	if code, ok := e.compiled.Get(expression); ok {
		return code, nil
	}
	code, err := compileExpression(expression)
	if err != nil {
		return nil, err
	}
	e.compiled.Put(expression, code)
	return code, nil
}

func compileExpression(expression string) (*gojq.Code, error) {
	query, err := gojq.Parse(expression)
	if err != nil {
		var parseErr *gojq.ParseError
		if errors.As(err, &parseErr) {
			return nil, fmt.Errorf("invalid jq expression at position %d: %w", parseErr.Offset, err)
		}
		return nil, fmt.Errorf("invalid jq expression: %w", err)
	}

	code, err := gojq.Compile(query)
	if err != nil {
		return nil, fmt.Errorf("failed to compile jq expression: %w", err)
	}
	return code, nil
}

// formatJQError adds a hint to common runtime errors. gojq reports these as
// plain errors, so the hints key off the message text.
func formatJQError(err error) string {
	var haltErr *gojq.HaltError
	if errors.As(err, &haltErr) {
		if haltErr.Value() == nil {
			return "query halted"
		}
		return fmt.Sprintf("query halted with: %v", haltErr.Value())
	}

	errStr := err.Error()

	var hint string
	switch {
	case strings.Contains(errStr, "cannot iterate over: null"):
		hint = " (the path may not exist in this response)"
	case strings.Contains(errStr, "cannot index") && strings.Contains(errStr, "with"):
		hint = " (field not found or wrong type)"
	case strings.Contains(errStr, "array") && strings.Contains(errStr, "cannot be indexed"):
		hint = " (expected object but got array, try adding '[]')"
	}

	return errStr + hint
}

// valueKey creates a string key for deduplication.
func valueKey(v any) string {
	switch val := v.(type) {
	case string:
		return "s:" + val
	case int, float64:
		return fmt.Sprintf("n:%v", val)
	case bool:
		return fmt.Sprintf("b:%v", val)
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("?:%v", val)
		}
		return "j:" + string(b)
	}
}
