package jsonschema

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/invopop/jsonschema"

	"github.com/usestring/appfigures-mcp/pkg/jsonvalue"
)

// FieldStat contains per-field statistics computed across multiple samples.
type FieldStat struct {
	Path          string   `json:"path"`                  // Field path (e.g., "data.downloads", "items[].id")
	Type          string   `json:"type"`                  // JSON Schema type (string, number, object, array, etc.)
	Frequency     float64  `json:"frequency"`             // Fraction of samples containing this field (0.0-1.0)
	Required      bool     `json:"required"`              // Present in all samples and never null
	Nullable      bool     `json:"nullable"`              // At least one sample has null for this field
	DistinctCount int      `json:"distinct_count"`        // Number of distinct non-null values observed
	Examples      []any    `json:"examples,omitempty"`    // Up to 3 example values
	Format        string   `json:"format,omitempty"`      // Detected format: date, iso8601, url, email, enum
	EnumValues    []string `json:"enum_values,omitempty"` // All distinct values when format is "enum"
}

const (
	defaultMaxDepth       = 5
	maxExamples           = 3
	minSamplesForFormat   = 5
	maxEnumDistinctValues = 10
)

var (
	dateRegex    = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	iso8601Regex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}(T\d{2}:\d{2}:\d{2})?`)
	urlRegex     = regexp.MustCompile(`^https?://`)
	emailRegex   = regexp.MustCompile(`^[^@]+@[^@]+\.[^@]+$`)
)

// ComputeFieldStats walks the merged schema and computes per-field statistics
// by cross-referencing decoded samples. Returns a flat table of field stats.
func ComputeFieldStats(schema *jsonschema.Schema, samples []any) []FieldStat {
	if schema == nil || len(samples) == 0 {
		return nil
	}

	var stats []FieldStat
	walkSchema(schema, "", samples, 0, defaultMaxDepth, &stats)
	return stats
}

func walkSchema(schema *jsonschema.Schema, path string, samples []any, depth, maxDepth int, stats *[]FieldStat) {
	if schema == nil || depth > maxDepth {
		if depth > maxDepth && path != "" {
			*stats = append(*stats, FieldStat{
				Path: path + " (truncated at depth limit)",
				Type: "...",
			})
		}
		return
	}

	if schema.Type != "object" || schema.Properties == nil {
		return
	}

	for pair := schema.Properties.Oldest(); pair != nil; pair = pair.Next() {
		propName := pair.Key
		propSchema := pair.Value

		fieldPath := propName
		if path != "" {
			fieldPath = path + "." + propName
		}

		*stats = append(*stats, computeSingleFieldStat(fieldPath, propSchema, propName, samples))

		if propSchema.Type == "object" && propSchema.Properties != nil {
			walkSchema(propSchema, fieldPath, collectNestedSamples(propName, samples), depth+1, maxDepth, stats)
		}

		if propSchema.Type == "array" && propSchema.Items != nil &&
			propSchema.Items.Type == "object" && propSchema.Items.Properties != nil {
			walkSchema(propSchema.Items, fieldPath+"[]", collectArrayItemSamples(propName, samples), depth+1, maxDepth, stats)
		}
	}
}

func computeSingleFieldStat(path string, schema *jsonschema.Schema, fieldName string, samples []any) FieldStat {
	totalSamples := len(samples)
	stat := FieldStat{
		Path: path,
		Type: resolveType(schema),
	}

	presentCount := 0
	nullCount := 0
	distinctValues := make(map[string]bool)
	var examples []any
	var stringValues []string

	for _, sample := range samples {
		val, exists := jsonvalue.Lookup(sample, fieldName)
		if !exists {
			continue
		}

		presentCount++

		if val == nil {
			nullCount++
			continue
		}

		// Containers count toward distinct values but child stats describe
		// them, so they are not kept as examples.
		key := distinctKey(val)
		if !distinctValues[key] {
			distinctValues[key] = true
			if _, container := jsonvalue.Members(val); !container && len(examples) < maxExamples {
				examples = append(examples, jsonvalue.Plain(val))
			}
		}

		if str, ok := val.(string); ok {
			stringValues = append(stringValues, str)
		}
	}

	if totalSamples > 0 {
		stat.Frequency = float64(presentCount) / float64(totalSamples)
	}
	stat.Required = presentCount == totalSamples && nullCount == 0
	stat.Nullable = nullCount > 0
	stat.DistinctCount = len(distinctValues)
	stat.Examples = examples

	if stat.Type == "string" && len(stringValues) >= minSamplesForFormat {
		stat.Format, stat.EnumValues = detectFormat(stringValues)
	}

	return stat
}

func distinctKey(v any) string {
	if _, container := jsonvalue.Members(v); container {
		data, err := jsonvalue.Encode(v)
		if err == nil {
			return string(data)
		}
	}
	return fmt.Sprintf("%T:%v", v, v)
}

func allMatch(values []string, re *regexp.Regexp) bool {
	for _, v := range values {
		if !re.MatchString(v) {
			return false
		}
	}
	return true
}

// detectFormat detects common value formats for string fields.
func detectFormat(values []string) (string, []string) {
	if len(values) == 0 {
		return "", nil
	}

	switch {
	case allMatch(values, dateRegex):
		return "date", nil
	case allMatch(values, iso8601Regex):
		return "iso8601", nil
	case allMatch(values, urlRegex):
		return "url", nil
	case allMatch(values, emailRegex):
		return "email", nil
	}

	distinct := make(map[string]bool)
	for _, v := range values {
		distinct[v] = true
	}
	if len(distinct) <= maxEnumDistinctValues {
		enumValues := make([]string, 0, len(distinct))
		for v := range distinct {
			enumValues = append(enumValues, v)
		}
		sort.Strings(enumValues)
		return "enum", enumValues
	}

	return "", nil
}

// resolveType returns the type string for a schema, handling anyOf unions.
func resolveType(schema *jsonschema.Schema) string {
	if schema.Type != "" {
		return schema.Type
	}
	if len(schema.AnyOf) > 0 {
		types := make([]string, 0, len(schema.AnyOf))
		for _, s := range schema.AnyOf {
			if s.Type != "" {
				types = append(types, s.Type)
			}
		}
		return strings.Join(types, "|")
	}
	return "unknown"
}
