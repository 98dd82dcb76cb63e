// Package jsonschema infers JSON Schemas (Draft 2020-12) from decoded
// response bodies and from flattened records. Object properties keep the
// order in which they were first seen.
package jsonschema

import (
	"encoding/json"
	"math"
	"sort"

	"github.com/invopop/jsonschema"

	"github.com/usestring/appfigures-mcp/pkg/flatten"
	"github.com/usestring/appfigures-mcp/pkg/jsonvalue"
)

// InferredSchema contains a JSON Schema inferred from sample data along with metadata.
type InferredSchema struct {
	Schema      *jsonschema.Schema `json:"schema"`       // JSON Schema (Draft 2020-12)
	SampleCount int                `json:"sample_count"` // Number of samples used
	AllMatch    bool               `json:"all_match"`    // True if all samples had identical schema
}

// InferOptions controls schema inference behavior.
type InferOptions struct {
	// StrictRequired marks properties as required only if present in ALL samples.
	// When false no fields are marked as required.
	// Default: true
	StrictRequired bool
	// AdditionalProperties sets additionalProperties in object schemas.
	// Default: nil (not set)
	AdditionalProperties *bool
	// MarkNullableAsOptional treats fields that can be null as optional (not required).
	// Default: true
	MarkNullableAsOptional bool
}

// DefaultInferOptions returns the default inference options.
func DefaultInferOptions() *InferOptions {
	return &InferOptions{
		StrictRequired:         true,
		AdditionalProperties:   nil,
		MarkNullableAsOptional: true,
	}
}

// Infer generates a JSON Schema from one or more JSON byte samples.
// Samples that are not valid JSON are skipped.
func Infer(samples ...[]byte) (*InferredSchema, error) {
	values := make([]any, 0, len(samples))
	for _, data := range samples {
		v, err := jsonvalue.Decode(data)
		if err != nil {
			continue
		}
		values = append(values, v)
	}
	return InferValues(DefaultInferOptions(), values...)
}

// InferValues generates a JSON Schema from already-decoded samples.
// It returns nil when there are no samples.
func InferValues(opts *InferOptions, samples ...any) (*InferredSchema, error) {
	if len(samples) == 0 {
		return nil, nil
	}
	if opts == nil {
		opts = DefaultInferOptions()
	}

	schemas := make([]*jsonschema.Schema, 0, len(samples))
	for _, sample := range samples {
		schemas = append(schemas, inferFromValue(sample))
	}

	allMatch := true
	if len(schemas) > 1 {
		first, _ := json.Marshal(schemas[0])
		for i := 1; i < len(schemas); i++ {
			other, _ := json.Marshal(schemas[i])
			if string(first) != string(other) {
				allMatch = false
				break
			}
		}
	}

	merged := mergeSchemas(schemas)

	if opts.StrictRequired && merged.Type == "object" {
		computeRequiredFields(merged, samples, opts.MarkNullableAsOptional)
	}

	if opts.AdditionalProperties != nil {
		applyAdditionalProperties(merged, *opts.AdditionalProperties)
	}

	return &InferredSchema{
		Schema:      merged,
		SampleCount: len(schemas),
		AllMatch:    allMatch,
	}, nil
}

// InferRecords generates the schema of flattened records: one required
// string property per dimension followed by the merged schema of every
// record's data payload. It returns nil when records is empty.
func InferRecords(dims []string, records []flatten.Record) (*InferredSchema, error) {
	result, err := InferValues(DefaultInferOptions(), flatten.Values(records)...)
	if err != nil || result == nil {
		return result, err
	}

	result.Schema.Required = flatten.Fields(dims)
	return result, nil
}

// InferFromValue generates a JSON Schema from an already-parsed JSON value.
func InferFromValue(v any) *jsonschema.Schema {
	return inferFromValue(v)
}

func inferFromValue(v any) *jsonschema.Schema {
	if v == nil {
		return &jsonschema.Schema{Type: "null"}
	}

	switch val := v.(type) {
	case bool:
		return &jsonschema.Schema{Type: "boolean"}

	case json.Number:
		if _, err := val.Int64(); err == nil {
			return &jsonschema.Schema{Type: "integer"}
		}
		f, err := val.Float64()
		if err == nil && isWhole(f) {
			return &jsonschema.Schema{Type: "integer"}
		}
		return &jsonschema.Schema{Type: "number"}

	case float64:
		if isWhole(val) {
			return &jsonschema.Schema{Type: "integer"}
		}
		return &jsonschema.Schema{Type: "number"}

	case int, int64:
		return &jsonschema.Schema{Type: "integer"}

	case string:
		return &jsonschema.Schema{Type: "string"}

	case []any:
		return inferArraySchema(val)

	case *jsonvalue.Object, map[string]any:
		members, _ := jsonvalue.Members(val)
		return inferObjectSchema(members)

	default:
		// Unknown type, return empty schema (matches anything)
		return &jsonschema.Schema{}
	}
}

func isWhole(f float64) bool {
	return math.Trunc(f) == f && !math.IsInf(f, 0) && !math.IsNaN(f)
}

func inferArraySchema(arr []any) *jsonschema.Schema {
	schema := &jsonschema.Schema{Type: "array"}

	if len(arr) == 0 {
		return schema
	}

	itemSchemas := make([]*jsonschema.Schema, 0, len(arr))
	for _, item := range arr {
		itemSchemas = append(itemSchemas, inferFromValue(item))
	}

	schema.Items = mergeSchemas(itemSchemas)
	return schema
}

func inferObjectSchema(members []jsonvalue.Member) *jsonschema.Schema {
	schema := &jsonschema.Schema{
		Type:       "object",
		Properties: jsonschema.NewProperties(),
	}
	for _, m := range members {
		schema.Properties.Set(m.Key, inferFromValue(m.Value))
	}
	return schema
}

func mergeSchemas(schemas []*jsonschema.Schema) *jsonschema.Schema {
	if len(schemas) == 0 {
		return &jsonschema.Schema{}
	}
	if len(schemas) == 1 {
		return schemas[0]
	}

	types := make(map[string]bool)
	var objectSchemas []*jsonschema.Schema
	var arraySchemas []*jsonschema.Schema

	for _, s := range schemas {
		if s.Type == "" {
			continue
		}
		types[s.Type] = true

		if s.Type == "object" {
			objectSchemas = append(objectSchemas, s)
		}
		if s.Type == "array" {
			arraySchemas = append(arraySchemas, s)
		}
	}

	// integer widens to number when both appear.
	if types["integer"] && types["number"] {
		delete(types, "integer")
	}

	if len(types) == 1 {
		for t := range types {
			switch t {
			case "object":
				return mergeObjectSchemas(objectSchemas)
			case "array":
				return mergeArraySchemas(arraySchemas)
			default:
				return &jsonschema.Schema{Type: t}
			}
		}
	}

	typeList := make([]string, 0, len(types))
	for t := range types {
		typeList = append(typeList, t)
	}
	sort.Strings(typeList)

	// invopop/jsonschema has no type arrays, so unions are expressed with anyOf.
	anyOf := make([]*jsonschema.Schema, 0, len(typeList))
	if len(objectSchemas) > 0 {
		anyOf = append(anyOf, mergeObjectSchemas(objectSchemas))
	}
	if len(arraySchemas) > 0 {
		anyOf = append(anyOf, mergeArraySchemas(arraySchemas))
	}
	for _, t := range typeList {
		if t != "object" && t != "array" {
			anyOf = append(anyOf, &jsonschema.Schema{Type: t})
		}
	}

	if len(anyOf) == 1 {
		return anyOf[0]
	}
	return &jsonschema.Schema{AnyOf: anyOf}
}

func mergeObjectSchemas(schemas []*jsonschema.Schema) *jsonschema.Schema {
	if len(schemas) == 0 {
		return &jsonschema.Schema{Type: "object"}
	}
	if len(schemas) == 1 {
		return schemas[0]
	}

	var order []string
	allProperties := make(map[string][]*jsonschema.Schema)
	for _, s := range schemas {
		if s.Properties == nil {
			continue
		}
		for pair := s.Properties.Oldest(); pair != nil; pair = pair.Next() {
			if _, seen := allProperties[pair.Key]; !seen {
				order = append(order, pair.Key)
			}
			allProperties[pair.Key] = append(allProperties[pair.Key], pair.Value)
		}
	}

	merged := &jsonschema.Schema{
		Type:       "object",
		Properties: jsonschema.NewProperties(),
	}
	for _, k := range order {
		merged.Properties.Set(k, mergeSchemas(allProperties[k]))
	}

	return merged
}

func mergeArraySchemas(schemas []*jsonschema.Schema) *jsonschema.Schema {
	if len(schemas) == 0 {
		return &jsonschema.Schema{Type: "array"}
	}
	if len(schemas) == 1 {
		return schemas[0]
	}

	itemSchemas := make([]*jsonschema.Schema, 0, len(schemas))
	for _, s := range schemas {
		if s.Items != nil {
			itemSchemas = append(itemSchemas, s.Items)
		}
	}

	merged := &jsonschema.Schema{Type: "array"}
	if len(itemSchemas) > 0 {
		merged.Items = mergeSchemas(itemSchemas)
	}
	return merged
}

// computeRequiredFields marks the properties present in every sample as
// required, recursing into nested objects and arrays of objects.
// With markNullableAsOptional, a property that is ever null stays optional.
func computeRequiredFields(schema *jsonschema.Schema, samples []any, markNullableAsOptional bool) {
	if schema.Type != "object" || schema.Properties == nil {
		return
	}

	propCounts := make(map[string]int)
	propNullable := make(map[string]bool)

	objects := 0
	for _, sample := range samples {
		members, ok := jsonvalue.Members(sample)
		if !ok {
			continue
		}
		if _, isArray := sample.([]any); isArray {
			continue
		}
		objects++
		for _, m := range members {
			propCounts[m.Key]++
			if m.Value == nil {
				propNullable[m.Key] = true
			}
		}
	}

	required := make([]string, 0)
	for pair := schema.Properties.Oldest(); pair != nil; pair = pair.Next() {
		if propCounts[pair.Key] != objects || objects == 0 {
			continue
		}
		if markNullableAsOptional && propNullable[pair.Key] {
			continue
		}
		required = append(required, pair.Key)
	}
	if len(required) > 0 {
		schema.Required = required
	}

	for pair := schema.Properties.Oldest(); pair != nil; pair = pair.Next() {
		propSchema := pair.Value
		switch {
		case propSchema.Type == "object":
			nested := collectNestedSamples(pair.Key, samples)
			if len(nested) > 0 {
				computeRequiredFields(propSchema, nested, markNullableAsOptional)
			}
		case propSchema.Type == "array" && propSchema.Items != nil && propSchema.Items.Type == "object":
			items := collectArrayItemSamples(pair.Key, samples)
			if len(items) > 0 {
				computeRequiredFields(propSchema.Items, items, markNullableAsOptional)
			}
		}
	}
}

// applyAdditionalProperties recursively sets additionalProperties on all object schemas.
func applyAdditionalProperties(schema *jsonschema.Schema, allowed bool) {
	if schema == nil {
		return
	}

	if schema.Type == "object" {
		if allowed {
			schema.AdditionalProperties = jsonschema.TrueSchema
		} else {
			schema.AdditionalProperties = jsonschema.FalseSchema
		}

		if schema.Properties != nil {
			for pair := schema.Properties.Oldest(); pair != nil; pair = pair.Next() {
				applyAdditionalProperties(pair.Value, allowed)
			}
		}
	}

	if schema.Type == "array" && schema.Items != nil {
		applyAdditionalProperties(schema.Items, allowed)
	}

	for _, s := range schema.AnyOf {
		applyAdditionalProperties(s, allowed)
	}
}

// collectNestedSamples extracts the non-null value of a field from each sample object.
func collectNestedSamples(fieldName string, samples []any) []any {
	var nested []any
	for _, sample := range samples {
		if val, exists := jsonvalue.Lookup(sample, fieldName); exists && val != nil {
			nested = append(nested, val)
		}
	}
	return nested
}

// collectArrayItemSamples extracts all non-null array items of a field across samples.
func collectArrayItemSamples(fieldName string, samples []any) []any {
	var items []any
	for _, sample := range samples {
		val, exists := jsonvalue.Lookup(sample, fieldName)
		if !exists {
			continue
		}
		arr, ok := val.([]any)
		if !ok {
			continue
		}
		for _, item := range arr {
			if item != nil {
				items = append(items, item)
			}
		}
	}
	return items
}
