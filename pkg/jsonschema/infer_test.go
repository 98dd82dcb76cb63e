package jsonschema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/appfigures-mcp/pkg/flatten"
	"github.com/usestring/appfigures-mcp/pkg/jsonvalue"
)

func propertyNames(t *testing.T, result *InferredSchema) []string {
	t.Helper()
	require.NotNil(t, result)
	require.NotNil(t, result.Schema.Properties)
	var names []string
	for pair := result.Schema.Properties.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}

func TestInfer_PrimitiveTypes(t *testing.T) {
	tests := []struct {
		name     string
		json     string
		expected string
	}{
		{"string", `"hello"`, "string"},
		{"integer", `42`, "integer"},
		{"whole float", `1.0`, "integer"},
		{"float", `3.14`, "number"},
		{"boolean", `true`, "boolean"},
		{"null", `null`, "null"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Infer([]byte(tt.json))
			require.NoError(t, err)
			require.NotNil(t, result)
			assert.Equal(t, tt.expected, result.Schema.Type)
		})
	}
}

func TestInfer_NoSamples(t *testing.T) {
	result, err := Infer()
	require.NoError(t, err)
	assert.Nil(t, result)

	result, err = Infer([]byte(`{broken`))
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestInfer_ObjectKeepsDocumentOrder(t *testing.T) {
	result, err := Infer([]byte(`{"revenue": "1.00", "downloads": 3, "app": "x"}`))
	require.NoError(t, err)

	assert.Equal(t, []string{"revenue", "downloads", "app"}, propertyNames(t, result))
	assert.Equal(t, []string{"revenue", "downloads", "app"}, result.Schema.Required)
}

func TestInfer_MergesSamples(t *testing.T) {
	result, err := Infer(
		[]byte(`{"id": 1, "name": "a", "score": 1}`),
		[]byte(`{"id": 2, "score": 2.5, "extra": null}`),
	)
	require.NoError(t, err)

	assert.False(t, result.AllMatch)
	assert.Equal(t, 2, result.SampleCount)
	assert.Equal(t, []string{"id", "name", "score", "extra"}, propertyNames(t, result))
	assert.Equal(t, []string{"id", "score"}, result.Schema.Required)

	score, ok := result.Schema.Properties.Get("score")
	require.True(t, ok)
	assert.Equal(t, "number", score.Type)
}

func TestInfer_MixedTypesUseAnyOf(t *testing.T) {
	result, err := Infer([]byte(`{"v": "x"}`), []byte(`{"v": 1}`))
	require.NoError(t, err)

	v, ok := result.Schema.Properties.Get("v")
	require.True(t, ok)
	require.Len(t, v.AnyOf, 2)
	assert.Equal(t, "integer", v.AnyOf[0].Type)
	assert.Equal(t, "string", v.AnyOf[1].Type)
}

func TestInfer_ArrayOfObjects(t *testing.T) {
	result, err := Infer([]byte(`{"items": [{"id": 1, "tag": "a"}, {"id": 2}]}`))
	require.NoError(t, err)

	items, ok := result.Schema.Properties.Get("items")
	require.True(t, ok)
	assert.Equal(t, "array", items.Type)
	require.NotNil(t, items.Items)
	assert.Equal(t, "object", items.Items.Type)
	assert.Equal(t, []string{"id"}, items.Items.Required)
}

func TestInferValues_AdditionalProperties(t *testing.T) {
	v, err := jsonvalue.Decode([]byte(`{"a": {"b": 1}}`))
	require.NoError(t, err)

	allowed := false
	result, err := InferValues(&InferOptions{AdditionalProperties: &allowed}, v)
	require.NoError(t, err)

	out, err := json.Marshal(result.Schema)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"additionalProperties":false`)
	assert.Empty(t, result.Schema.Required)
}

func TestInferValues_AllMatch(t *testing.T) {
	result, err := InferValues(nil, map[string]any{"a": 1}, map[string]any{"a": 2})
	require.NoError(t, err)
	assert.True(t, result.AllMatch)
}

func TestInferRecords(t *testing.T) {
	body, err := jsonvalue.Decode([]byte(`{
		"2015-03-01": {"6000": {"downloads": 4, "revenue": "1.99"}},
		"2015-03-02": {"6000": {"downloads": 7, "revenue": null}}
	}`))
	require.NoError(t, err)
	dims := []string{"dates", "products"}
	records, err := flatten.Records(dims, body)
	require.NoError(t, err)

	result, err := InferRecords(dims, records)
	require.NoError(t, err)

	assert.Equal(t, 2, result.SampleCount)
	assert.Equal(t, []string{"dates", "products", "data"}, propertyNames(t, result))
	assert.Equal(t, []string{"dates", "products", "data"}, result.Schema.Required)

	dates, _ := result.Schema.Properties.Get("dates")
	assert.Equal(t, "string", dates.Type)

	data, _ := result.Schema.Properties.Get("data")
	assert.Equal(t, "object", data.Type)
	assert.Equal(t, []string{"downloads"}, data.Required)
}

func TestInferRecords_DataDimensionAndRepeats(t *testing.T) {
	records := []flatten.Record{
		flatten.NewRecord(nil).With("data", "k", nil).With("a", "x", 1),
	}

	result, err := InferRecords([]string{"data", "a", "a"}, records)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "data"}, result.Schema.Required)
}

func TestInferRecords_Empty(t *testing.T) {
	result, err := InferRecords([]string{"dates"}, nil)
	require.NoError(t, err)
	assert.Nil(t, result)
}
