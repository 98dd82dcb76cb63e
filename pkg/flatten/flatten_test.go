package flatten

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/appfigures-mcp/pkg/jsonvalue"
)

func decode(t *testing.T, s string) any {
	t.Helper()
	v, err := jsonvalue.Decode([]byte(s))
	require.NoError(t, err)
	return v
}

func encode(t *testing.T, v any) string {
	t.Helper()
	out, err := json.Marshal(v)
	require.NoError(t, err)
	return string(out)
}

func TestFlatten_NilDimensionsPassThrough(t *testing.T) {
	for _, input := range []string{`{"x": {"p": 1}}`, `"scalar"`, `null`, `[1, 2]`} {
		body := decode(t, input)
		got, err := Flatten(nil, body)
		require.NoError(t, err)
		assert.Equal(t, body, got, input)
	}

	obj := decode(t, `{"x": 1}`)
	got, err := Flatten(nil, obj)
	require.NoError(t, err)
	assert.Same(t, obj.(*jsonvalue.Object), got.(*jsonvalue.Object))
}

func TestFlatten_NilDimensionsPassThroughScalar(t *testing.T) {
	got, err := Flatten(nil, "leaf")
	require.NoError(t, err)
	assert.Equal(t, "leaf", got)
}

func TestFlatten_EmptyDimensionsWrapBody(t *testing.T) {
	body := decode(t, `{"x": 1}`)
	got, err := Flatten([]string{}, body)
	require.NoError(t, err)

	records, ok := got.([]Record)
	require.True(t, ok)
	require.Len(t, records, 1)
	assert.Equal(t, `{"data":{"x":1}}`, encode(t, records[0]))
	assert.Empty(t, records[0].Bindings())
}

func TestFlatten_TwoLevels(t *testing.T) {
	body := decode(t, `{"x": {"p": "leafA", "q": "leafB"}, "y": {"r": "leafC"}}`)

	got, err := Flatten([]string{"a", "b"}, body)
	require.NoError(t, err)

	records := got.([]Record)
	require.Len(t, records, 3)
	assert.Equal(t,
		`[{"a":"x","b":"p","data":"leafA"},{"a":"x","b":"q","data":"leafB"},{"a":"y","b":"r","data":"leafC"}]`,
		encode(t, records))

	key, ok := records[2].Key("a")
	assert.True(t, ok)
	assert.Equal(t, "y", key)
	assert.Equal(t, []string{"y", "r"}, records[2].Path())
}

func TestFlatten_FollowsResponseKeyOrder(t *testing.T) {
	body := decode(t, `{"2015-03-02": {"b": 1}, "2015-03-01": {"a": 2}}`)

	records, err := Records([]string{"dates", "products"}, body)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "2015-03-02", records[0].Path()[0])
	assert.Equal(t, "2015-03-01", records[1].Path()[0])
}

func TestFlatten_EmptyDimensionName(t *testing.T) {
	body := decode(t, `{"x": 1, "y": 2}`)

	records, err := Records([]string{""}, body)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, `{"":"x","data":1}`, encode(t, records[0]))
}

func TestFlatten_PartialDepthKeepsSubtree(t *testing.T) {
	body := decode(t, `{"x": {"p": {"deep": true}}}`)

	records, err := Records([]string{"a"}, body)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, `{"a":"x","data":{"p":{"deep":true}}}`, encode(t, records[0]))
}

func TestFlatten_RecordCountIsProductOfBranching(t *testing.T) {
	body := decode(t, `{
		"d1": {"p1": {"c1": 1, "c2": 2}, "p2": {"c1": 3}},
		"d2": {"p1": {"c1": 4, "c2": 5, "c3": 6}},
		"d3": {}
	}`)

	records, err := Records([]string{"dates", "products", "countries"}, body)
	require.NoError(t, err)
	assert.Len(t, records, 6)
}

func TestFlatten_ArraysUnrollByIndex(t *testing.T) {
	body := decode(t, `{"x": ["first", "second"]}`)

	records, err := Records([]string{"a", "i"}, body)
	require.NoError(t, err)
	assert.Equal(t,
		`[{"a":"x","i":"0","data":"first"},{"a":"x","i":"1","data":"second"}]`,
		encode(t, records))
}

func TestFlatten_RepeatedDimensionOverwrites(t *testing.T) {
	body := decode(t, `{"x": {"p": 1}}`)

	records, err := Records([]string{"a", "a"}, body)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, `{"a":"p","data":1}`, encode(t, records[0]))
	assert.Equal(t, []string{"x", "p"}, records[0].Path())
}

func TestFlatten_DimensionNamedDataIsShadowed(t *testing.T) {
	body := decode(t, `{"x": 7}`)

	records, err := Records([]string{"data"}, body)
	require.NoError(t, err)
	assert.Equal(t, `{"data":7}`, encode(t, records[0]))

	key, ok := records[0].Key("data")
	assert.True(t, ok)
	assert.Equal(t, "x", key)
}

func TestFlatten_TooShallowIsMalformed(t *testing.T) {
	body := decode(t, `{"x": {"p": 1}, "y": 2}`)

	_, err := Records([]string{"a", "b"}, body)
	require.Error(t, err)

	var malformed *MalformedResponseError
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, "b", malformed.Dimension)
	assert.Equal(t, 1, malformed.Level)
	assert.Equal(t, []string{"y"}, malformed.Path)
	assert.ErrorIs(t, err, ErrMalformedResponse)
	assert.Contains(t, err.Error(), "a number")
}

func TestFlatten_NullBodyIsMalformed(t *testing.T) {
	_, err := Flatten([]string{"a"}, nil)
	assert.ErrorIs(t, err, ErrMalformedResponse)
	assert.Contains(t, err.Error(), "at root")
}

func TestRegroup_RoundTrip(t *testing.T) {
	input := `{"x":{"p":"leafA","q":{"n":1}},"y":{"r":[1,2]}}`
	body := decode(t, input)
	dims := []string{"a", "b"}

	records, err := Records(dims, body)
	require.NoError(t, err)

	rebuilt, err := Regroup(dims, records)
	require.NoError(t, err)
	assert.Equal(t, input, encode(t, rebuilt))
}

func TestRegroup_RoundTripRepeatedDimension(t *testing.T) {
	input := `{"x":{"p":1,"q":2}}`
	dims := []string{"a", "a"}

	records, err := Records(dims, decode(t, input))
	require.NoError(t, err)

	rebuilt, err := Regroup(dims, records)
	require.NoError(t, err)
	assert.Equal(t, input, encode(t, rebuilt))
}

func TestRegroup_NoDimensions(t *testing.T) {
	rebuilt, err := Regroup(nil, []Record{NewRecord("only")})
	require.NoError(t, err)
	assert.Equal(t, "only", rebuilt)

	_, err = Regroup(nil, []Record{NewRecord(1), NewRecord(2)})
	assert.Error(t, err)
}

func TestRegroup_RejectsDuplicates(t *testing.T) {
	rec := NewRecord(nil).With("a", "x", 1)
	_, err := Regroup([]string{"a"}, []Record{rec, rec})
	assert.ErrorContains(t, err, "duplicate leaf")
}

func TestRegroup_MissingDimension(t *testing.T) {
	rec := NewRecord(nil).With("a", "x", 1)
	_, err := Regroup([]string{"a", "b"}, []Record{rec})
	assert.ErrorContains(t, err, `missing dimension "b"`)
}

func TestValues(t *testing.T) {
	records, err := Records([]string{"a"}, decode(t, `{"x": 1}`))
	require.NoError(t, err)

	values := Values(records)
	require.Len(t, values, 1)
	assert.Equal(t, `{"a":"x","data":1}`, encode(t, values[0]))
}

func TestFields(t *testing.T) {
	assert.Equal(t, []string{"data"}, Fields(nil))
	assert.Equal(t, []string{"dates", "products", "data"}, Fields([]string{"dates", "products"}))
	assert.Equal(t, []string{"a", "data"}, Fields([]string{"a", "data", "a"}))
	assert.Equal(t, []string{"", "data"}, Fields([]string{""}))
}
