package main

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/appfigures-mcp/pkg/client"
	"github.com/usestring/appfigures-mcp/pkg/flatten"
	"github.com/usestring/appfigures-mcp/pkg/jsonvalue"
)

const salesByDateProduct = `{
	"2015-03-01": {"6000": {"downloads": 3, "revenue": "1.99"}, "6001": {"downloads": 1, "revenue": "0.00"}},
	"2015-03-02": {"6000": {"downloads": 5, "revenue": "3.98"}}
}`

func fetch(t *testing.T, body string, opts client.Options) *client.Client {
	t.Helper()
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(api.Close)

	c, err := client.New(client.Credentials{ClientKey: "key", AuthToken: "token"}, client.WithBaseURL(api.URL))
	require.NoError(t, err)
	_, err = c.Get(context.Background(), "/reports/sales", opts)
	require.NoError(t, err)
	return c
}

func TestOutputFormat_Set(t *testing.T) {
	var f outputFormat
	require.NoError(t, f.Set("csv"))
	assert.Equal(t, outputCSV, f)
	assert.Equal(t, "csv", f.String())

	assert.Error(t, f.Set("xml"))
	assert.Equal(t, "invalid", outputFormat(0).String())
}

func TestParseOptions(t *testing.T) {
	opts, err := parseOptions([]string{"start_date=2015-03-01", "countries=US", "countries=GB", "countries=DE", "q=a=b"})
	require.NoError(t, err)
	assert.Equal(t, client.Options{
		"start_date": "2015-03-01",
		"countries":  []string{"US", "GB", "DE"},
		"q":          "a=b",
	}, opts)

	_, err = parseOptions([]string{"novalue"})
	assert.ErrorContains(t, err, "expected key=value")

	_, err = parseOptions([]string{"=x"})
	assert.Error(t, err)
}

func TestWriteCSV(t *testing.T) {
	body, err := jsonvalue.Decode([]byte(salesByDateProduct))
	require.NoError(t, err)
	records, err := flatten.Records([]string{"dates", "products"}, body)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, writeCSV(&buf, []string{"dates", "products"}, records))
	assert.Equal(t, "dates,products,data\n"+
		`2015-03-01,6000,"{""downloads"":3,""revenue"":""1.99""}"`+"\n"+
		`2015-03-01,6001,"{""downloads"":1,""revenue"":""0.00""}"`+"\n"+
		`2015-03-02,6000,"{""downloads"":5,""revenue"":""3.98""}"`+"\n", buf.String())
}

func TestWriteCSV_ScalarLeaves(t *testing.T) {
	body, err := jsonvalue.Decode([]byte(`{"a": 1.5, "b": "text", "c": true, "d": null}`))
	require.NoError(t, err)
	records, err := flatten.Records([]string{"key"}, body)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, writeCSV(&buf, []string{"key"}, records))
	assert.Equal(t, "key,data\na,1.5\nb,text\nc,true\nd,\n", buf.String())
}

func TestWriteOutput(t *testing.T) {
	c := fetch(t, `{"b": 1, "a": 2}`, nil)

	var buf bytes.Buffer
	require.NoError(t, writeOutput(&buf, c, outputRaw))
	assert.Equal(t, "{\"b\":1,\"a\":2}\n", buf.String())

	buf.Reset()
	require.NoError(t, writeOutput(&buf, c, outputJSON))
	assert.Equal(t, "{\n  \"b\": 1,\n  \"a\": 2\n}\n", buf.String())

	buf.Reset()
	assert.ErrorContains(t, writeOutput(&buf, c, outputCSV), "requires --group-by")
}

func TestWriteOutput_Flat(t *testing.T) {
	c := fetch(t, salesByDateProduct, client.Options{"group_by": "dates,products"})

	var buf bytes.Buffer
	require.NoError(t, writeOutput(&buf, c, outputFlat))
	assert.Contains(t, buf.String(), `"products": "6001"`)
}

func TestWriteOutput_ErroredResponse(t *testing.T) {
	c := fetch(t, `{"status": 401, "message": "unauthorized"}`, client.Options{"group_by": "dates"})

	var buf bytes.Buffer
	assert.ErrorIs(t, writeOutput(&buf, c, outputFlat), client.ErrInvalidState)
	assert.ErrorIs(t, writeOutput(&buf, c, outputCSV), client.ErrInvalidState)

	require.NoError(t, writeOutput(&buf, c, outputRaw))
	assert.Contains(t, buf.String(), "unauthorized")
}

func TestWriteQuery(t *testing.T) {
	c := fetch(t, salesByDateProduct, client.Options{"group_by": "dates,products"})

	var buf bytes.Buffer
	require.NoError(t, writeQuery(&buf, c, `.[] | select(.products == "6000") | .data.downloads`))
	assert.Equal(t, "3\n5\n", buf.String())

	ungrouped := fetch(t, `{"total": 7}`, nil)
	buf.Reset()
	require.NoError(t, writeQuery(&buf, ungrouped, `.total`))
	assert.Equal(t, "7\n", buf.String())
}

func TestGetCommand(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/reports/sales", r.URL.Path)
		assert.Equal(t, "dates", r.URL.Query().Get("group_by"))
		assert.Equal(t, "2015-03-01", r.URL.Query().Get("start_date"))
		_, _ = w.Write([]byte(`{"2015-03-01": {"downloads": 3}}`))
	}))
	defer api.Close()

	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
	t.Setenv("APPFIGURES_ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv("APPFIGURES_CLIENT_KEY", "key")
	t.Setenv("APPFIGURES_AUTH_TOKEN", "token")
	t.Setenv("APPFIGURES_BASE_URL", api.URL)
	t.Setenv("LOG_LEVEL", "error")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"get", "/reports/sales",
		"--group-by", "dates", "--opt", "start_date=2015-03-01", "--output", "csv", "--log-format", "text"})
	t.Cleanup(func() { rootCmd.SetArgs(nil); rootCmd.SetOut(nil) })

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "dates,data\n2015-03-01,\"{\"\"downloads\"\":3}\"\n", out.String())
}
