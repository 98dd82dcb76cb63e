package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"hermannm.dev/enumnames"

	"github.com/usestring/appfigures-mcp/pkg/client"
	"github.com/usestring/appfigures-mcp/pkg/flatten"
	"github.com/usestring/appfigures-mcp/pkg/jsonvalue"
)

type outputFormat int8

const (
	outputRaw outputFormat = iota + 1
	outputJSON
	outputFlat
	outputCSV
)

var outputFormatNames = enumnames.NewMap(map[outputFormat]string{
	outputRaw:  "raw",
	outputJSON: "json",
	outputFlat: "flat",
	outputCSV:  "csv",
})

// String, Set and Type make outputFormat usable as a pflag.Value.

func (f outputFormat) String() string {
	return outputFormatNames.GetNameOrFallback(f, "invalid")
}

func (f *outputFormat) Set(name string) error {
	if err := outputFormatNames.UnmarshalFromNameJSON([]byte(strconv.Quote(name)), f); err != nil {
		return fmt.Errorf("unknown output format '%s' (must be raw/json/flat/csv)", name)
	}
	return nil
}

func (f *outputFormat) Type() string {
	return "format"
}

// writeOutput prints the client's current response in the given format.
// The flat and csv formats fail unless the response flattened cleanly.
func writeOutput(w io.Writer, c *client.Client, format outputFormat) error {
	switch format {
	case outputRaw:
		s, err := c.AsJSON()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, s)
		return err
	case outputJSON:
		body, err := c.AsObject()
		if err != nil {
			return err
		}
		return writeIndented(w, body)
	case outputFlat:
		flat, err := c.Flatten()
		if err != nil {
			return err
		}
		return writeIndented(w, flat)
	case outputCSV:
		dims, err := c.GroupBy()
		if err != nil {
			return err
		}
		if dims == nil {
			return fmt.Errorf("csv output requires --group-by")
		}
		records, err := c.Records()
		if err != nil {
			return err
		}
		return writeCSV(w, dims, records)
	default:
		return fmt.Errorf("unknown output format %d", format)
	}
}

func writeIndented(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeCSV writes one row per record. Columns are the distinct dimensions
// followed by "data"; structured leaves are written as compact JSON.
func writeCSV(w io.Writer, dims []string, records []flatten.Record) error {
	fields := flatten.Fields(dims)
	cw := csv.NewWriter(w)
	if err := cw.Write(fields); err != nil {
		return err
	}

	row := make([]string, len(fields))
	for _, rec := range records {
		for i, field := range fields[:len(fields)-1] {
			row[i], _ = rec.Key(field)
		}
		cell, err := csvCell(rec.Data)
		if err != nil {
			return err
		}
		row[len(row)-1] = cell
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func csvCell(v any) (string, error) {
	switch val := v.(type) {
	case nil:
		return "", nil
	case string:
		return val, nil
	case json.Number:
		return val.String(), nil
	case bool:
		return strconv.FormatBool(val), nil
	default:
		data, err := jsonvalue.Encode(val)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
}
