package client

import (
	"encoding/json"
	"fmt"
	"maps"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// GroupByOption is the reserved query option holding comma-separated dimensions.
const GroupByOption = "group_by"

// StatusOK is the status inferred for bodies that carry no status field.
const StatusOK = 200

// StatusUnknown is the status inferred when the body's status field is not
// an integer.
const StatusUnknown = 0

// Header names sent with every request.
const (
	HeaderContentType   = "Content-Type"
	HeaderClientKey     = "X-Client-Key"
	HeaderAuthorization = "Authorization"
)

// Credentials authenticate requests to the API.
type Credentials struct {
	ClientKey string // sent as X-Client-Key
	AuthToken string // sent as "Authorization: Basic <token>"
}

// Options are query parameters keyed by name.
//
// Values may be strings, numbers, booleans, fmt.Stringers, slices, or nested
// maps. Nil values are skipped. The "group_by" key, when present, must hold
// a string.
type Options map[string]any

// Clone returns a shallow copy of o. A nil o stays nil.
func (o Options) Clone() Options {
	return maps.Clone(o)
}

// Encode renders o as a URL query string.
//
// Booleans encode as 1 and 0, slices as key[0]=v&key[1]=w, and nested maps
// as key[sub]=v. Keys are sorted.
func (o Options) Encode() string {
	values := url.Values{}
	for key, value := range o {
		appendValue(values, key, value)
	}
	return values.Encode()
}

func appendValue(values url.Values, key string, value any) {
	switch v := value.(type) {
	case nil:
		return
	case string:
		values.Add(key, v)
	case bool:
		if v {
			values.Add(key, "1")
		} else {
			values.Add(key, "0")
		}
	case json.Number:
		values.Add(key, v.String())
	case float64:
		values.Add(key, strconv.FormatFloat(v, 'f', -1, 64))
	case []string:
		for i, item := range v {
			appendValue(values, fmt.Sprintf("%s[%d]", key, i), item)
		}
	case []int:
		for i, item := range v {
			appendValue(values, fmt.Sprintf("%s[%d]", key, i), item)
		}
	case []any:
		for i, item := range v {
			appendValue(values, fmt.Sprintf("%s[%d]", key, i), item)
		}
	case map[string]any:
		subKeys := make([]string, 0, len(v))
		for k := range v {
			subKeys = append(subKeys, k)
		}
		sort.Strings(subKeys)
		for _, k := range subKeys {
			appendValue(values, fmt.Sprintf("%s[%s]", key, k), v[k])
		}
	case Options:
		appendValue(values, key, map[string]any(v))
	case fmt.Stringer:
		values.Add(key, v.String())
	default:
		values.Add(key, fmt.Sprint(v))
	}
}

// ParseGroupBy extracts the ordered dimension list from opts.
//
// It returns nil when opts has no group_by key, which callers must treat as
// "no grouping" rather than as an empty list. A present group_by string is
// split on commas as-is: no trimming, and empty segments become empty
// dimension names, so "" yields [""]. A non-string group_by fails with a
// *ConfigurationError. opts is not modified.
func ParseGroupBy(opts Options) ([]string, error) {
	raw, ok := opts[GroupByOption]
	if !ok {
		return nil, nil
	}
	s, ok := raw.(string)
	if !ok {
		return nil, &ConfigurationError{
			Field:   GroupByOption,
			Message: fmt.Sprintf("must be a ','-delimited string, got %T", raw),
		}
	}
	return strings.Split(s, ","), nil
}

// Info is a diagnostic snapshot of the client and its last request.
type Info struct {
	URL            string            `json:"url"`
	Headers        map[string]string `json:"headers"`
	Route          *string           `json:"route"`
	Options        Options           `json:"options"`
	GroupKeys      []string          `json:"group_keys"`
	StatusCode     *int              `json:"status_code"`
	HTTPStatus     int               `json:"http_status,omitempty"`
	TransportError string            `json:"transport_error,omitempty"`
}
