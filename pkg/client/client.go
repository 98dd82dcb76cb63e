package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/usestring/appfigures-mcp/pkg/contenttype"
	"github.com/usestring/appfigures-mcp/pkg/flatten"
	"github.com/usestring/appfigures-mcp/pkg/jsonvalue"
)

// DefaultBaseURL is the default base URL for the AppFigures API.
const DefaultBaseURL = "https://api.appfigures.com/v2"

// DefaultMaxBodyBytes caps how much of a response body is read.
const DefaultMaxBodyBytes = 32 << 20

// Client is an AppFigures API client. It is not safe for concurrent use.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	maxBodyBytes int64
	headers      map[string]string
	auth         map[string]string

	last *lastRequest
}

// lastRequest is the outcome of the most recent Get, replaced as a unit.
type lastRequest struct {
	route        string
	options      Options
	groupBy      []string
	body         any
	status       int
	httpStatus   int
	transportErr error
}

// Option is a functional option for configuring the Client.
type Option func(*Client)

// WithBaseURL sets a custom base URL for the API.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout sets the timeout of the default HTTP client.
// It has no effect on a client supplied through WithHTTPClient.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if c.httpClient == http.DefaultClient {
			c.httpClient = &http.Client{Timeout: timeout}
		}
	}
}

// WithMaxBodyBytes limits how many response bytes are read and decoded.
func WithMaxBodyBytes(n int64) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxBodyBytes = n
		}
	}
}

// New creates a new AppFigures API client.
// Both credentials are required; a missing one fails with a *ConfigurationError.
func New(creds Credentials, opts ...Option) (*Client, error) {
	if creds.ClientKey == "" || creds.AuthToken == "" {
		return nil, &ConfigurationError{
			Field:   "credentials",
			Message: "unable to get AppFigures client key and auth token",
		}
	}

	c := &Client{
		baseURL:      DefaultBaseURL,
		httpClient:   http.DefaultClient,
		maxBodyBytes: DefaultMaxBodyBytes,
		headers: map[string]string{
			HeaderContentType: "application/json",
		},
		auth: map[string]string{
			HeaderClientKey:     creds.ClientKey,
			HeaderAuthorization: "Basic " + creds.AuthToken,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Get performs a GET request against route with opts as query parameters and
// makes the outcome the client's current state. An empty route means "/".
//
// Get only fails when opts carries a non-string group_by; the client state is
// left untouched in that case. Transport and decode failures are not
// returned: the body becomes nil and the failure shows up in Info and in
// Flatten. Get returns the client itself so calls can be chained.
func (c *Client) Get(ctx context.Context, route string, opts Options) (*Client, error) {
	if route == "" {
		route = "/"
	}

	groupBy, err := ParseGroupBy(opts)
	if err != nil {
		return c, err
	}

	req := &lastRequest{
		route:   route,
		options: opts.Clone(),
		groupBy: groupBy,
	}

	req.body, req.httpStatus, req.transportErr = c.get(ctx, route, opts)
	req.status = inferStatus(req.body)

	c.last = req
	return c, nil
}

// get performs a GET request and decodes the JSON response.
// The response body is closed on every path.
func (c *Client) get(ctx context.Context, route string, opts Options) (any, int, error) {
	start := time.Now()

	u := c.baseURL + route
	if query := opts.Encode(); query != "" {
		u += "?" + query
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("creating request: %w", err)
	}
	for name, value := range c.headers {
		req.Header.Set(name, value)
	}
	for name, value := range c.auth {
		req.Header.Set(name, value)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Warn("HTTP request failed",
			slog.String("method", "GET"),
			slog.String("route", route),
			slog.String("error", err.Error()),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return nil, 0, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodyBytes+1))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("reading response: %w", err)
	}
	if int64(len(data)) > c.maxBodyBytes {
		return nil, resp.StatusCode, fmt.Errorf("response body exceeds %d bytes", c.maxBodyBytes)
	}

	body, err := jsonvalue.Decode(data)
	if err != nil {
		got := contenttype.Describe(resp.Header.Get("Content-Type"), data)
		slog.Warn("HTTP response is not valid JSON",
			slog.String("route", route),
			slog.Int("status", resp.StatusCode),
			slog.String("body", got),
			slog.String("error", err.Error()),
		)
		return nil, resp.StatusCode, fmt.Errorf("decoding response (%s): %w", got, err)
	}

	slog.Debug("HTTP request completed",
		slog.String("method", "GET"),
		slog.String("route", route),
		slog.Int("status", resp.StatusCode),
		slog.Int("bytes", len(data)),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()),
	)

	return body, resp.StatusCode, nil
}

// inferStatus reads the application-level status the API embeds in error
// bodies. Bodies without one, including nil, count as StatusOK.
func inferStatus(body any) int {
	raw, ok := jsonvalue.Lookup(body, "status")
	if !ok {
		return StatusOK
	}
	status, err := jsonvalue.Int(raw)
	if err != nil {
		return StatusUnknown
	}
	return status
}

// Status returns the status inferred from the last response body.
func (c *Client) Status() (int, error) {
	if c.last == nil {
		return 0, errNoRequest("status")
	}
	return c.last.status, nil
}

// AsObject returns the last decoded body as-is.
func (c *Client) AsObject() (any, error) {
	if c.last == nil {
		return nil, errNoRequest("as object")
	}
	return c.last.body, nil
}

// AsJSON returns the last decoded body serialized as JSON text.
func (c *Client) AsJSON() (string, error) {
	if c.last == nil {
		return "", errNoRequest("as JSON")
	}
	data, err := jsonvalue.Encode(c.last.body)
	if err != nil {
		return "", fmt.Errorf("encoding response: %w", err)
	}
	return string(data), nil
}

// GroupBy returns the dimensions parsed from the last request's group_by
// option, or nil when it had none.
func (c *Client) GroupBy() ([]string, error) {
	if c.last == nil {
		return nil, errNoRequest("group by")
	}
	return c.last.groupBy, nil
}

// Flatten returns the last body flattened along its group_by dimensions.
//
// Without group_by the body is returned unchanged; otherwise the result is a
// []flatten.Record. The last request must have succeeded with status 200,
// else Flatten fails with an *InvalidStateError. Bodies nested less deeply
// than the dimension list fail with a *flatten.MalformedResponseError.
func (c *Client) Flatten() (any, error) {
	if err := c.checkFlattenable("flatten"); err != nil {
		return nil, err
	}
	return flatten.Flatten(c.last.groupBy, c.last.body)
}

// Records is Flatten for callers that need typed records. It fails with an
// *InvalidStateError when the last request had no group_by option.
func (c *Client) Records() ([]flatten.Record, error) {
	if err := c.checkFlattenable("records"); err != nil {
		return nil, err
	}
	if c.last.groupBy == nil {
		return nil, &InvalidStateError{
			Op:      "records",
			Message: "last request had no " + GroupByOption + " option",
			Status:  c.last.status,
		}
	}
	return flatten.Records(c.last.groupBy, c.last.body)
}

func (c *Client) checkFlattenable(op string) error {
	if c.last == nil {
		return &InvalidStateError{Op: op, Message: "cannot flatten an absent response"}
	}
	if c.last.transportErr != nil {
		return &InvalidStateError{
			Op:      op,
			Message: "cannot flatten an absent response",
			Status:  c.last.status,
			Cause:   c.last.transportErr,
		}
	}
	if c.last.status != StatusOK {
		return &InvalidStateError{
			Op:      op,
			Message: fmt.Sprintf("cannot flatten an errored response (status %d)", c.last.status),
			Status:  c.last.status,
		}
	}
	return nil
}

// Info returns a snapshot of the client configuration and last request.
// Authorization headers are not included.
func (c *Client) Info() Info {
	headers := make(map[string]string, len(c.headers))
	for name, value := range c.headers {
		headers[name] = value
	}

	info := Info{
		URL:     c.baseURL,
		Headers: headers,
	}
	if c.last == nil {
		return info
	}

	route := c.last.route
	status := c.last.status
	info.Route = &route
	info.Options = c.last.options.Clone()
	if c.last.groupBy != nil {
		info.GroupKeys = append([]string{}, c.last.groupBy...)
	}
	info.StatusCode = &status
	info.HTTPStatus = c.last.httpStatus
	if c.last.transportErr != nil {
		info.TransportError = c.last.transportErr.Error()
	}
	return info
}

// String renders Info as JSON.
func (c *Client) String() string {
	data, err := json.Marshal(c.Info())
	if err != nil {
		return fmt.Sprintf("client.Client{url: %s}", c.baseURL)
	}
	return string(data)
}
