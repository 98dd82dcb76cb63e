package mcp

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	return &buf
}

func handlerReturning(result sdkmcp.Result, err error) sdkmcp.MethodHandler {
	return func(context.Context, string, sdkmcp.Request) (sdkmcp.Result, error) {
		return result, err
	}
}

func TestLoggingMiddleware_ToolCall(t *testing.T) {
	buf := captureLogs(t)
	h := LoggingMiddleware()(handlerReturning(&sdkmcp.CallToolResult{}, nil))

	req := &sdkmcp.CallToolRequest{Params: &sdkmcp.CallToolParamsRaw{Name: "appfigures_get"}}
	_, err := h(context.Background(), "tools/call", req)
	assert.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "level=INFO")
	assert.Contains(t, out, "method=tools/call")
	assert.Contains(t, out, "tool=appfigures_get")
}

func TestLoggingMiddleware_ToolError(t *testing.T) {
	buf := captureLogs(t)
	h := LoggingMiddleware()(handlerReturning(&sdkmcp.CallToolResult{IsError: true}, nil))

	req := &sdkmcp.CallToolRequest{Params: &sdkmcp.CallToolParamsRaw{Name: "appfigures_query"}}
	_, _ = h(context.Background(), "tools/call", req)

	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "tool returned an error")
}

func TestLoggingMiddleware_Failure(t *testing.T) {
	buf := captureLogs(t)
	h := LoggingMiddleware()(handlerReturning(nil, errors.New("unknown view")))

	req := &sdkmcp.ReadResourceRequest{Params: &sdkmcp.ReadResourceParams{URI: "appfigures://last/nope"}}
	_, err := h(context.Background(), "resources/read", req)
	assert.Error(t, err)

	out := buf.String()
	assert.Contains(t, out, "level=ERROR")
	assert.Contains(t, out, "uri=appfigures://last/nope")
	assert.Contains(t, out, `error="unknown view"`)
}
