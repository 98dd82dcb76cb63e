package mcp

import (
	"context"
	"log/slog"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// LoggingMiddleware returns middleware that logs every incoming method call
// together with the tool, prompt, or resource it names. Tool calls that end
// in an error result are logged at warn level.
func LoggingMiddleware() sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			start := time.Now()

			result, err := next(ctx, method, req)

			attrs := []slog.Attr{slog.String("method", method)}
			attrs = append(attrs, targetAttrs(req)...)
			attrs = append(attrs, slog.Int64("duration_ms", time.Since(start).Milliseconds()))

			switch {
			case err != nil:
				attrs = append(attrs, slog.String("error", err.Error()))
				slog.LogAttrs(ctx, slog.LevelError, "method call failed", attrs...)
			case isToolError(result):
				slog.LogAttrs(ctx, slog.LevelWarn, "tool returned an error", attrs...)
			default:
				slog.LogAttrs(ctx, slog.LevelInfo, "method call completed", attrs...)
			}

			return result, err
		}
	}
}

func targetAttrs(req sdkmcp.Request) []slog.Attr {
	if req == nil {
		return nil
	}
	switch p := req.GetParams().(type) {
	case *sdkmcp.CallToolParamsRaw:
		return []slog.Attr{slog.String("tool", p.Name)}
	case *sdkmcp.GetPromptParams:
		return []slog.Attr{slog.String("prompt", p.Name)}
	case *sdkmcp.ReadResourceParams:
		return []slog.Attr{slog.String("uri", p.URI)}
	}
	return nil
}

func isToolError(result sdkmcp.Result) bool {
	r, ok := result.(*sdkmcp.CallToolResult)
	return ok && r != nil && r.IsError
}
