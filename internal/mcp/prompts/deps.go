// Package prompts contains MCP prompt implementations for the AppFigures API.
package prompts

// Config holds configuration needed by prompts.
type Config struct {
	BaseURL            string
	DefaultRecordLimit int
}
