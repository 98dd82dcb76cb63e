package tools

import (
	"sync"

	"github.com/usestring/appfigures-mcp/internal/config"
	"github.com/usestring/appfigures-mcp/internal/query"
	"github.com/usestring/appfigures-mcp/pkg/client"
)

// Deps contains all dependencies needed by tool handlers.
type Deps struct {
	// Client is nil when it could not be built; ClientErr then says why.
	Client    *client.Client
	ClientErr error
	Config    *config.Config
	Query     *query.Engine

	// mu serializes access to Client, which keeps per-request state.
	mu sync.Mutex
}

// WithClient runs fn while holding the client lock. It fails with a
// CONFIGURATION error when no client is available. Errors returned by fn
// are converted with WrapClientError.
func (d *Deps) WithClient(fn func(c *client.Client) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.Client == nil {
		err := d.ClientErr
		if err == nil {
			err = &client.ConfigurationError{Field: "client", Message: "no API client configured"}
		}
		return &CodedError{Code: ErrCodeConfiguration, Message: "AppFigures client unavailable", Cause: err}
	}
	return WrapClientError(fn(d.Client))
}
