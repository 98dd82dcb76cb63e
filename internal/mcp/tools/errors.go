package tools

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/usestring/appfigures-mcp/pkg/client"
	"github.com/usestring/appfigures-mcp/pkg/flatten"
)

// Error codes for MCP tool responses.
const (
	ErrCodeInvalidInput      = "INVALID_INPUT"
	ErrCodeInvalidState      = "INVALID_STATE"
	ErrCodeMalformedResponse = "MALFORMED_RESPONSE"
	ErrCodeConfiguration     = "CONFIGURATION"
	ErrCodeInternal          = "INTERNAL"
)

// CodedError is an error with an associated error code.
type CodedError struct {
	Code    string
	Message string
	Cause   error
}

func (e *CodedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *CodedError) Unwrap() error {
	return e.Cause
}

// WrapClientError converts a client or flatten error to a coded error.
func WrapClientError(err error) error {
	if err == nil {
		return nil
	}

	var coded *CodedError
	if errors.As(err, &coded) {
		return coded
	}

	var (
		cfgErr       *client.ConfigurationError
		stateErr     *client.InvalidStateError
		malformedErr *flatten.MalformedResponseError
	)
	switch {
	case errors.As(err, &cfgErr):
		code := ErrCodeConfiguration
		if cfgErr.Field == client.GroupByOption {
			code = ErrCodeInvalidInput
		}
		coded = &CodedError{Code: code, Message: cfgErr.Message, Cause: err}
	case errors.As(err, &stateErr):
		coded = &CodedError{Code: ErrCodeInvalidState, Message: stateErr.Message, Cause: err}
	case errors.As(err, &malformedErr):
		coded = &CodedError{Code: ErrCodeMalformedResponse, Message: malformedErr.Reason, Cause: err}
	default:
		coded = &CodedError{Code: ErrCodeInternal, Message: err.Error(), Cause: err}
	}

	slog.Warn("appfigures tool error",
		slog.String("code", coded.Code),
		slog.String("message", coded.Message),
	)

	return coded
}

// ErrInvalidInput creates an invalid input error.
func ErrInvalidInput(message string) error {
	return &CodedError{
		Code:    ErrCodeInvalidInput,
		Message: message,
	}
}
