package client

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration matches any *ConfigurationError via errors.Is.
	ErrConfiguration = errors.New("configuration error")
	// ErrInvalidState matches any *InvalidStateError via errors.Is.
	ErrInvalidState = errors.New("invalid state")
)

// ConfigurationError reports missing credentials or a malformed option.
type ConfigurationError struct {
	Field   string
	Message string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Message)
}

// Is reports whether target is ErrConfiguration.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// InvalidStateError reports an operation that needs a prior successful request.
type InvalidStateError struct {
	Op      string
	Message string
	Status  int   // inferred status of the last request, when there was one
	Cause   error // transport or decode failure of the last request, if any
}

func (e *InvalidStateError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// Is reports whether target is ErrInvalidState.
func (e *InvalidStateError) Is(target error) bool {
	return target == ErrInvalidState
}

func (e *InvalidStateError) Unwrap() error {
	return e.Cause
}

func errNoRequest(op string) error {
	return &InvalidStateError{Op: op, Message: "no request has been made"}
}
