package flatten

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedResponse matches any *MalformedResponseError via errors.Is.
var ErrMalformedResponse = errors.New("malformed response")

// MalformedResponseError reports a response whose nesting does not match the
// requested dimensions.
type MalformedResponseError struct {
	Dimension string   // dimension being unrolled
	Level     int      // zero-based index of Dimension
	Path      []string // keys traversed before the failure
	Reason    string
}

func (e *MalformedResponseError) Error() string {
	where := "at root"
	if len(e.Path) > 0 {
		where = "at " + strings.Join(e.Path, "/")
	}
	return fmt.Sprintf("malformed response: cannot unroll dimension %q (level %d) %s: %s",
		e.Dimension, e.Level, where, e.Reason)
}

// Is reports whether target is ErrMalformedResponse.
func (e *MalformedResponseError) Is(target error) bool {
	return target == ErrMalformedResponse
}
