package inject

import (
	"errors"
	"fmt"
)

// ErrUnclassifiable marks a declared parameter with neither a name nor a
// type; no resolution strategy can serve it. Raised by Compile, at
// registration time only.
var ErrUnclassifiable = errors.New("parameter has neither a name nor a type")

// UnresolvedParameterError reports a parameter no source could supply for
// one request: the name was absent from both path parameters and the
// injection cache, every fallback branch failed, or the resolved value does
// not fit the handler's parameter type. Recoverable per request; the
// dispatcher turns it into a client error response.
type UnresolvedParameterError struct {
	Name  string
	cause error
}

func (e *UnresolvedParameterError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("unresolved parameter %q: %v", e.Name, e.cause)
	}
	return fmt.Sprintf("unresolved parameter %q", e.Name)
}

func (e *UnresolvedParameterError) Unwrap() error { return e.cause }
