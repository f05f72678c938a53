package content

import (
	"errors"
	"fmt"
)

// Error kinds. Every failure raised while broadcasting wraps exactly one.
var (
	ErrShapeMismatch        = errors.New("shape mismatch")
	ErrUnsupportedBroadcast = errors.New("unsupported broadcast")
	ErrIrreducibleUnion     = errors.New("irreducible union")
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrStructuralDepth      = errors.New("structural depth")
	ErrTooManyContents      = errors.New("union has more than 127 contents")
)

// Error provides the context of a broadcasting failure.
type Error struct {
	Kind     error  // One of the Err* kinds above
	Details  string // Human-readable description naming types and lengths
	Function string // Originating high-level operation, if any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Function != "" {
		return fmt.Sprintf("%s: %s in %s", e.Kind, e.Details, e.Function)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Details)
}

// Unwrap exposes the kind to errors.Is.
func (e *Error) Unwrap() error {
	return e.Kind
}

// Errorf builds an *Error of the given kind.
func Errorf(kind error, function, format string, args ...any) error {
	return &Error{Kind: kind, Details: fmt.Sprintf(format, args...), Function: function}
}
