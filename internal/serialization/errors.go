package serialization

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrChecksumMismatch   = errors.New("checksum mismatch: file may be corrupted")
	ErrHeaderTooLarge     = errors.New("header exceeds maximum size")
	ErrInvalidMagic       = errors.New("invalid magic bytes")
	ErrUnsupportedVersion = errors.New("unsupported format version")
	ErrTruncated          = errors.New("data section shorter than declared")
	ErrClosed             = errors.New("file is closed")
)

// ValidationError provides detailed information about validation failures.
type ValidationError struct {
	Type    string // Type of error (e.g., "offset_overlap", "out_of_bounds")
	Buffer  string // Primary buffer name involved
	Buffer2 string // Secondary buffer name (for overlap errors)
	Details string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Buffer2 != "" {
		return fmt.Sprintf("%s: buffers %q and %q: %s", e.Type, e.Buffer, e.Buffer2, e.Details)
	}
	if e.Buffer != "" {
		return fmt.Sprintf("%s: buffer %q: %s", e.Type, e.Buffer, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Details)
}
