package serialization

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/born-ml/ragged/internal/content"
)

// Validation limits for security and resource protection.
const (
	MaxHeaderSize    = 100 * 1024 * 1024 // 100MB - maximum header size
	MaxBufferCount   = 100_000           // Maximum number of buffers in a file
	MaxBufferNameLen = 4096              // Maximum buffer name length
)

// ValidationLevel controls the strictness of validation.
type ValidationLevel int

const (
	// ValidationStrict performs all validation checks (default, recommended for production).
	ValidationStrict ValidationLevel = iota
	// ValidationNormal performs basic validation checks only.
	ValidationNormal
	// ValidationNone skips validation (dangerous! Use only with trusted input).
	ValidationNone
)

var bufferRoles = []string{
	content.RoleData, content.RoleOffsets, content.RoleStarts, content.RoleStops,
	content.RoleIndex, content.RoleMask, content.RoleTags,
}

// ValidateBufferOffsets checks for overlapping buffers and out-of-bounds access.
func ValidateBufferOffsets(buffers []BufferMeta, dataSize int64) error {
	if len(buffers) > MaxBufferCount {
		return &ValidationError{
			Type:    "too_many_buffers",
			Details: fmt.Sprintf("got %d, max %d", len(buffers), MaxBufferCount),
		}
	}

	sorted := slices.Clone(buffers)
	slices.SortFunc(sorted, func(a, b BufferMeta) int {
		return cmp.Compare(a.Offset, b.Offset)
	})

	for i, b := range sorted {
		if b.Offset < 0 || b.Size < 0 {
			return &ValidationError{
				Type:    "negative_offset",
				Buffer:  b.Name,
				Details: fmt.Sprintf("offset=%d, size=%d (negative values not allowed)", b.Offset, b.Size),
			}
		}
		if b.Offset+b.Size > dataSize {
			return &ValidationError{
				Type:    "out_of_bounds",
				Buffer:  b.Name,
				Details: fmt.Sprintf("offset %d + size %d > data_size %d", b.Offset, b.Size, dataSize),
			}
		}
		if i < len(sorted)-1 {
			next := sorted[i+1]
			if b.Offset+b.Size > next.Offset {
				return &ValidationError{
					Type:    "offset_overlap",
					Buffer:  b.Name,
					Buffer2: next.Name,
					Details: fmt.Sprintf("regions [%d-%d] and [%d-%d] overlap",
						b.Offset, b.Offset+b.Size, next.Offset, next.Offset+next.Size),
				}
			}
		}
	}
	return nil
}

// ValidateBufferName checks that name has the "<form key>-<role>" shape and
// carries no path or control characters.
func ValidateBufferName(name string) error {
	if len(name) > MaxBufferNameLen {
		return &ValidationError{
			Type:    "name_too_long",
			Buffer:  name,
			Details: fmt.Sprintf("length %d > max %d", len(name), MaxBufferNameLen),
		}
	}
	if strings.Contains(name, "..") || strings.ContainsAny(name, "/\\") {
		return &ValidationError{
			Type:    "invalid_name",
			Buffer:  name,
			Details: "contains '..' or a path separator",
		}
	}
	if strings.Contains(name, "\x00") {
		return &ValidationError{
			Type:    "invalid_name",
			Buffer:  name,
			Details: "contains null byte",
		}
	}

	cut := strings.LastIndex(name, "-")
	if cut <= 0 || !slices.Contains(bufferRoles, name[cut+1:]) {
		return &ValidationError{
			Type:    "invalid_name",
			Buffer:  name,
			Details: fmt.Sprintf("expected <form key>-<role> with role one of %s", strings.Join(bufferRoles, ", ")),
		}
	}
	return nil
}

// ValidateHeader performs header validation at the given level.
func ValidateHeader(h *Header, dataSize int64, level ValidationLevel) error {
	if level == ValidationNone {
		return nil
	}

	if h.Form == nil {
		return &ValidationError{Type: "missing_form", Details: "header has no form"}
	}
	if h.Length < 0 {
		return &ValidationError{Type: "negative_length", Details: fmt.Sprintf("length=%d", h.Length)}
	}
	if len(h.Buffers) > MaxBufferCount {
		return &ValidationError{
			Type:    "too_many_buffers",
			Details: fmt.Sprintf("got %d, max %d", len(h.Buffers), MaxBufferCount),
		}
	}
	for _, b := range h.Buffers {
		if err := ValidateBufferName(b.Name); err != nil {
			return err
		}
	}

	if level == ValidationStrict {
		if err := ValidateBufferOffsets(h.Buffers, dataSize); err != nil {
			return err
		}
	}
	return nil
}
