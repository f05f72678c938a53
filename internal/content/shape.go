package content

import "fmt"

// Shape represents the inner dimensions of a Numpy leaf (everything after the
// outer length).
type Shape []int

// NumElements returns the number of scalars one row of this shape holds.
func (s Shape) NumElements() int {
	n := 1
	for _, dim := range s {
		n *= dim
	}
	return n
}

// Validate checks that no dimension is negative.
func (s Shape) Validate() error {
	for i, dim := range s {
		if dim < 0 {
			return fmt.Errorf("invalid dimension at index %d: %d (must be >= 0)", i, dim)
		}
	}
	return nil
}

// Equal checks if two shapes are equal.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	if s == nil {
		return nil
	}
	clone := make(Shape, len(s))
	copy(clone, s)
	return clone
}

// addLength adds two lengths, propagating UnknownLength.
func addLength(a, b int) int {
	if a == UnknownLength || b == UnknownLength {
		return UnknownLength
	}
	return a + b
}

// mulLength multiplies two lengths, propagating UnknownLength.
func mulLength(a, b int) int {
	if a == UnknownLength || b == UnknownLength {
		return UnknownLength
	}
	return a * b
}
