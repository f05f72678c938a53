package content

// UnknownLength is the length reported in shape-only mode when a dimension
// has not been observed.
const UnknownLength = -1

// Backend defines the array library a content tree lives on.
//
// Implementations:
//   - backend/cpu: materialises every index and leaf buffer
//   - backend/typetracer: shape-only, buffers carry lengths but no values
//
// The index primitives return data-less buffers on shape-only backends, so
// callers can build the same structure in both modes without branching.
type Backend interface {
	// Metadata
	Name() string
	KnownData() bool

	// Index primitives
	Arange(n int) Index            // 0, 1, ..., n-1
	Full(n int, value int64) Index // n copies of value
	Empty(n int) Index             // n uninitialised slots
	RepeatArange(n, k int) Index   // each of 0..n-1 repeated k times

	// Dependency tracking for shape-only graphs; no-ops when data is known.
	TouchShape(key string)
	TouchData(key string)
}

// TouchShape marks the node's shape as observed on its backend.
func TouchShape(c Content) {
	if c.Key() != "" {
		c.Backend().TouchShape(c.Key())
	}
}

// TouchData marks the node's buffers as needed on its backend.
func TouchData(c Content) {
	if c.Key() != "" {
		c.Backend().TouchData(c.Key())
	}
}
