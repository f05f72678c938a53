// Package typetracer implements the shape-only backend. Index buffers built
// on it carry a length (possibly unknown) but no values, and the backend
// records which nodes had their shape or data observed.
package typetracer

import (
	"slices"
	"sync"

	"github.com/born-ml/ragged/internal/content"
)

// Report collects the form keys touched while running on a Backend.
type Report struct {
	shape map[string]struct{}
	data  map[string]struct{}
	mu    sync.Mutex // Protects both sets
}

func newReport() *Report {
	return &Report{shape: map[string]struct{}{}, data: map[string]struct{}{}}
}

// TouchedShape returns the sorted keys whose shape was observed.
func (r *Report) TouchedShape() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return sortedKeys(r.shape)
}

// TouchedData returns the sorted keys whose buffers were needed.
func (r *Report) TouchedData() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return sortedKeys(r.data)
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// Backend is a shape-only backend. Each instance owns its Report.
type Backend struct {
	report *Report
}

// Compile-time check that Backend implements content.Backend.
var _ content.Backend = (*Backend)(nil)

// New creates a shape-only backend with an empty report.
func New() *Backend {
	return &Backend{report: newReport()}
}

// Report returns the touch report.
func (b *Backend) Report() *Report {
	return b.report
}

// Name returns the backend name.
func (b *Backend) Name() string {
	return "typetracer"
}

// KnownData is always false.
func (b *Backend) KnownData() bool {
	return false
}

// Arange returns a data-less index of length n.
func (b *Backend) Arange(n int) content.Index {
	return content.UnknownIndex(n)
}

// Full returns a data-less index of length n.
func (b *Backend) Full(n int, _ int64) content.Index {
	return content.UnknownIndex(n)
}

// Empty returns a data-less index of length n.
func (b *Backend) Empty(n int) content.Index {
	return content.UnknownIndex(n)
}

// RepeatArange returns a data-less index of length n*k.
func (b *Backend) RepeatArange(n, k int) content.Index {
	if n == content.UnknownLength || k == content.UnknownLength {
		return content.UnknownIndex(content.UnknownLength)
	}
	return content.UnknownIndex(n * k)
}

// TouchShape records that key's shape was observed.
func (b *Backend) TouchShape(key string) {
	b.report.mu.Lock()
	defer b.report.mu.Unlock()
	b.report.shape[key] = struct{}{}
}

// TouchData records that key's buffers were needed. Data implies shape.
func (b *Backend) TouchData(key string) {
	b.report.mu.Lock()
	defer b.report.mu.Unlock()
	b.report.shape[key] = struct{}{}
	b.report.data[key] = struct{}{}
}
