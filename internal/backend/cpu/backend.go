// Package cpu implements the materialising backend: every index and leaf
// buffer built on it holds concrete values.
package cpu

import (
	"fmt"

	"github.com/born-ml/ragged/internal/content"
)

// CPUBackend builds index buffers in host memory.
type CPUBackend struct {
	name string
}

var shared = &CPUBackend{name: "CPU"}

// Compile-time check that CPUBackend implements content.Backend.
var _ content.Backend = (*CPUBackend)(nil)

// New returns the CPU backend. Every call returns the same instance, so trees
// built from separate calls share a backend.
func New() *CPUBackend {
	return shared
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return cpu.name
}

// KnownData is always true.
func (cpu *CPUBackend) KnownData() bool {
	return true
}

// Arange returns 0, 1, ..., n-1.
func (cpu *CPUBackend) Arange(n int) content.Index {
	checkLength("arange", n)
	out := make([]int64, n)
	for i := range out {
		out[i] = int64(i)
	}
	return content.NewIndex(out)
}

// Full returns n copies of value.
func (cpu *CPUBackend) Full(n int, value int64) content.Index {
	checkLength("full", n)
	out := make([]int64, n)
	for i := range out {
		out[i] = value
	}
	return content.NewIndex(out)
}

// Empty returns n zeroed slots.
func (cpu *CPUBackend) Empty(n int) content.Index {
	checkLength("empty", n)
	return content.NewIndex(make([]int64, n))
}

// RepeatArange returns each of 0..n-1 repeated k times.
func (cpu *CPUBackend) RepeatArange(n, k int) content.Index {
	checkLength("repeat", n)
	checkLength("repeat", k)
	out := make([]int64, 0, n*k)
	for i := 0; i < n; i++ {
		for j := 0; j < k; j++ {
			out = append(out, int64(i))
		}
	}
	return content.NewIndex(out)
}

// TouchShape is a no-op: shapes are always known.
func (cpu *CPUBackend) TouchShape(string) {}

// TouchData is a no-op: data is always known.
func (cpu *CPUBackend) TouchData(string) {}

func checkLength(op string, n int) {
	if n < 0 {
		panic(fmt.Sprintf("%s: invalid length %d on the CPU backend", op, n))
	}
}
