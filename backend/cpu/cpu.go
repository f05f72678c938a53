// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package cpu

import (
	internalcpu "github.com/born-ml/ragged/internal/backend/cpu"
	"github.com/born-ml/ragged/internal/content"
)

// Backend represents the CPU backend implementation.
//
// The CPU backend materialises every index and leaf buffer in Go slices.
type Backend = internalcpu.CPUBackend

// Compile-time check that Backend implements layout.Backend.
var _ content.Backend = (*Backend)(nil)

// New returns the CPU backend. Every call returns the same instance, so
// layouts built from separate calls can be broadcast together.
//
// Example:
//
//	import (
//	    "github.com/born-ml/ragged/backend/cpu"
//	    "github.com/born-ml/ragged/layout"
//	)
//
//	func main() {
//	    backend := cpu.New()
//	    x := layout.NewNumpy([]float64{1, 2, 3}, backend)
//	}
func New() *Backend {
	return internalcpu.New()
}
