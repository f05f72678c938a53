// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides a pure Go backend for ragged arrays.
//
// # Overview
//
// This package implements a CPU backend with:
//   - Pure Go implementation (no CGO)
//   - Materialised int64 indexes and typed leaf buffers
//   - A single shared instance, so arrays from anywhere can be combined
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/ragged/backend/cpu"
//	    "github.com/born-ml/ragged/broadcast"
//	    "github.com/born-ml/ragged/layout"
//	    "github.com/born-ml/ragged/ops"
//	)
//
//	func main() {
//	    backend := cpu.New()
//
//	    // [[1, 2, 3], [], [4, 5]] + [10, 20, 30]
//	    x := layout.NewListOffset(layout.NewIndex([]int64{0, 3, 3, 5}),
//	        layout.NewNumpy([]int64{1, 2, 3, 4, 5}, backend))
//	    y := layout.NewNumpy([]int64{10, 20, 30}, backend)
//	    z, _ := ops.Apply(ops.Add, x, y, broadcast.DefaultOptions())
//	}
//
// For shape-only evaluation, see the typetracer package.
package cpu
