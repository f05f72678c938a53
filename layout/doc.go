// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package layout provides the node types of ragged arrays.
//
// # Overview
//
// A ragged array is a tree of layout nodes. Each node describes one level of
// nesting:
//   - Numpy and Empty: leaves holding typed values, or no values at all
//   - Regular, List and ListOffset: fixed-size and variable-length lists
//   - Indexed: lazy gathers
//   - IndexedOption, ByteMasked, BitMasked and Unmasked: optional values
//   - Record: named fields or tuple slots
//   - Union: rows drawn from several differently typed contents
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/ragged/backend/cpu"
//	    "github.com/born-ml/ragged/layout"
//	)
//
//	func main() {
//	    backend := cpu.New()
//
//	    // [[1.1, 2.2, 3.3], [], [4.4, 5.5]]
//	    values := layout.NewNumpy([]float64{1.1, 2.2, 3.3, 4.4, 5.5}, backend)
//	    offsets := layout.NewIndex([]int64{0, 3, 3, 5})
//	    array := layout.NewListOffset(offsets, values)
//
//	    rows, _ := layout.ToList(array)
//	    fmt.Println(array.Form().Type(), rows)
//	}
//
// # Shape-only Mode
//
// Moving a layout to the typetracer backend with ToBackend keeps its
// structure and drops every buffer. Operations on such layouts compute
// output forms without touching data, and the backend's report records which
// nodes had their shape or data requested.
//
// # Storage
//
// ToBuffers splits a layout into its Form and one flat buffer per index or
// leaf, named after the node's form key. Save and Load keep those buffers
// in a checksummed .ragd file.
package layout
