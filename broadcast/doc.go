// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package broadcast aligns nested arrays into a common structure and runs an
// action on the aligned nodes.
//
// # Overview
//
// BroadcastAndApply walks its inputs level by level. At each level the
// action is offered the aligned nodes first; if it declines, the engine
// picks one structural rule and recurses:
//   - unions are split into one branch per combination of variants
//   - options are projected to their valid rows and re-masked afterwards
//   - regular lists of size 1 are repeated to the common size
//   - variable-length lists are aligned to common offsets
//   - records are broadcast field by field
//
// # Basic Usage
//
//	action := func(call *broadcast.Call) (broadcast.Outcome, error) {
//	    if leaf, ok := call.Inputs[0].(*layout.Numpy); ok {
//	        return broadcast.Handled(leaf, leaf), nil
//	    }
//	    return broadcast.Unhandled, nil
//	}
//	out, err := broadcast.BroadcastAndApply([]any{x, y}, action, nil, nil, nil, broadcast.DefaultOptions())
//
// # Errors
//
// Failures are *layout.Error values wrapping one of the layout.Err* kinds,
// so callers can test them with errors.Is.
package broadcast
