// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package ops provides array operations built on the broadcasting engine.
//
// # Overview
//
//   - Apply: element-wise Add, Sub, Mul, Div, Equal and Greater
//   - BroadcastArrays: broadcast layouts to a common structure
//   - WithField: add or replace a record field
//   - FromRegular: turn regular dimensions into variable-length ones
//   - MergeOptionOfRecords: turn missing records into records of missing fields
//   - CountNonzero: count present non-zero values
//
// Every operation works on CPU layouts and on shape-only typetracer layouts.
package ops
