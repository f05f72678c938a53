// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package ops

import (
	"github.com/born-ml/ragged/internal/broadcast"
	"github.com/born-ml/ragged/internal/content"
	"github.com/born-ml/ragged/internal/ops"
	"github.com/born-ml/ragged/internal/parallel"
)

// Kernel is an element-wise binary operation on leaf values.
type Kernel = ops.Kernel

// Element-wise kernels.
var (
	Add     = ops.Add
	Sub     = ops.Sub
	Mul     = ops.Mul
	Div     = ops.Div
	Equal   = ops.Equal
	Greater = ops.Greater
)

// Apply runs k element-wise over x and y after broadcasting them.
func Apply(k Kernel, x, y any, opts broadcast.Options) (any, error) {
	return ops.Apply(k, x, y, opts)
}

// BroadcastArrays returns the inputs broadcast to a common structure.
func BroadcastArrays(opts broadcast.Options, inputs ...content.Content) ([]content.Content, error) {
	return ops.BroadcastArrays(opts, inputs...)
}

// WithField returns base with what stored under the field path where.
func WithField(base content.Content, what any, where ...string) (content.Content, error) {
	return ops.WithField(base, what, where...)
}

// FromRegular rewrites the regular dimension at axis, or every regular
// dimension when axis is nil, as variable-length lists.
func FromRegular(c content.Content, axis *int) (content.Content, error) {
	return ops.FromRegular(c, axis)
}

// MergeOptionOfRecords turns missing records at axis into records of
// missing fields. Pass -1 for the innermost records.
func MergeOptionOfRecords(c content.Content, axis int) (content.Content, error) {
	return ops.MergeOptionOfRecords(c, axis)
}

// CountNonzero counts the present, non-zero leaf values of c.
func CountNonzero(c content.Content, opts broadcast.Options) (int, error) {
	return ops.CountNonzero(c, opts)
}

// SetKernelWorkers sets how many goroutines element-wise kernels may use.
// n < 2 runs them inline. Call it before any operation starts.
func SetKernelWorkers(n int) {
	if n < 2 {
		ops.Parallelism = parallel.Sequential()
		return
	}
	cfg := parallel.DefaultConfig()
	cfg.Enabled, cfg.NumWorkers = true, n
	ops.Parallelism = cfg
}
