// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package typetracer

import (
	internaltt "github.com/born-ml/ragged/internal/backend/typetracer"
	"github.com/born-ml/ragged/internal/content"
)

// Backend is the shape-only backend.
type Backend = internaltt.Backend

// Report records the form keys touched by operations on one Backend.
type Report = internaltt.Report

// Compile-time check that Backend implements layout.Backend.
var _ content.Backend = (*Backend)(nil)

// New creates a typetracer backend with an empty report.
func New() *Backend {
	return internaltt.New()
}
