// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package typetracer provides a shape-only backend.
//
// Layouts on this backend carry their structure but no buffers. Running an
// operation on them yields the output form, and the backend's Report lists
// the form keys whose shape or data the operation needed.
//
//	tracer := typetracer.New()
//	traced, _ := layout.ToBackend(array, tracer)
//	out, _ := ops.Apply(ops.Add, traced, 1.0, broadcast.DefaultOptions())
//	fmt.Println(out.(layout.Content).Form().Type(), tracer.Report().TouchedData())
package typetracer
