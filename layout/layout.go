// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package layout

import (
	"fmt"

	"github.com/born-ml/ragged/internal/content"
	"github.com/born-ml/ragged/internal/serialization"
)

// Type aliases for public API

// Content is one level of a nested array.
type Content = content.Content

// Node types.
type (
	Empty         = content.Empty
	Numpy         = content.Numpy
	Regular       = content.Regular
	List          = content.List
	ListOffset    = content.ListOffset
	Indexed       = content.Indexed
	IndexedOption = content.IndexedOption
	ByteMasked    = content.ByteMasked
	BitMasked     = content.BitMasked
	Unmasked      = content.Unmasked
	Record        = content.Record
	Union         = content.Union
)

// RecordScalar is a single row of a Record.
type RecordScalar = content.RecordScalar

// Kind identifies the node variant.
type Kind = content.Kind

// Node kinds.
const (
	KindEmpty         Kind = content.KindEmpty
	KindNumpy         Kind = content.KindNumpy
	KindRegular       Kind = content.KindRegular
	KindList          Kind = content.KindList
	KindListOffset    Kind = content.KindListOffset
	KindIndexed       Kind = content.KindIndexed
	KindIndexedOption Kind = content.KindIndexedOption
	KindByteMasked    Kind = content.KindByteMasked
	KindBitMasked     Kind = content.KindBitMasked
	KindUnmasked      Kind = content.KindUnmasked
	KindRecord        Kind = content.KindRecord
	KindUnion         Kind = content.KindUnion
)

// DType is a constraint for leaf data types.
// Supported types: float32, float64, int32, int64, uint8, bool.
type DType = content.DType

// DataType represents the type of a leaf buffer.
type DataType = content.DataType

// Data type constants.
const (
	Float32 DataType = content.Float32
	Float64 DataType = content.Float64
	Int32   DataType = content.Int32
	Int64   DataType = content.Int64
	Uint8   DataType = content.Uint8
	Bool    DataType = content.Bool
)

// Shape is the shape of a multi-dimensional leaf.
type Shape = content.Shape

// Index is an int64 buffer of offsets, starts, stops, tags or masks.
type Index = content.Index

// Parameters are the user-visible metadata attached to a node.
type Parameters = content.Parameters

// Form is the data-free description of a layout.
type Form = content.Form

// Backend is the array library a layout lives on.
type Backend = content.Backend

// Error describes a broadcasting failure. Use errors.Is with the Err* kinds.
type Error = content.Error

// Error kinds.
var (
	ErrShapeMismatch        = content.ErrShapeMismatch
	ErrUnsupportedBroadcast = content.ErrUnsupportedBroadcast
	ErrIrreducibleUnion     = content.ErrIrreducibleUnion
	ErrInvalidConfiguration = content.ErrInvalidConfiguration
	ErrStructuralDepth      = content.ErrStructuralDepth
	ErrTooManyContents      = content.ErrTooManyContents
)

// UnknownLength is reported by shape-only layouts for unobserved lengths.
const UnknownLength = content.UnknownLength

// MaxUnionContents is the largest number of contents a Union may hold.
const MaxUnionContents = content.MaxUnionContents

// NewIndex wraps data as an Index. The slice is not copied.
func NewIndex(data []int64) Index { return content.NewIndex(data) }

// NewEmpty creates a zero-length layout of unknown type.
func NewEmpty(b Backend) *Empty { return content.NewEmpty(b) }

// NewNumpy creates a one-dimensional leaf.
func NewNumpy[T DType](data []T, b Backend) *Numpy { return content.NewNumpy(data, b) }

// NewNumpyND creates a leaf with rows of shape[1:].
func NewNumpyND[T DType](data []T, shape Shape, b Backend) (*Numpy, error) {
	return content.NewNumpyND(data, shape, b)
}

// NewRegular creates lists of a fixed size. zerosLength is the length
// used when size is 0.
func NewRegular(c Content, size, zerosLength int) *Regular {
	return content.NewRegular(c, size, zerosLength)
}

// NewList creates variable-length lists from starts and stops.
func NewList(starts, stops Index, c Content) *List { return content.NewList(starts, stops, c) }

// NewListOffset creates variable-length lists from offsets.
func NewListOffset(offsets Index, c Content) *ListOffset { return content.NewListOffset(offsets, c) }

// NewIndexed creates a lazy gather of c.
func NewIndexed(index Index, c Content) *Indexed { return content.NewIndexed(index, c) }

// NewIndexedOption creates an option layout; negative indexes are missing.
func NewIndexedOption(index Index, c Content) *IndexedOption {
	return content.NewIndexedOption(index, c)
}

// NewByteMasked creates an option layout with one mask byte per row.
func NewByteMasked(mask Index, c Content, validWhen bool) *ByteMasked {
	return content.NewByteMasked(mask, c, validWhen)
}

// NewBitMasked creates an option layout with one mask bit per row.
func NewBitMasked(mask Index, c Content, validWhen bool, length int, lsbOrder bool) *BitMasked {
	return content.NewBitMasked(mask, c, validWhen, length, lsbOrder)
}

// NewUnmasked creates an option layout with no missing rows.
func NewUnmasked(c Content) *Unmasked { return content.NewUnmasked(c) }

// NewRecord creates a record layout. A nil fields slice makes a tuple.
func NewRecord(contents []Content, fields []string, length int, b Backend) *Record {
	return content.NewRecord(contents, fields, length, b)
}

// NewUnion creates a union layout.
func NewUnion(tags, index Index, contents []Content) *Union {
	return content.NewUnion(tags, index, contents)
}

// UnionSimplified builds a union, folding nested unions and merging
// compatible contents. It may return a non-union layout.
func UnionSimplified(tags, index Index, contents []Content, params Parameters, merge, mergeBool bool) (Content, error) {
	return content.UnionSimplified(tags, index, contents, params, merge, mergeBool)
}

// ToList converts a layout with known data into nested Go values.
func ToList(c Content) ([]any, error) { return content.ToList(c) }

// ToBackend moves a layout to b, assigning form keys to every node.
func ToBackend(c Content, b Backend) (Content, error) { return content.ToBackend(c, b) }

// GetField projects a record field through lists, options and unions.
func GetField(c Content, name string) (Content, error) { return content.GetField(c, name) }

// FromList builds a layout from nested Go values, the inverse of ToList.
func FromList(values []any, b Backend) (Content, error) { return content.FromList(values, b) }

// ToBuffers decomposes a layout with known data into its form, its length
// and named little-endian buffers.
func ToBuffers(c Content) (*Form, int, map[string][]byte, error) { return content.ToBuffers(c) }

// FromBuffers rebuilds a layout from the output of ToBuffers.
func FromBuffers(form *Form, length int, buffers map[string][]byte, b Backend) (Content, error) {
	return content.FromBuffers(form, length, buffers, b)
}

// FileHeader is the JSON header of a .ragd file.
type FileHeader = serialization.Header

// Save writes c to path in .ragd format.
func Save(path string, c Content, metadata map[string]string) error {
	w, err := serialization.NewWriter(path)
	if err != nil {
		return err
	}
	if err := w.Write(c, metadata); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}

// Load reads a .ragd file onto backend b.
func Load(path string, b Backend) (Content, FileHeader, error) {
	r, err := serialization.NewReader(path)
	if err != nil {
		return nil, FileHeader{}, err
	}
	defer r.Close()

	c, err := r.Load(b)
	if err != nil {
		return nil, FileHeader{}, fmt.Errorf("loading %s: %w", path, err)
	}
	return c, r.Header(), nil
}
