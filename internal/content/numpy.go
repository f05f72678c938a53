package content

import "fmt"

// Empty is a zero-length array of unknown type.
type Empty struct {
	meta
}

// NewEmpty creates an EmptyArray on backend b.
func NewEmpty(b Backend) *Empty {
	return &Empty{meta: meta{backend: b}}
}

// Kind returns KindEmpty.
func (e *Empty) Kind() Kind { return KindEmpty }

// Length is always zero.
func (e *Empty) Length() int { return 0 }

// Carry accepts only an empty carry.
func (e *Empty) Carry(carry Index, _ bool) Content {
	if carry.Len() > 0 {
		panic(fmt.Sprintf("carry: cannot take %d rows from an EmptyArray", carry.Len()))
	}
	return e
}

// GetItemRange accepts only empty ranges.
func (e *Empty) GetItemRange(start, stop int) Content {
	if stop > start {
		panic(fmt.Sprintf("getitem: range [%d:%d] out of bounds for an EmptyArray", start, stop))
	}
	return e
}

func (e *Empty) PurelistDepth() int      { return 1 }
func (e *Empty) PurelistIsRegular() bool { return true }

// WithParameters returns a copy carrying p.
func (e *Empty) WithParameters(p Parameters) Content {
	out := *e
	out.params = p
	return &out
}

// ToNumpy returns a zero-length leaf of the given type.
func (e *Empty) ToNumpy(dt DataType) *Numpy {
	out := &Numpy{meta: e.meta, dtype: dt, length: 0}
	if e.backend.KnownData() {
		out.data = makeColumn(dt, 0)
	}
	return out
}

// Numpy is a leaf holding a flat typed buffer with an optional inner shape
// (multi-dimensional rows).
type Numpy struct {
	meta
	dtype  DataType
	data   column // nil on shape-only backends
	length int
	inner  Shape
}

// NewNumpy creates a one-dimensional leaf. The slice is not copied.
func NewNumpy[T DType](data []T, b Backend) *Numpy {
	if data == nil {
		data = []T{}
	}
	var dummy T
	return &Numpy{
		meta:   meta{backend: b},
		dtype:  inferDataType(dummy),
		data:   typedColumn[T](data),
		length: len(data),
	}
}

// NewNumpyND creates a leaf with rows of shape[1:].
func NewNumpyND[T DType](data []T, shape Shape, b Backend) (*Numpy, error) {
	if len(shape) == 0 {
		return nil, fmt.Errorf("numpy: shape must have at least one dimension")
	}
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("numpy: %w", err)
	}
	if shape.NumElements() != len(data) {
		return nil, fmt.Errorf("numpy: shape %v requires %d elements, but got %d", shape, shape.NumElements(), len(data))
	}
	n := NewNumpy(data, b)
	n.length = shape[0]
	n.inner = shape[1:].Clone()
	return n, nil
}

// NewNumpyShapeOnly creates a data-less leaf for shape-only backends.
func NewNumpyShapeOnly(dt DataType, length int, inner Shape, b Backend) *Numpy {
	return &Numpy{meta: meta{backend: b}, dtype: dt, length: length, inner: inner.Clone()}
}

// Kind returns KindNumpy.
func (n *Numpy) Kind() Kind { return KindNumpy }

// Length returns the number of rows.
func (n *Numpy) Length() int { return n.length }

// DType returns the scalar type.
func (n *Numpy) DType() DataType { return n.dtype }

// Inner returns the shape of one row; empty for one-dimensional leaves.
func (n *Numpy) Inner() Shape { return n.inner }

// Known reports whether the leaf holds values.
func (n *Numpy) Known() bool { return n.data != nil }

// At returns the scalar at flat position i.
func (n *Numpy) At(i int) any { return n.data.at(i) }

// Float64At returns the scalar at flat position i as float64.
func (n *Numpy) Float64At(i int) float64 { return n.data.float64At(i) }

// Int64At returns the scalar at flat position i as int64.
func (n *Numpy) Int64At(i int) int64 { return n.data.int64At(i) }

// BoolAt returns the truth value of the scalar at flat position i.
func (n *Numpy) BoolAt(i int) bool { return n.data.boolAt(i) }

// Carry gathers rows.
func (n *Numpy) Carry(carry Index, _ bool) Content {
	out := &Numpy{meta: meta{params: n.params, backend: n.backend}, dtype: n.dtype, length: carry.Len(), inner: n.inner}
	if n.data != nil && carry.Known() {
		out.data = n.data.gather(carry.Data(), n.inner.NumElements())
	}
	return out
}

// GetItemRange returns rows [start, stop).
func (n *Numpy) GetItemRange(start, stop int) Content {
	out := &Numpy{meta: meta{params: n.params, backend: n.backend}, dtype: n.dtype, inner: n.inner}
	if start == UnknownLength || stop == UnknownLength {
		out.length = UnknownLength
		return out
	}
	if n.length != UnknownLength && (start < 0 || stop > n.length || start > stop) {
		panic(fmt.Sprintf("getitem: range [%d:%d] out of bounds for length %d", start, stop, n.length))
	}
	out.length = stop - start
	if n.data != nil {
		size := n.inner.NumElements()
		out.data = n.data.slice(start*size, stop*size)
	}
	return out
}

// PurelistDepth counts the inner dimensions as list levels.
func (n *Numpy) PurelistDepth() int      { return len(n.inner) + 1 }
func (n *Numpy) PurelistIsRegular() bool { return true }

// WithParameters returns a copy carrying p.
func (n *Numpy) WithParameters(p Parameters) Content {
	out := *n
	out.params = p
	return &out
}

// ToRegularArray rewrites a multi-dimensional leaf as nested Regular nodes
// over a one-dimensional leaf. One-dimensional leaves are returned as-is.
func (n *Numpy) ToRegularArray() Content {
	if len(n.inner) == 0 {
		return n
	}
	flat := &Numpy{
		meta:   meta{params: n.params, backend: n.backend},
		dtype:  n.dtype,
		data:   n.data,
		length: mulLength(n.length, n.inner.NumElements()),
	}
	var out Content = flat
	for i := len(n.inner) - 1; i >= 0; i-- {
		zerosLength := n.length
		for _, d := range n.inner[:i] {
			zerosLength = mulLength(zerosLength, d)
		}
		out = NewRegular(out, n.inner[i], zerosLength)
	}
	return out
}

// AsType returns the leaf converted to dt.
func (n *Numpy) AsType(dt DataType) *Numpy {
	out := *n
	out.dtype = dt
	if n.data != nil {
		out.data = castColumn(n.data, dt)
	}
	return &out
}

// NumpyFull returns a one-dimensional leaf of n copies of a Go scalar
// (bool, int, int32, int64, uint8, float32 or float64).
func NumpyFull(value any, n int, b Backend) (*Numpy, error) {
	var out *Numpy
	switch v := value.(type) {
	case bool:
		out = NewNumpy(repeat(v, n), b)
	case int:
		out = NewNumpy(repeat(int64(v), n), b)
	case int32:
		out = NewNumpy(repeat(v, n), b)
	case int64:
		out = NewNumpy(repeat(v, n), b)
	case uint8:
		out = NewNumpy(repeat(v, n), b)
	case float32:
		out = NewNumpy(repeat(v, n), b)
	case float64:
		out = NewNumpy(repeat(v, n), b)
	default:
		return nil, fmt.Errorf("numpy: unsupported scalar type %T", value)
	}
	if !b.KnownData() {
		return NewNumpyShapeOnly(out.dtype, n, nil, b), nil
	}
	return out, nil
}

func repeat[T DType](v T, n int) []T {
	if n < 0 {
		return nil
	}
	out := make([]T, n)
	for i := range out {
		out[i] = v
	}
	return out
}
