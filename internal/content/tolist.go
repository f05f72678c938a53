package content

import "fmt"

// ToList converts a materialised content into nested Go values: []any for
// lists and tuples, map[string]any for records, nil for missing rows and
// scalars for leaf values.
func ToList(c Content) ([]any, error) {
	if !c.Backend().KnownData() {
		return nil, Errorf(ErrInvalidConfiguration, "", "cannot convert a %s without known data to a list", c.Kind())
	}
	out := make([]any, c.Length())
	for i := range out {
		out[i] = rowValue(c, i)
	}
	return out, nil
}

func rowValue(c Content, i int) any {
	switch x := c.(type) {
	case *Numpy:
		if len(x.inner) == 0 {
			return x.At(i)
		}
		return numpyValue(x.data, x.inner, i*x.inner.NumElements())
	case *Regular:
		return rangeValues(x.content, i*x.size, (i+1)*x.size)
	case *List:
		return rangeValues(x.content, int(x.starts.At(i)), int(x.stops.At(i)))
	case *ListOffset:
		return rangeValues(x.content, int(x.offsets.At(i)), int(x.offsets.At(i+1)))
	case *Indexed:
		return rowValue(x.content, int(x.index.At(i)))
	case *IndexedOption:
		j := x.index.At(i)
		if j < 0 {
			return nil
		}
		return rowValue(x.content, int(j))
	case *ByteMasked:
		if (x.mask.At(i) != 0) != x.validWhen {
			return nil
		}
		return rowValue(x.content, i)
	case *BitMasked:
		if x.bit(i) != x.validWhen {
			return nil
		}
		return rowValue(x.content, i)
	case *Unmasked:
		return rowValue(x.content, i)
	case *Record:
		return recordValue(x, i)
	case *Union:
		return rowValue(x.contents[x.tags.At(i)], int(x.index.At(i)))
	default:
		panic(fmt.Sprintf("tolist: unexpected %s", c.Kind()))
	}
}

func rangeValues(c Content, start, stop int) []any {
	out := make([]any, stop-start)
	for i := range out {
		out[i] = rowValue(c, start+i)
	}
	return out
}

func numpyValue(data column, shape Shape, start int) []any {
	out := make([]any, shape[0])
	if len(shape) == 1 {
		for i := range out {
			out[i] = data.at(start + i)
		}
		return out
	}
	stride := shape[1:].NumElements()
	for i := range out {
		out[i] = numpyValue(data, shape[1:], start+i*stride)
	}
	return out
}

func recordValue(r *Record, i int) any {
	if r.IsTuple() {
		out := make([]any, len(r.contents))
		for j, c := range r.contents {
			out[j] = rowValue(c, i)
		}
		return out
	}
	out := make(map[string]any, len(r.contents))
	for j, name := range r.fields {
		out[name] = rowValue(r.contents[j], i)
	}
	return out
}

// GetItemAt returns row i (negative values count from the end): a scalar, a
// Content for list rows, a *RecordScalar for record rows or nil for missing
// rows.
func GetItemAt(c Content, i int) (any, error) {
	n := c.Length()
	if i < 0 && n != UnknownLength {
		i += n
	}
	if i < 0 || (n != UnknownLength && i >= n) {
		return nil, fmt.Errorf("getitem: index %d out of range for %s of length %d", i, c.Kind(), n)
	}
	if !c.Backend().KnownData() {
		return nil, Errorf(ErrInvalidConfiguration, "", "cannot select a row of a %s without known data", c.Kind())
	}

	switch x := c.(type) {
	case *Numpy:
		if len(x.inner) == 0 {
			return x.At(i), nil
		}
		size := x.inner.NumElements()
		return &Numpy{
			meta:   meta{backend: x.backend},
			dtype:  x.dtype,
			data:   x.data.slice(i*size, (i+1)*size),
			length: x.inner[0],
			inner:  x.inner[1:].Clone(),
		}, nil
	case *Regular:
		return x.content.GetItemRange(i*x.size, (i+1)*x.size), nil
	case *List:
		return x.content.GetItemRange(int(x.starts.At(i)), int(x.stops.At(i))), nil
	case *ListOffset:
		return x.content.GetItemRange(int(x.offsets.At(i)), int(x.offsets.At(i+1))), nil
	case *Indexed:
		return GetItemAt(x.content, int(x.index.At(i)))
	case *IndexedOption:
		j := x.index.At(i)
		if j < 0 {
			return nil, nil
		}
		return GetItemAt(x.content, int(j))
	case *ByteMasked:
		if (x.mask.At(i) != 0) != x.validWhen {
			return nil, nil
		}
		return GetItemAt(x.content, i)
	case *BitMasked:
		if x.bit(i) != x.validWhen {
			return nil, nil
		}
		return GetItemAt(x.content, i)
	case *Unmasked:
		return GetItemAt(x.content, i)
	case *Record:
		return &RecordScalar{Array: x, At: i}, nil
	case *Union:
		return GetItemAt(x.contents[x.tags.At(i)], int(x.index.At(i)))
	default:
		return nil, fmt.Errorf("getitem: %s has no rows", c.Kind())
	}
}

// GetItemNothing returns the empty selection one level down: the content of a
// list trimmed to zero rows, or a zero-length slice of anything else.
func GetItemNothing(c Content) Content {
	switch x := c.(type) {
	case *Regular:
		return x.content.GetItemRange(0, 0)
	case *List:
		return x.content.GetItemRange(0, 0)
	case *ListOffset:
		return x.content.GetItemRange(0, 0)
	default:
		return c.GetItemRange(0, 0)
	}
}

// Value returns the row as a map[string]any, or []any for tuples.
func (s *RecordScalar) Value() any { return recordValue(s.Array, s.At) }
