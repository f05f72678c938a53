package content

import "fmt"

// Regular is a list of fixed-size sublists over a flat content.
type Regular struct {
	meta
	content Content
	size    int
	length  int
}

// NewRegular creates a RegularArray. The length is content.Length()/size, or
// zerosLength when size is zero.
func NewRegular(content Content, size, zerosLength int) *Regular {
	if size < 0 {
		panic(fmt.Sprintf("regular: size must be non-negative, got %d", size))
	}
	length := zerosLength
	if size != 0 {
		length = content.Length()
		if length != UnknownLength {
			length /= size
		}
	}
	return &Regular{meta: meta{backend: content.Backend()}, content: content, size: size, length: length}
}

func (r *Regular) Kind() Kind       { return KindRegular }
func (r *Regular) Length() int      { return r.length }
func (r *Regular) Size() int        { return r.size }
func (r *Regular) Content() Content { return r.content }

// Carry gathers whole sublists.
func (r *Regular) Carry(carry Index, allowLazy bool) Content {
	var next Index
	if carry.Known() {
		out := make([]int64, 0, carry.Len()*r.size)
		for _, row := range carry.Data() {
			if row < 0 || (r.length != UnknownLength && int(row) >= r.length) {
				panic(fmt.Sprintf("carry: row %d out of range for RegularArray of length %d", row, r.length))
			}
			for j := 0; j < r.size; j++ {
				out = append(out, row*int64(r.size)+int64(j))
			}
		}
		next = NewIndex(out)
	} else {
		next = UnknownIndex(mulLength(carry.Len(), r.size))
	}
	out := NewRegular(r.content.Carry(next, allowLazy), r.size, carry.Len())
	out.params = r.params
	return out
}

// GetItemRange returns sublists [start, stop).
func (r *Regular) GetItemRange(start, stop int) Content {
	inner := r.content.GetItemRange(mulLength(start, r.size), mulLength(stop, r.size))
	length := UnknownLength
	if start != UnknownLength && stop != UnknownLength {
		length = stop - start
	}
	out := NewRegular(inner, r.size, length)
	out.params = r.params
	return out
}

func (r *Regular) PurelistDepth() int      { return r.content.PurelistDepth() + 1 }
func (r *Regular) PurelistIsRegular() bool { return r.content.PurelistIsRegular() }

// WithParameters returns a copy carrying p.
func (r *Regular) WithParameters(p Parameters) Content {
	out := *r
	out.params = p
	return &out
}

// List is a list of variable-length sublists addressed by starts and stops.
type List struct {
	meta
	starts  Index
	stops   Index
	content Content
}

// NewList creates a ListArray.
func NewList(starts, stops Index, content Content) *List {
	if starts.Len() != UnknownLength && stops.Len() != UnknownLength && stops.Len() < starts.Len() {
		panic(fmt.Sprintf("list: len(stops) %d < len(starts) %d", stops.Len(), starts.Len()))
	}
	if starts.Len() != UnknownLength && stops.Len() != UnknownLength && stops.Len() != starts.Len() {
		stops = stops.Slice(0, starts.Len())
	}
	return &List{meta: meta{backend: content.Backend()}, starts: starts, stops: stops, content: content}
}

func (l *List) Kind() Kind       { return KindList }
func (l *List) Length() int      { return l.starts.Len() }
func (l *List) Starts() Index    { return l.starts }
func (l *List) Stops() Index     { return l.stops }
func (l *List) Content() Content { return l.content }

// Carry gathers sublist boundaries; the content is shared.
func (l *List) Carry(carry Index, _ bool) Content {
	out := NewList(l.starts.Gather(carry), l.stops.Gather(carry), l.content)
	out.params = l.params
	return out
}

// GetItemRange returns sublists [start, stop).
func (l *List) GetItemRange(start, stop int) Content {
	out := NewList(l.starts.Slice(start, stop), l.stops.Slice(start, stop), l.content)
	out.params = l.params
	return out
}

func (l *List) PurelistDepth() int      { return l.content.PurelistDepth() + 1 }
func (l *List) PurelistIsRegular() bool { return false }

// WithParameters returns a copy carrying p.
func (l *List) WithParameters(p Parameters) Content {
	out := *l
	out.params = p
	return &out
}

// ListOffset is a list of variable-length sublists addressed by monotonic
// offsets into its content.
type ListOffset struct {
	meta
	offsets Index
	content Content
}

// NewListOffset creates a ListOffsetArray.
func NewListOffset(offsets Index, content Content) *ListOffset {
	if offsets.Len() == 0 {
		panic("listoffset: offsets must have at least one entry")
	}
	return &ListOffset{meta: meta{backend: content.Backend()}, offsets: offsets, content: content}
}

func (l *ListOffset) Kind() Kind       { return KindListOffset }
func (l *ListOffset) Offsets() Index   { return l.offsets }
func (l *ListOffset) Content() Content { return l.content }

// Length is len(offsets) - 1.
func (l *ListOffset) Length() int {
	if l.offsets.Len() == UnknownLength {
		return UnknownLength
	}
	return l.offsets.Len() - 1
}

// Starts returns offsets[:-1].
func (l *ListOffset) Starts() Index { return l.offsets.Slice(0, l.Length()) }

// Stops returns offsets[1:].
func (l *ListOffset) Stops() Index { return l.offsets.Slice(1, l.offsets.Len()) }

// Carry gathers sublists into a ListArray sharing the content.
func (l *ListOffset) Carry(carry Index, _ bool) Content {
	out := NewList(l.Starts().Gather(carry), l.Stops().Gather(carry), l.content)
	out.params = l.params
	return out
}

// GetItemRange returns sublists [start, stop).
func (l *ListOffset) GetItemRange(start, stop int) Content {
	end := UnknownLength
	if stop != UnknownLength {
		end = stop + 1
	}
	out := NewListOffset(l.offsets.Slice(start, end), l.content)
	out.params = l.params
	return out
}

func (l *ListOffset) PurelistDepth() int      { return l.content.PurelistDepth() + 1 }
func (l *ListOffset) PurelistIsRegular() bool { return false }

// WithParameters returns a copy carrying p.
func (l *ListOffset) WithParameters(p Parameters) Content {
	out := *l
	out.params = p
	return &out
}

// CompactOffsets64 returns offsets describing the list's sublists packed
// back-to-back starting at zero.
func CompactOffsets64(c Content) Index {
	switch x := c.(type) {
	case *Regular:
		if !x.backend.KnownData() || x.length == UnknownLength {
			return UnknownIndex(addLength(x.length, 1))
		}
		out := make([]int64, x.length+1)
		for i := range out {
			out[i] = int64(i * x.size)
		}
		return NewIndex(out)
	case *ListOffset:
		if !x.offsets.Known() {
			return UnknownIndex(x.offsets.Len())
		}
		src := x.offsets.Data()
		if src[0] == 0 {
			return x.offsets
		}
		out := make([]int64, len(src))
		for i, v := range src {
			out[i] = v - src[0]
		}
		return NewIndex(out)
	case *List:
		if !x.starts.Known() || !x.stops.Known() {
			return UnknownIndex(addLength(x.Length(), 1))
		}
		starts, stops := x.starts.Data(), x.stops.Data()
		out := make([]int64, len(starts)+1)
		for i := range starts {
			count := stops[i] - starts[i]
			if count < 0 {
				panic(fmt.Sprintf("list: stops[%d] < starts[%d]", i, i))
			}
			out[i+1] = out[i] + count
		}
		return NewIndex(out)
	default:
		panic(fmt.Sprintf("compact offsets: %s is not a list", c.Kind()))
	}
}

// BroadcastToOffsets64 rearranges a list so its sublists match offsets
// (which must start at zero). Size-1 regular lists are repeated; any other
// count mismatch is an error.
func BroadcastToOffsets64(c Content, offsets Index) (*ListOffset, error) {
	if c.Length() != UnknownLength && offsets.Len() != UnknownLength && offsets.Len()-1 != c.Length() {
		return nil, Errorf(ErrShapeMismatch, "", "cannot broadcast %s of length %d to %d offsets", c.Kind(), c.Length(), offsets.Len())
	}
	if !offsets.Known() {
		return NewListOffset(offsets, NodeContent(c)), nil
	}
	off := offsets.Data()
	if off[0] != 0 {
		return nil, Errorf(ErrShapeMismatch, "", "broadcast offsets must start at zero, got %d", off[0])
	}

	switch x := c.(type) {
	case *Regular:
		if x.size == 1 {
			carry := make([]int64, 0, off[len(off)-1])
			for i := 0; i+1 < len(off); i++ {
				for k := off[i]; k < off[i+1]; k++ {
					carry = append(carry, int64(i))
				}
			}
			return NewListOffset(offsets, x.content.Carry(NewIndex(carry), false)), nil
		}
		for i := 0; i+1 < len(off); i++ {
			if int(off[i+1]-off[i]) != x.size {
				return nil, Errorf(ErrShapeMismatch, "", "cannot broadcast nested list")
			}
		}
		return NewListOffset(offsets, x.content.GetItemRange(0, mulLength(x.size, x.length))), nil

	case *ListOffset:
		if x.offsets.Equal(offsets) {
			return NewListOffset(offsets, x.content.GetItemRange(0, int(off[len(off)-1]))), nil
		}
		return listToOffsets(x.Starts(), x.Stops(), x.content, offsets)

	case *List:
		return listToOffsets(x.starts, x.stops, x.content, offsets)

	default:
		return nil, Errorf(ErrUnsupportedBroadcast, "", "cannot broadcast %s to offsets", c.Kind())
	}
}

func listToOffsets(starts, stops Index, content Content, offsets Index) (*ListOffset, error) {
	if !starts.Known() || !stops.Known() {
		return NewListOffset(offsets, content.Carry(UnknownIndex(UnknownLength), false)), nil
	}
	off := offsets.Data()
	st, sp := starts.Data(), stops.Data()
	carry := make([]int64, 0, off[len(off)-1])
	for i := range st {
		if sp[i]-st[i] != off[i+1]-off[i] {
			return nil, Errorf(ErrShapeMismatch, "", "cannot broadcast nested list")
		}
		for k := st[i]; k < sp[i]; k++ {
			carry = append(carry, k)
		}
	}
	return NewListOffset(offsets, content.Carry(NewIndex(carry), false)), nil
}

// ToListOffset64 converts any list node into an equivalent ListOffsetArray
// whose offsets start at zero.
func ToListOffset64(c Content) *ListOffset {
	if x, ok := c.(*ListOffset); ok && (!x.offsets.Known() || x.offsets.At(0) == 0) {
		return x
	}
	if !c.Kind().IsList() {
		panic(fmt.Sprintf("to ListOffsetArray: %s is not a list", c.Kind()))
	}
	out, err := BroadcastToOffsets64(c, CompactOffsets64(c))
	if err != nil {
		// Compact offsets always match the list's own counts.
		panic(err)
	}
	out.params = c.Parameters()
	return out
}
