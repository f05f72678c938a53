package content

import "fmt"

// Index is an int64 buffer used for offsets, starts/stops, carries, tags and
// masks. On shape-only backends an Index holds a length but no values.
type Index struct {
	data  []int64
	n     int
	known bool
}

// NewIndex wraps data as a materialised index. The slice is not copied.
func NewIndex(data []int64) Index {
	if data == nil {
		data = []int64{}
	}
	return Index{data: data, n: len(data), known: true}
}

// UnknownIndex returns a data-less index of length n (which may itself be
// UnknownLength).
func UnknownIndex(n int) Index {
	return Index{n: n}
}

// Len returns the number of entries, or UnknownLength.
func (x Index) Len() int {
	return x.n
}

// Known reports whether the index carries values.
func (x Index) Known() bool {
	return x.known
}

// Data returns the underlying values.
// Panics if the index is data-less.
func (x Index) Data() []int64 {
	if !x.known {
		panic("index: data is not known on a shape-only backend")
	}
	return x.data
}

// At returns entry i.
func (x Index) At(i int) int64 {
	return x.Data()[i]
}

// Last returns the final entry.
func (x Index) Last() int64 {
	d := x.Data()
	return d[len(d)-1]
}

// Slice returns entries [start, stop). Both bounds must be known.
func (x Index) Slice(start, stop int) Index {
	if !x.known {
		if stop == UnknownLength || start == UnknownLength {
			return UnknownIndex(UnknownLength)
		}
		return UnknownIndex(stop - start)
	}
	if start < 0 || stop > x.n || start > stop {
		panic(fmt.Sprintf("index: slice [%d:%d] out of range for length %d", start, stop, x.n))
	}
	return NewIndex(x.data[start:stop])
}

// Gather returns x[carry[i]] for every i.
func (x Index) Gather(carry Index) Index {
	if !x.known || !carry.known {
		return UnknownIndex(carry.n)
	}
	out := make([]int64, carry.n)
	for i, c := range carry.data {
		if c < 0 || int(c) >= x.n {
			panic(fmt.Sprintf("index: carry %d out of range for length %d", c, x.n))
		}
		out[i] = x.data[c]
	}
	return NewIndex(out)
}

// Equal reports whether two materialised indexes hold the same values.
func (x Index) Equal(other Index) bool {
	if !x.known || !other.known || x.n != other.n {
		return false
	}
	for i := range x.data {
		if x.data[i] != other.data[i] {
			return false
		}
	}
	return true
}

// concatIndex concatenates indexes, shifting each part by the matching offset
// (entries below zero are kept as-is so missing markers survive).
func concatIndex(parts []Index, shifts []int64) Index {
	total := 0
	known := true
	for _, p := range parts {
		total = addLength(total, p.n)
		known = known && p.known
	}
	if !known {
		return UnknownIndex(total)
	}
	out := make([]int64, 0, total)
	for k, p := range parts {
		var shift int64
		if shifts != nil {
			shift = shifts[k]
		}
		for _, v := range p.data {
			if v >= 0 {
				v += shift
			}
			out = append(out, v)
		}
	}
	return NewIndex(out)
}

// Nonzero returns the positions where mask is true.
func Nonzero(mask []bool) Index {
	out := make([]int64, 0, len(mask))
	for i, m := range mask {
		if m {
			out = append(out, int64(i))
		}
	}
	return NewIndex(out)
}
