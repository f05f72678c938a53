package content

import (
	"fmt"
	"slices"
	"strconv"
)

// Record groups same-length contents as named fields, or as positional
// slots when fields is nil (a tuple).
type Record struct {
	meta
	contents []Content
	fields   []string
	length   int
}

// NewRecord creates a RecordArray. Contents may be longer than length; only
// their first length rows are visible. A nil fields slice makes a tuple.
func NewRecord(contents []Content, fields []string, length int, b Backend) *Record {
	if fields != nil && len(fields) != len(contents) {
		panic(fmt.Sprintf("record: %d fields for %d contents", len(fields), len(contents)))
	}
	for i, c := range contents {
		if c.Backend() != b {
			panic(fmt.Sprintf("record: content %d lives on %s, expected %s", i, c.Backend().Name(), b.Name()))
		}
		if length != UnknownLength && c.Length() != UnknownLength && c.Length() < length {
			panic(fmt.Sprintf("record: content %d has length %d < %d", i, c.Length(), length))
		}
	}
	return &Record{meta: meta{backend: b}, contents: contents, fields: fields, length: length}
}

func (r *Record) Kind() Kind     { return KindRecord }
func (r *Record) Length() int    { return r.length }
func (r *Record) IsTuple() bool  { return r.fields == nil }
func (r *Record) NumFields() int { return len(r.contents) }

// Fields returns the field names; tuples use "0", "1", ....
func (r *Record) Fields() []string {
	if r.fields != nil {
		return slices.Clone(r.fields)
	}
	out := make([]string, len(r.contents))
	for i := range out {
		out[i] = strconv.Itoa(i)
	}
	return out
}

// FieldIndex returns the slot for name, or -1.
func (r *Record) FieldIndex(name string) int {
	if r.fields == nil {
		i, err := strconv.Atoi(name)
		if err != nil || i < 0 || i >= len(r.contents) {
			return -1
		}
		return i
	}
	return slices.Index(r.fields, name)
}

// FieldAt returns slot i trimmed to the record's length.
func (r *Record) FieldAt(i int) Content {
	c := r.contents[i]
	if r.length == UnknownLength || c.Length() == r.length {
		return c
	}
	return c.GetItemRange(0, r.length)
}

// Field returns the named field.
func (r *Record) Field(name string) (Content, error) {
	i := r.FieldIndex(name)
	if i < 0 {
		return nil, fmt.Errorf("record: no field %q in record with fields %v", name, r.Fields())
	}
	return r.FieldAt(i), nil
}

// Contents returns every slot trimmed to the record's length.
func (r *Record) Contents() []Content {
	out := make([]Content, len(r.contents))
	for i := range r.contents {
		out[i] = r.FieldAt(i)
	}
	return out
}

// Carry gathers rows of every field. With allowLazy the gather is deferred
// behind an IndexedArray.
func (r *Record) Carry(carry Index, allowLazy bool) Content {
	if allowLazy {
		return NewIndexed(carry, r)
	}
	contents := make([]Content, len(r.contents))
	for i := range r.contents {
		contents[i] = r.FieldAt(i).Carry(carry, false)
	}
	out := NewRecord(contents, r.fields, carry.Len(), r.backend)
	out.params = r.params
	return out
}

// GetItemRange returns rows [start, stop).
func (r *Record) GetItemRange(start, stop int) Content {
	contents := make([]Content, len(r.contents))
	for i, c := range r.contents {
		contents[i] = c.GetItemRange(start, stop)
	}
	length := UnknownLength
	if start != UnknownLength && stop != UnknownLength {
		length = stop - start
	}
	out := NewRecord(contents, r.fields, length, r.backend)
	out.params = r.params
	return out
}

func (r *Record) PurelistDepth() int      { return 1 }
func (r *Record) PurelistIsRegular() bool { return true }

// WithParameters returns a copy carrying p.
func (r *Record) WithParameters(p Parameters) Content {
	out := *r
	out.params = p
	return &out
}

// WithField returns a copy with name set to c, replacing an existing field
// or appending a new one. Tuples gain a positional slot unless name is a
// valid slot number.
func (r *Record) WithField(name string, c Content) *Record {
	contents := r.Contents()
	fields := slices.Clone(r.fields)
	if i := r.FieldIndex(name); i >= 0 {
		contents[i] = c
	} else {
		contents = append(contents, c)
		if fields == nil {
			fields = r.Fields()
		}
		fields = append(fields, name)
	}
	out := NewRecord(contents, fields, r.length, r.backend)
	out.params = r.params
	return out
}

// RecordScalar is a single row of a RecordArray, as produced by GetItemAt.
type RecordScalar struct {
	Array *Record
	At    int
}

// Fields returns the field names of the underlying record.
func (s *RecordScalar) Fields() []string { return s.Array.Fields() }
