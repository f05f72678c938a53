package content

import (
	"encoding/binary"
	"fmt"
	"math"
	"slices"
)

// Buffer roles. A buffer is named "<form key>-<role>".
const (
	RoleData    = "data"
	RoleOffsets = "offsets"
	RoleStarts  = "starts"
	RoleStops   = "stops"
	RoleIndex   = "index"
	RoleMask    = "mask"
	RoleTags    = "tags"
)

// BufferName returns the buffer name for a form key and role.
func BufferName(key, role string) string {
	return key + "-" + role
}

// ToBuffers decomposes c into its form, its length and a set of named
// little-endian buffers. Form keys are reassigned node0, node1, ... depth
// first. FromBuffers reverses it.
func ToBuffers(c Content) (*Form, int, map[string][]byte, error) {
	if !c.Backend().KnownData() {
		return nil, 0, nil, Errorf(ErrInvalidConfiguration, "", "cannot write buffers of a %s without known data", c.Kind())
	}
	keyed, err := ToBackend(c, c.Backend())
	if err != nil {
		return nil, 0, nil, err
	}
	buffers := map[string][]byte{}
	collectBuffers(keyed, buffers)
	return keyed.Form(), keyed.Length(), buffers, nil
}

func collectBuffers(c Content, out map[string][]byte) {
	key := c.Key()
	switch x := c.(type) {
	case *Empty:
	case *Numpy:
		out[BufferName(key, RoleData)] = encodeColumn(x.data, x.length*x.inner.NumElements())
	case *Regular:
		collectBuffers(x.content, out)
	case *List:
		out[BufferName(key, RoleStarts)] = encodeIndex(x.starts, 8)
		out[BufferName(key, RoleStops)] = encodeIndex(x.stops, 8)
		collectBuffers(x.content, out)
	case *ListOffset:
		out[BufferName(key, RoleOffsets)] = encodeIndex(x.offsets, 8)
		collectBuffers(x.content, out)
	case *Indexed:
		out[BufferName(key, RoleIndex)] = encodeIndex(x.index, 8)
		collectBuffers(x.content, out)
	case *IndexedOption:
		out[BufferName(key, RoleIndex)] = encodeIndex(x.index, 8)
		collectBuffers(x.content, out)
	case *ByteMasked:
		out[BufferName(key, RoleMask)] = encodeIndex(x.mask, 1)
		collectBuffers(x.content, out)
	case *BitMasked:
		out[BufferName(key, RoleMask)] = encodeIndex(x.mask, 1)
		collectBuffers(x.content, out)
	case *Unmasked:
		collectBuffers(x.content, out)
	case *Record:
		for _, child := range x.contents {
			collectBuffers(child, out)
		}
	case *Union:
		out[BufferName(key, RoleTags)] = encodeIndex(x.tags, 1)
		out[BufferName(key, RoleIndex)] = encodeIndex(x.index, 8)
		for _, child := range x.contents {
			collectBuffers(child, out)
		}
	default:
		panic(fmt.Sprintf("to buffers: unexpected %s", c.Kind()))
	}
}

// FromBuffers rebuilds a content of the given length from a form and the
// buffers ToBuffers produced. Malformed input is reported as an
// ErrInvalidConfiguration error.
func FromBuffers(form *Form, length int, buffers map[string][]byte, b Backend) (out Content, err error) {
	if !b.KnownData() {
		return nil, Errorf(ErrInvalidConfiguration, "", "cannot read buffers onto %s: values are not known", b.Name())
	}
	if form == nil {
		return nil, Errorf(ErrInvalidConfiguration, "", "from buffers: missing form")
	}
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, Errorf(ErrInvalidConfiguration, "", "from buffers: %v", r)
		}
	}()

	d := &decoder{buffers: buffers, backend: b}
	out, err = d.decode(form, length)
	if err != nil {
		return nil, err
	}
	if out.Length() != length {
		return nil, Errorf(ErrInvalidConfiguration, "", "from buffers: %s has length %d, expected %d", out.Kind(), out.Length(), length)
	}
	return out, nil
}

type decoder struct {
	buffers map[string][]byte
	backend Backend
}

func (d *decoder) buffer(f *Form, role string) ([]byte, error) {
	name := BufferName(f.FormKey, role)
	raw, ok := d.buffers[name]
	if !ok {
		return nil, Errorf(ErrInvalidConfiguration, "", "from buffers: missing buffer %q", name)
	}
	return raw, nil
}

func (d *decoder) index(f *Form, role, format string) (Index, error) {
	raw, err := d.buffer(f, role)
	if err != nil {
		return Index{}, err
	}
	return decodeIndex(raw, format)
}

// decode builds the node for f. length is the number of rows the parent
// reaches into; nodes that carry their own buffers take their length from
// those and must cover it.
func (d *decoder) decode(f *Form, length int) (Content, error) {
	out, err := d.decodeNode(f, length)
	if err != nil {
		return nil, err
	}
	if out.Length() < length {
		return nil, Errorf(ErrInvalidConfiguration, "", "from buffers: %s %q has %d entries, needs %d", f.Class, f.FormKey, out.Length(), length)
	}
	if !f.Parameters.Empty() {
		out = out.WithParameters(f.Parameters)
	}
	return out, nil
}

//nolint:gocyclo,cyclop // One case per node class.
func (d *decoder) decodeNode(f *Form, length int) (Content, error) {
	switch f.Class {
	case "EmptyArray":
		return NewEmpty(d.backend), nil

	case "NumpyArray":
		dt, err := ParseDataType(f.Primitive)
		if err != nil {
			return nil, err
		}
		raw, err := d.buffer(f, RoleData)
		if err != nil {
			return nil, err
		}
		data, err := decodeColumn(dt, raw)
		if err != nil {
			return nil, err
		}
		inner := Shape(f.InnerShape)
		if err := inner.Validate(); err != nil {
			return nil, Errorf(ErrInvalidConfiguration, "", "from buffers: %v", err)
		}
		rows := length
		if per := inner.NumElements(); per > 0 {
			if data.len()%per != 0 {
				return nil, Errorf(ErrInvalidConfiguration, "", "from buffers: %d scalars do not fill rows of shape %v", data.len(), inner)
			}
			rows = data.len() / per
		}
		return &Numpy{meta: meta{backend: d.backend}, dtype: dt, data: data, length: rows, inner: inner.Clone()}, nil

	case "RegularArray":
		if f.Size == nil || *f.Size < 0 {
			return nil, Errorf(ErrInvalidConfiguration, "", "from buffers: RegularArray needs a non-negative size")
		}
		size := *f.Size
		child, err := d.child(f, length*size)
		if err != nil {
			return nil, err
		}
		return NewRegular(child, size, length), nil

	case "ListArray":
		starts, err := d.index(f, RoleStarts, f.Starts)
		if err != nil {
			return nil, err
		}
		stops, err := d.index(f, RoleStops, f.Stops)
		if err != nil {
			return nil, err
		}
		child, err := d.child(f, maxPlus(stops, 0))
		if err != nil {
			return nil, err
		}
		return NewList(starts, stops, child), nil

	case "ListOffsetArray":
		offsets, err := d.index(f, RoleOffsets, f.Offsets)
		if err != nil {
			return nil, err
		}
		if offsets.Len() == 0 {
			return nil, Errorf(ErrInvalidConfiguration, "", "from buffers: ListOffsetArray needs at least one offset")
		}
		child, err := d.child(f, int(offsets.Last()))
		if err != nil {
			return nil, err
		}
		return NewListOffset(offsets, child), nil

	case "IndexedArray", "IndexedOptionArray":
		index, err := d.index(f, RoleIndex, f.Index)
		if err != nil {
			return nil, err
		}
		child, err := d.child(f, maxPlus(index, 1))
		if err != nil {
			return nil, err
		}
		if f.Class == "IndexedArray" {
			return NewIndexed(index, child), nil
		}
		return NewIndexedOption(index, child), nil

	case "ByteMaskedArray":
		mask, err := d.index(f, RoleMask, f.Mask)
		if err != nil {
			return nil, err
		}
		child, err := d.child(f, mask.Len())
		if err != nil {
			return nil, err
		}
		return NewByteMasked(mask, child, f.ValidWhen == nil || *f.ValidWhen), nil

	case "BitMaskedArray":
		mask, err := d.index(f, RoleMask, f.Mask)
		if err != nil {
			return nil, err
		}
		child, err := d.child(f, length)
		if err != nil {
			return nil, err
		}
		return NewBitMasked(mask, child, f.ValidWhen == nil || *f.ValidWhen, length, f.LSBOrder == nil || *f.LSBOrder), nil

	case "UnmaskedArray":
		child, err := d.child(f, length)
		if err != nil {
			return nil, err
		}
		return NewUnmasked(child), nil

	case "RecordArray":
		if f.Fields != nil && len(f.Fields) != len(f.Contents) {
			return nil, Errorf(ErrInvalidConfiguration, "", "from buffers: %d fields for %d contents", len(f.Fields), len(f.Contents))
		}
		contents := make([]Content, len(f.Contents))
		for i, cf := range f.Contents {
			c, err := d.decode(cf, length)
			if err != nil {
				return nil, err
			}
			contents[i] = c
		}
		return NewRecord(contents, f.Fields, length, d.backend), nil

	case "UnionArray":
		tags, err := d.index(f, RoleTags, f.Tags)
		if err != nil {
			return nil, err
		}
		index, err := d.index(f, RoleIndex, f.Index)
		if err != nil {
			return nil, err
		}
		contents := make([]Content, len(f.Contents))
		for k, cf := range f.Contents {
			n := 0
			for row, tag := range tags.Data() {
				if int(tag) == k && row < index.Len() {
					n = max(n, int(index.At(row))+1)
				}
			}
			c, err := d.decode(cf, n)
			if err != nil {
				return nil, err
			}
			contents[k] = c
		}
		return NewUnion(tags, index, contents), nil

	default:
		return nil, Errorf(ErrInvalidConfiguration, "", "from buffers: unknown class %q", f.Class)
	}
}

func (d *decoder) child(f *Form, length int) (Content, error) {
	if f.Content == nil {
		return nil, Errorf(ErrInvalidConfiguration, "", "from buffers: %s has no content", f.Class)
	}
	return d.decode(f.Content, length)
}

// maxPlus returns max(x)+plus over the non-negative entries, or 0.
func maxPlus(x Index, plus int) int {
	var valid []int64
	for _, v := range x.Data() {
		if v >= 0 {
			valid = append(valid, v)
		}
	}
	if len(valid) == 0 {
		return 0
	}
	return int(slices.Max(valid)) + plus
}

func encodeIndex(x Index, width int) []byte {
	data := x.Data()
	out := make([]byte, len(data)*width)
	for i, v := range data {
		if width == 1 {
			out[i] = byte(v)
		} else {
			binary.LittleEndian.PutUint64(out[i*8:], uint64(v))
		}
	}
	return out
}

func decodeIndex(raw []byte, format string) (Index, error) {
	out := make([]int64, 0, len(raw))
	switch format {
	case "i64":
		if len(raw)%8 != 0 {
			return Index{}, Errorf(ErrInvalidConfiguration, "", "from buffers: %d bytes is not a whole number of i64 entries", len(raw))
		}
		for i := 0; i < len(raw); i += 8 {
			out = append(out, int64(binary.LittleEndian.Uint64(raw[i:])))
		}
	case "i8":
		for _, b := range raw {
			out = append(out, int64(int8(b)))
		}
	case "u8":
		for _, b := range raw {
			out = append(out, int64(b))
		}
	default:
		return Index{}, Errorf(ErrInvalidConfiguration, "", "from buffers: unknown index format %q", format)
	}
	return NewIndex(out), nil
}

func encodeColumn(c column, n int) []byte {
	size := c.dtype().Size()
	out := make([]byte, n*size)
	for i := 0; i < n; i++ {
		b := out[i*size:]
		switch v := c.at(i).(type) {
		case float32:
			binary.LittleEndian.PutUint32(b, math.Float32bits(v))
		case float64:
			binary.LittleEndian.PutUint64(b, math.Float64bits(v))
		case int32:
			binary.LittleEndian.PutUint32(b, uint32(v))
		case int64:
			binary.LittleEndian.PutUint64(b, uint64(v))
		case uint8:
			b[0] = v
		case bool:
			if v {
				b[0] = 1
			}
		}
	}
	return out
}

func decodeColumn(dt DataType, raw []byte) (column, error) {
	size := dt.Size()
	if len(raw)%size != 0 {
		return nil, Errorf(ErrInvalidConfiguration, "", "from buffers: %d bytes is not a whole number of %s values", len(raw), dt)
	}
	n := len(raw) / size
	switch dt {
	case Float32:
		out := make(typedColumn[float32], n)
		for i := range out {
			out[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[i*4:]))
		}
		return out, nil
	case Float64:
		out := make(typedColumn[float64], n)
		for i := range out {
			out[i] = math.Float64frombits(binary.LittleEndian.Uint64(raw[i*8:]))
		}
		return out, nil
	case Int32:
		out := make(typedColumn[int32], n)
		for i := range out {
			out[i] = int32(binary.LittleEndian.Uint32(raw[i*4:]))
		}
		return out, nil
	case Int64:
		out := make(typedColumn[int64], n)
		for i := range out {
			out[i] = int64(binary.LittleEndian.Uint64(raw[i*8:]))
		}
		return out, nil
	case Uint8:
		return typedColumn[uint8](slices.Clone(raw)), nil
	default:
		out := make(typedColumn[bool], n)
		for i, b := range raw {
			out[i] = b != 0
		}
		return out, nil
	}
}
