package content

import "fmt"

// Indexed dereferences its content through an index. The content is borrowed
// and may be shared with other nodes.
type Indexed struct {
	meta
	index   Index
	content Content
}

// NewIndexed creates an IndexedArray.
func NewIndexed(index Index, content Content) *Indexed {
	return &Indexed{meta: meta{backend: content.Backend()}, index: index, content: content}
}

func (x *Indexed) Kind() Kind       { return KindIndexed }
func (x *Indexed) Length() int      { return x.index.Len() }
func (x *Indexed) Index() Index     { return x.index }
func (x *Indexed) Content() Content { return x.content }

// Carry gathers index entries; the content is shared.
func (x *Indexed) Carry(carry Index, _ bool) Content {
	out := NewIndexed(x.index.Gather(carry), x.content)
	out.params = x.params
	return out
}

// GetItemRange returns rows [start, stop).
func (x *Indexed) GetItemRange(start, stop int) Content {
	out := NewIndexed(x.index.Slice(start, stop), x.content)
	out.params = x.params
	return out
}

func (x *Indexed) PurelistDepth() int      { return x.content.PurelistDepth() }
func (x *Indexed) PurelistIsRegular() bool { return x.content.PurelistIsRegular() }

// WithParameters returns a copy carrying p.
func (x *Indexed) WithParameters(p Parameters) Content {
	out := *x
	out.params = p
	return &out
}

// Project resolves the indirection into a plain content.
func (x *Indexed) Project() Content {
	return x.content.Carry(x.index, false)
}

// IndexedOption dereferences its content through an index in which negative
// entries mark missing rows.
type IndexedOption struct {
	meta
	index   Index
	content Content
}

// NewIndexedOption creates an IndexedOptionArray.
func NewIndexedOption(index Index, content Content) *IndexedOption {
	return &IndexedOption{meta: meta{backend: content.Backend()}, index: index, content: content}
}

func (x *IndexedOption) Kind() Kind       { return KindIndexedOption }
func (x *IndexedOption) Length() int      { return x.index.Len() }
func (x *IndexedOption) Index() Index     { return x.index }
func (x *IndexedOption) Content() Content { return x.content }

// Carry gathers index entries; the content is shared.
func (x *IndexedOption) Carry(carry Index, _ bool) Content {
	out := NewIndexedOption(x.index.Gather(carry), x.content)
	out.params = x.params
	return out
}

// GetItemRange returns rows [start, stop).
func (x *IndexedOption) GetItemRange(start, stop int) Content {
	out := NewIndexedOption(x.index.Slice(start, stop), x.content)
	out.params = x.params
	return out
}

func (x *IndexedOption) PurelistDepth() int      { return x.content.PurelistDepth() }
func (x *IndexedOption) PurelistIsRegular() bool { return x.content.PurelistIsRegular() }

// WithParameters returns a copy carrying p.
func (x *IndexedOption) WithParameters(p Parameters) Content {
	out := *x
	out.params = p
	return &out
}

// ByteMasked marks rows missing with one mask byte per row.
type ByteMasked struct {
	meta
	mask      Index
	content   Content
	validWhen bool
}

// NewByteMasked creates a ByteMaskedArray; rows are valid where
// (mask != 0) == validWhen.
func NewByteMasked(mask Index, content Content, validWhen bool) *ByteMasked {
	if mask.Len() != UnknownLength && content.Length() != UnknownLength && content.Length() < mask.Len() {
		panic(fmt.Sprintf("bytemasked: len(content) %d < len(mask) %d", content.Length(), mask.Len()))
	}
	return &ByteMasked{meta: meta{backend: content.Backend()}, mask: mask, content: content, validWhen: validWhen}
}

func (x *ByteMasked) Kind() Kind       { return KindByteMasked }
func (x *ByteMasked) Length() int      { return x.mask.Len() }
func (x *ByteMasked) Mask() Index      { return x.mask }
func (x *ByteMasked) Content() Content { return x.content }
func (x *ByteMasked) ValidWhen() bool  { return x.validWhen }

// Carry gathers mask bytes and content rows together.
func (x *ByteMasked) Carry(carry Index, allowLazy bool) Content {
	out := NewByteMasked(x.mask.Gather(carry), x.content.Carry(carry, allowLazy), x.validWhen)
	out.params = x.params
	return out
}

// GetItemRange returns rows [start, stop).
func (x *ByteMasked) GetItemRange(start, stop int) Content {
	out := NewByteMasked(x.mask.Slice(start, stop), x.content.GetItemRange(start, stop), x.validWhen)
	out.params = x.params
	return out
}

func (x *ByteMasked) PurelistDepth() int      { return x.content.PurelistDepth() }
func (x *ByteMasked) PurelistIsRegular() bool { return x.content.PurelistIsRegular() }

// WithParameters returns a copy carrying p.
func (x *ByteMasked) WithParameters(p Parameters) Content {
	out := *x
	out.params = p
	return &out
}

// BitMasked marks rows missing with one bit per row, packed eight to a byte.
// The mask Index holds one byte value per entry.
type BitMasked struct {
	meta
	mask      Index
	content   Content
	validWhen bool
	length    int
	lsbOrder  bool
}

// NewBitMasked creates a BitMaskedArray of the given length.
func NewBitMasked(mask Index, content Content, validWhen bool, length int, lsbOrder bool) *BitMasked {
	if mask.Len() != UnknownLength && length != UnknownLength && mask.Len()*8 < length {
		panic(fmt.Sprintf("bitmasked: %d mask bytes cannot cover length %d", mask.Len(), length))
	}
	return &BitMasked{
		meta:      meta{backend: content.Backend()},
		mask:      mask,
		content:   content,
		validWhen: validWhen,
		length:    length,
		lsbOrder:  lsbOrder,
	}
}

func (x *BitMasked) Kind() Kind       { return KindBitMasked }
func (x *BitMasked) Length() int      { return x.length }
func (x *BitMasked) Mask() Index      { return x.mask }
func (x *BitMasked) Content() Content { return x.content }
func (x *BitMasked) ValidWhen() bool  { return x.validWhen }
func (x *BitMasked) LSBOrder() bool   { return x.lsbOrder }

// bit returns the mask bit for row i.
func (x *BitMasked) bit(i int) bool {
	b := x.mask.At(i / 8)
	shift := uint(i % 8)
	if !x.lsbOrder {
		shift = 7 - shift
	}
	return (b>>shift)&1 == 1
}

// Carry goes through an IndexedOptionArray view.
func (x *BitMasked) Carry(carry Index, allowLazy bool) Content {
	return ToIndexedOption64(x).Carry(carry, allowLazy)
}

// GetItemRange goes through a ByteMaskedArray view.
func (x *BitMasked) GetItemRange(start, stop int) Content {
	return x.toByteMasked().GetItemRange(start, stop)
}

func (x *BitMasked) toByteMasked() *ByteMasked {
	var mask Index
	if x.mask.Known() && x.length != UnknownLength {
		bytes := make([]int64, x.length)
		for i := range bytes {
			if x.bit(i) {
				bytes[i] = 1
			}
		}
		mask = NewIndex(bytes)
	} else {
		mask = UnknownIndex(x.length)
	}
	out := NewByteMasked(mask, x.content, x.validWhen)
	out.params = x.params
	return out
}

func (x *BitMasked) PurelistDepth() int      { return x.content.PurelistDepth() }
func (x *BitMasked) PurelistIsRegular() bool { return x.content.PurelistIsRegular() }

// WithParameters returns a copy carrying p.
func (x *BitMasked) WithParameters(p Parameters) Content {
	out := *x
	out.params = p
	return &out
}

// Unmasked is an option type in which no row is missing.
type Unmasked struct {
	meta
	content Content
}

// NewUnmasked creates an UnmaskedArray.
func NewUnmasked(content Content) *Unmasked {
	return &Unmasked{meta: meta{backend: content.Backend()}, content: content}
}

func (x *Unmasked) Kind() Kind       { return KindUnmasked }
func (x *Unmasked) Length() int      { return x.content.Length() }
func (x *Unmasked) Content() Content { return x.content }

// Carry gathers content rows.
func (x *Unmasked) Carry(carry Index, allowLazy bool) Content {
	out := NewUnmasked(x.content.Carry(carry, allowLazy))
	out.params = x.params
	return out
}

// GetItemRange returns rows [start, stop).
func (x *Unmasked) GetItemRange(start, stop int) Content {
	out := NewUnmasked(x.content.GetItemRange(start, stop))
	out.params = x.params
	return out
}

func (x *Unmasked) PurelistDepth() int      { return x.content.PurelistDepth() }
func (x *Unmasked) PurelistIsRegular() bool { return x.content.PurelistIsRegular() }

// WithParameters returns a copy carrying p.
func (x *Unmasked) WithParameters(p Parameters) Content {
	out := *x
	out.params = p
	return &out
}

// MaskAsBool returns, per row of an option node, whether the row's validity
// equals validWhen. MaskAsBool(c, false) is true exactly at missing rows.
func MaskAsBool(c Content, validWhen bool) []bool {
	n := c.Length()
	out := make([]bool, n)
	switch x := c.(type) {
	case *IndexedOption:
		for i, v := range x.index.Data() {
			out[i] = (v >= 0) == validWhen
		}
	case *ByteMasked:
		for i, v := range x.mask.Data() {
			out[i] = ((v != 0) == x.validWhen) == validWhen
		}
	case *BitMasked:
		for i := range out {
			out[i] = (x.bit(i) == x.validWhen) == validWhen
		}
	case *Unmasked:
		for i := range out {
			out[i] = validWhen
		}
	default:
		panic(fmt.Sprintf("mask: %s is not an option type", c.Kind()))
	}
	return out
}

// ProjectOption drops the missing rows of an option node, and additionally
// every row where mask is true (mask may be nil), returning the remaining
// rows of its content.
func ProjectOption(c Content, mask []bool) Content {
	inner := NodeContent(c)
	if !c.Backend().KnownData() {
		return inner.Carry(UnknownIndex(UnknownLength), false)
	}
	if mask != nil && len(mask) != c.Length() {
		panic(fmt.Sprintf("project: mask length %d does not match length %d", len(mask), c.Length()))
	}
	valid := MaskAsBool(c, true)
	carry := make([]int64, 0, len(valid))
	for i, ok := range valid {
		if !ok || (mask != nil && mask[i]) {
			continue
		}
		if x, isIndexed := c.(*IndexedOption); isIndexed {
			carry = append(carry, x.index.At(i))
		} else {
			carry = append(carry, int64(i))
		}
	}
	return inner.Carry(NewIndex(carry), false)
}

// ToIndexedOption64 rewrites an option or indexed node as an
// IndexedOptionArray over the same content.
func ToIndexedOption64(c Content) *IndexedOption {
	var out *IndexedOption
	switch x := c.(type) {
	case *IndexedOption:
		return x
	case *Indexed:
		out = NewIndexedOption(x.index, x.content)
	case *ByteMasked, *BitMasked, *Unmasked:
		n := c.Length()
		if !c.Backend().KnownData() {
			out = NewIndexedOption(UnknownIndex(n), NodeContent(c))
			break
		}
		valid := MaskAsBool(c, true)
		index := make([]int64, n)
		for i, ok := range valid {
			if ok {
				index[i] = int64(i)
			} else {
				index[i] = -1
			}
		}
		out = NewIndexedOption(NewIndex(index), NodeContent(c))
	default:
		panic(fmt.Sprintf("to IndexedOptionArray: %s is not an option or indexed type", c.Kind()))
	}
	out.params = c.Parameters()
	return out
}

// IndexedOptionSimplified wraps content in an option layer keyed by index,
// collapsing nested indexed/option layers into one and turning an option of
// a union into a union of options.
func IndexedOptionSimplified(index Index, c Content, params Parameters) (Content, error) {
	if u, ok := c.(*Union); ok {
		return u.unionOfOptions(index, params)
	}
	if c.Kind().IsIndexed() || c.Kind().IsOption() {
		inner := ToIndexedOption64(c)
		out := NewIndexedOption(composeIndex(index, inner.index), inner.content)
		out.params = ParametersUnion(c.Parameters(), params)
		return out, nil
	}
	out := NewIndexedOption(index, c)
	out.params = params
	return out, nil
}

// IndexedSimplified wraps content in an indexed layer, collapsing it into an
// indexed or option child. A union is carried through index directly.
func IndexedSimplified(index Index, c Content, params Parameters) Content {
	switch x := c.(type) {
	case *Union:
		return x.Carry(index, false).WithParameters(ParametersUnion(x.params, params))
	case *Indexed:
		out := NewIndexed(composeIndex(index, x.index), x.content)
		out.params = ParametersUnion(x.params, params)
		return out
	}
	if c.Kind().IsOption() {
		inner := ToIndexedOption64(c)
		out := NewIndexedOption(composeIndex(index, inner.index), inner.content)
		out.params = ParametersUnion(c.Parameters(), params)
		return out
	}
	out := NewIndexed(index, c)
	out.params = params
	return out
}

// composeIndex returns inner[outer[i]], keeping negative entries of either
// level as missing.
func composeIndex(outer, inner Index) Index {
	if !outer.Known() || !inner.Known() {
		return UnknownIndex(outer.Len())
	}
	out := make([]int64, outer.Len())
	for i, v := range outer.Data() {
		if v < 0 {
			out[i] = -1
		} else {
			out[i] = inner.At(int(v))
		}
	}
	return NewIndex(out)
}
