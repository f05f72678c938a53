package content

import "fmt"

// GetField projects the named field through every list, option and union
// layer above the records of c.
func GetField(c Content, name string) (Content, error) {
	switch x := c.(type) {
	case *Record:
		return x.Field(name)
	case *Regular:
		inner, err := GetField(x.content, name)
		if err != nil {
			return nil, err
		}
		out := NewRegular(inner, x.size, x.length)
		out.params = x.params
		return out, nil
	case *List:
		inner, err := GetField(x.content, name)
		if err != nil {
			return nil, err
		}
		out := NewList(x.starts, x.stops, inner)
		out.params = x.params
		return out, nil
	case *ListOffset:
		inner, err := GetField(x.content, name)
		if err != nil {
			return nil, err
		}
		out := NewListOffset(x.offsets, inner)
		out.params = x.params
		return out, nil
	case *Indexed:
		inner, err := GetField(x.content, name)
		if err != nil {
			return nil, err
		}
		return NewIndexed(x.index, inner), nil
	case *IndexedOption:
		inner, err := GetField(x.content, name)
		if err != nil {
			return nil, err
		}
		return NewIndexedOption(x.index, inner), nil
	case *ByteMasked:
		inner, err := GetField(x.content, name)
		if err != nil {
			return nil, err
		}
		return NewByteMasked(x.mask, inner, x.validWhen), nil
	case *BitMasked:
		inner, err := GetField(x.content, name)
		if err != nil {
			return nil, err
		}
		return NewBitMasked(x.mask, inner, x.validWhen, x.length, x.lsbOrder), nil
	case *Unmasked:
		inner, err := GetField(x.content, name)
		if err != nil {
			return nil, err
		}
		return NewUnmasked(inner), nil
	case *Union:
		contents := make([]Content, len(x.contents))
		for i, child := range x.contents {
			inner, err := GetField(child, name)
			if err != nil {
				return nil, err
			}
			contents[i] = inner
		}
		return UnionSimplified(x.tags, x.index, contents, nil, true, false)
	default:
		return nil, fmt.Errorf("getfield: no field %q in %s", name, c.Kind())
	}
}

// HasRecords reports whether any node below c is a record.
func HasRecords(c Content) bool {
	switch x := c.(type) {
	case *Record:
		return true
	case *Union:
		for _, child := range x.contents {
			if HasRecords(child) {
				return true
			}
		}
		return false
	default:
		if inner := NodeContent(c); inner != nil {
			return HasRecords(inner)
		}
		return false
	}
}
