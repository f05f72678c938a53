package content

import "fmt"

// ToBackend rebuilds c on backend b, assigning form keys node0, node1, ...
// in depth-first order. Moving to a backend without known data keeps every
// length but drops the values.
func ToBackend(c Content, b Backend) (Content, error) {
	if b.KnownData() && !c.Backend().KnownData() {
		return nil, Errorf(ErrInvalidConfiguration, "", "cannot move a %s from %s to %s: values are not known", c.Kind(), c.Backend().Name(), b.Name())
	}
	conv := &converter{backend: b}
	return conv.convert(c), nil
}

type converter struct {
	backend Backend
	next    int
}

func (v *converter) key() string {
	k := fmt.Sprintf("node%d", v.next)
	v.next++
	return k
}

func (v *converter) index(x Index) Index {
	if v.backend.KnownData() {
		return x
	}
	return UnknownIndex(x.Len())
}

func (v *converter) convert(c Content) Content {
	m := meta{params: c.Parameters(), backend: v.backend, key: v.key()}
	switch x := c.(type) {
	case *Empty:
		return &Empty{meta: m}
	case *Numpy:
		out := &Numpy{meta: m, dtype: x.dtype, length: x.length, inner: x.inner.Clone()}
		if v.backend.KnownData() {
			out.data = x.data
		}
		return out
	case *Regular:
		return &Regular{meta: m, content: v.convert(x.content), size: x.size, length: x.length}
	case *List:
		return &List{meta: m, starts: v.index(x.starts), stops: v.index(x.stops), content: v.convert(x.content)}
	case *ListOffset:
		return &ListOffset{meta: m, offsets: v.index(x.offsets), content: v.convert(x.content)}
	case *Indexed:
		return &Indexed{meta: m, index: v.index(x.index), content: v.convert(x.content)}
	case *IndexedOption:
		return &IndexedOption{meta: m, index: v.index(x.index), content: v.convert(x.content)}
	case *ByteMasked:
		return &ByteMasked{meta: m, mask: v.index(x.mask), content: v.convert(x.content), validWhen: x.validWhen}
	case *BitMasked:
		return &BitMasked{meta: m, mask: v.index(x.mask), content: v.convert(x.content), validWhen: x.validWhen, length: x.length, lsbOrder: x.lsbOrder}
	case *Unmasked:
		return &Unmasked{meta: m, content: v.convert(x.content)}
	case *Record:
		contents := make([]Content, len(x.contents))
		for i, child := range x.contents {
			contents[i] = v.convert(child)
		}
		return &Record{meta: m, contents: contents, fields: x.fields, length: x.length}
	case *Union:
		tags, index := v.index(x.tags), v.index(x.index)
		contents := make([]Content, len(x.contents))
		for i, child := range x.contents {
			contents[i] = v.convert(child)
		}
		return &Union{meta: m, tags: tags, index: index, contents: contents}
	default:
		panic(fmt.Sprintf("to backend: unexpected %s", c.Kind()))
	}
}
