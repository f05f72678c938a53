package content

// Kind identifies the node variant. Every node has exactly one Kind, and the
// capability flags below are derived from it.
type Kind int

// Node kinds.
const (
	KindEmpty Kind = iota
	KindNumpy
	KindRegular
	KindList
	KindListOffset
	KindIndexed
	KindIndexedOption
	KindByteMasked
	KindBitMasked
	KindUnmasked
	KindRecord
	KindUnion
)

// String returns the class name used in forms and error messages.
func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "EmptyArray"
	case KindNumpy:
		return "NumpyArray"
	case KindRegular:
		return "RegularArray"
	case KindList:
		return "ListArray"
	case KindListOffset:
		return "ListOffsetArray"
	case KindIndexed:
		return "IndexedArray"
	case KindIndexedOption:
		return "IndexedOptionArray"
	case KindByteMasked:
		return "ByteMaskedArray"
	case KindBitMasked:
		return "BitMaskedArray"
	case KindUnmasked:
		return "UnmaskedArray"
	case KindRecord:
		return "RecordArray"
	case KindUnion:
		return "UnionArray"
	default:
		return "Unknown"
	}
}

// IsUnknown reports an EmptyArray (no known type).
func (k Kind) IsUnknown() bool { return k == KindEmpty }

// IsNumpy reports a Numpy leaf.
func (k Kind) IsNumpy() bool { return k == KindNumpy }

// IsLeaf reports a node without children.
func (k Kind) IsLeaf() bool { return k == KindEmpty || k == KindNumpy }

// IsList reports a list-typed node (regular or variable-length).
func (k Kind) IsList() bool { return k == KindRegular || k == KindList || k == KindListOffset }

// IsRegular reports a fixed-size list.
func (k Kind) IsRegular() bool { return k == KindRegular }

// IsOption reports a node that can mark rows missing.
func (k Kind) IsOption() bool {
	return k == KindIndexedOption || k == KindByteMasked || k == KindBitMasked || k == KindUnmasked
}

// IsIndexed reports a node that dereferences its content through an index.
func (k Kind) IsIndexed() bool { return k == KindIndexed || k == KindIndexedOption }

// IsRecord reports a record or tuple.
func (k Kind) IsRecord() bool { return k == KindRecord }

// IsUnion reports a tagged union.
func (k Kind) IsUnion() bool { return k == KindUnion }

// Content is one level of a nested array. The set of implementations is
// closed: Empty, Numpy, Regular, List, ListOffset, Indexed, IndexedOption,
// ByteMasked, BitMasked, Unmasked, Record and Union.
//
// Nodes are immutable. Every structural operation returns a new node that may
// share children and buffers with its source.
type Content interface {
	Kind() Kind
	Length() int
	Parameters() Parameters
	Parameter(key string) any
	Backend() Backend
	Key() string

	// Carry gathers rows by index. With allowLazy, records may defer the
	// gather behind an Indexed node.
	Carry(carry Index, allowLazy bool) Content
	GetItemRange(start, stop int) Content

	PurelistDepth() int
	PurelistIsRegular() bool

	WithParameters(p Parameters) Content
	Form() *Form

	isContent()
}

// meta holds the fields shared by all nodes.
type meta struct {
	params  Parameters
	backend Backend
	key     string
}

func (m *meta) Parameters() Parameters   { return m.params }
func (m *meta) Parameter(key string) any { return m.params.Get(key) }
func (m *meta) Backend() Backend         { return m.backend }
func (m *meta) Key() string              { return m.key }
func (m *meta) isContent()               {}

// NodeContent returns the single child of list, indexed and option nodes.
// Returns nil for nodes without a single content.
func NodeContent(c Content) Content {
	switch x := c.(type) {
	case *Regular:
		return x.content
	case *List:
		return x.content
	case *ListOffset:
		return x.content
	case *Indexed:
		return x.content
	case *IndexedOption:
		return x.content
	case *ByteMasked:
		return x.content
	case *BitMasked:
		return x.content
	case *Unmasked:
		return x.content
	default:
		return nil
	}
}

// TypeName returns a short description used in error messages.
func TypeName(x any) string {
	if c, ok := x.(Content); ok {
		return c.Kind().String()
	}
	if _, ok := x.(*RecordScalar); ok {
		return "Record"
	}
	if x == nil {
		return "None"
	}
	return "scalar"
}
