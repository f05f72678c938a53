package content

import "fmt"

// MaxUnionContents is the largest number of alternatives a union may hold.
const MaxUnionContents = 127

// Union is a tagged union: row i is contents[tags[i]][index[i]].
type Union struct {
	meta
	tags     Index
	index    Index
	contents []Content
}

// NewUnion creates a UnionArray. Every content must live on the same backend.
func NewUnion(tags, index Index, contents []Content) *Union {
	if len(contents) == 0 {
		panic("union: at least one content is required")
	}
	if tags.Len() != UnknownLength && index.Len() != UnknownLength && index.Len() < tags.Len() {
		panic(fmt.Sprintf("union: len(index) %d < len(tags) %d", index.Len(), tags.Len()))
	}
	b := contents[0].Backend()
	for _, c := range contents[1:] {
		if c.Backend() != b {
			panic(fmt.Sprintf("union: contents must share a backend: %s vs %s", b.Name(), c.Backend().Name()))
		}
	}
	return &Union{meta: meta{backend: b}, tags: tags, index: index, contents: contents}
}

func (u *Union) Kind() Kind          { return KindUnion }
func (u *Union) Length() int         { return u.tags.Len() }
func (u *Union) Tags() Index         { return u.tags }
func (u *Union) Index() Index        { return u.index }
func (u *Union) Contents() []Content { return u.contents }

// ContentAt returns alternative i.
func (u *Union) ContentAt(i int) Content { return u.contents[i] }

// Carry gathers tags and index entries; contents are shared.
func (u *Union) Carry(carry Index, _ bool) Content {
	out := NewUnion(u.tags.Gather(carry), u.index.Slice(0, u.tags.Len()).Gather(carry), u.contents)
	out.params = u.params
	return out
}

// GetItemRange returns rows [start, stop).
func (u *Union) GetItemRange(start, stop int) Content {
	out := NewUnion(u.tags.Slice(start, stop), u.index.Slice(start, stop), u.contents)
	out.params = u.params
	return out
}

// PurelistDepth is the common depth of the contents, or -1 if they differ.
func (u *Union) PurelistDepth() int {
	depth := u.contents[0].PurelistDepth()
	for _, c := range u.contents[1:] {
		if c.PurelistDepth() != depth {
			return -1
		}
	}
	return depth
}

// PurelistIsRegular is false when the contents disagree on depth.
func (u *Union) PurelistIsRegular() bool {
	if u.PurelistDepth() < 0 {
		return false
	}
	for _, c := range u.contents {
		if !c.PurelistIsRegular() {
			return false
		}
	}
	return true
}

// WithParameters returns a copy carrying p.
func (u *Union) WithParameters(p Parameters) Content {
	out := *u
	out.params = p
	return &out
}

// Project returns the rows tagged with tag, taken from that content.
func (u *Union) Project(tag int) Content {
	if tag < 0 || tag >= len(u.contents) {
		panic(fmt.Sprintf("project: tag %d out of range for %d contents", tag, len(u.contents)))
	}
	if !u.tags.Known() || !u.index.Known() {
		return u.contents[tag].Carry(UnknownIndex(UnknownLength), false)
	}
	carry := make([]int64, 0, u.tags.Len())
	for i, t := range u.tags.Data() {
		if int(t) == tag {
			carry = append(carry, u.index.At(i))
		}
	}
	return u.contents[tag].Carry(NewIndex(carry), false)
}

// UnionSimplified builds a union from tags, index and contents, flattening
// nested unions and, when merge is set, folding mergeable contents together.
// If a single content remains, it is returned directly (carried by index).
func UnionSimplified(tags, index Index, contents []Content, params Parameters, merge, mergeBool bool) (Content, error) {
	if len(contents) == 0 {
		return nil, Errorf(ErrInvalidConfiguration, "", "cannot build a union without contents")
	}
	b := contents[0].Backend()
	for _, c := range contents[1:] {
		if c.Backend() != b {
			return nil, Errorf(ErrInvalidConfiguration, "", "union contents must use the same backend: %s vs %s", b.Name(), c.Backend().Name())
		}
	}
	known := b.KnownData() && tags.Known() && index.Known()
	if known && index.Len() < tags.Len() {
		return nil, Errorf(ErrShapeMismatch, "", "invalid UnionArray: len(index) %d < len(tags) %d", index.Len(), tags.Len())
	}

	length := tags.Len()
	var outTags, outIndex []int64
	if known {
		outTags = make([]int64, length)
		outIndex = make([]int64, length)
	}
	// relabel moves rows with outer tag i (and inner tag j when inner is set)
	// to tag k, shifting their positions by offset.
	relabel := func(i int, inner *Union, j, k int, offset int) {
		if !known {
			return
		}
		for row, t := range tags.Data() {
			if int(t) != i {
				continue
			}
			pos := index.At(row)
			if inner != nil {
				if int(inner.tags.At(int(pos))) != j {
					continue
				}
				pos = inner.index.At(int(pos))
			}
			outTags[row] = int64(k)
			outIndex[row] = pos + int64(offset)
		}
	}

	var out []Content
	for i, c := range contents {
		if inner, ok := c.(*Union); ok {
			params = ParametersUnion(inner.params, params)
			for j, ic := range inner.contents {
				merged := false
				for k := range out {
					if !merge || !Mergeable(out[k], ic, mergeBool) {
						continue
					}
					relabel(i, inner, j, k, out[k].Length())
					next, err := MergeMany([]Content{out[k], ic})
					if err != nil {
						return nil, err
					}
					out[k] = next
					merged = true
					break
				}
				if !merged {
					relabel(i, inner, j, len(out), 0)
					out = append(out, ic)
				}
			}
			continue
		}

		merged := false
		for k := range out {
			if out[k] == c {
				relabel(i, nil, 0, k, 0)
				merged = true
				break
			}
			if merge && Mergeable(out[k], c, mergeBool) {
				relabel(i, nil, 0, k, out[k].Length())
				next, err := MergeMany([]Content{out[k], c})
				if err != nil {
					return nil, err
				}
				out[k] = next
				merged = true
				break
			}
		}
		if !merged {
			relabel(i, nil, 0, len(out), 0)
			out = append(out, c)
		}
	}

	if len(out) > MaxUnionContents {
		return nil, Errorf(ErrTooManyContents, "", "cannot build a UnionArray with %d contents", len(out))
	}

	anyOption := false
	for _, c := range out {
		anyOption = anyOption || c.Kind().IsOption()
	}
	if anyOption {
		for k, c := range out {
			switch {
			case c.Kind().IsOption():
			case c.Kind().IsIndexed():
				out[k] = ToIndexedOption64(c)
			default:
				out[k] = NewUnmasked(c)
			}
		}
	}

	var nextTags, nextIndex Index
	if known {
		nextTags, nextIndex = NewIndex(outTags), NewIndex(outIndex)
	} else {
		nextTags, nextIndex = UnknownIndex(length), UnknownIndex(length)
	}

	if len(out) == 1 {
		next := out[0].Carry(nextIndex, true)
		return next.WithParameters(ParametersUnion(next.Parameters(), params)), nil
	}
	u := NewUnion(nextTags, nextIndex, out)
	u.params = params
	return u, nil
}

// unionOfOptions distributes an option layer keyed by index over the
// contents of u. Missing rows point one past the end of the first option
// content (or of content 0), which is extended with a missing entry.
func (u *Union) unionOfOptions(index Index, params Parameters) (Content, error) {
	tagForMissing := 0
	for i, c := range u.contents {
		if c.Kind().IsOption() {
			tagForMissing = i
			break
		}
	}
	known := u.backend.KnownData() && index.Known() && u.tags.Known() && u.index.Known()

	var nextTags, nextIndex Index
	if !known {
		nextTags, nextIndex = UnknownIndex(index.Len()), UnknownIndex(index.Len())
	} else {
		missingAt := int64(u.contents[tagForMissing].Length())
		tags := make([]int64, index.Len())
		pos := make([]int64, index.Len())
		for i, v := range index.Data() {
			if v < 0 {
				tags[i], pos[i] = int64(tagForMissing), missingAt
				continue
			}
			tags[i], pos[i] = u.tags.At(int(v)), u.index.At(int(v))
		}
		nextTags, nextIndex = NewIndex(tags), NewIndex(pos)
	}

	contents := make([]Content, len(u.contents))
	for tag, c := range u.contents {
		if tag != tagForMissing {
			if c.Kind().IsOption() {
				contents[tag] = c
			} else {
				contents[tag] = NewUnmasked(c)
			}
			continue
		}
		var extended Index
		if n := c.Length(); known && n != UnknownLength {
			data := make([]int64, n+1)
			for i := range n {
				data[i] = int64(i)
			}
			data[n] = -1
			extended = NewIndex(data)
		} else {
			extended = UnknownIndex(addLength(c.Length(), 1))
		}
		next, err := IndexedOptionSimplified(extended, c, nil)
		if err != nil {
			return nil, err
		}
		contents[tag] = next
	}
	return UnionSimplified(nextTags, nextIndex, contents, ParametersUnion(u.params, params), true, false)
}
