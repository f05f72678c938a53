package content

import "slices"

// Mergeable reports whether b can be concatenated after a without building a
// union. mergeBool allows booleans to merge with numbers.
func Mergeable(a, b Content, mergeBool bool) bool {
	if !ParametersEqual(a.Parameters(), b.Parameters()) {
		return false
	}
	switch {
	case b.Kind().IsUnknown() || b.Kind().IsUnion():
		return true
	case b.Kind().IsIndexed() || b.Kind().IsOption():
		return Mergeable(a, NodeContent(b), mergeBool)
	}

	switch x := a.(type) {
	case *Empty, *Union:
		return true
	case *Indexed, *IndexedOption, *ByteMasked, *BitMasked, *Unmasked:
		return Mergeable(NodeContent(x), b, mergeBool)

	case *Numpy:
		switch y := b.(type) {
		case *Numpy:
			if (x.dtype == Bool) != (y.dtype == Bool) && !mergeBool {
				return false
			}
			return x.inner.Equal(y.inner)
		case *Regular, *List, *ListOffset:
			if len(x.inner) > 0 {
				return Mergeable(x.ToRegularArray(), b, mergeBool)
			}
		}
		return false

	case *Regular, *List, *ListOffset:
		switch y := b.(type) {
		case *Regular, *List, *ListOffset:
			return Mergeable(NodeContent(x), NodeContent(y), mergeBool)
		case *Numpy:
			if len(y.inner) > 0 {
				return Mergeable(x, y.ToRegularArray(), mergeBool)
			}
		}
		return false

	case *Record:
		y, ok := b.(*Record)
		if !ok || x.IsTuple() != y.IsTuple() || len(x.contents) != len(y.contents) {
			return false
		}
		if x.IsTuple() {
			for i := range x.contents {
				if !Mergeable(x.contents[i], y.contents[i], mergeBool) {
					return false
				}
			}
			return true
		}
		for i, name := range x.fields {
			j := y.FieldIndex(name)
			if j < 0 || !Mergeable(x.contents[i], y.contents[j], mergeBool) {
				return false
			}
		}
		return true
	}
	return false
}

// MergeMany concatenates parts into one content. Parameters are intersected.
// Parts that cannot merge directly end up in a union.
func MergeMany(parts []Content) (Content, error) {
	if len(parts) == 0 {
		return nil, Errorf(ErrInvalidConfiguration, "", "cannot merge zero contents")
	}
	var kept []Content
	for _, p := range parts {
		if !p.Kind().IsUnknown() {
			kept = append(kept, p)
		}
	}
	switch len(kept) {
	case 0:
		return parts[0], nil
	case 1:
		return kept[0], nil
	}

	params := kept[0].Parameters()
	for _, p := range kept[1:] {
		params = ParametersIntersect(params, p.Parameters())
	}

	out, err := mergeKinds(kept)
	if err != nil {
		return nil, err
	}
	return out.WithParameters(params), nil
}

func mergeKinds(parts []Content) (Content, error) {
	b := parts[0].Backend()
	total := 0
	for _, p := range parts {
		total = addLength(total, p.Length())
	}

	if slices.ContainsFunc(parts, func(c Content) bool { return c.Kind().IsUnion() }) {
		return mergeAsUnion(parts, total)
	}

	if slices.ContainsFunc(parts, func(c Content) bool { return c.Kind().IsOption() }) {
		indexes := make([]Index, len(parts))
		contents := make([]Content, len(parts))
		for i, p := range parts {
			if p.Kind().IsOption() || p.Kind().IsIndexed() {
				io := ToIndexedOption64(p)
				indexes[i], contents[i] = io.index, io.content
			} else {
				indexes[i], contents[i] = b.Arange(p.Length()), p
			}
		}
		shifts := make([]int64, len(parts))
		var shift int64
		for i, c := range contents {
			shifts[i] = shift
			shift += int64(c.Length())
		}
		inner, err := MergeMany(contents)
		if err != nil {
			return nil, err
		}
		return NewIndexedOption(concatIndex(indexes, shifts), inner), nil
	}

	if slices.ContainsFunc(parts, func(c Content) bool { return c.Kind().IsIndexed() }) {
		next := make([]Content, len(parts))
		for i, p := range parts {
			if x, ok := p.(*Indexed); ok {
				next[i] = x.Project()
			} else {
				next[i] = p
			}
		}
		return MergeMany(next)
	}

	for _, p := range parts[1:] {
		if !Mergeable(parts[0], p, true) {
			return mergeAsUnion(parts, total)
		}
	}

	switch parts[0].(type) {
	case *Numpy:
		if allNumpy(parts) {
			return mergeNumpy(parts, total)
		}
	case *Record:
		return mergeRecords(parts, total)
	}

	if slices.ContainsFunc(parts, func(c Content) bool { return c.Kind().IsList() }) {
		return mergeLists(parts, total)
	}
	return nil, Errorf(ErrUnsupportedBroadcast, "", "cannot merge %s with %s", parts[0].Kind(), parts[1].Kind())
}

func allNumpy(parts []Content) bool {
	for _, p := range parts {
		if _, ok := p.(*Numpy); !ok {
			return false
		}
	}
	return true
}

func mergeNumpy(parts []Content, total int) (Content, error) {
	first := parts[0].(*Numpy)
	dt := first.dtype
	known := first.data != nil
	for _, p := range parts[1:] {
		n := p.(*Numpy)
		if !n.inner.Equal(first.inner) {
			return nil, Errorf(ErrShapeMismatch, "", "cannot merge NumpyArray with inner shape %v and %v", first.inner, n.inner)
		}
		dt = Promote(dt, n.dtype)
		known = known && n.data != nil
	}
	if !known {
		return NewNumpyShapeOnly(dt, total, first.inner, first.backend), nil
	}
	columns := make([]column, len(parts))
	for i, p := range parts {
		columns[i] = p.(*Numpy).data
	}
	return &Numpy{
		meta:   meta{backend: first.backend},
		dtype:  dt,
		data:   concatColumns(columns, dt),
		length: total,
		inner:  first.inner.Clone(),
	}, nil
}

func mergeLists(parts []Content, total int) (Content, error) {
	b := parts[0].Backend()
	for i, p := range parts {
		if n, ok := p.(*Numpy); ok && len(n.inner) > 0 {
			parts[i] = n.ToRegularArray()
		}
		if !parts[i].Kind().IsList() {
			return nil, Errorf(ErrUnsupportedBroadcast, "", "cannot merge %s with a list", parts[i].Kind())
		}
	}

	if r0, ok := parts[0].(*Regular); ok {
		same := true
		contents := make([]Content, len(parts))
		for i, p := range parts {
			r, isRegular := p.(*Regular)
			if !isRegular || r.size != r0.size {
				same = false
				break
			}
			contents[i] = r.content.GetItemRange(0, mulLength(r.length, r.size))
		}
		if same {
			inner, err := MergeMany(contents)
			if err != nil {
				return nil, err
			}
			return NewRegular(inner, r0.size, total), nil
		}
	}

	contents := make([]Content, len(parts))
	offsetParts := make([]Index, len(parts))
	shifts := make([]int64, len(parts))
	known := b.KnownData()
	var shift int64
	for i, p := range parts {
		lo := ToListOffset64(p)
		if !lo.offsets.Known() {
			known = false
			contents[i] = lo.content
			continue
		}
		last := int(lo.offsets.Last())
		contents[i] = lo.content.GetItemRange(0, last)
		offsetParts[i] = lo.offsets.Slice(1, lo.offsets.Len())
		shifts[i] = shift
		shift += int64(last)
	}
	inner, err := MergeMany(contents)
	if err != nil {
		return nil, err
	}
	if !known {
		return NewListOffset(UnknownIndex(addLength(total, 1)), inner), nil
	}
	offsets := concatIndex(append([]Index{NewIndex([]int64{0})}, offsetParts...), append([]int64{0}, shifts...))
	return NewListOffset(offsets, inner), nil
}

func mergeRecords(parts []Content, total int) (Content, error) {
	first := parts[0].(*Record)
	columns := make([][]Content, len(first.contents))
	for _, p := range parts {
		r, ok := p.(*Record)
		if !ok {
			return nil, Errorf(ErrUnsupportedBroadcast, "", "cannot merge RecordArray with %s", p.Kind())
		}
		if r.IsTuple() != first.IsTuple() || len(r.contents) != len(first.contents) {
			return nil, Errorf(ErrShapeMismatch, "", "cannot merge records with fields %v and %v", first.Fields(), r.Fields())
		}
		for i, name := range first.Fields() {
			j := r.FieldIndex(name)
			if j < 0 {
				return nil, Errorf(ErrShapeMismatch, "", "cannot merge records with fields %v and %v", first.Fields(), r.Fields())
			}
			columns[i] = append(columns[i], r.FieldAt(j))
		}
	}
	contents := make([]Content, len(columns))
	for i, col := range columns {
		merged, err := MergeMany(col)
		if err != nil {
			return nil, err
		}
		contents[i] = merged
	}
	return NewRecord(contents, first.fields, total, first.backend), nil
}

// mergeAsUnion lays parts end to end inside a union and lets UnionSimplified
// fold whatever can merge.
func mergeAsUnion(parts []Content, total int) (Content, error) {
	b := parts[0].Backend()
	var contents []Content
	tagParts := make([]Index, len(parts))
	indexParts := make([]Index, len(parts))
	tagShifts := make([]int64, len(parts))
	for i, p := range parts {
		tagShifts[i] = int64(len(contents))
		if u, ok := p.(*Union); ok {
			tagParts[i] = u.tags
			indexParts[i] = u.index.Slice(0, u.tags.Len())
			contents = append(contents, u.contents...)
			continue
		}
		tagParts[i] = b.Full(p.Length(), 0)
		indexParts[i] = b.Arange(p.Length())
		contents = append(contents, p)
	}
	tags := concatIndex(tagParts, tagShifts)
	index := concatIndex(indexParts, nil)
	if !b.KnownData() {
		tags, index = UnknownIndex(total), UnknownIndex(total)
	}
	return UnionSimplified(tags, index, contents, nil, true, false)
}
