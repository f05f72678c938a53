package broadcast

import (
	"slices"
	"strings"

	"github.com/born-ml/ragged/internal/content"
)

// arity checks that every recursive call produced the same number of
// outputs, returning that number.
type arity struct {
	n        int
	set      bool
	function string
}

func (a *arity) add(outs []content.Content) error {
	if !a.set {
		a.n, a.set = len(outs), true
		return nil
	}
	if len(outs) != a.n {
		return content.Errorf(content.ErrInvalidConfiguration, a.function,
			"action returned %d outputs where a sibling returned %d", len(outs), a.n)
	}
	return nil
}

func (s *stepper) broadcastUnion(inputs []any, contents []content.Content, depth int, dctx DepthContext, lctx LateralContext, factory ParametersFactory) ([]content.Content, error) {
	var unions []*content.Union
	for _, c := range contents {
		if u, ok := c.(*content.Union); ok {
			unions = append(unions, u)
		}
	}
	sizes := make([]int, len(unions))
	for i, u := range unions {
		sizes[i] = len(u.Contents())
	}

	var (
		combos     [][]int
		tags, next content.Index
		length     = unions[0].Length()
	)
	if s.backend.KnownData() {
		for _, u := range unions[1:] {
			if u.Length() != length {
				return nil, content.Errorf(content.ErrShapeMismatch, s.opts.FunctionName,
					"cannot broadcast UnionArray of length %d with UnionArray of length %d", length, u.Length())
			}
		}
		combos = presentCombos(unions, sizes)
	} else {
		for _, u := range unions {
			content.TouchData(u)
		}
		combos = productCombos(sizes)
		tags, next = s.backend.Empty(length), s.backend.Empty(length)
	}

	var outTags, outIndex []int64
	if s.backend.KnownData() {
		outTags, outIndex = make([]int64, length), make([]int64, length)
	}
	outcontents := make([][]content.Content, 0, len(combos))
	counts := arity{function: s.opts.FunctionName}
	for t, combo := range combos {
		var nextInputs []any
		if s.backend.KnownData() {
			mask := comboMask(unions, combo)
			var seen int64
			for row, m := range mask {
				if m {
					outTags[row], outIndex[row] = int64(t), seen
					seen++
				}
			}
			carry := content.Nonzero(mask)
			i := 0
			nextInputs = mapContents(inputs, func(c content.Content) content.Content {
				if u, ok := c.(*content.Union); ok {
					projected := u.Carry(carry, false).(*content.Union).Project(combo[i])
					i++
					return projected
				}
				return c.Carry(carry, false)
			})
		} else {
			i := 0
			nextInputs = mapContents(inputs, func(c content.Content) content.Content {
				if u, ok := c.(*content.Union); ok {
					chosen := u.ContentAt(combo[i])
					i++
					return chosen
				}
				return c
			})
		}
		outs, err := s.step(nextInputs, depth, dctx.Clone(), lctx)
		if err != nil {
			return nil, err
		}
		if err := counts.add(outs); err != nil {
			return nil, err
		}
		outcontents = append(outcontents, outs)
	}

	if s.backend.KnownData() {
		tags, next = content.NewIndex(outTags), content.NewIndex(outIndex)
	}
	params, err := factory(counts.n)
	if err != nil {
		return nil, err
	}
	out := make([]content.Content, counts.n)
	for i, p := range params {
		alternatives := make([]content.Content, len(outcontents))
		for k, outs := range outcontents {
			alternatives[k] = outs[i]
		}
		simplified, err := content.UnionSimplified(tags, next, alternatives, p, true, false)
		if err != nil {
			return nil, err
		}
		out[i] = simplified
	}
	return out, nil
}

// productCombos enumerates every choice of one content per union, with the
// last union varying fastest.
func productCombos(sizes []int) [][]int {
	combos := [][]int{{}}
	for _, n := range sizes {
		var grown [][]int
		for _, prefix := range combos {
			for k := 0; k < n; k++ {
				grown = append(grown, append(slices.Clone(prefix), k))
			}
		}
		combos = grown
	}
	return combos
}

// presentCombos returns the combinations of tags that occur in some row, in
// product order. An empty input yields the first combination alone.
func presentCombos(unions []*content.Union, sizes []int) [][]int {
	codes := map[int]struct{}{}
	for row := 0; row < unions[0].Length(); row++ {
		code := 0
		for i, u := range unions {
			code = code*sizes[i] + int(u.Tags().At(row))
		}
		codes[code] = struct{}{}
	}
	if len(codes) == 0 {
		codes[0] = struct{}{}
	}
	sorted := make([]int, 0, len(codes))
	for code := range codes {
		sorted = append(sorted, code)
	}
	slices.Sort(sorted)

	combos := make([][]int, len(sorted))
	for j, code := range sorted {
		combo := make([]int, len(sizes))
		for i := len(sizes) - 1; i >= 0; i-- {
			combo[i] = code % sizes[i]
			code /= sizes[i]
		}
		combos[j] = combo
	}
	return combos
}

func comboMask(unions []*content.Union, combo []int) []bool {
	mask := make([]bool, unions[0].Length())
	for row := range mask {
		mask[row] = true
		for i, u := range unions {
			if int(u.Tags().At(row)) != combo[i] {
				mask[row] = false
				break
			}
		}
	}
	return mask
}

func (s *stepper) broadcastOption(inputs []any, contents []content.Content, depth int, dctx DepthContext, lctx LateralContext, factory ParametersFactory) ([]content.Content, error) {
	var (
		index      content.Index
		nextInputs []any
	)
	if s.backend.KnownData() {
		mask := make([]bool, contents[0].Length())
		for _, c := range contents {
			if !c.Kind().IsOption() {
				continue
			}
			for i, m := range content.MaskAsBool(c, false) {
				mask[i] = mask[i] || m
			}
		}
		positions := make([]int64, len(mask))
		valid := make([]bool, len(mask))
		var seen int64
		for i, m := range mask {
			if m {
				positions[i] = -1
				continue
			}
			positions[i] = seen
			valid[i] = true
			seen++
		}
		index = content.NewIndex(positions)
		keep := content.Nonzero(valid)
		nextInputs = mapContents(inputs, func(c content.Content) content.Content {
			if c.Kind().IsOption() {
				return content.ProjectOption(c, mask)
			}
			return c.Carry(keep, false)
		})
	} else {
		nextInputs = mapContents(inputs, func(c content.Content) content.Content {
			if !c.Kind().IsOption() {
				return c
			}
			content.TouchData(c)
			index = s.backend.Empty(c.Length())
			return content.NodeContent(c)
		})
	}

	outs, err := s.step(nextInputs, depth, dctx.Clone(), lctx)
	if err != nil {
		return nil, err
	}
	params, err := factory(len(outs))
	if err != nil {
		return nil, err
	}
	out := make([]content.Content, len(outs))
	for i, o := range outs {
		if out[i], err = content.IndexedOptionSimplified(index, o, params[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *stepper) broadcastRegular(inputs []any, contents []content.Content, depth int, dctx DepthContext, lctx LateralContext, factory ParametersFactory) ([]content.Content, error) {
	length := contents[0].Length()
	dimsize := 0
	anyZero := false
	for _, c := range contents {
		if r, ok := c.(*content.Regular); ok {
			anyZero = anyZero || r.Size() == 0
			dimsize = max(dimsize, r.Size())
		}
	}
	if anyZero {
		dimsize = 0
	}

	var nextInputs []any
	var err error
	if s.backend.KnownData() {
		nextInputs = mapContents(inputs, func(c content.Content) content.Content {
			r, ok := c.(*content.Regular)
			if !ok || err != nil {
				return c
			}
			rows := r.Content().GetItemRange(0, r.Length()*r.Size())
			switch {
			case dimsize > 1 && r.Size() == 1:
				return rows.Carry(s.backend.RepeatArange(r.Length(), dimsize), false)
			case r.Size() == dimsize:
				return rows
			case dimsize == 0:
				return r.Content().GetItemRange(0, 0)
			default:
				err = content.Errorf(content.ErrShapeMismatch, s.opts.FunctionName,
					"cannot broadcast RegularArray of size %d with RegularArray of size %d", r.Size(), dimsize)
				return c
			}
		})
		if err != nil {
			return nil, err
		}
	} else {
		nextInputs = mapContents(inputs, func(c content.Content) content.Content {
			r, ok := c.(*content.Regular)
			if !ok {
				return c
			}
			content.TouchData(r)
			return r.Content()
		})
	}

	outs, err := s.step(nextInputs, depth+1, dctx.Clone(), lctx)
	if err != nil {
		return nil, err
	}
	params, err := factory(len(outs))
	if err != nil {
		return nil, err
	}
	out := make([]content.Content, len(outs))
	for i, o := range outs {
		out[i] = content.NewRegular(o, dimsize, length).WithParameters(params[i])
	}
	return out, nil
}

func (s *stepper) broadcastList(inputs []any, depth int, dctx DepthContext, lctx LateralContext, factory ParametersFactory) ([]content.Content, error) {
	if !s.backend.KnownData() {
		return s.broadcastListShapeOnly(inputs, depth, dctx, lctx, factory)
	}
	if allSameOffsets(inputs) {
		return s.broadcastSameOffsets(inputs, depth, dctx, lctx, factory)
	}

	fcns := make([]CustomBroadcast, len(inputs))
	for i, x := range inputs {
		if c, ok := x.(content.Content); ok {
			fcns[i] = FindCustomBroadcast(c, s.behavior)
		}
	}
	isJagged := func(x any) bool {
		c, ok := x.(content.Content)
		return ok && c.Kind().IsList() && !c.Kind().IsRegular()
	}
	var first content.Content
	for i, x := range inputs {
		if isJagged(x) && fcns[i] == nil {
			first = x.(content.Content)
			break
		}
	}
	secondRound := false
	if first == nil {
		secondRound = true
		for _, x := range inputs {
			if isJagged(x) {
				first = x.(content.Content)
				break
			}
		}
	}
	offsets := content.CompactOffsets64(first)

	nextInputs := make([]any, len(inputs))
	for i, x := range inputs {
		c, ok := x.(content.Content)
		switch {
		case !ok:
			nextInputs[i] = x
		case fcns[i] != nil && !secondRound:
			next, err := fcns[i](c, offsets)
			if err != nil {
				return nil, err
			}
			nextInputs[i] = next
		case c.Kind().IsList():
			lo, err := content.BroadcastToOffsets64(c, offsets)
			if err != nil {
				return nil, withFunction(err, s.opts.FunctionName)
			}
			nextInputs[i] = lo.Content()
		case s.opts.LeftBroadcast:
			lo, err := content.BroadcastToOffsets64(content.NewRegular(c, 1, c.Length()), offsets)
			if err != nil {
				return nil, withFunction(err, s.opts.FunctionName)
			}
			nextInputs[i] = lo.Content()
		default:
			nextInputs[i] = x
		}
	}

	outs, err := s.step(nextInputs, depth+1, dctx.Clone(), lctx)
	if err != nil {
		return nil, err
	}
	params, err := factory(len(outs))
	if err != nil {
		return nil, err
	}
	out := make([]content.Content, len(outs))
	for i, o := range outs {
		out[i] = content.NewListOffset(offsets, o).WithParameters(params[i])
	}
	return out, nil
}

func (s *stepper) broadcastListShapeOnly(inputs []any, depth int, dctx DepthContext, lctx LateralContext, factory ParametersFactory) ([]content.Content, error) {
	var offsets content.Index
	nextInputs := mapContents(inputs, func(c content.Content) content.Content {
		switch x := c.(type) {
		case *content.ListOffset:
			content.TouchData(x)
			offsets = s.backend.Empty(x.Offsets().Len())
			return x.Content()
		case *content.List:
			content.TouchData(x)
			n := x.Starts().Len()
			if n != content.UnknownLength {
				n++
			}
			offsets = s.backend.Empty(n)
			return x.Content()
		case *content.Regular:
			content.TouchData(x)
			return x.Content()
		default:
			return c
		}
	})

	outs, err := s.step(nextInputs, depth+1, dctx.Clone(), lctx)
	if err != nil {
		return nil, err
	}
	params, err := factory(len(outs))
	if err != nil {
		return nil, err
	}
	out := make([]content.Content, len(outs))
	for i, o := range outs {
		out[i] = content.NewListOffset(offsets, o).WithParameters(params[i])
	}
	return out, nil
}

func (s *stepper) broadcastSameOffsets(inputs []any, depth int, dctx DepthContext, lctx LateralContext, factory ParametersFactory) ([]content.Content, error) {
	var (
		offsets, starts, stops content.Index
		haveOffsets, haveLists bool
	)
	nextInputs := mapContents(inputs, func(c content.Content) content.Content {
		switch x := c.(type) {
		case *content.ListOffset:
			offsets, haveOffsets = x.Offsets(), true
			return x.Content().GetItemRange(0, int(offsets.Last()))
		case *content.List:
			starts, stops, haveLists = x.Starts(), x.Stops(), true
			if starts.Len() == 0 || stops.Len() == 0 {
				return x.Content().GetItemRange(0, 0)
			}
			return x.Content().GetItemRange(0, int(slices.Max(stops.Data())))
		case *content.Regular:
			return x.Content().GetItemRange(0, x.Size()*x.Length())
		default:
			return c
		}
	})

	outs, err := s.step(nextInputs, depth+1, dctx.Clone(), lctx)
	if err != nil {
		return nil, err
	}
	params, err := factory(len(outs))
	if err != nil {
		return nil, err
	}
	out := make([]content.Content, len(outs))
	for i, o := range outs {
		switch {
		case haveOffsets:
			out[i] = content.ToListOffset64(content.NewListOffset(offsets, o).WithParameters(params[i]))
		case haveLists:
			out[i] = content.ToListOffset64(content.NewList(starts, stops, o).WithParameters(params[i]))
		default:
			return nil, content.Errorf(content.ErrUnsupportedBroadcast, s.opts.FunctionName, "no list found among matching offsets")
		}
	}
	return out, nil
}

func (s *stepper) broadcastRecord(inputs []any, contents []content.Content, depth int, dctx DepthContext, lctx LateralContext, factory ParametersFactory) ([]content.Content, error) {
	if !s.opts.AllowRecords {
		return nil, content.Errorf(content.ErrUnsupportedBroadcast, s.opts.FunctionName, "cannot broadcast records")
	}

	var (
		fields  []string
		length  int
		isTuple = true
		found   bool
	)
	for _, c := range contents {
		r, ok := c.(*content.Record)
		if !ok {
			continue
		}
		if !found {
			fields, length, found = r.Fields(), r.Length(), true
		} else {
			if !sameFieldSet(fields, r.Fields()) {
				a, b := slices.Sorted(slices.Values(fields)), slices.Sorted(slices.Values(r.Fields()))
				return nil, content.Errorf(content.ErrShapeMismatch, s.opts.FunctionName,
					"cannot broadcast records because fields don't match:\n    %s\n    %s",
					strings.Join(a, ", "), strings.Join(b, ", "))
			}
			if r.Length() != length {
				return nil, content.Errorf(content.ErrShapeMismatch, s.opts.FunctionName,
					"cannot broadcast RecordArray of length %d with RecordArray of length %d", length, r.Length())
			}
		}
		isTuple = isTuple && r.IsTuple()
	}
	if len(fields) == 0 {
		return nil, content.Errorf(content.ErrUnsupportedBroadcast, s.opts.FunctionName, "cannot broadcast records without fields")
	}

	outcontents := make([][]content.Content, len(fields))
	counts := arity{function: s.opts.FunctionName}
	for f, name := range fields {
		nextInputs := mapContents(inputs, func(c content.Content) content.Content {
			if r, ok := c.(*content.Record); ok {
				field, _ := r.Field(name)
				return field
			}
			return c
		})
		outs, err := s.step(nextInputs, depth, dctx.Clone(), lctx)
		if err != nil {
			return nil, err
		}
		if err := counts.add(outs); err != nil {
			return nil, err
		}
		outcontents[f] = outs
	}

	params, err := factory(counts.n)
	if err != nil {
		return nil, err
	}
	var names []string
	if !isTuple {
		names = fields
	}
	out := make([]content.Content, counts.n)
	for i, p := range params {
		columns := make([]content.Content, len(fields))
		for f := range fields {
			columns[f] = outcontents[f][i]
		}
		out[i] = content.NewRecord(columns, names, length, s.backend).WithParameters(p)
	}
	return out, nil
}

func sameFieldSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for _, name := range a {
		if !slices.Contains(b, name) {
			return false
		}
	}
	return true
}
