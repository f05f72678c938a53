package broadcast

import (
	"context"
	"log/slog"
	"strings"

	"github.com/born-ml/ragged/internal/content"
)

// stepper holds what stays fixed across one BroadcastAndApply call.
type stepper struct {
	backend  content.Backend
	action   Action
	behavior *Behavior
	opts     *Options
	log      *slog.Logger
}

// step runs one level of the recursion over inputs.
func (s *stepper) step(inputs []any, depth int, dctx DepthContext, lctx LateralContext) ([]content.Content, error) {
	inputs = s.preprocess(inputs)
	contents := contentsOf(inputs)

	if s.opts.RightBroadcast && anyContent(contents, content.Kind.IsList) {
		if next, changed := rightBroadcast(inputs, contents); changed {
			return s.step(next, depth, dctx, lctx)
		}
	}

	if s.backend.KnownData() {
		if err := checkLength(contents, s.opts.FunctionName); err != nil {
			return nil, err
		}
	} else {
		for _, x := range contents {
			content.TouchShape(x)
		}
	}

	factory, err := parametersFactory(s.opts.ParameterRule, inputs, s.opts.FunctionName)
	if err != nil {
		return nil, err
	}

	call := &Call{
		Inputs:         inputs,
		Depth:          depth,
		DepthContext:   dctx,
		LateralContext: lctx,
		Behavior:       s.behavior,
		Backend:        s.backend,
		Options:        s.opts,
	}
	call.Continuation = func() ([]content.Content, error) {
		return s.dispatch(inputs, contents, depth, dctx, lctx, factory)
	}

	outcome, err := s.action(call)
	if err != nil {
		return nil, err
	}
	if outcome.handled {
		return outcome.outputs, nil
	}
	return call.Continuation()
}

// preprocess applies the NumpyToRegular and RegularToJagged rewrites.
func (s *stepper) preprocess(inputs []any) []any {
	if s.opts.NumpyToRegular && anyNumpyND(contentsOf(inputs)) {
		inputs = mapContents(inputs, func(c content.Content) content.Content {
			if n, ok := c.(*content.Numpy); ok {
				return n.ToRegularArray()
			}
			return c
		})
	}
	if s.opts.RegularToJagged && anyInput(inputs, content.Kind.IsRegular) {
		inputs = mapContents(inputs, func(c content.Content) content.Content {
			if c.Kind().IsRegular() {
				return content.ToListOffset64(c)
			}
			return c
		})
	}
	return inputs
}

// rightBroadcast promotes shallower inputs with length-1 regular dimensions
// when every array is purely regular. changed is false if nothing moved.
func rightBroadcast(inputs []any, contents []content.Content) (next []any, changed bool) {
	maxDepth := 0
	for _, c := range contents {
		maxDepth = max(maxDepth, c.PurelistDepth())
	}
	if maxDepth <= 0 || !allContent(contents, func(c content.Content) bool { return c.PurelistIsRegular() }) {
		return inputs, false
	}
	next = make([]any, len(inputs))
	for i, x := range inputs {
		c, ok := x.(content.Content)
		if !ok {
			next[i] = x
			continue
		}
		promoted := leftBroadcastTo(c, maxDepth)
		changed = changed || promoted != c
		next[i] = promoted
	}
	return next, changed
}

func leftBroadcastTo(c content.Content, depth int) content.Content {
	for d := c.PurelistDepth(); d < depth; d++ {
		c = content.NewRegular(c, 1, c.Length())
	}
	return c
}

// classify picks the structural branch for a step. The order is the
// precedence of the rules.
func classify(contents []content.Content) (Branch, bool) {
	switch {
	case anyContent(contents, content.Kind.IsUnknown):
		return BranchUnknown, true
	case anyNumpyND(contents):
		return BranchNumpyND, true
	case anyContent(contents, func(k content.Kind) bool { return k.IsIndexed() && !k.IsOption() }):
		return BranchIndexed, true
	case anyContent(contents, content.Kind.IsUnion):
		return BranchUnion, true
	case anyContent(contents, content.Kind.IsOption):
		return BranchOption, true
	case anyContent(contents, content.Kind.IsList):
		if allContent(contents, func(c content.Content) bool { return c.Kind().IsRegular() || !c.Kind().IsList() }) {
			return BranchRegularList, true
		}
		return BranchVarList, true
	case anyContent(contents, content.Kind.IsRecord):
		return BranchRecord, true
	default:
		return 0, false
	}
}

// dispatch is the default structural recursion.
func (s *stepper) dispatch(inputs []any, contents []content.Content, depth int, dctx DepthContext, lctx LateralContext, factory ParametersFactory) ([]content.Content, error) {
	branch, ok := classify(contents)
	if !ok {
		names := make([]string, len(inputs))
		for i, x := range inputs {
			names[i] = content.TypeName(x)
		}
		return nil, content.Errorf(content.ErrUnsupportedBroadcast, s.opts.FunctionName,
			"cannot broadcast: %s", strings.Join(names, ", "))
	}
	if s.log.Enabled(context.Background(), slog.LevelDebug) {
		s.log.Debug("dispatch",
			slog.Int("depth", depth),
			slog.String("branch", branch.String()),
			slog.Int("inputs", len(inputs)),
			slog.Bool("known_data", s.backend.KnownData()))
	}
	if s.opts.OnDispatch != nil {
		s.opts.OnDispatch(depth, branch)
	}

	switch branch {
	case BranchUnknown:
		next := mapContents(inputs, func(c content.Content) content.Content {
			if e, ok := c.(*content.Empty); ok {
				return e.ToNumpy(content.Float64)
			}
			return c
		})
		return s.step(next, depth, dctx.Clone(), lctx)
	case BranchNumpyND:
		next := mapContents(inputs, func(c content.Content) content.Content {
			if n, ok := c.(*content.Numpy); ok {
				return n.ToRegularArray()
			}
			return c
		})
		return s.step(next, depth, dctx.Clone(), lctx)
	case BranchIndexed:
		next := mapContents(inputs, func(c content.Content) content.Content {
			if x, ok := c.(*content.Indexed); ok {
				return x.Project()
			}
			return c
		})
		return s.step(next, depth, dctx.Clone(), lctx)
	case BranchUnion:
		return s.broadcastUnion(inputs, contents, depth, dctx, lctx, factory)
	case BranchOption:
		return s.broadcastOption(inputs, contents, depth, dctx, lctx, factory)
	case BranchRegularList:
		return s.broadcastRegular(inputs, contents, depth, dctx, lctx, factory)
	case BranchVarList:
		return s.broadcastList(inputs, depth, dctx, lctx, factory)
	default:
		return s.broadcastRecord(inputs, contents, depth, dctx, lctx, factory)
	}
}

func contentsOf(inputs []any) []content.Content {
	var out []content.Content
	for _, x := range inputs {
		if c, ok := x.(content.Content); ok {
			out = append(out, c)
		}
	}
	return out
}

func mapContents(inputs []any, fn func(content.Content) content.Content) []any {
	out := make([]any, len(inputs))
	for i, x := range inputs {
		if c, ok := x.(content.Content); ok {
			out[i] = fn(c)
		} else {
			out[i] = x
		}
	}
	return out
}

func anyContent(contents []content.Content, pred func(content.Kind) bool) bool {
	for _, c := range contents {
		if pred(c.Kind()) {
			return true
		}
	}
	return false
}

func allContent(contents []content.Content, pred func(content.Content) bool) bool {
	for _, c := range contents {
		if !pred(c) {
			return false
		}
	}
	return true
}

func anyInput(inputs []any, pred func(content.Kind) bool) bool {
	return anyContent(contentsOf(inputs), pred)
}

func anyNumpyND(contents []content.Content) bool {
	for _, c := range contents {
		if n, ok := c.(*content.Numpy); ok && len(n.Inner()) > 0 {
			return true
		}
	}
	return false
}
