package ops

import (
	"github.com/born-ml/ragged/internal/broadcast"
	"github.com/born-ml/ragged/internal/content"
)

// FromRegular rewrites the regular dimension at axis as variable-length
// lists. A nil axis rewrites every regular dimension. Axis 0 is the outer
// dimension and has nothing to rewrite; negative axes count from the leaves.
// Records do not add a dimension, so an axis may reach into their fields.
func FromRegular(c content.Content, axis *int) (content.Content, error) {
	const function = "from_regular"
	opts := broadcast.DefaultOptions()
	opts.FunctionName = function
	opts.ParameterRule = broadcast.OneToOne
	opts.NumpyToRegular = true

	var action broadcast.Action
	if axis == nil {
		opts.RegularToJagged = true
		action = func(call *broadcast.Call) (broadcast.Outcome, error) {
			if n, ok := call.Inputs[0].(*content.Numpy); ok && len(n.Inner()) == 0 {
				return broadcast.Handled(n), nil
			}
			return broadcast.Unhandled, nil
		}
	} else {
		if posaxis, ok := posAxis(c, *axis, 1); ok && posaxis == 0 {
			return c, nil
		}
		action = func(call *broadcast.Call) (broadcast.Outcome, error) {
			x, ok := call.Inputs[0].(content.Content)
			if !ok {
				return broadcast.Unhandled, nil
			}
			posaxis, known := posAxis(x, *axis, call.Depth)
			atAxis := known && posaxis == call.Depth
			switch {
			case atAxis && x.Kind().IsRegular():
				return broadcast.Handled(content.ToListOffset64(x)), nil
			case atAxis && x.Kind().IsList():
				return broadcast.Handled(x), nil
			case x.Kind().IsLeaf():
				return broadcast.Unhandled, axisError(function, *axis, call.Depth)
			}
			return broadcast.Unhandled, nil
		}
	}

	out, err := broadcast.BroadcastAndApply([]any{c}, action, nil, nil, nil, opts)
	if err != nil {
		return nil, err
	}
	return out[0].(content.Content), nil
}
