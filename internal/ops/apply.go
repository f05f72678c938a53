package ops

import (
	"github.com/born-ml/ragged/internal/broadcast"
	"github.com/born-ml/ragged/internal/content"
)

// Apply runs k element-wise over x and y. Either side may be an array of any
// nesting, a record row or a Go scalar; arrays are broadcast against each
// other first. The result is a content, or a scalar when neither side is an
// array.
func Apply(k Kernel, x, y any, opts broadcast.Options) (any, error) {
	if opts.FunctionName == "" {
		opts.FunctionName = k.Name
	}
	if !isArray(x) && !isArray(y) {
		return k.scalar(x, y)
	}

	action := func(call *broadcast.Call) (broadcast.Outcome, error) {
		leaves, length, ok, err := leafOperands(call.Inputs)
		if err != nil || !ok {
			return broadcast.Unhandled, err
		}
		return broadcast.Handled(k.run(leaves[0], leaves[1], length, call.Backend)), nil
	}

	out, err := broadcast.BroadcastAndApply([]any{x, y}, action, nil, nil, nil, opts)
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

func isArray(x any) bool {
	switch x.(type) {
	case content.Content, *content.RecordScalar:
		return true
	default:
		return false
	}
}

// BroadcastArrays returns the inputs broadcast to a common structure, each
// keeping its own parameters.
func BroadcastArrays(opts broadcast.Options, inputs ...content.Content) ([]content.Content, error) {
	if len(inputs) == 0 {
		return nil, nil
	}
	if opts.FunctionName == "" {
		opts.FunctionName = "broadcast_arrays"
	}
	opts.ParameterRule = broadcast.OneToOne

	args := make([]any, len(inputs))
	for i, c := range inputs {
		args[i] = c
	}
	action := func(call *broadcast.Call) (broadcast.Outcome, error) {
		outs := make([]content.Content, len(call.Inputs))
		for i, x := range call.Inputs {
			n, ok := x.(*content.Numpy)
			if !ok || len(n.Inner()) > 0 {
				return broadcast.Unhandled, nil
			}
			outs[i] = n
		}
		return broadcast.Handled(outs...), nil
	}

	results, err := broadcast.BroadcastAndApply(args, action, nil, nil, nil, opts)
	if err != nil {
		return nil, err
	}
	out := make([]content.Content, len(results))
	for i, r := range results {
		out[i] = r.(content.Content)
	}
	return out, nil
}
