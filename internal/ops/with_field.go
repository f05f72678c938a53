package ops

import (
	"github.com/born-ml/ragged/internal/broadcast"
	"github.com/born-ml/ragged/internal/content"
)

// WithField returns base with what stored under the field path where,
// replacing an existing field or adding a new one. what may be an array
// broadcast against base, a Go scalar repeated for every record, or nil for
// a field of missing values.
func WithField(base content.Content, what any, where ...string) (content.Content, error) {
	const function = "with_field"
	if len(where) == 0 {
		return nil, content.Errorf(content.ErrInvalidConfiguration, function, "field path must not be empty")
	}
	if !content.HasRecords(base) {
		return nil, content.Errorf(content.ErrUnsupportedBroadcast, function,
			"no tuples or records in array; cannot add a new field")
	}

	if len(where) > 1 {
		inner, err := content.GetField(base, where[0])
		if err != nil {
			return nil, err
		}
		nested, err := WithField(inner, what, where[1:]...)
		if err != nil {
			return nil, err
		}
		what = nested
	}
	name := where[0]

	action := func(call *broadcast.Call) (broadcast.Outcome, error) {
		r, ok := call.Inputs[0].(*content.Record)
		if !ok {
			return broadcast.Unhandled, nil
		}
		var field content.Content
		switch w := call.Inputs[1].(type) {
		case nil:
			field = content.NewIndexedOption(call.Backend.Full(r.Length(), -1), content.NewEmpty(call.Backend))
		case content.Content:
			field = w
		default:
			n, err := content.NumpyFull(w, r.Length(), call.Backend)
			if err != nil {
				return broadcast.Unhandled, err
			}
			field = n
		}
		return broadcast.Handled(r.WithField(name, field)), nil
	}

	opts := broadcast.DefaultOptions()
	opts.RightBroadcast = false
	opts.FunctionName = function
	out, err := broadcast.BroadcastAndApply([]any{base, what}, action, nil, nil, nil, opts)
	if err != nil {
		return nil, err
	}
	return out[0].(content.Content), nil
}
