package ops

import (
	"github.com/born-ml/ragged/internal/broadcast"
	"github.com/born-ml/ragged/internal/content"
)

// MergeOptionOfRecords turns missing records at axis into records of
// missing fields, so [None, {a: 1}] becomes [{a: None}, {a: 1}]. Indexed
// records anywhere in c are first rewritten as records of indexed fields.
// Pass -1 for the innermost records.
func MergeOptionOfRecords(c content.Content, axis int) (content.Content, error) {
	const function = "merge_option_of_records"
	opts := broadcast.DefaultOptions()
	opts.FunctionName = function
	opts.ParameterRule = broadcast.OneToOne

	displaced, err := recurse(c, opts, func(call *broadcast.Call) (broadcast.Outcome, error) {
		x, ok := call.Inputs[0].(*content.Indexed)
		if !ok {
			return leafOrUnhandled(call.Inputs[0]), nil
		}
		rec, ok := x.Content().(*content.Record)
		if !ok {
			return broadcast.Unhandled, nil
		}
		out, err := transposeRecord(rec, x.Length(), func(field content.Content) (content.Content, error) {
			return content.IndexedSimplified(x.Index(), field, x.Parameters()), nil
		})
		if err != nil {
			return broadcast.Unhandled, err
		}
		return broadcast.Handled(out), nil
	})
	if err != nil {
		return nil, err
	}

	return recurse(displaced, opts, func(call *broadcast.Call) (broadcast.Outcome, error) {
		x, ok := call.Inputs[0].(content.Content)
		if !ok {
			return broadcast.Unhandled, nil
		}
		posaxis, known := posAxis(x, axis, call.Depth)
		switch {
		case !known:
		case call.Depth < posaxis+1 && x.Kind().IsLeaf():
			return broadcast.Unhandled, axisError(function, axis, call.Depth)
		case call.Depth == posaxis+1 && x.Kind().IsOption():
			option := content.ToIndexedOption64(x)
			rec, ok := option.Content().(*content.Record)
			if !ok {
				break
			}
			out, err := transposeRecord(rec, option.Length(), func(field content.Content) (content.Content, error) {
				return content.IndexedOptionSimplified(option.Index(), field, option.Parameters())
			})
			if err != nil {
				return broadcast.Unhandled, err
			}
			return broadcast.Handled(out), nil
		}
		return leafOrUnhandled(x), nil
	})
}

// transposeRecord pushes an indexed or option layer of the given length
// below rec by wrapping each field with wrap.
func transposeRecord(rec *content.Record, length int, wrap func(content.Content) (content.Content, error)) (content.Content, error) {
	fields := rec.Contents()
	contents := make([]content.Content, len(fields))
	for i, f := range fields {
		var err error
		if contents[i], err = wrap(f); err != nil {
			return nil, err
		}
	}
	var names []string
	if !rec.IsTuple() {
		names = rec.Fields()
	}
	out := content.NewRecord(contents, names, length, rec.Backend())
	if p := rec.Parameters(); !p.Empty() {
		return out.WithParameters(p), nil
	}
	return out, nil
}

// leafOrUnhandled keeps leaves as they are and lets the recursion continue
// through every other node.
func leafOrUnhandled(x any) broadcast.Outcome {
	if c, ok := x.(content.Content); ok && c.Kind().IsLeaf() {
		return broadcast.Handled(c)
	}
	return broadcast.Unhandled
}

// recurse walks c alone through the broadcasting recursion.
func recurse(c content.Content, opts broadcast.Options, action broadcast.Action) (content.Content, error) {
	out, err := broadcast.BroadcastAndApply([]any{c}, action, nil, nil, nil, opts)
	if err != nil {
		return nil, err
	}
	return out[0].(content.Content), nil
}
