package ops

import (
	"github.com/born-ml/ragged/internal/broadcast"
	"github.com/born-ml/ragged/internal/content"
)

const countKey = "count"

// CountNonzero counts the present, non-zero leaf values of c. Missing rows
// are skipped. Unions must simplify to a single content, merging booleans
// with numbers. Without known data the count is content.UnknownLength.
func CountNonzero(c content.Content, opts broadcast.Options) (int, error) {
	if opts.FunctionName == "" {
		opts.FunctionName = "count_nonzero"
	}
	opts.AllowRecords = false
	opts.NumpyToRegular = true
	known := c.Backend().KnownData()

	lctx := broadcast.LateralContext{countKey: 0}
	action := func(call *broadcast.Call) (broadcast.Outcome, error) {
		switch x := call.Inputs[0].(type) {
		case *content.Union:
			simplified, err := content.UnionSimplified(x.Tags(), x.Index(), x.Contents(), x.Parameters(), true, true)
			if err != nil {
				return broadcast.Unhandled, err
			}
			if simplified.Kind().IsUnion() {
				return broadcast.Unhandled, content.Errorf(content.ErrIrreducibleUnion, opts.FunctionName,
					"cannot count values of a union of %d incompatible contents", len(x.Contents()))
			}
			n, err := CountNonzero(simplified, *call.Options)
			if err != nil {
				return broadcast.Unhandled, err
			}
			if known {
				call.LateralContext[countKey] = call.LateralContext[countKey].(int) + n
			}
			return broadcast.Handled(x), nil
		case *content.Numpy:
			if len(x.Inner()) > 0 {
				return broadcast.Unhandled, nil
			}
			if !known {
				content.TouchData(x)
				return broadcast.Handled(x), nil
			}
			n := 0
			for i := range x.Length() {
				if x.BoolAt(i) {
					n++
				}
			}
			call.LateralContext[countKey] = call.LateralContext[countKey].(int) + n
			return broadcast.Handled(x), nil
		}
		return broadcast.Unhandled, nil
	}

	if _, err := broadcast.BroadcastAndApply([]any{c}, action, nil, nil, lctx, opts); err != nil {
		return 0, err
	}
	if !known {
		return content.UnknownLength, nil
	}
	return lctx[countKey].(int), nil
}
