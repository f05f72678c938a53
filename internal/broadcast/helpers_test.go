package broadcast

import (
	"testing"

	"github.com/born-ml/ragged/internal/backend/cpu"
	"github.com/born-ml/ragged/internal/content"
	"github.com/stretchr/testify/require"
)

func ints(v ...int64) *content.Numpy     { return content.NewNumpy(v, cpu.New()) }
func floats(v ...float64) *content.Numpy { return content.NewNumpy(v, cpu.New()) }
func bools(v ...bool) *content.Numpy     { return content.NewNumpy(v, cpu.New()) }
func idx(v ...int64) content.Index       { return content.NewIndex(v) }

// jagged builds [[1, 2, 3], [], [4, 5]].
func jagged() *content.ListOffset {
	return content.NewListOffset(idx(0, 3, 3, 5), ints(1, 2, 3, 4, 5))
}

// sumAction adds aligned 1-d leaves and integer scalars into an int64 leaf.
func sumAction(call *Call) (Outcome, error) {
	var (
		leaves []*content.Numpy
		scalar int64
	)
	for _, x := range call.Inputs {
		switch v := x.(type) {
		case *content.Numpy:
			if len(v.Inner()) > 0 {
				return Unhandled, nil
			}
			leaves = append(leaves, v)
		case content.Content:
			return Unhandled, nil
		case int:
			scalar += int64(v)
		}
	}
	if len(leaves) == 0 {
		return Unhandled, nil
	}

	n := leaves[0].Length()
	if !call.Backend.KnownData() {
		for _, l := range leaves {
			content.TouchData(l)
		}
		return Handled(content.NewNumpyShapeOnly(content.Int64, n, nil, call.Backend)), nil
	}
	out := make([]int64, n)
	for i := range out {
		out[i] = scalar
		for _, l := range leaves {
			out[i] += l.Int64At(i)
		}
	}
	return Handled(content.NewNumpy(out, call.Backend)), nil
}

// passAction returns the aligned leaves unchanged.
func passAction(call *Call) (Outcome, error) {
	var leaves []content.Content
	for _, x := range call.Inputs {
		n, ok := x.(*content.Numpy)
		if !ok || len(n.Inner()) > 0 {
			return Unhandled, nil
		}
		leaves = append(leaves, n)
	}
	return Handled(leaves...), nil
}

func apply(t *testing.T, action Action, opts Options, inputs ...any) []any {
	t.Helper()
	out, err := BroadcastAndApply(inputs, action, nil, nil, nil, opts)
	require.NoError(t, err)
	return out
}

func toList(t *testing.T, x any) []any {
	t.Helper()
	c, ok := x.(content.Content)
	require.True(t, ok, "expected a Content, got %T", x)
	out, err := content.ToList(c)
	require.NoError(t, err)
	return out
}

type dispatch struct {
	depth  int
	branch Branch
}

// recordDispatch returns options that log every branch into *trace.
func recordDispatch(opts Options, trace *[]dispatch) Options {
	opts.OnDispatch = func(depth int, branch Branch) {
		*trace = append(*trace, dispatch{depth, branch})
	}
	return opts
}
