package ops

import (
	"testing"

	"github.com/born-ml/ragged/internal/backend/cpu"
	"github.com/born-ml/ragged/internal/backend/typetracer"
	"github.com/born-ml/ragged/internal/broadcast"
	"github.com/born-ml/ragged/internal/content"
	"github.com/born-ml/ragged/internal/parallel"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
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

func toList(t *testing.T, x any) []any {
	t.Helper()
	c, ok := x.(content.Content)
	require.True(t, ok, "expected a Content, got %T", x)
	out, err := content.ToList(c)
	require.NoError(t, err)
	return out
}

func TestApply(t *testing.T) {
	points := content.NewRecord([]content.Content{ints(1, 2), floats(0.5, 1)}, []string{"x", "y"}, 2, cpu.New())

	tests := []struct {
		name string
		k    Kernel
		x, y any
		want []any
	}{
		{
			name: "jagged plus flat",
			k:    Add,
			x:    jagged(),
			y:    ints(10, 20, 30),
			want: []any{[]any{int64(11), int64(12), int64(13)}, []any{}, []any{int64(34), int64(35)}},
		},
		{
			name: "int plus float scalar",
			k:    Add,
			x:    ints(1, 2),
			y:    1.5,
			want: []any{2.5, 3.5},
		},
		{
			name: "integer division is float",
			k:    Div,
			x:    ints(1, 2),
			y:    2,
			want: []any{0.5, 1.0},
		},
		{
			name: "booleans add as integers",
			k:    Add,
			x:    bools(true, false),
			y:    bools(true, true),
			want: []any{int64(2), int64(1)},
		},
		{
			name: "comparison keeps missing",
			k:    Equal,
			x:    content.NewIndexedOption(idx(0, -1, 1), ints(1, 3)),
			y:    ints(1, 2, 4),
			want: []any{true, nil, false},
		},
		{
			name: "scalar on the left",
			k:    Sub,
			x:    100,
			y:    jagged(),
			want: []any{[]any{int64(99), int64(98), int64(97)}, []any{}, []any{int64(96), int64(95)}},
		},
		{
			name: "records",
			k:    Mul,
			x:    points,
			y:    2,
			want: []any{
				map[string]any{"x": int64(2), "y": 1.0},
				map[string]any{"x": int64(4), "y": 2.0},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Apply(tt.k, tt.x, tt.y, broadcast.DefaultOptions())
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, toList(t, got)); diff != "" {
				t.Errorf("%s mismatch (-want +got):\n%s", tt.k.Name, diff)
			}
		})
	}
}

func TestApplyComparesIntegersExactly(t *testing.T) {
	const big = int64(1) << 53
	x, y := ints(big+1, big, -big-1), ints(big, big, -big)

	eq, err := Apply(Equal, x, y, broadcast.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []any{false, true, false}, toList(t, eq))

	gt, err := Apply(Greater, x, y, broadcast.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []any{true, false, false}, toList(t, gt))

	got, err := Apply(Greater, big+1, big, broadcast.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, true, got)

	mixed, err := Apply(Greater, ints(3), floats(2.5), broadcast.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []any{true}, toList(t, mixed))
}

func TestApplyScalars(t *testing.T) {
	tests := []struct {
		name string
		k    Kernel
		x, y any
		want any
	}{
		{"add", Add, 2, 3, int64(5)},
		{"divide", Div, 1, 2, 0.5},
		{"greater", Greater, 2.5, 1, true},
		{"float32", Mul, float32(1.5), float32(2), float32(3)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Apply(tt.k, tt.x, tt.y, broadcast.DefaultOptions())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApplyErrors(t *testing.T) {
	_, err := Apply(Add, ints(1, 2), "x", broadcast.DefaultOptions())
	assert.ErrorContains(t, err, "unsupported operand type string")

	_, err = Apply(Add, ints(1, 2), ints(1, 2, 3), broadcast.DefaultOptions())
	require.ErrorIs(t, err, content.ErrShapeMismatch)
	assert.Contains(t, err.Error(), "in add")

	x := content.NewRecord([]content.Content{ints(1)}, []string{"a"}, 1, cpu.New())
	y := content.NewRecord([]content.Content{ints(1)}, []string{"b"}, 1, cpu.New())
	_, err = Apply(Add, x, y, broadcast.DefaultOptions())
	assert.ErrorIs(t, err, content.ErrShapeMismatch)
}

func TestApplyShapeOnly(t *testing.T) {
	tracer := typetracer.New()
	x, err := content.ToBackend(jagged(), tracer)
	require.NoError(t, err)

	got, err := Apply(Add, x, 1.5, broadcast.DefaultOptions())
	require.NoError(t, err)

	c := got.(content.Content)
	assert.Equal(t, "var * float64", c.Form().Type())
	assert.Equal(t, []string{"node0", "node1"}, tracer.Report().TouchedData())

	_, err = content.ToList(c)
	assert.ErrorIs(t, err, content.ErrInvalidConfiguration)
}

func TestBroadcastArrays(t *testing.T) {
	x := jagged().WithParameters(content.Parameters{"name": "x"})
	out, err := BroadcastArrays(broadcast.DefaultOptions(), x, ints(10, 20, 30))
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Equal(t, toList(t, x), toList(t, out[0]))
	assert.Equal(t, []any{
		[]any{int64(10), int64(10), int64(10)},
		[]any{},
		[]any{int64(30), int64(30)},
	}, toList(t, out[1]))
	assert.Equal(t, "x", out[0].Parameter("name"))
	assert.Nil(t, out[1].Parameter("name"))

	none, err := BroadcastArrays(broadcast.DefaultOptions())
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestWithField(t *testing.T) {
	base := func() *content.Record {
		return content.NewRecord([]content.Content{ints(1, 2)}, []string{"x"}, 2, cpu.New())
	}

	t.Run("array", func(t *testing.T) {
		out, err := WithField(base(), ints(10, 20), "y")
		require.NoError(t, err)
		assert.Equal(t, []any{
			map[string]any{"x": int64(1), "y": int64(10)},
			map[string]any{"x": int64(2), "y": int64(20)},
		}, toList(t, out))
		assert.Equal(t, []string{"x", "y"}, out.(*content.Record).Fields())
	})

	t.Run("replace", func(t *testing.T) {
		out, err := WithField(base(), floats(0.5, 1.5), "x")
		require.NoError(t, err)
		assert.Equal(t, []any{map[string]any{"x": 0.5}, map[string]any{"x": 1.5}}, toList(t, out))
	})

	t.Run("scalar", func(t *testing.T) {
		out, err := WithField(base(), true, "flag")
		require.NoError(t, err)
		assert.Equal(t, []any{
			map[string]any{"x": int64(1), "flag": true},
			map[string]any{"x": int64(2), "flag": true},
		}, toList(t, out))
	})

	t.Run("missing", func(t *testing.T) {
		out, err := WithField(base(), nil, "y")
		require.NoError(t, err)
		assert.Equal(t, []any{
			map[string]any{"x": int64(1), "y": nil},
			map[string]any{"x": int64(2), "y": nil},
		}, toList(t, out))
	})

	t.Run("inside lists", func(t *testing.T) {
		rows := content.NewRecord([]content.Content{ints(1, 2, 3)}, []string{"x"}, 3, cpu.New())
		lists := content.NewListOffset(idx(0, 2, 3), rows)
		out, err := WithField(lists, ints(10, 20), "y")
		require.NoError(t, err)
		assert.Equal(t, []any{
			[]any{
				map[string]any{"x": int64(1), "y": int64(10)},
				map[string]any{"x": int64(2), "y": int64(10)},
			},
			[]any{map[string]any{"x": int64(3), "y": int64(20)}},
		}, toList(t, out))
	})

	t.Run("nested path", func(t *testing.T) {
		inner := content.NewRecord([]content.Content{ints(1, 2)}, []string{"b"}, 2, cpu.New())
		outer := content.NewRecord([]content.Content{inner}, []string{"a"}, 2, cpu.New())
		out, err := WithField(outer, 5, "a", "z")
		require.NoError(t, err)
		assert.Equal(t, []any{
			map[string]any{"a": map[string]any{"b": int64(1), "z": int64(5)}},
			map[string]any{"a": map[string]any{"b": int64(2), "z": int64(5)}},
		}, toList(t, out))
	})

	t.Run("errors", func(t *testing.T) {
		_, err := WithField(base(), 1)
		assert.ErrorIs(t, err, content.ErrInvalidConfiguration)

		_, err = WithField(ints(1, 2), 1, "y")
		require.ErrorIs(t, err, content.ErrUnsupportedBroadcast)
		assert.Contains(t, err.Error(), "cannot add a new field")

		_, err = WithField(base(), 1, "missing", "z")
		assert.ErrorContains(t, err, "no field")
	})
}

func TestFromRegular(t *testing.T) {
	cube := content.NewRegular(content.NewRegular(ints(1, 2, 3, 4, 5, 6, 7, 8), 2, 0), 2, 0)
	require.Equal(t, "2 * 2 * int64", cube.Form().Type())
	axis := func(i int) *int { return &i }

	tests := []struct {
		name string
		axis *int
		want string
	}{
		{"every axis", nil, "var * var * int64"},
		{"axis 1", axis(1), "var * 2 * int64"},
		{"axis 2", axis(2), "2 * var * int64"},
		{"negative axis", axis(-1), "2 * var * int64"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := FromRegular(cube, tt.axis)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out.Form().Type())
			assert.Equal(t, toList(t, cube), toList(t, out))
		})
	}

	t.Run("axis 0 is a no-op", func(t *testing.T) {
		out, err := FromRegular(cube, axis(0))
		require.NoError(t, err)
		assert.Same(t, cube, out)
	})

	t.Run("multidimensional leaves", func(t *testing.T) {
		nd, err := content.NewNumpyND([]int64{1, 2, 3, 4, 5, 6}, content.Shape{3, 2}, cpu.New())
		require.NoError(t, err)
		out, err := FromRegular(nd, nil)
		require.NoError(t, err)
		assert.Equal(t, "var * int64", out.Form().Type())
	})

	t.Run("too deep", func(t *testing.T) {
		_, err := FromRegular(cube, axis(3))
		require.ErrorIs(t, err, content.ErrStructuralDepth)
		assert.Contains(t, err.Error(), "axis=3 exceeds the depth of this array (3)")
	})
}

func TestFromRegularThroughRecords(t *testing.T) {
	rows := content.NewRecord([]content.Content{content.NewRegular(ints(1, 2, 3, 4, 5, 6), 3, 0)}, []string{"x"}, 2, cpu.New())
	require.Equal(t, "{x: 3 * int64}", rows.Form().Type())
	axis := func(i int) *int { return &i }

	for _, a := range []int{1, -1} {
		out, err := FromRegular(rows, axis(a))
		require.NoError(t, err, "axis %d", a)
		assert.Equal(t, "{x: var * int64}", out.Form().Type(), "axis %d", a)
		assert.Equal(t, toList(t, rows), toList(t, out))
	}

	_, err := FromRegular(rows, axis(2))
	require.ErrorIs(t, err, content.ErrStructuralDepth)
	assert.Contains(t, err.Error(), "axis=2 exceeds the depth of this array (2)")
}

func TestMergeOptionOfRecords(t *testing.T) {
	b := cpu.New()
	pairs := content.NewRecord([]content.Content{ints(1, 2)}, []string{"a"}, 2, b)
	optional := content.NewIndexedOption(idx(-1, 0, 1), pairs)

	tests := []struct {
		name     string
		in       content.Content
		axis     int
		wantType string
		want     []any
	}{
		{
			name:     "option of records",
			in:       optional,
			axis:     -1,
			wantType: "{a: ?int64}",
			want:     []any{map[string]any{"a": nil}, map[string]any{"a": int64(1)}, map[string]any{"a": int64(2)}},
		},
		{
			name: "byte masked",
			in: content.NewByteMasked(idx(1, 0, 1),
				content.NewRecord([]content.Content{ints(1, 2, 3), floats(0.5, 1.5, 2.5)}, []string{"a", "b"}, 3, b), true),
			axis:     -1,
			wantType: "{a: ?int64, b: ?float64}",
			want: []any{
				map[string]any{"a": int64(1), "b": 0.5},
				map[string]any{"a": nil, "b": nil},
				map[string]any{"a": int64(3), "b": 2.5},
			},
		},
		{
			name:     "inside lists",
			in:       content.NewListOffset(idx(0, 2, 3), optional),
			axis:     1,
			wantType: "var * {a: ?int64}",
			want: []any{
				[]any{map[string]any{"a": nil}, map[string]any{"a": int64(1)}},
				[]any{map[string]any{"a": int64(2)}},
			},
		},
		{
			name:     "option above the axis stays",
			in:       content.NewListOffset(idx(0, 2, 3), optional),
			axis:     0,
			wantType: "var * ?{a: int64}",
			want: []any{
				[]any{nil, map[string]any{"a": int64(1)}},
				[]any{map[string]any{"a": int64(2)}},
			},
		},
		{
			name:     "indexed records",
			in:       content.NewIndexed(idx(1, 0, 1), content.NewRecord([]content.Content{ints(10, 20)}, []string{"a"}, 2, b)),
			axis:     -1,
			wantType: "{a: int64}",
			want:     []any{map[string]any{"a": int64(20)}, map[string]any{"a": int64(10)}, map[string]any{"a": int64(20)}},
		},
		{
			name:     "tuples",
			in:       content.NewIndexedOption(idx(0, -1), content.NewRecord([]content.Content{ints(7)}, nil, 1, b)),
			axis:     -1,
			wantType: "(?int64)",
			want:     []any{[]any{int64(7)}, []any{nil}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := MergeOptionOfRecords(tt.in, tt.axis)
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, out.Form().Type())
			if diff := cmp.Diff(tt.want, toList(t, out)); diff != "" {
				t.Errorf("MergeOptionOfRecords mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMergeOptionOfRecordsKeepsRecordParameters(t *testing.T) {
	rec := content.NewRecord([]content.Content{ints(1)}, []string{"a"}, 1, cpu.New()).
		WithParameters(content.Parameters{"__record__": "Hit"})
	out, err := MergeOptionOfRecords(content.NewIndexedOption(idx(0, -1), rec), -1)
	require.NoError(t, err)
	assert.Equal(t, content.KindRecord, out.Kind())
	assert.Equal(t, "Hit", out.Parameter("__record__"))
}

func TestMergeOptionOfRecordsErrors(t *testing.T) {
	_, err := MergeOptionOfRecords(ints(1, 2), 1)
	require.ErrorIs(t, err, content.ErrStructuralDepth)
	assert.Contains(t, err.Error(), "axis=1 exceeds the depth of this array (1)")
}

func TestCountNonzero(t *testing.T) {
	tests := []struct {
		name string
		in   content.Content
		want int
	}{
		{"flat", ints(0, 1, 2, 0), 2},
		{"jagged", jagged(), 5},
		{"missing rows", content.NewIndexedOption(idx(0, -1, 1, 2), ints(0, 3, 5)), 2},
		{"booleans", bools(true, false, true), 2},
		{
			name: "union of numbers and booleans",
			in:   content.NewUnion(idx(0, 1, 1), idx(0, 0, 1), []content.Content{ints(0, 2), bools(true, false)}),
			want: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CountNonzero(tt.in, broadcast.DefaultOptions())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCountNonzeroErrors(t *testing.T) {
	mixed := content.NewUnion(idx(0, 1), idx(0, 0), []content.Content{ints(1), jagged()})
	_, err := CountNonzero(mixed, broadcast.DefaultOptions())
	require.ErrorIs(t, err, content.ErrIrreducibleUnion)
	assert.Contains(t, err.Error(), "in count_nonzero")

	rec := content.NewRecord([]content.Content{ints(1)}, []string{"a"}, 1, cpu.New())
	_, err = CountNonzero(rec, broadcast.DefaultOptions())
	assert.ErrorIs(t, err, content.ErrUnsupportedBroadcast)
}

func TestCountNonzeroShapeOnly(t *testing.T) {
	tracer := typetracer.New()
	x, err := content.ToBackend(jagged(), tracer)
	require.NoError(t, err)

	got, err := CountNonzero(x, broadcast.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, content.UnknownLength, got)
	assert.Contains(t, tracer.Report().TouchedData(), "node1")
}

func TestApplyParallelKernels(t *testing.T) {
	saved := Parallelism
	t.Cleanup(func() { Parallelism = saved })
	Parallelism = parallel.Config{Enabled: true, NumWorkers: 4, MinChunkSize: 8}

	n := 1000
	offsets := make([]int64, n+1)
	values := make([]int64, 2*n)
	flat := make([]int64, n)
	for i := range flat {
		offsets[i+1] = int64(2 * (i + 1))
		values[2*i], values[2*i+1] = int64(i), int64(-i)
		flat[i] = int64(i)
	}
	x := content.NewListOffset(content.NewIndex(offsets), ints(values...))

	out, err := Apply(Add, x, ints(flat...), broadcast.DefaultOptions())
	require.NoError(t, err)
	got := toList(t, out)
	require.Len(t, got, n)
	for i, row := range got {
		assert.Equal(t, []any{int64(2 * i), int64(0)}, row, "row %d", i)
	}
}
