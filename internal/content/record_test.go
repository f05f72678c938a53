package content_test

import (
	"testing"

	"github.com/born-ml/ragged/internal/backend/cpu"
	"github.com/born-ml/ragged/internal/content"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func points() *content.Record {
	return content.NewRecord(
		[]content.Content{ints(1, 2, 3), floats(0.5, 1.5, 2.5)},
		[]string{"x", "y"}, 3, cpu.New())
}

func TestRecordFields(t *testing.T) {
	r := points()

	assert.False(t, r.IsTuple())
	assert.Equal(t, []string{"x", "y"}, r.Fields())
	assert.Equal(t, 1, r.FieldIndex("y"))
	assert.Equal(t, -1, r.FieldIndex("z"))

	y, err := r.Field("y")
	require.NoError(t, err)
	assert.Equal(t, []any{0.5, 1.5, 2.5}, toList(t, y))

	_, err = r.Field("z")
	assert.Error(t, err)

	assert.Equal(t, []any{
		map[string]any{"x": int64(1), "y": 0.5},
		map[string]any{"x": int64(2), "y": 1.5},
		map[string]any{"x": int64(3), "y": 2.5},
	}, toList(t, r))
}

func TestRecordTuple(t *testing.T) {
	r := content.NewRecord([]content.Content{ints(1, 2), bools(true, false)}, nil, 2, cpu.New())

	assert.True(t, r.IsTuple())
	assert.Equal(t, []string{"0", "1"}, r.Fields())
	assert.Equal(t, 1, r.FieldIndex("1"))
	assert.Equal(t, -1, r.FieldIndex("2"))
	assert.Equal(t, []any{[]any{int64(1), true}, []any{int64(2), false}}, toList(t, r))
	assert.Equal(t, "(int64, bool)", r.Form().Type())
}

func TestRecordLengthTrimsFields(t *testing.T) {
	r := content.NewRecord([]content.Content{ints(1, 2, 3, 4)}, []string{"x"}, 2, cpu.New())

	assert.Equal(t, 2, r.FieldAt(0).Length())
	assert.Equal(t, []any{map[string]any{"x": int64(1)}, map[string]any{"x": int64(2)}}, toList(t, r))
	assert.Panics(t, func() { content.NewRecord([]content.Content{ints(1)}, []string{"x"}, 2, cpu.New()) })
	assert.Panics(t, func() { content.NewRecord([]content.Content{ints(1)}, []string{"x", "y"}, 1, cpu.New()) })
}

func TestRecordCarry(t *testing.T) {
	r := points().WithParameters(content.Parameters{"__record__": "point"}).(*content.Record)

	lazy := r.Carry(idx(2, 0), true)
	assert.Equal(t, content.KindIndexed, lazy.Kind())

	eager := r.Carry(idx(2, 0), false)
	assert.Equal(t, content.KindRecord, eager.Kind())
	assert.Equal(t, "point", eager.Parameter("__record__"))
	assert.Equal(t, toList(t, lazy), toList(t, eager))
	assert.Equal(t, []any{
		map[string]any{"x": int64(3), "y": 2.5},
		map[string]any{"x": int64(1), "y": 0.5},
	}, toList(t, eager))

	assert.Equal(t, 2, r.GetItemRange(1, 3).Length())
}

func TestRecordWithField(t *testing.T) {
	r := points()

	replaced := r.WithField("x", bools(true, false, true))
	assert.Equal(t, []string{"x", "y"}, replaced.Fields())
	assert.Equal(t, "{x: bool, y: float64}", replaced.Form().Type())

	added := r.WithField("z", ints(7, 8, 9))
	assert.Equal(t, []string{"x", "y", "z"}, added.Fields())
	assert.Equal(t, []string{"x", "y"}, r.Fields())

	tuple := content.NewRecord([]content.Content{ints(1, 2)}, nil, 2, cpu.New())
	assert.True(t, tuple.WithField("0", ints(3, 4)).IsTuple())
	named := tuple.WithField("extra", ints(3, 4))
	assert.False(t, named.IsTuple())
	assert.Equal(t, []string{"0", "extra"}, named.Fields())
}

func TestRecordScalar(t *testing.T) {
	row, err := content.GetItemAt(points(), -1)
	require.NoError(t, err)

	scalar, ok := row.(*content.RecordScalar)
	require.True(t, ok)
	assert.Equal(t, []string{"x", "y"}, scalar.Fields())
	assert.Equal(t, map[string]any{"x": int64(3), "y": 2.5}, scalar.Value())
}
