package content_test

import (
	"testing"

	"github.com/born-ml/ragged/internal/content"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByteMasked(t *testing.T) {
	x := content.NewByteMasked(idx(1, 0, 1), ints(10, 20, 30), true)

	assert.Equal(t, []bool{false, true, false}, content.MaskAsBool(x, false))
	assert.Equal(t, []any{int64(10), nil, int64(30)}, toList(t, x))
	assert.Equal(t, []any{int64(10), int64(30)}, toList(t, content.ProjectOption(x, nil)))
	assert.Equal(t, []any{int64(30)}, toList(t, content.ProjectOption(x, []bool{true, false, false})))

	io := content.ToIndexedOption64(x)
	assert.Equal(t, []int64{0, -1, 2}, io.Index().Data())
}

func TestBitMasked(t *testing.T) {
	// 0b00000101: rows 0 and 2 set in LSB order.
	lsb := content.NewBitMasked(idx(5), ints(1, 2, 3), true, 3, true)
	assert.Equal(t, []any{int64(1), nil, int64(3)}, toList(t, lsb))

	// 0b10100000: rows 0 and 2 set in MSB order, valid when unset.
	msb := content.NewBitMasked(idx(160), ints(1, 2, 3), false, 3, false)
	assert.Equal(t, []any{nil, int64(2), nil}, toList(t, msb))

	assert.Equal(t, []any{int64(3), int64(1)}, toList(t, lsb.Carry(idx(2, 0), false)))
	assert.Panics(t, func() { content.NewBitMasked(idx(5), ints(), true, 9, true) })
}

func TestUnmasked(t *testing.T) {
	x := content.NewUnmasked(ints(1, 2))

	assert.Equal(t, []bool{false, false}, content.MaskAsBool(x, false))
	assert.Equal(t, []any{int64(1), int64(2)}, toList(t, x))
	assert.Equal(t, "?int64", x.Form().Type())
}

func TestIndexedOptionSimplified(t *testing.T) {
	inner := content.NewIndexedOption(idx(-1, 0), ints(9))

	out, err := content.IndexedOptionSimplified(idx(1, -1, 0), inner, content.Parameters{"k": "v"})
	require.NoError(t, err)

	io, ok := out.(*content.IndexedOption)
	require.True(t, ok)
	assert.Equal(t, []int64{0, -1, -1}, io.Index().Data())
	assert.Equal(t, content.KindNumpy, io.Content().Kind())
	assert.Equal(t, []any{int64(9), nil, nil}, toList(t, out))
	assert.Equal(t, "v", out.Parameter("k"))
}

func TestIndexedProject(t *testing.T) {
	x := content.NewIndexed(idx(2, 2, 0), ints(1, 2, 3))

	assert.Equal(t, []any{int64(3), int64(3), int64(1)}, toList(t, x))
	assert.Equal(t, toList(t, x), toList(t, x.Project()))
}

func TestIndexedSimplified(t *testing.T) {
	plain := content.IndexedSimplified(idx(1, 0), ints(5, 6), content.Parameters{"k": "v"})
	assert.Equal(t, content.KindIndexed, plain.Kind())
	assert.Equal(t, []any{int64(6), int64(5)}, toList(t, plain))
	assert.Equal(t, "v", plain.Parameter("k"))

	nested := content.IndexedSimplified(idx(0, 2), content.NewIndexed(idx(2, 0, 1), ints(7, 8, 9)), nil)
	x, ok := nested.(*content.Indexed)
	require.True(t, ok)
	assert.Equal(t, []int64{2, 1}, x.Index().Data())
	assert.Equal(t, content.KindNumpy, x.Content().Kind())

	option := content.IndexedSimplified(idx(1, 1, 0), content.NewIndexedOption(idx(-1, 0), ints(9)), nil)
	assert.Equal(t, content.KindIndexedOption, option.Kind())
	assert.Equal(t, []any{int64(9), int64(9), nil}, toList(t, option))

	u := content.NewUnion(idx(0, 1), idx(0, 0), []content.Content{ints(1), bools(true)})
	carried := content.IndexedSimplified(idx(1, 0), u, nil)
	assert.Equal(t, content.KindUnion, carried.Kind())
	assert.Equal(t, []any{true, int64(1)}, toList(t, carried))
}
