package content_test

import (
	"testing"

	"github.com/born-ml/ragged/internal/backend/cpu"
	"github.com/born-ml/ragged/internal/content"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumpyToRegularArray(t *testing.T) {
	n, err := content.NewNumpyND([]int64{1, 2, 3, 4, 5, 6}, content.Shape{2, 3}, cpu.New())
	require.NoError(t, err)
	assert.Equal(t, 2, n.PurelistDepth())

	r, ok := n.ToRegularArray().(*content.Regular)
	require.True(t, ok)
	assert.Equal(t, 3, r.Size())
	assert.Equal(t, 2, r.Length())
	assert.Equal(t, []any{
		[]any{int64(1), int64(2), int64(3)},
		[]any{int64(4), int64(5), int64(6)},
	}, toList(t, r))
	assert.Equal(t, toList(t, n), toList(t, r))

	_, err = content.NewNumpyND([]int64{1, 2, 3}, content.Shape{2, 2}, cpu.New())
	assert.Error(t, err)
}

func TestListOffsetCarryAndRange(t *testing.T) {
	x := jagged()

	assert.Equal(t, 3, x.Length())
	assert.Equal(t, 2, x.PurelistDepth())
	assert.False(t, x.PurelistIsRegular())
	assert.Equal(t, []any{
		[]any{int64(4), int64(5)},
		[]any{int64(1), int64(2), int64(3)},
	}, toList(t, x.Carry(idx(2, 0), false)))
	assert.Equal(t, []any{[]any{}, []any{int64(4), int64(5)}}, toList(t, x.GetItemRange(1, 3)))
}

func TestRegularCarry(t *testing.T) {
	r := content.NewRegular(ints(1, 2, 3, 4, 5, 6), 2, 0)

	assert.Equal(t, 3, r.Length())
	assert.Equal(t, []any{
		[]any{int64(5), int64(6)},
		[]any{int64(1), int64(2)},
	}, toList(t, r.Carry(idx(2, 0), false)))

	empty := content.NewRegular(ints(), 0, 4)
	assert.Equal(t, 4, empty.Length())
	assert.Equal(t, []any{[]any{}, []any{}, []any{}, []any{}}, toList(t, empty))
}

func TestCompactOffsetsAndToListOffset(t *testing.T) {
	l := content.NewList(idx(3, 0), idx(5, 3), ints(1, 2, 3, 4, 5))

	assert.Equal(t, []int64{0, 2, 5}, content.CompactOffsets64(l).Data())

	lo := content.ToListOffset64(l)
	assert.Equal(t, []int64{0, 2, 5}, lo.Offsets().Data())
	assert.Equal(t, []any{
		[]any{int64(4), int64(5)},
		[]any{int64(1), int64(2), int64(3)},
	}, toList(t, lo))

	shifted := content.NewListOffset(idx(2, 4, 5), ints(0, 0, 7, 8, 9))
	assert.Equal(t, []int64{0, 2, 3}, content.CompactOffsets64(shifted).Data())
	assert.Equal(t, toList(t, shifted), toList(t, content.ToListOffset64(shifted)))

	r := content.NewRegular(ints(1, 2, 3, 4), 2, 0)
	assert.Equal(t, []int64{0, 2, 4}, content.CompactOffsets64(r).Data())
}

func TestBroadcastToOffsets(t *testing.T) {
	single := content.NewRegular(ints(7, 8), 1, 0)

	out, err := content.BroadcastToOffsets64(single, idx(0, 2, 3))
	require.NoError(t, err)
	assert.Equal(t, []any{[]any{int64(7), int64(7)}, []any{int64(8)}}, toList(t, out))

	out, err = content.BroadcastToOffsets64(jagged(), idx(0, 3, 3, 5))
	require.NoError(t, err)
	assert.Equal(t, toList(t, jagged()), toList(t, out))

	_, err = content.BroadcastToOffsets64(jagged(), idx(0, 2, 2, 5))
	assert.ErrorIs(t, err, content.ErrShapeMismatch)

	_, err = content.BroadcastToOffsets64(content.NewRegular(ints(1, 2, 3, 4), 2, 0), idx(0, 2, 5))
	assert.ErrorIs(t, err, content.ErrShapeMismatch)

	_, err = content.BroadcastToOffsets64(jagged(), idx(0, 3))
	assert.ErrorIs(t, err, content.ErrShapeMismatch)
}
