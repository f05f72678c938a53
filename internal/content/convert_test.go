package content_test

import (
	"testing"

	"github.com/born-ml/ragged/internal/backend/cpu"
	"github.com/born-ml/ragged/internal/backend/typetracer"
	"github.com/born-ml/ragged/internal/content"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToBackendShapeOnly(t *testing.T) {
	tracer := typetracer.New()
	src := content.NewIndexedOption(idx(0, -1, 1), jagged().GetItemRange(0, 2))

	traced, err := content.ToBackend(src, tracer)
	require.NoError(t, err)

	assert.Equal(t, content.Backend(tracer), traced.Backend())
	assert.Equal(t, src.Form().Type(), traced.Form().Type())
	assert.Equal(t, 3, traced.Length())

	io := traced.(*content.IndexedOption)
	assert.False(t, io.Index().Known())
	lo := io.Content().(*content.ListOffset)
	assert.Equal(t, 2, lo.Length())
	leaf := lo.Content().(*content.Numpy)
	assert.False(t, leaf.Known())
	assert.Equal(t, 5, leaf.Length())
	assert.Equal(t, "node2", leaf.Key())

	_, err = content.ToBackend(traced, cpu.New())
	assert.ErrorIs(t, err, content.ErrInvalidConfiguration)
}

func TestTouch(t *testing.T) {
	tracer := typetracer.New()
	traced, err := content.ToBackend(jagged(), tracer)
	require.NoError(t, err)

	content.TouchShape(traced)
	content.TouchData(content.NodeContent(traced))

	assert.Equal(t, []string{"node0", "node1"}, tracer.Report().TouchedShape())
	assert.Equal(t, []string{"node1"}, tracer.Report().TouchedData())

	// No-ops on the CPU backend.
	content.TouchData(jagged())
}

func TestGetField(t *testing.T) {
	nested := content.NewListOffset(idx(0, 2, 3), points())

	x, err := content.GetField(nested, "x")
	require.NoError(t, err)
	assert.Equal(t, []any{[]any{int64(1), int64(2)}, []any{int64(3)}}, toList(t, x))

	u := content.NewUnion(idx(0, 1), idx(0, 0), []content.Content{
		points(),
		content.NewRecord([]content.Content{floats(9)}, []string{"x"}, 1, cpu.New()),
	})
	ux, err := content.GetField(u, "x")
	require.NoError(t, err)
	assert.Equal(t, []any{1.0, 9.0}, toList(t, ux))

	_, err = content.GetField(nested, "missing")
	assert.Error(t, err)
	_, err = content.GetField(jagged(), "x")
	assert.Error(t, err)

	assert.True(t, content.HasRecords(nested))
	assert.True(t, content.HasRecords(u))
	assert.False(t, content.HasRecords(jagged()))
}
