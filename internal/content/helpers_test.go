package content_test

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

func toList(t *testing.T, c content.Content) []any {
	t.Helper()
	out, err := content.ToList(c)
	require.NoError(t, err)
	return out
}
