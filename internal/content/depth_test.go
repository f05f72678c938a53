package content_test

import (
	"testing"

	"github.com/born-ml/ragged/internal/backend/cpu"
	"github.com/born-ml/ragged/internal/content"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBranchDepth(t *testing.T) {
	nd, err := content.NewNumpyND([]int64{1, 2, 3, 4, 5, 6}, content.Shape{3, 2}, cpu.New())
	require.NoError(t, err)
	flat := content.NewRecord([]content.Content{ints(1, 2, 3)}, []string{"a"}, 3, cpu.New())
	mixed := content.NewRecord([]content.Content{ints(1, 2, 3), jagged()}, []string{"a", "b"}, 3, cpu.New())

	tests := []struct {
		name      string
		in        content.Content
		branching bool
		depth     int
	}{
		{"leaf", ints(1, 2), false, 1},
		{"empty", content.NewEmpty(cpu.New()), false, 1},
		{"jagged", jagged(), false, 2},
		{"multidimensional leaf", nd, false, 2},
		{"regular of jagged", content.NewRegular(jagged(), 3, 0), false, 3},
		{"option of record", content.NewIndexedOption(idx(0, -1), flat), false, 1},
		{"record of lists", content.NewRecord([]content.Content{jagged()}, []string{"b"}, 3, cpu.New()), false, 2},
		{"record of mixed depths", mixed, true, 1},
		{"union of mixed depths", content.NewUnion(idx(0, 1), idx(0, 0), []content.Content{ints(1), jagged()}), true, 1},
		{"empty tuple", content.NewRecord(nil, nil, 2, cpu.New()), false, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			branching, depth := content.BranchDepth(tt.in)
			assert.Equal(t, tt.branching, branching)
			assert.Equal(t, tt.depth, depth)
		})
	}
}
