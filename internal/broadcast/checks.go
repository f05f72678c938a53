package broadcast

import (
	"slices"

	"github.com/born-ml/ragged/internal/content"
)

// checkLength requires every array at this step to have the same length.
func checkLength(contents []content.Content, function string) error {
	if len(contents) == 0 {
		return nil
	}
	length := contents[0].Length()
	for _, x := range contents[1:] {
		if x.Length() != length {
			return content.Errorf(content.ErrShapeMismatch, function,
				"cannot broadcast %s of length %d with %s of length %d",
				contents[0].Kind(), length, x.Kind(), x.Length())
		}
	}
	return nil
}

// allSameOffsets reports whether every list input describes the same
// sublist boundaries, so their contents can be sliced without re-chunking.
// Any non-list array input rules the fast path out.
func allSameOffsets(inputs []any) bool {
	var offsets []int64
	have := false
	for _, x := range inputs {
		switch v := x.(type) {
		case *content.ListOffset:
			mine := v.Offsets().Data()
			if !have {
				offsets, have = mine, true
			} else if !slices.Equal(offsets, mine) {
				return false
			}

		case *content.List:
			starts, stops := v.Starts().Data(), v.Stops().Data()
			if len(starts) > 1 && !slices.Equal(starts[1:], stops[:len(stops)-1]) {
				return false
			}
			if !have {
				offsets = make([]int64, len(starts)+1)
				copy(offsets, starts)
				if len(stops) > 0 {
					offsets[len(starts)] = stops[len(stops)-1]
				}
				have = true
			} else if len(offsets) != len(starts)+1 || !slices.Equal(offsets[:len(starts)], starts) ||
				(len(stops) != 0 && offsets[len(offsets)-1] != stops[len(stops)-1]) {
				return false
			}

		case *content.Regular:
			var mine []int64
			if v.Size() != 0 {
				mine = make([]int64, v.Length()+1)
				for i := range mine {
					mine[i] = int64(i * v.Size())
				}
			}
			if !have {
				offsets, have = mine, true
			} else if !slices.Equal(offsets, mine) {
				return false
			}

		case content.Content:
			return false
		}
	}
	return true
}
