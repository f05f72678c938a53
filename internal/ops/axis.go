package ops

import "github.com/born-ml/ragged/internal/content"

// posAxis resolves axis against the node c seen at depth. Non-negative axes
// are returned as is. Negative axes count up from the leaves below c, so ok
// is false when those leaves sit at different depths.
func posAxis(c content.Content, axis, depth int) (posaxis int, ok bool) {
	if axis >= 0 {
		return axis, true
	}
	branching, additional := content.BranchDepth(c)
	if branching {
		return 0, false
	}
	return axis + depth + additional - 1, true
}

func axisError(function string, axis, depth int) error {
	return content.Errorf(content.ErrStructuralDepth, function,
		"axis=%d exceeds the depth of this array (%d)", axis, depth)
}
