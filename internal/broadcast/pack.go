package broadcast

import (
	"github.com/born-ml/ragged/internal/backend/cpu"
	"github.com/born-ml/ragged/internal/content"
)

// backendOf returns the backend shared by every array input, defaulting to
// the CPU backend when there are none.
func backendOf(inputs []any, function string) (content.Backend, error) {
	var b content.Backend
	for _, x := range inputs {
		var next content.Backend
		switch v := x.(type) {
		case content.Content:
			next = v.Backend()
		case *content.RecordScalar:
			next = v.Array.Backend()
		default:
			continue
		}
		if b == nil {
			b = next
		} else if b != next {
			return nil, content.Errorf(content.ErrInvalidConfiguration, function,
				"cannot broadcast arrays on different backends: %s and %s", b.Name(), next.Name())
		}
	}
	if b == nil {
		return cpu.New(), nil
	}
	return b, nil
}

// lengthOfBroadcast is the longest array input, UnknownLength if any length
// is unknown, or 1 when there are no arrays.
func lengthOfBroadcast(inputs []any) int {
	maxlen := -1
	for _, x := range inputs {
		c, ok := x.(content.Content)
		if !ok {
			continue
		}
		if c.Length() == content.UnknownLength {
			return content.UnknownLength
		}
		maxlen = max(maxlen, c.Length())
	}
	if maxlen < 0 {
		return 1
	}
	return maxlen
}

// pack wraps every array input in one outer regular dimension so all inputs
// enter the recursion with length 1. Record scalars become a row repeated
// to the broadcast length. isScalar records which inputs were not arrays.
func pack(inputs []any, backend content.Backend) (packed []any, isScalar []bool) {
	maxlen := lengthOfBroadcast(inputs)
	packed = make([]any, len(inputs))
	isScalar = make([]bool, len(inputs))
	for i, x := range inputs {
		switch v := x.(type) {
		case *content.RecordScalar:
			size := maxlen
			if size == content.UnknownLength {
				size = 1
			}
			rows := v.Array.Carry(backend.Full(size, int64(v.At)), false)
			packed[i] = content.NewRegular(rows, size, 1)
			isScalar[i] = true
		case content.Content:
			size := 1
			if backend.KnownData() {
				size = v.Length()
			}
			packed[i] = content.NewRegular(v, size, 1)
		default:
			packed[i] = x
			isScalar[i] = true
		}
	}
	return packed, isScalar
}

// unpack strips the dimensions pack added: two when every input was a
// scalar, one otherwise.
func unpack(x content.Content, isScalar []bool, backend content.Backend) (any, error) {
	allScalar := true
	for _, s := range isScalar {
		allScalar = allScalar && s
	}
	empty := !backend.KnownData() || x.Length() == 0

	if !allScalar {
		if empty {
			return content.GetItemNothing(x), nil
		}
		return content.GetItemAt(x, 0)
	}
	if empty {
		return content.GetItemNothing(content.GetItemNothing(x)), nil
	}
	row, err := content.GetItemAt(x, 0)
	if err != nil {
		return nil, err
	}
	inner, ok := row.(content.Content)
	if !ok {
		return row, nil
	}
	return content.GetItemAt(inner, 0)
}
