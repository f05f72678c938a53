package content

import "github.com/google/go-cmp/cmp"

// Parameters is the free-form metadata attached to a node. A nil map means
// "no parameters" and compares equal to an empty map.
type Parameters map[string]any

// Empty reports whether there are no parameters.
func (p Parameters) Empty() bool {
	return len(p) == 0
}

// Get returns the value for key, or nil.
func (p Parameters) Get(key string) any {
	if p == nil {
		return nil
	}
	return p[key]
}

// ParametersEqual compares two mappings key by key; values are JSON-like and
// compared structurally.
func ParametersEqual(a, b Parameters) bool {
	if len(a) != len(b) {
		return false
	}
	for k, av := range a {
		bv, ok := b[k]
		if !ok || !cmp.Equal(av, bv) {
			return false
		}
	}
	return true
}

// ParametersIntersect keeps the key/value pairs present and equal in both.
// Returns nil if either side is nil or nothing is shared.
func ParametersIntersect(a, b Parameters) Parameters {
	if a == nil || b == nil {
		return nil
	}
	var out Parameters
	for k, av := range a {
		if bv, ok := b[k]; ok && cmp.Equal(av, bv) {
			if out == nil {
				out = Parameters{}
			}
			out[k] = av
		}
	}
	return out
}

// ParametersUnion overlays b on top of a. Returns nil if the result is empty.
func ParametersUnion(a, b Parameters) Parameters {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	out := make(Parameters, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}
