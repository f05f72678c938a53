package content

import (
	"fmt"
	"slices"
)

// FromList builds a layout from nested Go values, the inverse of ToList.
// Slices become ListOffset nodes, map[string]any values become records with
// sorted fields, nil rows become IndexedOption nodes and numbers become
// int64 leaves, or float64 leaves if any value is fractional. Rows of
// different structure in one column are rejected.
func FromList(values []any, b Backend) (Content, error) {
	if !b.KnownData() {
		return nil, Errorf(ErrInvalidConfiguration, "", "cannot build a layout on the %s backend", b.Name())
	}
	return fromValues(values, b)
}

func fromValues(values []any, b Backend) (Content, error) {
	index := make([]int64, len(values))
	present := make([]any, 0, len(values))
	missing := false
	for i, v := range values {
		if v == nil {
			index[i] = -1
			missing = true
			continue
		}
		index[i] = int64(len(present))
		present = append(present, v)
	}
	inner, err := fromPresent(present, b)
	if err != nil {
		return nil, err
	}
	if missing {
		return NewIndexedOption(NewIndex(index), inner), nil
	}
	return inner, nil
}

type valueClass int

const (
	classBool valueClass = iota
	classInt
	classFloat
	classList
	classRecord
)

func classify(v any) (valueClass, error) {
	switch v.(type) {
	case bool:
		return classBool, nil
	case int, int32, int64, uint8:
		return classInt, nil
	case float32, float64:
		return classFloat, nil
	case []any:
		return classList, nil
	case map[string]any:
		return classRecord, nil
	default:
		return 0, fmt.Errorf("fromlist: unsupported value type %T", v)
	}
}

func fromPresent(values []any, b Backend) (Content, error) {
	if len(values) == 0 {
		return NewEmpty(b), nil
	}
	class, err := classify(values[0])
	if err != nil {
		return nil, err
	}
	for _, v := range values[1:] {
		next, err := classify(v)
		if err != nil {
			return nil, err
		}
		switch {
		case next == class:
		case class == classInt && next == classFloat:
			class = classFloat
		case class == classFloat && next == classInt:
		default:
			return nil, Errorf(ErrUnsupportedBroadcast, "", "cannot build a layout from %T and %T in one column", values[0], v)
		}
	}

	switch class {
	case classBool:
		out := make([]bool, len(values))
		for i, v := range values {
			out[i] = v.(bool)
		}
		return NewNumpy(out, b), nil
	case classInt:
		out := make([]int64, len(values))
		for i, v := range values {
			out[i] = toInt64Any(v)
		}
		return NewNumpy(out, b), nil
	case classFloat:
		out := make([]float64, len(values))
		for i, v := range values {
			out[i] = toFloat64Any(v)
		}
		return NewNumpy(out, b), nil
	case classList:
		offsets := make([]int64, 1, len(values)+1)
		var flat []any
		for _, v := range values {
			flat = append(flat, v.([]any)...)
			offsets = append(offsets, int64(len(flat)))
		}
		inner, err := fromValues(flat, b)
		if err != nil {
			return nil, err
		}
		return NewListOffset(NewIndex(offsets), inner), nil
	default:
		return fromRecords(values, b)
	}
}

func fromRecords(values []any, b Backend) (Content, error) {
	var fields []string
	for _, v := range values {
		for name := range v.(map[string]any) {
			if !slices.Contains(fields, name) {
				fields = append(fields, name)
			}
		}
	}
	slices.Sort(fields)
	if fields == nil {
		fields = []string{}
	}
	contents := make([]Content, len(fields))
	for i, name := range fields {
		column := make([]any, len(values))
		for j, v := range values {
			column[j] = v.(map[string]any)[name]
		}
		c, err := fromValues(column, b)
		if err != nil {
			return nil, err
		}
		contents[i] = c
	}
	return NewRecord(contents, fields, len(values), b), nil
}

func toFloat64Any(v any) float64 {
	switch x := v.(type) {
	case int:
		return float64(x)
	case int32:
		return float64(x)
	case int64:
		return float64(x)
	case uint8:
		return float64(x)
	case float32:
		return float64(x)
	case float64:
		return x
	default:
		return 0
	}
}

func toInt64Any(v any) int64 {
	switch x := v.(type) {
	case int:
		return int64(x)
	case int32:
		return int64(x)
	case int64:
		return x
	case uint8:
		return int64(x)
	default:
		return 0
	}
}
