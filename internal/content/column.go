package content

import "fmt"

// column is a typed, flat leaf buffer.
type column interface {
	dtype() DataType
	len() int
	gather(carry []int64, inner int) column
	slice(start, stop int) column
	at(i int) any
	float64At(i int) float64
	int64At(i int) int64
	boolAt(i int) bool
}

type typedColumn[T DType] []T

func (c typedColumn[T]) dtype() DataType {
	var dummy T
	return inferDataType(dummy)
}

func (c typedColumn[T]) len() int {
	return len(c)
}

// gather copies rows carry[i] where each row spans inner scalars.
func (c typedColumn[T]) gather(carry []int64, inner int) column {
	out := make(typedColumn[T], len(carry)*inner)
	for i, row := range carry {
		src := int(row) * inner
		if row < 0 || src+inner > len(c) {
			panic(fmt.Sprintf("carry: row %d out of range for %d scalars", row, len(c)))
		}
		copy(out[i*inner:(i+1)*inner], c[src:src+inner])
	}
	return out
}

func (c typedColumn[T]) slice(start, stop int) column {
	return c[start:stop]
}

func (c typedColumn[T]) at(i int) any {
	return c[i]
}

func (c typedColumn[T]) float64At(i int) float64 {
	return toFloat64(c[i])
}

func (c typedColumn[T]) int64At(i int) int64 {
	return toInt64(c[i])
}

func (c typedColumn[T]) boolAt(i int) bool {
	return toFloat64(c[i]) != 0
}

func toFloat64[T DType](v T) float64 {
	switch x := any(v).(type) {
	case float32:
		return float64(x)
	case float64:
		return x
	case int32:
		return float64(x)
	case int64:
		return float64(x)
	case uint8:
		return float64(x)
	case bool:
		if x {
			return 1
		}
		return 0
	default:
		panic("unsupported type")
	}
}

func toInt64[T DType](v T) int64 {
	switch x := any(v).(type) {
	case float32:
		return int64(x)
	case float64:
		return int64(x)
	case int32:
		return int64(x)
	case int64:
		return x
	case uint8:
		return int64(x)
	case bool:
		if x {
			return 1
		}
		return 0
	default:
		panic("unsupported type")
	}
}

// castColumn converts every scalar of c to dt.
func castColumn(c column, dt DataType) column {
	if c.dtype() == dt {
		return c
	}
	n := c.len()
	switch dt {
	case Float32:
		out := make(typedColumn[float32], n)
		for i := range out {
			out[i] = float32(c.float64At(i))
		}
		return out
	case Float64:
		out := make(typedColumn[float64], n)
		for i := range out {
			out[i] = c.float64At(i)
		}
		return out
	case Int32:
		out := make(typedColumn[int32], n)
		for i := range out {
			out[i] = int32(c.int64At(i))
		}
		return out
	case Int64:
		out := make(typedColumn[int64], n)
		for i := range out {
			out[i] = c.int64At(i)
		}
		return out
	case Uint8:
		out := make(typedColumn[uint8], n)
		for i := range out {
			out[i] = uint8(c.int64At(i))
		}
		return out
	case Bool:
		out := make(typedColumn[bool], n)
		for i := range out {
			out[i] = c.boolAt(i)
		}
		return out
	default:
		panic("unknown data type")
	}
}

// concatColumns casts every part to dt and joins them.
func concatColumns(parts []column, dt DataType) column {
	switch dt {
	case Float32:
		return appendColumns[float32](parts, dt)
	case Float64:
		return appendColumns[float64](parts, dt)
	case Int32:
		return appendColumns[int32](parts, dt)
	case Int64:
		return appendColumns[int64](parts, dt)
	case Uint8:
		return appendColumns[uint8](parts, dt)
	case Bool:
		return appendColumns[bool](parts, dt)
	default:
		panic("unknown data type")
	}
}

func appendColumns[T DType](parts []column, dt DataType) typedColumn[T] {
	total := 0
	for _, p := range parts {
		total += p.len()
	}
	out := make(typedColumn[T], 0, total)
	for _, p := range parts {
		out = append(out, castColumn(p, dt).(typedColumn[T])...)
	}
	return out
}

// makeColumn allocates a zeroed column of n scalars.
func makeColumn(dt DataType, n int) column {
	switch dt {
	case Float32:
		return make(typedColumn[float32], n)
	case Float64:
		return make(typedColumn[float64], n)
	case Int32:
		return make(typedColumn[int32], n)
	case Int64:
		return make(typedColumn[int64], n)
	case Uint8:
		return make(typedColumn[uint8], n)
	case Bool:
		return make(typedColumn[bool], n)
	default:
		panic("unknown data type")
	}
}
