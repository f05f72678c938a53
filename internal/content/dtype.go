// Package content implements the node taxonomy of nested, jagged, optional and
// heterogeneous arrays together with the structural operations the
// broadcasting engine drives.
package content

// DType is a constraint for supported leaf data types.
// It uses Go generics to keep leaf buffers typed.
type DType interface {
	~float32 | ~float64 | ~int32 | ~int64 | ~uint8 | ~bool
}

// DataType represents runtime type information for leaf buffers.
type DataType int

// Supported data types for leaf buffers.
const (
	Float32 DataType = iota
	Float64
	Int32
	Int64
	Uint8
	Bool
)

// Size returns the byte size of the data type.
func (dt DataType) Size() int {
	switch dt {
	case Float32, Int32:
		return 4
	case Float64, Int64:
		return 8
	case Uint8, Bool:
		return 1
	default:
		panic("unknown data type")
	}
}

// String returns the primitive name used in forms.
func (dt DataType) String() string {
	switch dt {
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case Uint8:
		return "uint8"
	case Bool:
		return "bool"
	default:
		return "unknown"
	}
}

// ParseDataType is the inverse of DataType.String.
func ParseDataType(s string) (DataType, error) {
	for _, dt := range []DataType{Float32, Float64, Int32, Int64, Uint8, Bool} {
		if dt.String() == s {
			return dt, nil
		}
	}
	return 0, Errorf(ErrInvalidConfiguration, "", "unknown primitive %q", s)
}

// IsFloat reports whether the data type is a floating-point type.
func (dt DataType) IsFloat() bool {
	return dt == Float32 || dt == Float64
}

// Promote returns the data type two leaves merge into.
//
// Booleans promote to the other side's type, integers widen to int64 and any
// float involvement yields float64, except float32 with float32.
func Promote(a, b DataType) DataType {
	switch {
	case a == b:
		return a
	case a == Bool:
		return b
	case b == Bool:
		return a
	case a.IsFloat() || b.IsFloat():
		if a == Float32 && (b == Uint8) || b == Float32 && (a == Uint8) {
			return Float32
		}
		return Float64
	default:
		return Int64
	}
}

// inferDataType infers DataType from a generic type T.
func inferDataType[T DType](dummy T) DataType {
	switch any(dummy).(type) {
	case float32:
		return Float32
	case float64:
		return Float64
	case int32:
		return Int32
	case int64:
		return Int64
	case uint8:
		return Uint8
	case bool:
		return Bool
	default:
		panic("unsupported type")
	}
}
