// Package ops implements array operations on top of the broadcasting engine:
// element-wise arithmetic and comparison, broadcasting arrays against each
// other, adding record fields, converting regular dimensions, merging
// optional records and counting.
package ops

import (
	"fmt"

	"github.com/born-ml/ragged/internal/backend/cpu"
	"github.com/born-ml/ragged/internal/content"
	"github.com/born-ml/ragged/internal/parallel"
)

// Parallelism controls how leaf kernels split their loops. Set it before
// calling into the package; it is read without locking.
var Parallelism = parallel.DefaultConfig()

// Kernel is an element-wise binary operation on leaf values.
//
// Compare kernels produce booleans; IntCompare, if set, compares integral
// operands exactly instead of through float64. Otherwise Int is used when
// both sides are integral (if set) and Float for everything else.
//
// Booleans count as the integers 0 and 1 in arithmetic, so true + true is
// int64(2) rather than a logical or.
type Kernel struct {
	Name       string
	Int        func(a, b int64) int64
	Float      func(a, b float64) float64
	Compare    func(a, b float64) bool
	IntCompare func(a, b int64) bool
}

// Element-wise kernels.
var (
	Add = Kernel{
		Name:  "add",
		Int:   func(a, b int64) int64 { return a + b },
		Float: func(a, b float64) float64 { return a + b },
	}
	Sub = Kernel{
		Name:  "subtract",
		Int:   func(a, b int64) int64 { return a - b },
		Float: func(a, b float64) float64 { return a - b },
	}
	Mul = Kernel{
		Name:  "multiply",
		Int:   func(a, b int64) int64 { return a * b },
		Float: func(a, b float64) float64 { return a * b },
	}
	Div = Kernel{
		Name:  "divide",
		Float: func(a, b float64) float64 { return a / b },
	}
	Equal = Kernel{
		Name:       "equal",
		Compare:    func(a, b float64) bool { return a == b },
		IntCompare: func(a, b int64) bool { return a == b },
	}
	Greater = Kernel{
		Name:       "greater",
		Compare:    func(a, b float64) bool { return a > b },
		IntCompare: func(a, b int64) bool { return a > b },
	}
)

// operand is one side of a kernel: a leaf or a Go scalar.
type operand struct {
	leaf   *content.Numpy
	scalar float64
	iscal  int64
	dtype  content.DataType
}

func scalarOperand(v any) (operand, error) {
	switch x := v.(type) {
	case bool:
		var i int64
		if x {
			i = 1
		}
		return operand{scalar: float64(i), iscal: i, dtype: content.Bool}, nil
	case int:
		return operand{scalar: float64(x), iscal: int64(x), dtype: content.Int64}, nil
	case int32:
		return operand{scalar: float64(x), iscal: int64(x), dtype: content.Int32}, nil
	case int64:
		return operand{scalar: float64(x), iscal: x, dtype: content.Int64}, nil
	case uint8:
		return operand{scalar: float64(x), iscal: int64(x), dtype: content.Uint8}, nil
	case float32:
		return operand{scalar: float64(x), iscal: int64(x), dtype: content.Float32}, nil
	case float64:
		return operand{scalar: x, iscal: int64(x), dtype: content.Float64}, nil
	default:
		return operand{}, fmt.Errorf("ops: unsupported operand type %T", v)
	}
}

func (o operand) float(i int) float64 {
	if o.leaf != nil {
		return o.leaf.Float64At(i)
	}
	return o.scalar
}

func (o operand) int(i int) int64 {
	if o.leaf != nil {
		return o.leaf.Int64At(i)
	}
	return o.iscal
}

// leafOperands accepts inputs made only of one-dimensional leaves and
// scalars, with at least one leaf. ok is false if any array is not a leaf.
func leafOperands(inputs []any) (ops []operand, length int, ok bool, err error) {
	found := false
	for _, x := range inputs {
		c, isContent := x.(content.Content)
		if !isContent {
			continue
		}
		n, isNumpy := c.(*content.Numpy)
		if !isNumpy || len(n.Inner()) > 0 {
			return nil, 0, false, nil
		}
		length, found = n.Length(), true
	}
	if !found {
		return nil, 0, false, nil
	}
	ops = make([]operand, len(inputs))
	for i, x := range inputs {
		if n, isNumpy := x.(*content.Numpy); isNumpy {
			ops[i] = operand{leaf: n, dtype: n.DType()}
			continue
		}
		if ops[i], err = scalarOperand(x); err != nil {
			return nil, 0, false, err
		}
	}
	return ops, length, true, nil
}

// run evaluates k row by row over two operands.
func (k Kernel) run(a, b operand, length int, backend content.Backend) *content.Numpy {
	promoted := content.Promote(a.dtype, b.dtype)
	dt := promoted
	switch {
	case k.Compare != nil:
		dt = content.Bool
	case dt == content.Bool:
		dt = content.Int64
	case k.Int == nil && !dt.IsFloat():
		dt = content.Float64
	}

	if !backend.KnownData() {
		for _, o := range []operand{a, b} {
			if o.leaf != nil {
				content.TouchData(o.leaf)
			}
		}
		return content.NewNumpyShapeOnly(dt, length, nil, backend)
	}

	switch {
	case k.Compare != nil:
		out := make([]bool, length)
		if k.IntCompare != nil && !promoted.IsFloat() {
			parallel.For(length, Parallelism, func(i int) {
				out[i] = k.IntCompare(a.int(i), b.int(i))
			})
		} else {
			parallel.For(length, Parallelism, func(i int) {
				out[i] = k.Compare(a.float(i), b.float(i))
			})
		}
		return content.NewNumpy(out, backend)
	case !dt.IsFloat():
		out := make([]int64, length)
		parallel.For(length, Parallelism, func(i int) {
			out[i] = k.Int(a.int(i), b.int(i))
		})
		return content.NewNumpy(out, backend).AsType(dt)
	default:
		out := make([]float64, length)
		parallel.For(length, Parallelism, func(i int) {
			out[i] = k.Float(a.float(i), b.float(i))
		})
		return content.NewNumpy(out, backend).AsType(dt)
	}
}

// scalar evaluates k on two Go scalars.
func (k Kernel) scalar(x, y any) (any, error) {
	a, err := scalarOperand(x)
	if err != nil {
		return nil, err
	}
	b, err := scalarOperand(y)
	if err != nil {
		return nil, err
	}
	out := k.run(a, b, 1, cpu.New())
	return out.At(0), nil
}
