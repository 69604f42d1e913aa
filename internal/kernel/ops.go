package kernel

import (
	"math"

	"github.com/ironsheep/pixelkit/internal/filter"
)

// Op combines the responses of two kernels evaluated on the same input.
// The kernels may differ in size and border policy.
type Op struct {
	a, b    *Kernel
	name    string
	combine func(a, b float64) float64
}

// ComputeAt evaluates both kernels at (x, y, c) and combines the results.
func (o *Op) ComputeAt(x, y, c int, in []filter.Input) float64 {
	return o.combine(o.a.response(in[0], x, y, c), o.b.response(in[0], x, y, c))
}

// Left and Right return the combined kernels.
func (o *Op) Left() *Kernel  { return o.a }
func (o *Op) Right() *Kernel { return o.b }

func (o *Op) String() string { return o.name }

// Add returns a filter yielding conv(a) + conv(b).
func Add(a, b *Kernel) *Op {
	return &Op{a: a, b: b, name: "add", combine: func(x, y float64) float64 { return x + y }}
}

// Sub returns a filter yielding conv(a) - conv(b).
func Sub(a, b *Kernel) *Op {
	return &Op{a: a, b: b, name: "sub", combine: func(x, y float64) float64 { return x - y }}
}

// Mul returns a filter yielding conv(a) * conv(b).
func Mul(a, b *Kernel) *Op {
	return &Op{a: a, b: b, name: "mul", combine: func(x, y float64) float64 { return x * y }}
}

// Div returns a filter yielding conv(a) / conv(b). Division by a zero
// response yields 0.
func Div(a, b *Kernel) *Op {
	return &Op{a: a, b: b, name: "div", combine: func(x, y float64) float64 {
		if y == 0 {
			return 0
		}
		return x / y
	}}
}

// Rem returns a filter yielding the floating-point remainder of conv(a) and
// conv(b). A zero divisor yields 0.
func Rem(a, b *Kernel) *Op {
	return &Op{a: a, b: b, name: "rem", combine: func(x, y float64) float64 {
		if y == 0 {
			return 0
		}
		return math.Mod(x, y)
	}}
}

// Hypot returns a filter yielding sqrt(conv(a)^2 + conv(b)^2).
func Hypot(a, b *Kernel) *Op {
	return &Op{a: a, b: b, name: "hypot", combine: math.Hypot}
}
