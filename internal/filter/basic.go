package filter

import "math"

// AndThen wraps f so its response is passed through fn. Nothing is
// materialized between the two steps.
func AndThen(f Filter, fn func(float64) float64) Filter {
	return andThen{f: f, fn: fn}
}

type andThen struct {
	f  Filter
	fn func(float64) float64
}

func (a andThen) ComputeAt(x, y, c int, in []Input) float64 {
	return a.fn(a.f.ComputeAt(x, y, c, in))
}

// Identity copies channel c of the first input.
var Identity Filter = Func(func(x, y, c int, in []Input) float64 {
	return in[0].GetF(x, y, c)
})

// Invert returns 1 - v for every color channel of the first input. An alpha
// channel is copied unchanged.
var Invert Filter = Func(func(x, y, c int, in []Input) float64 {
	v := in[0].GetF(x, y, c)
	if isAlpha(in[0], c) {
		return v
	}
	return 1 - v
})

// ToGrayscale writes the mean of the first input's color channels (alpha
// excluded) to every destination channel. When the destination channel is
// alpha in the input too, the input alpha is copied.
var ToGrayscale Filter = Broadcast(func(x, y, c int, in []Input) float64 {
	src := in[0]
	if isAlpha(src, c) {
		return src.GetF(x, y, c)
	}
	n := src.Channels()
	if src.HasAlpha() {
		n--
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += src.GetF(x, y, i)
	}
	return sum / float64(n)
})

// Brightness scales color channels of the first input by k.
func Brightness(k float64) Filter {
	return colorMap(func(v float64) float64 { return v * k })
}

// Gamma applies v^(1/g) to color channels of the first input.
func Gamma(g float64) Filter {
	inv := 1 / g
	return colorMap(func(v float64) float64 { return math.Pow(v, inv) })
}

// Threshold maps color channels to 1 when v >= t and to 0 otherwise.
func Threshold(t float64) Filter {
	return colorMap(func(v float64) float64 {
		if v >= t {
			return 1
		}
		return 0
	})
}

// Channel writes channel i of the first input to every destination channel.
func Channel(i int) Filter {
	return Broadcast(func(x, y, _ int, in []Input) float64 {
		return in[0].GetF(x, y, i)
	})
}

// Blend mixes two inputs: (1-alpha)*in[0] + alpha*in[1].
func Blend(alpha float64) Filter {
	return Func(func(x, y, c int, in []Input) float64 {
		return (1-alpha)*in[0].GetF(x, y, c) + alpha*in[1].GetF(x, y, c)
	})
}

// Difference returns |in[0] - in[1]| per channel.
var Difference Filter = Func(func(x, y, c int, in []Input) float64 {
	return math.Abs(in[0].GetF(x, y, c) - in[1].GetF(x, y, c))
})

func colorMap(fn func(float64) float64) Filter {
	return Func(func(x, y, c int, in []Input) float64 {
		v := in[0].GetF(x, y, c)
		if isAlpha(in[0], c) {
			return v
		}
		return fn(v)
	})
}

func isAlpha(in Input, c int) bool {
	return in.HasAlpha() && c == in.Channels()-1
}
