// Package kernel provides 2-D convolution kernels.
//
// A Kernel is an immutable matrix of float64 weights and is itself a
// filter.Filter: evaluating it convolves the first input, channel by channel.
// Kernels can be combined with Add, Sub, Mul, Div, Rem and Hypot; the result
// evaluates both kernels at each sample and combines the two responses, so
// composites such as a Sobel gradient magnitude need no intermediate image.
//
// Taps that fall outside the image are resolved by the kernel's Border
// policy. The default is Clamp (replicate edge samples).
package kernel

import (
	"fmt"
	"strings"

	"github.com/ironsheep/pixelkit/internal/filter"
)

// Border decides which sample a tap outside the image reads.
type Border uint8

const (
	// Clamp replicates the nearest edge sample.
	Clamp Border = iota
	// Wrap reads from the opposite edge, treating the image as periodic.
	Wrap
	// Zero treats everything outside the image as 0.
	Zero
)

var borderNames = [...]string{Clamp: "clamp", Wrap: "wrap", Zero: "zero"}

func (b Border) String() string {
	if int(b) < len(borderNames) {
		return borderNames[b]
	}
	return fmt.Sprintf("border(%d)", b)
}

// ParseBorder looks up a border policy by name.
func ParseBorder(name string) (Border, error) {
	for i, n := range borderNames {
		if n == name {
			return Border(i), nil
		}
	}
	return 0, fmt.Errorf("unknown border policy: %s", name)
}

// Kernel is a rows x cols weight matrix. Kernels are never modified after
// construction and may be shared freely between goroutines.
type Kernel struct {
	rows, cols int
	data       []float64 // row-major
	border     Border
}

// New creates a rows x cols kernel of zeros.
func New(rows, cols int) *Kernel {
	if rows <= 0 || cols <= 0 {
		panic(fmt.Sprintf("kernel: invalid size %dx%d", rows, cols))
	}
	return &Kernel{rows: rows, cols: cols, data: make([]float64, rows*cols)}
}

// Square creates an n x n kernel of zeros.
func Square(n int) *Kernel {
	return New(n, n)
}

// Create fills a rows x cols kernel with f(col, row).
func Create(rows, cols int, f func(col, row int) float64) *Kernel {
	k := New(rows, cols)
	for j := 0; j < rows; j++ {
		for i := 0; i < cols; i++ {
			k.data[j*cols+i] = f(i, j)
		}
	}
	return k
}

// FromRows builds a kernel from a slice of equally long rows.
func FromRows(rows [][]float64) (*Kernel, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("kernel: empty matrix")
	}
	cols := len(rows[0])
	for j, r := range rows {
		if len(r) != cols {
			return nil, fmt.Errorf("kernel: row %d has %d columns, want %d", j, len(r), cols)
		}
	}
	return Create(len(rows), cols, func(i, j int) float64 { return rows[j][i] }), nil
}

// MustFromRows is FromRows for literal matrices; it panics on a ragged matrix.
func MustFromRows(rows [][]float64) *Kernel {
	k, err := FromRows(rows)
	if err != nil {
		panic(err)
	}
	return k
}

func (k *Kernel) Rows() int      { return k.rows }
func (k *Kernel) Cols() int      { return k.cols }
func (k *Kernel) Border() Border { return k.border }

// At returns the weight in row, col.
func (k *Kernel) At(row, col int) float64 { return k.data[row*k.cols+col] }

// Sum returns the sum of all weights.
func (k *Kernel) Sum() float64 {
	var s float64
	for _, v := range k.data {
		s += v
	}
	return s
}

// Normalize returns a copy whose weights sum to 1. A kernel summing to
// exactly zero (derivative kernels such as Sobel) is returned as an
// unchanged copy so its sign structure survives.
func (k *Kernel) Normalize() *Kernel {
	out := k.clone()
	sum := k.Sum()
	if sum == 0 {
		return out
	}
	for i := range out.data {
		out.data[i] /= sum
	}
	return out
}

// WithBorder returns a copy using border policy b.
func (k *Kernel) WithBorder(b Border) *Kernel {
	out := k.clone()
	out.border = b
	return out
}

// Matrix returns the weights as a slice of rows.
func (k *Kernel) Matrix() [][]float64 {
	out := make([][]float64, k.rows)
	for j := range out {
		out[j] = append([]float64(nil), k.data[j*k.cols:(j+1)*k.cols]...)
	}
	return out
}

func (k *Kernel) clone() *Kernel {
	return &Kernel{rows: k.rows, cols: k.cols, data: append([]float64(nil), k.data...), border: k.border}
}

func (k *Kernel) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Kernel(%dx%d, %s)", k.rows, k.cols, k.border)
	for j := 0; j < k.rows; j++ {
		sb.WriteString("\n ")
		for i := 0; i < k.cols; i++ {
			fmt.Fprintf(&sb, " %8.4f", k.At(j, i))
		}
	}
	return sb.String()
}

// ComputeAt convolves channel c of the first input around (x, y).
func (k *Kernel) ComputeAt(x, y, c int, in []filter.Input) float64 {
	return k.response(in[0], x, y, c)
}

// response is the weighted sum over ky in [-rows/2, rows/2] and kx in
// [-cols/2, cols/2] of src(x+kx, y+ky, c) * w[ky+rows/2][kx+cols/2].
// Even-sized kernels use their first rows/cols only up to the half extents.
func (k *Kernel) response(src filter.Input, x, y, c int) float64 {
	r2, c2 := k.rows/2, k.cols/2
	w, h := src.Width(), src.Height()
	var sum float64
	for ky := -r2; ky <= r2 && ky+r2 < k.rows; ky++ {
		sy, ok := resolve(y+ky, h, k.border)
		row := k.data[(ky+r2)*k.cols:]
		for kx := -c2; kx <= c2 && kx+c2 < k.cols; kx++ {
			wt := row[kx+c2]
			if wt == 0 || !ok {
				continue
			}
			sx, ok := resolve(x+kx, w, k.border)
			if !ok {
				continue
			}
			sum += src.GetF(sx, sy, c) * wt
		}
	}
	return sum
}

// resolve maps a possibly out-of-range coordinate onto [0, n). ok is false
// when the Zero policy says the tap contributes nothing.
func resolve(v, n int, b Border) (int, bool) {
	if v >= 0 && v < n {
		return v, true
	}
	switch b {
	case Wrap:
		v %= n
		if v < 0 {
			v += n
		}
		return v, true
	case Zero:
		return 0, false
	default:
		if v < 0 {
			return 0, true
		}
		return n - 1, true
	}
}
