package kernel

import (
	"fmt"
	"math"
	"sync"

	"github.com/ironsheep/pixelkit/internal/filter"
)

// GaussianSigma is the standard deviation of the preset Gaussian kernels.
const GaussianSigma = 1.4

// Gaussian builds an n x n Gaussian kernel centred on its middle tap and
// normalized to sum 1. n must be odd and positive.
func Gaussian(n int, sigma float64) *Kernel {
	if n <= 0 || n%2 == 0 {
		panic(fmt.Sprintf("kernel: gaussian size must be odd and positive, got %d", n))
	}
	if sigma <= 0 {
		panic(fmt.Sprintf("kernel: gaussian sigma must be positive, got %v", sigma))
	}
	h := n / 2
	s2 := sigma * sigma
	a := 1 / (2 * math.Pi * s2)
	return Create(n, n, func(i, j int) float64 {
		dx, dy := float64(i-h), float64(j-h)
		return a * math.Exp(-(dx*dx+dy*dy)/(2*s2))
	}).Normalize()
}

// BoxBlur builds an n x n averaging kernel.
func BoxBlur(n int) *Kernel {
	w := 1 / float64(n*n)
	return Create(n, n, func(int, int) float64 { return w })
}

var (
	gaussian3 = sync.OnceValue(func() *Kernel { return Gaussian(3, GaussianSigma) })
	gaussian5 = sync.OnceValue(func() *Kernel { return Gaussian(5, GaussianSigma) })
	gaussian7 = sync.OnceValue(func() *Kernel { return Gaussian(7, GaussianSigma) })
	gaussian9 = sync.OnceValue(func() *Kernel { return Gaussian(9, GaussianSigma) })

	sobelX = sync.OnceValue(func() *Kernel {
		return MustFromRows([][]float64{
			{1, 0, -1},
			{2, 0, -2},
			{1, 0, -1},
		})
	})
	sobelY = sync.OnceValue(func() *Kernel {
		return MustFromRows([][]float64{
			{1, 2, 1},
			{0, 0, 0},
			{-1, -2, -1},
		})
	})
	laplacian = sync.OnceValue(func() *Kernel {
		return MustFromRows([][]float64{
			{0, 1, 0},
			{1, -4, 1},
			{0, 1, 0},
		})
	})
	sharpen = sync.OnceValue(func() *Kernel {
		return MustFromRows([][]float64{
			{0, -1, 0},
			{-1, 5, -1},
			{0, -1, 0},
		})
	})
)

// Gaussian3, Gaussian5, Gaussian7 and Gaussian9 return the shared preset
// Gaussian kernels (sigma 1.4). They are built once on first use.
func Gaussian3() *Kernel { return gaussian3() }
func Gaussian5() *Kernel { return gaussian5() }
func Gaussian7() *Kernel { return gaussian7() }
func Gaussian9() *Kernel { return gaussian9() }

// SobelX returns the horizontal Sobel derivative kernel.
func SobelX() *Kernel { return sobelX() }

// SobelY returns the vertical Sobel derivative kernel.
func SobelY() *Kernel { return sobelY() }

// Laplacian returns the 4-neighbour Laplacian kernel.
func Laplacian() *Kernel { return laplacian() }

// Sharpen returns a 3x3 sharpening kernel.
func Sharpen() *Kernel { return sharpen() }

var (
	sobel          = sync.OnceValue(func() *Op { return Add(SobelX(), SobelY()) })
	sobelMagnitude = sync.OnceValue(func() *Op { return Hypot(SobelX(), SobelY()) })
	box3           = sync.OnceValue(func() *Kernel { return BoxBlur(3) })
)

// Sobel returns SobelX + SobelY as a combined filter.
func Sobel() *Op { return sobel() }

// SobelMagnitude returns the gradient magnitude hypot(SobelX, SobelY).
func SobelMagnitude() *Op { return sobelMagnitude() }

// lazy wraps a preset accessor so the preset is built on the first
// evaluation rather than at registration.
func lazy[F filter.Filter](get func() F) filter.Filter {
	return filter.Func(func(x, y, c int, in []filter.Input) float64 {
		return get().ComputeAt(x, y, c, in)
	})
}

func init() {
	filter.Register("gaussian3", lazy(Gaussian3))
	filter.Register("gaussian5", lazy(Gaussian5))
	filter.Register("gaussian7", lazy(Gaussian7))
	filter.Register("gaussian9", lazy(Gaussian9))
	filter.Register("sobel", lazy(Sobel))
	filter.Register("sobel_magnitude", lazy(SobelMagnitude))
	filter.Register("laplacian", lazy(Laplacian))
	filter.Register("sharpen", lazy(Sharpen))
	filter.Register("box3", lazy(box3))
}
