package detection

import (
	"fmt"
	"math"

	"github.com/ironsheep/pixelkit/internal/filter"
	"github.com/ironsheep/pixelkit/internal/imaging"
	"github.com/ironsheep/pixelkit/internal/kernel"
	"github.com/ironsheep/pixelkit/internal/sample"
)

// Edge marks a pixel of the edge map returned by EdgeDetect.
const (
	Edge    uint8 = 255
	NonEdge uint8 = 0
)

// field is an unclamped single-channel float grid. It satisfies filter.Output
// so kernels can write signed gradients that an Image would clamp to [0,1].
type field struct {
	width, height int
	v             []float64
}

func newField(w, h int) *field {
	return &field{width: w, height: h, v: make([]float64, w*h)}
}

func (f *field) Width() int                    { return f.width }
func (f *field) Height() int                   { return f.height }
func (f *field) Channels() int                 { return 1 }
func (f *field) HasAlpha() bool                { return false }
func (f *field) GetF(x, y, _ int) float64      { return f.v[y*f.width+x] }
func (f *field) SetF(x, y, _ int, val float64) { f.v[y*f.width+x] = val }
func (f *field) at(x, y int) float64           { return f.v[y*f.width+x] }

// EdgeDetect performs Canny edge detection and returns a Gray edge map in
// which edges are 255 and everything else is 0.
//
// Thresholds are on the 0-255 scale. Gradient magnitudes below thresholdLow
// are discarded, those at or above thresholdHigh are strong edges, and those
// in between are kept only when one of their 8 neighbours is strong.
//
// # Algorithm
//
//  1. Luminance with Rec.601 weights (imaging.ConvertColor to Gray)
//  2. 5x5 Gaussian blur, sigma 1.4 (kernel.Gaussian5)
//  3. Sobel gradients, magnitude sqrt(Gx²+Gy²) and direction atan2(Gy, Gx)
//  4. Non-maximum suppression along the gradient direction
//  5. Hysteresis thresholding
//
// Recommended starting points:
//   - Clean diagrams: thresholdLow=50, thresholdHigh=150
//   - Photographs: thresholdLow=100, thresholdHigh=200
//   - Noisy images: thresholdLow=75, thresholdHigh=175
func EdgeDetect[T sample.Type](img *imaging.Image[T], thresholdLow, thresholdHigh int) (*imaging.Image[uint8], error) {
	if thresholdLow < 0 || thresholdHigh > 255 || thresholdLow > thresholdHigh {
		return nil, fmt.Errorf("invalid thresholds: low=%d high=%d (need 0 <= low <= high <= 255)",
			thresholdLow, thresholdHigh)
	}

	gray, err := imaging.Convert[float64](img, imaging.Gray)
	if err != nil {
		return nil, fmt.Errorf("grayscale conversion failed: %w", err)
	}
	width, height := gray.Width(), gray.Height()

	blurred := newField(width, height)
	if err := filter.EvalParallel(kernel.Gaussian5(), blurred, gray); err != nil {
		return nil, err
	}

	gx, gy := newField(width, height), newField(width, height)
	if err := filter.EvalParallel(kernel.SobelX(), gx, blurred); err != nil {
		return nil, err
	}
	if err := filter.EvalParallel(kernel.SobelY(), gy, blurred); err != nil {
		return nil, err
	}

	magnitude := newField(width, height)
	for i := range magnitude.v {
		magnitude.v[i] = math.Hypot(gx.v[i], gy.v[i])
	}

	suppressed := suppress(magnitude, gx, gy)

	out := imaging.New[uint8](width, height, imaging.Gray)
	lowThresh := float64(thresholdLow) / 255.0
	highThresh := float64(thresholdHigh) / 255.0

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			val := suppressed.at(x, y)
			if val >= highThresh || (val >= lowThresh && hasStrongNeighbor(suppressed, x, y, highThresh)) {
				out.Set(x, y, 0, Edge)
			}
		}
	}

	imaging.Logger().Debug("edge detect", "width", width, "height", height,
		"low", thresholdLow, "high", thresholdHigh, "edges", CountEdges(out))
	return out, nil
}

// suppress keeps only magnitudes that are local maxima along the gradient
// direction. Border pixels are always suppressed.
func suppress(magnitude, gx, gy *field) *field {
	width, height := magnitude.width, magnitude.height
	out := newField(width, height)
	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			angle := math.Atan2(gy.at(x, y), gx.at(x, y))
			mag := magnitude.at(x, y)

			var n1, n2 float64
			switch {
			case (angle >= -math.Pi/8 && angle < math.Pi/8) || angle >= 7*math.Pi/8 || angle < -7*math.Pi/8:
				n1, n2 = magnitude.at(x-1, y), magnitude.at(x+1, y)
			case (angle >= math.Pi/8 && angle < 3*math.Pi/8) || (angle >= -7*math.Pi/8 && angle < -5*math.Pi/8):
				n1, n2 = magnitude.at(x+1, y-1), magnitude.at(x-1, y+1)
			case (angle >= 3*math.Pi/8 && angle < 5*math.Pi/8) || (angle >= -5*math.Pi/8 && angle < -3*math.Pi/8):
				n1, n2 = magnitude.at(x, y-1), magnitude.at(x, y+1)
			default:
				n1, n2 = magnitude.at(x-1, y-1), magnitude.at(x+1, y+1)
			}

			if mag >= n1 && mag >= n2 {
				out.SetF(x, y, 0, mag)
			}
		}
	}
	return out
}

func hasStrongNeighbor(f *field, x, y int, high float64) bool {
	for ky := -1; ky <= 1; ky++ {
		for kx := -1; kx <= 1; kx++ {
			px := min(max(x+kx, 0), f.width-1)
			py := min(max(y+ky, 0), f.height-1)
			if f.at(px, py) >= high {
				return true
			}
		}
	}
	return false
}

// CountEdges returns the number of edge pixels in an edge map.
func CountEdges(edges *imaging.Image[uint8]) int {
	n := 0
	for _, v := range edges.Data() {
		if v == Edge {
			n++
		}
	}
	return n
}

// EdgeDensity returns the fraction of pixels in an edge map that are edges.
func EdgeDensity(edges *imaging.Image[uint8]) float64 {
	return float64(CountEdges(edges)) / float64(edges.Width()*edges.Height())
}
