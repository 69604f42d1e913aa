package imaging

import (
	"fmt"
	"image"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/pixelkit/internal/sample"
)

// Region represents a rectangular region within an image.
//
// (X1, Y1) is inclusive, (X2, Y2) is exclusive.
type Region struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// Rect converts the region to an image.Rectangle.
func (r Region) Rect() image.Rectangle { return image.Rect(r.X1, r.Y1, r.X2, r.Y2) }

// Full returns the region covering all of img.
func Full[T sample.Type](img *Image[T]) Region {
	return Region{X2: img.width, Y2: img.height}
}

// CompareResult summarizes how two equally sized regions differ.
type CompareResult struct {
	SimilarityScore   float64 `json:"similarity_score"`
	PixelsDifferent   int     `json:"pixels_different"`
	TotalPixels       int     `json:"total_pixels"`
	SamplesDifferent  int     `json:"samples_different"`
	MeanAbsoluteError float64 `json:"mean_absolute_error"`
	MeanDeltaE        float64 `json:"mean_delta_e"`
	MaxDeltaE         float64 `json:"max_delta_e"`
}

// DeltaEThreshold is the CIEDE2000 distance above which two pixels count as
// visibly different.
const DeltaEThreshold = 0.02

// CompareRegions compares region r1 of a with region r2 of b.
//
// Both regions must have the same size and lie inside their images, and the
// images must share a channel count. Pixel colors are compared with the
// CIEDE2000 metric; raw samples with the mean absolute normalized error.
func CompareRegions[T sample.Type](a *Image[T], r1 Region, b *Image[T], r2 Region) (*CompareResult, error) {
	if err := checkRegion(a, r1); err != nil {
		return nil, err
	}
	if err := checkRegion(b, r2); err != nil {
		return nil, err
	}
	w, h := r1.X2-r1.X1, r1.Y2-r1.Y1
	if w != r2.X2-r2.X1 || h != r2.Y2-r2.Y1 || a.channels != b.channels {
		return nil, shapeError("compare regions", w, h, a.channels, r2.X2-r2.X1, r2.Y2-r2.Y1, b.channels)
	}

	pa := make([]float64, a.channels)
	pb := make([]float64, b.channels)
	var sumAbs, sumDE, maxDE float64
	samplesDiff, pixelsDiff := 0, 0

	for dy := 0; dy < h; dy++ {
		for dx := 0; dx < w; dx++ {
			ia := a.Index(r1.X1+dx, r1.Y1+dy)
			ib := b.Index(r2.X1+dx, r2.Y1+dy)
			for c := range pa {
				pa[c] = sample.ToNorm(a.data[ia+c])
				pb[c] = sample.ToNorm(b.data[ib+c])
				if a.data[ia+c] != b.data[ib+c] {
					samplesDiff++
				}
				sumAbs += math.Abs(pa[c] - pb[c])
			}
			ra, ga, ba, _ := toRGBA(a.color, pa)
			rb, gb, bb, _ := toRGBA(b.color, pb)
			de := colorful.Color{R: ra, G: ga, B: ba}.DistanceCIEDE2000(colorful.Color{R: rb, G: gb, B: bb})
			sumDE += de
			maxDE = max(maxDE, de)
			if de > DeltaEThreshold {
				pixelsDiff++
			}
		}
	}

	total := w * h
	return &CompareResult{
		SimilarityScore:   math.Round((1-float64(pixelsDiff)/float64(total))*1000) / 1000,
		PixelsDifferent:   pixelsDiff,
		TotalPixels:       total,
		SamplesDifferent:  samplesDiff,
		MeanAbsoluteError: sumAbs / float64(total*a.channels),
		MeanDeltaE:        sumDE / float64(total),
		MaxDeltaE:         maxDE,
	}, nil
}

// CompareImages compares two whole images of the same shape.
func CompareImages[T sample.Type](a, b *Image[T]) (*CompareResult, error) {
	return CompareRegions(a, Full(a), b, Full(b))
}

func checkRegion[T sample.Type](img *Image[T], r Region) error {
	if r.X1 < 0 || r.Y1 < 0 || r.X2 > img.width || r.Y2 > img.height {
		return fmt.Errorf("region (%d,%d)-(%d,%d) outside image bounds %dx%d",
			r.X1, r.Y1, r.X2, r.Y2, img.width, img.height)
	}
	if r.X1 >= r.X2 || r.Y1 >= r.Y2 {
		return fmt.Errorf("invalid region: x1 must be < x2, y1 must be < y2")
	}
	return nil
}
