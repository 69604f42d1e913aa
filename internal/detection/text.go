package detection

import (
	"fmt"
	"math"
	"sort"

	"github.com/ironsheep/pixelkit/internal/imaging"
	"github.com/ironsheep/pixelkit/internal/sample"
)

// textWindows are the sliding window sizes, roughly one line of text at
// several font sizes.
var textWindows = []struct{ w, h int }{
	{100, 30},
	{150, 40},
	{200, 50},
	{80, 25},
}

const (
	textMinDensity   = 0.05
	textMaxDensity   = 0.4
	textIdealDensity = 0.2
)

// TextRegion is a box that probably holds a line or block of text.
type TextRegion struct {
	Bounds     Bounds  `json:"bounds"`
	Confidence float64 `json:"confidence"`
	Area       int     `json:"area"`
}

// TextRegionsResult lists text regions, most confident first.
type TextRegionsResult struct {
	Regions []TextRegion `json:"regions"`
	Count   int          `json:"count"`
}

// DetectTextRegions locates text-like areas without recognising characters.
//
// Windows of each textWindows size slide over the EdgeDetect map in half
// window steps. A window qualifies when its edge density lies in [0.05, 0.4];
// its confidence is the stroke score (see strokeScore) scaled by how close
// the density is to 0.2. Windows at or above minConfidence are merged with
// any overlapping region, keeping the higher confidence.
func DetectTextRegions[T sample.Type](img *imaging.Image[T], minConfidence float64) (*TextRegionsResult, error) {
	if minConfidence < 0 || minConfidence > 1 {
		return nil, fmt.Errorf("invalid min_confidence %g: must be between 0 and 1", minConfidence)
	}
	edges, err := EdgeDetect(img, 50, 150)
	if err != nil {
		return nil, err
	}
	width, height := edges.Width(), edges.Height()
	sum := edgeSums(edges)

	candidates := make([]TextRegion, 0)
	for _, ws := range textWindows {
		for y := 0; y+ws.h <= height; y += ws.h / 2 {
			for x := 0; x+ws.w <= width; x += ws.w / 2 {
				b := Bounds{X1: x, Y1: y, X2: x + ws.w, Y2: y + ws.h}
				area := ws.w * ws.h
				density := float64(sum.count(b)) / float64(area)
				if density < textMinDensity || density > textMaxDensity {
					continue
				}
				confidence := strokeScore(edges, b) * (1 - math.Abs(density-textIdealDensity)/textIdealDensity)
				if confidence < minConfidence {
					continue
				}
				candidates = append(candidates, TextRegion{
					Bounds:     b,
					Confidence: math.Round(confidence*1000) / 1000,
					Area:       area,
				})
			}
		}
	}

	regions := mergeOverlappingRegions(candidates)
	sort.SliceStable(regions, func(i, j int) bool {
		return regions[i].Confidence > regions[j].Confidence
	})

	imaging.Logger().Debug("detect text regions", "candidates", len(candidates), "regions", len(regions))
	return &TextRegionsResult{Regions: regions, Count: len(regions)}, nil
}

// summedArea is an integral image of edge pixels with a zero first row and
// column.
type summedArea struct {
	stride int
	v      []int
}

func edgeSums(edges *imaging.Image[uint8]) summedArea {
	width, height := edges.Width(), edges.Height()
	s := summedArea{stride: width + 1, v: make([]int, (width+1)*(height+1))}
	for y := 0; y < height; y++ {
		row := 0
		for x := 0; x < width; x++ {
			if isEdge(edges, x, y) {
				row++
			}
			s.v[(y+1)*s.stride+x+1] = s.v[y*s.stride+x+1] + row
		}
	}
	return s
}

// count returns the edge pixels in [X1, X2) x [Y1, Y2).
func (s summedArea) count(b Bounds) int {
	return s.v[b.Y2*s.stride+b.X2] - s.v[b.Y1*s.stride+b.X2] - s.v[b.Y2*s.stride+b.X1] + s.v[b.Y1*s.stride+b.X1]
}

// strokeScore is the share of horizontal edge runs among all runs in b.
// Glyphs are dominated by short vertical strokes, each of which starts a
// new run on every row it crosses, so text scores high and long horizontal
// rules score low.
func strokeScore(edges *imaging.Image[uint8], b Bounds) float64 {
	horizontal, vertical := 0, 0
	for y := b.Y1; y < b.Y2; y++ {
		in := false
		for x := b.X1; x < b.X2; x++ {
			e := isEdge(edges, x, y)
			if e && !in {
				horizontal++
			}
			in = e
		}
	}
	for x := b.X1; x < b.X2; x++ {
		in := false
		for y := b.Y1; y < b.Y2; y++ {
			e := isEdge(edges, x, y)
			if e && !in {
				vertical++
			}
			in = e
		}
	}
	if horizontal+vertical == 0 {
		return 0
	}
	return float64(horizontal) / float64(horizontal+vertical)
}

// mergeOverlappingRegions folds each region into the first earlier region it
// overlaps, repeating until no two regions overlap.
func mergeOverlappingRegions(regions []TextRegion) []TextRegion {
	for {
		merged := make([]TextRegion, 0, len(regions))
		for _, r := range regions {
			found := false
			for i := range merged {
				m := &merged[i]
				if !regionsOverlap(r.Bounds, m.Bounds) {
					continue
				}
				m.Bounds = mergeBounds(r.Bounds, m.Bounds)
				m.Confidence = math.Max(r.Confidence, m.Confidence)
				m.Area = (m.Bounds.X2 - m.Bounds.X1) * (m.Bounds.Y2 - m.Bounds.Y1)
				found = true
				break
			}
			if !found {
				merged = append(merged, r)
			}
		}
		if len(merged) == len(regions) {
			return merged
		}
		regions = merged
	}
}

func regionsOverlap(a, b Bounds) bool {
	return a.X1 < b.X2 && a.X2 > b.X1 && a.Y1 < b.Y2 && a.Y2 > b.Y1
}

func mergeBounds(a, b Bounds) Bounds {
	return Bounds{
		X1: min(a.X1, b.X1),
		Y1: min(a.Y1, b.Y1),
		X2: max(a.X2, b.X2),
		Y2: max(a.Y2, b.Y2),
	}
}
