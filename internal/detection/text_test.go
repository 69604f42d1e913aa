package detection

import (
	"testing"

	"github.com/ironsheep/pixelkit/internal/imaging"
)

// createTextPatternImage draws rows of short vertical strokes, the edge
// texture of a line of glyphs.
func createTextPatternImage(width, height int) *imaging.Image[uint8] {
	img := createTestImage(width, height)
	for y := 20; y+8 < height-20; y += 16 {
		for x := 20; x < width-20; x++ {
			if x%6 < 2 {
				for dy := 0; dy < 8; dy++ {
					blacken(img, x, y+dy)
				}
			}
		}
	}
	return img
}

// createCheckerImage alternates every pixel, far denser than any text.
func createCheckerImage(width, height int) *imaging.Image[uint8] {
	img := createTestImage(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if (x+y)%2 == 0 {
				blacken(img, x, y)
			}
		}
	}
	return img
}

func TestDetectTextRegions(t *testing.T) {
	img := createTextPatternImage(200, 150)

	result, err := DetectTextRegions(img, 0.3)
	if err != nil {
		t.Fatalf("DetectTextRegions failed: %v", err)
	}
	if result.Count != len(result.Regions) {
		t.Fatalf("Count %d does not match %d regions", result.Count, len(result.Regions))
	}
	for _, r := range result.Regions {
		b := r.Bounds
		if b.X1 < 0 || b.Y1 < 0 || b.X2 > 200 || b.Y2 > 150 || b.X1 >= b.X2 || b.Y1 >= b.Y2 {
			t.Errorf("region %+v outside the image", r)
		}
		if r.Area != (b.X2-b.X1)*(b.Y2-b.Y1) {
			t.Errorf("region %+v: area does not match bounds", r)
		}
	}
	for i := 1; i < result.Count; i++ {
		for j := 0; j < i; j++ {
			if regionsOverlap(result.Regions[i].Bounds, result.Regions[j].Bounds) {
				t.Errorf("regions %d and %d overlap after merging", j, i)
			}
		}
	}
}

func TestDetectTextRegions_MinConfidence(t *testing.T) {
	img := createTextPatternImage(200, 150)

	for _, minConf := range []float64{0.1, 0.5, 0.8} {
		result, err := DetectTextRegions(img, minConf)
		if err != nil {
			t.Fatalf("DetectTextRegions(%v) failed: %v", minConf, err)
		}
		for _, r := range result.Regions {
			if r.Confidence < minConf {
				t.Errorf("min %v: region confidence %v", minConf, r.Confidence)
			}
		}
	}
}

func TestDetectTextRegions_EmptyImage(t *testing.T) {
	result, err := DetectTextRegions(createTestImage(200, 150), 0.3)
	if err != nil {
		t.Fatalf("DetectTextRegions failed: %v", err)
	}
	if result.Count != 0 || result.Regions == nil {
		t.Errorf("Expected 0 text regions and a non-nil slice, got %+v", result)
	}
}

func TestDetectTextRegions_SortedByConfidence(t *testing.T) {
	img := createTextPatternImage(300, 200)

	result, err := DetectTextRegions(img, 0.2)
	if err != nil {
		t.Fatalf("DetectTextRegions failed: %v", err)
	}
	for i := 1; i < result.Count; i++ {
		if result.Regions[i-1].Confidence < result.Regions[i].Confidence {
			t.Error("Text regions should be sorted by confidence (highest first)")
			break
		}
	}
}

func TestDetectTextRegions_InvalidConfidence(t *testing.T) {
	img := createCheckerImage(40, 40)
	for _, c := range []float64{-0.1, 1.1} {
		if _, err := DetectTextRegions(img, c); err == nil {
			t.Errorf("min_confidence %v accepted", c)
		}
	}
}

func TestStrokeScore(t *testing.T) {
	var horizontal, vertical []Point
	for i := 10; i < 40; i += 5 {
		for j := 5; j < 45; j++ {
			horizontal = append(horizontal, Point{X: j, Y: i})
			vertical = append(vertical, Point{X: i, Y: j})
		}
	}
	b := Bounds{X1: 0, Y1: 0, X2: 50, Y2: 50}

	h := strokeScore(edgeMap(50, 50, horizontal...), b)
	v := strokeScore(edgeMap(50, 50, vertical...), b)
	for _, s := range []float64{h, v} {
		if s < 0 || s > 1 {
			t.Errorf("Score should be between 0 and 1, got %.2f", s)
		}
	}
	if v <= h {
		t.Errorf("vertical strokes should outscore horizontal rules: vertical=%.2f horizontal=%.2f", v, h)
	}
	if got := strokeScore(edgeMap(50, 50), b); got != 0 {
		t.Errorf("empty window: got %v, want 0", got)
	}
}

func TestEdgeSums(t *testing.T) {
	edges := edgeMap(30, 20, Point{X: 0, Y: 0}, Point{X: 5, Y: 5}, Point{X: 29, Y: 19}, Point{X: 10, Y: 3}, Point{X: 11, Y: 3})
	sum := edgeSums(edges)

	tests := []struct {
		b    Bounds
		want int
	}{
		{Bounds{X1: 0, Y1: 0, X2: 30, Y2: 20}, 5},
		{Bounds{X1: 0, Y1: 0, X2: 1, Y2: 1}, 1},
		{Bounds{X1: 1, Y1: 1, X2: 30, Y2: 19}, 3},
		{Bounds{X1: 10, Y1: 3, X2: 12, Y2: 4}, 2},
		{Bounds{X1: 12, Y1: 0, X2: 29, Y2: 19}, 0},
	}
	for _, tt := range tests {
		if got := sum.count(tt.b); got != tt.want {
			t.Errorf("count(%+v): got %d, want %d", tt.b, got, tt.want)
		}
	}
}

func TestMergeOverlappingRegions(t *testing.T) {
	regions := []TextRegion{
		{Bounds: Bounds{X1: 0, Y1: 0, X2: 10, Y2: 10}, Confidence: 0.5},
		{Bounds: Bounds{X1: 5, Y1: 5, X2: 20, Y2: 15}, Confidence: 0.7},
		{Bounds: Bounds{X1: 50, Y1: 50, X2: 60, Y2: 60}, Confidence: 0.4},
		{Bounds: Bounds{X1: 10, Y1: 0, X2: 12, Y2: 2}, Confidence: 0.9}, // overlaps only the merged box
	}

	merged := mergeOverlappingRegions(regions)
	if len(merged) != 2 {
		t.Fatalf("Expected 2 regions, got %+v", merged)
	}
	want := TextRegion{Bounds: Bounds{X1: 0, Y1: 0, X2: 20, Y2: 15}, Confidence: 0.9, Area: 300}
	if merged[0] != want {
		t.Errorf("merged[0]: got %+v, want %+v", merged[0], want)
	}
	if merged[1].Bounds != regions[2].Bounds {
		t.Errorf("separate region changed: %+v", merged[1])
	}
}

func TestRegionsOverlap(t *testing.T) {
	a := Bounds{X1: 0, Y1: 0, X2: 10, Y2: 10}
	tests := []struct {
		name string
		b    Bounds
		want bool
	}{
		{"inside", Bounds{X1: 2, Y1: 2, X2: 5, Y2: 5}, true},
		{"partial", Bounds{X1: 5, Y1: 5, X2: 15, Y2: 15}, true},
		{"touching", Bounds{X1: 10, Y1: 0, X2: 20, Y2: 10}, false},
		{"apart", Bounds{X1: 20, Y1: 20, X2: 30, Y2: 30}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := regionsOverlap(a, tt.b); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
