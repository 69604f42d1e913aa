package detection

import (
	"math"
	"testing"

	"github.com/ironsheep/pixelkit/internal/imaging"
)

// createLineImage draws a black stroke of the given thickness on white,
// horizontal when vertical is false.
func createLineImage(width, height, pos, thick int, vertical bool) *imaging.Image[uint8] {
	img := imaging.New[uint8](width, height, imaging.RGB)
	img.Fill(1, 1, 1)
	for t := 0; t < thick; t++ {
		for i := 0; ; i++ {
			x, y := i, pos+t
			if vertical {
				x, y = pos+t, i
			}
			if !img.InBounds(x, y) {
				break
			}
			for c := 0; c < 3; c++ {
				img.Set(x, y, c, 0)
			}
		}
	}
	return img
}

func TestDetectLines(t *testing.T) {
	tests := []struct {
		name     string
		vertical bool
		check    func(angle float64) bool
	}{
		{"horizontal", false, func(a float64) bool { return math.Abs(a) < 3 }},
		{"vertical", true, func(a float64) bool { return math.Abs(a) > 87 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := createLineImage(100, 100, 49, 3, tt.vertical)

			result, err := DetectLines(img, 50, false)
			if err != nil {
				t.Fatalf("DetectLines failed: %v", err)
			}
			if result.Count == 0 || result.Count != len(result.Lines) {
				t.Fatalf("Count: got %d with %d lines", result.Count, len(result.Lines))
			}

			found := false
			for _, l := range result.Lines {
				if tt.check(l.AngleDegrees) && l.Length >= 80 {
					found = true
				}
				if l.Start.X > l.End.X {
					t.Errorf("line %+v: start should have the smaller x", l)
				}
				if l.ThicknessApprox < 1 {
					t.Errorf("line %+v: thickness below 1", l)
				}
				if l.HasArrowStart || l.HasArrowEnd {
					t.Errorf("arrows reported without detectArrows")
				}
			}
			if !found {
				t.Errorf("no long %s line among %+v", tt.name, result.Lines)
			}
		})
	}
}

func TestDetectLines_UniformImage(t *testing.T) {
	img := imaging.New[float32](60, 40, imaging.Gray)
	img.Fill(0.3)

	result, err := DetectLines(img, 10, true)
	if err != nil {
		t.Fatalf("DetectLines failed: %v", err)
	}
	if result.Count != 0 {
		t.Errorf("uniform image: got %d lines, want 0", result.Count)
	}
	if result.Lines == nil {
		t.Error("Lines should be an empty slice, not nil, so it encodes as []")
	}
}

func TestDetectLines_ShortSegmentsIgnored(t *testing.T) {
	img := createLineImage(100, 100, 49, 3, false)

	result, err := DetectLines(img, 150, false)
	if err != nil {
		t.Fatalf("DetectLines failed: %v", err)
	}
	if result.Count != 0 {
		t.Errorf("min length beyond the image: got %d lines, want 0", result.Count)
	}
}

func TestDetectLines_InvalidLength(t *testing.T) {
	img := createLineImage(20, 20, 9, 1, false)
	if _, err := DetectLines(img, 0, false); err == nil {
		t.Error("expected error for min length 0")
	}
}

func TestFindPeaks(t *testing.T) {
	span := 5
	acc := make([]int, span*houghAngles)
	acc[2*houghAngles+90] = 9
	acc[2*houghAngles+91] = 4
	acc[0*houghAngles+10] = 6

	peaks := findPeaks(acc, span, 2, 5)
	if len(peaks) != 2 {
		t.Fatalf("got %d peaks, want 2: %+v", len(peaks), peaks)
	}
	if peaks[0] != (houghPeak{rho: 0, theta: 90, votes: 9}) {
		t.Errorf("strongest peak: got %+v", peaks[0])
	}
	if peaks[1] != (houghPeak{rho: -2, theta: 10, votes: 6}) {
		t.Errorf("second peak: got %+v", peaks[1])
	}
}

func TestHasArrowHead(t *testing.T) {
	edges := imaging.New[uint8](60, 60, imaging.Gray)
	tip, tail := Point{X: 50, Y: 30}, Point{X: 10, Y: 30}
	for x := tail.X; x <= tip.X; x++ {
		edges.Set(x, 30, 0, Edge)
	}
	if hasArrowHead(edges, tip, tail) {
		t.Error("bare shaft reported as an arrow")
	}

	for i := 1; i <= 8; i++ {
		edges.Set(tip.X-i, 30-i, 0, Edge)
		edges.Set(tip.X-i, 30+i, 0, Edge)
	}
	if !hasArrowHead(edges, tip, tail) {
		t.Error("arrow head not detected")
	}
	if hasArrowHead(edges, tail, tip) {
		t.Error("tail end reported as an arrow")
	}
}
