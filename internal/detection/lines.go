package detection

import (
	"fmt"
	"math"
	"sort"

	"github.com/anthonynsimon/bild/parallel"

	"github.com/ironsheep/pixelkit/internal/imaging"
	"github.com/ironsheep/pixelkit/internal/sample"
)

const (
	houghAngles    = 180
	lineTolerance  = 2.0 // max distance in pixels from a Hough line
	maxLines       = 50
	peakWindow     = 2
	thicknessReach = 10
	arrowReach     = 10
	arrowMinWing   = 3
)

// Point is a pixel position.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Line is a detected line segment. Start is the endpoint with the smaller X
// (smaller Y for vertical lines), so AngleDegrees lies in (-90, 90].
type Line struct {
	Start           Point   `json:"start"`
	End             Point   `json:"end"`
	Length          float64 `json:"length"`
	AngleDegrees    float64 `json:"angle_degrees"`
	Color           string  `json:"color"`
	ThicknessApprox int     `json:"thickness_approx"`
	HasArrowStart   bool    `json:"has_arrow_start"`
	HasArrowEnd     bool    `json:"has_arrow_end"`
}

// LinesResult lists detected lines, strongest first.
type LinesResult struct {
	Lines []Line `json:"lines"`
	Count int    `json:"count"`
}

type houghPeak struct {
	rho, theta, votes int
}

// DetectLines finds straight segments of at least minLength pixels.
//
// Edges come from EdgeDetect with thresholds 50/150. Every edge pixel votes
// for the (rho, theta) lines through it at one-degree steps; accumulator
// peaks that are local maxima become candidate lines, and the edge pixels
// within two pixels of a candidate give its endpoints. At most 50 lines are
// returned. Color is sampled from img at the segment midpoint.
func DetectLines[T sample.Type](img *imaging.Image[T], minLength int, detectArrows bool) (*LinesResult, error) {
	if minLength < 1 {
		return nil, fmt.Errorf("invalid min_length %d: must be positive", minLength)
	}
	edges, err := EdgeDetect(img, 50, 150)
	if err != nil {
		return nil, err
	}
	width, height := edges.Width(), edges.Height()

	var points []Point
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if edges.Get(x, y, 0) == Edge {
				points = append(points, Point{X: x, Y: y})
			}
		}
	}

	maxRho := int(math.Ceil(math.Hypot(float64(width), float64(height))))
	span := 2*maxRho + 1
	acc := make([]int, span*houghAngles)
	cos, sin := trigTable()

	// each worker owns a band of angles, so accumulator cells never collide
	parallel.Line(houghAngles, func(start, end int) {
		for _, p := range points {
			for t := start; t < end; t++ {
				rho := int(math.Round(float64(p.X)*cos[t]+float64(p.Y)*sin[t])) + maxRho
				acc[rho*houghAngles+t]++
			}
		}
	})

	peaks := findPeaks(acc, span, maxRho, max(minLength/2, 1))

	lines := make([]Line, 0)
	for _, pk := range peaks {
		if len(lines) >= maxLines {
			break
		}
		line, ok := traceLine(img, edges, points, pk, cos[pk.theta], sin[pk.theta], minLength)
		if !ok {
			continue
		}
		if detectArrows {
			line.HasArrowStart = hasArrowHead(edges, line.Start, line.End)
			line.HasArrowEnd = hasArrowHead(edges, line.End, line.Start)
		}
		lines = append(lines, line)
	}

	imaging.Logger().Debug("detect lines", "edge_pixels", len(points), "peaks", len(peaks), "lines", len(lines))
	return &LinesResult{Lines: lines, Count: len(lines)}, nil
}

func trigTable() (cos, sin [houghAngles]float64) {
	for t := 0; t < houghAngles; t++ {
		a := float64(t) * math.Pi / houghAngles
		cos[t], sin[t] = math.Cos(a), math.Sin(a)
	}
	return cos, sin
}

// findPeaks returns accumulator cells with at least minVotes that no cell in
// their neighbourhood beats, sorted by votes then by position.
func findPeaks(acc []int, span, maxRho, minVotes int) []houghPeak {
	var peaks []houghPeak
	for r := 0; r < span; r++ {
		for t := 0; t < houghAngles; t++ {
			v := acc[r*houghAngles+t]
			if v < minVotes || !isLocalMax(acc, span, r, t, v) {
				continue
			}
			peaks = append(peaks, houghPeak{rho: r - maxRho, theta: t, votes: v})
		}
	}
	sort.SliceStable(peaks, func(i, j int) bool { return peaks[i].votes > peaks[j].votes })
	return peaks
}

func isLocalMax(acc []int, span, r, t, v int) bool {
	for dr := -peakWindow; dr <= peakWindow; dr++ {
		nr := r + dr
		if nr < 0 || nr >= span {
			continue
		}
		for dt := -peakWindow; dt <= peakWindow; dt++ {
			nt := (t + dt + houghAngles) % houghAngles
			if acc[nr*houghAngles+nt] > v {
				return false
			}
		}
	}
	return true
}

// traceLine collects the edge pixels near a Hough line and measures the
// segment they span along the line direction.
func traceLine[T sample.Type](img *imaging.Image[T], edges *imaging.Image[uint8], points []Point,
	pk houghPeak, cosA, sinA float64, minLength int) (Line, bool) {
	var on []Point
	for _, p := range points {
		if math.Abs(float64(p.X)*cosA+float64(p.Y)*sinA-float64(pk.rho)) < lineTolerance {
			on = append(on, p)
		}
	}
	if len(on) < minLength {
		return Line{}, false
	}

	// position along the line direction (-sin, cos)
	start, end := on[0], on[0]
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, p := range on {
		d := -float64(p.X)*sinA + float64(p.Y)*cosA
		if d < lo {
			lo, start = d, p
		}
		if d > hi {
			hi, end = d, p
		}
	}
	if start.X > end.X || (start.X == end.X && start.Y > end.Y) {
		start, end = end, start
	}

	dx, dy := float64(end.X-start.X), float64(end.Y-start.Y)
	length := math.Hypot(dx, dy)
	if length < float64(minLength) {
		return Line{}, false
	}

	line := Line{
		Start:           start,
		End:             end,
		Length:          math.Round(length*10) / 10,
		AngleDegrees:    math.Round(math.Atan2(dy, dx)*1800/math.Pi) / 10,
		ThicknessApprox: thickness(edges, start, end, length),
	}
	if c, err := imaging.SampleColor(img, (start.X+end.X)/2, (start.Y+end.Y)/2); err == nil {
		line.Color = c.Hex
	}
	return line, true
}

// thickness counts edge pixels crossed by the perpendicular through the
// segment midpoint. A drawn stroke usually shows as two parallel edges, so
// the count tracks the stroke's footprint rather than its exact width.
func thickness(edges *imaging.Image[uint8], a, b Point, length float64) int {
	if length == 0 {
		return 1
	}
	px := -float64(b.Y-a.Y) / length
	py := float64(b.X-a.X) / length
	mx := float64(a.X+b.X) / 2
	my := float64(a.Y+b.Y) / 2

	n := 0
	for d := -thicknessReach; d <= thicknessReach; d++ {
		if isEdge(edges, int(mx+float64(d)*px), int(my+float64(d)*py)) {
			n++
		}
	}
	return max(n, 1)
}

// hasArrowHead looks for two wings leaving tip at 45 degrees back towards
// tail.
func hasArrowHead(edges *imaging.Image[uint8], tip, tail Point) bool {
	dx := float64(tip.X - tail.X)
	dy := float64(tip.Y - tail.Y)
	length := math.Hypot(dx, dy)
	if length == 0 {
		return false
	}
	dx /= length
	dy /= length

	const s = math.Sqrt2 / 2
	lx, ly := dx*s-dy*s, dx*s+dy*s
	rx, ry := dx*s+dy*s, -dx*s+dy*s

	left, right := 0, 0
	for d := 1; d <= arrowReach; d++ {
		fd := float64(d)
		if isEdge(edges, tip.X-int(fd*lx), tip.Y-int(fd*ly)) {
			left++
		}
		if isEdge(edges, tip.X-int(fd*rx), tip.Y-int(fd*ry)) {
			right++
		}
	}
	return left >= arrowMinWing && right >= arrowMinWing
}

func isEdge(edges *imaging.Image[uint8], x, y int) bool {
	return edges.InBounds(x, y) && edges.Get(x, y, 0) == Edge
}
