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
	minContour     = 10  // contours with fewer edge pixels are noise
	borderBand     = 2   // contour pixels this close to the bounding box count as on it
	circleVoteFrac = 0.6 // fraction of the circumference that must vote
	circlePeak     = 5
)

// Bounds is a bounding box in pixel coordinates. (X1, Y1) is the top-left
// corner and (X2, Y2) the bottom-right one.
type Bounds struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// Rectangle is a detected axis-aligned box.
type Rectangle struct {
	Bounds Bounds `json:"bounds"`
	Center Point  `json:"center"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Area   int    `json:"area"`

	// FillColor is sampled at the centre, BorderColor at the top-left corner.
	FillColor   string `json:"fill_color,omitempty"`
	BorderColor string `json:"border_color,omitempty"`

	// Confidence is how rectangular the contour is, 0 to 1.
	Confidence float64 `json:"confidence"`
}

// RectanglesResult lists detected rectangles, largest first.
type RectanglesResult struct {
	Rectangles []Rectangle `json:"rectangles"`
	Count      int         `json:"count"`
}

// DetectRectangles finds axis-aligned rectangular outlines whose bounding
// box covers at least minArea pixels.
//
// Edges come from EdgeDetect with thresholds 50/150 and are grouped into
// 8-connected contours. A contour scores well when its pixels hug its own
// bounding box and together trace most of that box's perimeter:
//
//	confidence = (pixels within 2 of the box / pixels) * (perimeter covered / perimeter)
//
// The score does not depend on edge thickness, so filled boxes (whose Canny
// edges may be two pixels wide) and thin outlines both score near 1, while
// circles and diagonal strokes score low. Contours below tolerance are
// dropped.
//
// Outlines produce an edge ring on each side of the stroke, so a drawn frame
// may be reported twice, once inside the other.
func DetectRectangles[T sample.Type](img *imaging.Image[T], minArea int, tolerance float64) (*RectanglesResult, error) {
	if minArea < 0 {
		return nil, fmt.Errorf("invalid min_area %d: must not be negative", minArea)
	}
	if tolerance < 0 || tolerance > 1 {
		return nil, fmt.Errorf("invalid tolerance %g: must be between 0 and 1", tolerance)
	}
	edges, err := EdgeDetect(img, 50, 150)
	if err != nil {
		return nil, err
	}

	contours := findContours(edges)
	rectangles := make([]Rectangle, 0)
	for _, contour := range contours {
		b := contourBounds(contour)
		w, h := b.X2-b.X1, b.Y2-b.Y1
		// a lone straight edge has a box thinner than the border band
		if w*h < minArea || w <= 2*borderBand || h <= 2*borderBand {
			continue
		}
		score := rectangularity(contour, b)
		if score < tolerance {
			continue
		}

		r := Rectangle{
			Bounds:     b,
			Center:     Point{X: (b.X1 + b.X2) / 2, Y: (b.Y1 + b.Y2) / 2},
			Width:      w,
			Height:     h,
			Area:       w * h,
			Confidence: math.Round(score*1000) / 1000,
		}
		if c, err := imaging.SampleColor(img, r.Center.X, r.Center.Y); err == nil {
			r.FillColor = c.Hex
		}
		if c, err := imaging.SampleColor(img, b.X1, b.Y1); err == nil {
			r.BorderColor = c.Hex
		}
		rectangles = append(rectangles, r)
	}

	sort.SliceStable(rectangles, func(i, j int) bool {
		return rectangles[i].Area > rectangles[j].Area
	})

	imaging.Logger().Debug("detect rectangles", "contours", len(contours), "rectangles", len(rectangles))
	return &RectanglesResult{Rectangles: rectangles, Count: len(rectangles)}, nil
}

// findContours groups edge pixels into 8-connected components, dropping
// those smaller than minContour.
func findContours(edges *imaging.Image[uint8]) [][]Point {
	width, height := edges.Width(), edges.Height()
	visited := make([]bool, width*height)
	var contours [][]Point

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if visited[y*width+x] || !isEdge(edges, x, y) {
				continue
			}
			contour := floodFill(edges, visited, x, y)
			if len(contour) >= minContour {
				contours = append(contours, contour)
			}
		}
	}
	return contours
}

func floodFill(edges *imaging.Image[uint8], visited []bool, startX, startY int) []Point {
	width := edges.Width()
	var contour []Point
	stack := []Point{{X: startX, Y: startY}}
	visited[startY*width+startX] = true

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		contour = append(contour, p)

		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				nx, ny := p.X+dx, p.Y+dy
				if !isEdge(edges, nx, ny) || visited[ny*width+nx] {
					continue
				}
				visited[ny*width+nx] = true
				stack = append(stack, Point{X: nx, Y: ny})
			}
		}
	}
	return contour
}

func contourBounds(contour []Point) Bounds {
	b := Bounds{X1: contour[0].X, Y1: contour[0].Y, X2: contour[0].X, Y2: contour[0].Y}
	for _, p := range contour[1:] {
		b.X1 = min(b.X1, p.X)
		b.Y1 = min(b.Y1, p.Y)
		b.X2 = max(b.X2, p.X)
		b.Y2 = max(b.Y2, p.Y)
	}
	return b
}

// rectangularity scores how closely contour traces the border of b.
func rectangularity(contour []Point, b Bounds) float64 {
	w, h := b.X2-b.X1+1, b.Y2-b.Y1+1
	top, bottom := make([]bool, w), make([]bool, w)
	left, right := make([]bool, h), make([]bool, h)

	onBorder := 0
	for _, p := range contour {
		x, y := p.X-b.X1, p.Y-b.Y1
		hit := false
		if y <= borderBand {
			top[x], hit = true, true
		}
		if b.Y2-p.Y <= borderBand {
			bottom[x], hit = true, true
		}
		if x <= borderBand {
			left[y], hit = true, true
		}
		if b.X2-p.X <= borderBand {
			right[y], hit = true, true
		}
		if hit {
			onBorder++
		}
	}

	covered := 0
	for _, side := range [][]bool{top, bottom, left, right} {
		for _, v := range side {
			if v {
				covered++
			}
		}
	}

	fit := float64(onBorder) / float64(len(contour))
	coverage := float64(covered) / float64(2*(w+h))
	return fit * coverage
}

// Circle is a detected circle.
type Circle struct {
	Center     Point   `json:"center"`
	Radius     int     `json:"radius"`
	Diameter   int     `json:"diameter"`
	FillColor  string  `json:"fill_color,omitempty"`
	Confidence float64 `json:"confidence"`
}

// CirclesResult lists detected circles, most confident first.
type CirclesResult struct {
	Circles []Circle `json:"circles"`
	Count   int      `json:"count"`
}

// DetectCircles finds circles with radius in [minRadius, maxRadius] using a
// Hough circle transform over the EdgeDetect map (thresholds 50/150).
//
// For each radius, every pixel on or next to an edge votes for the centres
// that would put it on a circle of that radius: an edge pixel casts two
// votes and an edge neighbour one, so rings a pixel off still register while
// exact fits win. Confidence is the vote total over twice the number of
// points on the digital circle; centres reaching 0.6 that are local maxima
// within 5 pixels become candidates. Candidates are taken strongest first
// and any whose centre lies closer to a kept circle than their mean radius
// is dropped.
//
// Radii are evaluated in parallel. Cost grows with the radius range times
// the radius, so narrow ranges are much faster.
func DetectCircles[T sample.Type](img *imaging.Image[T], minRadius, maxRadius int) (*CirclesResult, error) {
	if minRadius < 1 || maxRadius < minRadius {
		return nil, fmt.Errorf("invalid radius range [%d, %d]: need 1 <= min_radius <= max_radius",
			minRadius, maxRadius)
	}
	edges, err := EdgeDetect(img, 50, 150)
	if err != nil {
		return nil, err
	}
	width, height := edges.Width(), edges.Height()
	maxRadius = min(maxRadius, (min(width, height)-1)/2)
	if maxRadius < minRadius {
		return &CirclesResult{Circles: make([]Circle, 0)}, nil
	}

	voters := circleVoters(edges)
	perRadius := make([][]Circle, maxRadius-minRadius+1)

	parallel.Line(len(perRadius), func(start, end int) {
		acc := make([]int, width*height)
		for i := start; i < end; i++ {
			clear(acc)
			perRadius[i] = houghCircles(acc, width, height, minRadius+i, voters)
		}
	})

	var candidates []Circle
	for _, cs := range perRadius {
		candidates = append(candidates, cs...)
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		return a.Radius > b.Radius
	})
	circles := filterDuplicateCircles(candidates)

	for i := range circles {
		if c, err := imaging.SampleColor(img, circles[i].Center.X, circles[i].Center.Y); err == nil {
			circles[i].FillColor = c.Hex
		}
	}

	imaging.Logger().Debug("detect circles", "voters", len(voters), "candidates", len(candidates), "circles", len(circles))
	return &CirclesResult{Circles: circles, Count: len(circles)}, nil
}

type voter struct {
	Point
	weight int
}

// circleVoters returns edge pixels with weight 2 and their non-edge
// 8-neighbours with weight 1.
func circleVoters(edges *imaging.Image[uint8]) []voter {
	var voters []voter
	for y := 0; y < edges.Height(); y++ {
		for x := 0; x < edges.Width(); x++ {
			switch {
			case isEdge(edges, x, y):
				voters = append(voters, voter{Point{X: x, Y: y}, 2})
			case nextToEdge(edges, x, y):
				voters = append(voters, voter{Point{X: x, Y: y}, 1})
			}
		}
	}
	return voters
}

func nextToEdge(edges *imaging.Image[uint8], x, y int) bool {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if isEdge(edges, x+dx, y+dy) {
				return true
			}
		}
	}
	return false
}

// circleOffsets returns the integer offsets whose distance from the origin
// rounds to r.
func circleOffsets(r int) []Point {
	var offs []Point
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if math.Abs(math.Hypot(float64(dx), float64(dy))-float64(r)) < 0.5 {
				offs = append(offs, Point{X: dx, Y: dy})
			}
		}
	}
	return offs
}

func houghCircles(acc []int, width, height, radius int, voters []voter) []Circle {
	offs := circleOffsets(radius)
	for _, v := range voters {
		for _, o := range offs {
			cx, cy := v.X-o.X, v.Y-o.Y
			if cx >= 0 && cx < width && cy >= 0 && cy < height {
				acc[cy*width+cx] += v.weight
			}
		}
	}

	full := float64(2 * len(offs))
	threshold := int(math.Ceil(full * circleVoteFrac))
	var circles []Circle
	for y := radius; y < height-radius; y++ {
		for x := radius; x < width-radius; x++ {
			votes := acc[y*width+x]
			if votes < threshold || !isCirclePeak(acc, width, height, x, y, votes) {
				continue
			}
			circles = append(circles, Circle{
				Center:     Point{X: x, Y: y},
				Radius:     radius,
				Diameter:   2 * radius,
				Confidence: math.Round(math.Min(float64(votes)/full, 1)*1000) / 1000,
			})
		}
	}
	return circles
}

func isCirclePeak(acc []int, width, height, x, y, votes int) bool {
	for dy := -circlePeak; dy <= circlePeak; dy++ {
		for dx := -circlePeak; dx <= circlePeak; dx++ {
			nx, ny := x+dx, y+dy
			if nx >= 0 && nx < width && ny >= 0 && ny < height && acc[ny*width+nx] > votes {
				return false
			}
		}
	}
	return true
}

// filterDuplicateCircles keeps circles in order, skipping any whose centre
// is closer to an already kept circle than their mean radius.
func filterDuplicateCircles(circles []Circle) []Circle {
	kept := make([]Circle, 0, len(circles))
	for _, c := range circles {
		dup := false
		for _, k := range kept {
			dist := math.Hypot(float64(c.Center.X-k.Center.X), float64(c.Center.Y-k.Center.Y))
			if dist < float64(c.Radius+k.Radius)/2 {
				dup = true
				break
			}
		}
		if !dup {
			kept = append(kept, c)
		}
	}
	return kept
}
