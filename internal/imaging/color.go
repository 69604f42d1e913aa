package imaging

import (
	"fmt"
	"sort"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/pixelkit/internal/sample"
)

// Color identifies a channel layout. The set is closed; each value carries a
// fixed name, channel count and alpha flag.
type Color uint8

const (
	Gray Color = iota
	RGB
	BGR
	// RGBPacked stores 8-bit red, green and blue packed into a single
	// 24-bit normalized sample.
	RGBPacked
	RGBA
	BGRA
	CMYK
	YUV

	colorCount
)

type colorInfo struct {
	name     string
	channels int
	alpha    bool
}

var colorTable = [colorCount]colorInfo{
	Gray:      {name: "gray", channels: 1},
	RGB:       {name: "rgb", channels: 3},
	BGR:       {name: "bgr", channels: 3},
	RGBPacked: {name: "rgb_packed", channels: 1},
	RGBA:      {name: "rgba", channels: 4, alpha: true},
	BGRA:      {name: "bgra", channels: 4, alpha: true},
	CMYK:      {name: "cmyk", channels: 4},
	YUV:       {name: "yuv", channels: 3},
}

// Name returns the layout name used in messages and tool arguments.
func (c Color) Name() string {
	if c >= colorCount {
		return fmt.Sprintf("color(%d)", c)
	}
	return colorTable[c].name
}

func (c Color) String() string { return c.Name() }

// Channels returns the number of samples per pixel.
func (c Color) Channels() int {
	if c >= colorCount {
		return 0
	}
	return colorTable[c].channels
}

// HasAlpha reports whether the last channel is alpha.
func (c Color) HasAlpha() bool {
	return c < colorCount && colorTable[c].alpha
}

// ParseColor looks up a layout by name.
func ParseColor(name string) (Color, error) {
	for c := Color(0); c < colorCount; c++ {
		if colorTable[c].name == name {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown color layout: %s", name)
}

// Colors lists every supported layout.
func Colors() []Color {
	out := make([]Color, 0, colorCount)
	for c := Color(0); c < colorCount; c++ {
		out = append(out, c)
	}
	return out
}

// RGBColor represents an RGB color with 8-bit components.
type RGBColor struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// HSLColor represents a color in HSL space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees
	S int `json:"s"` // Saturation: 0-100 percent
	L int `json:"l"` // Lightness: 0-100 percent
}

// ColorResult contains one pixel in several representations.
//
// Normalized holds the raw channel values of the image's own layout;
// the other fields are derived from the pixel's RGBA rendering.
type ColorResult struct {
	Layout     string    `json:"layout"`
	Normalized []float64 `json:"normalized"`
	Hex        string    `json:"hex"`
	RGB        RGBColor  `json:"rgb"`
	Alpha      float64   `json:"alpha"`
	HSL        HSLColor  `json:"hsl"`
}

// SampleColor reads the pixel at (x, y).
//
// Returns an error if the coordinates fall outside the image. The sample
// is reported in the image's own layout plus RGB, hex and HSL renderings.
func SampleColor[T sample.Type](img *Image[T], x, y int) (*ColorResult, error) {
	if !img.InBounds(x, y) {
		return nil, fmt.Errorf("coordinates (%d,%d) outside image bounds", x, y)
	}

	norm := make([]float64, img.Channels())
	for c := range norm {
		norm[c] = img.GetF(x, y, c)
	}
	r, g, b, a := toRGBA(img.Color(), norm)

	cf := colorful.Color{R: r, G: g, B: b}
	h, s, l := cf.Hsl()
	r8, g8, b8 := cf.RGB255()

	return &ColorResult{
		Layout:     img.Color().Name(),
		Normalized: norm,
		Hex:        cf.Hex(),
		RGB:        RGBColor{R: r8, G: g8, B: b8},
		Alpha:      a,
		HSL:        HSLColor{H: int(h), S: int(s * 100), L: int(l * 100)},
	}, nil
}

// ColorFrequency represents a quantized color and how often it occurs.
type ColorFrequency struct {
	Hex        string   `json:"hex"`
	Percentage float64  `json:"percentage"`
	RGB        RGBColor `json:"rgb"`
}

// DominantColors returns the count most common colors in img.
//
// Colors are quantized to 16 levels per channel before counting, so near
// identical shades are grouped. Results are sorted by frequency, most common
// first; ties are broken by hex value for a stable order.
func DominantColors[T sample.Type](img *Image[T], count int) []ColorFrequency {
	counts := make(map[RGBColor]int)
	norm := make([]float64, img.Channels())
	total := 0

	for y := 0; y < img.Height(); y++ {
		for x := 0; x < img.Width(); x++ {
			for c := range norm {
				norm[c] = img.GetF(x, y, c)
			}
			r, g, b, _ := toRGBA(img.Color(), norm)
			r8, g8, b8 := colorful.Color{R: r, G: g, B: b}.Clamped().RGB255()
			counts[RGBColor{R: r8 / 16 * 16, G: g8 / 16 * 16, B: b8 / 16 * 16}]++
			total++
		}
	}

	colors := make([]ColorFrequency, 0, len(counts))
	for rgb, n := range counts {
		colors = append(colors, ColorFrequency{
			Hex:        fmt.Sprintf("#%02x%02x%02x", rgb.R, rgb.G, rgb.B),
			Percentage: float64(n) / float64(total) * 100,
			RGB:        rgb,
		})
	}

	sort.Slice(colors, func(i, j int) bool {
		if colors[i].Percentage != colors[j].Percentage {
			return colors[i].Percentage > colors[j].Percentage
		}
		return colors[i].Hex < colors[j].Hex
	})

	if len(colors) > count {
		colors = colors[:count]
	}
	return colors
}
