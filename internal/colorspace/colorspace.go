// Package colorspace converts image pixels between named color spaces.
//
// A Manager produces Transforms between pairs of spaces. The Colorful
// manager is backed by github.com/lucasb-eyer/go-colorful and knows srgb,
// linear, hsv, hsl, lab, luv, hcl and xyz. Images keep samples in [0,1], so
// each space is stored in a normalized form:
//
//	srgb, linear    r, g, b as is
//	hsv, hsl        h/360, s, v|l
//	lab, luv        l, (a+2)/4, (b+2)/4
//	hcl             h/360, c/1.5, l
//	xyz             x/0.95047, y, z/1.08883   (D65 white maps to 1, 1, 1)
//
// Convert applies a Transform to the first three channels of an RGB or RGBA
// image. Alpha is copied.
package colorspace

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/pixelkit/internal/imaging"
	"github.com/ironsheep/pixelkit/internal/sample"
)

// Transform maps one normalized pixel between two spaces.
type Transform func(px [3]float64) [3]float64

// Manager looks up transforms by space name.
type Manager interface {
	Transform(from, to string) (Transform, error)
}

type space struct {
	to   func(colorful.Color) [3]float64
	from func([3]float64) colorful.Color
}

const (
	hclChromaMax = 1.5
	whiteX       = 0.95047
	whiteZ       = 1.08883
)

var spaces = map[string]space{
	"srgb": {
		to:   func(c colorful.Color) [3]float64 { return [3]float64{c.R, c.G, c.B} },
		from: func(v [3]float64) colorful.Color { return colorful.Color{R: v[0], G: v[1], B: v[2]} },
	},
	"linear": {
		to: func(c colorful.Color) [3]float64 {
			r, g, b := c.LinearRgb()
			return [3]float64{r, g, b}
		},
		from: func(v [3]float64) colorful.Color { return colorful.LinearRgb(v[0], v[1], v[2]) },
	},
	"hsv": {
		to: func(c colorful.Color) [3]float64 {
			h, s, v := c.Hsv()
			return [3]float64{h / 360, s, v}
		},
		from: func(v [3]float64) colorful.Color { return colorful.Hsv(v[0]*360, v[1], v[2]) },
	},
	"hsl": {
		to: func(c colorful.Color) [3]float64 {
			h, s, l := c.Hsl()
			return [3]float64{h / 360, s, l}
		},
		from: func(v [3]float64) colorful.Color { return colorful.Hsl(v[0]*360, v[1], v[2]) },
	},
	"lab": {
		to: func(c colorful.Color) [3]float64 {
			l, a, b := c.Lab()
			return [3]float64{l, unitFromAxis(a), unitFromAxis(b)}
		},
		from: func(v [3]float64) colorful.Color { return colorful.Lab(v[0], axisFromUnit(v[1]), axisFromUnit(v[2])) },
	},
	"luv": {
		to: func(c colorful.Color) [3]float64 {
			l, u, v := c.Luv()
			return [3]float64{l, unitFromAxis(u), unitFromAxis(v)}
		},
		from: func(v [3]float64) colorful.Color { return colorful.Luv(v[0], axisFromUnit(v[1]), axisFromUnit(v[2])) },
	},
	"hcl": {
		to: func(c colorful.Color) [3]float64 {
			h, ch, l := c.Hcl()
			return [3]float64{h / 360, ch / hclChromaMax, l}
		},
		from: func(v [3]float64) colorful.Color { return colorful.Hcl(v[0]*360, v[1]*hclChromaMax, v[2]) },
	},
	"xyz": {
		to: func(c colorful.Color) [3]float64 {
			x, y, z := c.Xyz()
			return [3]float64{x / whiteX, y, z / whiteZ}
		},
		from: func(v [3]float64) colorful.Color { return colorful.Xyz(v[0]*whiteX, v[1], v[2]*whiteZ) },
	},
}

// Opponent axes of lab and luv stay within [-2, 2] for every sRGB color.
func unitFromAxis(v float64) float64 { return (v + 2) / 4 }
func axisFromUnit(v float64) float64 { return v*4 - 2 }

// Colorful is the go-colorful backed Manager.
type Colorful struct{}

// Default is the manager used when none is given.
var Default Manager = Colorful{}

// Spaces lists the known space names in sorted order.
func (Colorful) Spaces() []string {
	names := make([]string, 0, len(spaces))
	for name := range spaces {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Transform returns the conversion from one named space to another.
// Converting a space to itself is the identity.
func (Colorful) Transform(from, to string) (Transform, error) {
	src, ok := spaces[strings.ToLower(from)]
	if !ok {
		return nil, fmt.Errorf("%w: unknown color space %q", imaging.ErrConvert, from)
	}
	dst, ok := spaces[strings.ToLower(to)]
	if !ok {
		return nil, fmt.Errorf("%w: unknown color space %q", imaging.ErrConvert, to)
	}
	if strings.EqualFold(from, to) {
		return func(px [3]float64) [3]float64 { return px }, nil
	}
	return func(px [3]float64) [3]float64 {
		return dst.to(src.from(px))
	}, nil
}

// Convert returns a copy of img with its color channels moved from space
// from to space to.
func Convert[T sample.Type](m Manager, img *imaging.Image[T], from, to string) (*imaging.Image[T], error) {
	if c := img.Color(); c != imaging.RGB && c != imaging.RGBA {
		return nil, fmt.Errorf("%w: color space conversion needs rgb or rgba, got %s", imaging.ErrConvert, c)
	}
	if m == nil {
		m = Default
	}
	tr, err := m.Transform(from, to)
	if err != nil {
		return nil, err
	}

	out := img.NewLike()
	w, h := img.Width(), img.Height()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			px := tr([3]float64{img.GetF(x, y, 0), img.GetF(x, y, 1), img.GetF(x, y, 2)})
			for c, v := range px {
				out.SetF(x, y, c, v)
			}
			if img.HasAlpha() {
				out.Set(x, y, 3, img.Get(x, y, 3))
			}
		}
	}
	imaging.Logger().Debug("colorspace convert", "from", from, "to", to, "image", img.String())
	return out, nil
}
