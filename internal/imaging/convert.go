package imaging

import (
	"fmt"
	"math"

	"github.com/ironsheep/pixelkit/internal/sample"
)

// packedBits is the sample precision RGBPacked needs to hold 24 bits of RGB.
const packedBits = 24

// CheckLayout reports whether samples of type T can hold layout c without
// loss. Only RGBPacked has a requirement: its single channel carries a 24-bit
// value, which u8, u16 and f16 samples would truncate.
func CheckLayout[T sample.Type](c Color) error {
	if c != RGBPacked {
		return nil
	}
	if p := sample.KindOf[T]().Precision(); p < packedBits {
		return fmt.Errorf("%w: %s needs %d bits of sample precision, %s has %d",
			ErrConvert, c.Name(), packedBits, sample.NameOf[T](), p)
	}
	return nil
}

// ConvertType re-expresses every sample of img in domain U. The layout and
// shape are unchanged. It never fails; an RGBPacked image moved to a domain
// CheckLayout rejects loses the low bits of each packed value.
func ConvertType[U, T sample.Type](img *Image[T]) *Image[U] {
	out := New[U](img.width, img.height, img.color)
	for i, v := range img.data {
		out.data[i] = sample.Convert[U](v)
	}
	return out
}

// ConvertColor returns a copy of img in layout to.
//
// Pixels pass through a normalized RGBA value. Gray is Rec.601 luma, YUV is
// full-range BT.601 with chroma centred on 0.5, CMYK uses the naive
// complement model. Alpha survives when both layouts carry it; otherwise it
// is dropped, or set opaque when only the target has it.
func ConvertColor[T sample.Type](img *Image[T], to Color) (*Image[T], error) {
	if to >= colorCount {
		return nil, fmt.Errorf("%w: unknown layout %d", ErrConvert, to)
	}
	if err := CheckLayout[T](to); err != nil {
		return nil, err
	}
	if err := CheckLayout[T](img.color); err != nil {
		return nil, err
	}
	if to == img.color {
		return img.Clone(), nil
	}

	out := New[T](img.width, img.height, to)
	src := make([]float64, img.channels)
	dst := make([]float64, out.channels)
	for y := 0; y < img.height; y++ {
		for x := 0; x < img.width; x++ {
			si := img.Index(x, y)
			for c := range src {
				src[c] = sample.ToNorm(img.data[si+c])
			}
			r, g, b, a := toRGBA(img.color, src)
			fromRGBA(to, r, g, b, a, dst)
			di := out.Index(x, y)
			for c, v := range dst {
				out.data[di+c] = sample.FromNorm[T](v)
			}
		}
	}
	return out, nil
}

// Convert changes both the sample domain and the layout of img. Packing
// happens after the domain change, so a narrow source can be packed into a
// wide U.
func Convert[U, T sample.Type](img *Image[T], to Color) (*Image[U], error) {
	if err := CheckLayout[U](to); err != nil {
		return nil, err
	}
	if to == RGBPacked {
		return ConvertColor(ConvertType[U](img), to)
	}
	recolored, err := ConvertColor(img, to)
	if err != nil {
		return nil, err
	}
	return ConvertType[U](recolored), nil
}

// Luma returns the Rec.601 luma of an RGB triple.
func Luma(r, g, b float64) float64 {
	return 0.299*r + 0.587*g + 0.114*b
}

func toRGBA(c Color, p []float64) (r, g, b, a float64) {
	a = 1
	switch c {
	case Gray:
		r, g, b = p[0], p[0], p[0]
	case RGB:
		r, g, b = p[0], p[1], p[2]
	case BGR:
		r, g, b = p[2], p[1], p[0]
	case RGBA:
		r, g, b, a = p[0], p[1], p[2], p[3]
	case BGRA:
		r, g, b, a = p[2], p[1], p[0], p[3]
	case RGBPacked:
		packed := uint32(math.Round(sample.Clamp(p[0]) * 0xFFFFFF))
		r = float64(packed>>16&0xFF) / 255
		g = float64(packed>>8&0xFF) / 255
		b = float64(packed&0xFF) / 255
	case CMYK:
		k := 1 - p[3]
		r = (1 - p[0]) * k
		g = (1 - p[1]) * k
		b = (1 - p[2]) * k
	case YUV:
		yy, u, v := p[0], p[1]-0.5, p[2]-0.5
		r = yy + 1.402*v
		g = yy - 0.344136*u - 0.714136*v
		b = yy + 1.772*u
	}
	return sample.Clamp(r), sample.Clamp(g), sample.Clamp(b), sample.Clamp(a)
}

func fromRGBA(c Color, r, g, b, a float64, out []float64) {
	switch c {
	case Gray:
		out[0] = Luma(r, g, b)
	case RGB:
		out[0], out[1], out[2] = r, g, b
	case BGR:
		out[0], out[1], out[2] = b, g, r
	case RGBA:
		out[0], out[1], out[2], out[3] = r, g, b, a
	case BGRA:
		out[0], out[1], out[2], out[3] = b, g, r, a
	case RGBPacked:
		packed := uint32(math.Round(r*255))<<16 | uint32(math.Round(g*255))<<8 | uint32(math.Round(b*255))
		out[0] = float64(packed) / 0xFFFFFF
	case CMYK:
		k := 1 - max(r, g, b)
		if k >= 1 {
			out[0], out[1], out[2], out[3] = 0, 0, 0, 1
			return
		}
		out[0] = (1 - r - k) / (1 - k)
		out[1] = (1 - g - k) / (1 - k)
		out[2] = (1 - b - k) / (1 - k)
		out[3] = k
	case YUV:
		yy := Luma(r, g, b)
		out[0] = yy
		out[1] = (b-yy)*0.564334 + 0.5
		out[2] = (r-yy)*0.713267 + 0.5
	}
}
