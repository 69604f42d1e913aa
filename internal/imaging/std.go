package imaging

import (
	"image"
	"image/color"

	"github.com/ironsheep/pixelkit/internal/sample"
)

// FromStd copies a standard library image into an Image of layout c.
//
// Pixels are read through color.NRGBA64Model so premultiplied sources are
// un-premultiplied and every source depth keeps its full precision. Gray
// sources going to Gray skip the RGB detour. Callers building RGBPacked
// images check CheckLayout first.
func FromStd[T sample.Type](src image.Image, c Color) *Image[T] {
	b := src.Bounds()
	out := New[T](b.Dx(), b.Dy(), c)

	if c == Gray {
		if g, ok := grayReader(src); ok {
			for y := 0; y < out.height; y++ {
				for x := 0; x < out.width; x++ {
					out.data[out.Index(x, y)] = sample.FromNorm[T](g(b.Min.X+x, b.Min.Y+y))
				}
			}
			return out
		}
	}

	dst := make([]float64, out.channels)
	for y := 0; y < out.height; y++ {
		for x := 0; x < out.width; x++ {
			px := color.NRGBA64Model.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA64)
			fromRGBA(c,
				float64(px.R)/0xFFFF, float64(px.G)/0xFFFF,
				float64(px.B)/0xFFFF, float64(px.A)/0xFFFF, dst)
			i := out.Index(x, y)
			for ch, v := range dst {
				out.data[i+ch] = sample.FromNorm[T](v)
			}
		}
	}
	return out
}

func grayReader(src image.Image) (func(x, y int) float64, bool) {
	switch g := src.(type) {
	case *image.Gray:
		return func(x, y int) float64 { return float64(g.GrayAt(x, y).Y) / 0xFF }, true
	case *image.Gray16:
		return func(x, y int) float64 { return float64(g.Gray16At(x, y).Y) / 0xFFFF }, true
	}
	return nil, false
}

// ToStd renders img as a standard library image.
//
// 8-bit images become *image.Gray or *image.NRGBA; wider domains become
// *image.Gray16 or *image.NRGBA64 so no precision is lost on the way to an
// encoder that supports 16 bits.
func (img *Image[T]) ToStd() image.Image {
	rect := image.Rect(0, 0, img.width, img.height)
	wide := img.Kind() != sample.U8
	norm := make([]float64, img.channels)

	if img.color == Gray {
		if wide {
			out := image.NewGray16(rect)
			for y := 0; y < img.height; y++ {
				for x := 0; x < img.width; x++ {
					out.SetGray16(x, y, color.Gray16{Y: sample.FromNorm[uint16](img.GetF(x, y, 0))})
				}
			}
			return out
		}
		out := image.NewGray(rect)
		for y := 0; y < img.height; y++ {
			for x := 0; x < img.width; x++ {
				out.SetGray(x, y, color.Gray{Y: sample.FromNorm[uint8](img.GetF(x, y, 0))})
			}
		}
		return out
	}

	var out64 *image.NRGBA64
	var out8 *image.NRGBA
	if wide {
		out64 = image.NewNRGBA64(rect)
	} else {
		out8 = image.NewNRGBA(rect)
	}
	for y := 0; y < img.height; y++ {
		for x := 0; x < img.width; x++ {
			i := img.Index(x, y)
			for c := range norm {
				norm[c] = sample.ToNorm(img.data[i+c])
			}
			r, g, b, a := toRGBA(img.color, norm)
			if wide {
				out64.SetNRGBA64(x, y, color.NRGBA64{
					R: sample.FromNorm[uint16](r), G: sample.FromNorm[uint16](g),
					B: sample.FromNorm[uint16](b), A: sample.FromNorm[uint16](a),
				})
			} else {
				out8.SetNRGBA(x, y, color.NRGBA{
					R: sample.FromNorm[uint8](r), G: sample.FromNorm[uint8](g),
					B: sample.FromNorm[uint8](b), A: sample.FromNorm[uint8](a),
				})
			}
		}
	}
	if wide {
		return out64
	}
	return out8
}
