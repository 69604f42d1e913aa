package imaging

import (
	"fmt"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/pixelkit/internal/sample"
)

// Crop copies region r of img into a new image. Samples are copied exactly.
func Crop[T sample.Type](img *Image[T], r Region) (*Image[T], error) {
	if err := checkRegion(img, r); err != nil {
		return nil, fmt.Errorf("crop: %w", err)
	}
	out := New[T](r.X2-r.X1, r.Y2-r.Y1, img.color)
	rowLen := out.width * img.channels
	for y := 0; y < out.height; y++ {
		src := img.Index(r.X1, r.Y1+y)
		copy(out.data[y*rowLen:(y+1)*rowLen], img.data[src:src+rowLen])
	}
	return out, nil
}

// CropQuadrant extracts a named region: top-left, top-right, bottom-left,
// bottom-right, top-half, bottom-half, left-half, right-half or center (the
// middle 50% on each axis).
func CropQuadrant[T sample.Type](img *Image[T], name string) (*Image[T], error) {
	w, h := img.width, img.height
	midX, midY := w/2, h/2

	var r Region
	switch name {
	case "top-left":
		r = Region{0, 0, midX, midY}
	case "top-right":
		r = Region{midX, 0, w, midY}
	case "bottom-left":
		r = Region{0, midY, midX, h}
	case "bottom-right":
		r = Region{midX, midY, w, h}
	case "top-half":
		r = Region{0, 0, w, midY}
	case "bottom-half":
		r = Region{0, midY, w, h}
	case "left-half":
		r = Region{0, 0, midX, h}
	case "right-half":
		r = Region{midX, 0, w, h}
	case "center":
		qW, qH := w/4, h/4
		r = Region{qW, qH, w - qW, h - qH}
	default:
		return nil, fmt.Errorf("unknown region: %s", name)
	}
	return Crop(img, r)
}

// Resize scales img to width x height with Lanczos resampling. A zero width
// or height keeps the aspect ratio. Resampling works on an 8-bit NRGBA
// rendering, so wider sample types lose precision.
func Resize[T sample.Type](img *Image[T], width, height int) (*Image[T], error) {
	if width < 0 || height < 0 || (width == 0 && height == 0) {
		return nil, fmt.Errorf("invalid resize target %dx%d", width, height)
	}
	Logger().Debug("resize", "from_w", img.width, "from_h", img.height, "to_w", width, "to_h", height)
	resized := imaging.Resize(img.ToStd(), width, height, imaging.Lanczos)
	return FromStd[T](resized, img.color), nil
}

// Scale resizes img by a factor, keeping at least one pixel per axis.
func Scale[T sample.Type](img *Image[T], factor float64) (*Image[T], error) {
	if factor <= 0 {
		return nil, fmt.Errorf("invalid scale factor %v", factor)
	}
	if factor == 1 {
		return img.Clone(), nil
	}
	w := max(1, int(float64(img.width)*factor))
	h := max(1, int(float64(img.height)*factor))
	return Resize(img, w, h)
}
