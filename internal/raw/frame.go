// Package raw decodes camera sensor dumps into imaging.Image values.
//
// A Decoder turns a file into a Frame: plain sensor samples with a width,
// height and components-per-pixel count, stored either as 16-bit integers or
// as 32-bit floats. Frame.ToImage reinterprets the samples as an
// Image[uint16] or Image[float32] of the matching layout and converts that
// image to the requested sample type and layout.
//
// Decoders are looked up by file extension in a registry. A 16-bit TIFF
// decoder and a headerless binary decoder are provided.
package raw

import (
	"fmt"

	"github.com/ironsheep/pixelkit/internal/imaging"
	"github.com/ironsheep/pixelkit/internal/sample"
)

// Frame is a decoded sensor image. Exactly one of Ints and Floats is set.
type Frame struct {
	Width  int
	Height int
	// CPP is the number of components per pixel: 1 for mosaiced or
	// monochrome data, 3 for demosaiced RGB.
	CPP    int
	Ints   []uint16
	Floats []float32
}

// IsFloat reports whether the frame carries float samples.
func (f *Frame) IsFloat() bool { return f.Floats != nil }

// Layout returns the natural layout of the frame: Gray for one component
// per pixel and RGB otherwise.
func (f *Frame) Layout() imaging.Color {
	if f.CPP == 1 {
		return imaging.Gray
	}
	return imaging.RGB
}

func (f *Frame) validate() error {
	if f.CPP != 1 && f.CPP != 3 {
		return fmt.Errorf("%w: unsupported components per pixel: %d", imaging.ErrConvert, f.CPP)
	}
	if (f.Ints == nil) == (f.Floats == nil) {
		return fmt.Errorf("%w: frame must carry either integer or float samples", imaging.ErrConvert)
	}
	return nil
}

// ToGray converts a single-component frame to a Gray image. ok is false
// when the frame has more than one component per pixel.
func ToGray[T sample.Type](f *Frame) (img *imaging.Image[T], ok bool, err error) {
	if f.CPP != 1 {
		return nil, false, nil
	}
	img, err = natural[T](f)
	return img, err == nil, err
}

// ToRGB converts a three-component frame to an RGB image. ok is false when
// the frame has a single component per pixel.
func ToRGB[T sample.Type](f *Frame) (img *imaging.Image[T], ok bool, err error) {
	if f.CPP == 1 {
		return nil, false, nil
	}
	img, err = natural[T](f)
	return img, err == nil, err
}

// ToImage converts the frame to sample type T and layout c.
func ToImage[T sample.Type](f *Frame, c imaging.Color) (*imaging.Image[T], error) {
	img, err := natural[T](f)
	if err != nil {
		return nil, err
	}
	if c == img.Color() {
		return img, nil
	}
	return imaging.ConvertColor(img, c)
}

// natural wraps the frame's samples in an image of their own type and
// layout, then converts the sample type.
func natural[T sample.Type](f *Frame) (*imaging.Image[T], error) {
	if err := f.validate(); err != nil {
		return nil, err
	}
	if f.IsFloat() {
		src, err := imaging.FromData(f.Width, f.Height, f.Layout(), f.Floats)
		if err != nil {
			return nil, err
		}
		return imaging.ConvertType[T](src), nil
	}
	src, err := imaging.FromData(f.Width, f.Height, f.Layout(), f.Ints)
	if err != nil {
		return nil, err
	}
	return imaging.ConvertType[T](src), nil
}
