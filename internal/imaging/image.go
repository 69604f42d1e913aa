package imaging

import (
	"fmt"

	"github.com/ironsheep/pixelkit/internal/sample"
)

// Image is a width x height grid of pixels stored in one flat buffer.
//
// Channels of a pixel are contiguous and pixels are stored row-major, so the
// sample for (x, y, c) lives at (y*width+x)*channels + c. The shape never
// changes after construction; resizing produces a new Image.
//
// An Image owns its buffer. Concurrent readers are safe; concurrent writers
// must touch disjoint pixels.
type Image[T sample.Type] struct {
	width    int
	height   int
	color    Color
	channels int
	data     []T
}

// New allocates a zero-filled image. Non-positive dimensions are a
// programming error and panic.
func New[T sample.Type](width, height int, color Color) *Image[T] {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("imaging: invalid image size %dx%d", width, height))
	}
	if color >= colorCount {
		panic(fmt.Sprintf("imaging: invalid color layout %d", color))
	}
	ch := color.Channels()
	return &Image[T]{
		width:    width,
		height:   height,
		color:    color,
		channels: ch,
		data:     make([]T, width*height*ch),
	}
}

// FromData wraps an existing buffer. The buffer is not copied.
func FromData[T sample.Type](width, height int, color Color, data []T) (*Image[T], error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: invalid image size %dx%d", ErrShapeMismatch, width, height)
	}
	if want := width * height * color.Channels(); len(data) != want {
		return nil, fmt.Errorf("%w: buffer has %d samples, %dx%d %s needs %d",
			ErrShapeMismatch, len(data), width, height, color, want)
	}
	return &Image[T]{
		width:    width,
		height:   height,
		color:    color,
		channels: color.Channels(),
		data:     data,
	}, nil
}

func (img *Image[T]) Width() int    { return img.width }
func (img *Image[T]) Height() int   { return img.height }
func (img *Image[T]) Channels() int { return img.channels }
func (img *Image[T]) Color() Color  { return img.color }

// HasAlpha reports whether the image's last channel is alpha.
func (img *Image[T]) HasAlpha() bool { return img.color.HasAlpha() }

// Kind returns the sample domain of the image.
func (img *Image[T]) Kind() sample.Kind { return sample.KindOf[T]() }

// Len returns the number of samples in the buffer.
func (img *Image[T]) Len() int { return len(img.data) }

// Data exposes the underlying buffer.
func (img *Image[T]) Data() []T { return img.data }

// Shape returns width, height and channel count.
func (img *Image[T]) Shape() (width, height, channels int) {
	return img.width, img.height, img.channels
}

// InBounds reports whether (x, y) addresses a pixel of the image.
func (img *Image[T]) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < img.width && y < img.height
}

// Index returns the buffer offset of channel 0 of pixel (x, y).
func (img *Image[T]) Index(x, y int) int {
	return (y*img.width + x) * img.channels
}

func (img *Image[T]) offset(x, y, c int) int {
	if !img.InBounds(x, y) || c < 0 || c >= img.channels {
		panic(&OutOfBoundsError{
			X: x, Y: y, C: c,
			Width: img.width, Height: img.height, Channels: img.channels,
		})
	}
	return img.Index(x, y) + c
}

// Get returns the raw sample at (x, y, c).
func (img *Image[T]) Get(x, y, c int) T {
	return img.data[img.offset(x, y, c)]
}

// Set stores a raw sample at (x, y, c).
func (img *Image[T]) Set(x, y, c int, v T) {
	img.data[img.offset(x, y, c)] = v
}

// GetF returns the sample at (x, y, c) as a normalized value.
func (img *Image[T]) GetF(x, y, c int) float64 {
	return sample.ToNorm(img.data[img.offset(x, y, c)])
}

// SetF stores a normalized value at (x, y, c). Values outside [0,1] are clamped.
func (img *Image[T]) SetF(x, y, c int, f float64) {
	img.data[img.offset(x, y, c)] = sample.FromNorm[T](f)
}

// Pixel returns the channels of pixel (x, y) as a view into the buffer.
func (img *Image[T]) Pixel(x, y int) []T {
	i := img.offset(x, y, 0)
	return img.data[i : i+img.channels : i+img.channels]
}

// Fill sets every pixel to the given normalized channel values. Missing
// trailing values leave the corresponding channels untouched.
func (img *Image[T]) Fill(norm ...float64) {
	n := min(len(norm), img.channels)
	vals := make([]T, n)
	for c := 0; c < n; c++ {
		vals[c] = sample.FromNorm[T](norm[c])
	}
	for i := 0; i < len(img.data); i += img.channels {
		copy(img.data[i:i+n], vals)
	}
}

// NewLike returns a zero image of the same shape, type and layout.
func (img *Image[T]) NewLike() *Image[T] {
	return New[T](img.width, img.height, img.color)
}

// NewLikeWithColor returns a zero image of the same size and type using
// layout c. It is the usual way to build a filter destination.
func (img *Image[T]) NewLikeWithColor(c Color) *Image[T] {
	return New[T](img.width, img.height, c)
}

// NewLikeAs returns a zero image the size of img with sample type U and layout c.
func NewLikeAs[U, T sample.Type](img *Image[T], c Color) *Image[U] {
	return New[U](img.width, img.height, c)
}

// Clone returns a deep copy.
func (img *Image[T]) Clone() *Image[T] {
	out := img.NewLike()
	copy(out.data, img.data)
	return out
}

// SameShape reports whether o has the same width, height and channel count.
func (img *Image[T]) SameShape(o *Image[T]) bool {
	return img.width == o.width && img.height == o.height && img.channels == o.channels
}

// Equal reports whether o has the same shape, layout and samples.
func (img *Image[T]) Equal(o *Image[T]) bool {
	if !img.SameShape(o) || img.color != o.color {
		return false
	}
	for i, v := range img.data {
		if o.data[i] != v {
			return false
		}
	}
	return true
}

func (img *Image[T]) String() string {
	return fmt.Sprintf("Image[%s](%dx%d %s)", sample.NameOf[T](), img.width, img.height, img.color)
}
