package video

import (
	"fmt"
	"image"
	"image/color"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"io"
	"os"

	"github.com/ironsheep/pixelkit/internal/imaging"
	"github.com/ironsheep/pixelkit/internal/sample"
)

// GIFSource reads the frames of an animated GIF. Each frame is composited
// onto the logical screen according to the previous frame's disposal
// method, so every returned frame is the full picture a viewer would show.
type GIFSource[T sample.Type] struct {
	anim   *gif.GIF
	layout imaging.Color
	canvas *image.NRGBA
	next   int
}

// OpenGIF decodes the GIF at path. Frames are returned with sample type T
// and layout c.
func OpenGIF[T sample.Type](path string, c imaging.Color) (*GIFSource[T], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", imaging.ErrDecode, err)
	}
	defer f.Close()
	return ReadGIF[T](f, c)
}

// ReadGIF decodes an animated GIF from r.
func ReadGIF[T sample.Type](r io.Reader, c imaging.Color) (*GIFSource[T], error) {
	if err := imaging.CheckLayout[T](c); err != nil {
		return nil, err
	}
	anim, err := gif.DecodeAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: gif: %v", imaging.ErrDecode, err)
	}
	w, h := anim.Config.Width, anim.Config.Height
	if w == 0 || h == 0 {
		b := anim.Image[0].Bounds()
		w, h = b.Max.X, b.Max.Y
	}
	imaging.Logger().Debug("gif: opened", "frames", len(anim.Image), "width", w, "height", h)
	return &GIFSource[T]{
		anim:   anim,
		layout: c,
		canvas: image.NewNRGBA(image.Rect(0, 0, w, h)),
	}, nil
}

func (s *GIFSource[T]) Next() (*imaging.Image[T], error) {
	if s.next >= len(s.anim.Image) {
		return nil, io.EOF
	}
	frame := s.anim.Image[s.next]
	var disposal byte
	if s.next < len(s.anim.Disposal) {
		disposal = s.anim.Disposal[s.next]
	}
	s.next++

	var saved *image.NRGBA
	if disposal == gif.DisposalPrevious {
		saved = image.NewNRGBA(s.canvas.Rect)
		copy(saved.Pix, s.canvas.Pix)
	}

	draw.Draw(s.canvas, frame.Bounds(), frame, frame.Bounds().Min, draw.Over)
	out := imaging.FromStd[T](s.canvas, s.layout)

	switch disposal {
	case gif.DisposalBackground:
		draw.Draw(s.canvas, frame.Bounds(), image.Transparent, image.Point{}, draw.Src)
	case gif.DisposalPrevious:
		s.canvas = saved
	}
	return out, nil
}

func (s *GIFSource[T]) FrameCount() int { return len(s.anim.Image) }
func (s *GIFSource[T]) Index() int      { return s.next }

func (s *GIFSource[T]) Shape() (width, height int) {
	return s.canvas.Rect.Dx(), s.canvas.Rect.Dy()
}

// Delays returns the per-frame delays in hundredths of a second.
func (s *GIFSource[T]) Delays() []int { return s.anim.Delay }

// GIFSink collects frames and writes them as an animated GIF on Close.
//
// Gray frames are stored with a 256-level gray palette and survive exactly
// at 8 bits. Color frames are reduced to the Plan 9 palette with
// Floyd-Steinberg dithering.
type GIFSink[T sample.Type] struct {
	w      io.Writer
	file   *os.File
	delay  int
	anim   gif.GIF
	closed bool
}

// CreateGIF creates path and returns a sink writing to it. delay is the
// frame delay in hundredths of a second.
func CreateGIF[T sample.Type](path string, delay int) (*GIFSink[T], error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", imaging.ErrEncode, err)
	}
	s := NewGIFSink[T](f, delay)
	s.file = f
	return s, nil
}

// NewGIFSink returns a sink that encodes to w on Close.
func NewGIFSink[T sample.Type](w io.Writer, delay int) *GIFSink[T] {
	return &GIFSink[T]{w: w, delay: delay}
}

var grayPalette = func() color.Palette {
	p := make(color.Palette, 256)
	for i := range p {
		p[i] = color.Gray{Y: uint8(i)}
	}
	return p
}()

func (s *GIFSink[T]) Write(frame *imaging.Image[T]) error {
	if s.closed {
		return ErrClosed
	}
	src := frame.ToStd()
	b := src.Bounds()

	var pal *image.Paletted
	if frame.Color() == imaging.Gray {
		pal = image.NewPaletted(b, grayPalette)
		draw.Draw(pal, b, src, b.Min, draw.Src)
	} else {
		pal = image.NewPaletted(b, palette.Plan9)
		draw.FloydSteinberg.Draw(pal, b, src, b.Min)
	}

	s.anim.Image = append(s.anim.Image, pal)
	s.anim.Delay = append(s.anim.Delay, s.delay)
	s.anim.Disposal = append(s.anim.Disposal, gif.DisposalNone)
	return nil
}

// Close encodes the collected frames. A sink with no frames writes nothing.
func (s *GIFSink[T]) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	var err error
	if len(s.anim.Image) > 0 {
		if encErr := gif.EncodeAll(s.w, &s.anim); encErr != nil {
			err = fmt.Errorf("%w: gif: %v", imaging.ErrEncode, encErr)
		}
	}
	if s.file != nil {
		if cerr := s.file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: %v", imaging.ErrEncode, cerr)
		}
	}
	return err
}
