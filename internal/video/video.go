// Package video moves sequences of frames between storage and the engine.
//
// A Source is pulled one frame at a time with Next, which returns io.EOF once
// the sequence is exhausted. A Sink receives frames with Write and must be
// closed to flush them. ProcessTo connects the two through a per-frame
// transform. Animated GIFs and numbered image-file sequences are supported;
// Frames and Collector keep sequences in memory.
package video

import (
	"errors"
	"fmt"
	"io"

	"github.com/ironsheep/pixelkit/internal/imaging"
	"github.com/ironsheep/pixelkit/internal/sample"
)

// Source yields frames in order.
type Source[T sample.Type] interface {
	// Next returns the next frame, or io.EOF after the last one.
	Next() (*imaging.Image[T], error)
	// FrameCount returns the total number of frames, or -1 if unknown.
	FrameCount() int
	// Index returns the index of the frame the next call to Next returns.
	Index() int
	// Shape returns the frame width and height.
	Shape() (width, height int)
}

// Sink consumes frames.
type Sink[T sample.Type] interface {
	Write(frame *imaging.Image[T]) error
	Close() error
}

// Transform maps frame i of a sequence to an output frame.
type Transform[T sample.Type] func(i int, frame *imaging.Image[T]) (*imaging.Image[T], error)

// ProcessTo reads every frame of src, passes it through fn and writes the
// result to sink. It returns the number of frames written. The sink is not
// closed. A nil fn writes frames unchanged.
func ProcessTo[T sample.Type](src Source[T], sink Sink[T], fn Transform[T]) (int, error) {
	n := 0
	for {
		i := src.Index()
		frame, err := src.Next()
		if errors.Is(err, io.EOF) {
			return n, nil
		}
		if err != nil {
			return n, fmt.Errorf("read frame %d: %w", i, err)
		}
		if fn != nil {
			if frame, err = fn(i, frame); err != nil {
				return n, fmt.Errorf("transform frame %d: %w", i, err)
			}
		}
		if err := sink.Write(frame); err != nil {
			return n, fmt.Errorf("write frame %d: %w", i, err)
		}
		n++
	}
}

// Skip discards the next n frames of src. It stops early without error at
// the end of the sequence and returns the number of frames skipped.
func Skip[T sample.Type](src Source[T], n int) (int, error) {
	for i := 0; i < n; i++ {
		if _, err := src.Next(); err != nil {
			if errors.Is(err, io.EOF) {
				return i, nil
			}
			return i, err
		}
	}
	return n, nil
}

// Limit returns a Source that ends after at most n frames of src.
func Limit[T sample.Type](src Source[T], n int) Source[T] {
	return &limited[T]{src: src, left: n}
}

type limited[T sample.Type] struct {
	src  Source[T]
	left int
}

func (l *limited[T]) Next() (*imaging.Image[T], error) {
	if l.left <= 0 {
		return nil, io.EOF
	}
	frame, err := l.src.Next()
	if err == nil {
		l.left--
	}
	return frame, err
}

func (l *limited[T]) FrameCount() int {
	total := l.src.FrameCount()
	if total < 0 {
		return -1
	}
	return min(total, l.src.Index()+l.left)
}

func (l *limited[T]) Index() int                 { return l.src.Index() }
func (l *limited[T]) Shape() (width, height int) { return l.src.Shape() }

// Frames is an in-memory Source over a fixed list of frames.
type Frames[T sample.Type] struct {
	frames []*imaging.Image[T]
	next   int
}

// FromImages creates a Source over frames. All frames should share one size.
func FromImages[T sample.Type](frames ...*imaging.Image[T]) *Frames[T] {
	return &Frames[T]{frames: frames}
}

func (f *Frames[T]) Next() (*imaging.Image[T], error) {
	if f.next >= len(f.frames) {
		return nil, io.EOF
	}
	frame := f.frames[f.next]
	f.next++
	return frame, nil
}

func (f *Frames[T]) FrameCount() int { return len(f.frames) }
func (f *Frames[T]) Index() int      { return f.next }

func (f *Frames[T]) Shape() (width, height int) {
	if len(f.frames) == 0 {
		return 0, 0
	}
	return f.frames[0].Width(), f.frames[0].Height()
}

// Collector is a Sink that keeps every written frame.
type Collector[T sample.Type] struct {
	Frames []*imaging.Image[T]
	closed bool
}

// ErrClosed is returned when writing to a closed sink.
var ErrClosed = errors.New("sink is closed")

func (c *Collector[T]) Write(frame *imaging.Image[T]) error {
	if c.closed {
		return ErrClosed
	}
	c.Frames = append(c.Frames, frame)
	return nil
}

func (c *Collector[T]) Close() error {
	c.closed = true
	return nil
}
