package video

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ironsheep/pixelkit/internal/codec"
	"github.com/ironsheep/pixelkit/internal/imaging"
	"github.com/ironsheep/pixelkit/internal/sample"
)

// SequenceSource reads numbered image files such as frame_0000.png,
// frame_0001.png, ... The pattern is a fmt verb template with one integer
// verb. The sequence ends at the first missing index.
type SequenceSource[T sample.Type] struct {
	pattern string
	start   int
	next    int
	count   int
	layout  imaging.Color
	width   int
	height  int
	first   *imaging.Image[T] // decoded by OpenSequence, handed out by the first Next
}

// OpenSequence opens the sequence described by pattern starting at index
// start. At least the first file must exist; it is decoded here to learn the
// frame shape and returned by the first Next.
func OpenSequence[T sample.Type](pattern string, start int, c imaging.Color) (*SequenceSource[T], error) {
	if strings.Count(pattern, "%") != 1 {
		return nil, fmt.Errorf("%w: sequence pattern needs exactly one index verb: %s", imaging.ErrDecode, pattern)
	}
	s := &SequenceSource[T]{pattern: pattern, start: start, next: start, layout: c}

	for exists(s.path(start + s.count)) {
		s.count++
	}
	if s.count == 0 {
		return nil, fmt.Errorf("%w: no frames match %s from index %d", imaging.ErrDecode, pattern, start)
	}

	first, err := codec.Open[T](s.path(start), c)
	if err != nil {
		return nil, err
	}
	s.first = first
	s.width, s.height = first.Width(), first.Height()
	return s, nil
}

func (s *SequenceSource[T]) path(i int) string {
	return fmt.Sprintf(s.pattern, i)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (s *SequenceSource[T]) Next() (*imaging.Image[T], error) {
	if s.next >= s.start+s.count {
		return nil, io.EOF
	}
	if s.first != nil {
		frame := s.first
		s.first = nil
		s.next++
		return frame, nil
	}
	frame, err := codec.Open[T](s.path(s.next), s.layout)
	if err != nil {
		return nil, err
	}
	s.next++
	return frame, nil
}

func (s *SequenceSource[T]) FrameCount() int            { return s.count }
func (s *SequenceSource[T]) Index() int                 { return s.next - s.start }
func (s *SequenceSource[T]) Shape() (width, height int) { return s.width, s.height }

// SequenceSink writes each frame to its own numbered file. The format
// follows the pattern's extension.
type SequenceSink[T sample.Type] struct {
	pattern string
	next    int
	closed  bool
}

// CreateSequence returns a sink writing frames to pattern starting at index
// start. The directory is created if needed.
func CreateSequence[T sample.Type](pattern string, start int) (*SequenceSink[T], error) {
	if strings.Count(pattern, "%") != 1 {
		return nil, fmt.Errorf("%w: sequence pattern needs exactly one index verb: %s", imaging.ErrEncode, pattern)
	}
	if err := os.MkdirAll(filepath.Dir(pattern), 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", imaging.ErrEncode, err)
	}
	return &SequenceSink[T]{pattern: pattern, next: start}, nil
}

func (s *SequenceSink[T]) Write(frame *imaging.Image[T]) error {
	if s.closed {
		return ErrClosed
	}
	if err := codec.Save(frame, fmt.Sprintf(s.pattern, s.next)); err != nil {
		return err
	}
	s.next++
	return nil
}

func (s *SequenceSink[T]) Close() error {
	s.closed = true
	return nil
}
