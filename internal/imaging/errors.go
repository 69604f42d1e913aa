package imaging

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfBounds marks an invalid pixel or channel coordinate. It is only
	// ever raised through a panic carrying an *OutOfBoundsError.
	ErrOutOfBounds = errors.New("coordinate out of bounds")

	// ErrShapeMismatch is returned when an operation needs images (or
	// histograms) of identical shape and is given different ones.
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrDecode is returned when a collaborator cannot decode an input file.
	ErrDecode = errors.New("decode failed")

	// ErrEncode is returned when a collaborator cannot encode an image.
	ErrEncode = errors.New("encode failed")

	// ErrConvert is returned when a color layout or color space conversion
	// is not possible.
	ErrConvert = errors.New("conversion failed")

	// ErrEmpty is returned when an operation needs at least one operand.
	ErrEmpty = errors.New("no operands")
)

// OutOfBoundsError describes the offending access.
type OutOfBoundsError struct {
	X, Y, C       int
	Width, Height int
	Channels      int
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("pixel (%d,%d) channel %d outside %dx%d image with %d channels",
		e.X, e.Y, e.C, e.Width, e.Height, e.Channels)
}

func (e *OutOfBoundsError) Unwrap() error { return ErrOutOfBounds }

func shapeError(op string, w1, h1, c1, w2, h2, c2 int) error {
	return fmt.Errorf("%w: %s: %dx%dx%d vs %dx%dx%d", ErrShapeMismatch, op, w1, h1, c1, w2, h2, c2)
}
