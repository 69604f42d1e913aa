// Package imaging provides the image abstraction of the pixel engine.
//
// An Image[T] is a width x height grid whose samples have numeric type T (see
// package sample) and whose channel layout is a Color (gray, RGB, RGBA, CMYK,
// YUV and friends). Samples are addressed raw with Get/Set or as normalized
// [0,1] values with GetF/SetF; the normalized form is what filters, kernels
// and cross-type conversion work with.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with (0,0) at the top-left corner:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For regions, (x1,y1) is inclusive and (x2,y2) is exclusive
//
// Out-of-range coordinates are programming errors: accessors panic with an
// *OutOfBoundsError, which unwraps to ErrOutOfBounds.
//
// # Analysis
//
// Histogram bins normalized samples per channel, Diff records where two
// equal-shape images differ and can replay the differences, and Hash produces
// a 256-bit perceptual fingerprint with a Hamming distance.
//
// # Thread Safety
//
// Images may be read from many goroutines at once. Writers must touch
// disjoint pixels; the concurrent filter drivers rely on this by giving each
// worker its own band of rows.
//
// # Error Handling
//
// Recoverable failures wrap one of the sentinel errors (ErrShapeMismatch,
// ErrDecode, ErrEncode, ErrConvert, ErrEmpty) so callers can test them with
// errors.Is.
package imaging
