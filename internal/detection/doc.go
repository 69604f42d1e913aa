// Package detection finds features in images using the kernel and filter
// engine.
//
// EdgeDetect implements Canny edge detection. Blur and gradient passes are
// ordinary kernel evaluations run through filter.EvalParallel; gradients are
// written to an unclamped float field so their sign survives for direction
// estimation.
//
// DetectLines runs a Hough transform over the Canny edge map. Votes are
// accumulated with one worker per band of angles; peaks become segments
// whose endpoints are the extreme edge pixels lying on the line.
//
// DetectRectangles, DetectCircles and DetectTextRegions work from the same
// edge map: rectangles are 8-connected edge contours that trace their own
// bounding box, circles are peaks of a per-radius Hough accumulator, and
// text regions are windows whose edge density and run structure look like
// rows of glyph strokes.
//
// # Coordinate System
//
// All coordinates use the standard image convention:
//   - Origin (0, 0) at top-left corner
//   - X increases rightward
//   - Y increases downward
//
// # Limitations
//
// Works best on clean, high-contrast images. Noisy photographs need higher
// thresholds or an additional blur pass.
package detection
