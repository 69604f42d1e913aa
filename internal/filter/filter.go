// Package filter is the per-pixel evaluation engine.
//
// A Filter computes one normalized output sample from a destination
// coordinate, a channel and a list of read-only inputs. The drivers in this
// package walk every pixel and channel of a destination and store the
// filter's response there. Because a response depends only on the inputs,
// the destination can be split into row bands and evaluated concurrently
// with results identical to the sequential walk.
package filter

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/anthonynsimon/bild/parallel"

	"github.com/ironsheep/pixelkit/internal/imaging"
)

// Input is a read-only image as seen by a filter. *imaging.Image[T]
// satisfies it for every sample type.
type Input interface {
	Width() int
	Height() int
	Channels() int
	HasAlpha() bool
	GetF(x, y, c int) float64
}

// Output is an image a driver can write to.
type Output interface {
	Input
	SetF(x, y, c int, f float64)
}

// Filter computes the normalized response for channel c of pixel (x, y).
// Implementations must not keep state between calls.
type Filter interface {
	ComputeAt(x, y, c int, in []Input) float64
}

// Func adapts a plain function to Filter.
type Func func(x, y, c int, in []Input) float64

func (f Func) ComputeAt(x, y, c int, in []Input) float64 { return f(x, y, c, in) }

// Broadcast is a Func whose response never reads channel c of its inputs,
// such as a luminance or channel extractor. Only broadcast filters may fill a
// destination with more channels than an input has.
type Broadcast func(x, y, c int, in []Input) float64

func (f Broadcast) ComputeAt(x, y, c int, in []Input) float64 { return f(x, y, c, in) }

func broadcasts(f Filter) bool {
	switch f := f.(type) {
	case Broadcast:
		return true
	case andThen:
		return broadcasts(f.f)
	}
	return false
}

// ErrNoInput is returned when a driver is called without inputs.
var ErrNoInput = errors.New("filter needs at least one input")

// Options controls the concurrent driver.
type Options struct {
	// Workers is the number of goroutines. Values below 1 use GOMAXPROCS;
	// 1 evaluates sequentially.
	Workers int
}

// Eval evaluates f over every pixel and channel of dst in row-major order.
func Eval(f Filter, dst Output, in ...Input) error {
	if err := check(f, dst, in); err != nil {
		return err
	}
	evalRows(f, dst, in, 0, dst.Height())
	return nil
}

// EvalParallel evaluates f with the destination split into one band of rows
// per available CPU.
func EvalParallel(f Filter, dst Output, in ...Input) error {
	if err := check(f, dst, in); err != nil {
		return err
	}
	imaging.Logger().Debug("eval parallel", "rows", dst.Height(), "procs", runtime.GOMAXPROCS(0))
	parallel.Line(dst.Height(), func(start, end int) {
		evalRows(f, dst, in, start, end)
	})
	return nil
}

// EvalWith evaluates f with an explicit worker count.
func EvalWith(f Filter, dst Output, opts Options, in ...Input) error {
	if err := check(f, dst, in); err != nil {
		return err
	}
	workers := opts.Workers
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers == 1 {
		evalRows(f, dst, in, 0, dst.Height())
		return nil
	}
	imaging.Logger().Debug("eval", "rows", dst.Height(), "workers", workers)
	parallelize(workers, 0, dst.Height(), func(start, stop int) {
		evalRows(f, dst, in, start, stop)
	})
	return nil
}

func evalRows(f Filter, dst Output, in []Input, start, stop int) {
	w, ch := dst.Width(), dst.Channels()
	for y := start; y < stop; y++ {
		for x := 0; x < w; x++ {
			for c := 0; c < ch; c++ {
				dst.SetF(x, y, c, f.ComputeAt(x, y, c, in))
			}
		}
	}
}

// parallelize splits [start, stop) into contiguous bands and runs fn on each
// band in its own goroutine, returning once all bands are done.
func parallelize(workers, start, stop int, fn func(start, stop int)) {
	count := stop - start
	if count < 1 {
		return
	}
	workers = min(workers, count)
	if workers == 1 {
		fn(start, stop)
		return
	}

	band := (count + workers - 1) / workers
	var wg sync.WaitGroup
	for lo := start; lo < stop; lo += band {
		hi := min(lo+band, stop)
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			fn(lo, hi)
		}(lo, hi)
	}
	wg.Wait()
}

// check rejects inputs whose size differs from dst, and inputs with fewer
// channels than dst unless f is a Broadcast filter.
func check(f Filter, dst Output, in []Input) error {
	if len(in) == 0 {
		return ErrNoInput
	}
	wide := broadcasts(f)
	for i, src := range in {
		if src.Width() != dst.Width() || src.Height() != dst.Height() {
			return fmt.Errorf("%w: input %d is %dx%d, destination is %dx%d",
				imaging.ErrShapeMismatch, i, src.Width(), src.Height(), dst.Width(), dst.Height())
		}
		if !wide && src.Channels() < dst.Channels() {
			return fmt.Errorf("%w: input %d has %d channels, destination has %d",
				imaging.ErrShapeMismatch, i, src.Channels(), dst.Channels())
		}
	}
	return nil
}

// Inputs converts a list of images of one sample type to filter inputs.
func Inputs[I Input](imgs ...I) []Input {
	out := make([]Input, len(imgs))
	for i, img := range imgs {
		out[i] = img
	}
	return out
}
