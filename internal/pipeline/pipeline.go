// Package pipeline applies a filter to files on disk.
//
// The input and output of a Job may each be a single image, an animated GIF
// or a numbered image sequence (a path containing one fmt integer verb such
// as frame_%04d.png). Every frame is opened with the job's sample type,
// evaluated with the concurrent filter driver and written in the output's
// format.
package pipeline

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/x448/float16"

	"github.com/ironsheep/pixelkit/internal/codec"
	"github.com/ironsheep/pixelkit/internal/filter"
	"github.com/ironsheep/pixelkit/internal/imaging"
	"github.com/ironsheep/pixelkit/internal/sample"
	"github.com/ironsheep/pixelkit/internal/video"
)

// DefaultDelay is the GIF frame delay, in hundredths of a second, used when
// the input carries none.
const DefaultDelay = 10

// ErrNoFilter is returned for a job without a filter.
var ErrNoFilter = errors.New("pipeline: no filter")

// Job describes one filter run.
type Job struct {
	Input  string
	Output string
	Filter filter.Filter
	// Kind is the sample type frames are evaluated in.
	Kind sample.Kind
	// Layout names the channel layout; empty keeps the input's natural
	// layout.
	Layout string
	// Start is the first index of a numbered sequence.
	Start   int
	Workers int
}

// Result reports what a job produced.
type Result struct {
	Output  string `json:"output"`
	Frames  int    `json:"frames"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Layout  string `json:"layout"`
	Type    string `json:"type"`
	Workers int    `json:"workers"`
}

// Run executes job. Decoded files are shared through cache.
func Run(cache *codec.Cache, job Job) (*Result, error) {
	if job.Filter == nil {
		return nil, ErrNoFilter
	}
	if job.Input == "" || job.Output == "" {
		return nil, fmt.Errorf("pipeline: input and output paths are required")
	}
	layout, err := resolveLayout(cache, job)
	if err != nil {
		return nil, err
	}

	switch job.Kind {
	case sample.U8:
		return run[uint8](cache, job, layout)
	case sample.U16:
		return run[uint16](cache, job, layout)
	case sample.U32:
		return run[uint32](cache, job, layout)
	case sample.F16:
		return run[float16.Float16](cache, job, layout)
	case sample.F32:
		return run[float32](cache, job, layout)
	case sample.F64:
		return run[float64](cache, job, layout)
	default:
		return nil, fmt.Errorf("pipeline: unsupported sample type %s", job.Kind)
	}
}

func resolveLayout(cache *codec.Cache, job Job) (imaging.Color, error) {
	if job.Layout != "" {
		return imaging.ParseColor(job.Layout)
	}
	switch {
	case isSequence(job.Input):
		return imaging.RGB, nil
	case isGIF(job.Input):
		return imaging.RGBA, nil
	}
	info, err := codec.LoadInfo(cache, job.Input)
	if err != nil {
		return 0, err
	}
	return info.NaturalColor(), nil
}

func run[T sample.Type](cache *codec.Cache, job Job, layout imaging.Color) (*Result, error) {
	src, delay, err := openSource[T](cache, job, layout)
	if err != nil {
		return nil, err
	}
	sink, err := createSink[T](job, delay)
	if err != nil {
		return nil, err
	}

	opts := filter.Options{Workers: job.Workers}
	n, err := video.ProcessTo(src, sink, func(i int, frame *imaging.Image[T]) (*imaging.Image[T], error) {
		out := frame.NewLike()
		if err := filter.EvalWith(job.Filter, out, opts, frame); err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
		return out, nil
	})
	if cerr := sink.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, err
	}

	w, h := src.Shape()
	imaging.Logger().Debug("pipeline done", "input", job.Input, "output", job.Output, "frames", n)
	return &Result{
		Output:  job.Output,
		Frames:  n,
		Width:   w,
		Height:  h,
		Layout:  layout.Name(),
		Type:    sample.NameOf[T](),
		Workers: job.Workers,
	}, nil
}

func openSource[T sample.Type](cache *codec.Cache, job Job, layout imaging.Color) (video.Source[T], int, error) {
	switch {
	case isSequence(job.Input):
		src, err := video.OpenSequence[T](job.Input, job.Start, layout)
		return src, DefaultDelay, err
	case isGIF(job.Input):
		src, err := video.OpenGIF[T](job.Input, layout)
		if err != nil {
			return nil, 0, err
		}
		delay := DefaultDelay
		if d := src.Delays(); len(d) > 0 && d[0] > 0 {
			delay = d[0]
		}
		return src, delay, nil
	}
	img, err := codec.OpenCached[T](cache, job.Input, layout)
	if err != nil {
		return nil, 0, err
	}
	return video.FromImages(img), DefaultDelay, nil
}

func createSink[T sample.Type](job Job, delay int) (video.Sink[T], error) {
	switch {
	case isSequence(job.Output):
		return video.CreateSequence[T](job.Output, job.Start)
	case isGIF(job.Output):
		return video.CreateGIF[T](job.Output, delay)
	}
	return &fileSink[T]{path: job.Output}, nil
}

// fileSink saves a single frame to one image file.
type fileSink[T sample.Type] struct {
	path    string
	written bool
}

func (s *fileSink[T]) Write(frame *imaging.Image[T]) error {
	if s.written {
		return fmt.Errorf("%w: %s holds a single image; use a .gif or a numbered pattern", imaging.ErrEncode, s.path)
	}
	s.written = true
	return codec.Save(frame, s.path)
}

func (s *fileSink[T]) Close() error { return nil }

func isSequence(path string) bool { return strings.Contains(path, "%") }

func isGIF(path string) bool { return strings.EqualFold(filepath.Ext(path), ".gif") }
