package imaging

import "github.com/ironsheep/pixelkit/internal/sample"

// DiffEntry is one differing sample.
type DiffEntry[T sample.Type] struct {
	X     int `json:"x"`
	Y     int `json:"y"`
	C     int `json:"c"`
	Value T   `json:"value"`
}

// Diff is a sparse record of where two equal-shape images differ. Each entry
// holds the value of the image the diff was computed from, so applying the
// diff to the other image reproduces it.
type Diff[T sample.Type] struct {
	width, height, channels int
	entries                 []DiffEntry[T]
}

// Diff compares img against other sample by sample.
func (img *Image[T]) Diff(other *Image[T]) (*Diff[T], error) {
	if !img.SameShape(other) {
		return nil, shapeError("diff", img.width, img.height, img.channels,
			other.width, other.height, other.channels)
	}
	d := &Diff[T]{width: img.width, height: img.height, channels: img.channels}
	for i, v := range img.data {
		if other.data[i] == v {
			continue
		}
		px := i / img.channels
		d.entries = append(d.entries, DiffEntry[T]{
			X:     px % img.width,
			Y:     px / img.width,
			C:     i % img.channels,
			Value: v,
		})
	}
	return d, nil
}

// Len returns the number of differing samples.
func (d *Diff[T]) Len() int { return len(d.entries) }

// Entries returns the recorded differences in buffer order.
func (d *Diff[T]) Entries() []DiffEntry[T] { return d.entries }

// Apply writes every recorded value into target.
func (d *Diff[T]) Apply(target *Image[T]) error {
	if target.width != d.width || target.height != d.height || target.channels != d.channels {
		return shapeError("apply diff", d.width, d.height, d.channels,
			target.width, target.height, target.channels)
	}
	for _, e := range d.entries {
		target.Set(e.X, e.Y, e.C, e.Value)
	}
	return nil
}
