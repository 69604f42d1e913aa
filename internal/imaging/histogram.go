package imaging

import (
	"fmt"
	"math"

	"github.com/ironsheep/pixelkit/internal/sample"
)

// Histogram counts normalized sample values into a fixed number of bins.
//
// The running total always equals the sum of the bins.
type Histogram struct {
	total int
	bins  []int
}

// NewHistogram creates a histogram with n empty bins. n must be positive.
func NewHistogram(n int) *Histogram {
	if n <= 0 {
		panic(fmt.Sprintf("imaging: invalid histogram bin count %d", n))
	}
	return &Histogram{bins: make([]int, n)}
}

// JoinHistograms sums the bins and totals of histograms that share a bin count.
func JoinHistograms(hs ...*Histogram) (*Histogram, error) {
	if len(hs) == 0 {
		return nil, fmt.Errorf("%w: join needs at least one histogram", ErrEmpty)
	}
	out := NewHistogram(len(hs[0].bins))
	for _, h := range hs {
		if len(h.bins) != len(out.bins) {
			return nil, fmt.Errorf("%w: histogram has %d bins, want %d",
				ErrShapeMismatch, len(h.bins), len(out.bins))
		}
		out.total += h.total
		for i, v := range h.bins {
			out.bins[i] += v
		}
	}
	return out, nil
}

// AddSample bins a raw sample of any domain.
func AddSample[T sample.Type](h *Histogram, v T) {
	h.AddNorm(sample.ToNorm(v))
}

// AddNorm bins a normalized value. The bin is round(f*(n-1)) with halves
// rounded away from zero; f is clamped to [0,1] first.
func (h *Histogram) AddNorm(f float64) {
	h.IncrBin(int(math.Round(sample.Clamp(f) * float64(len(h.bins)-1))))
}

// IncrBin adds one to bin i and to the total.
func (h *Histogram) IncrBin(i int) {
	h.bins[i]++
	h.total++
}

// Bin returns the count in bin i.
func (h *Histogram) Bin(i int) int { return h.bins[i] }

// SetBin overwrites bin i, keeping the total consistent.
func (h *Histogram) SetBin(i, v int) {
	if v < 0 {
		panic(fmt.Sprintf("imaging: negative histogram count %d", v))
	}
	h.total += v - h.bins[i]
	h.bins[i] = v
}

// Bins returns a copy of the bin counts.
func (h *Histogram) Bins() []int {
	out := make([]int, len(h.bins))
	copy(out, h.bins)
	return out
}

// Len returns the number of bins.
func (h *Histogram) Len() int { return len(h.bins) }

// Sum returns the number of values added.
func (h *Histogram) Sum() int { return h.total }

// MinIndex returns the lowest-numbered bin holding the minimum count.
func (h *Histogram) MinIndex() int {
	idx := 0
	for i, n := range h.bins {
		if n < h.bins[idx] {
			idx = i
		}
	}
	return idx
}

// MaxIndex returns the lowest-numbered bin holding the maximum count.
func (h *Histogram) MaxIndex() int {
	idx := 0
	for i, n := range h.bins {
		if n > h.bins[idx] {
			idx = i
		}
	}
	return idx
}

// Count returns how many bins hold exactly v.
func (h *Histogram) Count(v int) int {
	n := 0
	for _, b := range h.bins {
		if b == v {
			n++
		}
	}
	return n
}

// Distribution returns each bin divided by the total. An empty histogram
// yields all zeros.
func (h *Histogram) Distribution() []float64 {
	out := make([]float64, len(h.bins))
	if h.total == 0 {
		return out
	}
	for i, n := range h.bins {
		out[i] = float64(n) / float64(h.total)
	}
	return out
}

// Histogram builds one histogram of nbins per channel.
func (img *Image[T]) Histogram(nbins int) []*Histogram {
	out := make([]*Histogram, img.channels)
	for c := range out {
		out[c] = NewHistogram(nbins)
	}
	for i, v := range img.data {
		AddSample(out[i%img.channels], v)
	}
	return out
}
