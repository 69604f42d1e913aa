package imaging

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"math"
	"math/bits"

	"github.com/ironsheep/pixelkit/internal/sample"
)

const (
	hashCols = 16
	hashRows = 12
)

// Hash is a 256-bit fingerprint of an image. The first three words hold a
// 16x12 grid of luminance bits; the last is a 64-bit FNV-1a digest of the
// image's shape and samples.
//
// Hashes are comparable with ==; Diff gives the number of differing bits.
type Hash [4]uint64

// Hash computes the fingerprint of img.
//
// The grid part reduces the image to 16x12 cells of mean luminance and sets
// a bit for each cell brighter than the mean of all cells, so similar
// pictures share most grid bits. The grid says nothing about absolute
// brightness or single samples; the digest covers those. It is taken over
// width, height, color layout and every sample rounded to 16 bits in the
// normalized range, so a change to any sample changes the hash with high
// probability while the same picture stored in different sample types
// hashes the same.
func (img *Image[T]) Hash() Hash {
	var h Hash
	grid := img.hashGrid()
	for i, set := range grid {
		if set {
			h[i/64] |= 1 << (i % 64)
		}
	}
	h[3] = img.digest()
	return h
}

func (img *Image[T]) hashGrid() [hashCols * hashRows]bool {
	var cells [hashCols * hashRows]float64
	norm := make([]float64, img.channels)

	var total float64
	for by := 0; by < hashRows; by++ {
		y0, y1 := hashSpan(by, img.height, hashRows)
		for bx := 0; bx < hashCols; bx++ {
			x0, x1 := hashSpan(bx, img.width, hashCols)
			var sum float64
			for y := y0; y < y1; y++ {
				for x := x0; x < x1; x++ {
					i := img.Index(x, y)
					for c := range norm {
						norm[c] = sample.ToNorm(img.data[i+c])
					}
					r, g, b, _ := toRGBA(img.color, norm)
					sum += Luma(r, g, b)
				}
			}
			v := sum / float64((y1-y0)*(x1-x0))
			cells[by*hashCols+bx] = v
			total += v
		}
	}

	// flat images can leave cells an ulp above the mean
	mean := total/float64(len(cells)) + 1e-9
	var grid [hashCols * hashRows]bool
	for i, v := range cells {
		grid[i] = v > mean
	}
	return grid
}

func (img *Image[T]) digest() uint64 {
	d := fnv.New64a()
	var head [9]byte
	binary.LittleEndian.PutUint32(head[0:], uint32(img.width))
	binary.LittleEndian.PutUint32(head[4:], uint32(img.height))
	head[8] = byte(img.color)
	d.Write(head[:])

	row := make([]byte, 2*img.width*img.channels)
	for y := 0; y < img.height; y++ {
		line := img.data[img.Index(0, y) : img.Index(0, y)+img.width*img.channels]
		for i, v := range line {
			n := min(max(sample.ToNorm(v), 0), 1)
			q := uint16(math.Round(n * math.MaxUint16))
			binary.LittleEndian.PutUint16(row[2*i:], q)
		}
		d.Write(row)
	}
	return d.Sum64()
}

// hashSpan returns the half-open range of rows (or columns) covered by cell i
// of cells along an axis of length n. Every cell covers at least one sample.
func hashSpan(i, n, cells int) (lo, hi int) {
	lo = i * n / cells
	hi = (i + 1) * n / cells
	if lo >= n {
		lo = n - 1
	}
	if hi <= lo {
		hi = lo + 1
	}
	return lo, hi
}

// Diff returns the Hamming distance between two hashes; 0 means equal.
func (h Hash) Diff(o Hash) int {
	n := 0
	for i := range h {
		n += bits.OnesCount64(h[i] ^ o[i])
	}
	return n
}

// GridDiff is Diff restricted to the luminance grid. It stays small for
// visually similar images whose samples differ.
func (h Hash) GridDiff(o Hash) int {
	n := 0
	for i := range h[:3] {
		n += bits.OnesCount64(h[i] ^ o[i])
	}
	return n
}

func (h Hash) String() string {
	return fmt.Sprintf("%016x%016x%016x%016x", h[0], h[1], h[2], h[3])
}
