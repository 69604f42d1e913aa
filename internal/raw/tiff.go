package raw

import (
	"encoding/binary"
	"image"
	"io"
	"os"

	"golang.org/x/image/tiff"
)

// TIFF decodes baseline TIFF files (and DNGs whose first image is a plain
// strip) into integer frames. Gray images give one component per pixel;
// everything else gives RGB with alpha dropped. 8-bit data is widened to 16
// bits.
var TIFF Decoder = DecoderFunc(decodeTIFF)

func decodeTIFF(path string) (*Frame, bool) {
	f, err := os.Open(path)
	if err != nil {
		return nil, false
	}
	defer f.Close()

	img, err := tiff.Decode(f)
	if err != nil {
		return nil, false
	}
	return frameFromStd(img), true
}

func frameFromStd(img image.Image) *Frame {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	switch g := img.(type) {
	case *image.Gray16:
		out := &Frame{Width: w, Height: h, CPP: 1, Ints: make([]uint16, w*h)}
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				out.Ints[y*w+x] = g.Gray16At(b.Min.X+x, b.Min.Y+y).Y
			}
		}
		return out
	case *image.Gray:
		out := &Frame{Width: w, Height: h, CPP: 1, Ints: make([]uint16, w*h)}
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				out.Ints[y*w+x] = uint16(g.GrayAt(b.Min.X+x, b.Min.Y+y).Y) * 0x101
			}
		}
		return out
	}

	out := &Frame{Width: w, Height: h, CPP: 3, Ints: make([]uint16, w*h*3)}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			// alpha is ignored; opaque pixels come back unpremultiplied
			r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			i := (y*w + x) * 3
			out.Ints[i] = uint16(r)
			out.Ints[i+1] = uint16(g)
			out.Ints[i+2] = uint16(bl)
		}
	}
	return out
}

// Binary decodes headerless sensor dumps of known geometry: Width*Height*CPP
// samples, row-major and channel-minor, each a uint16 or an IEEE float32 in
// the given byte order.
type Binary struct {
	Width, Height, CPP int
	Float              bool
	Order              binary.ByteOrder
}

func (d Binary) Decode(path string) (*Frame, bool) {
	if d.Width <= 0 || d.Height <= 0 || (d.CPP != 1 && d.CPP != 3) {
		return nil, false
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, false
	}
	defer f.Close()

	order := d.Order
	if order == nil {
		order = binary.LittleEndian
	}
	n := d.Width * d.Height * d.CPP
	out := &Frame{Width: d.Width, Height: d.Height, CPP: d.CPP}

	if !d.Float {
		out.Ints = make([]uint16, n)
		if err := binary.Read(f, order, out.Ints); err != nil {
			return nil, false
		}
	} else {
		out.Floats = make([]float32, n)
		if err := binary.Read(f, order, out.Floats); err != nil {
			return nil, false
		}
	}
	if !trailingEOF(f) {
		return nil, false
	}
	return out, true
}

// trailingEOF reports whether r has no bytes left, rejecting files whose
// size does not match the declared geometry.
func trailingEOF(r io.Reader) bool {
	var b [1]byte
	_, err := r.Read(b[:])
	return err == io.EOF
}
