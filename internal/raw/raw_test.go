package raw

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/tiff"

	"github.com/ironsheep/pixelkit/internal/imaging"
)

func writeTIFF(t *testing.T, img image.Image, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
	defer f.Close()
	if err := tiff.Encode(f, img, nil); err != nil {
		t.Fatalf("failed to encode tiff: %v", err)
	}
	return path
}

func TestDecodeTIFF_Gray16(t *testing.T) {
	src := image.NewGray16(image.Rect(0, 0, 6, 4))
	src.SetGray16(2, 1, color.Gray16{Y: 40000})
	path := writeTIFF(t, src, "sensor.tiff")

	f, ok := Decode(path)
	if !ok {
		t.Fatal("Decode failed")
	}
	if f.Width != 6 || f.Height != 4 || f.CPP != 1 || f.IsFloat() {
		t.Fatalf("frame: got %dx%d cpp=%d float=%v", f.Width, f.Height, f.CPP, f.IsFloat())
	}
	if v := f.Ints[1*6+2]; v != 40000 {
		t.Errorf("sample: got %d, want 40000", v)
	}

	img, err := ToImage[uint16](f, imaging.Gray)
	if err != nil {
		t.Fatalf("ToImage failed: %v", err)
	}
	if v := img.Get(2, 1, 0); v != 40000 {
		t.Errorf("image sample: got %d, want 40000", v)
	}

	rgb, err := ToImage[float32](f, imaging.RGB)
	if err != nil {
		t.Fatalf("ToImage RGB failed: %v", err)
	}
	want := float32(40000) / 65535
	for c := 0; c < 3; c++ {
		if got := rgb.Get(2, 1, c); got-want > 1e-6 || want-got > 1e-6 {
			t.Errorf("channel %d: got %v, want %v", c, got, want)
		}
	}
}

func TestDecodeTIFF_RGB(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 3, 3))
	for i := range src.Pix {
		src.Pix[i] = 255
	}
	src.SetNRGBA(1, 1, color.NRGBA{R: 255, G: 0, B: 0, A: 255})
	path := writeTIFF(t, src, "rgb.tif")

	f, ok := Decode(path)
	if !ok {
		t.Fatal("Decode failed")
	}
	if f.CPP != 3 {
		t.Fatalf("CPP: got %d, want 3", f.CPP)
	}

	img, ok, err := ToRGB[uint8](f)
	if err != nil || !ok {
		t.Fatalf("ToRGB: ok=%v err=%v", ok, err)
	}
	if r, g := img.Get(1, 1, 0), img.Get(1, 1, 1); r != 255 || g != 0 {
		t.Errorf("pixel: got r=%d g=%d, want 255, 0", r, g)
	}

	if _, ok, err := ToGray[uint8](f); ok || err != nil {
		t.Errorf("ToGray on RGB frame: ok=%v err=%v, want false, nil", ok, err)
	}
}

func TestToGray(t *testing.T) {
	f := &Frame{Width: 2, Height: 1, CPP: 1, Ints: []uint16{0, 65535}}

	img, ok, err := ToGray[uint8](f)
	if err != nil || !ok {
		t.Fatalf("ToGray: ok=%v err=%v", ok, err)
	}
	if img.Get(0, 0, 0) != 0 || img.Get(1, 0, 0) != 255 {
		t.Errorf("samples: got %v", img.Data())
	}
	if _, ok, _ := ToRGB[uint8](f); ok {
		t.Error("ToRGB on gray frame should not succeed")
	}
}

func TestToImage_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		frame *Frame
		want  error
	}{
		{"bad cpp", &Frame{Width: 1, Height: 1, CPP: 2, Ints: []uint16{1, 2}}, imaging.ErrConvert},
		{"no samples", &Frame{Width: 1, Height: 1, CPP: 1}, imaging.ErrConvert},
		{"short buffer", &Frame{Width: 2, Height: 2, CPP: 1, Ints: []uint16{1}}, imaging.ErrShapeMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ToImage[uint8](tt.frame, imaging.Gray); !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestBinary(t *testing.T) {
	var buf bytes.Buffer
	vals := []float32{0, 0.25, 0.5, 1, 0.75, 0.125}
	if err := binary.Write(&buf, binary.BigEndian, vals); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "dump.bin")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	r := NewRegistry()
	r.Register(".BIN", Binary{Width: 2, Height: 1, CPP: 3, Float: true, Order: binary.BigEndian})

	f, ok := r.Decode(path)
	if !ok {
		t.Fatal("Decode failed")
	}
	if !f.IsFloat() || f.Layout() != imaging.RGB {
		t.Fatalf("frame: float=%v layout=%s", f.IsFloat(), f.Layout())
	}

	img, err := ToImage[float64](f, imaging.RGB)
	if err != nil {
		t.Fatalf("ToImage failed: %v", err)
	}
	if got := img.Get(1, 0, 1); got != 0.75 {
		t.Errorf("sample: got %v, want 0.75", got)
	}

	// wrong geometry is rejected
	r.Register(".bin", Binary{Width: 1, Height: 1, CPP: 3, Float: true, Order: binary.BigEndian})
	if _, ok := r.Decode(path); ok {
		t.Error("Decode should fail when the file is larger than the geometry")
	}
}

func TestRegistry(t *testing.T) {
	if _, ok := Decode("/tmp/unknown.xyz"); ok {
		t.Error("Decode should fail for an unregistered extension")
	}
	if _, ok := Decode("/nonexistent/file.tiff"); ok {
		t.Error("Decode should fail for a missing file")
	}

	exts := Extensions()
	found := false
	for _, e := range exts {
		if e == ".tiff" {
			found = true
		}
	}
	if !found {
		t.Errorf("Extensions: %v does not include .tiff", exts)
	}
}
