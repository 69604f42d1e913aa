package imaging

import (
	"errors"
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/x448/float16"

	"github.com/ironsheep/pixelkit/internal/sample"
)

func TestConvertType(t *testing.T) {
	src := New[uint8](2, 1, RGB)
	src.Fill(1, 0, 0.5)

	f := ConvertType[float32](src)
	if f.Color() != RGB || f.Get(0, 0, 0) != 1 || f.Get(1, 0, 1) != 0 {
		t.Errorf("u8 -> f32: got %v", f.Data())
	}

	u16 := ConvertType[uint16](f)
	if u16.Get(0, 0, 2) != 32896 { // 128/255 of 65535
		t.Errorf("f32 -> u16: got %d, want 32896", u16.Get(0, 0, 2))
	}

	back := ConvertType[uint8](u16)
	if !back.Equal(src) {
		t.Errorf("u8 -> f32 -> u16 -> u8 changed samples: %v vs %v", back.Data(), src.Data())
	}
}

func TestConvertColor_RoundTrips(t *testing.T) {
	src := New[float64](3, 1, RGB)
	copy(src.Pixel(0, 0), []float64{0.8, 0.2, 0.4})
	copy(src.Pixel(1, 0), []float64{0, 0, 0})
	copy(src.Pixel(2, 0), []float64{1, 1, 1})

	for _, via := range []Color{BGR, RGBA, BGRA, CMYK, YUV} {
		t.Run(via.Name(), func(t *testing.T) {
			mid, err := ConvertColor(src, via)
			if err != nil {
				t.Fatal(err)
			}
			if mid.Color() != via || mid.Channels() != via.Channels() {
				t.Fatalf("intermediate: got %s", mid)
			}
			back, err := ConvertColor(mid, RGB)
			if err != nil {
				t.Fatal(err)
			}
			for i, v := range back.Data() {
				if math.Abs(v-src.Data()[i]) > 1e-4 {
					t.Errorf("sample %d: got %v, want %v", i, v, src.Data()[i])
				}
			}
		})
	}
}

func TestConvertColor_Packed(t *testing.T) {
	src := New[uint8](1, 1, RGB)
	copy(src.Pixel(0, 0), []uint8{0x12, 0x34, 0x56})

	// a packed sample needs 24 bits, so pack in f64
	packed, err := ConvertColor(ConvertType[float64](src), RGBPacked)
	if err != nil {
		t.Fatal(err)
	}
	if got := uint32(math.Round(packed.Get(0, 0, 0) * 0xFFFFFF)); got != 0x123456 {
		t.Errorf("packed value: got %06x, want 123456", got)
	}

	back, err := Convert[uint8](packed, RGB)
	if err != nil {
		t.Fatal(err)
	}
	if !back.Equal(src) {
		t.Errorf("unpacked: got %v", back.Data())
	}
}

// packInto packs src's first pixel into an image of sample type T and reads
// the 24-bit value back.
func packInto[T sample.Type](src *Image[uint8]) (uint32, error) {
	packed, err := Convert[T](src, RGBPacked)
	if err != nil {
		return 0, err
	}
	return uint32(math.Round(packed.GetF(0, 0, 0) * 0xFFFFFF)), nil
}

func TestConvert_PackedPrecision(t *testing.T) {
	src := New[uint8](1, 1, RGB)
	copy(src.Pixel(0, 0), []uint8{0x12, 0x34, 0x56})

	tests := []struct {
		name    string
		pack    func(*Image[uint8]) (uint32, error)
		wantErr bool
	}{
		{"u8", packInto[uint8], true},
		{"u16", packInto[uint16], true},
		{"f16", packInto[float16.Float16], true},
		{"u32", packInto[uint32], false},
		{"f32", packInto[float32], false},
		{"f64", packInto[float64], false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.pack(src)
			if tt.wantErr {
				if !errors.Is(err, ErrConvert) {
					t.Errorf("got %06x, %v; want ErrConvert", got, err)
				}
				return
			}
			if err != nil || got != 0x123456 {
				t.Errorf("got %06x, %v; want 123456", got, err)
			}
		})
	}

	// a narrow image already in the packed layout cannot be unpacked either
	narrow := New[uint8](1, 1, RGBPacked)
	if _, err := ConvertColor(narrow, RGB); !errors.Is(err, ErrConvert) {
		t.Errorf("unpacking u8: got %v, want ErrConvert", err)
	}
	if _, err := ConvertColor(src, RGBPacked); !errors.Is(err, ErrConvert) {
		t.Errorf("packing in u8: got %v, want ErrConvert", err)
	}
	if err := CheckLayout[uint8](RGB); err != nil {
		t.Errorf("u8 RGB: %v", err)
	}
}

func TestConvertColor_GrayAndAlpha(t *testing.T) {
	src := New[uint8](1, 1, RGBA)
	copy(src.Pixel(0, 0), []uint8{255, 0, 0, 100})

	gray, err := ConvertColor(src, Gray)
	if err != nil {
		t.Fatal(err)
	}
	if got := gray.Get(0, 0, 0); got != 76 { // Rec.601 0.299*255
		t.Errorf("gray of red: got %d, want 76", got)
	}

	bgra, err := ConvertColor(src, BGRA)
	if err != nil {
		t.Fatal(err)
	}
	if px := bgra.Pixel(0, 0); px[0] != 0 || px[2] != 255 || px[3] != 100 {
		t.Errorf("BGRA: got %v", px)
	}

	rgba, err := ConvertColor(gray, RGBA)
	if err != nil {
		t.Fatal(err)
	}
	if rgba.Get(0, 0, 3) != 255 {
		t.Errorf("alpha added by conversion should be opaque, got %d", rgba.Get(0, 0, 3))
	}

	if _, err := ConvertColor(src, Color(99)); !errors.Is(err, ErrConvert) {
		t.Errorf("invalid layout: got %v, want ErrConvert", err)
	}
}

func TestStdInterop(t *testing.T) {
	std := image.NewNRGBA(image.Rect(10, 20, 13, 22))
	std.SetNRGBA(11, 21, color.NRGBA{R: 10, G: 20, B: 30, A: 128})

	img := FromStd[uint8](std, RGBA)
	if img.Width() != 3 || img.Height() != 2 {
		t.Fatalf("size: got %dx%d", img.Width(), img.Height())
	}
	if px := img.Pixel(1, 1); px[0] != 10 || px[1] != 20 || px[2] != 30 || px[3] != 128 {
		t.Errorf("offset bounds pixel: got %v", px)
	}

	out, ok := img.ToStd().(*image.NRGBA)
	if !ok {
		t.Fatalf("u8 RGBA should render as *image.NRGBA, got %T", img.ToStd())
	}
	if c := out.NRGBAAt(1, 1); c != (color.NRGBA{10, 20, 30, 128}) {
		t.Errorf("ToStd pixel: got %v", c)
	}

	g16 := image.NewGray16(image.Rect(0, 0, 1, 1))
	g16.SetGray16(0, 0, color.Gray16{Y: 12345})
	wide := FromStd[uint16](g16, Gray)
	if wide.Get(0, 0, 0) != 12345 {
		t.Errorf("Gray16 precision lost: got %d", wide.Get(0, 0, 0))
	}
	if back, ok := wide.ToStd().(*image.Gray16); !ok || back.Gray16At(0, 0).Y != 12345 {
		t.Errorf("ToStd Gray16: got %T", wide.ToStd())
	}
}
