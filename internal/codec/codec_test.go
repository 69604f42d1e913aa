package codec

import (
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/ironsheep/pixelkit/internal/imaging"
)

// createTestImage writes a solid-color PNG and returns its path.
func createTestImage(t *testing.T, width, height int, c color.Color) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}

	path := filepath.Join(t.TempDir(), "test-image.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return path
}

func gradient(w, h int) *imaging.Image[uint8] {
	img := imaging.New[uint8](w, h, imaging.RGB)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, 0, uint8(x*255/(w-1)))
			img.Set(x, y, 1, uint8(y*255/(h-1)))
			img.Set(x, y, 2, 77)
		}
	}
	return img
}

func TestOpen(t *testing.T) {
	path := createTestImage(t, 40, 30, color.RGBA{255, 128, 0, 255})

	img, err := Open[uint8](path, imaging.RGB)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if img.Width() != 40 || img.Height() != 30 {
		t.Errorf("dimensions: got %dx%d, want 40x30", img.Width(), img.Height())
	}
	if r, g, b := img.Get(5, 5, 0), img.Get(5, 5, 1), img.Get(5, 5, 2); r != 255 || g != 128 || b != 0 {
		t.Errorf("pixel: got (%d,%d,%d), want (255,128,0)", r, g, b)
	}
}

func TestOpen_Errors(t *testing.T) {
	if _, err := Open[uint8]("/nonexistent/path/to/image.png", imaging.RGB); !errors.Is(err, imaging.ErrDecode) {
		t.Errorf("missing file: got %v, want ErrDecode", err)
	}

	path := filepath.Join(t.TempDir(), "invalid.png")
	if err := os.WriteFile(path, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Open[float32](path, imaging.Gray); !errors.Is(err, imaging.ErrDecode) {
		t.Errorf("invalid data: got %v, want ErrDecode", err)
	}
}

func TestOpen_PackedLayout(t *testing.T) {
	path := createTestImage(t, 4, 4, color.RGBA{0x12, 0x34, 0x56, 255})

	if _, err := Open[uint8](path, imaging.RGBPacked); !errors.Is(err, imaging.ErrConvert) {
		t.Errorf("u8 packed: got %v, want ErrConvert", err)
	}
	if _, err := OpenCached[uint16](NewCache(), path, imaging.RGBPacked); !errors.Is(err, imaging.ErrConvert) {
		t.Errorf("u16 packed cached: got %v, want ErrConvert", err)
	}

	img, err := Open[float64](path, imaging.RGBPacked)
	if err != nil {
		t.Fatalf("f64 packed: %v", err)
	}
	if got := uint32(math.Round(img.GetF(1, 1, 0) * 0xFFFFFF)); got != 0x123456 {
		t.Errorf("packed value: got %06x, want 123456", got)
	}
}

func TestSaveOpenRoundTrip(t *testing.T) {
	src := gradient(16, 9)

	for _, ext := range []string{".png", ".bmp", ".tiff", ".gif"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "out"+ext)
			if err := Save(src, path); err != nil {
				t.Fatalf("Save failed: %v", err)
			}
			got, err := Open[uint8](path, imaging.RGB)
			if err != nil {
				t.Fatalf("Open failed: %v", err)
			}
			if ext == ".gif" {
				// palette quantization is lossy
				if got.Width() != 16 || got.Height() != 9 {
					t.Errorf("dimensions: got %dx%d, want 16x9", got.Width(), got.Height())
				}
				return
			}
			if !got.Equal(src) {
				t.Error("lossless round trip changed samples")
			}
		})
	}
}

func TestSave_SixteenBitPNG(t *testing.T) {
	src := imaging.New[uint16](3, 2, imaging.Gray)
	src.Set(1, 1, 0, 12345)

	path := filepath.Join(t.TempDir(), "deep.png")
	if err := Save(src, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	got, err := Open[uint16](path, imaging.Gray)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if v := got.Get(1, 1, 0); v != 12345 {
		t.Errorf("16-bit sample: got %d, want 12345", v)
	}
}

func TestSave_UnknownExtension(t *testing.T) {
	err := Save(gradient(4, 4), filepath.Join(t.TempDir(), "out.xyz"))
	if !errors.Is(err, imaging.ErrEncode) {
		t.Errorf("got %v, want ErrEncode", err)
	}
}

func TestEncodePNGBase64(t *testing.T) {
	s, err := EncodePNGBase64(gradient(8, 8))
	if err != nil {
		t.Fatalf("EncodePNGBase64 failed: %v", err)
	}
	decoded, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		t.Fatalf("failed to decode base64: %v", err)
	}
	img, err := png.Decode(strings.NewReader(string(decoded)))
	if err != nil {
		t.Fatalf("failed to decode PNG: %v", err)
	}
	if img.Bounds().Dx() != 8 {
		t.Errorf("width: got %d, want 8", img.Bounds().Dx())
	}
}

func TestCache_Load(t *testing.T) {
	cache := NewCache()
	path := createTestImage(t, 100, 100, color.RGBA{255, 0, 0, 255})

	img1, err := cache.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	img2, err := cache.Load(path)
	if err != nil {
		t.Fatalf("second Load failed: %v", err)
	}
	if img1 != img2 {
		t.Error("second Load did not return cached image")
	}
	if cache.Len() != 1 {
		t.Errorf("Len: got %d, want 1", cache.Len())
	}
}

func TestCache_ClearEvict(t *testing.T) {
	cache := NewCache()
	path := createTestImage(t, 10, 10, color.RGBA{0, 255, 0, 255})

	if _, err := cache.Load(path); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	cache.Evict(path)
	if cache.Len() != 0 {
		t.Error("Evict did not remove image from cache")
	}
	cache.Evict("/nonexistent/path")

	if _, err := cache.Load(path); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	cache.Clear()
	if cache.Len() != 0 {
		t.Errorf("Clear did not empty cache: %d images remain", cache.Len())
	}
}

func TestCache_ConcurrentAccess(t *testing.T) {
	cache := NewCache()
	path := createTestImage(t, 50, 50, color.RGBA{128, 128, 128, 255})

	var wg sync.WaitGroup
	errs := make(chan error, 100)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := OpenCached[uint16](cache, path, imaging.RGBA); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent Load error: %v", err)
	}
}

func TestOpenCached_FreshImages(t *testing.T) {
	cache := NewCache()
	path := createTestImage(t, 4, 4, color.RGBA{10, 20, 30, 255})

	a, err := OpenCached[uint8](cache, path, imaging.RGB)
	if err != nil {
		t.Fatal(err)
	}
	a.Set(0, 0, 0, 99)

	b, err := OpenCached[uint8](cache, path, imaging.RGB)
	if err != nil {
		t.Fatal(err)
	}
	if b.Get(0, 0, 0) != 10 {
		t.Error("modifying an opened image affected the cache")
	}
}

func TestLoadInfo(t *testing.T) {
	cache := NewCache()
	path := createTestImage(t, 200, 150, color.RGBA{255, 128, 64, 255})

	info, err := LoadInfo(cache, path)
	if err != nil {
		t.Fatalf("LoadInfo failed: %v", err)
	}
	if info.Width != 200 || info.Height != 150 {
		t.Errorf("dimensions: got %dx%d, want 200x150", info.Width, info.Height)
	}
	if info.Format != "png" {
		t.Errorf("Format: got %s, want png", info.Format)
	}
	if info.FileSizeBytes <= 0 {
		t.Error("FileSizeBytes should be positive")
	}
	if info.NaturalColor().Channels() == 0 {
		t.Errorf("NaturalColor: got %s", info.NaturalColor())
	}
}

func TestLoadInfo_NonExistent(t *testing.T) {
	if _, err := LoadInfo(NewCache(), "/nonexistent/image.png"); err == nil {
		t.Error("LoadInfo should fail for non-existent file")
	}
}

func TestFormatOf(t *testing.T) {
	tests := []struct {
		path, want string
	}{
		{"a.png", "png"},
		{"a.JPG", "jpeg"},
		{"a.jpeg", "jpeg"},
		{"a.gif", "gif"},
		{"a.bmp", "bmp"},
		{"a.tif", "tiff"},
		{"a.webp", "webp"},
		{"a.xyz", "unknown"},
	}
	for _, tt := range tests {
		if got := FormatOf(tt.path); got != tt.want {
			t.Errorf("FormatOf(%q): got %s, want %s", tt.path, got, tt.want)
		}
	}
}

func TestGetDimensions(t *testing.T) {
	cache := NewCache()
	path := createTestImage(t, 300, 200, color.RGBA{100, 100, 100, 255})

	dims, err := GetDimensions(cache, path)
	if err != nil {
		t.Fatalf("GetDimensions failed: %v", err)
	}
	if dims.Width != 300 || dims.Height != 200 {
		t.Errorf("dimensions: got %dx%d, want 300x200", dims.Width, dims.Height)
	}
}
