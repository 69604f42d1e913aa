package codec

import (
	"fmt"
	"image"
	"os"

	"github.com/ironsheep/pixelkit/internal/imaging"
)

// ImageInfo contains metadata about an image file.
type ImageInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Format is the format implied by the file extension (see FormatOf).
	Format string `json:"format"`

	// ColorDepth is the bit depth per channel: "8-bit" or "16-bit".
	ColorDepth string `json:"color_depth"`

	// HasAlpha indicates whether the decoded image carries transparency.
	HasAlpha bool `json:"has_alpha"`

	// Layout is the natural pixel layout for the file: "gray", "rgb" or "rgba".
	Layout string `json:"layout"`

	// FileSizeBytes is the size of the file on disk.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// NaturalColor returns the layout that holds the file's channels without
// loss.
func (i *ImageInfo) NaturalColor() imaging.Color {
	c, err := imaging.ParseColor(i.Layout)
	if err != nil {
		return imaging.RGBA
	}
	return c
}

// LoadInfo loads the file at path into the cache and reports its metadata.
//
// Color depth and alpha come from the decoded Go image type:
//   - *image.RGBA64, *image.NRGBA64, *image.Gray16 -> "16-bit"
//   - *image.RGBA, *image.NRGBA, *image.RGBA64, *image.NRGBA64 -> has alpha
//   - all other types -> "8-bit", no alpha
func LoadInfo(cache *Cache, path string) (*ImageInfo, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	hasAlpha := false
	colorDepth := "8-bit"
	layout := imaging.RGB
	switch img.(type) {
	case *image.RGBA, *image.NRGBA:
		hasAlpha = true
		layout = imaging.RGBA
	case *image.RGBA64, *image.NRGBA64:
		hasAlpha = true
		colorDepth = "16-bit"
		layout = imaging.RGBA
	case *image.Gray:
		layout = imaging.Gray
	case *image.Gray16:
		colorDepth = "16-bit"
		layout = imaging.Gray
	}

	bounds := img.Bounds()
	return &ImageInfo{
		Width:         bounds.Dx(),
		Height:        bounds.Dy(),
		Format:        FormatOf(path),
		ColorDepth:    colorDepth,
		HasAlpha:      hasAlpha,
		Layout:        layout.Name(),
		FileSizeBytes: stat.Size(),
	}, nil
}

// Dimensions contains the width and height of an image.
type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// GetDimensions returns only the size of the image at path.
func GetDimensions(cache *Cache, path string) (*Dimensions, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	return &Dimensions{
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}, nil
}
