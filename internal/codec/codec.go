// Package codec reads and writes image files as imaging.Image values.
//
// Decoding and encoding are delegated to github.com/disintegration/imaging,
// which selects the format from the file extension when saving and sniffs
// the content when opening. PNG, JPEG, GIF, BMP and TIFF are supported in
// both directions; WebP can be opened but not saved. JPEG files are rotated
// according to their EXIF orientation tag.
//
// Failures wrap imaging.ErrDecode or imaging.ErrEncode so callers can test
// them with errors.Is.
package codec

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"path/filepath"
	"strings"

	dimaging "github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // Register WebP format decoder

	"github.com/ironsheep/pixelkit/internal/imaging"
	"github.com/ironsheep/pixelkit/internal/sample"
)

// Decode opens path as a standard library image.
func Decode(path string) (image.Image, error) {
	img, err := dimaging.Open(path, dimaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", imaging.ErrDecode, path, err)
	}
	return img, nil
}

// Open decodes the file at path into an image with sample type T and
// layout c. Samples are converted from the file's native depth.
func Open[T sample.Type](path string, c imaging.Color) (*imaging.Image[T], error) {
	if err := imaging.CheckLayout[T](c); err != nil {
		return nil, err
	}
	src, err := Decode(path)
	if err != nil {
		return nil, err
	}
	img := imaging.FromStd[T](src, c)
	imaging.Logger().Debug("open", "path", path, "image", img.String())
	return img, nil
}

// Save encodes img to path. The format is chosen by the file extension.
// 16-bit PNG and TIFF output keeps 16 bits per sample for wide sample types;
// other formats are written at 8 bits.
func Save[T sample.Type](img *imaging.Image[T], path string) error {
	if _, err := dimaging.FormatFromFilename(path); err != nil {
		return fmt.Errorf("%w: %s: %v", imaging.ErrEncode, path, err)
	}
	if err := dimaging.Save(img.ToStd(), path); err != nil {
		return fmt.Errorf("%w: %s: %v", imaging.ErrEncode, path, err)
	}
	imaging.Logger().Debug("save", "path", path, "image", img.String())
	return nil
}

// EncodePNGBase64 renders img as a base64-encoded PNG.
func EncodePNGBase64[T sample.Type](img *imaging.Image[T]) (string, error) {
	var buf bytes.Buffer
	if err := dimaging.Encode(&buf, img.ToStd(), dimaging.PNG); err != nil {
		return "", fmt.Errorf("%w: png: %v", imaging.ErrEncode, err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// FormatOf returns the format name for a path's extension: "png", "jpeg",
// "gif", "bmp", "tiff", "webp" or "unknown".
func FormatOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "png"
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".gif":
		return "gif"
	case ".bmp":
		return "bmp"
	case ".tif", ".tiff":
		return "tiff"
	case ".webp":
		return "webp"
	}
	return "unknown"
}
