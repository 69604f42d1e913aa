package raw

import (
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/ironsheep/pixelkit/internal/imaging"
)

// Decoder reads a sensor file. ok is false when the file cannot be decoded
// by this decoder.
type Decoder interface {
	Decode(path string) (f *Frame, ok bool)
}

// DecoderFunc adapts a function to Decoder.
type DecoderFunc func(path string) (*Frame, bool)

func (fn DecoderFunc) Decode(path string) (*Frame, bool) { return fn(path) }

// Registry maps lower-case file extensions (with the leading dot) to
// decoders.
type Registry struct {
	mu       sync.RWMutex
	decoders map[string]Decoder
}

var defaultRegistry = NewRegistry()

func init() {
	Register(".tif", TIFF)
	Register(".tiff", TIFF)
	Register(".dng", TIFF)
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{decoders: make(map[string]Decoder)}
}

// Register adds d to the default registry for ext.
func Register(ext string, d Decoder) {
	defaultRegistry.Register(ext, d)
}

// Decode reads path with the default registry.
func Decode(path string) (*Frame, bool) {
	return defaultRegistry.Decode(path)
}

// Extensions lists the extensions known to the default registry.
func Extensions() []string {
	return defaultRegistry.Extensions()
}

// Register adds d for ext, replacing any previous decoder.
func (r *Registry) Register(ext string, d Decoder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.decoders[strings.ToLower(ext)] = d
}

// Decode picks the decoder registered for the extension of path.
func (r *Registry) Decode(path string) (*Frame, bool) {
	ext := strings.ToLower(filepath.Ext(path))

	r.mu.RLock()
	d, ok := r.decoders[ext]
	r.mu.RUnlock()

	if !ok {
		imaging.Logger().Debug("raw: no decoder", "path", path, "ext", ext)
		return nil, false
	}
	f, ok := d.Decode(path)
	if ok {
		imaging.Logger().Debug("raw: decoded", "path", path,
			"width", f.Width, "height", f.Height, "cpp", f.CPP, "float", f.IsFloat())
	}
	return f, ok
}

// Extensions lists registered extensions in sorted order.
func (r *Registry) Extensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	exts := make([]string, 0, len(r.decoders))
	for ext := range r.decoders {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
