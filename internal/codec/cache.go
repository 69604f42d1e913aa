package codec

import (
	"image"
	"sync"

	"github.com/ironsheep/pixelkit/internal/imaging"
	"github.com/ironsheep/pixelkit/internal/sample"
)

// Cache provides thread-safe caching of decoded files to avoid redundant
// disk reads.
//
// Entries are standard library images keyed by the exact path string, so one
// decoded file can be handed out as any sample type and layout. Different
// paths to the same file (relative vs absolute) are separate entries.
//
// Cached images remain in memory until removed with Evict or Clear.
//
//	cache := codec.NewCache()
//	img, err := codec.OpenCached[float32](cache, "/path/to/image.png", imaging.RGB)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	cache.Evict("/path/to/image.png") // Optional: free memory
type Cache struct {
	mu     sync.RWMutex
	images map[string]image.Image
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{
		images: make(map[string]image.Image),
	}
}

// Load returns the decoded file at path, reading it from disk on first use.
func (c *Cache) Load(path string) (image.Image, error) {
	c.mu.RLock()
	if img, ok := c.images[path]; ok {
		c.mu.RUnlock()
		return img, nil
	}
	c.mu.RUnlock()

	img, err := Decode(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.images[path] = img
	c.mu.Unlock()

	return img, nil
}

// Len returns the number of cached files.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

// Clear removes all entries.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]image.Image)
	c.mu.Unlock()
}

// Evict removes the entry for path. Unknown paths are ignored.
func (c *Cache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	c.mu.Unlock()
}

// OpenCached is Open backed by a cache. Every call returns a fresh Image, so
// callers may modify the result without affecting the cache.
func OpenCached[T sample.Type](c *Cache, path string, layout imaging.Color) (*imaging.Image[T], error) {
	if err := imaging.CheckLayout[T](layout); err != nil {
		return nil, err
	}
	src, err := c.Load(path)
	if err != nil {
		return nil, err
	}
	return imaging.FromStd[T](src, layout), nil
}
