package filter

import (
	"fmt"
	"sort"
	"sync"
)

// Registry maps filter names to filters.
type Registry struct {
	mu      sync.RWMutex
	filters map[string]Filter
}

var defaultRegistry = &Registry{filters: make(map[string]Filter)}

func init() {
	Register("identity", Identity)
	Register("invert", Invert)
	Register("grayscale", ToGrayscale)
}

// Register adds f under name to the default registry, replacing any
// previous entry.
func Register(name string, f Filter) {
	defaultRegistry.Register(name, f)
}

// Lookup finds a filter in the default registry.
func Lookup(name string) (Filter, error) {
	return defaultRegistry.Lookup(name)
}

// Names lists the default registry's filter names in sorted order.
func Names() []string {
	return defaultRegistry.Names()
}

// Register adds f under name.
func (r *Registry) Register(name string, f Filter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.filters[name] = f
}

// Lookup finds a filter by name.
func (r *Registry) Lookup(name string) (Filter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.filters[name]
	if !ok {
		return nil, fmt.Errorf("unknown filter: %s", name)
	}
	return f, nil
}

// Names lists filter names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.filters))
	for name := range r.filters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
