package shaders

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
)

var namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/gekko3d/paramap/shaders"))

// Handle identifies a registered shader. It depends only on the shader
// name, so it is stable across runs and processes.
type Handle uuid.UUID

// HandleFor returns the handle name is registered under.
func HandleFor(name string) Handle {
	return Handle(uuid.NewSHA1(namespace, []byte(name)))
}

func (h Handle) String() string { return uuid.UUID(h).String() }

type entry struct {
	name     string
	source   string
	variants map[string]string
}

// Registry owns shader sources and their preprocessed variants. It is safe
// for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	shaders map[Handle]*entry
}

func NewRegistry() *Registry {
	return &Registry{shaders: make(map[Handle]*entry)}
}

// Register stores src under name. Registering a name again replaces its
// source and drops its cached variants.
func (r *Registry) Register(name, src string) Handle {
	h := HandleFor(name)
	r.mu.Lock()
	r.shaders[h] = &entry{name: name, source: src, variants: map[string]string{}}
	r.mu.Unlock()
	return h
}

// Lookup returns the handle of a registered name.
func (r *Registry) Lookup(name string) (Handle, bool) {
	h := HandleFor(name)
	r.mu.RLock()
	_, ok := r.shaders[h]
	r.mu.RUnlock()
	return h, ok
}

// Source returns the unprocessed source of h.
func (r *Registry) Source(h Handle) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.shaders[h]
	if !ok {
		return "", false
	}
	return e.source, true
}

// Variant returns the source of h preprocessed with defines. The order of
// defines does not matter. Results are cached.
func (r *Registry) Variant(h Handle, defines []string) (string, error) {
	key := variantKey(defines)

	r.mu.RLock()
	e, ok := r.shaders[h]
	var (
		src    string
		cached bool
	)
	if ok {
		src, cached = e.variants[key]
	}
	r.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("shaders: no shader registered for handle %s", h)
	}
	if cached {
		return src, nil
	}

	out, err := Preprocess(e.source, defines)
	if err != nil {
		return "", fmt.Errorf("shaders: %s: %w", e.name, err)
	}

	r.mu.Lock()
	// The entry may have been replaced meanwhile; only cache into the one
	// that was preprocessed.
	if r.shaders[h] == e {
		e.variants[key] = out
	}
	r.mu.Unlock()
	return out, nil
}

// Len returns the number of registered shaders.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.shaders)
}

func variantKey(defines []string) string {
	sorted := slices.Clone(defines)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)
	return strings.Join(sorted, ";")
}
