package paramap

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/gekko3d/paramap/material"
	"github.com/google/uuid"
)

var ErrUnknownMaterial = errors.New("paramap: unknown material")

type MaterialHandle string

// PreparedMaterial is the render-ready form of a material.
type PreparedMaterial struct {
	Uniform material.Uniform
	// Bytes is Uniform encoded for upload.
	Bytes []byte
	Key   material.VariantKey
	// Version increases every time the material is prepared again.
	Version uint64
	// Missing lists the textures the material names but the lookup could
	// not resolve.
	Missing []material.TextureKind
}

type materialEntry struct {
	config   material.Config
	dirty    bool
	version  uint64
	prepared *PreparedMaterial
}

// MaterialStore holds the parallax materials of the app. Materials are
// validated on the way in and prepared lazily. Safe for concurrent use.
type MaterialStore struct {
	mu         sync.RWMutex
	entries    map[MaterialHandle]*materialEntry
	generation uint64
}

func NewMaterialStore() *MaterialStore {
	return &MaterialStore{entries: make(map[MaterialHandle]*materialEntry)}
}

// Add validates cfg and stores it.
func (s *MaterialStore) Add(cfg material.Config) (MaterialHandle, error) {
	if err := cfg.Validate(); err != nil {
		return "", err
	}
	h := MaterialHandle(uuid.NewString())
	s.mu.Lock()
	s.entries[h] = &materialEntry{config: cfg, dirty: true}
	s.mu.Unlock()
	return h, nil
}

// Set replaces the material of h and marks it for preparation.
func (s *MaterialStore) Set(h MaterialHandle, cfg material.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[h]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownMaterial, h)
	}
	e.config = cfg
	e.dirty = true
	return nil
}

func (s *MaterialStore) Get(h MaterialHandle) (material.Config, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[h]
	if !ok {
		return material.Config{}, false
	}
	return e.config, true
}

func (s *MaterialStore) Remove(h MaterialHandle) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[h]; !ok {
		return false
	}
	delete(s.entries, h)
	return true
}

func (s *MaterialStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Handles returns the stored handles, sorted.
func (s *MaterialStore) Handles() []MaterialHandle {
	s.mu.RLock()
	handles := make([]MaterialHandle, 0, len(s.entries))
	for h := range s.entries {
		handles = append(handles, h)
	}
	s.mu.RUnlock()
	slices.Sort(handles)
	return handles
}

// Prepared returns the last preparation of h. Materials added or changed
// since the last Prepare are not prepared yet.
func (s *MaterialStore) Prepared(h MaterialHandle) (PreparedMaterial, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[h]
	if !ok || e.prepared == nil {
		return PreparedMaterial{}, false
	}
	return *e.prepared, true
}

// Prepare flattens every dirty material against lookup and returns the
// handles it prepared, sorted. A generation different from the previous
// call means textures went away, and every material is prepared again.
func (s *MaterialStore) Prepare(lookup material.TextureLookup, generation uint64) []MaterialHandle {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := generation != s.generation
	s.generation = generation

	var prepared []MaterialHandle
	for h, e := range s.entries {
		if !e.dirty && !all && e.prepared != nil {
			continue
		}
		e.version++
		e.prepared = prepare(&e.config, lookup, e.version)
		e.dirty = false
		prepared = append(prepared, h)
	}
	slices.Sort(prepared)
	return prepared
}

func prepare(cfg *material.Config, lookup material.TextureLookup, version uint64) *PreparedMaterial {
	u := material.NewUniform(cfg, lookup)
	p := &PreparedMaterial{
		Uniform: u,
		Bytes:   u.Marshal(),
		Key:     material.SelectVariant(cfg),
		Version: version,
	}
	for _, slot := range material.Slots {
		h := cfg.Texture(slot.Kind)
		if h.IsNone() {
			continue
		}
		if lookup == nil {
			p.Missing = append(p.Missing, slot.Kind)
			continue
		}
		if _, ok := lookup.TextureInfo(h); !ok {
			p.Missing = append(p.Missing, slot.Kind)
		}
	}
	return p
}
