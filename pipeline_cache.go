package paramap

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gekko3d/paramap/material"
	"github.com/gekko3d/paramap/shaders"
	"golang.org/x/sync/singleflight"
)

// Pipeline is a compiled material variant.
type Pipeline interface {
	Label() string
	Release()
}

// PipelineBuilder compiles the pipeline of a variant.
type PipelineBuilder interface {
	BuildPipeline(key material.VariantKey) (Pipeline, error)
}

type PipelineBuilderFunc func(key material.VariantKey) (Pipeline, error)

func (f PipelineBuilderFunc) BuildPipeline(key material.VariantKey) (Pipeline, error) { return f(key) }

// PipelineCache builds each variant at most once. Concurrent requests for
// a variant being built wait for that build. Failed builds are not cached.
type PipelineCache struct {
	builder   PipelineBuilder
	group     singleflight.Group
	mu        sync.RWMutex
	pipelines map[material.VariantKey]Pipeline
	builds    atomic.Int64
}

func NewPipelineCache(builder PipelineBuilder) *PipelineCache {
	return &PipelineCache{
		builder:   builder,
		pipelines: make(map[material.VariantKey]Pipeline),
	}
}

func (c *PipelineCache) lookup(key material.VariantKey) (Pipeline, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.pipelines[key]
	return p, ok
}

// Get returns the pipeline of key, building it on first use.
func (c *PipelineCache) Get(key material.VariantKey) (Pipeline, error) {
	if p, ok := c.lookup(key); ok {
		return p, nil
	}
	v, err, _ := c.group.Do(key.String(), func() (any, error) {
		if p, ok := c.lookup(key); ok {
			return p, nil
		}
		c.builds.Add(1)
		p, err := c.builder.BuildPipeline(key)
		if err != nil {
			return nil, fmt.Errorf("paramap: build %s: %w", key, err)
		}
		c.mu.Lock()
		c.pipelines[key] = p
		c.mu.Unlock()
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(Pipeline), nil
}

// Builds counts the builds attempted so far.
func (c *PipelineCache) Builds() int { return int(c.builds.Load()) }

func (c *PipelineCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.pipelines)
}

// Release releases and forgets every cached pipeline.
func (c *PipelineCache) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, p := range c.pipelines {
		p.Release()
		delete(c.pipelines, key)
	}
}

// ShaderVariant is a pipeline reduced to its preprocessed shader source. It
// is what ShaderVariantBuilder produces when no GPU is attached.
type ShaderVariant struct {
	Key    material.VariantKey
	Source string
	label  string
}

func (v *ShaderVariant) Label() string { return v.label }
func (v *ShaderVariant) Release()      {}

// ShaderVariantBuilder preprocesses the shader of every variant.
type ShaderVariantBuilder struct {
	Shaders  *shaders.Registry
	Shader   shaders.Handle
	Provider material.VariantProvider
}

func (b *ShaderVariantBuilder) BuildPipeline(key material.VariantKey) (Pipeline, error) {
	provider := b.Provider
	if provider == nil {
		provider = material.DefaultProvider{}
	}
	state := provider.Specialize(key)
	src, err := b.Shaders.Variant(b.Shader, state.Defines)
	if err != nil {
		return nil, err
	}
	return &ShaderVariant{Key: key, Source: src, label: state.Label(shaders.ParallaxShaderName)}, nil
}
