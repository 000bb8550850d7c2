package paramap

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gekko3d/paramap/material"
	"github.com/gekko3d/paramap/shaders"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePipeline struct {
	key      material.VariantKey
	released bool
}

func (p *fakePipeline) Label() string { return p.key.String() }
func (p *fakePipeline) Release()      { p.released = true }

func TestPipelineCache_BuildsOncePerKey(t *testing.T) {
	var builds atomic.Int32
	cache := NewPipelineCache(PipelineBuilderFunc(func(key material.VariantKey) (Pipeline, error) {
		builds.Add(1)
		time.Sleep(5 * time.Millisecond)
		return &fakePipeline{key: key}, nil
	}))

	pom := material.VariantKey{CullMode: material.CullBack}
	relief := material.VariantKey{ReliefMapping: true, CullMode: material.CullBack}

	var wg sync.WaitGroup
	got := make([]Pipeline, 32)
	for i := range got {
		wg.Add(1)
		go func() {
			defer wg.Done()
			key := pom
			if i%2 == 1 {
				key = relief
			}
			p, err := cache.Get(key)
			assert.NoError(t, err)
			got[i] = p
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(2), builds.Load())
	assert.Equal(t, 2, cache.Builds())
	assert.Equal(t, 2, cache.Len())
	for i := range got {
		assert.Same(t, got[i%2], got[i])
	}

	p := got[0].(*fakePipeline)
	cache.Release()
	assert.True(t, p.released)
	assert.Zero(t, cache.Len())
}

func TestPipelineCache_FailuresAreRetried(t *testing.T) {
	fail := true
	cache := NewPipelineCache(PipelineBuilderFunc(func(key material.VariantKey) (Pipeline, error) {
		if fail {
			return nil, errors.New("no device")
		}
		return &fakePipeline{key: key}, nil
	}))

	_, err := cache.Get(material.VariantKey{})
	assert.ErrorContains(t, err, "no device")
	assert.Zero(t, cache.Len())

	fail = false
	_, err = cache.Get(material.VariantKey{})
	require.NoError(t, err)
	assert.Equal(t, 2, cache.Builds())
	assert.Equal(t, 1, cache.Len())
}

func TestShaderVariantBuilder(t *testing.T) {
	registry := shaders.NewRegistry()
	b := &ShaderVariantBuilder{
		Shaders: registry,
		Shader:  registry.Register(shaders.ParallaxShaderName, shaders.ParallaxMapWGSL),
	}

	p, err := b.BuildPipeline(material.VariantKey{ReliefMapping: true})
	require.NoError(t, err)
	v := p.(*ShaderVariant)
	assert.Equal(t, "parallax_"+shaders.ParallaxShaderName, v.Label())
	assert.Contains(t, v.Source, "RELIEF_STEPS; step")
	assert.NotContains(t, v.Source, "#ifdef")

	p, err = b.BuildPipeline(material.VariantKey{})
	require.NoError(t, err)
	assert.NotContains(t, p.(*ShaderVariant).Source, "RELIEF_STEPS; step")
}
