package paramap

import (
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/paramap/gpu"
	"github.com/gekko3d/paramap/material"
)

// GpuState is the device the host renders with. The host adds it as a
// resource; the plugin never creates devices or surfaces.
type GpuState struct {
	Device *wgpu.Device
	Queue  *wgpu.Queue
	Target gpu.Target
	// ViewLayout is the host's group 0 layout. Optional.
	ViewLayout *wgpu.BindGroupLayout
}

// GpuPipelineBuilder adapts gpu.PipelineBuilder to the PipelineCache.
type GpuPipelineBuilder struct {
	gpu.PipelineBuilder
}

func (b *GpuPipelineBuilder) BuildPipeline(key material.VariantKey) (Pipeline, error) {
	p, err := b.Build(key)
	if err != nil {
		return nil, err
	}
	return p, nil
}

type gpuUniform struct {
	buffer  *wgpu.Buffer
	version uint64
}

// GpuMaterials owns the GPU copies of prepared materials and of the
// textures they bind.
type GpuMaterials struct {
	uniforms    map[MaterialHandle]*gpuUniform
	textures    map[material.TextureHandle]*wgpu.TextureView
	placeholder *wgpu.TextureView
	samplers    map[SamplerAsset]*wgpu.Sampler
}

func NewGpuMaterials() *GpuMaterials {
	return &GpuMaterials{
		uniforms: make(map[MaterialHandle]*gpuUniform),
		textures: make(map[material.TextureHandle]*wgpu.TextureView),
		samplers: make(map[SamplerAsset]*wgpu.Sampler),
	}
}

// Uniform returns the uniform buffer of h.
func (gm *GpuMaterials) Uniform(h MaterialHandle) (*wgpu.Buffer, bool) {
	u, ok := gm.uniforms[h]
	if !ok {
		return nil, false
	}
	return u.buffer, true
}

// syncUniforms uploads new and changed uniforms and frees the buffers of
// removed materials.
func (gm *GpuMaterials) syncUniforms(state *GpuState, store *MaterialStore, log Logger) {
	live := make(map[MaterialHandle]bool)
	for _, h := range store.Handles() {
		p, ok := store.Prepared(h)
		if !ok {
			continue
		}
		live[h] = true

		u, ok := gm.uniforms[h]
		if !ok {
			buf, err := gpu.CreateUniformBuffer(state.Device, "ParallaxMaterial "+string(h), &p.Uniform)
			if err != nil {
				log.Errorf("material %s: uniform buffer: %v", h, err)
				continue
			}
			gm.uniforms[h] = &gpuUniform{buffer: buf, version: p.Version}
			continue
		}
		if u.version == p.Version {
			continue
		}
		if err := gpu.WriteUniform(state.Queue, u.buffer, &p.Uniform); err != nil {
			log.Errorf("material %s: uniform upload: %v", h, err)
			continue
		}
		u.version = p.Version
	}

	for h, u := range gm.uniforms {
		if !live[h] {
			u.buffer.Release()
			delete(gm.uniforms, h)
		}
	}
}

// syncTextures drops the views of evicted textures.
func (gm *GpuMaterials) syncTextures(assets *AssetServer) {
	for h, view := range gm.textures {
		if _, ok := assets.Texture(h); !ok {
			view.Release()
			delete(gm.textures, h)
		}
	}
}

func (gm *GpuMaterials) textureView(state *GpuState, assets *AssetServer, h material.TextureHandle) (*wgpu.TextureView, error) {
	if view, ok := gm.textures[h]; ok {
		return view, nil
	}
	t, ok := assets.Texture(h)
	if !ok {
		return gm.placeholderView(state)
	}
	view, err := gpu.CreateTexture(state.Device, state.Queue, t.Data())
	if err != nil {
		return nil, err
	}
	gm.textures[h] = view
	return view, nil
}

// placeholderView is a white texel bound to absent optional slots.
func (gm *GpuMaterials) placeholderView(state *GpuState) (*wgpu.TextureView, error) {
	if gm.placeholder != nil {
		return gm.placeholder, nil
	}
	view, err := gpu.CreateTexture(state.Device, state.Queue, gpu.TextureData{
		Label:  "ParallaxPlaceholder",
		Texels: []byte{255, 255, 255, 255},
		Width:  1,
		Height: 1,
		Format: material.FormatRGBA8Unorm,
	})
	if err != nil {
		return nil, err
	}
	gm.placeholder = view
	return view, nil
}

// defaultSampler is bound to slots without a sampler of their own.
var defaultSampler = SamplerAsset{Filter: "linear", Wrap: "wrap"}

// samplerOf returns the sampler cfg binds for kind. Unset and unknown
// handles get defaultSampler; ok is false for unknown ones.
func samplerOf(assets *AssetServer, cfg *material.Config, kind material.TextureKind) (SamplerAsset, bool) {
	h := cfg.Sampler(kind)
	if h.IsNone() {
		return defaultSampler, true
	}
	s, ok := assets.Sampler(h)
	if !ok {
		return defaultSampler, false
	}
	return s, true
}

// sampler returns the GPU sampler of desc. Samplers are shared by every
// material with the same description.
func (gm *GpuMaterials) sampler(state *GpuState, desc SamplerAsset) (*wgpu.Sampler, error) {
	if s, ok := gm.samplers[desc]; ok {
		return s, nil
	}
	s, err := gpu.CreateSampler(state.Device, desc.Filter, desc.Wrap)
	if err != nil {
		return nil, err
	}
	gm.samplers[desc] = s
	return s, nil
}

// BindGroup creates the material bind group of h for p.
func (gm *GpuMaterials) BindGroup(state *GpuState, store *MaterialStore, assets *AssetServer, p *gpu.Pipeline, h MaterialHandle) (*wgpu.BindGroup, error) {
	cfg, ok := store.Get(h)
	if !ok {
		return nil, ErrUnknownMaterial
	}
	buf, ok := gm.Uniform(h)
	if !ok {
		return nil, ErrUnknownMaterial
	}
	var tx gpu.MaterialTextures
	for i, slot := range material.Slots {
		view, err := gm.textureView(state, assets, cfg.Texture(slot.Kind))
		if err != nil {
			return nil, err
		}
		desc, _ := samplerOf(assets, &cfg, slot.Kind)
		sampler, err := gm.sampler(state, desc)
		if err != nil {
			return nil, err
		}
		tx.Views[i] = view
		tx.Samplers[i] = sampler
	}
	return gpu.CreateMaterialBindGroup(state.Device, p, buf, &tx)
}

// Release frees every GPU object.
func (gm *GpuMaterials) Release() {
	for h, u := range gm.uniforms {
		u.buffer.Release()
		delete(gm.uniforms, h)
	}
	for h, view := range gm.textures {
		view.Release()
		delete(gm.textures, h)
	}
	if gm.placeholder != nil {
		gm.placeholder.Release()
		gm.placeholder = nil
	}
	for desc, s := range gm.samplers {
		s.Release()
		delete(gm.samplers, desc)
	}
}

func uploadMaterialsSystem(state *GpuState, store *MaterialStore, assets *AssetServer, gm *GpuMaterials, log Logger) {
	gm.syncTextures(assets)
	gm.syncUniforms(state, store, log)
}
