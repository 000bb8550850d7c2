package paramap

import (
	"github.com/gekko3d/paramap/gpu"
	"github.com/gekko3d/paramap/material"
	"github.com/gekko3d/paramap/shaders"
)

// ParallaxMaterialModule installs the parallax material: the shader
// registry with the parallax shader, the MaterialStore and the
// PipelineCache, plus a PreRender system preparing changed materials.
// Requires an AssetServer.
//
// With Gpu set, pipelines are compiled on its device and a Render system
// keeps the material uniforms uploaded. Otherwise Builder is used, falling
// back to a ShaderVariantBuilder.
type ParallaxMaterialModule struct {
	Gpu      *GpuState
	Builder  PipelineBuilder
	Provider material.VariantProvider
}

func (m ParallaxMaterialModule) Install(app *App, cmd *Commands) {
	registry := shaders.NewRegistry()
	handle := registry.Register(shaders.ParallaxShaderName, shaders.ParallaxMapWGSL)

	builder := m.Builder
	switch {
	case m.Gpu != nil:
		builder = &GpuPipelineBuilder{gpu.PipelineBuilder{
			Device:     m.Gpu.Device,
			Shaders:    registry,
			Shader:     handle,
			Target:     m.Gpu.Target,
			ViewLayout: m.Gpu.ViewLayout,
			Provider:   m.Provider,
		}}
	case builder == nil:
		builder = &ShaderVariantBuilder{Shaders: registry, Shader: handle, Provider: m.Provider}
	}

	cmd.AddResources(registry, NewMaterialStore(), NewPipelineCache(builder))
	app.UseSystem(System(prepareMaterialsSystem).InStage(PreRender))

	if m.Gpu != nil {
		cmd.AddResources(m.Gpu, NewGpuMaterials())
		app.UseSystem(System(uploadMaterialsSystem).InStage(Render))
	}
}

func prepareMaterialsSystem(store *MaterialStore, assets *AssetServer, pipelines *PipelineCache, log Logger) {
	for _, h := range store.Prepare(assets, assets.Generation()) {
		p, ok := store.Prepared(h)
		if !ok {
			continue
		}
		for _, kind := range p.Missing {
			if kind == material.HeightMapTexture {
				log.Warnf("material %s: height map is not loaded", h)
				continue
			}
			log.Warnf("material %s: %s texture is not loaded", h, kind)
		}
		if cfg, ok := store.Get(h); ok {
			for _, slot := range material.Slots {
				if _, ok := samplerOf(assets, &cfg, slot.Kind); !ok {
					log.Warnf("material %s: %s sampler is not loaded, using linear filtering", h, slot.Kind)
				}
			}
		}

		before := pipelines.Builds()
		pipeline, err := pipelines.Get(p.Key)
		if err != nil {
			log.Errorf("material %s: %v", h, err)
			continue
		}
		if pipelines.Builds() != before {
			log.Debugf("built pipeline %s for %s", pipeline.Label(), p.Key)
		}
		log.Debugf("prepared material %s (%s, version %d)", h, p.Key, p.Version)
	}
}
