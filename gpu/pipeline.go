package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/paramap/material"
	"github.com/gekko3d/paramap/shaders"
)

// Target is the attachment configuration pipelines are built for.
type Target struct {
	ColorFormat wgpu.TextureFormat
	// DepthFormat is optional; the zero value builds without depth testing.
	DepthFormat wgpu.TextureFormat
	SampleCount uint32
}

// Specialize applies a variant's pipeline state to desc. The defines must
// already have been applied to the shader source of desc.
func Specialize(desc *wgpu.RenderPipelineDescriptor, state material.PipelineState) {
	desc.Primitive.CullMode = CullMode(state.CullMode)
	desc.Label = state.Label(desc.Label)
}

// BaseDescriptor is the unspecialized parallax pipeline: triangle lists of
// Vertex, counter-clockwise front faces and alpha blending on the single
// color target. Opaque and masked materials write alpha 1.
func BaseDescriptor(label string, module *wgpu.ShaderModule, layout *wgpu.PipelineLayout, target Target) (*wgpu.RenderPipelineDescriptor, error) {
	vertexLayout, err := VertexBufferLayout(Vertex{})
	if err != nil {
		return nil, err
	}
	samples := target.SampleCount
	if samples == 0 {
		samples = 1
	}

	desc := &wgpu.RenderPipelineDescriptor{
		Label:  label,
		Layout: layout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: shaders.VertexEntryPoint,
			Buffers:    []wgpu.VertexBufferLayout{vertexLayout},
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: shaders.FragmentEntryPoint,
			Targets: []wgpu.ColorTargetState{
				{
					Format:    target.ColorFormat,
					WriteMask: wgpu.ColorWriteMaskAll,
					Blend: &wgpu.BlendState{
						Color: wgpu.BlendComponent{
							Operation: wgpu.BlendOperationAdd,
							SrcFactor: wgpu.BlendFactorSrcAlpha,
							DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
						},
						Alpha: wgpu.BlendComponent{
							Operation: wgpu.BlendOperationAdd,
							SrcFactor: wgpu.BlendFactorOne,
							DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
						},
					},
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeBack,
		},
		Multisample: wgpu.MultisampleState{
			Count: samples,
			Mask:  0xFFFFFFFF,
		},
	}
	if target.DepthFormat != 0 {
		desc.DepthStencil = &wgpu.DepthStencilState{
			Format:            target.DepthFormat,
			DepthWriteEnabled: true,
			DepthCompare:      wgpu.CompareFunctionLess,
			StencilFront:      wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
			StencilBack:       wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
		}
	}
	return desc, nil
}

// Pipeline is a compiled variant of the parallax material.
type Pipeline struct {
	Key            material.VariantKey
	Render         *wgpu.RenderPipeline
	MaterialLayout *wgpu.BindGroupLayout
	label          string
}

func (p *Pipeline) Label() string { return p.label }

func (p *Pipeline) Release() {
	if p.Render != nil {
		p.Render.Release()
	}
	if p.MaterialLayout != nil {
		p.MaterialLayout.Release()
	}
}

// PipelineBuilder compiles parallax pipelines on a device. ViewLayout is the
// host's group 0 layout; when nil, one is created from ViewBindGroupLayout.
type PipelineBuilder struct {
	Device     *wgpu.Device
	Shaders    *shaders.Registry
	Shader     shaders.Handle
	Target     Target
	ViewLayout *wgpu.BindGroupLayout
	Provider   material.VariantProvider
	Label      string
}

// Build compiles the pipeline of key.
func (b *PipelineBuilder) Build(key material.VariantKey) (*Pipeline, error) {
	provider := b.Provider
	if provider == nil {
		provider = material.DefaultProvider{}
	}
	state := provider.Specialize(key)

	src, err := b.Shaders.Variant(b.Shader, state.Defines)
	if err != nil {
		return nil, err
	}
	module, err := b.Device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          state.Label(shaders.ParallaxShaderName),
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: src},
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: shader module for %s: %w", key, err)
	}
	defer module.Release()

	viewLayout := b.ViewLayout
	if viewLayout == nil {
		viewLayout, err = b.Device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
			Label:   "ParallaxViewBGL",
			Entries: ViewBindGroupLayout(),
		})
		if err != nil {
			return nil, err
		}
		defer viewLayout.Release()
	}
	materialLayout, err := b.Device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   "ParallaxMaterialBGL",
		Entries: MaterialBindGroupLayout(),
	})
	if err != nil {
		return nil, err
	}
	pipelineLayout, err := b.Device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		BindGroupLayouts: []*wgpu.BindGroupLayout{viewLayout, materialLayout},
	})
	if err != nil {
		materialLayout.Release()
		return nil, err
	}
	defer pipelineLayout.Release()

	label := b.Label
	if label == "" {
		label = "material_pipeline"
	}
	desc, err := BaseDescriptor(label, module, pipelineLayout, b.Target)
	if err != nil {
		materialLayout.Release()
		return nil, err
	}
	Specialize(desc, state)

	render, err := b.Device.CreateRenderPipeline(desc)
	if err != nil {
		materialLayout.Release()
		return nil, fmt.Errorf("gpu: pipeline %s: %w", desc.Label, err)
	}
	return &Pipeline{Key: key, Render: render, MaterialLayout: materialLayout, label: desc.Label}, nil
}
