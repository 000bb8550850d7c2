package gpu

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/paramap/material"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCullMode(t *testing.T) {
	assert.Equal(t, wgpu.CullModeNone, CullMode(material.CullNone))
	assert.Equal(t, wgpu.CullModeFront, CullMode(material.CullFront))
	assert.Equal(t, wgpu.CullModeBack, CullMode(material.CullBack))
}

func TestTextureFormat(t *testing.T) {
	assert.Equal(t, wgpu.TextureFormatR8Unorm, TextureFormat(material.FormatR8Unorm))
	assert.Equal(t, wgpu.TextureFormatRG8Unorm, TextureFormat(material.FormatRG8Unorm))
	assert.Equal(t, wgpu.TextureFormatRGBA8Unorm, TextureFormat(material.FormatRGBA8Unorm))
	assert.Equal(t, wgpu.TextureFormatRGBA8UnormSrgb, TextureFormat(material.FormatRGBA8UnormSrgb))
	assert.Equal(t, wgpu.TextureFormatR16Float, TextureFormat(material.FormatR16Float))

	bpp, err := BytesPerPixel(wgpu.TextureFormatRGBA8UnormSrgb)
	require.NoError(t, err)
	assert.Equal(t, uint32(4), bpp)
	bpp, err = BytesPerPixel(wgpu.TextureFormatRG8Snorm)
	require.NoError(t, err)
	assert.Equal(t, uint32(2), bpp)
	_, err = BytesPerPixel(wgpu.TextureFormatDepth24Plus)
	assert.Error(t, err)
}

func TestMaterialBindGroupLayout(t *testing.T) {
	entries := MaterialBindGroupLayout()
	require.Len(t, entries, 13)

	for i, e := range entries {
		assert.Equal(t, uint32(i), e.Binding)
		assert.Equal(t, wgpu.ShaderStageFragment, e.Visibility)
	}
	assert.Equal(t, wgpu.BufferBindingTypeUniform, entries[0].Buffer.Type)
	assert.Equal(t, uint64(material.UniformSize), entries[0].Buffer.MinBindingSize)

	height, ok := material.SlotFor(material.HeightMapTexture)
	require.True(t, ok)
	assert.Equal(t, wgpu.TextureViewDimension2D, entries[height.Texture].Texture.ViewDimension)
	assert.Equal(t, wgpu.SamplerBindingTypeFiltering, entries[height.Sampler].Sampler.Type)
}

func TestVertexBufferLayout(t *testing.T) {
	layout, err := VertexBufferLayout(Vertex{})
	require.NoError(t, err)
	assert.Equal(t, uint64(48), layout.ArrayStride)
	require.Len(t, layout.Attributes, 4)
	assert.Equal(t, wgpu.VertexAttribute{Format: wgpu.VertexFormatFloat32x2, Offset: 24, ShaderLocation: 2}, layout.Attributes[2])
	assert.Equal(t, wgpu.VertexAttribute{Format: wgpu.VertexFormatFloat32x4, Offset: 32, ShaderLocation: 3}, layout.Attributes[3])

	type padded struct {
		Skip [2]float32
		Pos  [3]float32 `paramap:"layout" format:"float3" location:"0"`
	}
	layout, err = VertexBufferLayout(padded{})
	require.NoError(t, err)
	assert.Equal(t, uint64(20), layout.ArrayStride)
	assert.Equal(t, uint64(8), layout.Attributes[0].Offset)

	_, err = VertexBufferLayout(3)
	assert.Error(t, err)
	type bad struct {
		Pos [3]float32 `paramap:"layout" format:"half3" location:"0"`
	}
	_, err = VertexBufferLayout(bad{})
	assert.Error(t, err)
}

func TestSpecialize(t *testing.T) {
	desc, err := BaseDescriptor("mesh_pipeline", nil, nil, Target{ColorFormat: wgpu.TextureFormatBGRA8UnormSrgb})
	require.NoError(t, err)
	assert.Nil(t, desc.DepthStencil)
	assert.Equal(t, uint32(1), desc.Multisample.Count)

	Specialize(desc, material.VariantKey{ReliefMapping: true, CullMode: material.CullFront}.State())
	assert.Equal(t, "parallax_mesh_pipeline", desc.Label)
	assert.Equal(t, wgpu.CullModeFront, desc.Primitive.CullMode)

	desc, err = BaseDescriptor("", nil, nil, Target{DepthFormat: wgpu.TextureFormatDepth24Plus, SampleCount: 4})
	require.NoError(t, err)
	Specialize(desc, material.VariantKey{CullMode: material.CullNone}.State())
	assert.Equal(t, "", desc.Label)
	assert.Equal(t, wgpu.CullModeNone, desc.Primitive.CullMode)
	require.NotNil(t, desc.DepthStencil)
	assert.Equal(t, wgpu.CompareFunctionLess, desc.DepthStencil.DepthCompare)
	assert.Equal(t, uint32(4), desc.Multisample.Count)
}

func TestSamplerDescriptor(t *testing.T) {
	desc, err := SamplerDescriptor("nearest", "clamp")
	require.NoError(t, err)
	assert.Equal(t, wgpu.FilterModeNearest, desc.MagFilter)
	assert.Equal(t, wgpu.AddressModeClampToEdge, desc.AddressModeV)

	desc, err = SamplerDescriptor("", "")
	require.NoError(t, err)
	assert.Equal(t, wgpu.FilterModeLinear, desc.MinFilter)
	assert.Equal(t, wgpu.AddressModeRepeat, desc.AddressModeU)

	_, err = SamplerDescriptor("cubic", "wrap")
	assert.Error(t, err)
	_, err = SamplerDescriptor("linear", "border")
	assert.Error(t, err)
}

func TestMaterialBindGroupEntries_RequiresEverySlot(t *testing.T) {
	_, err := MaterialBindGroupEntries(nil, &MaterialTextures{})
	assert.ErrorContains(t, err, "base_color")
}
