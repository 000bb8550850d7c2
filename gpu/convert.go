// Package gpu turns parallax materials into WebGPU objects: bind group
// layouts, specialized render pipelines, uniform buffers, textures and
// samplers.
package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/paramap/material"
)

// CullMode maps a material cull mode to the rasterizer state.
func CullMode(c material.Cull) wgpu.CullMode {
	switch c {
	case material.CullNone:
		return wgpu.CullModeNone
	case material.CullFront:
		return wgpu.CullModeFront
	}
	return wgpu.CullModeBack
}

// TextureFormat converts a material texture format. The numeric values are
// shared with WebGPU.
func TextureFormat(f material.TextureFormat) wgpu.TextureFormat {
	return wgpu.TextureFormat(f)
}

// BytesPerPixel returns the texel size of the uncompressed formats textures
// are uploaded with.
func BytesPerPixel(format wgpu.TextureFormat) (uint32, error) {
	switch format {
	case wgpu.TextureFormatR8Unorm, wgpu.TextureFormatR8Snorm,
		wgpu.TextureFormatR8Uint, wgpu.TextureFormatR8Sint:
		return 1, nil
	case wgpu.TextureFormatR16Uint, wgpu.TextureFormatR16Sint, wgpu.TextureFormatR16Float,
		wgpu.TextureFormatRG8Unorm, wgpu.TextureFormatRG8Snorm,
		wgpu.TextureFormatRG8Uint, wgpu.TextureFormatRG8Sint:
		return 2, nil
	case wgpu.TextureFormatR32Float, wgpu.TextureFormatR32Uint, wgpu.TextureFormatR32Sint,
		wgpu.TextureFormatRG16Uint, wgpu.TextureFormatRG16Sint, wgpu.TextureFormatRG16Float,
		wgpu.TextureFormatRGBA8Unorm, wgpu.TextureFormatRGBA8UnormSrgb,
		wgpu.TextureFormatRGBA8Snorm, wgpu.TextureFormatRGBA8Uint, wgpu.TextureFormatRGBA8Sint,
		wgpu.TextureFormatBGRA8Unorm, wgpu.TextureFormatBGRA8UnormSrgb:
		return 4, nil
	case wgpu.TextureFormatRG32Float, wgpu.TextureFormatRG32Uint, wgpu.TextureFormatRG32Sint,
		wgpu.TextureFormatRGBA16Uint, wgpu.TextureFormatRGBA16Sint, wgpu.TextureFormatRGBA16Float:
		return 8, nil
	case wgpu.TextureFormatRGBA32Float, wgpu.TextureFormatRGBA32Uint, wgpu.TextureFormatRGBA32Sint:
		return 16, nil
	}
	return 0, fmt.Errorf("gpu: unsupported texture format %v", format)
}

// AddressMode parses "wrap", "mirror" or "clamp".
func AddressMode(mode string) (wgpu.AddressMode, error) {
	switch mode {
	case "", "wrap":
		return wgpu.AddressModeRepeat, nil
	case "mirror":
		return wgpu.AddressModeMirrorRepeat, nil
	case "clamp":
		return wgpu.AddressModeClampToEdge, nil
	}
	return 0, fmt.Errorf("gpu: unknown wrap mode %q", mode)
}

// FilterMode parses "nearest" or "linear".
func FilterMode(mode string) (wgpu.FilterMode, error) {
	switch mode {
	case "nearest":
		return wgpu.FilterModeNearest, nil
	case "", "linear":
		return wgpu.FilterModeLinear, nil
	}
	return 0, fmt.Errorf("gpu: unknown filter mode %q", mode)
}

// VertexFormat parses the format tag of a vertex field.
func VertexFormat(name string) (wgpu.VertexFormat, error) {
	switch name {
	case "float2":
		return wgpu.VertexFormatFloat32x2, nil
	case "float3":
		return wgpu.VertexFormatFloat32x3, nil
	case "float4":
		return wgpu.VertexFormatFloat32x4, nil
	}
	return 0, fmt.Errorf("gpu: unsupported vertex format %q", name)
}
