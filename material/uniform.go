package material

import (
	"encoding/binary"
	"math"

	"github.com/chewxy/math32"

	"github.com/gekko3d/paramap/parallax"
)

// Flags is the bitfield word of the uniform block.
type Flags uint32

const (
	FlagBaseColorTexture Flags = 1 << iota
	FlagEmissiveTexture
	FlagMetallicRoughnessTexture
	FlagOcclusionTexture
	FlagDoubleSided
	FlagUnlit
	FlagTwoComponentNormalMap
	FlagFlipNormalMapY
	FlagAlphaOpaque
	FlagAlphaMask
	FlagAlphaBlend
	FlagNormalMapTexture
)

// TextureFormat mirrors the WebGPU texture format enumeration.
type TextureFormat uint32

const (
	FormatR8Unorm        TextureFormat = 0x01
	FormatR8Uint         TextureFormat = 0x03
	FormatR16Float       TextureFormat = 0x07
	FormatRG8Unorm       TextureFormat = 0x08
	FormatRG8Snorm       TextureFormat = 0x09
	FormatRGBA8Unorm     TextureFormat = 0x12
	FormatRGBA8UnormSrgb TextureFormat = 0x13
)

// TwoComponent reports whether f stores normals as XY only.
func (f TextureFormat) TwoComponent() bool {
	return f == FormatRG8Unorm || f == FormatRG8Snorm
}

// TextureInfo is what the uniform encoding needs to know about a texture.
type TextureInfo struct {
	Width  uint32
	Height uint32
	Format TextureFormat
}

// TextureLookup resolves non-owning handles. Textures the host has evicted
// are reported missing.
type TextureLookup interface {
	TextureInfo(h TextureHandle) (TextureInfo, bool)
}

// UniformSize is the size in bytes of the uniform block, trailing padding
// included.
const UniformSize = 64

// Uniform is the uniform block of the material. It is laid out as follows:
//
//	[0:16]  | base color, linear RGBA
//	[16:32] | emissive, linear RGBA
//	[32:36] | perceptual roughness
//	[36:40] | metallic
//	[40:44] | reflectance
//	[44:48] | flags
//	[48:52] | alpha cutoff
//	[52:56] | height depth
//	[56:60] | max height layers
//	[60:64] | (padding)
type Uniform struct {
	BaseColor       [4]float32
	Emissive        [4]float32
	Roughness       float32
	Metallic        float32
	Reflectance     float32
	Flags           Flags
	AlphaCutoff     float32
	HeightDepth     float32
	MaxHeightLayers float32
}

// NewUniform flattens c. Optional textures that lookup cannot resolve are
// treated as absent. The layer count is sent already clamped so the shader
// and the CPU search march the same number of layers.
func NewUniform(c *Config, lookup TextureLookup) Uniform {
	u := Uniform{
		BaseColor:       c.BaseColor.Linear(),
		Emissive:        c.Emissive.Linear(),
		Roughness:       c.PerceptualRoughness,
		Metallic:        c.Metallic,
		Reflectance:     c.Reflectance,
		AlphaCutoff:     DefaultAlphaCutoff,
		HeightDepth:     c.HeightDepth,
		MaxHeightLayers: float32(parallax.LayerCount(c.MaxHeightLayers)),
	}
	if math32.IsNaN(u.HeightDepth) {
		u.HeightDepth = 0
	}

	has := func(h TextureHandle) (TextureInfo, bool) {
		if h.IsNone() || lookup == nil {
			return TextureInfo{}, false
		}
		return lookup.TextureInfo(h)
	}
	if _, ok := has(c.BaseColorTexture); ok {
		u.Flags |= FlagBaseColorTexture
	}
	if _, ok := has(c.EmissiveTexture); ok {
		u.Flags |= FlagEmissiveTexture
	}
	if _, ok := has(c.MetallicRoughnessTexture); ok {
		u.Flags |= FlagMetallicRoughnessTexture
	}
	if _, ok := has(c.OcclusionTexture); ok {
		u.Flags |= FlagOcclusionTexture
	}
	if info, ok := has(c.NormalMapTexture); ok {
		u.Flags |= FlagNormalMapTexture
		if info.Format.TwoComponent() {
			u.Flags |= FlagTwoComponentNormalMap
		}
	}
	if c.DoubleSided {
		u.Flags |= FlagDoubleSided
	}
	if c.Unlit {
		u.Flags |= FlagUnlit
	}
	if c.FlipNormalMapY {
		u.Flags |= FlagFlipNormalMapY
	}

	switch c.AlphaMode.Kind {
	case AlphaOpaque:
		u.Flags |= FlagAlphaOpaque
	case AlphaMask:
		u.Flags |= FlagAlphaMask
		u.AlphaCutoff = c.AlphaMode.Cutoff
	case AlphaBlend:
		u.Flags |= FlagAlphaBlend
	}
	return u
}

// Marshal encodes u little-endian in field order, ready for upload.
func (u *Uniform) Marshal() []byte {
	buf := make([]byte, UniformSize)
	for i := range 4 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(u.BaseColor[i]))
		binary.LittleEndian.PutUint32(buf[16+i*4:], math.Float32bits(u.Emissive[i]))
	}
	binary.LittleEndian.PutUint32(buf[32:], math.Float32bits(u.Roughness))
	binary.LittleEndian.PutUint32(buf[36:], math.Float32bits(u.Metallic))
	binary.LittleEndian.PutUint32(buf[40:], math.Float32bits(u.Reflectance))
	binary.LittleEndian.PutUint32(buf[44:], uint32(u.Flags))
	binary.LittleEndian.PutUint32(buf[48:], math.Float32bits(u.AlphaCutoff))
	binary.LittleEndian.PutUint32(buf[52:], math.Float32bits(u.HeightDepth))
	binary.LittleEndian.PutUint32(buf[56:], math.Float32bits(u.MaxHeightLayers))
	return buf
}

// Field describes one member of the uniform block.
type Field struct {
	Name   string
	Offset int
	Size   int
}

// Layout lists the members of Uniform in wire order.
var Layout = [...]Field{
	{"base_color", 0, 16},
	{"emissive", 16, 16},
	{"roughness", 32, 4},
	{"metallic", 36, 4},
	{"reflectance", 40, 4},
	{"flags", 44, 4},
	{"alpha_cutoff", 48, 4},
	{"height_depth", 52, 4},
	{"max_height_layers", 56, 4},
}
