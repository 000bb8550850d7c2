package material

import "fmt"

// TextureKind names the textures a material can bind.
type TextureKind int

const (
	BaseColorTexture TextureKind = iota
	EmissiveTexture
	MetallicRoughnessTexture
	OcclusionTexture
	NormalMapTexture
	HeightMapTexture
)

// NumTextureKinds is the number of texture kinds.
const NumTextureKinds = int(HeightMapTexture) + 1

var textureKindNames = [...]string{
	BaseColorTexture:         "base_color",
	EmissiveTexture:          "emissive",
	MetallicRoughnessTexture: "metallic_roughness",
	OcclusionTexture:         "occlusion",
	NormalMapTexture:         "normal_map",
	HeightMapTexture:         "height_map",
}

func (k TextureKind) String() string {
	if k < 0 || int(k) >= len(textureKindNames) {
		return "unknown"
	}
	return textureKindNames[k]
}

// ParseTextureKind parses the snake_case name String returns.
func ParseTextureKind(s string) (TextureKind, error) {
	for k, name := range textureKindNames {
		if name == s {
			return TextureKind(k), nil
		}
	}
	return 0, fmt.Errorf("%sunknown texture kind %q", errPrefix, s)
}

// UniformBinding is the binding index of the uniform block.
const UniformBinding uint32 = 0

// Slot is the texture/sampler binding pair of a texture kind.
type Slot struct {
	Kind     TextureKind
	Texture  uint32
	Sampler  uint32
	Required bool
}

// Slots lists every texture binding of the material bind group, in binding
// order. The shader declares the same indices.
var Slots = [...]Slot{
	{Kind: BaseColorTexture, Texture: 1, Sampler: 2},
	{Kind: EmissiveTexture, Texture: 3, Sampler: 4},
	{Kind: MetallicRoughnessTexture, Texture: 5, Sampler: 6},
	{Kind: OcclusionTexture, Texture: 7, Sampler: 8},
	{Kind: NormalMapTexture, Texture: 9, Sampler: 10},
	{Kind: HeightMapTexture, Texture: 11, Sampler: 12, Required: true},
}

// SlotFor returns the binding pair of k.
func SlotFor(k TextureKind) (Slot, bool) {
	for _, s := range Slots {
		if s.Kind == k {
			return s, true
		}
	}
	return Slot{}, false
}

// Texture returns the handle c binds for k.
func (c *Config) Texture(k TextureKind) TextureHandle {
	switch k {
	case BaseColorTexture:
		return c.BaseColorTexture
	case EmissiveTexture:
		return c.EmissiveTexture
	case MetallicRoughnessTexture:
		return c.MetallicRoughnessTexture
	case OcclusionTexture:
		return c.OcclusionTexture
	case NormalMapTexture:
		return c.NormalMapTexture
	case HeightMapTexture:
		return c.HeightMap
	}
	return ""
}

// Sampler returns the sampler c binds for k. The zero handle selects linear
// filtering with repeat addressing.
func (c *Config) Sampler(k TextureKind) SamplerHandle {
	if k < 0 || int(k) >= NumTextureKinds {
		return ""
	}
	return c.Samplers[k]
}
