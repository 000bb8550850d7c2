// Package material defines the parallax material: its configuration, the
// uniform block consumed by the fragment shader, the texture bind slots and
// the shader variant selection.
package material

import (
	"fmt"
	"strings"
)

// TextureHandle identifies a texture owned by the host asset system. It
// does not keep the texture alive; the zero value refers to no texture.
type TextureHandle string

// IsNone reports whether h refers to no texture.
func (h TextureHandle) IsNone() bool { return h == "" }

// SamplerHandle refers to a sampler description owned by the host.
type SamplerHandle string

func (h SamplerHandle) IsNone() bool { return h == "" }

// Algorithm is the refinement applied after the steep parallax search.
type Algorithm int

const (
	// ParallaxOcclusionMapping interpolates between the two bracketing
	// layers. No extra texture sample.
	ParallaxOcclusionMapping Algorithm = iota
	// ReliefMapping bisects the bracketing layers a fixed number of times,
	// one texture sample per iteration.
	ReliefMapping
)

func (a Algorithm) String() string {
	switch a {
	case ParallaxOcclusionMapping:
		return "pom"
	case ReliefMapping:
		return "relief"
	}
	return fmt.Sprintf("Algorithm(%d)", int(a))
}

// ParseAlgorithm accepts the String forms and the long names.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "pom", "parallax_occlusion_mapping", "parallaxocclusionmapping":
		return ParallaxOcclusionMapping, nil
	case "relief", "relief_mapping", "reliefmapping":
		return ReliefMapping, nil
	}
	return 0, fmt.Errorf("%sunknown algorithm %q", errPrefix, s)
}

// Cull selects which faces the rasterizer discards.
type Cull int

const (
	CullNone Cull = iota
	CullFront
	CullBack
)

func (c Cull) String() string {
	switch c {
	case CullNone:
		return "none"
	case CullFront:
		return "front"
	case CullBack:
		return "back"
	}
	return fmt.Sprintf("Cull(%d)", int(c))
}

// ParseCull parses "none", "front" or "back".
func ParseCull(s string) (Cull, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "off":
		return CullNone, nil
	case "front":
		return CullFront, nil
	case "", "back":
		return CullBack, nil
	}
	return 0, fmt.Errorf("%sunknown cull mode %q", errPrefix, s)
}

// AlphaKind is how the base color alpha is interpreted.
type AlphaKind int

const (
	// Alpha is ignored and forced to 1.
	AlphaOpaque AlphaKind = iota
	// Fully opaque above Cutoff, fully transparent below.
	AlphaMask
	// Composited with the background.
	AlphaBlend
)

// DefaultAlphaCutoff is the cutoff reported for non-mask modes.
const DefaultAlphaCutoff float32 = 0.5

// AlphaMode is an AlphaKind plus the mask threshold.
type AlphaMode struct {
	Kind   AlphaKind
	Cutoff float32
}

func Opaque() AlphaMode { return AlphaMode{Kind: AlphaOpaque} }

func Blend() AlphaMode { return AlphaMode{Kind: AlphaBlend} }

func Mask(cutoff float32) AlphaMode { return AlphaMode{Kind: AlphaMask, Cutoff: cutoff} }

func (m AlphaMode) String() string {
	switch m.Kind {
	case AlphaOpaque:
		return "opaque"
	case AlphaBlend:
		return "blend"
	case AlphaMask:
		return fmt.Sprintf("mask(%g)", m.Cutoff)
	}
	return fmt.Sprintf("AlphaKind(%d)", int(m.Kind))
}

// ParseAlphaMode parses "opaque", "blend" or "mask"; cutoff is only used by
// mask.
func ParseAlphaMode(s string, cutoff float32) (AlphaMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "opaque":
		return Opaque(), nil
	case "blend":
		return Blend(), nil
	case "mask":
		return Mask(cutoff), nil
	}
	return AlphaMode{}, fmt.Errorf("%sunknown alpha mode %q", errPrefix, s)
}

// Config is the parallax material: a standard PBR material plus a height map
// driving the displacement. Meshes using it must carry tangents.
type Config struct {
	// BaseColor is multiplied with BaseColorTexture when both are set.
	BaseColor        Color
	BaseColorTexture TextureHandle

	// Emissive is added to the shaded color; it does not light the scene.
	Emissive        Color
	EmissiveTexture TextureHandle

	// PerceptualRoughness is clamped to [0.089, 1] by the shader.
	PerceptualRoughness float32
	Metallic            float32
	// MetallicRoughnessTexture holds metallic in blue and roughness in green.
	MetallicRoughnessTexture TextureHandle
	// Reflectance is the specular intensity of non-metals; 0.5 maps to 4%.
	Reflectance float32

	NormalMapTexture TextureHandle
	// FlipNormalMapY converts DirectX-authored normal maps.
	FlipNormalMapY bool

	OcclusionTexture TextureHandle

	DoubleSided bool
	CullMode    Cull
	Unlit       bool
	AlphaMode   AlphaMode
	DepthBias   float32

	// HeightMap is required. Black is the tallest point, white the deepest.
	// Nearest filtering through Samplers[HeightMapTexture] is cheaper and
	// usually looks the same.
	HeightMap TextureHandle
	// HeightDepth is the depth of the displacement volume in UV units.
	// Values above 0.1 tend to look distorted.
	HeightDepth float32
	// MaxHeightLayers is the steep search layer count. Raise it if edges look
	// jagged with a large HeightDepth. Must be at least 2.
	MaxHeightLayers float32
	// Algorithm is part of the variant key: prefer one algorithm for all
	// materials to avoid compiling both shaders.
	Algorithm Algorithm

	// Samplers overrides the sampler of a texture kind.
	Samplers [NumTextureKinds]SamplerHandle
}

// Default returns the default material with the given height map.
func Default(heightMap TextureHandle) Config {
	return Config{
		BaseColor:           White,
		Emissive:            Black,
		PerceptualRoughness: 0.089,
		Metallic:            0.01,
		Reflectance:         0.5,
		CullMode:            CullBack,
		AlphaMode:           Opaque(),
		HeightMap:           heightMap,
		HeightDepth:         0.1,
		MaxHeightLayers:     16,
		Algorithm:           ParallaxOcclusionMapping,
	}
}
