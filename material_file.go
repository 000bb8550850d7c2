package paramap

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gekko3d/paramap/gpu"
	"github.com/gekko3d/paramap/material"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

var ErrMaterialFormat = errors.New("paramap: unsupported material file format")

// materialFile is the on-disk form of a material.Config. Colors are sRGB
// [r, g, b] or [r, g, b, a]; textures are paths relative to the file.
// Unset scalars keep their material.Default value.
type materialFile struct {
	BaseColor                []float32 `toml:"base_color" yaml:"base_color"`
	BaseColorTexture         string    `toml:"base_color_texture" yaml:"base_color_texture"`
	Emissive                 []float32 `toml:"emissive" yaml:"emissive"`
	EmissiveTexture          string    `toml:"emissive_texture" yaml:"emissive_texture"`
	PerceptualRoughness      *float32  `toml:"perceptual_roughness" yaml:"perceptual_roughness"`
	Metallic                 *float32  `toml:"metallic" yaml:"metallic"`
	MetallicRoughnessTexture string    `toml:"metallic_roughness_texture" yaml:"metallic_roughness_texture"`
	Reflectance              *float32  `toml:"reflectance" yaml:"reflectance"`
	NormalMapTexture         string    `toml:"normal_map_texture" yaml:"normal_map_texture"`
	FlipNormalMapY           bool      `toml:"flip_normal_map_y" yaml:"flip_normal_map_y"`
	OcclusionTexture         string    `toml:"occlusion_texture" yaml:"occlusion_texture"`
	DoubleSided              bool      `toml:"double_sided" yaml:"double_sided"`
	CullMode                 string    `toml:"cull_mode" yaml:"cull_mode"`
	Unlit                    bool      `toml:"unlit" yaml:"unlit"`
	AlphaMode                string    `toml:"alpha_mode" yaml:"alpha_mode"`
	AlphaCutoff              *float32  `toml:"alpha_cutoff" yaml:"alpha_cutoff"`
	DepthBias                float32   `toml:"depth_bias" yaml:"depth_bias"`
	HeightMap                string    `toml:"height_map" yaml:"height_map"`
	HeightDepth              *float32  `toml:"height_depth" yaml:"height_depth"`
	MaxHeightLayers          *float32  `toml:"max_height_layers" yaml:"max_height_layers"`
	Algorithm                string    `toml:"algorithm" yaml:"algorithm"`

	// Samplers is keyed by texture kind, e.g. height_map.
	Samplers map[string]samplerFile `toml:"samplers" yaml:"samplers"`
}

type samplerFile struct {
	Filter string `toml:"filter" yaml:"filter"`
	Wrap   string `toml:"wrap" yaml:"wrap"`
}

// Resolver turns the texture paths and sampler descriptions of a material
// file into handles.
type Resolver interface {
	Texture(path string, kind material.TextureKind) (material.TextureHandle, error)
	Sampler(filter, wrap string) (material.SamplerHandle, error)
}

// PathResolver uses the texture paths themselves as handles, and
// "filter/wrap" as sampler handles. It is enough for inspecting material
// files without loading textures.
type PathResolver struct{}

func (PathResolver) Texture(path string, _ material.TextureKind) (material.TextureHandle, error) {
	return material.TextureHandle(path), nil
}

func (PathResolver) Sampler(filter, wrap string) (material.SamplerHandle, error) {
	if _, err := gpu.SamplerDescriptor(filter, wrap); err != nil {
		return "", err
	}
	return material.SamplerHandle(filter + "/" + wrap), nil
}

// assetResolver loads textures and creates samplers in an AssetServer.
// Relative texture paths are resolved against dir.
type assetResolver struct {
	assets *AssetServer
	dir    string
}

func (r assetResolver) Texture(path string, kind material.TextureKind) (material.TextureHandle, error) {
	if !filepath.IsAbs(path) {
		path = filepath.Join(r.dir, path)
	}
	return r.assets.LoadTexture(path, UsageOf(kind))
}

func (r assetResolver) Sampler(filter, wrap string) (material.SamplerHandle, error) {
	return r.assets.CreateSampler(filter, wrap)
}

// LoadMaterialFile reads a .toml, .yaml or .yml material and loads its
// textures and samplers into assets. Texture paths are relative to the
// file's directory.
func LoadMaterialFile(path string, assets *AssetServer) (material.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return material.Config{}, err
	}
	return ParseMaterial(data, filepath.Ext(path), assetResolver{assets: assets, dir: filepath.Dir(path)})
}

// ParseMaterial decodes a material in the format named by ext and validates
// it.
func ParseMaterial(data []byte, ext string, resolve Resolver) (material.Config, error) {
	var f materialFile
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&f); err != nil {
			return material.Config{}, fmt.Errorf("paramap: toml material: %w", err)
		}
	case "yaml", "yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil {
			return material.Config{}, fmt.Errorf("paramap: yaml material: %w", err)
		}
	default:
		return material.Config{}, fmt.Errorf("%w: %q", ErrMaterialFormat, ext)
	}

	cfg, err := f.config(resolve)
	if err != nil {
		return material.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return material.Config{}, err
	}
	return cfg, nil
}

func (f *materialFile) config(resolve Resolver) (material.Config, error) {
	cfg := material.Default("")
	var err error

	if cfg.BaseColor, err = colorOf("base_color", f.BaseColor, cfg.BaseColor); err != nil {
		return cfg, err
	}
	if cfg.Emissive, err = colorOf("emissive", f.Emissive, cfg.Emissive); err != nil {
		return cfg, err
	}
	setIf(&cfg.PerceptualRoughness, f.PerceptualRoughness)
	setIf(&cfg.Metallic, f.Metallic)
	setIf(&cfg.Reflectance, f.Reflectance)
	setIf(&cfg.HeightDepth, f.HeightDepth)
	setIf(&cfg.MaxHeightLayers, f.MaxHeightLayers)
	cfg.FlipNormalMapY = f.FlipNormalMapY
	cfg.DoubleSided = f.DoubleSided
	cfg.Unlit = f.Unlit
	cfg.DepthBias = f.DepthBias

	if cfg.CullMode, err = material.ParseCull(f.CullMode); err != nil {
		return cfg, err
	}
	cutoff := material.DefaultAlphaCutoff
	setIf(&cutoff, f.AlphaCutoff)
	if cfg.AlphaMode, err = material.ParseAlphaMode(f.AlphaMode, cutoff); err != nil {
		return cfg, err
	}
	if cfg.Algorithm, err = material.ParseAlgorithm(f.Algorithm); err != nil {
		return cfg, err
	}

	textures := []struct {
		path string
		kind material.TextureKind
		dst  *material.TextureHandle
	}{
		{f.BaseColorTexture, material.BaseColorTexture, &cfg.BaseColorTexture},
		{f.EmissiveTexture, material.EmissiveTexture, &cfg.EmissiveTexture},
		{f.MetallicRoughnessTexture, material.MetallicRoughnessTexture, &cfg.MetallicRoughnessTexture},
		{f.NormalMapTexture, material.NormalMapTexture, &cfg.NormalMapTexture},
		{f.OcclusionTexture, material.OcclusionTexture, &cfg.OcclusionTexture},
		{f.HeightMap, material.HeightMapTexture, &cfg.HeightMap},
	}
	for _, t := range textures {
		if t.path == "" {
			continue
		}
		if *t.dst, err = resolve.Texture(t.path, t.kind); err != nil {
			return cfg, err
		}
	}

	names := make([]string, 0, len(f.Samplers))
	for name := range f.Samplers {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		kind, err := material.ParseTextureKind(name)
		if err != nil {
			return cfg, err
		}
		s := f.Samplers[name]
		filter, wrap := s.Filter, s.Wrap
		if filter == "" {
			filter = "linear"
		}
		if wrap == "" {
			wrap = "wrap"
		}
		if cfg.Samplers[kind], err = resolve.Sampler(filter, wrap); err != nil {
			return cfg, fmt.Errorf("paramap: %s sampler: %w", name, err)
		}
	}
	return cfg, nil
}

func colorOf(name string, c []float32, def material.Color) (material.Color, error) {
	switch len(c) {
	case 0:
		return def, nil
	case 3:
		return material.RGB(c[0], c[1], c[2]), nil
	case 4:
		return material.RGBA(c[0], c[1], c[2], c[3]), nil
	}
	return def, fmt.Errorf("paramap: %s must have 3 or 4 components, got %d", name, len(c))
}

func setIf(dst *float32, v *float32) {
	if v != nil {
		*dst = *v
	}
}
