package paramap

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"sync"

	"github.com/gekko3d/paramap/gpu"
	"github.com/gekko3d/paramap/material"
	"github.com/gekko3d/paramap/parallax"
	"github.com/google/uuid"
	"github.com/x448/float16"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var ErrUnknownTexture = errors.New("assets: unknown texture")

// TextureUsage selects how LoadTexture stores a decoded image.
type TextureUsage int

const (
	// ColorTexture is stored as sRGB RGBA8.
	ColorTexture TextureUsage = iota
	// DataTexture is stored as linear RGBA8.
	DataTexture
	// HeightTexture keeps the luminance only: R8, or R16Float for 16-bit
	// sources.
	HeightTexture
)

// UsageOf returns the usage of the textures bound for kind.
func UsageOf(kind material.TextureKind) TextureUsage {
	switch kind {
	case material.BaseColorTexture, material.EmissiveTexture:
		return ColorTexture
	case material.HeightMapTexture:
		return HeightTexture
	}
	return DataTexture
}

// TextureAsset is a tightly packed 2D texture in host memory.
type TextureAsset struct {
	texels []uint8
	width  uint32
	height uint32
	format material.TextureFormat
	label  string
}

func (t TextureAsset) Width() uint32                  { return t.width }
func (t TextureAsset) Height() uint32                 { return t.height }
func (t TextureAsset) Format() material.TextureFormat { return t.format }
func (t TextureAsset) Texels() []uint8                { return t.texels }

// Data returns t as an upload descriptor.
func (t TextureAsset) Data() gpu.TextureData {
	return gpu.TextureData{Label: t.label, Texels: t.texels, Width: t.width, Height: t.height, Format: t.format}
}

type SamplerAsset struct {
	Filter string
	Wrap   string
}

// AssetServer owns the textures and samplers materials refer to. Materials
// hold handles only: an evicted texture stops being bound on the next
// prepare. Safe for concurrent use.
type AssetServer struct {
	mu         sync.RWMutex
	textures   map[material.TextureHandle]TextureAsset
	samplers   map[material.SamplerHandle]SamplerAsset
	generation uint64
}

type AssetServerModule struct{}

func NewAssetServer() *AssetServer {
	return &AssetServer{
		textures: make(map[material.TextureHandle]TextureAsset),
		samplers: make(map[material.SamplerHandle]SamplerAsset),
	}
}

func (AssetServerModule) Install(app *App, cmd *Commands) {
	app.addResources(NewAssetServer())
}

func bytesPerTexel(format material.TextureFormat) (int, error) {
	switch format {
	case material.FormatR8Unorm, material.FormatR8Uint:
		return 1, nil
	case material.FormatRG8Unorm, material.FormatRG8Snorm, material.FormatR16Float:
		return 2, nil
	case material.FormatRGBA8Unorm, material.FormatRGBA8UnormSrgb:
		return 4, nil
	}
	return 0, fmt.Errorf("assets: unsupported texture format %#x", uint32(format))
}

// CreateTexture stores texels, texWidth*texHeight texels of format.
func (server *AssetServer) CreateTexture(texels []uint8, texWidth uint32, texHeight uint32, format material.TextureFormat) (material.TextureHandle, error) {
	bpp, err := bytesPerTexel(format)
	if err != nil {
		return "", err
	}
	if want := int(texWidth) * int(texHeight) * bpp; len(texels) != want || want == 0 {
		return "", fmt.Errorf("assets: %dx%d texture needs %d bytes, got %d", texWidth, texHeight, want, len(texels))
	}

	id := makeTextureHandle()
	server.mu.Lock()
	server.textures[id] = TextureAsset{
		texels: texels,
		width:  texWidth,
		height: texHeight,
		format: format,
		label:  string(id),
	}
	server.mu.Unlock()
	return id, nil
}

// LoadTexture decodes a png, jpeg, gif, bmp, tiff or webp file and stores
// it the way usage is sampled. Grayscale color and data textures are
// expanded to RGBA8.
func (server *AssetServer) LoadTexture(filename string, usage TextureUsage) (material.TextureHandle, error) {
	file, err := os.Open(filename)
	if err != nil {
		return "", err
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return "", fmt.Errorf("assets: decode %s: %w", filename, err)
	}

	texels, format := imageTexels(img, usage)
	b := img.Bounds()
	id, err := server.CreateTexture(texels, uint32(b.Dx()), uint32(b.Dy()), format)
	if err != nil {
		return "", fmt.Errorf("assets: %s: %w", filename, err)
	}
	server.mu.Lock()
	t := server.textures[id]
	t.label = filename
	server.textures[id] = t
	server.mu.Unlock()
	return id, nil
}

func imageTexels(img image.Image, usage TextureUsage) ([]uint8, material.TextureFormat) {
	bounds := img.Bounds()
	rect := image.Rect(0, 0, bounds.Dx(), bounds.Dy())

	if usage == HeightTexture {
		switch img.(type) {
		case *image.Gray16, *image.RGBA64, *image.NRGBA64:
			gray := image.NewGray16(rect)
			draw.Draw(gray, rect, img, bounds.Min, draw.Src)
			return halfTexels(gray), material.FormatR16Float
		}
		gray := image.NewGray(rect)
		draw.Draw(gray, rect, img, bounds.Min, draw.Src)
		return gray.Pix, material.FormatR8Unorm
	}

	rgba := image.NewNRGBA(rect)
	draw.Draw(rgba, rect, img, bounds.Min, draw.Src)
	if usage == ColorTexture {
		return rgba.Pix, material.FormatRGBA8UnormSrgb
	}
	return rgba.Pix, material.FormatRGBA8Unorm
}

// halfTexels converts 16-bit luminance to little-endian half floats in
// [0, 1].
func halfTexels(gray *image.Gray16) []uint8 {
	w, h := gray.Rect.Dx(), gray.Rect.Dy()
	texels := make([]uint8, 0, 2*w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := float32(gray.Gray16At(x, y).Y) / 0xffff
			texels = binary.LittleEndian.AppendUint16(texels, float16.Fromfloat32(v).Bits())
		}
	}
	return texels
}

// CreateSampler stores a sampler description; filter and wrap use the
// names accepted by gpu.FilterMode and gpu.AddressMode.
func (server *AssetServer) CreateSampler(filter, wrap string) (material.SamplerHandle, error) {
	if _, err := gpu.SamplerDescriptor(filter, wrap); err != nil {
		return "", err
	}
	id := material.SamplerHandle(uuid.NewString())
	server.mu.Lock()
	server.samplers[id] = SamplerAsset{Filter: filter, Wrap: wrap}
	server.mu.Unlock()
	return id, nil
}

func (server *AssetServer) Sampler(id material.SamplerHandle) (SamplerAsset, bool) {
	server.mu.RLock()
	defer server.mu.RUnlock()
	s, ok := server.samplers[id]
	return s, ok
}

func (server *AssetServer) Texture(h material.TextureHandle) (TextureAsset, bool) {
	server.mu.RLock()
	defer server.mu.RUnlock()
	t, ok := server.textures[h]
	return t, ok
}

// TextureInfo implements material.TextureLookup.
func (server *AssetServer) TextureInfo(h material.TextureHandle) (material.TextureInfo, bool) {
	t, ok := server.Texture(h)
	if !ok {
		return material.TextureInfo{}, false
	}
	return material.TextureInfo{Width: t.width, Height: t.height, Format: t.format}, true
}

// Evict drops a texture. It reports whether h was present.
func (server *AssetServer) Evict(h material.TextureHandle) bool {
	server.mu.Lock()
	defer server.mu.Unlock()
	if _, ok := server.textures[h]; !ok {
		return false
	}
	delete(server.textures, h)
	server.generation++
	return true
}

// Generation changes every time a texture is evicted.
func (server *AssetServer) Generation() uint64 {
	server.mu.RLock()
	defer server.mu.RUnlock()
	return server.generation
}

// HeightField wraps the first channel of a texture for CPU displacement.
func (server *AssetServer) HeightField(h material.TextureHandle, filter parallax.Filter) (*parallax.TexelField, error) {
	t, ok := server.Texture(h)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTexture, h)
	}
	if t.format == material.FormatR16Float {
		return parallax.NewHalfField(int(t.width), int(t.height), t.texels, filter)
	}
	channels, err := bytesPerTexel(t.format)
	if err != nil {
		return nil, err
	}
	return parallax.NewTexelField(int(t.width), int(t.height), channels, t.texels, filter)
}

func makeTextureHandle() material.TextureHandle {
	return material.TextureHandle(uuid.NewString())
}
