package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/paramap/material"
)

// TextureData is a tightly packed 2D texture.
type TextureData struct {
	Label  string
	Texels []byte
	Width  uint32
	Height uint32
	Format material.TextureFormat
}

// CreateTexture uploads t and returns a view of it.
func CreateTexture(device *wgpu.Device, queue *wgpu.Queue, t TextureData) (*wgpu.TextureView, error) {
	format := TextureFormat(t.Format)
	bpp, err := BytesPerPixel(format)
	if err != nil {
		return nil, err
	}
	if want := int(t.Width * t.Height * bpp); len(t.Texels) != want {
		return nil, fmt.Errorf("gpu: texture %q has %d bytes, want %d", t.Label, len(t.Texels), want)
	}

	extent := wgpu.Extent3D{
		Width:              t.Width,
		Height:             t.Height,
		DepthOrArrayLayers: 1,
	}
	texture, err := device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         t.Label,
		Size:          extent,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        format,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, err
	}
	defer texture.Release()

	view, err := texture.CreateView(nil)
	if err != nil {
		return nil, err
	}
	err = queue.WriteTexture(
		texture.AsImageCopy(),
		t.Texels,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  t.Width * bpp,
			RowsPerImage: t.Height,
		},
		&extent,
	)
	if err != nil {
		view.Release()
		return nil, err
	}
	return view, nil
}

// SamplerDescriptor builds a sampler descriptor from filter and wrap names.
func SamplerDescriptor(filter, wrap string) (*wgpu.SamplerDescriptor, error) {
	f, err := FilterMode(filter)
	if err != nil {
		return nil, err
	}
	w, err := AddressMode(wrap)
	if err != nil {
		return nil, err
	}
	return &wgpu.SamplerDescriptor{
		AddressModeU:  w,
		AddressModeV:  w,
		AddressModeW:  w,
		MagFilter:     f,
		MinFilter:     f,
		MipmapFilter:  wgpu.MipmapFilterModeLinear,
		LodMaxClamp:   32,
		MaxAnisotropy: 1,
	}, nil
}

// CreateSampler creates a sampler from filter and wrap names.
func CreateSampler(device *wgpu.Device, filter, wrap string) (*wgpu.Sampler, error) {
	desc, err := SamplerDescriptor(filter, wrap)
	if err != nil {
		return nil, err
	}
	return device.CreateSampler(desc)
}

// CreateUniformBuffer allocates a material uniform buffer initialized with u.
func CreateUniformBuffer(device *wgpu.Device, label string, u *material.Uniform) (*wgpu.Buffer, error) {
	return device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    label,
		Contents: u.Marshal(),
		Usage:    wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
}

// WriteUniform re-uploads u into buf.
func WriteUniform(queue *wgpu.Queue, buf *wgpu.Buffer, u *material.Uniform) error {
	return queue.WriteBuffer(buf, 0, u.Marshal())
}

// MaterialTextures are the views and samplers bound to material.Slots, in
// slot order. Absent optional textures must be bound to a placeholder view.
type MaterialTextures struct {
	Views    [len(material.Slots)]*wgpu.TextureView
	Samplers [len(material.Slots)]*wgpu.Sampler
}

// MaterialBindGroupEntries lists the group 1 entries of a material.
func MaterialBindGroupEntries(uniform *wgpu.Buffer, tx *MaterialTextures) ([]wgpu.BindGroupEntry, error) {
	entries := []wgpu.BindGroupEntry{{
		Binding: material.UniformBinding,
		Buffer:  uniform,
		Size:    wgpu.WholeSize,
	}}
	for i, s := range material.Slots {
		if tx.Views[i] == nil || tx.Samplers[i] == nil {
			return nil, fmt.Errorf("gpu: no %s texture bound", s.Kind)
		}
		entries = append(entries,
			wgpu.BindGroupEntry{Binding: s.Texture, TextureView: tx.Views[i], Size: wgpu.WholeSize},
			wgpu.BindGroupEntry{Binding: s.Sampler, Sampler: tx.Samplers[i], Size: wgpu.WholeSize},
		)
	}
	return entries, nil
}

// CreateMaterialBindGroup creates the group 1 bind group of a material for p.
func CreateMaterialBindGroup(device *wgpu.Device, p *Pipeline, uniform *wgpu.Buffer, tx *MaterialTextures) (*wgpu.BindGroup, error) {
	entries, err := MaterialBindGroupEntries(uniform, tx)
	if err != nil {
		return nil, err
	}
	return device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Layout:  p.MaterialLayout,
		Entries: entries,
	})
}
