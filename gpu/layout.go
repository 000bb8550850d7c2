package gpu

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/paramap/material"
)

// Bind group indices used by the parallax shader.
const (
	ViewGroup     = 0
	MaterialGroup = 1
)

// Sizes of the view group uniforms.
const (
	ViewUniformSize = 80
	MeshUniformSize = 64
)

// ViewBindGroupLayout describes group 0: the camera and the mesh transform.
func ViewBindGroupLayout() []wgpu.BindGroupLayoutEntry {
	return []wgpu.BindGroupLayoutEntry{
		{
			Binding:    0,
			Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
			Buffer: wgpu.BufferBindingLayout{
				Type:           wgpu.BufferBindingTypeUniform,
				MinBindingSize: ViewUniformSize,
			},
		},
		{
			Binding:    1,
			Visibility: wgpu.ShaderStageVertex,
			Buffer: wgpu.BufferBindingLayout{
				Type:           wgpu.BufferBindingTypeUniform,
				MinBindingSize: MeshUniformSize,
			},
		},
	}
}

// MaterialBindGroupLayout describes group 1: the material uniform followed
// by one texture and sampler pair per material.Slots entry.
func MaterialBindGroupLayout() []wgpu.BindGroupLayoutEntry {
	entries := []wgpu.BindGroupLayoutEntry{{
		Binding:    material.UniformBinding,
		Visibility: wgpu.ShaderStageFragment,
		Buffer: wgpu.BufferBindingLayout{
			Type:           wgpu.BufferBindingTypeUniform,
			MinBindingSize: material.UniformSize,
		},
	}}
	for _, s := range material.Slots {
		entries = append(entries,
			wgpu.BindGroupLayoutEntry{
				Binding:    s.Texture,
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeFloat,
					ViewDimension: wgpu.TextureViewDimension2D,
				},
			},
			wgpu.BindGroupLayoutEntry{
				Binding:    s.Sampler,
				Visibility: wgpu.ShaderStageFragment,
				Sampler: wgpu.SamplerBindingLayout{
					Type: wgpu.SamplerBindingTypeFiltering,
				},
			},
		)
	}
	return entries
}

// Vertex is the vertex format the parallax shader consumes. Tangents are
// required: W holds the bitangent sign.
type Vertex struct {
	Position [3]float32 `paramap:"layout" format:"float3" location:"0"`
	Normal   [3]float32 `paramap:"layout" format:"float3" location:"1"`
	UV       [2]float32 `paramap:"layout" format:"float2" location:"2"`
	Tangent  [4]float32 `paramap:"layout" format:"float4" location:"3"`
}

// VertexBufferLayout derives a buffer layout from the tagged fields of a
// vertex struct. Untagged fields take space but are not bound.
func VertexBufferLayout(vertex any) (wgpu.VertexBufferLayout, error) {
	t := reflect.TypeOf(vertex)
	if t == nil || t.Kind() != reflect.Struct {
		return wgpu.VertexBufferLayout{}, fmt.Errorf("gpu: vertex must be a struct, got %T", vertex)
	}

	var (
		attributes []wgpu.VertexAttribute
		offset     uint64
	)
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.Tag.Get("paramap") == "layout" {
			format, err := VertexFormat(field.Tag.Get("format"))
			if err != nil {
				return wgpu.VertexBufferLayout{}, fmt.Errorf("gpu: field %s: %w", field.Name, err)
			}
			location, err := strconv.Atoi(field.Tag.Get("location"))
			if err != nil {
				return wgpu.VertexBufferLayout{}, fmt.Errorf("gpu: field %s: bad location: %w", field.Name, err)
			}
			attributes = append(attributes, wgpu.VertexAttribute{
				ShaderLocation: uint32(location),
				Offset:         offset,
				Format:         format,
			})
		}
		offset += uint64(field.Type.Size())
	}

	return wgpu.VertexBufferLayout{
		ArrayStride: offset,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes:  attributes,
	}, nil
}
