package parallax

import (
	"encoding/binary"
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/x448/float16"
)

// Filter selects how a TexelField reconstructs values between texels.
type Filter int

const (
	// FilterNearest is cheaper and recommended for height maps.
	FilterNearest Filter = iota
	FilterLinear
)

// TexelField samples an 8-bit or half-float texture with repeat
// addressing. Only the first channel of every texel is read.
type TexelField struct {
	Width    int
	Height   int
	Channels int // 1 (R8, R16Float) or 4 (RGBA8)
	Pix      []uint8
	Filter   Filter
	// Half marks little-endian half-float texels.
	Half bool
}

// NewTexelField checks that pix covers a width x height texture.
func NewTexelField(width, height, channels int, pix []uint8, filter Filter) (*TexelField, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("parallax: invalid texel field size %dx%d", width, height)
	}
	if channels != 1 && channels != 4 {
		return nil, fmt.Errorf("parallax: unsupported channel count %d", channels)
	}
	if len(pix) < width*height*channels {
		return nil, fmt.Errorf("parallax: texel data too short: got %d bytes, need %d", len(pix), width*height*channels)
	}
	return &TexelField{
		Width:    width,
		Height:   height,
		Channels: channels,
		Pix:      pix,
		Filter:   filter,
	}, nil
}

// NewHalfField wraps a single-channel half-float texture, the layout 16-bit
// height maps are kept in.
func NewHalfField(width, height int, pix []uint8, filter Filter) (*TexelField, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("parallax: invalid texel field size %dx%d", width, height)
	}
	if len(pix) < width*height*2 {
		return nil, fmt.Errorf("parallax: texel data too short: got %d bytes, need %d", len(pix), width*height*2)
	}
	return &TexelField{
		Width:    width,
		Height:   height,
		Channels: 1,
		Pix:      pix,
		Filter:   filter,
		Half:     true,
	}, nil
}

func (f *TexelField) Sample(uv mgl32.Vec2) float32 {
	if f.Filter == FilterLinear {
		return f.bilinear(uv)
	}
	x := wrap(int(math32.Floor(uv.X()*float32(f.Width))), f.Width)
	y := wrap(int(math32.Floor(uv.Y()*float32(f.Height))), f.Height)
	return f.texel(x, y)
}

func (f *TexelField) bilinear(uv mgl32.Vec2) float32 {
	// texel centers sit at half-integer coordinates
	fx := uv.X()*float32(f.Width) - 0.5
	fy := uv.Y()*float32(f.Height) - 0.5
	x0f, y0f := math32.Floor(fx), math32.Floor(fy)
	tx, ty := fx-x0f, fy-y0f
	x0, y0 := int(x0f), int(y0f)

	c00 := f.texel(wrap(x0, f.Width), wrap(y0, f.Height))
	c10 := f.texel(wrap(x0+1, f.Width), wrap(y0, f.Height))
	c01 := f.texel(wrap(x0, f.Width), wrap(y0+1, f.Height))
	c11 := f.texel(wrap(x0+1, f.Width), wrap(y0+1, f.Height))

	top := c00 + (c10-c00)*tx
	bottom := c01 + (c11-c01)*tx
	return top + (bottom-top)*ty
}

func (f *TexelField) texel(x, y int) float32 {
	if f.Half {
		i := 2 * (y*f.Width + x)
		return float16.Frombits(binary.LittleEndian.Uint16(f.Pix[i:])).Float32()
	}
	return float32(f.Pix[(y*f.Width+x)*f.Channels]) / 255
}

func wrap(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}
