package material

import (
	"github.com/chewxy/math32"
)

// Color is a non-premultiplied sRGB color with linear alpha.
type Color struct {
	R, G, B, A float32
}

var (
	White = Color{1, 1, 1, 1}
	Black = Color{0, 0, 0, 1}
)

// RGB returns an opaque sRGB color.
func RGB(r, g, b float32) Color { return Color{r, g, b, 1} }

// RGBA returns an sRGB color with alpha.
func RGBA(r, g, b, a float32) Color { return Color{r, g, b, a} }

// RGBU8 returns an opaque sRGB color from 8-bit components.
func RGBU8(r, g, b uint8) Color {
	return Color{float32(r) / 255, float32(g) / 255, float32(b) / 255, 1}
}

// Linear converts the color channels to linear space, the representation
// shaders work in.
func (c Color) Linear() [4]float32 {
	return [4]float32{srgbToLinear(c.R), srgbToLinear(c.G), srgbToLinear(c.B), c.A}
}

func srgbToLinear(c float32) float32 {
	if c <= 0 {
		return 0
	}
	if c <= 0.04045 {
		return c / 12.92
	}
	return math32.Pow((c+0.055)/1.055, 2.4)
}
