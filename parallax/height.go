// Package parallax implements height-field driven UV displacement: a steep
// parallax search bracketing the surface intersection followed by either a
// parallax-occlusion (linear) or relief-mapping (bisection) refinement.
//
// All functions are pure and safe to call from any number of goroutines.
// Conventions:
//   - view directions are tangent-space unit vectors pointing from the surface
//     towards the viewer, so v.Z() > 0 when the surface is seen from above;
//   - height texels follow the authoring convention black = tallest,
//     white = deepest. A texel value r is therefore the surface depth.
package parallax

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// MinViewZ is the smallest tangent-space view Z used when computing offsets.
// Grazing or back-facing directions are clamped to it.
const MinViewZ float32 = 1e-3

// HeightField is a read-only greyscale height texture.
type HeightField interface {
	// Sample returns the raw texel value (red channel) at uv, in [0, 1].
	Sample(uv mgl32.Vec2) float32
}

// FieldFunc adapts a function to the HeightField interface.
type FieldFunc func(uv mgl32.Vec2) float32

func (f FieldFunc) Sample(uv mgl32.Vec2) float32 { return f(uv) }

// ConstantField is a flat height field with a fixed raw texel value.
type ConstantField float32

func (c ConstantField) Sample(mgl32.Vec2) float32 { return float32(c) }

// Depth returns the surface depth at uv: 0 at the top of the displacement
// volume, 1 at its floor. Out of range texels are clamped.
func Depth(f HeightField, uv mgl32.Vec2) float32 {
	return saturate(f.Sample(uv))
}

// Height returns the surface height at uv, inverted from the raw texel.
func Height(f HeightField, uv mgl32.Vec2) float32 {
	return 1 - Depth(f, uv)
}

// MaxOffset returns the UV offset reached by a ray travelling the full
// displacement depth along v.
func MaxOffset(v mgl32.Vec3, heightDepth float32) mgl32.Vec2 {
	z := v.Z()
	if !(z > MinViewZ) {
		z = MinViewZ
	}
	x, y := v.X(), v.Y()
	if math32.IsNaN(x) || math32.IsNaN(y) {
		return mgl32.Vec2{}
	}
	return mgl32.Vec2{x / z * heightDepth, y / z * heightDepth}
}

// TangentSpaceView projects a world-space view vector into the tangent frame
// given by the interpolated normal and a tangent whose W holds the bitangent
// sign. The result is normalized; a zero vector is returned unchanged.
func TangentSpaceView(view, normal mgl32.Vec3, tangent mgl32.Vec4) mgl32.Vec3 {
	n := safeNormalize(normal)
	t := safeNormalize(tangent.Vec3())
	sign := float32(1)
	if tangent.W() < 0 {
		sign = -1
	}
	b := n.Cross(t).Mul(sign)
	ts := mgl32.Vec3{view.Dot(t), view.Dot(b), view.Dot(n)}
	return safeNormalize(ts)
}

func safeNormalize(v mgl32.Vec3) mgl32.Vec3 {
	l := v.Len()
	if l == 0 || math32.IsNaN(l) {
		return v
	}
	return v.Mul(1 / l)
}

func saturate(x float32) float32 {
	if math32.IsNaN(x) {
		return 0
	}
	return math32.Max(0, math32.Min(1, x))
}

func lerp(a, b mgl32.Vec2, t float32) mgl32.Vec2 {
	return a.Add(b.Sub(a).Mul(t))
}
