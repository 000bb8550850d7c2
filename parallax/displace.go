package parallax

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Params are the per-material inputs of the displacement.
type Params struct {
	// HeightDepth scales the displacement volume; 0 disables displacement.
	HeightDepth float32
	// MaxLayers is the steep search layer count, see LayerCount.
	MaxLayers float32
}

// DefaultParams matches the material defaults.
func DefaultParams() Params {
	return Params{HeightDepth: 0.1, MaxLayers: DefaultLayers}
}

// Displace offsets uv as seen along the tangent-space view direction v. The
// refinement is fixed by the type argument, so callers pick an algorithm once
// per material instead of branching per pixel.
func Displace[R Refiner](f HeightField, uv mgl32.Vec2, v mgl32.Vec3, params Params) Result {
	var refiner R
	depth := params.HeightDepth
	if !(depth > 0) || math32.IsInf(depth, 1) {
		depth = 0
	}
	p := MaxOffset(v, depth)
	return refiner.Refine(f, SteepSearch(f, uv, p, params.MaxLayers))
}

// Displacer is an instantiated Displace.
type Displacer func(f HeightField, uv mgl32.Vec2, v mgl32.Vec3, params Params) Result

// DisplacerFor returns the relief mapping variant when relief is set and the
// parallax occlusion mapping variant otherwise.
func DisplacerFor(relief bool) Displacer {
	if relief {
		return Displace[Relief]
	}
	return Displace[POM]
}
