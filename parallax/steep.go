package parallax

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Layer count bounds for the steep search.
const (
	DefaultLayers = 16
	MinLayers     = 2
	MaxLayers     = 256
)

// LayerCount converts a configured layer count to the number of layers
// actually marched. Fractional values are floored, the result is clamped to
// [MinLayers, MaxLayers] and NaN falls back to DefaultLayers.
func LayerCount(maxLayers float32) int {
	if math32.IsNaN(maxLayers) {
		return DefaultLayers
	}
	if maxLayers >= MaxLayers {
		return MaxLayers
	}
	if maxLayers <= MinLayers {
		return MinLayers
	}
	return int(math32.Floor(maxLayers))
}

// Step is one sample of the ray march.
type Step struct {
	UV           mgl32.Vec2
	RayDepth     float32
	SurfaceDepth float32
}

// below reports whether the ray is at or below the surface.
func (s Step) below() bool { return s.RayDepth >= s.SurfaceDepth }

// Bracket is the outcome of SteepSearch. When Index > 0 and the search is
// not exhausted, Prev is above the surface and Cur at or below it.
type Bracket struct {
	Prev Step
	Cur  Step
	// Index is the layer of Cur. Zero means the ray met the surface at the
	// top of the volume and Prev is unset.
	Index   int
	Layers  int
	Samples int
	// Exhausted is set when no sampled layer reached the surface. Cur then
	// holds the last sampled layer.
	Exhausted bool
}

// SteepSearch marches from the top of the displacement volume along -p,
// one layer at a time, and stops at the first layer whose ray depth reaches
// the surface depth. Layer k sits at ray depth k/N and UV uv - p*k/N, for
// k in [0, N), so at most N samples are taken.
func SteepSearch(f HeightField, uv, p mgl32.Vec2, maxLayers float32) Bracket {
	n := LayerCount(maxLayers)
	layerDepth := 1 / float32(n)

	b := Bracket{Layers: n}
	var prev Step
	for k := 0; k < n; k++ {
		ray := float32(k) * layerDepth
		at := uv.Sub(p.Mul(ray))
		cur := Step{UV: at, RayDepth: ray, SurfaceDepth: Depth(f, at)}
		b.Samples++
		b.Prev, b.Cur, b.Index = prev, cur, k
		if cur.below() {
			return b
		}
		prev = cur
	}
	b.Exhausted = true
	return b
}
