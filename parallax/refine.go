package parallax

import (
	"github.com/go-gl/mathgl/mgl32"
)

// ReliefSteps is the fixed number of bisection samples taken by Relief.
const ReliefSteps = 5

// Result is a displaced texture coordinate.
type Result struct {
	UV mgl32.Vec2
	// Depth is the ray depth of the estimated intersection.
	Depth float32
	// Samples counts every height sample taken, search included.
	Samples int
	// Widths holds the bracket width after each relief iteration.
	Widths [ReliefSteps]float32
}

// Refiner turns a steep search bracket into a final coordinate.
type Refiner interface {
	Refine(f HeightField, b Bracket) Result
}

// POM refines by intersecting the ray with the line joining the two
// bracketing samples. It takes no additional samples.
type POM struct{}

func (POM) Refine(_ HeightField, b Bracket) Result {
	r := Result{UV: b.Cur.UV, Depth: b.Cur.RayDepth, Samples: b.Samples}
	if b.Index == 0 || b.Exhausted {
		return r
	}
	r.UV, r.Depth = secant(b.Prev, b.Cur)
	return r
}

// Relief bisects the bracket ReliefSteps times, then applies the same
// linear intersection as POM inside the final interval. The sample count is
// constant: degenerate brackets are bisected in place.
type Relief struct{}

func (Relief) Refine(f HeightField, b Bracket) Result {
	r := Result{Samples: b.Samples}

	above, below := b.Prev, b.Cur
	if b.Index == 0 || b.Exhausted {
		above = b.Cur
	}

	for i := 0; i < ReliefSteps; i++ {
		ray := (above.RayDepth + below.RayDepth) / 2
		uv := lerp(above.UV, below.UV, 0.5)
		mid := Step{UV: uv, RayDepth: ray, SurfaceDepth: Depth(f, uv)}
		r.Samples++
		if mid.below() {
			below = mid
		} else {
			above = mid
		}
		r.Widths[i] = below.RayDepth - above.RayDepth
	}

	r.UV, r.Depth = secant(above, below)
	return r
}

// secant returns the point where the ray crosses the straight line between
// the surface samples of above and below. Invalid brackets yield below.
func secant(above, below Step) (mgl32.Vec2, float32) {
	before := above.RayDepth - above.SurfaceDepth // < 0 when above
	after := below.RayDepth - below.SurfaceDepth  // >= 0 when below
	denom := after - before
	if before >= 0 || after < 0 || !(denom > 0) {
		return below.UV, below.RayDepth
	}
	w := after / denom
	return lerp(below.UV, above.UV, w), below.RayDepth + (above.RayDepth-below.RayDepth)*w
}
