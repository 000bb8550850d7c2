package parallax

import (
	"math/rand"
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingField struct {
	HeightField
	calls int
}

func (c *countingField) Sample(uv mgl32.Vec2) float32 {
	c.calls++
	return c.HeightField.Sample(uv)
}

func noiseField(seed int64) *TexelField {
	rng := rand.New(rand.NewSource(seed))
	pix := make([]uint8, 32*32)
	for i := range pix {
		pix[i] = uint8(rng.Intn(256))
	}
	f, err := NewTexelField(32, 32, 1, pix, FilterLinear)
	if err != nil {
		panic(err)
	}
	return f
}

func assertVec2InDelta(t *testing.T, expected, actual mgl32.Vec2, delta float64, msgAndArgs ...any) {
	t.Helper()
	assert.InDelta(t, expected.X(), actual.X(), delta, msgAndArgs...)
	assert.InDelta(t, expected.Y(), actual.Y(), delta, msgAndArgs...)
}

var testView = mgl32.Vec3{0.3, -0.2, 0.8}.Normalize()

func TestLayerCount(t *testing.T) {
	cases := []struct {
		in   float32
		want int
	}{
		{16, 16},
		{16.9, 16},
		{2, 2},
		{2.5, 2},
		{1, MinLayers},
		{0, MinLayers},
		{-4, MinLayers},
		{256, 256},
		{1000, MaxLayers},
		{mgl32.InfPos, MaxLayers},
		{mgl32.InfNeg, MinLayers},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, LayerCount(c.in), "LayerCount(%v)", c.in)
	}
}

func TestMaxOffset(t *testing.T) {
	p := MaxOffset(mgl32.Vec3{0.6, 0, 0.8}, 0.1)
	assert.InDelta(t, 0.075, p.X(), 1e-6)
	assert.InDelta(t, 0, p.Y(), 1e-6)

	assert.Equal(t, mgl32.Vec2{}, MaxOffset(testView, 0))
}

func TestMaxOffset_DegenerateView(t *testing.T) {
	clamped := MaxOffset(mgl32.Vec3{1, 0, MinViewZ}, 0.1)
	for _, z := range []float32{0, -1, -MinViewZ, MinViewZ / 2} {
		p := MaxOffset(mgl32.Vec3{1, 0, z}, 0.1)
		assert.Equal(t, clamped, p, "z=%v", z)
	}
	assert.Equal(t, mgl32.Vec2{}, MaxOffset(mgl32.Vec3{math32.NaN(), 0, 1}, 0.1))
}

func TestDisplace_ZeroDepthIsNoop(t *testing.T) {
	field := noiseField(1)
	views := []mgl32.Vec3{
		{0, 0, 1},
		testView,
		mgl32.Vec3{0.99, 0.1, 0.01}.Normalize(),
		{0.5, 0.5, -0.7},
	}
	uv := mgl32.Vec2{0.37, 0.81}
	for _, v := range views {
		for _, displace := range []Displacer{Displace[POM], Displace[Relief]} {
			r := displace(field, uv, v, Params{HeightDepth: 0, MaxLayers: 16})
			assert.Equal(t, uv, r.UV)
		}
	}
}

func TestSteepSearch_SampleBudget(t *testing.T) {
	for _, layers := range []float32{2, 3, 8, 16, 64} {
		field := &countingField{HeightField: noiseField(2)}
		p := MaxOffset(testView, 0.1)
		b := SteepSearch(field, mgl32.Vec2{0.5, 0.5}, p, layers)
		assert.LessOrEqual(t, field.calls, int(layers))
		assert.Equal(t, field.calls, b.Samples)
		assert.LessOrEqual(t, b.Index, b.Layers-1)
	}

	white := &countingField{HeightField: ConstantField(1)}
	b := SteepSearch(white, mgl32.Vec2{}, mgl32.Vec2{0.1, 0}, 2)
	assert.Equal(t, 2, white.calls)
	assert.True(t, b.Exhausted)
}

func TestSteepSearch_MonotonicDepth(t *testing.T) {
	var depths []float32
	field := FieldFunc(func(uv mgl32.Vec2) float32 { return 1 })
	p := mgl32.Vec2{0.1, 0.05}
	n := LayerCount(16)
	b := SteepSearch(field, mgl32.Vec2{}, p, 16)
	require.True(t, b.Exhausted)
	for k := 0; k < n; k++ {
		depths = append(depths, float32(k)/float32(n))
	}
	assert.InDelta(t, depths[n-1], b.Cur.RayDepth, 1e-6)
	assert.InDelta(t, depths[n-2], b.Prev.RayDepth, 1e-6)
	assert.Less(t, b.Prev.RayDepth, b.Cur.RayDepth)
}

func TestDisplace_BlackMapStopsAtTop(t *testing.T) {
	uv := mgl32.Vec2{0.25, 0.75}
	params := Params{HeightDepth: 0.1, MaxLayers: 16}

	b := SteepSearch(ConstantField(0), uv, MaxOffset(testView, params.HeightDepth), params.MaxLayers)
	assert.Equal(t, 0, b.Index)
	assert.Equal(t, 1, b.Samples)
	assert.False(t, b.Exhausted)

	assert.Equal(t, uv, Displace[POM](ConstantField(0), uv, testView, params).UV)
	assert.Equal(t, uv, Displace[Relief](ConstantField(0), uv, testView, params).UV)
}

// White is the deepest point, so the ray never gets below the surface. The
// search ends on its last layer and returns that uv, not the undisplaced one.
func TestDisplace_WhiteMapBottomsOut(t *testing.T) {
	uv := mgl32.Vec2{0.25, 0.75}
	params := Params{HeightDepth: 0.1, MaxLayers: 16}
	p := MaxOffset(testView, params.HeightDepth)

	b := SteepSearch(ConstantField(1), uv, p, params.MaxLayers)
	assert.True(t, b.Exhausted)
	assert.Equal(t, 16, b.Samples)

	last := uv.Sub(p.Mul(15.0 / 16.0))
	assertVec2InDelta(t, last, Displace[POM](ConstantField(1), uv, testView, params).UV, 1e-6)
	assertVec2InDelta(t, last, Displace[Relief](ConstantField(1), uv, testView, params).UV, 1e-6)
}

func TestRelief_FixedIterationBudget(t *testing.T) {
	fields := []HeightField{ConstantField(0), ConstantField(1), ConstantField(0.42), noiseField(3), noiseField(4)}
	for i, f := range fields {
		counting := &countingField{HeightField: f}
		p := MaxOffset(testView, 0.1)
		b := SteepSearch(f, mgl32.Vec2{0.6, 0.1}, p, 16)
		r := Relief{}.Refine(counting, b)
		assert.Equal(t, ReliefSteps, counting.calls, "field %d", i)
		assert.Equal(t, b.Samples+ReliefSteps, r.Samples, "field %d", i)

		width := b.Cur.RayDepth - b.Prev.RayDepth
		if b.Index == 0 || b.Exhausted {
			width = 0
		}
		for _, w := range r.Widths {
			assert.LessOrEqual(t, w, width, "field %d", i)
			width = w
		}
	}
}

func TestRelief_HalvesInterval(t *testing.T) {
	p := MaxOffset(testView, 0.1)
	b := SteepSearch(ConstantField(0.3), mgl32.Vec2{0.5, 0.5}, p, 16)
	require.Equal(t, 5, b.Index)

	r := Relief{}.Refine(ConstantField(0.3), b)
	want := float32(1) / 16
	for _, w := range r.Widths {
		want /= 2
		assert.InDelta(t, want, w, 1e-7)
	}
}

func TestPOM_NoExtraSamples(t *testing.T) {
	field := &countingField{HeightField: noiseField(5)}
	b := SteepSearch(noiseField(5), mgl32.Vec2{0.2, 0.2}, MaxOffset(testView, 0.1), 16)
	r := POM{}.Refine(field, b)
	assert.Zero(t, field.calls)
	assert.Equal(t, b.Samples, r.Samples)
}

func TestDisplace_FlatSurfaceAgrees(t *testing.T) {
	uv := mgl32.Vec2{0.5, 0.5}
	params := Params{HeightDepth: 0.1, MaxLayers: 16}
	p := MaxOffset(testView, params.HeightDepth)

	// On a layer boundary the search lands exactly on the surface.
	flat := ConstantField(0.5)
	steep := SteepSearch(flat, uv, p, params.MaxLayers)
	pom := Displace[POM](flat, uv, testView, params)
	relief := Displace[Relief](flat, uv, testView, params)
	assertVec2InDelta(t, steep.Cur.UV, pom.UV, 1e-6)
	assertVec2InDelta(t, steep.Cur.UV, relief.UV, 1e-6)

	// Between layers both refinements find the exact plane.
	flat = ConstantField(0.3)
	exact := uv.Sub(p.Mul(0.3))
	pom = Displace[POM](flat, uv, testView, params)
	relief = Displace[Relief](flat, uv, testView, params)
	assertVec2InDelta(t, exact, pom.UV, 1e-5)
	assertVec2InDelta(t, exact, relief.UV, 1e-5)
	assert.InDelta(t, 0.3, pom.Depth, 1e-5)
	assert.InDelta(t, 0.3, relief.Depth, 1e-5)
}

func TestDisplace_Deterministic(t *testing.T) {
	field := noiseField(6)
	params := DefaultParams()
	for _, relief := range []bool{false, true} {
		displace := DisplacerFor(relief)
		a := displace(field, mgl32.Vec2{0.1, 0.9}, testView, params)
		b := displace(field, mgl32.Vec2{0.1, 0.9}, testView, params)
		assert.Equal(t, a, b)
	}
}

func TestDisplace_NegativeDepthDisables(t *testing.T) {
	uv := mgl32.Vec2{0.4, 0.4}
	r := Displace[POM](noiseField(7), uv, testView, Params{HeightDepth: -0.2, MaxLayers: 16})
	assert.Equal(t, uv, r.UV)
}

func TestTangentSpaceView(t *testing.T) {
	normal := mgl32.Vec3{0, 1, 0}
	tangent := mgl32.Vec4{1, 0, 0, 1}

	v := TangentSpaceView(mgl32.Vec3{0, 1, 0}, normal, tangent)
	assertVec3InDelta(t, mgl32.Vec3{0, 0, 1}, v)

	v = TangentSpaceView(mgl32.Vec3{1, 1, 0}, normal, tangent)
	assert.Greater(t, v.X(), float32(0))
	assert.InDelta(t, 1, v.Len(), 1e-6)

	flipped := TangentSpaceView(mgl32.Vec3{0, 1, 1}, normal, mgl32.Vec4{1, 0, 0, -1})
	straight := TangentSpaceView(mgl32.Vec3{0, 1, 1}, normal, tangent)
	assert.InDelta(t, -straight.Y(), flipped.Y(), 1e-6)
}

func assertVec3InDelta(t *testing.T, expected, actual mgl32.Vec3) {
	t.Helper()
	for i := range expected {
		assert.InDelta(t, expected[i], actual[i], 1e-6)
	}
}
