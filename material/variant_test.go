package material

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectVariant_Idempotent(t *testing.T) {
	c := Default("height")
	c.Algorithm = ReliefMapping
	c.CullMode = CullFront
	assert.Equal(t, SelectVariant(&c), SelectVariant(&c))

	same := c
	assert.Equal(t, SelectVariant(&c), SelectVariant(&same))
}

func TestSelectVariant_DistinguishesRelevantFields(t *testing.T) {
	keys := map[VariantKey]struct{}{}
	for _, alg := range []Algorithm{ParallaxOcclusionMapping, ReliefMapping} {
		for _, cull := range []Cull{CullNone, CullFront, CullBack} {
			c := Default("height")
			c.Algorithm = alg
			c.CullMode = cull
			keys[SelectVariant(&c)] = struct{}{}
		}
	}
	assert.Len(t, keys, 6)
}

func TestSelectVariant_IgnoresIrrelevantFields(t *testing.T) {
	a := Default("height")
	b := Default("other-height")
	b.BaseColor = RGB(0.2, 0.4, 0.6)
	b.Emissive = RGBU8(30, 30, 30)
	b.PerceptualRoughness = 0.75
	b.NormalMapTexture = "normal"
	b.HeightDepth = 0.05
	b.MaxHeightLayers = 64
	b.AlphaMode = Blend()
	b.DoubleSided = true
	b.Samplers[HeightMapTexture] = "nearest"
	assert.Equal(t, SelectVariant(&a), SelectVariant(&b))
}

func TestVariantState(t *testing.T) {
	pom := VariantKey{CullMode: CullBack}.State()
	assert.Empty(t, pom.Defines)
	assert.Equal(t, CullBack, pom.CullMode)

	relief := DefaultProvider{}.Specialize(VariantKey{ReliefMapping: true, CullMode: CullNone})
	assert.Equal(t, []string{ShaderDefReliefMapping}, relief.Defines)
	assert.Equal(t, CullNone, relief.CullMode)

	assert.Equal(t, "parallax_opaque_mesh", relief.Label("opaque_mesh"))
	assert.Equal(t, "", relief.Label(""))
	assert.Equal(t, "relief=true,cull=none", VariantKey{ReliefMapping: true}.String())
}
