package shaders

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/gekko3d/paramap/material"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreprocess(t *testing.T) {
	src := "a\n#ifdef X\nx\n#else\nnot x\n#endif\nb"

	out, err := Preprocess(src, nil)
	require.NoError(t, err)
	assert.Equal(t, "a\nnot x\nb", out)

	out, err = Preprocess(src, []string{"X"})
	require.NoError(t, err)
	assert.Equal(t, "a\nx\nb", out)
}

func TestPreprocess_Nested(t *testing.T) {
	src := strings.Join([]string{
		"#ifdef A",
		"  #ifndef B",
		"a only",
		"  #else",
		"a and b",
		"  #endif",
		"#else",
		"  #ifdef B",
		"b only",
		"  #endif",
		"#endif",
	}, "\n")

	cases := []struct {
		defines []string
		want    string
	}{
		{nil, ""},
		{[]string{"A"}, "a only"},
		{[]string{"B", "A"}, "a and b"},
		{[]string{"B"}, "b only"},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprint(tc.defines), func(t *testing.T) {
			out, err := Preprocess(src, tc.defines)
			require.NoError(t, err)
			assert.Equal(t, tc.want, out)
		})
	}
}

func TestPreprocess_Unbalanced(t *testing.T) {
	cases := map[string]string{
		"unclosed":     "#ifdef A\nx",
		"stray endif":  "x\n#endif",
		"stray else":   "#else",
		"double else":  "#ifdef A\n#else\n#else\n#endif",
		"missing name": "#ifdef\n#endif",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Preprocess(src, nil)
			assert.ErrorIs(t, err, ErrUnbalanced)
		})
	}

	_, err := Preprocess("a\nb\n#endif", nil)
	assert.ErrorContains(t, err, "line 3")
}

func TestParallaxShaderVariants(t *testing.T) {
	pom, err := Preprocess(ParallaxMapWGSL, nil)
	require.NoError(t, err)
	relief, err := Preprocess(ParallaxMapWGSL, []string{material.ShaderDefReliefMapping})
	require.NoError(t, err)

	assert.NotContains(t, pom, "#ifdef")
	assert.NotContains(t, pom, "RELIEF_STEPS;")
	assert.Contains(t, relief, "step < RELIEF_STEPS")
	assert.Contains(t, pom, "fn "+FragmentEntryPoint)
	assert.Contains(t, pom, "fn "+VertexEntryPoint)
}

func TestParallaxShaderBindings(t *testing.T) {
	assert.Contains(t, ParallaxMapWGSL, fmt.Sprintf("@group(1) @binding(%d) var<uniform> material", material.UniformBinding))
	for _, s := range material.Slots {
		assert.Contains(t, ParallaxMapWGSL, fmt.Sprintf("@binding(%d) var %s_texture", s.Texture, s.Kind), s.Kind.String())
		assert.Contains(t, ParallaxMapWGSL, fmt.Sprintf("@binding(%d) var %s_sampler", s.Sampler, s.Kind), s.Kind.String())
	}
	for _, f := range material.Layout {
		name := f.Name
		if name == "roughness" {
			name = "perceptual_roughness"
		}
		assert.Contains(t, ParallaxMapWGSL, "    "+name+":", f.Name)
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	h := r.Register(ParallaxShaderName, ParallaxMapWGSL)
	assert.Equal(t, HandleFor(ParallaxShaderName), h)
	assert.Equal(t, h, NewRegistry().Register(ParallaxShaderName, "other"))

	got, ok := r.Lookup(ParallaxShaderName)
	assert.True(t, ok)
	assert.Equal(t, h, got)
	_, ok = r.Lookup("missing.wgsl")
	assert.False(t, ok)

	a, err := r.Variant(h, []string{"B", "A"})
	require.NoError(t, err)
	b, err := r.Variant(h, []string{"A", "B"})
	require.NoError(t, err)
	assert.Equal(t, a, b)

	_, err = r.Variant(HandleFor("missing.wgsl"), nil)
	assert.Error(t, err)
}

func TestRegistry_ReplaceDropsVariants(t *testing.T) {
	r := NewRegistry()
	h := r.Register("s", "#ifdef A\none\n#endif")
	out, err := r.Variant(h, []string{"A"})
	require.NoError(t, err)
	assert.Equal(t, "one", out)

	r.Register("s", "#ifdef A\ntwo\n#endif")
	out, err = r.Variant(h, []string{"A"})
	require.NoError(t, err)
	assert.Equal(t, "two", out)
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_Concurrent(t *testing.T) {
	r := NewRegistry()
	h := r.Register(ParallaxShaderName, ParallaxMapWGSL)

	var wg sync.WaitGroup
	results := make([]string, 16)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := r.Variant(h, []string{material.ShaderDefReliefMapping})
			assert.NoError(t, err)
			results[i] = out
		}()
	}
	wg.Wait()
	for _, out := range results {
		assert.Equal(t, results[0], out)
	}
}
