package main

import (
	"bytes"
	"testing"

	"github.com/gekko3d/paramap/material"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVariantTable(t *testing.T) {
	out := variantTable(material.VariantKey{ReliefMapping: true, CullMode: material.CullNone})
	assert.Contains(t, out, "RELIEF_MAPPING")
	assert.Contains(t, out, "parallax_parallax_map.wgsl")
	assert.Contains(t, out, "none")

	out = variantTable(material.VariantKey{CullMode: material.CullBack})
	assert.NotContains(t, out, "RELIEF_MAPPING")
	assert.Contains(t, out, "back")
}

func TestWriteUniform(t *testing.T) {
	cfg := material.Default("height")
	cfg.MaxHeightLayers = 24
	u := material.NewUniform(&cfg, nil)

	var buf bytes.Buffer
	require.NoError(t, writeUniform(&buf, &u))
	out := buf.String()
	for _, f := range material.Layout {
		assert.Contains(t, out, f.Name)
	}
	assert.Contains(t, out, "0x0100", "opaque flag")
	assert.Contains(t, out, "24")
	assert.Contains(t, out, "00000030  ", "hex dump of the last 16 bytes")
	assert.NotContains(t, out, "00000040  ")
}

func TestViewDirection(t *testing.T) {
	v := viewDirection(0, 0)
	assert.InDelta(t, 1, v.Z(), 1e-6)

	v = viewDirection(90, 90)
	assert.InDelta(t, 0, v.X(), 1e-6)
	assert.InDelta(t, 1, v.Y(), 1e-6)
	assert.InDelta(t, 0, v.Z(), 1e-6)
}
