// Package shaders holds the WGSL sources of the parallax material, the
// define-based preprocessor that produces their variants and the registry
// that hands them out.
package shaders

import (
	_ "embed"
)

// ParallaxShaderName is the name the parallax fragment shader is registered
// under.
const ParallaxShaderName = "parallax_map.wgsl"

// Entry points of ParallaxMapWGSL.
const (
	VertexEntryPoint   = "vs_main"
	FragmentEntryPoint = "fs_main"
)

//go:embed parallax_map.wgsl
var ParallaxMapWGSL string
