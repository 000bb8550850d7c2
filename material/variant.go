package material

import (
	"fmt"
	"slices"
)

// ShaderDefReliefMapping compiles the relief mapping refinement into the
// fragment shader.
const ShaderDefReliefMapping = "RELIEF_MAPPING"

// LabelPrefix is prepended to the label of specialized pipelines.
const LabelPrefix = "parallax_"

// VariantKey is everything about a material that changes the compiled
// pipeline. Materials with equal keys share a pipeline.
type VariantKey struct {
	ReliefMapping bool
	CullMode      Cull
}

func (k VariantKey) String() string {
	return fmt.Sprintf("relief=%t,cull=%s", k.ReliefMapping, k.CullMode)
}

// SelectVariant derives the variant key of c. Fields not listed in
// VariantKey are ignored.
func SelectVariant(c *Config) VariantKey {
	return VariantKey{
		ReliefMapping: c.Algorithm == ReliefMapping,
		CullMode:      c.CullMode,
	}
}

// PipelineState is the change a variant applies to the host's base
// pipeline description.
type PipelineState struct {
	CullMode    Cull
	Defines     []string
	LabelPrefix string
}

// State returns the pipeline state of k. Defines are sorted.
func (k VariantKey) State() PipelineState {
	s := PipelineState{CullMode: k.CullMode, LabelPrefix: LabelPrefix}
	if k.ReliefMapping {
		s.Defines = append(s.Defines, ShaderDefReliefMapping)
	}
	slices.Sort(s.Defines)
	return s
}

// Label prefixes a pipeline label, leaving an empty label empty.
func (s PipelineState) Label(label string) string {
	if label == "" {
		return ""
	}
	return s.LabelPrefix + label
}

// VariantProvider maps variant keys to pipeline state deltas.
type VariantProvider interface {
	Specialize(key VariantKey) PipelineState
}

// DefaultProvider specializes with VariantKey.State.
type DefaultProvider struct{}

func (DefaultProvider) Specialize(key VariantKey) PipelineState { return key.State() }
