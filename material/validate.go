package material

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
)

const errPrefix = "material: "

var (
	ErrMissingHeightMap = errors.New(errPrefix + "missing height map")
	ErrLayerCount       = errors.New(errPrefix + "max height layers must be a finite value >= 2")
	ErrHeightDepth      = errors.New(errPrefix + "height depth must be within [0, 1]")
	ErrAlphaCutoff      = errors.New(errPrefix + "alpha mask cutoff must be within [0, 1]")
	ErrEnum             = errors.New(errPrefix + "value out of range")
)

// Validate reports the first configuration error of c. A Config that
// validates can be shaded; one that doesn't must not reach the GPU.
func (c *Config) Validate() error {
	if c.HeightMap.IsNone() {
		return ErrMissingHeightMap
	}
	if !finite(c.MaxHeightLayers) || c.MaxHeightLayers < 2 {
		return fmt.Errorf("%w: got %v", ErrLayerCount, c.MaxHeightLayers)
	}
	if math32.IsNaN(c.HeightDepth) || c.HeightDepth < 0 || c.HeightDepth > 1 {
		return fmt.Errorf("%w: got %v", ErrHeightDepth, c.HeightDepth)
	}
	if c.AlphaMode.Kind == AlphaMask {
		if math32.IsNaN(c.AlphaMode.Cutoff) || c.AlphaMode.Cutoff < 0 || c.AlphaMode.Cutoff > 1 {
			return fmt.Errorf("%w: got %v", ErrAlphaCutoff, c.AlphaMode.Cutoff)
		}
	}
	switch {
	case c.Algorithm != ParallaxOcclusionMapping && c.Algorithm != ReliefMapping:
		return fmt.Errorf("%w: algorithm %v", ErrEnum, c.Algorithm)
	case c.CullMode < CullNone || c.CullMode > CullBack:
		return fmt.Errorf("%w: cull mode %v", ErrEnum, c.CullMode)
	case c.AlphaMode.Kind < AlphaOpaque || c.AlphaMode.Kind > AlphaBlend:
		return fmt.Errorf("%w: alpha mode %v", ErrEnum, c.AlphaMode)
	}
	return nil
}

func finite(x float32) bool {
	return !math32.IsNaN(x) && !math32.IsInf(x, 0)
}
