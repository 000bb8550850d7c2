// Package preview renders a parallax mapped plane on the CPU. It runs the
// same displacement as the fragment shader and is used to inspect height
// maps and material settings without a GPU.
package preview

import (
	"context"
	"errors"
	"image"
	"image/color"
	"runtime"

	"github.com/chewxy/math32"
	"github.com/gekko3d/paramap/parallax"
	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"
)

var ErrSize = errors.New("preview: output size must be positive")

// Options controls a preview render.
type Options struct {
	Width, Height int
	// View is the tangent-space direction from the surface towards the eye.
	View   mgl32.Vec3
	Params parallax.Params
	Relief bool
	// Tiling repeats the texture this many times across the plane.
	Tiling float32
	// Shade darkens texels by their displaced depth.
	Shade bool
	// Workers bounds the number of rows rendered concurrently. Zero uses
	// GOMAXPROCS.
	Workers int
}

// DefaultOptions looks at the plane from 45 degrees along +X.
func DefaultOptions() Options {
	return Options{
		Width:  256,
		Height: 256,
		View:   mgl32.Vec3{1, 0, 1}.Normalize(),
		Params: parallax.DefaultParams(),
		Tiling: 1,
		Shade:  true,
	}
}

// Render displaces every pixel of the plane through height and samples
// albedo at the displaced coordinate. With a nil albedo the displaced UV is
// written as red and green, the depth as blue.
func Render(ctx context.Context, opts Options, height parallax.HeightField, albedo image.Image) (*image.RGBA, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, ErrSize
	}
	if opts.Tiling <= 0 {
		opts.Tiling = 1
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	var tex *image.RGBA
	if albedo != nil {
		tex = image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
		draw.BiLinear.Scale(tex, tex.Bounds(), albedo, albedo.Bounds(), draw.Src, nil)
	}

	displace := parallax.DisplacerFor(opts.Relief)
	out := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for y := 0; y < opts.Height; y++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			for x := 0; x < opts.Width; x++ {
				uv := mgl32.Vec2{
					(float32(x) + 0.5) / float32(opts.Width) * opts.Tiling,
					(float32(y) + 0.5) / float32(opts.Height) * opts.Tiling,
				}
				r := displace(height, uv, opts.View, opts.Params)
				if tex == nil {
					out.SetRGBA(x, y, debugColor(r))
				} else {
					out.SetRGBA(x, y, shade(texel(tex, r.UV), r.Depth, opts.Shade))
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// texel reads tex with repeat wrapping.
func texel(tex *image.RGBA, uv mgl32.Vec2) color.RGBA {
	u, v := fract(uv.X()), fract(uv.Y())
	b := tex.Bounds()
	x := min(int(u*float32(b.Dx())), b.Dx()-1)
	y := min(int(v*float32(b.Dy())), b.Dy()-1)
	return tex.RGBAAt(b.Min.X+x, b.Min.Y+y)
}

func debugColor(r parallax.Result) color.RGBA {
	return color.RGBA{R: unorm8(fract(r.UV.X())), G: unorm8(fract(r.UV.Y())), B: unorm8(r.Depth), A: 255}
}

func shade(c color.RGBA, depth float32, enabled bool) color.RGBA {
	if !enabled {
		return c
	}
	k := 1 - 0.6*math32.Min(math32.Max(depth, 0), 1)
	return color.RGBA{
		R: uint8(float32(c.R) * k),
		G: uint8(float32(c.G) * k),
		B: uint8(float32(c.B) * k),
		A: c.A,
	}
}

func fract(x float32) float32 {
	f := x - math32.Floor(x)
	if f >= 1 {
		return 0
	}
	return f
}

func unorm8(x float32) uint8 {
	return uint8(math32.Round(math32.Min(math32.Max(x, 0), 1) * 255))
}
