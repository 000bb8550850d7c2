package main

import (
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"os/signal"
	"time"

	"github.com/chewxy/math32"
	"github.com/gekko3d/paramap"
	"github.com/gekko3d/paramap/parallax"
	"github.com/gekko3d/paramap/preview"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/urfave/cli"
)

// Preview renders a height map on the CPU and writes the result as a png.
func Preview(ctx *cli.Context) error {
	logger := setupLogging(ctx)
	if ctx.String("height-map") == "" {
		return errors.New("--height-map is required")
	}

	assets := paramap.NewAssetServer()
	heightMap, err := assets.LoadTexture(ctx.String("height-map"), paramap.HeightTexture)
	if err != nil {
		return err
	}
	field, err := assets.HeightField(heightMap, parallax.FilterNearest)
	if err != nil {
		return err
	}

	var albedo image.Image
	if path := ctx.String("albedo"); path != "" {
		if albedo, err = decodeImage(path); err != nil {
			return err
		}
	}

	opts := preview.DefaultOptions()
	opts.Width = ctx.Int("width")
	opts.Height = ctx.Int("height")
	opts.View = viewDirection(float32(ctx.Float64("tilt")), float32(ctx.Float64("azimuth")))
	opts.Params = parallax.Params{
		HeightDepth: float32(ctx.Float64("depth")),
		MaxLayers:   float32(ctx.Float64("layers")),
	}
	opts.Relief = ctx.Bool("relief")
	opts.Tiling = float32(ctx.Float64("tiling"))

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	img, err := preview.Render(runCtx, opts, field, albedo)
	if err != nil {
		return err
	}
	logger.Debugf("rendered %dx%d in %s", opts.Width, opts.Height, time.Since(start))

	out, err := os.Create(ctx.String("out"))
	if err != nil {
		return err
	}
	if err := png.Encode(out, img); err != nil {
		out.Close()
		return err
	}
	logger.Infof("wrote %s", ctx.String("out"))
	return out.Close()
}

// viewDirection returns the tangent-space direction towards the eye for a
// view tilted from the normal and rotated around it, both in degrees.
func viewDirection(tilt, azimuth float32) mgl32.Vec3 {
	t := mgl32.DegToRad(tilt)
	a := mgl32.DegToRad(azimuth)
	return mgl32.Vec3{
		math32.Sin(t) * math32.Cos(a),
		math32.Sin(t) * math32.Sin(a),
		math32.Cos(t),
	}
}

func decodeImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	return img, err
}
