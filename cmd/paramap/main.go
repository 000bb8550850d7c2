package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli"
)

func main() {
	app := cli.NewApp()
	app.Name = "paramap"
	app.Usage = "inspect parallax materials and preview height maps"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable debug logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:      "variant",
			Usage:     "print the shader variant a material compiles to",
			ArgsUsage: "material.toml|material.yaml",
			Action:    Variant,
		},
		{
			Name:  "uniform",
			Usage: "print the uniform block of a material",
			Description: `
Load a material file and its textures and print every member of the uniform
block with its byte offset, followed by the encoded block.`,
			ArgsUsage: "material.toml|material.yaml",
			Action:    Uniform,
		},
		{
			Name:  "shader",
			Usage: "print the preprocessed parallax shader",
			Flags: []cli.Flag{
				cli.BoolFlag{
					Name:  "relief",
					Usage: "select the relief mapping variant",
				},
				cli.StringSliceFlag{
					Name:  "define, D",
					Value: &cli.StringSlice{},
					Usage: "additional shader define",
				},
			},
			Action: Shader,
		},
		{
			Name:  "preview",
			Usage: "render a parallax mapped plane to a png",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "height-map",
					Usage: "height map image; black is the top of the surface",
				},
				cli.StringFlag{
					Name:  "albedo",
					Usage: "color image; when omitted the displaced uv is rendered",
				},
				cli.StringFlag{
					Name:  "out, o",
					Value: "preview.png",
					Usage: "output png",
				},
				cli.IntFlag{
					Name:  "width",
					Value: 512,
					Usage: "output width",
				},
				cli.IntFlag{
					Name:  "height",
					Value: 512,
					Usage: "output height",
				},
				cli.Float64Flag{
					Name:  "depth",
					Value: 0.1,
					Usage: "height depth in uv units",
				},
				cli.Float64Flag{
					Name:  "layers",
					Value: 16,
					Usage: "steep search layer count",
				},
				cli.BoolFlag{
					Name:  "relief",
					Usage: "refine with relief mapping instead of parallax occlusion mapping",
				},
				cli.Float64Flag{
					Name:  "tilt",
					Value: 45,
					Usage: "view angle from the surface normal, in degrees",
				},
				cli.Float64Flag{
					Name:  "azimuth",
					Value: 0,
					Usage: "view direction around the normal, in degrees",
				},
				cli.Float64Flag{
					Name:  "tiling",
					Value: 1,
					Usage: "texture repetitions across the plane",
				},
			},
			Action: Preview,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
