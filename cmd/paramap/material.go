package main

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gekko3d/paramap"
	"github.com/gekko3d/paramap/material"
	"github.com/gekko3d/paramap/shaders"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

var errMissingArg = errors.New("missing material file argument")

// Variant prints the variant key of a material file.
func Variant(ctx *cli.Context) error {
	logger := setupLogging(ctx)
	if ctx.NArg() != 1 {
		return errMissingArg
	}
	path := ctx.Args().First()
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	cfg, err := paramap.ParseMaterial(data, filepath.Ext(path), paramap.PathResolver{})
	if err != nil {
		return err
	}
	logger.Debugf("parsed %s", path)
	fmt.Print(variantTable(material.SelectVariant(&cfg)))
	return nil
}

func variantTable(key material.VariantKey) string {
	state := material.DefaultProvider{}.Specialize(key)
	defines := strings.Join(state.Defines, ", ")
	if defines == "" {
		defines = "-"
	}

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeader([]string{"Property", "Value"})
	table.Append([]string{"key", key.String()})
	table.Append([]string{"defines", defines})
	table.Append([]string{"cull mode", state.CullMode.String()})
	table.Append([]string{"label", state.Label(shaders.ParallaxShaderName)})
	table.Render()
	return buf.String()
}

// Uniform loads a material file with its textures and prints its uniform
// block.
func Uniform(ctx *cli.Context) error {
	logger := setupLogging(ctx)
	if ctx.NArg() != 1 {
		return errMissingArg
	}
	assets := paramap.NewAssetServer()
	cfg, err := paramap.LoadMaterialFile(ctx.Args().First(), assets)
	if err != nil {
		return err
	}
	for _, slot := range material.Slots {
		if info, ok := assets.TextureInfo(cfg.Texture(slot.Kind)); ok {
			logger.Debugf("%s: %dx%d format %#x", slot.Kind, info.Width, info.Height, uint32(info.Format))
		}
	}
	u := material.NewUniform(&cfg, assets)
	return writeUniform(os.Stdout, &u)
}

func writeUniform(w io.Writer, u *material.Uniform) error {
	values := []string{
		fmt.Sprintf("%.4f %.4f %.4f %.4f", u.BaseColor[0], u.BaseColor[1], u.BaseColor[2], u.BaseColor[3]),
		fmt.Sprintf("%.4f %.4f %.4f %.4f", u.Emissive[0], u.Emissive[1], u.Emissive[2], u.Emissive[3]),
		fmt.Sprintf("%.4f", u.Roughness),
		fmt.Sprintf("%.4f", u.Metallic),
		fmt.Sprintf("%.4f", u.Reflectance),
		fmt.Sprintf("%#06x", uint32(u.Flags)),
		fmt.Sprintf("%.4f", u.AlphaCutoff),
		fmt.Sprintf("%.4f", u.HeightDepth),
		fmt.Sprintf("%.0f", u.MaxHeightLayers),
	}

	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeader([]string{"Field", "Offset", "Size", "Value"})
	for i, f := range material.Layout {
		table.Append([]string{f.Name, fmt.Sprint(f.Offset), fmt.Sprint(f.Size), values[i]})
	}
	table.SetFooter([]string{"", "", fmt.Sprint(material.UniformSize), "bytes"})
	table.Render()

	_, err := io.WriteString(w, hex.Dump(u.Marshal()))
	return err
}

// Shader prints the parallax shader preprocessed for the selected variant.
func Shader(ctx *cli.Context) error {
	setupLogging(ctx)
	defines := ctx.StringSlice("define")
	if ctx.Bool("relief") {
		defines = append(defines, material.ShaderDefReliefMapping)
	}
	src, err := shaders.Preprocess(shaders.ParallaxMapWGSL, defines)
	if err != nil {
		return err
	}
	fmt.Print(src)
	return nil
}
