package main

import (
	"github.com/gekko3d/paramap"
	"github.com/urfave/cli"
)

func setupLogging(ctx *cli.Context) paramap.Logger {
	return paramap.NewDefaultLogger("paramap", ctx.GlobalBool("v"))
}
