package main

import (
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/urfave/cli"
)

var spewConfig = &spew.ConfigState{
	Indent:                  "  ",
	DisableCapacities:       true,
	DisablePointerAddresses: true,
	SortKeys:                true,
}

func dumpModel(ctx *cli.Context) error {
	f, err := loadModel(ctx)
	if err != nil {
		return err
	}
	f.UpdateWorld()

	if !ctx.Bool("pixels") {
		for i := range f.Textures {
			f.Textures[i].Data = nil
		}
	}

	fmt.Print(spewConfig.Sdump(f))
	return nil
}
