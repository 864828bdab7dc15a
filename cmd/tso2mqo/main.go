package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli"
)

func main() {
	app := cli.NewApp()
	app.Name = "tso2mqo"
	app.Usage = "convert TSO rigged models to Metasequoia documents"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Before = setupLogging
	app.Commands = []cli.Command{
		{
			Name:  "convert",
			Usage: "convert source models to .mqo files",
			Description: `
Read each TSO file, weld and triangulate its meshes and write one .mqo file per
input. Textures are written next to the target. With --mqx a bone sidecar
(.mqx) carrying the skeleton and vertex weights is written as well.

Inputs are converted in parallel; a failed input leaves no output behind.`,
			ArgsUsage: "model1.tso model2.tso ...",
			Flags:     convertFlags,
			Action:    convertModels,
		},
		{
			Name:      "inspect",
			Usage:     "list the nodes, textures, materials and meshes of a source model",
			ArgsUsage: "model.tso",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "source-encoding",
					Value: "shift_jis",
					Usage: "text encoding of source strings",
				},
			},
			Action: inspectModel,
		},
		{
			Name:      "dump",
			Usage:     "dump the decoded scene graph of a source model",
			ArgsUsage: "model.tso",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "source-encoding",
					Value: "shift_jis",
					Usage: "text encoding of source strings",
				},
				cli.BoolFlag{
					Name:  "pixels",
					Usage: "include texture pixel data",
				},
			},
			Action: dumpModel,
		},
		{
			Name:      "check",
			Usage:     "parse .mqo and .mqx files and report their contents",
			ArgsUsage: "file1.mqo file2.mqx ...",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "encoding",
					Value: "shift_jis",
					Usage: "text encoding of .mqo files",
				},
			},
			Action: checkFiles,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
