package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/urfave/cli"

	"tso2mqo/internal/batch"
	"tso2mqo/internal/config"
	"tso2mqo/internal/texture"
)

var convertFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "config, c",
		Usage: "JSON or YAML config file",
	},
	cli.StringFlag{
		Name:  "out, o",
		Usage: "output directory (default: next to each input)",
	},
	cli.BoolFlag{
		Name:  "mqx",
		Usage: "write the bone sidecar and uid annotations",
	},
	cli.StringFlag{
		Name:  "texture-format",
		Usage: "texture output format: " + strings.Join(texture.Formats, ", ") + " (default: auto)",
	},
	cli.BoolFlag{
		Name:  "skip-textures",
		Usage: "do not write texture files",
	},
	cli.StringFlag{
		Name:  "source-encoding",
		Usage: "text encoding of source strings (default: shift_jis)",
	},
	cli.StringFlag{
		Name:  "target-encoding",
		Usage: "text encoding of .mqo files (default: shift_jis)",
	},
	cli.IntFlag{
		Name:  "workers",
		Usage: "number of parallel conversions (default: NumCPU)",
	},
	cli.StringFlag{
		Name:  "manifest",
		Usage: "write a JSON manifest of the run to this path",
	},
}

func convertModels(ctx *cli.Context) error {
	if ctx.NArg() == 0 {
		return cli.NewExitError("convert: no input files", 1)
	}

	var cfg config.Config
	if path := ctx.String("config"); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return err
		}
	}

	// CLI flags override config file
	err := cfg.Resolve(config.Flags{
		OutputDir:      ctx.String("out"),
		Manifest:       ctx.String("manifest"),
		TextureFormat:  ctx.String("texture-format"),
		SourceEncoding: ctx.String("source-encoding"),
		TargetEncoding: ctx.String("target-encoding"),
		Workers:        ctx.Int("workers"),
		Sidecar:        ctx.Bool("mqx"),
		SkipTextures:   ctx.Bool("skip-textures"),
	})
	if err != nil {
		return err
	}
	opts, err := cfg.Options()
	if err != nil {
		return err
	}

	inputs := []string(ctx.Args())
	logger.Noticef("converting %d file(s) with %d worker(s)", len(inputs), cfg.Workers)
	start := time.Now()

	results := batch.Run(batch.Config{
		OutputDir: cfg.OutputDir,
		Options:   opts,
		Workers:   cfg.Workers,
		Progress:  2 * time.Second,
	}, inputs)

	failed := 0
	for _, r := range results {
		if r.Success {
			fmt.Printf("%s -> %s (%d objects, %d vertices, %d faces)\n", r.Source, r.Target, r.Objects, r.Vertices, r.Faces)
			continue
		}
		failed++
		fmt.Printf("%s: FAILED: %s\n", r.Source, r.Error)
	}
	logger.Noticef("done in %.1fs: %d/%d converted", time.Since(start).Seconds(), len(results)-failed, len(results))

	if cfg.Manifest != "" {
		if err := batch.WriteManifest(cfg.Manifest, results); err != nil {
			logger.Warningf("manifest write failed: %v", err)
		} else {
			logger.Noticef("manifest: %s", cfg.Manifest)
		}
	}

	if failed > 0 {
		return cli.NewExitError(fmt.Sprintf("convert: %d of %d file(s) failed", failed, len(results)), 1)
	}
	return nil
}
