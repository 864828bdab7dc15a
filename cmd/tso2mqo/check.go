package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/urfave/cli"
	"golang.org/x/text/encoding"

	"tso2mqo/internal/mqo"
	"tso2mqo/internal/mqx"
	"tso2mqo/internal/textenc"
)

func checkFiles(ctx *cli.Context) error {
	if ctx.NArg() == 0 {
		return cli.NewExitError("check: no input files", 1)
	}
	enc, err := textenc.Lookup(ctx.String("encoding"))
	if err != nil {
		return err
	}

	failed := 0
	for _, path := range ctx.Args() {
		var summary string
		if strings.EqualFold(filepath.Ext(path), ".mqx") {
			summary, err = checkSidecar(path)
		} else {
			summary, err = checkDocument(path, enc)
		}
		if err != nil {
			failed++
			fmt.Printf("%s: FAILED: %v\n", path, err)
			continue
		}
		fmt.Printf("%s: %s\n", path, summary)
	}

	if failed > 0 {
		return cli.NewExitError(fmt.Sprintf("check: %d of %d file(s) failed", failed, ctx.NArg()), 1)
	}
	return nil
}

func checkDocument(path string, enc encoding.Encoding) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	doc, err := mqo.Read(textenc.NewReader(f, enc))
	if err != nil {
		return "", err
	}

	verts, faces := 0, 0
	for _, o := range doc.Objects {
		verts += len(o.Vertices)
		faces += len(o.Faces)
	}
	logger.Debugf("%s: %+v", path, doc.Scene)
	return fmt.Sprintf("version %s, %d materials, %d objects, %d vertices, %d faces", doc.Version, len(doc.Materials), len(doc.Objects), verts, faces), nil
}

func checkSidecar(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	doc, err := mqx.Read(f)
	if err != nil {
		return "", err
	}

	ids := make(map[int]bool, len(doc.Plugin.Bones))
	weights := 0
	for _, b := range doc.Plugin.Bones {
		ids[b.ID] = true
		weights += len(b.Weights)
	}
	for _, b := range doc.Plugin.Bones {
		if b.Parent.ID != 0 && !ids[b.Parent.ID] {
			return "", errors.Errorf("bone %d: unknown parent %d", b.ID, b.Parent.ID)
		}
		for _, c := range b.Children {
			if !ids[c.ID] {
				return "", errors.Errorf("bone %d: unknown child %d", b.ID, c.ID)
			}
		}
	}
	return fmt.Sprintf("included by %s, %d bones, %d weights, %d objects", doc.IncludedBy, len(doc.Plugin.Bones), weights, len(doc.Plugin.Objects)), nil
}
