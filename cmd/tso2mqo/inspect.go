package main

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"

	"tso2mqo/internal/mathutil"
	"tso2mqo/internal/skeleton"
	"tso2mqo/internal/textenc"
	"tso2mqo/internal/tso"
)

func loadModel(ctx *cli.Context) (*tso.File, error) {
	if ctx.NArg() != 1 {
		return nil, cli.NewExitError(ctx.Command.Name+": expected exactly one source model", 1)
	}
	enc, err := textenc.Lookup(ctx.String("source-encoding"))
	if err != nil {
		return nil, err
	}
	return tso.Load(ctx.Args().First(), tso.ReaderConfig{Encoding: enc})
}

func newTable(buf *bytes.Buffer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader(header)
	return table
}

func inspectModel(ctx *cli.Context) error {
	f, err := loadModel(ctx)
	if err != nil {
		return err
	}
	f.UpdateWorld()

	var buf bytes.Buffer

	table := newTable(&buf, "Id", "Node", "Parent", "Children", "World position")
	for _, n := range f.Nodes {
		parent := "-"
		if !n.IsRoot() {
			parent = f.Nodes[n.Parent].Name
		}
		p := mathutil.Translation(n.World)
		table.Append([]string{
			fmt.Sprintf("%d", n.ID),
			n.Path,
			parent,
			fmt.Sprintf("%d", len(n.Children)),
			fmt.Sprintf("%.4f %.4f %.4f", p[0], p[1], p[2]),
		})
	}
	table.Render()
	buf.WriteString("\n")

	sk, err := skeleton.Build(f)
	if err != nil {
		return err
	}
	table = newTable(&buf, "Bone", "Name", "Parent", "Tip", "Tail")
	for _, b := range sk.Bones {
		parent := "-"
		if p, ok := sk.Bone(b.ParentID); ok {
			parent = p.Name
		}
		table.Append([]string{
			fmt.Sprintf("%d", b.ID),
			b.Name,
			parent,
			fmt.Sprintf("%.4f %.4f %.4f", b.Tip[0], b.Tip[1], b.Tip[2]),
			fmt.Sprintf("%v", b.Tail),
		})
	}
	table.Render()
	buf.WriteString("\n")

	table = newTable(&buf, "Texture", "File", "Size", "Depth")
	for _, t := range f.Textures {
		table.Append([]string{t.Name, t.File, fmt.Sprintf("%dx%d", t.Width, t.Height), fmt.Sprintf("%d", t.Depth)})
	}
	table.Render()
	buf.WriteString("\n")

	table = newTable(&buf, "Material", "Shader", "ColorTex", "ShadeTex", "Unknown parameters")
	for _, m := range f.Materials {
		var unknown []string
		for _, p := range m.Unknown {
			unknown = append(unknown, p.Name)
		}
		table.Append([]string{m.Name, m.Shader, m.ColorTex, m.ShadeTex, strings.Join(unknown, ", ")})
	}
	table.Render()
	buf.WriteString("\n")

	table = newTable(&buf, "Mesh", "Submeshes", "Vertices", "Palette sizes", "Specs")
	totalVerts := 0
	for _, m := range f.Meshes {
		verts := 0
		var palettes, specs []string
		for _, s := range m.SubMeshes {
			verts += len(s.Vertices)
			palettes = append(palettes, fmt.Sprintf("%d", len(s.Palette)))
			specs = append(specs, fmt.Sprintf("%d", s.Spec))
		}
		totalVerts += verts
		table.Append([]string{
			m.Name,
			fmt.Sprintf("%d", len(m.SubMeshes)),
			fmt.Sprintf("%d", verts),
			strings.Join(palettes, " "),
			strings.Join(specs, " "),
		})
	}
	table.SetFooter([]string{"Total", fmt.Sprintf("%d", len(f.Meshes)), fmt.Sprintf("%d", totalVerts), "", ""})
	table.Render()

	fmt.Print(buf.String())
	return nil
}
