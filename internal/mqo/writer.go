package mqo

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// WriterConfig controls optional output.
type WriterConfig struct {
	// UIDs writes each object's uid and a vertexattr uid block numbering its
	// vertices from 1. The bone sidecar refers to objects and vertices by
	// these ids.
	UIDs bool
}

// Write emits doc in format version 1.0. Quads are split into the triangles
// (0 1 2) and (0 2 3). Names are written quoted with no escaping, so a name
// holding a double quote or a line break is rejected. Only the first write
// error is reported.
func Write(w io.Writer, doc *Document, cfg WriterConfig) error {
	if err := checkName("include", doc.IncludeXML); err != nil {
		return err
	}
	for i := range doc.Materials {
		if err := checkName("material", doc.Materials[i].Name); err != nil {
			return err
		}
		if err := checkName("texture", doc.Materials[i].Tex); err != nil {
			return err
		}
	}
	for oi := range doc.Objects {
		if err := checkName("object", doc.Objects[oi].Name); err != nil {
			return err
		}
		for fi, f := range doc.Objects[oi].Faces {
			if len(f.V) != 3 && len(f.V) != 4 {
				return fmt.Errorf("mqo: object %q face %d has %d vertices", doc.Objects[oi].Name, fi, len(f.V))
			}
			if len(f.UV) != 0 && len(f.UV) != len(f.V) {
				return fmt.Errorf("mqo: object %q face %d has %d vertices and %d uvs", doc.Objects[oi].Name, fi, len(f.V), len(f.UV))
			}
		}
	}

	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, HeaderTitle)
	fmt.Fprintln(bw, HeaderFormat, WriteVersion)
	fmt.Fprintln(bw)
	if doc.IncludeXML != "" {
		fmt.Fprintf(bw, "%s \"%s\"\n", chunkInclude, doc.IncludeXML)
		fmt.Fprintln(bw)
	}

	writeScene(bw, &doc.Scene)

	fmt.Fprintf(bw, "%s %d {\n", chunkMaterial, len(doc.Materials))
	for i := range doc.Materials {
		writeMaterial(bw, &doc.Materials[i])
	}
	fmt.Fprintln(bw, blockClose)

	for i := range doc.Objects {
		writeObject(bw, &doc.Objects[i], cfg)
	}

	fmt.Fprintln(bw, chunkEOF)
	return bw.Flush()
}

func checkName(what, name string) error {
	if strings.ContainsAny(name, "\"\r\n") {
		return fmt.Errorf("mqo: %s name %q cannot be quoted", what, name)
	}
	return nil
}

func writeScene(w io.Writer, s *Scene) {
	fmt.Fprintf(w, "%s {\n", chunkScene)
	fmt.Fprintf(w, "\tpos %.4f %.4f %.4f\n", s.Pos[0], s.Pos[1], s.Pos[2])
	fmt.Fprintf(w, "\tlookat %.4f %.4f %.4f\n", s.LookAt[0], s.LookAt[1], s.LookAt[2])
	fmt.Fprintf(w, "\thead %.4f\n", s.Head)
	fmt.Fprintf(w, "\tpich %.4f\n", s.Pich)
	fmt.Fprintf(w, "\tortho %d\n", s.Ortho)
	fmt.Fprintf(w, "\tzoom2 %.4f\n", s.Zoom2)
	fmt.Fprintf(w, "\tamb %.3f %.3f %.3f\n", s.Amb[0], s.Amb[1], s.Amb[2])
	fmt.Fprintln(w, blockClose)
}

func writeMaterial(w io.Writer, m *Material) {
	fmt.Fprintf(w, "\t\"%s\" col(%.3f %.3f %.3f %.3f) dif(%.3f) amb(%.3f) emi(%.3f) spc(%.3f) power(%.2f)",
		m.Name, m.Color[0], m.Color[1], m.Color[2], m.Color[3], m.Dif, m.Amb, m.Emi, m.Spc, m.Power)
	if m.Tex != "" {
		fmt.Fprintf(w, " tex(\"%s\")", m.Tex)
	}
	fmt.Fprintln(w)
}

func writeObject(w io.Writer, o *Object, cfg WriterConfig) {
	fmt.Fprintf(w, "%s \"%s\" {\n", chunkObject, o.Name)
	if cfg.UIDs {
		fmt.Fprintf(w, "\tuid %d\n", o.UID)
	}
	fmt.Fprintf(w, "\tvisible %d\n", o.Visible)
	fmt.Fprintf(w, "\tlocking %d\n", o.Locking)
	fmt.Fprintf(w, "\tshading %d\n", o.Shading)
	fmt.Fprintf(w, "\tfacet %s\n", strconv.FormatFloat(o.Facet, 'f', -1, 64))
	fmt.Fprintf(w, "\tcolor %.3f %.3f %.3f\n", o.Color[0], o.Color[1], o.Color[2])
	fmt.Fprintf(w, "\tcolor_type %d\n", o.ColorType)

	fmt.Fprintf(w, "\tvertex %d {\n", len(o.Vertices))
	for _, v := range o.Vertices {
		fmt.Fprintf(w, "\t\t%.4f %.4f %.4f\n", v[0], v[1], v[2])
	}
	fmt.Fprintln(w, "\t"+blockClose)

	if cfg.UIDs {
		fmt.Fprintln(w, "\tvertexattr {")
		fmt.Fprintln(w, "\t\tuid {")
		for i := range o.Vertices {
			fmt.Fprintf(w, "\t\t\t%d\n", i+1)
		}
		fmt.Fprintln(w, "\t\t"+blockClose)
		fmt.Fprintln(w, "\t"+blockClose)
	}

	fmt.Fprintf(w, "\tface %d {\n", countTriangles(o.Faces))
	for _, f := range o.Faces {
		writeTriangle(w, f, 0, 1, 2)
		if len(f.V) == 4 {
			writeTriangle(w, f, 0, 2, 3)
		}
	}
	fmt.Fprintln(w, "\t"+blockClose)
	fmt.Fprintln(w, blockClose)
}

func countTriangles(faces []Face) int {
	n := 0
	for _, f := range faces {
		n += len(f.V) - 2
	}
	return n
}

// writeTriangle writes corners i, j, k of f as one triangle.
func writeTriangle(w io.Writer, f Face, i, j, k int) {
	fmt.Fprintf(w, "\t\t3 V(%d %d %d)", f.V[i], f.V[j], f.V[k])
	if f.Material >= 0 {
		fmt.Fprintf(w, " M(%d)", f.Material)
	}
	if len(f.UV) > 0 {
		fmt.Fprintf(w, " UV(%.5f %.5f %.5f %.5f %.5f %.5f)",
			f.UV[i][0], f.UV[i][1], f.UV[j][0], f.UV[j][1], f.UV[k][0], f.UV[k][1])
	}
	fmt.Fprintln(w)
}
