package convert

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/bmp"

	"tso2mqo/internal/mqo"
	"tso2mqo/internal/mqx"
	"tso2mqo/internal/skeleton"
	"tso2mqo/internal/textenc"
	"tso2mqo/internal/texture"
	"tso2mqo/internal/tso"
	"tso2mqo/internal/tso/tsotest"
)

func writeSource(t *testing.T, m tsotest.Model) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.tso")
	if err := os.WriteFile(path, m.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func readTarget(t *testing.T, path string) *mqo.Document {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	doc, err := mqo.Read(textenc.NewReader(f, textenc.MustLookup(textenc.Default)))
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestConvertSample(t *testing.T) {
	src := writeSource(t, tsotest.Sample())
	outDir := t.TempDir()
	dst := filepath.Join(outDir, "model.mqo")

	res, err := Convert(src, dst, Options{Sidecar: true})
	if err != nil {
		t.Fatal(err)
	}
	if res.Objects != 1 || res.Vertices != 4 || res.Faces != 3 || res.Bones != 3 || res.Materials != 1 || res.UnknownParams != 1 {
		t.Fatalf("unexpected result:\n%s", spew.Sdump(res))
	}

	doc := readTarget(t, dst)
	if doc.IncludeXML != "model.mqx" {
		t.Fatalf("expected IncludeXml model.mqx; got %q", doc.IncludeXML)
	}
	if len(doc.Materials) != 1 || doc.Materials[0].Name != "body" || doc.Materials[0].Tex != "body.bmp" {
		t.Fatalf("unexpected materials:\n%s", spew.Sdump(doc.Materials))
	}
	if len(doc.Objects) != 1 {
		t.Fatalf("expected 1 object; got %d", len(doc.Objects))
	}

	o := doc.Objects[0]
	if o.Name != "body" || o.UID != 1 || len(o.Vertices) != 4 {
		t.Fatalf("unexpected object:\n%s", spew.Sdump(o))
	}
	var tris [][]int
	for _, f := range o.Faces {
		tris = append(tris, f.V)
	}
	if exp := [][]int{{0, 2, 1}, {0, 2, 1}, {1, 2, 3}}; !reflect.DeepEqual(tris, exp) {
		t.Fatalf("expected faces %v; got %v", exp, tris)
	}
	if exp := []mgl32.Vec2{{0, 1}, {0, 0}, {1, 1}}; !reflect.DeepEqual(o.Faces[0].UV, exp) {
		t.Fatalf("expected flipped uvs %v; got %v", exp, o.Faces[0].UV)
	}

	if got := listDir(t, outDir); !reflect.DeepEqual(got, []string{"body.bmp", "model.mqo", "model.mqx"}) {
		t.Fatalf("unexpected output files %v", got)
	}

	tf, err := os.Open(filepath.Join(outDir, "body.bmp"))
	if err != nil {
		t.Fatal(err)
	}
	defer tf.Close()
	img, err := bmp.Decode(tf)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 2 || b.Dy() != 1 {
		t.Fatalf("expected a 2x1 texture; got %v", b)
	}
}

func TestConvertSidecarWeights(t *testing.T) {
	src := writeSource(t, tsotest.Sample())
	dst := filepath.Join(t.TempDir(), "model.mqo")

	res, err := Convert(src, dst, Options{Sidecar: true, SkipTextures: true})
	if err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(res.Sidecar)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	side, err := mqx.Read(f)
	if err != nil {
		t.Fatal(err)
	}

	if side.IncludedBy != "model.mqo" || len(side.Plugin.Objects) != 1 {
		t.Fatalf("unexpected sidecar header:\n%s", spew.Sdump(side))
	}

	// Lane indices are palette-local in the source; the weights must land on
	// the global nodes the palettes point at.
	exp := map[int][]mqx.Weight{
		1: {{Object: 1, Vertex: 4, Percent: 100}},
		2: {{Object: 1, Vertex: 1, Percent: 100}, {Object: 1, Vertex: 2, Percent: 100}, {Object: 1, Vertex: 3, Percent: 50}},
		3: {{Object: 1, Vertex: 3, Percent: 50}},
	}
	for _, b := range side.Plugin.Bones {
		if !reflect.DeepEqual(b.Weights, exp[b.ID]) {
			t.Fatalf("bone %d: expected weights %v; got %v", b.ID, exp[b.ID], b.Weights)
		}
	}
}

func TestConvertWithoutSidecar(t *testing.T) {
	src := writeSource(t, tsotest.Sample())
	outDir := t.TempDir()
	dst := filepath.Join(outDir, "model.mqo")

	res, err := Convert(src, dst, Options{TextureFormat: texture.FormatPNG})
	if err != nil {
		t.Fatal(err)
	}
	if res.Sidecar != "" {
		t.Fatalf("expected no sidecar; got %q", res.Sidecar)
	}
	if got := listDir(t, outDir); !reflect.DeepEqual(got, []string{"body.png", "model.mqo"}) {
		t.Fatalf("unexpected output files %v", got)
	}

	doc := readTarget(t, dst)
	if doc.IncludeXML != "" || doc.Objects[0].UID != 0 || doc.Objects[0].VertexUIDs != nil {
		t.Fatalf("expected no uid annotations:\n%s", spew.Sdump(doc.Objects[0]))
	}
	if doc.Materials[0].Tex != "body.png" {
		t.Fatalf("expected material to reference body.png; got %q", doc.Materials[0].Tex)
	}
}

func TestConvertLeavesNothingOnFailure(t *testing.T) {
	bad := tsotest.Sample()
	bad.Textures[0].Depth = 2
	bad.Textures[0].Data = []byte{1, 2, 3, 4}

	specs := []struct {
		name  string
		model []byte
	}{
		{"truncated", tsotest.Sample().Bytes()[:40]},
		{"unencodable texture", bad.Bytes()},
	}

	for _, s := range specs {
		srcDir := t.TempDir()
		src := filepath.Join(srcDir, "model.tso")
		if err := os.WriteFile(src, s.model, 0o644); err != nil {
			t.Fatal(err)
		}
		outDir := t.TempDir()

		if _, err := Convert(src, filepath.Join(outDir, "model.mqo"), Options{Sidecar: true}); err == nil {
			t.Fatalf("[%s] expected an error", s.name)
		}
		if got := listDir(t, outDir); len(got) != 0 {
			t.Fatalf("[%s] expected no output files; got %v", s.name, got)
		}
	}
}

func TestConvertErrorKinds(t *testing.T) {
	_, err := Convert(filepath.Join(t.TempDir(), "missing.tso"), filepath.Join(t.TempDir(), "x.mqo"), Options{})
	var ioErr *IOError
	if !errors.As(err, &ioErr) || ioErr.Op != "open" {
		t.Fatalf("expected an open IOError; got %v", err)
	}

	data := tsotest.Sample().Bytes()
	copy(data, "XXXX")
	src := filepath.Join(t.TempDir(), "bad.tso")
	if err := os.WriteFile(src, data, 0o644); err != nil {
		t.Fatal(err)
	}
	_, err = Convert(src, filepath.Join(t.TempDir(), "x.mqo"), Options{})
	var ferr *tso.FormatError
	if !errors.As(err, &ferr) {
		t.Fatalf("expected a tso.FormatError; got %v", err)
	}

	_, err = Convert(src, filepath.Join(t.TempDir(), "x.mqo"), Options{TextureFormat: "jpeg"})
	if err == nil {
		t.Fatal("expected an error for an unknown texture format")
	}
}

func TestBuildRequiresRemap(t *testing.T) {
	f, err := tso.Read(bytes.NewReader(tsotest.Sample().Bytes()), tso.ReaderConfig{})
	if err != nil {
		t.Fatal(err)
	}

	_, _, err = Build(f, texture.NewIndex(f.Textures, texture.FormatAuto))
	if !errors.Is(err, skeleton.ErrNotRemapped) {
		t.Fatalf("expected ErrNotRemapped; got %v", err)
	}
}

func TestSidecarPath(t *testing.T) {
	if got := SidecarPath(filepath.Join("out", "a.b.mqo")); got != filepath.Join("out", "a.b.mqx") {
		t.Fatalf("unexpected sidecar path %q", got)
	}
}

func TestConvertTrimsTextureNames(t *testing.T) {
	m := tsotest.Sample()
	m.Textures[0].Name = "tex0 "
	src := writeSource(t, m)
	outDir := t.TempDir()
	dst := filepath.Join(outDir, "model.mqo")

	res, err := Convert(src, dst, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Textures) != 1 || filepath.Base(res.Textures[0]) != "body.bmp" {
		t.Fatalf("unexpected textures %v", res.Textures)
	}

	doc := readTarget(t, dst)
	if len(doc.Materials) != 1 || doc.Materials[0].Tex != "body.bmp" {
		t.Fatalf("expected material to reference body.bmp:\n%s", spew.Sdump(doc.Materials))
	}
	if got := listDir(t, outDir); !reflect.DeepEqual(got, []string{"body.bmp", "model.mqo"}) {
		t.Fatalf("unexpected output files %v", got)
	}
}
