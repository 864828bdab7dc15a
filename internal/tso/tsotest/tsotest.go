// Package tsotest builds source model byte streams for tests.
package tsotest

import (
	"bytes"
	"encoding/binary"
	"math"
)

// Model describes a source model; Bytes encodes it.
type Model struct {
	Nodes     []Node
	Textures  []Texture
	Effects   []Effect
	Materials []Material
	Meshes    []Mesh
}

type Node struct {
	Path   string
	Matrix [16]float32
}

type Texture struct {
	Name, File           string
	Width, Height, Depth int32
	Data                 []byte
}

type Effect struct {
	Name  string
	Lines []string
}

type Material struct {
	Name, File string
	Lines      []string
}

type Mesh struct {
	Name      string
	Matrix    [16]float32
	Effect    int32
	SubMeshes []SubMesh
}

type SubMesh struct {
	Spec     int32
	Palette  []int32
	Vertices []Vertex
}

type Vertex struct {
	Pos, Nrm [3]float32
	UV       [2]float32
	Bones    []Bone
}

type Bone struct {
	Index  int32
	Weight float32
}

// Identity returns the row-major identity matrix.
func Identity() [16]float32 {
	return [16]float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}
}

// Translation returns a row-major matrix translating by (x, y, z).
func Translation(x, y, z float32) [16]float32 {
	m := Identity()
	m[12], m[13], m[14] = x, y, z
	return m
}

// Writer appends little-endian primitives.
type Writer struct {
	bytes.Buffer
}

func (w *Writer) I32(v int32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(v))
	w.Write(b[:])
}

func (w *Writer) F32(v float32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], math.Float32bits(v))
	w.Write(b[:])
}

func (w *Writer) Str(s string) {
	w.I32(int32(len(s)))
	w.WriteString(s)
}

func (w *Writer) Floats(v ...float32) {
	for _, f := range v {
		w.F32(f)
	}
}

func (w *Writer) Lines(lines []string) {
	w.I32(int32(len(lines)))
	for _, l := range lines {
		w.Str(l)
	}
}

// Bytes encodes the model, magic tag included.
func (m Model) Bytes() []byte {
	var w Writer
	w.WriteString("TSO1")

	w.I32(int32(len(m.Nodes)))
	for _, n := range m.Nodes {
		w.Str(n.Path)
	}
	w.I32(int32(len(m.Nodes)))
	for _, n := range m.Nodes {
		w.Floats(n.Matrix[:]...)
	}

	w.I32(int32(len(m.Textures)))
	for _, t := range m.Textures {
		w.Str(t.Name)
		w.Str(t.File)
		w.I32(t.Width)
		w.I32(t.Height)
		w.I32(t.Depth)
		w.Write(t.Data)
	}

	w.I32(int32(len(m.Effects)))
	for _, e := range m.Effects {
		w.Str(e.Name)
		w.Lines(e.Lines)
	}

	w.I32(int32(len(m.Materials)))
	for _, mat := range m.Materials {
		w.Str(mat.Name)
		w.Str(mat.File)
		w.Lines(mat.Lines)
	}

	w.I32(int32(len(m.Meshes)))
	for _, mesh := range m.Meshes {
		w.Str(mesh.Name)
		w.Floats(mesh.Matrix[:]...)
		w.I32(mesh.Effect)
		w.I32(int32(len(mesh.SubMeshes)))
		for _, sub := range mesh.SubMeshes {
			w.I32(sub.Spec)
			w.I32(int32(len(sub.Palette)))
			for _, id := range sub.Palette {
				w.I32(id)
			}
			w.I32(int32(len(sub.Vertices)))
			for _, v := range sub.Vertices {
				w.Floats(v.Pos[:]...)
				w.Floats(v.Nrm[:]...)
				w.Floats(v.UV[:]...)
				w.I32(int32(len(v.Bones)))
				for _, b := range v.Bones {
					w.I32(b.Index)
					w.F32(b.Weight)
				}
			}
		}
	}
	return w.Buffer.Bytes()
}

// Chain returns a three-node hierarchy |root|child|grandchild, each node
// translated by one unit along Y relative to its parent.
func Chain() []Node {
	return []Node{
		{Path: "|root", Matrix: Translation(0, 1, 0)},
		{Path: "|root|child", Matrix: Translation(0, 1, 0)},
		{Path: "|root|child|grandchild", Matrix: Translation(0, 1, 0)},
	}
}

// Sample is a small model: a three-node chain, one 2x1 RGB texture, one
// material referencing it, and one mesh with a triangle submesh and a quad
// submesh sharing three positions.
func Sample() Model {
	up := [3]float32{0, 0, 1}
	v := func(x, y float32, u, vv float32, bones ...Bone) Vertex {
		return Vertex{Pos: [3]float32{x, y, 0}, Nrm: up, UV: [2]float32{u, vv}, Bones: bones}
	}
	full := func(i int32) Bone { return Bone{Index: i, Weight: 1} }

	return Model{
		Nodes: Chain(),
		Textures: []Texture{{
			Name: "tex0", File: `"body.bmp"`, Width: 2, Height: 1, Depth: 3,
			Data: []byte{1, 2, 3, 4, 5, 6},
		}},
		Effects: []Effect{{Name: "toon.cgfx", Lines: []string{"// effect"}}},
		Materials: []Material{{
			Name: "body",
			File: "body.txt",
			Lines: []string{
				`string description = "TA ToonShader v0.50"`,
				`string shader = "TAToonshade_050.cgfx"`,
				`float Ambient = [38]`,
				`float4 PenColor = [0.166, 0.166, 0.166, 1]`,
				`texture ColorTex = tex0`,
				`float Unheard = [1]`,
			},
		}},
		Meshes: []Mesh{{
			Name:   "body",
			Matrix: Identity(),
			SubMeshes: []SubMesh{
				{
					Spec:    0,
					Palette: []int32{1, 2},
					Vertices: []Vertex{
						v(0, 0, 0, 0, full(0)),
						v(1, 0, 1, 0, full(0)),
						v(0, 1, 0, 1, Bone{Index: 0, Weight: 0.5}, Bone{Index: 1, Weight: 0.5}),
					},
				},
				{
					Spec:    0,
					Palette: []int32{0},
					Vertices: []Vertex{
						v(0, 0, 0, 0, full(0)),
						v(1, 0, 1, 0, full(0)),
						v(0, 1, 0, 1, full(0)),
						v(1, 1, 1, 1, full(0)),
					},
				},
			},
		}},
	}
}
