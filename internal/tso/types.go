package tso

import (
	"github.com/go-gl/mathgl/mgl32"

	"tso2mqo/internal/weight"
)

// Magic is the 4-byte tag every source model starts with.
const Magic = "TSO1"

// NoParent marks a root node.
const NoParent = -1

// File is the decoded scene graph of one source model. Nodes are an arena
// indexed by id; parent/child links are ids into it.
type File struct {
	Nodes     []Node
	Textures  []Texture
	Effects   []Effect
	Materials []Material
	Meshes    []Mesh

	nodeByPath    map[string]int
	textureByName map[string]int
	remapped      bool
}

// Node is one entry of the transform hierarchy.
type Node struct {
	ID       int
	Path     string // pipe-delimited, e.g. "|W_Hips|W_Spine1"
	Name     string // last path segment
	Parent   int    // NoParent for roots
	Children []int  // file order

	// Local and World hold the column-vector form of the stored row-major
	// matrices; see mathutil.FromRowMajor.
	Local mgl32.Mat4
	World mgl32.Mat4
}

// IsRoot reports whether the node has no parent.
func (n *Node) IsRoot() bool {
	return n.Parent == NoParent
}

// Texture holds a raw pixel buffer. Pixels are Depth bytes each with bytes 0
// and 2 already exchanged, rows bottom-up.
type Texture struct {
	ID     int
	Name   string
	File   string // as recorded, possibly wrapped in quotes
	Width  int
	Height int
	Depth  int
	Data   []byte
}

// Effect is a named shader source block.
type Effect struct {
	Name string
	Code string
}

// Mesh is one output object.
type Mesh struct {
	Name      string
	Transform mgl32.Mat4
	Effect    int
	SubMeshes []SubMesh
}

// SubMesh is a run of strip-ordered vertices sharing one shader spec and one
// bone palette.
type SubMesh struct {
	Spec     int
	Palette  []int // local palette index -> global node id
	Vertices []Vertex
}

// Vertex is one source vertex. Weights holds palette indices until the file
// is remapped and global node ids afterwards.
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	UV       mgl32.Vec2
	Weights  weight.Packed
}

// Node returns the node registered under path.
func (f *File) Node(path string) (*Node, bool) {
	id, ok := f.nodeByPath[path]
	if !ok {
		return nil, false
	}
	return &f.Nodes[id], true
}

// Texture returns the texture registered under name.
func (f *File) Texture(name string) (*Texture, bool) {
	id, ok := f.textureByName[name]
	if !ok {
		return nil, false
	}
	return &f.Textures[id], true
}

// Remapped reports whether RemapBones has run.
func (f *File) Remapped() bool {
	return f.remapped
}
