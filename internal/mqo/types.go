// Package mqo reads and writes the Metasequoia text document format.
//
// Both directions share the keywords and defaults in grammar.go. Read
// parses a document section by section; Write emits the same grammar.
package mqo

import "github.com/go-gl/mathgl/mgl32"

// Document is a parsed or to-be-written target file.
type Document struct {
	Version    string // "1.0" or "1.1"
	IncludeXML string // sidecar file name, empty when absent
	Scene      Scene
	Materials  []Material
	Objects    []Object
}

// Scene is the camera framing block.
type Scene struct {
	Pos    [3]float64
	LookAt [3]float64
	Head   float64
	Pich   float64
	Ortho  int
	Zoom2  float64
	Amb    [3]float64
}

// Material is one entry of the Material block.
type Material struct {
	Name  string
	Color [4]float64
	Dif   float64
	Amb   float64
	Emi   float64
	Spc   float64
	Power float64
	Tex   string // empty when the material has no texture
}

// Object is one polygon mesh.
type Object struct {
	Name      string
	UID       int
	Visible   int
	Locking   int
	Shading   int
	Facet     float64
	Color     [3]float64
	ColorType int

	Vertices   []mgl32.Vec3
	VertexUIDs []int // from vertexattr; empty when absent
	Faces      []Face
}

// Face is a triangle or quad. V indexes the owning object's vertices; UV has
// one entry per corner or none. Material is -1 when the face has none.
type Face struct {
	V        []int
	Material int
	UV       []mgl32.Vec2
}
