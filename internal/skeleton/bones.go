// Package skeleton derives bone records from a loaded node hierarchy and
// collects per-bone vertex weights from welded objects.
package skeleton

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"tso2mqo/internal/mathutil"
	"tso2mqo/internal/tso"
	"tso2mqo/internal/weight"
	"tso2mqo/internal/weld"
)

// ErrNotRemapped is returned by AddWeights when the source file still
// carries palette-local lane indices.
var ErrNotRemapped = errors.New("skeleton: bone indices not remapped")

// Assignment is one weighted vertex of a bone. Object and Vertex are 1-based;
// Percent is the lane weight times 100, unnormalized.
type Assignment struct {
	Object  int
	Vertex  int
	Percent float32
}

// Bone is one joint. IDs are 1-based node ids; ParentID 0 means none.
type Bone struct {
	ID       int
	Name     string
	ParentID int
	ChildIDs []int
	Root     mgl32.Vec3
	Tip      mgl32.Vec3
	Tail     bool // no children; Tip == Root
	Weights  []Assignment
}

// Skeleton holds one bone per node, in node id order.
type Skeleton struct {
	Bones    []Bone
	remapped bool
}

// Build recomputes world matrices and creates a bone per node. The root is
// the node's world translation and the tip its first child's, or the root
// itself for childless nodes.
func Build(f *tso.File) (*Skeleton, error) {
	f.UpdateWorld()

	s := &Skeleton{
		Bones:    make([]Bone, len(f.Nodes)),
		remapped: f.Remapped(),
	}
	for i := range f.Nodes {
		n := &f.Nodes[i]
		b := &s.Bones[i]

		b.ID = n.ID + 1
		b.Name = n.Name
		b.Root = mathutil.Translation(n.World)

		if !n.IsRoot() {
			if n.Parent < 0 || n.Parent >= len(f.Nodes) {
				return nil, fmt.Errorf("skeleton: node %q has parent id %d outside 0..%d", n.Path, n.Parent, len(f.Nodes)-1)
			}
			b.ParentID = n.Parent + 1
		}

		b.ChildIDs = make([]int, 0, len(n.Children))
		for _, c := range n.Children {
			if c < 0 || c >= len(f.Nodes) {
				return nil, fmt.Errorf("skeleton: node %q has child id %d outside 0..%d", n.Path, c, len(f.Nodes)-1)
			}
			b.ChildIDs = append(b.ChildIDs, c+1)
		}

		if len(n.Children) == 0 {
			b.Tip = b.Root
			b.Tail = true
		} else {
			b.Tip = mathutil.Translation(f.Nodes[n.Children[0]].World)
		}
	}
	return s, nil
}

// AddWeights appends every contributing lane of verts to its bone. objectID
// is the 1-based emission order of the object owning verts; vertex ids are
// 1-based positions in verts.
func (s *Skeleton) AddWeights(objectID int, verts []weld.Vertex) error {
	if !s.remapped {
		return ErrNotRemapped
	}

	for vi, v := range verts {
		for _, lane := range v.Weights.Contributing() {
			id := int(lane.Index)
			if id >= len(s.Bones) {
				return &tso.LookupError{What: "bone", Key: fmt.Sprintf("%d (object %d vertex %d)", id, objectID, vi+1)}
			}
			s.Bones[id].Weights = append(s.Bones[id].Weights, Assignment{
				Object:  objectID,
				Vertex:  vi + 1,
				Percent: weight.Percent(lane.Weight),
			})
		}
	}
	return nil
}

// Bone returns the bone with 1-based id.
func (s *Skeleton) Bone(id int) (*Bone, bool) {
	if id < 1 || id > len(s.Bones) {
		return nil, false
	}
	return &s.Bones[id-1], true
}
