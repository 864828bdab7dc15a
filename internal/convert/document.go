package convert

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"tso2mqo/internal/mqo"
	"tso2mqo/internal/skeleton"
	"tso2mqo/internal/strip"
	"tso2mqo/internal/texture"
	"tso2mqo/internal/tso"
	"tso2mqo/internal/weld"
)

// Build turns a loaded file into a target document and a skeleton holding
// the weights of every object. f must already be remapped. Each mesh becomes
// one object with 1-based uid in mesh order.
func Build(f *tso.File, textures *texture.Index) (*mqo.Document, *skeleton.Skeleton, error) {
	sk, err := skeleton.Build(f)
	if err != nil {
		return nil, nil, err
	}

	doc := &mqo.Document{
		Version:   mqo.WriteVersion,
		Scene:     mqo.DefaultScene(),
		Materials: make([]mqo.Material, 0, len(f.Materials)),
		Objects:   make([]mqo.Object, 0, len(f.Meshes)),
	}

	for _, m := range f.Materials {
		tex, _ := textures.Resolve(m.ColorTex)
		doc.Materials = append(doc.Materials, mqo.NewMaterial(m.Name, tex))
	}

	var heap weld.Heap
	for mi := range f.Meshes {
		objectID := mi + 1
		obj, err := buildObject(&heap, &f.Meshes[mi])
		if err != nil {
			return nil, nil, fmt.Errorf("mesh %q: %w", f.Meshes[mi].Name, err)
		}
		obj.UID = objectID

		if err := sk.AddWeights(objectID, heap.Vertices()); err != nil {
			return nil, nil, fmt.Errorf("mesh %q: %w", f.Meshes[mi].Name, err)
		}
		doc.Objects = append(doc.Objects, obj)
	}
	return doc, sk, nil
}

// buildObject welds and triangulates every submesh of mesh into one object.
// heap is cleared first and holds the object's vertices on return.
func buildObject(heap *weld.Heap, mesh *tso.Mesh) (mqo.Object, error) {
	heap.Clear()
	obj := mqo.NewObject(mesh.Name)

	var corners []strip.Corner
	for si := range mesh.SubMeshes {
		sub := &mesh.SubMeshes[si]
		if sub.Spec < 0 || sub.Spec > math.MaxUint16 {
			return obj, fmt.Errorf("submesh %d: material index %d out of range", si, sub.Spec)
		}

		corners = corners[:0]
		for _, v := range sub.Vertices {
			handle, err := heap.Add(weld.Vertex{Position: v.Position, Normal: v.Normal, Weights: v.Weights})
			if err != nil {
				return obj, err
			}
			corners = append(corners, strip.Corner{Handle: handle, UV: strip.FlipV(v.UV)})
		}

		for _, tri := range strip.Triangulate(corners, uint16(sub.Spec)) {
			obj.Faces = append(obj.Faces, mqo.Face{
				V:        []int{int(tri.V[0]), int(tri.V[1]), int(tri.V[2])},
				Material: int(tri.Material),
				UV:       []mgl32.Vec2{tri.UV[0], tri.UV[1], tri.UV[2]},
			})
		}
	}

	verts := heap.Vertices()
	obj.Vertices = make([]mgl32.Vec3, len(verts))
	for i, v := range verts {
		obj.Vertices[i] = v.Position
	}
	return obj, nil
}
