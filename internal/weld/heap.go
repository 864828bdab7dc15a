// Package weld deduplicates vertices by their exact position and normal.
package weld

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"tso2mqo/internal/weight"
)

// MaxVertices is the number of distinct vertices one object can hold; face
// records index them with 16 bits.
const MaxVertices = math.MaxUint16 + 1

// Vertex is one welded vertex. UV is not part of its identity.
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	Weights  weight.Packed
}

// SizeLimitError is returned when an object needs more distinct vertices
// than a 16-bit handle can address.
type SizeLimitError struct {
	Count int
}

func (e *SizeLimitError) Error() string {
	return fmt.Sprintf("weld: object needs more than %d distinct vertices (%d)", MaxVertices, e.Count)
}

type key [6]uint32

// keyOf maps bit patterns so that 0 and -0 collide and every NaN is one
// value; all other floats compare by exact bits.
func keyOf(pos, nrm mgl32.Vec3) key {
	var k key
	for i := 0; i < 3; i++ {
		k[i] = canonical(pos[i])
		k[i+3] = canonical(nrm[i])
	}
	return k
}

func canonical(f float32) uint32 {
	switch {
	case f == 0:
		return 0
	case f != f:
		return 0x7fc00000
	}
	return math.Float32bits(f)
}

// Heap stores distinct vertices in insertion order. The zero value is ready
// to use.
type Heap struct {
	index    map[key]uint16
	vertices []Vertex
}

// Add returns the handle of v, appending it when no vertex with the same
// position and normal has been added since the last Clear. The first vertex
// added under a key keeps its weights.
func (h *Heap) Add(v Vertex) (uint16, error) {
	if h.index == nil {
		h.index = make(map[key]uint16)
	}

	k := keyOf(v.Position, v.Normal)
	if handle, ok := h.index[k]; ok {
		return handle, nil
	}
	if len(h.vertices) >= MaxVertices {
		return 0, &SizeLimitError{Count: len(h.vertices) + 1}
	}

	handle := uint16(len(h.vertices))
	h.index[k] = handle
	h.vertices = append(h.vertices, v)
	return handle, nil
}

// Len returns the number of distinct vertices.
func (h *Heap) Len() int {
	return len(h.vertices)
}

// Vertices returns the distinct vertices; a handle indexes this slice. The
// slice is only valid until the next Clear.
func (h *Heap) Vertices() []Vertex {
	return h.vertices
}

// Clear empties the heap for the next object.
func (h *Heap) Clear() {
	h.vertices = nil
	for k := range h.index {
		delete(h.index, k)
	}
}
