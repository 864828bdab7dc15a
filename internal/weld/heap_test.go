package weld

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"tso2mqo/internal/weight"
)

func vtx(px, py, pz, nx, ny, nz float32) Vertex {
	return Vertex{Position: mgl32.Vec3{px, py, pz}, Normal: mgl32.Vec3{nx, ny, nz}}
}

func TestHeapWeldsIdenticalKeys(t *testing.T) {
	var h Heap

	a, err := h.Add(vtx(1, 2, 3, 0, 0, 1))
	if err != nil {
		t.Fatal(err)
	}
	b, err := h.Add(Vertex{
		Position: mgl32.Vec3{1, 2, 3},
		Normal:   mgl32.Vec3{0, 0, 1},
		Weights:  weight.Encode(weight.Lane{Index: 7, Weight: 1}),
	})
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Fatalf("expected identical keys to share a handle; got %d and %d", a, b)
	}
	if h.Len() != 1 {
		t.Fatalf("expected 1 distinct vertex; got %d", h.Len())
	}
	if got := h.Vertices()[0].Weights; got != (weight.Packed{}) {
		t.Fatalf("expected first vertex weights to be kept; got %v", got)
	}
}

func TestHeapSeparatesDifferentKeys(t *testing.T) {
	specs := []Vertex{
		vtx(0, 0, 0, 0, 0, 1),
		vtx(0, 0, 0, 0, 1, 0),
		vtx(0, 0, 1, 0, 0, 1),
		vtx(math.Nextafter32(0, 1), 0, 0, 0, 0, 1),
	}

	var h Heap
	seen := make(map[uint16]bool)
	for idx, v := range specs {
		handle, err := h.Add(v)
		if err != nil {
			t.Fatal(err)
		}
		if seen[handle] {
			t.Fatalf("[spec %d] handle %d was reused for a different key", idx, handle)
		}
		if int(handle) != idx {
			t.Fatalf("[spec %d] expected insertion-ordered handle %d; got %d", idx, idx, handle)
		}
		seen[handle] = true
	}
}

func TestHeapCanonicalZeroAndNaN(t *testing.T) {
	var h Heap
	negZero := float32(math.Copysign(0, -1))
	nan := float32(math.NaN())

	a, _ := h.Add(vtx(0, 0, 0, 0, 0, 1))
	b, _ := h.Add(vtx(negZero, 0, 0, 0, 0, 1))
	if a != b {
		t.Fatalf("expected 0 and -0 to weld; got %d and %d", a, b)
	}

	c, _ := h.Add(vtx(nan, 0, 0, 0, 0, 1))
	d, _ := h.Add(vtx(nan, 0, 0, 0, 0, 1))
	if c != d {
		t.Fatalf("expected NaN positions to weld; got %d and %d", c, d)
	}
}

func TestHeapClear(t *testing.T) {
	var h Heap
	h.Add(vtx(1, 0, 0, 0, 0, 1))
	h.Add(vtx(2, 0, 0, 0, 0, 1))
	h.Clear()

	if h.Len() != 0 {
		t.Fatalf("expected empty heap after Clear; got %d", h.Len())
	}
	handle, err := h.Add(vtx(2, 0, 0, 0, 0, 1))
	if err != nil {
		t.Fatal(err)
	}
	if handle != 0 {
		t.Fatalf("expected handles to restart at 0; got %d", handle)
	}
}

func TestHeapSizeLimit(t *testing.T) {
	var h Heap
	for i := 0; i < MaxVertices; i++ {
		if _, err := h.Add(vtx(float32(i), 0, 0, 0, 0, 1)); err != nil {
			t.Fatalf("vertex %d: %v", i, err)
		}
	}

	if _, err := h.Add(vtx(0, 0, 0, 0, 0, 1)); err != nil {
		t.Fatalf("expected existing key to weld at capacity; got %v", err)
	}

	_, err := h.Add(vtx(-1, 0, 0, 0, 0, 1))
	var serr *SizeLimitError
	if !errors.As(err, &serr) {
		t.Fatalf("expected a SizeLimitError; got %v", err)
	}
	if serr.Count != MaxVertices+1 {
		t.Fatalf("expected count %d; got %d", MaxVertices+1, serr.Count)
	}
}
