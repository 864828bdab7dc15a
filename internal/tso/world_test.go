package tso

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"tso2mqo/internal/mathutil"
)

func TestUpdateWorld(t *testing.T) {
	f := readSample(t)
	f.UpdateWorld()

	for id, exp := range []mgl32.Vec3{{0, 1, 0}, {0, 2, 0}, {0, 3, 0}} {
		if got := mathutil.Translation(f.Nodes[id].World); !got.ApproxEqual(exp) {
			t.Fatalf("node %d: expected world translation %v; got %v", id, exp, got)
		}
	}
}

func TestUpdateWorldChildBeforeParent(t *testing.T) {
	f := &File{
		Nodes: []Node{
			{ID: 0, Path: "|a|b", Parent: 1, Local: mgl32.Translate3D(1, 0, 0)},
			{ID: 1, Path: "|a", Parent: NoParent, Children: []int{0}, Local: mgl32.Translate3D(0, 0, 5)},
		},
	}
	f.UpdateWorld()

	if got := mathutil.Translation(f.Nodes[0].World); !got.ApproxEqual(mgl32.Vec3{1, 0, 5}) {
		t.Fatalf("expected (1 0 5); got %v", got)
	}
}
