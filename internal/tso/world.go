package tso

import "tso2mqo/internal/mathutil"

// UpdateWorld recomputes every node's world matrix in one top-down pass:
// roots take their local matrix, every other node local ⊗ parent.world.
func (f *File) UpdateWorld() {
	for i := range f.Nodes {
		if f.Nodes[i].IsRoot() {
			f.updateWorld(i)
		}
	}
}

func (f *File) updateWorld(id int) {
	n := &f.Nodes[id]
	if n.IsRoot() {
		n.World = n.Local
	} else {
		n.World = mathutil.Compose(n.Local, f.Nodes[n.Parent].World)
	}
	for _, c := range n.Children {
		f.updateWorld(c)
	}
}
