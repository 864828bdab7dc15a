package tso

import (
	"errors"
	"fmt"
	"math"

	"tso2mqo/internal/weight"
)

// ErrAlreadyRemapped is returned by a second RemapBones call. Remapping is
// not idempotent.
var ErrAlreadyRemapped = errors.New("tso: bone indices already remapped")

// RemapBones rewrites every vertex lane index from a submesh palette index to
// a global node id. It must run exactly once per load, before any weld or
// weight step.
func (f *File) RemapBones() error {
	if f.remapped {
		return ErrAlreadyRemapped
	}

	for mi := range f.Meshes {
		mesh := &f.Meshes[mi]
		for si := range mesh.SubMeshes {
			sub := &mesh.SubMeshes[si]
			for vi := range sub.Vertices {
				if err := remapVertex(&sub.Vertices[vi].Weights, sub.Palette, len(f.Nodes)); err != nil {
					return fmt.Errorf("mesh %q submesh %d vertex %d: %w", mesh.Name, si, vi, err)
				}
			}
		}
	}

	f.remapped = true
	return nil
}

func remapVertex(p *weight.Packed, palette []int, nodes int) error {
	for k := 0; k < weight.Lanes; k++ {
		local := int(p.Index[k])
		if local >= len(palette) {
			if weight.Contributes(p.Weight[k]) {
				return &LookupError{What: "palette index", Key: fmt.Sprintf("%d (palette size %d)", local, len(palette))}
			}
			p.Index[k] = 0
			continue
		}

		global := palette[local]
		if global < 0 || global >= nodes {
			if weight.Contributes(p.Weight[k]) {
				return &LookupError{What: "node id", Key: fmt.Sprintf("%d (node count %d)", global, nodes)}
			}
			p.Index[k] = 0
			continue
		}
		if global > math.MaxUint8 {
			if weight.Contributes(p.Weight[k]) {
				return &LookupError{What: "lane-sized node id", Key: fmt.Sprintf("%d", global)}
			}
			p.Index[k] = 0
			continue
		}
		p.Index[k] = uint8(global)
	}
	return nil
}
