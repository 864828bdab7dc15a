// Package strip turns a submesh's strip-ordered vertex stream into wound
// triangles.
package strip

import "github.com/go-gl/mathgl/mgl32"

// Corner is one welded vertex of the stream with its own texture coordinate.
type Corner struct {
	Handle uint16
	UV     mgl32.Vec2
}

// Triangle is one output face: three handles into the object's welded
// vertices, a material index and a texture coordinate per corner.
type Triangle struct {
	V        [3]uint16
	Material uint16
	UV       [3]mgl32.Vec2
}

// Triangulate slides a three-corner window over corners. From the third
// corner on, every window closes a triangle; windows repeating a handle are
// dropped. Winding alternates with the 1-based stream position: even
// positions keep (a b c), odd ones emit (a c b).
func Triangulate(corners []Corner, material uint16) []Triangle {
	if len(corners) < 3 {
		return nil
	}

	tris := make([]Triangle, 0, len(corners)-2)
	for i := 2; i < len(corners); i++ {
		a, b, c := corners[i-2], corners[i-1], corners[i]
		if a.Handle == b.Handle || b.Handle == c.Handle || c.Handle == a.Handle {
			continue
		}

		t := Triangle{Material: material}
		if (i+1)%2 == 0 {
			t.V = [3]uint16{a.Handle, b.Handle, c.Handle}
			t.UV = [3]mgl32.Vec2{a.UV, b.UV, c.UV}
		} else {
			t.V = [3]uint16{a.Handle, c.Handle, b.Handle}
			t.UV = [3]mgl32.Vec2{a.UV, c.UV, b.UV}
		}
		tris = append(tris, t)
	}
	return tris
}

// FlipV converts a source texture coordinate into the target convention,
// whose V axis points down.
func FlipV(uv mgl32.Vec2) mgl32.Vec2 {
	return mgl32.Vec2{uv[0], 1 - uv[1]}
}
