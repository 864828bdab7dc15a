package mathutil

import "github.com/go-gl/mathgl/mgl32"

// Source models store matrices row-major with row vectors: translation sits
// in the fourth row and a child's world matrix is local × parent. Loading
// those 16 floats straight into an mgl32.Mat4 (column-major, column vectors)
// yields the transpose, which is exactly the column-vector form of the same
// transform. Helpers below work on that loaded form.

// FromRowMajor loads 16 row-major floats m11..m44.
func FromRowMajor(v [16]float32) mgl32.Mat4 {
	return mgl32.Mat4(v)
}

// Compose returns the world matrix of a node given its local matrix and its
// parent's world matrix (local ⊗ parent in row-vector terms).
func Compose(local, parentWorld mgl32.Mat4) mgl32.Mat4 {
	return parentWorld.Mul4(local)
}

// Translation returns the translation part (m41 m42 m43).
func Translation(m mgl32.Mat4) mgl32.Vec3 {
	return m.Col(3).Vec3()
}

