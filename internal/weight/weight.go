// Package weight holds the four-lane bone influence record carried by every
// vertex.
//
// Lane k pairs Index[k] with Weight[k]. Before bone remapping the indices
// point into the owning submesh's palette; afterwards they are global node
// ids. Both forms fit in a byte.
package weight

import "math"

// Lanes is the fixed number of influences per vertex.
const Lanes = 4

// Epsilon is the smallest positive float32. A lane contributes only when its
// weight is strictly greater.
const Epsilon = math.SmallestNonzeroFloat32

// Packed is the compact influence record of one vertex.
type Packed struct {
	Index  [Lanes]uint8
	Weight [Lanes]float32
}

// Lane is one decoded (index, weight) pair.
type Lane struct {
	Index  uint8
	Weight float32
}

// Encode packs up to four lanes. Missing lanes are zero; extra lanes are
// ignored.
func Encode(lanes ...Lane) Packed {
	var p Packed
	for k := 0; k < len(lanes) && k < Lanes; k++ {
		p.Index[k] = lanes[k].Index
		p.Weight[k] = lanes[k].Weight
	}
	return p
}

// Lanes returns all four lanes positionally.
func (p Packed) Lanes() [Lanes]Lane {
	var out [Lanes]Lane
	for k := range out {
		out[k] = Lane{Index: p.Index[k], Weight: p.Weight[k]}
	}
	return out
}

// Contributing returns the lanes whose weight exceeds Epsilon, in lane order.
// Weights are not normalized.
func (p Packed) Contributing() []Lane {
	out := make([]Lane, 0, Lanes)
	for k := 0; k < Lanes; k++ {
		if Contributes(p.Weight[k]) {
			out = append(out, Lane{Index: p.Index[k], Weight: p.Weight[k]})
		}
	}
	return out
}

// Contributes reports whether a lane with weight w is emitted.
func Contributes(w float32) bool {
	return w > Epsilon
}

// Percent converts a lane weight to the percentage recorded by the sidecar.
func Percent(w float32) float32 {
	return w * 100
}
