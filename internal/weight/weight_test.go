package weight

import (
	"reflect"
	"testing"
)

func TestEncodeLanesArePositional(t *testing.T) {
	p := Encode(Lane{Index: 3, Weight: 0.5}, Lane{Index: 7, Weight: 0.25})

	exp := Packed{
		Index:  [Lanes]uint8{3, 7, 0, 0},
		Weight: [Lanes]float32{0.5, 0.25, 0, 0},
	}
	if p != exp {
		t.Fatalf("expected %v; got %v", exp, p)
	}

	lanes := p.Lanes()
	if lanes[1] != (Lane{Index: 7, Weight: 0.25}) {
		t.Fatalf("expected lane 1 to be {7 0.25}; got %v", lanes[1])
	}
}

func TestEncodeIgnoresExtraLanes(t *testing.T) {
	p := Encode(Lane{1, 1}, Lane{2, 1}, Lane{3, 1}, Lane{4, 1}, Lane{5, 1})
	if p.Index != [Lanes]uint8{1, 2, 3, 4} {
		t.Fatalf("expected first four lanes; got %v", p.Index)
	}
}

func TestContributingSkipsNegligibleWeights(t *testing.T) {
	p := Packed{
		Index:  [Lanes]uint8{1, 2, 3, 4},
		Weight: [Lanes]float32{0.7, 0, Epsilon, 0.6},
	}

	exp := []Lane{{Index: 1, Weight: 0.7}, {Index: 4, Weight: 0.6}}
	if got := p.Contributing(); !reflect.DeepEqual(got, exp) {
		t.Fatalf("expected %v; got %v", exp, got)
	}
}

func TestContributingDoesNotNormalize(t *testing.T) {
	p := Encode(Lane{Index: 0, Weight: 0.9}, Lane{Index: 1, Weight: 0.9})

	var sum float32
	for _, l := range p.Contributing() {
		sum += Percent(l.Weight)
	}
	if sum != 180 {
		t.Fatalf("expected unnormalized percentage sum 180; got %v", sum)
	}
}
