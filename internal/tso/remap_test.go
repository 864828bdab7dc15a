package tso

import (
	"bytes"
	"errors"
	"testing"

	"tso2mqo/internal/tso/tsotest"
)

func TestRemapBones(t *testing.T) {
	f := readSample(t)

	if err := f.RemapBones(); err != nil {
		t.Fatal(err)
	}
	if !f.Remapped() {
		t.Fatal("expected file to be marked as remapped")
	}

	// Palette [1 2]: local 0 -> node 1, local 1 -> node 2.
	got := f.Meshes[0].SubMeshes[0].Vertices[2].Weights.Index
	if got != [4]uint8{1, 2, 1, 1} {
		t.Fatalf("expected remapped indices [1 2 1 1]; got %v", got)
	}
}

func TestRemapBonesRunsOnce(t *testing.T) {
	f := readSample(t)
	if err := f.RemapBones(); err != nil {
		t.Fatal(err)
	}
	before := f.Meshes[0].SubMeshes[0].Vertices[2].Weights

	if err := f.RemapBones(); !errors.Is(err, ErrAlreadyRemapped) {
		t.Fatalf("expected ErrAlreadyRemapped; got %v", err)
	}
	if after := f.Meshes[0].SubMeshes[0].Vertices[2].Weights; after != before {
		t.Fatalf("expected weights to be untouched by a second call; got %v, want %v", after, before)
	}
}

func TestRemapBonesRejectsWeightedLaneOutsidePalette(t *testing.T) {
	m := tsotest.Sample()
	m.Meshes[0].SubMeshes[1].Vertices[0].Bones = []tsotest.Bone{{Index: 5, Weight: 1}}

	f, err := Read(bytes.NewReader(m.Bytes()), ReaderConfig{})
	if err != nil {
		t.Fatal(err)
	}
	var lerr *LookupError
	if err := f.RemapBones(); !errors.As(err, &lerr) {
		t.Fatalf("expected a LookupError; got %v", err)
	}
}

func TestRemapBonesZeroesUnweightedLaneOutsidePalette(t *testing.T) {
	m := tsotest.Sample()
	m.Meshes[0].SubMeshes[1].Vertices[0].Bones = []tsotest.Bone{{Index: 0, Weight: 1}, {Index: 9, Weight: 0}}

	f, err := Read(bytes.NewReader(m.Bytes()), ReaderConfig{})
	if err != nil {
		t.Fatal(err)
	}
	if err := f.RemapBones(); err != nil {
		t.Fatal(err)
	}
	if got := f.Meshes[0].SubMeshes[1].Vertices[0].Weights.Index[1]; got != 0 {
		t.Fatalf("expected unweighted lane to be zeroed; got %d", got)
	}
}
