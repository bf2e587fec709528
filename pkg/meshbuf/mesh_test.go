package meshbuf

import (
	"testing"

	"github.com/chazu/wallgen/pkg/geom"
)

func square() []geom.Vec3 {
	return []geom.Vec3{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}}
}

func TestAddFaceAndFace(t *testing.T) {
	m := New()
	m.AddFace(square()...)
	if m.NumFaces() != 1 {
		t.Fatalf("expected 1 face, got %d", m.NumFaces())
	}
	f := m.Face(0)
	if len(f) != 4 {
		t.Fatalf("expected 4 verts, got %d", len(f))
	}
}

func TestReverseFace(t *testing.T) {
	m := New()
	m.AddFace(square()...)
	orig := append([]geom.Vec3{}, m.Face(0)...)
	m.ReverseFace(0)
	rev := m.Face(0)
	for i := range orig {
		if rev[i] != orig[len(orig)-1-i] {
			t.Fatalf("reverse mismatch at %d", i)
		}
	}
}

func TestRemoveAdjacentDuplicates(t *testing.T) {
	m := New()
	m.AddFace(geom.Vec3{0, 0, 0}, geom.Vec3{0, 0, 0}, geom.Vec3{1, 0, 0}, geom.Vec3{1, 1, 0})
	m.RemoveAdjacentDuplicates()
	if len(m.Face(0)) != 3 {
		t.Fatalf("expected duplicate collapsed to 3 verts, got %d", len(m.Face(0)))
	}
}

func TestRemoveDegenerates(t *testing.T) {
	m := New()
	m.AddFace(square()...)
	m.AddFace(geom.Vec3{0, 0, 0}, geom.Vec3{0, 0, 0}, geom.Vec3{0, 0, 0}) // degenerate
	m.RemoveDegenerates()
	if m.NumFaces() != 1 {
		t.Fatalf("expected degenerate face dropped, got %d faces", m.NumFaces())
	}
}

func TestNewellNormal(t *testing.T) {
	n := NewellNormal(square())
	if n[2] <= 0 {
		t.Fatalf("expected CCW square to have +Z normal, got %v", n)
	}
}
