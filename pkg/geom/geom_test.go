package geom

import (
	"math"
	"testing"
)

func TestBox2Overlaps(t *testing.T) {
	a := Box2{Min: Vec2{0, 0}, Max: Vec2{1, 1}}
	b := Box2{Min: Vec2{1, 0}, Max: Vec2{2, 1}}
	if a.Overlaps(b) {
		t.Fatalf("touching boxes should not count as overlapping")
	}
	c := Box2{Min: Vec2{0.5, 0.5}, Max: Vec2{1.5, 1.5}}
	if !a.Overlaps(c) {
		t.Fatalf("expected overlap")
	}
}

func TestBox2Corners(t *testing.T) {
	b := Box2{Min: Vec2{0, 0}, Max: Vec2{2, 3}}
	c := b.Corners()
	want := [4]Vec2{{0, 0}, {2, 0}, {2, 3}, {0, 3}}
	if c != want {
		t.Fatalf("got %v, want %v", c, want)
	}
}

func TestDerivePlaneCoordinateSpace(t *testing.T) {
	square := []Vec3{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}}
	frame, ok := DerivePlaneCoordinateSpace(square)
	if !ok {
		t.Fatalf("expected a valid frame for a planar square")
	}
	nor := frame.Normal()
	if math.Abs(math.Abs(nor[2])-1) > 1e-9 {
		t.Fatalf("expected normal aligned with Z, got %v", nor)
	}
}

func TestDerivePlaneCoordinateSpaceDegenerate(t *testing.T) {
	// All points collinear: no valid basis exists.
	line := []Vec3{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}}
	if _, ok := DerivePlaneCoordinateSpace(line); ok {
		t.Fatalf("expected collinear points to fail basis derivation")
	}
}

func TestProjectOntoPlaneRoundTrip(t *testing.T) {
	square := []Vec3{{0, 0, 0}, {2, 0, 0}, {2, 0, 3}, {0, 0, 3}}
	frame, contour, ok := ProjectOntoPlane(square)
	if !ok {
		t.Fatalf("expected projection to succeed")
	}
	if len(contour) != 4 {
		t.Fatalf("expected 4 projected points, got %d", len(contour))
	}
	for i, p := range contour {
		if p.X < -1e-9 || p.X > 1+1e-9 || p.Y < -1e-9 || p.Y > 1+1e-9 {
			t.Fatalf("projected point %d out of unit square: %v", i, p)
		}
	}
	for i, v := range square {
		back := frame.Unproject(contour[i])
		if back.Sub(v).Len() > 1e-6 {
			t.Fatalf("round trip mismatch at %d: got %v, want %v", i, back, v)
		}
	}
}
