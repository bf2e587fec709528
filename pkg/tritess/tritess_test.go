package tritess

import (
	"testing"

	"github.com/chazu/wallgen/pkg/geom"
)

func TestTriangulateSquareNoHoles(t *testing.T) {
	outer := []geom.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	faces, err := Triangulate(outer, nil)
	if err != nil {
		t.Fatalf("triangulate: %v", err)
	}
	if len(faces) == 0 {
		t.Fatalf("expected at least one triangle for a simple square")
	}
	for _, f := range faces {
		if len(f) != 3 {
			t.Fatalf("expected triangular faces, got %d verts", len(f))
		}
	}
}

func TestTriangulateRejectsDegenerateOuter(t *testing.T) {
	if _, err := Triangulate([]geom.Vec2{{0, 0}, {1, 0}}, nil); err == nil {
		t.Fatalf("expected an error for an outer contour with fewer than 3 points")
	}
}

func TestIsClockwise(t *testing.T) {
	ccw := []geom.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	if isClockwise(ccw) {
		t.Fatalf("expected a CCW-wound square to report as not clockwise")
	}
	cw := []geom.Vec2{{0, 0}, {0, 1}, {1, 1}, {1, 0}}
	if !isClockwise(cw) {
		t.Fatalf("expected a CW-wound square to report as clockwise")
	}
}
