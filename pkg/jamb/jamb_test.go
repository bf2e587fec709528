package jamb

import (
	"testing"

	"github.com/chazu/wallgen/pkg/contour"
	"github.com/chazu/wallgen/pkg/geom"
)

func testFrame(t *testing.T) geom.Frame {
	t.Helper()
	outline := []geom.Vec3{{0, 0, 0}, {10, 0, 0}, {10, 0, 10}, {0, 0, 10}}
	frame, ok := geom.DerivePlaneCoordinateSpace(outline)
	if !ok {
		t.Fatalf("expected a valid frame")
	}
	frame.Rescale = geom.Affine2{Min: geom.Vec2{0, 0}, Scale: geom.Vec2{0.1, 0.1}}
	frame.PlaneD = 0
	return frame
}

func squareContour() []geom.Vec2 {
	return []geom.Vec2{{0.2, 0.2}, {0.6, 0.2}, {0.6, 0.6}, {0.2, 0.6}}
}

func TestCloseFirstFacePushesWallPoints(t *testing.T) {
	frame := testFrame(t)
	openings := []contour.Opening{{}}
	faces := Close(frame, squareContour(), openings, []int{0})
	if faces != nil {
		t.Fatalf("expected nil faces on the first face (nothing to stitch yet)")
	}
	if len(openings[0].WallPoints) != 4 {
		t.Fatalf("expected 4 wall points pushed, got %d", len(openings[0].WallPoints))
	}
}

func TestCloseSecondFaceEmitsQuads(t *testing.T) {
	frame := testFrame(t)
	openings := []contour.Opening{{
		WallPoints: []geom.Vec3{
			frame.Unproject(geom.Vec2{0.2, 0.2}),
			frame.Unproject(geom.Vec2{0.6, 0.2}),
			frame.Unproject(geom.Vec2{0.6, 0.6}),
			frame.Unproject(geom.Vec2{0.2, 0.6}),
		},
	}}
	faces := Close(frame, squareContour(), openings, []int{0})
	if len(faces) != 4 {
		t.Fatalf("expected 4 jamb quads, got %d", len(faces))
	}
	for _, f := range faces {
		if len(f) != 4 {
			t.Fatalf("expected quad faces, got %d verts", len(f))
		}
	}
}

func TestCloseSkipsBoundaryThresholdEdge(t *testing.T) {
	frame := testFrame(t)
	// A contour with one edge lying exactly on the unit-square boundary
	// (y=0), axis-aligned: a door threshold.
	threshold := []geom.Vec2{{0.2, 0}, {0.6, 0}, {0.6, 0.5}, {0.2, 0.5}}
	openings := []contour.Opening{{
		WallPoints: []geom.Vec3{
			frame.Unproject(geom.Vec2{0.2, 0}),
			frame.Unproject(geom.Vec2{0.6, 0}),
			frame.Unproject(geom.Vec2{0.6, 0.5}),
			frame.Unproject(geom.Vec2{0.2, 0.5}),
		},
	}}
	faces := Close(frame, threshold, openings, []int{0})
	if len(faces) != 3 {
		t.Fatalf("expected the threshold edge dropped (3 quads), got %d", len(faces))
	}
}
