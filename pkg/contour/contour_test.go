package contour

import (
	"testing"

	"github.com/chazu/wallgen/pkg/geom"
	"github.com/chazu/wallgen/pkg/meshbuf"
)

func wallFrame(t *testing.T) (geom.Frame, []geom.Vec2) {
	t.Helper()
	outline := []geom.Vec3{{0, 0, 0}, {10, 0, 0}, {10, 0, 10}, {0, 0, 10}}
	frame, contour, ok := geom.ProjectOntoPlane(outline)
	if !ok {
		t.Fatalf("expected a valid wall frame")
	}
	return frame, contour
}

func boxOpening(x0, z0, w, h float64) Opening {
	near := []geom.Vec3{
		{x0, 0, z0}, {x0 + w, 0, z0}, {x0 + w, 0, z0 + h}, {x0, 0, z0 + h},
	}
	dir := geom.Vec3{0, 1, 0}
	far := make([]geom.Vec3, len(near))
	for i, v := range near {
		far[i] = v.Add(dir)
	}
	profile := meshbuf.New()
	profile.AddFace(near[3], near[2], near[1], near[0])
	profile.AddFace(far...)
	for i := 0; i < 4; i++ {
		j := (i + 1) % 4
		profile.AddFace(near[i], near[j], far[j], far[i])
	}
	return Opening{ExtrusionDir: dir, Profile: profile}
}

func TestBuildSingleOpening(t *testing.T) {
	frame, _ := wallFrame(t)
	res, err := Build(frame, []Opening{boxOpening(2, 2, 3, 3)}, true)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(res.Contours) != 1 {
		t.Fatalf("expected 1 contour, got %d", len(res.Contours))
	}
	if len(res.ContourOpenings) != 1 || len(res.ContourOpenings[0]) != 1 {
		t.Fatalf("expected contour mapped to exactly opening 0")
	}
	if res.NeedsFallback {
		t.Fatalf("a single rectangular opening should never need the fallback")
	}
}

func TestBuildMergesOverlappingOpenings(t *testing.T) {
	frame, _ := wallFrame(t)
	openings := []Opening{
		boxOpening(1, 1, 3, 3), // [1,4]x[1,4]
		boxOpening(3, 1, 3, 3), // [3,6]x[1,4], overlaps the first
	}
	res, err := Build(frame, openings, true)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(res.Contours) != 1 {
		t.Fatalf("expected overlapping openings to merge into 1 contour, got %d", len(res.Contours))
	}
	if len(res.ContourOpenings[0]) != 2 {
		t.Fatalf("expected merged contour to reference both openings, got %d", len(res.ContourOpenings[0]))
	}
}

func TestBuildSeparateOpeningsStaySeparate(t *testing.T) {
	frame, _ := wallFrame(t)
	openings := []Opening{
		boxOpening(0.5, 0.5, 1, 1),
		boxOpening(7, 7, 1, 1),
	}
	res, err := Build(frame, openings, true)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(res.Contours) != 2 {
		t.Fatalf("expected 2 separate contours, got %d", len(res.Contours))
	}
}

func TestBuildTrimsNewContourWithoutDroppingIt(t *testing.T) {
	frame, _ := wallFrame(t)
	openings := []Opening{
		boxOpening(0, 0, 4, 4), // [0,4]x[0,4]
		boxOpening(3, 0, 5, 4), // [3,8]x[0,4]: bboxes overlap by [3,4]x[0,4]
	}
	res, err := Build(frame, openings, true)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	// The second opening's contour must survive, trimmed to the part that
	// doesn't overlap the first -- not silently absorbed and dropped.
	if len(res.Contours) != 2 {
		t.Fatalf("expected 2 contours (first untouched, second trimmed), got %d", len(res.Contours))
	}
	if len(res.ContourOpenings) != 2 {
		t.Fatalf("expected 2 contour-to-opening entries, got %d", len(res.ContourOpenings))
	}

	var sawOpening0, sawOpening1 bool
	for _, refs := range res.ContourOpenings {
		for _, idx := range refs {
			if idx == 0 {
				sawOpening0 = true
			}
			if idx == 1 {
				sawOpening1 = true
			}
		}
	}
	if !sawOpening0 || !sawOpening1 {
		t.Fatalf("expected both openings referenced across the contour set, got %v", res.ContourOpenings)
	}

	// No surviving contour pair should still report overlapping bboxes.
	for i := range res.Contours {
		for j := range res.Contours {
			if i == j {
				continue
			}
			if res.Contours[i].BB.Overlaps(res.Contours[j].BB) {
				t.Fatalf("contours %d and %d still overlap after the merge pass", i, j)
			}
		}
	}
}

func TestBuildCullsOpeningBehindPlane(t *testing.T) {
	frame, _ := wallFrame(t)
	// An opening whose profile sits entirely off the wall's plane range
	// (shifted far along the plane normal) should be silently culled,
	// leaving no contours and no error when it's the only opening.
	op := boxOpening(2, 2, 3, 3)
	for i := range op.Profile.Verts {
		op.Profile.Verts[i] = op.Profile.Verts[i].Add(geom.Vec3{0, 100, 0})
	}
	_, err := Build(frame, []Opening{op}, true)
	if err == nil {
		t.Fatalf("expected errNoContours when the only opening is culled")
	}
}
