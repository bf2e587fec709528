package quadrify

import (
	"testing"

	"github.com/chazu/wallgen/pkg/geom"
)

func TestTileNoBoxes(t *testing.T) {
	out := Tile(nil)
	if len(out) != 1 {
		t.Fatalf("expected whole unit square as a single quad, got %d", len(out))
	}
	if out[0].Min != (geom.Vec2{0, 0}) || out[0].Max != (geom.Vec2{1, 1}) {
		t.Fatalf("expected full unit square, got %v", out[0])
	}
}

func TestTileCenteredBox(t *testing.T) {
	hole := geom.Box2{Min: geom.Vec2{0.25, 0.25}, Max: geom.Vec2{0.75, 0.75}}
	out := Tile([]geom.Box2{hole})

	if len(out) == 0 {
		t.Fatalf("expected at least one tile around the hole")
	}
	for _, q := range out {
		if q.Overlaps(hole) {
			t.Fatalf("tile %v overlaps the hole %v", q, hole)
		}
	}

	total := 0.0
	for _, q := range out {
		total += q.Area()
	}
	want := 1.0 - hole.Area()
	if diff := total - want; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("tiled area %v, want %v", total, want)
	}
}

func TestTileEdgeTouchingBoxNotOverlap(t *testing.T) {
	// A hole flush against the left edge should not force a degenerate
	// zero-width strip.
	hole := geom.Box2{Min: geom.Vec2{0, 0.25}, Max: geom.Vec2{0.5, 0.75}}
	out := Tile([]geom.Box2{hole})
	for _, q := range out {
		if q.Area() <= 0 {
			t.Fatalf("unexpected zero-area tile: %v", q)
		}
	}
}
