// Package quadrify implements the spatial-decomposition tiler of spec
// §4.E: given a set of axis-aligned rectangles (opening bounding boxes)
// inside the unit square, it tiles the complement into a minimal set of
// axis-aligned quads.
package quadrify

import (
	"math"
	"sort"

	"github.com/chazu/wallgen/pkg/geom"
)

// maxRecursionDepth bounds the tiler's recursion, matching spec §5's
// requirement that every sweep have an explicit iteration cap so that
// degenerate (zero-width) input boxes cannot spin forever.
const maxRecursionDepth = 4096

// Tile tiles [0,1]^2 minus the union of boxes into axis-aligned quads.
// Output size is always a multiple of 4 (one quad = 4 corners).
func Tile(boxes []geom.Box2) []geom.Box2 {
	var out []geom.Box2
	tileRegion(geom.Vec2{X: 0, Y: 0}, geom.Vec2{X: 1, Y: 1}, boxes, &out, 0)
	return out
}

func tileRegion(pmin, pmax geom.Vec2, boxes []geom.Box2, out *[]geom.Box2, depth int) {
	if pmax.X-pmin.X <= 0 || pmax.Y-pmin.Y <= 0 {
		return
	}
	if depth > maxRecursionDepth {
		*out = append(*out, geom.Box2{Min: pmin, Max: pmax})
		return
	}

	// Step 1: first box (by (x,y) order) whose min.x is inside the
	// region and whose Y extent overlaps the region's Y band. A box
	// that merely touches the region's edge counts as adjacent, not
	// overlapping (spec §4.E tie-break), hence the strict inequalities.
	var candidates []geom.Box2
	for _, b := range boxes {
		if b.Min.X < pmax.X && b.Max.Y > pmin.Y && b.Min.Y < pmax.Y && b.Max.X > pmin.X {
			candidates = append(candidates, b)
		}
	}
	if len(candidates) == 0 {
		*out = append(*out, geom.Box2{Min: pmin, Max: pmax})
		return
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Min.X != candidates[j].Min.X {
			return candidates[i].Min.X < candidates[j].Min.X
		}
		return candidates[i].Min.Y < candidates[j].Min.Y
	})
	first := candidates[0]

	// Step 2: left strip up to the first box.
	xs := math.Max(pmin.X, first.Min.X)
	xe := math.Min(pmax.X, first.Max.X)
	if xs > pmin.X {
		*out = append(*out, geom.Box2{Min: pmin, Max: geom.Vec2{X: xs, Y: pmax.Y}})
	}

	// Step 3: sweep every box that starts at or before xs, accumulating
	// Y coverage across the vertical strip [xs,xe] and recursing into
	// each gap.
	var strip []geom.Box2
	for _, b := range candidates {
		if b.Min.X <= xs {
			strip = append(strip, b)
		}
	}
	sort.Slice(strip, func(i, j int) bool { return strip[i].Min.Y < strip[j].Min.Y })

	ylast := pmin.Y
	for _, b := range strip {
		ys := math.Max(pmin.Y, b.Min.Y)
		ye := math.Min(pmax.Y, b.Max.Y)
		if ys > ylast {
			tileRegion(geom.Vec2{X: xs, Y: ylast}, geom.Vec2{X: xe, Y: ys}, boxes, out, depth+1)
		}
		if ye > ylast {
			ylast = ye
		}
	}

	// Step 4: trailing gap below pmax.y.
	if ylast < pmax.Y {
		tileRegion(geom.Vec2{X: xs, Y: ylast}, geom.Vec2{X: xe, Y: pmax.Y}, boxes, out, depth+1)
	}

	// Step 5: remainder to the right of this box's strip.
	tileRegion(geom.Vec2{X: xe, Y: pmin.Y}, geom.Vec2{X: pmax.X, Y: pmax.Y}, boxes, out, depth+1)
}
