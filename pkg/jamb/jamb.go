// Package jamb implements the window closer of spec §4.I: the first
// face of a wall to process a given opening pushes its own projected
// contour (unprojected back to world space) into that opening's
// WallPoints; the second face to see the same opening then has
// something to stitch against, and emits the quads that close the
// reveal between the two faces.
package jamb

import (
	"math"

	"github.com/chazu/wallgen/pkg/contour"
	"github.com/chazu/wallgen/pkg/geom"
)

// boundaryEps is the distance from 0 or 1 within which a projected
// point counts as lying on the wall face's own outer boundary (spec
// §4.I).
const boundaryEps = 1e-4

// Close runs the per-face window-closer pass for one contour: points
// is the contour in the current face's projected space, and indices
// selects the openings (into the shared openings arena) this contour
// was merged from. openings is mutated in place when this is the
// first face to see an opening.
//
// If none of the selected openings already carry WallPoints from the
// opposite face, Close pushes this contour's own points (unprojected)
// into every one of them and returns nil: there is nothing yet to
// stitch against. Otherwise it pairs each contour vertex with its
// nearest point across the union of those WallPoints and emits one
// quad per consecutive pair, per spec §4.I.
func Close(frame geom.Frame, points []geom.Vec2, openings []contour.Opening, indices []int) [][]geom.Vec3 {
	var wallPoints []geom.Vec3
	hasOtherSide := false
	for _, idx := range indices {
		if len(openings[idx].WallPoints) > 0 {
			hasOtherSide = true
			wallPoints = append(wallPoints, openings[idx].WallPoints...)
		}
	}

	if !hasOtherSide {
		for _, idx := range indices {
			for _, p := range points {
				openings[idx].WallPoints = append(openings[idx].WallPoints, frame.Unproject(p))
			}
		}
		return nil
	}

	n := len(points)
	world := make([]geom.Vec3, n)
	near := make([]geom.Vec3, n)
	for i, p := range points {
		world[i] = frame.Unproject(p)
		near[i] = nearestPoint(world[i], wallPoints)
	}

	var faces [][]geom.Vec3
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		if isOpenThreshold(points[i], points[j]) {
			continue
		}
		faces = append(faces, []geom.Vec3{world[i], near[i], near[j], world[j]})
	}
	return faces
}

func nearestPoint(p geom.Vec3, candidates []geom.Vec3) geom.Vec3 {
	best := candidates[0]
	bestDistSq := p.Sub(best).LenSqr()
	for _, c := range candidates[1:] {
		d := p.Sub(c).LenSqr()
		if d < bestDistSq {
			bestDistSq = d
			best = c
		}
	}
	return best
}

// isOpenThreshold reports whether the projected edge (a,b) should be
// left open rather than closed with a jamb quad: both endpoints lie on
// the wall face's own outer boundary and the edge is axis-aligned, the
// signature of a door threshold (spec §4.I).
func isOpenThreshold(a, b geom.Vec2) bool {
	return onBoundary(a) && onBoundary(b) && isAxisAligned(a, b)
}

func onBoundary(p geom.Vec2) bool {
	return nearZeroOrOne(p.X) || nearZeroOrOne(p.Y)
}

func nearZeroOrOne(v float64) bool {
	return math.Abs(v) < boundaryEps || math.Abs(v-1) < boundaryEps
}

func isAxisAligned(a, b geom.Vec2) bool {
	return math.Abs(a.X-b.X) < boundaryEps || math.Abs(a.Y-b.Y) < boundaryEps
}
