// Package outerclip implements the outer-contour clipper of spec §4.G:
// it clips the quadrify tiling (plus any reinjected boundary faces)
// against the wall face's own outer silhouette, so a wall whose plan
// outline is not a plain rectangle never emits geometry outside its
// own boundary.
package outerclip

import (
	"github.com/chazu/wallgen/pkg/geom"
	"github.com/chazu/wallgen/pkg/polyclip"
)

// Clip intersects every face in faces against outer, the wall face's
// own silhouette in the same projected [0,1]^2 space. A face entirely
// inside outer passes through unchanged; a face straddling the
// boundary is split or trimmed; a face entirely outside is dropped.
//
// outer need not be the unit square: walls with a non-rectangular plan
// (e.g. a gable end) project to an outer contour that is a strict
// subset of [0,1]^2, and quadrify's tiles still cover the full unit
// square, so this pass is what keeps generated geometry inside the
// wall's real silhouette.
func Clip(outer []geom.Vec2, faces [][]geom.Vec2) ([][]geom.Vec2, error) {
	if isUnitSquare(outer) {
		return faces, nil
	}

	var result [][]geom.Vec2
	for _, face := range faces {
		clipped, err := polyclip.Intersection([][]geom.Vec2{face}, [][]geom.Vec2{outer})
		if err != nil {
			return nil, err
		}
		for _, ex := range clipped {
			if len(ex.Outer) >= 3 {
				result = append(result, ex.Outer)
			}
			// Holes produced by clipping a convex quad against a
			// simple outer contour don't occur in practice (both
			// inputs are free of self-intersections), so they are
			// dropped rather than threaded through as ExPolygons.
		}
	}
	return result, nil
}

const unitSquareEps = 1e-9

// isUnitSquare reports whether outer is (within eps) exactly the four
// corners of [0,1]^2, the common case where the wall face's own
// outline is a plain rectangle and clipping is a no-op.
func isUnitSquare(outer []geom.Vec2) bool {
	if len(outer) != 4 {
		return false
	}
	bb := geom.BoundsOf(outer)
	if bb.Min.DistSq(geom.Vec2{X: 0, Y: 0}) > unitSquareEps || bb.Max.DistSq(geom.Vec2{X: 1, Y: 1}) > unitSquareEps {
		return false
	}
	return bb.Area() > 1-unitSquareEps
}
