// Package reinject implements the contour reinjection pass of spec
// §4.F: it replaces each rectangular quadrify hole border with the
// real (possibly non-rectangular) opening contour, walking the contour
// from one bounding-box-edge hit to the next and emitting the faces
// needed to stitch the real shape back onto the tiled quads.
package reinject

import (
	"math"

	"github.com/chazu/wallgen/pkg/geom"
)

// edgeSide identifies which side of a bounding box a contour vertex
// sits on.
type edgeSide int

const (
	sideNone edgeSide = iota
	sideLeft
	sideRight
	sideBottom
	sideTop
)

// Face is a planar polygon in projected space, already wound for
// outward orientation.
type Face []geom.Vec2

// maxWalkIterations bounds the reinjection walk at 2*len(contour), per
// spec §4.F's termination rule.
func maxWalkIterations(n int) int { return 2 * n }

// Reinject replaces contour's rectangular hole border with its real
// shape. If contour already is the bb's four corners (within
// diag/1000), it returns nil: the plain rectangular hole quadrify
// produced needs no further work.
func Reinject(contour []geom.Vec2, bb geom.Box2) []Face {
	diag := bb.Diagonal()
	eps := diag / 1000

	if isExactBoxContour(contour, bb, eps) {
		return nil
	}

	hits := findEdgeHits(contour, bb, eps)
	if len(hits) < 2 {
		// No usable edge hits; nothing safe to reinject.
		return nil
	}

	selfIntersectGuard := diag * math.Sqrt(0.7)

	var faces []Face
	n := len(contour)
	limit := maxWalkIterations(n)

	for k := 0; k < len(hits) && k < limit; k++ {
		a := hits[k]
		b := hits[(k+1)%len(hits)]

		edgePoint := contour[a.index]
		face := Face{edgePoint}
		i := a.index
		for i != b.index {
			i = (i + 1) % n
			v := contour[i]
			if v.Sub(edgePoint).Len() > selfIntersectGuard {
				continue // self-intersection guard: skip far-flung vertices
			}
			face = append(face, v)
		}

		if a.side != b.side {
			if corner, ok := cornerBetween(bb, a.side, b.side); ok {
				face = append(face, corner)
			}
		}

		if len(face) >= 3 {
			faces = append(faces, reverseFace(face))
		}
	}

	return faces
}

type edgeHit struct {
	index int
	side  edgeSide
}

func findEdgeHits(contour []geom.Vec2, bb geom.Box2, eps float64) []edgeHit {
	var hits []edgeHit
	for i, p := range contour {
		side := classifySide(p, bb, eps)
		if side != sideNone {
			hits = append(hits, edgeHit{index: i, side: side})
		}
	}
	return hits
}

func classifySide(p geom.Vec2, bb geom.Box2, eps float64) edgeSide {
	switch {
	case math.Abs(p.X-bb.Min.X) < eps && p.Y >= bb.Min.Y-eps && p.Y <= bb.Max.Y+eps:
		return sideLeft
	case math.Abs(p.X-bb.Max.X) < eps && p.Y >= bb.Min.Y-eps && p.Y <= bb.Max.Y+eps:
		return sideRight
	case math.Abs(p.Y-bb.Min.Y) < eps && p.X >= bb.Min.X-eps && p.X <= bb.Max.X+eps:
		return sideBottom
	case math.Abs(p.Y-bb.Max.Y) < eps && p.X >= bb.Min.X-eps && p.X <= bb.Max.X+eps:
		return sideTop
	default:
		return sideNone
	}
}

// cornerBetween returns the bb corner shared by two different sides,
// when one exists (opposite sides, e.g. left/right, share no corner).
func cornerBetween(bb geom.Box2, a, b edgeSide) (geom.Vec2, bool) {
	has := func(s edgeSide) bool { return a == s || b == s }
	switch {
	case has(sideLeft) && has(sideBottom):
		return geom.Vec2{X: bb.Min.X, Y: bb.Min.Y}, true
	case has(sideRight) && has(sideBottom):
		return geom.Vec2{X: bb.Max.X, Y: bb.Min.Y}, true
	case has(sideRight) && has(sideTop):
		return geom.Vec2{X: bb.Max.X, Y: bb.Max.Y}, true
	case has(sideLeft) && has(sideTop):
		return geom.Vec2{X: bb.Min.X, Y: bb.Max.Y}, true
	default:
		return geom.Vec2{}, false
	}
}

// isExactBoxContour reports whether contour is exactly the four bb
// corners within eps, in which case the rectangular hole quadrify
// already produced is correct as-is (spec §4.F).
func isExactBoxContour(contour []geom.Vec2, bb geom.Box2, eps float64) bool {
	if len(contour) != 4 {
		return false
	}
	corners := bb.Corners()
	for _, c := range contour {
		matched := false
		for _, bc := range corners {
			if c.Sub(bc).Len() < eps {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

func reverseFace(f Face) Face {
	out := make(Face, len(f))
	for i, p := range f {
		out[len(f)-1-i] = p
	}
	return out
}
