// Package contour implements the opening contour builder of spec §4.D:
// it projects each opening's profile onto the wall plane, culls faces
// and openings that do not actually intersect the wall, and merges
// overlapping projections into a minimal set of contours with a
// parallel contour-to-openings bookkeeping vector.
package contour

import (
	"math"

	"github.com/chazu/wallgen/pkg/geom"
	"github.com/chazu/wallgen/pkg/meshbuf"
	"github.com/chazu/wallgen/pkg/polyclip"
)

// Opening is a volumetric cutout (door/window) that pierces a wall
// face, per spec §3's data model.
type Opening struct {
	// ExtrusionDir is the direction the opening was swept through the
	// wall; used upstream to choose which face of the opening prism to
	// project (this package consumes whatever faces Profile already
	// carries).
	ExtrusionDir geom.Vec3
	// Profile holds the opening's own surface faces (end caps and
	// sides of the swept prism).
	Profile *meshbuf.Mesh
	// WallPoints is filled by the window closer (pkg/jamb) once the
	// opposite wall face has been processed.
	WallPoints []geom.Vec3
	// Tag is opaque caller bookkeeping (pkg/scene stores an opening ID
	// here) that survives the driver's reference-point sort, so a
	// caller can correlate an opening across two separate
	// GenerateOpenings calls despite the in-call index having been
	// reordered.
	Tag int
}

// ProjectedContour is a closed 2D polyline in projected [0,1]^2 space
// representing the silhouette of one or more merged openings, plus its
// axis-aligned bounding box (spec §3).
type ProjectedContour struct {
	Contour []geom.Vec2
	BB      geom.Box2
}

// Invalid reports whether c carries no geometry.
func (c ProjectedContour) Invalid() bool {
	return len(c.Contour) == 0
}

// Result is the output of Build: the surviving contours, a parallel
// contour-to-openings map, and a flag signalling that the tiling path
// (pkg/quadrify + pkg/reinject) cannot handle the result and the
// triangulation fallback (pkg/tritess) must run instead.
type Result struct {
	Contours      []ProjectedContour
	ContourOpenings [][]int
	NeedsFallback bool
}

const (
	// faceNormalAlignMin is the minimum |face_nor . plane_nor| for a
	// profile face to be kept (spec §4.D step 1).
	faceNormalAlignMin = 0.5
	// dedupEpsSq is the squared distance below which adjacent projected
	// points are merged (spec §4.D step 3: "eps^2 = 1e-10").
	dedupEpsSq = 1e-10
	// minBBAreaEps is the minimum contour bounding-box area; smaller
	// contours are discarded as projection noise (spec §4.D step 4).
	minBBAreaEps = 1e-5
)

// Build runs the merge algorithm of spec §4.D over openings already
// expressed in the wall's plane frame. checkIntersection gates the
// plane-distance range test in projectOpening (Config.CheckIntersection
// in pkg/openings); callers that already know every opening intersects
// this face -- a synthetic hole coplanar with its own outer polygon --
// pass false to avoid a one-ULP projection-noise cull.
func Build(frame geom.Frame, openings []Opening, checkIntersection bool) (Result, error) {
	var res Result

	for idx, op := range openings {
		tc, ok := projectOpening(frame, op, checkIntersection)
		if !ok {
			continue // silent per-opening skip (spec §7)
		}
		if tc.BB.Area() < minBBAreaEps {
			continue
		}

		tc, openingSet, drop, fallback, err := mergeInto(&res, tc, idx)
		if err != nil {
			return res, err
		}
		if fallback {
			res.NeedsFallback = true
			return res, nil
		}
		if drop {
			continue
		}
		res.Contours = append(res.Contours, tc)
		res.ContourOpenings = append(res.ContourOpenings, openingSet)
	}

	if len(res.Contours) == 0 && len(openings) > 0 {
		return res, errNoContours
	}
	return res, nil
}

// errNoContours is returned when every opening was culled, leaving no
// surviving contour at all (spec §4.D step 6).
var errNoContours = buildError("contour: no contours survived projection/culling")

type buildError string

func (e buildError) Error() string { return string(e) }

// addOpeningIndex appends idx to set if not already present.
func addOpeningIndex(set []int, idx int) []int {
	for _, v := range set {
		if v == idx {
			return set
		}
	}
	return append(set, idx)
}

// projectOpening implements spec §4.D steps 1-3: cull sideways faces,
// test the plane-distance range (when checkIntersection is set), project
// and dedup survivors.
func projectOpening(frame geom.Frame, op Opening, checkIntersection bool) (ProjectedContour, bool) {
	if op.Profile == nil || op.Profile.NumFaces() == 0 {
		return ProjectedContour{}, false
	}

	planeNor := frame.Normal()
	var dmin, dmax float64
	haveRange := false
	var kept []geom.Vec3

	for f := 0; f < op.Profile.NumFaces(); f++ {
		face := op.Profile.Face(f)
		if len(face) < 3 {
			continue
		}
		faceNor := meshbuf.NewellNormal(face)
		if l := faceNor.Len(); l > 0 {
			faceNor = faceNor.Mul(1 / l)
		} else {
			continue
		}
		if math.Abs(faceNor.Dot(planeNor)) < faceNormalAlignMin {
			continue
		}
		for _, v := range face {
			d := v.Dot(planeNor) // matches Frame.PlaneD's sign convention (see geom.ProjectPointPlane)
			if !haveRange {
				dmin, dmax = d, d
				haveRange = true
			} else {
				if d < dmin {
					dmin = d
				}
				if d > dmax {
					dmax = d
				}
			}
			kept = append(kept, v)
		}
	}

	if !haveRange || len(kept) == 0 {
		return ProjectedContour{}, false
	}

	if checkIntersection {
		eps := 0.01 * math.Abs(dmax-dmin)
		if frame.PlaneD < dmin-eps || frame.PlaneD > dmax+eps {
			return ProjectedContour{}, false
		}
	}

	projected := make([]geom.Vec2, 0, len(kept))
	for _, v := range kept {
		p := frame.ProjectPoint(v)
		p = clampUnit(p)
		if len(projected) == 0 || projected[len(projected)-1].DistSq(p) > dedupEpsSq {
			projected = append(projected, p)
		}
	}
	if len(projected) > 1 && projected[0].DistSq(projected[len(projected)-1]) <= dedupEpsSq {
		projected = projected[:len(projected)-1]
	}
	if len(projected) < 3 {
		return ProjectedContour{}, false
	}

	return ProjectedContour{Contour: projected, BB: geom.BoundsOf(projected)}, true
}

func clampUnit(p geom.Vec2) geom.Vec2 {
	return geom.Vec2{X: clamp01(p.X), Y: clamp01(p.Y)}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// mergeInto runs the merge pass of spec §4.D step 5 against the
// contours accumulated so far in res. It scans res.Contours once;
// whenever tc unions with an existing contour, that contour's entry is
// spliced out of res, its opening set folded into openingSet, and the
// scan restarts against the now-enlarged tc -- since the enlarged tc
// may now overlap contours the original tc didn't, exactly as the
// original's own list-splice-and-retry loop requires (IFCGeometry.cpp
// GenerateOpenings, ~line 1870). Each restart strictly shrinks
// res.Contours by one entry, so the loop terminates after at most
// len(res.Contours) restarts -- unlike replacing the entry in place,
// which would leave tc perpetually re-overlapping its own enlarged
// union and never terminate.
//
// Returns the final contour and its accumulated opening set for the
// caller to append as a new entry, drop=true if tc exactly duplicated
// an existing contour (nothing to append), or fallback=true if a union
// produced more than one polygon and the whole face must fall back to
// triangulation.
func mergeInto(res *Result, tc ProjectedContour, openingIdx int) (out ProjectedContour, openingSet []int, drop bool, fallback bool, err error) {
	openingSet = []int{openingIdx}

restart:
	for i := range res.Contours {
		existing := res.Contours[i]
		if !existing.BB.Overlaps(tc.BB) {
			continue
		}

		// First check whether subtracting the existing contour from the
		// new one yields an updated bbox that no longer overlaps the
		// existing contour's bbox. If so the existing contour is left
		// untouched and only the new contour shrinks, so the scan
		// continues against the remaining contours instead of absorbing
		// tc into this one.
		diffed, derr := polyclip.Difference([][]geom.Vec2{tc.Contour}, [][]geom.Vec2{existing.Contour})
		if derr != nil {
			return tc, nil, false, false, derr
		}
		if len(diffed) == 1 {
			newBB := geom.BoundsOf(diffed[0].Outer)
			if !newBB.Overlaps(existing.BB) {
				tc = ProjectedContour{Contour: diffed[0].Outer, BB: newBB}
				continue
			}
		}

		u, uerr := polyclip.Union([][]geom.Vec2{tc.Contour}, [][]geom.Vec2{existing.Contour})
		if uerr != nil {
			return tc, nil, false, false, uerr
		}
		switch len(u) {
		case 0:
			// Duplicate opening; drop.
			return tc, nil, true, false, nil
		case 1:
			for _, v := range res.ContourOpenings[i] {
				openingSet = addOpeningIndex(openingSet, v)
			}
			tc = ProjectedContour{Contour: u[0].Outer, BB: existing.BB.Union(tc.BB)}
			res.Contours = append(res.Contours[:i], res.Contours[i+1:]...)
			res.ContourOpenings = append(res.ContourOpenings[:i], res.ContourOpenings[i+1:]...)
			goto restart
		default:
			return tc, nil, false, true, nil
		}
	}
	return tc, openingSet, false, false, nil
}
