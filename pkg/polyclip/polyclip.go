// Package polyclip wraps github.com/ctessum/go.clipper -- a Go port of
// Angus Johnson's Clipper library -- behind the fixed-point, non-zero
// fill rule contract spec §4.C requires: float coordinates in [0,1]^2
// are scaled to integers, clipped, and scaled back, with ExPolygon
// {outer, holes[]} as the output shape and Clipper's own panics turned
// into ordinary errors at this package boundary (spec §9: exceptions
// from embedded solvers must not propagate past the caller).
package polyclip

import (
	"fmt"

	clipper "github.com/ctessum/go.clipper"

	"github.com/chazu/wallgen/pkg/geom"
)

// Scale is the fixed-point scale factor the driver uses to convert
// [0,1]-range floats to Clipper's integer domain (spec §6: "MAX_INT =
// 1,518,500,249").
const Scale = 1518500249.0

// ExPolygon is a polygon with holes, as produced by a boolean op: the
// outer contour is CCW and holes are CW, matching Clipper's own
// orientation convention for the non-zero fill rule.
type ExPolygon struct {
	Outer []geom.Vec2
	Holes [][]geom.Vec2
}

func toFixedPath(poly []geom.Vec2) clipper.Path {
	path := make(clipper.Path, len(poly))
	for i, p := range poly {
		path[i] = &clipper.IntPoint{
			X: clipper.CInt(p.X * Scale),
			Y: clipper.CInt(p.Y * Scale),
		}
	}
	return path
}

func toFixedPaths(polys [][]geom.Vec2) clipper.Paths {
	paths := make(clipper.Paths, len(polys))
	for i, p := range polys {
		paths[i] = toFixedPath(p)
	}
	return paths
}

func fromFixedPath(path clipper.Path) []geom.Vec2 {
	poly := make([]geom.Vec2, len(path))
	for i, p := range path {
		poly[i] = geom.Vec2{X: float64(p.X) / Scale, Y: float64(p.Y) / Scale}
	}
	return poly
}

// Orientation reports whether poly is wound CCW (true) or CW (false) in
// the fixed-point domain, per spec §4.C.
func Orientation(poly []geom.Vec2) (ccw bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("polyclip: orientation: %v", r)
		}
	}()
	if len(poly) < 3 {
		return false, fmt.Errorf("polyclip: orientation: polygon has fewer than 3 points")
	}
	return clipper.Orientation(toFixedPath(poly)), nil
}

// execute runs a boolean clip type over subject/clip path sets and
// groups the result into ExPolygons via Clipper's PolyTree hierarchy,
// recovering any panic from the embedded solver into an error.
func execute(op clipper.ClipType, subjects, clips [][]geom.Vec2) (result []ExPolygon, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("polyclip: clipper exception: %v", r)
		}
	}()

	c := clipper.NewClipper(clipper.IoNone)
	if len(subjects) > 0 {
		if !c.AddPaths(toFixedPaths(subjects), clipper.PtSubject, true) {
			return nil, fmt.Errorf("polyclip: subject paths rejected (degenerate input)")
		}
	}
	if len(clips) > 0 {
		if !c.AddPaths(toFixedPaths(clips), clipper.PtClip, true) {
			return nil, fmt.Errorf("polyclip: clip paths rejected (degenerate input)")
		}
	}

	tree, ok := c.Execute2(op, clipper.PftNonZero, clipper.PftNonZero)
	if !ok {
		return nil, fmt.Errorf("polyclip: clipper execution failed")
	}

	return groupPolyTree(tree), nil
}

// groupPolyTree walks a solved PolyTree and pairs each outer contour
// with its directly-nested holes, per spec §4.C's ExPolygon contract.
func groupPolyTree(tree *clipper.PolyTree) []ExPolygon {
	var result []ExPolygon
	for _, child := range tree.Childs() {
		result = append(result, outerFromNode(child))
	}
	return result
}

func outerFromNode(node *clipper.PolyNode) ExPolygon {
	ex := ExPolygon{Outer: fromFixedPath(node.Contour())}
	for _, child := range node.Childs() {
		if child.IsHole() {
			ex.Holes = append(ex.Holes, fromFixedPath(child.Contour()))
			// A hole's own children are nested outers (islands); the
			// opening pipeline never produces those, so they are
			// dropped rather than silently merged into this ExPolygon.
		}
	}
	return ex
}

// Union returns the union of subjects and clips as a non-zero-fill
// ExPolygon set.
func Union(subjects, clips [][]geom.Vec2) ([]ExPolygon, error) {
	return execute(clipper.CtUnion, subjects, clips)
}

// Difference returns subjects minus clips.
func Difference(subjects, clips [][]geom.Vec2) ([]ExPolygon, error) {
	return execute(clipper.CtDifference, subjects, clips)
}

// Intersection returns the intersection of subjects and clips.
func Intersection(subjects, clips [][]geom.Vec2) ([]ExPolygon, error) {
	return execute(clipper.CtIntersection, subjects, clips)
}
