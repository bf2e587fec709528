// Package tritess implements the triangulation fallback of spec §4.H:
// when the contour merge pass reports NeedsFallback (an opening union
// produced more than one disjoint polygon, something quadrify's
// axis-aligned tiler cannot represent), the wall face is instead
// triangulated directly with holes for every opening contour, via
// github.com/osuushi/triangulate's trapezoidation-based triangulator.
package tritess

import (
	"fmt"

	triangulate "github.com/osuushi/triangulate/triangulate"

	"github.com/chazu/wallgen/pkg/geom"
)

// Triangulate fills outer (minus every hole in holes) with triangles,
// returning one face per triangle in CCW winding. outer is wound CCW
// and each hole CW, matching the library's own polygon-list convention
// for telling outers from holes.
func Triangulate(outer []geom.Vec2, holes [][]geom.Vec2) ([][]geom.Vec2, error) {
	if len(outer) < 3 {
		return nil, fmt.Errorf("tritess: outer contour has fewer than 3 points")
	}

	list := triangulate.PolygonList{toPolygon(outer, false)}
	for _, h := range holes {
		if len(h) < 3 {
			continue
		}
		list = append(list, toPolygon(h, true))
	}

	triangles, err := triangulate.Triangulate(list)
	if err != nil {
		return nil, fmt.Errorf("tritess: triangulation failed: %w", err)
	}

	faces := make([][]geom.Vec2, 0, len(triangles))
	for _, t := range triangles {
		faces = append(faces, []geom.Vec2{
			fromTriPoint(t.A),
			fromTriPoint(t.B),
			fromTriPoint(t.C),
		})
	}
	return faces, nil
}

// toPolygon builds a library Polygon from a projected contour. Holes
// must wind clockwise (opposite to the outer), since the library tells
// outers from holes by winding direction rather than an explicit flag.
func toPolygon(poly []geom.Vec2, isHole bool) triangulate.Polygon {
	pts := make([]*triangulate.Point, len(poly))
	for i, p := range poly {
		pts[i] = &triangulate.Point{X: p.X, Y: p.Y}
	}
	p := triangulate.Polygon{Points: pts}
	if isHole != isClockwise(poly) {
		p = p.Reverse()
	}
	return p
}

func isClockwise(poly []geom.Vec2) bool {
	var sum float64
	n := len(poly)
	for i := 0; i < n; i++ {
		a := poly[i]
		b := poly[(i+1)%n]
		sum += (b.X - a.X) * (b.Y + a.Y)
	}
	return sum > 0
}

func fromTriPoint(p *triangulate.Point) geom.Vec2 {
	return geom.Vec2{X: p.X, Y: p.Y}
}
