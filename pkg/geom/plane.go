package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Vec3 is a point or vector in world space.
type Vec3 = mgl64.Vec3

// minBasisLenSq is the squared-length floor below which a candidate plane
// normal is considered degenerate (spec §4.B: "length > 1e-8").
const minBasisLenSq = 1e-8 * 1e-8

// Frame is the plane basis derived from a polygon (spec §4.B): an
// orthonormal world->plane rotation, the constant plane coordinate every
// projected vertex shares, and the affine rescale from plane space into
// the unit square.
type Frame struct {
	Basis  mgl64.Mat3 // rows are r (x-axis), u (y-axis), nor (z-axis)
	PlaneD float64    // plane-space Z shared by every projected vertex
	Rescale Affine2
}

// Affine2 maps plane-space (x,y) into [0,1]^2 and back.
type Affine2 struct {
	Min   Vec2
	Scale Vec2 // 1/dx, 1/dy; zero components are treated as identity (no rescale on that axis)
}

// Forward maps a plane-space point into unit-square space.
func (a Affine2) Forward(p Vec2) Vec2 {
	x, y := p.X, p.Y
	if a.Scale.X != 0 {
		x = (p.X - a.Min.X) * a.Scale.X
	}
	if a.Scale.Y != 0 {
		y = (p.Y - a.Min.Y) * a.Scale.Y
	}
	return Vec2{x, y}
}

// Inverse maps a unit-square point back into plane space.
func (a Affine2) Inverse(p Vec2) Vec2 {
	x, y := p.X, p.Y
	if a.Scale.X != 0 {
		x = p.X/a.Scale.X + a.Min.X
	}
	if a.Scale.Y != 0 {
		y = p.Y/a.Scale.Y + a.Min.Y
	}
	return Vec2{x, y}
}

// Normal returns the plane's unit normal (row 2 of the basis).
func (f Frame) Normal() Vec3 {
	return f.Basis.Row(2)
}

// ProjectPoint maps a world point to unit-square plane space.
func (f Frame) ProjectPoint(p Vec3) Vec2 {
	local := f.Basis.Mul3x1(p)
	return f.Rescale.Forward(Vec2{local[0], local[1]})
}

// ProjectPointPlane maps a world point to plane space (no unit rescale),
// also returning the plane-Z coordinate for the caller to check against
// PlaneD.
func (f Frame) ProjectPointPlane(p Vec3) (xy Vec2, z float64) {
	local := f.Basis.Mul3x1(p)
	return Vec2{local[0], local[1]}, local[2]
}

// Unproject maps a unit-square plane point back to world space.
func (f Frame) Unproject(p Vec2) Vec3 {
	plane := f.Rescale.Inverse(p)
	local := Vec3{plane.X, plane.Y, f.PlaneD}
	return f.Basis.Transpose().Mul3x1(local)
}

// DerivePlaneCoordinateSpace derives a plane basis from a polygon, per
// spec §4.B: anchor at the last vertex, search index pairs (i,j), i<j,
// until the Newell-style cross product of the two edges from the anchor
// has length greater than 1e-8.
func DerivePlaneCoordinateSpace(poly []Vec3) (Frame, bool) {
	n := len(poly)
	if n < 3 {
		return Frame{}, false
	}
	p := poly[n-1]

	for i := 0; i < n; i++ {
		ei := poly[i].Sub(p)
		for j := i + 1; j < n; j++ {
			ej := poly[j].Sub(p)
			nor := ei.Cross(ej).Mul(-1)
			if nor.LenSqr() <= minBasisLenSq {
				continue
			}
			nor = nor.Normalize()
			r := ei.Normalize()
			u := r.Cross(nor).Normalize()

			basis := mgl64.Mat3FromCols(
				Vec3{r[0], u[0], nor[0]},
				Vec3{r[1], u[1], nor[1]},
				Vec3{r[2], u[2], nor[2]},
			)
			d := -p.Dot(nor)
			return Frame{Basis: basis, PlaneD: -d}, true
		}
	}
	return Frame{}, false
}

// ProjectOntoPlane derives a basis from mesh and projects every vertex,
// returning the plane basis (with rescale fitted to the projected AABB and
// PlaneD set to the shared plane-Z coordinate), the rescaled [0,1]^2
// contour, and false when no basis exists. Mirrors spec §4.B's
// projectOntoPlane.
func ProjectOntoPlane(poly []Vec3) (Frame, []Vec2, bool) {
	frame, ok := DerivePlaneCoordinateSpace(poly)
	if !ok {
		return Frame{}, nil, false
	}

	planePts := make([]Vec2, len(poly))
	var baseD float64
	for i, v := range poly {
		xy, z := frame.ProjectPointPlane(v)
		planePts[i] = xy
		if i == 0 {
			baseD = z
		} else if math.Abs(z-baseD) > 1e-4*(1+math.Abs(baseD)) {
			// Non-planar input; still proceed using the first sample,
			// matching the teacher's "asserted constant modulo noise".
		}
	}
	frame.PlaneD = baseD

	bb := BoundsOf(planePts)
	dx, dy := bb.Max.X-bb.Min.X, bb.Max.Y-bb.Min.Y
	rescale := Affine2{Min: bb.Min}
	if dx > 1e-12 {
		rescale.Scale.X = 1 / dx
	}
	if dy > 1e-12 {
		rescale.Scale.Y = 1 / dy
	}
	frame.Rescale = rescale

	contour := make([]Vec2, len(planePts))
	for i, p := range planePts {
		contour[i] = rescale.Forward(p)
	}
	return frame, contour, true
}
