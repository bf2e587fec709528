// Package geom provides the small vector and plane-frame math the
// opening-generation pipeline shares: 2D points in projected space,
// 3D points in world space, and the plane basis that connects them.
package geom

import "math"

// Vec2 is a point or vector in projected (plane) space.
type Vec2 struct {
	X, Y float64
}

func (a Vec2) Add(b Vec2) Vec2 { return Vec2{a.X + b.X, a.Y + b.Y} }
func (a Vec2) Sub(b Vec2) Vec2 { return Vec2{a.X - b.X, a.Y - b.Y} }
func (a Vec2) Scale(s float64) Vec2 { return Vec2{a.X * s, a.Y * s} }
func (a Vec2) Dot(b Vec2) float64   { return a.X*b.X + a.Y*b.Y }

// Cross returns the Z component of the 3D cross product of a and b.
func (a Vec2) Cross(b Vec2) float64 { return a.X*b.Y - a.Y*b.X }

func (a Vec2) LenSq() float64 { return a.X*a.X + a.Y*a.Y }
func (a Vec2) Len() float64   { return math.Sqrt(a.LenSq()) }

// DistSq returns the squared distance between a and b.
func (a Vec2) DistSq(b Vec2) float64 { return a.Sub(b).LenSq() }

// Lerp linearly interpolates between a and b at parameter t.
func (a Vec2) Lerp(b Vec2, t float64) Vec2 {
	return Vec2{a.X + (b.X-a.X)*t, a.Y + (b.Y-a.Y)*t}
}

// Box2 is an axis-aligned bounding box in projected space.
type Box2 struct {
	Min, Max Vec2
}

// EmptyBox2 returns a box with inverted extrema, ready to be grown by Add.
func EmptyBox2() Box2 {
	inf := math.Inf(1)
	return Box2{Min: Vec2{inf, inf}, Max: Vec2{-inf, -inf}}
}

// Add grows the box to include p.
func (b Box2) Add(p Vec2) Box2 {
	return Box2{
		Min: Vec2{math.Min(b.Min.X, p.X), math.Min(b.Min.Y, p.Y)},
		Max: Vec2{math.Max(b.Max.X, p.X), math.Max(b.Max.Y, p.Y)},
	}
}

// BoundsOf computes the AABB of a point set.
func BoundsOf(pts []Vec2) Box2 {
	bb := EmptyBox2()
	for _, p := range pts {
		bb = bb.Add(p)
	}
	return bb
}

// Area returns the box area, 0 for an empty/inverted box.
func (b Box2) Area() float64 {
	dx := b.Max.X - b.Min.X
	dy := b.Max.Y - b.Min.Y
	if dx <= 0 || dy <= 0 {
		return 0
	}
	return dx * dy
}

// Diagonal returns the length of the box's diagonal.
func (b Box2) Diagonal() float64 {
	return b.Max.Sub(b.Min).Len()
}

// Overlaps reports whether two boxes intersect with positive area, with
// boxes that merely touch along an edge counted as non-overlapping (the
// quadrify tiling tie-break of spec §4.E).
func (b Box2) Overlaps(o Box2) bool {
	return b.Min.X < o.Max.X && o.Min.X < b.Max.X &&
		b.Min.Y < o.Max.Y && o.Min.Y < b.Max.Y
}

// Contains reports whether p lies within the box, inclusive of edges.
func (b Box2) Contains(p Vec2) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X && p.Y >= b.Min.Y && p.Y <= b.Max.Y
}

// Corners returns the four corners in CCW order starting at Min.
func (b Box2) Corners() [4]Vec2 {
	return [4]Vec2{
		{b.Min.X, b.Min.Y},
		{b.Max.X, b.Min.Y},
		{b.Max.X, b.Max.Y},
		{b.Min.X, b.Max.Y},
	}
}

// Union returns the smallest box containing both a and b.
func (b Box2) Union(o Box2) Box2 {
	return Box2{
		Min: Vec2{math.Min(b.Min.X, o.Min.X), math.Min(b.Min.Y, o.Min.Y)},
		Max: Vec2{math.Max(b.Max.X, o.Max.X), math.Max(b.Max.Y, o.Max.Y)},
	}
}
