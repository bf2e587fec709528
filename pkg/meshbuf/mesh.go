// Package meshbuf implements the append-only polygon mesh buffer of
// spec §4.A: an ordered vertex sequence plus a parallel per-face vertex
// count, with the primitive ops the rest of the opening pipeline builds
// on (append, transform, reverse, dedup, face normals).
package meshbuf

import (
	"github.com/chazu/wallgen/pkg/geom"
)

// Mesh is an ordered sequence of 3D points (Verts) and a parallel
// sequence of face sizes (VertCnt). Face k owns the slice
// [sum(VertCnt[0:k]), sum(VertCnt[0:k+1])). Faces are planar polygons;
// winding order indicates outward normal.
type Mesh struct {
	Verts   []geom.Vec3
	VertCnt []int
}

// New returns an empty mesh.
func New() *Mesh {
	return &Mesh{}
}

// NumFaces returns the number of faces.
func (m *Mesh) NumFaces() int {
	return len(m.VertCnt)
}

// FaceStart returns the index into Verts where face i begins.
func (m *Mesh) FaceStart(i int) int {
	start := 0
	for k := 0; k < i; k++ {
		start += m.VertCnt[k]
	}
	return start
}

// Face returns the vertex slice owned by face i.
func (m *Mesh) Face(i int) []geom.Vec3 {
	start := m.FaceStart(i)
	return m.Verts[start : start+m.VertCnt[i]]
}

// AddFace appends a single face made of the given vertices.
func (m *Mesh) AddFace(verts ...geom.Vec3) {
	m.Verts = append(m.Verts, verts...)
	m.VertCnt = append(m.VertCnt, len(verts))
}

// Append concatenates another mesh's faces onto this one.
func (m *Mesh) Append(other *Mesh) {
	m.Verts = append(m.Verts, other.Verts...)
	m.VertCnt = append(m.VertCnt, other.VertCnt...)
}

// Clone returns a deep copy.
func (m *Mesh) Clone() *Mesh {
	c := &Mesh{
		Verts:   make([]geom.Vec3, len(m.Verts)),
		VertCnt: make([]int, len(m.VertCnt)),
	}
	copy(c.Verts, m.Verts)
	copy(c.VertCnt, m.VertCnt)
	return c
}

// Transform applies f to every vertex in place.
func (m *Mesh) Transform(f func(geom.Vec3) geom.Vec3) {
	for i := range m.Verts {
		m.Verts[i] = f(m.Verts[i])
	}
}

// ReverseFace reverses the winding of face i in place.
func (m *Mesh) ReverseFace(i int) {
	start := m.FaceStart(i)
	n := m.VertCnt[i]
	face := m.Verts[start : start+n]
	for a, b := 0, n-1; a < b; a, b = a+1, b-1 {
		face[a], face[b] = face[b], face[a]
	}
}

// adjacentDupEpsSq is the squared-distance floor below which consecutive
// face vertices are considered duplicates, relative to the face's squared
// diagonal (spec §4.A: "eps^2 <= 1e-10 of face diagonal").
const adjacentDupEpsSq = 1e-10

// RemoveAdjacentDuplicates collapses consecutive vertices (including the
// wrap-around edge) that coincide within adjacentDupEpsSq of the face's
// squared diagonal, rebuilding VertCnt as it goes.
func (m *Mesh) RemoveAdjacentDuplicates() {
	var newVerts []geom.Vec3
	var newCnt []int

	for f := 0; f < m.NumFaces(); f++ {
		face := m.Face(f)
		if len(face) == 0 {
			continue
		}
		diagSq := faceDiagonalSq(face)
		thresh := adjacentDupEpsSq * diagSq

		kept := make([]geom.Vec3, 0, len(face))
		for _, v := range face {
			if len(kept) == 0 || kept[len(kept)-1].Sub(v).LenSqr() > thresh {
				kept = append(kept, v)
			}
		}
		// Wrap-around: drop the last vertex if it coincides with the first.
		if len(kept) > 1 && kept[0].Sub(kept[len(kept)-1]).LenSqr() <= thresh {
			kept = kept[:len(kept)-1]
		}
		if len(kept) == 0 {
			continue
		}
		newVerts = append(newVerts, kept...)
		newCnt = append(newCnt, len(kept))
	}

	m.Verts = newVerts
	m.VertCnt = newCnt
}

// degenerateNormalLenSq is the Newell-normal squared-length floor below
// which a face is dropped as degenerate (spec §4.A: "< 1e-5").
const degenerateNormalLenSq = 1e-5

// RemoveDegenerates drops every face whose Newell normal has squared
// length below degenerateNormalLenSq, and every face with fewer than 3
// vertices.
func (m *Mesh) RemoveDegenerates() {
	var newVerts []geom.Vec3
	var newCnt []int

	for f := 0; f < m.NumFaces(); f++ {
		face := m.Face(f)
		if len(face) < 3 {
			continue
		}
		n := NewellNormal(face)
		if n.LenSqr() < degenerateNormalLenSq {
			continue
		}
		newVerts = append(newVerts, face...)
		newCnt = append(newCnt, len(face))
	}

	m.Verts = newVerts
	m.VertCnt = newCnt
}

// NewellNormal computes the unnormalized Newell normal of a planar
// polygon: the sum of successive-edge cross products. Its length is
// twice the polygon's area.
func NewellNormal(face []geom.Vec3) geom.Vec3 {
	var n geom.Vec3
	count := len(face)
	for i := 0; i < count; i++ {
		cur := face[i]
		next := face[(i+1)%count]
		n[0] += (cur[1] - next[1]) * (cur[2] + next[2])
		n[1] += (cur[2] - next[2]) * (cur[0] + next[0])
		n[2] += (cur[0] - next[0]) * (cur[1] + next[1])
	}
	return n
}

// ComputePolygonNormals returns one Newell normal per face, optionally
// normalized.
func (m *Mesh) ComputePolygonNormals(normalize bool) []geom.Vec3 {
	normals := make([]geom.Vec3, m.NumFaces())
	for f := 0; f < m.NumFaces(); f++ {
		n := NewellNormal(m.Face(f))
		if normalize {
			if l := n.Len(); l > 0 {
				n = n.Mul(1 / l)
			}
		}
		normals[f] = n
	}
	return normals
}

func faceDiagonalSq(face []geom.Vec3) float64 {
	// Approximate "face diagonal" with the 3D AABB diagonal of the face's
	// own vertices -- a monotone proxy for face extent used only to scale
	// the dedup epsilon, not an exact geometric distance.
	var min, max geom.Vec3
	for i, v := range face {
		if i == 0 {
			min, max = v, v
			continue
		}
		for k := 0; k < 3; k++ {
			if v[k] < min[k] {
				min[k] = v[k]
			}
			if v[k] > max[k] {
				max[k] = v[k]
			}
		}
	}
	d := max.Sub(min)
	return d.LenSqr()
}
