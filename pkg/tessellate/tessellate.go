// Package tessellate walks a pkg/scene and produces triangle/polygon
// meshes: wall faces route through pkg/openings, boolean results whose
// operands reduce to an axis-aligned box or a straight cylinder route
// through pkg/kernel's real boolean/transform ops, and the remaining
// representation kinds are realized directly as explicit B-rep, the
// same way pkg/openings itself emits geometry.
package tessellate

import (
	"fmt"
	"log"
	"math"

	"github.com/chazu/wallgen/pkg/contour"
	"github.com/chazu/wallgen/pkg/geom"
	"github.com/chazu/wallgen/pkg/kernel"
	"github.com/chazu/wallgen/pkg/meshbuf"
	"github.com/chazu/wallgen/pkg/openings"
	"github.com/chazu/wallgen/pkg/scene"
)

// Output is one item's generated geometry, still tagged with its
// originating scene ID and kind for callers that need to trace a mesh
// back to its representation item.
type Output struct {
	ID    scene.ID
	Kind  scene.Kind
	Name  string
	Mesh  *meshbuf.Mesh
}

// Tessellate walks every representation item in s and produces one
// Output per item. k is the geometry kernel used for BooleanResult
// items that reduce to box/cylinder primitives; wall faces never
// touch it; they go through cfg and pkg/openings instead.
func Tessellate(s *scene.Scene, k kernel.Kernel, cfg openings.Config) ([]Output, error) {
	var outputs []Output

	for _, item := range s.Items() {
		m, err := tessellateItem(s, k, cfg, item)
		if err != nil {
			return nil, fmt.Errorf("tessellate: item %d (%s): %w", item.ID, item.Kind, err)
		}
		if m == nil {
			continue
		}
		outputs = append(outputs, Output{ID: item.ID, Kind: item.Kind, Name: item.Name, Mesh: m})
	}

	return outputs, nil
}

func tessellateItem(s *scene.Scene, k kernel.Kernel, cfg openings.Config, item *scene.Item) (*meshbuf.Mesh, error) {
	switch item.Kind {
	case scene.KindWallFace:
		return tessellateWallFace(s, cfg, item.WallFace)
	case scene.KindSweptArea:
		return tessellateSweptArea(item.SweptArea), nil
	case scene.KindSweptDisk:
		return tessellateSweptDisk(item.SweptDisk), nil
	case scene.KindFaceSet:
		return tessellateFaceSet(item.FaceSet), nil
	case scene.KindHalfSpace:
		return tessellateHalfSpace(item.HalfSpace), nil
	case scene.KindBooleanResult:
		return tessellateBoolean(s, k, item.BooleanResult)
	case scene.KindRevolvedArea:
		return tessellateRevolvedArea(item.RevolvedArea), nil
	case scene.KindPolygonWithHoles:
		return tessellatePolygonWithHoles(item.PolygonWithHoles)
	default:
		return nil, fmt.Errorf("unknown representation kind: %v", item.Kind)
	}
}

// tessellateWallFace resolves a wall face's openings from the scene
// arena, runs the driver, and writes WallPoints back so the opposite
// face's later pass can see them.
func tessellateWallFace(s *scene.Scene, cfg openings.Config, wf *scene.WallFace) (*meshbuf.Mesh, error) {
	resolved := s.ResolveOpenings(wf)
	m := meshbuf.New()

	ok := openings.GenerateOpenings(cfg, openings.WallFace{Outline: wf.Outline, Openings: resolved}, m)
	s.SyncWallPoints(resolved)
	if !ok {
		return nil, fmt.Errorf("wall face resolution failed")
	}
	return m, nil
}

// tessellateSweptArea builds the extrusion of a 2D profile explicitly:
// two capping faces plus one side quad per profile edge.
func tessellateSweptArea(sa *scene.SweptArea) *meshbuf.Mesh {
	m := meshbuf.New()
	n := len(sa.Profile)
	if n < 3 {
		return m
	}

	dir := sa.Dir
	if l := dir.Len(); l > 0 {
		dir = dir.Mul(sa.Depth / l)
	}

	bottom := make([]geom.Vec3, n)
	top := make([]geom.Vec3, n)
	for i, p := range sa.Profile {
		v := geom.Vec3{p.X, p.Y, 0}
		bottom[i] = v
		top[i] = v.Add(dir)
	}

	m.AddFace(bottom...)
	m.ReverseFace(0) // bottom cap faces outward away from the extrusion

	m.AddFace(top...)

	for i := 0; i < n; i++ {
		j := (i + 1) % n
		m.AddFace(bottom[i], bottom[j], top[j], top[i])
	}

	return m
}

// sweptDiskSegments is the polygon approximation used for the tube
// wall around each rail segment.
const sweptDiskSegments = 12

// tessellateSweptDisk builds an explicit tube mesh: a ring of points
// around each rail vertex, connected by side quads between consecutive
// rings, approximating a disk swept along the rail polyline.
func tessellateSweptDisk(sd *scene.SweptDisk) *meshbuf.Mesh {
	m := meshbuf.New()
	if len(sd.Rail) < 2 {
		return m
	}

	rings := make([][]geom.Vec3, len(sd.Rail))
	for i, center := range sd.Rail {
		dir := railDirection(sd.Rail, i)
		rings[i] = diskRing(center, dir, sd.Radius)
	}

	for i := 0; i < len(rings)-1; i++ {
		a, b := rings[i], rings[i+1]
		for j := 0; j < sweptDiskSegments; j++ {
			k := (j + 1) % sweptDiskSegments
			m.AddFace(a[j], a[k], b[k], b[j])
		}
	}

	return m
}

func railDirection(rail []geom.Vec3, i int) geom.Vec3 {
	switch {
	case i == 0:
		return rail[1].Sub(rail[0])
	case i == len(rail)-1:
		return rail[i].Sub(rail[i-1])
	default:
		return rail[i+1].Sub(rail[i-1])
	}
}

// diskRing returns sweptDiskSegments points forming a circle of the
// given radius, centered at center, perpendicular to dir.
func diskRing(center, dir geom.Vec3, radius float64) []geom.Vec3 {
	axis := dir
	if l := axis.Len(); l > 1e-12 {
		axis = axis.Mul(1 / l)
	} else {
		axis = geom.Vec3{0, 0, 1}
	}

	ref := geom.Vec3{1, 0, 0}
	if math.Abs(axis.Dot(ref)) > 0.9 {
		ref = geom.Vec3{0, 1, 0}
	}
	u := axis.Cross(ref).Normalize()
	v := axis.Cross(u).Normalize()

	ring := make([]geom.Vec3, sweptDiskSegments)
	for i := 0; i < sweptDiskSegments; i++ {
		theta := 2 * math.Pi * float64(i) / float64(sweptDiskSegments)
		offset := u.Mul(radius * math.Cos(theta)).Add(v.Mul(radius * math.Sin(theta)))
		ring[i] = center.Add(offset)
	}
	return ring
}

// revolveSegmentsPerQuarterTurn mirrors the angular step the original
// importer used for lathed solids (16 segments per quarter turn),
// giving smooth cylinders without over-tessellating small arcs.
const revolveSegmentsPerQuarterTurn = 16

// fullTurnCapThreshold is the fraction of a full 2*pi turn past which a
// revolution is treated as closed and left uncapped.
const fullTurnCapThreshold = 0.99

// tessellateRevolvedArea builds an explicit lathed mesh: the profile is
// lifted into 3D using a basis perpendicular to the axis, copied around
// the axis in even angular steps, and the consecutive rings are
// connected with side quads. A partial revolution (less than a full
// turn) gets its start and end profile faces capped.
func tessellateRevolvedArea(ra *scene.RevolvedArea) *meshbuf.Mesh {
	m := meshbuf.New()
	n := len(ra.Profile)
	if n < 2 || math.Abs(ra.Angle) < 1e-3 {
		return m
	}

	axis := ra.AxisDir
	if l := axis.Len(); l > 1e-12 {
		axis = axis.Mul(1 / l)
	} else {
		return m
	}

	ref := geom.Vec3{1, 0, 0}
	if math.Abs(axis.Dot(ref)) > 0.9 {
		ref = geom.Vec3{0, 1, 0}
	}
	u := axis.Cross(ref).Normalize()

	base := make([]geom.Vec3, n)
	for i, p := range ra.Profile {
		base[i] = ra.AxisPoint.Add(u.Mul(p.X)).Add(axis.Mul(p.Y))
	}

	segments := int(math.Ceil(revolveSegmentsPerQuarterTurn * math.Abs(ra.Angle) / (math.Pi / 2)))
	if segments < 2 {
		segments = 2
	}
	delta := ra.Angle / float64(segments)

	rings := make([][]geom.Vec3, segments+1)
	rings[0] = base
	for seg := 1; seg <= segments; seg++ {
		theta := delta * float64(seg)
		ring := make([]geom.Vec3, n)
		for i, p := range base {
			ring[i] = rotateAboutAxis(p, ra.AxisPoint, axis, theta)
		}
		rings[seg] = ring
	}

	for seg := 0; seg < segments; seg++ {
		a, b := rings[seg], rings[seg+1]
		for i := 0; i < n; i++ {
			j := (i + 1) % n
			m.AddFace(a[i], a[j], b[j], b[i])
		}
	}

	isClosedProfile := n > 2
	isFullTurn := math.Abs(ra.Angle) > 2*math.Pi*fullTurnCapThreshold
	if isClosedProfile && !isFullTurn {
		m.AddFace(rings[0]...)
		m.ReverseFace(m.NumFaces() - 1)
		m.AddFace(rings[segments]...)
	}

	return m
}

// rotateAboutAxis rotates p by theta radians around the line through
// point on direction axis (a unit vector), via Rodrigues' formula.
func rotateAboutAxis(p, point, axis geom.Vec3, theta float64) geom.Vec3 {
	v := p.Sub(point)
	cos, sin := math.Cos(theta), math.Sin(theta)
	rotated := v.Mul(cos).
		Add(axis.Cross(v).Mul(sin)).
		Add(axis.Mul(axis.Dot(v) * (1 - cos)))
	return point.Add(rotated)
}

// tessellatePolygonWithHoles builds a single planar face with its inner
// loops cut out as holes. Each hole is wrapped as a synthetic opening
// whose sole profile face is the hole loop itself (already aligned
// with the outer polygon's own plane, so it always survives the
// face-normal-alignment cull), and handed to the same driver a wall
// face with real window/door openings uses -- the original importer's
// own trick for triangulating faces with nested boundary loops, reduced
// to the same quadrify machinery. Intersection checks and jamb/closing
// geometry make no sense for a single coplanar face, so both are
// disabled.
func tessellatePolygonWithHoles(pf *scene.PolygonWithHoles) (*meshbuf.Mesh, error) {
	m := meshbuf.New()
	if len(pf.Outer) < 3 {
		return m, nil
	}
	if len(pf.Holes) == 0 {
		m.AddFace(pf.Outer...)
		return m, nil
	}

	holeOpenings := make([]contour.Opening, 0, len(pf.Holes))
	for _, hole := range pf.Holes {
		if len(hole) < 3 {
			continue
		}
		profile := meshbuf.New()
		profile.AddFace(hole...)
		holeOpenings = append(holeOpenings, contour.Opening{Profile: profile})
	}

	cfg := openings.Config{CheckIntersection: false, GenerateConnectionGeometry: false}
	if ok := openings.GenerateOpenings(cfg, openings.WallFace{Outline: pf.Outer, Openings: holeOpenings}, m); !ok {
		return nil, fmt.Errorf("polygon-with-holes: no holes survived projection")
	}
	return m, nil
}

func tessellateFaceSet(fs *scene.FaceSet) *meshbuf.Mesh {
	m := meshbuf.New()
	for _, f := range fs.Faces {
		m.AddFace(f...)
	}
	return m
}

// halfSpaceExtent bounds the finite quad used to stand in for an
// infinite half-space's boundary plane.
const halfSpaceExtent = 1000.0

// tessellateHalfSpace emits a single large quad lying in the
// half-space's boundary plane, centered at PlanePoint.
func tessellateHalfSpace(hs *scene.HalfSpace) *meshbuf.Mesh {
	m := meshbuf.New()
	nor := hs.PlaneNormal
	if l := nor.Len(); l > 1e-12 {
		nor = nor.Mul(1 / l)
	} else {
		return m
	}

	ref := geom.Vec3{1, 0, 0}
	if math.Abs(nor.Dot(ref)) > 0.9 {
		ref = geom.Vec3{0, 1, 0}
	}
	u := nor.Cross(ref).Normalize().Mul(halfSpaceExtent)
	v := nor.Cross(u).Normalize().Mul(halfSpaceExtent)

	p := hs.PlanePoint
	m.AddFace(
		p.Sub(u).Sub(v),
		p.Add(u).Sub(v),
		p.Add(u).Add(v),
		p.Sub(u).Add(v),
	)
	return m
}

// tessellateBoolean reduces A and B to kernel primitives when each one
// is a simple axis-aligned box (a rectangular SweptArea extruded along
// +Z) or a straight single-segment cylinder (a SweptDisk with a
// two-point rail parallel to Z), runs the real boolean op through k, and meshes the
// result. Anything else is not representable with the two kernel
// primitives the teacher's backends expose, and falls back to emitting
// A's own geometry unmodified, logged rather than silently dropped.
func tessellateBoolean(s *scene.Scene, k kernel.Kernel, br *scene.BooleanResult) (*meshbuf.Mesh, error) {
	aSolid, aOK := asKernelSolid(k, s.Item(br.A))
	bSolid, bOK := asKernelSolid(k, s.Item(br.B))
	if !aOK || !bOK {
		log.Printf("tessellate: boolean operands %d/%d do not reduce to kernel primitives; emitting operand A unmodified", br.A, br.B)
		fallback := s.Item(br.A)
		if fallback == nil {
			return meshbuf.New(), nil
		}
		m, err := tessellateItem(s, k, openings.DefaultConfig(), fallback)
		if err != nil {
			return nil, err
		}
		return m, nil
	}

	var result kernel.Solid
	switch br.Op {
	case scene.BoolUnion:
		result = k.Union(aSolid, bSolid)
	case scene.BoolDifference:
		result = k.Difference(aSolid, bSolid)
	case scene.BoolIntersection:
		result = k.Intersection(aSolid, bSolid)
	default:
		return nil, fmt.Errorf("unknown boolean op: %v", br.Op)
	}

	km, err := k.ToMesh(result)
	if err != nil {
		return nil, fmt.Errorf("boolean result: %w", err)
	}
	return fromKernelMesh(km), nil
}

// asKernelSolid reduces an item to a kernel.Solid if it is a
// rectangular extrusion along +Z (box) or a straight cylindrical sweep
// along a rail parallel to Z, translated into place.
func asKernelSolid(k kernel.Kernel, item *scene.Item) (kernel.Solid, bool) {
	if item == nil {
		return nil, false
	}
	switch item.Kind {
	case scene.KindSweptArea:
		sa := item.SweptArea
		dims, origin, ok := rectangularExtent(sa.Profile)
		if !ok {
			return nil, false
		}
		if math.Abs(sa.Dir[0]) > 1e-9 || math.Abs(sa.Dir[1]) > 1e-9 || sa.Dir[2] <= 0 {
			return nil, false
		}
		s := k.Box(dims.X, dims.Y, sa.Depth)
		return k.Translate(s, origin.X, origin.Y, 0), true
	case scene.KindSweptDisk:
		sd := item.SweptDisk
		if len(sd.Rail) != 2 {
			return nil, false
		}
		axis := sd.Rail[1].Sub(sd.Rail[0])
		if math.Abs(axis[0]) > 1e-9 || math.Abs(axis[1]) > 1e-9 {
			return nil, false
		}
		height := math.Abs(axis[2])
		// Both kernel backends build the cylinder centered on the origin.
		mid := sd.Rail[0].Add(sd.Rail[1]).Mul(0.5)
		s := k.Cylinder(height, sd.Radius, sweptDiskSegments)
		return k.Translate(s, mid[0], mid[1], mid[2]), true
	default:
		return nil, false
	}
}

// rectangularExtent reports whether profile is an axis-aligned
// rectangle and, if so, its (width,height) and minimum corner.
func rectangularExtent(profile []geom.Vec2) (dims, origin geom.Vec2, ok bool) {
	if len(profile) != 4 {
		return geom.Vec2{}, geom.Vec2{}, false
	}
	bb := geom.BoundsOf(profile)
	for _, p := range profile {
		onX := math.Abs(p.X-bb.Min.X) < 1e-9 || math.Abs(p.X-bb.Max.X) < 1e-9
		onY := math.Abs(p.Y-bb.Min.Y) < 1e-9 || math.Abs(p.Y-bb.Max.Y) < 1e-9
		if !onX || !onY {
			return geom.Vec2{}, geom.Vec2{}, false
		}
	}
	return geom.Vec2{X: bb.Max.X - bb.Min.X, Y: bb.Max.Y - bb.Min.Y}, bb.Min, true
}

func fromKernelMesh(km *kernel.Mesh) *meshbuf.Mesh {
	m := meshbuf.New()
	for i := 0; i < len(km.Indices); i += 3 {
		tri := make([]geom.Vec3, 3)
		for j := 0; j < 3; j++ {
			idx := km.Indices[i+j]
			tri[j] = geom.Vec3{
				float64(km.Vertices[idx*3]),
				float64(km.Vertices[idx*3+1]),
				float64(km.Vertices[idx*3+2]),
			}
		}
		m.AddFace(tri...)
	}
	return m
}
