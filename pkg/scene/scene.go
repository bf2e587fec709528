// Package scene is the small resolved-entity graph the opening
// pipeline hangs off of: walls, the openings that pierce them, and the
// representation items every other kind of building element reduces
// to. It stands in for the IFC-parser collaborator spec.md's driver
// expects upstream of it, modeled the way the teacher's own design
// graph models its nodes: a flat ID-keyed arena, never pointer cycles.
package scene

import (
	"fmt"

	"github.com/chazu/wallgen/pkg/contour"
	"github.com/chazu/wallgen/pkg/geom"
)

// ID addresses an entity in a Scene's arena.
type ID int

// Kind is the closed set of representation item variants spec.md §9
// calls for: "dynamic dispatch over geometry kinds... modeled as a
// tagged variant with a fixed closed set".
type Kind int

const (
	KindSweptArea Kind = iota
	KindSweptDisk
	KindFaceSet
	KindBooleanResult
	KindHalfSpace
	KindWallFace
	KindRevolvedArea
	KindPolygonWithHoles
)

func (k Kind) String() string {
	switch k {
	case KindSweptArea:
		return "swept_area"
	case KindSweptDisk:
		return "swept_disk"
	case KindFaceSet:
		return "face_set"
	case KindBooleanResult:
		return "boolean_result"
	case KindHalfSpace:
		return "half_space"
	case KindWallFace:
		return "wall_face"
	case KindRevolvedArea:
		return "revolved_area"
	case KindPolygonWithHoles:
		return "polygon_with_holes"
	default:
		return "unknown"
	}
}

// SweptArea is a profile polygon extruded along a direction.
type SweptArea struct {
	Profile  []geom.Vec2
	Dir      geom.Vec3
	Depth    float64
}

// SweptDisk is a circular profile swept along a rail polyline (a
// pipe/rail solid -- railings, conduit runs).
type SweptDisk struct {
	Radius float64
	Rail   []geom.Vec3
}

// FaceSet is an explicit boundary representation: a closed polyhedron
// given as raw faces, with no further construction history.
type FaceSet struct {
	Faces [][]geom.Vec3
}

// RevolvedArea is a profile polygon swept around an axis by Angle
// radians (a lathed solid: a baluster, a pipe fitting, a dome rib).
// A full 2*pi revolution of a closed profile produces a solid of
// revolution with no end caps; anything less is capped at both ends.
type RevolvedArea struct {
	Profile   []geom.Vec2
	AxisPoint geom.Vec3
	AxisDir   geom.Vec3
	Angle     float64
}

// PolygonWithHoles is a single planar face whose outer boundary
// encloses one or more inner loops that should be cut out as holes --
// modeling a face with nested IfcFaceBound loops rather than a single
// IfcPolyLoop.
type PolygonWithHoles struct {
	Outer []geom.Vec3
	Holes [][]geom.Vec3
}

// BooleanOp is the closed set of boolean kinds a BooleanResult may combine.
type BooleanOp int

const (
	BoolUnion BooleanOp = iota
	BoolDifference
	BoolIntersection
)

// BooleanResult combines two other representation items.
type BooleanResult struct {
	Op       BooleanOp
	A, B     ID
}

// HalfSpace is an infinite half-space solid, used to trim other
// representation items (e.g. a roof plane cutting a gable wall).
type HalfSpace struct {
	PlanePoint  geom.Vec3
	PlaneNormal geom.Vec3
}

// WallFace is a wall's planar face together with the openings (by ID)
// that pierce it. Unlike the other kinds, a WallFace always routes
// through pkg/openings rather than pkg/kernel.
type WallFace struct {
	Outline  []geom.Vec3
	Openings []ID
}

// Opening is a door/window cutout: a swept profile plus the extrusion
// direction it was cut with. It mirrors pkg/contour.Opening's shape so
// a scene opening can be handed to the pipeline with no copy beyond
// unwrapping the scene ID layer.
type Opening struct {
	Profile      *contour.Opening
	HostWall     ID
}

// Item is one entry in the scene's representation-item arena: a tagged
// union over Kind, exactly one of the kind-specific fields populated.
type Item struct {
	ID   ID
	Kind Kind
	Name string

	SweptArea        *SweptArea
	SweptDisk        *SweptDisk
	FaceSet          *FaceSet
	BooleanResult    *BooleanResult
	HalfSpace        *HalfSpace
	WallFace         *WallFace
	RevolvedArea     *RevolvedArea
	PolygonWithHoles *PolygonWithHoles
}

// Scene is the top-level arena: representation items and the openings
// that reference them, both addressed by ID, never by pointer.
type Scene struct {
	items    map[ID]*Item
	openings map[ID]*Opening
	nextID   ID
}

// New returns an empty scene.
func New() *Scene {
	return &Scene{
		items:    make(map[ID]*Item),
		openings: make(map[ID]*Opening),
	}
}

func (s *Scene) allocID() ID {
	id := s.nextID
	s.nextID++
	return id
}

// AddWallFace registers a wall face representation item and returns its ID.
func (s *Scene) AddWallFace(name string, wf WallFace) ID {
	id := s.allocID()
	s.items[id] = &Item{ID: id, Kind: KindWallFace, Name: name, WallFace: &wf}
	return id
}

// AddSweptArea registers a swept-area representation item.
func (s *Scene) AddSweptArea(name string, sa SweptArea) ID {
	id := s.allocID()
	s.items[id] = &Item{ID: id, Kind: KindSweptArea, Name: name, SweptArea: &sa}
	return id
}

// AddSweptDisk registers a swept-disk representation item.
func (s *Scene) AddSweptDisk(name string, sd SweptDisk) ID {
	id := s.allocID()
	s.items[id] = &Item{ID: id, Kind: KindSweptDisk, Name: name, SweptDisk: &sd}
	return id
}

// AddFaceSet registers an explicit face-set representation item.
func (s *Scene) AddFaceSet(name string, fs FaceSet) ID {
	id := s.allocID()
	s.items[id] = &Item{ID: id, Kind: KindFaceSet, Name: name, FaceSet: &fs}
	return id
}

// AddBooleanResult registers a boolean combination of two existing items.
func (s *Scene) AddBooleanResult(name string, br BooleanResult) ID {
	id := s.allocID()
	s.items[id] = &Item{ID: id, Kind: KindBooleanResult, Name: name, BooleanResult: &br}
	return id
}

// AddHalfSpace registers a half-space representation item.
func (s *Scene) AddHalfSpace(name string, hs HalfSpace) ID {
	id := s.allocID()
	s.items[id] = &Item{ID: id, Kind: KindHalfSpace, Name: name, HalfSpace: &hs}
	return id
}

// AddRevolvedArea registers a revolved-area representation item.
func (s *Scene) AddRevolvedArea(name string, ra RevolvedArea) ID {
	id := s.allocID()
	s.items[id] = &Item{ID: id, Kind: KindRevolvedArea, Name: name, RevolvedArea: &ra}
	return id
}

// AddPolygonWithHoles registers a bounded-face representation item.
func (s *Scene) AddPolygonWithHoles(name string, pf PolygonWithHoles) ID {
	id := s.allocID()
	s.items[id] = &Item{ID: id, Kind: KindPolygonWithHoles, Name: name, PolygonWithHoles: &pf}
	return id
}

// AddOpening registers an opening and links it to hostWall's item,
// which must already be a WallFace.
func (s *Scene) AddOpening(op Opening) (ID, error) {
	host, ok := s.items[op.HostWall]
	if !ok || host.Kind != KindWallFace {
		return -1, fmt.Errorf("scene: host wall %d is not a registered wall face", op.HostWall)
	}
	id := s.allocID()
	s.openings[id] = &op
	host.WallFace.Openings = append(host.WallFace.Openings, id)
	return id, nil
}

// Item returns the representation item with the given ID, or nil.
func (s *Scene) Item(id ID) *Item {
	return s.items[id]
}

// Opening returns the opening with the given ID, or nil.
func (s *Scene) Opening(id ID) *Opening {
	return s.openings[id]
}

// Items returns every representation item, in no particular order.
func (s *Scene) Items() []*Item {
	items := make([]*Item, 0, len(s.items))
	for _, it := range s.items {
		items = append(items, it)
	}
	return items
}

// ResolveOpenings converts a wall face's opening IDs into the
// pkg/contour.Opening arena pkg/openings expects. Each resolved
// opening's Tag is set to its scene ID so SyncWallPoints can find its
// way back regardless of the driver's own internal reordering.
func (s *Scene) ResolveOpenings(wf *WallFace) []contour.Opening {
	resolved := make([]contour.Opening, 0, len(wf.Openings))
	for _, id := range wf.Openings {
		if op := s.openings[id]; op != nil && op.Profile != nil {
			o := *op.Profile
			o.Tag = int(id)
			resolved = append(resolved, o)
		}
	}
	return resolved
}

// SyncWallPoints writes WallPoints from a resolved openings slice (as
// passed to pkg/openings.GenerateOpenings and possibly mutated by
// pkg/jamb) back into the scene's own opening arena, matched by Tag
// rather than position -- GenerateOpenings reorders its input by
// reference-point distance before processing, so position alone
// cannot be trusted across the call boundary.
func (s *Scene) SyncWallPoints(resolved []contour.Opening) {
	for _, r := range resolved {
		id := ID(r.Tag)
		if op := s.openings[id]; op != nil && op.Profile != nil {
			op.Profile.WallPoints = r.WallPoints
		}
	}
}
