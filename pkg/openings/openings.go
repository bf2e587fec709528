// Package openings is the driver of spec §4.J: it runs a wall face's
// openings through projection, merge, tiling (or triangulation
// fallback), contour reinjection, and outer-contour clipping, and
// appends the result onto a caller-owned mesh.
package openings

import (
	"log"
	"sort"

	"github.com/chazu/wallgen/pkg/contour"
	"github.com/chazu/wallgen/pkg/geom"
	"github.com/chazu/wallgen/pkg/jamb"
	"github.com/chazu/wallgen/pkg/meshbuf"
	"github.com/chazu/wallgen/pkg/outerclip"
	"github.com/chazu/wallgen/pkg/quadrify"
	"github.com/chazu/wallgen/pkg/reinject"
	"github.com/chazu/wallgen/pkg/tritess"
)

// Config toggles the optional stages of the pipeline, mirroring the
// three flags spec §6 lists as configuration inputs.
type Config struct {
	// CheckIntersection runs the opening/wall plane-range test in
	// pkg/contour; disabling it is a caller promise that every opening
	// already intersects this face, skipping the defensive recheck.
	CheckIntersection bool
	// GenerateConnectionGeometry runs pkg/jamb once both wall faces of
	// an opening have been processed, closing the reveal between them.
	GenerateConnectionGeometry bool
	// UseCustomTriangulation forces the pkg/tritess fallback path even
	// when the merge pass produced a quadrify-friendly result.
	UseCustomTriangulation bool
}

// DefaultConfig matches spec defaults: intersection checks on,
// connection geometry and forced triangulation off.
func DefaultConfig() Config {
	return Config{CheckIntersection: true}
}

// WallFace is one planar face of a wall solid, with the openings that
// pierce it already identified (spec §3). Openings is the shared arena
// this face's contours index into; pkg/jamb mutates WallPoints on its
// elements in place across calls for the opposite face.
type WallFace struct {
	Outline  []geom.Vec3
	Openings []contour.Opening
}

// GenerateOpenings runs the full pipeline of spec §4.J for one wall
// face, appending the emitted faces onto mesh. On any per-face failure
// it restores mesh to its pre-call state and returns false, matching
// the state machine of spec §4.J/§7; per-opening failures are silent
// skips handled inside pkg/contour and never reach this return value.
func GenerateOpenings(cfg Config, face WallFace, mesh *meshbuf.Mesh) bool {
	preFaceCount := mesh.NumFaces()
	preVertCount := len(mesh.Verts)
	restore := func() {
		mesh.VertCnt = mesh.VertCnt[:preFaceCount]
		mesh.Verts = mesh.Verts[:preVertCount]
	}

	frame, outerContour, ok := geom.ProjectOntoPlane(face.Outline)
	if !ok {
		// Projection failure: face is emitted without openings (spec §7).
		log.Printf("openings: no plane basis for wall face, emitting without openings")
		mesh.AddFace(face.Outline...)
		return true
	}

	sortOpeningsByReference(face.Outline, face.Openings)

	if !cfg.CheckIntersection {
		log.Printf("openings: intersection check disabled, trusting caller-supplied openings list")
	}

	cres, err := contour.Build(frame, face.Openings, cfg.CheckIntersection)
	if err != nil {
		log.Printf("openings: %v", err)
		restore()
		return false
	}

	var faces [][]geom.Vec2

	if cres.NeedsFallback || cfg.UseCustomTriangulation {
		faces, err = triangulateFallback(outerContour, cres.Contours)
		if err != nil {
			log.Printf("openings: triangulation fallback failed: %v", err)
			restore()
			return false
		}
	} else {
		boxes := make([]geom.Box2, len(cres.Contours))
		for i, c := range cres.Contours {
			boxes[i] = c.BB
		}
		for _, q := range quadrify.Tile(boxes) {
			faces = append(faces, boxToPoly(q))
		}
		for _, c := range cres.Contours {
			for _, rf := range reinject.Reinject(c.Contour, c.BB) {
				faces = append(faces, []geom.Vec2(rf))
			}
		}
	}

	clipped, err := outerclip.Clip(outerContour, faces)
	if err != nil {
		log.Printf("openings: outer clip: %v", err)
		restore()
		return false
	}
	if len(clipped) == 0 {
		log.Printf("openings: outer clip produced no faces")
		restore()
		return false
	}

	for _, f := range clipped {
		world := make([]geom.Vec3, len(f))
		for i, p := range f {
			world[i] = frame.Unproject(p)
		}
		mesh.AddFace(world...)
	}

	if cfg.GenerateConnectionGeometry {
		for i, c := range cres.Contours {
			for _, jf := range jamb.Close(frame, c.Contour, face.Openings, cres.ContourOpenings[i]) {
				mesh.AddFace(jf...)
			}
		}
	}

	return true
}

// sortOpeningsByReference orders openings by the distance from each
// opening's own profile's lexicographically smallest vertex to the
// wall outline's own smallest vertex, so a door between two windows
// is processed without disturbing the windows' own merge order (spec
// §4.J).
func sortOpeningsByReference(outline []geom.Vec3, openings []contour.Opening) {
	ref := lexMinVertex(outline)
	sort.SliceStable(openings, func(i, j int) bool {
		di := lexMinVertex(profileVerts(openings[i])).Sub(ref).LenSqr()
		dj := lexMinVertex(profileVerts(openings[j])).Sub(ref).LenSqr()
		return di < dj
	})
}

func profileVerts(op contour.Opening) []geom.Vec3 {
	if op.Profile == nil {
		return nil
	}
	return op.Profile.Verts
}

func lexMinVertex(verts []geom.Vec3) geom.Vec3 {
	if len(verts) == 0 {
		return geom.Vec3{}
	}
	min := verts[0]
	for _, v := range verts[1:] {
		if lexLess(v, min) {
			min = v
		}
	}
	return min
}

func lexLess(a, b geom.Vec3) bool {
	if a[0] != b[0] {
		return a[0] < b[0]
	}
	if a[1] != b[1] {
		return a[1] < b[1]
	}
	return a[2] < b[2]
}

// triangulateFallback triangulates the whole face with a hole for
// every surviving contour (spec §4.H).
func triangulateFallback(outer []geom.Vec2, contours []contour.ProjectedContour) ([][]geom.Vec2, error) {
	holes := make([][]geom.Vec2, len(contours))
	for i, c := range contours {
		holes[i] = c.Contour
	}
	return tritess.Triangulate(outer, holes)
}

func boxToPoly(b geom.Box2) []geom.Vec2 {
	corners := b.Corners()
	return []geom.Vec2{corners[0], corners[1], corners[2], corners[3]}
}
