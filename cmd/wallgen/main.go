// Command wallgen is a small demo driver for the opening-generation
// pipeline: it builds a couple of wall faces with window/door cutouts
// directly against pkg/scene, tessellates them, and prints mesh stats.
package main

import (
	"flag"
	"log"

	"github.com/chazu/wallgen/pkg/contour"
	"github.com/chazu/wallgen/pkg/geom"
	"github.com/chazu/wallgen/pkg/kernel/sdfx"
	"github.com/chazu/wallgen/pkg/meshbuf"
	"github.com/chazu/wallgen/pkg/openings"
	"github.com/chazu/wallgen/pkg/scene"
	"github.com/chazu/wallgen/pkg/tessellate"
)

func main() {
	scenario := flag.String("scenario", "centered-window", "centered-window | two-openings")
	flag.Parse()

	s := scene.New()

	switch *scenario {
	case "two-openings":
		buildTwoOpenings(s)
	default:
		buildCenteredWindow(s)
	}

	k := sdfx.New()
	outputs, err := tessellate.Tessellate(s, k, openings.Config{
		CheckIntersection:          true,
		GenerateConnectionGeometry: true,
	})
	if err != nil {
		log.Fatalf("tessellate: %v", err)
	}

	for _, out := range outputs {
		log.Printf("%-12s %-6s faces=%d verts=%d", out.Name, out.Kind, out.Mesh.NumFaces(), len(out.Mesh.Verts))
	}
}

// buildCenteredWindow wires a single rectangular wall face with one
// centered window cutout (spec scenario S2).
func buildCenteredWindow(s *scene.Scene) {
	wallOutline := []geom.Vec3{
		{0, 0, 0},
		{4000, 0, 0},
		{4000, 0, 2700},
		{0, 0, 2700},
	}
	wallID := s.AddWallFace("wall-1", scene.WallFace{Outline: wallOutline})

	window := rectangularOpening(1400, 750, 1200, 1200, 0, 100, 0)
	if _, err := s.AddOpening(scene.Opening{Profile: &window, HostWall: wallID}); err != nil {
		log.Fatalf("add opening: %v", err)
	}
}

// buildTwoOpenings wires a wall face with two openings close enough
// together that their projections merge into one contour (spec
// scenario S4).
func buildTwoOpenings(s *scene.Scene) {
	wallOutline := []geom.Vec3{
		{0, 0, 0},
		{6000, 0, 0},
		{6000, 0, 2700},
		{0, 0, 2700},
	}
	wallID := s.AddWallFace("wall-1", scene.WallFace{Outline: wallOutline})

	winA := rectangularOpening(1000, 900, 900, 900, 0, 100, 0)
	winB := rectangularOpening(1500, 1500, 900, 900, 0, 100, 0)
	if _, err := s.AddOpening(scene.Opening{Profile: &winA, HostWall: wallID}); err != nil {
		log.Fatalf("add opening: %v", err)
	}
	if _, err := s.AddOpening(scene.Opening{Profile: &winB, HostWall: wallID}); err != nil {
		log.Fatalf("add opening: %v", err)
	}
}

// rectangularOpening builds a contour.Opening for an axis-aligned box
// cutout: x0,z0 is the sill's bottom-left corner in the wall plane (y
// is the wall's thickness axis), width/heightZ its extent, and
// extrusion direction dx,dy,dz the direction it was swept through the
// wall.
func rectangularOpening(x0, z0, width, heightZ, dx, dy, dz float64) contour.Opening {
	near := []geom.Vec3{
		{x0, 0, z0},
		{x0 + width, 0, z0},
		{x0 + width, 0, z0 + heightZ},
		{x0, 0, z0 + heightZ},
	}
	dir := geom.Vec3{dx, dy, dz}
	far := make([]geom.Vec3, len(near))
	for i, v := range near {
		far[i] = v.Add(dir)
	}

	profile := meshbuf.New()
	profile.AddFace(near[3], near[2], near[1], near[0])
	profile.AddFace(far...)
	for i := 0; i < 4; i++ {
		j := (i + 1) % 4
		profile.AddFace(near[i], near[j], far[j], far[i])
	}

	return contour.Opening{ExtrusionDir: dir, Profile: profile}
}
