// Package roomgen builds synthetic scanned rooms for the demo driver and
// tests. A room is modeled as an open-top shell (floor slab plus four walls)
// with SDF solids and tessellated with marching cubes, which gives the
// slightly irregular triangulation a real scan would have. The engine itself
// never generates geometry; real sessions get their background from the
// mesh-loading collaborator.
package roomgen

import (
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// RoomOptions controls synthetic room generation. Width/Depth/Height are the
// interior extents in world units; WallThickness is the slab and wall
// thickness. MeshCells is the marching cubes resolution along the longest
// axis.
type RoomOptions struct {
	Width         float32
	Depth         float32
	Height        float32
	WallThickness float32
	MeshCells     int
}

// DefaultRoomOptions returns a living-room-sized shell.
func DefaultRoomOptions() RoomOptions {
	return RoomOptions{
		Width:         8,
		Depth:         6,
		Height:        2.6,
		WallThickness: 0.2,
		MeshCells:     64,
	}
}

// Mesh is a triangle soup in the layout the scene package consumes: three
// sequential indices per triangle.
type Mesh struct {
	Vertices []rl.Vector3
	Indices  []int32
}

// GenerateRoom tessellates an open-top room shell. The interior floor's top
// surface sits at Y=0 and the interior is centered on the origin in XZ.
func GenerateRoom(opts RoomOptions) Mesh {
	if opts.Width <= 0 || opts.Depth <= 0 || opts.Height <= 0 {
		opts = DefaultRoomOptions()
	}
	if opts.WallThickness <= 0 {
		opts.WallThickness = 0.2
	}
	if opts.MeshCells <= 0 {
		opts.MeshCells = 64
	}

	w := float64(opts.Width)
	d := float64(opts.Depth)
	h := float64(opts.Height)
	t := float64(opts.WallThickness)

	// Outer shell spans Y in [-t, h]; the inner cut starts at the floor
	// surface (Y=0) and extends past the top so the roof stays open.
	outer, err := sdf.Box3D(v3.Vec{X: w + 2*t, Y: h + t, Z: d + 2*t}, 0)
	if err != nil {
		return Mesh{}
	}
	outer = sdf.Transform3D(outer, sdf.Translate3d(v3.Vec{Y: (h - t) / 2}))

	inner, err := sdf.Box3D(v3.Vec{X: w, Y: h + 2*t, Z: d}, 0)
	if err != nil {
		return Mesh{}
	}
	inner = sdf.Transform3D(inner, sdf.Translate3d(v3.Vec{Y: (h + 2*t) / 2}))

	shell := sdf.Difference3D(outer, inner)
	return tessellate(shell, opts.MeshCells)
}

// GeneratePointCloud returns the same room as an unstructured point cloud:
// the tessellation's vertices with no index buffer, mimicking a raw scan
// that carries no faces.
func GeneratePointCloud(opts RoomOptions) Mesh {
	m := GenerateRoom(opts)
	return Mesh{Vertices: m.Vertices}
}

// tessellate runs marching cubes and flattens the triangles into the
// vertex/index layout the scene package consumes.
func tessellate(s sdf.SDF3, cells int) Mesh {
	renderer := render.NewMarchingCubesUniform(cells)
	triangles := render.ToTriangles(s, renderer)

	m := Mesh{
		Vertices: make([]rl.Vector3, 0, len(triangles)*3),
		Indices:  make([]int32, 0, len(triangles)*3),
	}
	for i, tri := range triangles {
		for j := 0; j < 3; j++ {
			v := tri[j]
			m.Vertices = append(m.Vertices, rl.NewVector3(float32(v.X), float32(v.Y), float32(v.Z)))
			m.Indices = append(m.Indices, int32(i*3+j))
		}
	}
	return m
}
