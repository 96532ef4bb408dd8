// Package scene holds the static scanned environment: the background surface
// (triangle mesh or raw point cloud) and the floor-height sampling built on
// top of it. Furniture state lives elsewhere; this package only answers
// geometric questions about the scan.
package scene

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// rayStartClearance lifts downward ray origins above the surface's top so
// the first triangle is never behind the origin.
const rayStartClearance = 1.0

// Background is one scanned room surface. Indices index into Vertices as
// triangles; an empty index buffer means the scan is an unstructured point
// cloud that ray casts cannot hit reliably.
type Background struct {
	Vertices []rl.Vector3
	Indices  []int32
	Bounds   rl.BoundingBox
}

// NewBackground wraps a loaded mesh or point cloud and computes its bounds.
// The caller (the mesh-loading collaborator) owns parsing; vertices are world
// space already.
func NewBackground(vertices []rl.Vector3, indices []int32) *Background {
	bg := &Background{Vertices: vertices, Indices: indices}
	bg.Bounds = boundsOf(vertices)
	return bg
}

func boundsOf(vertices []rl.Vector3) rl.BoundingBox {
	if len(vertices) == 0 {
		return rl.NewBoundingBox(rl.NewVector3(0, 0, 0), rl.NewVector3(0, 0, 0))
	}
	min := vertices[0]
	max := vertices[0]
	for _, v := range vertices[1:] {
		if v.X < min.X {
			min.X = v.X
		}
		if v.Y < min.Y {
			min.Y = v.Y
		}
		if v.Z < min.Z {
			min.Z = v.Z
		}
		if v.X > max.X {
			max.X = v.X
		}
		if v.Y > max.Y {
			max.Y = v.Y
		}
		if v.Z > max.Z {
			max.Z = v.Z
		}
	}
	return rl.NewBoundingBox(min, max)
}

// HasFaces reports whether the scan carries a usable triangle index buffer.
func (b *Background) HasFaces() bool {
	return len(b.Indices) >= 3
}

// Center returns the center of the surface's bounds.
func (b *Background) Center() rl.Vector3 {
	return rl.NewVector3(
		(b.Bounds.Min.X+b.Bounds.Max.X)/2,
		(b.Bounds.Min.Y+b.Bounds.Max.Y)/2,
		(b.Bounds.Min.Z+b.Bounds.Max.Z)/2,
	)
}

// Size returns the extent of the surface's bounds on each axis.
func (b *Background) Size() rl.Vector3 {
	return rl.NewVector3(
		b.Bounds.Max.X-b.Bounds.Min.X,
		b.Bounds.Max.Y-b.Bounds.Min.Y,
		b.Bounds.Max.Z-b.Bounds.Min.Z,
	)
}

// RaycastDown casts a vertical ray from above the surface's top at (x,z) and
// returns the Y of the nearest triangle hit. Point clouds and misses report
// no hit.
func (b *Background) RaycastDown(x, z float32) (float32, bool) {
	if !b.HasFaces() {
		return 0, false
	}
	ray := rl.NewRay(
		rl.NewVector3(x, b.Bounds.Max.Y+rayStartClearance, z),
		rl.NewVector3(0, -1, 0),
	)
	var bestY float32
	var bestDist float32
	hit := false
	for i := 0; i+2 < len(b.Indices); i += 3 {
		v0 := b.Vertices[b.Indices[i]]
		v1 := b.Vertices[b.Indices[i+1]]
		v2 := b.Vertices[b.Indices[i+2]]
		col := rl.GetRayCollisionTriangle(ray, v0, v1, v2)
		if !col.Hit {
			continue
		}
		if !hit || col.Distance < bestDist {
			hit = true
			bestDist = col.Distance
			bestY = col.Point.Y
		}
	}
	return bestY, hit
}

// MinVertexY returns the lowest vertex elevation. Used as the floor estimate
// for point-cloud scans, where the lowest points are the floor itself.
func (b *Background) MinVertexY() (float32, bool) {
	if len(b.Vertices) == 0 {
		return 0, false
	}
	min := b.Vertices[0].Y
	for _, v := range b.Vertices[1:] {
		if v.Y < min {
			min = v.Y
		}
	}
	return min, true
}
