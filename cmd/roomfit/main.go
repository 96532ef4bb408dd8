package main

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/google/uuid"

	"placement-engine/internal/catalog"
	"placement-engine/internal/engine"
	"placement-engine/internal/engineconfig"
	"placement-engine/internal/logger"
	"placement-engine/internal/roomgen"
	"placement-engine/internal/scene"
)

// boxAround builds a furniture box of the given size centered at pos.
func boxAround(pos, size rl.Vector3) rl.BoundingBox {
	return rl.NewBoundingBox(
		rl.NewVector3(pos.X-size.X/2, pos.Y-size.Y/2, pos.Z-size.Z/2),
		rl.NewVector3(pos.X+size.X/2, pos.Y+size.Y/2, pos.Z+size.Z/2),
	)
}

// translated shifts a box by (dx, dy, dz).
func translated(box rl.BoundingBox, dx, dy, dz float32) rl.BoundingBox {
	return rl.NewBoundingBox(
		rl.NewVector3(box.Min.X+dx, box.Min.Y+dy, box.Min.Z+dz),
		rl.NewVector3(box.Max.X+dx, box.Max.Y+dy, box.Max.Z+dz),
	)
}

func main() {
	log := logger.New()
	cfg, err := engineconfig.Load(engineconfig.EngineConfigPath)
	if err != nil {
		log.Logf("config: %v, using defaults", err)
		cfg = engineconfig.Default()
	}
	eng := engine.New(cfg)

	// Synthetic scan in place of an uploaded PLY/GLB file.
	room := roomgen.GenerateRoom(roomgen.DefaultRoomOptions())
	bg := scene.NewBackground(room.Vertices, room.Indices)
	eng.SetBackground(bg)
	if h, ok := eng.GetFloorHeight(); ok {
		log.Logf("background set: %d triangles, floor height %.3f", len(room.Indices)/3, h)
	} else {
		log.Log("background set: no usable floor samples")
	}

	// Add one of each catalog type the way the lifecycle driver would.
	cat := catalog.New()
	ids := make([]string, 0)
	var firstID string
	var firstBox rl.BoundingBox
	for _, typ := range []string{"sofa", "table", "chair", "bed", "lamp", "shelf"} {
		size := cat.NominalSize(typ)
		pos := eng.FindValidPositionInside(size)
		box := boxAround(pos, size)
		id := uuid.NewString()
		eng.Register(id, box)
		ids = append(ids, id)
		if firstID == "" {
			firstID = id
			firstBox = box
		}
		log.Logf("placed %s %s at (%.2f, %.2f, %.2f)", typ, id[:8], pos.X, pos.Y, pos.Z)
		fmt.Printf("%-6s -> (%6.2f, %5.2f, %6.2f)\n", typ, pos.X, pos.Y, pos.Z)
	}

	// Simulate a drag of the first item: throttled checks plus floor
	// snapping per step, authoritative check at the end, revert on failure.
	lastGood := firstBox
	dragged := firstBox
	for step := 0; step < 10; step++ {
		dragged = translated(dragged, 0.4, 0, 0.1)
		x := (dragged.Min.X + dragged.Max.X) / 2
		z := (dragged.Min.Z + dragged.Max.Z) / 2
		if y, ok := eng.HeightAt(x, z); ok {
			height := dragged.Max.Y - dragged.Min.Y
			dragged.Min.Y = y
			dragged.Max.Y = y + height
		}
		if eng.CheckCollision(firstID, dragged) {
			log.Logf("drag step %d: colliding", step)
		}
	}
	if eng.CheckCollisionFull(firstID, dragged) {
		eng.Register(firstID, lastGood)
		log.Logf("drag end: rejected, reverted %s", firstID[:8])
		fmt.Println("drag end: rejected, reverted")
	} else {
		eng.Register(firstID, dragged)
		log.Logf("drag end: committed %s", firstID[:8])
		fmt.Println("drag end: committed")
	}

	// Delete everything again so the session ends empty.
	for _, id := range ids {
		eng.Unregister(id)
	}
	log.Logf("session done, %d items removed", len(ids))
}
