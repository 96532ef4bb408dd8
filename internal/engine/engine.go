// Package engine composes the spatial index, floor sampler, collision
// registry, and placement searcher behind the query surface the interactive
// layer calls. One Engine value is owned per session and passed to every
// collaborator; there is no process-wide instance. Every method is
// synchronous and runs to completion on the caller's goroutine.
package engine

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"placement-engine/internal/collision"
	"placement-engine/internal/engineconfig"
	"placement-engine/internal/placement"
	"placement-engine/internal/scene"
	"placement-engine/internal/spatial"
)

// Engine answers collision, floor-height, and placement queries over one
// background surface and the registered furniture boxes.
type Engine struct {
	cfg    engineconfig.Config
	bg     *scene.Background
	floor  *scene.FloorSampler
	reg    *collision.Registry
	search *placement.Searcher
}

// New returns an engine with no background and no furniture. It is fully
// usable in that state: height queries report absence and placements fall
// back to the origin.
func New(cfg engineconfig.Config) *Engine {
	index := spatial.NewIndex(cfg.SpatialCellSize)
	reg := collision.NewRegistry(index, cfg.ThrottleWindow(), cfg.BoundsTolerance, cfg.MaxOutsideDistance)
	return &Engine{
		cfg:    cfg,
		reg:    reg,
		search: placement.NewSearcher(reg, cfg.PlacementPadding, cfg.PlacementGap, cfg.FloorClearance, cfg.StackClearance),
	}
}

// SetBackground replaces the active surface and rebuilds all derived state:
// the floor grid is resampled, the registry bounds are re-armed, and every
// cached collision result is dropped. Called once per uploaded scan.
func (e *Engine) SetBackground(bg *scene.Background) {
	e.bg = bg
	e.floor = scene.NewFloorSampler(bg, e.cfg.FloorCellSize, e.cfg.FloorPercentile)
	if bg != nil {
		e.reg.SetBounds(bg.Bounds, true)
	} else {
		e.reg.SetBounds(rl.BoundingBox{}, false)
	}
	e.reg.InvalidateAll()
	e.search.SetBackground(bg, e.floor)
}

// GetFloorHeight returns the global default floor elevation. ok is false
// when no background is loaded or the scan is degenerate.
func (e *Engine) GetFloorHeight() (float32, bool) {
	if e.floor == nil {
		return 0, false
	}
	return e.floor.DefaultHeight()
}

// HeightAt returns the walkable elevation under (x,z); backs live floor
// snapping during drags.
func (e *Engine) HeightAt(x, z float32) (float32, bool) {
	if e.floor == nil {
		return 0, false
	}
	return e.floor.HeightAt(x, z)
}

// GetBackgroundBounds returns the active surface's world bounds.
func (e *Engine) GetBackgroundBounds() (rl.BoundingBox, bool) {
	if e.bg == nil {
		return rl.BoundingBox{}, false
	}
	return e.bg.Bounds, true
}

// GetBackgroundCenter returns the center of the active surface's bounds.
func (e *Engine) GetBackgroundCenter() (rl.Vector3, bool) {
	if e.bg == nil {
		return rl.Vector3{}, false
	}
	return e.bg.Center(), true
}

// Register stores box under id (insert-or-replace). Call whenever the owning
// item is created, moved, rotated, or scaled.
func (e *Engine) Register(id string, box rl.BoundingBox) {
	e.reg.Register(id, box)
}

// Unregister removes id; unknown ids are a no-op.
func (e *Engine) Unregister(id string) {
	e.reg.Unregister(id)
}

// CheckCollision is the throttled per-frame collision check used for live
// drag feedback.
func (e *Engine) CheckCollision(id string, box rl.BoundingBox) bool {
	return e.reg.CheckCollision(id, box)
}

// CheckCollisionFull is the authoritative end-of-drag check, including the
// background boundary test.
func (e *Engine) CheckCollisionFull(id string, box rl.BoundingBox) bool {
	return e.reg.CheckCollisionFull(id, box)
}

// FindValidPosition places outside the background's footprint (legacy
// strategy).
func (e *Engine) FindValidPosition(size rl.Vector3) rl.Vector3 {
	return e.search.FindValidPosition(size)
}

// FindValidPositionInside places within the scanned volume, anchored at the
// background's centroid (primary strategy).
func (e *Engine) FindValidPositionInside(size rl.Vector3) rl.Vector3 {
	return e.search.FindValidPositionInside(size)
}
