// Package collision owns the authoritative furniture id → bounding box
// mapping and every collision query against it. Mutations go through the
// spatial index so broad-phase state never drifts from the registry, and a
// small per-id cache keeps the per-frame drag check bounded. Colliding moves
// are rejected by callers, never resolved; there is no impulse or velocity
// here.
package collision

import (
	"time"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"

	"placement-engine/internal/spatial"
)

// DefaultThrottleWindow is one frame at 60 Hz: a cached collision result
// younger than this is returned as-is during continuous dragging.
const DefaultThrottleWindow = 16 * time.Millisecond

// DefaultBoundsTolerance expands the background bounds before the
// center-containment test in CheckCollisionFull.
const DefaultBoundsTolerance = 0.1

// DefaultMaxOutsideDistance is how far a box center may sit outside the
// expanded background bounds before the placement is rejected outright.
const DefaultMaxOutsideDistance = 2.0

// cacheEntry memoizes one collision result for the throttle window.
type cacheEntry struct {
	result bool
	when   time.Time
}

// Registry is the single source of truth for live furniture boxes. The
// spatial index and the box store are mutated together on every call; the
// cache layer only ever affects CheckCollision.
type Registry struct {
	index *spatial.Index
	boxes map[string]rl.BoundingBox
	cache map[string]cacheEntry

	throttle   time.Duration
	boundsTol  float32
	maxOutside float32

	bounds    rl.BoundingBox
	hasBounds bool

	now func() time.Time // swapped out in tests
}

// NewRegistry returns an empty registry backed by index. A non-positive
// throttle falls back to DefaultThrottleWindow.
func NewRegistry(index *spatial.Index, throttle time.Duration, boundsTol, maxOutside float32) *Registry {
	if throttle <= 0 {
		throttle = DefaultThrottleWindow
	}
	if boundsTol <= 0 {
		boundsTol = DefaultBoundsTolerance
	}
	if maxOutside <= 0 {
		maxOutside = DefaultMaxOutsideDistance
	}
	return &Registry{
		index:      index,
		boxes:      make(map[string]rl.BoundingBox),
		cache:      make(map[string]cacheEntry),
		throttle:   throttle,
		boundsTol:  boundsTol,
		maxOutside: maxOutside,
		now:        time.Now,
	}
}

// SetBounds installs the active background bounds used by
// CheckCollisionFull. Call with ok=false when no background is loaded.
func (r *Registry) SetBounds(bounds rl.BoundingBox, ok bool) {
	r.bounds = bounds
	r.hasBounds = ok
}

// Register stores box under id (insert-or-replace), inserts it into the
// spatial index, and dirties the cache for id plus every id bucketed near the
// old and new positions.
func (r *Registry) Register(id string, box rl.BoundingBox) {
	if old, ok := r.boxes[id]; ok {
		r.invalidateArea(old)
	}
	r.boxes[id] = box
	r.index.Insert(id, box)
	r.invalidateArea(box)
	delete(r.cache, id)
}

// Unregister removes id from storage, spatial index, and cache. Unknown ids
// are a no-op.
func (r *Registry) Unregister(id string) {
	box, ok := r.boxes[id]
	if !ok {
		return
	}
	delete(r.boxes, id)
	r.index.Remove(id)
	r.invalidateArea(box)
	delete(r.cache, id)
}

// invalidateArea drops cached results for every id whose cell range overlaps
// box. Adjacency comes from a spatial-index query at invalidation time rather
// than a tracked neighbor graph.
func (r *Registry) invalidateArea(box rl.BoundingBox) {
	for id := range r.index.Query(box, "") {
		delete(r.cache, id)
	}
}

// InvalidateAll clears the collision cache. Must run whenever the background
// surface is replaced; cached results never survive a background change.
func (r *Registry) InvalidateAll() {
	clear(r.cache)
}

// Box returns the stored box for id.
func (r *Registry) Box(id string) (rl.BoundingBox, bool) {
	box, ok := r.boxes[id]
	return box, ok
}

// Count returns the number of registered furniture items.
func (r *Registry) Count() int {
	return len(r.boxes)
}

// IDs returns all registered ids in no particular order.
func (r *Registry) IDs() []string {
	out := make([]string, 0, len(r.boxes))
	for id := range r.boxes {
		out = append(out, id)
	}
	return out
}

// MaxTopY returns the highest top face among registered boxes.
func (r *Registry) MaxTopY() (float32, bool) {
	var top float32
	found := false
	for _, box := range r.boxes {
		if !found || box.Max.Y > top {
			top = box.Max.Y
			found = true
		}
	}
	return top, found
}

// MaxFootprint returns the largest horizontal extent (x or z) among
// registered boxes. Zero when the registry is empty.
func (r *Registry) MaxFootprint() float32 {
	var widest float32
	for _, box := range r.boxes {
		widest = math32.Max(widest, box.Max.X-box.Min.X)
		widest = math32.Max(widest, box.Max.Z-box.Min.Z)
	}
	return widest
}

// Collides reports whether box exactly intersects any registered box other
// than exclude. Broad-phase candidates come from the spatial index; each is
// confirmed with the strict AABB test.
func (r *Registry) Collides(box rl.BoundingBox, exclude string) bool {
	for id := range r.index.Query(box, exclude) {
		if other, ok := r.boxes[id]; ok && boxesOverlap(box, other) {
			return true
		}
	}
	return false
}

// CheckCollision is the throttled per-frame check: a cached result for id
// younger than the throttle window is returned without touching the index.
// The staleness is advisory only; Register and Unregister always invalidate
// first, so the throttle never hides a mutation of the same id.
func (r *Registry) CheckCollision(id string, box rl.BoundingBox) bool {
	now := r.now()
	if e, ok := r.cache[id]; ok && now.Sub(e.when) < r.throttle {
		return e.result
	}
	result := r.Collides(box, id)
	r.cache[id] = cacheEntry{result: result, when: now}
	return result
}

// CheckCollisionFull is the unthrottled end-of-drag check. Beyond exact
// furniture overlap it rejects boxes whose center sits more than
// maxOutside units away from the tolerance-expanded background bounds;
// centers within that distance pass, giving soft tolerance near boundaries.
func (r *Registry) CheckCollisionFull(id string, box rl.BoundingBox) bool {
	if r.Collides(box, id) {
		return true
	}
	if !r.hasBounds {
		return false
	}
	center := rl.NewVector3(
		(box.Min.X+box.Max.X)/2,
		(box.Min.Y+box.Max.Y)/2,
		(box.Min.Z+box.Max.Z)/2,
	)
	return r.outsideDistance(center) > r.maxOutside
}

// outsideDistance returns how far p sits outside the tolerance-expanded
// background bounds; zero when contained.
func (r *Registry) outsideDistance(p rl.Vector3) float32 {
	dx := axisExcess(p.X, r.bounds.Min.X-r.boundsTol, r.bounds.Max.X+r.boundsTol)
	dy := axisExcess(p.Y, r.bounds.Min.Y-r.boundsTol, r.bounds.Max.Y+r.boundsTol)
	dz := axisExcess(p.Z, r.bounds.Min.Z-r.boundsTol, r.bounds.Max.Z+r.boundsTol)
	return math32.Sqrt(dx*dx + dy*dy + dz*dz)
}

func axisExcess(v, min, max float32) float32 {
	if v < min {
		return min - v
	}
	if v > max {
		return v - max
	}
	return 0
}

// boxesOverlap is the exact AABB test: overlap on all three axes, with
// touching faces (zero-width overlap) counting as non-colliding.
func boxesOverlap(a, b rl.BoundingBox) bool {
	overlapX := math32.Min(a.Max.X, b.Max.X) - math32.Max(a.Min.X, b.Min.X)
	overlapY := math32.Min(a.Max.Y, b.Max.Y) - math32.Max(a.Min.Y, b.Min.Y)
	overlapZ := math32.Min(a.Max.Z, b.Max.Z) - math32.Max(a.Min.Z, b.Min.Z)
	return overlapX > 0 && overlapY > 0 && overlapZ > 0
}
