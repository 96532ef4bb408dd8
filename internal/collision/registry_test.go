package collision

import (
	"testing"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"placement-engine/internal/spatial"
)

func box(minX, minY, minZ, maxX, maxY, maxZ float32) rl.BoundingBox {
	return rl.NewBoundingBox(rl.NewVector3(minX, minY, minZ), rl.NewVector3(maxX, maxY, maxZ))
}

func newTestRegistry() *Registry {
	return NewRegistry(spatial.NewIndex(2.0), DefaultThrottleWindow, DefaultBoundsTolerance, DefaultMaxOutsideDistance)
}

func TestBoxesOverlap(t *testing.T) {
	tests := []struct {
		name string
		a, b rl.BoundingBox
		want bool
	}{
		{"overlapping", box(0, 0, 0, 2, 2, 2), box(1, 1, 1, 3, 3, 3), true},
		{"separate", box(0, 0, 0, 1, 1, 1), box(5, 0, 0, 6, 1, 1), false},
		{"touching faces", box(0, 0, 0, 1, 1, 1), box(1, 0, 0, 2, 1, 1), false},
		{"touching edges", box(0, 0, 0, 1, 1, 1), box(1, 1, 0, 2, 2, 1), false},
		{"xz overlap only", box(0, 0, 0, 2, 1, 2), box(0, 5, 0, 2, 6, 2), false},
		{"contained", box(0, 0, 0, 10, 10, 10), box(4, 4, 4, 5, 5, 5), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := boxesOverlap(tt.a, tt.b); got != tt.want {
				t.Errorf("boxesOverlap = %v, want %v", got, tt.want)
			}
			if got := boxesOverlap(tt.b, tt.a); got != tt.want {
				t.Errorf("boxesOverlap reversed = %v, want %v", got, tt.want)
			}
		})
	}
}

// The ids known to the registry must equal the ids discoverable through the
// spatial index after any register/unregister sequence.
func TestRegistryIndexSync(t *testing.T) {
	ix := spatial.NewIndex(2.0)
	r := NewRegistry(ix, DefaultThrottleWindow, DefaultBoundsTolerance, DefaultMaxOutsideDistance)

	r.Register("a", box(0, 0, 0, 1, 1, 1))
	r.Register("b", box(3, 0, 3, 4, 1, 4))
	r.Register("a", box(8, 0, 8, 9, 1, 9)) // move
	r.Register("c", box(-4, 0, -4, -3, 1, -3))
	r.Unregister("b")
	r.Unregister("ghost") // no-op

	world := box(-100, -100, -100, 100, 100, 100)
	fromIndex := ix.Query(world, "")
	if len(fromIndex) != r.Count() {
		t.Fatalf("index has %d ids, registry has %d", len(fromIndex), r.Count())
	}
	for _, id := range r.IDs() {
		if _, ok := fromIndex[id]; !ok {
			t.Errorf("id %s in registry but not discoverable via index", id)
		}
	}
}

func TestCollides(t *testing.T) {
	r := newTestRegistry()
	r.Register("a", box(0, 0, 0, 2, 2, 2))

	if !r.Collides(box(1, 1, 1, 3, 3, 3), "") {
		t.Error("expected collision with a")
	}
	if r.Collides(box(1, 1, 1, 3, 3, 3), "a") {
		t.Error("exclusion of a should remove the collision")
	}
	if r.Collides(box(10, 0, 10, 11, 1, 11), "") {
		t.Error("expected no collision far away")
	}
}

func TestCheckCollisionThrottle(t *testing.T) {
	r := newTestRegistry()
	now := time.Unix(1000, 0)
	r.now = func() time.Time { return now }

	r.Register("a", box(0, 0, 0, 1, 1, 1))
	// b is far from a, so registering it does not dirty a's cache.
	r.Register("b", box(50, 0, 50, 51, 1, 51))

	if r.CheckCollision("a", box(0, 0, 0, 1, 1, 1)) {
		t.Fatal("a alone should not collide")
	}

	// Within the window the cached result is returned even for a box that
	// now overlaps b: bounded staleness during a drag.
	now = now.Add(5 * time.Millisecond)
	if r.CheckCollision("a", box(50, 0, 50, 51, 1, 51)) {
		t.Error("expected stale cached result inside throttle window")
	}

	// Past the window the same query recomputes.
	now = now.Add(DefaultThrottleWindow)
	if !r.CheckCollision("a", box(50, 0, 50, 51, 1, 51)) {
		t.Error("expected recomputed collision outside throttle window")
	}
}

func TestRegisterInvalidatesThrottle(t *testing.T) {
	r := newTestRegistry()
	now := time.Unix(1000, 0)
	r.now = func() time.Time { return now }

	probe := box(0, 0, 0, 1, 1, 1)
	r.Register("a", probe)
	if r.CheckCollision("a", probe) {
		t.Fatal("a alone should not collide")
	}

	// Registering an overlapping neighbor dirties a's cache, so the next
	// check recomputes immediately even inside the window.
	r.Register("b", box(0.5, 0, 0.5, 1.5, 1, 1.5))
	now = now.Add(time.Millisecond)
	if !r.CheckCollision("a", probe) {
		t.Error("expected collision right after neighbor registration")
	}

	r.Unregister("b")
	now = now.Add(time.Millisecond)
	if r.CheckCollision("a", probe) {
		t.Error("expected no collision right after neighbor removal")
	}
}

func TestCheckCollisionFullBounds(t *testing.T) {
	r := newTestRegistry()
	r.SetBounds(box(0, 0, 0, 10, 3, 10), true)

	tests := []struct {
		name string
		b    rl.BoundingBox
		want bool
	}{
		{"inside", box(4, 0, 4, 5, 1, 5), false},
		{"one unit outside", box(10.5, 0, 4, 11.5, 1, 5), false},
		{"five units outside", box(14.5, 0, 4, 15.5, 1, 5), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.CheckCollisionFull("x", tt.b); got != tt.want {
				t.Errorf("CheckCollisionFull = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCheckCollisionFullNoBounds(t *testing.T) {
	r := newTestRegistry()
	if r.CheckCollisionFull("x", box(1000, 0, 1000, 1001, 1, 1001)) {
		t.Error("no background loaded: distance must not be checked")
	}
}

func TestCheckCollisionFullOverlap(t *testing.T) {
	r := newTestRegistry()
	r.SetBounds(box(0, 0, 0, 10, 3, 10), true)
	r.Register("a", box(4, 0, 4, 6, 2, 6))
	if !r.CheckCollisionFull("b", box(5, 0, 5, 7, 1, 7)) {
		t.Error("expected overlap to be reported regardless of bounds")
	}
}

func TestMaxTopYAndFootprint(t *testing.T) {
	r := newTestRegistry()
	if _, ok := r.MaxTopY(); ok {
		t.Error("empty registry should have no top")
	}
	if r.MaxFootprint() != 0 {
		t.Error("empty registry should have zero footprint")
	}

	r.Register("a", box(0, 0, 0, 1, 2, 1))
	r.Register("b", box(3, 0, 3, 8, 1, 4))
	if top, ok := r.MaxTopY(); !ok || top != 2 {
		t.Errorf("MaxTopY = %v,%v, want 2,true", top, ok)
	}
	if got := r.MaxFootprint(); got != 5 {
		t.Errorf("MaxFootprint = %v, want 5", got)
	}
}

func TestInvalidateAll(t *testing.T) {
	r := newTestRegistry()
	now := time.Unix(1000, 0)
	r.now = func() time.Time { return now }

	r.Register("a", box(0, 0, 0, 1, 1, 1))
	r.Register("b", box(50, 0, 50, 51, 1, 51))
	if r.CheckCollision("a", box(0, 0, 0, 1, 1, 1)) {
		t.Fatal("a alone should not collide")
	}

	// Background swap: the cache must not survive.
	r.InvalidateAll()
	now = now.Add(time.Millisecond)
	if !r.CheckCollision("a", box(50, 0, 50, 51, 1, 51)) {
		t.Error("expected recompute after InvalidateAll")
	}
}
