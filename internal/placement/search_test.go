package placement

import (
	"testing"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"

	"placement-engine/internal/collision"
	"placement-engine/internal/scene"
	"placement-engine/internal/spatial"
)

func box(minX, minY, minZ, maxX, maxY, maxZ float32) rl.BoundingBox {
	return rl.NewBoundingBox(rl.NewVector3(minX, minY, minZ), rl.NewVector3(maxX, maxY, maxZ))
}

func approx(a, b, eps float32) bool {
	return math32.Abs(a-b) <= eps
}

// cloudBackground spans the given corners as a faceless point cloud; the
// searcher only consumes bounds, center, and floor defaults.
func cloudBackground(minX, minY, minZ, maxX, maxY, maxZ float32) *scene.Background {
	return scene.NewBackground([]rl.Vector3{
		{X: minX, Y: minY, Z: minZ},
		{X: maxX, Y: maxY, Z: maxZ},
	}, nil)
}

func newTestSearcher(bg *scene.Background) (*Searcher, *collision.Registry) {
	reg := collision.NewRegistry(spatial.NewIndex(2.0), collision.DefaultThrottleWindow,
		collision.DefaultBoundsTolerance, collision.DefaultMaxOutsideDistance)
	s := NewSearcher(reg, DefaultPadding, DefaultGap, DefaultFloorClearance, DefaultStackClearance)
	if bg != nil {
		s.SetBackground(bg, scene.NewFloorSampler(bg, 1.0, 0.10))
	}
	return s, reg
}

func TestInsideNoBackgroundReturnsOrigin(t *testing.T) {
	s, _ := newTestSearcher(nil)
	got := s.FindValidPositionInside(rl.NewVector3(1, 1, 1))
	if got.X != 0 || got.Y != 0 || got.Z != 0 {
		t.Errorf("FindValidPositionInside without background = %v, want origin", got)
	}
}

func TestOutsideNoBackgroundReturnsOrigin(t *testing.T) {
	s, _ := newTestSearcher(nil)
	got := s.FindValidPosition(rl.NewVector3(1, 1, 1))
	if got.X != 0 || got.Y != 0 || got.Z != 0 {
		t.Errorf("FindValidPosition without background = %v, want origin", got)
	}
}

func TestInsideEmptySceneUsesCentroid(t *testing.T) {
	bg := cloudBackground(-6, 0, -6, 6, 3, 6)
	s, _ := newTestSearcher(bg)
	got := s.FindValidPositionInside(rl.NewVector3(1, 1, 1))
	if !approx(got.X, 0, 1e-6) || !approx(got.Y, 0.5, 1e-6) || !approx(got.Z, 0, 1e-6) {
		t.Errorf("got %v, want centroid at floor (0, 0.5, 0)", got)
	}
}

// A large occupant covering the centroid must push the placement onto an
// early ring, clear of the occupant.
func TestInsideRingEscapesLargeOccupant(t *testing.T) {
	bg := cloudBackground(-6, 0, -6, 6, 3, 6)
	s, reg := newTestSearcher(bg)
	occupant := box(-5, 0, -5, 5, 2, 5)
	reg.Register("big", occupant)

	size := rl.NewVector3(1, 1, 1)
	got := s.FindValidPositionInside(size)

	placed := box(got.X-0.5, got.Y-0.5, got.Z-0.5, got.X+0.5, got.Y+0.5, got.Z+0.5)
	if reg.Collides(placed, "") {
		t.Fatalf("returned position %v still overlaps the occupant", got)
	}
	// Ring spacing adapts to the occupant: (10+1)/2 + 0.8 per ring. The
	// first ring candidate at angle 0 is already clear.
	wantX := (10+1)/2.0 + 0.8
	if !approx(got.X, float32(wantX), 1e-3) || !approx(got.Z, 0, 1e-3) {
		t.Errorf("got %v, want ring-1 candidate at (%.2f, y, 0)", got, wantX)
	}
	if s.evals > 26 {
		t.Errorf("search used %d evaluations, budget is 26", s.evals)
	}
}

// Even with everything occupied the search terminates inside its budget and
// still returns a position.
func TestInsideTerminationWhenFull(t *testing.T) {
	bg := cloudBackground(-50, 0, -50, 50, 3, 50)
	s, reg := newTestSearcher(bg)
	reg.Register("everything", box(-100, -100, -100, 100, 100, 100))

	got := s.FindValidPositionInside(rl.NewVector3(1, 1, 1))
	if s.evals > 26 {
		t.Errorf("search used %d evaluations, budget is 26", s.evals)
	}
	// Fallback slides off the centroid by the furniture count.
	if got.X == 0 && got.Z == 0 {
		t.Errorf("fallback position %v should be offset from the centroid", got)
	}
}

func TestOutsideFirstRingCandidate(t *testing.T) {
	bg := cloudBackground(-5, 0, -5, 5, 3, 5)
	s, _ := newTestSearcher(bg)

	got := s.FindValidPosition(rl.NewVector3(1, 1, 1))
	// Empty registry: the first candidate wins. Ring 0 at angle 0 sits at
	// base offset max(10,10)/2+1 = 6; the point cloud has no floor to snap
	// onto, so the default floor (min vertex Y = 0) plus clearance applies.
	if !approx(got.X, 6, 1e-3) || !approx(got.Z, 0, 1e-3) {
		t.Errorf("got %v, want first ring candidate at (6, y, 0)", got)
	}
	if !approx(got.Y, 0.55, 1e-3) {
		t.Errorf("got Y=%v, want floor + half height + clearance = 0.55", got.Y)
	}
}

func TestOutsideSkipsOccupiedCandidate(t *testing.T) {
	bg := cloudBackground(-5, 0, -5, 5, 3, 5)
	s, reg := newTestSearcher(bg)
	// Block the ring-0 angle-0 spot; the next candidate on the same ring
	// (45 degrees) must win.
	reg.Register("blocker", box(5.5, 0, -0.5, 6.5, 1, 0.5))

	got := s.FindValidPosition(rl.NewVector3(1, 1, 1))
	want := float32(6) * math32.Cos(math32.Pi/4)
	if !approx(got.X, want, 1e-3) || !approx(got.Z, want, 1e-3) {
		t.Errorf("got %v, want next ring-0 candidate at (%.3f, y, %.3f)", got, want, want)
	}
}

func TestOutsideStackingFallback(t *testing.T) {
	bg := cloudBackground(-5, 0, -5, 5, 3, 5)
	s, reg := newTestSearcher(bg)
	// Occupy all of space so every ring candidate and the above-top
	// candidate collide.
	reg.Register("everything", box(-1000, -1000, -1000, 1000, 1000, 1000))

	size := rl.NewVector3(1, 1, 1)
	first := s.FindValidPosition(size)
	second := s.FindValidPosition(size)

	wantY := float32(1000 + 0.5 + 0.3) // above the tallest occupant
	if !approx(first.Y, wantY, 1e-3) {
		t.Errorf("first fallback Y = %v, want %v", first.Y, wantY)
	}
	if approx(first.X, second.X, 1e-6) {
		t.Error("repeated fallbacks must not land on the same spot")
	}
}
