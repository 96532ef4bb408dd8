// Package placement finds collision-free positions for new furniture boxes.
// Two independent strategies are exposed: an outward ring search anchored
// just outside the background's footprint, and a bounded ring search anchored
// to the background's interior centroid. Both screen candidates against
// registered furniture only; staying inside the scanned bounds is guaranteed
// by how candidates are generated, not re-derived from mesh geometry. Both
// always return a position.
package placement

import (
	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"

	"placement-engine/internal/collision"
	"placement-engine/internal/scene"
)

// DefaultPadding inflates candidate boxes on every axis during screening so
// accepted placements keep daylight between neighbors.
const DefaultPadding = 0.3

// DefaultGap is the extra ring spacing beyond the requested footprint.
const DefaultGap = 0.8

// DefaultFloorClearance lifts placed boxes slightly off the sampled floor.
const DefaultFloorClearance = 0.05

// DefaultStackClearance separates stacked fallback placements vertically.
const DefaultStackClearance = 0.3

// outsideRings / insidePoints bound the two searches; the inside search
// additionally caps total ring evaluations so it terminates within a fixed
// number of collision tests regardless of furniture count.
const (
	outsideRings   = 5
	insideRings    = 3
	insidePoints   = 8
	maxInsideEvals = 25
	outsideBasePad = 1.0
)

// Searcher generates and screens placement candidates against a registry and
// the active background.
type Searcher struct {
	reg   *collision.Registry
	floor *scene.FloorSampler
	bg    *scene.Background

	padding        float32
	gap            float32
	floorClearance float32
	stackClearance float32

	fallbacks int // stacking offsets grow monotonically across calls
	evals     int // candidate evaluations in the last inside search
}

// NewSearcher returns a searcher over reg with no background. Non-positive
// tuning values fall back to the package defaults.
func NewSearcher(reg *collision.Registry, padding, gap, floorClearance, stackClearance float32) *Searcher {
	if padding <= 0 {
		padding = DefaultPadding
	}
	if gap <= 0 {
		gap = DefaultGap
	}
	if floorClearance <= 0 {
		floorClearance = DefaultFloorClearance
	}
	if stackClearance <= 0 {
		stackClearance = DefaultStackClearance
	}
	return &Searcher{
		reg:            reg,
		padding:        padding,
		gap:            gap,
		floorClearance: floorClearance,
		stackClearance: stackClearance,
	}
}

// SetBackground points the searcher at the active surface and its floor
// sampler. Pass nil for both when no background is loaded.
func (s *Searcher) SetBackground(bg *scene.Background, floor *scene.FloorSampler) {
	s.bg = bg
	s.floor = floor
}

// boxAt builds the screening box for a candidate center, padded on every
// axis.
func (s *Searcher) boxAt(pos, size rl.Vector3) rl.BoundingBox {
	hx := size.X/2 + s.padding
	hy := size.Y/2 + s.padding
	hz := size.Z/2 + s.padding
	return rl.NewBoundingBox(
		rl.NewVector3(pos.X-hx, pos.Y-hy, pos.Z-hz),
		rl.NewVector3(pos.X+hx, pos.Y+hy, pos.Z+hz),
	)
}

func (s *Searcher) free(pos, size rl.Vector3) bool {
	s.evals++
	return !s.reg.Collides(s.boxAt(pos, size), "")
}

// FindValidPosition is the outside-anchored strategy: concentric rings
// starting just beyond the background's footprint, then one candidate above
// the background's highest point, then a stacking fallback that always
// succeeds. The winning ring candidate is snapped onto the sampled floor.
func (s *Searcher) FindValidPosition(size rl.Vector3) rl.Vector3 {
	if s.bg == nil {
		return rl.NewVector3(0, 0, 0)
	}
	center := s.bg.Center()
	bgSize := s.bg.Size()
	base := math32.Max(bgSize.X, bgSize.Z)/2 + outsideBasePad
	step := math32.Max(size.X, size.Z) + s.gap

	floorY := float32(0)
	if y, ok := s.floor.DefaultHeight(); ok {
		floorY = y
	}

	for ring := 0; ring < outsideRings; ring++ {
		radius := base + float32(ring)*step
		points := 8 + 4*ring
		for i := 0; i < points; i++ {
			angle := 2 * math32.Pi * float32(i) / float32(points)
			pos := rl.NewVector3(
				center.X+radius*math32.Cos(angle),
				floorY+size.Y/2,
				center.Z+radius*math32.Sin(angle),
			)
			if s.free(pos, size) {
				return s.snapToFloor(pos, size)
			}
		}
	}

	// One candidate directly above the background's highest point.
	above := rl.NewVector3(center.X, s.bg.Bounds.Max.Y+size.Y/2+s.stackClearance, center.Z)
	if s.free(above, size) {
		return above
	}

	// Stacking fallback: above everything, shifted laterally by a counter so
	// repeated fallbacks do not land on the same spot.
	top := s.bg.Bounds.Max.Y
	if t, ok := s.reg.MaxTopY(); ok {
		top = math32.Max(top, t)
	}
	s.fallbacks++
	return rl.NewVector3(
		center.X+float32(s.fallbacks)*step,
		top+size.Y/2+s.stackClearance,
		center.Z,
	)
}

// snapToFloor drops a screened candidate onto the sampled floor under its
// (x,z), with a small clearance. Candidates over unsampled spots keep their
// screening height.
func (s *Searcher) snapToFloor(pos, size rl.Vector3) rl.Vector3 {
	if y, ok := s.floor.HeightAt(pos.X, pos.Z); ok {
		pos.Y = y + size.Y/2 + s.floorClearance
	}
	return pos
}

// FindValidPositionInside is the inside-anchored strategy: the background's
// horizontal centroid at its floor first, then rings 1..3 around it at the
// same height, capped at maxInsideEvals ring candidates. The scan is treated
// as already enclosing the placement volume, so bounds are not re-checked.
// Exhaustion offsets from the centroid proportionally to the furniture
// count, so the search always terminates with a position.
func (s *Searcher) FindValidPositionInside(size rl.Vector3) rl.Vector3 {
	s.evals = 0
	if s.bg == nil {
		return rl.NewVector3(0, 0, 0)
	}
	center := s.bg.Center()
	floorY := s.bg.Bounds.Min.Y
	anchor := rl.NewVector3(center.X, floorY+size.Y/2, center.Z)
	if s.free(anchor, size) {
		return anchor
	}

	step := s.insideRingStep(size)
	ringEvals := 0
	for ring := 1; ring <= insideRings; ring++ {
		radius := float32(ring) * step
		for i := 0; i < insidePoints; i++ {
			if ringEvals >= maxInsideEvals {
				break
			}
			angle := 2 * math32.Pi * float32(i) / float32(insidePoints)
			pos := rl.NewVector3(
				center.X+radius*math32.Cos(angle),
				floorY+size.Y/2,
				center.Z+radius*math32.Sin(angle),
			)
			ringEvals++
			if s.free(pos, size) {
				return pos
			}
		}
	}

	// Bounded fallback: slide off the centroid by the furniture count.
	n := float32(s.reg.Count())
	return rl.NewVector3(center.X+n*step, floorY+size.Y/2, center.Z)
}

// insideRingStep adapts ring spacing to the widest registered footprint so
// ring 1 already clears a single large occupant; with furniture-scale
// occupants it degenerates to roughly the requested span plus the gap.
func (s *Searcher) insideRingStep(size rl.Vector3) float32 {
	widest := s.reg.MaxFootprint()
	return (widest+math32.Max(size.X, size.Z))/2 + s.gap
}
