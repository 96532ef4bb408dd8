package scene

import (
	"slices"

	"github.com/chewxy/math32"
)

// DefaultFloorCellSize is the spacing of the precomputed floor-height grid.
const DefaultFloorCellSize = 1.0

// DefaultFloorPercentile picks the global floor estimate from the sorted
// sample set. The 10th percentile rejects elevated surfaces (tables,
// counters) that would bias a median upward, while staying above scan noise
// below the real floor.
const DefaultFloorPercentile = 0.10

// floorCell keys the sampled grid by floored world coordinates.
type floorCell struct {
	X int
	Z int
}

// FloorSampler answers "what is the walkable elevation at (x,z)?" from a grid
// of downward ray samples built once per background. Cells missing from the
// eager sweep are sampled on demand; HeightAt is cheap enough to call every
// frame during a drag.
type FloorSampler struct {
	bg         *Background
	cellSize   float32
	percentile float32
	heights    map[floorCell]float32
	def        float32
	hasDef     bool
}

// NewFloorSampler builds the floor grid for bg. A nil background yields a
// sampler that reports no floor constraint anywhere. Non-positive cellSize
// and out-of-range percentile fall back to the defaults.
func NewFloorSampler(bg *Background, cellSize, percentile float32) *FloorSampler {
	if cellSize <= 0 {
		cellSize = DefaultFloorCellSize
	}
	if percentile <= 0 || percentile >= 1 {
		percentile = DefaultFloorPercentile
	}
	fs := &FloorSampler{
		bg:         bg,
		cellSize:   cellSize,
		percentile: percentile,
		heights:    make(map[floorCell]float32),
	}
	fs.build()
	return fs
}

// build sweeps the surface's horizontal bounds at cellSize spacing, ray
// casting at each cell center. Faced meshes that yield zero hits and point
// clouds both fall back to the minimum vertex Y; a vertex-less surface falls
// back to its bounds.
func (fs *FloorSampler) build() {
	if fs.bg == nil {
		return
	}
	if fs.bg.HasFaces() {
		samples := fs.sweep()
		if len(samples) > 0 {
			slices.Sort(samples)
			fs.def = samples[int(float32(len(samples))*fs.percentile)]
			fs.hasDef = true
			return
		}
	}
	if y, ok := fs.bg.MinVertexY(); ok {
		fs.def = y
		fs.hasDef = true
		return
	}
	// A loader may hand over bounds without raw vertices; the box floor is
	// the last usable estimate. A fully degenerate surface keeps hasDef false.
	if fs.bg.Bounds.Max.Y > fs.bg.Bounds.Min.Y {
		fs.def = fs.bg.Bounds.Min.Y
		fs.hasDef = true
	}
}

// sweep fills the height grid and returns every sampled elevation.
func (fs *FloorSampler) sweep() []float32 {
	x0 := int(math32.Floor(fs.bg.Bounds.Min.X / fs.cellSize))
	x1 := int(math32.Floor(fs.bg.Bounds.Max.X / fs.cellSize))
	z0 := int(math32.Floor(fs.bg.Bounds.Min.Z / fs.cellSize))
	z1 := int(math32.Floor(fs.bg.Bounds.Max.Z / fs.cellSize))

	var samples []float32
	for cx := x0; cx <= x1; cx++ {
		for cz := z0; cz <= z1; cz++ {
			x := (float32(cx) + 0.5) * fs.cellSize
			z := (float32(cz) + 0.5) * fs.cellSize
			y, ok := fs.bg.RaycastDown(x, z)
			if !ok {
				continue
			}
			fs.heights[floorCell{X: cx, Z: cz}] = y
			samples = append(samples, y)
		}
	}
	return samples
}

// DefaultHeight returns the global floor elevation used when no (x,z) is
// known yet. ok is false when the background is absent or degenerate; callers
// must treat that as "no floor constraint", not as height zero.
func (fs *FloorSampler) DefaultHeight() (float32, bool) {
	return fs.def, fs.hasDef
}

// HeightAt returns the floor elevation under (x,z): precomputed cell if
// present, on-demand ray cast otherwise (memoized on success), then the
// global default.
func (fs *FloorSampler) HeightAt(x, z float32) (float32, bool) {
	if fs.bg == nil {
		return 0, false
	}
	key := floorCell{
		X: int(math32.Floor(x / fs.cellSize)),
		Z: int(math32.Floor(z / fs.cellSize)),
	}
	if y, ok := fs.heights[key]; ok {
		return y, true
	}
	if y, ok := fs.bg.RaycastDown(x, z); ok {
		fs.heights[key] = y
		return y, true
	}
	return fs.def, fs.hasDef
}
