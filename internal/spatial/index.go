// Package spatial implements the broad-phase grid index used for furniture
// collision queries. Boxes are bucketed by their (x,z) footprint on a uniform
// grid; queries return candidate ids that the caller must still test exactly.
package spatial

import (
	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// DefaultCellSize keeps bucket occupancy low for furniture-scale boxes.
// The grid is not adaptive; one constant serves the whole session.
const DefaultCellSize = 2.0

// CellKey identifies one grid cell on the horizontal plane.
type CellKey struct {
	X int
	Z int
}

// Index maps grid cells to the ids whose boxes cover them. For every id the
// covered-cell set is recorded so removal never rescans the grid.
type Index struct {
	cellSize float32
	cells    map[CellKey]map[string]struct{}
	covered  map[string][]CellKey
}

// NewIndex returns an empty index. Non-positive cell sizes fall back to
// DefaultCellSize.
func NewIndex(cellSize float32) *Index {
	if cellSize <= 0 {
		cellSize = DefaultCellSize
	}
	return &Index{
		cellSize: cellSize,
		cells:    make(map[CellKey]map[string]struct{}),
		covered:  make(map[string][]CellKey),
	}
}

// CellSize returns the grid cell size in world units.
func (ix *Index) CellSize() float32 {
	return ix.cellSize
}

// cellRange returns the inclusive cell bounds covered by the box's (x,z)
// projection. Both corners are floored so two boxes whose projections overlap
// always share at least one cell.
func (ix *Index) cellRange(box rl.BoundingBox) (x0, x1, z0, z1 int) {
	x0 = int(math32.Floor(box.Min.X / ix.cellSize))
	x1 = int(math32.Floor(box.Max.X / ix.cellSize))
	z0 = int(math32.Floor(box.Min.Z / ix.cellSize))
	z1 = int(math32.Floor(box.Max.Z / ix.cellSize))
	return x0, x1, z0, z1
}

// Insert registers id under every cell covered by box. Any prior registration
// for the same id is removed first, so re-inserting after a move is safe.
func (ix *Index) Insert(id string, box rl.BoundingBox) {
	ix.Remove(id)

	x0, x1, z0, z1 := ix.cellRange(box)
	cells := make([]CellKey, 0, (x1-x0+1)*(z1-z0+1))
	for cx := x0; cx <= x1; cx++ {
		for cz := z0; cz <= z1; cz++ {
			key := CellKey{X: cx, Z: cz}
			bucket, ok := ix.cells[key]
			if !ok {
				bucket = make(map[string]struct{})
				ix.cells[key] = bucket
			}
			bucket[id] = struct{}{}
			cells = append(cells, key)
		}
	}
	ix.covered[id] = cells
}

// Remove deletes id from every cell it was recorded against. Unknown ids are
// a no-op.
func (ix *Index) Remove(id string) {
	cells, ok := ix.covered[id]
	if !ok {
		return
	}
	for _, key := range cells {
		bucket := ix.cells[key]
		delete(bucket, id)
		if len(bucket) == 0 {
			delete(ix.cells, key)
		}
	}
	delete(ix.covered, id)
}

// Query returns the ids bucketed under any cell covered by box, excluding
// exclude when non-empty. The result is a candidate set: ids whose boxes may
// or may not intersect the query box, never missing one whose (x,z)
// projection overlaps it.
func (ix *Index) Query(box rl.BoundingBox, exclude string) map[string]struct{} {
	out := make(map[string]struct{})
	x0, x1, z0, z1 := ix.cellRange(box)
	for cx := x0; cx <= x1; cx++ {
		for cz := z0; cz <= z1; cz++ {
			for id := range ix.cells[CellKey{X: cx, Z: cz}] {
				if id == exclude {
					continue
				}
				out[id] = struct{}{}
			}
		}
	}
	return out
}

// Len returns the number of registered ids.
func (ix *Index) Len() int {
	return len(ix.covered)
}

// IDs returns all registered ids in no particular order.
func (ix *Index) IDs() []string {
	out := make([]string, 0, len(ix.covered))
	for id := range ix.covered {
		out = append(out, id)
	}
	return out
}
