package spatial

import (
	"math"
	"sync"

	"github.com/alanli-ML/ai-rts-sub008/internal/domain/building"
	"github.com/alanli-ML/ai-rts-sub008/internal/domain/shared"
)

// defaultCellSize comfortably covers the largest catalog footprint, so a
// typical overlap query touches at most four cells.
const defaultCellSize = 8.0

type cellKey struct {
	x int
	z int
}

type entry struct {
	id       string
	position shared.GridPosition
	radius   float64
}

// GridIndex is a uniform-grid spatial hash over the XZ plane. Each tracked
// circle is registered in every cell it overlaps, so queries only inspect the
// cells under the query circle. Overlap is strict: two circles touching at
// exactly their combined radius do not intersect, which lets structures sit
// flush against each other.
type GridIndex struct {
	mu       sync.RWMutex
	cellSize float64
	cells    map[cellKey][]entry
	byID     map[string][]cellKey
}

// Compile-time check: the index is the placement overlap oracle
var _ building.SpatialIndex = (*GridIndex)(nil)

// NewGridIndex creates an empty index. cellSize <= 0 selects the default.
func NewGridIndex(cellSize float64) *GridIndex {
	if cellSize <= 0 {
		cellSize = defaultCellSize
	}
	return &GridIndex{
		cellSize: cellSize,
		cells:    make(map[cellKey][]entry),
		byID:     make(map[string][]cellKey),
	}
}

// IntersectsAny reports whether any tracked circle intersects the query
// circle. Runs lock-shared so ghost-placement previews never block each
// other.
func (g *GridIndex) IntersectsAny(position shared.GridPosition, radius float64) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()

	for _, key := range g.coveredCells(position, radius) {
		for _, e := range g.cells[key] {
			if intersects(position, radius, e) {
				return true
			}
		}
	}
	return false
}

// Insert tracks a circle under the given ID, replacing any previous circle
// with the same ID.
func (g *GridIndex) Insert(id string, position shared.GridPosition, radius float64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.removeLocked(id)

	keys := g.coveredCells(position, radius)
	e := entry{id: id, position: position, radius: radius}
	for _, key := range keys {
		g.cells[key] = append(g.cells[key], e)
	}
	g.byID[id] = keys
}

// Remove stops tracking the circle with the given ID. Unknown IDs are a
// no-op.
func (g *GridIndex) Remove(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.removeLocked(id)
}

// Count returns the number of tracked circles
func (g *GridIndex) Count() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.byID)
}

func (g *GridIndex) removeLocked(id string) {
	keys, ok := g.byID[id]
	if !ok {
		return
	}
	for _, key := range keys {
		entries := g.cells[key]
		for i, e := range entries {
			if e.id == id {
				entries[i] = entries[len(entries)-1]
				entries = entries[:len(entries)-1]
				break
			}
		}
		if len(entries) == 0 {
			delete(g.cells, key)
		} else {
			g.cells[key] = entries
		}
	}
	delete(g.byID, id)
}

// coveredCells returns every cell the circle overlaps
func (g *GridIndex) coveredCells(position shared.GridPosition, radius float64) []cellKey {
	minX := int(math.Floor((position.X - radius) / g.cellSize))
	maxX := int(math.Floor((position.X + radius) / g.cellSize))
	minZ := int(math.Floor((position.Z - radius) / g.cellSize))
	maxZ := int(math.Floor((position.Z + radius) / g.cellSize))

	keys := make([]cellKey, 0, (maxX-minX+1)*(maxZ-minZ+1))
	for x := minX; x <= maxX; x++ {
		for z := minZ; z <= maxZ; z++ {
			keys = append(keys, cellKey{x: x, z: z})
		}
	}
	return keys
}

func intersects(position shared.GridPosition, radius float64, e entry) bool {
	return position.DistanceTo(e.position) < radius+e.radius
}
