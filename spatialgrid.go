package obbtree

import (
	"math"
	"sort"
	"sync"

	"github.com/akmonengine/obbtree/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// ============================================================================
// Types
// ============================================================================

// CellKey is the integer coordinate of a grid cell
type CellKey struct {
	X, Y, Z int
}

// Cell holds the indices of the objects overlapping it
type Cell struct {
	objectIndices []int
}

// Pair is a pair of objects whose world AABBs overlap. IndexA < IndexB.
type Pair struct {
	IndexA, IndexB   int
	ObjectA, ObjectB *actor.Object
}

// SpatialGrid is a uniform hashed grid, used as the broad phase over object AABBs.
// Distinct cells may share a slot: the grid only narrows candidates down.
type SpatialGrid struct {
	cellSize float64
	cells    []Cell
	cellMask int
}

// ============================================================================
// Constructor
// ============================================================================

// NewSpatialGrid creates a grid of cellSize wide cells, hashed into numCells slots
// (rounded up to a power of two).
func NewSpatialGrid(cellSize float64, numCells int) *SpatialGrid {
	numCells = nextPowerOfTwo(numCells)

	cells := make([]Cell, numCells)
	for i := range cells {
		cells[i].objectIndices = make([]int, 0, 8)
	}

	return &SpatialGrid{
		cellSize: cellSize,
		cells:    cells,
		cellMask: numCells - 1,
	}
}

func nextPowerOfTwo(n int) int {
	if n <= 0 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n++
	return n
}

// Insert adds an object index to every cell covered by aabb, once per slot
func (sg *SpatialGrid) Insert(objectIndex int, aabb actor.AABB) {
	sg.forEachCell(aabb, func(cellIdx int) {
		indices := sg.cells[cellIdx].objectIndices
		if n := len(indices); n > 0 && indices[n-1] == objectIndex {
			return
		}
		sg.cells[cellIdx].objectIndices = append(indices, objectIndex)
	})
}

func (sg *SpatialGrid) Clear() {
	for i := range sg.cells {
		sg.cells[i].objectIndices = sg.cells[i].objectIndices[:0]
	}
}

func (sg *SpatialGrid) SortCells() {
	for i := range sg.cells {
		if len(sg.cells[i].objectIndices) > 1 {
			sort.Ints(sg.cells[i].objectIndices)
		}
	}
}

// pairsOf calls emit for every object after objectIdx sharing a cell with it and
// overlapping its AABB. seen must be cleared by the caller.
func (sg *SpatialGrid) pairsOf(objects []*actor.Object, objectIdx int, seen []bool, emit func(Pair)) {
	objectA := objects[objectIdx]
	aabbA := objectA.AABB()

	sg.forEachCell(aabbA, func(cellIdx int) {
		for _, otherIdx := range sg.cells[cellIdx].objectIndices {
			// Deterministic order, and no (A,B) (B,A) duplicates
			if otherIdx <= objectIdx || seen[otherIdx] {
				continue
			}
			seen[otherIdx] = true

			objectB := objects[otherIdx]
			if aabbA.Overlaps(objectB.AABB()) {
				emit(Pair{IndexA: objectIdx, IndexB: otherIdx, ObjectA: objectA, ObjectB: objectB})
			}
		}
	})
}

// FindPairs is the sequential broad phase
func (sg *SpatialGrid) FindPairs(objects []*actor.Object) []Pair {
	pairs := make([]Pair, 0, len(objects)/2)
	seen := make([]bool, len(objects))

	for objectIdx := range objects {
		clear(seen)
		sg.pairsOf(objects, objectIdx, seen, func(p Pair) {
			pairs = append(pairs, p)
		})
	}

	return pairs
}

// FindPairsParallel splits the objects between numWorkers goroutines, streaming pairs
// through the returned channel. The channel is closed once every worker is done.
func (sg *SpatialGrid) FindPairsParallel(objects []*actor.Object, numWorkers int) <-chan Pair {
	var wg sync.WaitGroup
	pairsChan := make(chan Pair, numWorkers*10)

	objectsPerWorker := len(objects) / numWorkers
	if objectsPerWorker == 0 {
		objectsPerWorker = 1
	}

	for w := 0; w < numWorkers; w++ {
		startIdx := w * objectsPerWorker
		endIdx := startIdx + objectsPerWorker
		if w == numWorkers-1 {
			endIdx = len(objects)
		}
		if startIdx >= len(objects) {
			break
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()

			seen := make([]bool, len(objects))
			for objectIdx := start; objectIdx < end; objectIdx++ {
				clear(seen)
				sg.pairsOf(objects, objectIdx, seen, func(p Pair) {
					pairsChan <- p
				})
			}
		}(startIdx, min(endIdx, len(objects)))
	}

	go func() {
		wg.Wait()
		close(pairsChan)
	}()

	return pairsChan
}

// forEachCell calls fn for the slot of every cell covered by aabb. When the AABB covers
// more cells than there are slots, every slot is visited once instead.
func (sg *SpatialGrid) forEachCell(aabb actor.AABB, fn func(cellIdx int)) {
	minCell := sg.worldToCell(aabb.Min)
	maxCell := sg.worldToCell(aabb.Max)

	if sg.coversAllSlots(minCell, maxCell) {
		for cellIdx := range sg.cells {
			fn(cellIdx)
		}
		return
	}

	for x := minCell.X; x <= maxCell.X; x++ {
		for y := minCell.Y; y <= maxCell.Y; y++ {
			for z := minCell.Z; z <= maxCell.Z; z++ {
				fn(sg.hashCell(CellKey{x, y, z}))
			}
		}
	}
}

// coversAllSlots reports whether the cell range [minCell, maxCell] holds at least as
// many cells as the grid has slots
func (sg *SpatialGrid) coversAllSlots(minCell, maxCell CellKey) bool {
	slots := len(sg.cells)
	count := 1
	for _, span := range [3]int{maxCell.X - minCell.X, maxCell.Y - minCell.Y, maxCell.Z - minCell.Z} {
		// each factor is checked before multiplying, so count stays below slots²
		if span+1 >= slots {
			return true
		}
		count *= span + 1
		if count >= slots {
			return true
		}
	}

	return false
}

// worldToCell converts a world position into cell coordinates
func (sg *SpatialGrid) worldToCell(pos mgl64.Vec3) CellKey {
	return CellKey{
		X: int(math.Floor(pos.X() / sg.cellSize)),
		Y: int(math.Floor(pos.Y() / sg.cellSize)),
		Z: int(math.Floor(pos.Z() / sg.cellSize)),
	}
}

// hashCell maps a cell onto a slot of the array
func (sg *SpatialGrid) hashCell(key CellKey) int {
	h := (key.X * 73856093) ^ (key.Y * 19349663) ^ (key.Z * 83492791)
	return h & sg.cellMask
}
