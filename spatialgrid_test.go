package obbtree

import (
	"testing"

	"github.com/akmonengine/obbtree/actor"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorldToCell(t *testing.T) {
	grid := NewSpatialGrid(1.0, 16)

	tests := []struct {
		name     string
		position mgl64.Vec3
		expected CellKey
	}{
		{"origin", mgl64.Vec3{0, 0, 0}, CellKey{0, 0, 0}},
		{"positive", mgl64.Vec3{1.5, 2.3, 3.7}, CellKey{1, 2, 3}},
		{"negative", mgl64.Vec3{-1.5, -2.3, -3.7}, CellKey{-2, -3, -4}},
		{"fractional", mgl64.Vec3{0.5, 0.5, 0.5}, CellKey{0, 0, 0}},
		{"large", mgl64.Vec3{100.7, -200.3, 50.1}, CellKey{100, -201, 50}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, grid.worldToCell(tt.position))
		})
	}
}

func TestHashCell(t *testing.T) {
	grid := NewSpatialGrid(1.0, 16) // mask = 15

	tests := []struct {
		name     string
		key      CellKey
		expected int
	}{
		{"origin", CellKey{0, 0, 0}, 0},
		{"simple", CellKey{1, 2, 3}, 6},
		{"negative", CellKey{-1, -2, -3}, 10},
		{"large", CellKey{100, 200, 300}, 8},
		{"mixed signs", CellKey{5, -7, 11}, 11},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := grid.hashCell(tt.key)
			assert.GreaterOrEqual(t, result, 0)
			assert.Less(t, result, len(grid.cells))
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestNextPowerOfTwo(t *testing.T) {
	for n, expected := range map[int]int{-3: 1, 0: 1, 1: 1, 3: 4, 16: 16, 17: 32, 1000: 1024} {
		assert.Equal(t, expected, nextPowerOfTwo(n), "n=%d", n)
	}
}

func TestSpatialGridInsertClear(t *testing.T) {
	grid := NewSpatialGrid(1.0, 64)
	aabb := actor.AABB{Min: mgl64.Vec3{0.2, 0.2, 0.2}, Max: mgl64.Vec3{1.5, 0.8, 0.8}}

	grid.Insert(7, aabb)

	// covers cells (0,0,0) and (1,0,0)
	for _, key := range []CellKey{{0, 0, 0}, {1, 0, 0}} {
		assert.Contains(t, grid.cells[grid.hashCell(key)].objectIndices, 7, "cell %v", key)
	}

	grid.Clear()
	for i := range grid.cells {
		assert.Empty(t, grid.cells[i].objectIndices)
	}
}

func TestSpatialGridLargeObject(t *testing.T) {
	grid := NewSpatialGrid(DEFAULT_CELL_SIZE, 64)
	// 100³ cells, far more than the slots
	wide := actor.AABB{Min: mgl64.Vec3{-200, -200, -200}, Max: mgl64.Vec3{200, 200, 200}}

	visited := 0
	grid.forEachCell(wide, func(int) { visited++ })
	assert.Equal(t, len(grid.cells), visited)

	grid.Insert(0, wide)
	grid.Insert(1, actor.AABB{Min: mgl64.Vec3{0, 0, 0}, Max: mgl64.Vec3{1, 1, 1}})
	grid.Insert(2, wide)
	for i := range grid.cells {
		indices := grid.cells[i].objectIndices
		assert.Equal(t, 1, countOf(indices, 0), "slot %d", i)
		assert.Equal(t, 1, countOf(indices, 2), "slot %d", i)
	}
}

func countOf(indices []int, index int) int {
	count := 0
	for _, i := range indices {
		if i == index {
			count++
		}
	}
	return count
}

func TestWorldOverlapsLargeObjects(t *testing.T) {
	wide := func(name string, position mgl64.Vec3) *actor.Object {
		o, err := actor.NewShapeObject(name, actor.NewTransformAt(position, mgl64.QuatIdent()), &actor.Box{HalfExtents: mgl64.Vec3{200, 200, 200}})
		require.NoError(t, err)
		return o
	}

	var w World
	w.AddObject(wide("a", mgl64.Vec3{0, 0, 0}))
	w.AddObject(wide("b", mgl64.Vec3{100, 50, 25}))

	contacts := w.Overlaps()
	require.Len(t, contacts, 1)
	assert.NotEmpty(t, contacts[0].Pairs)
}

func TestFindPairs(t *testing.T) {
	objects := []*actor.Object{
		createTestCube(t, "a", mgl64.Vec3{0, 0, 0}),
		createTestCube(t, "b", mgl64.Vec3{0.5, 0.5, 0.5}),
		createTestCube(t, "c", mgl64.Vec3{10, 10, 10}),
		createTestCube(t, "d", mgl64.Vec3{10.5, 10, 10}),
	}

	// small grid: distinct cells collide in the same slots
	grid := NewSpatialGrid(1.0, 4)
	for i, o := range objects {
		grid.Insert(i, o.AABB())
	}
	grid.SortCells()

	pairs := grid.FindPairs(objects)
	require.Len(t, pairs, 2)
	assert.Equal(t, 0, pairs[0].IndexA)
	assert.Equal(t, 1, pairs[0].IndexB)
	assert.Same(t, objects[0], pairs[0].ObjectA)
	assert.Equal(t, 2, pairs[1].IndexA)
	assert.Equal(t, 3, pairs[1].IndexB)

	for _, workers := range []int{1, 2, 3, 8} {
		var parallel []Pair
		for p := range grid.FindPairsParallel(objects, workers) {
			parallel = append(parallel, p)
		}
		assert.ElementsMatch(t, pairs, parallel, "%d workers", workers)
	}
}

func TestFindPairsParallel_NoObject(t *testing.T) {
	grid := NewSpatialGrid(1.0, 16)

	count := 0
	for range grid.FindPairsParallel(nil, 4) {
		count++
	}
	assert.Zero(t, count)
}
