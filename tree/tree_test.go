package tree

import (
	"slices"
	"sync"
	"testing"

	"github.com/akmonengine/obbtree/geometry"
	"github.com/akmonengine/obbtree/linalg"
	"github.com/akmonengine/obbtree/obb"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func assertVecInDelta(t *testing.T, expected, actual mgl64.Vec3, delta float64, msgAndArgs ...interface{}) {
	t.Helper()
	assert.InDeltaSlice(t, expected[:], actual[:], delta, msgAndArgs...)
}

const containmentEpsilon = 1e-9

func mustBuild(t *testing.T, mesh Mesh, opts ...Option) *Tree {
	t.Helper()
	tr, err := Build(mesh, opts...)
	require.NoError(t, err)
	require.NotNil(t, tr)

	return tr
}

// subtreeTriangles returns the sorted, deduplicated triangle ids below node
func subtreeTriangles(node *Node) []int {
	if node.IsLeaf() {
		ids := slices.Clone(node.OBB.Triangles)
		slices.Sort(ids)
		return ids
	}

	ids := append(subtreeTriangles(node.Left()), subtreeTriangles(node.Right())...)
	slices.Sort(ids)
	return slices.Compact(ids)
}

// bruteForce resolves a ray against every triangle of the mesh
func bruteForce(mesh Mesh, ray geometry.Ray, length float64) (mgl64.Vec3, bool) {
	origin, end := ray.Segment(length)
	best, found := end, false
	bestDistance := 0.0

	for id := 0; id < mesh.TriangleCount(); id++ {
		tri := mesh.Triangle(id)
		p, ok := geometry.SegmentTriangleIntersection(tri[0], tri[1], tri[2], origin, end)
		if !ok {
			continue
		}
		if d := p.Sub(origin).LenSqr(); !found || d < bestDistance {
			best, bestDistance, found = p, d, true
		}
	}

	return best, found
}

// =============================================================================
// Build Tests
// =============================================================================

func TestBuild_InvalidMesh(t *testing.T) {
	tr, err := Build(Mesh{})
	require.Error(t, err)
	assert.Nil(t, tr)
	assert.True(t, errors.Is(err, ErrEmptyMesh))
	assert.Contains(t, err.Error(), "invalid mesh")
}

func TestBuild_FlatQuadIsSingleLeaf(t *testing.T) {
	tr := mustBuild(t, quadMesh())

	root := tr.Root()
	require.True(t, root.IsLeaf())
	assert.ElementsMatch(t, []int{0, 1}, root.OBB.Triangles)

	// zero thickness along the quad normal
	assert.InDelta(t, 0, root.OBB.Bounds.Span(root.OBB.ShortAxis), containmentEpsilon)
	assertVecInDelta(t, mgl64.Vec3{0, 0, 0}, root.OBB.Center(), containmentEpsilon)

	stats := tr.Stats()
	assert.Equal(t, 1, stats.Nodes)
	assert.Equal(t, 1, stats.Leaves)
	assert.Equal(t, 0, stats.MaxDepth)
	assert.Equal(t, 0, stats.Duplicates())
}

func TestBuild_Options(t *testing.T) {
	mesh := terrainMesh(6)

	t.Run("max depth 0", func(t *testing.T) {
		tr := mustBuild(t, mesh, WithMaxDepth(0))
		assert.True(t, tr.Root().IsLeaf())
		assert.Len(t, tr.Root().OBB.Triangles, mesh.TriangleCount())
	})

	t.Run("max depth 2", func(t *testing.T) {
		tr := mustBuild(t, mesh, WithMaxDepth(2))
		assert.LessOrEqual(t, tr.Stats().MaxDepth, 2)
	})

	t.Run("min leaf triangles", func(t *testing.T) {
		tr := mustBuild(t, mesh, WithMinLeafTriangles(mesh.TriangleCount()))
		assert.True(t, tr.Root().IsLeaf())
	})

	t.Run("invalid values are ignored", func(t *testing.T) {
		tr := mustBuild(t, mesh, WithMaxDepth(-3), WithMinLeafTriangles(0), WithRayLength(-1), WithLogger(nil))
		assert.Equal(t, DefaultRayLength, tr.RayLength())
		assert.Greater(t, tr.Stats().Nodes, 1)
	})
}

func TestBuild_LogsStats(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)

	mustBuild(t, cubeMesh(), WithLogger(zap.New(core).Sugar()))

	entries := logs.FilterMessage("obb tree built").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(12), entries[0].ContextMap()["triangles"])
}

// =============================================================================
// Structural Properties
// =============================================================================

func TestTreeProperties(t *testing.T) {
	meshes := []struct {
		name string
		mesh Mesh
	}{
		{"quad", quadMesh()},
		{"cube", cubeMesh()},
		{"terrain", terrainMesh(8)},
	}

	for _, m := range meshes {
		tr := mustBuild(t, m.mesh)

		t.Run(m.name+"/containment", func(t *testing.T) {
			tr.Walk(func(node *Node, _ int) bool {
				for _, id := range subtreeTriangles(node) {
					for _, v := range m.mesh.Triangle(id) {
						assert.True(t, node.OBB.ContainsPoint(v, containmentEpsilon), "triangle %d outside its box", id)
					}
				}
				return true
			})
		})

		t.Run(m.name+"/completeness", func(t *testing.T) {
			all := make([]int, m.mesh.TriangleCount())
			for i := range all {
				all[i] = i
			}
			assert.Equal(t, all, subtreeTriangles(tr.Root()))
		})

		t.Run(m.name+"/node shape", func(t *testing.T) {
			tr.Walk(func(node *Node, _ int) bool {
				if node.IsLeaf() {
					assert.NotEmpty(t, node.OBB.Triangles)
				} else {
					assert.NotNil(t, node.Left())
					assert.NotNil(t, node.Right())
					assert.Nil(t, node.OBB.Triangles)
				}
				return true
			})
		})

		t.Run(m.name+"/orthonormal axes", func(t *testing.T) {
			tr.Walk(func(node *Node, _ int) bool {
				r := node.OBB.Rotation
				assert.True(t, r.Transposed().Mul(r).ApproxEqual(linalg.Identity(), 1e-9))
				// right handed
				assert.InDelta(t, 1, r.Column(0).Cross(r.Column(1)).Dot(r.Column(2)), 1e-9)
				return true
			})
		})
	}
}

func TestBuild_Idempotent(t *testing.T) {
	mesh := terrainMesh(8)

	a := mustBuild(t, mesh)
	b := mustBuild(t, mesh)

	assert.Equal(t, a.Root().OBB.Bounds, b.Root().OBB.Bounds)

	leavesA, leavesB := a.Leaves(), b.Leaves()
	require.Equal(t, len(leavesA), len(leavesB))
	for i := range leavesA {
		assert.Equal(t, leavesA[i].OBB.Triangles, leavesB[i].OBB.Triangles)
	}
}

// =============================================================================
// Split Tests
// =============================================================================

func TestSplit_NeverReturnsEmptySide(t *testing.T) {
	mesh := terrainMesh(6)
	b := newBuilder(mesh, defaultOptions())

	triangles := make([]int, mesh.TriangleCount())
	for i := range triangles {
		triangles[i] = i
	}
	f := b.computeOBB(triangles)

	for axis := obb.X; axis <= obb.Z; axis++ {
		side1, side2, ok := b.split(f, triangles, axis)
		if ok {
			assert.NotEmpty(t, side1, "axis %v", axis)
			assert.NotEmpty(t, side2, "axis %v", axis)
		}
		// every triangle lands somewhere
		assert.GreaterOrEqual(t, len(side1)+len(side2), len(triangles))
	}
}

func TestSplit_RejectsOneSidedPlane(t *testing.T) {
	b := newBuilder(cubeMesh(), defaultOptions())

	f := fit{
		box:  obb.New(linalg.Identity(), obb.Bounds{Max: mgl64.Vec3{1, 1, 1}}),
		mean: mgl64.Vec3{100, 0, 0},
	}

	side1, side2, ok := b.split(f, []int{0, 1, 2, 3}, obb.X)
	assert.False(t, ok)
	assert.Empty(t, side1)
	assert.Equal(t, []int{0, 1, 2, 3}, side2)
}

func TestSplit_StraddlingTrianglesGoToBothSides(t *testing.T) {
	b := newBuilder(cubeMesh(), defaultOptions())

	f := fit{
		box:  obb.New(linalg.Identity(), obb.Bounds{Max: mgl64.Vec3{1, 1, 1}}),
		mean: mgl64.Vec3{0.5, 0.5, 0.5},
	}

	// split on Z: bottom (0,1) below, top (2,3) above, front (4,5) across
	side1, side2, ok := b.split(f, []int{0, 1, 2, 3, 4, 5}, obb.Z)
	require.True(t, ok)
	assert.Equal(t, []int{2, 3, 4, 5}, side1)
	assert.Equal(t, []int{0, 1, 4, 5}, side2)
	assert.True(t, progresses(6, side1, side2))
	assert.False(t, progresses(4, side1, side2))
}

func TestComputeOBB_PanicsOnEmptySubset(t *testing.T) {
	b := newBuilder(cubeMesh(), defaultOptions())
	assert.Panics(t, func() { b.computeOBB(nil) })
}

func TestComputeOBB_CachesCentroids(t *testing.T) {
	b := newBuilder(quadMesh(), defaultOptions())

	f := b.computeOBB([]int{0})
	assert.True(t, b.cached[0])
	assert.False(t, b.cached[1])
	assertVecInDelta(t, mgl64.Vec3{1.0 / 3, -1.0 / 3, 0}, f.mean, 1e-12)
}

// =============================================================================
// Query Tests
// =============================================================================

func TestIntersectRay_Scenarios(t *testing.T) {
	tests := []struct {
		name      string
		mesh      Mesh
		origin    mgl64.Vec3
		direction mgl64.Vec3
		hit       bool
		point     mgl64.Vec3
	}{
		{"quad center", quadMesh(), mgl64.Vec3{0, 0, 5}, mgl64.Vec3{0, 0, -1}, true, mgl64.Vec3{0, 0, 0}},
		{"quad off center from below", quadMesh(), mgl64.Vec3{0.5, -0.2, -3}, mgl64.Vec3{0, 0, 1}, true, mgl64.Vec3{0.5, -0.2, 0}},
		{"quad oblique", quadMesh(), mgl64.Vec3{-1, 0, 1}, mgl64.Vec3{1, 0.5, -1}, true, mgl64.Vec3{0, 0.5, 0}},
		{"quad missed beside", quadMesh(), mgl64.Vec3{3, 0, 5}, mgl64.Vec3{0, 0, -1}, false, mgl64.Vec3{3, 0, -995}},
		{"cube near face from below", cubeMesh(), mgl64.Vec3{0.3, 0.6, -5}, mgl64.Vec3{0, 0, 1}, true, mgl64.Vec3{0.3, 0.6, 0}},
		{"cube near face from above", cubeMesh(), mgl64.Vec3{0.3, 0.6, 5}, mgl64.Vec3{0, 0, -1}, true, mgl64.Vec3{0.3, 0.6, 1}},
		{"cube left face", cubeMesh(), mgl64.Vec3{-1, 0.25, 0.5}, mgl64.Vec3{1, 0, 0}, true, mgl64.Vec3{0, 0.25, 0.5}},
		{"cube missed", cubeMesh(), mgl64.Vec3{5, 5, 5}, mgl64.Vec3{1, 0, 0}, false, mgl64.Vec3{1005, 5, 5}},
		{"cube pointing away", cubeMesh(), mgl64.Vec3{0.5, 0.5, -5}, mgl64.Vec3{0, 0, -1}, false, mgl64.Vec3{0.5, 0.5, -1005}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := mustBuild(t, tt.mesh)

			hit, point := tr.IntersectRay(tt.origin, tt.direction)
			assert.Equal(t, tt.hit, hit)
			assertVecInDelta(t, tt.point, point, 1e-9)
		})
	}
}

func TestRaycast_ReportsTriangle(t *testing.T) {
	tr := mustBuild(t, cubeMesh())

	hit, ok := tr.Raycast(geometry.NewRay(mgl64.Vec3{0.3, 0.6, -5}, mgl64.Vec3{0, 0, 1}))
	require.True(t, ok)
	assert.Equal(t, 1, hit.Triangle)
	assert.InDelta(t, 25, hit.DistanceSqr, 1e-9)

	miss, ok := tr.Raycast(geometry.NewRay(mgl64.Vec3{5, 5, 5}, mgl64.Vec3{1, 0, 0}))
	assert.False(t, ok)
	assert.Equal(t, -1, miss.Triangle)
}

func TestRaycast_RayLength(t *testing.T) {
	tr := mustBuild(t, cubeMesh(), WithRayLength(2))

	ok, point := tr.IntersectRay(mgl64.Vec3{0.3, 0.6, -5}, mgl64.Vec3{0, 0, 1})
	assert.False(t, ok)
	assertVecInDelta(t, mgl64.Vec3{0.3, 0.6, -3}, point, 1e-12)

	// the direction is not normalized: a longer direction reaches further
	ok, point = tr.IntersectRay(mgl64.Vec3{0.3, 0.6, -5}, mgl64.Vec3{0, 0, 3})
	assert.True(t, ok)
	assertVecInDelta(t, mgl64.Vec3{0.3, 0.6, 0}, point, 1e-9)
}

func TestCandidates(t *testing.T) {
	tr := mustBuild(t, cubeMesh())

	candidates := tr.Candidates(geometry.NewRay(mgl64.Vec3{0.3, 0.6, -5}, mgl64.Vec3{0, 0, 1}))
	assert.True(t, slices.IsSorted(candidates))
	assert.Contains(t, candidates, 1)
	assert.Contains(t, candidates, 3)
	assert.Equal(t, len(candidates), len(slices.Compact(slices.Clone(candidates))))

	assert.Empty(t, tr.Candidates(geometry.NewRay(mgl64.Vec3{5, 5, 5}, mgl64.Vec3{1, 0, 0})))
}

func TestCandidates_ClearedBetweenQueries(t *testing.T) {
	tr := mustBuild(t, terrainMesh(8))

	hitting := geometry.NewRay(mgl64.Vec3{2, 2, 5}, mgl64.Vec3{0, 0, -1})
	missing := geometry.NewRay(mgl64.Vec3{2, 2, 5}, mgl64.Vec3{0, 0, 1})

	require.NotEmpty(t, tr.Candidates(hitting))
	assert.Empty(t, tr.Candidates(missing))

	ok, _ := tr.IntersectRay(missing.Origin, missing.Direction)
	assert.False(t, ok)
}

func testRays() []geometry.Ray {
	var rays []geometry.Ray
	for i := 0; i < 12; i++ {
		for j := 0; j < 12; j++ {
			origin := mgl64.Vec3{float64(i)*0.37 - 0.2, float64(j)*0.41 - 0.3, 3}
			rays = append(rays,
				geometry.NewRay(origin, mgl64.Vec3{0.1, -0.05, -1}),
				geometry.NewRay(origin, mgl64.Vec3{0, 0, -1}),
				geometry.NewRay(mgl64.Vec3{origin.X(), -2, 0.05}, mgl64.Vec3{0.02, 1, -0.01}),
			)
		}
	}

	return rays
}

func TestRaycast_MatchesBruteForce(t *testing.T) {
	mesh := terrainMesh(8)
	tr := mustBuild(t, mesh)
	require.Greater(t, tr.Stats().Leaves, 1)

	for i, ray := range testRays() {
		expected, expectedOK := bruteForce(mesh, ray, DefaultRayLength)
		hit, ok := tr.Raycast(ray)

		require.Equalf(t, expectedOK, ok, "ray %d", i)
		assertVecInDelta(t, expected, hit.Point, 1e-9, "ray %d", i)
	}
}

func TestRaycast_Concurrent(t *testing.T) {
	tr := mustBuild(t, terrainMesh(8))
	rays := testRays()

	expected := make([]Hit, len(rays))
	for i, ray := range rays {
		expected[i], _ = tr.Raycast(ray)
	}

	var wg sync.WaitGroup
	results := make([][]Hit, 8)
	for w := range results {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			results[w] = make([]Hit, len(rays))
			for i, ray := range rays {
				results[w][i], _ = tr.Raycast(ray)
			}
		}(w)
	}
	wg.Wait()

	for w := range results {
		assert.Equal(t, expected, results[w], "worker %d", w)
	}
}

// =============================================================================
// Walk Tests
// =============================================================================

func TestWalk(t *testing.T) {
	tr := mustBuild(t, terrainMesh(8))
	stats := tr.Stats()

	visited := 0
	parentSeen := map[*Node]bool{}
	tr.Walk(func(node *Node, depth int) bool {
		visited++
		parentSeen[node] = true
		if !node.IsLeaf() {
			assert.False(t, parentSeen[node.Left()], "child visited before parent")
		}
		assert.LessOrEqual(t, depth, stats.MaxDepth)
		return true
	})
	assert.Equal(t, stats.Nodes, visited)

	assert.Len(t, tr.Leaves(), stats.Leaves)
	assert.Equal(t, []*Node{tr.Root()}, tr.NodesAtLevel(0))
	if !tr.Root().IsLeaf() {
		assert.Equal(t, []*Node{tr.Root().Left(), tr.Root().Right()}, tr.NodesAtLevel(1))
	}
	assert.Empty(t, tr.NodesAtLevel(stats.MaxDepth+1))

	// pruning
	count := 0
	tr.Walk(func(_ *Node, depth int) bool {
		count++
		return false
	})
	assert.Equal(t, 1, count)

	refs := 0
	for _, leaf := range tr.Leaves() {
		refs += len(leaf.OBB.Triangles)
	}
	assert.Equal(t, stats.TriangleRefs, refs)
}
