package tree

import (
	"github.com/akmonengine/obbtree/linalg"
	"github.com/akmonengine/obbtree/obb"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

var errEmptySubset = errors.New("cannot fit a box to an empty triangle subset")

// fit is a box computed over a triangle subset, along with the centroid mean used as
// the split plane point for that subset.
type fit struct {
	box  obb.OBB
	mean mgl64.Vec3
}

type builder struct {
	mesh Mesh
	opts options

	// Centroids are computed on first use, once per triangle
	centroids []mgl64.Vec3
	cached    []bool

	stats Stats
}

func newBuilder(mesh Mesh, opts options) *builder {
	count := mesh.TriangleCount()

	return &builder{
		mesh:      mesh,
		opts:      opts,
		centroids: make([]mgl64.Vec3, count),
		cached:    make([]bool, count),
		stats:     Stats{Triangles: count},
	}
}

func (b *builder) centroid(id int) mgl64.Vec3 {
	if !b.cached[id] {
		tri := b.mesh.Triangle(id)
		b.centroids[id] = tri[0].Add(tri[1]).Add(tri[2]).Mul(1.0 / 3.0)
		b.cached[id] = true
	}

	return b.centroids[id]
}

// build creates the root over every triangle of the mesh and subdivides it.
func (b *builder) build() *Node {
	triangles := make([]int, b.mesh.TriangleCount())
	for i := range triangles {
		triangles[i] = i
	}

	root := &Node{}
	b.divide(root, b.computeOBB(triangles), triangles, 0)

	return root
}

// computeOBB fits an oriented box to the triangles with a principal component analysis.
// Every triangle weighs the same in the covariance, whatever its area.
func (b *builder) computeOBB(triangles []int) fit {
	if len(triangles) == 0 {
		panic(errEmptySubset)
	}

	var mean mgl64.Vec3
	for _, id := range triangles {
		mean = mean.Add(b.centroid(id))
	}
	mean = mean.Mul(1.0 / float64(len(triangles)))

	// Upper triangle only, the matrix is symmetric
	var c00, c01, c02, c11, c12, c22 float64
	for _, id := range triangles {
		for _, v := range b.mesh.Triangle(id) {
			p := v.Sub(mean)
			c00 += p[0] * p[0]
			c01 += p[0] * p[1]
			c02 += p[0] * p[2]
			c11 += p[1] * p[1]
			c12 += p[1] * p[2]
			c22 += p[2] * p[2]
		}
	}

	n := 1.0 / float64(3*len(triangles))
	covariance := linalg.Matrix3x3{
		c00 * n, c01 * n, c02 * n,
		c01 * n, c11 * n, c12 * n,
		c02 * n, c12 * n, c22 * n,
	}

	axes := covariance.EigenVectors()
	e0 := axes[0].Normalize()
	e1 := axes[1].Normalize()
	// right-handed basis whatever the decomposition returned
	e2 := e0.Cross(e1).Normalize()

	rotation := linalg.FromColumns(e0, e1, e2)
	toLocal := rotation.Transposed()

	bounds := obb.EmptyBounds()
	for _, id := range triangles {
		for _, v := range b.mesh.Triangle(id) {
			bounds.Extend(toLocal.MulVec(v))
		}
	}

	return fit{box: obb.New(rotation, bounds), mean: mean}
}

// split partitions the triangles with the plane through the subset mean, normal to the
// given box axis. Triangles strictly on the positive side go to side1, strictly on the
// negative side to side2, and the ones touching or straddling the plane go to both.
// The split is valid only when both sides are non-empty.
func (b *builder) split(f fit, triangles []int, axis obb.Axis) (side1, side2 []int, ok bool) {
	normal := f.box.AxisDirection(axis)

	for _, id := range triangles {
		positive, negative := 0, 0
		for _, v := range b.mesh.Triangle(id) {
			d := normal.Dot(v.Sub(f.mean))
			switch {
			case d > 0:
				positive++
			case d < 0:
				negative++
			}
		}

		switch {
		case positive == 3:
			side1 = append(side1, id)
		case negative == 3:
			side2 = append(side2, id)
		default:
			side1 = append(side1, id)
			side2 = append(side2, id)
		}
	}

	return side1, side2, len(side1) > 0 && len(side2) > 0
}

// progresses reports whether both sides of a split are strictly smaller than its input.
// Splits that do not shrink would recurse forever on the same subset.
func progresses(input int, side1, side2 []int) bool {
	return len(side1) < input && len(side2) < input
}

// divide finalizes node over the triangles, either as a leaf or as an internal node
// with two children subdivided in turn. Axes are tried from the longest to the shortest.
func (b *builder) divide(node *Node, f fit, triangles []int, depth int) {
	b.stats.Nodes++
	if depth > b.stats.MaxDepth {
		b.stats.MaxDepth = depth
	}

	node.OBB = f.box

	if depth < b.opts.maxDepth && len(triangles) > b.opts.minLeafTriangles {
		for _, axis := range [obb.AxisCount]obb.Axis{f.box.LongAxis, f.box.MedAxis, f.box.ShortAxis} {
			side1, side2, ok := b.split(f, triangles, axis)
			if !ok || !progresses(len(triangles), side1, side2) {
				continue
			}

			node.Children[0] = &Node{}
			node.Children[1] = &Node{}
			b.divide(node.Children[0], b.computeOBB(side1), side1, depth+1)
			b.divide(node.Children[1], b.computeOBB(side2), side2, depth+1)

			return
		}
	}

	node.OBB.Triangles = triangles
	b.stats.Leaves++
	b.stats.TriangleRefs += len(triangles)
}
