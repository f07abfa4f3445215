// Package tree builds an OBB tree over a static triangle mesh and answers ray queries
// against it.
//
// Boxes are fitted with a principal component analysis of the triangles, then split
// recursively along their longest possible axis. Triangles straddling a split plane
// belong to both children. Queries collect the triangles of every leaf whose box is
// hit by the ray, and resolve the closest exact intersection among them.
package tree

import (
	"sync"
	"time"

	"github.com/pkg/errors"
)

// Stats describes the shape of a built tree
type Stats struct {
	Nodes    int
	Leaves   int
	MaxDepth int

	// Triangles is the triangle count of the mesh, TriangleRefs the sum of the leaf set sizes
	Triangles    int
	TriangleRefs int

	BuildDuration time.Duration
}

// Duplicates returns the number of extra triangle references created by straddling triangles
func (s Stats) Duplicates() int {
	return s.TriangleRefs - s.Triangles
}

// Tree is an immutable OBB tree. Queries are safe for concurrent use.
type Tree struct {
	root      *Node
	mesh      Mesh
	stats     Stats
	rayLength float64

	candidates sync.Pool
}

// Build validates the mesh and builds its tree. The mesh slices are kept by the tree
// and must not be modified afterwards.
func Build(mesh Mesh, opts ...Option) (*Tree, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if err := mesh.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid mesh")
	}

	start := time.Now()
	b := newBuilder(mesh, o)
	root := b.build()
	b.stats.BuildDuration = time.Since(start)

	o.logger.Debugw("obb tree built",
		"duration", b.stats.BuildDuration,
		"triangles", b.stats.Triangles,
		"nodes", b.stats.Nodes,
		"leaves", b.stats.Leaves,
		"maxDepth", b.stats.MaxDepth,
		"duplicates", b.stats.Duplicates(),
	)

	t := &Tree{
		root:      root,
		mesh:      mesh,
		stats:     b.stats,
		rayLength: o.rayLength,
	}
	t.candidates.New = func() any {
		return newCandidateSet()
	}

	return t, nil
}

func (t *Tree) Root() *Node {
	return t.root
}

func (t *Tree) Mesh() Mesh {
	return t.mesh
}

func (t *Tree) Stats() Stats {
	return t.stats
}

// RayLength returns the length of the segment used to resolve exact intersections
func (t *Tree) RayLength() float64 {
	return t.rayLength
}
