package obbtree

import (
	"cmp"
	"slices"
	"sync"

	"github.com/akmonengine/obbtree/actor"
	"github.com/akmonengine/obbtree/geometry"
	"github.com/akmonengine/obbtree/tree"
	"github.com/go-gl/mathgl/mgl64"
)

// TrianglePair is a pair of intersecting triangles, A from the first object and B from
// the second.
type TrianglePair struct {
	A, B int
}

// Contact lists the intersecting triangles of two objects
type Contact struct {
	IndexA, IndexB   int
	ObjectA, ObjectB *actor.Object
	Pairs            []TrianglePair
}

// BroadPhase finds the pairs of objects whose world AABBs overlap
func BroadPhase(spatialGrid *SpatialGrid, objects []*actor.Object, workersCount int) <-chan Pair {
	spatialGrid.Clear()
	for i, object := range objects {
		spatialGrid.Insert(i, object.AABB())
	}
	spatialGrid.SortCells()

	return spatialGrid.FindPairsParallel(objects, workersCount)
}

// NarrowPhase resolves the candidate pairs by descending both trees at once. Only the
// pairs with at least one pair of intersecting triangles are returned, sorted by
// object indices.
func NarrowPhase(pairs <-chan Pair, workersCount int) []Contact {
	contactsChan := make(chan Contact, workersCount)

	go func() {
		var wg sync.WaitGroup
		defer close(contactsChan)

		for range workersCount {
			wg.Add(1)
			go func() {
				defer wg.Done()

				for p := range pairs {
					if contact, ok := Collide(p); ok {
						contactsChan <- contact
					}
				}
			}()
		}

		wg.Wait()
	}()

	contacts := make([]Contact, 0)
	for c := range contactsChan {
		contacts = append(contacts, c)
	}

	slices.SortFunc(contacts, func(a, b Contact) int {
		return cmp.Or(cmp.Compare(a.IndexA, b.IndexA), cmp.Compare(a.IndexB, b.IndexB))
	})

	return contacts
}

// Collide computes the intersecting triangles of a pair of objects
func Collide(p Pair) (Contact, bool) {
	c := collider{
		a:    p.ObjectA,
		b:    p.ObjectB,
		seen: make(map[TrianglePair]struct{}),
	}
	c.descend(p.ObjectA.Tree.Root(), p.ObjectB.Tree.Root())
	if len(c.pairs) == 0 {
		return Contact{}, false
	}

	slices.SortFunc(c.pairs, func(x, y TrianglePair) int {
		return cmp.Or(cmp.Compare(x.A, y.A), cmp.Compare(x.B, y.B))
	})

	return Contact{
		IndexA:  p.IndexA,
		IndexB:  p.IndexB,
		ObjectA: p.ObjectA,
		ObjectB: p.ObjectB,
		Pairs:   c.pairs,
	}, true
}

type collider struct {
	a, b *actor.Object

	// straddling triangles live in several leaves
	seen  map[TrianglePair]struct{}
	pairs []TrianglePair
}

func (c *collider) descend(na, nb *tree.Node) {
	if !c.a.WorldBox(na).Overlaps(c.b.WorldBox(nb)) {
		return
	}

	switch {
	case na.IsLeaf() && nb.IsLeaf():
		c.collideLeaves(na, nb)
	case nb.IsLeaf() || (!na.IsLeaf() && volume(na) >= volume(nb)):
		c.descend(na.Left(), nb)
		c.descend(na.Right(), nb)
	default:
		c.descend(na, nb.Left())
		c.descend(na, nb.Right())
	}
}

func (c *collider) collideLeaves(na, nb *tree.Node) {
	for _, ta := range na.OBB.Triangles {
		u := worldTriangle(c.a, ta)
		for _, tb := range nb.OBB.Triangles {
			key := TrianglePair{A: ta, B: tb}
			if _, ok := c.seen[key]; ok {
				continue
			}
			c.seen[key] = struct{}{}

			v := worldTriangle(c.b, tb)
			if geometry.TriangleTriangleIntersection(u[0], u[1], u[2], v[0], v[1], v[2]) {
				c.pairs = append(c.pairs, key)
			}
		}
	}
}

func worldTriangle(o *actor.Object, id int) [3]mgl64.Vec3 {
	tri := o.Tree.Mesh().Triangle(id)
	for i := range tri {
		tri[i] = o.Transform.PointToWorld(tri[i])
	}

	return tri
}

func volume(n *tree.Node) float64 {
	s := n.OBB.Bounds.Size()
	return s[0] * s[1] * s[2]
}
