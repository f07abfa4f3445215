package tree

import (
	"slices"

	"github.com/akmonengine/obbtree/geometry"
	"github.com/go-gl/mathgl/mgl64"
)

// Hit is the result of a ray query. Triangle is -1 when nothing was hit.
type Hit struct {
	Point       mgl64.Vec3
	Triangle    int
	DistanceSqr float64
}

// candidateSet deduplicates the triangle ids gathered by one query
type candidateSet struct {
	seen map[int]struct{}
	ids  []int
}

func newCandidateSet() *candidateSet {
	return &candidateSet{seen: make(map[int]struct{})}
}

func (s *candidateSet) reset() {
	clear(s.seen)
	s.ids = s.ids[:0]
}

func (s *candidateSet) add(ids []int) {
	for _, id := range ids {
		if _, ok := s.seen[id]; ok {
			continue
		}
		s.seen[id] = struct{}{}
		s.ids = append(s.ids, id)
	}
}

func (t *Tree) acquire() *candidateSet {
	set := t.candidates.Get().(*candidateSet)
	set.reset()

	return set
}

func (t *Tree) release(set *candidateSet) {
	t.candidates.Put(set)
}

// collect adds the triangles of every leaf hit by the ray below node. Both children of
// a hit node are visited.
func collect(node *Node, ray geometry.Ray, set *candidateSet) {
	if !node.OBB.IntersectRay(ray) {
		return
	}

	if node.IsLeaf() {
		set.add(node.OBB.Triangles)
		return
	}

	collect(node.Children[0], ray, set)
	collect(node.Children[1], ray, set)
}

// Candidates returns the sorted ids of the triangles whose leaf box is hit by the ray
func (t *Tree) Candidates(ray geometry.Ray) []int {
	set := t.acquire()
	defer t.release(set)

	collect(t.root, ray, set)
	slices.Sort(set.ids)

	return slices.Clone(set.ids)
}

// Raycast returns the closest intersection between an object-space ray and the mesh.
// The ray is resolved as the segment [Origin, Origin + RayLength*Direction]. On a miss,
// the returned hit holds that far endpoint.
func (t *Tree) Raycast(ray geometry.Ray) (Hit, bool) {
	set := t.acquire()
	defer t.release(set)

	collect(t.root, ray, set)
	// ids order does not change the result, sorting keeps ties deterministic
	slices.Sort(set.ids)

	origin, end := ray.Segment(t.rayLength)

	closest := Hit{Point: end, Triangle: -1, DistanceSqr: end.Sub(origin).LenSqr()}
	found := false
	for _, id := range set.ids {
		tri := t.mesh.Triangle(id)
		point, ok := geometry.SegmentTriangleIntersection(tri[0], tri[1], tri[2], origin, end)
		if !ok {
			continue
		}

		distance := point.Sub(origin).LenSqr()
		if !found || distance < closest.DistanceSqr {
			closest = Hit{Point: point, Triangle: id, DistanceSqr: distance}
			found = true
		}
	}

	return closest, found
}

// IntersectRay is a shorthand for Raycast, returning the hit point or the far endpoint
// of the ray segment.
func (t *Tree) IntersectRay(origin, direction mgl64.Vec3) (bool, mgl64.Vec3) {
	hit, ok := t.Raycast(geometry.NewRay(origin, direction))

	return ok, hit.Point
}
