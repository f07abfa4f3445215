// Package obbtree places meshes indexed by OBB trees in a world, and answers ray and
// overlap queries over all of them.
package obbtree

import (
	"github.com/akmonengine/obbtree/actor"
	"github.com/akmonengine/obbtree/geometry"
	"github.com/akmonengine/obbtree/tree"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	DEFAULT_WORKERS   = 1
	DEFAULT_CELL_SIZE = 4.0
	DEFAULT_NUM_CELLS = 1024
)

type World struct {
	// List of all objects in the world
	Objects     []*actor.Object
	SpatialGrid *SpatialGrid
	Workers     int
	// RayLength is the length, in direction units, of the segment returned on a miss.
	// Zero means tree.DefaultRayLength.
	RayLength float64

	Events Events
}

// WorldHit is the closest hit of a ray over every object of the world
type WorldHit struct {
	tree.Hit
	// Object is nil when nothing was hit
	Object *actor.Object
}

// AddObject adds an object to the world
func (w *World) AddObject(object *actor.Object) {
	w.Objects = append(w.Objects, object)
}

// RemoveObject removes an object from the world
func (w *World) RemoveObject(object *actor.Object) {
	k := -1
	for i, o := range w.Objects {
		if o == object {
			k = i
			break
		}
	}

	if k != -1 {
		w.Objects = append(w.Objects[:k], w.Objects[k+1:]...)
	}

	w.Events.forget(object)
}

func (w *World) rayLength() float64 {
	if w.RayLength > 0 {
		return w.RayLength
	}
	return tree.DefaultRayLength
}

// Raycast returns the closest hit of a world-space ray over every object. Objects whose
// AABB is not crossed by the ray are skipped. Hits farther than the far end of the ray
// segment are ignored, and on a miss the hit point is that far end.
func (w *World) Raycast(origin, direction mgl64.Vec3) (WorldHit, bool) {
	ray := geometry.NewRay(origin, direction)

	closest := WorldHit{Hit: tree.Hit{Point: ray.At(w.rayLength()), Triangle: -1}}
	closest.DistanceSqr = closest.Point.Sub(origin).LenSqr()
	limit := closest.DistanceSqr
	found := false

	for _, object := range w.Objects {
		aabb := object.AABB()
		if !geometry.RayBoxIntersection(aabb.Min, aabb.Max, origin, direction) {
			continue
		}

		hit, ok := object.Raycast(ray)
		if !ok || hit.DistanceSqr > limit {
			continue
		}
		if !found || hit.DistanceSqr < closest.DistanceSqr {
			closest = WorldHit{Hit: hit, Object: object}
			found = true
		}
	}

	return closest, found
}

// RaycastBatch runs Raycast for every ray, spread over the world workers.
// Results are returned in the order of the rays.
func (w *World) RaycastBatch(rays []geometry.Ray) []WorldHit {
	workers := max(DEFAULT_WORKERS, w.Workers)
	results := make([]WorldHit, len(rays))

	indices := make([]int, len(rays))
	for i := range indices {
		indices[i] = i
	}

	task(workers, indices, func(i int) {
		results[i], _ = w.Raycast(rays[i].Origin, rays[i].Direction)
	})

	return results
}

// Overlaps returns the intersecting triangles of every pair of objects, then dispatches
// the overlap events.
func (w *World) Overlaps() []Contact {
	w.Workers = max(DEFAULT_WORKERS, w.Workers)
	if w.SpatialGrid == nil {
		w.SpatialGrid = NewSpatialGrid(DEFAULT_CELL_SIZE, DEFAULT_NUM_CELLS)
	}

	// Phase 1: candidate pairs - broad phase
	// Phase 2: triangle intersections - narrow phase
	contacts := NarrowPhase(BroadPhase(w.SpatialGrid, w.Objects, w.Workers), w.Workers)

	w.Events.recordContacts(contacts)
	w.Events.flush()

	return contacts
}
