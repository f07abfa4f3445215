package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// BoxEpsilon absorbs rounding when comparing slab intervals, so rays grazing a face of a
// flat (zero-thickness) box still register.
const BoxEpsilon = 1e-9

// RayBoxIntersection tests a half-line (t >= 0) against the axis-aligned box [min, max]
// with the slab method.
func RayBoxIntersection(min, max, origin, dir mgl64.Vec3) bool {
	tNear := 0.0
	tFar := math.Inf(1)

	for axis := 0; axis < 3; axis++ {
		if math.Abs(dir[axis]) < Epsilon*Epsilon {
			// Parallel to the slab: the origin must already lie between both planes
			if origin[axis] < min[axis]-BoxEpsilon || origin[axis] > max[axis]+BoxEpsilon {
				return false
			}
			continue
		}

		inv := 1.0 / dir[axis]
		t1 := (min[axis] - origin[axis]) * inv
		t2 := (max[axis] - origin[axis]) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}

		tNear = math.Max(tNear, t1)
		tFar = math.Min(tFar, t2)
		if tNear > tFar+BoxEpsilon*math.Max(1, math.Abs(tFar)) {
			return false
		}
	}

	return true
}

// LineBoxIntersection tests the infinite line through p with direction dir against the
// axis-aligned box [boxMin, boxMax].
//
// For every axis the line is intersected with the two bounding planes and the hits are
// sorted along dir. The line crosses the box if the latest entry (max of mins) comes
// strictly before the earliest exit (min of maxs). A line parallel to an axis is rejected
// immediately when p lies outside that slab.
func LineBoxIntersection(boxMin, boxMax, dir, p mgl64.Vec3) bool {
	var (
		maxOfMins, minOfMaxs mgl64.Vec3
		hasInterval          bool
	)

	for axis := 0; axis < 3; axis++ {
		if math.Abs(dir[axis]) <= Epsilon {
			if p[axis] < boxMin[axis] || p[axis] > boxMax[axis] {
				return false
			}
			continue
		}

		t1 := (boxMin[axis] - p[axis]) / dir[axis]
		t2 := (boxMax[axis] - p[axis]) / dir[axis]
		entry := p.Add(dir.Mul(t1))
		exit := p.Add(dir.Mul(t2))

		// Sort along dir
		if exit.Sub(entry).Dot(dir) <= 0 {
			entry, exit = exit, entry
		}

		if !hasInterval {
			maxOfMins, minOfMaxs = entry, exit
			hasInterval = true
			continue
		}
		if entry.Sub(maxOfMins).Dot(dir) > 0 {
			maxOfMins = entry
		}
		if minOfMaxs.Sub(exit).Dot(dir) > 0 {
			minOfMaxs = exit
		}
	}

	if !hasInterval {
		// dir is (nearly) null: no line to speak of
		return false
	}

	return minOfMaxs.Sub(maxOfMins).Dot(dir) > 0
}
