// Package obb defines the oriented bounding box stored at every node of an OBB tree.
//
// An OBB keeps its extents in its own axis-aligned frame. The columns of Rotation are the
// box axes expressed in the object space of the mesh, so a point p maps to local
// coordinates with Rotationᵗ·p and back with Rotation·l.
package obb

import (
	"github.com/akmonengine/obbtree/geometry"
	"github.com/akmonengine/obbtree/linalg"
	"github.com/go-gl/mathgl/mgl64"
)

// OBB is an oriented bounding box over a subset of mesh triangles.
type OBB struct {
	Rotation linalg.Matrix3x3
	Bounds   Bounds

	LongAxis  Axis
	MedAxis   Axis
	ShortAxis Axis

	// Triangles holds the triangle ids of a leaf. Internal nodes leave it nil.
	Triangles []int
}

// New creates a box with the given orientation and local bounds, ranking its axes.
func New(rotation linalg.Matrix3x3, bounds Bounds) OBB {
	o := OBB{Rotation: rotation, Bounds: bounds}
	o.LongAxis, o.MedAxis, o.ShortAxis = RankAxes(bounds.Spans())

	return o
}

// Orientation returns the rotation as a quaternion
func (o OBB) Orientation() mgl64.Quat {
	return o.Rotation.Quat()
}

// Center returns the box center in object space
func (o OBB) Center() mgl64.Vec3 {
	return o.ToObject(o.Bounds.Center())
}

// HalfSize returns the half extents along the box axes
func (o OBB) HalfSize() mgl64.Vec3 {
	return o.Bounds.Size().Mul(0.5)
}

// Extent returns the (min, max) interval of the box along one of its axes
func (o OBB) Extent(axis Axis) (float64, float64) {
	axis.check()
	return o.Bounds.Min[axis], o.Bounds.Max[axis]
}

// AxisDirection returns the unit object-space direction of a box axis
func (o OBB) AxisDirection(axis Axis) mgl64.Vec3 {
	axis.check()
	return o.Rotation.Column(int(axis))
}

// ToLocal maps an object-space point into the box frame
func (o OBB) ToLocal(p mgl64.Vec3) mgl64.Vec3 {
	return o.Rotation.Transposed().MulVec(p)
}

// ToObject maps a box-frame point back into object space
func (o OBB) ToObject(p mgl64.Vec3) mgl64.Vec3 {
	return o.Rotation.MulVec(p)
}

// ContainsPoint checks if an object-space point lies inside the box, with tolerance eps
func (o OBB) ContainsPoint(p mgl64.Vec3, eps float64) bool {
	return o.Bounds.ContainsPoint(o.ToLocal(p), eps)
}

// IsLeaf reports whether the box carries a triangle set
func (o OBB) IsLeaf() bool {
	return len(o.Triangles) > 0
}

// Corners returns the 8 corners of the box in object space.
// Corner i takes Max on axis k when bit k of i is set.
func (o OBB) Corners() [8]mgl64.Vec3 {
	var corners [8]mgl64.Vec3
	for i := range corners {
		var local mgl64.Vec3
		for k := 0; k < 3; k++ {
			if i&(1<<k) != 0 {
				local[k] = o.Bounds.Max[k]
			} else {
				local[k] = o.Bounds.Min[k]
			}
		}
		corners[i] = o.ToObject(local)
	}

	return corners
}

// IntersectRay tests an object-space ray against the box. The ray is brought into the box
// frame and checked with the slab method; no distance is reported.
func (o OBB) IntersectRay(ray geometry.Ray) bool {
	inverse := o.Rotation.Transposed()

	return geometry.RayBoxIntersection(
		o.Bounds.Min,
		o.Bounds.Max,
		inverse.MulVec(ray.Origin),
		inverse.MulVec(ray.Direction),
	)
}

// Transformed places the box in world space, given the rigid transform of its object.
func (o OBB) Transformed(position mgl64.Vec3, rotation mgl64.Quat) Box {
	var axes [AxisCount]mgl64.Vec3
	for i := range axes {
		axes[i] = rotation.Rotate(o.Rotation.Column(i))
	}

	return Box{
		Center:   position.Add(rotation.Rotate(o.Center())),
		Axes:     axes,
		HalfSize: o.HalfSize(),
	}
}
