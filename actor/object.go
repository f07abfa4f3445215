package actor

import (
	"github.com/akmonengine/obbtree/geometry"
	"github.com/akmonengine/obbtree/obb"
	"github.com/akmonengine/obbtree/tree"
	"github.com/go-gl/mathgl/mgl64"
)

// Object is a mesh placed in the world through its tree.
type Object struct {
	Name      string
	Transform Transform
	Tree      *tree.Tree

	// shape is set for objects built from a primitive, see NewShapeObject
	shape ShapeInterface
	aabb  AABB
}

// NewObject creates an object and computes its world AABB
func NewObject(name string, transform Transform, t *tree.Tree) *Object {
	o := &Object{
		Name:      name,
		Transform: transform,
		Tree:      t,
	}
	o.ComputeAABB()

	return o
}

// SetTransform moves the object and refreshes its AABB
func (o *Object) SetTransform(transform Transform) {
	o.Transform = transform
	o.ComputeAABB()
}

// ComputeAABB recomputes the world AABB. Shape objects use the support points of their
// shape along the world axes, other objects the corners of their root box.
func (o *Object) ComputeAABB() {
	if o.shape != nil {
		o.aabb = o.supportAABB()
		return
	}

	corners := o.WorldBox(o.Tree.Root()).Corners()
	o.aabb = AABBFromPoints(corners[:]...)
}

func (o *Object) supportAABB() AABB {
	var aabb AABB
	for k := 0; k < 3; k++ {
		var axis mgl64.Vec3
		axis[k] = 1

		local := o.Transform.DirectionToLocal(axis)
		aabb.Max[k] = o.Transform.PointToWorld(o.shape.Support(local))[k]
		aabb.Min[k] = o.Transform.PointToWorld(o.shape.Support(local.Mul(-1)))[k]
	}

	return aabb
}

func (o *Object) AABB() AABB {
	return o.aabb
}

// WorldBox returns the box of a node of the object tree, placed in world space
func (o *Object) WorldBox(node *tree.Node) obb.Box {
	return node.OBB.Transformed(o.Transform.Position, o.Transform.Rotation)
}

// Raycast intersects a world-space ray with the object. The ray is brought into the
// object space of the mesh, and the resulting point back into world space.
// Distances are unchanged by the rigid transform.
func (o *Object) Raycast(ray geometry.Ray) (tree.Hit, bool) {
	local := geometry.NewRay(
		o.Transform.PointToLocal(ray.Origin),
		o.Transform.DirectionToLocal(ray.Direction),
	)

	hit, ok := o.Tree.Raycast(local)
	hit.Point = o.Transform.PointToWorld(hit.Point)

	return hit, ok
}
