package actor

import "github.com/go-gl/mathgl/mgl64"

// Transform places an object in the world: a rotation followed by a translation.
// There is no scale, trees are queried in the object space of their mesh.
type Transform struct {
	Position        mgl64.Vec3
	Rotation        mgl64.Quat
	InverseRotation mgl64.Quat
}

// NewTransform creates an identity transform
func NewTransform() Transform {
	return Transform{
		Position:        mgl64.Vec3{0, 0, 0},
		Rotation:        mgl64.QuatIdent(),
		InverseRotation: mgl64.QuatIdent(),
	}
}

// NewTransformAt creates a transform from a position and a rotation
func NewTransformAt(position mgl64.Vec3, rotation mgl64.Quat) Transform {
	t := Transform{Position: position}
	t.SetRotation(rotation)

	return t
}

// SetRotation normalizes and stores the rotation, keeping InverseRotation in sync
func (t *Transform) SetRotation(rotation mgl64.Quat) {
	t.Rotation = rotation.Normalize()
	t.InverseRotation = t.Rotation.Inverse()
}

func (t Transform) PointToLocal(p mgl64.Vec3) mgl64.Vec3 {
	return t.InverseRotation.Rotate(p.Sub(t.Position))
}

func (t Transform) PointToWorld(p mgl64.Vec3) mgl64.Vec3 {
	return t.Rotation.Rotate(p).Add(t.Position)
}

func (t Transform) DirectionToLocal(d mgl64.Vec3) mgl64.Vec3 {
	return t.InverseRotation.Rotate(d)
}

func (t Transform) DirectionToWorld(d mgl64.Vec3) mgl64.Vec3 {
	return t.Rotation.Rotate(d)
}
