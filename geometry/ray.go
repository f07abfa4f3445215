// Package geometry holds the exact, non-accelerated intersection tests used once a
// bounding volume hierarchy has narrowed a query down to a handful of triangles.
package geometry

import "github.com/go-gl/mathgl/mgl64"

// Ray is a half-line starting at Origin and extending along Direction.
// Direction does not need to be normalized.
type Ray struct {
	Origin    mgl64.Vec3
	Direction mgl64.Vec3
}

// NewRay creates a ray from an origin and a direction
func NewRay(origin, direction mgl64.Vec3) Ray {
	return Ray{Origin: origin, Direction: direction}
}

// At returns the point Origin + t*Direction
func (r Ray) At(t float64) mgl64.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// Segment returns the bounded segment [Origin, Origin + length*Direction] used to
// approximate the ray at scene scale.
func (r Ray) Segment(length float64) (mgl64.Vec3, mgl64.Vec3) {
	return r.Origin, r.At(length)
}
