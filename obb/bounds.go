package obb

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Bounds is an axis-aligned extent expressed in the local frame of an OBB.
type Bounds struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

// EmptyBounds returns inverted bounds, ready to be grown with Extend.
func EmptyBounds() Bounds {
	inf := mgl64.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	return Bounds{Min: inf, Max: inf.Mul(-1)}
}

// Extend grows the bounds to include p
func (b *Bounds) Extend(p mgl64.Vec3) {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] {
			b.Min[i] = p[i]
		}
		if p[i] > b.Max[i] {
			b.Max[i] = p[i]
		}
	}
}

func (b Bounds) Center() mgl64.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

func (b Bounds) Size() mgl64.Vec3 {
	return b.Max.Sub(b.Min)
}

// Span returns max - min along axis
func (b Bounds) Span(axis Axis) float64 {
	axis.check()
	return b.Max[axis] - b.Min[axis]
}

// Spans returns the span of every axis, indexed by Axis
func (b Bounds) Spans() [AxisCount]float64 {
	s := b.Size()
	return [AxisCount]float64{s[0], s[1], s[2]}
}

// ContainsPoint checks if a local point is inside the bounds, widened by eps on every side
func (b Bounds) ContainsPoint(p mgl64.Vec3, eps float64) bool {
	return p.X() >= b.Min.X()-eps && p.X() <= b.Max.X()+eps &&
		p.Y() >= b.Min.Y()-eps && p.Y() <= b.Max.Y()+eps &&
		p.Z() >= b.Min.Z()-eps && p.Z() <= b.Max.Z()+eps
}
