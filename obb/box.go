package obb

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// parallelThreshold discards cross-product axes of nearly parallel edges
const parallelThreshold = 1e-9

// Box is an oriented box placed in world space.
type Box struct {
	Center   mgl64.Vec3
	Axes     [AxisCount]mgl64.Vec3
	HalfSize mgl64.Vec3
}

// Corners returns the 8 world-space corners, with the same ordering as OBB.Corners
func (b Box) Corners() [8]mgl64.Vec3 {
	var corners [8]mgl64.Vec3
	for i := range corners {
		p := b.Center
		for k := 0; k < 3; k++ {
			offset := b.Axes[k].Mul(b.HalfSize[k])
			if i&(1<<k) != 0 {
				p = p.Add(offset)
			} else {
				p = p.Sub(offset)
			}
		}
		corners[i] = p
	}

	return corners
}

// Overlaps tests two boxes with the separating axis theorem: 3 face normals of each box,
// plus the 9 cross products of their edges.
func (b Box) Overlaps(other Box) bool {
	t := other.Center.Sub(b.Center)

	for i := 0; i < 3; i++ {
		if !b.overlapOnAxis(other, b.Axes[i], t) {
			return false
		}
	}
	for i := 0; i < 3; i++ {
		if !b.overlapOnAxis(other, other.Axes[i], t) {
			return false
		}
	}

	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			axis := b.Axes[i].Cross(other.Axes[j])
			if axis.LenSqr() < parallelThreshold {
				continue
			}
			if !b.overlapOnAxis(other, axis.Normalize(), t) {
				return false
			}
		}
	}

	return true
}

// projectedRadius is the half length of the box shadow on axis
func (b Box) projectedRadius(axis mgl64.Vec3) float64 {
	return b.HalfSize[0]*math.Abs(b.Axes[0].Dot(axis)) +
		b.HalfSize[1]*math.Abs(b.Axes[1].Dot(axis)) +
		b.HalfSize[2]*math.Abs(b.Axes[2].Dot(axis))
}

func (b Box) overlapOnAxis(other Box, axis, t mgl64.Vec3) bool {
	distance := math.Abs(t.Dot(axis))

	return distance <= b.projectedRadius(axis)+other.projectedRadius(axis)
}
