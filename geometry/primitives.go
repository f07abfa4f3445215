package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Epsilon is the base tolerance shared by the exact tests.
const Epsilon = 1e-5

// pointInTriangleTolerance is the slack, in degrees, allowed on the angle sum.
const pointInTriangleTolerance = 100 * Epsilon

// LinePlaneIntersection intersects the line through m with direction dir and the plane
// of normal n passing through p. It fails only when the line is parallel to the plane.
func LinePlaneIntersection(n, p, dir, m mgl64.Vec3) (mgl64.Vec3, bool) {
	dir = dir.Normalize()

	denom := n.Dot(dir)
	if denom == 0 {
		return mgl64.Vec3{}, false
	}

	// plane: n.x + d = 0
	d := -n.Dot(p)
	t := -(n.Dot(m) + d) / denom

	return m.Add(dir.Mul(t)), true
}

// SegmentPlaneIntersection intersects the segment [origin, extremity] with the plane of
// normal n passing through p. Segments with both endpoints strictly on the same side of
// the plane are rejected without solving anything.
func SegmentPlaneIntersection(n, p, origin, extremity mgl64.Vec3) (mgl64.Vec3, bool) {
	if n.Dot(origin.Sub(p))*n.Dot(extremity.Sub(p)) > 0 {
		return mgl64.Vec3{}, false
	}

	return LinePlaneIntersection(n, p, extremity.Sub(origin), origin)
}

// angleDegrees mirrors the usual engine convention: degenerate vectors subtend 0°.
func angleDegrees(a, b mgl64.Vec3) float64 {
	denom := math.Sqrt(a.LenSqr() * b.LenSqr())
	if denom < 1e-15 {
		return 0
	}

	cos := mgl64.Clamp(a.Dot(b)/denom, -1, 1)
	return mgl64.RadToDeg(math.Acos(cos))
}

// IsPointInTriangle reports whether pt, assumed to lie in the triangle plane, is inside
// the triangle (v1, v2, v3). The three angles subtended at pt by the triangle edges sum
// to 360° exactly when pt is inside or on an edge.
func IsPointInTriangle(v1, v2, v3, pt mgl64.Vec3) bool {
	u := v1.Sub(pt)
	v := v2.Sub(pt)
	w := v3.Sub(pt)

	sum := angleDegrees(u, v) + angleDegrees(v, w) + angleDegrees(w, u)

	return math.Abs(sum-360) < pointInTriangleTolerance
}

// SegmentTriangleIntersection returns the point where the segment [origin, extremity]
// crosses the triangle (v1, v2, v3).
func SegmentTriangleIntersection(v1, v2, v3, origin, extremity mgl64.Vec3) (mgl64.Vec3, bool) {
	n := v2.Sub(v1).Cross(v3.Sub(v1))
	if n.LenSqr() == 0 {
		// degenerate triangle, no supporting plane
		return mgl64.Vec3{}, false
	}
	n = n.Normalize()

	pt, ok := SegmentPlaneIntersection(n, v1, origin, extremity)
	if !ok || !IsPointInTriangle(v1, v2, v3, pt) {
		return mgl64.Vec3{}, false
	}

	return pt, true
}

// ShortestSegmentBetweenLines computes the closest points between the line (p1, p2) and
// the line (p3, p4), following Paul Bourke's closed-form solution. It fails when either
// line is degenerate or when the lines are parallel.
func ShortestSegmentBetweenLines(p1, p2, p3, p4 mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3, bool) {
	p13 := p1.Sub(p3)
	p43 := p4.Sub(p3)
	if p43.LenSqr() < Epsilon {
		return mgl64.Vec3{}, mgl64.Vec3{}, false
	}

	p21 := p2.Sub(p1)
	if p21.LenSqr() < Epsilon {
		return mgl64.Vec3{}, mgl64.Vec3{}, false
	}

	d1343 := p13.Dot(p43)
	d4321 := p43.Dot(p21)
	d1321 := p13.Dot(p21)
	d4343 := p43.Dot(p43)
	d2121 := p21.Dot(p21)

	denom := d2121*d4343 - d4321*d4321
	if math.Abs(denom) < Epsilon {
		return mgl64.Vec3{}, mgl64.Vec3{}, false
	}

	numer := d1343*d4321 - d1321*d4343

	mua := numer / denom
	mub := (d1343 + d4321*mua) / d4343

	return p1.Add(p21.Mul(mua)), p3.Add(p43.Mul(mub)), true
}

// LineLineIntersection returns the crossing point of the lines (p1, p2) and (p3, p4),
// if their closest points coincide within Epsilon.
func LineLineIntersection(p1, p2, p3, p4 mgl64.Vec3) (mgl64.Vec3, bool) {
	a, b, ok := ShortestSegmentBetweenLines(p1, p2, p3, p4)
	if !ok || b.Sub(a).LenSqr() >= Epsilon {
		return mgl64.Vec3{}, false
	}

	return a, true
}

// SegmentSegmentIntersection returns the crossing point of the segments [a1, a2] and
// [b1, b2]. The crossing point must lie strictly between the endpoints of both segments.
func SegmentSegmentIntersection(a1, a2, b1, b2 mgl64.Vec3) (mgl64.Vec3, bool) {
	pt, ok := LineLineIntersection(a1, a2, b1, b2)
	if !ok {
		return mgl64.Vec3{}, false
	}

	// Endpoints on opposite sides of pt give a negative dot product
	s1 := a1.Sub(pt).Dot(a2.Sub(pt))
	s2 := b1.Sub(pt).Dot(b2.Sub(pt))
	if s1 < 0 && s2 < 0 {
		return pt, true
	}

	return mgl64.Vec3{}, false
}

// ArePlanesCoplanar reports whether the plane (n1, p1) and the plane (n2, p2) are the
// same plane: normals colinear and p2 lying on the first plane.
func ArePlanesCoplanar(n1, p1, n2, p2 mgl64.Vec3) bool {
	if n1.Cross(n2).LenSqr() >= Epsilon {
		return false
	}

	return math.Abs(p2.Sub(p1).Dot(n1)) < Epsilon
}

// AreTrianglesCoplanar reports whether the triangles (u1, u2, u3) and (v1, v2, v3) lie in
// the same plane.
func AreTrianglesCoplanar(u1, u2, u3, v1, v2, v3 mgl64.Vec3) bool {
	n1 := u2.Sub(u1).Cross(u3.Sub(u1))
	n2 := v2.Sub(v1).Cross(v3.Sub(v1))

	return ArePlanesCoplanar(n1, u1, n2, v1)
}

// TriangleTriangleIntersection reports whether the triangles (v1, v2, v3) and
// (u1, u2, u3) intersect.
//
// Coplanar triangles intersect as soon as one edge of the first crosses one edge of the
// second (9 pairs). Otherwise it is enough to find one edge of either triangle crossing
// the other triangle (6 tests).
func TriangleTriangleIntersection(v1, v2, v3, u1, u2, u3 mgl64.Vec3) bool {
	vEdges := [3][2]mgl64.Vec3{{v1, v2}, {v2, v3}, {v1, v3}}
	uEdges := [3][2]mgl64.Vec3{{u1, u2}, {u2, u3}, {u1, u3}}

	if AreTrianglesCoplanar(v1, v2, v3, u1, u2, u3) {
		for _, ve := range vEdges {
			for _, ue := range uEdges {
				if _, ok := SegmentSegmentIntersection(ve[0], ve[1], ue[0], ue[1]); ok {
					return true
				}
			}
		}
		return false
	}

	for _, ue := range uEdges {
		if _, ok := SegmentTriangleIntersection(v1, v2, v3, ue[0], ue[1]); ok {
			return true
		}
	}
	for _, ve := range vEdges {
		if _, ok := SegmentTriangleIntersection(u1, u2, u3, ve[0], ve[1]); ok {
			return true
		}
	}

	return false
}
