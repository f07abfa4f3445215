package actor

import (
	"math"

	"github.com/akmonengine/obbtree/tree"
	"github.com/go-gl/mathgl/mgl64"
)

// ShapeType represents the type of primitive shape
type ShapeType int

const (
	ShapeTypeSphere ShapeType = iota
	ShapeTypeBox
	ShapeTypePlane
)

const (
	DefaultSphereRings    = 8
	DefaultSphereSegments = 16
)

// ShapeInterface is a primitive that can be triangulated into a mesh, in local space
type ShapeInterface interface {
	Type() ShapeType
	Mesh() tree.Mesh
	// Support returns the farthest point of the shape along direction, in local space.
	// Object AABBs are built from it.
	Support(direction mgl64.Vec3) mgl64.Vec3
}

// NewShapeObject builds the tree of a shape and places it at transform
func NewShapeObject(name string, transform Transform, shape ShapeInterface, opts ...tree.Option) (*Object, error) {
	t, err := tree.Build(shape.Mesh(), opts...)
	if err != nil {
		return nil, err
	}

	o := NewObject(name, transform, t)
	o.shape = shape
	o.ComputeAABB()

	return o, nil
}

// appendQuad splits the quad abcd into two triangles with the same winding
func appendQuad(indices []int, a, b, c, d int) []int {
	return append(indices, a, b, c, a, c, d)
}

// Box represents a box centered on the origin
// The box is defined by its half-extents (half-width, half-height, half-depth)
type Box struct {
	HalfExtents mgl64.Vec3
}

func (b *Box) Type() ShapeType {
	return ShapeTypeBox
}

// Mesh returns the 12 triangles of the box, counter-clockwise seen from outside
func (b *Box) Mesh() tree.Mesh {
	// corner i takes +HalfExtents on axis k when bit k of i is set
	vertices := make([]mgl64.Vec3, 8)
	for i := range vertices {
		for k := 0; k < 3; k++ {
			if i&(1<<k) != 0 {
				vertices[i][k] = b.HalfExtents[k]
			} else {
				vertices[i][k] = -b.HalfExtents[k]
			}
		}
	}

	indices := make([]int, 0, 36)
	indices = appendQuad(indices, 0, 2, 3, 1) // -Z
	indices = appendQuad(indices, 4, 5, 7, 6) // +Z
	indices = appendQuad(indices, 0, 1, 5, 4) // -Y
	indices = appendQuad(indices, 2, 6, 7, 3) // +Y
	indices = appendQuad(indices, 0, 4, 6, 2) // -X
	indices = appendQuad(indices, 1, 3, 7, 5) // +X

	return tree.Mesh{Vertices: vertices, Indices: indices}
}

func (b *Box) Support(direction mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{
		math.Copysign(b.HalfExtents.X(), direction.X()),
		math.Copysign(b.HalfExtents.Y(), direction.Y()),
		math.Copysign(b.HalfExtents.Z(), direction.Z()),
	}
}

// Sphere represents a UV sphere centered on the origin, with Y as its polar axis.
// Zero Rings or Segments fall back to the defaults.
type Sphere struct {
	Radius   float64
	Rings    int
	Segments int
}

func (s *Sphere) Type() ShapeType {
	return ShapeTypeSphere
}

func (s *Sphere) resolution() (int, int) {
	rings, segments := s.Rings, s.Segments
	if rings < 2 {
		rings = DefaultSphereRings
	}
	if segments < 3 {
		segments = DefaultSphereSegments
	}

	return rings, segments
}

// Mesh returns the triangulated sphere: two pole fans and rings-2 bands of quads
func (s *Sphere) Mesh() tree.Mesh {
	rings, segments := s.resolution()

	vertices := make([]mgl64.Vec3, 0, 2+(rings-1)*segments)
	vertices = append(vertices, mgl64.Vec3{0, s.Radius, 0})
	for r := 1; r < rings; r++ {
		phi := math.Pi * float64(r) / float64(rings)
		for k := 0; k < segments; k++ {
			theta := 2 * math.Pi * float64(k) / float64(segments)
			vertices = append(vertices, mgl64.Vec3{
				s.Radius * math.Sin(phi) * math.Cos(theta),
				s.Radius * math.Cos(phi),
				s.Radius * math.Sin(phi) * math.Sin(theta),
			})
		}
	}
	vertices = append(vertices, mgl64.Vec3{0, -s.Radius, 0})

	top, bottom := 0, len(vertices)-1
	ring := func(r, k int) int {
		return 1 + (r-1)*segments + k%segments
	}

	indices := make([]int, 0, 6*segments*(rings-1))
	for k := 0; k < segments; k++ {
		indices = append(indices, top, ring(1, k+1), ring(1, k))
		for r := 1; r < rings-1; r++ {
			indices = appendQuad(indices, ring(r, k), ring(r, k+1), ring(r+1, k+1), ring(r+1, k))
		}
		indices = append(indices, bottom, ring(rings-1, k), ring(rings-1, k+1))
	}

	return tree.Mesh{Vertices: vertices, Indices: indices}
}

func (s *Sphere) Support(direction mgl64.Vec3) mgl64.Vec3 {
	if direction.LenSqr() == 0 {
		return mgl64.Vec3{0, s.Radius, 0}
	}
	return direction.Normalize().Mul(s.Radius)
}

// Plane represents a square patch of the plane Normal · p + Distance = 0
// Normal must be normalized. The patch spans HalfSize on both sides of the point closest
// to the origin, split into Subdivisions² quads (at least one).
type Plane struct {
	Normal       mgl64.Vec3
	Distance     float64
	HalfSize     float64
	Subdivisions int
}

func (p *Plane) Type() ShapeType {
	return ShapeTypePlane
}

func (p *Plane) center() mgl64.Vec3 {
	return p.Normal.Mul(-p.Distance)
}

// Mesh returns the grid of the patch, counter-clockwise seen from the normal side
func (p *Plane) Mesh() tree.Mesh {
	n := max(1, p.Subdivisions)
	tangent1, tangent2 := getTangentBasis(p.Normal)
	center := p.center()
	step := 2 * p.HalfSize / float64(n)

	vertices := make([]mgl64.Vec3, 0, (n+1)*(n+1))
	for j := 0; j <= n; j++ {
		for i := 0; i <= n; i++ {
			u := -p.HalfSize + float64(i)*step
			v := -p.HalfSize + float64(j)*step
			vertices = append(vertices, center.Add(tangent1.Mul(u)).Add(tangent2.Mul(v)))
		}
	}

	index := func(i, j int) int {
		return j*(n+1) + i
	}

	indices := make([]int, 0, 6*n*n)
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			indices = appendQuad(indices, index(i, j), index(i+1, j), index(i+1, j+1), index(i, j+1))
		}
	}

	return tree.Mesh{Vertices: vertices, Indices: indices}
}

func (p *Plane) Support(direction mgl64.Vec3) mgl64.Vec3 {
	tangent1, tangent2 := getTangentBasis(p.Normal)

	return p.center().
		Add(tangent1.Mul(math.Copysign(p.HalfSize, direction.Dot(tangent1)))).
		Add(tangent2.Mul(math.Copysign(p.HalfSize, direction.Dot(tangent2))))
}

// Helper to generate the tangent basis
func getTangentBasis(normal mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3) {
	var tangent1 mgl64.Vec3
	if math.Abs(normal.X()) > 0.9 {
		tangent1 = mgl64.Vec3{0, 1, 0}
	} else {
		tangent1 = mgl64.Vec3{1, 0, 0}
	}

	tangent1 = tangent1.Sub(normal.Mul(tangent1.Dot(normal))).Normalize()
	tangent2 := normal.Cross(tangent1).Normalize()

	return tangent1, tangent2
}
