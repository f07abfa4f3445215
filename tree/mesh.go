package tree

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

var (
	ErrEmptyMesh       = errors.New("mesh has no triangle")
	ErrIndexCount      = errors.New("index count is not a multiple of 3")
	ErrIndexOutOfRange = errors.New("vertex index out of range")
	ErrInvalidTriangle = errors.New("invalid triangle id")
)

// maxReportedDangling caps the number of dangling indices listed individually
const maxReportedDangling = 8

// Mesh is the read-only triangle soup a tree is built over.
// Triangle i is made of the vertices Indices[3i], Indices[3i+1] and Indices[3i+2].
type Mesh struct {
	Vertices []mgl64.Vec3
	Indices  []int
}

// TriangleCount returns the number of complete triangles
func (m Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Triangle returns the three vertices of triangle id. It panics on an invalid id.
func (m Mesh) Triangle(id int) [3]mgl64.Vec3 {
	if id < 0 || id >= m.TriangleCount() {
		panic(errors.Wrapf(ErrInvalidTriangle, "triangle %d of %d", id, m.TriangleCount()))
	}

	i := id * 3
	return [3]mgl64.Vec3{
		m.Vertices[m.Indices[i]],
		m.Vertices[m.Indices[i+1]],
		m.Vertices[m.Indices[i+2]],
	}
}

// Validate checks the mesh can be built. Every problem found is reported, combined with multierr.
func (m Mesh) Validate() error {
	var err error

	if len(m.Indices) < 3 {
		err = multierr.Append(err, ErrEmptyMesh)
	}
	if len(m.Indices)%3 != 0 {
		err = multierr.Append(err, errors.Wrapf(ErrIndexCount, "%d indices", len(m.Indices)))
	}

	dangling := 0
	for i, index := range m.Indices {
		if index >= 0 && index < len(m.Vertices) {
			continue
		}

		dangling++
		if dangling <= maxReportedDangling {
			err = multierr.Append(err, errors.Wrapf(ErrIndexOutOfRange, "index %d at position %d (%d vertices)", index, i, len(m.Vertices)))
		}
	}
	if dangling > maxReportedDangling {
		err = multierr.Append(err, errors.Errorf("%d more dangling indices", dangling-maxReportedDangling))
	}

	return err
}
