// Package linalg provides the 3x3 matrix used to express oriented bounding box frames,
// including the symmetric eigen-decomposition that turns a covariance matrix into box axes.
package linalg

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

// ErrIndexOutOfRange is the panic value (wrapped) raised on an invalid matrix index.
var ErrIndexOutOfRange = errors.New("invalid matrix index")

// Matrix3x3 is a column-major 3x3 matrix. Flat index i addresses row i%3 of column i/3,
// the same layout as mgl64.Mat3.
type Matrix3x3 mgl64.Mat3

// Zero returns the zero matrix.
func Zero() Matrix3x3 {
	return Matrix3x3{}
}

// Identity returns the identity matrix.
func Identity() Matrix3x3 {
	return Matrix3x3(mgl64.Ident3())
}

// FromColumns builds a matrix whose columns are c0, c1 and c2.
func FromColumns(c0, c1, c2 mgl64.Vec3) Matrix3x3 {
	return Matrix3x3{
		c0[0], c0[1], c0[2],
		c1[0], c1[1], c1[2],
		c2[0], c2[1], c2[2],
	}
}

func checkAxis(i int) {
	if i < 0 || i > 2 {
		panic(errors.Wrapf(ErrIndexOutOfRange, "row/column %d", i))
	}
}

// Index returns the element at flat index i (0-8, column-major).
func (m Matrix3x3) Index(i int) float64 {
	if i < 0 || i > 8 {
		panic(errors.Wrapf(ErrIndexOutOfRange, "flat index %d", i))
	}
	return m[i]
}

// SetIndex sets the element at flat index i (0-8, column-major).
func (m *Matrix3x3) SetIndex(i int, value float64) {
	if i < 0 || i > 8 {
		panic(errors.Wrapf(ErrIndexOutOfRange, "flat index %d", i))
	}
	m[i] = value
}

// At returns the element at row, col.
func (m Matrix3x3) At(row, col int) float64 {
	checkAxis(row)
	checkAxis(col)
	return m[row+col*3]
}

// Set sets the element at row, col.
func (m *Matrix3x3) Set(row, col int, value float64) {
	checkAxis(row)
	checkAxis(col)
	m[row+col*3] = value
}

// Column returns column i.
func (m Matrix3x3) Column(i int) mgl64.Vec3 {
	checkAxis(i)
	return mgl64.Vec3{m[i*3], m[i*3+1], m[i*3+2]}
}

// Row returns row i.
func (m Matrix3x3) Row(i int) mgl64.Vec3 {
	checkAxis(i)
	return mgl64.Vec3{m[i], m[i+3], m[i+6]}
}

// SetColumn replaces column i with v.
func (m *Matrix3x3) SetColumn(i int, v mgl64.Vec3) {
	checkAxis(i)
	m[i*3], m[i*3+1], m[i*3+2] = v[0], v[1], v[2]
}

// SetRow replaces row i with v.
func (m *Matrix3x3) SetRow(i int, v mgl64.Vec3) {
	checkAxis(i)
	m[i], m[i+3], m[i+6] = v[0], v[1], v[2]
}

// Transposed returns the transpose of m. For a rotation matrix this is its inverse.
func (m Matrix3x3) Transposed() Matrix3x3 {
	return Matrix3x3(mgl64.Mat3(m).Transpose())
}

// Mul returns m * other.
func (m Matrix3x3) Mul(other Matrix3x3) Matrix3x3 {
	return Matrix3x3(mgl64.Mat3(m).Mul3(mgl64.Mat3(other)))
}

// MulVec returns m * v.
func (m Matrix3x3) MulVec(v mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Mat3(m).Mul3x1(v)
}

// Equal reports exact element-wise equality.
func (m Matrix3x3) Equal(other Matrix3x3) bool {
	return m == other
}

// ApproxEqual reports element-wise equality within eps.
func (m Matrix3x3) ApproxEqual(other Matrix3x3, eps float64) bool {
	for i := range m {
		d := m[i] - other[i]
		if d > eps || d < -eps {
			return false
		}
	}
	return true
}

// Quat converts a right-handed rotation matrix into a unit quaternion.
func (m Matrix3x3) Quat() mgl64.Quat {
	return mgl64.Mat4ToQuat(mgl64.Mat3(m).Mat4()).Normalize()
}
