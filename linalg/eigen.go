package linalg

import (
	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/mat"
)

// EigenDecompose computes the eigenvectors and eigenvalues of m, which must be symmetric
// (only the upper triangle is read). Vectors are unit length and mutually orthogonal,
// ordered by ascending eigenvalue as gonum produces them. When the factorization does not
// converge the identity basis is returned with ok == false: it is still a valid orthonormal
// basis, so callers fitting boxes can carry on with axis-aligned axes.
func (m Matrix3x3) EigenDecompose() (vectors [3]mgl64.Vec3, values [3]float64, ok bool) {
	sym := mat.NewSymDense(3, []float64{
		m[0], m[3], m[6],
		m[3], m[4], m[7],
		m[6], m[7], m[8],
	})

	var eig mat.EigenSym
	if !eig.Factorize(sym, true) {
		return [3]mgl64.Vec3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}, values, false
	}

	var vecs mat.Dense
	eig.VectorsTo(&vecs)
	vals := eig.Values(nil)

	for c := 0; c < 3; c++ {
		vectors[c] = mgl64.Vec3{vecs.At(0, c), vecs.At(1, c), vecs.At(2, c)}.Normalize()
		values[c] = vals[c]
	}
	return vectors, values, true
}

// EigenVectors returns the three orthonormal eigenvectors of the symmetric matrix m.
func (m Matrix3x3) EigenVectors() [3]mgl64.Vec3 {
	vectors, _, _ := m.EigenDecompose()
	return vectors
}
