package noise

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// FromLDL decodes the log/LDL encoded covariance enc and stores L*D*L^T in dst.
// The diagonal of enc holds the logarithms of the elements of the diagonal matrix D,
// the strict lower triangle of enc holds the strict lower triangle of the unit
// lower-triangular matrix L. The strict upper triangle of enc is ignored.
//
// dst is resized to the size of enc if it is empty.
func FromLDL(dst *mat.SymDense, enc mat.Matrix) {
	n, _ := enc.Dims()
	if dst.IsEmpty() {
		dst.ReuseAsSym(n)
	}

	l := mat.NewTriDense(n, mat.Lower, nil)
	d := make([]float64, n)
	for i := 0; i < n; i++ {
		d[i] = math.Exp(enc.At(i, i))
		l.SetTri(i, i, 1.0)
		for j := 0; j < i; j++ {
			l.SetTri(i, j, enc.At(i, j))
		}
	}

	// L*D scales the columns of L
	ld := mat.NewDense(n, n, nil)
	ld.Mul(l, mat.NewDiagDense(n, d))

	// (L*D)*L^T is symmetric, only the upper triangle is computed
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			var v float64
			for k := 0; k <= i; k++ {
				v += ld.At(i, k) * l.At(j, k)
			}
			dst.SetSym(i, j, v)
		}
	}
}
