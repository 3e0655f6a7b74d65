package matrix

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Inverse computes the inverse of a using LU decomposition and stores it in dst.
// dst must be allocated with the same shape as a.
func Inverse(dst *mat.Dense, a mat.Matrix) {
	InverseDet(dst, a)
}

// InverseDet computes the inverse of a and stores it in dst. It returns the determinant
// of a computed from the same LU factorization.
//
// Ill-conditioned matrices are inverted anyway. If a is exactly singular the
// returned determinant is 0 and dst is filled with NaN.
func InverseDet(dst *mat.Dense, a mat.Matrix) float64 {
	var lu mat.LU
	lu.Factorize(a)

	det := lu.Det()

	n, _ := a.Dims()
	eye := mat.NewDiagDense(n, nil)
	for i := 0; i < n; i++ {
		eye.SetDiag(i, 1.0)
	}

	if err := lu.SolveTo(dst, false, eye); err != nil {
		// mat.Condition is returned both for ill-conditioned and singular matrices;
		// only the singular case leaves dst untouched.
		if cond, ok := err.(mat.Condition); ok && math.IsInf(float64(cond), 1) {
			fill(dst, math.NaN())
		}
	}

	return det
}

// Mul computes dst = op(a) * op(b) where op transposes its argument if the
// corresponding flag is set.
func Mul(dst *mat.Dense, a, b mat.Matrix, transA, transB bool) {
	if transA {
		a = a.T()
	}

	if transB {
		b = b.T()
	}

	dst.Mul(a, b)
}

// Trace returns the trace of the square matrix a.
func Trace(a mat.Matrix) float64 {
	return mat.Trace(a)
}

// Scale computes dst = c * a.
func Scale(dst *mat.Dense, a mat.Matrix, c float64) {
	dst.Scale(c, a)
}

// ScaleVec computes dst = c * a.
func ScaleVec(dst *mat.VecDense, a mat.Vector, c float64) {
	dst.ScaleVec(c, a)
}

// DiagIn sets the diagonal of dst to c * v. Off-diagonal elements of dst are left untouched.
func DiagIn(dst *mat.Dense, v mat.Vector, c float64) {
	for i := 0; i < v.Len(); i++ {
		dst.Set(i, i, c*v.AtVec(i))
	}
}

// DiagOut stores c * diag(a) in dst.
func DiagOut(dst *mat.VecDense, a mat.Matrix, c float64) {
	for i := 0; i < dst.Len(); i++ {
		dst.SetVec(i, c*a.At(i, i))
	}
}

func fill(m *mat.Dense, v float64) {
	r, c := m.Dims()
	for i := 0; i < r; i++ {
		row := m.RawRowView(i)
		for j := 0; j < c; j++ {
			row[j] = v
		}
	}
}
