// Package matrix provides dense linear algebra primitives used by the integrators
// and likelihood functions. All functions operate on caller-allocated outputs.
// Shapes are preconditions: mismatched shapes panic inside gonum and are not checked here.
package matrix

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// RowSums returns a slice containing m row sums.
// It panics if m is nil.
func RowSums(m *mat.Dense) []float64 {
	rows, _ := m.Dims()
	sum := make([]float64, rows)

	for i := 0; i < rows; i++ {
		sum[i] = floats.Sum(m.RawRowView(i))
	}

	return sum
}

// ColSums returns a slice containing m column sums.
// It panics if m is nil.
func ColSums(m *mat.Dense) []float64 {
	_, cols := m.Dims()
	sum := make([]float64, cols)

	for i := 0; i < cols; i++ {
		sum[i] = mat.Sum(m.ColView(i))
	}

	return sum
}

// SumVec returns the sum of all elements of v.
func SumVec(v mat.Vector) float64 {
	return mat.Sum(v)
}

// MinOf3 returns the smallest of x, y and z.
func MinOf3(x, y, z float64) float64 {
	return math.Min(x, math.Min(y, z))
}

// HasNonFinite returns true if m contains NaN or Inf.
func HasNonFinite(m mat.Matrix) bool {
	r, c := m.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := m.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return true
			}
		}
	}

	return false
}
