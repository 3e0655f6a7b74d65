package model

import (
	"fmt"
	"math"

	"github.com/milosgajdos/go-dynfit/matrix"
	"gonum.org/v1/gonum/mat"
)

// CheckStochastic returns error if m is not a square right-stochastic matrix:
// all its entries must be non-negative and every row must sum to 1 within tol.
func CheckStochastic(m *mat.Dense, tol float64) error {
	r, c := m.Dims()
	if r != c {
		return fmt.Errorf("invalid regime switch matrix dimensions: [%d x %d]", r, c)
	}

	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if v := m.At(i, j); v < 0 || math.IsNaN(v) {
				return fmt.Errorf("invalid transition probability at (%d, %d): %f", i, j, v)
			}
		}
	}

	for i, sum := range matrix.RowSums(m) {
		if math.Abs(sum-1.0) > tol {
			return fmt.Errorf("invalid transition probabilities: row %d sums to %f", i, sum)
		}
	}

	return nil
}
