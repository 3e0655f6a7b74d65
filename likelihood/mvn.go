// Package likelihood implements zero-mean multivariate normal densities
// and log-domain weight normalization.
//
// None of the functions clamp or reject degenerate input: a singular or
// indefinite covariance yields NaN or Inf which callers are expected to detect.
package likelihood

import (
	"math"

	"github.com/milosgajdos/go-dynfit/matrix"
	"gonum.org/v1/gonum/mat"
)

// LogNormal returns the log-density of residual x under a zero-mean
// multivariate normal distribution with covariance cov.
// The determinant and the inverse of cov come from a single LU factorization
// of a copy of cov; cov itself is not modified.
func LogNormal(x mat.Vector, cov mat.Matrix) float64 {
	n := x.Len()

	inv := mat.NewDense(n, n, nil)
	det := matrix.InverseDet(inv, cov)

	return -logDensityTerms(x, inv, det)
}

// NegLogNormalInv returns the negative log-density of residual x under a
// zero-mean multivariate normal distribution given the inverse inv of its
// covariance and the covariance determinant det.
//
// Unlike LogNormal this returns the negative log-density.
func NegLogNormalInv(x mat.Vector, inv mat.Matrix, det float64) float64 {
	return logDensityTerms(x, inv, det)
}

// logDensityTerms returns n/2*log(2*pi) + log(det)/2 + x'*inv*x/2.
func logDensityTerms(x mat.Vector, inv mat.Matrix, det float64) float64 {
	n := x.Len()

	y := mat.NewVecDense(n, nil)
	y.MulVec(inv, x)
	mu := mat.Dot(x, y)

	return float64(n)/2.0*math.Log(2*math.Pi) + math.Log(det)/2.0 + mu/2.0
}
