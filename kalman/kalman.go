// Package kalman defines Kalman filter building blocks for continuous-time models fitted to panel data.
package kalman

import (
	"github.com/milosgajdos/go-dynfit/estimate"
	"gonum.org/v1/gonum/mat"
)

// Filter is a single observation step of a Kalman filter
type Filter interface {
	// Predict propagates estimate between two observation times
	Predict(est *estimate.Base, start, end float64, t int, params []float64, covariate mat.Vector) (*estimate.Base, error)
	// LogLike returns the log-likelihood of observation y given predicted estimate
	LogLike(est *estimate.Base, y mat.Vector, t int, params []float64, covariate mat.Vector) float64
}
