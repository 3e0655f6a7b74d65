package dynfit

import "gonum.org/v1/gonum/mat"

// Estimate is a latent state estimate
type Estimate interface {
	// Regime returns the regime of the estimate
	Regime() int
	// Val returns estimate value
	Val() mat.Vector
	// Cov returns estimate error covariance
	Cov() mat.Symmetric
}

// Noise is additive model noise used to simulate panel data
type Noise interface {
	// Mean returns noise mean
	Mean() []float64
	// Cov returns covariance matrix of the noise
	Cov() mat.Symmetric
	// Sample returns a sample of the noise
	Sample() mat.Vector
	// Reset resets the noise
	Reset() error
}
