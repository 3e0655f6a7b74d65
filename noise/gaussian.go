// Package noise provides measurement and process noise used when simulating
// panel data, and decodes the log/LDL encoded covariances filled by model noise functions.
package noise

import (
	"fmt"

	"github.com/milosgajdos/go-dynfit/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"
)

// Gaussian is gaussian noise
type Gaussian struct {
	// dist is a multivariate normal distribution
	dist *distmv.Normal
	// src is the source of randomness
	src *rand.Source
	// mean is Gaussian mean
	mean []float64
	// cov is Gaussian covariance
	cov mat.Symmetric
}

// NewGaussian creates new Gaussian noise with given mean and covariance drawing from src.
// It returns error if it fails to create Gaussian.
func NewGaussian(mean []float64, cov mat.Symmetric, src *rand.Source) (*Gaussian, error) {
	if src == nil {
		return nil, fmt.Errorf("invalid random source: %v", src)
	}

	dist, ok := distmv.NewNormal(mean, cov, src.Src())
	if !ok {
		return nil, fmt.Errorf("failed to create new Gaussian noise")
	}

	return &Gaussian{
		dist: dist,
		src:  src,
		mean: mean,
		cov:  cov,
	}, nil
}

// NewGaussianLDL creates new zero mean Gaussian noise whose covariance is decoded
// from the log/LDL encoded matrix enc with FromLDL.
// It returns error if the decoded covariance is not positive definite.
func NewGaussianLDL(enc mat.Matrix, src *rand.Source) (*Gaussian, error) {
	n, _ := enc.Dims()
	cov := mat.NewSymDense(n, nil)
	FromLDL(cov, enc)

	return NewGaussian(make([]float64, n), cov, src)
}

// Sample generates a sample from Gaussian noise and returns it.
func (g *Gaussian) Sample() mat.Vector {
	r := g.dist.Rand(nil)
	return mat.NewVecDense(len(r), r)
}

// Cov returns covariance matrix of Gaussian noise.
func (g *Gaussian) Cov() mat.Symmetric {
	return g.cov
}

// Mean returns Gaussian mean.
func (g *Gaussian) Mean() []float64 {
	return g.mean
}

// Reset resets Gaussian noise.
// The source is not reseeded: samples drawn after Reset continue the source sequence.
// It returns error if it fails to reset the noise.
func (g *Gaussian) Reset() error {
	dist, ok := distmv.NewNormal(g.mean, g.cov, g.src.Src())
	if !ok {
		return fmt.Errorf("failed to reset Gaussian noise")
	}
	g.dist = dist

	return nil
}

// String implements the Stringer interface.
func (g *Gaussian) String() string {
	return fmt.Sprintf("Gaussian{\nMean=%v\nCov=%v\n}", g.mean, mat.Formatted(g.cov, mat.Prefix("    "), mat.Squeeze()))
}
