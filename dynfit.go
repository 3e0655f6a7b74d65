// Package dynfit defines the capability set of continuous-time, regime-switching
// dynamical models fitted to panel data: model callbacks, dimensions and solvers.
package dynfit

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// DynamicsFunc computes the time derivative dx/dt of the latent state x
// at time t in the given regime and stores it in dst.
type DynamicsFunc func(dst *mat.VecDense, t float64, regime int, x mat.Vector, params []float64, covariate mat.Vector)

// JacobianFunc computes the continuous-time Jacobian dF/dx and stores it in dst.
// params holds the function parameters followed by the current state estimate,
// so the Jacobian can be written as a pure function of a single parameter slice.
type JacobianFunc func(dst *mat.Dense, t float64, regime int, params []float64, covariate mat.Vector)

// MeasurementFunc maps latent state x to the observation space at observation index t.
// It stores the observation (loading) matrix in h and the predicted observation in y.
type MeasurementFunc func(h *mat.Dense, y *mat.VecDense, t int, regime int, params []float64, x mat.Vector, covariate mat.Vector)

// NoiseFunc fills the measurement and process noise covariances at observation index t.
// Both matrices are filled in their log/LDL encoded form: see noise.FromLDL.
type NoiseFunc func(obsCov, latentCov *mat.Dense, t int, regime int, params []float64)

// InitialConditionFunc fills the initial regime prior, the initial latent states
// and the (encoded) initial error covariances of every regime.
type InitialConditionFunc func(ic *InitialCondition, params []float64, covariates []mat.Vector)

// RegimeSwitchFunc fills dst with the regime transition probability matrix at index t.
// Row i of dst holds the transition probabilities from regime i.
type RegimeSwitchFunc func(dst *mat.Dense, t int, typ int, params []float64, covariate mat.Vector)

// TransformFunc maps raw (unconstrained) parameters to model parameters and returns them.
type TransformFunc func(dims Dims, params []float64) []float64

// Solver advances latent state x from start to end under dynamics f.
type Solver interface {
	// Solve integrates x over [start, end] and stores the end state in dst.
	Solve(dst *mat.VecDense, start, end float64, regime int, x mat.Vector, params []float64, covariate mat.Vector, f DynamicsFunc) error
}

// Dims are static model dimensions
type Dims struct {
	// LatentVar is the number of latent state variables
	LatentVar int `yaml:"latent_var"`
	// ObsVar is the number of observed variables
	ObsVar int `yaml:"obs_var"`
	// Covariate is the number of covariates
	Covariate int `yaml:"covariate"`
	// FuncParam is the number of function parameters
	FuncParam int `yaml:"func_param"`
	// Regime is the number of regimes
	Regime int `yaml:"regime"`
}

// Validate returns error if any of the dimensions is invalid.
// Covariate and FuncParam may be zero, the rest must be positive.
func (d Dims) Validate() error {
	if d.LatentVar <= 0 {
		return fmt.Errorf("invalid latent dimension: %d", d.LatentVar)
	}

	if d.ObsVar <= 0 {
		return fmt.Errorf("invalid observation dimension: %d", d.ObsVar)
	}

	if d.Covariate < 0 || d.FuncParam < 0 {
		return fmt.Errorf("invalid covariate or parameter count: %d, %d", d.Covariate, d.FuncParam)
	}

	if d.Regime <= 0 {
		return fmt.Errorf("invalid regime count: %d", d.Regime)
	}

	return nil
}

// InitialCondition is the initial condition of every regime
type InitialCondition struct {
	// RegimePrior holds initial regime probabilities
	RegimePrior *mat.VecDense
	// States holds initial latent states of all subjects, one vector per regime.
	// Subject i occupies elements [i*LatentVar, (i+1)*LatentVar).
	States []*mat.VecDense
	// Covs holds encoded initial error covariances, one per regime
	Covs []*mat.Dense
}

// NewInitialCondition allocates zeroed initial condition for numSbj subjects and returns it.
// It returns error if dims are invalid or numSbj is not positive.
func NewInitialCondition(dims Dims, numSbj int) (*InitialCondition, error) {
	if err := dims.Validate(); err != nil {
		return nil, err
	}

	if numSbj <= 0 {
		return nil, fmt.Errorf("invalid subject count: %d", numSbj)
	}

	states := make([]*mat.VecDense, dims.Regime)
	covs := make([]*mat.Dense, dims.Regime)
	for j := range states {
		states[j] = mat.NewVecDense(numSbj*dims.LatentVar, nil)
		covs[j] = mat.NewDense(dims.LatentVar, dims.LatentVar, nil)
	}

	return &InitialCondition{
		RegimePrior: mat.NewVecDense(dims.Regime, nil),
		States:      states,
		Covs:        covs,
	}, nil
}

// State returns a copy of the initial state of subject sbj in the given regime.
func (ic *InitialCondition) State(regime, sbj int) *mat.VecDense {
	n := ic.Covs[regime].RawMatrix().Rows
	x := mat.NewVecDense(n, nil)
	x.CopyVec(ic.States[regime].SliceVec(sbj*n, (sbj+1)*n))

	return x
}
