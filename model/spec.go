// Package model bundles the capability set of a dynamical model fitted to panel data.
package model

import (
	"fmt"

	dynfit "github.com/milosgajdos/go-dynfit"
	"gonum.org/v1/gonum/mat"
)

// Spec is a dynamical model specification.
// It is built once and passed explicitly to every operation that needs it.
type Spec struct {
	// Dims are static model dimensions
	Dims dynfit.Dims
	// Dynamics computes dx/dt
	Dynamics dynfit.DynamicsFunc
	// Jacobian computes dF/dx
	Jacobian dynfit.JacobianFunc
	// Measurement maps latent states to observations
	Measurement dynfit.MeasurementFunc
	// Noise fills encoded measurement and process noise covariances
	Noise dynfit.NoiseFunc
	// InitialCondition fills initial regime prior, states and covariances
	InitialCondition dynfit.InitialConditionFunc
	// RegimeSwitch fills regime transition probabilities.
	// It may be nil for single regime models.
	RegimeSwitch dynfit.RegimeSwitchFunc
	// Transform maps raw parameters to model parameters.
	// Nil Transform leaves parameters unchanged.
	Transform dynfit.TransformFunc
	// Subjects is the subject index table
	Subjects SubjectIndex
	// Solver integrates latent states between observations
	Solver dynfit.Solver
	// WeightByLength weighs the negative log-likelihood of each subject by its observation count
	WeightByLength bool
}

// Validate checks the model dimensions and that all mandatory functions are set.
// It returns error describing the first problem it finds.
func (s *Spec) Validate() error {
	if err := s.Dims.Validate(); err != nil {
		return err
	}

	if s.Dynamics == nil || s.Jacobian == nil {
		return fmt.Errorf("invalid dynamics: dynamics and jacobian functions must be set")
	}

	if s.Measurement == nil {
		return fmt.Errorf("invalid measurement function: %v", s.Measurement)
	}

	if s.Noise == nil {
		return fmt.Errorf("invalid noise function: %v", s.Noise)
	}

	if s.InitialCondition == nil {
		return fmt.Errorf("invalid initial condition function: %v", s.InitialCondition)
	}

	if s.Dims.Regime > 1 && s.RegimeSwitch == nil {
		return fmt.Errorf("invalid regime switch function for %d regimes", s.Dims.Regime)
	}

	if s.Subjects.NumSubjects() <= 0 {
		return fmt.Errorf("invalid subject index: %v", s.Subjects)
	}

	if s.Solver == nil {
		return fmt.Errorf("invalid solver: %v", s.Solver)
	}

	return nil
}

// Params returns model parameters transformed from raw parameters.
// The returned slice never aliases raw.
func (s *Spec) Params(raw []float64) []float64 {
	p := make([]float64, len(raw))
	copy(p, raw)

	if s.Transform == nil {
		return p
	}

	return s.Transform(s.Dims, p)
}

// InitialConditions evaluates the initial condition function and returns the result.
// It returns error if the initial condition can not be allocated.
func (s *Spec) InitialConditions(params []float64, covariates []mat.Vector) (*dynfit.InitialCondition, error) {
	ic, err := dynfit.NewInitialCondition(s.Dims, s.Subjects.NumSubjects())
	if err != nil {
		return nil, err
	}

	s.InitialCondition(ic, params, covariates)

	return ic, nil
}

// Weight returns the weight of the negative log-likelihood of subject sbj:
// the inverse of its observation count if WeightByLength is set, 1 otherwise.
func (s *Spec) Weight(sbj int) float64 {
	if !s.WeightByLength {
		return 1.0
	}

	return 1.0 / float64(s.Subjects.Len(sbj))
}

// AugmentParams returns a new slice of length numFuncParam+x.Len() which holds
// the first numFuncParam params followed by the elements of x.
func AugmentParams(params []float64, numFuncParam int, x mat.Vector) []float64 {
	aug := make([]float64, numFuncParam+x.Len())
	copy(aug, params[:numFuncParam])
	SetState(aug, numFuncParam, x)

	return aug
}

// SetState overwrites the state tail aug[numFuncParam:] of augmented parameters with x.
func SetState(aug []float64, numFuncParam int, x mat.Vector) {
	for i := 0; i < x.Len(); i++ {
		aug[numFuncParam+i] = x.AtVec(i)
	}
}
