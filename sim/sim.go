// Package sim simulates panel data from a model specification and plots the results.
package sim

import (
	"fmt"

	dynfit "github.com/milosgajdos/go-dynfit"
	"github.com/milosgajdos/go-dynfit/model"
	"github.com/milosgajdos/go-dynfit/noise"
	"github.com/milosgajdos/go-dynfit/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// StochasticTol is the tolerance of regime switch matrix row sums
const StochasticTol = 1e-8

// Panel is simulated panel data.
// Row t of States and Obs holds the latent state and the observation at Times[t].
type Panel struct {
	// Subjects is the subject index table
	Subjects model.SubjectIndex
	// Times holds observation times
	Times []float64
	// Regimes holds the regime of every observation
	Regimes []int
	// States holds true latent states
	States *mat.Dense
	// Obs holds noisy observations
	Obs *mat.Dense
}

// Observation returns observation t.
func (p *Panel) Observation(t int) mat.Vector {
	return p.Obs.RowView(t)
}

// State returns true latent state at observation t.
func (p *Panel) State(t int) mat.Vector {
	return p.States.RowView(t)
}

// Simulate simulates the model spec with params at the given observation times and returns the panel.
// times must hold spec.Subjects.Total() non-decreasing times for each subject and covariates
// must either be nil or hold one covariate vector per observation.
// Latent states are propagated by the model solver. Process and measurement noise are drawn
// from src. If src is nil the panel is noiseless and every regime is the most probable one.
// It returns error if the inputs do not match the spec or the simulation fails.
func Simulate(spec *model.Spec, params []float64, times []float64, covariates []mat.Vector, src *rand.Source) (*Panel, error) {
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("invalid model spec: %w", err)
	}

	total := spec.Subjects.Total()
	if len(times) != total {
		return nil, fmt.Errorf("invalid number of observation times: %d, expected %d", len(times), total)
	}

	if covariates != nil && len(covariates) != total {
		return nil, fmt.Errorf("invalid number of covariates: %d, expected %d", len(covariates), total)
	}

	ic, err := spec.InitialConditions(params, covariates)
	if err != nil {
		return nil, fmt.Errorf("failed to create initial condition: %w", err)
	}

	dims := spec.Dims
	p := &Panel{
		Subjects: spec.Subjects,
		Times:    append([]float64(nil), times...),
		Regimes:  make([]int, total),
		States:   mat.NewDense(total, dims.LatentVar, nil),
		Obs:      mat.NewDense(total, dims.ObsVar, nil),
	}

	s := &simulator{
		spec:       spec,
		params:     params,
		covariates: covariates,
		src:        src,
		switchMat:  mat.NewDense(dims.Regime, dims.Regime, nil),
		obsEnc:     mat.NewDense(dims.ObsVar, dims.ObsVar, nil),
		latentEnc:  mat.NewDense(dims.LatentVar, dims.LatentVar, nil),
	}

	prior := mat.Col(nil, 0, ic.RegimePrior)

	for sbj := 0; sbj < spec.Subjects.NumSubjects(); sbj++ {
		start, end := spec.Subjects.Range(sbj)

		regime, err := s.drawRegime(prior)
		if err != nil {
			return nil, err
		}
		x := ic.State(regime, sbj)

		for t := start; t < end; t++ {
			if t > start {
				if times[t] < times[t-1] {
					return nil, fmt.Errorf("invalid observation time %d: %f before %f", t, times[t], times[t-1])
				}

				if regime, err = s.switchRegime(t, regime); err != nil {
					return nil, err
				}

				if err := s.propagate(x, times[t-1], times[t], t, regime); err != nil {
					return nil, err
				}
			}

			y, err := s.observe(x, t, regime)
			if err != nil {
				return nil, err
			}

			p.Regimes[t] = regime
			p.States.SetRow(t, mat.Col(nil, 0, x))
			p.Obs.SetRow(t, mat.Col(nil, 0, y))
		}
	}

	return p, nil
}

// simulator holds the state shared by all simulation steps
type simulator struct {
	spec       *model.Spec
	params     []float64
	covariates []mat.Vector
	src        *rand.Source
	switchMat  *mat.Dense
	obsEnc     *mat.Dense
	latentEnc  *mat.Dense
}

func (s *simulator) covariate(t int) mat.Vector {
	if s.covariates == nil {
		return nil
	}

	return s.covariates[t]
}

// drawRegime draws a regime from the probabilities in p.
func (s *simulator) drawRegime(p []float64) (int, error) {
	if s.src == nil {
		return floats.MaxIdx(p), nil
	}

	idx, err := rand.RouletteDrawN(s.src, p, 1)
	if err != nil {
		return 0, fmt.Errorf("failed to draw regime: %w", err)
	}

	return idx[0], nil
}

// switchRegime draws the regime at observation t given the previous regime.
func (s *simulator) switchRegime(t, regime int) (int, error) {
	if s.spec.Dims.Regime == 1 {
		return regime, nil
	}

	s.switchMat.Zero()
	s.spec.RegimeSwitch(s.switchMat, t, 0, s.params, s.covariate(t))
	if err := model.CheckStochastic(s.switchMat, StochasticTol); err != nil {
		return 0, err
	}

	return s.drawRegime(s.switchMat.RawRowView(regime))
}

// noise evaluates the model noise function and returns decoded process noise covariance
// and measurement noise. Measurement noise is nil when the simulation is noiseless.
func (s *simulator) noise(t, regime int) (*mat.SymDense, dynfit.Noise, error) {
	s.obsEnc.Zero()
	s.latentEnc.Zero()
	s.spec.Noise(s.obsEnc, s.latentEnc, t, regime, s.params)

	q := &mat.SymDense{}
	noise.FromLDL(q, s.latentEnc)

	if s.src == nil {
		return q, nil, nil
	}

	r, err := noise.NewGaussianLDL(s.obsEnc, s.src)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create measurement noise: %w", err)
	}

	return q, r, nil
}

// propagate advances x in place from start to end and adds process noise.
func (s *simulator) propagate(x *mat.VecDense, start, end float64, t, regime int) error {
	if err := s.spec.Solver.Solve(x, start, end, regime, x, s.params, s.covariate(t), s.spec.Dynamics); err != nil {
		return fmt.Errorf("failed to propagate state at observation %d: %w", t, err)
	}

	if s.src == nil {
		return nil
	}

	q, _, err := s.noise(t, regime)
	if err != nil {
		return err
	}

	w, err := rand.WithCovN(s.src, q, 1)
	if err != nil {
		return fmt.Errorf("failed to sample process noise: %w", err)
	}
	x.AddVec(x, w.ColView(0))

	return nil
}

// observe returns noisy observation of x at observation t.
func (s *simulator) observe(x mat.Vector, t, regime int) (*mat.VecDense, error) {
	dims := s.spec.Dims

	h := mat.NewDense(dims.ObsVar, dims.LatentVar, nil)
	y := mat.NewVecDense(dims.ObsVar, nil)
	s.spec.Measurement(h, y, t, regime, s.params, x, s.covariate(t))

	_, r, err := s.noise(t, regime)
	if err != nil {
		return nil, err
	}
	if r != nil {
		y.AddVec(y, r.Sample())
	}

	return y, nil
}
