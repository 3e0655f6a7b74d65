// Package ekf implements the prediction step and the innovation likelihood
// of an extended Kalman filter for continuous-time models observed at discrete times.
package ekf

import (
	"fmt"

	"github.com/milosgajdos/go-dynfit/estimate"
	"github.com/milosgajdos/go-dynfit/likelihood"
	"github.com/milosgajdos/go-dynfit/matrix"
	"github.com/milosgajdos/go-dynfit/model"
	"github.com/milosgajdos/go-dynfit/noise"
	"github.com/milosgajdos/go-dynfit/ode"
	"gonum.org/v1/gonum/mat"
)

// Predictor is Extended Kalman Filter predictor
type Predictor struct {
	// spec is the model specification
	spec *model.Spec
}

// New creates new Predictor for the model spec and returns it.
// It returns error if spec is invalid.
func New(spec *model.Spec) (*Predictor, error) {
	if spec == nil {
		return nil, fmt.Errorf("invalid model spec: %v", spec)
	}

	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("invalid model spec: %w", err)
	}

	return &Predictor{
		spec: spec,
	}, nil
}

// Spec returns the model specification
func (p *Predictor) Spec() *model.Spec {
	return p.spec
}

// Predict propagates estimate est from start to end and returns the predicted estimate.
// The latent state is integrated by the model solver, the error covariance is propagated
// with the discrete-time Jacobian Jx:
//
//	P' = Jx*P*Jx^T + Q
//
// where Q is the process noise covariance at observation t.
// It returns error if the state integration fails or the predicted covariance is not finite.
func (p *Predictor) Predict(est *estimate.Base, start, end float64, t int, params []float64, covariate mat.Vector) (*estimate.Base, error) {
	regime := est.Regime()
	x := est.Val()
	n := x.Len()

	xNext := mat.NewVecDense(n, nil)
	if err := p.spec.Solver.Solve(xNext, start, end, regime, x, params, covariate, p.spec.Dynamics); err != nil {
		return nil, fmt.Errorf("failed to propagate latent state: %w", err)
	}

	jx := mat.NewDense(n, n, nil)
	ode.Jacobian(jx, start, end, regime, x, params, p.spec.Dims.FuncParam, covariate, p.spec.Jacobian)

	jp := mat.NewDense(n, n, nil)
	matrix.Mul(jp, jx, est.Cov(), false, false)

	cov := mat.NewDense(n, n, nil)
	matrix.Mul(cov, jp, jx, false, true)
	cov.Add(cov, p.processNoise(t, regime, params))

	if matrix.HasNonFinite(cov) {
		return nil, fmt.Errorf("invalid predicted covariance: %v", mat.Formatted(cov, mat.Squeeze()))
	}

	return estimate.NewBaseWithCov(regime, xNext, symmetrize(cov))
}

// PredictContinuous propagates estimate est from start to end and returns the predicted estimate.
// Unlike Predict it integrates the error covariance derivative dP/dt with the model solver
// and adds the process noise covariance at the end of the interval.
// The covariance derivative is linearized around the state at start.
// It returns error if either integration fails or the predicted covariance is not finite.
func (p *Predictor) PredictContinuous(est *estimate.Base, start, end float64, t int, params []float64, covariate mat.Vector) (*estimate.Base, error) {
	regime := est.Regime()
	x := est.Val()
	n := x.Len()

	xNext := mat.NewVecDense(n, nil)
	if err := p.spec.Solver.Solve(xNext, start, end, regime, x, params, covariate, p.spec.Dynamics); err != nil {
		return nil, fmt.Errorf("failed to propagate latent state: %w", err)
	}

	aug := model.AugmentParams(params, p.spec.Dims.FuncParam, x)
	packed := est.Packed()
	pv := mat.NewVecDense(len(packed), packed)
	pNext := mat.NewVecDense(len(packed), nil)
	if err := p.spec.Solver.Solve(pNext, start, end, regime, pv, aug, covariate, CovDynamics(p.spec.Jacobian)); err != nil {
		return nil, fmt.Errorf("failed to propagate error covariance: %w", err)
	}

	cov := mat.NewDense(n, n, nil)
	matrix.PackedSym(pNext.RawVector().Data).UnpackDense(cov)
	cov.Add(cov, p.processNoise(t, regime, params))

	if matrix.HasNonFinite(cov) {
		return nil, fmt.Errorf("invalid predicted covariance: %v", mat.Formatted(cov, mat.Squeeze()))
	}

	return estimate.NewBaseWithCov(regime, xNext, symmetrize(cov))
}

// LogLike returns the log-likelihood of observation y at index t given the predicted estimate est.
// The innovation y - h(x) is scored under a zero-mean normal distribution with covariance
//
//	S = H*P*H^T + R
//
// where R is the measurement noise covariance. Degenerate S yields NaN or Inf.
func (p *Predictor) LogLike(est *estimate.Base, y mat.Vector, t int, params []float64, covariate mat.Vector) float64 {
	regime := est.Regime()
	x := est.Val()
	nx, ny := p.spec.Dims.LatentVar, p.spec.Dims.ObsVar

	h := mat.NewDense(ny, nx, nil)
	yHat := mat.NewVecDense(ny, nil)
	p.spec.Measurement(h, yHat, t, regime, params, x, covariate)

	obsEnc := mat.NewDense(ny, ny, nil)
	latentEnc := mat.NewDense(nx, nx, nil)
	p.spec.Noise(obsEnc, latentEnc, t, regime, params)
	r := mat.NewSymDense(ny, nil)
	noise.FromLDL(r, obsEnc)

	hp := mat.NewDense(ny, nx, nil)
	matrix.Mul(hp, h, est.Cov(), false, false)
	s := mat.NewDense(ny, ny, nil)
	matrix.Mul(s, hp, h, false, true)
	s.Add(s, r)

	inn := mat.NewVecDense(ny, nil)
	inn.SubVec(y, yHat)

	return likelihood.LogNormal(inn, s)
}

// processNoise returns decoded process noise covariance at observation t.
func (p *Predictor) processNoise(t, regime int, params []float64) *mat.SymDense {
	nx, ny := p.spec.Dims.LatentVar, p.spec.Dims.ObsVar

	obsEnc := mat.NewDense(ny, ny, nil)
	latentEnc := mat.NewDense(nx, nx, nil)
	p.spec.Noise(obsEnc, latentEnc, t, regime, params)

	q := mat.NewSymDense(nx, nil)
	noise.FromLDL(q, latentEnc)

	return q
}

// symmetrize returns the symmetric part (m + m^T)/2 of square matrix m.
func symmetrize(m *mat.Dense) *mat.SymDense {
	n, _ := m.Dims()
	s := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			s.SetSym(i, j, (m.At(i, j)+m.At(j, i))/2)
		}
	}

	return s
}
