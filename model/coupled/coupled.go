// Package coupled implements a model of two nonlinearly coupled damped oscillators
// of positive and negative affect, observed through their levels.
//
// The model has 6 function parameters:
//
//	p[0], p[1]  frequencies of the two oscillators (log scale before Transform)
//	p[2], p[3]  coupling strengths
//	p[4], p[5]  log variances of the two measurement errors
package coupled

import (
	"math"

	dynfit "github.com/milosgajdos/go-dynfit"
	"github.com/milosgajdos/go-dynfit/model"
	"gonum.org/v1/gonum/mat"
)

const (
	// NumFuncParam is the number of function parameters
	NumFuncParam = 6
	// LatentNoise is the log variance of the latent process noise
	LatentNoise = -10.0
)

var initState = []float64{-0.06391744, 0.29310816, 0.14081910, -0.14157076}

// Dims returns the model dimensions
func Dims() dynfit.Dims {
	return dynfit.Dims{
		LatentVar: 4,
		ObsVar:    2,
		Covariate: 1,
		FuncParam: NumFuncParam,
		Regime:    1,
	}
}

// New returns the model spec for the given subjects integrated by solver.
func New(subjects model.SubjectIndex, solver dynfit.Solver) *model.Spec {
	return &model.Spec{
		Dims:             Dims(),
		Dynamics:         Dynamics,
		Jacobian:         Jacobian,
		Measurement:      Measurement,
		Noise:            Noise,
		InitialCondition: InitialCondition,
		RegimeSwitch:     RegimeSwitch,
		Transform:        Transform,
		Subjects:         subjects,
		Solver:           solver,
	}
}

// Dynamics computes dx/dt for the latent state x = [pa, dpa, na, dna].
func Dynamics(dst *mat.VecDense, t float64, regime int, x mat.Vector, p []float64, covariate mat.Vector) {
	pa, dpa, na, dna := x.AtVec(0), x.AtVec(1), x.AtVec(2), x.AtVec(3)

	dst.SetVec(0, dpa)
	dst.SetVec(1, -p[0]*pa+p[2]*(na-pa)*dpa)
	dst.SetVec(2, dna)
	dst.SetVec(3, -p[1]*na+p[3]*(pa-na)*dna)
}

// Jacobian computes dF/dx. The state is read from p[NumFuncParam:].
func Jacobian(dst *mat.Dense, t float64, regime int, p []float64, covariate mat.Vector) {
	x := p[NumFuncParam:]

	dst.Zero()

	dst.Set(0, 1, 1)

	dst.Set(1, 0, -p[0]-p[2]*x[1])
	dst.Set(1, 1, p[2]*(x[2]-x[0]))
	dst.Set(1, 2, p[2]*x[1])

	dst.Set(2, 3, 1)

	dst.Set(3, 0, p[3]*x[3])
	dst.Set(3, 2, -p[1]-p[3]*x[3])
	dst.Set(3, 3, p[3]*(x[0]-x[2]))
}

// Measurement observes the oscillator levels pa and na.
func Measurement(h *mat.Dense, y *mat.VecDense, t int, regime int, p []float64, x, covariate mat.Vector) {
	h.Set(0, 0, 1)
	h.Set(1, 2, 1)

	y.SetVec(0, x.AtVec(0))
	y.SetVec(1, x.AtVec(2))
}

// Noise fills the encoded noise covariances: the latent process is almost
// noiseless, the measurement errors are independent.
func Noise(obsCov, latentCov *mat.Dense, t int, regime int, p []float64) {
	r, _ := latentCov.Dims()
	for i := 0; i < r; i++ {
		latentCov.Set(i, i, LatentNoise)
	}

	obsCov.Set(0, 0, p[4])
	obsCov.Set(1, 1, p[5])
}

// InitialCondition starts every subject from the same state with unit variances.
func InitialCondition(ic *dynfit.InitialCondition, p []float64, covariates []mat.Vector) {
	ic.RegimePrior.SetVec(0, 1)

	n := len(initState)
	for j := range ic.States {
		numSbj := ic.States[j].Len() / n
		for i := 0; i < numSbj; i++ {
			for k, v := range initState {
				ic.States[j].SetVec(i*n+k, v)
			}
		}

		for k := 0; k < n; k++ {
			ic.Covs[j].Set(k, k, math.Log(1))
		}
	}
}

// RegimeSwitch never switches regimes.
func RegimeSwitch(dst *mat.Dense, t int, typ int, p []float64, covariate mat.Vector) {
	dst.Zero()

	r, _ := dst.Dims()
	for i := 0; i < r; i++ {
		dst.Set(i, i, 1)
	}
}

// Transform keeps the oscillator frequencies positive.
func Transform(dims dynfit.Dims, p []float64) []float64 {
	for i := 0; i < 2; i++ {
		p[i] = math.Exp(p[i])
	}

	return p
}
