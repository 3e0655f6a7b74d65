package ode

import (
	dynfit "github.com/milosgajdos/go-dynfit"
	"github.com/milosgajdos/go-dynfit/matrix"
	"github.com/milosgajdos/go-dynfit/model"
	gmatrix "github.com/milosgajdos/matrix"
	"gonum.org/v1/gonum/mat"
)

// Jacobian computes the discrete-time state transition Jacobian over [start, end]
// and stores it in dst. It evaluates the continuous-time Jacobian jac at four
// RK4-style stage states and returns
//
//	dst = I + dt/6*k1 + dt/3*k2 + dt/3*k3 + dt/6*k4
//
// Stage states are advanced using only the diagonal of the previous stage Jacobian:
//
//	x1 = x + dt/2*diag(k1), x2 = x + dt/2*diag(k2), x3 = x + dt*diag(k3)
//
// params holds numFuncParam function parameters. jac is called with a copy of them
// followed by the stage state. All stages are evaluated at time start.
//
// NOTE: the diagonal stage advance is not a sensitivity equation (dJ/dt = A*J) solve.
func Jacobian(dst *mat.Dense, start, end float64, regime int, x mat.Vector, params []float64, numFuncParam int, covariate mat.Vector, jac dynfit.JacobianFunc) {
	n := x.Len()
	dt := end - start

	aug := model.AugmentParams(params, numFuncParam, x)

	k := mat.NewDense(n, n, nil)
	acc := mat.NewDense(n, n, nil)
	diag := mat.NewVecDense(n, nil)
	xs := mat.NewVecDense(n, nil)
	xs.CopyVec(x)

	stages := []struct {
		// weight is the stage weight of k
		weight float64
		// step scales diag(k) when forming the next stage state
		step float64
	}{
		{weight: dt / 6, step: dt / 2},
		{weight: dt / 3, step: dt / 2},
		{weight: dt / 3, step: dt},
		{weight: dt / 6},
	}

	for i, s := range stages {
		model.SetState(aug, numFuncParam, xs)
		k.Zero()
		jac(k, start, regime, aug, covariate)

		if i < len(stages)-1 {
			matrix.DiagOut(diag, k, s.step)
			xs.AddVec(x, diag)
		}

		acc.Apply(func(r, c int, v float64) float64 {
			return v + s.weight*k.At(r, c)
		}, acc)
	}

	eye, err := gmatrix.NewDenseValIdentity(n, 1.0)
	if err != nil {
		panic(err)
	}

	dst.Add(eye, acc)
}
