// Package ode implements the Runge-Kutta integrators used to advance latent
// states and their transition Jacobians between observation instants.
package ode

import (
	dynfit "github.com/milosgajdos/go-dynfit"
	"gonum.org/v1/gonum/mat"
)

// RK4 advances state x from start to end with a single classical 4th order
// Runge-Kutta step and stores the end state in dst:
//
//	dst = x + dt/6*(k1 + 2*k2 + 2*k3 + k4)
//
// All four stages are evaluated at time start. dst may be x.
func RK4(dst *mat.VecDense, start, end float64, regime int, x mat.Vector, params []float64, covariate mat.Vector, f dynfit.DynamicsFunc) {
	n := x.Len()
	dt := end - start

	k1 := mat.NewVecDense(n, nil)
	k2 := mat.NewVecDense(n, nil)
	k3 := mat.NewVecDense(n, nil)
	k4 := mat.NewVecDense(n, nil)
	xs := mat.NewVecDense(n, nil)

	f(k1, start, regime, x, params, covariate)

	xs.AddScaledVec(x, dt/2, k1)
	f(k2, start, regime, xs, params, covariate)

	xs.AddScaledVec(x, dt/2, k2)
	f(k3, start, regime, xs, params, covariate)

	xs.AddScaledVec(x, dt, k3)
	f(k4, start, regime, xs, params, covariate)

	// k1 + 2*k2 + 2*k3 + k4
	k1.AddScaledVec(k1, 2, k2)
	k1.AddScaledVec(k1, 2, k3)
	k1.AddVec(k1, k4)

	dst.AddScaledVec(x, dt/6, k1)
}

// RK4Solver is a dynfit.Solver which advances the state with a single RK4 step.
type RK4Solver struct{}

// NewRK4Solver creates new RK4Solver and returns it.
func NewRK4Solver() *RK4Solver {
	return &RK4Solver{}
}

// Solve advances x from start to end using RK4 and stores the result in dst.
// It never fails.
func (s *RK4Solver) Solve(dst *mat.VecDense, start, end float64, regime int, x mat.Vector, params []float64, covariate mat.Vector, f dynfit.DynamicsFunc) error {
	RK4(dst, start, end, regime, x, params, covariate, f)

	return nil
}
