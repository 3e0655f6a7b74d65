package model

import (
	dynfit "github.com/milosgajdos/go-dynfit"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"
)

// NumericJacobian returns a JacobianFunc which approximates dF/dx of f by central
// finite differences. The returned function reads the state from params[numFuncParam:]
// and passes params[:numFuncParam] to f.
func NumericJacobian(f dynfit.DynamicsFunc, numFuncParam int) dynfit.JacobianFunc {
	return func(dst *mat.Dense, t float64, regime int, params []float64, covariate mat.Vector) {
		p := params[:numFuncParam]
		x := make([]float64, len(params)-numFuncParam)
		copy(x, params[numFuncParam:])

		fn := func(y, x []float64) {
			out := mat.NewVecDense(len(y), y)
			f(out, t, regime, mat.NewVecDense(len(x), x), p, covariate)
		}

		fd.Jacobian(dst, fn, x, &fd.JacobianSettings{
			Formula: fd.Central,
		})
	}
}
