package ekf

import (
	dynfit "github.com/milosgajdos/go-dynfit"
	"github.com/milosgajdos/go-dynfit/matrix"
	"gonum.org/v1/gonum/mat"
)

// CovRegularizer is added to the diagonal of dP/dt so the predicted covariance stays invertible
const CovRegularizer = 1e-4

// CovDerivative computes the time derivative of the packed error covariance p
// and stores it packed in dst:
//
//	dP/dt = A*P + (A*P)^T + CovRegularizer*I
//
// where A is the continuous-time Jacobian evaluated by jac with params.
// params must be augmented with the state the Jacobian is evaluated at.
func CovDerivative(dst matrix.PackedSym, t float64, regime int, p matrix.PackedSym, params []float64, covariate mat.Vector, jac dynfit.JacobianFunc) {
	n := p.Dim()

	pm := mat.NewSymDense(n, nil)
	p.Unpack(pm)

	a := mat.NewDense(n, n, nil)
	jac(a, t, regime, params, covariate)

	ap := mat.NewDense(n, n, nil)
	ap.Mul(a, pm)

	dp := mat.NewDense(n, n, nil)
	dp.Add(ap, ap.T())

	for i := 0; i < n; i++ {
		dp.Set(i, i, dp.At(i, i)+CovRegularizer)
	}

	dst.Pack(dp)
}

// CovDynamics returns DynamicsFunc which treats its state as a packed
// error covariance and computes its time derivative with CovDerivative.
// It lets any dynfit.Solver integrate the error covariance.
func CovDynamics(jac dynfit.JacobianFunc) dynfit.DynamicsFunc {
	return func(dst *mat.VecDense, t float64, regime int, x mat.Vector, params []float64, covariate mat.Vector) {
		p := matrix.PackedSym(mat.Col(nil, 0, x))
		dp := make(matrix.PackedSym, len(p))

		CovDerivative(dp, t, regime, p, params, covariate, jac)

		for i, v := range dp {
			dst.SetVec(i, v)
		}
	}
}
