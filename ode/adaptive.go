package ode

import (
	"fmt"
	"math"

	dynfit "github.com/milosgajdos/go-dynfit"
	"gonum.org/v1/gonum/mat"
)

const (
	// DefaultTauMaxFrac is the default maximum step size as a fraction of the integration interval
	DefaultTauMaxFrac = 0.1
	// DefaultErrorLimit is the default local error limit
	DefaultErrorLimit = 10.0
	// DefaultMaxIter is the default maximum number of step halvings
	DefaultMaxIter = 10000
)

// AdaptiveSolver is a dynfit.Solver which integrates with RK4 steps whose size
// is halved until the local error estimate drops below ErrorLimit.
// The local error is the L1 distance between one full step and two half steps.
type AdaptiveSolver struct {
	// TauMaxFrac is the maximum step size as a fraction of the interval
	TauMaxFrac float64
	// ErrorLimit is the local error limit
	ErrorLimit float64
	// MaxIter is the maximum number of step halvings per Solve call
	MaxIter int
}

// NewAdaptiveSolver creates new AdaptiveSolver and returns it.
// It returns error if either tauMaxFrac is not in (0, 1] or errLimit is not positive.
func NewAdaptiveSolver(tauMaxFrac, errLimit float64) (*AdaptiveSolver, error) {
	if tauMaxFrac <= 0 || tauMaxFrac > 1 {
		return nil, fmt.Errorf("invalid max step fraction: %f", tauMaxFrac)
	}

	if errLimit <= 0 {
		return nil, fmt.Errorf("invalid error limit: %f", errLimit)
	}

	return &AdaptiveSolver{
		TauMaxFrac: tauMaxFrac,
		ErrorLimit: errLimit,
		MaxIter:    DefaultMaxIter,
	}, nil
}

// Solve integrates x from start to end and stores the end state in dst.
// If end is not after start dst is set to x.
// It returns error if the error limit can not be met within MaxIter step halvings.
func (s *AdaptiveSolver) Solve(dst *mat.VecDense, start, end float64, regime int, x mat.Vector, params []float64, covariate mat.Vector, f dynfit.DynamicsFunc) error {
	tauMax := (end - start) * s.TauMaxFrac
	if !(tauMax > 0) {
		setVec(dst, x)
		return nil
	}

	n := x.Len()
	cur := mat.VecDenseCopyOf(x)
	full := mat.NewVecDense(n, nil)
	half := mat.NewVecDense(n, nil)
	diff := mat.NewVecDense(n, nil)

	tnow, tau := start, tauMax
	count := 0
	for tnow < end {
		last := false
		if tau >= end-tnow {
			tau = end - tnow
			last = true
		}

		for {
			RK4(full, tnow, tnow+tau, regime, cur, params, covariate, f)
			RK4(half, tnow, tnow+tau/2, regime, cur, params, covariate, f)
			RK4(half, tnow+tau/2, tnow+tau, regime, half, params, covariate, f)

			diff.SubVec(full, half)
			if mat.Norm(diff, 1) < s.ErrorLimit {
				break
			}

			tau /= 2
			last = false

			count++
			if count >= s.MaxIter {
				return fmt.Errorf("failed to meet error limit %f after %d step halvings", s.ErrorLimit, count)
			}
		}

		cur.CopyVec(half)
		if last {
			tnow = end
		} else {
			tnow += tau
		}
		tau = math.Min(2*tau, tauMax)
	}

	setVec(dst, cur)

	return nil
}

func setVec(dst *mat.VecDense, x mat.Vector) {
	if dst.IsEmpty() {
		dst.ReuseAsVec(x.Len())
	}
	dst.CopyVec(x)
}
