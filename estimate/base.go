// Package estimate provides latent state estimates produced by the filter steps.
package estimate

import (
	"fmt"

	"github.com/milosgajdos/go-dynfit/matrix"
	"gonum.org/v1/gonum/mat"
)

// Base is a latent state estimate of a single subject in a single regime
type Base struct {
	// regime is the regime the estimate was produced in
	regime int
	// val is estimated latent state
	val *mat.VecDense
	// cov is estimated error covariance
	cov *mat.SymDense
}

// NewBase returns base estimate of val in regime with zero covariance.
// It returns error if regime is negative.
func NewBase(regime int, val mat.Vector) (*Base, error) {
	if regime < 0 {
		return nil, fmt.Errorf("invalid regime: %d", regime)
	}

	v := &mat.VecDense{}
	if val != nil {
		v.CloneFromVec(val)
	}

	c := mat.NewSymDense(v.Len(), nil)

	return &Base{
		regime: regime,
		val:    v,
		cov:    c,
	}, nil
}

// NewBaseWithCov returns base estimate given regime, latent state and error covariance.
// It returns error if regime is negative or if val and cov dimensions do not match.
func NewBaseWithCov(regime int, val mat.Vector, cov mat.Symmetric) (*Base, error) {
	if regime < 0 {
		return nil, fmt.Errorf("invalid regime: %d", regime)
	}

	rv, _ := val.Dims()
	rc := cov.SymmetricDim()

	if rv != rc {
		return nil, fmt.Errorf("invalid dimensions. Val: %d, Cov: %d x %d", rv, rc, rc)
	}

	v := &mat.VecDense{}
	v.CloneFromVec(val)

	c := mat.NewSymDense(rc, nil)
	c.CopySym(cov)

	return &Base{
		regime: regime,
		val:    v,
		cov:    c,
	}, nil
}

// NewBasePacked returns base estimate given regime, latent state and packed error covariance.
// It returns error if regime is negative or if val and cov dimensions do not match.
func NewBasePacked(regime int, val mat.Vector, cov matrix.PackedSym) (*Base, error) {
	if len(cov) != matrix.PackedLen(val.Len()) {
		return nil, fmt.Errorf("invalid packed covariance length: %d", len(cov))
	}

	c := mat.NewSymDense(val.Len(), nil)
	cov.Unpack(c)

	return NewBaseWithCov(regime, val, c)
}

// Regime returns the regime of the estimate
func (b *Base) Regime() int {
	return b.regime
}

// Val returns estimated value
func (b *Base) Val() mat.Vector {
	v := &mat.VecDense{}
	v.CloneFromVec(b.val)

	return v
}

// Cov returns covariance estimate
func (b *Base) Cov() mat.Symmetric {
	cov := mat.NewSymDense(b.cov.SymmetricDim(), nil)
	cov.CopySym(b.cov)

	return cov
}

// Packed returns covariance estimate packed into a vector
func (b *Base) Packed() matrix.PackedSym {
	p := matrix.NewPackedSym(b.cov.SymmetricDim())
	p.Pack(b.cov)

	return p
}

// String implements the Stringer interface.
func (b *Base) String() string {
	return fmt.Sprintf("Base{\nRegime=%d\nVal=%v\nCov=%v\n}", b.regime,
		mat.Formatted(b.val.T(), mat.Squeeze()),
		mat.Formatted(b.cov, mat.Prefix("    "), mat.Squeeze()))
}
