package model

import (
	"math"
	"testing"

	dynfit "github.com/milosgajdos/go-dynfit"
	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

type solver struct{}

func (s solver) Solve(dst *mat.VecDense, start, end float64, regime int, x mat.Vector, params []float64, covariate mat.Vector, f dynfit.DynamicsFunc) error {
	dst.CopyVec(x)
	return nil
}

// pendulum is a damped pendulum
func pendulum(dst *mat.VecDense, t float64, regime int, x mat.Vector, p []float64, covariate mat.Vector) {
	dst.SetVec(0, x.AtVec(1))
	dst.SetVec(1, -p[0]*math.Sin(x.AtVec(0))-p[1]*x.AtVec(1))
}

func pendulumJac(dst *mat.Dense, t float64, regime int, p []float64, covariate mat.Vector) {
	dst.Set(0, 0, 0)
	dst.Set(0, 1, 1)
	dst.Set(1, 0, -p[0]*math.Cos(p[2]))
	dst.Set(1, 1, -p[1])
}

func newSpec() *Spec {
	subjects, _ := NewSubjectIndex([]int{0, 10, 25})

	return &Spec{
		Dims:             dynfit.Dims{LatentVar: 2, ObsVar: 1, FuncParam: 2, Regime: 1},
		Dynamics:         pendulum,
		Jacobian:         pendulumJac,
		Measurement:      func(h *mat.Dense, y *mat.VecDense, t, regime int, p []float64, x, covariate mat.Vector) {},
		Noise:            func(obsCov, latentCov *mat.Dense, t, regime int, p []float64) {},
		InitialCondition: func(ic *dynfit.InitialCondition, p []float64, covariates []mat.Vector) { ic.RegimePrior.SetVec(0, 1) },
		Subjects:         subjects,
		Solver:           solver{},
	}
}

func TestSpecValidate(t *testing.T) {
	assert := assert.New(t)

	assert.NoError(newSpec().Validate())

	for _, mod := range []func(*Spec){
		func(s *Spec) { s.Dims.LatentVar = 0 },
		func(s *Spec) { s.Dynamics = nil },
		func(s *Spec) { s.Jacobian = nil },
		func(s *Spec) { s.Measurement = nil },
		func(s *Spec) { s.Noise = nil },
		func(s *Spec) { s.InitialCondition = nil },
		func(s *Spec) { s.Dims.Regime = 2 },
		func(s *Spec) { s.Subjects = nil },
		func(s *Spec) { s.Solver = nil },
	} {
		s := newSpec()
		mod(s)
		assert.Error(s.Validate())
	}
}

func TestSpecParams(t *testing.T) {
	assert := assert.New(t)

	s := newSpec()
	raw := []float64{0, 1}

	p := s.Params(raw)
	assert.Equal(raw, p)
	p[0] = 42
	assert.Equal(0.0, raw[0])

	s.Transform = func(dims dynfit.Dims, p []float64) []float64 {
		for i := range p {
			p[i] = math.Exp(p[i])
		}
		return p
	}
	p = s.Params(raw)
	assert.InDeltaSlice([]float64{1, math.E}, p, 1e-12)
	assert.Equal([]float64{0, 1}, raw)
}

func TestSpecInitialConditions(t *testing.T) {
	assert := assert.New(t)

	s := newSpec()
	ic, err := s.InitialConditions(nil, nil)
	assert.NoError(err)
	assert.Equal(1.0, ic.RegimePrior.AtVec(0))
	assert.Len(ic.States, 1)
	assert.Equal(2*2, ic.States[0].Len())

	s.Dims.ObsVar = 0
	ic, err = s.InitialConditions(nil, nil)
	assert.Nil(ic)
	assert.Error(err)
}

func TestSpecWeight(t *testing.T) {
	assert := assert.New(t)

	s := newSpec()
	assert.Equal(1.0, s.Weight(0))
	assert.Equal(1.0, s.Weight(1))

	s.WeightByLength = true
	assert.Equal(0.1, s.Weight(0))
	assert.InDelta(1.0/15, s.Weight(1), 1e-15)
}

func TestAugmentParams(t *testing.T) {
	assert := assert.New(t)

	params := []float64{1, 2, 3, 99}
	x := mat.NewVecDense(2, []float64{-1, -2})

	aug := AugmentParams(params, 3, x)
	assert.Equal([]float64{1, 2, 3, -1, -2}, aug)

	SetState(aug, 3, mat.NewVecDense(2, []float64{5, 6}))
	assert.Equal([]float64{1, 2, 3, 5, 6}, aug)
	assert.Equal([]float64{1, 2, 3, 99}, params)

	aug = AugmentParams(params, 0, x)
	assert.Equal([]float64{-1, -2}, aug)
}

func TestSubjectIndex(t *testing.T) {
	assert := assert.New(t)

	for _, test := range []struct {
		idx []int
		ok  bool
	}{
		{idx: []int{0, 3}, ok: true},
		{idx: []int{0, 3, 4, 10}, ok: true},
		{idx: nil, ok: false},
		{idx: []int{0}, ok: false},
		{idx: []int{1, 3}, ok: false},
		{idx: []int{0, 3, 3}, ok: false},
		{idx: []int{0, 5, 2}, ok: false},
		{idx: []int{-1, 2}, ok: false},
	} {
		s, err := NewSubjectIndex(test.idx)
		if test.ok {
			assert.NoError(err)
			assert.Equal(len(test.idx)-1, s.NumSubjects())
			continue
		}
		assert.Error(err)
		assert.Nil(s)
	}

	idx := []int{0, 3, 4, 10}
	s, err := NewSubjectIndex(idx)
	assert.NoError(err)
	// s does not alias idx
	idx[1] = 2
	start, end := s.Range(0)
	assert.Equal(0, start)
	assert.Equal(3, end)

	assert.Equal(10, s.Total())
	assert.Equal(1, s.Len(1))
	assert.Equal(6, s.Len(2))

	for _, test := range []struct {
		t   int
		sbj int
	}{
		{t: 0, sbj: 0}, {t: 2, sbj: 0}, {t: 3, sbj: 1},
		{t: 4, sbj: 2}, {t: 9, sbj: 2}, {t: 10, sbj: -1}, {t: -1, sbj: -1},
	} {
		assert.Equal(test.sbj, s.Subject(test.t), "observation %d", test.t)
	}

	var empty SubjectIndex
	assert.Equal(0, empty.NumSubjects())
	assert.Equal(0, empty.Total())
}

func TestCheckStochastic(t *testing.T) {
	assert := assert.New(t)

	for _, test := range []struct {
		m  *mat.Dense
		ok bool
	}{
		{m: mat.NewDense(1, 1, []float64{1}), ok: true},
		{m: mat.NewDense(2, 2, []float64{0.9, 0.1, 0.2, 0.8}), ok: true},
		{m: mat.NewDense(2, 2, []float64{0.9, 0.1, 0.2, 0.7}), ok: false},
		{m: mat.NewDense(2, 2, []float64{1.1, -0.1, 0.2, 0.8}), ok: false},
		{m: mat.NewDense(2, 2, []float64{math.NaN(), 1, 0, 1}), ok: false},
		{m: mat.NewDense(1, 2, []float64{0.5, 0.5}), ok: false},
	} {
		err := CheckStochastic(test.m, 1e-8)
		if test.ok {
			assert.NoError(err)
		} else {
			assert.Error(err)
		}
	}
}

func TestNumericJacobian(t *testing.T) {
	assert := assert.New(t)

	params := []float64{9.81, 0.3, 0.4, -1.2}
	jac := NumericJacobian(pendulum, 2)

	got := mat.NewDense(2, 2, nil)
	jac(got, 0, 0, params, nil)

	want := mat.NewDense(2, 2, nil)
	pendulumJac(want, 0, 0, params, nil)

	assert.True(mat.EqualApprox(want, got, 1e-6), "got: %v", mat.Formatted(got))
	// state is read from params but never modified
	assert.Equal([]float64{9.81, 0.3, 0.4, -1.2}, params)
}
