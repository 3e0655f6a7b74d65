package coupled

import (
	"math"
	"testing"

	"github.com/milosgajdos/go-dynfit/model"
	"github.com/milosgajdos/go-dynfit/noise"
	"github.com/milosgajdos/go-dynfit/ode"
	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

var params = []float64{1, 1, 0.5, 0.5, math.Log(0.1), math.Log(0.2)}

func TestSpec(t *testing.T) {
	assert := assert.New(t)

	subjects, err := model.NewSubjectIndex([]int{0, 5, 9})
	assert.NoError(err)

	s := New(subjects, ode.NewRK4Solver())
	assert.NoError(s.Validate())
	assert.Equal(4, s.Dims.LatentVar)
	assert.Equal(2, s.Dims.ObsVar)
	assert.Equal(NumFuncParam, s.Dims.FuncParam)
}

func TestDynamics(t *testing.T) {
	assert := assert.New(t)

	x := mat.NewVecDense(4, []float64{0, 1, 0, -1})
	dst := mat.NewVecDense(4, nil)
	Dynamics(dst, 0, 0, x, params, nil)

	assert.Equal([]float64{1, 0, -1, 0}, dst.RawVector().Data)

	x = mat.NewVecDense(4, []float64{1, 2, 3, 4})
	Dynamics(dst, 0, 0, x, params, nil)
	// -1*1 + 0.5*(3-1)*2 = 1, -1*3 + 0.5*(1-3)*4 = -7
	assert.Equal([]float64{2, 1, 4, -7}, dst.RawVector().Data)
}

func TestJacobian(t *testing.T) {
	assert := assert.New(t)

	num := model.NumericJacobian(Dynamics, NumFuncParam)

	for _, x := range [][]float64{
		{0, 1, 0, -1},
		{-0.06391744, 0.29310816, 0.14081910, -0.14157076},
		{1.5, -0.2, 0.7, 2.0},
	} {
		aug := model.AugmentParams(params, NumFuncParam, mat.NewVecDense(4, x))

		want := mat.NewDense(4, 4, nil)
		num(want, 0, 0, aug, nil)

		got := mat.NewDense(4, 4, nil)
		got.Set(0, 0, 42)
		Jacobian(got, 0, 0, aug, nil)

		assert.True(mat.EqualApprox(want, got, 1e-6), "state %v: %v", x, mat.Formatted(got))
	}
}

func TestMeasurement(t *testing.T) {
	assert := assert.New(t)

	h := mat.NewDense(2, 4, nil)
	y := mat.NewVecDense(2, nil)
	x := mat.NewVecDense(4, []float64{1, 2, 3, 4})
	Measurement(h, y, 0, 0, params, x, nil)

	assert.Equal(1.0, y.AtVec(0))
	assert.Equal(3.0, y.AtVec(1))

	hx := mat.NewVecDense(2, nil)
	hx.MulVec(h, x)
	assert.True(mat.Equal(y, hx))
}

func TestNoise(t *testing.T) {
	assert := assert.New(t)

	obsEnc := mat.NewDense(2, 2, nil)
	latentEnc := mat.NewDense(4, 4, nil)
	Noise(obsEnc, latentEnc, 0, 0, params)

	r := &mat.SymDense{}
	noise.FromLDL(r, obsEnc)
	assert.InDelta(0.1, r.At(0, 0), 1e-12)
	assert.InDelta(0.2, r.At(1, 1), 1e-12)
	assert.Equal(0.0, r.At(0, 1))

	q := &mat.SymDense{}
	noise.FromLDL(q, latentEnc)
	for i := 0; i < 4; i++ {
		assert.InDelta(math.Exp(LatentNoise), q.At(i, i), 1e-18)
	}
}

func TestInitialCondition(t *testing.T) {
	assert := assert.New(t)

	subjects, _ := model.NewSubjectIndex([]int{0, 5, 9, 12})
	s := New(subjects, ode.NewRK4Solver())

	ic, err := s.InitialConditions(params, nil)
	assert.NoError(err)

	assert.Equal(1.0, ic.RegimePrior.AtVec(0))
	for sbj := 0; sbj < 3; sbj++ {
		assert.Equal(initState, ic.State(0, sbj).RawVector().Data)
	}

	cov := &mat.SymDense{}
	noise.FromLDL(cov, ic.Covs[0])
	assert.True(mat.Equal(mat.NewDiagDense(4, []float64{1, 1, 1, 1}), cov))
}

func TestRegimeSwitch(t *testing.T) {
	assert := assert.New(t)

	m := mat.NewDense(1, 1, []float64{0.3})
	RegimeSwitch(m, 0, 0, params, nil)
	assert.NoError(model.CheckStochastic(m, 0))
}

func TestTransform(t *testing.T) {
	assert := assert.New(t)

	s := New(nil, nil)
	p := s.Params([]float64{0, math.Log(2), -1, 0.5, 3, 4})
	assert.InDeltaSlice([]float64{1, 2, -1, 0.5, 3, 4}, p, 1e-12)
}
