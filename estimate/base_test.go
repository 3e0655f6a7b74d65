package estimate

import (
	"testing"

	"github.com/milosgajdos/go-dynfit/matrix"
	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func TestNewBase(t *testing.T) {
	assert := assert.New(t)

	state := mat.NewVecDense(2, []float64{1.0, 1.0})
	cov := mat.NewSymDense(2, []float64{1.0, 0.0, 0.0, 1.0})

	b, err := NewBase(0, state)
	assert.NotNil(b)
	assert.NoError(err)
	assert.Equal(2, b.Cov().SymmetricDim())

	b, err = NewBase(-1, state)
	assert.Nil(b)
	assert.Error(err)

	b, err = NewBaseWithCov(1, state, cov)
	assert.NotNil(b)
	assert.NoError(err)
	assert.Equal(1, b.Regime())

	b, err = NewBaseWithCov(0, state, mat.NewSymDense(1, []float64{1.0}))
	assert.Nil(b)
	assert.Error(err)

	b, err = NewBaseWithCov(-2, state, cov)
	assert.Nil(b)
	assert.Error(err)
}

func TestValCov(t *testing.T) {
	assert := assert.New(t)

	state := mat.NewVecDense(2, []float64{1.0, 2.0})
	cov := mat.NewSymDense(2, []float64{1.0, 2.0, 2.0, 4.0})

	b, err := NewBaseWithCov(0, state, cov)
	assert.NotNil(b)
	assert.NoError(err)

	v := b.Val()
	assert.True(mat.Equal(state, v))
	// returned values are copies
	v.(*mat.VecDense).SetVec(0, 100.0)
	assert.Equal(1.0, b.Val().AtVec(0))

	c := b.Cov()
	assert.True(mat.Equal(cov, c))
	c.(*mat.SymDense).SetSym(0, 1, 100.0)
	assert.Equal(2.0, b.Cov().At(0, 1))
}

func TestPacked(t *testing.T) {
	assert := assert.New(t)

	state := mat.NewVecDense(3, []float64{1.0, 2.0, 3.0})
	cov := mat.NewSymDense(3, []float64{
		1.0, 4.0, 5.0,
		4.0, 2.0, 6.0,
		5.0, 6.0, 3.0,
	})

	b, err := NewBaseWithCov(0, state, cov)
	assert.NoError(err)

	p := b.Packed()
	assert.Equal(matrix.PackedSym{1, 2, 3, 4, 5, 6}, p)

	pb, err := NewBasePacked(0, state, p)
	assert.NotNil(pb)
	assert.NoError(err)
	assert.True(mat.Equal(cov, pb.Cov()))

	pb, err = NewBasePacked(0, state, p[:5])
	assert.Nil(pb)
	assert.Error(err)
}
