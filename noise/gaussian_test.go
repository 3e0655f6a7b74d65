package noise

import (
	"math"
	"testing"

	dynfit "github.com/milosgajdos/go-dynfit"
	"github.com/milosgajdos/go-dynfit/rand"
	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func TestNewGaussian(t *testing.T) {
	assert := assert.New(t)
	for _, test := range []struct {
		mean []float64
		cov  *mat.SymDense
		ok   bool
	}{
		{
			mean: []float64{2, 3},
			cov:  mat.NewSymDense(2, []float64{1, 0.1, 0.1, 1}),
			ok:   true,
		},
		{
			mean: []float64{0, 0},
			cov:  mat.NewSymDense(2, []float64{1, 2, 2, 1}),
			ok:   false,
		},
	} {
		g, err := NewGaussian(test.mean, test.cov, rand.NewSource(1))
		if test.ok {
			assert.NotNil(g)
			assert.NoError(err)
			continue
		}
		assert.Nil(g)
		assert.Error(err)
	}

	g, err := NewGaussian([]float64{0}, mat.NewSymDense(1, []float64{1}), nil)
	assert.Nil(g)
	assert.Error(err)
}

func TestNewGaussianLDL(t *testing.T) {
	assert := assert.New(t)

	enc := mat.NewDense(2, 2, []float64{math.Log(4), 0, 0, math.Log(9)})
	g, err := NewGaussianLDL(enc, rand.NewSource(1))
	assert.NotNil(g)
	assert.NoError(err)

	assert.EqualValues([]float64{0, 0}, g.Mean())
	assert.InDelta(4.0, g.Cov().At(0, 0), 1e-12)
	assert.InDelta(9.0, g.Cov().At(1, 1), 1e-12)
	assert.InDelta(0.0, g.Cov().At(0, 1), 1e-12)
}

func TestMeanCov(t *testing.T) {
	assert := assert.New(t)

	mean := []float64{2, 3}
	cov := mat.NewSymDense(2, []float64{1, 0.1, 0.1, 1})

	g, err := NewGaussian(mean, cov, rand.NewSource(1))
	assert.NotNil(g)
	assert.NoError(err)

	gCov := g.Cov()
	assert.Equal(cov.SymmetricDim(), gCov.SymmetricDim())
	assert.True(mat.Equal(cov, gCov))
	assert.EqualValues(mean, g.Mean())
}

func TestSample(t *testing.T) {
	assert := assert.New(t)

	mean := []float64{2, -3}
	cov := mat.NewSymDense(2, []float64{1, 0.1, 0.1, 1})

	g, err := NewGaussian(mean, cov, rand.NewSource(7))
	assert.NotNil(g)
	assert.NoError(err)

	sample := g.Sample()
	r, _ := sample.Dims()
	assert.Equal(len(mean), r)

	n := 20000
	sum := make([]float64, len(mean))
	for i := 0; i < n; i++ {
		s := g.Sample()
		for j := range sum {
			sum[j] += s.AtVec(j)
		}
	}
	for j := range sum {
		assert.InDelta(mean[j], sum[j]/float64(n), 0.05)
	}

	// same seed yields the same samples
	g1, _ := NewGaussian(mean, cov, rand.NewSource(3))
	g2, _ := NewGaussian(mean, cov, rand.NewSource(3))
	assert.True(mat.Equal(g1.Sample(), g2.Sample()))
}

func TestReset(t *testing.T) {
	assert := assert.New(t)
	mean := []float64{2, 3}
	cov := mat.NewSymDense(2, []float64{1, 0.1, 0.1, 1})

	g, err := NewGaussian(mean, cov, rand.NewSource(1))
	assert.NotNil(g)
	assert.NoError(err)

	sample1 := g.Sample()

	err = g.Reset()
	assert.NoError(err)

	sample2 := g.Sample()
	assert.NotEqual(sample1, sample2)
}

func TestString(t *testing.T) {
	assert := assert.New(t)

	str := `Gaussian{
Mean=[2 3]
Cov=⎡  1  0.1⎤
    ⎣0.1    1⎦
}`
	mean := []float64{2, 3}
	cov := mat.NewSymDense(2, []float64{1, 0.1, 0.1, 1})

	g, err := NewGaussian(mean, cov, rand.NewSource(1))
	assert.NotNil(g)
	assert.NoError(err)
	assert.Equal(str, g.String())
}

func TestNoise(t *testing.T) {
	assert := assert.New(t)

	g, err := NewGaussian([]float64{0, 0}, mat.NewSymDense(2, []float64{1, 0, 0, 1}), rand.NewSource(1))
	assert.NoError(err)

	for _, n := range []dynfit.Noise{g} {
		assert.Equal(2, n.Sample().Len())
		assert.Equal(2, n.Cov().SymmetricDim())
	}
}
