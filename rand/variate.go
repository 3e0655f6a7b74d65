// Package rand provides seedable random variates used for noise simulation
// and initialization.
package rand

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

// Source is a seedable source of random variates.
// Source is not safe for concurrent use: use one Source per goroutine.
type Source struct {
	r *rand.Rand
}

// NewSource creates new Source seeded with seed and returns it.
func NewSource(seed uint64) *Source {
	return &Source{
		r: rand.New(rand.NewSource(seed)),
	}
}

// Src returns the underlying random source.
func (s *Source) Src() rand.Source {
	return s.r
}

// Uniform returns a uniformly distributed number in (0, 1].
func (s *Source) Uniform() float64 {
	return (float64(s.r.Int63()) + 1.0) / (float64(math.MaxInt64) + 1.0)
}

// StdNormal returns a standard normal variate generated with the Box-Muller transform.
func (s *Source) StdNormal() float64 {
	return math.Sqrt(-2*math.Log(s.Uniform())) * math.Cos(2*math.Pi*s.Uniform())
}

// Normal returns a normal variate with mean mu and standard deviation sigma.
func (s *Source) Normal(mu, sigma float64) float64 {
	return s.StdNormal()*sigma + mu
}

// WhiteNoise fills dst with zero-mean normal variates whose
// standard deviations are given by the elements of sigma.
func (s *Source) WhiteNoise(dst *mat.VecDense, sigma mat.Vector) {
	for i := 0; i < sigma.Len(); i++ {
		dst.SetVec(i, s.Normal(0, sigma.AtVec(i)))
	}
}

// PosDiag zeroes dst and fills its diagonal with absolute standard normal variates.
func (s *Source) PosDiag(dst *mat.Dense) {
	dst.Zero()

	r, _ := dst.Dims()
	for i := 0; i < r; i++ {
		dst.Set(i, i, math.Abs(s.StdNormal()))
	}
}
