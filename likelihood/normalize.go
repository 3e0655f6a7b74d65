package likelihood

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// NormalizeLog turns log-weights v into probabilities in place.
// The weights are first shifted by the midpoint of their range, then
// exponentiated and scaled to sum to 1. For example (-1, -2) becomes
// (e^-1, e^-2)/(e^-1 + e^-2).
// It returns the sum of the shifted exponentiated weights used as normalizer.
//
// The shift keeps every exponent within half the range of v, so the range
// max(v)-min(v) must stay below about 1419 (twice the largest argument math.Exp
// accepts without overflow). Wider ranges make the sum +Inf and the largest
// weights NaN.
func NormalizeLog(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}

	floats.AddConst(-(floats.Min(v)+floats.Max(v))/2, v)
	for i := range v {
		v[i] = math.Exp(v[i])
	}

	return Normalize(v)
}

// NormalizeLogMatrix turns log-weights stored in m into probabilities in place.
// See NormalizeLog for details, including the limit on the range of log-weights.
func NormalizeLogMatrix(m *mat.Dense) float64 {
	if m.IsEmpty() {
		return 0
	}

	shift := (mat.Min(m) + mat.Max(m)) / 2
	m.Apply(func(_, _ int, v float64) float64 {
		return math.Exp(v - shift)
	}, m)

	return NormalizeMatrix(m)
}

// Normalize scales v in place so that its elements sum to 1 and returns the original sum.
func Normalize(v []float64) float64 {
	sum := floats.Sum(v)
	floats.Scale(1/sum, v)

	return sum
}

// NormalizeMatrix scales m in place so that its elements sum to 1 and returns the original sum.
func NormalizeMatrix(m *mat.Dense) float64 {
	sum := mat.Sum(m)
	m.Scale(1/sum, m)

	return sum
}
