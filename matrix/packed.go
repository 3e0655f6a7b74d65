package matrix

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// PackedSym is a symmetric n x n matrix stored in n*(n+1)/2 elements.
// The first n elements hold the diagonal. The rest hold the strict upper
// triangle ordered by increasing row, then column.
type PackedSym []float64

// NewPackedSym allocates a zeroed PackedSym for an n x n symmetric matrix.
func NewPackedSym(n int) PackedSym {
	return make(PackedSym, PackedLen(n))
}

// PackedLen returns the packed length of an n x n symmetric matrix.
func PackedLen(n int) int {
	return n * (n + 1) / 2
}

// Dim returns the dimension n of the symmetric matrix stored in p.
func (p PackedSym) Dim() int {
	return int(math.Floor(math.Sqrt(2 * float64(len(p)))))
}

// Index returns the offset of element (i, j) in p.
// It panics if either index is out of range.
func (p PackedSym) Index(i, j int) int {
	n := p.Dim()
	if i < 0 || i >= n || j < 0 || j >= n {
		panic(fmt.Sprintf("packed index out of range: (%d, %d) for dim %d", i, j, n))
	}

	return packedIndex(n, i, j)
}

// At returns element (i, j).
func (p PackedSym) At(i, j int) float64 {
	return p[p.Index(i, j)]
}

// Set sets elements (i, j) and (j, i) to v.
func (p PackedSym) Set(i, j int, v float64) {
	p[p.Index(i, j)] = v
}

// Pack stores the upper triangle and diagonal of m in p.
func (p PackedSym) Pack(m mat.Matrix) {
	n := p.Dim()
	for i := 0; i < n; i++ {
		p[i] = m.At(i, i)
		for j := i + 1; j < n; j++ {
			p[packedIndex(n, i, j)] = m.At(i, j)
		}
	}
}

// Unpack stores p in the symmetric matrix dst.
func (p PackedSym) Unpack(dst *mat.SymDense) {
	n := p.Dim()
	for i := 0; i < n; i++ {
		dst.SetSym(i, i, p[i])
		for j := i + 1; j < n; j++ {
			dst.SetSym(i, j, p[packedIndex(n, i, j)])
		}
	}
}

// UnpackDense stores p in dst filling both triangles.
func (p PackedSym) UnpackDense(dst *mat.Dense) {
	n := p.Dim()
	for i := 0; i < n; i++ {
		dst.Set(i, i, p[i])
		for j := i + 1; j < n; j++ {
			v := p[packedIndex(n, i, j)]
			dst.Set(i, j, v)
			dst.Set(j, i, v)
		}
	}
}

// packedIndex returns the offset of (i, j). For i < j this is the row-major
// position within the strict upper triangle, shifted past the diagonal.
// For n <= 3 it is equal to i+j+n-1.
func packedIndex(n, i, j int) int {
	if i == j {
		return i
	}

	if i > j {
		i, j = j, i
	}

	return n + i*n - i*(i+1)/2 + (j - i - 1)
}
