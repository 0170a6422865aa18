package mat

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gmat "gonum.org/v1/gonum/mat"
)

// band builds the same matrix as a BandMatrix and as a dense gonum matrix
// from a function of (i, j). Values outside the band are ignored.
func band(n, kl, ku int, f func(i, j int) float64) (*BandMatrix, *gmat.Dense) {
	B := NewBandMatrix(n, kl, ku)
	D := gmat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := max(0, i-kl); j <= min(n-1, i+ku); j++ {
			B.Set(i, j, f(i, j))
			D.Set(i, j, f(i, j))
		}
	}
	return B, D
}

func solveDense(t *testing.T, D *gmat.Dense, bs []float64) []float64 {
	t.Helper()
	var x gmat.VecDense
	require.NoError(t, x.SolveVec(D, gmat.NewVecDense(len(bs), bs)))
	return x.RawVector().Data
}

func TestSolveVectorMatchesGonum(t *testing.T) {
	tests := []struct {
		n, kl, ku int
	}{
		{1, 0, 0}, {5, 1, 1}, {9, 2, 1}, {9, 1, 3}, {12, 3, 3}, {6, 5, 5},
	}

	for _, test := range tests {
		// Small diagonals force row swaps.
		B, D := band(test.n, test.kl, test.ku, func(i, j int) float64 {
			if i == j { return 0.1 + 0.01*float64(i) }
			return math.Sin(float64(3*i + 7*j + 1))
		})
		bs := make([]float64, test.n)
		for i := range bs { bs[i] = float64(i*i) - 3 }

		xs := B.LU().SolveVector(bs, make([]float64, test.n))
		want := solveDense(t, D, bs)
		for i := range want {
			assert.InDelta(t, want[i], xs[i], 1e-8*(1+math.Abs(want[i])),
				"n = %d, kl = %d, ku = %d, x[%d]", test.n, test.kl, test.ku, i)
		}
	}
}

func TestPivotingRequired(t *testing.T) {
	// A zero in the leading position fails without row swaps.
	B := NewBandMatrix(2, 1, 1)
	B.Set(0, 1, 1)
	B.Set(1, 0, 1)
	xs := B.LU().SolveVector([]float64{3, 4}, make([]float64, 2))
	assert.Equal(t, []float64{4, 3}, xs)
}

func TestLUReuse(t *testing.T) {
	B, D := band(3, 1, 1, func(i, j int) float64 {
		if i == j { return 4 }
		return 1
	})
	luf := B.LU()

	for _, bs := range [][]float64{{1, 0, 0}, {0, 1, 0}, {5, 6, 5}} {
		xs := luf.SolveVector(bs, make([]float64, 3))
		assert.InDeltaSlice(t, solveDense(t, D, bs), xs, 1e-12)
	}

	// Solving in place.
	bs := []float64{5, 6, 5}
	luf.SolveVector(bs, bs)
	assert.InDeltaSlice(t, []float64{1, 1, 1}, bs, 1e-12)
}

func TestLargeSystem(t *testing.T) {
	n := 20000
	B := NewBandMatrix(n, 3, 3)
	for i := 0; i < n; i++ {
		for j := max(0, i-3); j <= min(n-1, i+3); j++ {
			if i == j {
				B.Set(i, j, 8)
			} else {
				B.Set(i, j, 1)
			}
		}
	}

	// Row sums give the right hand side for xs = 1.
	bs := make([]float64, n)
	for i := range bs { bs[i] = 8 + float64(min(n-1, i+3)-max(0, i-3)) }
	xs := B.LU().SolveVector(bs, make([]float64, n))
	for i := range xs {
		require.InDelta(t, 1.0, xs[i], 1e-9, "x[%d]", i)
	}
}

func TestSingular(t *testing.T) {
	B := NewBandMatrix(2, 1, 1)
	B.Set(0, 0, 1)
	B.Set(0, 1, 2)
	B.Set(1, 0, 2)
	B.Set(1, 1, 4)
	assert.True(t, B.LU().Singular())

	B.Set(1, 1, 5)
	assert.False(t, B.LU().Singular())
}

func TestNaNPropagates(t *testing.T) {
	B, _ := band(4, 1, 1, func(i, j int) float64 {
		if i == j { return 4 }
		return 1
	})
	xs := B.LU().SolveVector([]float64{math.NaN(), 1, 1, 1}, make([]float64, 4))
	for i, x := range xs {
		assert.True(t, math.IsNaN(x), "x[%d] = %g", i, x)
	}
}

func TestBandMatrixPanics(t *testing.T) {
	assert.Panics(t, func() { NewBandMatrix(0, 1, 1) })
	assert.Panics(t, func() { NewBandMatrix(3, -1, 1) })

	B := NewBandMatrix(4, 1, 2)
	assert.NotPanics(t, func() { B.Set(0, 2, 1) })
	assert.NotPanics(t, func() { B.Set(3, 2, 1) })
	assert.Panics(t, func() { B.Set(0, 3, 1) })
	assert.Panics(t, func() { B.Set(3, 1, 1) })
	assert.Panics(t, func() { B.Set(4, 4, 1) })

	luf := B.LU()
	assert.Panics(t, func() { luf.SolveVector(make([]float64, 3), make([]float64, 4)) })
}
