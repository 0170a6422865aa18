/*mat contains the banded linear algebra needed to build interpolating
splines. A collocation matrix only has a handful of non-zero values around
its diagonal, so matrices are stored by band and factorized in O(n kl (kl +
ku)) time instead of O(n^3).

The LU decomposition is kept separately from the matrix, so that the same
factorization can be reused for many right hand sides.
*/
package mat

import (
	"math"
)

// BandMatrix represents an n x n matrix whose non-zero values in row i all
// lie in columns i - KL through i + KU.
//
// Each row is stored with room for the fill-in created by row swaps: row i
// holds columns i - KL through i + KL + KU.
type BandMatrix struct {
	Vals []float64
	N, KL, KU int
}

// LUFactors contains the partially pivoted LU decomposition of a band
// matrix. Multipliers are stored below the diagonal in the order that rows
// were eliminated, so pivot[k] is the row swapped with row k at step k.
type LUFactors struct {
	lu BandMatrix
	pivot []int
}

func bandWidth(kl, ku int) int { return 2*kl + ku + 1 }

// NewBandMatrix creates an n x n band matrix of zeros with kl sub-diagonals
// and ku super-diagonals.
func NewBandMatrix(n, kl, ku int) *BandMatrix {
	if n <= 0 {
		panic("n must be positive.")
	} else if kl < 0 || ku < 0 {
		panic("Bandwidths must be non-negative.")
	}

	return &BandMatrix{
		Vals: make([]float64, n*bandWidth(kl, ku)), N: n, KL: kl, KU: ku,
	}
}

func (m *BandMatrix) index(i, j int) int {
	return i*bandWidth(m.KL, m.KU) + j - i + m.KL
}

// Set sets the value in row i, column j. (i, j) must lie inside the band.
func (m *BandMatrix) Set(i, j int, val float64) {
	if i < 0 || i >= m.N || j < 0 || j >= m.N {
		panic("(i, j) lies outside the matrix.")
	} else if j < i - m.KL || j > i + m.KU {
		panic("(i, j) lies outside the band.")
	}
	m.Vals[m.index(i, j)] = val
}

// LU returns the LU decomposition of a matrix.
func (m *BandMatrix) LU() *LUFactors {
	luf := &LUFactors{lu: *m, pivot: make([]int, m.N)}
	luf.lu.Vals = make([]float64, len(m.Vals))
	copy(luf.lu.Vals, m.Vals)

	lu := &luf.lu
	n := lu.N

	// Gaussian elimination with partial pivoting. Only rows k..k+KL have
	// non-zero values in column k, and after swaps row k extends at most
	// to column k+KL+KU.
	for k := 0; k < n; k++ {
		lastRow := min(n-1, k + lu.KL)
		lastCol := min(n-1, k + lu.KL + lu.KU)

		maxRow := findMaxRow(lu, k, lastRow)
		luf.pivot[k] = maxRow
		if maxRow != k { swapRows(lu, k, maxRow, k, lastCol) }

		diag := lu.Vals[lu.index(k, k)]
		if diag == 0 { continue }

		for i := k + 1; i <= lastRow; i++ {
			ik := lu.index(i, k)
			lu.Vals[ik] /= diag
			tmp := lu.Vals[ik]
			for j := k + 1; j <= lastCol; j++ {
				lu.Vals[lu.index(i, j)] -= tmp * lu.Vals[lu.index(k, j)]
			}
		}
	}

	return luf
}

// Finds the index of the row in col..lastRow containing the maximum value in
// the column.
func findMaxRow(lu *BandMatrix, col, lastRow int) int {
	max, maxRow := -1.0, col

	for i := col; i <= lastRow; i++ {
		val := math.Abs(lu.Vals[lu.index(i, col)])
		if val > max {
			max = val
			maxRow = i
		}
	}
	return maxRow
}

// Swaps columns lo..hi of rows i1 and i2.
func swapRows(lu *BandMatrix, i1, i2, lo, hi int) {
	for j := lo; j <= hi; j++ {
		idx1, idx2 := lu.index(i1, j), lu.index(i2, j)
		lu.Vals[idx1], lu.Vals[idx2] = lu.Vals[idx2], lu.Vals[idx1]
	}
}

// Singular returns true if the decomposed matrix has a zero pivot.
func (luf *LUFactors) Singular() bool {
	lu := &luf.lu
	for i := 0; i < lu.N; i++ {
		if lu.Vals[lu.index(i, i)] == 0 { return true }
	}
	return false
}

// SolveVector solves M * xs = bs for xs.
//
// bs and xs may point to the same physical memory. NaN values in bs
// propagate into every element of xs which depends on them.
func (luf *LUFactors) SolveVector(bs, xs []float64) []float64 {
	n := luf.lu.N
	if n != len(bs) {
		panic("len(b) != luf.N")
	} else if n != len(xs) {
		panic("len(x) != luf.N")
	}

	ys := make([]float64, n)
	copy(ys, bs)

	// Solve L * y = P b for y.
	forwardSubst(&luf.lu, luf.pivot, ys)
	// Solve U * x = y for x.
	backSubst(&luf.lu, ys, xs)

	return xs
}

// Applies the row swaps and eliminations of each step to ys in place.
func forwardSubst(lu *BandMatrix, pivot []int, ys []float64) {
	for k := 0; k < lu.N; k++ {
		if p := pivot[k]; p != k { ys[k], ys[p] = ys[p], ys[k] }

		lastRow := min(lu.N-1, k + lu.KL)
		for i := k + 1; i <= lastRow; i++ {
			ys[i] -= lu.Vals[lu.index(i, k)] * ys[k]
		}
	}
}

// Solves U * x = y for x.
// x_i = (y_i - sum_j=i+1^i+KL+KU (beta_ij x_j)) / beta_ii
func backSubst(lu *BandMatrix, ys, xs []float64) {
	for i := lu.N - 1; i >= 0; i-- {
		lastCol := min(lu.N-1, i + lu.KL + lu.KU)
		sum := 0.0
		for j := i + 1; j <= lastCol; j++ {
			sum += lu.Vals[lu.index(i, j)] * xs[j]
		}
		xs[i] = (ys[i] - sum) / lu.Vals[lu.index(i, i)]
	}
}
