package interpolate

import (
	"math"
)

// findInterval returns the index l of the knot span containing x, which
// satisfies t[l] <= x < t[l+1] and k <= l < n. Points below the domain map
// to the first span and points at or above the upper edge map to the last
// one, so that evaluation outside the domain continues the end pieces. NaN
// maps to -1.
func findInterval(t []float64, k int, x float64) int {
	n := len(t) - k - 1
	if math.IsNaN(x) {
		return -1
	} else if x < t[k] {
		return k
	} else if x >= t[n] {
		return n - 1
	}

	// Binary search. t[lo] <= x < t[hi] throughout.
	lo, hi := k, n
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if x >= t[mid] {
			lo = mid
		} else {
			hi = mid
		}
	}
	return lo
}

// basisAt writes the k+1 B-spline basis functions which are non-zero on the
// span l, B_{l-k}, ..., B_l, evaluated at x into h. This is de Boor's
// triangular recurrence; for x outside the span it evaluates the polynomial
// pieces of that span.
func basisAt(t []float64, k int, x float64, l int, h []float64) {
	hh := make([]float64, k)

	h[0] = 1
	for j := 1; j <= k; j++ {
		copy(hh[:j], h[:j])
		h[0] = 0
		for n := 1; n <= j; n++ {
			ind := l + n
			xb, xa := t[ind], t[ind-j]
			if xb == xa {
				h[n] = 0
				continue
			}
			w := hh[n-1] / (xb - xa)
			h[n-1] += w * (xb - x)
			h[n] = w * (x - xa)
		}
	}
}
