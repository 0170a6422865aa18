package interpolate

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/phil-mansfield/xspline/math/mat"
)

// BSpline represents a 1D interpolating spline of order k stored in the
// B-spline basis: a knot sequence t and one coefficient per basis function.
//
// A BSpline is never modified after it is created, so it may be shared
// between goroutines.
type BSpline struct {
	t, c []float64
	k int
}

// MakeInterp creates a spline of order k which passes through the table of
// x and y values. xs must be sorted in strictly increasing order and there
// must be at least k+1 points.
//
// k = 0 gives a step function which takes the value ys[i] on
// [xs[i], xs[i+1]), k = 1 gives linear interpolation, and higher orders
// use not-a-knot style knot placement: odd orders place interior knots on
// data points, even orders place them halfway between data points.
//
// NaN values in ys are not removed. For k <= 1 a NaN only affects the spans
// which touch it. For k >= 2 the coefficients are the solution of a linear
// system, and a single NaN makes every coefficient (and so every evaluation)
// NaN.
//
// xs and ys are copied and may be modified after MakeInterp returns.
func MakeInterp(xs, ys []float64, k int) (*BSpline, error) {
	if len(xs) != len(ys) {
		return nil, fmt.Errorf(
			"Table given to MakeInterp() has len(xs) = %d but len(ys) = %d.",
			len(xs), len(ys),
		)
	} else if k < 0 {
		return nil, fmt.Errorf("Spline order must be non-negative, got %d.", k)
	} else if len(xs) < k+1 {
		return nil, fmt.Errorf(
			"An order %d spline needs at least %d points, but %d were given.",
			k, k+1, len(xs),
		)
	} else if floats.HasNaN(xs) {
		return nil, fmt.Errorf("Table given to MakeInterp() has NaN x values.")
	}

	for i := 1; i < len(xs); i++ {
		if xs[i] == xs[i-1] {
			return nil, fmt.Errorf(
				"Table given to MakeInterp() has duplicate x value %g.", xs[i],
			)
		} else if xs[i] < xs[i-1] {
			return nil, fmt.Errorf("Table given to MakeInterp() not sorted.")
		}
	}

	sp := &BSpline{t: knots(xs, k), k: k}

	if k <= 1 {
		sp.c = make([]float64, len(ys))
		copy(sp.c, ys)
		return sp, nil
	}

	c, err := collocate(sp.t, k, xs, ys)
	if err != nil { return nil, err }
	sp.c = c
	return sp, nil
}

// knots returns the knot sequence used for interpolating xs with an order k
// spline. The result always has len(xs) + k + 1 elements.
func knots(xs []float64, k int) []float64 {
	n := len(xs)
	switch k {
	case 0:
		t := make([]float64, 0, n+1)
		t = append(t, xs...)
		return append(t, xs[n-1])
	case 1:
		t := make([]float64, 0, n+2)
		t = append(t, xs[0])
		t = append(t, xs...)
		return append(t, xs[n-1])
	}

	var interior []float64
	if k%2 == 1 {
		m := (k - 1) / 2
		interior = xs[m+1 : n-m-1]
	} else {
		mids := make([]float64, n-1)
		for i := range mids {
			mids[i] = (xs[i] + xs[i+1]) / 2
		}
		interior = mids[k/2 : len(mids)-k/2]
	}

	t := make([]float64, 0, n+k+1)
	for i := 0; i <= k; i++ { t = append(t, xs[0]) }
	t = append(t, interior...)
	for i := 0; i <= k; i++ { t = append(t, xs[n-1]) }
	return t
}

// collocate solves for the coefficients of the spline with knots t which
// takes the value ys[i] at each xs[i]. Row i of the system only has values
// in columns l-k through l, where l is the knot span of xs[i].
func collocate(t []float64, k int, xs, ys []float64) ([]float64, error) {
	n := len(xs)
	spans := make([]int, n)
	kl, ku := 0, 0
	for i, x := range xs {
		l := findInterval(t, k, x)
		spans[i] = l
		kl, ku = max(kl, i-(l-k)), max(ku, l-i)
	}

	A := mat.NewBandMatrix(n, kl, ku)
	h := make([]float64, k+1)
	for i, x := range xs {
		l := spans[i]
		basisAt(t, k, x, l, h)
		for j := range h {
			A.Set(i, l-k+j, h[j])
		}
	}

	luf := A.LU()
	if luf.Singular() {
		return nil, fmt.Errorf(
			"Collocation matrix for an order %d spline is singular.", k,
		)
	}
	return luf.SolveVector(ys, make([]float64, n)), nil
}

// Eval computes the value of the spline at the given point. Points outside
// the domain are evaluated using the polynomial piece closest to them.
func (sp *BSpline) Eval(x float64) float64 {
	l := findInterval(sp.t, sp.k, x)
	if l < 0 { return math.NaN() }

	h := make([]float64, sp.k+1)
	basisAt(sp.t, sp.k, x, l, h)

	sum := 0.0
	for j := range h {
		sum += sp.c[l-sp.k+j] * h[j]
	}
	return sum
}

// Domain returns the range of x values spanned by the table the spline was
// created from.
func (sp *BSpline) Domain() (lo, hi float64) {
	n := len(sp.t) - sp.k - 1
	return sp.t[sp.k], sp.t[n]
}

// Order returns the order of the spline.
func (sp *BSpline) Order() int { return sp.k }

// Knots returns a copy of the spline's knot sequence.
func (sp *BSpline) Knots() []float64 {
	t := make([]float64, len(sp.t))
	copy(t, sp.t)
	return t
}

// Coeffs returns a copy of the spline's B-spline coefficients.
func (sp *BSpline) Coeffs() []float64 {
	c := make([]float64, len(sp.c))
	copy(c, sp.c)
	return c
}

// Scale returns a spline in the variable u = f*x which represents the same
// function: Scale(f).Eval(f*x) == Eval(x). f must be positive. The
// coefficients are shared with sp.
func (sp *BSpline) Scale(f float64) *BSpline {
	if f <= 0 {
		panic(fmt.Sprintf("Spline scale factor must be positive, got %g.", f))
	}
	t := sp.Knots()
	floats.Scale(f, t)
	return &BSpline{t: t, c: sp.c, k: sp.k}
}
