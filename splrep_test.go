package xspline

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phil-mansfield/xspline/array"
	"github.com/phil-mansfield/xspline/graph"
)

// wavy returns a 3 x n table with rows sampled from different smooth
// functions at the unsorted positions xs.
func wavy(xs []float64) []float64 {
	n := len(xs)
	data := make([]float64, 3*n)
	for j, x := range xs {
		data[j] = math.Sin(x)
		data[n+j] = x*x - 3*x
		data[2*n+j] = math.Exp(-x / 4)
	}
	return data
}

func TestSplrepPassesThroughData(t *testing.T) {
	xs := []float64{0.5, 3, 1, 2.25, 6, 4, 5.5, 7}
	data := wavy(xs)

	for k := 1; k <= 5; k++ {
		t.Run(fmt.Sprintf("k=%d", k), func(t *testing.T) {
			y := newArray(t, data, []string{"a", "x"}, []int{3, len(xs)},
				map[string]*array.Coord{"x": array.Numbers(xs...)})
			tck, err := Splrep(y, "x", k)
			require.NoError(t, err)
			out, err := Splev(Points(xs...), tck, NoExtrapolate)
			require.NoError(t, err)
			assert.Equal(t, []string{"x", "a"}, out.Dims)

			vals := values(t, out)
			for j := range xs {
				for i := 0; i < 3; i++ {
					assert.InDelta(t, data[i*len(xs)+j], vals[j*3+i], 1e-9,
						"row %d, x = %g", i, xs[j])
				}
			}
		})
	}
}

func TestSplrepSortingInvariance(t *testing.T) {
	sorted := []float64{0.5, 1, 2.25, 3, 4, 5.5, 6, 7}
	perm := []int{3, 0, 7, 1, 5, 2, 6, 4}
	shuffled := make([]float64, len(sorted))
	for i, j := range perm { shuffled[i] = sorted[j] }

	s := graph.NewScheduler(2, 0)
	for k := 0; k <= 3; k++ {
		a := newArray(t, wavy(sorted), []string{"a", "x"}, []int{3, 8},
			map[string]*array.Coord{"x": array.Numbers(sorted...)})
		b := newArray(t, wavy(shuffled), []string{"a", "x"}, []int{3, 8},
			map[string]*array.Coord{"x": array.Numbers(shuffled...)})

		tckA, err := Splrep(a, "x", k)
		require.NoError(t, err)
		tckB, err := Splrep(b, "x", k)
		require.NoError(t, err)

		spA, err := tckA.Splines(context.Background(), s)
		require.NoError(t, err)
		spB, err := tckB.Splines(context.Background(), s)
		require.NoError(t, err)

		require.Len(t, spA, 3)
		require.Len(t, spB, 3)
		for i := range spA {
			assert.Equal(t, spA[i].Knots(), spB[i].Knots())
			assert.Equal(t, spA[i].Coeffs(), spB[i].Coeffs())
		}
	}
}

func TestSplrepModelsLayout(t *testing.T) {
	y := newArray(t, make([]float64, 2*3*4), []string{"a", "x", "b"},
		[]int{2, 3, 4}, map[string]*array.Coord{
			"a": array.Labels("p", "q"),
			"x": array.Numbers(1, 2, 3),
		})
	y, err := y.Chunk(map[string]int{"b": 3})
	require.NoError(t, err)

	tck, err := Splrep(y, "x", 2)
	require.NoError(t, err)
	assert.Equal(t, "x", tck.Dim)
	assert.Equal(t, 2, tck.K)
	assert.Equal(t, []string{"a", "b"}, tck.Dims)
	assert.Equal(t, []int{2, 4}, tck.Shape)
	assert.Equal(t, [][]int{{2}, {3, 1}}, tck.Chunks())
	assert.Nil(t, tck.Coord("x"))
	assert.Equal(t, []string{"p", "q"}, tck.Coord("a").Labels())

	sps, err := tck.Splines(context.Background(), graph.NewScheduler(0, 0))
	require.NoError(t, err)
	assert.Len(t, sps, 8)
	for _, sp := range sps { assert.Equal(t, 2, sp.Order()) }
}

func TestSplrepSplinesOrder(t *testing.T) {
	// Row i is the constant i, so the spline at each cell identifies it.
	data := make([]float64, 0, 5*2)
	for i := 0; i < 5; i++ { data = append(data, float64(i), float64(i)) }
	y := newArray(t, data, []string{"a", "x"}, []int{5, 2}, nil)
	y, err := y.Chunk(map[string]int{"a": 2})
	require.NoError(t, err)

	tck, err := Splrep(y, "x", 1)
	require.NoError(t, err)
	sps, err := tck.Splines(context.Background(), graph.NewScheduler(3, 0))
	require.NoError(t, err)
	for i, sp := range sps {
		assert.Equal(t, float64(i), sp.Eval(0.5))
	}
}

func TestSplrepChunkedX(t *testing.T) {
	y := newArray(t, []float64{10, 20}, []string{"x"}, []int{2},
		map[string]*array.Coord{"x": array.Numbers(1, 2)})
	y, err := y.ChunkAll(1)
	require.NoError(t, err)

	_, err = Splrep(y, "x", 1)
	assert.ErrorIs(t, err, ErrMultipleChunks)
	assert.EqualError(t, err, "Unsupported: multiple chunks on interpolation dim")
}

func TestSplrepErrors(t *testing.T) {
	y := newArray(t, []float64{10, 20}, []string{"x"}, []int{2}, nil)
	_, err := Splrep(y, "z", 1)
	assert.Error(t, err)
	_, err = Splrep(y, "x", -1)
	assert.Error(t, err)

	s := graph.NewScheduler(1, 0)

	// Label coordinates are only rejected once the fit runs.
	labeled := newArray(t, []float64{10, 20}, []string{"x"}, []int{2},
		map[string]*array.Coord{"x": array.Labels("a", "b")})
	tck, err := Splrep(labeled, "x", 1)
	require.NoError(t, err)
	_, err = tck.Splines(context.Background(), s)
	var typeErr *TypeError
	assert.True(t, errors.As(err, &typeErr))

	dup := newArray(t, []float64{10, 20, 30}, []string{"x"}, []int{3},
		map[string]*array.Coord{"x": array.Numbers(1, 2, 1)})
	tck, err = Splrep(dup, "x", 1)
	require.NoError(t, err)
	_, err = tck.Splines(context.Background(), s)
	assert.ErrorContains(t, err, "duplicate")

	short := newArray(t, []float64{10, 20}, []string{"x"}, []int{2}, nil)
	tck, err = Splrep(short, "x", 3)
	require.NoError(t, err)
	_, err = tck.Splines(context.Background(), s)
	assert.Error(t, err)
}

func TestSplrepMissingCoord(t *testing.T) {
	y := newArray(t, []float64{10, 20, 30}, []string{"x"}, []int{3}, nil)
	tck, err := Splrep(y, "x", 1)
	require.NoError(t, err)
	out, err := Splev(Points(0.5, 2), tck, Extrapolate)
	require.NoError(t, err)
	assertClose(t, []float64{15, 30}, values(t, out), 1e-12)
}

func TestSplrepRetainedModels(t *testing.T) {
	y := newArray(t, []float64{10, 20, 30}, []string{"x"}, []int{3}, nil)
	tck, err := Splrep(y, "x", 1)
	require.NoError(t, err)

	s := graph.NewScheduler(2, -1)
	first, err := tck.Splines(context.Background(), s)
	require.NoError(t, err)
	second, err := tck.Splines(context.Background(), s)
	require.NoError(t, err)
	assert.Same(t, first[0], second[0])
}
