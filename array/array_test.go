package array

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phil-mansfield/xspline/graph"
)

func arange(n int) []float64 {
	xs := make([]float64, n)
	for i := range xs { xs[i] = float64(i) }
	return xs
}

func TestParseUnit(t *testing.T) {
	for _, u := range []Unit{Day, Hour, Minute, Second, Millisecond, Microsecond, Nanosecond} {
		got, err := ParseUnit(u.String())
		require.NoError(t, err)
		assert.Equal(t, u, got)
	}
	got, err := ParseUnit("")
	require.NoError(t, err)
	assert.Equal(t, Numeric, got)

	_, err = ParseUnit("fortnight")
	assert.Error(t, err)
}

func TestUnits(t *testing.T) {
	assert.Equal(t, Nanosecond, Finer(Day, Nanosecond))
	assert.Equal(t, Second, Finer(Second, Minute))
	assert.Equal(t, 86400.0, Ratio(Day, Second))
	assert.Equal(t, 1e-3, Ratio(Microsecond, Millisecond))
	assert.False(t, Numeric.IsTime())
	assert.True(t, Hour.IsTime())
}

func TestTicks(t *testing.T) {
	jan2 := time.Date(2000, 1, 2, 12, 30, 0, 500, time.UTC)
	assert.Equal(t, int64(10958), Day.Ticks(jan2))
	assert.Equal(t, int64(10958*24+12), Hour.Ticks(jan2))
	assert.Equal(t, jan2.UnixNano(), Nanosecond.Ticks(jan2))
	assert.Equal(t, jan2.UnixNano()/1000, Microsecond.Ticks(jan2))

	assert.Equal(t, "2000-01-02", Day.Format(10958))
	assert.Equal(t, time.Date(2000, 1, 2, 0, 0, 0, 0, time.UTC), Day.Time(10958))

	before := time.Date(1969, 12, 31, 23, 59, 59, 999999000, time.UTC)
	assert.Equal(t, int64(-1), Day.Ticks(before))
	assert.Equal(t, int64(-1), Second.Ticks(before))
	assert.Equal(t, int64(-1), Microsecond.Ticks(before))
	assert.Equal(t, before, Microsecond.Time(-1))
}

func TestCoord(t *testing.T) {
	c := Numbers(3, 1, 2)
	assert.Equal(t, NumberKind, c.Kind())
	assert.Equal(t, 3, c.Len())
	assert.Equal(t, []float64{1, 2}, c.Slice(1, 3).Numbers())
	assert.Equal(t, []float64{2, 3}, c.Take([]int{2, 0}).Numbers())
	assert.True(t, c.Equal(Numbers(3, 1, 2)))
	assert.False(t, c.Equal(Numbers(3, 1)))
	assert.False(t, c.Equal(Labels("a", "b", "c")))

	d := Dates(Day, time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, TimeKind, d.Kind())
	assert.Equal(t, Day, d.Unit())
	assert.Equal(t, "2000-01-01", d.Format(0))
	assert.False(t, d.Equal(Times(Hour, d.Ticks()[0]*24)))

	assert.Equal(t, []float64{0, 1, 2}, Range(3).Numbers())
	assert.Panics(t, func() { Times(Numeric, 1) })
}

func TestNewLayoutErrors(t *testing.T) {
	_, err := NewLayout([]string{"x"}, []int{2, 3}, nil)
	assert.Error(t, err)
	_, err = NewLayout([]string{"x", "x"}, []int{2, 3}, nil)
	assert.Error(t, err)
	_, err = NewLayout([]string{"x"}, []int{2}, map[string]*Coord{"x": Range(3)})
	assert.Error(t, err)
	_, err = NewLayout([]string{"x"}, []int{2}, map[string]*Coord{"y": Range(2)})
	assert.Error(t, err)

	l, err := NewLayout([]string{"x"}, []int{2}, map[string]*Coord{"y": Range(1)})
	require.NoError(t, err)
	assert.Nil(t, l.Chunks())
	assert.False(t, l.Chunked())

	_, err = l.WithChunks([][]int{{1, 2}})
	assert.Error(t, err)
}

func TestLayoutBlocks(t *testing.T) {
	l, err := NewLayout([]string{"x", "y"}, []int{5, 3}, nil)
	require.NoError(t, err)
	l, err = l.WithChunks([][]int{{2, 2, 1}, {3}})
	require.NoError(t, err)

	assert.Equal(t, [][]int{{2, 2, 1}, {3}}, l.Chunks())
	assert.Equal(t, []int{3, 1}, l.NumBlocks())
	assert.Equal(t, [][]int{{0, 0}, {1, 0}, {2, 0}}, l.Blocks())
	assert.Equal(t, []int{4, 0}, l.BlockOffset([]int{2, 0}))
	assert.Equal(t, []int{1, 3}, l.BlockShape([]int{2, 0}))

	d := l.Drop("x")
	assert.Equal(t, []string{"y"}, d.Dims)
	assert.Equal(t, [][]int{{3}}, d.Chunks())
}

func TestForEachIndex(t *testing.T) {
	seen := [][]int{}
	ForEachIndex([]int{2, 2}, func(idx []int) {
		seen = append(seen, append([]int{}, idx...))
	})
	assert.Equal(t, [][]int{{0, 0}, {0, 1}, {1, 0}, {1, 1}}, seen)

	n := 0
	ForEachIndex(nil, func([]int) { n++ })
	assert.Equal(t, 1, n)
	ForEachIndex([]int{3, 0}, func([]int) { n++ })
	assert.Equal(t, 1, n)
}

func TestRegularChunks(t *testing.T) {
	assert.Equal(t, []int{2, 2, 1}, RegularChunks(5, 2))
	assert.Equal(t, []int{3}, RegularChunks(3, 5))
	assert.Equal(t, []int{0}, RegularChunks(0, 5))
}

func TestNewAndValues(t *testing.T) {
	s := graph.NewScheduler(2, 0)
	a, err := New(arange(6), []string{"x", "y"}, []int{2, 3}, nil)
	require.NoError(t, err)
	vals, err := a.Values(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, arange(6), vals)

	_, err = New(arange(5), []string{"x", "y"}, []int{2, 3}, nil)
	assert.Error(t, err)

	scalar, err := New([]float64{4}, nil, nil, nil)
	require.NoError(t, err)
	vals, err = scalar.Values(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, []float64{4}, vals)
}

func TestChunk(t *testing.T) {
	s := graph.NewScheduler(3, 0)
	a, err := New(arange(35), []string{"x", "y"}, []int{7, 5}, nil)
	require.NoError(t, err)

	b, err := a.Chunk(map[string]int{"x": 3})
	require.NoError(t, err)
	assert.Equal(t, [][]int{{3, 3, 1}, {5}}, b.Chunks())

	c, err := b.ChunkAll(2)
	require.NoError(t, err)
	assert.Equal(t, [][]int{{2, 2, 2, 1}, {2, 2, 1}}, c.Chunks())

	for _, arr := range []*Array{b, c} {
		vals, err := arr.Values(context.Background(), s)
		require.NoError(t, err)
		assert.Equal(t, arange(35), vals)
	}

	_, err = a.Chunk(map[string]int{"z": 3})
	assert.Error(t, err)
	_, err = a.Chunk(map[string]int{"x": 0})
	assert.Error(t, err)
}

func TestTranspose(t *testing.T) {
	s := graph.NewScheduler(2, 0)
	a, err := New(arange(6), []string{"x", "y"}, []int{2, 3},
		map[string]*Coord{"y": Labels("a", "b", "c")})
	require.NoError(t, err)
	a, err = a.Chunk(map[string]int{"y": 2})
	require.NoError(t, err)

	b, err := a.Transpose("y", "x")
	require.NoError(t, err)
	assert.Equal(t, []string{"y", "x"}, b.Dims)
	assert.Equal(t, []int{3, 2}, b.Shape)
	assert.Equal(t, [][]int{{2, 1}, {2}}, b.Chunks())
	assert.Equal(t, []string{"a", "b", "c"}, b.Coord("y").Labels())

	vals, err := b.Values(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 3, 1, 4, 2, 5}, vals)

	_, err = a.Transpose("y", "y")
	assert.Error(t, err)
	_, err = a.Transpose("y")
	assert.Error(t, err)
}

func TestCompute(t *testing.T) {
	s := graph.NewScheduler(2, 0)
	a, err := New(arange(6), []string{"x", "y"}, []int{2, 3}, nil)
	require.NoError(t, err)
	a, err = a.ChunkAll(1)
	require.NoError(t, err)
	a, err = a.Transpose("y", "x")
	require.NoError(t, err)

	c, err := a.Compute(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, a.Chunks(), c.Chunks())
	assert.Equal(t, 6, c.Graph().Len())

	vals, err := c.Values(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 3, 1, 4, 2, 5}, vals)
}
