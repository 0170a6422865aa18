package xspline

import (
	"fmt"
	"sort"

	"github.com/phil-mansfield/xspline/array"
	"github.com/phil-mansfield/xspline/graph"
	"github.com/phil-mansfield/xspline/math/interpolate"
)

// Splrep fits an interpolating spline of degree k along dim to every 1-D
// slice of y. dim must be stored in a single block; otherwise
// ErrMultipleChunks is returned. If dim has no coordinate, the positions
// 0, 1, ..., n-1 are used.
//
// Slices need not be sorted: each is sorted by x before fitting, with equal
// x values kept in their original order (the fit itself then rejects them).
// NaN values in y are passed to the fit unchanged, so a NaN only affects
// the pieces whose support contains it.
//
// Nothing is fitted until the result is computed. Label coordinates on dim
// fail with a *TypeError at that point.
func Splrep(y *array.Array, dim string, k int) (*Models, error) {
	axis := y.Axis(dim)
	if axis < 0 {
		return nil, fmt.Errorf(
			"Dimension '%s' not found in array with dimensions %v.",
			dim, y.Dims,
		)
	} else if k < 0 {
		return nil, fmt.Errorf("Spline order is %d, but must be >= 0.", k)
	} else if len(y.BlockSizes(axis)) > 1 {
		return nil, ErrMultipleChunks
	}

	x := y.Coord(dim)
	if x == nil { x = array.Range(y.Shape[axis]) }

	m := &Models{
		Layout: y.Layout.Drop(dim), Dim: dim, K: k, Unit: x.Unit(),
		name: graph.Token("splrep"), graph: graph.New(),
	}

	for _, idx := range m.Blocks() {
		src := make([]int, 0, len(idx)+1)
		src = append(src, idx[:axis]...)
		src = append(src, 0)
		src = append(src, idx[axis:]...)

		m.graph.Add(m.Key(idx), []graph.Key{y.Key(src)},
			func(args []interface{}) (interface{}, error) {
				return fitBlock(args[0].(*array.Block), axis, x, dim, k)
			})
	}

	m.graph = graph.Merge(y.Graph(), m.graph)
	return m, nil
}

// fitBlock fits every slice along axis of a block.
func fitBlock(
	b *array.Block, axis int, x *array.Coord, dim string, k int,
) (*ModelBlock, error) {
	xs, err := normalize(x, dim, x.Unit())
	if err != nil { return nil, err }

	order := make([]int, len(xs))
	for i := range order { order[i] = i }
	sort.SliceStable(order, func(i, j int) bool {
		return xs[order[i]] < xs[order[j]]
	})
	sorted := make([]float64, len(xs))
	for i, j := range order { sorted[i] = xs[j] }

	shape := make([]int, 0, len(b.Shape)-1)
	shape = append(shape, b.Shape[:axis]...)
	shape = append(shape, b.Shape[axis+1:]...)
	out := &ModelBlock{Shape: shape}

	full := make([]int, len(b.Shape))
	ys := make([]float64, len(xs))
	array.ForEachIndex(shape, func(idx []int) {
		if err != nil { return }

		copy(full[:axis], idx[:axis])
		copy(full[axis+1:], idx[axis:])
		for i, j := range order {
			full[axis] = j
			ys[i] = b.Data[b.Index(full)]
		}

		var sp *interpolate.BSpline
		sp, err = interpolate.MakeInterp(sorted, ys, k)
		if err != nil {
			err = fmt.Errorf("Could not fit spline along '%s': %w", dim, err)
			return
		}
		out.Splines = append(out.Splines, sp)
	})

	if err != nil { return nil, err }
	return out, nil
}
