/*package xspline fits and evaluates interpolating splines along one
dimension of a labeled, chunked array.

Splrep fits one spline per 1-D slice of an array and Splev evaluates the
resulting collection at new points, broadcasting the points against every
fitted slice. Both only build task graphs; values are computed when the
result is passed to a graph.Scheduler.
*/
package xspline

import (
	"context"
	"fmt"

	"github.com/phil-mansfield/xspline/array"
	"github.com/phil-mansfield/xspline/graph"
	"github.com/phil-mansfield/xspline/math/interpolate"
)

// Models is a lazily fitted collection of splines, one for every cell of
// the source array outside the interpolation dimension. Its layout is the
// source's layout with Dim removed. Unit is the encoding of the x values
// the splines were fitted on.
type Models struct {
	array.Layout
	Dim string
	K int
	Unit array.Unit

	name string
	graph *graph.Graph
}

// ModelBlock holds the splines of one block of a Models in row-major order.
type ModelBlock struct {
	Shape []int
	Splines []*interpolate.BSpline
}

func (m *Models) Name() string { return m.name }
func (m *Models) Graph() *graph.Graph { return m.graph }

// Key returns the key of the task which fits block idx.
func (m *Models) Key(idx []int) graph.Key { return graph.BlockKey(m.name, idx) }

// Splines fits every spline and returns them in row-major order.
func (m *Models) Splines(
	ctx context.Context, s *graph.Scheduler,
) ([]*interpolate.BSpline, error) {
	blocks := m.Blocks()
	keys := make([]graph.Key, len(blocks))
	for i := range blocks { keys[i] = m.Key(blocks[i]) }

	vals, err := s.Get(ctx, m.graph, keys...)
	if err != nil { return nil, err }

	out := make([]*interpolate.BSpline, m.Size())
	global := make([]int, len(m.Shape))
	for i, idx := range blocks {
		b, ok := vals[i].(*ModelBlock)
		if !ok {
			return nil, fmt.Errorf("Task %s did not produce splines.", keys[i])
		}

		off := m.BlockOffset(idx)
		k := 0
		array.ForEachIndex(b.Shape, func(j []int) {
			for d := range j { global[d] = off[d] + j[d] }
			flat := 0
			for d := range global { flat = flat*m.Shape[d] + global[d] }
			out[flat] = b.Splines[k]
			k++
		})
	}
	return out, nil
}
