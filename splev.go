package xspline

import (
	"github.com/phil-mansfield/xspline/array"
	"github.com/phil-mansfield/xspline/graph"
)

// Splev evaluates every spline in tck at every point in q. The result has
// the dimensions of the points followed by the dimensions of tck, and is
// split into one block per pair of point and model blocks. ext decides how
// points outside a spline's domain are handled.
//
// If the points and the splines are encoded as times with different
// precisions, both are converted to the finer one. Mixing times and numbers
// returns a *TypeError and labeled points which share a dimension with tck
// return an *OverlapError. Nothing is evaluated until the result is
// computed.
func Splev(q Query, tck *Models, ext Policy) (*array.Array, error) {
	xNew, err := q.labeled(tck.Dim)
	if err != nil { return nil, err }

	unit, err := reconcile(tck.Dim, tck.Unit, xNew.Unit)
	if err != nil { return nil, err }
	l, err := broadcast(xNew.Layout, tck.Layout)
	if err != nil { return nil, err }

	qScale, mScale := scaling(xNew.Unit, unit), scaling(tck.Unit, unit)

	name := graph.Token("splev")
	g := graph.New()
	for _, qi := range xNew.Blocks() {
		for _, mi := range tck.Blocks() {
			idx := make([]int, 0, len(qi)+len(mi))
			idx = append(append(idx, qi...), mi...)

			g.Add(graph.BlockKey(name, idx),
				[]graph.Key{xNew.Key(qi), tck.Key(mi)},
				func(args []interface{}) (interface{}, error) {
					return evalBlock(
						args[0].(*array.Block), args[1].(*ModelBlock),
						qScale, mScale, ext,
					), nil
				})
		}
	}

	g = graph.Merge(xNew.Graph(), tck.Graph(), g)
	return array.FromGraph(l, array.Numeric, name, g), nil
}

// evalBlock evaluates the outer product of a block of points and a block of
// splines.
func evalBlock(
	q *array.Block, m *ModelBlock, qScale, mScale float64, ext Policy,
) *array.Block {
	shape := make([]int, 0, len(q.Shape)+len(m.Shape))
	shape = append(append(shape, q.Shape...), m.Shape...)
	out := array.NewBlock(shape)

	nm := len(m.Splines)
	for i, sp := range m.Splines {
		if mScale != 1 { sp = sp.Scale(mScale) }
		lo, hi := sp.Domain()
		for j, x := range q.Data {
			out.Data[j*nm + i] = sp.Eval(ext.apply(x*qScale, lo, hi))
		}
	}
	return out
}
