package xspline

import (
	"github.com/phil-mansfield/xspline/array"
)

// broadcast returns the layout of evaluating models with layout m at points
// with layout q: the dimensions of q followed by those of m, with each
// dimension keeping the blocks of its source. The result is chunked if
// either input is. A coordinate of q named after a dimension of m is an
// overlap just like a shared dimension.
func broadcast(q, m array.Layout) (array.Layout, error) {
	for _, dim := range q.Dims {
		if m.Axis(dim) >= 0 { return array.Layout{}, &OverlapError{Dim: dim} }
	}
	for name := range q.Coords {
		if m.Axis(name) >= 0 { return array.Layout{}, &OverlapError{Dim: name} }
	}

	n := len(q.Dims) + len(m.Dims)
	dims := make([]string, 0, n)
	dims = append(append(dims, q.Dims...), m.Dims...)
	shape := make([]int, 0, n)
	shape = append(append(shape, q.Shape...), m.Shape...)

	coords := map[string]*array.Coord{}
	for name, c := range m.Coords {
		if q.Axis(name) < 0 { coords[name] = c }
	}
	for name, c := range q.Coords { coords[name] = c }

	out, err := array.NewLayout(dims, shape, coords)
	if err != nil { return array.Layout{}, err }
	if !q.Chunked() && !m.Chunked() { return out, nil }

	chunks := make([][]int, 0, n)
	for i := range q.Dims { chunks = append(chunks, q.BlockSizes(i)) }
	for i := range m.Dims { chunks = append(chunks, m.BlockSizes(i)) }
	return out.WithChunks(chunks)
}
