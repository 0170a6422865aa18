/*package array implements labeled, chunked, lazily evaluated arrays of
float64 values.

An Array has named dimensions, optional coordinates along those dimensions,
and is split into a grid of blocks. The values of each block are produced
by a task in a graph.Graph, so operations on arrays only add tasks and
nothing is computed until Compute or Values is called with a
graph.Scheduler.
*/
package array

import (
	"context"
	"fmt"

	"github.com/phil-mansfield/xspline/graph"
)

// Array is a lazily evaluated labeled array. Unit gives the encoding of the
// array's values: arrays of times hold integer ticks stored as float64s.
type Array struct {
	Layout
	Unit Unit

	name string
	graph *graph.Graph
}

// New creates an unchunked array from row-major data. coords may be nil and
// may leave out any dimension. data is not copied and must not be modified
// afterwards.
func New(
	data []float64, dims []string, shape []int, coords map[string]*Coord,
) (*Array, error) {
	l, err := NewLayout(dims, shape, coords)
	if err != nil { return nil, err }
	if len(data) != l.Size() {
		return nil, fmt.Errorf(
			"%d values given for an array of shape %v.", len(data), shape,
		)
	}

	a := &Array{Layout: l, name: graph.Token("array"), graph: graph.New()}
	a.graph.Literal(a.Key(make([]int, len(dims))),
		&Block{Shape: append([]int{}, shape...), Data: data})
	return a, nil
}

// FromGraph creates an array whose blocks are the tasks name(idx) in g.
func FromGraph(l Layout, unit Unit, name string, g *graph.Graph) *Array {
	return &Array{Layout: l, Unit: unit, name: name, graph: g}
}

// WithUnit returns a shallow copy of a with a different value encoding.
func (a *Array) WithUnit(unit Unit) *Array {
	out := *a
	out.Unit = unit
	return &out
}

func (a *Array) Name() string { return a.name }
func (a *Array) Graph() *graph.Graph { return a.graph }

// Key returns the key of the task which computes block idx.
func (a *Array) Key(idx []int) graph.Key { return graph.BlockKey(a.name, idx) }

// Keys returns the keys of all blocks in row-major order.
func (a *Array) Keys() []graph.Key {
	blocks := a.Blocks()
	keys := make([]graph.Key, len(blocks))
	for i := range blocks { keys[i] = a.Key(blocks[i]) }
	return keys
}

// Values computes the array and returns its values in row-major order.
func (a *Array) Values(ctx context.Context, s *graph.Scheduler) ([]float64, error) {
	blocks := a.Blocks()
	vals, err := s.Get(ctx, a.graph, a.Keys()...)
	if err != nil { return nil, err }

	full := NewBlock(a.Shape)
	zero := make([]int, len(a.Shape))
	for i, idx := range blocks {
		b, ok := vals[i].(*Block)
		if !ok {
			return nil, fmt.Errorf(
				"Task %s did not produce an array block.", a.Key(idx),
			)
		}
		copyRegion(full, a.BlockOffset(idx), b, zero, a.BlockShape(idx))
	}
	return full.Data, nil
}

// Compute evaluates every block of a and returns an array holding the
// results in a single literal block. The layout, including its chunks, is
// unchanged.
func (a *Array) Compute(ctx context.Context, s *graph.Scheduler) (*Array, error) {
	data, err := a.Values(ctx, s)
	if err != nil { return nil, err }

	out := &Array{
		Layout: a.Layout, Unit: a.Unit,
		name: graph.Token("array"), graph: graph.New(),
	}
	full := &Block{Shape: append([]int{}, a.Shape...), Data: data}
	zero := make([]int, len(a.Shape))
	for _, idx := range a.Blocks() {
		b := NewBlock(a.BlockShape(idx))
		copyRegion(b, zero, full, a.BlockOffset(idx), b.Shape)
		out.graph.Literal(out.Key(idx), b)
	}
	return out, nil
}

// Chunk splits the named dimensions into blocks of the given size, the last
// block taking the remainder. Other dimensions keep their current blocks.
func (a *Array) Chunk(sizes map[string]int) (*Array, error) {
	chunks := make([][]int, len(a.Dims))
	for i := range a.Dims { chunks[i] = a.BlockSizes(i) }

	for dim, size := range sizes {
		axis := a.Axis(dim)
		if axis < 0 {
			return nil, fmt.Errorf("Cannot chunk unknown dimension '%s'.", dim)
		} else if size <= 0 {
			return nil, fmt.Errorf(
				"Chunk size along '%s' is %d, but must be positive.", dim, size,
			)
		}
		chunks[axis] = RegularChunks(a.Shape[axis], size)
	}

	l, err := a.Layout.WithChunks(chunks)
	if err != nil { return nil, err }
	return a.rechunk(l), nil
}

// ChunkAll splits every dimension into blocks of the given size.
func (a *Array) ChunkAll(size int) (*Array, error) {
	sizes := map[string]int{}
	for _, dim := range a.Dims { sizes[dim] = size }
	return a.Chunk(sizes)
}

// RegularChunks splits n elements into blocks of the given size, with the
// remainder in the last block.
func RegularChunks(n, size int) []int {
	if n == 0 { return []int{0} }
	out := []int{}
	for ; n > size; n -= size { out = append(out, size) }
	return append(out, n)
}

// rechunk returns an array with layout l whose blocks are assembled from
// the overlapping blocks of a.
func (a *Array) rechunk(l Layout) *Array {
	out := &Array{
		Layout: l, Unit: a.Unit,
		name: graph.Token("rechunk"), graph: graph.New(),
	}

	for _, idx := range l.Blocks() {
		off, shape := l.BlockOffset(idx), l.BlockShape(idx)

		// Range of source blocks overlapping this block along each axis.
		lo, hi := make([]int, len(idx)), make([]int, len(idx))
		for i := range idx {
			lo[i], hi[i] = overlapping(a.BlockSizes(i), off[i], off[i]+shape[i])
		}
		span := make([]int, len(idx))
		for i := range idx { span[i] = hi[i] - lo[i] }

		deps := []graph.Key{}
		srcOffs, srcShapes := [][]int{}, [][]int{}
		ForEachIndex(span, func(j []int) {
			src := make([]int, len(j))
			for i := range j { src[i] = lo[i] + j[i] }
			deps = append(deps, a.Key(src))
			srcOffs = append(srcOffs, a.BlockOffset(src))
			srcShapes = append(srcShapes, a.BlockShape(src))
		})

		out.graph.Add(out.Key(idx), deps, func(args []interface{}) (interface{}, error) {
			b := NewBlock(shape)
			for k := range args {
				src := args[k].(*Block)
				start, end := make([]int, len(off)), make([]int, len(off))
				dstOff, srcOff := make([]int, len(off)), make([]int, len(off))
				region := make([]int, len(off))
				for i := range off {
					start[i] = max(off[i], srcOffs[k][i])
					end[i] = min(off[i]+shape[i], srcOffs[k][i]+srcShapes[k][i])
					dstOff[i], srcOff[i] = start[i]-off[i], start[i]-srcOffs[k][i]
					region[i] = end[i] - start[i]
				}
				copyRegion(b, dstOff, src, srcOff, region)
			}
			return b, nil
		})
	}

	out.graph = graph.Merge(a.graph, out.graph)
	return out
}

// overlapping returns the half-open range of blocks with the given sizes
// that intersect [start, end). Empty ranges map to the block containing
// start.
func overlapping(sizes []int, start, end int) (lo, hi int) {
	lo, hi = -1, -1
	pos := 0
	for i, n := range sizes {
		if lo < 0 && (pos+n > start || i == len(sizes)-1) { lo = i }
		if pos < end || i == lo { hi = i + 1 }
		pos += n
	}
	if end <= start { hi = lo + 1 }
	return lo, hi
}

// Transpose reorders the dimensions of a. dims must be a permutation of
// a.Dims. Blocks are transposed along with the data.
func (a *Array) Transpose(dims ...string) (*Array, error) {
	if len(dims) != len(a.Dims) {
		return nil, fmt.Errorf(
			"Transpose given dimensions %v, but the array has %v.",
			dims, a.Dims,
		)
	}

	perm := make([]int, len(dims))
	used := make([]bool, len(dims))
	for i, dim := range dims {
		perm[i] = a.Axis(dim)
		if perm[i] < 0 || used[perm[i]] {
			return nil, fmt.Errorf(
				"Transpose given dimensions %v, but the array has %v.",
				dims, a.Dims,
			)
		}
		used[perm[i]] = true
	}

	shape := make([]int, len(dims))
	chunks := make([][]int, len(dims))
	for i := range dims {
		shape[i] = a.Shape[perm[i]]
		chunks[i] = a.BlockSizes(perm[i])
	}

	l, err := NewLayout(dims, shape, a.Coords)
	if err != nil { return nil, err }
	chunked := a.Chunked()
	if l, err = l.WithChunks(chunks); err != nil { return nil, err }
	l.chunked = chunked

	out := &Array{
		Layout: l, Unit: a.Unit,
		name: graph.Token("transpose"), graph: graph.New(),
	}
	for _, idx := range l.Blocks() {
		idx := idx
		srcIdx := make([]int, len(idx))
		for i := range idx { srcIdx[perm[i]] = idx[i] }

		out.graph.Add(out.Key(idx), []graph.Key{a.Key(srcIdx)},
			func(args []interface{}) (interface{}, error) {
				src := args[0].(*Block)
				b := NewBlock(l.BlockShape(idx))
				from := make([]int, len(idx))
				ForEachIndex(b.Shape, func(j []int) {
					for i := range j { from[perm[i]] = j[i] }
					b.Data[b.Index(j)] = src.Data[src.Index(from)]
				})
				return b, nil
			})
	}

	out.graph = graph.Merge(a.graph, out.graph)
	return out, nil
}
