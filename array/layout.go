package array

import (
	"fmt"
)

// Layout holds everything about an array except its values: the names and
// sizes of its dimensions, its coordinates, and how it is split into
// blocks.
//
// Coords may also hold scalar coordinates: length one coordinates whose
// names are not dimensions, such as the position a 0-d slice was taken at.
type Layout struct {
	Dims []string
	Shape []int
	Coords map[string]*Coord

	chunks [][]int
	chunked bool
}

// NewLayout creates an unchunked layout, i.e. one whose arrays are stored
// in a single block.
func NewLayout(
	dims []string, shape []int, coords map[string]*Coord,
) (Layout, error) {
	if len(dims) != len(shape) {
		return Layout{}, fmt.Errorf(
			"%d dimensions given, but shape has %d elements.",
			len(dims), len(shape),
		)
	}

	seen := map[string]bool{}
	for i, dim := range dims {
		if seen[dim] {
			return Layout{}, fmt.Errorf("Dimension '%s' given twice.", dim)
		} else if shape[i] < 0 {
			return Layout{}, fmt.Errorf(
				"Dimension '%s' has negative size %d.", dim, shape[i],
			)
		}
		seen[dim] = true
	}

	l := Layout{
		Dims: append([]string{}, dims...),
		Shape: append([]int{}, shape...),
		Coords: map[string]*Coord{},
	}

	for name, c := range coords {
		if c == nil { continue }
		axis := l.Axis(name)
		if axis < 0 && c.Len() != 1 {
			return Layout{}, fmt.Errorf(
				"Coordinate '%s' is not a dimension and has length %d, " +
					"but scalar coordinates must have length 1.",
				name, c.Len(),
			)
		} else if axis >= 0 && c.Len() != shape[axis] {
			return Layout{}, fmt.Errorf(
				"Coordinate '%s' has length %d, but the dimension has " +
					"size %d.", name, c.Len(), shape[axis],
			)
		}
		l.Coords[name] = c
	}

	l.chunks = make([][]int, len(shape))
	for i := range shape { l.chunks[i] = []int{shape[i]} }
	return l, nil
}

// WithChunks returns a chunked copy of the layout, where chunks[i] gives the
// sizes of the blocks along dimension i.
func (l Layout) WithChunks(chunks [][]int) (Layout, error) {
	if len(chunks) != len(l.Dims) {
		return Layout{}, fmt.Errorf(
			"Chunks given for %d dimensions, but the layout has %d.",
			len(chunks), len(l.Dims),
		)
	}

	out := l.copyChunks()
	for i := range chunks {
		total := 0
		for _, n := range chunks[i] {
			if n < 0 {
				return Layout{}, fmt.Errorf(
					"Negative block size along '%s'.", l.Dims[i],
				)
			}
			total += n
		}
		if total != l.Shape[i] || len(chunks[i]) == 0 {
			return Layout{}, fmt.Errorf(
				"Block sizes %v along '%s' do not add up to its size, %d.",
				chunks[i], l.Dims[i], l.Shape[i],
			)
		}
		out.chunks[i] = append([]int{}, chunks[i]...)
	}
	out.chunked = true
	return out, nil
}

func (l Layout) copyChunks() Layout {
	out := l
	out.chunks = make([][]int, len(l.chunks))
	for i := range l.chunks {
		out.chunks[i] = append([]int{}, l.chunks[i]...)
	}
	return out
}

// Chunked returns true if the layout was explicitly split into blocks.
func (l Layout) Chunked() bool { return l.chunked }

// Chunks returns the block sizes along every dimension, or nil if the
// layout is not chunked.
func (l Layout) Chunks() [][]int {
	if !l.chunked { return nil }
	return l.copyChunks().chunks
}

// BlockSizes returns the sizes of the blocks along the given axis.
func (l Layout) BlockSizes(axis int) []int { return l.chunks[axis] }

// Axis returns the index of dim, or -1 if it is not a dimension.
func (l Layout) Axis(dim string) int {
	for i := range l.Dims {
		if l.Dims[i] == dim { return i }
	}
	return -1
}

// Coord returns the coordinate of dim, or nil if it has none.
func (l Layout) Coord(dim string) *Coord { return l.Coords[dim] }

// Size returns the total number of elements.
func (l Layout) Size() int {
	n := 1
	for _, s := range l.Shape { n *= s }
	return n
}

// NumBlocks returns the number of blocks along each dimension.
func (l Layout) NumBlocks() []int {
	out := make([]int, len(l.chunks))
	for i := range l.chunks { out[i] = len(l.chunks[i]) }
	return out
}

// Blocks returns the index of every block in row-major order.
func (l Layout) Blocks() [][]int {
	out := [][]int{}
	ForEachIndex(l.NumBlocks(), func(idx []int) {
		out = append(out, append([]int{}, idx...))
	})
	return out
}

// BlockShape returns the shape of block idx.
func (l Layout) BlockShape(idx []int) []int {
	shape := make([]int, len(idx))
	for i := range idx { shape[i] = l.chunks[i][idx[i]] }
	return shape
}

// BlockOffset returns the index of the first element of block idx.
func (l Layout) BlockOffset(idx []int) []int {
	off := make([]int, len(idx))
	for i := range idx {
		for j := 0; j < idx[i]; j++ { off[i] += l.chunks[i][j] }
	}
	return off
}

// Drop returns the layout with dim, its coordinate, and its blocks removed.
func (l Layout) Drop(dim string) Layout {
	axis := l.Axis(dim)
	if axis < 0 { return l.copyChunks() }

	out := Layout{Coords: map[string]*Coord{}, chunked: l.chunked}
	for i := range l.Dims {
		if i == axis { continue }
		out.Dims = append(out.Dims, l.Dims[i])
		out.Shape = append(out.Shape, l.Shape[i])
		out.chunks = append(out.chunks, append([]int{}, l.chunks[i]...))
	}
	for name, c := range l.Coords {
		if name != dim { out.Coords[name] = c }
	}
	return out
}
