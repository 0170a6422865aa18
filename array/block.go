package array

// Block is one contiguous piece of an array, stored in row-major order.
type Block struct {
	Shape []int
	Data []float64
}

// NewBlock allocates a zeroed block.
func NewBlock(shape []int) *Block {
	n := 1
	for _, s := range shape { n *= s }
	return &Block{Shape: append([]int{}, shape...), Data: make([]float64, n)}
}

// Index returns the position of idx within b.Data.
func (b *Block) Index(idx []int) int {
	i := 0
	for j := range idx { i = i*b.Shape[j] + idx[j] }
	return i
}

// ForEachIndex calls fn on every index of an array with the given shape in
// row-major order. A 0-d shape has exactly one, empty, index. fn must not
// keep idx, since it is reused between calls.
func ForEachIndex(shape []int, fn func(idx []int)) {
	for _, s := range shape {
		if s == 0 { return }
	}

	idx := make([]int, len(shape))
	for {
		fn(idx)

		j := len(shape) - 1
		for ; j >= 0; j-- {
			idx[j]++
			if idx[j] < shape[j] { break }
			idx[j] = 0
		}
		if j < 0 { return }
	}
}

// copyRegion copies a region with the given shape from src, starting at
// srcOff, into dst, starting at dstOff.
func copyRegion(dst *Block, dstOff []int, src *Block, srcOff []int, shape []int) {
	dIdx, sIdx := make([]int, len(shape)), make([]int, len(shape))
	ForEachIndex(shape, func(idx []int) {
		for i := range idx {
			dIdx[i], sIdx[i] = dstOff[i]+idx[i], srcOff[i]+idx[i]
		}
		dst.Data[dst.Index(dIdx)] = src.Data[src.Index(sIdx)]
	})
}
