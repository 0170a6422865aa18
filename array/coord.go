package array

import (
	"strconv"
	"time"
)

// Kind is the element type of a coordinate.
type Kind int

const (
	NumberKind Kind = iota
	LabelKind
	TimeKind
)

func (k Kind) String() string {
	switch k {
	case NumberKind: return "number"
	case LabelKind: return "label"
	case TimeKind: return "time"
	}
	panic("Impossible")
}

// Coord is the sequence of values labeling each index along a dimension.
// Coordinates are never modified after creation; the slices returned by its
// accessors must be treated as read-only.
type Coord struct {
	kind Kind
	unit Unit
	nums []float64
	ticks []int64
	labels []string
}

// Numbers creates a numeric coordinate.
func Numbers(xs ...float64) *Coord {
	return &Coord{kind: NumberKind, nums: xs}
}

// Range creates the numeric coordinate 0, 1, ..., n-1.
func Range(n int) *Coord {
	xs := make([]float64, n)
	for i := range xs { xs[i] = float64(i) }
	return Numbers(xs...)
}

// Labels creates a coordinate of string labels.
func Labels(ls ...string) *Coord {
	return &Coord{kind: LabelKind, labels: ls}
}

// Times creates a time coordinate from ticks at the given precision.
func Times(unit Unit, ticks ...int64) *Coord {
	if !unit.IsTime() {
		panic("Times() requires a time unit, got " + unit.String())
	}
	return &Coord{kind: TimeKind, unit: unit, ticks: ticks}
}

// Dates creates a time coordinate at the given precision from times, which
// are truncated to that precision.
func Dates(unit Unit, ts ...time.Time) *Coord {
	ticks := make([]int64, len(ts))
	for i := range ts { ticks[i] = unit.Ticks(ts[i]) }
	return Times(unit, ticks...)
}

func (c *Coord) Kind() Kind { return c.kind }

// Unit returns the precision of a time coordinate and Numeric otherwise.
func (c *Coord) Unit() Unit { return c.unit }

func (c *Coord) Len() int {
	switch c.kind {
	case NumberKind: return len(c.nums)
	case LabelKind: return len(c.labels)
	default: return len(c.ticks)
	}
}

func (c *Coord) Numbers() []float64 { return c.nums }
func (c *Coord) Labels() []string { return c.labels }
func (c *Coord) Ticks() []int64 { return c.ticks }

// Slice returns the coordinate values with indices in [lo, hi).
func (c *Coord) Slice(lo, hi int) *Coord {
	out := &Coord{kind: c.kind, unit: c.unit}
	switch c.kind {
	case NumberKind: out.nums = c.nums[lo:hi]
	case LabelKind: out.labels = c.labels[lo:hi]
	default: out.ticks = c.ticks[lo:hi]
	}
	return out
}

// Take returns the coordinate values at the given indices.
func (c *Coord) Take(idx []int) *Coord {
	out := &Coord{kind: c.kind, unit: c.unit}
	switch c.kind {
	case NumberKind:
		out.nums = make([]float64, len(idx))
		for i, j := range idx { out.nums[i] = c.nums[j] }
	case LabelKind:
		out.labels = make([]string, len(idx))
		for i, j := range idx { out.labels[i] = c.labels[j] }
	default:
		out.ticks = make([]int64, len(idx))
		for i, j := range idx { out.ticks[i] = c.ticks[j] }
	}
	return out
}

// Equal returns true if both coordinates have the same kind, unit and
// values.
func (c *Coord) Equal(o *Coord) bool {
	if c == nil || o == nil { return c == o }
	if c.kind != o.kind || c.unit != o.unit || c.Len() != o.Len() {
		return false
	}
	for i := 0; i < c.Len(); i++ {
		switch c.kind {
		case NumberKind:
			if c.nums[i] != o.nums[i] { return false }
		case LabelKind:
			if c.labels[i] != o.labels[i] { return false }
		default:
			if c.ticks[i] != o.ticks[i] { return false }
		}
	}
	return true
}

// Format prints the i-th value.
func (c *Coord) Format(i int) string {
	switch c.kind {
	case NumberKind:
		return strconv.FormatFloat(c.nums[i], 'g', -1, 64)
	case LabelKind:
		return c.labels[i]
	default:
		return c.unit.Format(c.ticks[i])
	}
}
