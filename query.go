package xspline

import (
	"time"

	"github.com/phil-mansfield/xspline/array"
)

// Query is a set of points to evaluate splines at. It is one of Scalar,
// Sequence, or Labeled.
type Query interface {
	// labeled converts the points to an array. dim is the interpolation
	// dimension of the models being evaluated.
	labeled(dim string) (*array.Array, error)
}

// Scalar is a single point. If Unit is a time unit, Value is a tick count
// at that precision.
type Scalar struct {
	Value float64
	Unit array.Unit
}

// ScalarAt returns a time Scalar at the given precision.
func ScalarAt(unit array.Unit, t time.Time) Scalar {
	return Scalar{Value: float64(unit.Ticks(t)), Unit: unit}
}

// Sequence is a flat list of points. The result of evaluating it has one
// dimension, named after the interpolation dimension, with the points as
// its coordinate. If ChunkSize is positive, that dimension is split into
// blocks of that size.
type Sequence struct {
	Coord *array.Coord
	ChunkSize int
}

// Points returns a Sequence of numbers.
func Points(xs ...float64) Sequence {
	return Sequence{Coord: array.Numbers(xs...)}
}

// Labeled uses the values of an array as points. The dimensions of the
// array become the leading dimensions of the result and must not be
// dimensions of the models.
type Labeled struct {
	*array.Array
}

func (s Scalar) labeled(dim string) (*array.Array, error) {
	c := array.Numbers(s.Value)
	if s.Unit.IsTime() { c = array.Times(s.Unit, int64(s.Value)) }

	a, err := array.New(
		[]float64{s.Value}, nil, nil, map[string]*array.Coord{dim: c},
	)
	if err != nil { return nil, err }
	return a.WithUnit(s.Unit), nil
}

func (s Sequence) labeled(dim string) (*array.Array, error) {
	unit := s.Coord.Unit()
	vals, err := normalize(s.Coord, dim, unit)
	if err != nil { return nil, err }

	a, err := array.New(
		append([]float64{}, vals...), []string{dim}, []int{len(vals)},
		map[string]*array.Coord{dim: s.Coord},
	)
	if err != nil { return nil, err }
	a = a.WithUnit(unit)

	if s.ChunkSize > 0 {
		return a.Chunk(map[string]int{dim: s.ChunkSize})
	}
	return a, nil
}

func (l Labeled) labeled(string) (*array.Array, error) { return l.Array, nil }
